package exeval

import (
	"strconv"
	"strings"
)

type token struct {
	kind tokenKind
	text string
	// op is set only for tokenOp.
	op operator
}

func (t token) String() string {
	if t.kind == tokenOp {
		return t.kind.String() + "(" + t.op.kind.String() + "):" + t.text
	}
	return t.kind.String() + ":" + t.text
}

type tokenKind int8

const (
	tokenNone tokenKind = iota
	// tokenNum is a number literal.
	tokenNum
	// tokenOp is a unary, binary, or call operator. The parentheses of a
	// function call are call operators rather than tokenParen.
	tokenOp
	// tokenSep separates function arguments.
	tokenSep
	// tokenParen is a grouping parenthesis.
	tokenParen
	// tokenVar is a variable name.
	tokenVar
	// tokenFunc is a function name, i.e. a name followed by (.
	tokenFunc
)

func (k tokenKind) String() string {
	switch k {
	case tokenNone:
		return "None"
	case tokenNum:
		return "NumberLiteral"
	case tokenOp:
		return "Operator"
	case tokenSep:
		return "ExpressionSeparator"
	case tokenParen:
		return "Parenthesis"
	case tokenVar:
		return "VariableIdentifier"
	case tokenFunc:
		return "FunctionIdentifier"
	default:
		return "tokenKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// leaf reports whether the token is a literal or a variable.
func (t token) leaf() bool {
	return t.kind == tokenNum || t.kind == tokenVar
}

func (t token) isUnary() bool {
	return t.kind == tokenOp && t.op.kind == opUnary
}

func (t token) isBinary() bool {
	return t.kind == tokenOp && t.op.kind == opBinary
}

// analyze splits an expression into classified tokens and checks that they
// are arranged sensibly.
func analyze(expr string, s Settings) ([]token, error) {
	expr, lits := escapeLiterals(expr, s.EscapedLiteral)
	words := splitWords(expr)
	if len(words) == 0 {
		return nil, newError(EmptyExpression)
	}
	if len(words) > s.MaxTokenCount {
		return nil, newError(TooManyTokens, strconv.Itoa(s.MaxTokenCount))
	}
	toks, err := classify(words, lits, s.EscapedLiteral)
	if err != nil {
		return nil, err
	}
	if err := checkParenBalance(toks); err != nil {
		return nil, err
	}
	if err := checkEmptyParens(toks); err != nil {
		return nil, err
	}
	if err := checkLocations(toks); err != nil {
		return nil, err
	}
	return toks, nil
}

// isDigit reports whether r is an ASCII decimal digit.
func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

// boundary reports whether r ends a token, so that a digit following it
// begins a number literal.
func boundary(r rune) bool {
	return r == ' ' || strings.ContainsRune(spaceEquivalents+Splitters, r)
}

// escapeLiterals replaces each number literal in expr with esc. The literals
// are returned in order of appearance. Number literals may contain + or - in
// their exponents, which would otherwise be split as operators.
func escapeLiterals(expr, esc string) (string, []string) {
	src := []rune(expr)
	var (
		b    strings.Builder
		lits []string
	)
	for i := 0; i < len(src); {
		if isDigit(src[i]) && (i == 0 || boundary(src[i-1])) {
			end := scanNum(src, i)
			lits = append(lits, string(src[i:end]))
			b.WriteString(esc)
			i = end
			continue
		}
		b.WriteRune(src[i])
		i++
	}
	return b.String(), lits
}

// scanNum finds the end (exclusive) of the number literal beginning at
// src[start]. A literal is digits, optionally a fractional part, optionally
// an exponent. A sign is part of the literal only immediately following the
// exponent marker; elsewhere it is an operator.
func scanNum(src []rune, start int) int {
	var frac, exp bool
	for i := start; i < len(src); i++ {
		switch r := src[i]; {
		case isDigit(r):
			// do nothing
		case r == '.':
			if frac || exp {
				return i
			}
			frac = true
		case r == 'e', r == 'E':
			if exp {
				return i
			}
			exp = true
		case r == '+', r == '-':
			if !exp || (src[i-1] != 'e' && src[i-1] != 'E') {
				return i
			}
		default:
			return i
		}
	}
	return len(src)
}

// splitWords separates an expression into token words.
func splitWords(expr string) []string {
	var b strings.Builder
	b.Grow(len(expr) * 2)
	for _, r := range expr {
		switch {
		case strings.ContainsRune(Splitters, r):
			b.WriteByte(' ')
			b.WriteRune(r)
			b.WriteByte(' ')
		case strings.ContainsRune(spaceEquivalents, r):
			b.WriteByte(' ')
		default:
			b.WriteRune(r)
		}
	}
	return strings.Fields(b.String())
}

// classify creates tokens from words, restoring escaped literals.
func classify(words, lits []string, esc string) ([]token, error) {
	toks := make([]token, len(words))
	// depth is the current parenthesis depth. calls contains the depths at
	// which function calls began, so that the matching ) ends the call.
	depth := 0
	calls := make(map[int]bool)
	for i, w := range words {
		var tok token
		switch {
		case w == "(":
			depth++
			if i > 0 && toks[i-1].kind == tokenFunc {
				calls[depth] = true
				tok = token{kind: tokenOp, text: w, op: opCallBegin}
			} else {
				tok = token{kind: tokenParen, text: w}
			}
		case w == ")":
			if calls[depth] {
				delete(calls, depth)
				tok = token{kind: tokenOp, text: w, op: opCallEnd}
			} else {
				tok = token{kind: tokenParen, text: w}
			}
			depth--
		case len(w) == 1 && strings.Contains(operatorSymbols, w):
			op, err := classifyOp(w, toks[:i])
			if err != nil {
				return nil, err
			}
			tok = token{kind: tokenOp, text: w, op: op}
		case w == ",":
			tok = token{kind: tokenSep, text: w}
		case w == esc && len(lits) > 0:
			tok = token{kind: tokenNum, text: lits[0]}
			lits = lits[1:]
		default:
			// Words like 1a still contain escaped literals. Put them back so
			// that errors show what was written.
			for strings.Contains(w, esc) && len(lits) > 0 {
				w = strings.Replace(w, esc, lits[0], 1)
				lits = lits[1:]
			}
			if i+1 < len(words) && words[i+1] == "(" {
				tok = token{kind: tokenFunc, text: w}
			} else {
				tok = token{kind: tokenVar, text: w}
			}
		}
		toks[i] = tok
	}
	return toks, nil
}

// classifyOp decides whether an operator symbol is unary or binary from the
// tokens before it.
func classifyOp(w string, prev []token) (operator, error) {
	var last token
	if len(prev) > 0 {
		last = prev[len(prev)-1]
	}
	switch {
	case len(prev) == 0,
		last.text == "(",
		last.kind == tokenSep,
		last.kind == tokenOp && last.op.kind != opCall:
		op, ok := unop(w[0])
		if !ok {
			return operator{}, newError(UnknownUnaryPrefixOperator, w)
		}
		return op, nil
	case last.text == ")", last.leaf():
		op, ok := binop(w[0])
		if !ok {
			return operator{}, newError(UnknownBinaryOperator, w)
		}
		return op, nil
	default:
		return operator{}, newError(UnknownOperatorSyntax, w)
	}
}

// checkParenBalance checks that every ( has a matching ) and vice versa.
func checkParenBalance(toks []token) error {
	depth := 0
	for _, tok := range toks {
		switch tok.text {
		case "(":
			depth++
		case ")":
			depth--
		}
		if depth < 0 {
			return newError(DeficientOpenParenthesis)
		}
	}
	if depth > 0 {
		return newError(DeficientClosedParenthesis)
	}
	return nil
}

// checkEmptyParens checks that no grouping parentheses are empty. Empty
// parentheses of function calls are allowed.
func checkEmptyParens(toks []token) error {
	n := 0
	for _, tok := range toks {
		if tok.kind != tokenParen {
			n++
			continue
		}
		switch tok.text {
		case "(":
			n = 0
		case ")":
			if n == 0 {
				return newError(EmptyParenthesis)
			}
		}
	}
	return nil
}

// checkLocations checks that operators have operands and that operands are
// separated by operators.
func checkLocations(toks []token) error {
	at := func(i int) token {
		if i < 0 || i >= len(toks) {
			return token{}
		}
		return toks[i]
	}
	for i, tok := range toks {
		next, prev := at(i+1), at(i-1)
		// Tokens which can begin an operand.
		nextOperand := next.leaf() || next.text == "(" || next.isUnary() || next.kind == tokenFunc
		// Tokens which can end an operand.
		prevOperand := prev.leaf() || prev.text == ")"
		switch {
		case tok.isUnary():
			if !nextOperand {
				return newError(RightOperandRequired, tok.text)
			}
		case tok.isBinary(), tok.kind == tokenSep:
			if !nextOperand {
				return newError(RightOperandRequired, tok.text)
			}
			if !prevOperand {
				return newError(LeftOperandRequired, tok.text)
			}
		case tok.leaf():
			callBegin := next.kind == tokenOp && next.op == opCallBegin
			if !callBegin && (next.text == "(" || next.leaf() || next.kind == tokenFunc) {
				return newError(RightOperatorRequired, tok.text)
			}
			if prev.text == ")" || prev.leaf() {
				return newError(LeftOperatorRequired, tok.text)
			}
		}
	}
	return nil
}
