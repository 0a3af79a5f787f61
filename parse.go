package exeval

import (
	"strconv"
	"strings"
)

// astNode is a node in the abstract syntax tree of an expression.
//
// Operator nodes hold their operands as children in order. A call node's
// first child is the function identifier and the rest are its arguments.
type astNode struct {
	tok      token
	children []*astNode
}

// pending reports whether n is an operator still waiting for its right
// operand.
func (n *astNode) pending() bool {
	if n.tok.kind != tokenOp {
		return false
	}
	switch n.tok.op.kind {
	case opUnary:
		return len(n.children) < 1
	case opBinary:
		return len(n.children) < 2
	default:
		return false
	}
}

// String formats the tree as nested parenthesized prefix expressions, e.g.
// (+ 1 (* 2 3)) or (- x) for negation. Calls are written (f() a b).
func (n *astNode) String() string {
	var b strings.Builder
	n.fmt(&b)
	return b.String()
}

func (n *astNode) fmt(b *strings.Builder) {
	if len(n.children) == 0 {
		b.WriteString(n.tok.text)
		return
	}
	b.WriteByte('(')
	switch {
	case n.tok.kind == tokenOp && n.tok.op == opCallBegin:
		n.children[0].fmt(b)
		b.WriteString("()")
	default:
		b.WriteString(n.tok.text)
		b.WriteByte(' ')
		n.children[0].fmt(b)
	}
	for _, c := range n.children[1:] {
		b.WriteByte(' ')
		c.fmt(b)
	}
	b.WriteByte(')')
}

// markup writes the tree in an indented XML-like format.
func (n *astNode) markup(b *strings.Builder, indent int) {
	pad := strings.Repeat("  ", indent)
	b.WriteString(pad)
	b.WriteByte('<')
	b.WriteString(n.tok.kind.String())
	b.WriteString(` word="`)
	b.WriteString(n.tok.text)
	b.WriteByte('"')
	if n.tok.kind == tokenOp {
		b.WriteString(` optype="`)
		b.WriteString(n.tok.op.kind.String())
		b.WriteString(`" precedence="`)
		b.WriteString(strconv.Itoa(n.tok.op.prec))
		b.WriteByte('"')
	}
	if len(n.children) == 0 {
		b.WriteString(" />")
		return
	}
	b.WriteByte('>')
	for _, c := range n.children {
		b.WriteByte('\n')
		c.markup(b, indent+1)
	}
	b.WriteByte('\n')
	b.WriteString(pad)
	b.WriteString("</")
	b.WriteString(n.tok.kind.String())
	b.WriteByte('>')
}

// checkDepth checks that no node under n is deeper than limit, where n is at
// depth d.
func (n *astNode) checkDepth(d, limit int) error {
	if d > limit {
		return newError(ExceedsMaxASTDepth, strconv.Itoa(limit))
	}
	for _, c := range n.children {
		if err := c.checkDepth(d+1, limit); err != nil {
			return err
		}
	}
	return nil
}

// depth returns the number of levels in the tree under and including n.
func (n *astNode) depth() int {
	d := 0
	for _, c := range n.children {
		if k := c.depth(); k > d {
			d = k
		}
	}
	return d + 1
}

// lidKind identifies a marker bounding a region of the parser's stack.
type lidKind int8

const (
	// lidNone marks a stack item which holds a node.
	lidNone lidKind = iota
	lidParen
	lidSep
	lidCall
)

type stackItem struct {
	lid lidKind
	n   *astNode
}

// parser holds the working stack while parsing a token list.
type parser struct {
	stack []stackItem
}

func (p *parser) push(n *astNode) {
	p.stack = append(p.stack, stackItem{n: n})
}

func (p *parser) pushLid(lid lidKind) {
	p.stack = append(p.stack, stackItem{lid: lid})
}

// pop removes the node on top of the stack. It is an error if the top is a
// lid or the stack is empty.
func (p *parser) pop() (*astNode, error) {
	if len(p.stack) == 0 {
		return nil, newError(UnexpectedPartialExpression)
	}
	top := p.stack[len(p.stack)-1]
	if top.lid != lidNone {
		return nil, newError(UnexpectedPartialExpression)
	}
	p.stack = p.stack[:len(p.stack)-1]
	return top.n, nil
}

// top returns the node on top of the stack, or nil if the top is a lid or the
// stack is empty.
func (p *parser) top() *astNode {
	if len(p.stack) == 0 {
		return nil
	}
	return p.stack[len(p.stack)-1].n
}

// popPartial pops nodes down to and including the nearest lid of the given
// kind. Separator lids in between are discarded. The nodes are returned in
// the order they were pushed.
func (p *parser) popPartial(end lidKind) ([]*astNode, error) {
	var nodes []*astNode
	for {
		if len(p.stack) == 0 {
			return nil, newError(UnexpectedPartialExpression)
		}
		it := p.stack[len(p.stack)-1]
		p.stack = p.stack[:len(p.stack)-1]
		switch it.lid {
		case end:
			// done
		case lidNone:
			nodes = append(nodes, it.n)
			continue
		case lidSep:
			continue
		default:
			return nil, newError(UnexpectedPartialExpression)
		}
		break
	}
	for i, j := 0, len(nodes)-1; i < j; i, j = i+1, j-1 {
		nodes[i], nodes[j] = nodes[j], nodes[i]
	}
	return nodes, nil
}

// parse builds an AST from validated tokens. Operators bind their right
// operand immediately when they are at least as binding as the next
// operator; otherwise they wait on the stack until a later reduction
// supplies the operand.
func parse(toks []token, s Settings) (*astNode, error) {
	if len(toks) == 0 {
		return nil, newError(EmptyExpression)
	}
	p := parser{stack: make([]stackItem, 0, len(toks))}
	next := nextPrecedences(toks)
	// bindsRight reports whether the token after i is a leaf that the
	// operator at i should take as its operand right away.
	bindsRight := func(i, prec int) bool {
		return i+1 < len(toks) && toks[i+1].leaf() && prec <= next[i]
	}
	for i := 0; i < len(toks); i++ {
		tok := toks[i]
		var n *astNode
		switch tok.kind {
		case tokenNum, tokenVar, tokenFunc:
			p.push(&astNode{tok: tok})
			continue
		case tokenParen:
			if tok.text == "(" {
				p.pushLid(lidParen)
				continue
			}
			nodes, err := p.popPartial(lidParen)
			if err != nil {
				return nil, err
			}
			if len(nodes) != 1 {
				return nil, newError(UnexpectedPartialExpression)
			}
			n = nodes[0]
		case tokenSep:
			p.pushLid(lidSep)
			continue
		case tokenOp:
			n = &astNode{tok: tok}
			switch tok.op.kind {
			case opUnary:
				if bindsRight(i, tok.op.prec) {
					n.children = append(n.children, &astNode{tok: toks[i+1]})
					i++
				}
			case opBinary:
				lhs, err := p.pop()
				if err != nil {
					return nil, err
				}
				n.children = append(n.children, lhs)
				if bindsRight(i, tok.op.prec) {
					n.children = append(n.children, &astNode{tok: toks[i+1]})
					i++
				}
			case opCall:
				if tok.op == opCallBegin {
					callee, err := p.pop()
					if err != nil {
						return nil, err
					}
					if callee.tok.kind != tokenFunc {
						return nil, newError(UnexpectedToken, callee.tok.text)
					}
					n.children = append(n.children, callee)
					p.push(n)
					p.pushLid(lidCall)
					continue
				}
				args, err := p.popPartial(lidCall)
				if err != nil {
					return nil, err
				}
				call, err := p.pop()
				if err != nil {
					return nil, err
				}
				if call.tok.op != opCallBegin || len(call.children) != 1 {
					return nil, newError(UnexpectedPartialExpression)
				}
				call.children = append(call.children, args...)
				n = call
			}
		default:
			return nil, newError(UnexpectedToken, tok.text)
		}
		// An operator still waiting for its operand is not an operand itself.
		if n.pending() {
			p.push(n)
			continue
		}
		// Attach the new node to any waiting operators that bind at least as
		// tightly as whatever comes next.
		for {
			top := p.top()
			if top == nil || !top.pending() || top.tok.op.prec > next[i] {
				break
			}
			p.stack = p.stack[:len(p.stack)-1]
			top.children = append(top.children, n)
			n = top
		}
		p.push(n)
	}
	if len(p.stack) != 1 || p.stack[0].lid != lidNone || p.stack[0].n.pending() {
		return nil, newError(UnexpectedPartialExpression)
	}
	root := p.stack[0].n
	if err := root.checkDepth(1, s.MaxASTDepth); err != nil {
		return nil, err
	}
	return root, nil
}

// nextPrecedences finds, for each token index i, the precedence of the first
// operator after i. Grouping parentheses reset the lookahead: the contents of
// ( are handled before anything outside, and nothing binds across ) or ,.
func nextPrecedences(toks []token) []int {
	next := make([]int, len(toks))
	last := leastPrior
	for i := len(toks) - 1; i >= 0; i-- {
		next[i] = last
		switch tok := toks[i]; tok.kind {
		case tokenOp:
			last = tok.op.prec
		case tokenParen:
			if tok.text == "(" {
				last = mostPrior
			} else {
				last = leastPrior
			}
		case tokenSep:
			last = leastPrior
		}
	}
	return next
}

// Markup parses an expression and formats its syntax tree in an indented
// XML-like format, for inspecting how an expression is understood.
func Markup(expression string, s Settings) (string, error) {
	if err := s.Validate(); err != nil {
		return "", err
	}
	if n := len([]rune(expression)); n > s.MaxExpressionLength {
		return "", newError(TooLongExpression, strconv.Itoa(s.MaxExpressionLength))
	}
	toks, err := analyze(expression, s)
	if err != nil {
		return "", err
	}
	root, err := parse(toks, s)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	root.markup(&b, 0)
	return b.String(), nil
}
