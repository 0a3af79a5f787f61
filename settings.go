package exeval

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// Splitters contains the characters which always separate tokens.
const Splitters = "+-*/(),"

// spaceEquivalents are treated as spaces when splitting an expression.
const spaceEquivalents = "\n\r\t"

// Settings holds the limits of an engine. The zero value is not usable; start
// from DefaultSettings.
type Settings struct {
	// MaxExpressionLength is the maximum number of runes in an expression.
	MaxExpressionLength int `mapstructure:"max_expression_length"`
	// MaxNameLength is the maximum number of runes in a variable or function
	// name.
	MaxNameLength int `mapstructure:"max_name_length"`
	// MaxTokenCount is the maximum number of tokens in an expression.
	MaxTokenCount int `mapstructure:"max_token_count"`
	// MaxASTDepth is the maximum depth of a parsed expression, counting the
	// root as 1.
	MaxASTDepth int `mapstructure:"max_ast_depth"`
	// EscapedLiteral is the word which stands in for number literals while
	// an expression is split into tokens.
	EscapedLiteral string `mapstructure:"escaped_literal"`
}

// DefaultSettings returns the default limits.
func DefaultSettings() Settings {
	return Settings{
		MaxExpressionLength: 256,
		MaxNameLength:       64,
		MaxTokenCount:       64,
		MaxASTDepth:         32,
		EscapedLiteral:      "@NUMBER_LITERAL@",
	}
}

// Validate reports whether the settings can be used by an engine.
func (s Settings) Validate() error {
	switch {
	case s.MaxExpressionLength <= 0:
		return errors.New("max expression length must be positive, not " + strconv.Itoa(s.MaxExpressionLength))
	case s.MaxNameLength <= 0:
		return errors.New("max name length must be positive, not " + strconv.Itoa(s.MaxNameLength))
	case s.MaxTokenCount <= 0:
		return errors.New("max token count must be positive, not " + strconv.Itoa(s.MaxTokenCount))
	case s.MaxASTDepth <= 0:
		return errors.New("max AST depth must be positive, not " + strconv.Itoa(s.MaxASTDepth))
	case s.EscapedLiteral == "":
		return errors.New("escaped literal word must not be empty")
	case strings.ContainsAny(s.EscapedLiteral, Splitters+spaceEquivalents+" "):
		return errors.New("escaped literal word " + strconv.Quote(s.EscapedLiteral) + " contains a token splitter")
	case s.EscapedLiteral[0] >= '0' && s.EscapedLiteral[0] <= '9':
		return errors.New("escaped literal word " + strconv.Quote(s.EscapedLiteral) + " begins with a digit")
	}
	return nil
}

type opKind int8

const (
	opUnary opKind = iota
	opBinary
	opCall
)

func (k opKind) String() string {
	switch k {
	case opUnary:
		return "UnaryPrefix"
	case opBinary:
		return "Binary"
	case opCall:
		return "Call"
	default:
		return "opKind(" + strconv.Itoa(int(k)) + ")"
	}
}

type operator struct {
	kind   opKind
	symbol byte
	// prec is the precedence value. Lower is more binding.
	prec int
}

const (
	// mostPrior and leastPrior bound the precedences of all operators.
	mostPrior  = 0
	leastPrior = math.MaxInt
)

var (
	opAdd       = operator{opBinary, '+', 400}
	opSub       = operator{opBinary, '-', 400}
	opMul       = operator{opBinary, '*', 300}
	opDiv       = operator{opBinary, '/', 300}
	opNeg       = operator{opUnary, '-', 200}
	opCallBegin = operator{opCall, '(', 100}
	// opCallEnd never causes a reduction by itself.
	opCallEnd = operator{opCall, ')', leastPrior}
)

// operatorSymbols contains the symbols that may appear as unary or binary
// operators.
const operatorSymbols = "+-*/"

// unop gets the unary-prefix operator for a symbol.
func unop(symbol byte) (operator, bool) {
	if symbol == '-' {
		return opNeg, true
	}
	return operator{}, false
}

// binop gets the binary operator for a symbol.
func binop(symbol byte) (operator, bool) {
	switch symbol {
	case '+':
		return opAdd, true
	case '-':
		return opSub, true
	case '*':
		return opMul, true
	case '/':
		return opDiv, true
	default:
		return operator{}, false
	}
}
