package exeval

import (
	"strconv"
	"strings"
)

// ErrorKind identifies the cause of an Error.
type ErrorKind int

const (
	kindNone ErrorKind = iota

	EmptyExpression
	TooLongExpression
	TooManyTokens
	ExceedsMaxASTDepth

	DeficientOpenParenthesis
	DeficientClosedParenthesis
	EmptyParenthesis
	UnknownUnaryPrefixOperator
	UnknownBinaryOperator
	UnknownOperatorSyntax
	RightOperandRequired
	LeftOperandRequired
	RightOperatorRequired
	LeftOperatorRequired
	InvalidNumberLiteral
	UnexpectedPartialExpression
	UnexpectedOperator
	UnexpectedToken

	VariableNotFound
	FunctionNotFound
	InvalidMemoryAddress

	VariableAlreadyDeclared
	FunctionAlreadyConnected
	TooLongVariableName
	TooLongFunctionName

	ReevalNotAvailable

	FunctionError
)

var kindNames = [...]string{
	kindNone:                    "None",
	EmptyExpression:             "EmptyExpression",
	TooLongExpression:           "TooLongExpression",
	TooManyTokens:               "TooManyTokens",
	ExceedsMaxASTDepth:          "ExceedsMaxASTDepth",
	DeficientOpenParenthesis:    "DeficientOpenParenthesis",
	DeficientClosedParenthesis:  "DeficientClosedParenthesis",
	EmptyParenthesis:            "EmptyParenthesis",
	UnknownUnaryPrefixOperator:  "UnknownUnaryPrefixOperator",
	UnknownBinaryOperator:       "UnknownBinaryOperator",
	UnknownOperatorSyntax:       "UnknownOperatorSyntax",
	RightOperandRequired:        "RightOperandRequired",
	LeftOperandRequired:         "LeftOperandRequired",
	RightOperatorRequired:       "RightOperatorRequired",
	LeftOperatorRequired:        "LeftOperatorRequired",
	InvalidNumberLiteral:        "InvalidNumberLiteral",
	UnexpectedPartialExpression: "UnexpectedPartialExpression",
	UnexpectedOperator:          "UnexpectedOperator",
	UnexpectedToken:             "UnexpectedToken",
	VariableNotFound:            "VariableNotFound",
	FunctionNotFound:            "FunctionNotFound",
	InvalidMemoryAddress:        "InvalidMemoryAddress",
	VariableAlreadyDeclared:     "VariableAlreadyDeclared",
	FunctionAlreadyConnected:    "FunctionAlreadyConnected",
	TooLongVariableName:         "TooLongVariableName",
	TooLongFunctionName:         "TooLongFunctionName",
	ReevalNotAvailable:          "ReevalNotAvailable",
	FunctionError:               "FunctionError",
}

func (k ErrorKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "ErrorKind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// Error is the error type returned by every engine operation.
type Error struct {
	// Kind identifies the problem.
	Kind ErrorKind
	// Args are the values substituted for $0, $1, ... in the message.
	Args []string
	// Err is the error returned by a connected function, for FunctionError.
	Err error
}

func (err *Error) Error() string {
	return DefaultMessages.message(err)
}

// Unwrap returns the error from a connected function, if any.
func (err *Error) Unwrap() error {
	return err.Err
}

// Is reports whether target is an *Error of the same kind. This allows
// comparing against the Err sentinels with errors.Is.
func (err *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == err.Kind
}

func newError(kind ErrorKind, args ...string) *Error {
	return &Error{Kind: kind, Args: args}
}

// Sentinels for use with errors.Is.
var (
	ErrEmptyExpression             = &Error{Kind: EmptyExpression}
	ErrTooLongExpression           = &Error{Kind: TooLongExpression}
	ErrTooManyTokens               = &Error{Kind: TooManyTokens}
	ErrExceedsMaxASTDepth          = &Error{Kind: ExceedsMaxASTDepth}
	ErrDeficientOpenParenthesis    = &Error{Kind: DeficientOpenParenthesis}
	ErrDeficientClosedParenthesis  = &Error{Kind: DeficientClosedParenthesis}
	ErrEmptyParenthesis            = &Error{Kind: EmptyParenthesis}
	ErrUnknownUnaryPrefixOperator  = &Error{Kind: UnknownUnaryPrefixOperator}
	ErrUnknownBinaryOperator       = &Error{Kind: UnknownBinaryOperator}
	ErrUnknownOperatorSyntax       = &Error{Kind: UnknownOperatorSyntax}
	ErrRightOperandRequired        = &Error{Kind: RightOperandRequired}
	ErrLeftOperandRequired         = &Error{Kind: LeftOperandRequired}
	ErrRightOperatorRequired       = &Error{Kind: RightOperatorRequired}
	ErrLeftOperatorRequired        = &Error{Kind: LeftOperatorRequired}
	ErrInvalidNumberLiteral        = &Error{Kind: InvalidNumberLiteral}
	ErrUnexpectedPartialExpression = &Error{Kind: UnexpectedPartialExpression}
	ErrUnexpectedOperator          = &Error{Kind: UnexpectedOperator}
	ErrUnexpectedToken             = &Error{Kind: UnexpectedToken}
	ErrVariableNotFound            = &Error{Kind: VariableNotFound}
	ErrFunctionNotFound            = &Error{Kind: FunctionNotFound}
	ErrInvalidMemoryAddress        = &Error{Kind: InvalidMemoryAddress}
	ErrVariableAlreadyDeclared     = &Error{Kind: VariableAlreadyDeclared}
	ErrFunctionAlreadyConnected    = &Error{Kind: FunctionAlreadyConnected}
	ErrTooLongVariableName         = &Error{Kind: TooLongVariableName}
	ErrTooLongFunctionName         = &Error{Kind: TooLongFunctionName}
	ErrReevalNotAvailable          = &Error{Kind: ReevalNotAvailable}
	ErrFunction                    = &Error{Kind: FunctionError}
)

// Catalog maps error kinds to message templates. A template refers to the
// error's Args as $0, $1, and so on.
type Catalog map[ErrorKind]string

// DefaultMessages is the catalog used by Error.Error.
var DefaultMessages = Catalog{
	EmptyExpression:             "The inputted expression is empty.",
	TooLongExpression:           "The length of the expression exceeds the limit (MaxExpressionLength: '$0')",
	TooManyTokens:               "The number of tokens exceeds the limit (MaxTokenCount: '$0')",
	ExceedsMaxASTDepth:          "The depth of the AST exceeds the limit (MaxASTDepth: '$0')",
	DeficientOpenParenthesis:    "The number of open parentheses '(' is deficient.",
	DeficientClosedParenthesis:  "The number of closed parentheses ')' is deficient.",
	EmptyParenthesis:            "The content of parentheses '()' should not be empty.",
	UnknownUnaryPrefixOperator:  "Unknown unary-prefix operator: '$0'",
	UnknownBinaryOperator:       "Unknown binary operator: '$0'",
	UnknownOperatorSyntax:       "Unknown operator syntax: '$0'",
	RightOperandRequired:        "An operand is required at the right of: '$0'",
	LeftOperandRequired:         "An operand is required at the left of: '$0'",
	RightOperatorRequired:       "An operator is required at the right of: '$0'",
	LeftOperatorRequired:        "An operator is required at the left of: '$0'",
	InvalidNumberLiteral:        "Invalid number literal: '$0'",
	UnexpectedPartialExpression: "Unexpected end of a partial expression",
	UnexpectedOperator:          "Unexpected operator: '$0'",
	UnexpectedToken:             "Unexpected token: '$0'",
	VariableNotFound:            "Variable not found: '$0'",
	FunctionNotFound:            "Function not found: '$0'",
	InvalidMemoryAddress:        "Invalid memory address: '$0'",
	VariableAlreadyDeclared:     "The variable '$0' is already declared",
	FunctionAlreadyConnected:    "The function '$0' is already connected",
	TooLongVariableName:         "The length of the variable name exceeds the limit (MaxNameLength: '$0')",
	TooLongFunctionName:         "The length of the function name exceeds the limit (MaxNameLength: '$0')",
	ReevalNotAvailable:          "\"reeval\" is not available before using \"eval\"",
	FunctionError:               "Function Error ('$0'): $1",
}

// Format renders err with the catalog's templates. Errors which are not
// *Error, and kinds missing from the catalog, fall back to DefaultMessages.
func (c Catalog) Format(err error) string {
	e, ok := err.(*Error)
	if !ok {
		return err.Error()
	}
	return c.message(e)
}

func (c Catalog) message(err *Error) string {
	tmpl, ok := c[err.Kind]
	if !ok {
		tmpl, ok = DefaultMessages[err.Kind]
		if !ok {
			return "exeval: " + err.Kind.String()
		}
	}
	args := err.Args
	if err.Kind == FunctionError && len(args) < 2 && err.Err != nil {
		args = append(append(make([]string, 0, 2), args...), err.Err.Error())
	}
	return expand(tmpl, args)
}

// expand replaces $k in tmpl with args[k] in a single pass, so substituted
// text is never expanded again. Placeholders without an argument are kept.
func expand(tmpl string, args []string) string {
	if !strings.Contains(tmpl, "$") {
		return tmpl
	}
	var b strings.Builder
	for {
		k := strings.IndexByte(tmpl, '$')
		if k < 0 {
			b.WriteString(tmpl)
			return b.String()
		}
		b.WriteString(tmpl[:k])
		tmpl = tmpl[k+1:]
		n := 0
		for n < len(tmpl) && '0' <= tmpl[n] && tmpl[n] <= '9' {
			n++
		}
		i, err := strconv.Atoi(tmpl[:n])
		if n == 0 || err != nil || i >= len(args) {
			b.WriteByte('$')
			continue
		}
		b.WriteString(args[i])
		tmpl = tmpl[n:]
	}
}
