package exeval

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyze(t *testing.T) {
	cases := []struct {
		name string
		src  string
		toks []string
	}{
		{"num", "1", []string{"NumberLiteral:1"}},
		{"frac", "1.5", []string{"NumberLiteral:1.5"}},
		{"exp", "1.2E-3", []string{"NumberLiteral:1.2E-3"}},
		{"exp-plus", "2e+10", []string{"NumberLiteral:2e+10"}},
		{"var", "x", []string{"VariableIdentifier:x"}},
		{"var-digits", "a1", []string{"VariableIdentifier:a1"}},
		{"spaces", " \t1\n", []string{"NumberLiteral:1"}},
		{"add", "x+1", []string{"VariableIdentifier:x", "Operator(Binary):+", "NumberLiteral:1"}},
		{"sub-exp", "1e-3-2", []string{"NumberLiteral:1e-3", "Operator(Binary):-", "NumberLiteral:2"}},
		{"neg", "-x", []string{"Operator(UnaryPrefix):-", "VariableIdentifier:x"}},
		{"neg-neg", "--1", []string{"Operator(UnaryPrefix):-", "Operator(UnaryPrefix):-", "NumberLiteral:1"}},
		{"add-neg", "1+-2", []string{"NumberLiteral:1", "Operator(Binary):+", "Operator(UnaryPrefix):-", "NumberLiteral:2"}},
		{"paren", "(1)", []string{"Parenthesis:(", "NumberLiteral:1", "Parenthesis:)"}},
		{"paren-neg", "(-1)", []string{"Parenthesis:(", "Operator(UnaryPrefix):-", "NumberLiteral:1", "Parenthesis:)"}},
		{
			"call",
			"f(1, x)",
			[]string{"FunctionIdentifier:f", "Operator(Call):(", "NumberLiteral:1", "ExpressionSeparator:,", "VariableIdentifier:x", "Operator(Call):)"},
		},
		{
			"call-empty",
			"f()",
			[]string{"FunctionIdentifier:f", "Operator(Call):(", "Operator(Call):)"},
		},
		{
			"call-grouped",
			"f((1))",
			[]string{"FunctionIdentifier:f", "Operator(Call):(", "Parenthesis:(", "NumberLiteral:1", "Parenthesis:)", "Operator(Call):)"},
		},
		{
			"call-after-call",
			"f(1)-g(2)",
			[]string{
				"FunctionIdentifier:f", "Operator(Call):(", "NumberLiteral:1", "Operator(Call):)",
				"Operator(Binary):-",
				"FunctionIdentifier:g", "Operator(Call):(", "NumberLiteral:2", "Operator(Call):)",
			},
		},
		{
			"neg-arg",
			"f(1,-2)",
			[]string{"FunctionIdentifier:f", "Operator(Call):(", "NumberLiteral:1", "ExpressionSeparator:,", "Operator(UnaryPrefix):-", "NumberLiteral:2", "Operator(Call):)"},
		},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			toks, err := analyze(c.src, DefaultSettings())
			if err != nil {
				t.Fatalf("analyzing %q: %v", c.src, err)
			}
			got := make([]string, len(toks))
			for i, tok := range toks {
				got[i] = tok.String()
			}
			assert.Equal(t, c.toks, got)
		})
	}
}

func TestAnalyzeErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		err  error
	}{
		{"empty", "", ErrEmptyExpression},
		{"blank", " \t\n", ErrEmptyExpression},
		{"open", "((1+2)", ErrDeficientClosedParenthesis},
		{"close", "(1+2))", ErrDeficientOpenParenthesis},
		{"close-first", ")1(", ErrDeficientOpenParenthesis},
		{"empty-paren", "()", ErrEmptyParenthesis},
		{"empty-paren-add", "1+()", ErrEmptyParenthesis},
		{"plus", "+1", ErrUnknownUnaryPrefixOperator},
		{"star", "*1", ErrUnknownUnaryPrefixOperator},
		{"right-operand", "1 + -", ErrRightOperandRequired},
		{"trailing", "1 +", ErrRightOperandRequired},
		{"sep-right", "f(1,)", ErrRightOperandRequired},
		{"sep-left", "f(,1)", ErrLeftOperandRequired},
		{"binary-close", "(1+)", ErrRightOperandRequired},
		{"adjacent", "1 2", ErrRightOperatorRequired},
		{"adjacent-paren", "2(3)", ErrRightOperatorRequired},
		{"adjacent-call", "2 f(3)", ErrRightOperatorRequired},
		{"after-paren", "(1)2", ErrLeftOperatorRequired},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			_, err := analyze(c.src, DefaultSettings())
			if !errors.Is(err, c.err) {
				t.Errorf("analyzing %q: want %v, got %v", c.src, c.err, err)
			}
		})
	}
}

func TestAnalyzeTooManyTokens(t *testing.T) {
	s := DefaultSettings()
	s.MaxTokenCount = 3
	if _, err := analyze("1+2", s); err != nil {
		t.Errorf("3 tokens: %v", err)
	}
	_, err := analyze("1+2+3", s)
	assert.ErrorIs(t, err, ErrTooManyTokens)
}

func TestEscapeLiterals(t *testing.T) {
	cases := []struct {
		src  string
		out  string
		lits []string
	}{
		{"x", "x", nil},
		{"1", "#", []string{"1"}},
		{"1+2", "#+#", []string{"1", "2"}},
		{"1e+5*x", "#*x", []string{"1e+5"}},
		{"1.5e-3", "#", []string{"1.5e-3"}},
		{"1+e-3", "#+e-#", []string{"1", "3"}},
		{"x1", "x1", nil},
		{"1x", "#x", []string{"1"}},
		{"f(1,22)", "f(#,#)", []string{"1", "22"}},
		{"1.2.3", "#.3", []string{"1.2"}},
		{"1e5e6", "#e6", []string{"1e5"}},
	}
	for _, c := range cases {
		out, lits := escapeLiterals(c.src, "#")
		assert.Equal(t, c.out, out, "escaping %q", c.src)
		assert.Equal(t, c.lits, lits, "escaping %q", c.src)
	}
}

func TestAnalyzeRestoresLiterals(t *testing.T) {
	toks, err := analyze("1a + 2", DefaultSettings())
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"VariableIdentifier:1a", "Operator(Binary):+", "NumberLiteral:2"}
	got := make([]string, len(toks))
	for i, tok := range toks {
		got[i] = tok.String()
	}
	assert.Equal(t, want, got)
}
