// Package exeval compiles and evaluates arithmetic expressions over float64.
//
// Expressions are made of number literals like 1.5 or 2E-3, variables,
// function calls like f(x, 2), the binary operators + - * /, unary -, and
// parentheses. Multiplication and division bind more tightly than addition
// and subtraction, and binary operators of the same precedence group to the
// left, so "2 - 3 - 4" is -5. Unary minus binds more tightly than any binary
// operator.
//
// An Engine keeps variables in memory cells that expressions read when they
// are evaluated, not when they are compiled. An expression is compiled when
// it is first given to Eval and kept until a different expression is, so
// evaluating one expression repeatedly for different variable values only
// costs the evaluation:
//
//	e := exeval.New()
//	x, _ := e.DeclareVariable("x")
//	for i := 0; i < 10; i++ {
//		e.WriteVariableAt(x, float64(i))
//		r, _ := e.Eval("x*x - 1")
//		fmt.Println(r)
//	}
//
// Functions are connected by name and may take any number of arguments. The
// preset package has the common mathematical functions.
package exeval
