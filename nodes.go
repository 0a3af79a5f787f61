package exeval

import (
	"errors"
	"math"
	"strconv"
)

// Function is a function which can be called from expressions.
type Function interface {
	// Invoke calls the function with the values of its arguments, in order.
	// args is reused between calls; Invoke must not retain it. The same
	// slice backs every evaluation of the call, so Invoke must not evaluate
	// the expression that called it again, as with Reeval on the same
	// engine, before it is done reading args. Evaluating on another engine
	// is fine.
	Invoke(args []float64) (float64, error)
}

// FunctionFunc adapts an ordinary function to the Function interface.
type FunctionFunc func(args []float64) (float64, error)

// Invoke calls f(args).
func (f FunctionFunc) Invoke(args []float64) (float64, error) {
	return f(args)
}

// evalNode is a compiled node, ready to evaluate against variable memory.
type evalNode struct {
	kind evalKind

	val  float64 // evalNum
	addr int     // evalVar

	// evalCall
	name string
	fn   Function
	buf  []float64

	// Operands, in order. Calls keep their arguments here.
	args []*evalNode
}

type evalKind int8

const (
	evalNone evalKind = iota

	evalNum  // constant val
	evalVar  // memory[addr]
	evalNeg  // -args[0]
	evalAdd  // args[0] + args[1]
	evalSub  // args[0] - args[1]
	evalMul  // args[0] * args[1]
	evalDiv  // args[0] / args[1]
	evalCall // fn(args...)
)

// compile creates the evaluator for an AST, resolving variables to memory
// addresses and function names to functions.
func compile(n *astNode, vars map[string]int, funcs map[string]Function) (*evalNode, error) {
	switch n.tok.kind {
	case tokenNum:
		v, err := parseNum(n.tok.text)
		if err != nil {
			return nil, err
		}
		return &evalNode{kind: evalNum, val: v}, nil
	case tokenVar:
		addr, ok := vars[n.tok.text]
		if !ok {
			return nil, newError(VariableNotFound, n.tok.text)
		}
		return &evalNode{kind: evalVar, addr: addr}, nil
	case tokenOp:
		// handled below
	default:
		return nil, newError(UnexpectedToken, n.tok.kind.String())
	}

	op := n.tok.op
	if op == opCallBegin {
		if len(n.children) == 0 {
			return nil, newError(UnexpectedPartialExpression)
		}
		name := n.children[0].tok.text
		fn, ok := funcs[name]
		if !ok {
			return nil, newError(FunctionNotFound, name)
		}
		r := &evalNode{kind: evalCall, name: name, fn: fn}
		if err := r.compileArgs(n.children[1:], vars, funcs); err != nil {
			return nil, err
		}
		r.buf = make([]float64, len(r.args))
		return r, nil
	}

	var kind evalKind
	arity := 2
	switch op {
	case opNeg:
		kind, arity = evalNeg, 1
	case opAdd:
		kind = evalAdd
	case opSub:
		kind = evalSub
	case opMul:
		kind = evalMul
	case opDiv:
		kind = evalDiv
	default:
		return nil, newError(UnexpectedOperator, string(op.symbol))
	}
	if len(n.children) != arity {
		return nil, newError(UnexpectedPartialExpression)
	}
	r := &evalNode{kind: kind}
	if err := r.compileArgs(n.children, vars, funcs); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *evalNode) compileArgs(children []*astNode, vars map[string]int, funcs map[string]Function) error {
	r.args = make([]*evalNode, len(children))
	for i, c := range children {
		a, err := compile(c, vars, funcs)
		if err != nil {
			return err
		}
		r.args[i] = a
	}
	return nil
}

// parseNum parses a number literal. Literals too large to represent become
// infinite.
func parseNum(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			// v is ±Inf or 0 already.
			return v, nil
		}
		return 0, newError(InvalidNumberLiteral, s)
	}
	return v, nil
}

// eval computes the node's value.
func (r *evalNode) eval(mem []float64) (float64, error) {
	switch r.kind {
	case evalNum:
		return r.val, nil
	case evalVar:
		if r.addr < 0 || r.addr >= len(mem) {
			return math.NaN(), newError(InvalidMemoryAddress, strconv.Itoa(r.addr))
		}
		return mem[r.addr], nil
	case evalNeg:
		x, err := r.args[0].eval(mem)
		if err != nil {
			return x, err
		}
		return -x, nil
	case evalAdd, evalSub, evalMul, evalDiv:
		x, err := r.args[0].eval(mem)
		if err != nil {
			return x, err
		}
		y, err := r.args[1].eval(mem)
		if err != nil {
			return y, err
		}
		switch r.kind {
		case evalAdd:
			return x + y, nil
		case evalSub:
			return x - y, nil
		case evalMul:
			return x * y, nil
		default:
			// Division by zero gives an infinity or NaN, not an error.
			return x / y, nil
		}
	case evalCall:
		for i, a := range r.args {
			v, err := a.eval(mem)
			if err != nil {
				return v, err
			}
			r.buf[i] = v
		}
		v, err := r.fn.Invoke(r.buf)
		if err != nil {
			return math.NaN(), &Error{Kind: FunctionError, Args: []string{r.name}, Err: err}
		}
		return v, nil
	default:
		panic("exeval: invalid evaluator node kind " + strconv.Itoa(int(r.kind)))
	}
}
