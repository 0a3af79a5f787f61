// Package preset provides ready-made functions to connect to an exeval
// engine.
package preset

import (
	"errors"
	"math"
	"math/big"
	"sort"
	"strconv"

	"github.com/zephyrtronium/exeval"
)

type niladic struct {
	name string
	f    func() float64
}

func (n niladic) Invoke(args []float64) (float64, error) {
	if len(args) != 0 {
		return math.NaN(), ArityError{Func: n.name, Want: 0, Got: len(args)}
	}
	return n.f(), nil
}

// Niladic wraps a function of zero variables, generally a function which
// computes a constant, into a Function.
func Niladic(name string, f func() float64) exeval.Function {
	return niladic{name, f}
}

type monadic struct {
	name string
	f    func(x float64) float64
}

func (m monadic) Invoke(args []float64) (r float64, err error) {
	if len(args) != 1 {
		return math.NaN(), ArityError{Func: m.name, Want: 1, Got: len(args)}
	}
	x := args[0]
	defer func() {
		if p := recover(); p != nil {
			r, err = math.NaN(), domain(p, m.name, x, 1)
		}
	}()
	r = m.f(x)
	if math.IsNaN(r) && !math.IsNaN(x) {
		return r, DomainError{X: x, Arg: 1, Func: m.name}
	}
	return r, nil
}

// Monadic wraps a function of one variable into a Function. If f returns NaN
// for an argument which is not NaN, or panics with big.ErrNaN, then the
// argument is outside f's domain and Invoke returns a DomainError.
func Monadic(name string, f func(x float64) float64) exeval.Function {
	return monadic{name, f}
}

type dyadic struct {
	name string
	f    func(x, y float64) float64
}

func (d dyadic) Invoke(args []float64) (r float64, err error) {
	if len(args) != 2 {
		return math.NaN(), ArityError{Func: d.name, Want: 2, Got: len(args)}
	}
	x, y := args[0], args[1]
	defer func() {
		if p := recover(); p != nil {
			r, err = math.NaN(), domain(p, d.name, x, 1)
		}
	}()
	r = d.f(x, y)
	if math.IsNaN(r) && !math.IsNaN(x) && !math.IsNaN(y) {
		return r, DomainError{X: x, Arg: 1, Func: d.name}
	}
	return r, nil
}

// Dyadic wraps a function of two variables into a Function. Domain errors
// are detected as for Monadic and attributed to the first argument.
func Dyadic(name string, f func(x, y float64) float64) exeval.Function {
	return dyadic{name, f}
}

// domain converts a recovered panic into a DomainError, or panics again if
// the value is not a big.ErrNaN.
func domain(p interface{}, name string, x float64, arg int) error {
	err, ok := p.(error)
	if !ok || !errors.As(err, &big.ErrNaN{}) {
		panic(p)
	}
	return DomainError{X: x, Arg: arg, Func: name}
}

// ArityError is an error returned when a function is called with the wrong
// number of arguments.
type ArityError struct {
	// Func is a name identifying the function.
	Func string
	// Want and Got are the required and actual numbers of arguments.
	Want, Got int
}

func (err ArityError) Error() string {
	return err.Func + " takes " + strconv.Itoa(err.Want) + " arguments, not " + strconv.Itoa(err.Got)
}

// DomainError is an error returned when a function is called on arguments
// outside its domain.
type DomainError struct {
	// X is the out-of-domain argument.
	X float64
	// Arg is the 1-based index of the argument.
	Arg int
	// Func is a name identifying the function.
	Func string
}

func (err DomainError) Error() string {
	r := strconv.FormatFloat(err.X, 'g', -1, 64) + " outside domain"
	if err.Func != "" {
		r += " of " + err.Func
	}
	if err.Arg > 0 {
		r += " (argument " + strconv.Itoa(err.Arg) + ")"
	}
	return r
}

// Connect connects each function in fns to e, in order of name. It stops at
// the first error.
func Connect(e *exeval.Engine, fns map[string]exeval.Function) error {
	names := make([]string, 0, len(fns))
	for name := range fns {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, err := e.ConnectFunction(name, fns[name]); err != nil {
			return err
		}
	}
	return nil
}

var (
	_ error = ArityError{}
	_ error = DomainError{}
)
