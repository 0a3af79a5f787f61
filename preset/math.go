package preset

import (
	"math"
	"math/big"

	"github.com/zephyrtronium/bigfloat"
	"github.com/zephyrtronium/exeval"
)

// prec is the precision in bits of intermediate results computed with
// bigfloat before rounding to float64.
const prec = 64

// Math returns the common mathematical functions by name: sin, cos, tan,
// asin, acos, atan, abs, sqrt, pow, exp, ln, log10, log2, and the constants
// pi() and e(). Each call returns a new map.
func Math() map[string]exeval.Function {
	return map[string]exeval.Function{
		"sin":   Monadic("sin", math.Sin),
		"cos":   Monadic("cos", math.Cos),
		"tan":   Monadic("tan", math.Tan),
		"asin":  Monadic("asin", math.Asin),
		"acos":  Monadic("acos", math.Acos),
		"atan":  Monadic("atan", math.Atan),
		"abs":   Monadic("abs", math.Abs),
		"sqrt":  Monadic("sqrt", math.Sqrt),
		"pow":   Dyadic("pow", pow),
		"exp":   Monadic("exp", exp),
		"ln":    Monadic("ln", ln),
		"log10": Monadic("log10", logb(10)),
		"log2":  Monadic("log2", logb(2)),

		// constants
		"pi": Niladic("pi", pi),
		"e":  Niladic("e", func() float64 { return exp(1) }),
	}
}

func newFloat(x float64) *big.Float {
	return new(big.Float).SetPrec(prec).SetFloat64(x)
}

func f64(x *big.Float) float64 {
	r, _ := x.Float64()
	return r
}

func exp(x float64) float64 {
	switch {
	case math.IsNaN(x), math.IsInf(x, 0):
		return math.Exp(x)
	case x > 710:
		return math.Inf(1)
	case x < -746:
		return 0
	}
	return f64(bigfloat.Exp(new(big.Float).SetPrec(prec), newFloat(x)))
}

// bigLog computes the natural logarithm of finite positive x.
func bigLog(x float64) *big.Float {
	return bigfloat.Log(new(big.Float).SetPrec(prec), newFloat(x))
}

func ln(x float64) float64 {
	switch {
	case x < 0:
		return math.NaN()
	case x == 0:
		return math.Inf(-1)
	case math.IsNaN(x), math.IsInf(x, 1):
		return x
	}
	return f64(bigLog(x))
}

// logb returns a function computing logarithms in base b.
func logb(b float64) func(x float64) float64 {
	return func(x float64) float64 {
		switch {
		case x < 0:
			return math.NaN()
		case x == 0:
			return math.Inf(-1)
		case math.IsNaN(x), math.IsInf(x, 1):
			return x
		case x == 1:
			return 0
		}
		r := bigLog(x)
		return f64(r.Quo(r, bigLog(b)))
	}
}

func pow(x, y float64) float64 {
	r := math.Pow(x, y)
	// bigfloat only refines results for positive bases with finite results.
	if x <= 0 || x == 1 || y == 0 || r == 0 || math.IsNaN(r) || math.IsInf(r, 0) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return r
	}
	return f64(bigfloat.Pow(new(big.Float).SetPrec(prec), newFloat(x), newFloat(y)))
}

func pi() float64 {
	return f64(bigfloat.Pi(new(big.Float).SetPrec(prec)))
}
