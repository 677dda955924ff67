package lexcalc

import (
	"math"
	"strconv"
)

// Op is an operator: a pure rule from one or two float64 values to a float64.
// The set of operators is closed; every pass over a tree knows all of them.
type Op int8

const (
	OpNone Op = iota

	// Binary operators.
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpPow
	OpAtan2

	// Unary operators.
	OpNeg
	OpSqrt
	OpExp
	OpLn
	OpLog
	OpSin
	OpCos
	OpTan
	OpAsin
	OpAcos
	OpAtan
	OpSinh
	OpCosh
	OpTanh
	OpAbs
	OpSign
	OpFloor
	OpCeil

	opCount
)

type opInfo struct {
	// name is the display name. Infix operators use their symbol.
	name string
	// infix is true for operators written between or before their operands
	// rather than with call syntax.
	infix bool
	// prec is the printing precedence of infix operators.
	prec  int8
	arity int
	f1    func(float64) float64
	f2    func(float64, float64) float64
}

var ops = [opCount]opInfo{
	OpAdd:   {name: "+", infix: true, prec: 1, arity: 2, f2: func(x, y float64) float64 { return x + y }},
	OpSub:   {name: "-", infix: true, prec: 1, arity: 2, f2: func(x, y float64) float64 { return x - y }},
	OpMul:   {name: "*", infix: true, prec: 5, arity: 2, f2: func(x, y float64) float64 { return x * y }},
	OpDiv:   {name: "/", infix: true, prec: 5, arity: 2, f2: func(x, y float64) float64 { return x / y }},
	OpPow:   {name: "^", infix: true, prec: 15, arity: 2, f2: math.Pow},
	OpAtan2: {name: "atan2", arity: 2, f2: math.Atan2},

	OpNeg:   {name: "-", infix: true, prec: 10, arity: 1, f1: func(x float64) float64 { return -x }},
	OpSqrt:  {name: "sqrt", arity: 1, f1: math.Sqrt},
	OpExp:   {name: "exp", arity: 1, f1: math.Exp},
	OpLn:    {name: "ln", arity: 1, f1: math.Log},
	OpLog:   {name: "log", arity: 1, f1: math.Log10},
	OpSin:   {name: "sin", arity: 1, f1: math.Sin},
	OpCos:   {name: "cos", arity: 1, f1: math.Cos},
	OpTan:   {name: "tan", arity: 1, f1: math.Tan},
	OpAsin:  {name: "asin", arity: 1, f1: math.Asin},
	OpAcos:  {name: "acos", arity: 1, f1: math.Acos},
	OpAtan:  {name: "atan", arity: 1, f1: math.Atan},
	OpSinh:  {name: "sinh", arity: 1, f1: math.Sinh},
	OpCosh:  {name: "cosh", arity: 1, f1: math.Cosh},
	OpTanh:  {name: "tanh", arity: 1, f1: math.Tanh},
	OpAbs:   {name: "abs", arity: 1, f1: math.Abs},
	OpSign:  {name: "sign", arity: 1, f1: sign},
	OpFloor: {name: "floor", arity: 1, f1: math.Floor},
	OpCeil:  {name: "ceil", arity: 1, f1: math.Ceil},
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		// Zeros and NaN are their own sign.
		return x
	}
}

func (op Op) info() *opInfo {
	if op <= OpNone || op >= opCount {
		panic("lexcalc: invalid operator " + strconv.Itoa(int(op)))
	}
	return &ops[op]
}

// String returns the operator's display name.
func (op Op) String() string {
	if op <= OpNone || op >= opCount {
		return "Op(" + strconv.Itoa(int(op)) + ")"
	}
	return ops[op].name
}

// Arity returns the number of operands the operator takes, 1 or 2.
func (op Op) Arity() int {
	return op.info().arity
}

// Infix returns whether the operator is written as a symbol rather than with
// call syntax.
func (op Op) Infix() bool {
	return op.info().infix
}

// Eval1 applies a unary operator. Panics if op is not unary.
func (op Op) Eval1(x float64) float64 {
	f := op.info().f1
	if f == nil {
		panic("lexcalc: " + op.String() + " is not unary")
	}
	return f(x)
}

// Eval2 applies a binary operator. Panics if op is not binary.
func (op Op) Eval2(x, y float64) float64 {
	f := op.info().f2
	if f == nil {
		panic("lexcalc: " + op.String() + " is not binary")
	}
	return f(x, y)
}

// builtins maps the names of call-syntax operators to the operators.
var builtins = func() map[string]Op {
	m := make(map[string]Op)
	for op := OpNone + 1; op < opCount; op++ {
		if !ops[op].infix {
			m[ops[op].name] = op
		}
	}
	return m
}()
