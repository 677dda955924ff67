package lexcalc

import "strconv"

// Evaluate computes the function's value at args. Variables are read at the
// time of evaluation. Arithmetic never fails; invalid operations produce NaN
// or infinities. Panics if len(args) is not f.Params().
func (f *Function) Evaluate(args []float64) float64 {
	f.checkArgs(args)
	return f.eval(f.root, args)
}

// EvaluateMany evaluates the function at each row of arguments, returning one
// result per row. Rows are evaluated in parallel; the context f was linked
// against must not be modified until EvaluateMany returns. Panics if any row
// has the wrong length.
func (f *Function) EvaluateMany(rows [][]float64) []float64 {
	for _, args := range rows {
		f.checkArgs(args)
	}
	r := make([]float64, len(rows))
	forRows(len(rows), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			r[i] = f.eval(f.root, rows[i])
		}
	})
	return r
}

func (f *Function) checkArgs(args []float64) {
	if len(args) != f.params {
		panic("lexcalc: " + strconv.Itoa(len(args)) + " arguments to function of " + strconv.Itoa(f.params) + " parameters")
	}
}

// eval computes the value of a node of f's tree.
func (f *Function) eval(n *Node, args []float64) float64 {
	switch n.Kind {
	case NodeNumber:
		return n.Value
	case NodeParam:
		return args[n.Index]
	case NodeVar:
		return f.vars.At(n.Index)
	case NodeFunc:
		callee := f.funcs.At(n.Index)
		var buf [4]float64
		x := buf[:0]
		for _, a := range n.Args {
			x = append(x, f.eval(a, args))
		}
		return callee.eval(callee.root, x)
	case NodeUnary:
		return n.Op.Eval1(f.eval(n.Left, args))
	case NodeBinary:
		return n.Op.Eval2(f.eval(n.Left, args), f.eval(n.Right, args))
	case NodeName, NodeCall:
		panic("lexcalc: eval on unresolved " + n.Kind.String())
	default:
		panic("lexcalc: invalid AST node " + n.Kind.String())
	}
}

// EvalString is a shortcut to parse, link, and evaluate an expression with no
// parameters against a new context created with opts.
func EvalString(src string, opts ...ContextOption) (float64, error) {
	tree, err := Parse(src)
	if err != nil {
		return 0, err
	}
	f, err := Linker{}.BuildFunction(tree, NewContext(opts...), nil)
	if err != nil {
		return 0, err
	}
	return f.Evaluate(nil), nil
}
