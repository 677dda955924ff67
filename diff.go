package lexcalc

// Differentiate computes the partial derivative of f with respect to its
// parameter param. The result has the same parameters and bindings as f. Its
// tree is not simplified; pass it to Optimize for that. Calls are
// differentiated by the chain rule through the callee's own derivatives, so
// recursive definitions do not terminate.
func Differentiate(f *Function, param int) (*Function, error) {
	if param < 0 || param >= f.params {
		return nil, &ParamRangeError{Index: param, Len: f.params}
	}
	d := differ{memo: make(map[partial]*Function)}
	root, err := d.diff(f, f.root, param)
	if err != nil {
		return nil, err
	}
	return f.derive(root), nil
}

// partial identifies the derivative of a function by one parameter.
type partial struct {
	f *Function
	j int
}

type differ struct {
	memo map[partial]*Function
}

// of returns the derivative of callee by parameter j.
func (d *differ) of(callee *Function, j int) (*Function, error) {
	k := partial{callee, j}
	if r := d.memo[k]; r != nil {
		return r, nil
	}
	root, err := d.diff(callee, callee.root, j)
	if err != nil {
		return nil, err
	}
	r := callee.derive(root)
	d.memo[k] = r
	return r, nil
}

func (d *differ) diff(f *Function, n *Node, p int) (*Node, error) {
	switch n.Kind {
	case NodeNumber, NodeVar:
		return NewNumber(0), nil
	case NodeParam:
		if n.Index == p {
			return NewNumber(1), nil
		}
		return NewNumber(0), nil
	case NodeFunc:
		callee := f.funcs.At(n.Index)
		var sum *Node
		for j, a := range n.Args {
			da, err := d.diff(f, a, p)
			if err != nil {
				return nil, err
			}
			dc, err := d.of(callee, j)
			if err != nil {
				return nil, err
			}
			outer, err := ReplaceParameters(dc.root, n.Args)
			if err != nil {
				return nil, err
			}
			t := mul(outer, da)
			if sum == nil {
				sum = t
			} else {
				sum = NewBinary(OpAdd, sum, t)
			}
		}
		if sum == nil {
			return NewNumber(0), nil
		}
		return sum, nil
	case NodeUnary:
		du, err := d.diff(f, n.Left, p)
		if err != nil {
			return nil, err
		}
		return unaryRule(n.Op, n.Left, du)
	case NodeBinary:
		du, err := d.diff(f, n.Left, p)
		if err != nil {
			return nil, err
		}
		dv, err := d.diff(f, n.Right, p)
		if err != nil {
			return nil, err
		}
		return binaryRule(n.Op, n.Left, n.Right, du, dv, p), nil
	case NodeName, NodeCall:
		panic("lexcalc: differentiate on unresolved " + n.Kind.String())
	default:
		panic("lexcalc: invalid AST node " + n.Kind.String())
	}
}

func mul(x, y *Node) *Node { return NewBinary(OpMul, x, y) }
func div(x, y *Node) *Node { return NewBinary(OpDiv, x, y) }
func add(x, y *Node) *Node { return NewBinary(OpAdd, x, y) }
func sub(x, y *Node) *Node { return NewBinary(OpSub, x, y) }
func pow(x, y *Node) *Node { return NewBinary(OpPow, x, y) }
func num(v float64) *Node  { return NewNumber(v) }

// unaryRule returns the derivative of op(u), given du. u is cloned wherever it
// appears in the result; du is used at most once.
func unaryRule(op Op, u, du *Node) (*Node, error) {
	c := u.Clone
	switch op {
	case OpNeg:
		return NewUnary(OpNeg, du), nil
	case OpSqrt:
		return div(du, mul(num(2), NewUnary(OpSqrt, c()))), nil
	case OpExp:
		return mul(NewUnary(OpExp, c()), du), nil
	case OpLn:
		return div(du, c()), nil
	case OpLog:
		return div(du, mul(c(), NewUnary(OpLn, num(10)))), nil
	case OpSin:
		return mul(NewUnary(OpCos, c()), du), nil
	case OpCos:
		return mul(NewUnary(OpNeg, NewUnary(OpSin, c())), du), nil
	case OpTan:
		return mul(add(num(1), pow(NewUnary(OpTan, c()), num(2))), du), nil
	case OpAsin:
		return div(du, NewUnary(OpSqrt, sub(num(1), pow(c(), num(2))))), nil
	case OpAcos:
		return div(NewUnary(OpNeg, du), NewUnary(OpSqrt, sub(num(1), pow(c(), num(2))))), nil
	case OpAtan:
		return div(du, add(num(1), pow(c(), num(2)))), nil
	case OpSinh:
		return mul(NewUnary(OpCosh, c()), du), nil
	case OpCosh:
		return mul(NewUnary(OpSinh, c()), du), nil
	case OpTanh:
		return mul(sub(num(1), pow(NewUnary(OpTanh, c()), num(2))), du), nil
	case OpAbs:
		return mul(NewUnary(OpSign, c()), du), nil
	case OpSign:
		return num(0), nil
	case OpFloor, OpCeil:
		return nil, &UnsupportedError{Op: op}
	default:
		panic("lexcalc: no unary operator " + op.String())
	}
}

// binaryRule returns the derivative of op(u, v) by parameter p, given du and
// dv.
func binaryRule(op Op, u, v, du, dv *Node, p int) *Node {
	cu, cv := u.Clone, v.Clone
	switch op {
	case OpAdd:
		return add(du, dv)
	case OpSub:
		return sub(du, dv)
	case OpMul:
		return add(mul(du, cv()), mul(cu(), dv))
	case OpDiv:
		return div(sub(mul(du, cv()), mul(cu(), dv)), pow(cv(), num(2)))
	case OpPow:
		switch {
		case !dependsOn(v, p):
			// d(u^c) = c u^(c-1) du
			return mul(mul(cv(), pow(cu(), sub(cv(), num(1)))), du)
		case !dependsOn(u, p):
			// d(c^v) = c^v ln(c) dv
			return mul(mul(pow(cu(), cv()), NewUnary(OpLn, cu())), dv)
		default:
			// d(u^v) = u^v (dv ln(u) + v du / u)
			return mul(pow(cu(), cv()), add(mul(dv, NewUnary(OpLn, cu())), div(mul(cv(), du), cu())))
		}
	case OpAtan2:
		return div(sub(mul(cv(), du), mul(cu(), dv)), add(pow(cu(), num(2)), pow(cv(), num(2))))
	default:
		panic("lexcalc: no binary operator " + op.String())
	}
}

// dependsOn reports whether the tree refers to parameter p. Variables and the
// bodies of called functions are constant with respect to parameters.
func dependsOn(n *Node, p int) bool {
	if n == nil {
		return false
	}
	if n.Kind == NodeParam {
		return n.Index == p
	}
	for _, a := range n.Args {
		if dependsOn(a, p) {
			return true
		}
	}
	return dependsOn(n.Left, p) || dependsOn(n.Right, p)
}
