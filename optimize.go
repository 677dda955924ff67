package lexcalc

// maxPasses bounds the rewrite passes of Optimize.
const maxPasses = 32

// Optimize returns a simplified function equivalent to f. Each pass rewrites
// the tree bottom-up, folding operators applied to literals and removing
// identities; passes repeat until the tree stops changing or the pass limit is
// reached. Variable slots and calls are left in place so that later
// definitions are still observed.
//
// Rules that eliminate a factor of zero assume finite operands: 0 * x becomes
// 0 even where x would evaluate to an infinity or NaN.
func Optimize(f *Function) *Function {
	root := f.root
	for i := 0; i < maxPasses; i++ {
		next := simplify(root)
		done := next.Equal(root)
		root = next
		if done {
			break
		}
	}
	return f.derive(root)
}

func simplify(n *Node) *Node {
	switch n.Kind {
	case NodeNumber, NodeParam, NodeVar:
		return n.Clone()
	case NodeFunc:
		args := make([]*Node, len(n.Args))
		for i, a := range n.Args {
			args[i] = simplify(a)
		}
		return NewFuncCall(n.Index, args...)
	case NodeUnary:
		return simplifyUnary(n.Op, simplify(n.Left))
	case NodeBinary:
		return simplifyBinary(n.Op, simplify(n.Left), simplify(n.Right))
	case NodeName, NodeCall:
		panic("lexcalc: optimize on unresolved " + n.Kind.String())
	default:
		panic("lexcalc: invalid AST node " + n.Kind.String())
	}
}

func isNum(n *Node, v float64) bool {
	return n.Kind == NodeNumber && n.Value == v
}

func isNeg(n *Node) bool {
	return n.Kind == NodeUnary && n.Op == OpNeg
}

func simplifyUnary(op Op, x *Node) *Node {
	switch {
	case x.Kind == NodeNumber:
		return NewNumber(op.Eval1(x.Value))
	case op == OpNeg && isNeg(x):
		return x.Left
	}
	return NewUnary(op, x)
}

func simplifyBinary(op Op, x, y *Node) *Node {
	if x.Kind == NodeNumber && y.Kind == NodeNumber {
		return NewNumber(op.Eval2(x.Value, y.Value))
	}
	switch op {
	case OpAdd:
		switch {
		case isNum(x, 0):
			return y
		case isNum(y, 0):
			return x
		case isNeg(y):
			return sub(x, y.Left)
		case isNeg(x):
			return sub(y, x.Left)
		case x.Equal(y):
			return mul(num(2), x)
		}
	case OpSub:
		switch {
		case isNum(y, 0):
			return x
		case isNum(x, 0):
			return NewUnary(OpNeg, y)
		case isNeg(y):
			return add(x, y.Left)
		}
	case OpMul:
		switch {
		case isNum(x, 0), isNum(y, 0):
			return num(0)
		case isNum(x, 1):
			return y
		case isNum(y, 1):
			return x
		case isNum(x, -1):
			return NewUnary(OpNeg, y)
		case isNum(y, -1):
			return NewUnary(OpNeg, x)
		case y.Kind == NodeNumber:
			return mul(y, x)
		case x.Kind == NodeNumber && y.Kind == NodeBinary && y.Op == OpMul && y.Left.Kind == NodeNumber:
			return mul(num(x.Value*y.Left.Value), y.Right)
		case isNeg(x) && isNeg(y):
			return mul(x.Left, y.Left)
		case x.Kind == NodeNumber && isNeg(y):
			return mul(num(-x.Value), y.Left)
		}
	case OpDiv:
		switch {
		case isNum(y, 1):
			return x
		case isNum(x, 0):
			return num(0)
		case isNum(y, -1):
			return NewUnary(OpNeg, x)
		case isNeg(x) && isNeg(y):
			return div(x.Left, y.Left)
		}
	case OpPow:
		switch {
		case isNum(y, 0):
			return num(1)
		case isNum(y, 1):
			return x
		case isNum(x, 1):
			return num(1)
		}
	}
	return NewBinary(op, x, y)
}
