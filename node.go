package lexcalc

import (
	"math"
	"strconv"
	"strings"
)

// Node is a node in an expression tree. Which fields are meaningful depends on
// Kind. Each node belongs to exactly one tree; passes that reuse a subtree
// clone it first.
type Node struct {
	Kind NodeKind

	// Value is the value of a NodeNumber.
	Value float64
	// Name is the identifier of a NodeName or NodeCall.
	Name string
	// Index is the parameter index of a NodeParam or the table slot of a
	// NodeVar or NodeFunc.
	Index int
	// Op is the operator of a NodeUnary or NodeBinary.
	Op Op

	// Left is the operand of a NodeUnary or the left operand of a NodeBinary.
	Left *Node
	// Right is the right operand of a NodeBinary.
	Right *Node
	// Args are the arguments of a NodeCall or NodeFunc.
	Args []*Node
}

// NodeKind is the kind of a tree node.
type NodeKind int8

const (
	NodeNone NodeKind = iota

	NodeNumber // literal Value
	NodeName   // unresolved variable Name
	NodeCall   // unresolved call of Name with Args

	NodeParam // formal parameter Index of the enclosing function
	NodeVar   // variable table slot Index
	NodeFunc  // call of function table slot Index with Args

	NodeUnary  // Op applied to Left
	NodeBinary // Op applied to Left and Right
)

var nodeKindNames = [...]string{
	NodeNone:   "None",
	NodeNumber: "Number",
	NodeName:   "Name",
	NodeCall:   "Call",
	NodeParam:  "Param",
	NodeVar:    "Var",
	NodeFunc:   "Func",
	NodeUnary:  "Unary",
	NodeBinary: "Binary",
}

func (k NodeKind) String() string {
	if k < 0 || int(k) >= len(nodeKindNames) {
		return "NodeKind(" + strconv.Itoa(int(k)) + ")"
	}
	return nodeKindNames[k]
}

// NewNumber creates a literal.
func NewNumber(v float64) *Node {
	return &Node{Kind: NodeNumber, Value: v}
}

// NewName creates an unresolved variable reference.
func NewName(name string) *Node {
	return &Node{Kind: NodeName, Name: name}
}

// NewCall creates an unresolved function call.
func NewCall(name string, args ...*Node) *Node {
	return &Node{Kind: NodeCall, Name: name, Args: args}
}

// NewParam creates a reference to the i-th parameter of the enclosing
// function.
func NewParam(i int) *Node {
	return &Node{Kind: NodeParam, Index: i}
}

// NewVarSlot creates a reference to variable table slot i.
func NewVarSlot(i int) *Node {
	return &Node{Kind: NodeVar, Index: i}
}

// NewFuncCall creates a call of function table slot i.
func NewFuncCall(i int, args ...*Node) *Node {
	return &Node{Kind: NodeFunc, Index: i, Args: args}
}

// NewUnary applies a unary operator.
func NewUnary(op Op, x *Node) *Node {
	return &Node{Kind: NodeUnary, Op: op, Left: x}
}

// NewBinary applies a binary operator.
func NewBinary(op Op, x, y *Node) *Node {
	return &Node{Kind: NodeBinary, Op: op, Left: x, Right: y}
}

// Clone returns a deep copy of the tree rooted at n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	r := *n
	r.Left = n.Left.Clone()
	r.Right = n.Right.Clone()
	if n.Args != nil {
		r.Args = make([]*Node, len(n.Args))
		for i, a := range n.Args {
			r.Args[i] = a.Clone()
		}
	}
	return &r
}

// Equal reports whether two trees have the same structure. NaN literals are
// equal to each other.
func (n *Node) Equal(m *Node) bool {
	if n == nil || m == nil {
		return n == m
	}
	if n.Kind != m.Kind {
		return false
	}
	switch n.Kind {
	case NodeNumber:
		return n.Value == m.Value || math.IsNaN(n.Value) && math.IsNaN(m.Value)
	case NodeName:
		return n.Name == m.Name
	case NodeCall:
		return n.Name == m.Name && argsEqual(n.Args, m.Args)
	case NodeParam, NodeVar:
		return n.Index == m.Index
	case NodeFunc:
		return n.Index == m.Index && argsEqual(n.Args, m.Args)
	case NodeUnary:
		return n.Op == m.Op && n.Left.Equal(m.Left)
	case NodeBinary:
		return n.Op == m.Op && n.Left.Equal(m.Left) && n.Right.Equal(m.Right)
	default:
		panic("lexcalc: invalid node kind " + n.Kind.String())
	}
}

func argsEqual(a, b []*Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// Size returns the number of nodes in the tree.
func (n *Node) Size() int {
	if n == nil {
		return 0
	}
	s := 1 + n.Left.Size() + n.Right.Size()
	for _, a := range n.Args {
		s += a.Size()
	}
	return s
}

// resolved reports whether the tree contains no unresolved names.
func (n *Node) resolved() bool {
	if n == nil {
		return true
	}
	if n.Kind == NodeName || n.Kind == NodeCall {
		return false
	}
	for _, a := range n.Args {
		if !a.resolved() {
			return false
		}
	}
	return n.Left.resolved() && n.Right.resolved()
}

// String formats the tree in infix notation. Bound references print as $i
// for parameters, #i for variable slots, and @i for function slots.
func (n *Node) String() string {
	var b strings.Builder
	n.fmt(&b, nil)
	return b.String()
}

// namer supplies names for bound references when formatting.
type namer struct {
	params []string
	vars   *Table[float64]
	funcs  *Table[*Function]
}

func (nm *namer) param(i int) string {
	if nm != nil && i >= 0 && i < len(nm.params) {
		return nm.params[i]
	}
	return "$" + strconv.Itoa(i)
}

func (nm *namer) variable(i int) string {
	if nm != nil && nm.vars != nil && i >= 0 && i < nm.vars.Len() {
		return nm.vars.Name(i)
	}
	return "#" + strconv.Itoa(i)
}

func (nm *namer) function(i int) string {
	if nm != nil && nm.funcs != nil && i >= 0 && i < nm.funcs.Len() {
		return nm.funcs.Name(i)
	}
	return "@" + strconv.Itoa(i)
}

// atomprec is the printing precedence of terms that never need brackets.
const atomprec int8 = 127

func (n *Node) prec() int8 {
	switch n.Kind {
	case NodeUnary, NodeBinary:
		if n.Op.Infix() {
			return ops[n.Op].prec
		}
	case NodeNumber:
		// A negative literal reads like a negation.
		if n.Value < 0 || math.Signbit(n.Value) && n.Value == 0 {
			return ops[OpNeg].prec
		}
	}
	return atomprec
}

func (n *Node) fmt(b *strings.Builder, nm *namer) {
	switch n.Kind {
	case NodeNumber:
		b.WriteString(formatNum(n.Value))
	case NodeName:
		b.WriteString(n.Name)
	case NodeCall:
		b.WriteString(n.Name)
		fmtargs(b, nm, n.Args...)
	case NodeParam:
		b.WriteString(nm.param(n.Index))
	case NodeVar:
		b.WriteString(nm.variable(n.Index))
	case NodeFunc:
		b.WriteString(nm.function(n.Index))
		fmtargs(b, nm, n.Args...)
	case NodeUnary:
		if !n.Op.Infix() {
			b.WriteString(n.Op.String())
			fmtargs(b, nm, n.Left)
			return
		}
		b.WriteString(n.Op.String())
		n.Left.fmtin(b, nm, n.Left.prec() <= ops[n.Op].prec)
	case NodeBinary:
		if !n.Op.Infix() {
			b.WriteString(n.Op.String())
			fmtargs(b, nm, n.Left, n.Right)
			return
		}
		p := ops[n.Op].prec
		right := n.Op == OpPow
		lp, rp := n.Left.prec(), n.Right.prec()
		n.Left.fmtin(b, nm, lp < p || lp == p && right)
		if n.Op == OpPow {
			b.WriteString(n.Op.String())
		} else {
			b.WriteByte(' ')
			b.WriteString(n.Op.String())
			b.WriteByte(' ')
		}
		n.Right.fmtin(b, nm, rp < p || rp == p && !right)
	default:
		panic("lexcalc: invalid node kind " + n.Kind.String() + " after writing " + b.String())
	}
}

// fmtin formats n, optionally in brackets.
func (n *Node) fmtin(b *strings.Builder, nm *namer, brackets bool) {
	if brackets {
		b.WriteByte('(')
		defer b.WriteByte(')')
	}
	n.fmt(b, nm)
}

func fmtargs(b *strings.Builder, nm *namer, args ...*Node) {
	b.WriteByte('(')
	for i, a := range args {
		if i > 0 {
			b.WriteString(", ")
		}
		a.fmt(b, nm)
	}
	b.WriteByte(')')
}

func formatNum(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
