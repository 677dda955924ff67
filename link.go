package lexcalc

import "strings"

// Function is a resolved expression of a fixed number of parameters. It holds
// no unresolved names. Variable slots and function calls in its tree refer to
// the tables of the Context it was linked against, which it shares but does
// not own. A Function is immutable.
type Function struct {
	root   *Node
	vars   *Table[float64]
	funcs  *Table[*Function]
	params int
	// names are the parameter names for printing. May be nil.
	names []string
}

// Tree returns a copy of the function's resolved tree.
func (f *Function) Tree() *Node {
	return f.root.Clone()
}

// Params returns the function's parameter count.
func (f *Function) Params() int {
	return f.params
}

// ParamNames returns the names of the function's parameters, if it has them.
func (f *Function) ParamNames() []string {
	return append([]string(nil), f.names...)
}

// String formats the function's tree using the names of its parameters,
// variables, and called functions.
func (f *Function) String() string {
	var b strings.Builder
	f.root.fmt(&b, f.namer())
	return b.String()
}

func (f *Function) namer() *namer {
	return &namer{params: f.names, vars: f.vars, funcs: f.funcs}
}

// derive creates a function with a new tree and the same bindings as f.
func (f *Function) derive(root *Node) *Function {
	return &Function{root: root, vars: f.vars, funcs: f.funcs, params: f.params, names: f.names}
}

// Linker resolves the names in expression trees against a Context. The zero
// value binds variables and functions by slot, so later definitions are
// observed by the linked function.
type Linker struct {
	// InsertVariableValuesDirectly replaces variable references with their
	// values at link time instead of binding them by slot.
	InsertVariableValuesDirectly bool
	// InsertFunctionTreesDirectly replaces calls with the callee's tree, with
	// the call's arguments substituted for its parameters, instead of binding
	// them by slot.
	InsertFunctionTreesDirectly bool
}

// BuildFunction links tree against ctx with the given parameter names. A name
// that matches a parameter refers to the first such parameter, even if ctx
// also defines it. The input tree is not modified.
func (l Linker) BuildFunction(tree *Node, ctx *Context, params []string) (*Function, error) {
	root, err := l.link(tree, ctx, params)
	if err != nil {
		return nil, err
	}
	f := Function{
		root:   root,
		vars:   ctx.vars,
		funcs:  ctx.funcs,
		params: len(params),
		names:  append([]string(nil), params...),
	}
	return &f, nil
}

func (l Linker) link(n *Node, ctx *Context, params []string) (*Node, error) {
	switch n.Kind {
	case NodeNumber, NodeVar:
		return n.Clone(), nil
	case NodeParam:
		if n.Index < 0 || n.Index >= len(params) {
			return nil, &ParamRangeError{Index: n.Index, Len: len(params)}
		}
		return n.Clone(), nil
	case NodeName:
		for i, p := range params {
			if p == n.Name {
				return NewParam(i), nil
			}
		}
		i, ok := ctx.vars.Index(n.Name)
		if !ok {
			cands := append(append([]string(nil), params...), ctx.vars.names...)
			return nil, &UndefinedError{Name: n.Name, Suggestion: suggest(n.Name, cands)}
		}
		if l.InsertVariableValuesDirectly {
			return NewNumber(ctx.vars.At(i)), nil
		}
		return NewVarSlot(i), nil
	case NodeCall:
		args, err := l.linkArgs(n.Args, ctx, params)
		if err != nil {
			return nil, err
		}
		i, ok := ctx.funcs.Index(n.Name)
		if !ok {
			cands := append(ctx.funcs.Names(), Builtins()...)
			return nil, &UndefinedError{Name: n.Name, Func: true, Suggestion: suggest(n.Name, cands)}
		}
		callee := ctx.funcs.At(i)
		if callee.params != len(args) {
			return nil, &ArityError{Name: n.Name, Want: callee.params, Got: len(args)}
		}
		if l.InsertFunctionTreesDirectly {
			return ReplaceParameters(callee.root, args)
		}
		return NewFuncCall(i, args...), nil
	case NodeFunc:
		args, err := l.linkArgs(n.Args, ctx, params)
		if err != nil {
			return nil, err
		}
		return NewFuncCall(n.Index, args...), nil
	case NodeUnary:
		x, err := l.link(n.Left, ctx, params)
		if err != nil {
			return nil, err
		}
		return NewUnary(n.Op, x), nil
	case NodeBinary:
		x, err := l.link(n.Left, ctx, params)
		if err != nil {
			return nil, err
		}
		y, err := l.link(n.Right, ctx, params)
		if err != nil {
			return nil, err
		}
		return NewBinary(n.Op, x, y), nil
	default:
		panic("lexcalc: invalid node kind " + n.Kind.String())
	}
}

func (l Linker) linkArgs(args []*Node, ctx *Context, params []string) ([]*Node, error) {
	r := make([]*Node, len(args))
	for i, a := range args {
		x, err := l.link(a, ctx, params)
		if err != nil {
			return nil, err
		}
		r[i] = x
	}
	return r, nil
}

// ReplaceParameters returns a copy of tree with each NodeParam i replaced by a
// copy of args[i]. Parameters inside the substituted arguments are not
// replaced again. The inputs are not modified.
func ReplaceParameters(tree *Node, args []*Node) (*Node, error) {
	switch tree.Kind {
	case NodeParam:
		if tree.Index < 0 || tree.Index >= len(args) {
			return nil, &ParamRangeError{Index: tree.Index, Len: len(args)}
		}
		return args[tree.Index].Clone(), nil
	case NodeNumber, NodeName, NodeVar:
		return tree.Clone(), nil
	case NodeCall, NodeFunc:
		r := *tree
		r.Args = make([]*Node, len(tree.Args))
		for i, a := range tree.Args {
			x, err := ReplaceParameters(a, args)
			if err != nil {
				return nil, err
			}
			r.Args[i] = x
		}
		return &r, nil
	case NodeUnary:
		x, err := ReplaceParameters(tree.Left, args)
		if err != nil {
			return nil, err
		}
		return NewUnary(tree.Op, x), nil
	case NodeBinary:
		x, err := ReplaceParameters(tree.Left, args)
		if err != nil {
			return nil, err
		}
		y, err := ReplaceParameters(tree.Right, args)
		if err != nil {
			return nil, err
		}
		return NewBinary(tree.Op, x, y), nil
	default:
		panic("lexcalc: invalid node kind " + tree.Kind.String())
	}
}
