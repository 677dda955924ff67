package lexcalc

import (
	"sort"

	"github.com/pkg/errors"
)

// Context owns the variable and function tables that functions are linked
// against. Every Function stored in a Context is bound to that Context's
// tables. It is not safe to modify a Context concurrently with any other use,
// including evaluation of functions linked against it.
type Context struct {
	vars  *Table[float64]
	funcs *Table[*Function]
}

// ContextOption is an option used when creating a context.
type ContextOption interface {
	ctxOption()
}

type (
	varopt struct {
		name string
		val  float64
	}
	varsopt map[string]float64
	libopt  struct {
		lib *Context
	}
)

func (varopt) ctxOption()  {}
func (varsopt) ctxOption() {}
func (libopt) ctxOption()  {}

// SetVar sets the value of a variable in the context.
func SetVar(name string, val float64) ContextOption {
	return varopt{name, val}
}

// SetVars sets the values of any number of variables in the context. New
// variables are allocated slots in name order.
func SetVars(vars map[string]float64) ContextOption {
	return varsopt(vars)
}

// Library inherits the variables and functions of lib, as by Inherit.
func Library(lib *Context) ContextOption {
	return libopt{lib}
}

// NewContext creates a new context and applies options to it in order.
// Panics if a Library option conflicts with a function already defined by an
// earlier option.
func NewContext(opts ...ContextOption) *Context {
	ctx := Context{
		vars:  NewTable[float64](),
		funcs: NewTable[*Function](),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		switch opt := opt.(type) {
		case varopt:
			ctx.vars.Assign(opt.name, opt.val)
		case varsopt:
			names := make([]string, 0, len(opt))
			for k := range opt {
				names = append(names, k)
			}
			sort.Strings(names)
			for _, k := range names {
				ctx.vars.Assign(k, opt[k])
			}
		case libopt:
			if err := ctx.Inherit(opt.lib); err != nil {
				panic(errors.Wrap(err, "lexcalc: inheriting library"))
			}
		default:
			panic("lexcalc: unknown option type")
		}
	}
	return &ctx
}

// DefineVariable sets the value of a variable, allocating a slot if it is new.
// Functions that reference the variable by slot observe the new value.
func (ctx *Context) DefineVariable(name string, val float64) {
	ctx.vars.Assign(name, val)
}

// DefineFunction stores f under name. If f was linked against another
// context, it is rebound to ctx by the names of the variables and functions it
// references; f may refer to name itself. Redefining a function with a
// different parameter count is an *ArityError, since existing callers would
// no longer match.
func (ctx *Context) DefineFunction(name string, f *Function) error {
	if f == nil {
		panic("lexcalc: DefineFunction with nil function")
	}
	s := slot{index: ctx.funcs.Len(), params: f.params}
	if i, ok := ctx.funcs.Index(name); ok {
		old := ctx.funcs.At(i)
		if old.params != f.params {
			return &ArityError{Name: name, Want: old.params, Got: f.params}
		}
		s.index = i
	}
	g, err := ctx.rebind(f, map[string]slot{name: s})
	if err != nil {
		return err
	}
	ctx.funcs.Assign(name, g)
	return nil
}

// IsDefined returns whether name is a variable or function in the context.
func (ctx *Context) IsDefined(name string) bool {
	return ctx.vars.IsDefined(name) || ctx.funcs.IsDefined(name)
}

// Lookup returns the value of a variable.
func (ctx *Context) Lookup(name string) (float64, bool) {
	return ctx.vars.Get(name)
}

// LookupFunction returns a defined function.
func (ctx *Context) LookupFunction(name string) (*Function, bool) {
	return ctx.funcs.Get(name)
}

// Variables returns the names of the context's variables in slot order.
func (ctx *Context) Variables() []string {
	return ctx.vars.Names()
}

// Functions returns the names of the context's functions in slot order.
func (ctx *Context) Functions() []string {
	return ctx.funcs.Names()
}

// Inherit copies every variable and function of lib whose name ctx does not
// define yet. Copied functions are rebound to ctx's tables, so calls inside
// them resolve to ctx's definitions where ctx already has one. If a copied
// function calls one of ctx's functions with the wrong number of arguments,
// the result is an *ArityError and no functions are copied; variables are
// copied regardless.
func (ctx *Context) Inherit(lib *Context) error {
	for i, name := range lib.vars.names {
		if !ctx.vars.IsDefined(name) {
			ctx.vars.Assign(name, lib.vars.At(i))
		}
	}
	pending := make(map[string]slot)
	var adds []string
	next := ctx.funcs.Len()
	for i, name := range lib.funcs.names {
		if ctx.funcs.IsDefined(name) {
			continue
		}
		pending[name] = slot{index: next, params: lib.funcs.At(i).params}
		adds = append(adds, name)
		next++
	}
	bound := make([]*Function, len(adds))
	for k, name := range adds {
		f, _ := lib.funcs.Get(name)
		g, err := ctx.rebind(f, pending)
		if err != nil {
			return errors.Wrapf(err, "inheriting %s", name)
		}
		bound[k] = g
	}
	for k, name := range adds {
		ctx.funcs.Assign(name, bound[k])
	}
	return nil
}

// Clone creates an independent context with the same definitions.
func (ctx *Context) Clone() *Context {
	n := NewContext()
	if err := n.Inherit(ctx); err != nil {
		panic(errors.Wrap(err, "lexcalc: inconsistent context"))
	}
	return n
}

// slot is a function table entry that is about to exist.
type slot struct {
	index  int
	params int
}

func (ctx *Context) funcSlot(name string, pending map[string]slot) (slot, bool) {
	if s, ok := pending[name]; ok {
		return s, true
	}
	i, ok := ctx.funcs.Index(name)
	if !ok {
		return slot{}, false
	}
	return slot{index: i, params: ctx.funcs.At(i).params}, true
}

// rebind returns f bound to ctx's tables. pending supplies function slots
// that will be assigned once rebinding succeeds.
func (ctx *Context) rebind(f *Function, pending map[string]slot) (*Function, error) {
	if f.vars == ctx.vars && f.funcs == ctx.funcs {
		return f, nil
	}
	root, err := ctx.rebindNode(f, f.root, pending)
	if err != nil {
		return nil, err
	}
	return &Function{root: root, vars: ctx.vars, funcs: ctx.funcs, params: f.params, names: f.names}, nil
}

func (ctx *Context) rebindNode(f *Function, n *Node, pending map[string]slot) (*Node, error) {
	switch n.Kind {
	case NodeNumber, NodeParam:
		return n.Clone(), nil
	case NodeVar:
		name := f.vars.Name(n.Index)
		i, ok := ctx.vars.Index(name)
		if !ok {
			return nil, &UndefinedError{Name: name, Suggestion: suggest(name, ctx.vars.names)}
		}
		return NewVarSlot(i), nil
	case NodeFunc:
		name := f.funcs.Name(n.Index)
		s, ok := ctx.funcSlot(name, pending)
		if !ok {
			return nil, &UndefinedError{Name: name, Func: true, Suggestion: suggest(name, ctx.funcs.names)}
		}
		if s.params != len(n.Args) {
			return nil, &ArityError{Name: name, Want: s.params, Got: len(n.Args)}
		}
		args := make([]*Node, len(n.Args))
		for i, a := range n.Args {
			r, err := ctx.rebindNode(f, a, pending)
			if err != nil {
				return nil, err
			}
			args[i] = r
		}
		return NewFuncCall(s.index, args...), nil
	case NodeUnary:
		x, err := ctx.rebindNode(f, n.Left, pending)
		if err != nil {
			return nil, err
		}
		return NewUnary(n.Op, x), nil
	case NodeBinary:
		x, err := ctx.rebindNode(f, n.Left, pending)
		if err != nil {
			return nil, err
		}
		y, err := ctx.rebindNode(f, n.Right, pending)
		if err != nil {
			return nil, err
		}
		return NewBinary(n.Op, x, y), nil
	case NodeName, NodeCall:
		panic("lexcalc: unresolved " + n.Kind.String() + " in linked function")
	default:
		panic("lexcalc: invalid node kind " + n.Kind.String())
	}
}
