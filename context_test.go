package lexcalc

import (
	"errors"
	"reflect"
	"testing"
)

func TestContextOptions(t *testing.T) {
	ctx := NewContext(
		SetVar("z", 26),
		SetVars(map[string]float64{"b": 2, "a": 1, "z": 0}),
		nil,
		Library(StandardLibrary()),
	)
	if got, want := ctx.Variables(), []string{"z", "a", "b", "pi", "e"}; !reflect.DeepEqual(got, want) {
		t.Errorf("want variables %q, got %q", want, got)
	}
	if got, want := ctx.Functions(), []string{"length2d", "length3d", "distance2d", "distance3d"}; !reflect.DeepEqual(got, want) {
		t.Errorf("want functions %q, got %q", want, got)
	}
	if v, ok := ctx.Lookup("z"); !ok || v != 0 {
		t.Errorf("want z = 0, got %g (%t)", v, ok)
	}
	for _, name := range []string{"a", "pi", "length2d"} {
		if !ctx.IsDefined(name) {
			t.Errorf("%s not defined", name)
		}
	}
	if ctx.IsDefined("sin") {
		t.Errorf("builtin operator sin is defined as a name")
	}
}

func TestDefineFunction(t *testing.T) {
	ctx := NewContext(SetVar("k", 2))
	f := define(t, ctx, "f", "k*x", "x")
	if r := f.Evaluate([]float64{3}); r != 6 {
		t.Errorf("want 6, got %g", r)
	}
	g := define(t, ctx, "g", "f(x) + 1", "x")

	// Same parameter count keeps the slot.
	define(t, ctx, "f", "x - k", "x")
	if got := ctx.Functions(); !reflect.DeepEqual(got, []string{"f", "g"}) {
		t.Errorf("redefinition changed slots: %q", got)
	}
	if r := g.Evaluate([]float64{3}); r != 2 {
		t.Errorf("caller after redefinition: want 2, got %g", r)
	}

	// Different parameter count is rejected.
	h := build(t, ctx, "x + y", "x", "y")
	err := ctx.DefineFunction("f", h)
	var a *ArityError
	if !errors.As(err, &a) {
		t.Fatalf("want *ArityError, got %v", err)
	}
	if a.Name != "f" || a.Want != 1 || a.Got != 2 {
		t.Errorf("wrong arity error %+v", a)
	}
	if r := g.Evaluate([]float64{3}); r != 2 {
		t.Errorf("failed redefinition changed f: want 2, got %g", r)
	}
}

func TestDefineFunctionRebinds(t *testing.T) {
	lib := NewContext(SetVar("k", 3))
	f := define(t, lib, "f", "k*x", "x")

	ctx := NewContext(SetVar("q", 0), SetVar("k", 10))
	if err := ctx.DefineFunction("g", f); err != nil {
		t.Fatal(err)
	}
	g, _ := ctx.LookupFunction("g")
	if g == f {
		t.Fatal("function from another context stored without rebinding")
	}
	if r := g.Evaluate([]float64{2}); r != 20 {
		t.Errorf("rebound function: want 20, got %g", r)
	}
	if r := f.Evaluate([]float64{2}); r != 6 {
		t.Errorf("original function changed: want 6, got %g", r)
	}
	if !g.root.Equal(NewBinary(OpMul, NewVarSlot(1), NewParam(0))) {
		t.Errorf("rebound tree is %v", g.root)
	}

	// Rebinding fails when a referenced name is missing.
	err := NewContext(SetVar("kk", 1)).DefineFunction("g", f)
	var u *UndefinedError
	if !errors.As(err, &u) {
		t.Fatalf("want *UndefinedError, got %v", err)
	}
	if u.Name != "k" || u.Func || u.Suggestion != "kk" {
		t.Errorf("wrong undefined error %+v", u)
	}

	// Calls are rebound by name, and the function may call itself by the
	// name it is being defined as.
	h := define(t, lib, "h", "f(x) + 1", "x")
	other := NewContext(SetVar("k", 1))
	if err := other.DefineFunction("f", h); err != nil {
		t.Fatal(err)
	}
	r, _ := other.LookupFunction("f")
	if !r.root.Equal(NewBinary(OpAdd, NewFuncCall(0, NewParam(0)), NewNumber(1))) {
		t.Errorf("self reference bound as %v", r.root)
	}
}

func TestInherit(t *testing.T) {
	ctx := NewContext(SetVar("pi", 3))
	define(t, ctx, "length2d", "x + y", "x", "y")
	if err := ctx.Inherit(StandardLibrary()); err != nil {
		t.Fatal(err)
	}
	if v, _ := ctx.Lookup("pi"); v != 3 {
		t.Errorf("inherit replaced pi with %g", v)
	}
	if v, _ := ctx.Lookup("e"); v == 0 {
		t.Errorf("inherit didn't copy e")
	}
	// The inherited distance2d calls this context's length2d.
	d, ok := ctx.LookupFunction("distance2d")
	if !ok {
		t.Fatal("distance2d not inherited")
	}
	if r := d.Evaluate([]float64{0, 0, 3, 4}); r != 7 {
		t.Errorf("want 7, got %g", r)
	}
	l3, _ := ctx.LookupFunction("length3d")
	if r := l3.Evaluate([]float64{2, 3, 6}); r != 7 {
		t.Errorf("want 7, got %g", r)
	}
}

func TestInheritConflict(t *testing.T) {
	ctx := NewContext()
	define(t, ctx, "length2d", "x", "x")
	err := ctx.Inherit(StandardLibrary())
	var a *ArityError
	if !errors.As(err, &a) {
		t.Fatalf("want *ArityError, got %v", err)
	}
	if a.Name != "length2d" || a.Want != 1 || a.Got != 2 {
		t.Errorf("wrong arity error %+v", a)
	}
	if got := ctx.Functions(); !reflect.DeepEqual(got, []string{"length2d"}) {
		t.Errorf("failed inherit copied functions: %q", got)
	}
	if !ctx.IsDefined("pi") {
		t.Errorf("failed inherit didn't copy variables")
	}

	defer func() {
		if recover() == nil {
			t.Error("conflicting Library option didn't panic")
		}
	}()
	NewContext(Library(ctx), Library(StandardLibrary()))
}

func TestClone(t *testing.T) {
	ctx := NewContext(Library(StandardLibrary()), SetVar("k", 2))
	define(t, ctx, "f", "k*length2d(x, 0)", "x")
	c := ctx.Clone()
	if !reflect.DeepEqual(c.Variables(), ctx.Variables()) || !reflect.DeepEqual(c.Functions(), ctx.Functions()) {
		t.Errorf("clone has different names")
	}
	c.DefineVariable("k", 5)
	c.DefineVariable("new", 1)
	define(t, c, "length2d", "x*y", "x", "y")
	if v, _ := ctx.Lookup("k"); v != 2 {
		t.Errorf("clone modified original variable: %g", v)
	}
	if ctx.IsDefined("new") {
		t.Errorf("clone defined a name in the original")
	}
	f, _ := ctx.LookupFunction("f")
	if r := f.Evaluate([]float64{3}); r != 6 {
		t.Errorf("original: want 6, got %g", r)
	}
	g, _ := c.LookupFunction("f")
	if r := g.Evaluate([]float64{3}); r != 0 {
		t.Errorf("clone: want 0, got %g", r)
	}
}

func TestTable(t *testing.T) {
	tab := NewTable[string]()
	if tab.Len() != 0 || tab.IsDefined("x") {
		t.Fatal("new table isn't empty")
	}
	if i := tab.Assign("x", "a"); i != 0 {
		t.Errorf("first index is %d", i)
	}
	if i := tab.Assign("y", "b"); i != 1 {
		t.Errorf("second index is %d", i)
	}
	if i := tab.Assign("x", "c"); i != 0 {
		t.Errorf("reassignment moved x to %d", i)
	}
	if v, ok := tab.Get("x"); !ok || v != "c" {
		t.Errorf("want c, got %q (%t)", v, ok)
	}
	if i, ok := tab.Index("y"); !ok || i != 1 || tab.At(i) != "b" || tab.Name(i) != "y" {
		t.Errorf("wrong entry for y: %d %t", i, ok)
	}
	if _, ok := tab.Get("z"); ok {
		t.Errorf("z is defined")
	}
	names := tab.Names()
	names[0] = "changed"
	if tab.Name(0) != "x" {
		t.Errorf("Names returned the table's own slice")
	}
	var zero Table[int]
	if i := zero.Assign("x", 1); i != 0 || zero.Len() != 1 {
		t.Errorf("zero table assigned %d, len %d", i, zero.Len())
	}
}
