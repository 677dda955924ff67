package lexcalc

import "math"

var stdlib = []struct {
	name   string
	params []string
	body   string
}{
	{"length2d", []string{"x", "y"}, "sqrt(x^2 + y^2)"},
	{"length3d", []string{"x", "y", "z"}, "sqrt(x^2 + y^2 + z^2)"},
	{"distance2d", []string{"x1", "y1", "x2", "y2"}, "length2d(x2 - x1, y2 - y1)"},
	{"distance3d", []string{"x1", "y1", "z1", "x2", "y2", "z2"}, "length3d(x2 - x1, y2 - y1, z2 - z1)"},
}

// StandardLibrary creates a context defining the constants pi and e and the
// functions length2d, length3d, distance2d, and distance3d. Use it with
// Library or Inherit.
func StandardLibrary() *Context {
	ctx := NewContext(SetVar("pi", math.Pi), SetVar("e", math.E))
	for _, d := range stdlib {
		tree, err := Parse(d.body)
		if err != nil {
			panic("lexcalc: standard library: " + err.Error())
		}
		f, err := Linker{}.BuildFunction(tree, ctx, d.params)
		if err != nil {
			panic("lexcalc: standard library: " + err.Error())
		}
		if err := ctx.DefineFunction(d.name, f); err != nil {
			panic("lexcalc: standard library: " + err.Error())
		}
	}
	return ctx
}
