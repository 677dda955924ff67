// Package lexcalc implements a small compiler for numeric functions.
//
// Text is split into tokens by Tokenize and built into an unresolved tree by
// Construct. A Linker binds the free names of a tree against a Context,
// producing a Function. Functions can be evaluated directly, compiled into a
// flat Program for fast repeated evaluation, differentiated symbolically, and
// simplified.
//
// A Context holds two append-only symbol tables, one for variables and one for
// functions. Names bound by index see later changes to the tables; names bound
// directly are frozen when linked. Which one happens is decided by the Linker:
//
//	ctx := lexcalc.NewContext(lexcalc.SetVar("a", 2))
//	tree, _ := lexcalc.Parse("a*x^2")
//	f, _ := new(lexcalc.Linker).BuildFunction(tree, ctx, []string{"x"})
//	f.Evaluate([]float64{3}) // 18
//	ctx.DefineVariable("a", 1)
//	f.Evaluate([]float64{3}) // 9
//
// Arithmetic uses float64 throughout. Division by zero and similar produce
// infinities and NaNs rather than errors.
package lexcalc
