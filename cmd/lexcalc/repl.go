package main

import (
	"fmt"
	"io"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/zephyrtronium/lexcalc"
)

type repl struct {
	s    *lexcalc.Session
	out  io.Writer
	verb string
	echo bool
}

const help = `Enter an expression to evaluate it, or define names:
  name = expr             define a variable
  name(x, y, ...) = expr  define a function
Commands:
  ~help          show this message
  ~summary       list variables and functions
  ~tree f        show the tree of function f
  ~compile f     show the postfix program of function f
  ~test f        compare tree and postfix evaluation of f on random arguments
  ~dx f, ~dy f, ~dz f
                 differentiate f by its first, second, or third parameter
  ~optimize f    simplify f
`

// line executes one line of input, printing results and errors to r.out.
func (r *repl) line(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if strings.HasPrefix(text, "~") {
		cmd, arg, _ := strings.Cut(text[1:], " ")
		if err := r.command(cmd, strings.TrimSpace(arg)); err != nil {
			fmt.Fprintln(r.out, err)
		}
		return
	}
	res, err := r.s.Exec(text)
	if err != nil {
		fmt.Fprintln(r.out, err)
		return
	}
	if r.echo {
		fmt.Fprintf(r.out, "%v : ", res.Func)
	}
	switch res.Kind {
	case lexcalc.ResultValue:
		fmt.Fprintf(r.out, r.verb, res.Value)
	case lexcalc.ResultVariable:
		fmt.Fprintf(r.out, "%s = "+r.verb, res.Name, res.Value)
	case lexcalc.ResultFunction:
		fmt.Fprintf(r.out, "%s(%s) = %v\n", res.Name, strings.Join(res.Func.ParamNames(), ", "), res.Func)
	}
}

func (r *repl) command(cmd, arg string) error {
	ctx := r.s.Context()
	switch cmd {
	case "help":
		fmt.Fprint(r.out, help)
		return nil
	case "summary":
		r.summary()
		return nil
	}
	f, ok := ctx.LookupFunction(arg)
	if !ok {
		return fmt.Errorf("~%s: no function named %q", cmd, arg)
	}
	switch cmd {
	case "tree":
		printTree(r.out, ctx, f)
	case "compile":
		fmt.Fprint(r.out, lexcalc.Compile(f, lexcalc.NoInline()))
	case "test":
		r.test(f)
	case "dx", "dy", "dz":
		p := int(cmd[1] - 'x')
		df, err := lexcalc.Differentiate(f, p)
		if err != nil {
			return err
		}
		fmt.Fprintln(r.out, df)
		printTree(r.out, ctx, df)
		odf := lexcalc.Optimize(df)
		fmt.Fprintln(r.out, "Optimized:")
		fmt.Fprintln(r.out, odf)
		printTree(r.out, ctx, odf)
	case "optimize":
		of := lexcalc.Optimize(f)
		fmt.Fprintln(r.out, "Unoptimized:")
		fmt.Fprintln(r.out, f)
		printTree(r.out, ctx, f)
		fmt.Fprintln(r.out, "Optimized:")
		fmt.Fprintln(r.out, of)
		printTree(r.out, ctx, of)
	default:
		return fmt.Errorf("unknown command ~%s (try ~help)", cmd)
	}
	return nil
}

func (r *repl) summary() {
	ctx := r.s.Context()
	fmt.Fprintln(r.out, "Functions:")
	for _, name := range ctx.Functions() {
		f, _ := ctx.LookupFunction(name)
		s := "s"
		if f.Params() == 1 {
			s = ""
		}
		fmt.Fprintf(r.out, "  %s(%d argument%s) = %v\n", name, f.Params(), s, f)
	}
	fmt.Fprintln(r.out, "Variables:")
	for _, name := range ctx.Variables() {
		v, _ := ctx.Lookup(name)
		fmt.Fprintf(r.out, "  %s = %g\n", name, v)
	}
}

// test evaluates f on random arguments with both evaluators, printing a few
// results, any disagreement, and the time each takes on a large batch.
func (r *repl) test(f *lexcalc.Function) {
	prog := lexcalc.Compile(f)
	rows := randomRows(10, f.Params())
	tree, post := f.EvaluateMany(rows), prog.RunMany(rows)
	for i, args := range rows {
		fmt.Fprintf(r.out, "f%v = %g", args, tree[i])
		if !same(tree[i], post[i]) {
			fmt.Fprintf(r.out, " (postfix: %g)", post[i])
		}
		fmt.Fprintln(r.out)
	}
	rows = randomRows(100000, f.Params())
	start := time.Now()
	f.EvaluateMany(rows)
	dt := time.Since(start)
	start = time.Now()
	prog.RunMany(rows)
	dp := time.Since(start)
	fmt.Fprintf(r.out, "%d rows: tree %v, postfix %v\n", len(rows), dt, dp)
}

func randomRows(n, params int) [][]float64 {
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = make([]float64, params)
		for j := range rows[i] {
			rows[i][j] = math.Floor(rand.Float64()*100-50) / 10
		}
	}
	return rows
}

func same(x, y float64) bool {
	if math.IsNaN(x) || math.IsNaN(y) {
		return math.IsNaN(x) && math.IsNaN(y)
	}
	return x == y || math.Abs(x-y) <= 1e-9*math.Max(math.Abs(x), math.Abs(y))
}
