package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/zephyrtronium/lexcalc"
)

// printTree writes f's tree with one node per line, indented by depth. Calls
// are followed by the callee's body with the call's arguments substituted.
func printTree(w io.Writer, ctx *lexcalc.Context, f *lexcalc.Function) {
	p := treePrinter{w: w, vars: ctx.Variables(), funcs: ctx.Functions(), ctx: ctx}
	p.node(f.Tree(), 1)
}

type treePrinter struct {
	w     io.Writer
	ctx   *lexcalc.Context
	vars  []string
	funcs []string
}

func (p *treePrinter) line(depth int, format string, args ...any) {
	fmt.Fprintf(p.w, "%s"+format+"\n", append([]any{strings.Repeat("  ", depth)}, args...)...)
}

func (p *treePrinter) node(n *lexcalc.Node, depth int) {
	switch n.Kind {
	case lexcalc.NodeNumber:
		p.line(depth, "%g", n.Value)
	case lexcalc.NodeParam:
		p.line(depth, "$%d", n.Index)
	case lexcalc.NodeVar:
		p.line(depth, "%s (V:%d)", p.vars[n.Index], n.Index)
	case lexcalc.NodeFunc:
		name := p.funcs[n.Index]
		p.line(depth, "%s (F:%d)", name, n.Index)
		for _, a := range n.Args {
			p.node(a, depth+1)
		}
		callee, _ := p.ctx.LookupFunction(name)
		body, err := lexcalc.ReplaceParameters(callee.Tree(), n.Args)
		if err != nil {
			p.line(depth+1, "error: %v", err)
			return
		}
		p.line(depth+1, "=")
		p.node(body, depth+2)
	case lexcalc.NodeUnary, lexcalc.NodeBinary:
		p.line(depth, "%v", n.Op)
		p.node(n.Left, depth+1)
		if n.Right != nil {
			p.node(n.Right, depth+1)
		}
	default:
		p.line(depth, "%v", n)
	}
}
