package lexcalc

import (
	"strconv"
	"strings"
)

// Opcode is the operation of a postfix instruction.
type Opcode uint8

const (
	// OpcodePush pushes Value.
	OpcodePush Opcode = iota
	// OpcodeParam pushes argument Index.
	OpcodeParam
	// OpcodeLoad pushes the current value of variable slot Index.
	OpcodeLoad
	// OpcodeCall pops Argc values, runs unit Index with them as arguments,
	// and pushes the result. Only programs compiled with NoInline use it.
	OpcodeCall
	// OpcodeUnary replaces the top value with Op applied to it.
	OpcodeUnary
	// OpcodeBinary pops the top two values and pushes Op applied to them.
	OpcodeBinary
)

// Instr is a postfix instruction.
type Instr struct {
	Code  Opcode
	Op    Op
	Value float64
	Index int
	Argc  int
}

// Program is a compiled function: straight-line postfix code run on an
// explicit value stack. A Program is immutable and safe to run concurrently,
// provided the variables it loads are not modified meanwhile.
type Program struct {
	units []unit
	vars  *Table[float64]
}

// unit is one compiled function. Unit 0 is the program's entry point.
type unit struct {
	name   string
	code   []Instr
	params int
	depth  int
}

// CompileOption is an option for compiling.
type CompileOption interface {
	compileOption(*compiler)
}

type noinlineopt struct{}

// NoInline compiles calls as OpcodeCall instructions that run the callee's
// own compiled code, instead of substituting the callee's body. Each callee
// is compiled once per program, so recursive definitions compile, although
// running them still does not terminate.
func NoInline() CompileOption {
	return noinlineopt{}
}

func (noinlineopt) compileOption(c *compiler) {
	c.inline = false
}

// Compile translates f into a postfix program. By default every call is
// inlined, so the program is a single flat instruction sequence.
func Compile(f *Function, opts ...CompileOption) *Program {
	c := compiler{
		prog:   &Program{vars: f.vars},
		inline: true,
		memo:   make(map[*Function]int),
	}
	for _, opt := range opts {
		opt.compileOption(&c)
	}
	c.unitFor(f, "")
	return c.prog
}

type compiler struct {
	prog   *Program
	inline bool
	memo   map[*Function]int
}

// frame is the scope of an inlined call: the argument trees substituted for
// the callee's parameters, with the scope the arguments belong to.
type frame struct {
	args []*Node
	fn   *Function
	up   *frame
}

// unitFor returns the unit index of f, compiling it if needed.
func (c *compiler) unitFor(f *Function, name string) int {
	if u, ok := c.memo[f]; ok {
		return u
	}
	u := len(c.prog.units)
	c.memo[f] = u
	c.prog.units = append(c.prog.units, unit{name: name, params: f.params})
	e := emitter{c: c}
	e.node(f.root, f, nil)
	c.prog.units[u].code = e.code
	c.prog.units[u].depth = e.max
	return u
}

type emitter struct {
	c    *compiler
	code []Instr
	// depth is the stack depth after the emitted code; max is its maximum.
	depth, max int
}

func (e *emitter) emit(in Instr, delta int) {
	e.code = append(e.code, in)
	e.depth += delta
	if e.depth > e.max {
		e.max = e.depth
	}
}

func (e *emitter) node(n *Node, fn *Function, fr *frame) {
	switch n.Kind {
	case NodeNumber:
		e.emit(Instr{Code: OpcodePush, Value: n.Value}, 1)
	case NodeParam:
		if fr == nil {
			e.emit(Instr{Code: OpcodeParam, Index: n.Index}, 1)
			return
		}
		e.node(fr.args[n.Index], fr.fn, fr.up)
	case NodeVar:
		e.emit(Instr{Code: OpcodeLoad, Index: n.Index}, 1)
	case NodeFunc:
		callee := fn.funcs.At(n.Index)
		if e.c.inline {
			e.node(callee.root, callee, &frame{args: n.Args, fn: fn, up: fr})
			return
		}
		for _, a := range n.Args {
			e.node(a, fn, fr)
		}
		u := e.c.unitFor(callee, fn.funcs.Name(n.Index))
		e.emit(Instr{Code: OpcodeCall, Index: u, Argc: len(n.Args)}, 1-len(n.Args))
	case NodeUnary:
		e.node(n.Left, fn, fr)
		e.emit(Instr{Code: OpcodeUnary, Op: n.Op}, 0)
	case NodeBinary:
		e.node(n.Left, fn, fr)
		e.node(n.Right, fn, fr)
		e.emit(Instr{Code: OpcodeBinary, Op: n.Op}, -1)
	case NodeName, NodeCall:
		panic("lexcalc: compile on unresolved " + n.Kind.String())
	default:
		panic("lexcalc: invalid AST node " + n.Kind.String())
	}
}

// Params returns the program's parameter count.
func (p *Program) Params() int {
	return p.units[0].params
}

// Depth returns the maximum stack depth of the program's entry point.
func (p *Program) Depth() int {
	return p.units[0].depth
}

// Code returns a copy of the instructions of the program's entry point.
func (p *Program) Code() []Instr {
	return append([]Instr(nil), p.units[0].code...)
}

// Run executes the program with args. Panics if len(args) is not p.Params().
func (p *Program) Run(args []float64) float64 {
	p.checkArgs(args)
	return p.run(0, args, make([]float64, 0, p.units[0].depth))
}

// RunMany runs the program at each row of arguments in parallel, returning
// one result per row. Panics if any row has the wrong length.
func (p *Program) RunMany(rows [][]float64) []float64 {
	for _, args := range rows {
		p.checkArgs(args)
	}
	r := make([]float64, len(rows))
	forRows(len(rows), func(lo, hi int) {
		stack := make([]float64, 0, p.units[0].depth)
		for i := lo; i < hi; i++ {
			r[i] = p.run(0, rows[i], stack)
		}
	})
	return r
}

func (p *Program) checkArgs(args []float64) {
	if len(args) != p.Params() {
		panic("lexcalc: " + strconv.Itoa(len(args)) + " arguments to program of " + strconv.Itoa(p.Params()) + " parameters")
	}
}

// run executes unit u. stack is scratch space; its contents are discarded.
func (p *Program) run(u int, args []float64, stack []float64) float64 {
	sp := stack[:0]
	for _, in := range p.units[u].code {
		switch in.Code {
		case OpcodePush:
			sp = append(sp, in.Value)
		case OpcodeParam:
			sp = append(sp, args[in.Index])
		case OpcodeLoad:
			sp = append(sp, p.vars.At(in.Index))
		case OpcodeCall:
			k := len(sp) - in.Argc
			sub := make([]float64, 0, p.units[in.Index].depth)
			r := p.run(in.Index, sp[k:], sub)
			sp = append(sp[:k], r)
		case OpcodeUnary:
			k := len(sp) - 1
			sp[k] = in.Op.Eval1(sp[k])
		case OpcodeBinary:
			k := len(sp) - 1
			sp[k-1] = in.Op.Eval2(sp[k-1], sp[k])
			sp = sp[:k]
		default:
			panic("lexcalc: invalid opcode " + strconv.Itoa(int(in.Code)))
		}
	}
	if len(sp) != 1 {
		panic("lexcalc: inconsistent stack: " + strconv.Itoa(len(sp)) + " items (bad program?)")
	}
	return sp[0]
}

// String disassembles the program, one instruction per line. Called units
// follow the entry point under their names.
func (p *Program) String() string {
	var b strings.Builder
	for i, u := range p.units {
		if i > 0 {
			b.WriteString(u.name + "/" + strconv.Itoa(u.params) + ":\n")
		}
		for _, in := range u.code {
			b.WriteString("\t")
			switch in.Code {
			case OpcodePush:
				b.WriteString("push " + formatNum(in.Value))
			case OpcodeParam:
				b.WriteString("param " + strconv.Itoa(in.Index))
			case OpcodeLoad:
				b.WriteString("load " + p.vars.Name(in.Index))
			case OpcodeCall:
				b.WriteString("call " + p.units[in.Index].name + "/" + strconv.Itoa(in.Argc))
			case OpcodeUnary:
				if in.Op == OpNeg {
					b.WriteString("neg")
				} else {
					b.WriteString(in.Op.String())
				}
			case OpcodeBinary:
				b.WriteString(in.Op.String())
			}
			b.WriteByte('\n')
		}
	}
	return b.String()
}
