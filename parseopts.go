package lexcalc

import "sort"

// ParseOption is an option for parsing.
type ParseOption interface {
	parseOption(*parsectx)
}

type (
	builtinopt struct {
		name string
		op   Op
	}
	nobuiltinsopt struct{}
)

// parsectx holds configuration for parsing.
type parsectx struct {
	// builtins maps names to the operators they denote when called. It may be
	// shared with the package default, so options copy before writing.
	builtins map[string]Op
	owned    bool
}

func (p *parsectx) own() {
	if p.owned {
		return
	}
	m := make(map[string]Op, len(p.builtins))
	for k, v := range p.builtins {
		m[k] = v
	}
	p.builtins = m
	p.owned = true
}

// Builtin makes name parse as a call of op. Passing OpNone makes name an
// ordinary identifier. Panics if op is not a valid operator or OpNone.
func Builtin(name string, op Op) ParseOption {
	if op != OpNone {
		op.info()
	}
	return &builtinopt{name: name, op: op}
}

func (o *builtinopt) parseOption(p *parsectx) {
	p.own()
	if o.op == OpNone {
		delete(p.builtins, o.name)
		return
	}
	p.builtins[o.name] = o.op
}

// DisableBuiltins makes the names of all built-in operators parse as ordinary
// identifiers. Later Builtin options still apply.
func DisableBuiltins() ParseOption {
	return nobuiltinsopt{}
}

func (nobuiltinsopt) parseOption(p *parsectx) {
	p.builtins = map[string]Op{}
	p.owned = true
}

// Builtins returns the names of the default built-in operators in sorted
// order.
func Builtins() []string {
	r := make([]string, 0, len(builtins))
	for op := OpNone + 1; op < opCount; op++ {
		if !ops[op].infix {
			r = append(r, ops[op].name)
		}
	}
	sort.Strings(r)
	return r
}
