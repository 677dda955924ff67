package lexcalc

import (
	"log/slog"

	"github.com/pkg/errors"
)

// Session executes lines of input against a context. A line is either an
// expression to evaluate or a definition:
//
//	name = expr
//	name(param, ...) = expr
//
// A variable definition evaluates expr immediately. A function definition
// links expr with the given parameter names. A Session is not safe for
// concurrent use.
type Session struct {
	ctx    *Context
	linker Linker
	popts  []ParseOption
	p      parsectx
	log    *slog.Logger
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithContext sets the context the session defines names in. The default is
// an empty context.
func WithContext(ctx *Context) SessionOption {
	return func(s *Session) {
		s.ctx = ctx
	}
}

// WithLinker sets the linker used for expressions and definitions.
func WithLinker(l Linker) SessionOption {
	return func(s *Session) {
		s.linker = l
	}
}

// WithParseOptions sets options used to construct every expression.
func WithParseOptions(opts ...ParseOption) SessionOption {
	return func(s *Session) {
		s.popts = append(s.popts, opts...)
	}
}

// WithLogger sets the logger for debug messages. The default is
// slog.Default().
func WithLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) {
		s.log = logger
	}
}

// NewSession creates a session.
func NewSession(opts ...SessionOption) *Session {
	var s Session
	for _, opt := range opts {
		opt(&s)
	}
	if s.ctx == nil {
		s.ctx = NewContext()
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	s.p = parsectx{builtins: builtins}
	for _, opt := range s.popts {
		opt.parseOption(&s.p)
	}
	return &s
}

// Context returns the session's context.
func (s *Session) Context() *Context {
	return s.ctx
}

// Linker returns the session's linker.
func (s *Session) Linker() Linker {
	return s.linker
}

// ResultKind is the kind of line a Session executed.
type ResultKind int8

const (
	// ResultValue is an evaluated expression.
	ResultValue ResultKind = iota
	// ResultVariable is a variable definition.
	ResultVariable
	// ResultFunction is a function definition.
	ResultFunction
)

// Result is the outcome of executing a line.
type Result struct {
	Kind ResultKind
	// Name is the defined name for definitions.
	Name string
	// Value is the value of an expression or a newly defined variable.
	Value float64
	// Func is the linked expression or the defined function.
	Func *Function
}

// Exec executes one line. Errors wrap the underlying typed errors, so
// errors.As and errors.Is see through them.
func (s *Session) Exec(line string) (Result, error) {
	toks, err := Tokenize(line)
	if err != nil {
		return Result{}, err
	}
	eq := -1
	for i, tok := range toks {
		if tok.Kind == TokenSymbol && tok.Text == "=" {
			eq = i
			break
		}
	}
	if eq < 0 {
		f, err := s.build(toks, nil)
		if err != nil {
			return Result{}, err
		}
		v := f.Evaluate(nil)
		s.log.Debug("evaluated", slog.String("expr", f.String()), slog.Float64("value", v))
		return Result{Kind: ResultValue, Value: v, Func: f}, nil
	}
	lhs, rhs := toks[:eq], toks[eq+1:]
	if len(lhs) == 0 {
		return Result{}, &DefinitionError{Col: toks[eq].Pos, Reason: "nothing to define"}
	}
	if len(rhs) == 0 {
		return Result{}, &EmptyExpressionError{Col: toks[eq].Pos + 1}
	}
	left, err := Construct(lhs, DisableBuiltins())
	if err != nil {
		return Result{}, errors.Wrap(err, "left side of definition")
	}
	name := left.Name
	if _, ok := s.p.builtins[name]; ok {
		return Result{}, &DefinitionError{Col: lhs[0].Pos, Reason: name + " is a built-in operator"}
	}
	switch left.Kind {
	case NodeName:
		f, err := s.build(rhs, nil)
		if err != nil {
			return Result{}, errors.Wrapf(err, "defining %s", name)
		}
		v := f.Evaluate(nil)
		s.ctx.DefineVariable(name, v)
		s.log.Debug("defined variable", slog.String("name", name), slog.Float64("value", v))
		return Result{Kind: ResultVariable, Name: name, Value: v, Func: f}, nil
	case NodeCall:
		params := make([]string, len(left.Args))
		seen := make(map[string]bool, len(left.Args))
		for i, a := range left.Args {
			if a.Kind != NodeName {
				return Result{}, &DefinitionError{Col: lhs[0].Pos, Reason: "parameters of " + name + " must be names"}
			}
			if seen[a.Name] {
				return Result{}, &DefinitionError{Col: lhs[0].Pos, Reason: "duplicate parameter " + a.Name}
			}
			seen[a.Name] = true
			params[i] = a.Name
		}
		f, err := s.build(rhs, params)
		if err != nil {
			return Result{}, errors.Wrapf(err, "defining %s", name)
		}
		if err := s.ctx.DefineFunction(name, f); err != nil {
			return Result{}, errors.Wrapf(err, "defining %s", name)
		}
		s.log.Debug("defined function", slog.String("name", name), slog.Int("params", len(params)), slog.String("body", f.String()))
		return Result{Kind: ResultFunction, Name: name, Func: f}, nil
	default:
		return Result{}, &DefinitionError{Col: lhs[0].Pos, Reason: "left side must be a name or a call with named parameters"}
	}
}

// build constructs and links an expression.
func (s *Session) build(toks []Token, params []string) (*Function, error) {
	tree, err := Construct(toks, s.popts...)
	if err != nil {
		return nil, err
	}
	return s.linker.BuildFunction(tree, s.ctx, params)
}
