package lexcalc_test

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"testing"

	"github.com/zephyrtronium/lexcalc"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestSessionExec(t *testing.T) {
	type line struct {
		src  string
		kind lexcalc.ResultKind
		name string
		v    float64
	}
	cases := []struct {
		name  string
		opts  []lexcalc.SessionOption
		lines []line
	}{
		{
			name: "value",
			lines: []line{
				{"2 + 2", lexcalc.ResultValue, "", 4},
			},
		},
		{
			name: "variable",
			lines: []line{
				{"a = 3", lexcalc.ResultVariable, "a", 3},
				{"a * 2", lexcalc.ResultValue, "", 6},
				{"a = a + 1", lexcalc.ResultVariable, "a", 4},
				{"a", lexcalc.ResultValue, "", 4},
			},
		},
		{
			name: "function",
			lines: []line{
				{"a = 3", lexcalc.ResultVariable, "a", 3},
				{"f(x) = a*x^2", lexcalc.ResultFunction, "f", 0},
				{"f(2)", lexcalc.ResultValue, "", 12},
				{"a = 1", lexcalc.ResultVariable, "a", 1},
				{"f(2)", lexcalc.ResultValue, "", 4},
				{"g(x, y) = f(x) + f(y)", lexcalc.ResultFunction, "g", 0},
				{"f(x) = -x", lexcalc.ResultFunction, "f", 0},
				{"g(1, 2)", lexcalc.ResultValue, "", -3},
				{"h() = 5", lexcalc.ResultFunction, "h", 0},
				{"h() * 2", lexcalc.ResultValue, "", 10},
			},
		},
		{
			name: "inline-vars",
			opts: []lexcalc.SessionOption{lexcalc.WithLinker(lexcalc.Linker{InsertVariableValuesDirectly: true})},
			lines: []line{
				{"a = 3", lexcalc.ResultVariable, "a", 3},
				{"f(x) = a*x", lexcalc.ResultFunction, "f", 0},
				{"a = 1", lexcalc.ResultVariable, "a", 1},
				{"f(2)", lexcalc.ResultValue, "", 6},
			},
		},
		{
			name: "library",
			opts: []lexcalc.SessionOption{lexcalc.WithContext(lexcalc.StandardLibrary())},
			lines: []line{
				{"distance2d(0, 0, 3, 4)", lexcalc.ResultValue, "", 5},
				{"length2d(x, y) = x + y", lexcalc.ResultFunction, "length2d", 0},
				{"distance2d(0, 0, 3, 4)", lexcalc.ResultValue, "", 7},
			},
		},
		{
			name: "no-builtins",
			opts: []lexcalc.SessionOption{lexcalc.WithParseOptions(lexcalc.DisableBuiltins())},
			lines: []line{
				{"sin = 2", lexcalc.ResultVariable, "sin", 2},
				{"sin + 1", lexcalc.ResultValue, "", 3},
				{"cos(x) = x", lexcalc.ResultFunction, "cos", 0},
				{"cos(4)", lexcalc.ResultValue, "", 4},
			},
		},
		{
			name: "custom-builtin",
			opts: []lexcalc.SessionOption{lexcalc.WithParseOptions(lexcalc.Builtin("root", lexcalc.OpSqrt))},
			lines: []line{
				{"root(9)", lexcalc.ResultValue, "", 3},
			},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := lexcalc.NewSession(append([]lexcalc.SessionOption{lexcalc.WithLogger(discard)}, c.opts...)...)
			for _, l := range c.lines {
				r, err := s.Exec(l.src)
				if err != nil {
					t.Fatalf("%q: %v", l.src, err)
				}
				if r.Kind != l.kind || r.Name != l.name {
					t.Errorf("%q: want kind %d name %q, got %d %q", l.src, l.kind, l.name, r.Kind, r.Name)
				}
				if l.kind != lexcalc.ResultFunction && r.Value != l.v {
					t.Errorf("%q: want %g, got %g", l.src, l.v, r.Value)
				}
				if r.Func == nil {
					t.Errorf("%q: no function in result", l.src)
				}
			}
		})
	}
}

func TestSessionDefinitionResults(t *testing.T) {
	s := lexcalc.NewSession(lexcalc.WithLogger(discard))
	r, err := s.Exec("f(x, y) = x*y + 1")
	if err != nil {
		t.Fatal(err)
	}
	if r.Func.Params() != 2 {
		t.Errorf("want 2 params, got %d", r.Func.Params())
	}
	if got := strings.Join(r.Func.ParamNames(), ","); got != "x,y" {
		t.Errorf("want params x,y, got %s", got)
	}
	if got := r.Func.String(); got != "x * y + 1" {
		t.Errorf("want body x * y + 1, got %q", got)
	}
	f, ok := s.Context().LookupFunction("f")
	if !ok {
		t.Fatal("f not defined in context")
	}
	if v := f.Evaluate([]float64{2, 3}); v != 7 {
		t.Errorf("want 7, got %g", v)
	}
	if s.Linker() != (lexcalc.Linker{}) {
		t.Errorf("default session has linker %+v", s.Linker())
	}
}

func TestSessionErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		is   error
		as   any
		err  string
	}{
		{"no-name", "= 3", lexcalc.ErrParse, new(*lexcalc.DefinitionError), `invalid definition`},
		{"no-value", "a =", lexcalc.ErrParse, new(*lexcalc.EmptyExpressionError), `no expression`},
		{"builtin", "sin = 1", lexcalc.ErrParse, new(*lexcalc.DefinitionError), `\bsin\b.*built-in`},
		{"builtin-func", "exp(x) = x", lexcalc.ErrParse, new(*lexcalc.DefinitionError), `\bexp\b.*built-in`},
		{"number", "2 = 3", lexcalc.ErrParse, new(*lexcalc.DefinitionError), `invalid definition`},
		{"expr", "x + 1 = 3", lexcalc.ErrParse, new(*lexcalc.DefinitionError), `invalid definition`},
		{"param-number", "f(1) = 2", lexcalc.ErrParse, new(*lexcalc.DefinitionError), `parameters of f`},
		{"param-dup", "f(x, x) = 2", lexcalc.ErrParse, new(*lexcalc.DefinitionError), `duplicate parameter x`},
		{"left-syntax", "f(x = 1", lexcalc.ErrParse, new(*lexcalc.BracketError), `^left side of definition: `},
		{"right-syntax", "a = 1 +", lexcalc.ErrParse, new(*lexcalc.EmptyExpressionError), `^defining a: `},
		{"token", "a = $", lexcalc.ErrLex, new(*lexcalc.LexError), `invalid token`},
		{"undefined", "f(x) = y", lexcalc.ErrUndefined, new(*lexcalc.UndefinedError), `^defining f: undefined variable: "y"`},
		{"second-eq", "a = b = 1", lexcalc.ErrParse, new(*lexcalc.OperatorError), `^defining a: `},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := lexcalc.NewSession(lexcalc.WithLogger(discard))
			r, err := s.Exec(c.src)
			if err == nil {
				t.Fatalf("%q: no error, got %+v", c.src, r)
			}
			if !errors.Is(err, c.is) {
				t.Errorf("%q: error %v is not %v", c.src, err, c.is)
			}
			if !errors.As(err, c.as) {
				t.Errorf("%q: error %#v is not %T", c.src, err, c.as)
			}
			var ie lexcalc.InputError
			if c.is != lexcalc.ErrUndefined && !errors.As(err, &ie) {
				t.Errorf("%q: error %v has no position", c.src, err)
			}
			if !regexp.MustCompile(c.err).MatchString(err.Error()) {
				t.Errorf("%q: error %q doesn't match %q", c.src, err, c.err)
			}
			if len(s.Context().Variables()) != 0 || len(s.Context().Functions()) != 0 {
				t.Errorf("%q: failed line defined names", c.src)
			}
		})
	}
}

func TestSessionArity(t *testing.T) {
	s := lexcalc.NewSession(lexcalc.WithLogger(discard))
	if _, err := s.Exec("g(x, y) = x - y"); err != nil {
		t.Fatal(err)
	}
	_, err := s.Exec("g(x) = x")
	var a *lexcalc.ArityError
	if !errors.As(err, &a) {
		t.Fatalf("want *ArityError, got %v", err)
	}
	if a.Want != 2 || a.Got != 1 {
		t.Errorf("wrong arity error %+v", a)
	}
	if !regexp.MustCompile(`^defining g: wrong argument count`).MatchString(err.Error()) {
		t.Errorf("error %q isn't wrapped", err)
	}
}

func TestSessionLog(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s := lexcalc.NewSession(lexcalc.WithLogger(logger))
	for _, line := range []string{"k = 2", "f(x) = k*x", "f(4)"} {
		if _, err := s.Exec(line); err != nil {
			t.Fatalf("%q: %v", line, err)
		}
	}
	out := buf.String()
	for _, want := range []string{
		`msg="defined variable" name=k value=2`,
		`msg="defined function" name=f params=1 body="k * x"`,
		`msg=evaluated expr=f(4) value=8`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log doesn't contain %q:\n%s", want, out)
		}
	}
}
