package lexcalc

import (
	"errors"
	"math"
	"testing"
)

func TestTokenize(t *testing.T) {
	num := func(text string, v float64, pos int) Token {
		return Token{Kind: TokenNumber, Text: text, Value: v, Pos: pos}
	}
	id := func(text string, pos int) Token {
		return Token{Kind: TokenIdent, Text: text, Pos: pos}
	}
	sym := func(text string, pos int) Token {
		return Token{Kind: TokenSymbol, Text: text, Pos: pos}
	}
	cases := []struct {
		src    string
		tokens []Token
	}{
		// spaces
		{"", nil},
		{" \t \r\n ", nil},
		// numbers
		{"0", []Token{num("0", 0, 1)}},
		{"9876543210", []Token{num("9876543210", 9876543210, 1)}},
		{"1 0", []Token{num("1", 1, 1), num("0", 0, 3)}},
		{"1.0", []Token{num("1.0", 1, 1)}},
		{"-1", []Token{sym("-", 1), num("1", 1, 2)}},
		{"1e1", []Token{num("1e1", 10, 1)}},
		{"1e+1", []Token{num("1e+1", 10, 1)}},
		{"1e-1", []Token{num("1e-1", 0.1, 1)}},
		{"3.5e-2", []Token{num("3.5e-2", 0.035, 1)}},
		{"1.0e1", []Token{num("1.0e1", 10, 1)}},
		{".1", []Token{num(".1", 0.1, 1)}},
		{"1.", []Token{num("1.", 1, 1)}},
		{".1e1", []Token{num(".1e1", 1, 1)}},
		{"1e999", []Token{num("1e999", math.Inf(1), 1)}},
		{"∞", []Token{num("∞", math.Inf(1), 1)}},
		{"1+0", []Token{num("1", 1, 1), sym("+", 2), num("0", 0, 3)}},
		{"1e1-1", []Token{num("1e1", 10, 1), sym("-", 4), num("1", 1, 5)}},
		{"2*x", []Token{num("2", 2, 1), sym("*", 2), id("x", 3)}},
		{"(1)", []Token{sym("(", 1), num("1", 1, 2), sym(")", 3)}},
		{"1,2", []Token{num("1", 1, 1), sym(",", 2), num("2", 2, 3)}},
		{"a=1", []Token{id("a", 1), sym("=", 2), num("1", 1, 3)}},
		// identifiers
		{"e", []Token{id("e", 1)}},
		{"e1", []Token{id("e1", 1)}},
		{"π", []Token{id("π", 1)}},
		{"eπ", []Token{id("eπ", 1)}},
		{"_1234_", []Token{id("_1234_", 1)}},
		{"e(", []Token{id("e", 1), sym("(", 2)}},
		{"length2d(x,y)", []Token{id("length2d", 1), sym("(", 9), id("x", 10), sym(",", 11), id("y", 12), sym(")", 13)}},
		// operators
		{"+", []Token{sym("+", 1)}},
		{"++", []Token{sym("+", 1), sym("+", 2)}},
		{"a--b", []Token{id("a", 1), sym("-", 2), sym("-", 3), id("b", 4)}},
		{"x×y÷z", []Token{id("x", 1), sym("×", 2), id("y", 3), sym("÷", 4), id("z", 5)}},
		// brackets
		{"()", []Token{sym("(", 1), sym(")", 2)}},
		{"[]", []Token{sym("[", 1), sym("]", 2)}},
		{"{}", []Token{sym("{", 1), sym("}", 2)}},
	}
	for _, c := range cases {
		toks, err := Tokenize(c.src)
		if err != nil {
			t.Errorf("tokenizing %q: unexpected error %v", c.src, err)
			continue
		}
		if len(toks) != len(c.tokens) {
			t.Errorf("tokenizing %q: want %v, got %v", c.src, c.tokens, toks)
			continue
		}
		for i, want := range c.tokens {
			if toks[i] != want {
				t.Errorf("tokenizing %q: token %d: want %v (%g), got %v (%g)", c.src, i, want, want.Value, toks[i], toks[i].Value)
			}
		}
	}
}

func TestTokenizeErrors(t *testing.T) {
	cases := []struct {
		src  string
		kind string
		r    rune
		col  int
	}{
		{"1.2.3", "number", '.', 4},
		{"1a", "number", 'a', 2},
		{"1e", "number", -1, 2},
		{"1e+", "number", -1, 3},
		{".", "number", -1, 1},
		{"1ee1", "number", 'e', 3},
		{"$", "", '$', 1},
		{"a$", "", '$', 2},
		{"$a", "", '$', 1},
		{"0$", "number", '$', 2},
		{"2^exp(-$)", "", '$', 8},
		{"x;y", "", ';', 2},
	}
	for _, c := range cases {
		toks, err := Tokenize(c.src)
		if err == nil {
			t.Errorf("tokenizing %q: no error, got %v", c.src, toks)
			continue
		}
		if toks != nil {
			t.Errorf("tokenizing %q: got tokens %v with error", c.src, toks)
		}
		if !errors.Is(err, ErrLex) {
			t.Errorf("tokenizing %q: error %v is not ErrLex", c.src, err)
		}
		var le *LexError
		if !errors.As(err, &le) {
			t.Errorf("tokenizing %q: error %#v is not *LexError", c.src, err)
			continue
		}
		if le.Kind != c.kind || le.Rune != c.r || le.Pos() != c.col {
			t.Errorf("tokenizing %q: want %s error on %q at %d, got %s error on %q at %d", c.src, c.kind, c.r, c.col, le.Kind, le.Rune, le.Pos())
		}
	}
}

func TestTokenSymbol(t *testing.T) {
	toks, err := Tokenize("x ÷ 2")
	if err != nil {
		t.Fatal(err)
	}
	if r := toks[1].Symbol(); r != '÷' {
		t.Errorf("want ÷, got %q", r)
	}
	if r := toks[0].Symbol(); r != -1 {
		t.Errorf("identifier has symbol %q", r)
	}
}
