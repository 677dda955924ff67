package lexcalc

import (
	"errors"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Token is a lexical token. Only the fields relevant to its Kind are set.
type Token struct {
	Kind TokenKind
	// Text is the source text of the token.
	Text string
	// Value is the value of a TokenNumber.
	Value float64
	// Pos is the column of the token's first rune, counting from 1.
	Pos int
}

// Symbol returns the rune of a TokenSymbol, or -1 for other kinds.
func (t Token) Symbol() rune {
	if t.Kind != TokenSymbol {
		return -1
	}
	for _, r := range t.Text {
		return r
	}
	return -1
}

func (t Token) String() string {
	return t.Kind.String() + ":" + t.Text + "@" + strconv.Itoa(t.Pos)
}

// TokenKind is the kind of a token.
type TokenKind int8

const (
	// TokenNone marks the end of input inside the parser. Tokenize never
	// produces it.
	TokenNone TokenKind = iota
	// TokenSymbol is a single-rune operator, bracket, separator, or equals
	// sign.
	TokenSymbol
	// TokenIdent is a variable or function name.
	TokenIdent
	// TokenNumber is a numeric literal.
	TokenNumber
)

func (k TokenKind) String() string {
	switch k {
	case TokenNone:
		return "None"
	case TokenSymbol:
		return "Symbol"
	case TokenIdent:
		return "Ident"
	case TokenNumber:
		return "Number"
	default:
		return "TokenKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Operators contains the runes which are considered to be operators.
const Operators = "+-*/^×÷"

// OpenBrackets and CloseBrackets contain the runes which group expressions.
// The parser checks that a bracket in byte position k in OpenBrackets is
// matched with the bracket in byte position k in CloseBrackets.
const (
	OpenBrackets  = "([{"
	CloseBrackets = ")]}"
)

// Symbols contains every rune that lexes as a TokenSymbol.
const Symbols = Operators + OpenBrackets + CloseBrackets + ",="

type lexer struct {
	src  io.RuneScanner
	buf  strings.Builder
	rune int
}

// readRune reads a rune from the src and updates the lexer's position info.
func (l *lexer) readRune() (r rune, err error) {
	r, sz, err := l.src.ReadRune()
	if sz > 0 {
		l.rune++
	}
	return r, err
}

// unreadRune unreads a rune from the src and updates the lexer's position
// info. Panics if unreading returns an error.
func (l *lexer) unreadRune() {
	if err := l.src.UnreadRune(); err != nil {
		panic(err)
	}
	l.rune--
}

// Tokenize splits src into tokens. Whitespace separates tokens and produces
// none of its own.
func Tokenize(src string) ([]Token, error) {
	l := lexer{src: strings.NewReader(src)}
	var toks []Token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		if tok.Kind == TokenNone {
			return toks, nil
		}
		toks = append(toks, tok)
	}
}

// next scans the next token from the input. At the end of input, the result
// has kind TokenNone.
func (l *lexer) next() (Token, error) {
	defer l.buf.Reset()
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return Token{Pos: l.rune + 1}, nil
			}
			return Token{}, err
		}
		tok := Token{Pos: l.rune}
		switch {
		case unicode.IsSpace(r):
			continue
		case '0' <= r && r <= '9', r == '.':
			l.unreadRune()
			if err := l.scanNum(); err != nil {
				return tok, err
			}
			tok.Kind = TokenNumber
			tok.Text = l.buf.String()
			tok.Value = numValue(tok.Text)
			return tok, nil
		case r == '_', unicode.IsLetter(r):
			l.unreadRune()
			if err := l.scanIdent(); err != nil {
				return tok, err
			}
			tok.Kind = TokenIdent
			tok.Text = l.buf.String()
			return tok, nil
		case r == '∞':
			tok.Kind = TokenNumber
			tok.Text = "∞"
			tok.Value = math.Inf(1)
			return tok, nil
		case strings.ContainsRune(Symbols, r):
			tok.Kind = TokenSymbol
			tok.Text = string(r)
			return tok, nil
		default:
			return tok, l.error("", r)
		}
	}
}

func (l *lexer) scanNum() error {
	var dig, dot, e, le, ed bool
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		if unicode.IsSpace(r) {
			l.unreadRune()
			break
		}
		if r == '+' || r == '-' {
			// + or - anywhere other than immediately following an exponent
			// marker means a new token, as it is an operator.
			if !le {
				l.unreadRune()
				break
			}
			le = false
			l.buf.WriteRune(r)
			continue
		}
		if strings.ContainsRune(Symbols, r) {
			l.unreadRune()
			break
		}
		switch r {
		case '.':
			if dot || e {
				return l.error("number", r)
			}
			dot = true
			le = false
		case 'e', 'E':
			if !dig || e {
				return l.error("number", r)
			}
			e = true
			le = true
		case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
			if e {
				ed = true
			} else {
				dig = true
			}
			le = false
		default:
			return l.error("number", r)
		}
		l.buf.WriteRune(r)
	}
	if !dig || e && !ed {
		return l.error("number", -1)
	}
	return nil
}

func (l *lexer) scanIdent() error {
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				// next unreads the rune that decides ident scanning before
				// calling scanIdent, so we have scanned at least one rune.
				return nil
			}
			return err
		}
		switch {
		case r == '_', unicode.IsLetter(r), unicode.IsDigit(r):
			l.buf.WriteRune(r)
		default:
			l.unreadRune()
			return nil
		}
	}
}

// numValue converts a scanned number. Literals too large for float64 become
// infinite rather than failing.
func numValue(text string) float64 {
	v, err := strconv.ParseFloat(text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		panic("lexcalc: scanned invalid number " + strconv.Quote(text))
	}
	return v
}

// error creates a LexError at the current position. r is the offending rune,
// or -1 if the token ended early.
func (l *lexer) error(kind string, r rune) error {
	text := l.buf.String()
	if r >= 0 {
		text += string(r)
	}
	return &LexError{
		Text: text,
		Kind: kind,
		Rune: r,
		Col:  l.rune,
	}
}

// LexError indicates an invalid token. It implements InputError.
type LexError struct {
	// Text is the token the lexer was scanning when the invalid rune was
	// encountered, plus the invalid rune.
	Text string
	// Kind is the type of token the lexer was scanning. This is "number" or
	// the empty string if a token kind hadn't been decided.
	Kind string
	// Rune is the offending rune, or -1 if the input ended in the middle of a
	// token.
	Rune rune
	// Col is the column of the offending rune, or of the last rune of the
	// token if Rune is -1.
	Col int
}

func (err *LexError) Error() string {
	pos := "column " + strconv.Itoa(err.Col)
	if err.Kind == "" {
		return "invalid token at " + pos + ": " + err.Text
	}
	if err.Rune < 0 {
		return "incomplete " + err.Kind + " token at " + pos + ": " + err.Text
	}
	return "invalid " + err.Kind + " token at " + pos + ": " + err.Text
}

func (err *LexError) Pos() int {
	return err.Col
}

func (err *LexError) Unwrap() error {
	return ErrLex
}
