package lexcalc

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Expr = num | name | Call | Builtin | Neg | Plus | Add | Sub | Mul | Div | Pow | '(' Expr ')' | '[' Expr ']' | '{' Expr '}'
// Call = name ArgList
// Builtin = opname ArgList
// ArgList = '(' [ Expr { ',' Expr } ] ')' | '[' ... ']' | '{' ... '}'
// Neg = '-' Expr
// Plus = '+' Expr
// Add = Expr '+' Expr
// Sub = Expr '-' Expr
// Mul = Expr '*' Expr | Expr '×' Expr
// Div = Expr '/' Expr | Expr '÷' Expr
// Pow = Expr '^' Expr

// Parse tokenizes and constructs an expression.
func Parse(src string, opts ...ParseOption) (*Node, error) {
	toks, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	return Construct(toks, opts...)
}

// Construct builds an unresolved expression tree from a token sequence. The
// result contains NodeName and NodeCall nodes for identifiers; Linker resolves
// them. Names of built-in operators followed by an argument list become
// NodeUnary or NodeBinary nodes directly.
func Construct(toks []Token, opts ...ParseOption) (*Node, error) {
	p := parser{
		toks:     toks,
		parsectx: parsectx{builtins: builtins},
		end:      1,
	}
	for _, opt := range opts {
		opt.parseOption(&p.parsectx)
	}
	if len(toks) > 0 {
		last := toks[len(toks)-1]
		p.end = last.Pos + utf8.RuneCountInString(last.Text)
	}
	n, err := p.parseterm(exprprec)
	if err != nil {
		return nil, err
	}
	tok := p.peek()
	if tok.Kind != TokenNone {
		return nil, itShouldNotHaveEndedThisWay(tok, -1)
	}
	if n == nil {
		return nil, &EmptyExpressionError{Col: tok.Pos}
	}
	return n, nil
}

type parser struct {
	parsectx
	toks []Token
	i    int
	// end is the column just past the last token.
	end int
}

// peek returns the next token without consuming it. At the end of input, the
// result has kind TokenNone.
func (p *parser) peek() Token {
	if p.i < len(p.toks) {
		return p.toks[p.i]
	}
	return Token{Pos: p.end}
}

// next consumes the next token.
func (p *parser) next() Token {
	tok := p.peek()
	if p.i < len(p.toks) {
		p.i++
	}
	return tok
}

// parseterm parses a single term. The token that ends the term is left
// unconsumed. If the input is an empty subexpression, the result is nil with
// no error; callers must create an error in contexts where empty
// subexpressions are illegal.
func (p *parser) parseterm(until operator) (*Node, error) {
	n, err := p.parselhs(until)
	if err != nil || n == nil {
		return nil, err
	}
	for {
		tok := p.peek()
		switch tok.Kind {
		case TokenNone:
			return n, nil
		case TokenNumber, TokenIdent:
			// No implicit multiplication.
			return nil, &OperandError{Col: tok.Pos, Text: tok.Text}
		case TokenSymbol:
			r := tok.Symbol()
			switch {
			case strings.ContainsRune(Operators, r):
				prec := binop(r)
				if !prec.moreBinding(until) {
					return n, nil
				}
				p.next()
				rhs, err := p.parseterm(prec)
				if err != nil {
					return nil, err
				}
				if rhs == nil {
					return nil, p.empty()
				}
				n = NewBinary(prec.op, n, rhs)
			case strings.ContainsRune(OpenBrackets, r):
				return nil, &OperandError{Col: tok.Pos, Text: tok.Text}
			case strings.ContainsRune(CloseBrackets, r), r == ',':
				// End of expression.
				return n, nil
			default:
				return nil, &OperatorError{Col: tok.Pos, Operator: tok.Text, Unary: false}
			}
		default:
			panic("lexcalc: unknown token: " + tok.String())
		}
	}
}

// parselhs parses the first component of a term. I.e., operators are unary
// and any encountered token must be valid as the start of a subexpression.
// Close brackets, separators, and the end of input produce a nil result
// without being consumed.
func (p *parser) parselhs(until operator) (*Node, error) {
	tok := p.peek()
	switch tok.Kind {
	case TokenNone:
		return nil, nil
	case TokenNumber:
		p.next()
		return NewNumber(tok.Value), nil
	case TokenIdent:
		p.next()
		return p.parseident(tok)
	case TokenSymbol:
		r := tok.Symbol()
		switch {
		case strings.ContainsRune(OpenBrackets, r):
			p.next()
			match := rightbracket(r)
			rhs, err := p.parseterm(exprprec)
			if err != nil {
				return nil, err
			}
			end := p.next()
			if end.Kind != TokenSymbol || end.Symbol() != rune(CloseBrackets[match]) {
				return nil, itShouldNotHaveEndedThisWay(end, match)
			}
			if rhs == nil {
				return nil, &EmptyExpressionError{Col: end.Pos, End: end.Text}
			}
			return rhs, nil
		case strings.ContainsRune(CloseBrackets, r), r == ',':
			return nil, nil
		}
		prec, ok := unop(r)
		if !ok {
			return nil, &OperatorError{Col: tok.Pos, Operator: tok.Text, Unary: true}
		}
		p.next()
		if !prec.moreBinding(until) {
			// x^-y -> x^(-y)
			// Just use the new operator's precedence to simplify.
			prec.prec, prec.right = until.prec, until.right
		}
		rhs, err := p.parseterm(prec)
		if err != nil {
			return nil, err
		}
		if rhs == nil {
			return nil, p.empty()
		}
		if prec.op == OpNone {
			// Unary plus.
			return rhs, nil
		}
		return NewUnary(prec.op, rhs), nil
	default:
		panic("lexcalc: unknown token: " + tok.String())
	}
}

// parseident parses the remainder of a term starting with an identifier,
// which has already been consumed.
func (p *parser) parseident(name Token) (*Node, error) {
	op, isop := p.builtins[name.Text]
	open := p.peek()
	if open.Kind != TokenSymbol || !strings.ContainsRune(OpenBrackets, open.Symbol()) {
		if isop {
			return nil, &CallError{Col: name.Pos, Func: name.Text, Len: 0}
		}
		return NewName(name.Text), nil
	}
	p.next()
	args, err := p.parsearglist(open)
	if err != nil {
		return nil, err
	}
	if !isop {
		return NewCall(name.Text, args...), nil
	}
	if len(args) != op.Arity() {
		return nil, &CallError{Col: name.Pos, Func: name.Text, Len: len(args)}
	}
	if len(args) == 1 {
		return NewUnary(op, args[0]), nil
	}
	return NewBinary(op, args[0], args[1]), nil
}

// parsearglist parses a bracketed list of zero or more args. The open bracket
// has already been consumed; parsearglist consumes the close bracket.
func (p *parser) parsearglist(open Token) ([]*Node, error) {
	match := rightbracket(open.Symbol())
	var args []*Node
	for {
		n, err := p.parseterm(exprprec)
		if err != nil {
			return nil, err
		}
		end := p.next()
		switch r := end.Symbol(); {
		case end.Kind == TokenNone:
			return nil, &BracketError{Col: end.Pos, Left: open.Text}
		case r == ',':
			if n == nil {
				return nil, &EmptyExpressionError{Col: end.Pos, End: end.Text}
			}
			args = append(args, n)
		case strings.ContainsRune(CloseBrackets, r):
			if r != rune(CloseBrackets[match]) {
				return nil, &BracketError{Col: end.Pos, Left: open.Text, Right: end.Text}
			}
			if n == nil {
				// f() is allowed, but f(a,) isn't.
				if len(args) != 0 {
					return nil, &EmptyExpressionError{Col: end.Pos, End: end.Text}
				}
				return nil, nil
			}
			return append(args, n), nil
		default:
			panic("lexcalc: argument ended on non-end token " + end.String())
		}
	}
}

// empty returns an error for an empty operand ending at the next token.
func (p *parser) empty() error {
	tok := p.peek()
	return &EmptyExpressionError{Col: tok.Pos, End: tok.Text}
}

// rightbracket gets the closing bracket index for an opening bracket.
func rightbracket(left rune) int {
	k := strings.IndexRune(OpenBrackets, left)
	if k < 0 {
		panic("lexcalc: invalid bracket " + strconv.QuoteRune(left))
	}
	return k
}

// leftbracket gets the opening bracket matching right. If right is no bracket,
// then the result is the empty string.
func leftbracket(right int) string {
	if right == -1 {
		return ""
	}
	return OpenBrackets[right : right+1]
}

// itShouldNotHaveEndedThisWay returns an error appropriate for an unexpected
// token at the end of a subexpression. match is the bracket index that the
// expression should have matched, or -1 if none.
func itShouldNotHaveEndedThisWay(tok Token, match int) error {
	switch r := tok.Symbol(); {
	case tok.Kind == TokenNone:
		// Unexpected end implies an open bracket that was not closed.
		return &BracketError{Col: tok.Pos, Left: leftbracket(match), Right: ""}
	case strings.ContainsRune(CloseBrackets, r):
		// A bracket could be the wrong bracket for the opening brace or any
		// bracket at the end of an input.
		return &BracketError{Col: tok.Pos, Left: leftbracket(match), Right: tok.Text}
	case r == ',':
		// Separator outside a function call.
		return &SeparatorError{Col: tok.Pos, Sep: tok.Text}
	default:
		panic("lexcalc: it really should not have ended this way: " + tok.String())
	}
}

type operator struct {
	// prec is the precedence value. Higher is more binding.
	prec int8
	// right indicates right-associativity.
	right bool
	// op is the operator to apply when this operator is selected.
	op Op
}

func (p operator) moreBinding(than operator) bool {
	if p.prec != than.prec {
		return p.prec > than.prec
	}
	return p.right
}

// binop gets a binary operator for an operator rune. Panics if r is not in
// Operators.
func binop(r rune) operator {
	switch r {
	case '+':
		return operator{1, false, OpAdd}
	case '-':
		return operator{1, false, OpSub}
	case '*', '×':
		return operator{5, false, OpMul}
	case '/', '÷':
		return operator{5, false, OpDiv}
	case '^':
		return operator{15, true, OpPow}
	default:
		panic("lexcalc: no binary operator " + strconv.QuoteRune(r))
	}
}

// unop gets a unary operator for a symbol rune. Unary plus has op OpNone.
func unop(r rune) (operator, bool) {
	switch r {
	case '+':
		return operator{10, true, OpNone}, true
	case '-':
		return operator{10, true, OpNeg}, true
	default:
		return operator{}, false
	}
}

var exprprec = operator{prec: -128}
