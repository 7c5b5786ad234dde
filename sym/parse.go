package sym

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ============================================================
// Lexer
// ============================================================

type tokenType int

const (
	tEOF tokenType = iota
	tNum
	tIdent
	tPlus
	tMinus
	tPlusMinus
	tMul
	tDiv
	tPow
	tLParen
	tRParen
	tLBrack
	tRBrack
	tComma
)

type token struct {
	typ  tokenType
	text string
	num  float64
	pos  int
}

// ParseError reports malformed input. Pos is a byte offset into the source.
type ParseError struct {
	Pos int
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %d: %s", e.Pos, e.Msg)
}

func lex(src string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(src) {
		r, size := utf8.DecodeRuneInString(src[i:])
		switch {
		case unicode.IsSpace(r):
			i += size
		case r == '±':
			toks = append(toks, token{typ: tPlusMinus, text: "±", pos: i})
			i += size
		case r == '+' && strings.HasPrefix(src[i:], "+-"):
			toks = append(toks, token{typ: tPlusMinus, text: "±", pos: i})
			i += 2
		case (r < utf8.RuneSelf && isDigit(byte(r))) || (r == '.' && i+1 < len(src) && isDigit(src[i+1])):
			start := i
			for i < len(src) && (isDigit(src[i]) || src[i] == '.') {
				i++
			}
			if i < len(src) && (src[i] == 'e' || src[i] == 'E') {
				j := i + 1
				if j < len(src) && (src[j] == '+' || src[j] == '-') {
					j++
				}
				if j < len(src) && isDigit(src[j]) {
					for j < len(src) && isDigit(src[j]) {
						j++
					}
					i = j
				}
			}
			f, err := strconv.ParseFloat(src[start:i], 64)
			if err != nil {
				return nil, &ParseError{Pos: start, Msg: fmt.Sprintf("bad number %q", src[start:i])}
			}
			toks = append(toks, token{typ: tNum, text: src[start:i], num: f, pos: start})
		case unicode.IsLetter(r) || r == '_':
			start := i
			for i < len(src) {
				r, size := utf8.DecodeRuneInString(src[i:])
				if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
					break
				}
				i += size
			}
			toks = append(toks, token{typ: tIdent, text: src[start:i], pos: start})
		default:
			typ, ok := punct[r]
			if !ok {
				return nil, &ParseError{Pos: i, Msg: fmt.Sprintf("unexpected character %q", r)}
			}
			toks = append(toks, token{typ: typ, text: string(r), pos: i})
			i += size
		}
	}
	return append(toks, token{typ: tEOF, pos: len(src)}), nil
}

var punct = map[rune]tokenType{
	'+': tPlus,
	'-': tMinus,
	'*': tMul,
	'/': tDiv,
	'^': tPow,
	'(': tLParen,
	')': tRParen,
	'[': tLBrack,
	']': tRBrack,
	',': tComma,
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// ============================================================
// Parser
// ============================================================

const (
	bpSum     = 10
	bpProduct = 20
	bpUnary   = 30
	bpPower   = 40
)

type parser struct {
	toks []token
	i    int
}

// Parse turns source text into an unsimplified expression tree.
//
// Grammar notes: juxtaposition multiplies ("2x", "3(x+1)"), ^ is right
// associative, ± (also written +-) works in unary and binary position, a
// parenthesized list with more than one element and any bracket list is a
// Vec. The identifiers pi, e and i are constants.
func Parse(src string) (Expr, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	if p.peek().typ == tEOF {
		return nil, &ParseError{Pos: 0, Msg: "empty expression"}
	}
	e, err := p.expr(0)
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.typ != tEOF {
		return nil, &ParseError{Pos: t.pos, Msg: fmt.Sprintf("unexpected %q", t.text)}
	}
	return e, nil
}

// MustParse is like Parse but panics on error.
func MustParse(src string) Expr {
	e, err := Parse(src)
	if err != nil {
		panic("sym: " + err.Error())
	}
	return e
}

func (p *parser) peek() token { return p.toks[p.i] }

func (p *parser) next() token {
	t := p.toks[p.i]
	if t.typ != tEOF {
		p.i++
	}
	return t
}

func (p *parser) expect(typ tokenType, what string) error {
	if t := p.peek(); t.typ != typ {
		return &ParseError{Pos: t.pos, Msg: "expected " + what}
	}
	p.i++
	return nil
}

// lbp returns the left binding power of t. Tokens that can start an operand
// bind like multiplication.
func lbp(t tokenType) (int, bool) {
	switch t {
	case tPlus, tMinus, tPlusMinus:
		return bpSum, true
	case tMul, tDiv:
		return bpProduct, true
	case tPow:
		return bpPower, true
	case tNum, tIdent, tLParen, tLBrack:
		return bpProduct, true
	}
	return 0, false
}

func isRightAssoc(t tokenType) bool { return t == tPow }

func (p *parser) expr(minBP int) (Expr, error) {
	left, err := p.prefix()
	if err != nil {
		return nil, err
	}
	for {
		op := p.peek()
		bp, ok := lbp(op.typ)
		if !ok || bp <= minBP {
			break
		}
		implicit := op.typ == tNum || op.typ == tIdent || op.typ == tLParen || op.typ == tLBrack
		if !implicit {
			p.i++
		}
		nextBP := bp
		if isRightAssoc(op.typ) {
			nextBP = bp - 1
		}
		right, err := p.expr(nextBP)
		if err != nil {
			return nil, err
		}
		switch {
		case implicit:
			left = &Mul{factors: []Expr{left, right}}
		case op.typ == tPlus:
			left = &Add{terms: []Expr{left, right}}
		case op.typ == tMinus:
			left = &Add{terms: []Expr{left, negate(right)}}
		case op.typ == tPlusMinus:
			left = &PlusMinus{a: left, b: right}
		case op.typ == tMul:
			left = &Mul{factors: []Expr{left, right}}
		case op.typ == tDiv:
			left = &Mul{factors: []Expr{left, &Pow{base: right, exp: N(-1)}}}
		case op.typ == tPow:
			left = &Pow{base: left, exp: right}
		}
	}
	return left, nil
}

func negate(e Expr) Expr { return &Mul{factors: []Expr{N(-1), e}} }

func (p *parser) prefix() (Expr, error) {
	t := p.next()
	switch t.typ {
	case tNum:
		return R(t.num), nil
	case tMinus:
		operand, err := p.expr(bpUnary)
		if err != nil {
			return nil, err
		}
		return negate(operand), nil
	case tPlus:
		return p.expr(bpUnary)
	case tPlusMinus:
		operand, err := p.expr(bpUnary)
		if err != nil {
			return nil, err
		}
		return &PlusMinus{b: operand}, nil
	case tLParen:
		elems, err := p.list(tRParen, ")")
		if err != nil {
			return nil, err
		}
		if len(elems) == 1 {
			return elems[0], nil
		}
		return &Vec{elems: elems}, nil
	case tLBrack:
		elems, err := p.list(tRBrack, "]")
		if err != nil {
			return nil, err
		}
		return &Vec{elems: elems}, nil
	case tIdent:
		return p.ident(t)
	case tEOF:
		return nil, &ParseError{Pos: t.pos, Msg: "unexpected end of input"}
	}
	return nil, &ParseError{Pos: t.pos, Msg: fmt.Sprintf("unexpected %q", t.text)}
}

func (p *parser) ident(t token) (Expr, error) {
	if IsFunction(t.text) && p.peek().typ == tLParen {
		p.i++
		args, err := p.list(tRParen, ")")
		if err != nil {
			return nil, err
		}
		if want := Arity(t.text); len(args) != want {
			return nil, &ParseError{Pos: t.pos, Msg: fmt.Sprintf("%s takes %d argument(s), got %d", t.text, want, len(args))}
		}
		if t.text == "solve" {
			if _, ok := args[1].(*Sym); !ok {
				return nil, &ParseError{Pos: t.pos, Msg: "solve: second argument must be a variable"}
			}
		}
		return &Func{name: t.text, args: args}, nil
	}
	switch t.text {
	case "pi":
		return R(math.Pi), nil
	case "e":
		return R(math.E), nil
	case "i":
		return C(0, 1), nil
	}
	return S(t.text), nil
}

func (p *parser) list(closer tokenType, closeText string) ([]Expr, error) {
	var elems []Expr
	if p.peek().typ == closer {
		p.i++
		return elems, nil
	}
	for {
		e, err := p.expr(0)
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
		if p.peek().typ == tComma {
			p.i++
			continue
		}
		if err := p.expect(closer, closeText); err != nil {
			return nil, err
		}
		return elems, nil
	}
}
