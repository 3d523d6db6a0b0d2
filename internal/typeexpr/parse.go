package typeexpr

import (
	"fmt"
	"strings"
	"unicode"
)

// Parse parses the compact type syntax used in declaration schemas.
//
// Grammar (informal):
//
//	type   := "forall" binder+ "." type | app ("->" type)?
//	app    := atom+
//	atom   := var | Con | "[" type "]" | "(" type ("::" kind)? ")"
//	kind   := katom ("->" kind)? ; katom := "*" | kvar | "(" kind ")"
//	binder := var | "(" var "::" kind ")"
//
// A lowercase identifier is a variable reference, an uppercase one a
// constructor reference. Application associates left, arrows right.
func Parse(src string) (Expr, error) {
	p := &parser{toks: lex(src), src: src}

	t, err := p.parseType()
	if err != nil {
		return nil, err
	}

	if !p.atEnd() {
		return nil, fmt.Errorf("parsing %q: unexpected %q", src, p.peek().text)
	}

	return t, nil
}

// ParseKind parses a standalone kind expression.
func ParseKind(src string) (Kind, error) {
	p := &parser{toks: lex(src), src: src}

	k, err := p.parseKind()
	if err != nil {
		return nil, err
	}

	if !p.atEnd() {
		return nil, fmt.Errorf("parsing kind %q: unexpected %q", src, p.peek().text)
	}

	return k, nil
}

// ParseBinder parses a type-variable binder, either "a" or
// "f :: * -> *" (with or without surrounding parentheses).
func ParseBinder(src string) (Binder, error) {
	trimmed := strings.TrimSpace(src)
	if strings.HasPrefix(trimmed, "(") && strings.HasSuffix(trimmed, ")") {
		trimmed = trimmed[1 : len(trimmed)-1]
	}

	name, kindSrc, hasKind := strings.Cut(trimmed, "::")

	name = strings.TrimSpace(name)
	if name == "" || !isVarName(name) {
		return Binder{}, fmt.Errorf("invalid type-variable binder %q", src)
	}

	if !hasKind {
		return Binder{Name: name}, nil
	}

	k, err := ParseKind(kindSrc)
	if err != nil {
		return Binder{}, err
	}

	return Binder{Name: name, Kind: k}, nil
}

func isVarName(s string) bool {
	for i, r := range s {
		if i == 0 {
			if !unicode.IsLower(r) {
				return false
			}

			continue
		}

		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\'' && r != '_' {
			return false
		}
	}

	return s != ""
}

type tokKind int

const (
	tokEOF tokKind = iota
	tokIdent
	tokLParen
	tokRParen
	tokLBracket
	tokRBracket
	tokArrow
	tokDoubleColon
	tokDot
	tokStar
	tokForall
)

type token struct {
	kind tokKind
	text string
}

func lex(src string) []token {
	var toks []token

	runes := []rune(src)
	i := 0

	for i < len(runes) {
		r := runes[i]

		switch {
		case unicode.IsSpace(r):
			i++
		case r == '(':
			toks = append(toks, token{tokLParen, "("})
			i++
		case r == ')':
			toks = append(toks, token{tokRParen, ")"})
			i++
		case r == '[':
			toks = append(toks, token{tokLBracket, "["})
			i++
		case r == ']':
			toks = append(toks, token{tokRBracket, "]"})
			i++
		case r == '*':
			toks = append(toks, token{tokStar, "*"})
			i++
		case r == '.':
			toks = append(toks, token{tokDot, "."})
			i++
		case r == '-' && i+1 < len(runes) && runes[i+1] == '>':
			toks = append(toks, token{tokArrow, "->"})
			i += 2
		case r == ':' && i+1 < len(runes) && runes[i+1] == ':':
			toks = append(toks, token{tokDoubleColon, "::"})
			i += 2
		case unicode.IsLetter(r):
			j := i
			for j < len(runes) && (unicode.IsLetter(runes[j]) || unicode.IsDigit(runes[j]) ||
				runes[j] == '\'' || runes[j] == '_') {
				j++
			}

			text := string(runes[i:j])
			if text == "forall" {
				toks = append(toks, token{tokForall, text})
			} else {
				toks = append(toks, token{tokIdent, text})
			}

			i = j
		default:
			toks = append(toks, token{tokEOF, string(r)})
			i = len(runes)
		}
	}

	toks = append(toks, token{tokEOF, ""})

	return toks
}

type parser struct {
	toks []token
	pos  int
	src  string
}

func (p *parser) peek() token { return p.toks[p.pos] }
func (p *parser) next() token { t := p.toks[p.pos]; p.pos++; return t }
func (p *parser) atEnd() bool { return p.peek().kind == tokEOF && p.peek().text == "" }

func (p *parser) fail(msg string) error {
	return fmt.Errorf("parsing %q: %s", p.src, msg)
}

func (p *parser) expect(k tokKind, what string) error {
	if p.peek().kind != k {
		return p.fail("expected " + what + ", found " + fmt.Sprintf("%q", p.peek().text))
	}

	p.next()

	return nil
}

func (p *parser) parseType() (Expr, error) {
	if p.peek().kind == tokForall {
		return p.parseForall()
	}

	lhs, err := p.parseApp()
	if err != nil {
		return nil, err
	}

	if p.peek().kind == tokArrow {
		p.next()

		rhs, err := p.parseType()
		if err != nil {
			return nil, err
		}

		return Arrow(lhs, rhs), nil
	}

	return lhs, nil
}

func (p *parser) parseForall() (Expr, error) {
	p.next() // forall

	var binders []Binder

	for {
		switch p.peek().kind {
		case tokIdent:
			tok := p.next()
			if !isVarName(tok.text) {
				return nil, p.fail("quantified name must be a variable: " + tok.text)
			}

			binders = append(binders, Binder{Name: tok.text})

			continue
		case tokLParen:
			p.next()

			name := p.next()
			if name.kind != tokIdent || !isVarName(name.text) {
				return nil, p.fail("expected type variable in binder")
			}

			if err := p.expect(tokDoubleColon, "'::'"); err != nil {
				return nil, err
			}

			k, err := p.parseKind()
			if err != nil {
				return nil, err
			}

			if err := p.expect(tokRParen, "')'"); err != nil {
				return nil, err
			}

			binders = append(binders, Binder{Name: name.text, Kind: k})

			continue
		}

		break
	}

	if len(binders) == 0 {
		return nil, p.fail("forall requires at least one binder")
	}

	if err := p.expect(tokDot, "'.'"); err != nil {
		return nil, err
	}

	body, err := p.parseType()
	if err != nil {
		return nil, err
	}

	return Forall{Binders: binders, Body: body}, nil
}

func (p *parser) parseApp() (Expr, error) {
	t, err := p.parseAtom()
	if err != nil {
		return nil, err
	}

	for p.startsAtom() {
		arg, err := p.parseAtom()
		if err != nil {
			return nil, err
		}

		t = App{Fn: t, Arg: arg}
	}

	return t, nil
}

func (p *parser) startsAtom() bool {
	switch p.peek().kind {
	case tokIdent, tokLParen, tokLBracket:
		return true
	default:
		return false
	}
}

func (p *parser) parseAtom() (Expr, error) {
	switch p.peek().kind {
	case tokIdent:
		tok := p.next()
		if unicode.IsLower([]rune(tok.text)[0]) {
			return Var{Name: tok.text}, nil
		}

		return Con{Name: tok.text}, nil

	case tokLBracket:
		p.next()

		// "[]" with no element is the bare list constructor.
		if p.peek().kind == tokRBracket {
			p.next()
			return Con{Name: ListName}, nil
		}

		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}

		if err := p.expect(tokRBracket, "']'"); err != nil {
			return nil, err
		}

		return App{Fn: Con{Name: ListName}, Arg: elem}, nil

	case tokLParen:
		p.next()

		// "(->)" names the bare arrow constructor.
		if p.peek().kind == tokArrow {
			p.next()

			if err := p.expect(tokRParen, "')'"); err != nil {
				return nil, err
			}

			return Con{Name: ArrowName}, nil
		}

		inner, err := p.parseType()
		if err != nil {
			return nil, err
		}

		if p.peek().kind == tokDoubleColon {
			p.next()

			k, err := p.parseKind()
			if err != nil {
				return nil, err
			}

			if err := p.expect(tokRParen, "')'"); err != nil {
				return nil, err
			}

			return Sig{Body: inner, Kind: k}, nil
		}

		if err := p.expect(tokRParen, "')'"); err != nil {
			return nil, err
		}

		return inner, nil

	default:
		return nil, p.fail("expected a type, found " + fmt.Sprintf("%q", p.peek().text))
	}
}

func (p *parser) parseKind() (Kind, error) {
	lhs, err := p.parseKindAtom()
	if err != nil {
		return nil, err
	}

	if p.peek().kind == tokArrow {
		p.next()

		rhs, err := p.parseKind()
		if err != nil {
			return nil, err
		}

		return KindArrow{Dom: lhs, Cod: rhs}, nil
	}

	return lhs, nil
}

func (p *parser) parseKindAtom() (Kind, error) {
	switch p.peek().kind {
	case tokStar:
		p.next()
		return Star{}, nil
	case tokIdent:
		tok := p.next()
		if !isVarName(tok.text) {
			return nil, p.fail("kind constructors other than '*' are not supported: " + tok.text)
		}

		return KindVar{Name: tok.text}, nil
	case tokLParen:
		p.next()

		k, err := p.parseKind()
		if err != nil {
			return nil, err
		}

		if err := p.expect(tokRParen, "')'"); err != nil {
			return nil, err
		}

		return k, nil
	default:
		return nil, p.fail("expected a kind, found " + fmt.Sprintf("%q", p.peek().text))
	}
}
