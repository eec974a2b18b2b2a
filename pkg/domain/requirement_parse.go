package domain

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strconv"
)

// RequirementParseError reports a malformed requirement expression.
type RequirementParseError struct {
	Input  string
	Reason string
}

func (e *RequirementParseError) Error() string {
	return fmt.Sprintf("invalid requirement %q: %s", e.Input, e.Reason)
}

// ParseRequirement parses the requirement grammar:
//
//	a&b     both
//	a|b     either ('&' binds tighter)
//	-a      negation
//	coin*3  at least three "coin" tokens
//	"x y"   quoted capability name
//	X, O    impossible and always
//
// Parentheses group. Only identifiers, string and integer literals and the
// four operators are accepted.
func ParseRequirement(text string) (Requirement, error) {
	expr, err := parser.ParseExpr(text)
	if err != nil {
		return nil, &RequirementParseError{Input: text, Reason: err.Error()}
	}
	p := reqParser{input: text}
	return p.convert(reassociate(expr))
}

// MustParseRequirement is ParseRequirement that panics on error.
func MustParseRequirement(text string) Requirement {
	r, err := ParseRequirement(text)
	if err != nil {
		panic(err)
	}
	return r
}

type reqParser struct {
	input string
}

func (p *reqParser) fail(format string, args ...any) error {
	return &RequirementParseError{Input: p.input, Reason: fmt.Sprintf(format, args...)}
}

func (p *reqParser) convert(expr ast.Expr) (Requirement, error) {
	switch e := expr.(type) {
	case *ast.ParenExpr:
		return p.convert(e.X)
	case *ast.Ident:
		switch e.Name {
		case "X":
			return ReqImpossible{}, nil
		case "O":
			return ReqNothing{}, nil
		}
		return ReqPower{Name: e.Name}, nil
	case *ast.BasicLit:
		if e.Kind != token.STRING {
			return nil, p.fail("unexpected literal %s", e.Value)
		}
		name, err := strconv.Unquote(e.Value)
		if err != nil {
			return nil, p.fail("bad string literal %s", e.Value)
		}
		return ReqPower{Name: name}, nil
	case *ast.UnaryExpr:
		if e.Op != token.SUB {
			return nil, p.fail("unsupported unary operator %s", e.Op)
		}
		sub, err := p.convert(e.X)
		if err != nil {
			return nil, err
		}
		return ReqNot{Sub: sub}, nil
	case *ast.BinaryExpr:
		switch e.Op {
		case token.MUL:
			return p.tokens(e)
		case token.AND:
			subs, err := p.chain(e, token.AND)
			if err != nil {
				return nil, err
			}
			return ReqAll{Subs: subs}, nil
		case token.OR:
			subs, err := p.chain(e, token.OR)
			if err != nil {
				return nil, err
			}
			return ReqAny{Subs: subs}, nil
		}
		return nil, p.fail("unsupported operator %s", e.Op)
	}
	return nil, p.fail("unsupported expression %T", expr)
}

// reassociate fixes the one place where Go precedence differs from the
// requirement grammar: '*' and '&' share a level in Go, so "a&b*3" parses as
// (a&b)*3. Every such product is rewritten to a&(b*3). Parenthesised
// sub-expressions are left alone.
func reassociate(expr ast.Expr) ast.Expr {
	switch e := expr.(type) {
	case *ast.ParenExpr:
		return &ast.ParenExpr{X: reassociate(e.X)}
	case *ast.UnaryExpr:
		return &ast.UnaryExpr{Op: e.Op, X: reassociate(e.X)}
	case *ast.BinaryExpr:
		x := reassociate(e.X)
		y := reassociate(e.Y)
		if e.Op == token.MUL {
			if inner, ok := x.(*ast.BinaryExpr); ok && inner.Op == token.AND {
				return &ast.BinaryExpr{
					X:  inner.X,
					Op: token.AND,
					Y:  reassociate(&ast.BinaryExpr{X: inner.Y, Op: token.MUL, Y: y}),
				}
			}
		}
		return &ast.BinaryExpr{X: x, Op: e.Op, Y: y}
	}
	return expr
}

// chain flattens an unparenthesised left-nested run of the same operator into
// one operand list.
func (p *reqParser) chain(e *ast.BinaryExpr, op token.Token) ([]Requirement, error) {
	var left []Requirement
	if inner, ok := e.X.(*ast.BinaryExpr); ok && inner.Op == op {
		subs, err := p.chain(inner, op)
		if err != nil {
			return nil, err
		}
		left = subs
	} else {
		sub, err := p.convert(e.X)
		if err != nil {
			return nil, err
		}
		left = []Requirement{sub}
	}
	right, err := p.convert(e.Y)
	if err != nil {
		return nil, err
	}
	return append(left, right), nil
}

func (p *reqParser) tokens(e *ast.BinaryExpr) (Requirement, error) {
	var name string
	switch x := e.X.(type) {
	case *ast.Ident:
		name = x.Name
	case *ast.BasicLit:
		if x.Kind != token.STRING {
			return nil, p.fail("token type must be a name, got %s", x.Value)
		}
		unquoted, err := strconv.Unquote(x.Value)
		if err != nil {
			return nil, p.fail("bad string literal %s", x.Value)
		}
		name = unquoted
	default:
		return nil, p.fail("token type must be a name")
	}

	count, err := p.intLiteral(e.Y)
	if err != nil {
		return nil, err
	}
	return ReqTokens{Type: name, Count: count}, nil
}

func (p *reqParser) intLiteral(expr ast.Expr) (int, error) {
	sign := 1
	if u, ok := expr.(*ast.UnaryExpr); ok && u.Op == token.SUB {
		sign = -1
		expr = u.X
	}
	lit, ok := expr.(*ast.BasicLit)
	if !ok || lit.Kind != token.INT {
		return 0, p.fail("token count must be an integer")
	}
	n, err := strconv.Atoi(lit.Value)
	if err != nil {
		return 0, p.fail("bad token count %s", lit.Value)
	}
	return sign * n, nil
}
