// Package parser is a recursive-descent, operator-precedence-climbing
// parser from Rinha surface syntax to ast.Term — the text-parsing
// collaborator the core engine treats as external (§1 of the spec). Unlike
// the compiler and loader, the parser is not required to run in bounded
// host-stack depth: recursive descent over source tokens is the
// conventional, spec-named technique for this stage, and source nesting
// depth is a different concern from the compiled AST depth the core engine
// must tolerate.
package parser

import (
	"rinha/ast"
	"rinha/lexer"
	"rinha/rerr"
	"rinha/token"
)

// Parser walks a flat token slice with one token of lookahead.
type Parser struct {
	filename string
	tokens   []token.Token
	pos      int
}

// Parse lexes and parses a complete Rinha source file into an ast.File.
func Parse(src, filename string) (*ast.File, error) {
	tokens, err := lexer.New(src).Scan()
	if err != nil {
		return nil, rerr.New(rerr.MalformedAST, rerr.Location{Filename: filename}, "%v", err)
	}
	p := &Parser{filename: filename, tokens: tokens}

	expr, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	if p.current().Type != token.EOF {
		return nil, p.errorf("unexpected trailing input %q", p.current().Lexeme)
	}
	return &ast.File{
		Location:   ast.NewLoc(filename, 0, len(src)),
		Name:       filename,
		Expression: expr,
	}, nil
}

func (p *Parser) current() token.Token { return p.tokens[p.pos] }

func (p *Parser) advance() token.Token {
	t := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) expect(t token.Type) (token.Token, error) {
	if p.current().Type != t {
		return token.Token{}, p.errorf("expected %s, got %q", t, p.current().Lexeme)
	}
	return p.advance(), nil
}

func (p *Parser) errorf(format string, args ...any) error {
	tok := p.current()
	loc := rerr.Location{Filename: p.filename, Start: tok.Start, End: tok.End}
	return rerr.New(rerr.MalformedAST, loc, format, args...)
}

func (p *Parser) loc(start, end token.Token) ast.Location {
	return ast.NewLoc(p.filename, start.Start, end.End)
}

// parseExpression parses one expression. Let/If/Fn are parsed directly
// here since they're not operands of a binary expression; everything else
// goes through precedence climbing starting at the lowest-binding operator.
func (p *Parser) parseExpression(minPrec int) (ast.Term, error) {
	switch p.current().Type {
	case token.LET:
		return p.parseLet()
	case token.IF:
		return p.parseIf()
	case token.FN:
		return p.parseFn()
	}

	lhs, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return p.parseBinaryTail(lhs, minPrec)
}

var binPrecedence = map[token.Type]int{
	token.OR:  5,
	token.AND: 10,
	token.EQ:  20, token.NEQ: 20, token.LT: 20, token.GT: 20, token.LTE: 20, token.GTE: 20,
	token.ADD: 30, token.SUB: 30,
	token.MUL: 40, token.DIV: 40, token.REM: 40,
}

var binOps = map[token.Type]ast.BinaryOp{
	token.ADD: ast.Add, token.SUB: ast.Sub, token.MUL: ast.Mul, token.DIV: ast.Div, token.REM: ast.Rem,
	token.EQ: ast.Eq, token.NEQ: ast.Neq, token.LT: ast.Lt, token.GT: ast.Gt, token.LTE: ast.Lte, token.GTE: ast.Gte,
	token.AND: ast.And, token.OR: ast.Or,
}

// parseBinaryTail implements precedence climbing: it keeps folding
// right-hand operands into lhs as long as the next operator binds at least
// as tightly as minPrec, recursing with a higher floor to gather a
// higher-precedence operand first (standard left-associative climbing;
// Rinha has no right-associative operators).
func (p *Parser) parseBinaryTail(lhs ast.Term, minPrec int) (ast.Term, error) {
	for {
		opTok := p.current()
		prec, ok := binPrecedence[opTok.Type]
		if !ok || prec < minPrec {
			return lhs, nil
		}
		p.advance()

		rhs, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		rhs, err = p.parseBinaryTail(rhs, prec+1)
		if err != nil {
			return nil, err
		}

		node := ast.NewBinary(p.loc(tokenOf(lhs, opTok), opTok), binOps[opTok.Type])
		node.Lhs = lhs
		node.Rhs = rhs
		lhs = node
	}
}

// tokenOf is a thin shim: Binary's location spans from its lhs's own
// location through the operator token, so we resynthesize a start token
// from the lhs node's already-recorded Location.
func tokenOf(lhs ast.Term, fallback token.Token) token.Token {
	loc := lhs.Loc()
	return token.Token{Start: loc.Start, End: loc.End, Line: fallback.Line}
}

func (p *Parser) parseUnary() (ast.Term, error) {
	if p.current().Type == token.SUB {
		op := p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		zero := ast.NewInt(ast.NewLoc(p.filename, op.Start, op.End), 0)
		node := ast.NewBinary(p.loc(op, op), ast.Sub)
		node.Lhs = zero
		node.Rhs = operand
		return node, nil
	}
	return p.parseCallChain()
}

// parseCallChain parses a primary expression followed by zero or more
// call-argument-list suffixes, supporting curried calls like f(x)(y).
func (p *Parser) parseCallChain() (ast.Term, error) {
	term, start, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.current().Type == token.LPAREN {
		p.advance()
		var args []ast.Term
		for p.current().Type != token.RPAREN {
			arg, err := p.parseExpression(0)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.current().Type == token.COMMA {
				p.advance()
			} else {
				break
			}
		}
		end, err := p.expect(token.RPAREN)
		if err != nil {
			return nil, err
		}
		call := ast.NewCall(p.loc(start, end), len(args))
		call.Callee = term
		for i, a := range args {
			call.Arguments[i] = a
		}
		term = call
	}
	return term, nil
}

func (p *Parser) parsePrimary() (ast.Term, token.Token, error) {
	tok := p.current()

	switch tok.Type {
	case token.INT:
		p.advance()
		n, err := parseInt(tok.Lexeme)
		if err != nil {
			return nil, tok, p.errorf("invalid integer literal %q", tok.Lexeme)
		}
		return ast.NewInt(p.loc(tok, tok), n), tok, nil

	case token.STRING:
		p.advance()
		return ast.NewStr(p.loc(tok, tok), tok.Lexeme), tok, nil

	case token.TRUE:
		p.advance()
		return ast.NewBool(p.loc(tok, tok), true), tok, nil

	case token.FALSE:
		p.advance()
		return ast.NewBool(p.loc(tok, tok), false), tok, nil

	case token.IDENTIFIER:
		switch tok.Lexeme {
		case "print":
			return p.parseBuiltin(func(loc ast.Location, v ast.Term) ast.Term {
				n := ast.NewPrint(loc)
				n.Value = v
				return n
			})
		case "first":
			return p.parseBuiltin(func(loc ast.Location, v ast.Term) ast.Term {
				n := ast.NewFirst(loc)
				n.Value = v
				return n
			})
		case "second":
			return p.parseBuiltin(func(loc ast.Location, v ast.Term) ast.Term {
				n := ast.NewSecond(loc)
				n.Value = v
				return n
			})
		}
		p.advance()
		return ast.NewVar(p.loc(tok, tok), tok.Lexeme), tok, nil

	case token.LPAREN:
		p.advance()
		first, err := p.parseExpression(0)
		if err != nil {
			return nil, tok, err
		}
		if p.current().Type == token.COMMA {
			p.advance()
			second, err := p.parseExpression(0)
			if err != nil {
				return nil, tok, err
			}
			end, err := p.expect(token.RPAREN)
			if err != nil {
				return nil, tok, err
			}
			tuple := ast.NewTuple(p.loc(tok, end))
			tuple.First, tuple.Second = first, second
			return tuple, tok, nil
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, tok, err
		}
		return first, tok, nil

	default:
		return nil, tok, p.errorf("unexpected token %q", tok.Lexeme)
	}
}

// parseBuiltin parses the shared "name(expr)" shape of print/first/second,
// which are reserved forms rather than ordinary calls.
func (p *Parser) parseBuiltin(build func(ast.Location, ast.Term) ast.Term) (ast.Term, token.Token, error) {
	start := p.advance() // the identifier itself
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, start, err
	}
	inner, err := p.parseExpression(0)
	if err != nil {
		return nil, start, err
	}
	end, err := p.expect(token.RPAREN)
	if err != nil {
		return nil, start, err
	}
	return build(p.loc(start, end), inner), start, nil
}

func (p *Parser) parseLet() (ast.Term, error) {
	start := p.advance() // "let"
	nameTok, err := p.expect(token.IDENTIFIER)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.ASSIGN); err != nil {
		return nil, err
	}
	value, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMICOLON); err != nil {
		return nil, err
	}
	next, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	node := ast.NewLet(p.loc(start, nameTok), ast.Parameter{
		Location: ast.NewLoc(p.filename, nameTok.Start, nameTok.End),
		Text:     nameTok.Lexeme,
	})
	node.Value, node.Next = value, next
	return node, nil
}

func (p *Parser) parseIf() (ast.Term, error) {
	start := p.advance() // "if"
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	thenExpr, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.ELSE); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	otherwise, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	end, err := p.expect(token.RBRACE)
	if err != nil {
		return nil, err
	}
	node := ast.NewIf(p.loc(start, end))
	node.Condition, node.Then, node.Otherwise = cond, thenExpr, otherwise
	return node, nil
}

func (p *Parser) parseFn() (ast.Term, error) {
	start := p.advance() // "fn"
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	var params []ast.Parameter
	for p.current().Type != token.RPAREN {
		nameTok, err := p.expect(token.IDENTIFIER)
		if err != nil {
			return nil, err
		}
		params = append(params, ast.Parameter{
			Location: ast.NewLoc(p.filename, nameTok.Start, nameTok.End),
			Text:     nameTok.Lexeme,
		})
		if p.current().Type == token.COMMA {
			p.advance()
		} else {
			break
		}
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.ARROW); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	body, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	end, err := p.expect(token.RBRACE)
	if err != nil {
		return nil, err
	}
	node := ast.NewFunction(p.loc(start, end), params)
	node.Body = body
	return node, nil
}

func parseInt(s string) (int64, error) {
	var n int64
	for _, r := range s {
		n = n*10 + int64(r-'0')
	}
	return n, nil
}
