// Package parse implements the recursive-descent, LL(1) parser that
// turns a token stream into a parsetree.FunctionDefinition, enforcing
// declaration ordering and balanced-parenthesis rules along the way.
package parse

import (
	"strconv"

	"github.com/orizon-lang/pljit/internal/diag"
	"github.com/orizon-lang/pljit/internal/lex"
	"github.com/orizon-lang/pljit/internal/parsetree"
	"github.com/orizon-lang/pljit/internal/source"
)

// Parser consumes a lex.Lexer and builds a parsetree.FunctionDefinition.
// It is single-use: construct one per parse.
type Parser struct {
	lexer *lex.Lexer
}

// New creates a Parser reading from lexer.
func New(lexer *lex.Lexer) *Parser {
	return &Parser{lexer: lexer}
}

// ParseProgram parses a complete function definition, or returns the
// first diagnostic encountered.
func ParseProgram(code *source.Code) (*parsetree.FunctionDefinition, *diag.Diagnostic) {
	p := New(lex.New(code))
	return p.parseProgram()
}

func (p *Parser) peek() (lex.Token, *diag.Diagnostic) {
	return p.lexer.Peek()
}

func (p *Parser) consume() (lex.Token, *diag.Diagnostic) {
	return p.lexer.Consume()
}

// expect consumes the next token and requires it to match (kind, text)
// exactly, producing message if it does not.
func (p *Parser) expect(kind lex.Kind, text, message string) (lex.Token, *diag.Diagnostic) {
	tok, err := p.peek()
	if err != nil {
		return lex.Token{}, err
	}

	if !tok.Is(kind, text) {
		return lex.Token{}, diag.New(diag.Error, message, tok.Ref)
	}

	return p.consume()
}

func (p *Parser) parseProgram() (*parsetree.FunctionDefinition, *diag.Diagnostic) {
	fn := &parsetree.FunctionDefinition{}

	var paramSeen, varSeen, constSeen bool

	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}

		if tok.Kind != lex.Keyword || (tok.Text != "PARAM" && tok.Text != "VAR" && tok.Text != "CONST") {
			break
		}

		switch tok.Text {
		case "PARAM":
			switch {
			case paramSeen:
				return nil, diag.New(diag.Error, "Duplicate PARAM declaration!", tok.Ref)
			case constSeen:
				return nil, diag.New(diag.Error, "PARAM declaration must appear before CONST and VAR declarations!", tok.Ref)
			case varSeen:
				return nil, diag.New(diag.Error, "PARAM declaration must appear before VAR declaration!", tok.Ref)
			}

			paramSeen = true

			decl, err := p.parseParamDecl()
			if err != nil {
				return nil, err
			}

			fn.Param = decl

		case "VAR":
			switch {
			case varSeen:
				return nil, diag.New(diag.Error, "Duplicate VAR declaration!", tok.Ref)
			case constSeen:
				return nil, diag.New(diag.Error, "VAR declaration must appear before CONST declaration!", tok.Ref)
			}

			varSeen = true

			decl, err := p.parseVarDecl()
			if err != nil {
				return nil, err
			}

			fn.Var = decl

		case "CONST":
			if constSeen {
				return nil, diag.New(diag.Error, "Duplicate CONST declaration!", tok.Ref)
			}

			constSeen = true

			decl, err := p.parseConstDecl()
			if err != nil {
				return nil, err
			}

			fn.Const = decl
		}
	}

	body, err := p.parseCompoundStatement()
	if err != nil {
		return nil, err
	}

	fn.Body = body

	if p.lexer.EndOfStream() {
		end := p.lexer.Code().Len()
		return nil, diag.New(diag.Error, "Expected `.` terminator!", p.lexer.Code().Ref(end, end))
	}

	dot, err := p.expect(lex.Separator, ".", "Expected `.` terminator!")
	if err != nil {
		return nil, err
	}

	fn.Dot = dot

	if !p.lexer.EndOfStream() {
		pos := p.lexer.FirstNonWhitespace()
		ref := p.lexer.Code().Ref(pos, pos+1)

		return nil, diag.New(diag.Error, "unexpected character after end of program terminator!", ref)
	}

	return fn, nil
}

func (p *Parser) parseParamDecl() (*parsetree.ParamDecl, *diag.Diagnostic) {
	keyword, err := p.consume()
	if err != nil {
		return nil, err
	}

	names, err := p.parseDeclaratorList()
	if err != nil {
		return nil, err
	}

	semi, err := p.expect(lex.Separator, ";", "Expected `;` to terminate statement!")
	if err != nil {
		return nil, err
	}

	return &parsetree.ParamDecl{Keyword: keyword, Names: names, Semi: semi}, nil
}

func (p *Parser) parseVarDecl() (*parsetree.VarDecl, *diag.Diagnostic) {
	keyword, err := p.consume()
	if err != nil {
		return nil, err
	}

	names, err := p.parseDeclaratorList()
	if err != nil {
		return nil, err
	}

	semi, err := p.expect(lex.Separator, ";", "Expected `;` to terminate statement!")
	if err != nil {
		return nil, err
	}

	return &parsetree.VarDecl{Keyword: keyword, Names: names, Semi: semi}, nil
}

func (p *Parser) parseDeclaratorList() ([]lex.Token, *diag.Diagnostic) {
	var names []lex.Token

	first, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}

	names = append(names, first)

	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}

		if !tok.Is(lex.Separator, ",") {
			break
		}

		if _, err := p.consume(); err != nil {
			return nil, err
		}

		name, err := p.expectIdentifier()
		if err != nil {
			return nil, err
		}

		names = append(names, name)
	}

	return names, nil
}

func (p *Parser) parseConstDecl() (*parsetree.ConstDecl, *diag.Diagnostic) {
	keyword, err := p.consume()
	if err != nil {
		return nil, err
	}

	var inits []parsetree.InitDeclarator

	first, err := p.parseInitDeclarator()
	if err != nil {
		return nil, err
	}

	inits = append(inits, first)

	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}

		if !tok.Is(lex.Separator, ",") {
			break
		}

		if _, err := p.consume(); err != nil {
			return nil, err
		}

		next, err := p.parseInitDeclarator()
		if err != nil {
			return nil, err
		}

		inits = append(inits, next)
	}

	semi, err := p.expect(lex.Separator, ";", "Expected `;` to terminate statement!")
	if err != nil {
		return nil, err
	}

	return &parsetree.ConstDecl{Keyword: keyword, Inits: inits, Semi: semi}, nil
}

func (p *Parser) parseInitDeclarator() (parsetree.InitDeclarator, *diag.Diagnostic) {
	name, err := p.expectIdentifier()
	if err != nil {
		return parsetree.InitDeclarator{}, err
	}

	eq, err := p.expect(lex.Operator, "=", "Expected '=' in constant declaration!")
	if err != nil {
		return parsetree.InitDeclarator{}, err
	}

	lit, value, err := p.expectLiteral()
	if err != nil {
		return parsetree.InitDeclarator{}, err
	}

	return parsetree.InitDeclarator{Name: name, Eq: eq, Literal: lit, Value: value}, nil
}

func (p *Parser) expectIdentifier() (lex.Token, *diag.Diagnostic) {
	tok, err := p.peek()
	if err != nil {
		return lex.Token{}, err
	}

	if tok.Kind != lex.Identifier {
		return lex.Token{}, diag.New(diag.Error, "Expected an identifier!", tok.Ref)
	}

	return p.consume()
}

// expectLiteral consumes an integer literal token and range-checks it
// against a signed 64-bit value immediately, matching the original's
// inline check inside parseLiteral so an overflow is reported at parse
// time rather than surviving into the parse tree.
func (p *Parser) expectLiteral() (lex.Token, int64, *diag.Diagnostic) {
	tok, err := p.peek()
	if err != nil {
		return lex.Token{}, 0, err
	}

	if tok.Kind != lex.Literal {
		return lex.Token{}, 0, diag.New(diag.Error, "Expected literal!", tok.Ref)
	}

	if _, err := p.consume(); err != nil {
		return lex.Token{}, 0, err
	}

	value, convErr := strconv.ParseInt(tok.Text, 10, 64)
	if convErr != nil {
		return lex.Token{}, 0, diag.New(diag.Error, "Integer literal is out of range. Expected singed 64-bit!", tok.Ref)
	}

	return tok, value, nil
}

func (p *Parser) parseCompoundStatement() (*parsetree.CompoundStatement, *diag.Diagnostic) {
	begin, err := p.expect(lex.Keyword, "BEGIN", "Expected `BEGIN` keyword!")
	if err != nil {
		return nil, err
	}

	var statements []parsetree.StatementSeparator

	for {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}

		tok, err := p.peek()
		if err != nil {
			return nil, err
		}

		if tok.Is(lex.Separator, ";") {
			semi, err := p.consume()
			if err != nil {
				return nil, err
			}

			statements = append(statements, parsetree.StatementSeparator{Statement: stmt, Semi: semi})

			continue
		}

		statements = append(statements, parsetree.StatementSeparator{Statement: stmt})

		break
	}

	end, err := p.expect(lex.Keyword, "END", "Expected `END` keyword!")
	if err != nil {
		return nil, err
	}

	return &parsetree.CompoundStatement{Begin: begin, Statements: statements, End: end}, nil
}

func (p *Parser) parseStatement() (parsetree.Statement, *diag.Diagnostic) {
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}

	if tok.Is(lex.Keyword, "RETURN") {
		keyword, err := p.consume()
		if err != nil {
			return nil, err
		}

		value, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}

		return &parsetree.ReturnStatement{Keyword: keyword, Value: value}, nil
	}

	if tok.Kind != lex.Identifier {
		return nil, diag.New(diag.Error, "Expected an identifier!", tok.Ref)
	}

	name, err := p.consume()
	if err != nil {
		return nil, err
	}

	op, err := p.expect(lex.Operator, ":=", "Expected ':=' in assignment!")
	if err != nil {
		return nil, err
	}

	rhs, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}

	return &parsetree.AssignStatement{Name: name, Op: op, RHS: rhs}, nil
}

func (p *Parser) parseAdditive() (parsetree.AdditiveExpression, *diag.Diagnostic) {
	head, err := p.parseMultiplicative()
	if err != nil {
		return parsetree.AdditiveExpression{}, err
	}

	tok, err := p.peek()
	if err != nil {
		return parsetree.AdditiveExpression{}, err
	}

	if !tok.Is(lex.Operator, "+") && !tok.Is(lex.Operator, "-") {
		return parsetree.AdditiveExpression{Head: head}, nil
	}

	op, err := p.consume()
	if err != nil {
		return parsetree.AdditiveExpression{}, err
	}

	next, err := p.parseAdditive()
	if err != nil {
		return parsetree.AdditiveExpression{}, err
	}

	return parsetree.AdditiveExpression{Head: head, Rest: &parsetree.AdditiveRest{Op: op, Next: next}}, nil
}

func (p *Parser) parseMultiplicative() (parsetree.MultiplicativeExpression, *diag.Diagnostic) {
	head, err := p.parseUnary()
	if err != nil {
		return parsetree.MultiplicativeExpression{}, err
	}

	tok, err := p.peek()
	if err != nil {
		return parsetree.MultiplicativeExpression{}, err
	}

	if !tok.Is(lex.Operator, "*") && !tok.Is(lex.Operator, "/") {
		return parsetree.MultiplicativeExpression{Head: head}, nil
	}

	op, err := p.consume()
	if err != nil {
		return parsetree.MultiplicativeExpression{}, err
	}

	next, err := p.parseMultiplicative()
	if err != nil {
		return parsetree.MultiplicativeExpression{}, err
	}

	return parsetree.MultiplicativeExpression{Head: head, Rest: &parsetree.MultiplicativeRest{Op: op, Next: next}}, nil
}

func (p *Parser) parseUnary() (parsetree.UnaryExpression, *diag.Diagnostic) {
	tok, err := p.peek()
	if err != nil {
		return parsetree.UnaryExpression{}, err
	}

	var sign *lex.Token

	if tok.Is(lex.Operator, "+") || tok.Is(lex.Operator, "-") {
		op, err := p.consume()
		if err != nil {
			return parsetree.UnaryExpression{}, err
		}

		sign = &op
	}

	primary, err := p.parsePrimary()
	if err != nil {
		return parsetree.UnaryExpression{}, err
	}

	return parsetree.UnaryExpression{Op: sign, Operand: primary}, nil
}

func (p *Parser) parsePrimary() (parsetree.PrimaryExpression, *diag.Diagnostic) {
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}

	switch tok.Kind {
	case lex.Identifier:
		name, err := p.consume()
		if err != nil {
			return nil, err
		}

		return &parsetree.IdentPrimary{Name: name}, nil

	case lex.Literal:
		value, intValue, err := p.expectLiteral()
		if err != nil {
			return nil, err
		}

		return &parsetree.LiteralPrimary{Value: value, IntValue: intValue}, nil

	case lex.Parenthesis:
		if tok.Text != "(" {
			return nil, diag.New(diag.Error, "Expected an identifier!", tok.Ref)
		}

		open, err := p.consume()
		if err != nil {
			return nil, err
		}

		inner, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}

		closeTok, err := p.peek()
		if err != nil {
			return nil, err
		}

		if !closeTok.Is(lex.Parenthesis, ")") {
			return nil, diag.New(diag.Error, "Expected matching `)` parenthesis!", closeTok.Ref).
				AttachCause(diag.New(diag.Note, "opening bracket here", open.Ref))
		}

		closeParen, err := p.consume()
		if err != nil {
			return nil, err
		}

		return &parsetree.BracketedPrimary{Open: open, Inner: inner, Close: closeParen}, nil

	case lex.Operator:
		return nil, diag.New(diag.Error, "Unexpected unary operator!", tok.Ref)

	default:
		return nil, diag.New(diag.Error, "Expected an identifier!", tok.Ref)
	}
}
