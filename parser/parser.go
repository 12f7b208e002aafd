// Package parser implements a Pratt (precedence-climbing) parser that
// turns a token stream into an *ast.Program: a set of declared inputs, a
// sequence of ordinary statements, and at most one tree-construction root.
package parser

import (
	"fmt"
	"strconv"

	"github.com/dogukanakkaya/treescript/ast"
	"github.com/dogukanakkaya/treescript/lexer"
	"github.com/dogukanakkaya/treescript/token"
)

type (
	prefixParseFn func() (ast.Expression, error)
	infixParseFn  func(ast.Expression) (ast.Expression, error)
)

const (
	_ int = iota
	LOWEST
	ASSIGN
	TERNARY
	EQUALS
	COMPARE
	SUM
	PRODUCT
	UNARY
	CALL
)

var precedences = map[token.Type]int{
	token.ASSIGN: ASSIGN,
	token.QUEST:  TERNARY,
	token.EQ:     EQUALS,
	token.NEQ:    EQUALS,
	token.LT:     COMPARE,
	token.GT:     COMPARE,
	token.LTE:    COMPARE,
	token.GTE:    COMPARE,
	token.PLUS:   SUM,
	token.MINUS:  SUM,
	token.STAR:   PRODUCT,
	token.SLASH:  PRODUCT,
	token.PCT:    PRODUCT,
	token.LPAREN: CALL,
}

// Parser consumes a Lexer's token stream and builds an ast.Program.
type Parser struct {
	l *lexer.Lexer

	cur  token.Token
	peek token.Token

	prefixFns map[token.Type]prefixParseFn
	infixFns  map[token.Type]infixParseFn
}

func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}

	p.prefixFns = map[token.Type]prefixParseFn{
		token.INT:      p.parseIntLiteral,
		token.FLOAT:    p.parseFloatLiteral,
		token.STRING:   p.parseStringLiteral,
		token.TRUE:     p.parseBoolLiteral,
		token.FALSE:    p.parseBoolLiteral,
		token.NONE:     p.parseNoneLiteral,
		token.IDENT:    p.parseIdentOrCallOrArray,
		token.BANG:     p.parseUnary,
		token.NOT:      p.parseUnary,
		token.MINUS:    p.parseUnary,
		token.LPAREN:   p.parseGroupedExpr,
		token.LBRACKET: p.parseArrayLiteral,
		token.FN:       p.parseLambda,
	}

	p.infixFns = map[token.Type]infixParseFn{
		token.PLUS:  p.parseBinary,
		token.MINUS: p.parseBinary,
		token.STAR:  p.parseBinary,
		token.SLASH: p.parseBinary,
		token.PCT:   p.parseBinary,
		token.EQ:    p.parseBinary,
		token.NEQ:   p.parseBinary,
		token.LT:    p.parseBinary,
		token.GT:    p.parseBinary,
		token.LTE:   p.parseBinary,
		token.GTE:   p.parseBinary,
		token.QUEST: p.parseTernary,
	}

	p.next()
	p.next()
	return p
}

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

func (p *Parser) curIs(t token.Type) bool  { return p.cur.Type == t }
func (p *Parser) peekIs(t token.Type) bool { return p.peek.Type == t }

func (p *Parser) expect(t token.Type) error {
	if !p.curIs(t) {
		return fmt.Errorf("line %d: expected %s, got %s (%q)", p.cur.Line, t, p.cur.Type, p.cur.Literal)
	}
	p.next()
	return nil
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peek.Type]; ok {
		return pr
	}
	return LOWEST
}

// ParseProgram parses a complete source file: input declarations, then
// ordinary statements, then one tree-construction root. A source that ends
// after its statements is not rejected: it yields a Program whose Tree is
// nil.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	prog := &ast.Program{}

	for p.curIs(token.INPUT) {
		in, err := p.parseInput()
		if err != nil {
			return nil, err
		}
		prog.Inputs = append(prog.Inputs, in)
	}

	for !p.isTreeStart() && !p.curIs(token.EOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		prog.Statements = append(prog.Statements, stmt)
	}

	if p.curIs(token.EOF) {
		return prog, nil
	}

	tree, err := p.parseTreeNode()
	if err != nil {
		return nil, err
	}
	prog.Tree = tree

	if p.curIs(token.SEMI) {
		p.next()
	}
	return prog, nil
}

func (p *Parser) isTreeStart() bool {
	switch p.cur.Type {
	case token.AND, token.OR, token.THEN, token.ATIF, token.ATFOR, token.ATLOAD:
		return true
	case token.IDENT:
		return p.cur.Literal == "Behavior"
	}
	return false
}

func (p *Parser) parseInput() (ast.Input, error) {
	if err := p.expect(token.INPUT); err != nil {
		return ast.Input{}, err
	}
	if !p.curIs(token.IDENT) {
		return ast.Input{}, fmt.Errorf("line %d: expected input name, got %q", p.cur.Line, p.cur.Literal)
	}
	in := ast.Input{Name: p.cur.Literal}
	p.next()

	if err := p.expect(token.COLON); err != nil {
		return ast.Input{}, err
	}
	if !p.curIs(token.IDENT) {
		return ast.Input{}, fmt.Errorf("line %d: expected type name, got %q", p.cur.Line, p.cur.Literal)
	}
	in.Type = p.cur.Literal
	p.next()

	if p.curIs(token.ASSIGN) {
		p.next()
		def, err := p.parseExpression(LOWEST)
		if err != nil {
			return ast.Input{}, err
		}
		in.Default = def
	}
	if err := p.expect(token.SEMI); err != nil {
		return ast.Input{}, err
	}
	return in, nil
}

// --- Statements ---

func (p *Parser) parseStatement() (ast.Statement, error) {
	switch p.cur.Type {
	case token.VAR:
		return p.parseVarDecl()
	case token.FN:
		return p.parseFnDecl()
	case token.IF:
		return p.parseIfStatement()
	case token.WHILE:
		return p.parseWhileStatement()
	case token.FOR:
		return p.parseForInStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	case token.BREAK:
		p.next()
		if err := p.expect(token.SEMI); err != nil {
			return nil, err
		}
		return &ast.BreakStatement{}, nil
	case token.CONTINUE:
		p.next()
		if err := p.expect(token.SEMI); err != nil {
			return nil, err
		}
		return &ast.ContinueStatement{}, nil
	case token.LBRACE:
		return p.parseBlockStatement()
	default:
		expr, err := p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}
		if err := p.expect(token.SEMI); err != nil {
			return nil, err
		}
		return &ast.ExprStmt{Expr: expr}, nil
	}
}

func (p *Parser) parseVarDecl() (ast.Statement, error) {
	if err := p.expect(token.VAR); err != nil {
		return nil, err
	}
	if !p.curIs(token.IDENT) {
		return nil, fmt.Errorf("line %d: expected identifier, got %q", p.cur.Line, p.cur.Literal)
	}
	decl := &ast.VarDecl{Name: p.cur.Literal}
	p.next()

	if p.curIs(token.COLON) {
		p.next()
		if !p.curIs(token.IDENT) {
			return nil, fmt.Errorf("line %d: expected type name, got %q", p.cur.Line, p.cur.Literal)
		}
		decl.Type = p.cur.Literal
		p.next()
	}

	if err := p.expect(token.ASSIGN); err != nil {
		return nil, err
	}
	val, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	decl.Value = val
	if err := p.expect(token.SEMI); err != nil {
		return nil, err
	}
	return decl, nil
}

func (p *Parser) parseFnDecl() (ast.Statement, error) {
	if err := p.expect(token.FN); err != nil {
		return nil, err
	}
	if !p.curIs(token.IDENT) {
		return nil, fmt.Errorf("line %d: expected function name, got %q", p.cur.Line, p.cur.Literal)
	}
	decl := &ast.FnDecl{Name: p.cur.Literal}
	p.next()

	params, err := p.parseParamList()
	if err != nil {
		return nil, err
	}
	decl.Params = params

	if p.curIs(token.ARROW) {
		p.next()
		if !p.curIs(token.IDENT) {
			return nil, fmt.Errorf("line %d: expected return type, got %q", p.cur.Line, p.cur.Literal)
		}
		decl.ReturnType = p.cur.Literal
		p.next()
	}

	body, err := p.parseBlockStatement()
	if err != nil {
		return nil, err
	}
	decl.Body = body
	return decl, nil
}

func (p *Parser) parseParamList() ([]ast.Param, error) {
	if err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	var params []ast.Param
	for !p.curIs(token.RPAREN) {
		if !p.curIs(token.IDENT) {
			return nil, fmt.Errorf("line %d: expected parameter name, got %q", p.cur.Line, p.cur.Literal)
		}
		param := ast.Param{Name: p.cur.Literal}
		p.next()
		if p.curIs(token.COLON) {
			p.next()
			if !p.curIs(token.IDENT) {
				return nil, fmt.Errorf("line %d: expected parameter type, got %q", p.cur.Line, p.cur.Literal)
			}
			param.Type = p.cur.Literal
			p.next()
		}
		params = append(params, param)
		if p.curIs(token.COMMA) {
			p.next()
		}
	}
	if err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return params, nil
}

func (p *Parser) parseBlockStatement() (*ast.BlockStatement, error) {
	if err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	block := &ast.BlockStatement{}
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		block.Statements = append(block.Statements, stmt)
	}
	if err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return block, nil
}

func (p *Parser) parseIfStatement() (ast.Statement, error) {
	if err := p.expect(token.IF); err != nil {
		return nil, err
	}
	if err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	if err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	cons, err := p.parseBlockStatement()
	if err != nil {
		return nil, err
	}
	stmt := &ast.IfStatement{Condition: cond, Consequence: cons}

	if p.curIs(token.ELSE) {
		p.next()
		if p.curIs(token.IF) {
			alt, err := p.parseIfStatement()
			if err != nil {
				return nil, err
			}
			stmt.Alternative = alt
		} else {
			alt, err := p.parseBlockStatement()
			if err != nil {
				return nil, err
			}
			stmt.Alternative = alt
		}
	}
	return stmt, nil
}

func (p *Parser) parseWhileStatement() (ast.Statement, error) {
	if err := p.expect(token.WHILE); err != nil {
		return nil, err
	}
	if err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	if err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	body, err := p.parseBlockStatement()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStatement{Condition: cond, Body: body}, nil
}

func (p *Parser) parseForInStatement() (ast.Statement, error) {
	if err := p.expect(token.FOR); err != nil {
		return nil, err
	}
	if err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	if !p.curIs(token.IDENT) {
		return nil, fmt.Errorf("line %d: expected loop variable, got %q", p.cur.Line, p.cur.Literal)
	}
	name := p.cur.Literal
	p.next()
	if err := p.expect(token.IN); err != nil {
		return nil, err
	}
	iter, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	if err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	body, err := p.parseBlockStatement()
	if err != nil {
		return nil, err
	}
	return &ast.ForInStatement{Name: name, Iter: iter, Body: body}, nil
}

func (p *Parser) parseReturnStatement() (ast.Statement, error) {
	if err := p.expect(token.RETURN); err != nil {
		return nil, err
	}
	if p.curIs(token.SEMI) {
		p.next()
		return &ast.ReturnStatement{}, nil
	}
	val, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	if err := p.expect(token.SEMI); err != nil {
		return nil, err
	}
	return &ast.ReturnStatement{Value: val}, nil
}

// --- Expressions ---

func (p *Parser) parseExpression(precedence int) (ast.Expression, error) {
	prefix, ok := p.prefixFns[p.cur.Type]
	if !ok {
		return nil, fmt.Errorf("line %d: unexpected token %s (%q)", p.cur.Line, p.cur.Type, p.cur.Literal)
	}
	left, err := prefix()
	if err != nil {
		return nil, err
	}

	// Prefix parsers consume their whole operand, so cur now sits on the
	// token after it: the candidate infix operator.
	for !p.curIs(token.SEMI) {
		pr, ok := precedences[p.cur.Type]
		if !ok || precedence >= pr {
			break
		}
		infix, ok := p.infixFns[p.cur.Type]
		if !ok {
			return left, nil
		}
		left, err = infix(left)
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

func (p *Parser) parseIntLiteral() (ast.Expression, error) {
	v, err := strconv.ParseInt(p.cur.Literal, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("line %d: invalid integer %q", p.cur.Line, p.cur.Literal)
	}
	p.next()
	return &ast.IntLiteral{Value: v}, nil
}

func (p *Parser) parseFloatLiteral() (ast.Expression, error) {
	v, err := strconv.ParseFloat(p.cur.Literal, 64)
	if err != nil {
		return nil, fmt.Errorf("line %d: invalid float %q", p.cur.Line, p.cur.Literal)
	}
	p.next()
	return &ast.FloatLiteral{Value: v}, nil
}

func (p *Parser) parseStringLiteral() (ast.Expression, error) {
	lit := &ast.StringLiteral{Value: p.cur.Literal}
	p.next()
	return lit, nil
}

func (p *Parser) parseBoolLiteral() (ast.Expression, error) {
	lit := &ast.BoolLiteral{Value: p.cur.Type == token.TRUE}
	p.next()
	return lit, nil
}

func (p *Parser) parseNoneLiteral() (ast.Expression, error) {
	p.next()
	return &ast.NoneLiteral{}, nil
}

func (p *Parser) parseGroupedExpr() (ast.Expression, error) {
	p.next()
	expr, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	if err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return expr, nil
}

func (p *Parser) parseArrayLiteral() (ast.Expression, error) {
	p.next()
	lit := &ast.ArrayLiteral{}
	for !p.curIs(token.RBRACKET) {
		elem, err := p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}
		lit.Elements = append(lit.Elements, elem)
		if p.curIs(token.COMMA) {
			p.next()
		}
	}
	if err := p.expect(token.RBRACKET); err != nil {
		return nil, err
	}
	return lit, nil
}

func (p *Parser) parseUnary() (ast.Expression, error) {
	op := "-"
	if p.curIs(token.NOT) {
		op = "not"
	}
	p.next()
	right, err := p.parseExpression(UNARY)
	if err != nil {
		return nil, err
	}
	return &ast.UnaryExpr{Operator: op, Right: right}, nil
}

func (p *Parser) parseBinary(left ast.Expression) (ast.Expression, error) {
	op := string(p.cur.Type)
	precedence := precedences[p.cur.Type]
	p.next()
	right, err := p.parseExpression(precedence)
	if err != nil {
		return nil, err
	}
	return &ast.BinaryExpr{Left: left, Operator: op, Right: right}, nil
}

func (p *Parser) parseTernary(cond ast.Expression) (ast.Expression, error) {
	p.next()
	then, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	if err := p.expect(token.COLON); err != nil {
		return nil, err
	}
	els, err := p.parseExpression(TERNARY)
	if err != nil {
		return nil, err
	}
	return &ast.TernaryExpr{Condition: cond, Then: then, Else: els}, nil
}

func (p *Parser) parseLambda() (ast.Expression, error) {
	if err := p.expect(token.FN); err != nil {
		return nil, err
	}
	params, err := p.parseParamList()
	if err != nil {
		return nil, err
	}
	if err := p.expect(token.ARROW); err != nil {
		return nil, err
	}
	body, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	return &ast.LambdaExpr{Params: params, Body: body}, nil
}

// parseIdentOrCallOrArray disambiguates a bare identifier, an assignment
// target, a function call, and array indexing/element assignment — all of
// which start with IDENT.
func (p *Parser) parseIdentOrCallOrArray() (ast.Expression, error) {
	name := p.cur.Literal
	p.next()

	switch {
	case p.curIs(token.LPAREN):
		args, err := p.parseCallArgs()
		if err != nil {
			return nil, err
		}
		return &ast.CallExpr{Name: name, Args: args}, nil

	case p.curIs(token.LBRACKET):
		p.next()
		idx, err := p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}
		if err := p.expect(token.RBRACKET); err != nil {
			return nil, err
		}
		if p.curIs(token.ASSIGN) {
			p.next()
			val, err := p.parseExpression(LOWEST)
			if err != nil {
				return nil, err
			}
			return &ast.ArrayAssign{Name: name, Index: idx, Value: val}, nil
		}
		return &ast.ArrayAccess{Name: name, Index: idx}, nil

	case p.curIs(token.ASSIGN):
		p.next()
		val, err := p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}
		return &ast.AssignExpr{Name: name, Value: val}, nil
	}

	return &ast.Identifier{Name: name}, nil
}

func (p *Parser) parseCallArgs() ([]ast.Expression, error) {
	if err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	var args []ast.Expression
	for !p.curIs(token.RPAREN) {
		arg, err := p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.curIs(token.COMMA) {
			p.next()
		}
	}
	if err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return args, nil
}

// --- Tree-construction grammar ---

func (p *Parser) parseTreeNode() (ast.TreeNode, error) {
	switch p.cur.Type {
	case token.AND:
		children, err := p.parseParenTreeList()
		if err != nil {
			return nil, err
		}
		return &ast.AndNode{Children: children}, nil

	case token.OR:
		children, err := p.parseParenTreeList()
		if err != nil {
			return nil, err
		}
		return &ast.OrNode{Children: children}, nil

	case token.THEN:
		children, err := p.parseParenTreeList()
		if err != nil {
			return nil, err
		}
		return &ast.ThenNode{Children: children}, nil

	case token.IDENT:
		if p.cur.Literal != "Behavior" {
			return nil, fmt.Errorf("line %d: unexpected identifier %q in tree position", p.cur.Line, p.cur.Literal)
		}
		p.next()
		args, err := p.parseCallArgs()
		if err != nil {
			return nil, err
		}
		return &ast.BehaviorNode{Args: args}, nil

	case token.ATIF:
		return p.parseAtIf()

	case token.ATFOR:
		return p.parseAtFor()

	case token.ATLOAD:
		p.next()
		args, err := p.parseCallArgs()
		if err != nil {
			return nil, err
		}
		return &ast.AtLoadNode{Args: args}, nil
	}

	return nil, fmt.Errorf("line %d: expected tree-construction node, got %s (%q)", p.cur.Line, p.cur.Type, p.cur.Literal)
}

func (p *Parser) parseParenTreeList() ([]ast.TreeNode, error) {
	p.next()
	if err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	var nodes []ast.TreeNode
	for !p.curIs(token.RPAREN) {
		n, err := p.parseTreeNode()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
		if p.curIs(token.COMMA) {
			p.next()
		}
	}
	if err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return nodes, nil
}

func (p *Parser) parseBraceTreeList() ([]ast.TreeNode, error) {
	if err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	var nodes []ast.TreeNode
	for !p.curIs(token.RBRACE) {
		n, err := p.parseTreeNode()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
		if p.curIs(token.COMMA) {
			p.next()
		}
	}
	if err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return nodes, nil
}

func (p *Parser) parseAtIf() (ast.TreeNode, error) {
	p.next()
	if err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	if err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	thenChildren, err := p.parseBraceTreeList()
	if err != nil {
		return nil, err
	}

	if p.curIs(token.ELSE) {
		p.next()
		elseChildren, err := p.parseBraceTreeList()
		if err != nil {
			return nil, err
		}
		return &ast.AtIfElseNode{Condition: cond, ThenChildren: thenChildren, ElseChildren: elseChildren}, nil
	}
	return &ast.AtIfNode{Condition: cond, Children: thenChildren}, nil
}

func (p *Parser) parseAtFor() (ast.TreeNode, error) {
	p.next()
	if err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	if !p.curIs(token.IDENT) {
		return nil, fmt.Errorf("line %d: expected loop variable, got %q", p.cur.Line, p.cur.Literal)
	}
	name := p.cur.Literal
	p.next()
	if err := p.expect(token.IN); err != nil {
		return nil, err
	}
	iter, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	if err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	children, err := p.parseBraceTreeList()
	if err != nil {
		return nil, err
	}
	return &ast.AtForNode{Name: name, Iter: iter, Children: children}, nil
}
