package parser

import (
	"errors"
	"fmt"

	"github.com/loxlang/golox/internal/loxerrors"
	"github.com/loxlang/golox/internal/token"
)

const maxArity = 255

var (
	nilExpr       Expr   = nil
	nilStmt       Stmt   = nil
	nilStatements []Stmt = nil
)

type Parser interface {
	// Parse returns the program, or nil and every syntax error found, joined.
	Parse() ([]Stmt, error)
}

type parser struct {
	tokens  []token.Token
	current int

	// err is the error of the declaration being parsed. While it is set every
	// rule unwinds without consuming, then Parse synchronizes.
	err error
	// errs collects every reported error in source order.
	errs []error

	loopDepth int
}

func NewParser(tokens []token.Token) Parser {
	if len(tokens) == 0 {
		panic("tokens cannot be empty")
	}
	if tokens[len(tokens)-1].Type != token.EOF {
		panic("tokens must end with EOF")
	}

	return &parser{
		tokens:  tokens,
		current: 0,
	}
}

// GoString implements fmt.GoStringer.
func (p *parser) GoString() string {
	return fmt.Sprintf("parser{tokens: %#v, current: %d, err: %#v}", p.tokens, p.current, p.err)
}

// String implements fmt.Stringer.
func (p *parser) String() string {
	return fmt.Sprintf("parser{tokens: %d, errs: %d}", len(p.tokens), len(p.errs))
}

// Parse implements Parser.
func (p *parser) Parse() ([]Stmt, error) {
	var statements []Stmt

	for !p.isAtEnd() {
		if stmt := p.declaration(); stmt != nilStmt {
			statements = append(statements, stmt)
		}
	}

	// An invalid tree is never returned, only the errors.
	if len(p.errs) > 0 {
		return nilStatements, errors.Join(p.errs...)
	}
	return statements, nil
}

// declaration is the recovery point: a failed declaration is recorded and
// skipped, so parsing resumes in whatever block or body contains it.
func (p *parser) declaration() Stmt {
	stmt := p.declarationRule()
	if p.err != nil {
		p.errs = append(p.errs, p.err)
		p.err = nil
		p.synchronize()
		return nilStmt
	}
	return stmt
}

func (p *parser) declarationRule() Stmt {
	if p.match(token.CLASS) {
		return p.classDeclaration()
	}

	if p.check(token.FUN) && p.checkNext(token.IDENTIFIER) {
		p.advance()
		return p.function("function")
	}

	if p.match(token.VAR) {
		return p.varDeclaration()
	}

	return p.statement()
}

func (p *parser) classDeclaration() Stmt {
	if !p.match(token.IDENTIFIER) {
		return p.reportStmtError(loxerrors.ErrParseExpectedIdentifierKindError("class"))
	}
	name := p.previous()

	var superClass *ExprVariable
	if p.match(token.LESS) {
		if !p.match(token.IDENTIFIER) {
			return p.reportStmtError(loxerrors.ErrParseUnexpectedSuperClassName)
		}
		superClass = &ExprVariable{Name: p.previous()}
	}

	if !p.match(token.LEFT_BRACE) {
		return p.reportStmtError(loxerrors.ErrParseExpectedLeftBraceClassToken)
	}

	var methods []*StmtFunction
	for !p.check(token.RIGHT_BRACE) && !p.isDone() {
		methods = append(methods, p.function("method"))
	}

	if !p.match(token.RIGHT_BRACE) {
		return p.reportStmtError(loxerrors.ErrParseExpectedRightBraceClassToken)
	}

	return &StmtClass{Name: name, SuperClass: superClass, Methods: methods}
}

func (p *parser) function(kind string) *StmtFunction {
	if !p.match(token.IDENTIFIER) {
		p.reportError(p.peek(), loxerrors.ErrParseExpectedIdentifierKindError(kind))
		return nil
	}
	name := p.previous()

	if !p.match(token.LEFT_PAREN) {
		p.reportError(p.peek(), loxerrors.ErrParseExpectedLeftParenError(kind))
		return nil
	}

	fn := p.functionBody(kind, name)
	if fn == nil {
		return nil
	}
	return &StmtFunction{Name: name, Fn: fn}
}

// functionBody parses from the parameter list on, the '(' is already consumed.
func (p *parser) functionBody(kind string, keyword *token.Token) *ExprFunction {
	var parameters []*token.Token
	if !p.check(token.RIGHT_PAREN) {
		for {
			if len(parameters) >= maxArity {
				p.reportNonFatal(p.peek(), loxerrors.ErrParseTooManyParameters)
			}
			if !p.match(token.IDENTIFIER) {
				p.reportError(p.peek(), loxerrors.ErrParseUnexpectedParameterName)
				return nil
			}
			parameters = append(parameters, p.previous())
			if !p.match(token.COMMA) {
				break
			}
		}
	}

	if !p.match(token.RIGHT_PAREN) {
		p.reportError(p.peek(), loxerrors.ErrParseExpectedRightParenFunToken)
		return nil
	}

	if !p.match(token.LEFT_BRACE) {
		p.reportError(p.peek(), loxerrors.ErrParseExpectedLeftBraceFunToken(kind))
		return nil
	}

	// break never crosses a function boundary.
	enclosingLoopDepth := p.loopDepth
	p.loopDepth = 0
	body := p.blockStatement()
	p.loopDepth = enclosingLoopDepth

	return &ExprFunction{Keyword: keyword, Parameters: parameters, Body: body}
}

func (p *parser) varDeclaration() Stmt {
	if !p.match(token.IDENTIFIER) {
		return p.reportStmtError(loxerrors.ErrParseUnexpectedVariableName)
	}
	name := p.previous()

	var initializer Expr = nilExpr
	if p.match(token.EQUAL) {
		initializer = p.expression()
	}

	if !p.match(token.SEMICOLON) {
		return p.reportStmtError(loxerrors.ErrParseExpectedSemicolonTokenAfterVar)
	}

	return &StmtVar{Name: name, Initializer: initializer}
}

func (p *parser) statement() Stmt {
	switch {
	case p.match(token.BREAK):
		return p.breakStatement()
	case p.match(token.FOR):
		return p.forStatement()
	case p.match(token.IF):
		return p.ifStatement()
	case p.match(token.PRINT):
		return p.printStatement()
	case p.match(token.RETURN):
		return p.returnStatement()
	case p.match(token.WHILE):
		return p.whileStatement()
	case p.match(token.LEFT_BRACE):
		return &StmtBlock{Statements: p.blockStatement()}
	}

	return p.expressionStatement()
}

func (p *parser) breakStatement() Stmt {
	keyword := p.previous()
	if p.loopDepth == 0 {
		p.reportNonFatal(keyword, loxerrors.ErrParseBreakOutsideLoop)
	}

	if !p.match(token.SEMICOLON) {
		return p.reportStmtError(loxerrors.ErrParseExpectedSemicolonTokenAfterBreak)
	}

	return &StmtBreak{Keyword: keyword}
}

func (p *parser) ifStatement() Stmt {
	if !p.match(token.LEFT_PAREN) {
		return p.reportStmtError(loxerrors.ErrParseExpectedLeftParenIfToken)
	}

	condition := p.expression()

	if !p.match(token.RIGHT_PAREN) {
		return p.reportStmtError(loxerrors.ErrParseExpectedRightParenIfToken)
	}

	thenBranch := p.statement()
	var elseBranch Stmt
	if p.match(token.ELSE) {
		elseBranch = p.statement()
	}

	return &StmtIf{Condition: condition, ThenBranch: thenBranch, ElseBranch: elseBranch}
}

// forStatement desugars into
//
//	{ initializer; while (condition) { body; increment; } }
//
// dropping the parts that are absent.
func (p *parser) forStatement() Stmt {
	keyword := p.previous()
	if !p.match(token.LEFT_PAREN) {
		return p.reportStmtError(loxerrors.ErrParseExpectedLeftParenForToken)
	}

	var initializer Stmt
	if p.match(token.SEMICOLON) {
		initializer = nilStmt
	} else if p.match(token.VAR) {
		initializer = p.varDeclaration()
	} else {
		initializer = p.expressionStatement()
	}

	var condition Expr
	if !p.check(token.SEMICOLON) {
		condition = p.expression()
	}
	if !p.match(token.SEMICOLON) {
		return p.reportStmtError(loxerrors.ErrParseExpectedSemicolonAfterForLoopCond)
	}

	var increment Expr
	if !p.check(token.RIGHT_PAREN) {
		increment = p.expression()
	}
	if !p.match(token.RIGHT_PAREN) {
		return p.reportStmtError(loxerrors.ErrParseExpectedRightParenForToken)
	}

	body := p.loopBody()
	if increment != nilExpr {
		body = &StmtBlock{
			Statements: []Stmt{body, &StmtExpression{Expression: increment}},
		}
	}
	if condition == nilExpr {
		condition = &ExprLiteral{Value: true}
	}
	body = &StmtWhile{Keyword: keyword, Condition: condition, Body: body}
	if initializer != nilStmt {
		body = &StmtBlock{Statements: []Stmt{initializer, body}}
	}
	return body
}

func (p *parser) printStatement() Stmt {
	expr := p.expression()

	if !p.match(token.SEMICOLON) {
		return p.reportStmtError(loxerrors.ErrParseExpectedSemicolonTokenAfterPrintValue)
	}

	return &StmtPrint{Expression: expr}
}

func (p *parser) returnStatement() Stmt {
	keyword := p.previous()

	var value Expr = nilExpr
	if !p.check(token.SEMICOLON) {
		value = p.expression()
	}

	if !p.match(token.SEMICOLON) {
		return p.reportStmtError(loxerrors.ErrParseExpectedSemicolonTokenAfterReturn)
	}

	return &StmtReturn{Keyword: keyword, Value: value}
}

func (p *parser) whileStatement() Stmt {
	keyword := p.previous()
	if !p.match(token.LEFT_PAREN) {
		return p.reportStmtError(loxerrors.ErrParseExpectedLeftParenWhileToken)
	}
	condition := p.expression()
	if !p.match(token.RIGHT_PAREN) {
		return p.reportStmtError(loxerrors.ErrParseExpectedRightParenWhileToken)
	}

	body := p.loopBody()

	return &StmtWhile{Keyword: keyword, Condition: condition, Body: body}
}

func (p *parser) loopBody() Stmt {
	p.loopDepth++
	defer func() { p.loopDepth-- }()

	return p.statement()
}

func (p *parser) blockStatement() []Stmt {
	var stmts []Stmt

	for !p.check(token.RIGHT_BRACE) && !p.isDone() {
		if stmt := p.declaration(); stmt != nilStmt {
			stmts = append(stmts, stmt)
		}
	}

	if !p.match(token.RIGHT_BRACE) {
		return p.reportStmtsError(loxerrors.ErrParseExpectedRightBraceBlockToken)
	}

	return stmts
}

func (p *parser) expressionStatement() Stmt {
	expr := p.expression()
	if !p.match(token.SEMICOLON) {
		return p.reportStmtError(loxerrors.ErrParseExpectedSemicolonTokenAfterExpr)
	}
	return &StmtExpression{Expression: expr}
}

func (p *parser) expression() Expr {
	return p.assignment()
}

func (p *parser) assignment() Expr {
	expr := p.logicOr()

	if p.match(token.EQUAL) {
		equals := p.previous()
		value := p.assignment()

		switch target := expr.(type) {
		case *ExprVariable:
			return &ExprAssign{Name: target.Name, Value: value}
		case *ExprGet:
			return &ExprSet{Instance: target.Instance, Name: target.Name, Value: value}
		}

		// Reported, but the parser is not confused, no need to synchronize.
		p.reportNonFatal(equals, loxerrors.ErrParseInvalidAssignmentTarget)
	}

	return expr
}

func (p *parser) logicOr() Expr {
	expr := p.logicAnd()

	for p.match(token.OR) {
		operator := p.previous()
		right := p.logicAnd()
		expr = &ExprLogical{Left: expr, Operator: operator, Right: right}
	}

	return expr
}

func (p *parser) logicAnd() Expr {
	expr := p.equality()

	for p.match(token.AND) {
		operator := p.previous()
		right := p.equality()
		expr = &ExprLogical{Left: expr, Operator: operator, Right: right}
	}

	return expr
}

func (p *parser) equality() Expr {
	expr := p.comparison()

	for p.anyMatch(token.BANG_EQUAL, token.EQUAL_EQUAL) {
		operator := p.previous()
		right := p.comparison()
		expr = &ExprBinary{Left: expr, Operator: operator, Right: right}
	}

	return expr
}

func (p *parser) comparison() Expr {
	expr := p.term()

	for p.anyMatch(token.GREATER, token.GREATER_EQUAL, token.LESS, token.LESS_EQUAL) {
		operator := p.previous()
		right := p.term()
		expr = &ExprBinary{Left: expr, Operator: operator, Right: right}
	}

	return expr
}

func (p *parser) term() Expr {
	expr := p.factor()

	for p.anyMatch(token.MINUS, token.PLUS) {
		operator := p.previous()
		right := p.factor()
		expr = &ExprBinary{Left: expr, Operator: operator, Right: right}
	}

	return expr
}

func (p *parser) factor() Expr {
	expr := p.unary()

	for p.anyMatch(token.SLASH, token.STAR) {
		operator := p.previous()
		right := p.unary()
		expr = &ExprBinary{Left: expr, Operator: operator, Right: right}
	}

	return expr
}

func (p *parser) unary() Expr {
	if p.anyMatch(token.BANG, token.MINUS) {
		operator := p.previous()
		right := p.unary()
		return &ExprUnary{
			Operator: operator,
			Right:    right,
		}
	}

	return p.call()
}

func (p *parser) call() Expr {
	expr := p.primary()

	for {
		if p.match(token.LEFT_PAREN) {
			expr = p.finishCall(expr)
		} else if p.match(token.DOT) {
			if !p.match(token.IDENTIFIER) {
				return p.reportExprError(loxerrors.ErrParseUnexpectedPropertyName)
			}
			expr = &ExprGet{Instance: expr, Name: p.previous()}
		} else {
			break
		}
	}

	return expr
}

func (p *parser) finishCall(callee Expr) Expr {
	var arguments []Expr
	if !p.check(token.RIGHT_PAREN) {
		for {
			if len(arguments) >= maxArity {
				p.reportNonFatal(p.peek(), loxerrors.ErrParseTooManyArguments)
			}
			arguments = append(arguments, p.expression())
			if !p.match(token.COMMA) {
				break
			}
		}
	}

	if !p.match(token.RIGHT_PAREN) {
		return p.reportExprError(loxerrors.ErrParseExpectedRightParenAfterArguments)
	}

	return &ExprCall{Callee: callee, Paren: p.previous(), Arguments: arguments}
}

func (p *parser) primary() Expr {
	switch {
	case p.match(token.FALSE):
		return &ExprLiteral{Value: false}
	case p.match(token.TRUE):
		return &ExprLiteral{Value: true}
	case p.match(token.NIL):
		return &ExprLiteral{Value: nil}
	case p.anyMatch(token.NUMBER, token.STRING):
		return &ExprLiteral{Value: p.previous().Literal}
	case p.match(token.THIS):
		return &ExprThis{Keyword: p.previous()}
	case p.match(token.SUPER):
		return p.super()
	case p.match(token.IDENTIFIER):
		return &ExprVariable{Name: p.previous()}
	case p.match(token.FUN):
		return p.lambda()
	}

	return p.grouping()
}

func (p *parser) super() Expr {
	keyword := p.previous()
	if !p.match(token.DOT) {
		return p.reportExprError(loxerrors.ErrParseExpectedDotAfterSuper)
	}
	if !p.match(token.IDENTIFIER) {
		return p.reportExprError(loxerrors.ErrParseExpectedSuperclassMethodName)
	}
	return &ExprSuper{Keyword: keyword, Method: p.previous()}
}

func (p *parser) lambda() Expr {
	keyword := p.previous()
	if !p.match(token.LEFT_PAREN) {
		return p.reportExprError(loxerrors.ErrParseExpectedLeftParenAfterFun)
	}

	fn := p.functionBody("function", keyword)
	if fn == nil {
		return nilExpr
	}
	return fn
}

func (p *parser) grouping() Expr {
	if p.match(token.LEFT_PAREN) {
		expr := p.expression()
		if !p.match(token.RIGHT_PAREN) {
			return p.reportExprError(loxerrors.ErrParseExpectedRightParenToken)
		}
		return &ExprGrouping{Expression: expr}
	}

	return p.reportExprError(loxerrors.ErrParseUnexpectedToken)
}

func (p *parser) anyMatch(types ...token.TokenType) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *parser) match(tokType token.TokenType) bool {
	if p.check(tokType) {
		p.advance()
		return true
	}
	return false
}

func (p *parser) check(tokenType token.TokenType) bool {
	return !p.isDone() && p.peek().Type == tokenType
}

func (p *parser) checkNext(tokenType token.TokenType) bool {
	if p.isDone() || p.current+1 >= len(p.tokens) {
		return false
	}
	return p.tokens[p.current+1].Type == tokenType
}

func (p *parser) peek() *token.Token {
	return &p.tokens[p.current]
}

func (p *parser) previous() *token.Token {
	return &p.tokens[p.current-1]
}

func (p *parser) advance() *token.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

// Be carefull with isAtEnd, it does not check for parse errors.
// Use isDone instead.
// isAtEnd is used from top level Parse, synchronize and advance ony.
func (p *parser) isAtEnd() bool {
	return p.peek().Type == token.EOF
}

func (p *parser) isDone() bool {
	// at the end, OR, unwinding after an error
	return p.isAtEnd() || p.err != nil
}

func (p *parser) reportStmtError(err error) Stmt {
	p.reportError(p.peek(), err)
	return nilStmt
}

func (p *parser) reportStmtsError(err error) []Stmt {
	p.reportError(p.peek(), err)
	return nilStatements
}

func (p *parser) reportExprError(err error) Expr {
	p.reportError(p.peek(), err)
	return nilExpr
}

// reportError enters panic mode, only the first error of a declaration counts.
func (p *parser) reportError(tok *token.Token, err error) {
	if p.err != nil {
		return
	}
	p.err = loxerrors.NewParseError(tok, err)
}

// reportNonFatal records an error the parser can carry on from in place.
func (p *parser) reportNonFatal(tok *token.Token, err error) {
	if p.err != nil {
		return
	}
	p.errs = append(p.errs, loxerrors.NewParseError(tok, err))
}

// synchronize discards tokens up to the next statement boundary.
func (p *parser) synchronize() {
	p.advance()

	for !p.isAtEnd() {
		if p.previous().Type == token.SEMICOLON {
			return
		}

		switch p.peek().Type {
		case token.CLASS,
			token.FUN,
			token.VAR,
			token.FOR,
			token.IF,
			token.WHILE,
			token.PRINT,
			token.RETURN:
			return
		}

		p.advance()
	}
}

var (
	_ Parser         = (*parser)(nil)
	_ fmt.Stringer   = (*parser)(nil)
	_ fmt.GoStringer = (*parser)(nil)
)
