package parser

import (
	"fmt"
	"strconv"
	"strings"
)

// AstPrinter renders trees as s-expressions, one top level statement per line.
type AstPrinter struct{}

func NewAstPrinter() *AstPrinter {
	return &AstPrinter{}
}

func (p *AstPrinter) Print(expr Expr) string {
	return p.expr(expr)
}

func (p *AstPrinter) PrintStmts(stmts []Stmt) string {
	out := new(strings.Builder)
	for _, stmt := range stmts {
		_, _ = out.WriteString(p.stmt(stmt))
		_, _ = out.WriteString("\n")
	}
	return out.String()
}

func (p *AstPrinter) stmt(stmt Stmt) string {
	switch s := stmt.(type) {
	case *StmtExpression:
		return p.parenthesize(";", s.Expression)
	case *StmtPrint:
		return p.parenthesize("print", s.Expression)
	case *StmtVar:
		if s.Initializer == nil {
			return p.join("var", s.Name.Lexeme)
		}
		return p.join("var", s.Name.Lexeme, "=", p.expr(s.Initializer))
	case *StmtBlock:
		return p.join("block", p.stmts(s.Statements)...)
	case *StmtIf:
		if s.ElseBranch == nil {
			return p.join("if", p.expr(s.Condition), p.stmt(s.ThenBranch))
		}
		return p.join("if-else", p.expr(s.Condition), p.stmt(s.ThenBranch), p.stmt(s.ElseBranch))
	case *StmtWhile:
		return p.join("while", p.expr(s.Condition), p.stmt(s.Body))
	case *StmtFunction:
		return p.function("fun "+s.Name.Lexeme, s.Fn)
	case *StmtReturn:
		if s.Value == nil {
			return "(return)"
		}
		return p.parenthesize("return", s.Value)
	case *StmtClass:
		name := "class " + s.Name.Lexeme
		if s.SuperClass != nil {
			name += " < " + s.SuperClass.Name.Lexeme
		}
		methods := make([]string, 0, len(s.Methods))
		for _, method := range s.Methods {
			methods = append(methods, p.stmt(method))
		}
		return p.join(name, methods...)
	case *StmtBreak:
		return "(break)"
	}

	panic(fmt.Sprintf("unreachable: unknown statement %T", stmt))
}

func (p *AstPrinter) stmts(stmts []Stmt) []string {
	parts := make([]string, 0, len(stmts))
	for _, stmt := range stmts {
		parts = append(parts, p.stmt(stmt))
	}
	return parts
}

func (p *AstPrinter) expr(expr Expr) string {
	switch e := expr.(type) {
	case *ExprLiteral:
		return p.literal(e.Value)
	case *ExprVariable:
		return e.Name.Lexeme
	case *ExprAssign:
		return p.join("=", e.Name.Lexeme, p.expr(e.Value))
	case *ExprUnary:
		return p.parenthesize(e.Operator.Lexeme, e.Right)
	case *ExprBinary:
		return p.parenthesize(e.Operator.Lexeme, e.Left, e.Right)
	case *ExprLogical:
		return p.parenthesize(e.Operator.Lexeme, e.Left, e.Right)
	case *ExprCall:
		return p.parenthesize("call", append([]Expr{e.Callee}, e.Arguments...)...)
	case *ExprGet:
		return p.join(".", p.expr(e.Instance), e.Name.Lexeme)
	case *ExprSet:
		return p.join("=", p.expr(e.Instance), e.Name.Lexeme, p.expr(e.Value))
	case *ExprThis:
		return "this"
	case *ExprSuper:
		return p.join("super", e.Method.Lexeme)
	case *ExprGrouping:
		return p.parenthesize("group", e.Expression)
	case *ExprFunction:
		return p.function("fun", e)
	}

	panic(fmt.Sprintf("unreachable: unknown expression %T", expr))
}

func (p *AstPrinter) function(name string, fn *ExprFunction) string {
	params := make([]string, 0, len(fn.Parameters))
	for _, param := range fn.Parameters {
		params = append(params, param.Lexeme)
	}
	signature := "(" + strings.Join(params, " ") + ")"
	return p.join(name, append([]string{signature}, p.stmts(fn.Body)...)...)
}

func (p *AstPrinter) literal(v any) string {
	switch v := v.(type) {
	case nil:
		return "nil"
	case string:
		return strconv.Quote(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return fmt.Sprintf("%v", v)
}

func (p *AstPrinter) parenthesize(name string, exprs ...Expr) string {
	parts := make([]string, 0, len(exprs))
	for _, expr := range exprs {
		parts = append(parts, p.expr(expr))
	}
	return p.join(name, parts...)
}

func (p *AstPrinter) join(name string, parts ...string) string {
	out := new(strings.Builder)
	_, _ = out.WriteString("(")
	_, _ = out.WriteString(name)
	for _, part := range parts {
		_, _ = out.WriteString(" ")
		_, _ = out.WriteString(part)
	}
	_, _ = out.WriteString(")")
	return out.String()
}
