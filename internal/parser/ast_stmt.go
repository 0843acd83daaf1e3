package parser

import "github.com/loxlang/golox/internal/token"

// Stmt is a closed set of statement nodes.
type Stmt interface {
	stmtNode()
}

type (
	StmtExpression struct {
		Expression Expr
	}

	StmtPrint struct {
		Expression Expr
	}

	StmtVar struct {
		Name        *token.Token
		Initializer Expr // nil when absent
	}

	StmtBlock struct {
		Statements []Stmt
	}

	StmtIf struct {
		Condition  Expr
		ThenBranch Stmt
		ElseBranch Stmt // nil when absent
	}

	StmtWhile struct {
		Keyword   *token.Token // while, or for when desugared
		Condition Expr
		Body      Stmt
	}

	StmtFunction struct {
		Name *token.Token
		Fn   *ExprFunction
	}

	StmtReturn struct {
		Keyword *token.Token
		Value   Expr // nil when absent
	}

	StmtClass struct {
		Name       *token.Token
		SuperClass *ExprVariable // nil when absent
		Methods    []*StmtFunction
	}

	StmtBreak struct {
		Keyword *token.Token
	}
)

func (*StmtExpression) stmtNode() {}
func (*StmtPrint) stmtNode()      {}
func (*StmtVar) stmtNode()        {}
func (*StmtBlock) stmtNode()      {}
func (*StmtIf) stmtNode()         {}
func (*StmtWhile) stmtNode()      {}
func (*StmtFunction) stmtNode()   {}
func (*StmtReturn) stmtNode()     {}
func (*StmtClass) stmtNode()      {}
func (*StmtBreak) stmtNode()      {}

var (
	_ Stmt = (*StmtExpression)(nil)
	_ Stmt = (*StmtPrint)(nil)
	_ Stmt = (*StmtVar)(nil)
	_ Stmt = (*StmtBlock)(nil)
	_ Stmt = (*StmtIf)(nil)
	_ Stmt = (*StmtWhile)(nil)
	_ Stmt = (*StmtFunction)(nil)
	_ Stmt = (*StmtReturn)(nil)
	_ Stmt = (*StmtClass)(nil)
	_ Stmt = (*StmtBreak)(nil)
)
