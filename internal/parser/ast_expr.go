package parser

import "github.com/loxlang/golox/internal/token"

// Expr is a closed set of expression nodes. Passes switch over the concrete
// types and panic on anything they do not know.
type Expr interface {
	exprNode()
}

// Resolvable is an expression that names a variable. The resolver binds its
// scope depth, the interpreter reads it back.
type Resolvable interface {
	Expr
	Bind(depth int)
	Depth() (int, bool)
}

type (
	ExprLiteral struct {
		Value any
	}

	ExprVariable struct {
		Binding
		Name *token.Token
	}

	ExprAssign struct {
		Binding
		Name  *token.Token
		Value Expr
	}

	ExprUnary struct {
		Operator *token.Token
		Right    Expr
	}

	ExprBinary struct {
		Left     Expr
		Operator *token.Token
		Right    Expr
	}

	ExprLogical struct {
		Left     Expr
		Operator *token.Token
		Right    Expr
	}

	ExprCall struct {
		Callee    Expr
		Paren     *token.Token
		Arguments []Expr
	}

	ExprGet struct {
		Instance Expr
		Name     *token.Token
	}

	ExprSet struct {
		Instance Expr
		Name     *token.Token
		Value    Expr
	}

	ExprThis struct {
		Binding
		Keyword *token.Token
	}

	ExprSuper struct {
		Binding
		Keyword *token.Token
		Method  *token.Token
	}

	ExprGrouping struct {
		Expression Expr
	}

	// ExprFunction is an anonymous function, and the body of every
	// named function and method.
	ExprFunction struct {
		Keyword    *token.Token
		Parameters []*token.Token
		Body       []Stmt
	}
)

func (*ExprLiteral) exprNode()  {}
func (*ExprVariable) exprNode() {}
func (*ExprAssign) exprNode()   {}
func (*ExprUnary) exprNode()    {}
func (*ExprBinary) exprNode()   {}
func (*ExprLogical) exprNode()  {}
func (*ExprCall) exprNode()     {}
func (*ExprGet) exprNode()      {}
func (*ExprSet) exprNode()      {}
func (*ExprThis) exprNode()     {}
func (*ExprSuper) exprNode()    {}
func (*ExprGrouping) exprNode() {}
func (*ExprFunction) exprNode() {}

var (
	_ Expr       = (*ExprLiteral)(nil)
	_ Resolvable = (*ExprVariable)(nil)
	_ Resolvable = (*ExprAssign)(nil)
	_ Expr       = (*ExprUnary)(nil)
	_ Expr       = (*ExprBinary)(nil)
	_ Expr       = (*ExprLogical)(nil)
	_ Expr       = (*ExprCall)(nil)
	_ Expr       = (*ExprGet)(nil)
	_ Expr       = (*ExprSet)(nil)
	_ Resolvable = (*ExprThis)(nil)
	_ Resolvable = (*ExprSuper)(nil)
	_ Expr       = (*ExprGrouping)(nil)
	_ Expr       = (*ExprFunction)(nil)
)
