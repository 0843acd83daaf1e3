package interpreter

import (
	"container/list"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/loxlang/golox/internal/loxerrors"
	"github.com/loxlang/golox/internal/parser"
	"github.com/loxlang/golox/internal/token"
)

// Resolver binds every local variable reference to the number of scopes
// between its use and its declaration.
type Resolver interface {
	Resolve(ctx context.Context, statements []parser.Stmt) error
}

type VarState int

const (
	VarStateDeclared VarState = iota
	VarStateDefined
)

type FunctionType int

const (
	FnTypeNone FunctionType = iota
	FnTypeLambda
	FnTypeFunction
	FnTypeMethod
	FnTypeInitializer
)

type ClassType int

const (
	CTypeNone ClassType = iota
	CTypeClass
	CTypeSubclass
)

type resolver struct {
	ctx             context.Context
	scopes          *list.List
	err             []error
	currentFunction FunctionType
	currentClass    ClassType
}

func NewResolver() Resolver {
	return &resolver{scopes: list.New()}
}

// Resolve implements Resolver.
func (r *resolver) Resolve(ctx context.Context, statements []parser.Stmt) error {
	r.ctx = ctx
	r.err = nil
	r.scopes.Init()
	r.currentFunction = FnTypeNone
	r.currentClass = CTypeNone

	r.resolveStmts(statements)
	if err := ctx.Err(); err != nil {
		return err
	}
	return errors.Join(r.err...)
}

// resolveStmts stops at the first statement after ctx is done, leaving the
// rest of the tree unbound.
func (r *resolver) resolveStmts(stmts []parser.Stmt) {
	for _, stmt := range stmts {
		if r.ctx.Err() != nil {
			return
		}
		r.resolveStmt(stmt)
	}
}

func (r *resolver) resolveStmt(stmt parser.Stmt) {
	switch s := stmt.(type) {
	case *parser.StmtBlock:
		r.beginScope()
		defer r.endScope()
		r.resolveStmts(s.Statements)
	case *parser.StmtClass:
		r.resolveClass(s)
	case *parser.StmtExpression:
		r.resolveExpr(s.Expression)
	case *parser.StmtFunction:
		// Defined eagerly so the function can refer to itself.
		r.declare(s.Name)
		r.define(s.Name)
		r.resolveFunction(s.Fn, FnTypeFunction)
	case *parser.StmtIf:
		r.resolveExpr(s.Condition)
		r.resolveStmt(s.ThenBranch)
		if s.ElseBranch != nil {
			r.resolveStmt(s.ElseBranch)
		}
	case *parser.StmtPrint:
		r.resolveExpr(s.Expression)
	case *parser.StmtReturn:
		if r.currentFunction == FnTypeNone {
			r.reportError(s.Keyword, loxerrors.ErrResolveReturnOutsideFunction)
		}
		if s.Value != nil {
			if r.currentFunction == FnTypeInitializer {
				r.reportError(s.Keyword, loxerrors.ErrResolveCantReturnValueFromInitializer)
			}
			r.resolveExpr(s.Value)
		}
	case *parser.StmtVar:
		r.declare(s.Name)
		if s.Initializer != nil {
			r.resolveExpr(s.Initializer)
		}
		r.define(s.Name)
	case *parser.StmtWhile:
		r.resolveExpr(s.Condition)
		r.resolveStmt(s.Body)
	case *parser.StmtBreak:
		// Placement is checked by the parser.
	default:
		panic(fmt.Sprintf("unreachable: unknown statement %T", stmt))
	}
}

func (r *resolver) resolveClass(s *parser.StmtClass) {
	enclosingClass := r.currentClass
	defer func() { r.currentClass = enclosingClass }()
	r.currentClass = CTypeClass

	r.declare(s.Name)
	r.define(s.Name)

	if s.SuperClass != nil && s.Name.Lexeme == s.SuperClass.Name.Lexeme {
		r.reportError(s.SuperClass.Name, loxerrors.ErrResolveClassCantInheritFromItself)
	}
	if s.SuperClass != nil {
		r.currentClass = CTypeSubclass
		r.resolveExpr(s.SuperClass)

		r.beginScope()
		defer r.endScope()
		r.defineInternal("super")
	}

	r.beginScope()
	defer r.endScope()
	r.defineInternal("this")

	for _, method := range s.Methods {
		functionType := FnTypeMethod
		if method.Name.Lexeme == initializerName {
			functionType = FnTypeInitializer
		}
		r.resolveFunction(method.Fn, functionType)
	}
}

func (r *resolver) resolveExpr(expr parser.Expr) {
	switch e := expr.(type) {
	case *parser.ExprAssign:
		r.resolveExpr(e.Value)
		r.resolveLocal(e, e.Name)
	case *parser.ExprBinary:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *parser.ExprCall:
		r.resolveExpr(e.Callee)
		for _, arg := range e.Arguments {
			r.resolveExpr(arg)
		}
	case *parser.ExprGet:
		r.resolveExpr(e.Instance)
	case *parser.ExprFunction:
		r.resolveFunction(e, FnTypeLambda)
	case *parser.ExprGrouping:
		r.resolveExpr(e.Expression)
	case *parser.ExprLiteral:
	case *parser.ExprLogical:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *parser.ExprSet:
		r.resolveExpr(e.Value)
		r.resolveExpr(e.Instance)
	case *parser.ExprSuper:
		switch r.currentClass {
		case CTypeSubclass:
		case CTypeNone:
			r.reportError(e.Keyword, loxerrors.ErrResolveCantUseSuperOutsideClass)
		default:
			r.reportError(e.Keyword, loxerrors.ErrResolveCantUseSuperInClassWithNoSuperclass)
		}
		r.resolveLocal(e, e.Keyword)
	case *parser.ExprThis:
		if r.currentClass == CTypeNone {
			r.reportError(e.Keyword, loxerrors.ErrResolveThisOutsideClass)
		}
		r.resolveLocal(e, e.Keyword)
	case *parser.ExprUnary:
		r.resolveExpr(e.Right)
	case *parser.ExprVariable:
		if state, ok := r.peekScopeVar(e.Name.Lexeme); ok && state == VarStateDeclared {
			r.reportError(e.Name, loxerrors.ErrResolveCantInitVarSelfReference)
		}
		r.resolveLocal(e, e.Name)
	default:
		panic(fmt.Sprintf("unreachable: unknown expression %T", expr))
	}
}

func (r *resolver) resolveFunction(function *parser.ExprFunction, declaration FunctionType) {
	enclosingFunction := r.currentFunction
	r.beginScope()
	r.currentFunction = declaration

	defer func() { r.currentFunction = enclosingFunction }()
	defer r.endScope()

	for _, param := range function.Parameters {
		r.declare(param)
		r.define(param)
	}

	r.resolveStmts(function.Body)
}

// resolveLocal binds expr to the innermost scope declaring name. Names not
// found in any scope are left unbound and looked up as globals.
func (r *resolver) resolveLocal(expr parser.Resolvable, tok *token.Token) {
	depth := 0
	for el := r.scopes.Back(); el != nil; el = el.Prev() {
		if _, ok := scopeFromListElem(el)[tok.Lexeme]; ok {
			expr.Bind(depth)
			return
		}
		depth++
	}
}

func (r *resolver) beginScope() {
	r.scopes.PushBack(map[string]VarState{})
}

func (r *resolver) endScope() {
	r.scopes.Remove(r.scopes.Back())
}

func (r *resolver) declare(tok *token.Token) {
	if scope, ok := r.peekScope(); ok {
		if _, ok := scope[tok.Lexeme]; ok {
			r.reportError(tok, loxerrors.ErrResolveCantDuplicateVariableDefinition)
		}
		scope[tok.Lexeme] = VarStateDeclared
	}
}

func (r *resolver) define(tok *token.Token) {
	if scope, ok := r.peekScope(); ok {
		scope[tok.Lexeme] = VarStateDefined
	}
}

func (r *resolver) defineInternal(name string) {
	if scope, ok := r.peekScope(); ok {
		scope[name] = VarStateDefined
	}
}

func (r *resolver) peekScope() (map[string]VarState, bool) {
	if r.scopes.Len() == 0 {
		return nil, false
	}
	return scopeFromListElem(r.scopes.Back()), true
}

func (r *resolver) peekScopeVar(name string) (VarState, bool) {
	if scope, ok := r.peekScope(); ok {
		state, ok := scope[name]
		return state, ok
	}
	return VarStateDeclared, false
}

func (r *resolver) reportError(tok *token.Token, err error) {
	r.err = append(r.err, loxerrors.NewResolveError(tok, err))
}

func scopeFromListElem(el *list.Element) map[string]VarState {
	return el.Value.(map[string]VarState)
}

func (r *resolver) String() string {
	w := new(strings.Builder)

	index := 0
	delimiter := ""
	for el := r.scopes.Front(); el != nil; el = el.Next() {
		_, _ = fmt.Fprintf(w, "%s%d{%v}", delimiter, index, scopeFromListElem(el))
		index++
		delimiter = " ->"
	}

	return fmt.Sprintf("resolver{err: %v, scopes: %s}", r.err, w)
}

var (
	_ Resolver     = (*resolver)(nil)
	_ fmt.Stringer = (*resolver)(nil)
)
