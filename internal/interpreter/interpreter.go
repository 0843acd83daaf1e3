package interpreter

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/loxlang/golox/internal/loxerrors"
	"github.com/loxlang/golox/internal/parser"
	"github.com/loxlang/golox/internal/token"
)

type Interpreter interface {
	// Interpret runs statements against the global environment.
	// It returns the REPL echo of a trailing expression statement, if any.
	Interpret(ctx context.Context, statements []parser.Stmt) (string, error)
	Globals() *Environment
}

type flowKind int

const (
	flowNormal flowKind = iota
	flowReturn
	flowBreak
)

// flow is how a statement finished. Return carries the returned value.
type flow struct {
	kind  flowKind
	value Value
}

var (
	normalFlow = flow{kind: flowNormal}
	breakFlow  = flow{kind: flowBreak}
)

type interpreter struct {
	globals      *Environment
	env          *Environment
	stdout       io.Writer
	clock        func() time.Time
	maxCallDepth int
	callDepth    int
}

func NewInterpreter(options ...InterpreterOption) Interpreter {
	opts := newInterpreterOpts(options...)
	defineStdlib(opts.globals)

	return &interpreter{
		globals:      opts.globals,
		env:          opts.globals,
		stdout:       opts.stdout,
		clock:        opts.clock,
		maxCallDepth: opts.maxCallDepth,
	}
}

// Interpret implements Interpreter.
func (i *interpreter) Interpret(ctx context.Context, statements []parser.Stmt) (string, error) {
	i.env = i.globals
	i.callDepth = 0

	result := ""
	for _, stmt := range statements {
		result = ""
		if expr, ok := stmt.(*parser.StmtExpression); ok {
			value, err := i.evaluate(ctx, expr.Expression)
			if err != nil {
				return "", err
			}
			result = echo(value)
			continue
		}

		if _, err := i.execute(ctx, stmt); err != nil {
			return "", err
		}
	}

	return result, nil
}

// Globals implements Interpreter.
func (i *interpreter) Globals() *Environment {
	return i.globals
}

func (i *interpreter) execute(ctx context.Context, stmt parser.Stmt) (flow, error) {
	switch s := stmt.(type) {
	case *parser.StmtExpression:
		_, err := i.evaluate(ctx, s.Expression)
		return normalFlow, err
	case *parser.StmtPrint:
		value, err := i.evaluate(ctx, s.Expression)
		if err != nil {
			return normalFlow, err
		}
		_, _ = fmt.Fprintln(i.stdout, value.String())
		return normalFlow, nil
	case *parser.StmtVar:
		var value Value = NilValue
		if s.Initializer != nil {
			var err error
			if value, err = i.evaluate(ctx, s.Initializer); err != nil {
				return normalFlow, err
			}
		}
		i.env.Define(s.Name.Lexeme, value)
		return normalFlow, nil
	case *parser.StmtBlock:
		return i.executeBlock(ctx, s.Statements, i.env.Nest())
	case *parser.StmtIf:
		return i.executeIf(ctx, s)
	case *parser.StmtWhile:
		return i.executeWhile(ctx, s)
	case *parser.StmtFunction:
		i.env.Define(s.Name.Lexeme, NewLoxFunction(s.Name, s.Fn, i.env, false))
		return normalFlow, nil
	case *parser.StmtReturn:
		var value Value = NilValue
		if s.Value != nil {
			var err error
			if value, err = i.evaluate(ctx, s.Value); err != nil {
				return normalFlow, err
			}
		}
		return flow{kind: flowReturn, value: value}, nil
	case *parser.StmtClass:
		return normalFlow, i.executeClass(ctx, s)
	case *parser.StmtBreak:
		return breakFlow, nil
	}

	panic(fmt.Sprintf("unreachable: unknown statement %T", stmt))
}

// executeBlock runs statements in env and restores the previous environment
// on every way out.
func (i *interpreter) executeBlock(ctx context.Context, statements []parser.Stmt, env *Environment) (flow, error) {
	previous := i.env
	i.env = env
	defer func() { i.env = previous }()

	for _, stmt := range statements {
		result, err := i.execute(ctx, stmt)
		if err != nil || result.kind != flowNormal {
			return result, err
		}
	}

	return normalFlow, nil
}

func (i *interpreter) executeIf(ctx context.Context, s *parser.StmtIf) (flow, error) {
	condition, err := i.evaluate(ctx, s.Condition)
	if err != nil {
		return normalFlow, err
	}

	if isTruthy(condition) {
		return i.execute(ctx, s.ThenBranch)
	}
	if s.ElseBranch != nil {
		return i.execute(ctx, s.ElseBranch)
	}
	return normalFlow, nil
}

func (i *interpreter) executeWhile(ctx context.Context, s *parser.StmtWhile) (flow, error) {
	for {
		if err := ctx.Err(); err != nil {
			return normalFlow, loxerrors.NewRuntimeError(s.Keyword, err)
		}

		condition, err := i.evaluate(ctx, s.Condition)
		if err != nil {
			return normalFlow, err
		}
		if !isTruthy(condition) {
			return normalFlow, nil
		}

		result, err := i.execute(ctx, s.Body)
		if err != nil {
			return normalFlow, err
		}
		switch result.kind {
		case flowBreak:
			return normalFlow, nil
		case flowReturn:
			return result, nil
		}
	}
}

func (i *interpreter) executeClass(ctx context.Context, s *parser.StmtClass) error {
	var superClass *LoxClass
	if s.SuperClass != nil {
		value, err := i.evaluate(ctx, s.SuperClass)
		if err != nil {
			return err
		}

		class, ok := value.(*LoxClass)
		if !ok {
			return loxerrors.NewRuntimeError(s.SuperClass.Name, loxerrors.ErrRuntimeSuperClassMustBeClass)
		}
		superClass = class
	}

	i.env.Define(s.Name.Lexeme, NilValue)

	closure := i.env
	if superClass != nil {
		closure = closure.Nest()
		closure.Define("super", superClass)
	}

	methods := make(map[string]*LoxFunction, len(s.Methods))
	for _, method := range s.Methods {
		methods[method.Name.Lexeme] = NewLoxFunction(method.Name, method.Fn, closure, method.Name.Lexeme == initializerName)
	}

	return i.env.Assign(s.Name, NewLoxClass(s.Name.Lexeme, superClass, methods))
}

func (i *interpreter) evaluate(ctx context.Context, expr parser.Expr) (Value, error) {
	switch e := expr.(type) {
	case *parser.ExprLiteral:
		return literalValue(e.Value), nil
	case *parser.ExprGrouping:
		return i.evaluate(ctx, e.Expression)
	case *parser.ExprVariable:
		return i.lookUpVariable(e.Name, e)
	case *parser.ExprAssign:
		return i.evaluateAssign(ctx, e)
	case *parser.ExprUnary:
		return i.evaluateUnary(ctx, e)
	case *parser.ExprBinary:
		return i.evaluateBinary(ctx, e)
	case *parser.ExprLogical:
		return i.evaluateLogical(ctx, e)
	case *parser.ExprCall:
		return i.evaluateCall(ctx, e)
	case *parser.ExprGet:
		return i.evaluateGet(ctx, e)
	case *parser.ExprSet:
		return i.evaluateSet(ctx, e)
	case *parser.ExprThis:
		return i.lookUpVariable(e.Keyword, e)
	case *parser.ExprSuper:
		return i.evaluateSuper(e)
	case *parser.ExprFunction:
		return NewLoxFunction(nil, e, i.env, false), nil
	}

	panic(fmt.Sprintf("unreachable: unknown expression %T", expr))
}

func (i *interpreter) evaluateAssign(ctx context.Context, e *parser.ExprAssign) (Value, error) {
	value, err := i.evaluate(ctx, e.Value)
	if err != nil {
		return nil, err
	}

	if depth, ok := e.Depth(); ok {
		i.env.AssignAt(depth, e.Name, value)
		return value, nil
	}
	if err := i.globals.Assign(e.Name, value); err != nil {
		return nil, err
	}
	return value, nil
}

func (i *interpreter) evaluateUnary(ctx context.Context, e *parser.ExprUnary) (Value, error) {
	right, err := i.evaluate(ctx, e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Operator.Type {
	case token.BANG:
		return ValueBool(!isTruthy(right)), nil
	case token.MINUS:
		if n, ok := right.(ValueNumber); ok {
			return -n, nil
		}
		return nil, operandTypesError(e.Operator, loxerrors.ErrRuntimeOperandMustBeNumber, right)
	}

	panic(fmt.Sprintf("unreachable: unary operator %s", e.Operator.Type))
}

func (i *interpreter) evaluateBinary(ctx context.Context, e *parser.ExprBinary) (Value, error) {
	left, err := i.evaluate(ctx, e.Left)
	if err != nil {
		return nil, err
	}
	right, err := i.evaluate(ctx, e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Operator.Type {
	case token.EQUAL_EQUAL:
		return ValueBool(isEqual(left, right)), nil
	case token.BANG_EQUAL:
		return ValueBool(!isEqual(left, right)), nil
	case token.PLUS:
		switch l := left.(type) {
		case ValueNumber:
			if r, ok := right.(ValueNumber); ok {
				return l + r, nil
			}
		case ValueString:
			if r, ok := right.(ValueString); ok {
				return l + r, nil
			}
		}
		return nil, operandTypesError(e.Operator, loxerrors.ErrRuntimeOperandsMustNumbersOrStrings, left, right)
	}

	l, lok := left.(ValueNumber)
	r, rok := right.(ValueNumber)
	if !lok || !rok {
		return nil, operandTypesError(e.Operator, loxerrors.ErrRuntimeOperandsMustBeNumbers, left, right)
	}

	switch e.Operator.Type {
	case token.MINUS:
		return l - r, nil
	case token.STAR:
		return l * r, nil
	case token.SLASH:
		return l / r, nil
	case token.GREATER:
		return ValueBool(l > r), nil
	case token.GREATER_EQUAL:
		return ValueBool(l >= r), nil
	case token.LESS:
		return ValueBool(l < r), nil
	case token.LESS_EQUAL:
		return ValueBool(l <= r), nil
	}

	panic(fmt.Sprintf("unreachable: binary operator %s", e.Operator.Type))
}

func (i *interpreter) evaluateLogical(ctx context.Context, e *parser.ExprLogical) (Value, error) {
	left, err := i.evaluate(ctx, e.Left)
	if err != nil {
		return nil, err
	}

	if e.Operator.Type == token.OR {
		if isTruthy(left) {
			return left, nil
		}
	} else if !isTruthy(left) {
		return left, nil
	}

	return i.evaluate(ctx, e.Right)
}

func (i *interpreter) evaluateCall(ctx context.Context, e *parser.ExprCall) (Value, error) {
	callee, err := i.evaluate(ctx, e.Callee)
	if err != nil {
		return nil, err
	}

	arguments := make([]Value, 0, len(e.Arguments))
	for _, arg := range e.Arguments {
		value, err := i.evaluate(ctx, arg)
		if err != nil {
			return nil, err
		}
		arguments = append(arguments, value)
	}

	callable, ok := callee.(Callable)
	if !ok {
		return nil, loxerrors.NewRuntimeError(e.Paren, loxerrors.ErrRuntimeCalleeMustBeCallable)
	}
	if arity := callable.Arity(); arity != len(arguments) {
		return nil, loxerrors.NewRuntimeError(e.Paren, loxerrors.ErrRuntimeCalleeArityError(arity, len(arguments)))
	}

	return i.call(ctx, e.Paren, callable, arguments)
}

// call enforces the call depth limit. Errors from natives get the
// location of the call.
func (i *interpreter) call(ctx context.Context, paren *token.Token, callable Callable, arguments []Value) (Value, error) {
	if err := ctx.Err(); err != nil {
		return nil, loxerrors.NewRuntimeError(paren, err)
	}
	if i.callDepth >= i.maxCallDepth {
		return nil, loxerrors.NewRuntimeError(paren, loxerrors.ErrRuntimeStackOverflow)
	}

	i.callDepth++
	defer func() { i.callDepth-- }()

	value, err := callable.Call(ctx, i, arguments)
	if err != nil && !loxerrors.IsRuntime(err) {
		err = loxerrors.NewRuntimeError(paren, err)
	}
	return value, err
}

func (i *interpreter) evaluateGet(ctx context.Context, e *parser.ExprGet) (Value, error) {
	object, err := i.evaluate(ctx, e.Instance)
	if err != nil {
		return nil, err
	}

	instance, ok := object.(*LoxInstance)
	if !ok {
		return nil, loxerrors.NewRuntimeError(e.Name, loxerrors.ErrRuntimeOnlyInstancesHaveProperties)
	}
	return instance.Get(e.Name)
}

func (i *interpreter) evaluateSet(ctx context.Context, e *parser.ExprSet) (Value, error) {
	object, err := i.evaluate(ctx, e.Instance)
	if err != nil {
		return nil, err
	}

	instance, ok := object.(*LoxInstance)
	if !ok {
		return nil, loxerrors.NewRuntimeError(e.Name, loxerrors.ErrRuntimeOnlyInstancesHaveFields)
	}

	value, err := i.evaluate(ctx, e.Value)
	if err != nil {
		return nil, err
	}
	instance.Set(e.Name, value)
	return value, nil
}

// evaluateSuper finds the superclass where the method was declared, not
// where the receiver's class sits, so lookups stay lexical.
func (i *interpreter) evaluateSuper(e *parser.ExprSuper) (Value, error) {
	depth, _ := e.Depth()

	superValue, err := i.env.GetAt(depth, "super")
	if err != nil {
		return nil, loxerrors.NewRuntimeError(e.Keyword, err)
	}
	// this lives in the scope right inside the one holding super.
	thisValue, err := i.env.GetAt(depth-1, "this")
	if err != nil {
		return nil, loxerrors.NewRuntimeError(e.Keyword, err)
	}

	superClass := superValue.(*LoxClass)
	method := superClass.FindMethod(e.Method.Lexeme)
	if method == nil {
		return nil, loxerrors.NewRuntimeError(e.Method, loxerrors.ErrRuntimeUndefinedProperty(e.Method.Lexeme))
	}

	return method.Bind(thisValue.(*LoxInstance)), nil
}

func (i *interpreter) lookUpVariable(name *token.Token, expr parser.Resolvable) (Value, error) {
	if depth, ok := expr.Depth(); ok {
		value, err := i.env.GetAt(depth, name.Lexeme)
		if err != nil {
			return nil, loxerrors.NewRuntimeError(name, err)
		}
		return value, nil
	}

	return i.globals.Get(name)
}

func operandTypesError(operator *token.Token, cause error, operands ...Value) error {
	types := make([]string, 0, len(operands))
	for _, operand := range operands {
		types = append(types, operand.Type().String())
	}
	return loxerrors.NewRuntimeError(operator, loxerrors.ErrRuntimeOperandTypes(cause, operator.Lexeme, types...))
}

var _ Interpreter = (*interpreter)(nil)
