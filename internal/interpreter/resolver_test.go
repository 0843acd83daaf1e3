package interpreter_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loxlang/golox/internal/interpreter"
	"github.com/loxlang/golox/internal/loxerrors"
	"github.com/loxlang/golox/internal/parser"
	"github.com/loxlang/golox/internal/scanner"
)

func TestResolveErrors(t *testing.T) {
	t.Parallel()

	testcases := []struct {
		name string
		in   string
		errs []string
	}{
		{name: `self reference`, in: `{ var a = a; }`, errs: []string{`[line 1] Error at 'a': Can't read local variable in its own initializer.`}},
		{name: `top level return`, in: `return;`, errs: []string{`[line 1] Error at 'return': Can't return from top-level code.`}},
		{name: `init returns value`, in: `class A { init() { return 1; } }`, errs: []string{`[line 1] Error at 'return': Can't return a value from an initializer.`}},
		{name: `this outside class`, in: `print this;`, errs: []string{`[line 1] Error at 'this': Can't use 'this' outside of a class.`}},
		{name: `this in function`, in: `fun f() { return this; }`, errs: []string{`[line 1] Error at 'this': Can't use 'this' outside of a class.`}},
		{name: `super outside class`, in: `super.x;`, errs: []string{`[line 1] Error at 'super': Can't use 'super' outside of a class.`}},
		{name: `super without superclass`, in: `class A { f() { super.f(); } }`, errs: []string{`[line 1] Error at 'super': Can't use 'super' in a class with no superclass.`}},
		{name: `duplicate local`, in: `{ var a; var a; }`, errs: []string{`[line 1] Error at 'a': Already a variable with this name in this scope.`}},
		{name: `duplicate param`, in: `fun f(a, a) {}`, errs: []string{`[line 1] Error at 'a': Already a variable with this name in this scope.`}},
		{name: `inherit from itself`, in: `class A < A {}`, errs: []string{`[line 1] Error at 'A': A class can't inherit from itself.`}},
		{
			name: `all errors reported`,
			in:   "return 1;\n{ var b = b; }\nprint this;",
			errs: []string{
				`[line 1] Error at 'return': Can't return from top-level code.`,
				`[line 2] Error at 'b': Can't read local variable in its own initializer.`,
				`[line 3] Error at 'this': Can't use 'this' outside of a class.`,
			},
		},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := interpreter.NewResolver().Resolve(context.TODO(), parseOnly(t, tc.in))

			var got []string
			for _, e := range loxerrors.Unjoin(err) {
				assert.True(t, loxerrors.IsStatic(e))
				got = append(got, e.Error())
			}
			assert.Equal(t, tc.errs, got)
		})
	}
}

func TestResolveAllowsGlobalRedeclaration(t *testing.T) {
	t.Parallel()

	err := interpreter.NewResolver().Resolve(context.TODO(), parseOnly(t, `var a = 1; var a = a; fun f() { return; }`))
	assert.NoError(t, err)
}

func TestResolveBindsDepth(t *testing.T) {
	t.Parallel()

	stmts := parseOnly(t, `var g; { var a = 1; { print a; print g; } }`)
	resolver := interpreter.NewResolver()
	require.NoError(t, resolver.Resolve(context.TODO(), stmts))

	local, global := printedVariables(t, stmts)
	depth, ok := local.Depth()
	assert.True(t, ok)
	assert.Equal(t, 1, depth)

	_, ok = global.Depth()
	assert.False(t, ok)

	// A second pass over the same tree binds the same depths.
	require.NotPanics(t, func() {
		require.NoError(t, resolver.Resolve(context.TODO(), stmts))
	})
	depth, ok = local.Depth()
	assert.True(t, ok)
	assert.Equal(t, 1, depth)
}

func TestResolveStopsWhenCancelled(t *testing.T) {
	t.Parallel()

	script := `var g; { var a = 1; { print a; print g; } }`

	t.Run("before start", func(t *testing.T) {
		t.Parallel()
		stmts := parseOnly(t, script)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := interpreter.NewResolver().Resolve(ctx, stmts)
		assert.ErrorIs(t, err, context.Canceled)
		local, _ := printedVariables(t, stmts)
		_, ok := local.Depth()
		assert.False(t, ok)
	})

	t.Run("between statements", func(t *testing.T) {
		t.Parallel()
		stmts := parseOnly(t, script)

		// Done once both top level statements have started.
		ctx := &cancelAfterChecks{Context: context.Background(), left: 2}

		err := interpreter.NewResolver().Resolve(ctx, stmts)
		assert.ErrorIs(t, err, context.Canceled)
		local, _ := printedVariables(t, stmts)
		_, ok := local.Depth()
		assert.False(t, ok)
	})
}

type cancelAfterChecks struct {
	context.Context
	left int
}

func (c *cancelAfterChecks) Err() error {
	if c.left == 0 {
		return context.Canceled
	}
	c.left--
	return nil
}

func printedVariables(t *testing.T, stmts []parser.Stmt) (*parser.ExprVariable, *parser.ExprVariable) {
	t.Helper()

	outer, ok := stmts[1].(*parser.StmtBlock)
	require.True(t, ok)
	inner, ok := outer.Statements[1].(*parser.StmtBlock)
	require.True(t, ok)

	var vars []*parser.ExprVariable
	for _, stmt := range inner.Statements {
		ps, ok := stmt.(*parser.StmtPrint)
		require.True(t, ok)
		v, ok := ps.Expression.(*parser.ExprVariable)
		require.True(t, ok)
		vars = append(vars, v)
	}
	require.Len(t, vars, 2)

	return vars[0], vars[1]
}

func parseOnly(t *testing.T, script string) []parser.Stmt {
	t.Helper()

	tokens, err := scanner.NewScanner(script).Scan()
	require.NoError(t, err)
	stmts, err := parser.NewParser(tokens).Parse()
	require.NoError(t, err)

	return stmts
}
