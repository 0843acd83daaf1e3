package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/loxlang/golox/internal/parser"
	"github.com/loxlang/golox/internal/token"
)

func TestAstPrinter(t *testing.T) {
	var tree parser.Expr = &parser.ExprBinary{
		Left: &parser.ExprUnary{
			Operator: token.NewTokenHeap(token.MINUS, "-", nil, 1),
			Right: &parser.ExprLiteral{
				Value: 123.0,
			},
		},
		Operator: token.NewTokenHeap(token.STAR, "*", nil, 1),
		Right: &parser.ExprGrouping{
			Expression: &parser.ExprLiteral{
				Value: 45.67,
			},
		}}

	p := parser.NewAstPrinter()
	out := p.Print(tree)
	assert.Equal(t, "(* (- 123) (group 45.67))", out)
}
