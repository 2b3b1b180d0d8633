package ast

import (
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExprString(t *testing.T) {
	testCases := []struct {
		name     string
		expr     Expr
		expected string
	}{
		{
			name:     "literal renders its source text",
			expr:     &Literal{Kind: IntLit, Text: "0x1F", Val: int64(31)},
			expected: "0x1F",
		},
		{
			name:     "identifier",
			expr:     &Identifier{Name: "count"},
			expected: "count",
		},
		{
			name: "unary minus",
			expr: &UnaryExpr{
				Operator: token.SUB,
				Operand:  &Literal{Kind: IntLit, Text: "5", Val: int64(5)},
			},
			expected: "-5",
		},
		{
			name: "unary complement spells tilde",
			expr: &UnaryExpr{
				Operator: token.XOR,
				Operand:  &Identifier{Name: "mask"},
			},
			expected: "~mask",
		},
		{
			name: "nested binary operands are parenthesized",
			expr: &BinaryExpr{
				Left: &BinaryExpr{
					Left:     &Identifier{Name: "a"},
					Operator: token.ADD,
					Right:    &Identifier{Name: "b"},
				},
				Operator: token.MUL,
				Right:    &Identifier{Name: "c"},
			},
			expected: "(a + b) * c",
		},
		{
			name: "method call on selection",
			expr: &CallExpr{
				Function: &SelectExpr{X: &Identifier{Name: "s"}, Sel: "trim"},
				Args:     []Expr{&Literal{Kind: IntLit, Text: "1", Val: int64(1)}},
			},
			expected: "s.trim(1)",
		},
		{
			name: "object creation",
			expr: &NewExpr{
				Class: StringClass,
				Args:  []Expr{&Identifier{Name: "chars"}},
			},
			expected: "new String(chars)",
		},
		{
			name: "sized array creation",
			expr: &NewArrayExpr{
				Elem:   IntType,
				Length: &Literal{Kind: IntLit, Text: "3", Val: int64(3)},
			},
			expected: "new int[3]",
		},
		{
			name: "array creation with initializer",
			expr: &NewArrayExpr{
				Elem: IntType,
				Elems: []Expr{
					&Literal{Kind: IntLit, Text: "1", Val: int64(1)},
					&Literal{Kind: IntLit, Text: "2", Val: int64(2)},
				},
			},
			expected: "new int[] {1, 2}",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ExprString(tc.expr))
		})
	}
}

func TestHashDependsOnPosition(t *testing.T) {
	first := &Literal{Range: Range{PosStart: 0, PosEnd: 2}, Kind: IntLit, Text: "42", Val: int64(42)}
	second := &Literal{Range: Range{PosStart: 10, PosEnd: 12}, Kind: IntLit, Text: "42", Val: int64(42)}
	same := &Literal{Range: Range{PosStart: 0, PosEnd: 2}, Kind: IntLit, Text: "42", Val: int64(42)}

	assert.Equal(t, first.Hash(), same.Hash(), "structurally identical nodes hash alike")
	assert.NotEqual(t, first.Hash(), second.Hash(), "the same text at another offset is a distinct occurrence")

	asIdent := &Identifier{Range: Range{PosStart: 0, PosEnd: 2}, Name: "42"}
	assert.NotEqual(t, first.Hash(), asIdent.Hash(), "node kind participates in the hash")
}

func TestChildren(t *testing.T) {
	x := &Identifier{Name: "x"}
	y := &Identifier{Name: "y"}
	f := &SelectExpr{X: x, Sel: "f"}

	testCases := []struct {
		name     string
		expr     Expr
		expected []Expr
	}{
		{name: "literal has no children", expr: &Literal{Kind: IntLit, Text: "1", Val: int64(1)}, expected: nil},
		{name: "identifier has no children", expr: x, expected: nil},
		{name: "unary", expr: &UnaryExpr{Operator: token.SUB, Operand: x}, expected: []Expr{x}},
		{name: "binary", expr: &BinaryExpr{Left: x, Operator: token.ADD, Right: y}, expected: []Expr{x, y}},
		{name: "call includes function and args", expr: &CallExpr{Function: f, Args: []Expr{y}}, expected: []Expr{f, y}},
		{name: "selection", expr: f, expected: []Expr{x}},
		{name: "object creation", expr: &NewExpr{Class: ObjectClass, Args: []Expr{x, y}}, expected: []Expr{x, y}},
		{name: "sized array creation", expr: &NewArrayExpr{Elem: IntType, Length: x}, expected: []Expr{x}},
		{name: "array initializer", expr: &NewArrayExpr{Elem: IntType, Elems: []Expr{x, y}}, expected: []Expr{x, y}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Children(tc.expr))
		})
	}
}
