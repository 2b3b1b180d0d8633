package dfval

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/slicelab/winnow/ast"
)

func TestPresentation(t *testing.T) {
	u := ast.NewUniverse()
	foo, err := u.Declare("Foo", false)
	assert.NoError(t, err)

	intFull, _ := RangeForType(ast.IntType)

	testCases := []struct {
		name     string
		value    Value
		static   ast.Type
		expected string
	}{
		{
			name:     "top adds nothing",
			value:    Top(),
			static:   ast.IntType,
			expected: "",
		},
		{
			name:     "range inside the type range renders both bounds",
			value:    IntRange{Lo: 0, Hi: 10},
			static:   ast.ByteType,
			expected: "0..10",
		},
		{
			name:     "range covering the whole type adds nothing",
			value:    intFull,
			static:   ast.IntType,
			expected: "",
		},
		{
			name:     "lower bound matching the type is elided",
			value:    IntRange{Lo: -128, Hi: 10},
			static:   ast.ByteType,
			expected: "<= 10",
		},
		{
			name:     "upper bound matching the type is elided",
			value:    IntRange{Lo: 0, Hi: 127},
			static:   ast.ByteType,
			expected: ">= 0",
		},
		{
			name:     "point range renders the single value",
			value:    IntRange{Lo: 5, Hi: 5},
			static:   ast.IntType,
			expected: "5",
		},
		{
			name:     "range without a static type renders plainly",
			value:    IntRange{Lo: 0, Hi: 10},
			static:   nil,
			expected: "0..10",
		},
		{
			name:     "constants render their spelling",
			value:    Constant{Val: int64(31), Text: "0x1F"},
			static:   ast.IntType,
			expected: "0x1F",
		},
		{
			name:     "node constants render their element",
			value:    NodeConstant{Node: &ast.Identifier{Name: "EMPTY"}},
			static:   ast.StringClass,
			expected: "EMPTY",
		},
		{
			name:     "not-null alone",
			value:    Ref{Null: NotNull},
			static:   ast.ObjectClass,
			expected: "not-null",
		},
		{
			name:     "not-null with informative constraint",
			value:    Ref{Null: NotNull, Constraint: InstanceOf(foo)},
			static:   ast.ObjectClass,
			expected: "Foo (not-null)",
		},
		{
			name:     "constraint matching the static type is silent",
			value:    Ref{Null: NotNull, Constraint: InstanceOf(foo)},
			static:   foo,
			expected: "not-null",
		},
		{
			name:     "may be null with informative constraint",
			value:    Ref{Constraint: InstanceOf(foo)},
			static:   ast.ObjectClass,
			expected: "null or Foo",
		},
		{
			name:     "nothing known renders empty",
			value:    Ref{},
			static:   ast.ObjectClass,
			expected: "",
		},
		{
			name:     "definitely null falls back to the debug text",
			value:    Ref{Null: Null},
			static:   ast.ObjectClass,
			expected: "null",
		},
		{
			name:     "scope facts render alongside nullability",
			value:    Ref{Null: NotNull, Local: Local, Mut: Mutable},
			static:   ast.ObjectClass,
			expected: "local mutable (not-null)",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Presentation(tc.value, tc.static))
		})
	}
}
