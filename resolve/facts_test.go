package resolve_test

import (
	"testing"

	"github.com/slicelab/winnow/ast"
	"github.com/slicelab/winnow/dfval"
	"github.com/slicelab/winnow/diag"
	"github.com/slicelab/winnow/resolve"
	"github.com/stretchr/testify/assert"
)

func TestLoadFactsDocument(t *testing.T) {
	doc := `
classes:
  - name: Point
    immutable: true
vars:
  p:
    nullability: not-null
    constraint: {exact: Point}
`
	f, err := resolve.LoadFacts([]byte(doc))
	assert.NoError(t, err)
	assert.Len(t, f.Classes, 1)
	assert.Equal(t, "Point", f.Classes[0].Name)
	assert.True(t, f.Classes[0].Immutable)
	assert.Contains(t, f.Vars, "p")
}

func TestLoadFactsEmpty(t *testing.T) {
	f, err := resolve.LoadFacts(nil)
	assert.NoError(t, err)
	assert.Empty(t, f.Classes)
	assert.Empty(t, f.Vars)
}

func TestLoadFactsRejectsUnknownField(t *testing.T) {
	doc := `
vars:
  a:
    nulability: not-null
`
	_, err := resolve.LoadFacts([]byte(doc))
	assert.Error(t, err)
}

func TestDeclareClasses(t *testing.T) {
	doc := `
classes:
  - name: Shape
  - name: Circle
    parents: [Shape]
    immutable: true
`
	f, err := resolve.LoadFacts([]byte(doc))
	assert.NoError(t, err)

	universe := ast.NewUniverse()
	assert.Empty(t, f.DeclareClasses(universe).Errors())

	circle, ok := universe.Class("Circle")
	assert.True(t, ok)
	assert.True(t, circle.Immutable)
	shape, ok := universe.Class("Shape")
	assert.True(t, ok)
	assert.True(t, circle.AssignableTo(shape))
	assert.True(t, circle.AssignableTo(ast.ObjectClass))
}

func TestDeclareClassErrors(t *testing.T) {
	doc := `
classes:
  - name: String
  - name: Broken
    parents: [Nowhere]
`
	f, err := resolve.LoadFacts([]byte(doc))
	assert.NoError(t, err)

	errs := f.DeclareClasses(ast.NewUniverse()).Errors()
	assert.Len(t, errs, 2)
	for _, e := range errs {
		assert.Equal(t, diag.BadFact, e.Code())
	}
}

func TestApplyFacts(t *testing.T) {
	doc := `
vars:
  box:
    nullability: not-null
    constraint:
      instanceof: [CharSequence]
    mutability: immutable
  count:
    range: {min: 0, max: 100}
  label:
    constant: tag
  fresh:
    local: true
  arr:
    constraint:
      exact: "String[]"
`
	f, err := resolve.LoadFacts([]byte(doc))
	assert.NoError(t, err)

	e := testEngine(t, `
let box = null
let count = 0
let label = "x"
let fresh = new Object()
let arr = null
`)
	assert.Empty(t, e.ApplyFacts(f).Errors())

	assert.Equal(t, dfval.Ref{
		Null:       dfval.NotNull,
		Constraint: dfval.InstanceOf(ast.CharSequenceClass),
		Mut:        dfval.Immutable,
	}, e.ResolveValue(use("box")))
	assert.Equal(t, dfval.IntRange{Lo: 0, Hi: 100}, e.ResolveValue(use("count")))
	assert.Equal(t, dfval.Constant{Val: "tag"}, e.ResolveValue(use("label")))
	assert.Equal(t, dfval.Ref{Local: dfval.Local}, e.ResolveValue(use("fresh")))
	assert.Equal(t,
		dfval.Ref{Constraint: dfval.Exactly(&ast.ArrayType{Elem: ast.StringClass})},
		e.ResolveValue(use("arr")))
}

func TestStringConstantMeetsReferenceFacts(t *testing.T) {
	doc := `
vars:
  s:
    constant: hello
    nullability: not-null
    constraint:
      instanceof: [CharSequence]
`
	f, err := resolve.LoadFacts([]byte(doc))
	assert.NoError(t, err)

	e := testEngine(t, `let s = null`)
	assert.Empty(t, e.ApplyFacts(f).Errors())
	assert.Equal(t, dfval.Constant{Val: "hello"}, e.ResolveValue(use("s")))
}

func TestApplyFactErrors(t *testing.T) {
	tests := map[string]string{
		"undeclared variable": `
vars:
  ghost: {nullability: not-null}
`,
		"contradiction": `
vars:
  a: {constant: 5, range: {min: 10, max: 20}}
`,
		"empty range": `
vars:
  a: {range: {min: 3, max: 1}}
`,
		"bad nullability": `
vars:
  a: {nullability: maybe}
`,
		"bad mutability": `
vars:
  a: {mutability: frozen}
`,
		"unknown class in constraint": `
vars:
  a: {constraint: {instanceof: [Nowhere]}}
`,
		"exact primitive": `
vars:
  a: {constraint: {exact: int}}
`,
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			f, err := resolve.LoadFacts([]byte(doc))
			assert.NoError(t, err)
			e := testEngine(t, `let a = 1`)
			errs := e.ApplyFacts(f).Errors()
			assert.Len(t, errs, 1)
			assert.Equal(t, diag.BadFact, errs[0].Code())
		})
	}
}
