package resolve_test

import (
	"math"
	"testing"

	"github.com/slicelab/winnow/ast"
	"github.com/slicelab/winnow/dfval"
	"github.com/slicelab/winnow/diag"
	"github.com/slicelab/winnow/parser"
	"github.com/slicelab/winnow/resolve"
	"github.com/stretchr/testify/assert"
)

// testEngine parses and loads src, failing the test on any diagnostic.
func testEngine(t *testing.T, src string) *resolve.Engine {
	t.Helper()
	universe := ast.NewUniverse()
	file, errs := parser.Parse(src, universe)
	assert.Empty(t, errs.Errors())
	engine := resolve.New(universe)
	assert.Empty(t, engine.Load(file).Errors())
	return engine
}

// initValue resolves the initializer of the named declaration.
func initValue(t *testing.T, e *resolve.Engine, name string) dfval.Value {
	t.Helper()
	decl, ok := e.Decl(name)
	assert.True(t, ok, "no declaration named %s", name)
	return e.ResolveValue(decl.Init)
}

// use builds a detached use site of a declared variable.
func use(name string) *ast.Identifier {
	return &ast.Identifier{Name: name}
}

func TestLiteralValues(t *testing.T) {
	e := testEngine(t, `
let i = 42
let l = 42L
let d = 1.5
let s = "hi"
let c = 'x'
let b = true
let n = null
`)
	assert.Equal(t, dfval.Constant{Val: int64(42), Text: "42"}, initValue(t, e, "i"))
	assert.Equal(t, dfval.Constant{Val: int64(42), Text: "42L"}, initValue(t, e, "l"))
	assert.Equal(t, dfval.Constant{Val: 1.5, Text: "1.5"}, initValue(t, e, "d"))
	assert.Equal(t, dfval.Constant{Val: "hi", Text: `"hi"`}, initValue(t, e, "s"))
	assert.Equal(t, dfval.Constant{Val: int64('x'), Text: "'x'"}, initValue(t, e, "c"))
	assert.Equal(t, dfval.Constant{Val: true, Text: "true"}, initValue(t, e, "b"))
	assert.Equal(t, dfval.Ref{Null: dfval.Null}, initValue(t, e, "n"))
}

func TestNewValues(t *testing.T) {
	e := testEngine(t, `
let s = new String()
let o = new Object()
let arr = new int[3]
`)
	assert.Equal(t, dfval.Ref{
		Null:       dfval.NotNull,
		Constraint: dfval.Exactly(ast.StringClass),
		Local:      dfval.Local,
		Mut:        dfval.Immutable,
	}, initValue(t, e, "s"))
	assert.Equal(t, dfval.Ref{
		Null:       dfval.NotNull,
		Constraint: dfval.Exactly(ast.ObjectClass),
		Local:      dfval.Local,
		Mut:        dfval.Mutable,
	}, initValue(t, e, "o"))
	assert.Equal(t, dfval.Ref{
		Null:       dfval.NotNull,
		Constraint: dfval.Exactly(&ast.ArrayType{Elem: ast.IntType}),
		Local:      dfval.Local,
		Mut:        dfval.Mutable,
	}, initValue(t, e, "arr"))
}

func TestIdentFollowsInit(t *testing.T) {
	e := testEngine(t, `
let a = 41
let b = a
`)
	assert.Equal(t, dfval.Constant{Val: int64(41), Text: "41"}, e.ResolveValue(use("a")))
	assert.Equal(t, dfval.Constant{Val: int64(41), Text: "41"}, initValue(t, e, "b"))
}

func TestIdentTypedFallback(t *testing.T) {
	e := testEngine(t, `
let s: String = "x"
let trimmed: String = s.trim()
let n: int = s.length()
`)
	// the initializers resolve to Top, so only the declared types speak
	assert.Equal(t,
		dfval.Ref{Constraint: dfval.InstanceOf(ast.StringClass)},
		e.ResolveValue(use("trimmed")))
	assert.Equal(t,
		dfval.IntRange{Lo: math.MinInt32, Hi: math.MaxInt32},
		e.ResolveValue(use("n")))
}

func TestFactOverridesInit(t *testing.T) {
	e := testEngine(t, `let a = 100`)
	e.BindVar("a", dfval.NewIntRange(0, 10))
	assert.Equal(t, dfval.IntRange{Lo: 0, Hi: 10}, e.ResolveValue(use("a")))
}

func TestBindExprOverridesSyntax(t *testing.T) {
	e := testEngine(t, `let a = 1 + 2`)
	decl, ok := e.Decl("a")
	assert.True(t, ok)
	sum := decl.Init

	assert.Equal(t, dfval.Constant{Val: int64(3)}, e.ResolveValue(sum))
	e.BindExpr(sum, dfval.NewIntRange(0, 5))
	assert.Equal(t, dfval.IntRange{Lo: 0, Hi: 5}, e.ResolveValue(sum))
}

func TestSnapshotIsolation(t *testing.T) {
	e := testEngine(t, `
let a = 1
let b = 2
`)
	e.BindVar("a", dfval.NewIntRange(0, 5))
	snap := e.Snapshot()
	e.BindVar("a", dfval.NewIntRange(6, 9))
	snap.BindVar("b", dfval.Constant{Val: int64(7)})

	assert.Equal(t, dfval.IntRange{Lo: 6, Hi: 9}, e.ResolveValue(use("a")))
	assert.Equal(t, dfval.IntRange{Lo: 0, Hi: 5}, snap.ResolveValue(use("a")))
	assert.Equal(t, dfval.Constant{Val: int64(2), Text: "2"}, e.ResolveValue(use("b")))
	assert.Equal(t, dfval.Constant{Val: int64(7)}, snap.ResolveValue(use("b")))
}

func TestConstantFolding(t *testing.T) {
	tests := []struct {
		src  string
		want dfval.Value
	}{
		{"1 + 2", dfval.Constant{Val: int64(3)}},
		{"2 * 3 + 1", dfval.Constant{Val: int64(7)}},
		{"7 / 2", dfval.Constant{Val: int64(3)}},
		{"7 % 2", dfval.Constant{Val: int64(1)}},
		{"1 - 2", dfval.Constant{Val: int64(-1)}},
		{"1.5 + 0.25", dfval.Constant{Val: 1.75}},
		{"1 < 2", dfval.Constant{Val: true}},
		{"2 == 3", dfval.Constant{Val: false}},
		{`"a" + "b"`, dfval.Constant{Val: "ab"}},
		{"true && false", dfval.Constant{Val: false}},
		{"false || true", dfval.Constant{Val: true}},
		{"1 / 0", dfval.Top()},
		{"9223372036854775807 + 1", dfval.Top()},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			e := testEngine(t, "let x = "+tt.src)
			assert.Equal(t, tt.want, initValue(t, e, "x"))
		})
	}
}

func TestRangeArithmetic(t *testing.T) {
	e := testEngine(t, `
let a = 1
let sum = a + 10
let diff = a - 10
`)
	e.BindVar("a", dfval.NewIntRange(0, 5))
	assert.Equal(t, dfval.IntRange{Lo: 10, Hi: 15}, initValue(t, e, "sum"))
	assert.Equal(t, dfval.IntRange{Lo: -10, Hi: -5}, initValue(t, e, "diff"))
}

func TestUnaryValues(t *testing.T) {
	e := testEngine(t, `
let neg = -5
let pos = +5
let flip = !true
let comp = ~7
let r = 1
let negR = -r
`)
	e.BindVar("r", dfval.NewIntRange(1, 3))
	assert.Equal(t, dfval.Constant{Val: int64(-5)}, initValue(t, e, "neg"))
	assert.Equal(t, dfval.Constant{Val: int64(5), Text: "5"}, initValue(t, e, "pos"))
	assert.Equal(t, dfval.Constant{Val: false}, initValue(t, e, "flip"))
	assert.Equal(t, dfval.Constant{Val: int64(-8)}, initValue(t, e, "comp"))
	assert.Equal(t, dfval.IntRange{Lo: -3, Hi: -1}, initValue(t, e, "negR"))
}

func TestArrayLength(t *testing.T) {
	e := testEngine(t, `
let arr = new int[3]
let n = arr.length
`)
	assert.Equal(t, dfval.NewIntRange(0, math.MaxInt32), initValue(t, e, "n"))
	decl, ok := e.Decl("n")
	assert.True(t, ok)
	assert.Same(t, ast.IntType, e.StaticType(decl.Init))
}

func TestStaticTypes(t *testing.T) {
	e := testEngine(t, `
let b: byte = 1
let i = 1
let l = 2L
let f = 1.5f
let d = 1.5
let c = 'x'
let flag = true
let s = "hi"
let promoted = b + b
let wide = i + l
let real = i + d
let cmp = i < l
let not = !flag
let concat = s + i
let arr = new byte[2]
let o = new Object()
`)
	types := map[string]ast.Type{
		"i":        ast.IntType,
		"l":        ast.LongType,
		"f":        ast.FloatType,
		"d":        ast.DoubleType,
		"c":        ast.CharType,
		"flag":     ast.BoolType,
		"s":        ast.StringClass,
		"promoted": ast.IntType,
		"wide":     ast.LongType,
		"real":     ast.DoubleType,
		"cmp":      ast.BoolType,
		"not":      ast.BoolType,
		"concat":   ast.StringClass,
		"arr":      &ast.ArrayType{Elem: ast.ByteType},
		"o":        ast.ObjectClass,
	}
	for name, expected := range types {
		t.Run(name, func(t *testing.T) {
			decl, ok := e.Decl(name)
			assert.True(t, ok)
			assert.Equal(t, expected, e.StaticType(decl.Init))
		})
	}

	t.Run("annotation wins over initializer", func(t *testing.T) {
		decl, ok := e.Decl("b")
		assert.True(t, ok)
		assert.Same(t, ast.ByteType, e.StaticType(decl))
		assert.Same(t, ast.IntType, e.StaticType(decl.Init))
	})
}

func TestUnknownElementsResolveTop(t *testing.T) {
	e := testEngine(t, `let s = "a".concat("b")`)
	assert.True(t, dfval.IsTop(initValue(t, e, "s")))
	assert.True(t, dfval.IsTop(e.ResolveValue(nil)))
	assert.True(t, dfval.IsTop(e.ResolveValue(use("missing"))))
}

func TestLoadErrors(t *testing.T) {
	tests := map[string]struct {
		src  string
		code diag.ErrCode
	}{
		"duplicate":         {"let a = 1 let a = 2", diag.DuplicateVariable},
		"undefined":         {"let a = b + 1", diag.UndefinedVariable},
		"self reference":    {"let a = a", diag.UndefinedVariable},
		"forward reference": {"let a = b let b = 1", diag.UndefinedVariable},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			universe := ast.NewUniverse()
			file, errs := parser.Parse(tt.src, universe)
			assert.Empty(t, errs.Errors())
			engine := resolve.New(universe)
			loadErrs := engine.Load(file).Errors()
			assert.Len(t, loadErrs, 1)
			assert.Equal(t, tt.code, loadErrs[0].Code())
		})
	}
}
