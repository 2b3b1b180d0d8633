// Package resolve implements the value resolver behind the filter package:
// a syntax-directed engine that gives every element of a parsed program a
// static type and an abstract value, refined by externally supplied facts.
//
// The engine is deliberately flow-insensitive. Declarations in the demo
// language are single-assignment, so following an initializer is exact; a
// real data-flow analysis stays an external concern and enters only through
// the fact store.
package resolve

import (
	"go/token"
	"math"

	"github.com/benbjohnson/immutable"
	"github.com/slicelab/winnow/ast"
	"github.com/slicelab/winnow/dfval"
	"github.com/slicelab/winnow/diag"
	"github.com/slicelab/winnow/filter"
	"github.com/slicelab/winnow/internal/log"
)

var logger = ast.ExprLogger(log.DefaultLogger).With("section", "resolve")

// factKey identifies an expression occurrence across engine snapshots by
// position and structural hash.
type factKey struct {
	rng  ast.Range
	hash uint64
}

func keyOf(expr ast.Expr) factKey {
	return factKey{rng: ast.RangeOf(expr), hash: expr.Hash()}
}

// factKeyHasher adapts factKey for immutable maps.
type factKeyHasher struct{}

func (factKeyHasher) Hash(k factKey) uint32 {
	h := k.hash ^ uint64(k.rng.PosStart)<<17 ^ uint64(k.rng.PosEnd)
	return uint32(h ^ h>>32)
}

func (factKeyHasher) Equal(a, b factKey) bool { return a == b }

// Engine resolves values and static types for one loaded program.
type Engine struct {
	universe *ast.Universe
	decls    map[string]*ast.VarDecl

	// varFacts and exprFacts hold externally supplied refinements, keyed by
	// variable name and by expression occurrence. Both maps are persistent,
	// so snapshots share them instead of copying.
	varFacts  *immutable.Map[string, dfval.Value]
	exprFacts *immutable.Map[factKey, dfval.Value]
}

var _ filter.Resolver = (*Engine)(nil)

func New(universe *ast.Universe) *Engine {
	return &Engine{
		universe:  universe,
		decls:     map[string]*ast.VarDecl{},
		varFacts:  immutable.NewMap[string, dfval.Value](immutable.NewHasher("")),
		exprFacts: immutable.NewMap[factKey, dfval.Value](factKeyHasher{}),
	}
}

// Load indexes the file's declarations. Names must be unique, and an
// initializer may only mention names declared before it, which also rules
// out reference cycles.
func (e *Engine) Load(file *ast.File) *diag.Errors {
	var errs *diag.Errors
	for _, decl := range file.Decls {
		if _, dup := e.decls[decl.Name]; dup {
			errs = errs.With(diag.New(diag.NewDuplicateVariable{Positioner: decl, Name: decl.Name}))
			continue
		}
		for _, id := range undefinedIn(decl.Init, e.decls) {
			errs = errs.With(diag.New(diag.NewUndefinedVariable{Positioner: id, Name: id.Name}))
		}
		e.decls[decl.Name] = decl
	}
	logger.Debug("loaded declarations", "count", len(e.decls), "errors", len(errs.Errors()))
	return errs
}

// undefinedIn collects identifier uses in expr that are not in decls.
func undefinedIn(expr ast.Expr, decls map[string]*ast.VarDecl) []*ast.Identifier {
	var undef []*ast.Identifier
	var walk func(ast.Expr)
	walk = func(x ast.Expr) {
		if id, ok := x.(*ast.Identifier); ok {
			if _, known := decls[id.Name]; !known {
				undef = append(undef, id)
			}
			return
		}
		for _, child := range ast.Children(x) {
			walk(child)
		}
	}
	walk(expr)
	return undef
}

// Decl returns the declaration of name, if any.
func (e *Engine) Decl(name string) (*ast.VarDecl, bool) {
	decl, ok := e.decls[name]
	return decl, ok
}

// BindVar records an externally supplied fact about a declared variable.
func (e *Engine) BindVar(name string, v dfval.Value) {
	e.varFacts = e.varFacts.Set(name, v)
}

// BindExpr records a fact about one specific expression occurrence.
func (e *Engine) BindExpr(expr ast.Expr, v dfval.Value) {
	e.exprFacts = e.exprFacts.Set(keyOf(expr), v)
	logger.Debug("bound expression fact", "expr", expr, "value", v)
}

// Snapshot returns an engine sharing this one's facts; later Binds on
// either side stay invisible to the other. The declaration index is shared.
func (e *Engine) Snapshot() *Engine {
	snap := *e
	return &snap
}

// ResolveValue returns the abstract value inferred for el. Elements the
// engine cannot classify resolve to Top, never to an error.
func (e *Engine) ResolveValue(el ast.Expr) dfval.Value {
	if el == nil {
		return dfval.Top()
	}
	if v, ok := e.exprFacts.Get(keyOf(el)); ok {
		return v
	}
	switch el := el.(type) {
	case *ast.Literal:
		return literalValue(el)
	case *ast.Identifier:
		return e.VarValue(el.Name)
	case *ast.UnaryExpr:
		return unaryValue(el.Operator, e.ResolveValue(el.Operand))
	case *ast.BinaryExpr:
		return binaryValue(el.Operator, e.ResolveValue(el.Left), e.ResolveValue(el.Right))
	case *ast.NewExpr:
		mut := dfval.Mutable
		if el.Class.Immutable {
			mut = dfval.Immutable
		}
		return dfval.Ref{
			Null:       dfval.NotNull,
			Constraint: dfval.Exactly(el.Class),
			Local:      dfval.Local,
			Mut:        mut,
		}
	case *ast.NewArrayExpr:
		return dfval.Ref{
			Null:       dfval.NotNull,
			Constraint: dfval.Exactly(&ast.ArrayType{Elem: el.Elem}),
			Local:      dfval.Local,
			Mut:        dfval.Mutable,
		}
	case *ast.SelectExpr:
		return e.selectValue(el)
	}
	return dfval.Top()
}

func literalValue(lit *ast.Literal) dfval.Value {
	if lit.Kind == ast.NullLit {
		return dfval.Ref{Null: dfval.Null}
	}
	return dfval.Constant{Val: lit.Val, Text: lit.Text}
}

// VarValue returns the abstract value of the named variable: its bound fact
// when one exists, otherwise what its initializer implies.
func (e *Engine) VarValue(name string) dfval.Value {
	if v, ok := e.varFacts.Get(name); ok {
		return v
	}
	decl, ok := e.decls[name]
	if !ok {
		return dfval.Top()
	}
	v := e.ResolveValue(decl.Init)
	if dfval.IsTop(v) {
		// nothing inferable from the initializer: fall back to what the
		// declared type alone promises
		return dfval.TypedObject(e.declType(decl), dfval.NullUnknown)
	}
	return v
}

// selectValue knows the one builtin member fact: an array's length is a
// non-negative int.
func (e *Engine) selectValue(sel *ast.SelectExpr) dfval.Value {
	if sel.Sel == "length" {
		if _, isArr := e.StaticType(sel.X).(*ast.ArrayType); isArr {
			return dfval.NewIntRange(0, math.MaxInt32)
		}
	}
	return dfval.Top()
}

func unaryValue(op token.Token, v dfval.Value) dfval.Value {
	switch op {
	case token.ADD:
		switch v.(type) {
		case dfval.Constant, dfval.IntRange:
			return v
		}
	case token.SUB:
		switch v := v.(type) {
		case dfval.Constant:
			switch n := v.Val.(type) {
			case int64:
				if n != math.MinInt64 {
					return dfval.Constant{Val: -n}
				}
			case float64:
				return dfval.Constant{Val: -n}
			}
		case dfval.IntRange:
			if v.Lo != math.MinInt64 {
				return dfval.NewIntRange(-v.Hi, -v.Lo)
			}
		}
	case token.XOR:
		switch v := v.(type) {
		case dfval.Constant:
			if n, ok := v.Val.(int64); ok {
				return dfval.Constant{Val: ^n}
			}
		case dfval.IntRange:
			// ^n = -n-1 reverses order and never overflows
			return dfval.NewIntRange(^v.Hi, ^v.Lo)
		}
	case token.NOT:
		if k, ok := v.(dfval.Constant); ok {
			if b, ok := k.Val.(bool); ok {
				return dfval.Constant{Val: !b}
			}
		}
	}
	return dfval.Top()
}

func binaryValue(op token.Token, a, b dfval.Value) dfval.Value {
	ka, aConst := a.(dfval.Constant)
	kb, bConst := b.(dfval.Constant)
	if aConst && bConst {
		if v := foldConstants(op, ka.Val, kb.Val); v != nil {
			return dfval.Constant{Val: v}
		}
		return dfval.Top()
	}
	// a point constant still participates in range arithmetic
	ra, aRanged := asRange(a)
	rb, bRanged := asRange(b)
	if aRanged && bRanged {
		switch op {
		case token.ADD:
			return rangeSpan(addChecked(ra.Lo, rb.Lo), addChecked(ra.Hi, rb.Hi))
		case token.SUB:
			return rangeSpan(subChecked(ra.Lo, rb.Hi), subChecked(ra.Hi, rb.Lo))
		}
	}
	return dfval.Top()
}

func asRange(v dfval.Value) (dfval.IntRange, bool) {
	switch v := v.(type) {
	case dfval.IntRange:
		return v, true
	case dfval.Constant:
		if n, ok := v.Val.(int64); ok {
			return dfval.IntRange{Lo: n, Hi: n}, true
		}
	}
	return dfval.IntRange{}, false
}

// rangeSpan builds the range [lo, hi], degrading to Top when either bound
// overflowed.
func rangeSpan(lo checked, hi checked) dfval.Value {
	if !lo.ok || !hi.ok {
		return dfval.Top()
	}
	return dfval.NewIntRange(lo.n, hi.n)
}

type checked struct {
	n  int64
	ok bool
}

func addChecked(a, b int64) checked {
	s := a + b
	if (a > 0 && b > 0 && s < 0) || (a < 0 && b < 0 && s >= 0) {
		return checked{}
	}
	return checked{n: s, ok: true}
}

func subChecked(a, b int64) checked {
	s := a - b
	if (b > 0 && s > a) || (b < 0 && s < a) {
		return checked{}
	}
	return checked{n: s, ok: true}
}

func mulChecked(a, b int64) checked {
	switch {
	case a == 0 || b == 0:
		return checked{n: 0, ok: true}
	case a == 1:
		return checked{n: b, ok: true}
	case b == 1:
		return checked{n: a, ok: true}
	case a == math.MinInt64 || b == math.MinInt64:
		return checked{}
	}
	p := a * b
	if p/b != a {
		return checked{}
	}
	return checked{n: p, ok: true}
}

// foldConstants computes op over two constant payloads, or nil when the
// combination is not foldable.
func foldConstants(op token.Token, a, b any) any {
	switch a := a.(type) {
	case int64:
		bi, ok := b.(int64)
		if !ok {
			return nil
		}
		switch op {
		case token.ADD:
			if s := addChecked(a, bi); s.ok {
				return s.n
			}
		case token.SUB:
			if s := subChecked(a, bi); s.ok {
				return s.n
			}
		case token.MUL:
			if p := mulChecked(a, bi); p.ok {
				return p.n
			}
		case token.QUO:
			if bi != 0 && !(a == math.MinInt64 && bi == -1) {
				return a / bi
			}
		case token.REM:
			if bi != 0 && !(a == math.MinInt64 && bi == -1) {
				return a % bi
			}
		case token.EQL:
			return a == bi
		case token.NEQ:
			return a != bi
		case token.LSS:
			return a < bi
		case token.LEQ:
			return a <= bi
		case token.GTR:
			return a > bi
		case token.GEQ:
			return a >= bi
		}
	case float64:
		bf, ok := b.(float64)
		if !ok {
			return nil
		}
		switch op {
		case token.ADD:
			return a + bf
		case token.SUB:
			return a - bf
		case token.MUL:
			return a * bf
		case token.QUO:
			return a / bf
		case token.EQL:
			return a == bf
		case token.NEQ:
			return a != bf
		case token.LSS:
			return a < bf
		case token.LEQ:
			return a <= bf
		case token.GTR:
			return a > bf
		case token.GEQ:
			return a >= bf
		}
	case bool:
		bb, ok := b.(bool)
		if !ok {
			return nil
		}
		switch op {
		case token.LAND:
			return a && bb
		case token.LOR:
			return a || bb
		case token.EQL:
			return a == bb
		case token.NEQ:
			return a != bb
		}
	case string:
		bs, ok := b.(string)
		if ok && op == token.ADD {
			return a + bs
		}
	}
	return nil
}

// StaticType returns the static type of a program element: expressions by
// syntax, variable declarations by annotation or initializer. nil means the
// element has no resolvable type.
func (e *Engine) StaticType(node ast.Node) ast.Type {
	switch node := node.(type) {
	case *ast.VarDecl:
		return e.declType(node)
	case *ast.Literal:
		return literalType(node)
	case *ast.Identifier:
		if decl, ok := e.decls[node.Name]; ok {
			return e.declType(decl)
		}
	case *ast.UnaryExpr:
		if node.Operator == token.NOT {
			return ast.BoolType
		}
		return ast.UnaryPromoted(e.StaticType(node.Operand))
	case *ast.BinaryExpr:
		return e.binaryType(node)
	case *ast.NewExpr:
		return node.Class
	case *ast.NewArrayExpr:
		return &ast.ArrayType{Elem: node.Elem}
	case *ast.SelectExpr:
		if node.Sel == "length" {
			if _, isArr := e.StaticType(node.X).(*ast.ArrayType); isArr {
				return ast.IntType
			}
		}
	}
	return nil
}

func (e *Engine) declType(decl *ast.VarDecl) ast.Type {
	if decl.TypeAnn != nil {
		return decl.TypeAnn
	}
	return e.StaticType(decl.Init)
}

func literalType(lit *ast.Literal) ast.Type {
	switch lit.Kind {
	case ast.IntLit:
		return ast.IntType
	case ast.LongLit:
		return ast.LongType
	case ast.FloatLit:
		return ast.FloatType
	case ast.DoubleLit:
		return ast.DoubleType
	case ast.CharLit:
		return ast.CharType
	case ast.BoolLit:
		return ast.BoolType
	case ast.StringLit:
		return ast.StringClass
	}
	// the null literal has no type of its own
	return nil
}

func (e *Engine) binaryType(bin *ast.BinaryExpr) ast.Type {
	switch bin.Operator {
	case token.LAND, token.LOR, token.EQL, token.NEQ,
		token.LSS, token.LEQ, token.GTR, token.GEQ:
		return ast.BoolType
	}
	left := e.StaticType(bin.Left)
	right := e.StaticType(bin.Right)
	if bin.Operator == token.ADD &&
		(ast.TypesEqual(left, ast.StringClass) || ast.TypesEqual(right, ast.StringClass)) {
		// string concatenation
		return ast.StringClass
	}
	return ast.BinaryPromoted(left, right)
}
