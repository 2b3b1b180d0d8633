package filter

import (
	"github.com/slicelab/winnow/ast"
	"github.com/slicelab/winnow/dfval"
)

// Resolver supplies the statically inferred facts a chain consumes. The
// resolve package implements it for whole programs; tests substitute fixed
// tables.
type Resolver interface {
	// ResolveValue returns the abstract value inferred for el. Elements the
	// resolver cannot classify resolve to Top.
	ResolveValue(el ast.Expr) dfval.Value

	// StaticType returns the static type of an expression or declaration,
	// or nil when it has none.
	StaticType(node ast.Node) ast.Type
}
