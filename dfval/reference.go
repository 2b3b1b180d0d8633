package dfval

import (
	"slices"
	"strings"

	"github.com/hashicorp/go-set/v3"
	"github.com/slicelab/winnow/ast"
)

// Nullability is the tri-state null fact of a reference value.
type Nullability uint8

const (
	NullUnknown Nullability = iota
	Null
	NotNull
)

func (n Nullability) String() string {
	switch n {
	case Null:
		return "null"
	case NotNull:
		return "not-null"
	}
	return ""
}

// meetNullability intersects two null facts. ok is false when they
// contradict each other.
func meetNullability(a, b Nullability) (Nullability, bool) {
	switch {
	case a == b:
		return a, true
	case a == NullUnknown:
		return b, true
	case b == NullUnknown:
		return a, true
	}
	return NullUnknown, false
}

// Locality records whether a value is known to be freshly created in the
// scope that observed it.
type Locality uint8

const (
	LocalityUnknown Locality = iota
	Local
)

// Mutability records whether a value is known (im)mutable.
type Mutability uint8

const (
	MutabilityUnknown Mutability = iota
	Mutable
	Immutable
)

func (m Mutability) String() string {
	switch m {
	case Mutable:
		return "mutable"
	case Immutable:
		return "immutable"
	}
	return ""
}

// meetMutability combines two mutability facts. Conflicting facts cancel out
// to unknown instead of contradicting: mutability never makes a value
// infeasible, it only describes access.
func meetMutability(a, b Mutability) Mutability {
	switch {
	case a == b:
		return a
	case a == MutabilityUnknown:
		return b
	case b == MutabilityUnknown:
		return a
	}
	return MutabilityUnknown
}

// TypeConstraint bounds the runtime type of a reference beyond its static
// type: either an exact runtime type, or a conjunction of instanceof upper
// bounds. The zero value is unconstrained.
type TypeConstraint struct {
	exact  ast.Type
	bounds *set.Set[*ast.NamedType]
}

// Exactly returns the constraint of having exactly the runtime type t.
func Exactly(t ast.Type) TypeConstraint {
	return TypeConstraint{exact: t}
}

// InstanceOf returns the conjunction of the given upper bounds.
func InstanceOf(classes ...*ast.NamedType) TypeConstraint {
	return TypeConstraint{bounds: set.From(classes)}
}

// Unconstrained reports whether the constraint admits any runtime type.
func (tc TypeConstraint) Unconstrained() bool {
	return tc.exact == nil && (tc.bounds == nil || tc.bounds.Size() == 0)
}

// Equal reports whether two constraints admit exactly the same types.
func (tc TypeConstraint) Equal(other TypeConstraint) bool {
	if !ast.TypesEqual(tc.exact, other.exact) {
		return false
	}
	return sameBounds(tc.bounds, other.bounds)
}

func sameBounds(a, b *set.Set[*ast.NamedType]) bool {
	sizeA, sizeB := 0, 0
	if a != nil {
		sizeA = a.Size()
	}
	if b != nil {
		sizeB = b.Size()
	}
	if sizeA != sizeB {
		return false
	}
	if sizeA == 0 {
		return true
	}
	for bound := range a.Items() {
		if !b.Contains(bound) {
			return false
		}
	}
	return true
}

func (tc TypeConstraint) String() string {
	if tc.exact != nil {
		return "exactly " + tc.exact.String()
	}
	return strings.Join(tc.boundNames(nil), " & ")
}

// presentationText renders the parts of the constraint not already implied
// by the element's static type, or "" when nothing remains.
func (tc TypeConstraint) presentationText(static ast.Type) string {
	if tc.exact != nil {
		if ast.TypesEqual(tc.exact, static) {
			return ""
		}
		return tc.exact.String()
	}
	return strings.Join(tc.boundNames(static), " & ")
}

// boundNames returns the sorted names of bounds not implied by static.
func (tc TypeConstraint) boundNames(static ast.Type) []string {
	if tc.bounds == nil {
		return nil
	}
	names := make([]string, 0, tc.bounds.Size())
	for bound := range tc.bounds.Items() {
		if static != nil && ast.AssignableTo(static, bound) {
			continue
		}
		names = append(names, bound.Name)
	}
	slices.Sort(names)
	return names
}

// meetConstraint intersects two type constraints. ok is false when no
// runtime type can satisfy both.
func meetConstraint(a, b TypeConstraint) (TypeConstraint, bool) {
	if a.Unconstrained() {
		return b, true
	}
	if b.Unconstrained() {
		return a, true
	}
	if a.exact != nil && b.exact != nil {
		if ast.TypesEqual(a.exact, b.exact) {
			return a, true
		}
		return TypeConstraint{}, false
	}
	if a.exact == nil && b.exact != nil {
		a, b = b, a
	}
	if a.exact != nil {
		// an exact type must satisfy every bound on the other side
		for bound := range b.bounds.Items() {
			if !ast.AssignableTo(a.exact, bound) {
				return TypeConstraint{}, false
			}
		}
		return a, true
	}
	merged := set.New[*ast.NamedType](a.bounds.Size() + b.bounds.Size())
	for bound := range a.bounds.Items() {
		merged.Insert(bound)
	}
	for bound := range b.bounds.Items() {
		merged.Insert(bound)
	}
	return TypeConstraint{bounds: reduceBounds(merged)}, true
}

// reduceBounds drops bounds implied by a strictly tighter bound in the same
// set, so Number & Integer reduces to Integer.
func reduceBounds(bounds *set.Set[*ast.NamedType]) *set.Set[*ast.NamedType] {
	kept := set.New[*ast.NamedType](bounds.Size())
	for bound := range bounds.Items() {
		redundant := false
		for other := range bounds.Items() {
			if other != bound && other.Name != bound.Name && other.AssignableTo(bound) {
				redundant = true
				break
			}
		}
		if !redundant {
			kept.Insert(bound)
		}
	}
	return kept
}

// Ref is the reference-kind abstract value: four independent facts about a
// reference. The zero value carries no information at all.
type Ref struct {
	Null       Nullability
	Constraint TypeConstraint
	Local      Locality
	Mut        Mutability
}

func (r Ref) isValue() {}

func (r Ref) String() string {
	var parts []string
	if s := r.Null.String(); s != "" {
		parts = append(parts, s)
	}
	if s := r.Constraint.String(); s != "" {
		parts = append(parts, s)
	}
	if r.Local == Local {
		parts = append(parts, "local")
	}
	if s := r.Mut.String(); s != "" {
		parts = append(parts, s)
	}
	return strings.Join(parts, " ")
}

// DropLocality returns r with the locality fact reset. Locality only holds
// inside the scope that observed the value, so it must be cleared whenever
// the value is folded into an enclosing filter.
func (r Ref) DropLocality() Ref {
	r.Local = LocalityUnknown
	return r
}

// DropMutability returns r with the mutability fact reset, for the same
// scope-crossing reason as DropLocality.
func (r Ref) DropMutability() Ref {
	r.Mut = MutabilityUnknown
	return r
}

// meetRef meets two references component-wise. Contradictions in nullability
// or in the type constraint make the whole meet infeasible.
func meetRef(a, b Ref) Value {
	null, ok := meetNullability(a.Null, b.Null)
	if !ok {
		return bottomValue
	}
	constraint, ok := meetConstraint(a.Constraint, b.Constraint)
	if !ok {
		return bottomValue
	}
	local := a.Local
	if b.Local == Local {
		local = Local
	}
	return Ref{
		Null:       null,
		Constraint: constraint,
		Local:      local,
		Mut:        meetMutability(a.Mut, b.Mut),
	}
}
