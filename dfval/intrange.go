package dfval

import (
	"fmt"
	"math"
	"strconv"

	"github.com/slicelab/winnow/ast"
)

// IntRange is the set of integers between Lo and Hi, both inclusive.
// Lo <= Hi always holds; use NewIntRange to normalize empty ranges.
type IntRange struct {
	Lo, Hi int64
}

func (r IntRange) isValue() {}

func (r IntRange) String() string {
	if r.Lo == r.Hi {
		return strconv.FormatInt(r.Lo, 10)
	}
	return fmt.Sprintf("%d..%d", r.Lo, r.Hi)
}

// Contains reports whether n is inside the range.
func (r IntRange) Contains(n int64) bool {
	return r.Lo <= n && n <= r.Hi
}

// NewIntRange returns the range [lo, hi], or Bottom when it is empty.
func NewIntRange(lo, hi int64) Value {
	if lo > hi {
		return bottomValue
	}
	return IntRange{Lo: lo, Hi: hi}
}

// RangeForType returns the full range of values of an integral primitive
// type. ok is false for any other static type, including nil.
func RangeForType(t ast.Type) (IntRange, bool) {
	p, isPrim := t.(*ast.PrimitiveType)
	if !isPrim {
		return IntRange{}, false
	}
	switch p.Kind {
	case ast.Byte:
		return IntRange{math.MinInt8, math.MaxInt8}, true
	case ast.Short:
		return IntRange{math.MinInt16, math.MaxInt16}, true
	case ast.Char:
		return IntRange{0, 65535}, true
	case ast.Int:
		return IntRange{math.MinInt32, math.MaxInt32}, true
	case ast.Long:
		return IntRange{math.MinInt64, math.MaxInt64}, true
	}
	return IntRange{}, false
}

// presentation renders the range for an element of the given static type,
// eliding a bound that coincides with a bound of the type's own full range.
func (r IntRange) presentation(static ast.Type) string {
	if r.Lo == r.Hi {
		return strconv.FormatInt(r.Lo, 10)
	}
	if full, ok := RangeForType(static); ok {
		if r.Lo <= full.Lo && r.Hi < full.Hi {
			return "<= " + strconv.FormatInt(r.Hi, 10)
		}
		if r.Hi >= full.Hi && r.Lo > full.Lo {
			return ">= " + strconv.FormatInt(r.Lo, 10)
		}
	}
	return fmt.Sprintf("%d..%d", r.Lo, r.Hi)
}
