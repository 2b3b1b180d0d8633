package dfval

import (
	"strings"

	"github.com/slicelab/winnow/ast"
)

// Presentation renders the information v adds about an element of the given
// static type, or "" when v adds nothing beyond the type itself. static may
// be nil for elements with no resolvable static type.
func Presentation(v Value, static ast.Type) string {
	switch v := v.(type) {
	case IntRange:
		if full, ok := RangeForType(static); ok && v.Lo <= full.Lo && full.Hi <= v.Hi {
			return ""
		}
		return v.presentation(static)
	case Constant:
		return v.String()
	case NodeConstant:
		return v.String()
	case Ref:
		return refPresentation(v, static)
	}
	return ""
}

func refPresentation(r Ref, static ast.Type) string {
	var parts []string
	if ctext := r.Constraint.presentationText(static); ctext != "" {
		parts = append(parts, ctext)
	}
	if r.Local == Local {
		parts = append(parts, "local")
	}
	if s := r.Mut.String(); s != "" {
		parts = append(parts, s)
	}
	text := strings.Join(parts, " ")

	switch r.Null {
	case NotNull:
		if text == "" {
			return "not-null"
		}
		return text + " (not-null)"
	case Null:
		// definitely null: fall back to the constraint's own debug text
		return r.String()
	}
	if text == "" {
		return ""
	}
	return "null or " + text
}
