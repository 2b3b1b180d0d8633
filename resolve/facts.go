package resolve

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"maps"
	"math"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/slicelab/winnow/ast"
	"github.com/slicelab/winnow/dfval"
	"github.com/slicelab/winnow/diag"
)

// FactsFile is a decoded facts document: extra classes for the universe and
// per-variable refinements standing in for what a data-flow analysis would
// have published.
//
//	classes:
//	  - name: Point
//	    parents: [Object]
//	    immutable: false
//	vars:
//	  origin:
//	    nullability: not-null
//	    constraint: {exact: Point}
//	  count:
//	    range: {min: 0, max: 100}
type FactsFile struct {
	Classes []ClassFact        `yaml:"classes"`
	Vars    map[string]VarFact `yaml:"vars"`
}

type ClassFact struct {
	Name      string   `yaml:"name"`
	Parents   []string `yaml:"parents"`
	Immutable bool     `yaml:"immutable"`
}

// VarFact is one variable's refinements. Every field is optional; the ones
// present are met into a single abstract value.
type VarFact struct {
	Nullability string          `yaml:"nullability"`
	Range       *RangeFact      `yaml:"range"`
	Constant    any             `yaml:"constant"`
	Constraint  *ConstraintFact `yaml:"constraint"`
	Local       bool            `yaml:"local"`
	Mutability  string          `yaml:"mutability"`
}

type RangeFact struct {
	Min int64 `yaml:"min"`
	Max int64 `yaml:"max"`
}

// ConstraintFact bounds a variable's runtime type: exactly one type, or a
// conjunction of instanceof upper bounds.
type ConstraintFact struct {
	Exact      string   `yaml:"exact"`
	InstanceOf []string `yaml:"instanceof"`
}

// LoadFacts decodes a facts document. Unknown fields are rejected, so a
// misspelled fact fails loudly instead of silently binding nothing.
func LoadFacts(data []byte) (*FactsFile, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var f FactsFile
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &FactsFile{}, nil
		}
		return nil, fmt.Errorf("decoding facts: %w", err)
	}
	return &f, nil
}

// DeclareClasses interns the document's classes into the universe. It runs
// before parsing, so the program can name the declared classes.
func (f *FactsFile) DeclareClasses(u *ast.Universe) *diag.Errors {
	var errs *diag.Errors
	for _, class := range f.Classes {
		if class.Name == "" {
			errs = errs.With(diag.New(diag.NewBadFact{
				Positioner: ast.Range{}, Name: "classes", Reason: "class entry has no name",
			}))
			continue
		}
		if _, err := u.Declare(class.Name, class.Immutable, class.Parents...); err != nil {
			errs = errs.With(diag.New(diag.NewBadFact{
				Positioner: ast.Range{}, Name: class.Name, Reason: err.Error(),
			}))
		}
	}
	return errs
}

// ApplyFacts binds the document's variable facts. The program must already
// be loaded, so each fact can be checked against a declaration.
func (e *Engine) ApplyFacts(f *FactsFile) *diag.Errors {
	var errs *diag.Errors
	for _, name := range slices.Sorted(maps.Keys(f.Vars)) {
		if _, declared := e.decls[name]; !declared {
			errs = errs.With(badFact(name, "variable is not declared"))
			continue
		}
		v, err := factValue(e.universe, f.Vars[name])
		if err != nil {
			errs = errs.With(badFact(name, err.Error()))
			continue
		}
		if dfval.IsTop(v) {
			continue
		}
		e.BindVar(name, v)
		logger.Debug("bound fact", "var", name, "value", v)
	}
	return errs
}

func badFact(name, reason string) diag.Diagnostic {
	return diag.New(diag.NewBadFact{Positioner: ast.Range{}, Name: name, Reason: reason})
}

// factValue meets a fact entry's components into one value.
func factValue(u *ast.Universe, f VarFact) (dfval.Value, error) {
	v := dfval.Top()
	if f.Constant != nil {
		k, err := constantValue(f.Constant)
		if err != nil {
			return nil, err
		}
		v = dfval.Meet(v, k)
	}
	if f.Range != nil {
		r := dfval.NewIntRange(f.Range.Min, f.Range.Max)
		if dfval.IsBottom(r) {
			return nil, fmt.Errorf("range %d..%d is empty", f.Range.Min, f.Range.Max)
		}
		v = dfval.Meet(v, r)
	}
	ref, hasRef, err := refValue(u, f)
	if err != nil {
		return nil, err
	}
	if hasRef {
		v = dfval.Meet(v, ref)
	}
	if dfval.IsBottom(v) {
		return nil, errors.New("facts contradict each other")
	}
	return v, nil
}

func refValue(u *ast.Universe, f VarFact) (dfval.Value, bool, error) {
	var ref dfval.Ref
	has := false
	switch f.Nullability {
	case "":
	case "null":
		ref.Null = dfval.Null
		has = true
	case "not-null":
		ref.Null = dfval.NotNull
		has = true
	default:
		return nil, false, fmt.Errorf("nullability must be 'null' or 'not-null', not '%s'", f.Nullability)
	}
	if f.Constraint != nil {
		tc, err := constraintOf(u, f.Constraint)
		if err != nil {
			return nil, false, err
		}
		ref.Constraint = tc
		has = true
	}
	if f.Local {
		ref.Local = dfval.Local
		has = true
	}
	switch f.Mutability {
	case "":
	case "mutable":
		ref.Mut = dfval.Mutable
		has = true
	case "immutable":
		ref.Mut = dfval.Immutable
		has = true
	default:
		return nil, false, fmt.Errorf("mutability must be 'mutable' or 'immutable', not '%s'", f.Mutability)
	}
	return ref, has, nil
}

func constraintOf(u *ast.Universe, c *ConstraintFact) (dfval.TypeConstraint, error) {
	if c.Exact != "" && len(c.InstanceOf) > 0 {
		return dfval.TypeConstraint{}, errors.New("constraint cannot be both exact and instanceof")
	}
	if c.Exact != "" {
		t, ok := typeByName(u, c.Exact)
		if !ok {
			return dfval.TypeConstraint{}, fmt.Errorf("unknown type '%s'", c.Exact)
		}
		if !ast.IsReference(t) {
			return dfval.TypeConstraint{}, fmt.Errorf("'%s' is not a reference type", c.Exact)
		}
		return dfval.Exactly(t), nil
	}
	bounds := make([]*ast.NamedType, 0, len(c.InstanceOf))
	for _, name := range c.InstanceOf {
		class, ok := u.Class(name)
		if !ok {
			return dfval.TypeConstraint{}, fmt.Errorf("unknown class '%s'", name)
		}
		bounds = append(bounds, class)
	}
	return dfval.InstanceOf(bounds...), nil
}

// constantValue normalizes a decoded YAML scalar into a constant payload.
func constantValue(raw any) (dfval.Value, error) {
	switch val := raw.(type) {
	case int:
		return dfval.Constant{Val: int64(val)}, nil
	case int64:
		return dfval.Constant{Val: val}, nil
	case uint64:
		if val > math.MaxInt64 {
			return nil, fmt.Errorf("constant %d does not fit a long", val)
		}
		return dfval.Constant{Val: int64(val)}, nil
	case float64:
		return dfval.Constant{Val: val}, nil
	case bool:
		return dfval.Constant{Val: val}, nil
	case string:
		return dfval.Constant{Val: val}, nil
	}
	return nil, fmt.Errorf("constant must be a scalar, not %T", raw)
}

// typeByName resolves a spelled type, including [] array suffixes.
func typeByName(u *ast.Universe, name string) (ast.Type, bool) {
	dims := 0
	for strings.HasSuffix(name, "[]") {
		name = strings.TrimSuffix(name, "[]")
		dims++
	}
	var t ast.Type
	if prim, ok := ast.PrimitiveByName(name); ok {
		t = prim
	} else if class, ok := u.Class(name); ok {
		t = class
	} else {
		return nil, false
	}
	for ; dims > 0; dims-- {
		t = &ast.ArrayType{Elem: t}
	}
	return t, true
}
