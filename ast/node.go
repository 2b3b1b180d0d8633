package ast

import (
	"encoding/binary"
	"fmt"
	"go/token"
	"hash/fnv"
)

// Positioner locates a node in the original source text.
type Positioner interface {
	Pos() token.Pos // offset of the first character belonging to the node
	End() token.Pos // offset of the first character immediately after the node
}

// Range is a span of source offsets. Every node embeds one so that facts and
// diagnostics can be anchored back to the source.
type Range struct {
	PosStart token.Pos
	PosEnd   token.Pos
}

// Pos returns the starting position of the range.
func (r Range) Pos() token.Pos { return r.PosStart }

// End returns the ending position of the range.
func (r Range) End() token.Pos { return r.PosEnd }

// String returns a string representation of the range.
func (r Range) String() string {
	if r.PosStart == r.PosEnd {
		return fmt.Sprintf("%v", r.PosStart)
	}
	return fmt.Sprintf("%v-%v", r.PosStart, r.PosEnd)
}

// Hash returns a hash value for the Range.
func (r Range) Hash() uint64 {
	h := fnv.New64a()
	var arr []byte
	arr = binary.LittleEndian.AppendUint64(arr, uint64(r.PosStart))
	arr = binary.LittleEndian.AppendUint64(arr, uint64(r.PosEnd))
	_, _ = h.Write(arr)
	return h.Sum64()
}

// RangeOf creates a Range from a Positioner.
func RangeOf(p Positioner) Range {
	if p == nil {
		return Range{}
	}
	if asRange, ok := p.(Range); ok {
		return asRange
	}
	return Range{p.Pos(), p.End()}
}

// RangeBetween creates a Range spanning from the start of fst to the end of snd.
func RangeBetween(fst, snd Positioner) Range {
	return Range{fst.Pos(), snd.End()}
}

// Node is the base interface for all AST nodes.
type Node interface {
	Positioner
	Hash() uint64
}

// Expr is the interface for all expression nodes in the AST.
type Expr interface {
	Node
	exprNode() // Marker method to distinguish expressions
}

// Stmt is the interface for all statement nodes in the AST.
type Stmt interface {
	Node
	stmtNode() // Marker method to distinguish statements
}

// File is a parsed source file: a flat sequence of variable declarations.
type File struct {
	Range
	Name  string
	Decls []*VarDecl
}

// Hash returns a hash value for the File, based on its structural characteristics
func (f *File) Hash() uint64 {
	h := fnv.New64a()
	arr := []byte("File")
	_, _ = h.Write([]byte(f.Name))
	arr = binary.LittleEndian.AppendUint64(arr, f.Range.Hash())

	for _, decl := range f.Decls {
		arr = binary.LittleEndian.AppendUint64(arr, decl.Hash())
	}

	_, _ = h.Write(arr)
	return h.Sum64()
}

// VarDecl is a single `let` declaration. TypeAnn may be nil, in which case
// the static type of the variable is inferred from Init.
type VarDecl struct {
	Range
	Name    string
	TypeAnn Type // Optional type annotation
	Init    Expr
}

func (d *VarDecl) stmtNode() {}

// Hash returns a hash value for the VarDecl, based on its structural characteristics
func (d *VarDecl) Hash() uint64 {
	h := fnv.New64a()
	arr := []byte("VarDecl")
	_, _ = h.Write([]byte(d.Name))
	arr = binary.LittleEndian.AppendUint64(arr, d.Range.Hash())

	if d.TypeAnn != nil {
		_, _ = h.Write([]byte(d.TypeAnn.String()))
	}

	if d.Init != nil {
		arr = binary.LittleEndian.AppendUint64(arr, d.Init.Hash())
	}

	_, _ = h.Write(arr)
	return h.Sum64()
}

var (
	_ Node = (*File)(nil)
	_ Stmt = (*VarDecl)(nil)
)
