package diag

import (
	"fmt"
	"go/token"
	"runtime/debug"
	"strings"

	"github.com/slicelab/winnow/ast"
)

// enableDebugErrorPrinting makes diagnostics include a stacktrace line when printed
const enableDebugErrorPrinting bool = false
const enableDebugFullStacktrace bool = false

type ErrCode int

const (
	None ErrCode = iota
	Syntax
	UnknownType
	UndefinedVariable
	DuplicateVariable
	BadFact
)

// Diagnostic is an error anchored to a source position.
type Diagnostic interface {
	Error() string
	Code() ErrCode
	ast.Positioner

	withStack([]byte) Diagnostic
	getStack() []byte
}

func FormatWithCode(d Diagnostic) string {
	if enableDebugErrorPrinting && d.getStack() != nil {
		stack := string(d.getStack())
		if !enableDebugFullStacktrace {
			lines := strings.Split(stack, "\n")
			if len(lines) > 6 {
				stack = lines[6]
			}
		}
		return fmt.Sprintf("%s:(E%03d) %s", stack, d.Code(), d.Error())
	}
	return fmt.Sprintf("(E%03d) %s", d.Code(), d.Error())
}

// FormatWithSource prefixes the diagnostic with its line:column position
// computed against the source text it was parsed from.
func FormatWithSource(d Diagnostic, src string) string {
	line, col := 1, 1
	for i := 0; i < len(src) && token.Pos(i) < d.Pos(); i++ {
		if src[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return fmt.Sprintf("%d:%d: %s", line, col, FormatWithCode(d))
}

func New[D Diagnostic](d D) Diagnostic {
	return d.withStack(debug.Stack())
}

type Unclassified struct {
	From error
	ast.Positioner
	stack []byte
}

func (e Unclassified) Error() string {
	return fmt.Sprintf("unclassified error: %v", e.From)
}
func (e Unclassified) Code() ErrCode    { return None }
func (e Unclassified) getStack() []byte { return e.stack }
func (e Unclassified) withStack(stack []byte) Diagnostic {
	e.stack = stack
	return e
}

type NewSyntax struct {
	ast.Positioner
	ParserMessage string
	stack         []byte
}

func (e NewSyntax) Error() string {
	return e.ParserMessage
}
func (e NewSyntax) Code() ErrCode    { return Syntax }
func (e NewSyntax) getStack() []byte { return e.stack }
func (e NewSyntax) withStack(stack []byte) Diagnostic {
	e.stack = stack
	return e
}

type NewUnknownType struct {
	ast.Positioner
	Name  string
	stack []byte
}

func (e NewUnknownType) Error() string {
	return fmt.Sprintf("unknown type '%s'", e.Name)
}
func (e NewUnknownType) Code() ErrCode    { return UnknownType }
func (e NewUnknownType) getStack() []byte { return e.stack }
func (e NewUnknownType) withStack(stack []byte) Diagnostic {
	e.stack = stack
	return e
}

type NewUndefinedVariable struct {
	ast.Positioner
	Name  string
	stack []byte
}

func (e NewUndefinedVariable) Error() string {
	return fmt.Sprintf("undefined variable '%s'", e.Name)
}
func (e NewUndefinedVariable) Code() ErrCode    { return UndefinedVariable }
func (e NewUndefinedVariable) getStack() []byte { return e.stack }
func (e NewUndefinedVariable) withStack(stack []byte) Diagnostic {
	e.stack = stack
	return e
}

type NewDuplicateVariable struct {
	ast.Positioner
	Name  string
	stack []byte
}

func (e NewDuplicateVariable) Error() string {
	return fmt.Sprintf("variable '%s' is already declared", e.Name)
}
func (e NewDuplicateVariable) Code() ErrCode    { return DuplicateVariable }
func (e NewDuplicateVariable) getStack() []byte { return e.stack }
func (e NewDuplicateVariable) withStack(stack []byte) Diagnostic {
	e.stack = stack
	return e
}

type NewBadFact struct {
	ast.Positioner
	Name   string
	Reason string
	stack  []byte
}

func (e NewBadFact) Error() string {
	return fmt.Sprintf("bad fact for '%s': %s", e.Name, e.Reason)
}
func (e NewBadFact) Code() ErrCode    { return BadFact }
func (e NewBadFact) getStack() []byte { return e.stack }
func (e NewBadFact) withStack(stack []byte) Diagnostic {
	e.stack = stack
	return e
}
