package parser

import (
	"github.com/slicelab/winnow/ast"
	"github.com/slicelab/winnow/diag"
	"github.com/slicelab/winnow/internal/log"
)

var logger = log.DefaultLogger.With("section", "parser")

// Parse parses source text into a file of variable declarations. Class
// names in type annotations and new-expressions are resolved against
// universe as they are parsed.
//
// The returned file contains every declaration that parsed cleanly, so
// callers can keep working with a partial program when the errors are
// non-empty.
func Parse(src string, universe *ast.Universe) (*ast.File, *diag.Errors) {
	toks, errs := lex(src)
	p := &parser{
		toks:     toks,
		universe: universe,
		errs:     errs,
	}
	file := p.parseFile()
	logger.Debug("parsed source", "decls", len(file.Decls), "errors", len(p.errs.Errors()))
	return file, p.errs
}
