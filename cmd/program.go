// Package cmd implements the winnow subcommands.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/slicelab/winnow/ast"
	"github.com/slicelab/winnow/diag"
	"github.com/slicelab/winnow/parser"
	"github.com/slicelab/winnow/resolve"
)

// loadProgram reads and parses a source file and loads it into a fresh
// engine, applying a facts file when one is given. Accumulated diagnostics
// are flattened into the returned error.
func loadProgram(srcPath, factsPath string) (*resolve.Engine, *ast.File, error) {
	facts := &resolve.FactsFile{}
	if factsPath != "" {
		data, err := os.ReadFile(factsPath)
		if err != nil {
			return nil, nil, fmt.Errorf("could not read facts file: %w", err)
		}
		facts, err = resolve.LoadFacts(data)
		if err != nil {
			return nil, nil, err
		}
	}
	src, err := os.ReadFile(srcPath)
	if err != nil {
		return nil, nil, fmt.Errorf("could not read program: %w", err)
	}

	// classes from the facts file must exist before parsing, so the program
	// can name them
	universe := ast.NewUniverse()
	errs := facts.DeclareClasses(universe)

	file, parseErrs := parser.Parse(string(src), universe)
	errs = errs.Merge(parseErrs)

	engine := resolve.New(universe)
	errs = errs.Merge(engine.Load(file))
	errs = errs.Merge(engine.ApplyFacts(facts))

	if errs.HasError() {
		return nil, nil, diagsError(errs, string(src))
	}
	return engine, file, nil
}

func diagsError(errs *diag.Errors, src string) error {
	sb := &strings.Builder{}
	for _, d := range errs.Errors() {
		sb.WriteString("\n")
		sb.WriteString(diag.FormatWithSource(d, src))
	}
	return fmt.Errorf("problems found:%s", sb.String())
}
