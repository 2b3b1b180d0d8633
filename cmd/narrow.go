package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/slicelab/winnow/ast"
	"github.com/slicelab/winnow/filter"
	"github.com/slicelab/winnow/internal/log"
	"github.com/spf13/cobra"
)

var NarrowCmd = &cobra.Command{
	Use:          "narrow file.wn --select variable",
	Short:        "Walk the program with a filter seeded from one variable's value",
	RunE:         runNarrow,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
}

var (
	narrowSelection *string
	narrowFactsPath *string
	narrowLogLevel  *int
)

func init() {
	narrowSelection = NarrowCmd.Flags().StringP("select", "s", "", "variable whose value seeds the filter")
	narrowFactsPath = NarrowCmd.Flags().StringP("facts", "f", "", "facts file refining the program's values")
	narrowLogLevel = NarrowCmd.Flags().IntP("log-level", "l", int(slog.LevelError), "log level")
	_ = NarrowCmd.MarkFlagRequired("select")
}

func runNarrow(cmd *cobra.Command, args []string) error {
	log.SetLevel(slog.Level(*narrowLogLevel))

	engine, file, err := loadProgram(args[0], *narrowFactsPath)
	if err != nil {
		return err
	}
	name := *narrowSelection
	if _, ok := engine.Decl(name); !ok {
		return fmt.Errorf("no declaration named '%s'", name)
	}
	seed := engine.VarValue(name)
	chain := filter.New(engine, seed)

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s = %s\n", name, seed)
	for _, decl := range file.Decls {
		fmt.Fprintf(w, "let %s\n", decl.Name)
		walkNarrow(w, chain, decl.Init, 1)
	}
	return nil
}

// walkNarrow descends an expression tree the way a slice traversal would:
// the filter narrows along the spine, while call arguments are explored in
// a pushed scope that does not constrain the rest of the walk.
func walkNarrow(w io.Writer, chain *filter.Chain, el ast.Expr, depth int) {
	indent := strings.Repeat("  ", depth)
	if !chain.Admit(el) {
		fmt.Fprintf(w, "%spruned %s\n", indent, ast.ExprString(el))
		return
	}
	next := chain.Narrow(el)
	line := ast.ExprString(el)
	if note := next.Describe(el); note != "" {
		line = fmt.Sprintf("%s  [%s]", line, note)
	}
	fmt.Fprintf(w, "%s%s\n", indent, line)

	if call, ok := el.(*ast.CallExpr); ok {
		walkNarrow(w, next, call.Function, depth+1)
		scope := next
		for _, arg := range call.Args {
			scope = scope.Push()
			walkNarrow(w, scope, arg, depth+1)
			scope = scope.Pop()
		}
		return
	}
	for _, child := range ast.Children(el) {
		walkNarrow(w, next, child, depth+1)
	}
}
