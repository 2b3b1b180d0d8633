package cmd

import (
	"fmt"
	"log/slog"

	"github.com/slicelab/winnow/dfval"
	"github.com/slicelab/winnow/internal/log"
	"github.com/spf13/cobra"
)

var CheckCmd = &cobra.Command{
	Use:          "check file.wn",
	Short:        "Show the static type and abstract value of every declaration",
	RunE:         runCheck,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
}

var (
	checkFactsPath *string
	checkLogLevel  *int
)

func init() {
	checkFactsPath = CheckCmd.Flags().StringP("facts", "f", "", "facts file refining the program's values")
	checkLogLevel = CheckCmd.Flags().IntP("log-level", "l", int(slog.LevelError), "log level")
}

func runCheck(cmd *cobra.Command, args []string) error {
	log.SetLevel(slog.Level(*checkLogLevel))

	engine, file, err := loadProgram(args[0], *checkFactsPath)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	for _, decl := range file.Decls {
		static := engine.StaticType(decl)
		typeText := "?"
		if static != nil {
			typeText = static.String()
		}
		v := engine.VarValue(decl.Name)
		line := fmt.Sprintf("%s: %s = %s", decl.Name, typeText, v)
		if shown := dfval.Presentation(v, static); shown != "" && shown != v.String() {
			line = fmt.Sprintf("%s  [%s]", line, shown)
		}
		fmt.Fprintln(w, line)
	}
	return nil
}
