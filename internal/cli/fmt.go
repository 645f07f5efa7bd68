package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/paperclip-lang/paperclip/internal/parser"
	"github.com/paperclip-lang/paperclip/internal/printer"
)

var fmtWrite bool

var fmtCmd = &cobra.Command{
	Use:   "fmt <file>",
	Short: "Reformat a component file in canonical style",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		source, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		doc, err := parser.Parse(path, string(source))
		if err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}

		formatted := printer.Print(doc)
		if !fmtWrite {
			fmt.Fprint(cmd.OutOrStdout(), formatted)
			return nil
		}
		return os.WriteFile(path, []byte(formatted), 0o644)
	},
}

func init() {
	fmtCmd.Flags().BoolVarP(&fmtWrite, "write", "w", false, "write the reformatted source back to the file")
}
