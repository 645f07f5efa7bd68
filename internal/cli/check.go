package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paperclip-lang/paperclip/internal/validator"
)

var checkCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Parse, evaluate, and validate a component file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := loadFile(args[0])
		if err != nil {
			return err
		}

		warnings := validator.Validate(l.document, true)
		hasError := false
		for _, w := range warnings {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s", w.Level, w.Message)
			if w.SemanticID != "" {
				fmt.Fprintf(cmd.OutOrStdout(), " (%s)", w.SemanticID)
			}
			fmt.Fprintln(cmd.OutOrStdout())
			if w.Level == validator.LevelError {
				hasError = true
			}
		}
		if hasError {
			return fmt.Errorf("validation failed for %s", args[0])
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", args[0])
		return nil
	},
}
