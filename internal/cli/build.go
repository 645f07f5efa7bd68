package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var buildOut string

var buildCmd = &cobra.Command{
	Use:   "build <file>",
	Short: "Evaluate a component file to its VirtualDomDocument and print it as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := loadFile(args[0])
		if err != nil {
			return err
		}

		out := struct {
			Nodes  interface{} `json:"nodes"`
			Styles interface{} `json:"styles"`
		}{Nodes: l.document.Nodes, Styles: l.styles}

		encoded, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding %s: %w", args[0], err)
		}

		if buildOut == "" {
			fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
			return nil
		}
		return os.WriteFile(buildOut, encoded, 0o644)
	},
}

func init() {
	buildCmd.Flags().StringVarP(&buildOut, "out", "o", "", "write output to a file instead of stdout")
}
