package cli

import (
	"fmt"
	"os"

	"github.com/me/schedsim/internal/parser"
	"github.com/me/schedsim/internal/render"
	"github.com/spf13/cobra"
)

func newGraphCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "graph <scenario-file>",
		Short: "Render the task tree as Graphviz DOT",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scn, err := parser.New(logger).ParseFile(args[0])
			if err != nil {
				return err
			}

			out := render.DOT(scn.Root)
			if outPath == "" {
				fmt.Print(out)
				return nil
			}
			if err := os.WriteFile(outPath, []byte(out), 0o644); err != nil {
				return fmt.Errorf("write dot file: %w", err)
			}
			logger.Info("dot file written", "path", outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Write DOT to a file instead of stdout")

	return cmd
}
