package cli

import (
	"fmt"
	"os"

	"github.com/me/schedsim/internal/parser"
	"github.com/me/schedsim/internal/render"
	"github.com/spf13/cobra"
)

func newTreeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tree <scenario-file>",
		Short: "Print the scenario's task tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scn, err := parser.New(logger).ParseFile(args[0])
			if err != nil {
				return err
			}

			fmt.Printf("%s (%d tasks, %d processors)\n",
				scn.Source, scn.Root.Count(), scn.Processors)
			render.Text(os.Stdout, scn.Root)
			return nil
		},
	}
}
