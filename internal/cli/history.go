package cli

import (
	"fmt"

	"github.com/me/schedsim/pkg/model"
	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	var limit int
	var kind string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			opts := model.DefaultListOptions()
			opts.Limit = limit
			opts.Kind = kind
			runs, total, err := st.ListRuns(cmd.Context(), opts)
			if err != nil {
				return fmt.Errorf("list runs: %w", err)
			}

			if total == 0 {
				fmt.Println("No recorded runs.")
				return nil
			}

			fmt.Printf("%d recorded run(s), showing %d:\n", total, len(runs))
			for _, run := range runs {
				detail := run.Policy
				if run.Kind == model.RunKindCompare {
					detail = "best=" + run.Verdict
				}
				fmt.Printf("  %s  %-19s %-8s procs=%-3d tasks=%-4d makespan=%-6d %s\n",
					run.CreatedAt.Format("2006-01-02 15:04:05"), run.Source,
					run.Kind, run.Processors, run.TaskCount, run.Makespan, detail)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to show")
	cmd.Flags().StringVar(&kind, "kind", "", "Filter by kind (run or compare)")

	return cmd
}
