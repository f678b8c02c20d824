package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/me/schedsim/internal/engine"
	"github.com/me/schedsim/internal/parser"
	"github.com/me/schedsim/pkg/model"
	"github.com/spf13/cobra"
)

func newCompareCmd() *cobra.Command {
	var procs int
	var record bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "compare <scenario-file>",
		Short: "Schedule a scenario under both policies and report the winner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scn, err := parser.New(logger).ParseFile(args[0])
			if err != nil {
				return err
			}
			if procs > 0 {
				scn.Processors = procs
			}

			report, err := engine.Compare(scn)
			if err != nil {
				return err
			}

			if asJSON {
				out, err := json.MarshalIndent(report, "", "  ")
				if err != nil {
					return fmt.Errorf("encode report: %w", err)
				}
				fmt.Println(string(out))
			} else {
				printComparisonReport(report)
			}

			if record {
				return recordComparison(cmd, report)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&procs, "procs", 0, "Override the scenario's processor count")
	cmd.Flags().BoolVar(&record, "record", false, "Record the comparison in the local database")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")

	return cmd
}

func printComparisonReport(r *model.ComparisonReport) {
	fmt.Printf("Source:       %s\n", r.Source)
	fmt.Printf("Processors:   %d\n", r.Processors)
	fmt.Printf("Tasks:        %d (tasks/processor %.2f)\n", r.TaskCount, r.TasksPerProcessor)
	fmt.Printf("Durations:    sum %d, mean %.2f\n", r.TotalDuration, r.MeanDuration)
	fmt.Printf("Ascending:    makespan %d\n", r.AscendingMakespan)
	fmt.Printf("Descending:   makespan %d\n", r.DescendingMakespan)
	fmt.Printf("Best policy:  %s\n", r.BestPolicy)
}

// recordComparison persists a comparison report in the local database.
func recordComparison(cmd *cobra.Command, report *model.ComparisonReport) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	raw, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	run := &model.Run{
		ID:         "run_" + uuid.New().String(),
		Source:     report.Source,
		Kind:       model.RunKindCompare,
		Processors: report.Processors,
		TaskCount:  report.TaskCount,
		Verdict:    report.BestPolicy.String(),
		Makespan:   min(report.AscendingMakespan, report.DescendingMakespan),
		Report:     raw,
		CreatedAt:  time.Now().UTC(),
	}
	if err := st.CreateRun(cmd.Context(), run); err != nil {
		return fmt.Errorf("record comparison: %w", err)
	}
	logger.Info("comparison recorded", "id", run.ID, "source", run.Source)
	return nil
}
