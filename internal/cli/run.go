package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/me/schedsim/internal/engine"
	"github.com/me/schedsim/internal/parser"
	"github.com/me/schedsim/pkg/model"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	var policyFlag string
	var procs int
	var record bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "run <scenario-file>",
		Short: "Schedule a scenario under one policy and print the report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scn, err := parser.New(logger).ParseFile(args[0])
			if err != nil {
				return err
			}
			if procs > 0 {
				scn.Processors = procs
			}

			policy, err := model.ParsePolicy(policyFlag)
			if err != nil {
				return err
			}

			res, err := engine.Schedule(scn.Root, scn.Processors, policy)
			if err != nil {
				return err
			}
			report := engine.BuildRunReport(scn, policy, res)

			if asJSON {
				out, err := json.MarshalIndent(report, "", "  ")
				if err != nil {
					return fmt.Errorf("encode report: %w", err)
				}
				fmt.Println(string(out))
			} else {
				printRunReport(report)
			}

			if record {
				return recordRun(cmd, report)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&policyFlag, "policy", "ascending", "Priority policy (ascending/min or descending/max)")
	cmd.Flags().IntVar(&procs, "procs", 0, "Override the scenario's processor count")
	cmd.Flags().BoolVar(&record, "record", false, "Record the run in the local database")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")

	return cmd
}

func printRunReport(r *model.RunReport) {
	fmt.Printf("Source:       %s\n", r.Source)
	fmt.Printf("Processors:   %d\n", r.Processors)
	fmt.Printf("Policy:       %s\n", r.Policy)
	fmt.Printf("Tasks:        %d (tasks/processor %.2f)\n", r.TaskCount, r.TasksPerProcessor)
	fmt.Printf("Durations:    sum %d, mean %.2f\n", r.TotalDuration, r.MeanDuration)
	fmt.Printf("Makespan:     %d\n", r.Makespan)
	fmt.Printf("Order:        %s\n", strings.Join(r.Order, " -> "))
}

// recordRun persists a single-policy run report in the local database.
func recordRun(cmd *cobra.Command, report *model.RunReport) error {
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
		Kind:       model.RunKindSingle,
		Processors: report.Processors,
		TaskCount:  report.TaskCount,
		Policy:     report.Policy.String(),
		Makespan:   report.Makespan,
		Report:     raw,
		CreatedAt:  time.Now().UTC(),
	}
	if err := st.CreateRun(cmd.Context(), run); err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	logger.Info("run recorded", "id", run.ID, "source", run.Source)
	return nil
}
