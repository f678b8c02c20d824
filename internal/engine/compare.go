package engine

import (
	"fmt"
	"math"

	"github.com/me/schedsim/pkg/model"
)

// BuildRunReport assembles the report record for a single scheduling run.
func BuildRunReport(scn *model.Scenario, policy model.Policy, res *model.Result) *model.RunReport {
	count := scn.Root.Count()
	sum := scn.Root.TotalDuration()

	return &model.RunReport{
		Source:            scn.Source,
		Processors:        scn.Processors,
		Policy:            policy,
		TaskCount:         count,
		TotalDuration:     sum,
		Makespan:          res.Makespan,
		TasksPerProcessor: round2(float64(count) / float64(scn.Processors)),
		MeanDuration:      round2(mean(sum, count)),
		Order:             res.Order,
	}
}

// Compare runs the scenario under both policies and reports summary
// statistics plus the winning policy. A lower makespan is better; equal
// makespans are a tie. Compare is a pure function of the scenario; each run
// allocates its own simulation state.
func Compare(scn *model.Scenario) (*model.ComparisonReport, error) {
	asc, err := Schedule(scn.Root, scn.Processors, model.PolicyAscending)
	if err != nil {
		return nil, fmt.Errorf("ascending run: %w", err)
	}
	desc, err := Schedule(scn.Root, scn.Processors, model.PolicyDescending)
	if err != nil {
		return nil, fmt.Errorf("descending run: %w", err)
	}

	verdict := model.VerdictTie
	switch {
	case asc.Makespan > desc.Makespan:
		verdict = model.VerdictDescending
	case desc.Makespan > asc.Makespan:
		verdict = model.VerdictAscending
	}

	count := scn.Root.Count()
	sum := scn.Root.TotalDuration()

	return &model.ComparisonReport{
		Source:             scn.Source,
		Processors:         scn.Processors,
		TaskCount:          count,
		TotalDuration:      sum,
		TasksPerProcessor:  round2(float64(count) / float64(scn.Processors)),
		MeanDuration:       round2(mean(sum, count)),
		AscendingMakespan:  asc.Makespan,
		DescendingMakespan: desc.Makespan,
		BestPolicy:         verdict,
	}, nil
}

func mean(sum, count int) float64 {
	if count == 0 {
		return 0
	}
	return float64(sum) / float64(count)
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
