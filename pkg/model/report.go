package model

// Result is the raw outcome of one scheduling simulation.
type Result struct {
	// Makespan is the total elapsed simulated time.
	Makespan int `json:"makespan"`
	// Order lists task names in completion order; every task appears
	// exactly once, after its parent.
	Order []string `json:"order"`
}

// RunReport summarizes a single scheduling run for reporting collaborators.
type RunReport struct {
	Source            string   `json:"source"`
	Processors        int      `json:"processors"`
	Policy            Policy   `json:"policy"`
	TaskCount         int      `json:"task_count"`
	TotalDuration     int      `json:"total_duration"`
	Makespan          int      `json:"makespan"`
	TasksPerProcessor float64  `json:"tasks_per_processor"` // rounded to 2 decimals
	MeanDuration      float64  `json:"mean_duration"`       // rounded to 2 decimals
	Order             []string `json:"order"`
}

// ComparisonReport summarizes running both policies on the same scenario.
type ComparisonReport struct {
	Source             string  `json:"source"`
	Processors         int     `json:"processors"`
	TaskCount          int     `json:"task_count"`
	TotalDuration      int     `json:"total_duration"`
	TasksPerProcessor  float64 `json:"tasks_per_processor"` // rounded to 2 decimals
	MeanDuration       float64 `json:"mean_duration"`       // rounded to 2 decimals
	AscendingMakespan  int     `json:"ascending_makespan"`
	DescendingMakespan int     `json:"descending_makespan"`
	// BestPolicy names the policy with the lower makespan, or TIE.
	BestPolicy Verdict `json:"best_policy"`
}
