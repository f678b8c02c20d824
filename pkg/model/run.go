package model

import (
	"encoding/json"
	"time"
)

// RunKind distinguishes recorded single-policy runs from policy comparisons.
type RunKind string

const (
	RunKindSingle  RunKind = "run"
	RunKindCompare RunKind = "compare"
)

// Run is a recorded simulation stored by the persistence layer.
//
// For single runs, Policy and Makespan are set. For comparisons, Verdict is
// set and Makespan holds the winning (lower) makespan. Report carries the
// full RunReport or ComparisonReport as JSON.
type Run struct {
	ID         string          `json:"id"`
	Source     string          `json:"source"`
	Kind       RunKind         `json:"kind"`
	Processors int             `json:"processors"`
	TaskCount  int             `json:"task_count"`
	Policy     string          `json:"policy,omitempty"`
	Verdict    string          `json:"verdict,omitempty"`
	Makespan   int             `json:"makespan"`
	Report     json.RawMessage `json:"report"`
	CreatedAt  time.Time       `json:"created_at"`
}
