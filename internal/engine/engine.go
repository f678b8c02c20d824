// Package engine implements non-preemptive greedy list scheduling of a task
// tree over a fixed number of identical processors, using a time-jump
// (discrete-event) simulation: time advances directly to the next completion
// instead of stepping one unit at a time.
package engine

import (
	"fmt"
	"sort"

	"github.com/me/schedsim/pkg/model"
)

// slot is an occupied processor: a running task and its remaining work.
type slot struct {
	task      *model.Task
	remaining int
}

// Schedule simulates executing the tree rooted at root on the given number
// of processors under the given policy. It returns the makespan and the
// completion order of task names.
//
// The simulation is deterministic: the ready queue is stable-sorted by
// duration (ties keep ready-queue arrival order), tasks are admitted
// greedily while free slots remain, and completions are processed in the
// order tasks were admitted. The tree is not mutated; concurrent calls on
// the same tree are safe.
func Schedule(root *model.Task, processors int, policy model.Policy) (*model.Result, error) {
	if processors < 1 {
		return nil, &model.InvalidConfigurationError{
			Reason: fmt.Sprintf("processor count must be at least 1, got %d", processors)}
	}
	if policy != model.PolicyAscending && policy != model.PolicyDescending {
		return nil, &model.InvalidConfigurationError{
			Reason: fmt.Sprintf("unknown policy %q", policy)}
	}
	if root == nil {
		return &model.Result{Order: []string{}}, nil
	}

	tasks, err := validateTree(root)
	if err != nil {
		return nil, err
	}

	// One unmet-dependency counter per node. Each node has at most one
	// parent, so the counter is effectively a readiness flag; keeping the
	// count keeps the release step uniform. Counters live in a per-call map
	// so concurrent schedules never share state.
	deps := make(map[*model.Task]int, len(tasks))
	var ready []*model.Task
	for _, t := range tasks {
		if t.Parent != nil {
			deps[t] = 1
		} else {
			ready = append(ready, t)
		}
	}

	running := make([]slot, 0, processors)
	order := make([]string, 0, len(tasks))
	totalTime := 0

	// Every iteration completes at least one running task, so a valid tree
	// needs at most len(tasks) iterations. Exceeding that means the input
	// violated the out-tree invariants.
	for iter := 0; len(ready) > 0 || len(running) > 0; iter++ {
		if iter > len(tasks) {
			return nil, deadlock(tasks, order)
		}

		sort.SliceStable(ready, func(i, j int) bool {
			if policy == model.PolicyDescending {
				return ready[i].Duration > ready[j].Duration
			}
			return ready[i].Duration < ready[j].Duration
		})

		// Greedy admission: fill free processor slots from the queue head.
		for len(running) < processors && len(ready) > 0 {
			t := ready[0]
			ready = ready[1:]
			running = append(running, slot{task: t, remaining: t.Duration})
		}

		// Jump time to the earliest completion. A freshly admitted
		// zero-duration task makes delta zero, which is valid: it occupies
		// and frees its slot within this iteration.
		delta := running[0].remaining
		for _, s := range running[1:] {
			if s.remaining < delta {
				delta = s.remaining
			}
		}
		totalTime += delta

		still := running[:0]
		for i := range running {
			running[i].remaining -= delta
			s := running[i]
			if s.remaining > 0 {
				still = append(still, s)
				continue
			}
			// Completed. Admission order governs ready-queue insertion order
			// for released children, and thus downstream tie-breaks.
			order = append(order, s.task.Name)
			for _, child := range s.task.Children {
				deps[child]--
				if deps[child] == 0 {
					ready = append(ready, child)
				}
			}
		}
		running = still
	}

	if len(order) != len(tasks) {
		return nil, deadlock(tasks, order)
	}

	return &model.Result{Makespan: totalTime, Order: order}, nil
}

// validateTree flattens the tree and rejects nodes reachable by more than
// one path (a multi-parent edge or cycle would make the dependency counters
// race) and negative durations.
func validateTree(root *model.Task) ([]*model.Task, error) {
	var tasks []*model.Task
	seen := make(map[*model.Task]bool)

	stack := []*model.Task{root}
	for len(stack) > 0 {
		t := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[t] {
			return nil, &model.MalformedTreeError{
				Reason: fmt.Sprintf("task %s is reachable by more than one path", t.Name)}
		}
		seen[t] = true
		if t.Duration < 0 {
			return nil, &model.InvalidConfigurationError{
				Reason: fmt.Sprintf("task %s has negative duration %d", t.Name, t.Duration)}
		}
		tasks = append(tasks, t)
		for i := len(t.Children) - 1; i >= 0; i-- {
			stack = append(stack, t.Children[i])
		}
	}
	return tasks, nil
}

// deadlock builds a DeadlockError naming the tasks that never completed.
func deadlock(tasks []*model.Task, order []string) *model.DeadlockError {
	done := make(map[string]bool, len(order))
	for _, name := range order {
		done[name] = true
	}
	var remaining []string
	for _, t := range tasks {
		if !done[t.Name] {
			remaining = append(remaining, t.Name)
		}
	}
	return &model.DeadlockError{Completed: len(order), Total: len(tasks), Remaining: remaining}
}
