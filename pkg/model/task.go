package model

import "fmt"

// Task is a node in a rooted out-tree of simulated work items. A task becomes
// eligible to run once its parent has completed; the root has no parent and is
// eligible immediately.
//
// Children keeps insertion order (order of first appearance in the input),
// which downstream tie-breaking depends on. Duration is fixed at creation.
type Task struct {
	Name     string  `json:"name"`
	Duration int     `json:"duration"`
	Children []*Task `json:"children,omitempty"`
	Parent   *Task   `json:"-"`
}

// NewTask creates a task with no relations.
func NewTask(name string, duration int) *Task {
	return &Task{Name: name, Duration: duration}
}

// Token returns the raw "Name_Duration" identity token the loader keys tasks by.
func (t *Task) Token() string {
	return fmt.Sprintf("%s_%d", t.Name, t.Duration)
}

// Walk visits t and every descendant in pre-order using an explicit stack,
// so arbitrarily deep trees do not hit recursion limits. Children are visited
// in insertion order.
func (t *Task) Walk(visit func(*Task)) {
	if t == nil {
		return
	}
	stack := []*Task{t}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		visit(node)
		// Push in reverse so the first child is popped first.
		for i := len(node.Children) - 1; i >= 0; i-- {
			stack = append(stack, node.Children[i])
		}
	}
}

// Flatten returns t and all descendants in pre-order.
func (t *Task) Flatten() []*Task {
	var tasks []*Task
	t.Walk(func(n *Task) { tasks = append(tasks, n) })
	return tasks
}

// Count returns the number of tasks in the subtree rooted at t.
func (t *Task) Count() int {
	n := 0
	t.Walk(func(*Task) { n++ })
	return n
}

// TotalDuration returns the sum of all durations in the subtree rooted at t.
func (t *Task) TotalDuration() int {
	sum := 0
	t.Walk(func(n *Task) { sum += n.Duration })
	return sum
}

// Scenario is a fully loaded simulation input: a rooted task tree plus the
// number of identical processors to simulate.
type Scenario struct {
	Source     string `json:"source"`
	Root       *Task  `json:"root"`
	Processors int    `json:"processors"`
}
