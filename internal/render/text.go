// Package render turns a completed task tree into human-readable forms: an
// indented console listing and a Graphviz DOT document. Both use the tree's
// read-only traversal and never mutate it.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/me/schedsim/pkg/model"
)

// Text writes a hierarchical listing of the tree to w, one task per line,
// indented by depth:
//
//	- A (duration=5, parent=none)
//	  - B (duration=3, parent=A)
//
// The traversal uses an explicit stack so deep trees cannot overflow.
func Text(w io.Writer, root *model.Task) {
	if root == nil {
		return
	}

	type frame struct {
		task  *model.Task
		depth int
	}
	stack := []frame{{task: root}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		parent := "none"
		if f.task.Parent != nil {
			parent = f.task.Parent.Name
		}
		fmt.Fprintf(w, "%s- %s (duration=%d, parent=%s)\n",
			strings.Repeat("  ", f.depth), f.task.Name, f.task.Duration, parent)

		for i := len(f.task.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{task: f.task.Children[i], depth: f.depth + 1})
		}
	}
}
