package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/me/schedsim/pkg/model"
)

func sampleTree() *model.Task {
	root := model.NewTask("A", 5)
	b := model.NewTask("B", 3)
	c := model.NewTask("C", 2)
	d := model.NewTask("D", 1)
	root.Children = []*model.Task{b, c}
	b.Parent, c.Parent = root, root
	b.Children = []*model.Task{d}
	d.Parent = b
	return root
}

func TestText(t *testing.T) {
	var buf bytes.Buffer
	Text(&buf, sampleTree())

	want := []string{
		"- A (duration=5, parent=none)",
		"  - B (duration=3, parent=A)",
		"    - D (duration=1, parent=B)",
		"  - C (duration=2, parent=A)",
	}
	got := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(got) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(got), len(want), buf.String())
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestText_NilRoot(t *testing.T) {
	var buf bytes.Buffer
	Text(&buf, nil)
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestDOT(t *testing.T) {
	out := DOT(sampleTree())

	if !strings.Contains(out, "digraph") {
		t.Errorf("output is not a digraph:\n%s", out)
	}
	for _, label := range []string{`"A (5)"`, `"B (3)"`, `"C (2)"`, `"D (1)"`} {
		if !strings.Contains(out, label) {
			t.Errorf("missing node label %s:\n%s", label, out)
		}
	}
	// One edge per parent-child pair.
	if got := strings.Count(out, "->"); got != 3 {
		t.Errorf("edge count = %d, want 3:\n%s", got, out)
	}
}

func TestDOT_NilRoot(t *testing.T) {
	out := DOT(nil)
	if !strings.Contains(out, "digraph") {
		t.Errorf("expected an empty digraph, got %q", out)
	}
	if strings.Contains(out, "->") {
		t.Errorf("expected no edges, got %q", out)
	}
}
