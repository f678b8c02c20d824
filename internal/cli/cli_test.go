package cli

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/me/schedsim/internal/store"
	"github.com/me/schedsim/pkg/model"
)

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "caso.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write scenario: %v", err)
	}
	return path
}

// captureStdout runs fn with os.Stdout redirected to a pipe and returns what
// was written. The report printers write to stdout directly.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w

	done := make(chan string)
	go func() {
		out, _ := io.ReadAll(r)
		done <- string(out)
	}()

	fn()
	w.Close()
	os.Stdout = old
	return <-done
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	root.SetArgs(args)
	var err error
	out := captureStdout(t, func() { err = root.Execute() })
	return out, err
}

func TestNewRootCmd_Subcommands(t *testing.T) {
	root := NewRootCmd()

	want := map[string]bool{"run": false, "compare": false, "tree": false, "graph": false, "history": false}
	for _, cmd := range root.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestRunCommand_JSON(t *testing.T) {
	path := writeScenario(t, "# procs=2\nA_5 -> B_3\nA_5 -> C_2\n")

	out, err := execute(t, "run", path, "--json")
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	var report model.RunReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("output is not a JSON report: %v\n%s", err, out)
	}
	if report.Makespan != 8 || report.Policy != model.PolicyAscending {
		t.Errorf("report = %+v", report)
	}
}

func TestRunCommand_TextReport(t *testing.T) {
	path := writeScenario(t, "# procs=2\nA_5 -> B_3\nA_5 -> C_2\n")

	out, err := execute(t, "run", path, "--policy", "descending")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, "Makespan:     8") {
		t.Errorf("missing makespan line:\n%s", out)
	}
	if !strings.Contains(out, "A -> C -> B") {
		t.Errorf("missing order line:\n%s", out)
	}
}

func TestRunCommand_Record(t *testing.T) {
	path := writeScenario(t, "# procs=2\nA_5 -> B_3\nA_5 -> C_2\n")
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	if _, err := execute(t, "run", path, "--record", "--db", dbPath); err != nil {
		t.Fatalf("run --record: %v", err)
	}

	st, err := store.NewSQLiteStore(dbPath, logger)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer st.Close()

	runs, total, err := st.ListRuns(context.Background(), model.DefaultListOptions())
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if total != 1 || len(runs) != 1 {
		t.Fatalf("recorded runs = %d, want 1", total)
	}
	if runs[0].Kind != model.RunKindSingle || runs[0].Makespan != 8 {
		t.Errorf("recorded run = %+v", runs[0])
	}
}

func TestRunCommand_MissingFile(t *testing.T) {
	if _, err := execute(t, "run", filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Fatal("expected error for missing scenario file")
	}
}

func TestCompareCommand(t *testing.T) {
	path := writeScenario(t, "# procs=2\nR_1 -> a_10\nR_1 -> b_2\nR_1 -> c_2\nR_1 -> d_2\n")

	out, err := execute(t, "compare", path)
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if !strings.Contains(out, "Ascending:    makespan 13") {
		t.Errorf("missing ascending line:\n%s", out)
	}
	if !strings.Contains(out, "Descending:   makespan 11") {
		t.Errorf("missing descending line:\n%s", out)
	}
	if !strings.Contains(out, "Best policy:  DESCENDING") {
		t.Errorf("missing verdict line:\n%s", out)
	}
}

func TestTreeCommand(t *testing.T) {
	path := writeScenario(t, "# procs=2\nA_5 -> B_3\nA_5 -> C_2\n")

	out, err := execute(t, "tree", path)
	if err != nil {
		t.Fatalf("tree: %v", err)
	}
	if !strings.Contains(out, "- A (duration=5, parent=none)") {
		t.Errorf("missing root line:\n%s", out)
	}
	if !strings.Contains(out, "  - B (duration=3, parent=A)") {
		t.Errorf("missing child line:\n%s", out)
	}
}

func TestGraphCommand_OutputFile(t *testing.T) {
	path := writeScenario(t, "A_5 -> B_3\n")
	outPath := filepath.Join(t.TempDir(), "tree.dot")

	if _, err := execute(t, "graph", path, "-o", outPath); err != nil {
		t.Fatalf("graph: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read dot file: %v", err)
	}
	if !strings.Contains(string(data), "digraph") || !strings.Contains(string(data), "->") {
		t.Errorf("unexpected dot output:\n%s", data)
	}
}

func TestHistoryCommand_Empty(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	out, err := execute(t, "history", "--db", dbPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(out, "No recorded runs.") {
		t.Errorf("output = %q", out)
	}
}
