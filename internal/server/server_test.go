package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/me/schedsim/internal/config"
	"github.com/me/schedsim/internal/store"
	"github.com/me/schedsim/pkg/model"
)

const scenarioText = "# procs=2\nA_5 -> B_3\nA_5 -> C_2\n"

func testServer(t *testing.T) *Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError}))
	st, err := store.NewSQLiteStore(":memory:", logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	if err := st.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return New(config.Default(), st, logger)
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) (*httptest.ResponseRecorder, model.Response) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	var resp model.Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode envelope: %v\n%s", err, rec.Body.String())
	}
	return rec, resp
}

func createRun(t *testing.T, srv *Server, body map[string]any) model.Run {
	t.Helper()
	rec, resp := doJSON(t, srv, http.MethodPost, "/api/v1/runs", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create run: status %d\n%s", rec.Code, rec.Body.String())
	}
	raw, _ := json.Marshal(resp.Data)
	var run model.Run
	if err := json.Unmarshal(raw, &run); err != nil {
		t.Fatalf("decode run: %v", err)
	}
	return run
}

func TestHealth(t *testing.T) {
	srv := testServer(t)
	rec, resp := doJSON(t, srv, http.MethodGet, "/api/v1/health", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if resp.Status != "ok" || resp.Error != nil {
		t.Errorf("envelope = %+v, want ok", resp)
	}
	if !strings.HasPrefix(resp.RequestID, "req_") {
		t.Errorf("RequestID = %q, want req_ prefix", resp.RequestID)
	}
	data := resp.Data.(map[string]any)
	if data["status"] != "healthy" || data["store"] != "sqlite" {
		t.Errorf("health data = %v", data)
	}
}

func TestCreateRun_SingleRun(t *testing.T) {
	srv := testServer(t)

	run := createRun(t, srv, map[string]any{
		"source":  "caso.txt",
		"content": scenarioText,
	})

	if !strings.HasPrefix(run.ID, "run_") {
		t.Errorf("ID = %q, want run_ prefix", run.ID)
	}
	if run.Kind != model.RunKindSingle {
		t.Errorf("Kind = %s, want run", run.Kind)
	}
	if run.Policy != "ASCENDING" {
		t.Errorf("Policy = %q, want default ASCENDING", run.Policy)
	}
	if run.Makespan != 8 || run.TaskCount != 3 || run.Processors != 2 {
		t.Errorf("run = %+v", run)
	}

	var report model.RunReport
	if err := json.Unmarshal(run.Report, &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.Makespan != 8 || len(report.Order) != 3 {
		t.Errorf("report = %+v", report)
	}
}

func TestCreateRun_Compare(t *testing.T) {
	srv := testServer(t)

	content := "# procs=2\nR_1 -> a_10\nR_1 -> b_2\nR_1 -> c_2\nR_1 -> d_2\n"
	run := createRun(t, srv, map[string]any{
		"source":  "mix.txt",
		"content": content,
		"mode":    "compare",
	})

	if run.Kind != model.RunKindCompare {
		t.Errorf("Kind = %s, want compare", run.Kind)
	}
	if run.Verdict != "DESCENDING" {
		t.Errorf("Verdict = %q, want DESCENDING", run.Verdict)
	}
	if run.Makespan != 11 {
		t.Errorf("Makespan = %d, want winning 11", run.Makespan)
	}
}

func TestCreateRun_ProcessorOverride(t *testing.T) {
	srv := testServer(t)

	run := createRun(t, srv, map[string]any{
		"content":    scenarioText,
		"processors": 1,
	})
	if run.Processors != 1 {
		t.Errorf("Processors = %d, want override 1", run.Processors)
	}
	if run.Makespan != 10 {
		t.Errorf("Makespan = %d, want serialized 10", run.Makespan)
	}
}

func TestCreateRun_BadRequests(t *testing.T) {
	srv := testServer(t)

	tests := []struct {
		name string
		body map[string]any
		want int
	}{
		{"missing content", map[string]any{"source": "x"}, http.StatusBadRequest},
		{"malformed tree", map[string]any{"content": "A_1 -> B_1\nC_1 -> D_1\n"}, http.StatusBadRequest},
		{"parse error", map[string]any{"content": "A5 -> B_2\n"}, http.StatusBadRequest},
		{"bad policy", map[string]any{"content": scenarioText, "policy": "fastest"}, http.StatusBadRequest},
		{"bad mode", map[string]any{"content": scenarioText, "mode": "race"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := doJSON(t, srv, http.MethodPost, "/api/v1/runs", tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d\n%s", rec.Code, tt.want, rec.Body.String())
			}
			if resp.Status != "error" || resp.Error == nil {
				t.Errorf("envelope = %+v, want error", resp)
			}
		})
	}
}

func TestCreateRun_InvalidJSON(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/runs", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestGetRun(t *testing.T) {
	srv := testServer(t)
	created := createRun(t, srv, map[string]any{"content": scenarioText})

	rec, resp := doJSON(t, srv, http.MethodGet, "/api/v1/runs/"+created.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	data := resp.Data.(map[string]any)
	if data["id"] != created.ID {
		t.Errorf("id = %v, want %s", data["id"], created.ID)
	}
}

func TestGetRun_NotFound(t *testing.T) {
	srv := testServer(t)

	rec, resp := doJSON(t, srv, http.MethodGet, "/api/v1/runs/run_nope", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if resp.Error == nil || resp.Error.Code != model.ErrNotFound {
		t.Errorf("error = %+v, want not_found", resp.Error)
	}
}

func TestListRuns_Pagination(t *testing.T) {
	srv := testServer(t)
	for i := 0; i < 5; i++ {
		createRun(t, srv, map[string]any{
			"source":  fmt.Sprintf("case-%d.txt", i),
			"content": scenarioText,
		})
	}

	rec, resp := doJSON(t, srv, http.MethodGet, "/api/v1/runs?limit=2&offset=0", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if resp.Pagination == nil {
		t.Fatal("missing pagination")
	}
	if resp.Pagination.Total != 5 || resp.Pagination.Limit != 2 || !resp.Pagination.HasMore {
		t.Errorf("pagination = %+v", resp.Pagination)
	}
	if runs := resp.Data.([]any); len(runs) != 2 {
		t.Errorf("page size = %d, want 2", len(runs))
	}
}

func TestListRuns_KindFilter(t *testing.T) {
	srv := testServer(t)
	createRun(t, srv, map[string]any{"content": scenarioText})
	createRun(t, srv, map[string]any{"content": scenarioText, "mode": "compare"})

	_, resp := doJSON(t, srv, http.MethodGet, "/api/v1/runs?kind=compare", nil)
	if resp.Pagination.Total != 1 {
		t.Errorf("total = %d, want 1", resp.Pagination.Total)
	}
	runs := resp.Data.([]any)
	if len(runs) != 1 || runs[0].(map[string]any)["kind"] != "compare" {
		t.Errorf("filtered runs = %v", runs)
	}
}

func TestDeleteRun(t *testing.T) {
	srv := testServer(t)
	created := createRun(t, srv, map[string]any{"content": scenarioText})

	rec, _ := doJSON(t, srv, http.MethodDelete, "/api/v1/runs/"+created.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d, want 200", rec.Code)
	}

	rec, _ = doJSON(t, srv, http.MethodGet, "/api/v1/runs/"+created.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete = %d, want 404", rec.Code)
	}

	rec, _ = doJSON(t, srv, http.MethodDelete, "/api/v1/runs/"+created.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete = %d, want 404", rec.Code)
	}
}

func TestRequestIDHeader(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	header := rec.Header().Get("X-Request-ID")
	if !strings.HasPrefix(header, "req_") {
		t.Errorf("X-Request-ID = %q, want req_ prefix", header)
	}

	var resp model.Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.RequestID != header {
		t.Errorf("envelope RequestID %q != header %q", resp.RequestID, header)
	}
}
