package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/me/schedsim/internal/engine"
	"github.com/me/schedsim/pkg/model"
)

type healthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
	Store     string `json:"store"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	respondOK(w, reqID, healthResponse{
		Status:    "healthy",
		Version:   "0.1.0",
		GoVersion: runtime.Version(),
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
		Store:     "sqlite",
	})
}

// createRunRequest is the body of POST /api/v1/runs.
type createRunRequest struct {
	Source     string `json:"source"`     // scenario identifier (defaults to "inline")
	Content    string `json:"content"`    // edge-list scenario text
	Mode       string `json:"mode"`       // "run" (default) or "compare"
	Policy     string `json:"policy"`     // single runs only (default ascending)
	Processors int    `json:"processors"` // optional override of the scenario's directive
}

func (s *Server) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	var req createRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, reqID, http.StatusBadRequest,
			model.NewValidationError("invalid JSON body: "+err.Error()))
		return
	}
	if req.Content == "" {
		respondError(w, reqID, http.StatusBadRequest,
			model.NewValidationError("content is required"))
		return
	}
	if req.Source == "" {
		req.Source = "inline"
	}

	scn, err := s.parser.Parse([]byte(req.Content), req.Source)
	if err != nil {
		respondSimError(w, reqID, err)
		return
	}
	if req.Processors > 0 {
		scn.Processors = req.Processors
	}

	run := &model.Run{
		ID:         "run_" + uuid.New().String(),
		Source:     scn.Source,
		Processors: scn.Processors,
		TaskCount:  scn.Root.Count(),
		CreatedAt:  time.Now().UTC(),
	}

	switch req.Mode {
	case "", string(model.RunKindSingle):
		policy := model.PolicyAscending
		if req.Policy != "" {
			policy, err = model.ParsePolicy(req.Policy)
			if err != nil {
				respondError(w, reqID, http.StatusBadRequest,
					model.NewValidationError(err.Error()))
				return
			}
		}
		res, err := engine.Schedule(scn.Root, scn.Processors, policy)
		if err != nil {
			respondSimError(w, reqID, err)
			return
		}
		report := engine.BuildRunReport(scn, policy, res)
		run.Kind = model.RunKindSingle
		run.Policy = policy.String()
		run.Makespan = res.Makespan
		run.Report, _ = json.Marshal(report)

	case string(model.RunKindCompare):
		report, err := engine.Compare(scn)
		if err != nil {
			respondSimError(w, reqID, err)
			return
		}
		run.Kind = model.RunKindCompare
		run.Verdict = report.BestPolicy.String()
		run.Makespan = min(report.AscendingMakespan, report.DescendingMakespan)
		run.Report, _ = json.Marshal(report)

	default:
		respondError(w, reqID, http.StatusBadRequest,
			model.NewValidationError("mode must be 'run' or 'compare'"))
		return
	}

	if err := s.store.CreateRun(r.Context(), run); err != nil {
		respondError(w, reqID, http.StatusInternalServerError,
			&model.APIError{Code: model.ErrInternal, Message: err.Error()})
		return
	}

	s.logger.Info("run recorded", "id", run.ID, "source", run.Source,
		"kind", run.Kind, "makespan", run.Makespan)

	respondCreated(w, reqID, run)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	opts := model.DefaultListOptions()
	if kind := r.URL.Query().Get("kind"); kind != "" {
		opts.Kind = kind
	}
	if limit := r.URL.Query().Get("limit"); limit != "" {
		opts.Limit, _ = strconv.Atoi(limit)
	}
	if offset := r.URL.Query().Get("offset"); offset != "" {
		opts.Offset, _ = strconv.Atoi(offset)
	}
	opts.Clamp()

	runs, total, err := s.store.ListRuns(r.Context(), opts)
	if err != nil {
		respondError(w, reqID, http.StatusInternalServerError,
			&model.APIError{Code: model.ErrInternal, Message: err.Error()})
		return
	}

	respondList(w, reqID, runs, &model.Pagination{
		Total:   total,
		Limit:   opts.Limit,
		Offset:  opts.Offset,
		HasMore: opts.Offset+len(runs) < total,
	})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	run, err := s.store.GetRun(r.Context(), id)
	if err != nil {
		respondError(w, reqID, http.StatusInternalServerError,
			&model.APIError{Code: model.ErrInternal, Message: err.Error()})
		return
	}
	if run == nil {
		respondError(w, reqID, http.StatusNotFound, model.NewNotFoundError("run", id))
		return
	}
	respondOK(w, reqID, run)
}

func (s *Server) handleDeleteRun(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	err := s.store.DeleteRun(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		respondError(w, reqID, http.StatusNotFound, model.NewNotFoundError("run", id))
		return
	}
	if err != nil {
		respondError(w, reqID, http.StatusInternalServerError,
			&model.APIError{Code: model.ErrInternal, Message: err.Error()})
		return
	}
	respondOK(w, reqID, map[string]string{"deleted": id})
}

// respondSimError maps loader and engine errors onto API error responses.
func respondSimError(w http.ResponseWriter, reqID string, err error) {
	var (
		parseErr    *model.ParseError
		treeErr     *model.MalformedTreeError
		cfgErr      *model.InvalidConfigurationError
		deadlockErr *model.DeadlockError
	)
	switch {
	case errors.As(err, &parseErr), errors.As(err, &treeErr), errors.As(err, &cfgErr):
		respondError(w, reqID, http.StatusBadRequest, model.NewValidationError(err.Error()))
	case errors.As(err, &deadlockErr):
		respondError(w, reqID, http.StatusUnprocessableEntity,
			model.NewValidationError(err.Error()))
	default:
		respondError(w, reqID, http.StatusInternalServerError,
			&model.APIError{Code: model.ErrInternal, Message: err.Error()})
	}
}
