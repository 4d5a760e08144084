package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hupe1980/lloyd"
	"github.com/hupe1980/lloyd/blobstore"
	"github.com/hupe1980/lloyd/results"
)

type clusterRequest struct {
	Points        [][]float64 `json:"points"`
	K             int         `json:"k"`
	MaxIterations int         `json:"max_iterations"`
	Seed          *int64      `json:"seed,omitempty"`
	EarlyStop     bool        `json:"early_stop"`
	Workers       int         `json:"workers"`
}

type clusterResponse struct {
	RunID      string      `json:"run_id"`
	Centroids  [][]float64 `json:"centroids"`
	Labels     []int       `json:"labels"`
	Inertia    float64     `json:"inertia"`
	Iterations int         `json:"iterations"`
	Converged  bool        `json:"converged"`
	Sizes      []int       `json:"sizes"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleCluster(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes))
	if err != nil {
		s.writeError(w, http.StatusRequestEntityTooLarge, err)
		return
	}

	var req clusterRequest
	if err := s.opts.Codec.Unmarshal(body, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	runID := results.NewRunID()

	opts := []lloyd.Option{
		lloyd.WithLogger(s.opts.Logger.WithRunID(runID)),
		lloyd.WithMetricsCollector(s.opts.Metrics),
		lloyd.WithEarlyStop(req.EarlyStop),
		lloyd.WithWorkers(req.Workers),
		lloyd.WithResourceController(s.opts.Resources),
	}
	if req.Seed != nil {
		opts = append(opts, lloyd.WithSeed(*req.Seed))
	}

	res, err := lloyd.Fit(r.Context(), req.Points, req.K, req.MaxIterations, opts...)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}

	if s.opts.Writer != nil {
		if _, err := s.opts.Writer.Save(r.Context(), runID, res); err != nil {
			s.writeError(w, http.StatusInternalServerError, err)
			return
		}
	}

	s.writeJSON(w, http.StatusOK, clusterResponse{
		RunID:      runID,
		Centroids:  res.Centroids,
		Labels:     res.Labels,
		Inertia:    res.Inertia,
		Iterations: res.Iterations,
		Converged:  res.Converged,
		Sizes:      res.Sizes(),
	})
}

// errInvalidRunID is returned for run ids that are not canonical UUIDs.
var errInvalidRunID = errors.New("invalid run id")

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "id")
	if id, err := uuid.Parse(runID); err != nil || id.String() != runID {
		s.writeError(w, http.StatusBadRequest, errInvalidRunID)
		return
	}

	res, m, err := results.Load(r.Context(), s.opts.Store, runID)
	if err != nil {
		switch {
		case errors.Is(err, blobstore.ErrNotFound):
			s.writeError(w, http.StatusNotFound, err)
		case errors.Is(err, blobstore.ErrInvalidName):
			s.writeError(w, http.StatusBadRequest, err)
		default:
			s.writeError(w, http.StatusInternalServerError, err)
		}
		return
	}

	s.writeJSON(w, http.StatusOK, clusterResponse{
		RunID:      m.RunID,
		Centroids:  res.Centroids,
		Labels:     res.Labels,
		Inertia:    res.Inertia,
		Iterations: res.Iterations,
		Converged:  res.Converged,
		Sizes:      res.Sizes(),
	})
}

func statusFor(err error) int {
	var dm *lloyd.ErrDimensionMismatch
	switch {
	case errors.Is(err, lloyd.ErrInvalidConfig), errors.As(err, &dm):
		return http.StatusBadRequest
	case errors.Is(err, lloyd.ErrMemoryLimitExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := s.opts.Codec.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}
