package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/marketsnap/internal/contracts"
	"github.com/wonny/marketsnap/pkg/logger"
)

// SnapshotRunner produces one snapshot for a window
type SnapshotRunner interface {
	Run(ctx context.Context, window contracts.AnalysisWindow) (*contracts.Snapshot, error)
}

// SnapshotHandler handles snapshot API endpoints
// ⭐ SSOT: 스냅샷 API 핸들러는 이 구조체에서만
type SnapshotHandler struct {
	runner      SnapshotRunner
	store       contracts.SnapshotStore
	generator   contracts.ReportGenerator
	defaultDays int
	logger      *logger.Logger
}

// NewSnapshotHandler creates a snapshot handler. store and generator
// may be nil; persistence and narrative rendering are then skipped.
func NewSnapshotHandler(
	runner SnapshotRunner,
	store contracts.SnapshotStore,
	generator contracts.ReportGenerator,
	defaultDays int,
	log *logger.Logger,
) *SnapshotHandler {
	return &SnapshotHandler{
		runner:      runner,
		store:       store,
		generator:   generator,
		defaultDays: defaultDays,
		logger:      log,
	}
}

// GetSnapshot runs the pipeline for a ticker and returns the snapshot
// GET /api/v1/snapshot/{ticker}?days=N
func (h *SnapshotHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := h.run(w, r)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, snapshot)
}

// GetReport runs the pipeline and returns the markdown narrative
// GET /api/v1/snapshot/{ticker}/report?days=N
func (h *SnapshotHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	if h.generator == nil {
		respondError(w, http.StatusServiceUnavailable, "Report generation is not configured")
		return
	}

	snapshot, ok := h.run(w, r)
	if !ok {
		return
	}

	markdown, err := h.generator.Generate(r.Context(), snapshot)
	if err != nil {
		h.logger.WithError(err).WithField("run_id", snapshot.RunID).Error("Failed to generate report")
		respondError(w, http.StatusBadGateway, "Failed to generate report")
		return
	}

	if h.store != nil {
		if err := h.store.SaveReport(r.Context(), snapshot.RunID, markdown); err != nil {
			h.logger.WithError(err).WithField("run_id", snapshot.RunID).Error("Failed to save report")
		}
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"run_id":   snapshot.RunID,
		"markdown": markdown,
	})
}

// GetLatest serves the newest stored snapshot without running the pipeline
// GET /api/v1/snapshot/{ticker}/latest?days=N
func (h *SnapshotHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		respondError(w, http.StatusServiceUnavailable, "Snapshot persistence is not configured")
		return
	}

	window, ok := h.parseWindow(w, r)
	if !ok {
		return
	}

	snapshot, err := h.store.GetLatestSnapshot(r.Context(), window.Ticker, window.LengthDays)
	if err != nil {
		h.logger.WithError(err).WithField("ticker", window.Ticker).Error("Failed to load latest snapshot")
		respondError(w, http.StatusInternalServerError, "Failed to load latest snapshot")
		return
	}
	if snapshot == nil {
		respondError(w, http.StatusNotFound, "No stored snapshot for "+window.Ticker)
		return
	}

	respondJSON(w, http.StatusOK, snapshot)
}

// parseWindow validates ticker and days from the request. A false
// return means a response was already written.
func (h *SnapshotHandler) parseWindow(w http.ResponseWriter, r *http.Request) (contracts.AnalysisWindow, bool) {
	ticker := mux.Vars(r)["ticker"]

	days := h.defaultDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "days must be an integer")
			return contracts.AnalysisWindow{}, false
		}
		days = parsed
	}

	window, err := contracts.NewAnalysisWindow(ticker, days, time.Now())
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return contracts.AnalysisWindow{}, false
	}

	return window, true
}

// run validates the request, executes the pipeline and persists the
// result. A false return means a response was already written.
func (h *SnapshotHandler) run(w http.ResponseWriter, r *http.Request) (*contracts.Snapshot, bool) {
	window, ok := h.parseWindow(w, r)
	if !ok {
		return nil, false
	}

	snapshot, err := h.runner.Run(r.Context(), window)
	if err != nil {
		h.logger.WithError(err).WithField("ticker", window.Ticker).Error("Snapshot run failed")
		if contracts.IsAnalysisError(err) {
			respondError(w, http.StatusUnprocessableEntity, err.Error())
		} else {
			respondError(w, http.StatusInternalServerError, "Snapshot run failed")
		}
		return nil, false
	}

	if h.store != nil {
		if err := h.store.SaveSnapshot(r.Context(), snapshot); err != nil {
			h.logger.WithError(err).WithField("run_id", snapshot.RunID).Error("Failed to save snapshot")
		}
	}

	return snapshot, true
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
