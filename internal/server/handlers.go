package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ian8500/Plane-Spotter/internal/service"
)

type handlers struct {
	pipeline       *service.Pipeline
	logger         *logrus.Logger
	requestTimeout time.Duration
}

// handleFeed serves the live flight feed. Upstream failure of the primary
// feed maps to 502 with an empty, annotated payload; everything else is 200.
func (h *handlers) handleFeed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.requestTimeout)
		defer cancel()
	}

	query := service.ParseQuery(r.URL.Query())

	snapshot, err := h.pipeline.BuildSnapshot(ctx, query)
	status := http.StatusOK
	if err != nil {
		status = http.StatusBadGateway
	}
	h.writeJSON(w, status, snapshot)
}

type healthResponse struct {
	Status          string `json:"status"`
	LastFeedSuccess string `json:"lastFeedSuccess,omitempty"`
	Error           string `json:"error,omitempty"`
}

func (h *handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := h.pipeline.Health()

	resp := healthResponse{Status: "ok"}
	if last := health.LastSuccess(); !last.IsZero() {
		resp.LastFeedSuccess = last.UTC().Format(time.RFC3339)
	}

	if err := health.CheckHealth(); err != nil {
		resp.Status = "degraded"
		resp.Error = err.Error()
		h.writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}

	h.writeJSON(w, http.StatusOK, resp)
}

func (h *handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.WithError(err).Error("Failed to encode response")
	}
}
