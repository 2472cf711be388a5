package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	log "github.com/sirupsen/logrus"

	"kellyServer/advisory"
	"kellyServer/config"
	"kellyServer/db"
	"kellyServer/game"
)

type AdvisoryResponse struct {
	Success  bool              `json:"success"`
	Analysis string            `json:"analysis"`
	Metrics  game.KellyMetrics `json:"metrics"`
}

type RecentAdvisoriesResponse struct {
	Success bool              `json:"success"`
	Records []advisory.Record `json:"records"`
	Count   int               `json:"count"`
}

/* =========================
   ADVISORY ENDPOINTS
========================= */

// handleAdvisory asks the advisor about a parameter pair. Upstream failures
// come back as the fallback analysis, never as an error status.
// POST /api/advisory
func (s *Server) handleAdvisory(w http.ResponseWriter, r *http.Request) {
	var req KellyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validateOdds(req.WinProbability, req.DecimalOdds); err != nil {
		sendError(w, http.StatusBadRequest, err.Error())
		return
	}

	metrics := game.ComputeMetrics(req.WinProbability, req.DecimalOdds)

	analysis := advisory.UnavailableMessage
	if s.advisor != nil {
		analysis = s.advisor.Analyze(r.Context(), advisory.Request{
			WinProbability:  req.WinProbability,
			DecimalOdds:     req.DecimalOdds,
			OptimalFraction: metrics.OptimalFraction,
		})
	}

	sendJSON(w, http.StatusOK, AdvisoryResponse{
		Success:  true,
		Analysis: analysis,
		Metrics:  metrics,
	})
}

// handleRecentAdvisories lists the latest advisory calls
// GET /api/advisory/recent?limit=20
func (s *Server) handleRecentAdvisories(w http.ResponseWriter, r *http.Request) {
	if !db.PostgresEnabled() {
		sendError(w, http.StatusServiceUnavailable, "Advisory log is not available")
		return
	}

	limit, err := parseRecentLimit(r.URL.Query().Get("limit"))
	if err != nil {
		sendError(w, http.StatusBadRequest, err.Error())
		return
	}

	records, err := db.GetRecentAdvisoryRecords(r.Context(), limit)
	if err != nil {
		log.WithError(err).Error("❌ Failed to fetch advisory log")
		sendError(w, http.StatusInternalServerError, "Failed to fetch advisory log")
		return
	}

	sendJSON(w, http.StatusOK, RecentAdvisoriesResponse{
		Success: true,
		Records: records,
		Count:   len(records),
	})
}

// parseRecentLimit reads the limit query value, clamped to MaxRecentAdvisoryLimit
func parseRecentLimit(raw string) (int, error) {
	if raw == "" {
		return config.RecentAdvisoryLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, errors.New("limit must be a positive integer")
	}
	return min(n, config.MaxRecentAdvisoryLimit), nil
}
