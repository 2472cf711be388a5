package api

import (
	"net/http"

	"kellyServer/db"
	"kellyServer/ws"
)

/* =========================
   HEALTH CHECK ENDPOINT
========================= */

type HealthResponse struct {
	Success  bool   `json:"success"`
	Redis    string `json:"redis"`
	Postgres string `json:"postgres"`
	Sessions int64  `json:"sessions"`
	Message  string `json:"message"`
}

// handleHealthCheck reports backend status
// GET /api/health
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	redisHealth := "ok"
	if err := db.HealthCheck(ctx); err != nil {
		redisHealth = "error: " + err.Error()
	}

	postgresHealth := "ok"
	if err := db.HealthCheckPostgres(ctx); err != nil {
		postgresHealth = "error: " + err.Error()
	}

	sendJSON(w, http.StatusOK, HealthResponse{
		Success:  true,
		Redis:    redisHealth,
		Postgres: postgresHealth,
		Sessions: ws.ClientCount(),
		Message:  "Health check completed",
	})
}
