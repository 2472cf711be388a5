package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	log "github.com/sirupsen/logrus"

	"kellyServer/advisory"
	"kellyServer/config"
)

// Server serves the stateless REST endpoints and mounts the websocket handler.
type Server struct {
	game    config.GameConfig
	advisor advisory.Advisor
	ws      http.Handler
}

// NewServer returns a Server. A nil advisor answers every analysis request
// with the unavailable message; a nil ws handler leaves /ws unmounted.
func NewServer(game config.GameConfig, advisor advisory.Advisor, ws http.Handler) *Server {
	return &Server{game: game, advisor: advisor, ws: ws}
}

// Routes sets up the HTTP routes with middleware
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	if s.ws != nil {
		r.Handle("/ws", s.ws)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealthCheck)
		r.Post("/kelly", s.handleKelly)
		r.Post("/simulate", s.handleSimulate)
		r.Get("/crash/advice", s.handleCrashAdvice)
		r.Post("/advisory", s.handleAdvisory)
		r.Get("/advisory/recent", s.handleRecentAdvisories)
	})

	return r
}

/* =========================
   RESPONSES
========================= */

// ErrorResponse represents an error response
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// sendJSON writes a JSON response with the given status
func sendJSON(w http.ResponseWriter, statusCode int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		log.WithError(err).Error("❌ Failed to encode response")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"success":false,"error":"Failed to encode response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(append(body, '\n'))
}

// sendError sends an error response
func sendError(w http.ResponseWriter, statusCode int, message string) {
	sendJSON(w, statusCode, ErrorResponse{
		Success: false,
		Error:   message,
	})
}
