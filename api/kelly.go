package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"kellyServer/game"
)

/* =========================
   REQUEST/RESPONSE TYPES
========================= */

type KellyRequest struct {
	WinProbability float64 `json:"winProbability"`
	DecimalOdds    float64 `json:"decimalOdds"`
}

type KellyResponse struct {
	Success bool `json:"success"`
	game.KellyMetrics
}

type SimulateRequest struct {
	game.SimulationParams
	Seed string `json:"seed,omitempty"`
}

type SimulateResponse struct {
	Success    bool                  `json:"success"`
	Params     game.SimulationParams `json:"params"`
	Metrics    game.KellyMetrics     `json:"metrics"`
	Trajectory game.Trajectory       `json:"trajectory"`
	Summary    game.Summary          `json:"summary"`
	Seed       string                `json:"seed"`
}

type CrashAdviceResponse struct {
	Success  bool            `json:"success"`
	Target   float64         `json:"target"`
	Bankroll decimal.Decimal `json:"bankroll"`
	game.CrashAdvice
}

/* =========================
   KELLY + SIMULATION ENDPOINTS
========================= */

// handleKelly computes Kelly metrics
// POST /api/kelly
func (s *Server) handleKelly(w http.ResponseWriter, r *http.Request) {
	var req KellyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validateOdds(req.WinProbability, req.DecimalOdds); err != nil {
		sendError(w, http.StatusBadRequest, err.Error())
		return
	}

	sendJSON(w, http.StatusOK, KellyResponse{
		Success:      true,
		KellyMetrics: game.ComputeMetrics(req.WinProbability, req.DecimalOdds),
	})
}

// handleSimulate generates one trajectory
// POST /api/simulate
func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req SimulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	params := req.SimulationParams
	if params.InitialWealth == 0 {
		params.InitialWealth = s.game.InitialWealth
	}
	if err := game.ValidateParams(params, s.game.MaxTotalRounds); err != nil {
		sendError(w, http.StatusBadRequest, err.Error())
		return
	}

	var rng game.RandomSource
	seed := req.Seed
	if seed != "" {
		rng = game.NewSeededRNG(seed)
	} else {
		rng, seed = game.NewRandomSource()
	}

	traj := game.Simulate(params, rng)
	sendJSON(w, http.StatusOK, SimulateResponse{
		Success:    true,
		Params:     params,
		Metrics:    game.ComputeMetrics(params.WinProbability, params.DecimalOdds),
		Trajectory: traj,
		Summary:    game.Summarize(traj),
		Seed:       seed,
	})
}

// handleCrashAdvice runs the Kelly advisor for a cash-out target
// GET /api/crash/advice?target=2&bankroll=1000
func (s *Server) handleCrashAdvice(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	target, err := strconv.ParseFloat(q.Get("target"), 64)
	if err != nil || target <= 1 {
		sendError(w, http.StatusBadRequest, game.ErrInvalidTarget.Error())
		return
	}

	bankroll := decimal.NewFromFloat(s.game.StartingBankroll)
	if raw := q.Get("bankroll"); raw != "" {
		bankroll, err = decimal.NewFromString(raw)
		if err != nil || bankroll.IsNegative() {
			sendError(w, http.StatusBadRequest, "bankroll must be a non-negative number")
			return
		}
	}

	sendJSON(w, http.StatusOK, CrashAdviceResponse{
		Success:     true,
		Target:      target,
		Bankroll:    bankroll,
		CrashAdvice: game.AnalyzeCrashTarget(target, bankroll, s.game.HouseEdgeFactor),
	})
}

// validateOdds applies the simulation parameter bounds to a bare (p, odds) pair
func validateOdds(p, odds float64) error {
	return game.ValidateParams(game.SimulationParams{
		WinProbability: p,
		DecimalOdds:    odds,
		InitialWealth:  1,
	}, 0)
}
