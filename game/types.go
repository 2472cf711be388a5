package game

import (
	"time"

	"github.com/shopspring/decimal"
)

// SimulationParams are the inputs of one simulation run.
type SimulationParams struct {
	WinProbability float64 `json:"winProbability"`
	DecimalOdds    float64 `json:"decimalOdds"`
	TotalRounds    int     `json:"totalRounds"`
	InitialWealth  float64 `json:"initialWealth"`
}

// KellyMetrics is derived from (winProbability, decimalOdds).
type KellyMetrics struct {
	OptimalFraction float64 `json:"optimalFraction"` // negative means do not bet
	Edge            float64 `json:"edge"`            // expected profit per unit staked
	NetOdds         float64 `json:"netOdds"`         // b = decimalOdds - 1
}

type Outcome string

const (
	OutcomeWin  Outcome = "WIN"
	OutcomeLoss Outcome = "LOSS"
)

type Strategy string

const (
	StrategyFullKelly   Strategy = "fullKelly"
	StrategyHalfKelly   Strategy = "halfKelly"
	StrategyDoubleKelly Strategy = "doubleKelly"
	StrategyFixedBet    Strategy = "fixedBet"
)

// Strategies lists every wagering policy in display order.
var Strategies = []Strategy{StrategyFullKelly, StrategyHalfKelly, StrategyDoubleKelly, StrategyFixedBet}

// RoundSnapshot holds the wealth of every strategy after a round.
// Outcome is empty only for round 0.
type RoundSnapshot struct {
	Round       int     `json:"round"`
	FullKelly   float64 `json:"fullKelly"`
	HalfKelly   float64 `json:"halfKelly"`
	DoubleKelly float64 `json:"doubleKelly"`
	FixedBet    float64 `json:"fixedBet"`
	Outcome     Outcome `json:"outcome,omitempty"`
}

// Wealth returns the wealth held by strategy s.
func (r RoundSnapshot) Wealth(s Strategy) float64 {
	switch s {
	case StrategyFullKelly:
		return r.FullKelly
	case StrategyHalfKelly:
		return r.HalfKelly
	case StrategyDoubleKelly:
		return r.DoubleKelly
	case StrategyFixedBet:
		return r.FixedBet
	}
	return 0
}

// Trajectory is the full pre-computed path, indexed by round number.
type Trajectory []RoundSnapshot

// Last returns the final snapshot of the trajectory.
func (t Trajectory) Last() (RoundSnapshot, bool) {
	if len(t) == 0 {
		return RoundSnapshot{}, false
	}
	return t[len(t)-1], true
}

/* =========================
   CRASH GAME
========================= */

type CrashPhase string

const (
	PhaseIdle    CrashPhase = "IDLE"
	PhaseRunning CrashPhase = "RUNNING"
	PhaseCrashed CrashPhase = "CRASHED"
	PhaseCashed  CrashPhase = "CASHED"
)

// CrashRound is the state of a single crash round.
// CrashPoint stays hidden from the player until the round resolves.
type CrashRound struct {
	Phase      CrashPhase      `json:"phase"`
	Bet        decimal.Decimal `json:"bet"`
	Target     float64         `json:"target"`
	Multiplier float64         `json:"multiplier"`
	CrashPoint float64         `json:"-"`
	StartedAt  time.Time       `json:"startedAt"`
}

// CrashResolution describes how a round ended.
type CrashResolution struct {
	Result CrashPhase      `json:"result"` // PhaseCrashed or PhaseCashed
	Payout decimal.Decimal `json:"payout"` // credited to the bankroll
	Profit decimal.Decimal `json:"profit"`
}

// CrashHistoryEntry records a resolved crash round.
type CrashHistoryEntry struct {
	ID         int64           `json:"id"`
	CrashPoint float64         `json:"crashPoint"`
	Target     float64         `json:"target"`
	Bet        decimal.Decimal `json:"bet"`
	Profit     decimal.Decimal `json:"profit"`
	Result     CrashPhase      `json:"result"`
}

// CrashAdvice is the Kelly analysis of a chosen cash-out target.
type CrashAdvice struct {
	ImpliedWinProbability float64         `json:"impliedWinProbability"`
	NetOdds               float64         `json:"netOdds"`
	OptimalFraction       float64         `json:"optimalFraction"`
	SuggestedBet          decimal.Decimal `json:"suggestedBet"`
}
