package game

import (
	"errors"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidTarget     = errors.New("target multiplier must be greater than 1")
	ErrInvalidBet        = errors.New("bet amount must be positive")
	ErrInsufficientFunds = errors.New("bet amount exceeds bankroll")
	ErrRoundInProgress   = errors.New("crash round already running")
)

// SampleCrashPoint draws a crash point by inverse CDF from uniform u in [0,1).
// P(crashPoint >= m) = houseEdgeFactor / m for every m >= 1.
func SampleCrashPoint(u, houseEdgeFactor float64) float64 {
	if u >= 1 {
		u = math.Nextafter(1, 0)
	}
	return math.Max(1.0, houseEdgeFactor/(1-u))
}

// Curve is the displayed multiplier as a function of elapsed time:
// m(t) = 1 + Quadratic*t^2 + Linear*t with t in seconds.
type Curve struct {
	Quadratic float64
	Linear    float64
}

// At returns the multiplier after elapsed time. It never drops below 1.
func (c Curve) At(elapsed time.Duration) float64 {
	t := elapsed.Seconds()
	if t < 0 {
		t = 0
	}
	return 1 + c.Quadratic*t*t + c.Linear*t
}

// ValidateStart checks whether a round may start. A non-nil error means the
// start is rejected and nothing changes.
func ValidateStart(phase CrashPhase, bankroll, bet decimal.Decimal, target float64) error {
	if phase == PhaseRunning {
		return ErrRoundInProgress
	}
	if math.IsNaN(target) || math.IsInf(target, 0) || target <= 1 {
		return ErrInvalidTarget
	}
	if !bet.IsPositive() {
		return ErrInvalidBet
	}
	if bankroll.LessThan(bet) {
		return ErrInsufficientFunds
	}
	return nil
}

// NewCrashRound returns a RUNNING round starting at multiplier 1.
func NewCrashRound(bet decimal.Decimal, target, crashPoint float64, now time.Time) CrashRound {
	return CrashRound{
		Phase:      PhaseRunning,
		Bet:        bet,
		Target:     target,
		Multiplier: 1.0,
		CrashPoint: crashPoint,
		StartedAt:  now,
	}
}

// Advance moves a RUNNING round to the multiplier reached after elapsed.
// The crash check wins over the cash-out check when both thresholds are
// crossed in the same tick. A non-nil resolution means the round ended.
func (r CrashRound) Advance(elapsed time.Duration, curve Curve) (CrashRound, *CrashResolution) {
	if r.Phase != PhaseRunning {
		return r, nil
	}

	next := curve.At(elapsed)
	switch {
	case next >= r.CrashPoint:
		r.Phase = PhaseCrashed
		r.Multiplier = r.CrashPoint
		return r, &CrashResolution{
			Result: PhaseCrashed,
			Payout: decimal.Zero,
			Profit: r.Bet.Neg(),
		}

	case next >= r.Target:
		r.Phase = PhaseCashed
		r.Multiplier = r.Target
		payout := r.Bet.Mul(decimal.NewFromFloat(r.Target))
		return r, &CrashResolution{
			Result: PhaseCashed,
			Payout: payout,
			Profit: payout.Sub(r.Bet),
		}
	}

	r.Multiplier = next
	return r, nil
}

// AnalyzeCrashTarget applies the Kelly criterion to a cash-out target.
// The implied win probability is houseEdgeFactor / target.
func AnalyzeCrashTarget(target float64, bankroll decimal.Decimal, houseEdgeFactor float64) CrashAdvice {
	p := houseEdgeFactor / target
	b := target - 1
	f := KellyFraction(p, b)

	return CrashAdvice{
		ImpliedWinProbability: p,
		NetOdds:               b,
		OptimalFraction:       f,
		SuggestedBet:          bankroll.Mul(decimal.NewFromFloat(math.Max(0, f))),
	}
}
