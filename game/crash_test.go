package game

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCurve = Curve{Quadratic: 0.1, Linear: 0.5}

func TestSampleCrashPoint(t *testing.T) {
	assert.Equal(t, 1.0, SampleCrashPoint(0, 0.99))
	assert.InDelta(t, 1.98, SampleCrashPoint(0.5, 0.99), 1e-12)
	assert.InDelta(t, 9.9, SampleCrashPoint(0.9, 0.99), 1e-9)

	high := SampleCrashPoint(1, 0.99)
	assert.False(t, math.IsInf(high, 0))
	assert.Greater(t, high, 1e6)
}

func TestSampleCrashPoint_SurvivalMatchesHouseEdge(t *testing.T) {
	rng := NewSeededRNG("crash-survival")
	const n = 200000
	const hef = 0.99

	counts := map[float64]int{1.5: 0, 2: 0, 5: 0}
	for i := 0; i < n; i++ {
		x := SampleCrashPoint(rng.Float64(), hef)
		require.GreaterOrEqual(t, x, 1.0)
		for m := range counts {
			if x >= m {
				counts[m]++
			}
		}
	}

	for m, c := range counts {
		assert.InDelta(t, hef/m, float64(c)/n, 0.01, "P(X >= %.1f)", m)
	}
}

func TestCurve_MonotonicAndAccelerating(t *testing.T) {
	assert.Equal(t, 1.0, testCurve.At(0))
	assert.Equal(t, 1.0, testCurve.At(-time.Second))

	prev := testCurve.At(0)
	prevStep := 0.0
	for ms := 16; ms <= 20000; ms += 16 {
		m := testCurve.At(time.Duration(ms) * time.Millisecond)
		step := m - prev
		assert.Greater(t, step, 0.0)
		assert.GreaterOrEqual(t, step, prevStep-1e-12)
		prev, prevStep = m, step
	}

	assert.InDelta(t, 2.4, testCurve.At(2*time.Second), 1e-12)
}

func TestValidateStart(t *testing.T) {
	bankroll := decimal.NewFromInt(100)
	bet := decimal.NewFromInt(50)

	tests := []struct {
		name     string
		phase    CrashPhase
		bankroll decimal.Decimal
		bet      decimal.Decimal
		target   float64
		want     error
	}{
		{"ok from idle", PhaseIdle, bankroll, bet, 2.0, nil},
		{"ok after crash", PhaseCrashed, bankroll, bet, 1.01, nil},
		{"whole bankroll", PhaseCashed, bankroll, bankroll, 3.0, nil},
		{"round running", PhaseRunning, bankroll, bet, 2.0, ErrRoundInProgress},
		{"target one", PhaseIdle, bankroll, bet, 1.0, ErrInvalidTarget},
		{"target NaN", PhaseIdle, bankroll, bet, math.NaN(), ErrInvalidTarget},
		{"zero bet", PhaseIdle, bankroll, decimal.Zero, 2.0, ErrInvalidBet},
		{"negative bet", PhaseIdle, bankroll, decimal.NewFromInt(-5), 2.0, ErrInvalidBet},
		{"insufficient", PhaseIdle, decimal.NewFromInt(40), bet, 2.0, ErrInsufficientFunds},
		{"running beats bad target", PhaseRunning, bankroll, bet, 0.5, ErrRoundInProgress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStart(tt.phase, tt.bankroll, tt.bet, tt.target)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCrashRound_AdvanceStillRunning(t *testing.T) {
	r := NewCrashRound(decimal.NewFromInt(50), 2.0, 3.0, time.Now())

	next, res := r.Advance(500*time.Millisecond, testCurve)
	assert.Nil(t, res)
	assert.Equal(t, PhaseRunning, next.Phase)
	assert.InDelta(t, 1.275, next.Multiplier, 1e-12)
}

func TestCrashRound_AdvanceCashesOut(t *testing.T) {
	r := NewCrashRound(decimal.NewFromInt(50), 2.0, 3.0, time.Now())

	next, res := r.Advance(2*time.Second, testCurve)
	require.NotNil(t, res)
	assert.Equal(t, PhaseCashed, next.Phase)
	assert.Equal(t, 2.0, next.Multiplier)
	assert.Equal(t, PhaseCashed, res.Result)
	assert.True(t, res.Payout.Equal(decimal.NewFromInt(100)), res.Payout.String())
	assert.True(t, res.Profit.Equal(decimal.NewFromInt(50)), res.Profit.String())
}

func TestCrashRound_AdvanceCrashBeatsCashOut(t *testing.T) {
	// both thresholds crossed in the same tick
	r := NewCrashRound(decimal.NewFromInt(50), 2.0, 1.5, time.Now())

	next, res := r.Advance(10*time.Second, testCurve)
	require.NotNil(t, res)
	assert.Equal(t, PhaseCrashed, next.Phase)
	assert.Equal(t, 1.5, next.Multiplier)
	assert.True(t, res.Payout.IsZero())
	assert.True(t, res.Profit.Equal(decimal.NewFromInt(-50)))
}

func TestCrashRound_CrashAtTargetLoses(t *testing.T) {
	r := NewCrashRound(decimal.NewFromInt(10), 2.0, 2.0, time.Now())

	next, res := r.Advance(5*time.Second, testCurve)
	require.NotNil(t, res)
	assert.Equal(t, PhaseCrashed, next.Phase)
	assert.Equal(t, PhaseCrashed, res.Result)
}

func TestCrashRound_InstantCrash(t *testing.T) {
	r := NewCrashRound(decimal.NewFromInt(10), 2.0, 1.0, time.Now())

	next, res := r.Advance(16*time.Millisecond, testCurve)
	require.NotNil(t, res)
	assert.Equal(t, PhaseCrashed, next.Phase)
	assert.Equal(t, 1.0, next.Multiplier)
}

func TestCrashRound_AdvanceIgnoresResolvedRound(t *testing.T) {
	r := CrashRound{Phase: PhaseCashed, Multiplier: 2.0}

	next, res := r.Advance(time.Minute, testCurve)
	assert.Nil(t, res)
	assert.Equal(t, r, next)
}

func TestAnalyzeCrashTarget(t *testing.T) {
	advice := AnalyzeCrashTarget(2.0, decimal.NewFromInt(1000), 0.99)
	assert.InDelta(t, 0.495, advice.ImpliedWinProbability, 1e-12)
	assert.InDelta(t, 1.0, advice.NetOdds, 1e-12)
	assert.InDelta(t, -0.01, advice.OptimalFraction, 1e-12)
	assert.True(t, advice.SuggestedBet.IsZero())
}

func TestAnalyzeCrashTarget_NeverPositiveUnderHouseEdge(t *testing.T) {
	for _, target := range []float64{1.01, 1.5, 2, 3, 10, 100} {
		advice := AnalyzeCrashTarget(target, decimal.NewFromInt(1000), 0.99)
		assert.Less(t, advice.OptimalFraction, 0.0, "target %.2f", target)
		assert.True(t, advice.SuggestedBet.IsZero())
	}
}

func TestAnalyzeCrashTarget_FairGame(t *testing.T) {
	advice := AnalyzeCrashTarget(4.0, decimal.NewFromInt(1000), 1.0)
	assert.InDelta(t, 0.25, advice.ImpliedWinProbability, 1e-12)
	assert.InDelta(t, 0.0, advice.OptimalFraction, 1e-12)
	assert.True(t, advice.SuggestedBet.IsZero())
}
