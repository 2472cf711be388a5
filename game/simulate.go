package game

import "math"

const (
	// Below this a strategy is ruined and stops betting
	RuinThreshold = 0.01

	// Fixed strategy stakes 5% of the initial wealth every round
	FixedBetFraction = 0.05

	HalfKellyMultiplier   = 0.5
	DoubleKellyMultiplier = 2.0
	MaxLeverage           = 1.0

	// Long favourable runs overflow float64; wealth is held here instead of +Inf
	MaxWealth = math.MaxFloat64
)

// Simulate pre-computes the wealth path of all four strategies.
// One outcome is drawn per round and shared by every strategy.
// Params are assumed valid (see ValidateParams).
func Simulate(params SimulationParams, rng RandomSource) Trajectory {
	metrics := ComputeMetrics(params.WinProbability, params.DecimalOdds)
	b := metrics.NetOdds

	f := metrics.StakeFraction()
	fullF := f
	halfF := f * HalfKellyMultiplier
	doubleF := math.Min(MaxLeverage, f*DoubleKellyMultiplier)
	fixedStake := params.InitialWealth * FixedBetFraction

	rounds := params.TotalRounds
	if rounds < 0 {
		rounds = 0
	}

	w := params.InitialWealth
	snap := RoundSnapshot{Round: 0, FullKelly: w, HalfKelly: w, DoubleKelly: w, FixedBet: w}

	trajectory := make(Trajectory, 0, rounds+1)
	trajectory = append(trajectory, snap)

	for i := 1; i <= rounds; i++ {
		win := rng.Float64() < params.WinProbability

		snap = RoundSnapshot{
			Round:       i,
			FullKelly:   settle(snap.FullKelly, snap.FullKelly*fullF, b, win),
			HalfKelly:   settle(snap.HalfKelly, snap.HalfKelly*halfF, b, win),
			DoubleKelly: settle(snap.DoubleKelly, snap.DoubleKelly*doubleF, b, win),
			FixedBet:    settle(snap.FixedBet, math.Min(snap.FixedBet, fixedStake), b, win),
			Outcome:     OutcomeLoss,
		}
		if win {
			snap.Outcome = OutcomeWin
		}
		trajectory = append(trajectory, snap)
	}

	return trajectory
}

// settle applies one round to wealth w staking stake at net odds b.
// Ruin is absorbing: a ruined wealth is carried forward unchanged.
// Wealth saturates at MaxWealth so every snapshot stays finite.
func settle(w, stake, b float64, win bool) float64 {
	if w < RuinThreshold {
		return w
	}
	if win {
		w += stake * b
	} else {
		w -= stake
	}
	return math.Min(MaxWealth, math.Max(0, w))
}
