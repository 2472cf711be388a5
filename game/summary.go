package game

// StrategySummary describes one strategy over a single path.
type StrategySummary struct {
	Final       float64 `json:"final"`
	Peak        float64 `json:"peak"`
	MaxDrawdown float64 `json:"maxDrawdown"` // fraction of the running peak
	RuinedAt    int     `json:"ruinedAt"`    // first ruined round, 0 if never
}

// Summary reports the path outcome of every strategy.
type Summary struct {
	Rounds     int                          `json:"rounds"`
	Wins       int                          `json:"wins"`
	Losses     int                          `json:"losses"`
	Strategies map[Strategy]StrategySummary `json:"strategies"`
}

// Summarize walks the trajectory once and collects per-strategy statistics.
func Summarize(t Trajectory) Summary {
	s := Summary{Strategies: make(map[Strategy]StrategySummary, len(Strategies))}
	if len(t) == 0 {
		return s
	}
	s.Rounds = len(t) - 1

	for _, snap := range t {
		switch snap.Outcome {
		case OutcomeWin:
			s.Wins++
		case OutcomeLoss:
			s.Losses++
		}
	}

	for _, strat := range Strategies {
		var sum StrategySummary
		for _, snap := range t {
			w := snap.Wealth(strat)
			if w > sum.Peak {
				sum.Peak = w
			}
			if sum.Peak > 0 {
				if dd := (sum.Peak - w) / sum.Peak; dd > sum.MaxDrawdown {
					sum.MaxDrawdown = dd
				}
			}
			if sum.RuinedAt == 0 && snap.Round > 0 && w < RuinThreshold {
				sum.RuinedAt = snap.Round
			}
		}
		last, _ := t.Last()
		sum.Final = last.Wealth(strat)
		s.Strategies[strat] = sum
	}

	return s
}
