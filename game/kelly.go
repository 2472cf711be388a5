package game

import "math"

// ComputeMetrics maps (winProbability, decimalOdds) to the Kelly metrics.
func ComputeMetrics(winProbability, decimalOdds float64) KellyMetrics {
	b := decimalOdds - 1
	q := 1 - winProbability
	return KellyMetrics{
		OptimalFraction: KellyFraction(winProbability, b),
		Edge:            winProbability*b - q,
		NetOdds:         b,
	}
}

// KellyFraction returns f* = (b*p - q) / b.
// Degenerate net odds (b <= 0 or NaN) have no defined fraction and yield 0 (do not bet).
func KellyFraction(p, b float64) float64 {
	if !(b > 0) {
		return 0
	}
	f := (b*p - (1 - p)) / b
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// StakeFraction is the fraction actually wagered: never negative.
func (m KellyMetrics) StakeFraction() float64 {
	return math.Max(0, m.OptimalFraction)
}
