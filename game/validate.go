package game

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var ErrInvalidParams = errors.New("invalid simulation parameters")

// ValidateParams rejects parameters the simulator cannot run with.
// maxRounds <= 0 disables the upper bound on totalRounds.
func ValidateParams(p SimulationParams, maxRounds int) error {
	var errs []string

	if !finite(p.WinProbability) || p.WinProbability <= 0 || p.WinProbability >= 1 {
		errs = append(errs, "winProbability must be in (0,1)")
	}
	if !finite(p.DecimalOdds) || p.DecimalOdds <= 1 {
		errs = append(errs, "decimalOdds must be > 1")
	}
	if p.TotalRounds < 0 {
		errs = append(errs, "totalRounds must be >= 0")
	}
	if maxRounds > 0 && p.TotalRounds > maxRounds {
		errs = append(errs, fmt.Sprintf("totalRounds must be <= %d", maxRounds))
	}
	if !finite(p.InitialWealth) || p.InitialWealth <= 0 {
		errs = append(errs, "initialWealth must be > 0")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidParams, strings.Join(errs, "; "))
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
