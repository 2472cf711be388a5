package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/shopspring/decimal"

	"kellyServer/config"
	"kellyServer/game"
)

var checkpoints = []float64{1.5, 2, 3, 5, 10}

func main() {
	samples := flag.Int("n", 100000, "crash points per batch")
	batches := flag.Int("batches", 5, "number of batches")
	seed := flag.String("seed", "", "replay a fixed seed instead of fresh randomness")
	gameFile := flag.String("config", "", "optional game YAML file")
	flag.Parse()

	cfg := config.DefaultGameConfig()
	if *gameFile != "" {
		var err error
		if cfg, err = config.LoadGameConfig(*gameFile, cfg); err != nil {
			fmt.Fprintln(os.Stderr, "❌", err)
			os.Exit(1)
		}
	}
	hef := cfg.HouseEdgeFactor

	var rng game.RandomSource
	if *seed != "" {
		rng = game.NewSeededRNG(*seed)
	} else {
		rng, *seed = game.NewRandomSource()
	}

	fmt.Printf("Running %d batches of %d crash points (house edge factor %.4f, seed %s)\n\n", *batches, *samples, hef, *seed)

	totals := make([]int, len(checkpoints))
	for batch := 1; batch <= *batches; batch++ {
		counts := make([]int, len(checkpoints))
		for i := 0; i < *samples; i++ {
			x := game.SampleCrashPoint(rng.Float64(), hef)
			for j, m := range checkpoints {
				if x >= m {
					counts[j]++
				}
			}
		}

		fmt.Printf("Batch %d:", batch)
		for j, m := range checkpoints {
			totals[j] += counts[j]
			fmt.Printf("  P(>=%.1fx) %.4f", m, float64(counts[j])/float64(*samples))
		}
		fmt.Println()
	}

	n := float64(*samples * *batches)
	bankroll := decimal.NewFromFloat(cfg.StartingBankroll)
	worst := 0.0

	fmt.Println("\n target   empirical   expected   kelly f*   suggested bet")
	for j, m := range checkpoints {
		empirical := float64(totals[j]) / n
		expected := hef / m
		advice := game.AnalyzeCrashTarget(m, bankroll, hef)
		worst = math.Max(worst, math.Abs(empirical-expected))

		fmt.Printf(" %5.1fx   %9.4f   %8.4f   %8.4f   %s\n",
			m, empirical, expected, advice.OptimalFraction, advice.SuggestedBet.StringFixed(2))
	}

	fmt.Printf("\nLargest deviation from houseEdgeFactor/m: %.4f\n", worst)
	if worst > 0.01 {
		fmt.Println("⚠️  Survival curve deviates by more than 1%")
		os.Exit(1)
	}
	fmt.Println("✅ Crash distribution matches P(X >= m) = houseEdgeFactor/m")
}
