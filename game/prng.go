package game

import (
	"crypto/sha256"
	"encoding/binary"
	"math/rand/v2"

	"kellyServer/crypto"
)

// RandomSource yields uniform draws in [0, 1).
type RandomSource interface {
	Float64() float64
}

type pcgSource struct{ r *rand.Rand }

func (s *pcgSource) Float64() float64 { return s.r.Float64() }

// NewSeededRNG derives a deterministic source from a seed string.
// The same seed always replays the same sequence of draws.
func NewSeededRNG(seed string) RandomSource {
	hash := sha256.Sum256([]byte(seed))
	hi := binary.BigEndian.Uint64(hash[:8])
	lo := binary.BigEndian.Uint64(hash[8:16])
	return &pcgSource{r: rand.New(rand.NewPCG(hi, lo))}
}

// NewRandomSource returns a freshly seeded source together with its seed.
func NewRandomSource() (RandomSource, string) {
	seed := crypto.GenerateSeed()
	return NewSeededRNG(seed), seed
}
