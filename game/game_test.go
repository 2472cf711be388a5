package game

// scriptedSource replays a fixed list of draws, cycling when exhausted.
type scriptedSource struct {
	draws []float64
	i     int
}

func (s *scriptedSource) Float64() float64 {
	v := s.draws[s.i%len(s.draws)]
	s.i++
	return v
}

func script(draws ...float64) *scriptedSource {
	return &scriptedSource{draws: draws}
}
