package rng

// Scripted replays fixed draws for tests. Once a script is exhausted,
// Float64 returns 0.999 (so Chance fails) unless Repeat is set, in which
// case the last value is reused; IntN returns 0.
type Scripted struct {
	Floats []float64
	Ints   []int
	Repeat bool

	floats, ints int
}

// Always returns a Scripted source whose every Float64 draw is f.
func Always(f float64) *Scripted {
	return &Scripted{Floats: []float64{f}, Repeat: true}
}

func (s *Scripted) Float64() float64 {
	defer func() { s.floats++ }()
	switch {
	case s.floats < len(s.Floats):
		return s.Floats[s.floats]
	case s.Repeat && len(s.Floats) > 0:
		return s.Floats[len(s.Floats)-1]
	}
	return 0.999
}

func (s *Scripted) IntN(n int) int {
	defer func() { s.ints++ }()
	if s.ints >= len(s.Ints) {
		return 0
	}
	if v := s.Ints[s.ints]; v < n {
		return v
	}
	return n - 1
}

// Draws reports how many Float64 and IntN values have been consumed.
func (s *Scripted) Draws() (floats, ints int) {
	return s.floats, s.ints
}
