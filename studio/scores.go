package studio

import (
	"math/rand/v2"
	"sync"

	"mehearsal/model"
)

// ScoreGenerator produces the metrics of a session when it is stopped.
type ScoreGenerator interface {
	Scores() model.SessionMetrics
}

// Range is an inclusive range of scores.
type Range struct {
	Min, Max int
}

func (r Range) Contains(v int) bool {
	return v >= r.Min && v <= r.Max
}

// ScoreRanges are the ranges RandomScores draws each score from.
var ScoreRanges = struct {
	Tempo, Pitch, Dynamics, Timing, Overall Range
}{
	Tempo:    Range{80, 99},
	Pitch:    Range{75, 94},
	Dynamics: Range{80, 94},
	Timing:   Range{70, 94},
	Overall:  Range{80, 94},
}

// RandomScores draws every score independently and uniformly from ScoreRanges.
// It stands in for a real scoring engine.
type RandomScores struct {
	mu  sync.Mutex
	rng *rand.Rand // nil: the global source
}

// NewRandomScores returns a generator with its own seeded source.
// Use a zero RandomScores for the global one.
func NewRandomScores(seed uint64) *RandomScores {
	return &RandomScores{rng: rand.New(rand.NewPCG(seed, seed>>1|1))}
}

func (g *RandomScores) Scores() model.SessionMetrics {
	g.mu.Lock()
	defer g.mu.Unlock()

	return model.SessionMetrics{
		Tempo:    g.pick(ScoreRanges.Tempo),
		Pitch:    g.pick(ScoreRanges.Pitch),
		Dynamics: g.pick(ScoreRanges.Dynamics),
		Timing:   g.pick(ScoreRanges.Timing),
		Overall:  g.pick(ScoreRanges.Overall),
	}
}

func (g *RandomScores) pick(r Range) int {
	n := r.Max - r.Min + 1
	if g.rng == nil {
		return r.Min + rand.IntN(n)
	}
	return r.Min + g.rng.IntN(n)
}

// FixedScores always returns the same metrics.
type FixedScores model.SessionMetrics

func (f FixedScores) Scores() model.SessionMetrics {
	return model.SessionMetrics(f)
}
