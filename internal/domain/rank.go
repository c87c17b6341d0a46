package domain

import (
	"cmp"
	"fmt"
	"math"
	"slices"
)

// Weights are the relative importance of each sub-score in the global score.
// They must be non-negative and sum to 1.0 (±0.001).
type Weights struct {
	TempDay   float64
	FeelsLike float64
	Clouds    float64
	Pop       float64
}

// DefaultWeights returns the fixed weighting, dominated by precipitation.
func DefaultWeights() Weights {
	return Weights{
		TempDay:   0.2,
		FeelsLike: 0.2,
		Clouds:    0.1,
		Pop:       0.5,
	}
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.TempDay + w.FeelsLike + w.Clouds + w.Pop
}

// Validate checks that weights are non-negative and sum to 1.0.
func (w Weights) Validate() error {
	for _, v := range []float64{w.TempDay, w.FeelsLike, w.Clouds, w.Pop} {
		if v < 0 || math.IsNaN(v) {
			return fmt.Errorf("%w: negative weight %g", ErrInvalidWeights, v)
		}
	}
	if math.Abs(w.Sum()-1.0) > 0.001 {
		return fmt.Errorf("%w: weights sum to %.4f, want 1.0", ErrInvalidWeights, w.Sum())
	}
	return nil
}

// Global returns the weighted sum of the sub-scores.
func (w Weights) Global(s SubScores) float64 {
	return w.TempDay*float64(s.TempDay) +
		w.FeelsLike*float64(s.FeelsLike) +
		w.Clouds*float64(s.Clouds) +
		w.Pop*float64(s.Pop)
}

// Ranker computes global scores and orders locations.
type Ranker struct {
	weights Weights
}

// NewRanker creates a Ranker with the given weights.
func NewRanker(weights Weights) *Ranker {
	return &Ranker{weights: weights}
}

// Rank returns a new slice sorted by descending (global, pop, temp_day,
// feels_like, clouds). Fully tied locations keep their input order. Each
// location gets its 1-based Position and a Rank label "<position>. <name>".
func (r *Ranker) Rank(scored []ScoredLocation) []ScoredLocation {
	ranked := slices.Clone(scored)
	for i := range ranked {
		ranked[i].GlobalScore = r.weights.Global(ranked[i].Scores)
	}

	slices.SortStableFunc(ranked, compareRanking)

	for i := range ranked {
		ranked[i].Position = i + 1
		ranked[i].Rank = fmt.Sprintf("%d. %s", i+1, ranked[i].Location.Name)
	}
	return ranked
}

// compareRanking orders a before b when a's ranking key is greater.
func compareRanking(a, b ScoredLocation) int {
	if c := cmp.Compare(b.GlobalScore, a.GlobalScore); c != 0 {
		return c
	}
	if c := cmp.Compare(b.Scores.Pop, a.Scores.Pop); c != 0 {
		return c
	}
	if c := cmp.Compare(b.Scores.TempDay, a.Scores.TempDay); c != 0 {
		return c
	}
	if c := cmp.Compare(b.Scores.FeelsLike, a.Scores.FeelsLike); c != 0 {
		return c
	}
	return cmp.Compare(b.Scores.Clouds, a.Scores.Clouds)
}
