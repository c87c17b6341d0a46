package domain

import (
	"fmt"
	"math"
)

// Band maps a numeric interval to a sub-score. Bounds are inclusive or
// exclusive per edge; use ±Inf for open-ended bands.
type Band struct {
	Min          float64
	Max          float64
	MinInclusive bool
	MaxInclusive bool
	Score        int
}

// Contains reports whether v falls inside the band. NaN is never contained.
func (b Band) Contains(v float64) bool {
	if math.IsNaN(v) {
		return false
	}
	if v < b.Min || (v == b.Min && !b.MinInclusive) {
		return false
	}
	if v > b.Max || (v == b.Max && !b.MaxInclusive) {
		return false
	}
	return true
}

func (b Band) empty() bool {
	if b.Min > b.Max {
		return true
	}
	return b.Min == b.Max && !(b.MinInclusive && b.MaxInclusive)
}

func (b Band) String() string {
	lo, hi := "(", ")"
	if b.MinInclusive {
		lo = "["
	}
	if b.MaxInclusive {
		hi = "]"
	}
	return fmt.Sprintf("%s%g,%g%s=%d", lo, b.Min, b.Max, hi, b.Score)
}

// overlaps reports whether two non-empty bands share at least one value.
func overlaps(a, b Band) bool {
	if a.Min > b.Min || (a.Min == b.Min && !a.MinInclusive && b.MinInclusive) {
		a, b = b, a
	}
	// a starts first; they overlap when b starts before a ends.
	if b.Min < a.Max {
		return true
	}
	return b.Min == a.Max && b.MinInclusive && a.MaxInclusive
}

// BandSet is an ordered list of bands for one metric. The first band that
// contains a value wins; a value matching no band scores 0.
type BandSet []Band

// Score returns the sub-score of v.
func (s BandSet) Score(v float64) int {
	for _, b := range s {
		if b.Contains(v) {
			return b.Score
		}
	}
	return 0
}

// Validate rejects empty sets, empty bands and overlapping bands.
func (s BandSet) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("%w: no bands", ErrInvalidBands)
	}
	for i, b := range s {
		if b.empty() {
			return fmt.Errorf("%w: band %s is empty", ErrInvalidBands, b)
		}
		for _, other := range s[i+1:] {
			if overlaps(b, other) {
				return fmt.Errorf("%w: bands %s and %s overlap", ErrInvalidBands, b, other)
			}
		}
	}
	return nil
}

// Bands holds the band set of every scored metric.
type Bands struct {
	TempDay   BandSet
	FeelsLike BandSet
	Clouds    BandSet
	Pop       BandSet
}

// DefaultBands returns the fixed scoring policy:
//
//	temp_day_mean (°C):       [18,25] 20 | [13,18) or (25,30] 10 | else 0
//	diff_feels_like_mean (°C): <3 20 | [3,6) 10 | >=6 0
//	clouds_mean (%):          [0,20) 20 | [20,40) 15 | [40,60) 10 | [60,80) 5 | [80,100] 0
//	pop_mean (0-1):           =0 20 | (0,0.1) 15 | [0.1,0.3) 10 | [0.3,0.5) 5 | [0.5,1] 0
func DefaultBands() Bands {
	inf := math.Inf(1)
	return Bands{
		TempDay: BandSet{
			{Min: 18, Max: 25, MinInclusive: true, MaxInclusive: true, Score: 20},
			{Min: 13, Max: 18, MinInclusive: true, MaxInclusive: false, Score: 10},
			{Min: 25, Max: 30, MinInclusive: false, MaxInclusive: true, Score: 10},
			{Min: -inf, Max: 13, MinInclusive: true, MaxInclusive: false, Score: 0},
			{Min: 30, Max: inf, MinInclusive: false, MaxInclusive: true, Score: 0},
		},
		FeelsLike: BandSet{
			{Min: -inf, Max: 3, MinInclusive: true, MaxInclusive: false, Score: 20},
			{Min: 3, Max: 6, MinInclusive: true, MaxInclusive: false, Score: 10},
			{Min: 6, Max: inf, MinInclusive: true, MaxInclusive: true, Score: 0},
		},
		Clouds: BandSet{
			{Min: 0, Max: 20, MinInclusive: true, MaxInclusive: false, Score: 20},
			{Min: 20, Max: 40, MinInclusive: true, MaxInclusive: false, Score: 15},
			{Min: 40, Max: 60, MinInclusive: true, MaxInclusive: false, Score: 10},
			{Min: 60, Max: 80, MinInclusive: true, MaxInclusive: false, Score: 5},
			{Min: 80, Max: 100, MinInclusive: true, MaxInclusive: true, Score: 0},
		},
		Pop: BandSet{
			{Min: 0, Max: 0, MinInclusive: true, MaxInclusive: true, Score: 20},
			{Min: 0, Max: 0.1, MinInclusive: false, MaxInclusive: false, Score: 15},
			{Min: 0.1, Max: 0.3, MinInclusive: true, MaxInclusive: false, Score: 10},
			{Min: 0.3, Max: 0.5, MinInclusive: true, MaxInclusive: false, Score: 5},
			{Min: 0.5, Max: 1, MinInclusive: true, MaxInclusive: true, Score: 0},
		},
	}
}

// Validate validates every band set.
func (b Bands) Validate() error {
	sets := []struct {
		name string
		set  BandSet
	}{
		{"temp_day", b.TempDay},
		{"feels_like", b.FeelsLike},
		{"clouds", b.Clouds},
		{"pop", b.Pop},
	}
	for _, s := range sets {
		if err := s.set.Validate(); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return nil
}

// ScoreBander assigns sub-scores to weekly metrics.
type ScoreBander struct {
	bands Bands
}

// NewScoreBander creates a ScoreBander over the given bands.
func NewScoreBander(bands Bands) *ScoreBander {
	return &ScoreBander{bands: bands}
}

// Score bands each weekly mean into its sub-score.
func (s *ScoreBander) Score(m WeeklyMetrics) SubScores {
	return SubScores{
		TempDay:   s.bands.TempDay.Score(m.TempDayMean),
		FeelsLike: s.bands.FeelsLike.Score(m.DiffFeelsLikeMean),
		Clouds:    s.bands.Clouds.Score(m.CloudsMean),
		Pop:       s.bands.Pop.Score(m.PopMean),
	}
}
