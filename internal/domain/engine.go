package domain

import (
	"fmt"
	"time"
)

// ScoringConfig is the immutable scoring policy of an Engine.
type ScoringConfig struct {
	Bands   Bands
	Weights Weights
	TopN    int
}

// DefaultScoringConfig returns the fixed bands, weights and top-5 selection.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		Bands:   DefaultBands(),
		Weights: DefaultWeights(),
		TopN:    DefaultTopN,
	}
}

// Validate checks bands, weights and the selection size.
func (c ScoringConfig) Validate() error {
	if err := c.Bands.Validate(); err != nil {
		return err
	}
	if err := c.Weights.Validate(); err != nil {
		return err
	}
	if c.TopN < 1 {
		return fmt.Errorf("top n must be at least 1, got %d", c.TopN)
	}
	return nil
}

// Result is the outcome of one evaluation.
type Result struct {
	Locations   []LocationRecord `json:"locations"`
	Metrics     []WeeklyMetrics  `json:"metrics"`
	Ranking     []ScoredLocation `json:"ranking"`
	Selection   Selection        `json:"selection"`
	Issues      []Issue          `json:"issues,omitempty"`
	EvaluatedAt time.Time        `json:"evaluated_at"`
}

// Engine runs the aggregate, band, rank and select stages in sequence.
type Engine struct {
	bander   *ScoreBander
	ranker   *Ranker
	selector *Selector
}

// NewEngine validates cfg and builds an Engine from it.
func NewEngine(cfg ScoringConfig) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("scoring config: %w", err)
	}
	return &Engine{
		bander:   NewScoreBander(cfg.Bands),
		ranker:   NewRanker(cfg.Weights),
		selector: NewSelector(cfg.TopN),
	}, nil
}

// Evaluate ranks the locations of coords using forecasts and selects the
// final set. Per-location problems are collected in Result.Issues; the
// returned error is ErrNoValidLocations when nothing could be ranked.
func (e *Engine) Evaluate(coords []NamedCoordinates, forecasts map[string][]ForecastDay, override []string) (Result, error) {
	res := Result{EvaluatedAt: clock.Now().UTC()}

	locations, issues := BuildLocations(coords)
	res.Locations = locations
	res.Issues = append(res.Issues, issues...)

	// Names without coordinates were already reported; keep them out of the
	// join so they are not reported twice.
	if len(issues) > 0 {
		forecasts = withoutNames(forecasts, IssuesOf(issues, IssueMissingCoordinates))
	}

	metrics, issues := Aggregate(locations, forecasts)
	res.Metrics = metrics
	res.Issues = append(res.Issues, issues...)

	scored := make([]ScoredLocation, len(metrics))
	for i, m := range metrics {
		scored[i] = ScoredLocation{WeeklyMetrics: m, Scores: e.bander.Score(m)}
	}
	res.Ranking = e.ranker.Rank(scored)

	res.Selection = e.selector.Select(res.Ranking, override)
	for _, name := range res.Selection.Unmatched {
		res.Issues = append(res.Issues, Issue{Kind: IssueOverrideMiss, Name: name, Detail: "not in ranking"})
	}

	if len(res.Ranking) == 0 {
		return res, ErrNoValidLocations
	}
	return res, nil
}

func withoutNames(forecasts map[string][]ForecastDay, names []string) map[string][]ForecastDay {
	if len(names) == 0 {
		return forecasts
	}
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	out := make(map[string][]ForecastDay, len(forecasts))
	for name, series := range forecasts {
		if !drop[name] {
			out[name] = series
		}
	}
	return out
}
