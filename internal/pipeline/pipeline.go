package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	"github.com/couchcryptid/destination-weather-etl/internal/domain"
	"github.com/couchcryptid/destination-weather-etl/internal/observability"
)

// topLogged is the number of ranking rows written to the log after each run.
const topLogged = 10

// Inputs are the raw data of one run.
type Inputs struct {
	Coordinates []domain.NamedCoordinates
	Forecasts   map[string][]domain.ForecastDay
	Hotels      []domain.HotelRecord
}

// Extractor reads the run inputs. LoadHotels may return nil when hotel
// enrichment is disabled.
type Extractor interface {
	LoadCoordinates(ctx context.Context) ([]domain.NamedCoordinates, error)
	LoadForecasts(ctx context.Context) (map[string][]domain.ForecastDay, error)
	LoadHotels(ctx context.Context) ([]domain.HotelRecord, error)
}

// Transformer turns run inputs into a ranking and a selection.
type Transformer interface {
	Transform(ctx context.Context, in Inputs) (domain.Result, error)
}

// Loader writes a run report to one destination.
type Loader interface {
	Name() string
	Load(ctx context.Context, report *domain.Report) error
}

// Pipeline orchestrates extract, rank and load runs.
type Pipeline struct {
	extractor   Extractor
	transformer Transformer
	loaders     []Loader
	logger      *slog.Logger
	metrics     *observability.Metrics
	ready       atomic.Bool
	latest      atomic.Pointer[domain.Report]

	// newBackOff builds the retry policy of a failed run.
	newBackOff func() backoff.BackOff
}

// New creates a Pipeline with the given stages and observability.
func New(e Extractor, t Transformer, loaders []Loader, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		extractor:   e,
		transformer: t,
		loaders:     loaders,
		logger:      logger,
		metrics:     metrics,
		newBackOff:  defaultBackOff,
	}
}

// Exponential backoff: start at 200ms, cap at 5s, give up on a run after a minute.
func defaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	b.MaxElapsedTime = time.Minute
	return b
}

// CheckReadiness returns nil once a run has completed successfully.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no ranking run has completed yet")
	}
	return nil
}

// LatestReport returns the report of the last successful run, or nil.
func (p *Pipeline) LatestReport() *domain.Report {
	return p.latest.Load()
}

// Run executes runs until the context is cancelled. A failed run is retried
// with exponential backoff. With a zero interval Run returns after the first
// run; otherwise it re-ranks every interval.
func (p *Pipeline) Run(ctx context.Context, interval time.Duration) error {
	p.logger.Info("pipeline started", "interval", interval)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	for {
		err := p.runWithRetry(ctx)
		if ctx.Err() != nil {
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		}
		if interval <= 0 {
			return err
		}
		if err != nil {
			p.logger.Error("run failed, waiting for next interval", "error", err, "interval", interval)
		}
		if !sleepWithContext(ctx, interval) {
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		}
	}
}

// runWithRetry evaluates once and retries until every loader has accepted
// the report. Retries after a load failure re-send the same report, under the
// same run ID, to the loaders that failed only.
func (p *Pipeline) runWithRetry(ctx context.Context) error {
	var (
		report  *domain.Report
		pending []Loader
		start   time.Time
	)
	op := func() error {
		if report == nil {
			start = time.Now()
			r, err := p.evaluate(ctx)
			if errors.Is(err, domain.ErrNoValidLocations) {
				return backoff.Permanent(err)
			}
			if err != nil {
				return err
			}
			report, pending = r, p.loaders
		}

		failed, err := p.load(ctx, report, pending)
		if err != nil {
			pending = failed
			p.metrics.RunsTotal.WithLabelValues("error").Inc()
			return err
		}
		p.complete(report, start)
		return nil
	}
	notify := func(err error, wait time.Duration) {
		p.logger.Error("run failed, retrying", "error", err, "backoff", wait)
	}
	return backoff.RetryNotify(op, backoff.WithContext(p.newBackOff(), ctx), notify)
}

// RunOnce performs a single extract, rank and load cycle. On success the
// report becomes the latest report and the pipeline is marked ready.
func (p *Pipeline) RunOnce(ctx context.Context) (*domain.Report, error) {
	start := time.Now()

	report, err := p.evaluate(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := p.load(ctx, report, p.loaders); err != nil {
		p.metrics.RunsTotal.WithLabelValues("error").Inc()
		return report, err
	}
	p.complete(report, start)
	return report, nil
}

// evaluate extracts the inputs and ranks them into a new report.
func (p *Pipeline) evaluate(ctx context.Context) (*domain.Report, error) {
	runID := uuid.NewString()
	logger := p.logger.With("run_id", runID)

	in, err := p.extract(ctx)
	if err != nil {
		p.metrics.RunsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	result, err := p.transformer.Transform(ctx, in)
	p.recordIssues(logger, result.Issues)
	if err != nil {
		outcome := "error"
		if errors.Is(err, domain.ErrNoValidLocations) {
			outcome = "no_locations"
		}
		p.metrics.RunsTotal.WithLabelValues(outcome).Inc()
		return nil, fmt.Errorf("rank: %w", err)
	}

	return &domain.Report{
		RunID:  runID,
		Result: result,
		Hotels: domain.EnrichHotels(in.Hotels, result.Selection.Rows),
	}, nil
}

// complete publishes a fully loaded report.
func (p *Pipeline) complete(report *domain.Report, start time.Time) {
	p.latest.Store(report)
	p.ready.Store(true)
	p.metrics.RunsTotal.WithLabelValues("success").Inc()
	p.metrics.RunDuration.Observe(time.Since(start).Seconds())
	p.metrics.LocationsRanked.Set(float64(len(report.Ranking)))
	p.metrics.LastSuccess.SetToCurrentTime()

	logger := p.logger.With("run_id", report.RunID)
	p.logRanking(logger, report)
	logger.Info("run complete",
		"locations", len(report.Locations),
		"ranked", len(report.Ranking),
		"selected", len(report.Selection.Rows),
		"override", report.Selection.Override,
		"issues", len(report.Issues),
		"hotels", len(report.Hotels),
		"hotels_matched", domain.Matched(report.Hotels),
		"duration", time.Since(start),
	)
}

func (p *Pipeline) extract(ctx context.Context) (Inputs, error) {
	coords, err := p.extractor.LoadCoordinates(ctx)
	if err != nil {
		return Inputs{}, fmt.Errorf("extract: %w", err)
	}
	forecasts, err := p.extractor.LoadForecasts(ctx)
	if err != nil {
		return Inputs{}, fmt.Errorf("extract: %w", err)
	}
	hotels, err := p.extractor.LoadHotels(ctx)
	if err != nil {
		return Inputs{}, fmt.Errorf("extract: %w", err)
	}
	return Inputs{Coordinates: coords, Forecasts: forecasts, Hotels: hotels}, nil
}

// load runs every given loader, even after a failure, and joins their errors.
// It returns the loaders that failed.
func (p *Pipeline) load(ctx context.Context, report *domain.Report, loaders []Loader) ([]Loader, error) {
	logger := p.logger.With("run_id", report.RunID)
	var (
		failed []Loader
		errs   []error
	)
	for _, l := range loaders {
		if err := l.Load(ctx, report); err != nil {
			p.metrics.Loads.WithLabelValues(l.Name(), "error").Inc()
			logger.Error("load failed", "sink", l.Name(), "error", err)
			failed = append(failed, l)
			errs = append(errs, fmt.Errorf("load %s: %w", l.Name(), err))
			continue
		}
		p.metrics.Loads.WithLabelValues(l.Name(), "success").Inc()
	}
	return failed, errors.Join(errs...)
}

func (p *Pipeline) recordIssues(logger *slog.Logger, issues []domain.Issue) {
	for _, issue := range issues {
		p.metrics.Issues.WithLabelValues(string(issue.Kind)).Inc()
		logger.Warn("data quality issue",
			"kind", issue.Kind,
			"location", issue.Name,
			"detail", issue.Detail,
		)
	}
}

func (p *Pipeline) logRanking(logger *slog.Logger, report *domain.Report) {
	for _, r := range report.Top(topLogged) {
		logger.Info("ranking",
			"rank", r.Rank,
			"global_score", r.GlobalScore,
			"temp_day_mean", r.TempDayMean,
			"diff_feels_like_mean", r.DiffFeelsLikeMean,
			"clouds_mean", r.CloudsMean,
			"pop_mean", r.PopMean,
		)
	}
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
