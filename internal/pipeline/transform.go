package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/destination-weather-etl/internal/domain"
)

// RankingTransformer implements Transformer: it fills missing coordinates
// with an optional geocoder, then ranks and selects through the engine.
type RankingTransformer struct {
	engine   *domain.Engine
	geocoder domain.Geocoder
	override []string
	logger   *slog.Logger
}

// NewTransformer creates a RankingTransformer. Pass a nil geocoder to disable
// the coordinate fallback and an empty override to select the top N.
func NewTransformer(engine *domain.Engine, geocoder domain.Geocoder, override []string, logger *slog.Logger) *RankingTransformer {
	return &RankingTransformer{
		engine:   engine,
		geocoder: geocoder,
		override: override,
		logger:   logger,
	}
}

func (t *RankingTransformer) Transform(ctx context.Context, in Inputs) (domain.Result, error) {
	coords := in.Coordinates
	if t.geocoder != nil {
		var resolved int
		coords, resolved = domain.ResolveCoordinates(ctx, coords, t.geocoder, t.logger)
		if resolved > 0 {
			t.logger.Info("coordinates resolved by geocoding", "count", resolved)
		}
	}
	return t.engine.Evaluate(coords, in.Forecasts, t.override)
}
