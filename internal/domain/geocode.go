package domain

import (
	"context"
	"log/slog"
	"slices"
)

// ResolveCoordinates fills in entries that have no coordinate candidates by
// forward geocoding their name. It returns a new slice; entries that already
// have candidates are untouched. If geocoder is nil or a lookup fails or
// finds nothing, the entry is left empty (graceful degradation) and will be
// reported as MissingCoordinates downstream. The second return value is the
// number of entries that were resolved.
func ResolveCoordinates(ctx context.Context, coords []NamedCoordinates, geocoder Geocoder, logger *slog.Logger) ([]NamedCoordinates, int) {
	out := slices.Clone(coords)
	if geocoder == nil {
		return out, 0
	}

	resolved := 0
	for i, c := range out {
		if len(c.Candidates) > 0 {
			continue
		}
		if ctx.Err() != nil {
			break
		}

		result, err := geocoder.ForwardGeocode(ctx, c.Name)
		if err != nil {
			logger.Warn("forward geocoding failed",
				"location", c.Name,
				"error", err,
			)
			continue
		}
		if !result.Found() {
			logger.Warn("forward geocoding found no match", "location", c.Name)
			continue
		}

		out[i].Candidates = []Coordinates{{Lon: result.Lon, Lat: result.Lat}}
		resolved++
		logger.Debug("coordinates resolved by geocoding",
			"location", c.Name,
			"place_name", result.PlaceName,
			"confidence", result.Confidence,
		)
	}
	return out, resolved
}
