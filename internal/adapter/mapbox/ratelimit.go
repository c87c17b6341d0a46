package mapbox

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/couchcryptid/destination-weather-etl/internal/domain"
)

// RateLimitedGeocoder wraps a Geocoder with a token-bucket rate limit.
type RateLimitedGeocoder struct {
	inner   domain.Geocoder
	limiter *rate.Limiter
}

// NewRateLimitedGeocoder allows rps requests per second (fractional values
// allowed) with the given burst.
func NewRateLimitedGeocoder(inner domain.Geocoder, rps float64, burst int) *RateLimitedGeocoder {
	if burst < 1 {
		burst = 1
	}
	return &RateLimitedGeocoder{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

func (r *RateLimitedGeocoder) ForwardGeocode(ctx context.Context, name string) (domain.GeocodingResult, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return r.inner.ForwardGeocode(ctx, name)
}
