package objectstore

import (
	"bytes"
	"context"
	"fmt"

	"github.com/couchcryptid/destination-weather-etl/internal/domain"
)

// Keys locates the inputs of a run in the store.
type Keys struct {
	Coordinates string
	Forecasts   string
	// Hotels is optional; empty disables hotel enrichment.
	Hotels string
}

// Source extracts the run inputs from a Store.
type Source struct {
	store Store
	keys  Keys
}

// NewSource creates a Source reading the given keys.
func NewSource(store Store, keys Keys) *Source {
	return &Source{store: store, keys: keys}
}

func (s *Source) LoadCoordinates(ctx context.Context) ([]domain.NamedCoordinates, error) {
	data, err := s.store.Get(ctx, s.keys.Coordinates)
	if err != nil {
		return nil, fmt.Errorf("load coordinates: %w", err)
	}
	return DecodeCoordinates(bytes.NewReader(data))
}

func (s *Source) LoadForecasts(ctx context.Context) (map[string][]domain.ForecastDay, error) {
	data, err := s.store.Get(ctx, s.keys.Forecasts)
	if err != nil {
		return nil, fmt.Errorf("load forecasts: %w", err)
	}
	return DecodeForecasts(bytes.NewReader(data))
}

// LoadHotels returns nil when no hotels key is configured.
func (s *Source) LoadHotels(ctx context.Context) ([]domain.HotelRecord, error) {
	if s.keys.Hotels == "" {
		return nil, nil
	}
	data, err := s.store.Get(ctx, s.keys.Hotels)
	if err != nil {
		return nil, fmt.Errorf("load hotels: %w", err)
	}
	hotels, err := DecodeHotels(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("load hotels: %w", err)
	}
	return hotels, nil
}
