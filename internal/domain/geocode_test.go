package domain

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

// --- mock geocoder ---

type mockGeocoder struct {
	results map[string]GeocodingResult
	err     error
	calls   []string
}

func (m *mockGeocoder) ForwardGeocode(_ context.Context, name string) (GeocodingResult, error) {
	m.calls = append(m.calls, name)
	if m.err != nil {
		return GeocodingResult{}, m.err
	}
	return m.results[name], nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- tests ---

func TestResolveCoordinates_NilGeocoder(t *testing.T) {
	coords := []NamedCoordinates{{Name: "Paris"}}

	out, resolved := ResolveCoordinates(context.Background(), coords, nil, discardLogger())
	assert.Equal(t, 0, resolved)
	assert.Empty(t, out[0].Candidates)
}

func TestResolveCoordinates_FillsMissingOnly(t *testing.T) {
	geo := &mockGeocoder{results: map[string]GeocodingResult{
		"Bayeux": {Lat: 49.2764, Lon: -0.7024, PlaceName: "Bayeux", Confidence: 0.9},
	}}
	coords := []NamedCoordinates{
		{Name: "Paris", Candidates: []Coordinates{{Lon: 2.3522, Lat: 48.8566}}},
		{Name: "Bayeux"},
	}

	out, resolved := ResolveCoordinates(context.Background(), coords, geo, discardLogger())
	assert.Equal(t, 1, resolved)
	assert.Equal(t, []string{"Bayeux"}, geo.calls)
	assert.Equal(t, []Coordinates{{Lon: -0.7024, Lat: 49.2764}}, out[1].Candidates)
	assert.Equal(t, 2.3522, out[0].Candidates[0].Lon)
	assert.Empty(t, coords[1].Candidates, "input must not be mutated")
}

func TestResolveCoordinates_ErrorGracefulDegradation(t *testing.T) {
	geo := &mockGeocoder{err: errors.New("API timeout")}
	coords := []NamedCoordinates{{Name: "Lille"}}

	out, resolved := ResolveCoordinates(context.Background(), coords, geo, discardLogger())
	assert.Equal(t, 0, resolved)
	assert.Empty(t, out[0].Candidates)
}

func TestResolveCoordinates_EmptyResult(t *testing.T) {
	geo := &mockGeocoder{results: map[string]GeocodingResult{}}
	coords := []NamedCoordinates{{Name: "Atlantis"}}

	out, resolved := ResolveCoordinates(context.Background(), coords, geo, discardLogger())
	assert.Equal(t, 0, resolved)
	assert.Empty(t, out[0].Candidates)
	assert.Len(t, geo.calls, 1)
}

func TestResolveCoordinates_StopsOnCancelledContext(t *testing.T) {
	geo := &mockGeocoder{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, resolved := ResolveCoordinates(ctx, []NamedCoordinates{{Name: "Paris"}}, geo, discardLogger())
	assert.Equal(t, 0, resolved)
	assert.Empty(t, geo.calls)
}
