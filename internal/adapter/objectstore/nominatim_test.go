package objectstore

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/destination-weather-etl/internal/domain"
)

func TestDecodeCoordinates_KeepsDocumentOrder(t *testing.T) {
	doc := `{
		"Paris": [
			{"place_id": 1, "lat": "48.8588897", "lon": "2.3200410", "display_name": "Paris, France"},
			{"place_id": 2, "lat": "33.6617962", "lon": "-95.5555130", "display_name": "Paris, Texas"}
		],
		"Mont Saint Michel": [{"lat": 48.6359541, "lon": -1.511459954}],
		"Bormes les Mimosas": [],
		"Aigues Mortes": [{"lat": "43.5666", "lon": "4.1916"}]
	}`

	coords, err := DecodeCoordinates(strings.NewReader(doc))
	require.NoError(t, err)

	require.Len(t, coords, 4)
	assert.Equal(t, "Paris", coords[0].Name)
	assert.Equal(t, "Mont Saint Michel", coords[1].Name)
	assert.Equal(t, "Bormes les Mimosas", coords[2].Name)
	assert.Equal(t, "Aigues Mortes", coords[3].Name)

	require.Len(t, coords[0].Candidates, 2)
	assert.InDelta(t, 2.3200410, coords[0].Candidates[0].Lon, 1e-9)
	assert.InDelta(t, 48.8588897, coords[0].Candidates[0].Lat, 1e-9)
	assert.Equal(t, domain.Coordinates{Lon: -1.511459954, Lat: 48.6359541}, coords[1].Candidates[0])
	assert.Empty(t, coords[2].Candidates)
}

func TestDecodeCoordinates_IncompletePlaces(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		expected []domain.Coordinates
	}{
		{
			name:     "later incomplete places skipped",
			doc:      `{"Gorges du Verdon": [{"lat": "43.75", "lon": "6.32"}, {"lat": "43.7"}, {"lat": null, "lon": "6.3"}, {"lat": "43.8", "lon": "6.4"}]}`,
			expected: []domain.Coordinates{{Lon: 6.32, Lat: 43.75}, {Lon: 6.4, Lat: 43.8}},
		},
		{
			name:     "incomplete first place leaves no candidates",
			doc:      `{"Paris": [{"display_name": "Paris, France"}, {"lat": "33.66", "lon": "-95.55", "display_name": "Paris, Texas"}]}`,
			expected: nil,
		},
		{
			name:     "null first coordinate leaves no candidates",
			doc:      `{"Paris": [{"lat": null, "lon": "2.35"}, {"lat": "33.66", "lon": "-95.55"}]}`,
			expected: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coords, err := DecodeCoordinates(strings.NewReader(tt.doc))
			require.NoError(t, err)
			require.Len(t, coords, 1)
			assert.Equal(t, tt.expected, coords[0].Candidates)
		})
	}
}

func TestDecodeCoordinates_IncompleteFirstPlaceIsMissingCoordinates(t *testing.T) {
	doc := `{"Paris": [{"display_name": "Paris, France"}, {"lat": "33.66", "lon": "-95.55"}], "Lille": [{"lat": "50.63", "lon": "3.06"}]}`

	coords, err := DecodeCoordinates(strings.NewReader(doc))
	require.NoError(t, err)

	locations, issues := domain.BuildLocations(coords)
	require.Len(t, locations, 1)
	assert.Equal(t, "Lille", locations[0].Name)
	assert.Equal(t, []string{"Paris"}, domain.IssuesOf(issues, domain.IssueMissingCoordinates))
}

func TestDecodeCoordinates_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty input", ``},
		{"array root", `[{"lat": "1", "lon": "2"}]`},
		{"bad coordinate", `{"Paris": [{"lat": "north", "lon": "2"}]}`},
		{"places not a list", `{"Paris": {"lat": "1"}}`},
		{"truncated", `{"Paris": [`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeCoordinates(strings.NewReader(tt.doc))
			assert.Error(t, err)
		})
	}
}
