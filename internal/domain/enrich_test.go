package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrichHotels(t *testing.T) {
	cols := []string{"hotel_name", "url"}
	hotels := []HotelRecord{
		{City: "Paris", Columns: cols, Attributes: []string{"Le Marais", "https://example.com/1"}},
		{City: "Brest", Columns: cols, Attributes: []string{"Le Port", "https://example.com/2"}},
		{City: "Paris", Columns: cols, Attributes: []string{"Montmartre", "https://example.com/3"}},
	}
	rows := []OutputRow{
		{Name: "Paris", Longitude: 2.35, Latitude: 48.85, TempDayMean: 21, CloudsMean: 10, PopMean: 0, GlobalScore: 20},
		{Name: "Nice", GlobalScore: 18},
	}

	enriched := EnrichHotels(hotels, rows)

	require.Len(t, enriched, 3)
	assert.Equal(t, "Le Marais", enriched[0].Attributes[0])
	require.NotNil(t, enriched[0].Weather)
	assert.Equal(t, CityWeather{Longitude: 2.35, Latitude: 48.85, TempDayMean: 21, CloudsMean: 10, GlobalScore: 20}, *enriched[0].Weather)
	assert.Nil(t, enriched[1].Weather)
	require.NotNil(t, enriched[2].Weather)
	assert.Equal(t, 2, Matched(enriched))

	// Each hotel holds its own copy.
	enriched[0].Weather.GlobalScore = 0
	assert.Equal(t, 20.0, enriched[2].Weather.GlobalScore)
}

func TestEnrichHotels_Empty(t *testing.T) {
	assert.Empty(t, EnrichHotels(nil, []OutputRow{{Name: "Paris"}}))
	enriched := EnrichHotels([]HotelRecord{{City: "Paris"}}, nil)
	require.Len(t, enriched, 1)
	assert.Equal(t, 0, Matched(enriched))
}

func TestReport_Top(t *testing.T) {
	r := &Report{Result: Result{Ranking: []ScoredLocation{scored("A", 0, 0, 0, 0), scored("B", 0, 0, 0, 0)}}}

	assert.Len(t, r.Top(1), 1)
	assert.Len(t, r.Top(10), 2)
	assert.Len(t, r.Top(-1), 2)
	assert.Empty(t, (&Report{}).Top(5))
}
