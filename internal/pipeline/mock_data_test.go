package pipeline_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/destination-weather-etl/internal/adapter/objectstore"
	"github.com/couchcryptid/destination-weather-etl/internal/domain"
	"github.com/couchcryptid/destination-weather-etl/internal/pipeline"
)

const mockDataDir = "../../data/mock"

func mockSource() *objectstore.Source {
	return objectstore.NewSource(objectstore.NewFileStore(mockDataDir), objectstore.Keys{
		Coordinates: "nominatim_cities.json",
		Forecasts:   "openweather_data.json",
		Hotels:      "booking_hotels_raw.csv",
	})
}

func TestPipeline_WithMockData(t *testing.T) {
	ctx := context.Background()
	out := objectstore.NewFileStore(t.TempDir())
	loaders := []pipeline.Loader{
		objectstore.NewSelectionWriter(out, "selection.csv"),
		objectstore.NewRankingWriter(out, "ranking.json"),
	}
	p := pipeline.New(mockSource(), newTransformer(t, nil, nil), loaders, discardLogger(), newTestMetrics())

	report, err := p.RunOnce(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"1. Aix en Provence", "2. Marseille", "3. Colmar", "4. Strasbourg",
		"5. Nimes", "6. Carcassonne", "7. Paris", "8. Biarritz",
		"9. St Malo", "10. Mont Saint Michel", "11. Lille",
	}, rankLabels(report.Ranking))
	assert.InDelta(t, 20.0, report.Ranking[0].GlobalScore, 1e-9)
	assert.InDelta(t, report.Ranking[4].GlobalScore, report.Ranking[5].GlobalScore, 1e-9)

	assert.Equal(t, []string{"Aix en Provence", "Marseille", "Colmar", "Strasbourg", "Nimes"}, report.Selection.Names())
	assert.Equal(t, []string{"Bormes les Mimosas"}, domain.IssuesOf(report.Issues, domain.IssueMissingCoordinates))
	assert.ElementsMatch(t, []string{"Ariege", "Rome"}, domain.IssuesOf(report.Issues, domain.IssueJoinMismatch))

	// The first forecast day is excluded from every mean.
	for _, m := range report.Metrics {
		assert.Equal(t, 7, m.Days, m.Location.Name)
		assert.Less(t, m.PopMean, 1.0, m.Location.Name)
	}

	require.Len(t, report.Hotels, 6)
	assert.Equal(t, 3, domain.Matched(report.Hotels))

	t.Run("selection csv", func(t *testing.T) {
		data, err := out.Get(ctx, "selection.csv")
		require.NoError(t, err)

		records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 6)
		assert.Equal(t, domain.OutputColumns, records[0])
		assert.Equal(t, "Aix en Provence", records[1][0])
		assert.Equal(t, "1. Aix en Provence", records[1][len(records[1])-1])
	})

	t.Run("ranking json", func(t *testing.T) {
		data, err := out.Get(ctx, "ranking.json")
		require.NoError(t, err)

		var doc objectstore.RankingDocument
		require.NoError(t, json.Unmarshal(data, &doc))
		assert.Equal(t, report.RunID, doc.RunID)
		assert.Len(t, doc.Ranking, 11)
		assert.Len(t, doc.Issues, 3)
	})
}

func TestPipeline_WithMockData_Override(t *testing.T) {
	p := pipeline.New(mockSource(), newTransformer(t, nil, []string{"Lille", "Paris", "Ariege"}), nil, discardLogger(), newTestMetrics())

	report, err := p.RunOnce(context.Background())
	require.NoError(t, err)

	assert.True(t, report.Selection.Override)
	assert.Equal(t, []string{"Paris", "Lille"}, report.Selection.Names())
	assert.Equal(t, 7, report.Selection.Rows[0].Position)
	assert.Equal(t, 11, report.Selection.Rows[1].Position)
	assert.Equal(t, []string{"Ariege"}, domain.IssuesOf(report.Issues, domain.IssueOverrideMiss))
	assert.Equal(t, 1, domain.Matched(report.Hotels))
}

func TestPipeline_WithMockData_Geocoded(t *testing.T) {
	geocoder := &mockGeocoder{results: map[string]domain.GeocodingResult{
		"Bormes les Mimosas": {Lat: 43.1507, Lon: 6.3419, PlaceName: "Bormes-les-Mimosas, Var, France"},
	}}
	p := pipeline.New(mockSource(), newTransformer(t, geocoder, nil), nil, discardLogger(), newTestMetrics())

	report, err := p.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Empty(t, domain.IssuesOf(report.Issues, domain.IssueMissingCoordinates))
	assert.Len(t, report.Ranking, 12)
	assert.Contains(t, rankNames(report.Ranking), "Bormes les Mimosas")
}

func rankLabels(ranked []domain.ScoredLocation) []string {
	labels := make([]string, len(ranked))
	for i, r := range ranked {
		labels[i] = r.Rank
	}
	return labels
}

func rankNames(ranked []domain.ScoredLocation) []string {
	names := make([]string, len(ranked))
	for i, r := range ranked {
		names[i] = r.Location.Name
	}
	return names
}
