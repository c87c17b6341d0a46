package domain

import (
	"math"
	"slices"
)

// BuildLocations enumerates the coordinate input into LocationRecords with
// IDs 1..n in input order. The first candidate of each entry is used. Entries
// without candidates are reported as MissingCoordinates; repeated names keep
// their first occurrence.
func BuildLocations(coords []NamedCoordinates) ([]LocationRecord, []Issue) {
	locations := make([]LocationRecord, 0, len(coords))
	var issues []Issue
	seen := make(map[string]bool, len(coords))

	for _, c := range coords {
		if seen[c.Name] {
			continue
		}
		seen[c.Name] = true

		if len(c.Candidates) == 0 {
			issues = append(issues, Issue{Kind: IssueMissingCoordinates, Name: c.Name, Detail: "no coordinate candidates"})
			continue
		}
		first := c.Candidates[0]
		locations = append(locations, LocationRecord{
			ID:        len(locations) + 1,
			Name:      c.Name,
			Longitude: first.Lon,
			Latitude:  first.Lat,
		})
	}
	return locations, issues
}

// ComputeWeeklyMetrics averages a forecast series over its retained days:
// index 0 (today) is always dropped. With no retained days every mean is NaN
// and Valid reports false.
func ComputeWeeklyMetrics(loc LocationRecord, series []ForecastDay) WeeklyMetrics {
	m := WeeklyMetrics{Location: loc}
	if len(series) <= 1 {
		nan := math.NaN()
		m.TempDayMean, m.FeelsLikeDayMean, m.DiffFeelsLikeMean, m.CloudsMean, m.PopMean = nan, nan, nan, nan, nan
		return m
	}

	retained := series[1:]
	var sumTemp, sumFeels, sumClouds, sumPop float64
	for _, d := range retained {
		sumTemp += d.TempDay
		sumFeels += d.FeelsLikeDay
		sumClouds += float64(d.Clouds)
		sumPop += d.Pop
	}

	n := float64(len(retained))
	m.Days = len(retained)
	m.TempDayMean = sumTemp / n
	m.FeelsLikeDayMean = sumFeels / n
	// Drift between the two weekly means, not the mean of daily drifts.
	m.DiffFeelsLikeMean = math.Abs(m.TempDayMean - m.FeelsLikeDayMean)
	m.CloudsMean = sumClouds / n
	m.PopMean = sumPop / n
	return m
}

// Aggregate produces one WeeklyMetrics per location that has a forecast series
// with at least one retained day, in location order. Locations without a
// series and series without a location are JoinMismatch issues; locations
// whose series has no retained days are EmptySeries issues. Neither is
// included in the returned metrics.
func Aggregate(locations []LocationRecord, forecasts map[string][]ForecastDay) ([]WeeklyMetrics, []Issue) {
	metrics := make([]WeeklyMetrics, 0, len(locations))
	var issues []Issue
	known := make(map[string]bool, len(locations))

	for _, loc := range locations {
		known[loc.Name] = true

		series, ok := forecasts[loc.Name]
		if !ok {
			issues = append(issues, Issue{Kind: IssueJoinMismatch, Name: loc.Name, Detail: "no forecast series"})
			continue
		}
		m := ComputeWeeklyMetrics(loc, series)
		if !m.Valid() {
			issues = append(issues, Issue{Kind: IssueEmptySeries, Name: loc.Name, Detail: "no forecast days after today"})
			continue
		}
		metrics = append(metrics, m)
	}

	var orphans []string
	for name := range forecasts {
		if !known[name] {
			orphans = append(orphans, name)
		}
	}
	slices.Sort(orphans)
	for _, name := range orphans {
		issues = append(issues, Issue{Kind: IssueJoinMismatch, Name: name, Detail: "no coordinates"})
	}

	return metrics, issues
}
