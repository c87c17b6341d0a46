package domain

import (
	"math"
	"time"
)

// ForecastDay is one daily entry of a location's forecast series.
type ForecastDay struct {
	TempDay   float64 `json:"temp_day"`
	TempNight float64 `json:"temp_night"`
	TempMin   float64 `json:"temp_min"`
	TempMax   float64 `json:"temp_max"`
	TempEve   float64 `json:"temp_eve"`
	TempMorn  float64 `json:"temp_morn"`

	FeelsLikeDay   float64 `json:"feels_like_day"`
	FeelsLikeNight float64 `json:"feels_like_night"`
	FeelsLikeEve   float64 `json:"feels_like_eve"`
	FeelsLikeMorn  float64 `json:"feels_like_morn"`

	Humidity    int     `json:"humidity"`
	WindSpeed   float64 `json:"wind_speed"`
	WeatherMain string  `json:"weather_main"`
	Clouds      int     `json:"clouds"` // cover, 0-100
	Pop         float64 `json:"pop"`    // precipitation probability, 0-1

	Timestamp time.Time `json:"timestamp"`
}

// DateLabel returns the calendar date of the forecast day in UTC.
func (d ForecastDay) DateLabel() string {
	if d.Timestamp.IsZero() {
		return ""
	}
	return d.Timestamp.UTC().Format(time.DateOnly)
}

// Coordinates is a WGS-84 longitude/latitude pair.
type Coordinates struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// NamedCoordinates is one entry of the coordinate input: a location name and
// its geocoding candidates. The first candidate is authoritative.
type NamedCoordinates struct {
	Name       string
	Candidates []Coordinates
}

// LocationRecord is a location with a stable, enumeration-derived ID.
type LocationRecord struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

// WeeklyMetrics holds the mean metrics of a location over its retained days.
type WeeklyMetrics struct {
	Location          LocationRecord `json:"location"`
	Days              int            `json:"days"`
	TempDayMean       float64        `json:"temp_day_mean"`
	FeelsLikeDayMean  float64        `json:"feels_like_day_mean"`
	DiffFeelsLikeMean float64        `json:"diff_feels_like_mean"`
	CloudsMean        float64        `json:"clouds_mean"`
	PopMean           float64        `json:"pop_mean"`
}

// Valid reports whether the metrics were computed from at least one day and
// every mean is a number.
func (m WeeklyMetrics) Valid() bool {
	if m.Days == 0 {
		return false
	}
	for _, v := range []float64{m.TempDayMean, m.FeelsLikeDayMean, m.DiffFeelsLikeMean, m.CloudsMean, m.PopMean} {
		if math.IsNaN(v) {
			return false
		}
	}
	return true
}

// SubScores are the banded scores of the four weekly metrics.
type SubScores struct {
	TempDay   int `json:"temp_day_score"`
	FeelsLike int `json:"feels_like_score"`
	Clouds    int `json:"clouds_score"`
	Pop       int `json:"pop_score"`
}

// ScoredLocation is a location's metrics with its sub-scores, composite score
// and, once ranked, its position and rank label ("1. Paris").
type ScoredLocation struct {
	WeeklyMetrics
	Scores      SubScores `json:"scores"`
	GlobalScore float64   `json:"global_score"`
	Position    int       `json:"position,omitempty"`
	Rank        string    `json:"rank,omitempty"`
}

// OutputRow is the projected column set of a selected location. Position is
// the 1-based place in the full ranking, not in the selection.
type OutputRow struct {
	Position     int     `json:"position"`
	Name         string  `json:"name"`
	Longitude    float64 `json:"longitude"`
	Latitude     float64 `json:"latitude"`
	TempDayMean  float64 `json:"temp_day_mean"`
	CloudsMean   float64 `json:"clouds_mean"`
	PopMean      float64 `json:"pop_mean"`
	TempDayScore int     `json:"temp_day_score"`
	CloudsScore  int     `json:"clouds_score"`
	PopScore     int     `json:"pop_score"`
	GlobalScore  float64 `json:"global_score"`
	Rank         string  `json:"rank"`
}

// OutputColumns is the header of the selection table, in column order.
var OutputColumns = []string{
	"name", "longitude", "latitude",
	"temp_day_mean", "clouds_mean", "pop_mean",
	"temp_day_score", "clouds_score", "pop_score", "global_score",
	"rank",
}

// Row projects a ranked location onto the output column set.
func (s ScoredLocation) Row() OutputRow {
	return OutputRow{
		Position:     s.Position,
		Name:         s.Location.Name,
		Longitude:    s.Location.Longitude,
		Latitude:     s.Location.Latitude,
		TempDayMean:  s.TempDayMean,
		CloudsMean:   s.CloudsMean,
		PopMean:      s.PopMean,
		TempDayScore: s.Scores.TempDay,
		CloudsScore:  s.Scores.Clouds,
		PopScore:     s.Scores.Pop,
		GlobalScore:  s.GlobalScore,
		Rank:         s.Rank,
	}
}
