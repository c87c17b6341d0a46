package objectstore

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/couchcryptid/destination-weather-etl/internal/domain"
)

type oneCallResponse struct {
	Daily []dailyForecast `json:"daily"`
}

type dailyForecast struct {
	Dt   int64 `json:"dt"`
	Temp struct {
		Day   float64 `json:"day"`
		Night float64 `json:"night"`
		Min   float64 `json:"min"`
		Max   float64 `json:"max"`
		Eve   float64 `json:"eve"`
		Morn  float64 `json:"morn"`
	} `json:"temp"`
	FeelsLike struct {
		Day   float64 `json:"day"`
		Night float64 `json:"night"`
		Eve   float64 `json:"eve"`
		Morn  float64 `json:"morn"`
	} `json:"feels_like"`
	Humidity  float64 `json:"humidity"`
	WindSpeed float64 `json:"wind_speed"`
	Weather   []struct {
		Main string `json:"main"`
	} `json:"weather"`
	// Percentages may be fractional; they are rounded to whole percent.
	Clouds float64 `json:"clouds"`
	Pop    float64 `json:"pop"`
}

// DecodeForecasts reads a `{ "<name>": {"daily": [...]}, ... }` document of
// One Call responses keyed by location name.
func DecodeForecasts(r io.Reader) (map[string][]domain.ForecastDay, error) {
	var raw map[string]oneCallResponse
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode forecasts: %w", err)
	}

	out := make(map[string][]domain.ForecastDay, len(raw))
	for name, resp := range raw {
		series := make([]domain.ForecastDay, 0, len(resp.Daily))
		for _, d := range resp.Daily {
			series = append(series, d.toForecastDay())
		}
		out[name] = series
	}
	return out, nil
}

func (d dailyForecast) toForecastDay() domain.ForecastDay {
	day := domain.ForecastDay{
		TempDay:        d.Temp.Day,
		TempNight:      d.Temp.Night,
		TempMin:        d.Temp.Min,
		TempMax:        d.Temp.Max,
		TempEve:        d.Temp.Eve,
		TempMorn:       d.Temp.Morn,
		FeelsLikeDay:   d.FeelsLike.Day,
		FeelsLikeNight: d.FeelsLike.Night,
		FeelsLikeEve:   d.FeelsLike.Eve,
		FeelsLikeMorn:  d.FeelsLike.Morn,
		Humidity:       int(math.Round(d.Humidity)),
		WindSpeed:      d.WindSpeed,
		Clouds:         int(math.Round(d.Clouds)),
		Pop:            d.Pop,
	}
	if d.Dt != 0 {
		day.Timestamp = time.Unix(d.Dt, 0).UTC()
	}
	if len(d.Weather) > 0 {
		day.WeatherMain = d.Weather[0].Main
	}
	return day
}
