package domain

// HotelRecord is a lodging row keyed by the city it belongs to. Columns other
// than the city are kept verbatim in Attributes, ordered as in Columns.
type HotelRecord struct {
	City       string
	Columns    []string
	Attributes []string
}

// CityWeather is the weather block joined onto a hotel.
type CityWeather struct {
	Longitude   float64 `json:"longitude"`
	Latitude    float64 `json:"latitude"`
	TempDayMean float64 `json:"temp_day_mean"`
	CloudsMean  float64 `json:"clouds_mean"`
	PopMean     float64 `json:"pop_mean"`
	GlobalScore float64 `json:"global_score"`
}

// EnrichedHotel is a hotel with the weather of its city, or nil Weather when
// the city was not selected.
type EnrichedHotel struct {
	HotelRecord
	Weather *CityWeather
}

// EnrichHotels left-joins hotels with the selected rows on city name. Every
// hotel is returned, in input order.
func EnrichHotels(hotels []HotelRecord, rows []OutputRow) []EnrichedHotel {
	byName := make(map[string]CityWeather, len(rows))
	for _, r := range rows {
		byName[r.Name] = CityWeather{
			Longitude:   r.Longitude,
			Latitude:    r.Latitude,
			TempDayMean: r.TempDayMean,
			CloudsMean:  r.CloudsMean,
			PopMean:     r.PopMean,
			GlobalScore: r.GlobalScore,
		}
	}

	out := make([]EnrichedHotel, len(hotels))
	for i, h := range hotels {
		out[i] = EnrichedHotel{HotelRecord: h}
		if w, ok := byName[h.City]; ok {
			out[i].Weather = &w
		}
	}
	return out
}

// Matched returns the number of hotels that received weather data.
func Matched(hotels []EnrichedHotel) int {
	n := 0
	for _, h := range hotels {
		if h.Weather != nil {
			n++
		}
	}
	return n
}
