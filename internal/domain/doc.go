// Package domain ranks travel destinations by short-term weather desirability.
//
// # Data Sources
//
// Two inputs feed every run. The coordinate input maps a location name to a
// list of geocoding candidates (Nominatim search results); the first candidate
// is authoritative. The forecast input maps the same names to a daily forecast
// series (OpenWeather One Call "daily" entries). Index 0 of a series is today
// and is never aggregated, so an 8-day series contributes exactly 7 days.
//
// # Stages
//
//	BuildLocations  coordinate input → LocationRecord (IDs 1..n in input order)
//	Aggregate       LocationRecord + series → WeeklyMetrics (means over days 1..n-1)
//	ScoreBander     WeeklyMetrics → SubScores via ordered threshold bands
//	Ranker          SubScores → GlobalScore and a total order
//	Selector        ranking → top N rows, or the rows named by an override list
//
// Engine runs the stages in sequence. Every stage is pure: the only input
// besides the data is the immutable ScoringConfig.
//
// # Scoring Policy
//
// Bands (first match wins, no match scores 0):
//
//	temp_day_mean (°C):        18–25 → 20 | 13–18 or 25–30 → 10 | otherwise 0
//	diff_feels_like_mean (°C): <3 → 20 | 3–6 → 10 | ≥6 → 0
//	clouds_mean (%):           <20 → 20 | <40 → 15 | <60 → 10 | <80 → 5 | ≤100 → 0
//	pop_mean (0–1):            0 → 20 | <0.1 → 15 | <0.3 → 10 | <0.5 → 5 | ≤1 → 0
//
// diff_feels_like_mean is |mean(temp_day) − mean(feels_like_day)|: the drift of
// the week's average perceived temperature, not the mean daily drift.
//
// Global score = 0.2·temp + 0.2·feels_like + 0.1·clouds + 0.5·pop, so it lies in
// [0, 20]. Ties are broken by pop, temp, feels_like then clouds scores, all
// descending; fully tied locations keep input order.
//
// # Data Quality
//
// Problems with a single location never fail a run. They are returned as
// [Issue] values: JoinMismatch (a name present in only one input), EmptySeries
// (no days after today, so every mean is NaN), MissingCoordinates (no
// candidates) and OverrideMiss (an override name that is not ranked). A run
// fails with [ErrNoValidLocations] only when nothing could be ranked.
package domain
