package domain

// Report is the output of one pipeline run handed to every loader.
type Report struct {
	RunID string `json:"run_id"`
	Result
	Hotels []EnrichedHotel `json:"hotels,omitempty"`
}

// Top returns at most n rows of the full ranking.
func (r *Report) Top(n int) []ScoredLocation {
	if n < 0 || n > len(r.Ranking) {
		n = len(r.Ranking)
	}
	return r.Ranking[:n]
}
