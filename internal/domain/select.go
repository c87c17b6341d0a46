package domain

// DefaultTopN is the number of locations selected without an override.
const DefaultTopN = 5

// Selection is the final output set, in rank order.
type Selection struct {
	Rows []OutputRow `json:"rows"`
	// Override is true when the rows come from an override list.
	Override bool `json:"override"`
	// Unmatched lists override names that are not in the ranking.
	Unmatched []string `json:"unmatched,omitempty"`
}

// Names returns the selected location names in rank order.
func (s Selection) Names() []string {
	names := make([]string, len(s.Rows))
	for i, r := range s.Rows {
		names[i] = r.Name
	}
	return names
}

// Selector picks the final locations from a ranking.
type Selector struct {
	topN int
}

// NewSelector creates a Selector returning at most topN rows by default.
func NewSelector(topN int) *Selector {
	if topN <= 0 {
		topN = DefaultTopN
	}
	return &Selector{topN: topN}
}

// Select returns the top-N ranked rows, or the override rows when override
// is non-empty.
func (s *Selector) Select(ranked []ScoredLocation, override []string) Selection {
	if len(override) > 0 {
		return s.Override(ranked, override)
	}
	return s.Top(ranked)
}

// Top returns the first N rows of the ranking.
func (s *Selector) Top(ranked []ScoredLocation) Selection {
	n := min(s.topN, len(ranked))
	rows := make([]OutputRow, n)
	for i := range n {
		rows[i] = ranked[i].Row()
	}
	return Selection{Rows: rows}
}

// Override returns exactly the ranked rows whose name is in names, in rank
// order regardless of the order of names. Names absent from the ranking are
// returned in Unmatched, deduplicated, in the order given.
func (s *Selector) Override(ranked []ScoredLocation, names []string) Selection {
	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}

	sel := Selection{Rows: []OutputRow{}, Override: true}
	found := make(map[string]bool, len(names))
	for _, r := range ranked {
		if wanted[r.Location.Name] {
			sel.Rows = append(sel.Rows, r.Row())
			found[r.Location.Name] = true
		}
	}

	reported := make(map[string]bool)
	for _, n := range names {
		if !found[n] && !reported[n] {
			sel.Unmatched = append(sel.Unmatched, n)
			reported[n] = true
		}
	}
	return sel
}
