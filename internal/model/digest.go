package model

// DefaultMaxResults is the number of results a digest keeps.
const DefaultMaxResults = 10

// Digest is the aggregated result list for one query.
// Results keep the order in which the catalogs were merged.
type Digest struct {
	// Query is the search text the digest answers.
	Query string `json:"query"`

	// Results holds at most the configured maximum number of results.
	Results []SearchResult `json:"results"`

	// Available is the number of results before truncation.
	Available int `json:"available"`
}

// IsEmpty reports whether the digest has no results to show.
func (d *Digest) IsEmpty() bool {
	return d == nil || len(d.Results) == 0
}

// Truncated reports whether results were dropped to fit the budget.
func (d *Digest) Truncated() bool {
	return d != nil && d.Available > len(d.Results)
}

// CountByPlatform returns how many kept results came from each platform.
func (d *Digest) CountByPlatform() map[Platform]int {
	counts := make(map[Platform]int)
	if d == nil {
		return counts
	}
	for _, r := range d.Results {
		counts[r.Platform()]++
	}
	return counts
}
