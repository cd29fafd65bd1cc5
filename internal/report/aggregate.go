package report

import "github.com/NisargParmar1709/ML-dataset-bot/internal/model"

// Aggregate merges lists into a digest of at most model.DefaultMaxResults results.
func Aggregate(query string, lists ...[]model.SearchResult) *model.Digest {
	return AggregateN(query, model.DefaultMaxResults, lists...)
}

// AggregateN merges lists into a digest of at most limit results.
// Lists are concatenated in argument order and each list keeps its own order.
// A non-positive limit means model.DefaultMaxResults.
func AggregateN(query string, limit int, lists ...[]model.SearchResult) *model.Digest {
	if limit <= 0 {
		limit = model.DefaultMaxResults
	}

	available := 0
	for _, l := range lists {
		available += len(l)
	}

	results := make([]model.SearchResult, 0, min(available, limit))
	for _, l := range lists {
		for _, r := range l {
			if len(results) == limit {
				break
			}
			results = append(results, r)
		}
	}

	return &model.Digest{
		Query:     query,
		Results:   results,
		Available: available,
	}
}
