// Package pipeline runs the search request end to end.
//
// Fanout issues one query to every catalog in the registry concurrently,
// each call under its own timeout, and returns the per-catalog lists in
// registry order. SearchPipeline combines the fan-out with aggregation into
// a model.Digest.
package pipeline
