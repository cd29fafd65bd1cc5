// Package model defines the data structures shared by the catalog clients,
// the result aggregator and the dispatch router.
//
// This package contains the following main types:
//   - Platform: the catalog a result came from, with its display name and icon
//   - SearchResult: a single link returned by a catalog
//   - Digest: the aggregated, truncated result list for one query
//
// Models live in their own package so that catalog, report and dispatch can
// all depend on them without importing each other.
package model
