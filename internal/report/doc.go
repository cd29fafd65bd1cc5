// Package report merges catalog results into a digest and renders it.
//
// Aggregate concatenates the per-catalog result lists in registry order and
// truncates the merged list; it never re-ranks across catalogs.
//
// Writers render a digest in different formats:
//   - MarkdownWriter: link-formatted text for chat clients
//   - SimpleWriter: the same ordered list without any formatting markers
//   - JSONWriter: structured output for tool integration
package report
