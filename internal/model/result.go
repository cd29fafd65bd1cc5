package model

import "encoding/json"

// SearchResult is a single link returned by a catalog backend.
// Values are immutable once constructed; the fields are only exposed through
// accessors so callers cannot rewrite a result after a client produced it.
type SearchResult struct {
	platform Platform
	title    string
	url      string
}

// NewSearchResult creates a SearchResult.
func NewSearchResult(platform Platform, title, url string) SearchResult {
	return SearchResult{
		platform: platform,
		title:    title,
		url:      url,
	}
}

// Platform returns the catalog the result came from.
func (r SearchResult) Platform() Platform {
	return r.platform
}

// Title returns the human-readable title of the result.
func (r SearchResult) Title() string {
	return r.title
}

// URL returns the link to the result.
func (r SearchResult) URL() string {
	return r.url
}

// resultJSON is the serialized shape of a SearchResult.
type resultJSON struct {
	Platform string `json:"platform"`
	Title    string `json:"title"`
	URL      string `json:"url"`
}

// MarshalJSON implements json.Marshaler.
func (r SearchResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(resultJSON{
		Platform: r.platform.DisplayName(),
		Title:    r.title,
		URL:      r.url,
	})
}
