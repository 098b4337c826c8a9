package models

import (
	"fmt"
	"time"
)

// Headline is one normalized news item. It is never persisted and is replaced
// wholesale on every refresh.
type Headline struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	ImageURL    string `json:"urlToImage,omitempty"`
	PublishedAt string `json:"publishedAt"`
	SourceName  string `json:"source"`
	Content     string `json:"content"`
}

// Key returns the URL, or an ordinal key for items the provider sent without one.
func (h Headline) Key(index int) string {
	if h.URL != "" {
		return h.URL
	}
	return fmt.Sprintf("item-%d", index)
}

// Body is the text handed to the joke backends: the description, or the
// content when the description is empty.
func (h Headline) Body() string {
	if h.Description != "" {
		return h.Description
	}
	return h.Content
}

// PublicationDate truncates PublishedAt to a UTC calendar day (YYYY-MM-DD).
func (h Headline) PublicationDate() (string, error) {
	ts, err := time.Parse(time.RFC3339, h.PublishedAt)
	if err != nil {
		return "", fmt.Errorf("invalid publishedAt %q: %w", h.PublishedAt, err)
	}
	return ts.UTC().Format(time.DateOnly), nil
}
