package models

import "testing"

func TestHeadlineKeyFallsBackToOrdinal(t *testing.T) {
	h := Headline{Title: "no link"}
	if got := h.Key(3); got != "item-3" {
		t.Fatalf("expected ordinal key, got %q", got)
	}

	h.URL = "https://example.com/a"
	if got := h.Key(3); got != h.URL {
		t.Fatalf("expected url key, got %q", got)
	}
}

func TestHeadlineBodyPrefersDescription(t *testing.T) {
	h := Headline{Description: "desc", Content: "content"}
	if h.Body() != "desc" {
		t.Fatalf("expected description, got %q", h.Body())
	}
	h.Description = ""
	if h.Body() != "content" {
		t.Fatalf("expected content fallback, got %q", h.Body())
	}
}

func TestHeadlinePublicationDate(t *testing.T) {
	tests := []struct {
		publishedAt string
		want        string
		wantErr     bool
	}{
		{"2024-12-23T10:00:00Z", "2024-12-23", false},
		{"2024-12-23T23:30:00-05:00", "2024-12-24", false},
		{"yesterday", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := Headline{PublishedAt: tt.publishedAt}.PublicationDate()
		if (err != nil) != tt.wantErr {
			t.Fatalf("PublicationDate(%q) error = %v, wantErr %v", tt.publishedAt, err, tt.wantErr)
		}
		if got != tt.want {
			t.Fatalf("PublicationDate(%q) = %q, want %q", tt.publishedAt, got, tt.want)
		}
	}
}

func TestGeminiFirstText(t *testing.T) {
	var empty GeminiGenerateResponse
	if empty.FirstText() != "" {
		t.Fatal("expected empty text for empty response")
	}

	resp := GeminiGenerateResponse{}
	resp.Candidates = append(resp.Candidates, struct {
		Content GeminiContent `json:"content"`
	}{Content: GeminiContent{Parts: []GeminiPart{{Text: "ha"}}}})
	if resp.FirstText() != "ha" {
		t.Fatalf("expected first part text, got %q", resp.FirstText())
	}
}
