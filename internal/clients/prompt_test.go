package clients

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestBuildJokePromptTruncatesInputs(t *testing.T) {
	title := strings.Repeat("T", 150)
	body := strings.Repeat("b", 500)

	prompt := BuildJokePrompt(title, body)

	if !strings.Contains(prompt, "Title: "+strings.Repeat("T", TITLE_PROMPT_LIMIT)+"\n") {
		t.Fatalf("expected title cut to %d characters", TITLE_PROMPT_LIMIT)
	}
	if strings.Contains(prompt, strings.Repeat("T", TITLE_PROMPT_LIMIT+1)) {
		t.Fatal("title exceeds its prefix bound")
	}
	if !strings.Contains(prompt, "Content: "+strings.Repeat("b", BODY_PROMPT_LIMIT)+"\n") {
		t.Fatalf("expected body cut to %d characters", BODY_PROMPT_LIMIT)
	}
	if strings.Contains(prompt, strings.Repeat("b", BODY_PROMPT_LIMIT+1)) {
		t.Fatal("body exceeds its prefix bound")
	}
}

func TestBuildJokePromptKeepsShortInputs(t *testing.T) {
	prompt := BuildJokePrompt("Cats elected", "")
	if !strings.Contains(prompt, "Title: Cats elected\n") {
		t.Fatalf("unexpected prompt: %s", prompt)
	}
}

func TestTruncateRunesIsRuneSafe(t *testing.T) {
	in := strings.Repeat("é", 10)
	out := truncateRunes(in, 4)
	if !utf8.ValidString(out) || utf8.RuneCountInString(out) != 4 {
		t.Fatalf("expected 4 valid runes, got %q", out)
	}
	if truncateRunes("abc", 0) != "" {
		t.Fatal("expected empty string for zero limit")
	}
}

func TestCleanJokeResponse(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  A joke.  ", "A joke."},
		{"\"Quoted joke\"", "Quoted joke"},
		{"**Bold joke**", "Bold joke"},
		{"“Curly”", "Curly"},
		{"\"**Nested**\"", "Nested"},
		{"Two\nlines", "Two lines"},
		{"#1 reason cats rule the internet", "#1 reason cats rule the internet"},
		{"2024. The year the toaster ran for mayor!", "2024. The year the toaster ran for mayor!"},
		{"my_new_var_final", "my_new_var_final"},
		{"> Quote of the day: nap more", "> Quote of the day: nap more"},
		{"**", "**"},
	}
	for _, tt := range tests {
		if got := cleanJokeResponse(tt.in); got != tt.want {
			t.Errorf("cleanJokeResponse(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	long := cleanJokeResponse(strings.Repeat("ha ", 100))
	if utf8.RuneCountInString(long) > JOKE_MAX_CHARS {
		t.Fatalf("expected at most %d characters, got %d", JOKE_MAX_CHARS, utf8.RuneCountInString(long))
	}
}
