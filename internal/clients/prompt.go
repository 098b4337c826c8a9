package clients

import (
	"fmt"
	"strings"
)

const jokePromptTemplate = `Transform this news article into a SHORT funny fact (maximum %d characters). Make it humorous but not offensive. Focus on wordplay, irony, or absurd observations:

Title: %s
Content: %s

Reply with ONLY the funny fact, nothing else.`

// BuildJokePrompt is shared by every real backend. Title and body are cut to
// TITLE_PROMPT_LIMIT and BODY_PROMPT_LIMIT characters.
func BuildJokePrompt(title, body string) string {
	return fmt.Sprintf(jokePromptTemplate, JOKE_MAX_CHARS,
		truncateRunes(title, TITLE_PROMPT_LIMIT),
		truncateRunes(body, BODY_PROMPT_LIMIT))
}

// Markers a model tends to wrap a one-line answer in. Longer markers come
// first so "**" is not mistaken for "*".
var jokeWrappers = [][2]string{
	{"```", "```"},
	{"**", "**"},
	{"__", "__"},
	{"`", "`"},
	{"*", "*"},
	{"_", "_"},
	{"\"", "\""},
	{"'", "'"},
	{"“", "”"},
}

// cleanJokeResponse trims model output down to the joke itself and enforces
// the JOKE_MAX_CHARS budget. Only markers wrapping the whole answer are
// removed; anything inside the joke is kept as written.
func cleanJokeResponse(response string) string {
	response = unwrapJoke(response)
	response = strings.Join(strings.Fields(response), " ")
	return truncateRunes(response, JOKE_MAX_CHARS)
}

func unwrapJoke(s string) string {
	for {
		s = strings.TrimSpace(s)
		unwrapped := false
		for _, w := range jokeWrappers {
			if len(s) > len(w[0])+len(w[1]) && strings.HasPrefix(s, w[0]) && strings.HasSuffix(s, w[1]) {
				s = s[len(w[0]) : len(s)-len(w[1])]
				unwrapped = true
				break
			}
		}
		if !unwrapped {
			return s
		}
	}
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
