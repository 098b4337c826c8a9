package models

import (
	"fmt"
	"time"
)

const JokeCategory = "General"

// Joke is the generated rewrite of one Headline plus the metadata carried over
// from it. JSON names match what earlier releases persisted.
type Joke struct {
	Text            string  `json:"funnyFact"`
	Source          string  `json:"source"`
	OriginalLink    string  `json:"originalLink"`
	PublicationDate string  `json:"publicationDate"`
	Category        string  `json:"category"`
	ImageURL        string  `json:"urlToImage,omitempty"`
	Tone            string  `json:"tone,omitempty"`
	ToneScore       float64 `json:"toneScore,omitempty"`
}

// Key mirrors Headline.Key for list rendering.
func (j Joke) Key(index int) string {
	if j.OriginalLink != "" {
		return j.OriginalLink
	}
	return fmt.Sprintf("item-%d", index)
}

// JokeBatch is the outcome of one refresh cycle. Total-len(Jokes) == Failed.
type JokeBatch struct {
	ID          string    `json:"id"`
	Jokes       []Joke    `json:"jokes"`
	Total       int       `json:"total"`
	Failed      int       `json:"failed"`
	GeneratedAt time.Time `json:"generatedAt"`
}
