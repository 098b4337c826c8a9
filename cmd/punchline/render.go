package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spacesedan/punchline/internal/store"
)

const feedTitle = "Funny News Feed"

// renderView writes either the feed or the error view, never both.
func renderView(w io.Writer, v store.View, mock bool) {
	title := feedTitle
	if mock {
		title += " (mock data)"
	}
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("─", len([]rune(title))))

	switch {
	case v.Loading:
		fmt.Fprintln(w, "Loading funny facts...")
	case v.Err != "":
		fmt.Fprintln(w, "Oops! Something went wrong")
		fmt.Fprintln(w, v.Err)
		fmt.Fprintln(w, "Try again: rerun with -refresh, or send SIGHUP when running with -watch.")
	case len(v.Jokes) == 0:
		fmt.Fprintln(w, "No funny facts yet. Rerun with -refresh to fetch the news.")
	default:
		for i, joke := range v.Jokes {
			fmt.Fprintf(w, "%2d. %s\n", i+1, joke.Text)

			meta := []string{joke.Source, joke.PublicationDate}
			if joke.Tone != "" {
				meta = append(meta, joke.Tone)
			}
			fmt.Fprintf(w, "    %s\n", strings.Join(nonEmpty(meta), " · "))
			fmt.Fprintf(w, "    %s\n", joke.Key(i))
		}
		if v.Summary.BatchID != "" {
			fmt.Fprintf(w, "\nGenerated %d from %d funny facts. %d failed.\n",
				v.Summary.Generated, v.Summary.Total, v.Summary.Failed)
		}
	}
}

func nonEmpty(values []string) []string {
	out := values[:0:0]
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
