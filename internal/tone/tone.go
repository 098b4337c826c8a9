package tone

import (
	"regexp"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"
)

const (
	Positive = "positive"
	Negative = "negative"
	Neutral  = "neutral"

	threshold = 0.20
)

var (
	analyzer   = govader.NewSentimentIntensityAnalyzer()
	urlPattern = regexp.MustCompile(`https?://\S+|www\.\S+`)
)

// PlainText drops markdown syntax and keeps only the text content, collapsing
// whitespace. Model output regularly arrives wrapped in **bold** or as a list item.
func PlainText(input string) string {
	md := blackfriday.New(blackfriday.WithNoExtensions())
	root := md.Parse([]byte(input))

	var b strings.Builder
	root.Walk(func(node *blackfriday.Node, entering bool) blackfriday.WalkStatus {
		switch node.Type {
		case blackfriday.Text, blackfriday.Code:
			if entering {
				b.Write(node.Literal)
			}
		case blackfriday.Softbreak, blackfriday.Hardbreak:
			b.WriteByte(' ')
		case blackfriday.CodeBlock:
			b.Write(node.Literal)
			b.WriteByte(' ')
		case blackfriday.Paragraph, blackfriday.Heading, blackfriday.Item:
			if !entering {
				b.WriteByte(' ')
			}
		}
		return blackfriday.GoToNext
	})

	return strings.Join(strings.Fields(b.String()), " ")
}

// Analyze scores text with VADER and labels the compound score.
func Analyze(text string) (float64, string) {
	plain := urlPattern.ReplaceAllString(PlainText(text), "")
	score := analyzer.PolarityScores(plain).Compound

	switch {
	case score >= threshold:
		return score, Positive
	case score <= -threshold:
		return score, Negative
	default:
		return score, Neutral
	}
}
