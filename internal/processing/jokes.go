package processing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/spacesedan/punchline/internal/models"
	"github.com/spacesedan/punchline/internal/tone"
	"github.com/spacesedan/punchline/internal/utils"
)

type BatchErrorKind string

const (
	KindNoInput   BatchErrorKind = "no_input"
	KindAllFailed BatchErrorKind = "all_failed"
)

var (
	ErrNoInput   = errors.New("no articles provided for funny fact generation")
	ErrAllFailed = errors.New("failed to generate any funny facts")
)

// BatchError reports a batch that produced nothing.
type BatchError struct {
	Kind   BatchErrorKind
	Total  int
	Failed int
}

func (e *BatchError) Error() string {
	if e.Kind == KindNoInput {
		return ErrNoInput.Error()
	}
	return fmt.Sprintf("%s (%d of %d headlines failed)", ErrAllFailed.Error(), e.Failed, e.Total)
}

func (e *BatchError) Is(target error) bool {
	switch target {
	case ErrNoInput:
		return e.Kind == KindNoInput
	case ErrAllFailed:
		return e.Kind == KindAllFailed
	}
	return false
}

// Generator turns one headline into one joke.
type Generator interface {
	GenerateJoke(ctx context.Context, title, body string) (string, error)
}

// GenerateJokes calls generator once per headline, one call at a time and in
// input order. A failed headline is logged and skipped; the batch fails only
// when nothing succeeded or ctx is done.
func GenerateJokes(ctx context.Context, generator Generator, headlines []models.Headline) (models.JokeBatch, error) {
	if len(headlines) == 0 {
		slog.Warn("[JokeGenerator] No headlines to process")
		return models.JokeBatch{}, &BatchError{Kind: KindNoInput}
	}

	batchID := uuid.NewString()
	start := time.Now()
	buffer := utils.NewBatchBuffer[models.Joke](len(headlines))
	failed := 0

	slog.Info("[JokeGenerator] Generating jokes",
		slog.String("batch_id", batchID),
		slog.Int("headlines", len(headlines)))

	for i, headline := range headlines {
		if err := ctx.Err(); err != nil {
			slog.Warn("[JokeGenerator] Generation canceled",
				slog.String("batch_id", batchID),
				slog.Int("processed", i))
			return models.JokeBatch{}, fmt.Errorf("[JokeGenerator] batch %s canceled: %w", batchID, err)
		}

		joke, err := generateOne(ctx, generator, headline)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return models.JokeBatch{}, fmt.Errorf("[JokeGenerator] batch %s canceled: %w", batchID, ctxErr)
			}
			failed++
			slog.Error("[JokeGenerator] Failed to generate joke for headline",
				slog.String("title", headline.Title),
				slog.String("error", err.Error()))
			continue
		}
		buffer.Add(joke)
	}

	buffer.LogBatchProcessing("jokes", len(headlines))
	if !buffer.HasData() {
		return models.JokeBatch{}, &BatchError{Kind: KindAllFailed, Total: len(headlines), Failed: failed}
	}
	jokes := buffer.Drain()

	slog.Info("[JokeGenerator] Batch complete",
		slog.String("batch_id", batchID),
		slog.Int("generated", len(jokes)),
		slog.Int("failed", failed),
		slog.Duration("elapsed", time.Since(start)))

	return models.JokeBatch{
		ID:          batchID,
		Jokes:       jokes,
		Total:       len(headlines),
		Failed:      failed,
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// generateOne rejects a bad timestamp before spending a generator call on it.
func generateOne(ctx context.Context, generator Generator, headline models.Headline) (models.Joke, error) {
	date, err := headline.PublicationDate()
	if err != nil {
		return models.Joke{}, err
	}

	text, err := generator.GenerateJoke(ctx, headline.Title, headline.Body())
	if err != nil {
		return models.Joke{}, err
	}

	score, label := tone.Analyze(text)
	return models.Joke{
		Text:            text,
		Source:          headline.SourceName,
		OriginalLink:    headline.URL,
		PublicationDate: date,
		Category:        models.JokeCategory,
		ImageURL:        headline.ImageURL,
		Tone:            label,
		ToneScore:       score,
	}, nil
}
