package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spacesedan/punchline/internal/models"
)

const (
	ROOT_KEY        = "persist:root"
	PERSIST_TIMEOUT = 5 * time.Second
)

var ErrCorruptRecord = errors.New("persist: corrupt record")

type archiveRecord struct {
	Jokes   []models.Joke `json:"jokes"`
	BatchID string        `json:"batchId,omitempty"`
	SavedAt time.Time     `json:"savedAt"`
}

// JokeArchive stores the jokes collection and nothing else.
type JokeArchive struct {
	storage Storage
	timeout time.Duration
}

func NewJokeArchive(storage Storage) *JokeArchive {
	return &JokeArchive{storage: storage, timeout: PERSIST_TIMEOUT}
}

func (a *JokeArchive) Save(ctx context.Context, batchID string, jokes []models.Joke) error {
	if jokes == nil {
		jokes = []models.Joke{}
	}
	payload, err := json.Marshal(archiveRecord{
		Jokes:   jokes,
		BatchID: batchID,
		SavedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("[JokeArchive] marshal record: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	if err := a.storage.Set(ctx, ROOT_KEY, payload); err != nil {
		return fmt.Errorf("[JokeArchive] save: %w", err)
	}

	slog.Debug("[JokeArchive] Saved jokes",
		slog.String("batch_id", batchID),
		slog.Int("count", len(jokes)))
	return nil
}

// Load returns ErrNotFound when nothing was ever saved and ErrCorruptRecord
// when the stored payload does not decode.
func (a *JokeArchive) Load(ctx context.Context) ([]models.Joke, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	payload, err := a.storage.Get(ctx, ROOT_KEY)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("[JokeArchive] load: %w", err)
	}

	var record archiveRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	if record.Jokes == nil {
		return nil, fmt.Errorf("%w: missing jokes", ErrCorruptRecord)
	}
	return record.Jokes, nil
}
