package persist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spacesedan/punchline/config"
)

var ErrNotFound = errors.New("persist: key not found")

// Storage is an opaque key-value blob store.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Open selects the backend named by cfg.Backend.
func Open(ctx context.Context, cfg config.PersistenceConfig) (Storage, error) {
	var (
		storage Storage
		err     error
	)

	switch cfg.Backend {
	case config.BackendSQLite:
		var s *SQLiteStorage
		s, err = NewSQLiteStorage(cfg.SQLitePath)
		storage = s
	case config.BackendValkey:
		var s *ValkeyStorage
		s, err = NewValkeyStorage(cfg)
		storage = s
	case config.BackendDynamoDB:
		var s *DynamoDBStorage
		s, err = NewDynamoDBStorage(ctx, cfg)
		storage = s
	case config.BackendMemory:
		storage = NewMemoryStorage()
	default:
		return nil, fmt.Errorf("[Persist] unknown backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}

	slog.Info("[Persist] Storage opened", slog.String("backend", cfg.Backend))
	return storage, nil
}
