package persist

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/spacesedan/punchline/config"
	"github.com/spacesedan/punchline/internal/models"
)

func TestSQLiteStorageRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "state.db")
	storage, err := NewSQLiteStorage(path)
	if err != nil {
		t.Fatalf("NewSQLiteStorage returned error: %v", err)
	}
	defer storage.Close()

	ctx := context.Background()
	if _, err := storage.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := storage.Set(ctx, "k", []byte("first")); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if err := storage.Set(ctx, "k", []byte("second")); err != nil {
		t.Fatalf("upsert returned error: %v", err)
	}

	got, err := storage.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if string(got) != "second" {
		t.Fatalf("expected upserted value, got %q", got)
	}
}

func TestSQLiteStorageSurvivesReopen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state.db")
	first, err := NewSQLiteStorage(path)
	if err != nil {
		t.Fatalf("NewSQLiteStorage returned error: %v", err)
	}
	if err := first.Set(context.Background(), ROOT_KEY, []byte(`{"jokes":[]}`)); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	first.Close()

	second, err := NewSQLiteStorage(path)
	if err != nil {
		t.Fatalf("reopen returned error: %v", err)
	}
	defer second.Close()

	got, err := second.Get(context.Background(), ROOT_KEY)
	if err != nil || string(got) != `{"jokes":[]}` {
		t.Fatalf("expected value to survive reopen, got %q, %v", got, err)
	}
}

func TestMemoryStorageCopiesValues(t *testing.T) {
	t.Parallel()

	storage := NewMemoryStorage()
	value := []byte("abc")
	if err := storage.Set(context.Background(), "k", value); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	value[0] = 'z'

	got, _ := storage.Get(context.Background(), "k")
	if string(got) != "abc" {
		t.Fatalf("stored value was aliased: %q", got)
	}
}

func TestOpenSelectsBackend(t *testing.T) {
	t.Parallel()

	storage, err := Open(context.Background(), config.PersistenceConfig{
		Backend:    config.BackendSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "state.db"),
	})
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	defer storage.Close()
	if _, ok := storage.(*SQLiteStorage); !ok {
		t.Fatalf("expected *SQLiteStorage, got %T", storage)
	}

	memory, err := Open(context.Background(), config.PersistenceConfig{Backend: config.BackendMemory})
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if _, ok := memory.(*MemoryStorage); !ok {
		t.Fatalf("expected *MemoryStorage, got %T", memory)
	}

	if _, err := Open(context.Background(), config.PersistenceConfig{Backend: "floppy"}); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestJokeArchiveRoundTrip(t *testing.T) {
	t.Parallel()

	archive := NewJokeArchive(NewMemoryStorage())
	ctx := context.Background()

	if _, err := archive.Load(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound before first save, got %v", err)
	}

	jokes := []models.Joke{
		{Text: "one", Source: "A", OriginalLink: "https://a", PublicationDate: "2024-12-20", Category: models.JokeCategory},
		{Text: "two", Source: "B", OriginalLink: "https://b", PublicationDate: "2024-12-21", Category: models.JokeCategory},
	}
	if err := archive.Save(ctx, "batch-1", jokes); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	got, err := archive.Load(ctx)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(got) != 2 || got[0] != jokes[0] || got[1] != jokes[1] {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestJokeArchiveCorruptRecord(t *testing.T) {
	t.Parallel()

	storage := NewMemoryStorage()
	archive := NewJokeArchive(storage)

	for _, payload := range []string{`not json`, `{"batchId":"x"}`} {
		if err := storage.Set(context.Background(), ROOT_KEY, []byte(payload)); err != nil {
			t.Fatalf("Set returned error: %v", err)
		}
		if _, err := archive.Load(context.Background()); !errors.Is(err, ErrCorruptRecord) {
			t.Fatalf("expected ErrCorruptRecord for %q, got %v", payload, err)
		}
	}
}

type fakeDynamoDB struct {
	items map[string]map[string]types.AttributeValue
}

func (f *fakeDynamoDB) GetItem(ctx context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	key := in.Key["key"].(*types.AttributeValueMemberS).Value
	return &dynamodb.GetItemOutput{Item: f.items[key]}, nil
}

func (f *fakeDynamoDB) PutItem(ctx context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	key := in.Item["key"].(*types.AttributeValueMemberS).Value
	f.items[key] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func TestDynamoDBStorageRoundTrip(t *testing.T) {
	t.Parallel()

	fake := &fakeDynamoDB{items: map[string]map[string]types.AttributeValue{}}
	storage := NewDynamoDBStorageWithClient(fake, config.DefaultDynamoDBTable)
	ctx := context.Background()

	if _, err := storage.Get(ctx, ROOT_KEY); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := storage.Set(ctx, ROOT_KEY, []byte("payload")); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if _, ok := fake.items[ROOT_KEY]["payload"].(*types.AttributeValueMemberB); !ok {
		t.Fatalf("expected binary payload attribute, got %T", fake.items[ROOT_KEY]["payload"])
	}

	got, err := storage.Get(ctx, ROOT_KEY)
	if err != nil || string(got) != "payload" {
		t.Fatalf("expected payload back, got %q, %v", got, err)
	}
}
