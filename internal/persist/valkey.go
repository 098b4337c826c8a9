package persist

import (
	"context"

	"github.com/spacesedan/punchline/config"
	"github.com/spacesedan/punchline/internal/clients"
	"github.com/valkey-io/valkey-go"
)

type ValkeyStorage struct {
	client *clients.ValkeyClient
}

func NewValkeyStorage(cfg config.PersistenceConfig) (*ValkeyStorage, error) {
	client, err := clients.NewValkeyClient(cfg)
	if err != nil {
		return nil, err
	}
	return &ValkeyStorage{client: client}, nil
}

// NewValkeyStorageWithClient wraps an already connected client.
func NewValkeyStorageWithClient(client valkey.Client) *ValkeyStorage {
	return &ValkeyStorage{client: &clients.ValkeyClient{Client: client}}
}

func (v *ValkeyStorage) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := v.client.GetBytes(ctx, key)
	if valkey.IsValkeyNil(err) {
		return nil, ErrNotFound
	}
	return value, err
}

func (v *ValkeyStorage) Set(ctx context.Context, key string, value []byte) error {
	return v.client.SetBytes(ctx, key, value)
}

func (v *ValkeyStorage) Close() error {
	v.client.Close()
	return nil
}
