package clients

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/spacesedan/punchline/config"
	"github.com/valkey-io/valkey-go"
)

const VALKEY_RETRIES = 3

type ValkeyClient struct {
	Client valkey.Client
	opts   valkey.ClientOption
	mu     sync.Mutex
}

func valkeyOptions(cfg config.PersistenceConfig) valkey.ClientOption {
	opts := valkey.ClientOption{
		InitAddress: []string{
			cfg.ValkeyAddress,
		},
		Password:         cfg.ValkeyPassword,
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         0,
	}

	if cfg.ValkeyTLS {
		opts.TLSConfig = &tls.Config{InsecureSkipVerify: false}
	}
	return opts
}

func dialValkey(opts valkey.ClientOption) (valkey.Client, error) {
	client, err := valkey.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("[ValkeyClient] failed to create Valkey: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*3)
	defer cancel()

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("[ValkeyClient] failed to ping Valkey: %w", err)
	}
	return client, nil
}

// NewValkeyClient connects and pings once.
func NewValkeyClient(cfg config.PersistenceConfig) (*ValkeyClient, error) {
	opts := valkeyOptions(cfg)
	client, err := dialValkey(opts)
	if err != nil {
		return nil, err
	}

	slog.Info("[ValkeyClient] Successfully connected to valkey",
		slog.String("address", cfg.ValkeyAddress),
		slog.Bool("tls", cfg.ValkeyTLS))

	return &ValkeyClient{Client: client, opts: opts}, nil
}

func (vc *ValkeyClient) recreateClient() {
	vc.mu.Lock()
	defer vc.mu.Unlock()

	slog.Warn("[ValkeyClient] Attempting to recreate Valkey client...")
	client, err := dialValkey(vc.opts)
	if err != nil {
		slog.Error("[ValkeyClient] Recreate failed", slog.String("error", err.Error()))
		return
	}

	vc.Client.Close()
	vc.Client = client
	slog.Info("[ValkeyClient] Successfully reconnected to valkey")
}

func (vc *ValkeyClient) current() valkey.Client {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	return vc.Client
}

func (vc *ValkeyClient) Close() {
	vc.current().Close()
}

// GetBytes returns the raw value at key. A missing key surfaces as the
// valkey nil error; check it with valkey.IsValkeyNil.
func (vc *ValkeyClient) GetBytes(ctx context.Context, key string) ([]byte, error) {
	client := vc.current()
	res := vc.DoWithRetry(ctx, client.B().Get().Key(key).Build().Pin(), VALKEY_RETRIES)
	return res.AsBytes()
}

func (vc *ValkeyClient) SetBytes(ctx context.Context, key string, value []byte) error {
	client := vc.current()
	res := vc.DoWithRetry(ctx, client.B().Set().Key(key).Value(valkey.BinaryString(value)).Build().Pin(), VALKEY_RETRIES)
	if err := res.Error(); err != nil {
		return err
	}

	slog.Debug("[ValkeyClient] Stored value", slog.String("key", key), slog.Int("bytes", len(value)))
	return nil
}

func (vc *ValkeyClient) DoWithRetry(ctx context.Context, completed valkey.Completed, retries int) valkey.ValkeyResult {
	var result valkey.ValkeyResult
	for i := 0; i < retries; i++ {
		result = vc.current().Do(ctx, completed)
		err := result.Error()
		if err == nil || valkey.IsValkeyNil(err) {
			break
		}

		slog.Warn("[ValkeyClient] Do failed",
			slog.Int("attempt", i+1),
			slog.String("error", err.Error()))

		if ctx.Err() != nil {
			break
		}
		if isConnectionError(err) {
			vc.recreateClient()
		}

		time.Sleep(250 * time.Millisecond)
	}

	return result
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "EOF") ||
		strings.Contains(msg, "i/o timeout")
}
