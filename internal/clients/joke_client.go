package clients

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spacesedan/punchline/config"
)

// JokeClient is one interchangeable joke backend.
type JokeClient interface {
	GenerateJoke(ctx context.Context, title, body string) (string, error)
	Name() string
}

// NewJokeClient picks the backend once at startup. cfg.Provider is already
// forced to mock when mock mode is on.
func NewJokeClient(cfg config.AIConfig) (JokeClient, error) {
	var client JokeClient
	switch cfg.Provider {
	case config.ProviderOpenAI:
		client = NewOpenAIClient(cfg)
	case config.ProviderGemini:
		client = NewGeminiClient(cfg)
	case config.ProviderMock:
		client = MockJokeClient{}
	default:
		return nil, fmt.Errorf("[JokeClient] unknown AI provider %q", cfg.Provider)
	}

	slog.Info("[JokeClient] Joke backend selected", slog.String("provider", client.Name()))
	return client, nil
}

// MockJokeClient answers from a fixed corpus without any network I/O.
type MockJokeClient struct{}

func (MockJokeClient) Name() string { return PROVIDER_MOCK }

func (MockJokeClient) GenerateJoke(ctx context.Context, title, body string) (string, error) {
	return pickRandom(mockJokes), nil
}
