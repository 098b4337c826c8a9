package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/spacesedan/punchline/config"
	"github.com/spacesedan/punchline/internal/models"
)

const (
	GEMINI_TOP_K = 1
	GEMINI_TOP_P = 1.0
)

// GeminiClient never reports transport failures to its caller: a failed call
// yields a random fallback joke so the feed always has something to show.
// Only a missing API key and caller cancellation come back as errors.
type GeminiClient struct {
	Client  *http.Client
	APIKey  string
	Model   string
	BaseURL string
}

var _ JokeClient = (*GeminiClient)(nil)

func NewGeminiClient(cfg config.AIConfig) *GeminiClient {
	slog.Info("[GeminiClient] Initializing client",
		slog.String("model", cfg.GeminiModel),
		slog.Duration("timeout", cfg.Timeout))

	return &GeminiClient{
		Client:  &http.Client{Timeout: cfg.Timeout},
		APIKey:  cfg.GeminiKey,
		Model:   cfg.GeminiModel,
		BaseURL: strings.TrimRight(cfg.GeminiBaseURL, "/"),
	}
}

func (g *GeminiClient) Name() string { return PROVIDER_GEMINI }

func (g *GeminiClient) GenerateJoke(ctx context.Context, title, body string) (string, error) {
	if g.APIKey == "" {
		return "", missingAPIKey(PROVIDER_GEMINI, "GEMINI_API_KEY")
	}

	input := models.GeminiGenerateRequest{
		Contents: []models.GeminiContent{
			{Parts: []models.GeminiPart{{Text: BuildJokePrompt(title, body)}}},
		},
		GenerationConfig: models.GeminiGenerationConfig{
			Temperature:     JOKE_TEMPERATURE,
			TopK:            GEMINI_TOP_K,
			TopP:            GEMINI_TOP_P,
			MaxOutputTokens: MAX_OUTPUT_TOKENS,
		},
	}

	var result models.GeminiGenerateResponse
	start := time.Now()
	if err := g.postJSON(ctx, g.generateURL(), input, &result); err != nil {
		if ctx.Err() != nil && errors.Is(err, context.Canceled) {
			return "", classifyTransport(PROVIDER_GEMINI, 0, err)
		}
		slog.Warn("[GeminiClient] Request failed, using fallback joke",
			slog.String("error", err.Error()),
			slog.Duration("elapsed", time.Since(start)))
		return pickRandom(fallbackJokes), nil
	}

	joke := cleanJokeResponse(result.FirstText())
	if joke == "" {
		slog.Warn("[GeminiClient] Response had no candidate text")
		return emptyCandidateJoke, nil
	}

	slog.Debug("[GeminiClient] Joke generated", slog.Duration("elapsed", time.Since(start)))
	return joke, nil
}

func (g *GeminiClient) generateURL() string {
	return fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		g.BaseURL, url.PathEscape(g.Model), url.QueryEscape(g.APIKey))
}

// postJSON posts input and decodes the response into output. The endpoint
// carries the API key, so it is never logged.
func (g *GeminiClient) postJSON(ctx context.Context, endpoint string, input interface{}, output interface{}) error {
	body, err := json.Marshal(input)
	if err != nil {
		return fmt.Errorf("failed to marshal input: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", USER_AGENT)

	resp, err := g.Client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("request failed: status code %d", resp.StatusCode)
	}

	if err := json.Unmarshal(respBody, output); err != nil {
		slog.Error("[GeminiClient] Failed to unmarshal response",
			slog.String("error", err.Error()),
			getPreview(respBody),
			slog.Int("raw_response_length", len(respBody)))
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return nil
}
