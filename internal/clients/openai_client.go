package clients

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/spacesedan/punchline/config"
)

// OpenAIClient propagates every failure to the caller as a *ClientError.
type OpenAIClient struct {
	Client *openai.Client
	APIKey string
	Model  string
}

var _ JokeClient = (*OpenAIClient)(nil)

func NewOpenAIClient(cfg config.AIConfig) *OpenAIClient {
	httpClient := &http.Client{
		Timeout: cfg.Timeout,
	}

	client := openai.NewClient(
		option.WithAPIKey(cfg.OpenAIKey),
		option.WithBaseURL(cfg.OpenAIBaseURL),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
	)

	slog.Info("[OpenAIClient] OpenAI client initialized with custom HTTP timeout",
		slog.String("model", cfg.OpenAIModel),
		slog.Duration("timeout", cfg.Timeout))

	return &OpenAIClient{
		Client: client,
		APIKey: cfg.OpenAIKey,
		Model:  cfg.OpenAIModel,
	}
}

func (o *OpenAIClient) Name() string { return PROVIDER_OPENAI }

func (o *OpenAIClient) GenerateJoke(ctx context.Context, title, body string) (string, error) {
	if o.APIKey == "" {
		return "", missingAPIKey(PROVIDER_OPENAI, "OPENAI_API_KEY")
	}

	start := time.Now()
	completion, err := o.Client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(BuildJokePrompt(title, body)),
		}),
		Model:       openai.F(openai.ChatModel(o.Model)),
		MaxTokens:   openai.Int(MAX_OUTPUT_TOKENS),
		Temperature: openai.Float(JOKE_TEMPERATURE),
	})
	if err != nil {
		cErr := classifyOpenAIError(err)
		slog.Warn("[OpenAIClient] Chat completion failed",
			slog.String("kind", string(cErr.Kind)),
			slog.String("error", err.Error()),
			slog.Duration("elapsed", time.Since(start)))
		return "", cErr
	}

	if len(completion.Choices) == 0 {
		return "", newClientError(PROVIDER_OPENAI, KindInvalidResponse, "response contained no choices", nil)
	}

	joke := cleanJokeResponse(completion.Choices[0].Message.Content)
	if joke == "" {
		return "", newClientError(PROVIDER_OPENAI, KindInvalidResponse, "response contained no text", nil)
	}

	slog.Debug("[OpenAIClient] Joke generated",
		slog.String("finish_reason", string(completion.Choices[0].FinishReason)),
		slog.Duration("elapsed", time.Since(start)))
	return joke, nil
}

func classifyOpenAIError(err error) *ClientError {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		cErr := classifyTransport(PROVIDER_OPENAI, apiErr.StatusCode, err)
		cErr.Code = apiErr.Code
		if apiErr.Message != "" {
			cErr.Message = apiErr.Message
		}
		return cErr
	}
	return classifyTransport(PROVIDER_OPENAI, 0, err)
}
