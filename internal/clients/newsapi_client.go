package clients

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/spacesedan/punchline/config"
	"github.com/spacesedan/punchline/internal/models"
)

const (
	NEWS_API_COUNTRY  = "us"
	NEWS_API_CATEGORY = "general"

	maxNewsAPIBody = 4 << 20
)

//go:embed fixtures/top_headlines.json
var mockTopHeadlines []byte

var truncationMarker = regexp.MustCompile(`\s*\[\+\d+ chars\]\s*$`)

type NewsAPIClient struct {
	Client   *http.Client
	APIKey   string
	BaseURL  string
	PageSize int
	UseMock  bool
}

func NewNewsAPIClient(cfg config.NewsConfig, useMock bool) *NewsAPIClient {
	slog.Info("[NewsAPIClient] Initializing client",
		slog.Bool("mock", useMock),
		slog.Int("page_size", cfg.PageSize),
		slog.Duration("timeout", cfg.Timeout))

	return &NewsAPIClient{
		Client:   &http.Client{Timeout: cfg.Timeout},
		APIKey:   cfg.APIKey,
		BaseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		PageSize: cfg.PageSize,
		UseMock:  useMock,
	}
}

// FetchHeadlines makes one attempt at the top general headlines. Failures are
// returned as *ClientError and are never retried here.
func (n *NewsAPIClient) FetchHeadlines(ctx context.Context) ([]models.Headline, error) {
	if n.UseMock {
		slog.Info("[NewsAPIClient] Using mock data for news")
		return n.decodeAndValidate(mockTopHeadlines)
	}

	if n.APIKey == "" {
		slog.Error("[NewsAPIClient] API key is missing")
		return nil, missingAPIKey(PROVIDER_NEWSAPI, "NEWS_API_KEY")
	}

	endpoint, err := n.topHeadlinesURL()
	if err != nil {
		return nil, newClientError(PROVIDER_NEWSAPI, KindUnknown, "failed to build request URL", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, newClientError(PROVIDER_NEWSAPI, KindUnknown, "failed to build request", err)
	}
	req.Header.Set("X-Api-Key", n.APIKey)
	req.Header.Set("User-Agent", USER_AGENT)
	req.Header.Set("Accept", "application/json")

	slog.Info("[NewsAPIClient] Fetching top headlines", slog.Int("page_size", n.PageSize))
	start := time.Now()

	res, err := n.Client.Do(req)
	if err != nil {
		slog.Error("[NewsAPIClient] Request failed",
			slog.String("error", err.Error()),
			slog.Duration("elapsed", time.Since(start)))
		return nil, classifyTransport(PROVIDER_NEWSAPI, 0, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxNewsAPIBody))
	if err != nil {
		slog.Error("[NewsAPIClient] Failed to read response body", slog.String("error", err.Error()))
		return nil, classifyTransport(PROVIDER_NEWSAPI, 0, err)
	}

	if res.StatusCode != http.StatusOK {
		cErr := classifyTransport(PROVIDER_NEWSAPI, res.StatusCode, nil)
		var envelope models.NewsAPITopHeadlinesResponse
		if json.Unmarshal(body, &envelope) == nil {
			cErr.Code = envelope.Code
			if envelope.Message != "" {
				cErr.Message = envelope.Message
			}
		}
		slog.Warn("[NewsAPIClient] Unexpected response",
			slog.Int("statusCode", res.StatusCode),
			slog.String("kind", string(cErr.Kind)),
			getPreview(body))
		return nil, cErr
	}

	headlines, err := n.decodeAndValidate(body)
	if err != nil {
		return nil, err
	}

	slog.Info("[NewsAPIClient] Successfully fetched headlines",
		slog.Int("count", len(headlines)),
		slog.Duration("elapsed", time.Since(start)))
	return headlines, nil
}

func (n *NewsAPIClient) topHeadlinesURL() (string, error) {
	u, err := url.Parse(n.BaseURL + "/top-headlines")
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("country", NEWS_API_COUNTRY)
	q.Set("pageSize", strconv.Itoa(n.PageSize))
	q.Set("category", NEWS_API_CATEGORY)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (n *NewsAPIClient) decodeAndValidate(body []byte) ([]models.Headline, error) {
	var envelope models.NewsAPITopHeadlinesResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		slog.Error("[NewsAPIClient] Failed to parse JSON response",
			slog.String("error", err.Error()),
			getPreview(body))
		return nil, newClientError(PROVIDER_NEWSAPI, KindInvalidResponse, "response is not valid JSON", err)
	}

	if err := validateEnvelope(envelope); err != nil {
		slog.Warn("[NewsAPIClient] Response failed validation", slog.String("error", err.Error()))
		return nil, err
	}

	articles := envelope.Articles
	if n.PageSize > 0 && len(articles) > n.PageSize {
		articles = articles[:n.PageSize]
	}
	return normalizeHeadlines(articles), nil
}

func validateEnvelope(envelope models.NewsAPITopHeadlinesResponse) error {
	if envelope.Status != "ok" {
		msg := envelope.Message
		if msg == "" {
			msg = fmt.Sprintf("provider returned status %q", envelope.Status)
		}
		cErr := newClientError(PROVIDER_NEWSAPI, KindInvalidResponse, msg, nil)
		cErr.Code = envelope.Code
		return cErr
	}
	if envelope.Articles == nil {
		return newClientError(PROVIDER_NEWSAPI, KindInvalidResponse, "missing articles array", nil)
	}
	if len(envelope.Articles) == 0 {
		return newClientError(PROVIDER_NEWSAPI, KindInvalidResponse, "no articles found in the response", nil)
	}
	return nil
}

// normalizeHeadlines reshapes provider articles. Descriptions and content
// regularly contain HTML and a trailing "[+123 chars]" marker.
func normalizeHeadlines(articles []models.NewsAPIArticle) []models.Headline {
	headlines := make([]models.Headline, 0, len(articles))
	for _, article := range articles {
		headlines = append(headlines, models.Headline{
			Title:       strings.TrimSpace(article.Title),
			Description: cleanText(article.Description),
			URL:         strings.TrimSpace(article.URL),
			ImageURL:    strings.TrimSpace(article.UrlToImage),
			PublishedAt: strings.TrimSpace(article.PublishedAt),
			SourceName:  strings.TrimSpace(article.Source.Name),
			Content:     cleanText(article.Content),
		})
	}
	return headlines
}

func cleanText(s string) string {
	if s == "" {
		return ""
	}
	if strings.ContainsAny(s, "<&") {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
		if err == nil {
			s = doc.Text()
		}
	}
	s = truncationMarker.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), " ")
}

func getPreview(respBody []byte) slog.Attr {
	raw := string(respBody)
	if len(raw) > 50 {
		raw = raw[:50]
	}
	return slog.String("raw_response", raw)
}
