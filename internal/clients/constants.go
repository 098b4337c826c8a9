package clients

const (
	USER_AGENT = "punchline-client/1.0 (+https://github.com/spacesedan/punchline)"

	PROVIDER_NEWSAPI = "NewsAPI"
	PROVIDER_OPENAI  = "OpenAI"
	PROVIDER_GEMINI  = "Gemini"
	PROVIDER_MOCK    = "Mock"

	TITLE_PROMPT_LIMIT = 100
	BODY_PROMPT_LIMIT  = 200
	JOKE_MAX_CHARS     = 120
	MAX_OUTPUT_TOKENS  = 100
	JOKE_TEMPERATURE   = 0.9
)
