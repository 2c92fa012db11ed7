package translation

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"codeberg.org/snonux/wortschatz/internal/apperr"
	"codeberg.org/snonux/wortschatz/internal/resilience"
)

// Translator translates text for a fixed language pair
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
	Pair() Pair
}

// Config selects and configures a translation provider
type Config struct {
	Provider  string // "openai" or "gemini"
	Model     string // provider model, empty for the default
	OpenAIKey string
	GeminiKey string
	BaseURL   string // OpenAI API base URL override
	Pair      Pair
}

// New creates the configured translator guarded by a circuit breaker
func New(ctx context.Context, config Config) (Translator, error) {
	var (
		t   Translator
		err error
	)

	switch config.Provider {
	case "", "openai":
		t, err = NewOpenAITranslator(config)
	case "gemini":
		t, err = NewGeminiTranslator(ctx, config)
	default:
		return nil, fmt.Errorf("unknown translation provider: %s", config.Provider)
	}
	if err != nil {
		return nil, err
	}

	return WithBreaker(t, resilience.NewBreaker(resilience.DefaultSettings("translation"))), nil
}

// OpenAITranslator translates with an OpenAI chat model
type OpenAITranslator struct {
	apiKey string
	model  string
	pair   Pair
	client *openai.Client
}

// NewOpenAITranslator creates a new OpenAI translator
func NewOpenAITranslator(config Config) (*OpenAITranslator, error) {
	if config.OpenAIKey == "" {
		return nil, fmt.Errorf("OpenAI API key not found")
	}

	model := config.Model
	if model == "" {
		model = openai.GPT4oMini
	}

	clientConfig := openai.DefaultConfig(config.OpenAIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &OpenAITranslator{
		apiKey: config.OpenAIKey,
		model:  model,
		pair:   config.Pair,
		client: openai.NewClientWithConfig(clientConfig),
	}, nil
}

// Pair returns the language pair
func (t *OpenAITranslator) Pair() Pair {
	return t.pair
}

// Translate translates text from the source to the target language
func (t *OpenAITranslator) Translate(ctx context.Context, text string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: t.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: t.pair.prompt(text),
			},
		},
		MaxTokens:   500,
		Temperature: 0.3,
	}

	resp, err := t.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", apperr.Network("openai", fmt.Errorf("chat completion: %w", err))
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no translation returned")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

type guardedTranslator struct {
	next    Translator
	breaker *resilience.Breaker
}

// WithBreaker routes every translation through the breaker
func WithBreaker(t Translator, b *resilience.Breaker) Translator {
	return &guardedTranslator{next: t, breaker: b}
}

func (g *guardedTranslator) Pair() Pair {
	return g.next.Pair()
}

func (g *guardedTranslator) Translate(ctx context.Context, text string) (string, error) {
	return g.breaker.DoString(func() (string, error) {
		return g.next.Translate(ctx, text)
	})
}
