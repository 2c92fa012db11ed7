package translation

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"codeberg.org/snonux/wortschatz/internal/apperr"
)

// DefaultGeminiModel is used when no model is configured
const DefaultGeminiModel = "gemini-2.0-flash"

// GeminiTranslator translates with a Google Gemini model
type GeminiTranslator struct {
	model  string
	pair   Pair
	client *genai.Client
}

// NewGeminiTranslator creates a new Gemini translator
func NewGeminiTranslator(ctx context.Context, config Config) (*GeminiTranslator, error) {
	if config.GeminiKey == "" {
		return nil, fmt.Errorf("Gemini API key not found")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.GeminiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := config.Model
	if model == "" {
		model = DefaultGeminiModel
	}

	return &GeminiTranslator{
		model:  model,
		pair:   config.Pair,
		client: client,
	}, nil
}

// Pair returns the language pair
func (t *GeminiTranslator) Pair() Pair {
	return t.pair
}

// Translate translates text from the source to the target language
func (t *GeminiTranslator) Translate(ctx context.Context, text string) (string, error) {
	resp, err := t.client.Models.GenerateContent(ctx, t.model, genai.Text(t.pair.prompt(text)),
		&genai.GenerateContentConfig{
			Temperature: genai.Ptr[float32](0.3),
		})
	if err != nil {
		return "", apperr.Network("gemini", fmt.Errorf("generate content: %w", err))
	}

	translation := strings.TrimSpace(resp.Text())
	if translation == "" {
		return "", fmt.Errorf("no translation returned")
	}
	return translation, nil
}
