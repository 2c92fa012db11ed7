package audio

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"codeberg.org/snonux/wortschatz/internal/resilience"
)

// Provider defines the interface for text-to-speech providers
type Provider interface {
	// GenerateAudio speaks text in the given language and writes the audio
	// to outputFile, overwriting it if present
	GenerateAudio(ctx context.Context, text, lang, outputFile string) error

	// Name returns the provider name
	Name() string

	// IsAvailable checks if the provider is properly configured and available
	IsAvailable() error
}

// Config holds common configuration for audio providers
type Config struct {
	Provider     string // Provider name: "openai", "gemini" or "espeak"
	Fallback     string // Optional provider used when the primary fails
	OutputFormat string // Output format: "mp3" or "wav"

	// OpenAI-specific settings
	OpenAIKey         string
	OpenAIBaseURL     string  // API base URL override
	OpenAIModel       string  // "tts-1", "tts-1-hd", or "gpt-4o-mini-tts"
	OpenAIVoice       string  // "alloy", "ash", "ballad", "coral", "echo", "fable", "onyx", "nova", "sage", "shimmer", "verse"
	OpenAISpeed       float64 // 0.25 to 4.0
	OpenAIInstruction string  // Voice instructions for gpt-4o-mini-tts, %s is replaced by the language name

	// Gemini-specific settings
	GeminiKey   string
	GeminiModel string
	GeminiVoice string

	// espeak-ng settings
	ESpeak *ESpeakConfig
}

// DefaultProviderConfig returns default configuration
func DefaultProviderConfig() *Config {
	return &Config{
		Provider:          "openai",
		OutputFormat:      "mp3",
		OpenAIModel:       "gpt-4o-mini-tts",
		OpenAIVoice:       "alloy",
		OpenAISpeed:       1.0,
		OpenAIInstruction: "You are speaking %s. Pronounce the text with authentic native phonetics. Speak clearly and at a natural pace for language learners.",
		GeminiModel:       DefaultGeminiModel,
		GeminiVoice:       "Kore",
		ESpeak:            DefaultESpeakConfig(),
	}
}

// NewProvider creates the appropriate audio provider based on configuration.
// When a fallback is configured the result tries it after the primary
// fails. Every provider call goes through a circuit breaker.
func NewProvider(ctx context.Context, config *Config) (Provider, error) {
	if config == nil {
		config = DefaultProviderConfig()
	}

	primary, err := newNamedProvider(ctx, config.Provider, config)
	if err != nil {
		return nil, err
	}
	primary = WithBreaker(primary, resilience.NewBreaker(resilience.DefaultSettings("tts-"+primary.Name())))

	if config.Fallback == "" || config.Fallback == config.Provider {
		return primary, nil
	}

	fallback, err := newNamedProvider(ctx, config.Fallback, config)
	if err != nil {
		return nil, fmt.Errorf("fallback provider: %w", err)
	}
	fallback = WithBreaker(fallback, resilience.NewBreaker(resilience.DefaultSettings("tts-"+fallback.Name())))

	return NewProviderWithFallback(primary, fallback), nil
}

func newNamedProvider(ctx context.Context, name string, config *Config) (Provider, error) {
	switch name {
	case "openai":
		if config.OpenAIKey == "" {
			return nil, fmt.Errorf("OpenAI API key is required")
		}
		return NewOpenAIProvider(config)

	case "gemini":
		if config.GeminiKey == "" {
			return nil, fmt.Errorf("Gemini API key is required")
		}
		return NewGeminiProvider(ctx, config)

	case "espeak":
		return NewESpeakProvider(config.ESpeak)

	default:
		return nil, fmt.Errorf("unknown audio provider: %s", name)
	}
}

// ProviderWithFallback wraps a primary provider with a fallback option
type ProviderWithFallback struct {
	primary  Provider
	fallback Provider
	logger   *log.Logger
}

// NewProviderWithFallback creates a provider that falls back to secondary if primary fails
func NewProviderWithFallback(primary, fallback Provider) Provider {
	return &ProviderWithFallback{
		primary:  primary,
		fallback: fallback,
		logger:   log.Default(),
	}
}

// GenerateAudio tries primary provider first, falls back to secondary on error
func (p *ProviderWithFallback) GenerateAudio(ctx context.Context, text, lang, outputFile string) error {
	err := p.primary.GenerateAudio(ctx, text, lang, outputFile)
	if err != nil {
		p.logger.Warn("primary TTS provider failed, falling back",
			"primary", p.primary.Name(), "fallback", p.fallback.Name(), "err", err)

		return p.fallback.GenerateAudio(ctx, text, lang, outputFile)
	}
	return nil
}

// Name returns the provider name
func (p *ProviderWithFallback) Name() string {
	return fmt.Sprintf("%s (fallback: %s)", p.primary.Name(), p.fallback.Name())
}

// IsAvailable checks if at least one provider is available
func (p *ProviderWithFallback) IsAvailable() error {
	primaryErr := p.primary.IsAvailable()
	if primaryErr == nil {
		return nil
	}

	fallbackErr := p.fallback.IsAvailable()
	if fallbackErr == nil {
		return nil
	}

	return fmt.Errorf("both providers unavailable: primary=%v, fallback=%v",
		primaryErr, fallbackErr)
}

type guardedProvider struct {
	Provider
	breaker *resilience.Breaker
}

// WithBreaker routes every GenerateAudio call through the breaker
func WithBreaker(p Provider, b *resilience.Breaker) Provider {
	return &guardedProvider{Provider: p, breaker: b}
}

func (g *guardedProvider) GenerateAudio(ctx context.Context, text, lang, outputFile string) error {
	return g.breaker.Do(func() error {
		return g.Provider.GenerateAudio(ctx, text, lang, outputFile)
	})
}
