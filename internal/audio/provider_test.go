package audio

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"codeberg.org/snonux/wortschatz/internal/resilience"
)

// mockProvider implements Provider interface for testing
type mockProvider struct {
	name          string
	generateErr   error
	availableErr  error
	generateCalls int
	lastLang      string
}

func (m *mockProvider) GenerateAudio(ctx context.Context, text, lang, outputFile string) error {
	m.generateCalls++
	m.lastLang = lang
	return m.generateErr
}

func (m *mockProvider) Name() string {
	return m.name
}

func (m *mockProvider) IsAvailable() error {
	return m.availableErr
}

func TestDefaultProviderConfig(t *testing.T) {
	config := DefaultProviderConfig()

	if config.Provider != "openai" {
		t.Errorf("Expected provider 'openai', got '%s'", config.Provider)
	}

	if config.OutputFormat != "mp3" {
		t.Errorf("Expected output format 'mp3', got '%s'", config.OutputFormat)
	}

	if config.OpenAIModel != "gpt-4o-mini-tts" {
		t.Errorf("Expected OpenAI model 'gpt-4o-mini-tts', got '%s'", config.OpenAIModel)
	}

	if config.OpenAIVoice != "alloy" {
		t.Errorf("Expected OpenAI voice 'alloy', got '%s'", config.OpenAIVoice)
	}

	if config.OpenAISpeed != 1.0 {
		t.Errorf("Expected OpenAI speed 1.0, got %f", config.OpenAISpeed)
	}

	if config.GeminiModel != DefaultGeminiModel {
		t.Errorf("Expected Gemini model %s, got %s", DefaultGeminiModel, config.GeminiModel)
	}

	if config.ESpeak == nil {
		t.Error("Expected espeak defaults")
	}
}

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
		errMsg  string
	}{
		{
			name:    "nil config uses defaults",
			config:  nil,
			wantErr: true,
			errMsg:  "OpenAI API key is required",
		},
		{
			name: "openai provider without key",
			config: &Config{
				Provider: "openai",
			},
			wantErr: true,
			errMsg:  "OpenAI API key is required",
		},
		{
			name: "gemini provider without key",
			config: &Config{
				Provider: "gemini",
			},
			wantErr: true,
			errMsg:  "Gemini API key is required",
		},
		{
			name: "unknown provider",
			config: &Config{
				Provider: "unknown",
			},
			wantErr: true,
			errMsg:  "unknown audio provider: unknown",
		},
		{
			name: "unknown fallback",
			config: &Config{
				Provider:  "openai",
				OpenAIKey: "test-key",
				Fallback:  "unknown",
			},
			wantErr: true,
			errMsg:  "fallback provider: unknown audio provider: unknown",
		},
		{
			name: "openai provider with key",
			config: &Config{
				Provider:  "openai",
				OpenAIKey: "test-key",
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := NewProvider(context.Background(), tt.config)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewProvider() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && err.Error() != tt.errMsg {
				t.Errorf("NewProvider() error = %v, want %v", err.Error(), tt.errMsg)
			}
			if !tt.wantErr && provider.Name() != "openai" {
				t.Errorf("Name() = %v, want openai", provider.Name())
			}
		})
	}
}

func TestProviderWithFallback(t *testing.T) {
	tests := []struct {
		name              string
		primaryErr        error
		fallbackErr       error
		wantErr           bool
		wantPrimaryCalls  int
		wantFallbackCalls int
	}{
		{
			name:              "primary succeeds",
			wantPrimaryCalls:  1,
			wantFallbackCalls: 0,
		},
		{
			name:              "primary fails, fallback succeeds",
			primaryErr:        errors.New("primary failed"),
			wantPrimaryCalls:  1,
			wantFallbackCalls: 1,
		},
		{
			name:              "both fail",
			primaryErr:        errors.New("primary failed"),
			fallbackErr:       errors.New("fallback failed"),
			wantErr:           true,
			wantPrimaryCalls:  1,
			wantFallbackCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			primary := &mockProvider{name: "primary", generateErr: tt.primaryErr}
			fallback := &mockProvider{name: "fallback", generateErr: tt.fallbackErr}

			provider := NewProviderWithFallback(primary, fallback)
			provider.(*ProviderWithFallback).logger = log.New(io.Discard)

			err := provider.GenerateAudio(context.Background(), "Haus", "de", "out.mp3")
			if (err != nil) != tt.wantErr {
				t.Errorf("GenerateAudio() error = %v, wantErr %v", err, tt.wantErr)
			}
			if primary.generateCalls != tt.wantPrimaryCalls {
				t.Errorf("primary calls = %d, want %d", primary.generateCalls, tt.wantPrimaryCalls)
			}
			if fallback.generateCalls != tt.wantFallbackCalls {
				t.Errorf("fallback calls = %d, want %d", fallback.generateCalls, tt.wantFallbackCalls)
			}
			if tt.wantFallbackCalls > 0 && fallback.lastLang != "de" {
				t.Errorf("fallback got language %q, want de", fallback.lastLang)
			}
		})
	}
}

func TestProviderWithFallback_Name(t *testing.T) {
	provider := NewProviderWithFallback(&mockProvider{name: "openai"}, &mockProvider{name: "espeak-ng"})
	if provider.Name() != "openai (fallback: espeak-ng)" {
		t.Errorf("Name() = %s", provider.Name())
	}
}

func TestProviderWithFallback_IsAvailable(t *testing.T) {
	tests := []struct {
		name         string
		primaryErr   error
		fallbackErr  error
		wantErr      bool
	}{
		{"both available", nil, nil, false},
		{"only fallback available", errors.New("no key"), nil, false},
		{"none available", errors.New("no key"), errors.New("not installed"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := NewProviderWithFallback(
				&mockProvider{name: "p", availableErr: tt.primaryErr},
				&mockProvider{name: "f", availableErr: tt.fallbackErr},
			)
			if err := provider.IsAvailable(); (err != nil) != tt.wantErr {
				t.Errorf("IsAvailable() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestWithBreaker(t *testing.T) {
	inner := &mockProvider{name: "openai", generateErr: errors.New("unavailable")}
	provider := WithBreaker(inner, resilience.NewBreaker(resilience.Settings{Name: "test", ConsecutiveFailures: 2}))

	for i := 0; i < 4; i++ {
		if err := provider.GenerateAudio(context.Background(), "Haus", "de", "out.mp3"); err == nil {
			t.Fatal("Expected error")
		}
	}

	if inner.generateCalls != 2 {
		t.Errorf("Expected 2 calls before the breaker opened, got %d", inner.generateCalls)
	}
	if provider.Name() != "openai" {
		t.Errorf("Name() = %s, want openai", provider.Name())
	}
}
