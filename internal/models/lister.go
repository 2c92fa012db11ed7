package models

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Lister handles listing available OpenAI models
type Lister struct {
	apiKey string
	client *openai.Client
}

// NewLister creates a new model lister. An empty baseURL uses the public
// OpenAI endpoint.
func NewLister(apiKey, baseURL string) *Lister {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &Lister{
		apiKey: apiKey,
		client: openai.NewClientWithConfig(config),
	}
}

// Catalog groups model ids by what wortschatz can use them for
type Catalog struct {
	Speech []string
	Chat   []string
}

// Fetch lists the models available to the API key
func (l *Lister) Fetch(ctx context.Context) (*Catalog, error) {
	if l.apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key not found. Set OPENAI_API_KEY environment variable or configure openai.key in .wortschatz.yaml")
	}

	models, err := l.client.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	catalog := &Catalog{}
	for _, model := range models.Models {
		id := model.ID
		switch {
		case strings.Contains(id, "tts"):
			catalog.Speech = append(catalog.Speech, id)
		case strings.Contains(id, "audio") || strings.Contains(id, "realtime") || strings.Contains(id, "transcribe"):
			// not usable for either pass
		case strings.HasPrefix(id, "gpt") || strings.HasPrefix(id, "o"):
			catalog.Chat = append(catalog.Chat, id)
		}
	}

	sort.Strings(catalog.Speech)
	sort.Strings(catalog.Chat)
	return catalog, nil
}

// ListAvailableModels prints the speech and translation models
func (l *Lister) ListAvailableModels(ctx context.Context, w io.Writer) error {
	catalog, err := l.Fetch(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "Available OpenAI Models:")
	fmt.Fprintln(w, "\nText-to-Speech (TTS) Models (audio.model):")
	printModels(w, catalog.Speech, "No TTS models found")

	fmt.Fprintln(w, "\nChat/Translation Models (translation.model):")
	printModels(w, catalog.Chat, "No chat models found")

	return nil
}

func printModels(w io.Writer, models []string, empty string) {
	if len(models) == 0 {
		fmt.Fprintf(w, "  %s\n", empty)
		return
	}
	for _, model := range models {
		fmt.Fprintf(w, "  %s\n", model)
	}
}
