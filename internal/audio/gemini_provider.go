package audio

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"google.golang.org/genai"

	"codeberg.org/snonux/wortschatz/internal/apperr"
	"codeberg.org/snonux/wortschatz/internal/language"
)

const (
	// DefaultGeminiModel is the Gemini speech generation model
	DefaultGeminiModel = "gemini-2.5-flash-preview-tts"

	geminiSampleRate = 24000
	geminiBitDepth   = 16
)

// GeminiProvider implements Provider interface for Gemini speech generation.
// Gemini answers with raw 16-bit mono PCM which is written as WAV.
type GeminiProvider struct {
	client *genai.Client
	config *Config
}

// NewGeminiProvider creates a new Gemini TTS provider
func NewGeminiProvider(ctx context.Context, config *Config) (Provider, error) {
	if config.GeminiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.GeminiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiProvider{client: client, config: config}, nil
}

// GenerateAudio generates audio using Gemini speech generation
func (p *GeminiProvider) GenerateAudio(ctx context.Context, text, lang, outputFile string) error {
	if err := ValidateText(text); err != nil {
		return err
	}
	if err := validateLanguage(lang); err != nil {
		return err
	}
	if ext := strings.ToLower(filepath.Ext(outputFile)); ext != ".wav" {
		return fmt.Errorf("gemini produces WAV audio, got output file extension %q", ext)
	}

	model := p.config.GeminiModel
	if model == "" {
		model = DefaultGeminiModel
	}

	prompt := fmt.Sprintf("Say in %s: %s", language.Name(lang), strings.TrimSpace(text))
	resp, err := p.client.Models.GenerateContent(ctx, model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			LanguageCode: speechLanguageCode(lang),
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: p.config.GeminiVoice},
			},
		},
	})
	if err != nil {
		return apperr.Network("gemini", fmt.Errorf("generate speech: %w", err))
	}

	pcm := inlineAudio(resp)
	if len(pcm) == 0 {
		return fmt.Errorf("no audio data received from Gemini")
	}

	return writeWAV(pcm, outputFile)
}

// inlineAudio returns the first inline data blob of the response
func inlineAudio(resp *genai.GenerateContentResponse) []byte {
	if resp == nil {
		return nil
	}
	for _, c := range resp.Candidates {
		if c == nil || c.Content == nil {
			continue
		}
		for _, part := range c.Content.Parts {
			if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData.Data
			}
		}
	}
	return nil
}

// speechLanguageCode maps a bare language code to the BCP-47 tag Gemini
// expects ("de" becomes "de-DE"). Full tags are passed through.
func speechLanguageCode(lang string) string {
	if strings.Contains(lang, "-") {
		return lang
	}
	lang = strings.ToLower(lang)
	switch lang {
	case "en":
		return "en-US"
	case "uk":
		return "uk-UA"
	default:
		return lang + "-" + strings.ToUpper(lang)
	}
}

// writeWAV encodes little-endian 16-bit mono PCM into a WAV file
func writeWAV(pcm []byte, outputFile string) error {
	dir := filepath.Dir(outputFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	out, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer out.Close()

	samples := make([]int, len(pcm)/2)
	for i := range samples {
		samples[i] = int(int16(binary.LittleEndian.Uint16(pcm[2*i:])))
	}

	enc := wav.NewEncoder(out, geminiSampleRate, geminiBitDepth, 1, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: geminiSampleRate},
		Data:           samples,
		SourceBitDepth: geminiBitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("failed to encode WAV: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finalize WAV: %w", err)
	}

	return out.Close()
}

// Name returns the provider name
func (p *GeminiProvider) Name() string {
	return "gemini"
}

// IsAvailable checks that a key is configured
func (p *GeminiProvider) IsAvailable() error {
	if p.config.GeminiKey == "" {
		return fmt.Errorf("Gemini API key not configured")
	}
	return nil
}
