// Package config holds the typed wortschatz configuration. Values come from
// viper (config file, WORTSCHATZ_* environment, bound flags) on top of the
// defaults registered by SetDefaults.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// FieldPair names a source field and the field derived from it
type FieldPair struct {
	Source string `mapstructure:"source" yaml:"source"`
	Target string `mapstructure:"target" yaml:"target"`
}

func (p FieldPair) String() string {
	return p.Source + "->" + p.Target
}

// Config is the complete configuration of a run
type Config struct {
	Anki        AnkiConfig        `mapstructure:"anki"`
	Languages   LanguagesConfig   `mapstructure:"languages"`
	Translation TranslationConfig `mapstructure:"translation"`
	Translate   TranslateConfig   `mapstructure:"translate"`
	Audio       AudioConfig       `mapstructure:"audio"`
	Import      ImportConfig      `mapstructure:"import"`
	OpenAI      KeyConfig         `mapstructure:"openai"`
	Gemini      KeyConfig         `mapstructure:"gemini"`
	Log         LogConfig         `mapstructure:"log"`
}

// AnkiConfig locates the AnkiConnect endpoint and the target deck
type AnkiConfig struct {
	URL     string        `mapstructure:"url"`
	Deck    string        `mapstructure:"deck"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// LanguagesConfig is the language pair the notes are built around
type LanguagesConfig struct {
	Source string `mapstructure:"source"`
	Target string `mapstructure:"target"`
}

// TranslationConfig selects the translation provider
type TranslationConfig struct {
	Provider string `mapstructure:"provider"`
	Model    string `mapstructure:"model"`
}

// TranslateConfig configures the bulk translate pass
type TranslateConfig struct {
	Pairs []FieldPair `mapstructure:"pairs"`
}

// AudioConfig configures the speech provider and the bulk audio pass
type AudioConfig struct {
	Provider    string      `mapstructure:"provider"`
	Fallback    string      `mapstructure:"fallback"`
	Model       string      `mapstructure:"model"`
	Voice       string      `mapstructure:"voice"`
	Speed       float64     `mapstructure:"speed"`
	Instruction string      `mapstructure:"instruction"`
	Format      string      `mapstructure:"format"`
	Language    string      `mapstructure:"language"`
	TempDir     string      `mapstructure:"temp_dir"`
	Prefix      string      `mapstructure:"prefix"`
	Pairs       []FieldPair `mapstructure:"pairs"`
}

// ImportConfig configures the spreadsheet import pass
type ImportConfig struct {
	Sheet       string   `mapstructure:"sheet"`
	UniqueField string   `mapstructure:"unique_field"`
	Fields      []string `mapstructure:"fields"`
	Tags        []string `mapstructure:"tags"`
}

// KeyConfig holds a provider API key
type KeyConfig struct {
	Key string `mapstructure:"key"`
}

// LogConfig configures logging
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// DefaultImportFields is the field layout of the vocabulary note type
var DefaultImportFields = []string{
	"full_de", "base_de", "base_ru", "artikel_de", "plural_de", "notes", "audio_text_de",
	"s1_de", "s1_ru", "s2_de", "s2_ru", "s3_de", "s3_ru",
	"s4_de", "s4_ru", "s5_de", "s5_ru", "s6_de", "s6_ru",
	"s7_de", "s7_ru", "s8_de", "s8_ru", "s9_de", "s9_ru",
}

// DefaultTranslatePairs translates the base word and every example sentence
func DefaultTranslatePairs() []FieldPair {
	pairs := []FieldPair{{Source: "base_de", Target: "base_ru"}}
	for i := 1; i <= 9; i++ {
		pairs = append(pairs, FieldPair{
			Source: fmt.Sprintf("s%d_de", i),
			Target: fmt.Sprintf("s%d_ru", i),
		})
	}
	return pairs
}

// DefaultAudioPairs records every example sentence
func DefaultAudioPairs() []FieldPair {
	var pairs []FieldPair
	for i := 1; i <= 9; i++ {
		pairs = append(pairs, FieldPair{
			Source: fmt.Sprintf("s%d_de", i),
			Target: fmt.Sprintf("s%d_audio", i),
		})
	}
	return pairs
}

// SetDefaults registers the default values on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("anki.url", "http://localhost:8765")
	v.SetDefault("anki.deck", "Deutsche Lernen::Wortschatz")
	v.SetDefault("anki.model", "Basic (and reversed card)_main")
	v.SetDefault("anki.timeout", 30*time.Second)

	v.SetDefault("languages.source", "de")
	v.SetDefault("languages.target", "ru")

	v.SetDefault("translation.provider", "openai")
	v.SetDefault("translation.model", "")

	v.SetDefault("audio.provider", "openai")
	v.SetDefault("audio.fallback", "")
	v.SetDefault("audio.model", "gpt-4o-mini-tts")
	v.SetDefault("audio.voice", "alloy")
	v.SetDefault("audio.speed", 1.0)
	v.SetDefault("audio.instruction", "You are speaking %s. Pronounce the text with authentic native phonetics. Speak clearly and at a natural pace for language learners.")
	v.SetDefault("audio.format", "mp3")
	v.SetDefault("audio.language", "")
	v.SetDefault("audio.temp_dir", os.TempDir())
	v.SetDefault("audio.prefix", "record")

	v.SetDefault("import.sheet", "Sheet1")
	v.SetDefault("import.unique_field", "base_de")
	v.SetDefault("import.fields", DefaultImportFields)
	v.SetDefault("import.tags", []string{})

	v.SetDefault("log.level", "info")
}

// Load builds and validates the configuration from v. Pairs that are not
// configured fall back to the vocabulary note defaults.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	if len(cfg.Translate.Pairs) == 0 {
		cfg.Translate.Pairs = DefaultTranslatePairs()
	}
	if len(cfg.Audio.Pairs) == 0 {
		cfg.Audio.Pairs = DefaultAudioPairs()
	}
	if cfg.OpenAI.Key == "" {
		cfg.OpenAI.Key = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.Gemini.Key == "" {
		cfg.Gemini.Key = firstNonEmpty(os.Getenv("GEMINI_API_KEY"), os.Getenv("GOOGLE_API_KEY"))
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// AudioLanguage is the language the audio pass speaks, the source
// language unless configured otherwise
func (c *Config) AudioLanguage() string {
	if c.Audio.Language != "" {
		return c.Audio.Language
	}
	return c.Languages.Source
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
