package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8765", cfg.Anki.URL)
	assert.Equal(t, "Deutsche Lernen::Wortschatz", cfg.Anki.Deck)
	assert.Equal(t, "Basic (and reversed card)_main", cfg.Anki.Model)
	assert.Equal(t, 30*time.Second, cfg.Anki.Timeout)
	assert.Equal(t, "de", cfg.Languages.Source)
	assert.Equal(t, "ru", cfg.Languages.Target)
	assert.Equal(t, "base_de", cfg.Import.UniqueField)
	assert.Equal(t, DefaultImportFields, cfg.Import.Fields)
	assert.Equal(t, "sk-test", cfg.OpenAI.Key)
	assert.Equal(t, "de", cfg.AudioLanguage())

	require.Len(t, cfg.Translate.Pairs, 10)
	assert.Equal(t, FieldPair{Source: "base_de", Target: "base_ru"}, cfg.Translate.Pairs[0])
	assert.Equal(t, FieldPair{Source: "s9_de", Target: "s9_ru"}, cfg.Translate.Pairs[9])

	require.Len(t, cfg.Audio.Pairs, 9)
	assert.Equal(t, FieldPair{Source: "s7_de", Target: "s7_audio"}, cfg.Audio.Pairs[6])
}

func TestLoad_ConfigFile(t *testing.T) {
	yaml := `
anki:
  deck: "Englisch::Vokabeln"
  timeout: 5s
languages:
  source: en
  target: de
audio:
  language: en
  format: wav
  provider: gemini
  pairs:
    - source: example_en
      target: example_audio
import:
  unique_field: word
  fields: [word, meaning]
  tags: [imported]
`
	path := filepath.Join(t.TempDir(), "wortschatz.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "Englisch::Vokabeln", cfg.Anki.Deck)
	assert.Equal(t, 5*time.Second, cfg.Anki.Timeout)
	assert.Equal(t, "en", cfg.AudioLanguage())
	assert.Equal(t, []FieldPair{{Source: "example_en", Target: "example_audio"}}, cfg.Audio.Pairs)
	assert.Equal(t, []string{"word", "meaning"}, cfg.Import.Fields)
	assert.Equal(t, []string{"imported"}, cfg.Import.Tags)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("WORTSCHATZ_ANKI_DECK", "Aus der Umgebung")

	v := viper.New()
	v.SetEnvPrefix("WORTSCHATZ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "Aus der Umgebung", cfg.Anki.Deck)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"empty deck", func(c *Config) { c.Anki.Deck = "" }, "anki"},
		{"empty model", func(c *Config) { c.Anki.Model = "" }, "anki"},
		{"bad url", func(c *Config) { c.Anki.URL = "not a url" }, "anki"},
		{"same languages", func(c *Config) { c.Languages.Target = "DE" }, "must differ"},
		{"unknown provider", func(c *Config) { c.Translation.Provider = "deepl" }, "translation"},
		{"unknown audio format", func(c *Config) { c.Audio.Format = "ogg" }, "audio"},
		{"gemini needs wav", func(c *Config) { c.Audio.Fallback = "gemini" }, "wav"},
		{"speed out of range", func(c *Config) { c.Audio.Speed = 9 }, "audio"},
		{"unique field not imported", func(c *Config) { c.Import.UniqueField = "word" }, "unique field"},
		{"pair to itself", func(c *Config) {
			c.Translate.Pairs = []FieldPair{{Source: "base_de", Target: "base_de"}}
		}, "must differ"},
		{"incomplete pair", func(c *Config) {
			c.Audio.Pairs = []FieldPair{{Source: "s1_de"}}
		}, "pair 0"},
		{"bad log level", func(c *Config) { c.Log.Level = "verbose" }, "Level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(viper.New())
			require.NoError(t, err)

			tt.mutate(cfg)
			err = cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFieldPair_String(t *testing.T) {
	assert.Equal(t, "base_de->base_ru", FieldPair{Source: "base_de", Target: "base_ru"}.String())
}
