package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	providers      = []interface{}{"openai", "gemini"}
	audioProviders = []interface{}{"openai", "gemini", "espeak"}
	audioFormats   = []interface{}{"mp3", "wav", "opus", "aac", "flac"}
	logLevels      = []interface{}{"debug", "info", "warn", "error"}
)

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.Anki.Validate(); err != nil {
		return fmt.Errorf("anki: %w", err)
	}
	if err := c.Languages.Validate(); err != nil {
		return fmt.Errorf("languages: %w", err)
	}
	if err := validation.ValidateStruct(&c.Translation,
		validation.Field(&c.Translation.Provider, validation.Required, validation.In(providers...)),
	); err != nil {
		return fmt.Errorf("translation: %w", err)
	}
	if err := c.Audio.Validate(); err != nil {
		return fmt.Errorf("audio: %w", err)
	}
	if err := c.Import.Validate(); err != nil {
		return fmt.Errorf("import: %w", err)
	}
	if err := validatePairs(c.Translate.Pairs); err != nil {
		return fmt.Errorf("translate: %w", err)
	}
	return validation.ValidateStruct(&c.Log,
		validation.Field(&c.Log.Level, validation.Required, validation.In(logLevels...)),
	)
}

// Validate validates the AnkiConnect configuration
func (c *AnkiConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.URL, validation.Required, validation.By(httpURL)),
		validation.Field(&c.Deck, validation.Required),
		validation.Field(&c.Model, validation.Required),
		validation.Field(&c.Timeout, validation.Min(0)),
	)
}

// Validate validates the language pair
func (c *LanguagesConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Source, validation.Required, validation.Length(2, 8)),
		validation.Field(&c.Target, validation.Required, validation.Length(2, 8)),
	); err != nil {
		return err
	}
	if strings.EqualFold(c.Source, c.Target) {
		return errors.New("source and target language must differ")
	}
	return nil
}

// Validate validates the audio configuration
func (c *AudioConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Provider, validation.Required, validation.In(audioProviders...)),
		validation.Field(&c.Fallback, validation.In(audioProviders...)),
		validation.Field(&c.Format, validation.Required, validation.In(audioFormats...)),
		validation.Field(&c.Speed, validation.Min(0.25), validation.Max(4.0)),
	); err != nil {
		return err
	}
	if (c.Provider == "gemini" || c.Fallback == "gemini") && c.Format != "wav" {
		return errors.New("the gemini provider only produces wav audio")
	}
	return validatePairs(c.Pairs)
}

// Validate validates the import configuration
func (c *ImportConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.UniqueField, validation.Required),
		validation.Field(&c.Fields, validation.Required, validation.Each(validation.Required)),
	); err != nil {
		return err
	}
	for _, f := range c.Fields {
		if f == c.UniqueField {
			return nil
		}
	}
	return fmt.Errorf("unique field %q is not one of the import fields", c.UniqueField)
}

func validatePairs(pairs []FieldPair) error {
	for i, p := range pairs {
		if err := validation.ValidateStruct(&pairs[i],
			validation.Field(&pairs[i].Source, validation.Required),
			validation.Field(&pairs[i].Target, validation.Required),
		); err != nil {
			return fmt.Errorf("pair %d: %w", i, err)
		}
		if p.Source == p.Target {
			return fmt.Errorf("pair %d: source and target field must differ", i)
		}
	}
	return nil
}

func httpURL(value interface{}) error {
	s, _ := value.(string)
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("must be an http(s) URL")
	}
	return nil
}
