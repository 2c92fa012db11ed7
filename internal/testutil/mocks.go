package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// MockTranslator mocks the translation service
type MockTranslator struct {
	Translations map[string]string
	Errors       map[string]error
	Calls        []string

	mu sync.Mutex
}

// Translate mocks translating text
func (m *MockTranslator) Translate(ctx context.Context, text string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, text)

	if err, ok := m.Errors[text]; ok {
		return "", err
	}

	if translation, ok := m.Translations[text]; ok {
		return translation, nil
	}

	// Default mock translation
	return fmt.Sprintf("mock translation of %s", text), nil
}

// MockSynthesizer mocks a text-to-speech provider. It writes Data (or a
// fake MP3 header) to the requested output file.
type MockSynthesizer struct {
	Data   []byte
	Errors map[string]error
	Calls  []SynthCall

	mu sync.Mutex
}

// SynthCall is one recorded GenerateAudio call
type SynthCall struct {
	Text       string
	Lang       string
	OutputFile string
}

// GenerateAudio mocks speaking text into outputFile
func (m *MockSynthesizer) GenerateAudio(ctx context.Context, text, lang, outputFile string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, SynthCall{Text: text, Lang: lang, OutputFile: outputFile})

	if err, ok := m.Errors[text]; ok {
		return err
	}

	data := m.Data
	if data == nil {
		data = GenerateAudioData()
	}
	if err := os.MkdirAll(filepath.Dir(outputFile), 0755); err != nil {
		return err
	}
	return os.WriteFile(outputFile, data, 0644)
}

// Name returns the provider name
func (m *MockSynthesizer) Name() string {
	return "mock"
}

// IsAvailable always succeeds
func (m *MockSynthesizer) IsAvailable() error {
	return nil
}

// GenerateAudioData generates mock audio data
func GenerateAudioData() []byte {
	// Simple mock MP3 header
	return []byte{0xFF, 0xFB, 0x90, 0x00, 0x00, 0x00, 0x00, 0x00}
}
