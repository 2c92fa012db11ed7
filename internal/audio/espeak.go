package audio

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ESpeakConfig holds configuration for espeak-ng audio generation
type ESpeakConfig struct {
	Variant   string // Voice variant appended to the language (e.g., "m1", "f2")
	Speed     int    // Speech speed in words per minute (default: 150)
	Pitch     int    // Pitch adjustment, 0 to 99 (default: 50)
	Amplitude int    // Volume/amplitude, 0 to 200 (default: 100)
	WordGap   int    // Gap between words in 10ms units (default: 0)
}

// DefaultESpeakConfig returns the default espeak-ng configuration
func DefaultESpeakConfig() *ESpeakConfig {
	return &ESpeakConfig{
		Speed:     150,
		Pitch:     50,
		Amplitude: 100,
		WordGap:   0,
	}
}

// ESpeakProvider implements Provider interface for the local espeak-ng
// engine. It needs no API key and speaks most languages by code.
type ESpeakProvider struct {
	config *ESpeakConfig
}

// NewESpeakProvider creates a new espeak-ng provider
func NewESpeakProvider(config *ESpeakConfig) (Provider, error) {
	if err := checkESpeakInstalled(); err != nil {
		return nil, err
	}

	if config == nil {
		config = DefaultESpeakConfig()
	}

	return &ESpeakProvider{config: config}, nil
}

// voice builds the espeak-ng voice name for a language
func (p *ESpeakProvider) voice(lang string) string {
	if p.config.Variant == "" {
		return lang
	}
	return lang + "+" + p.config.Variant
}

// args builds the espeak-ng command line
func (p *ESpeakProvider) args(text, lang, wavFile string) []string {
	args := []string{
		"-v", p.voice(lang), // Voice selection
		"-s", fmt.Sprintf("%d", p.config.Speed), // Speed
		"-p", fmt.Sprintf("%d", p.config.Pitch), // Pitch
		"-a", fmt.Sprintf("%d", p.config.Amplitude), // Amplitude/volume
	}

	if p.config.WordGap > 0 {
		args = append(args, "-g", fmt.Sprintf("%d", p.config.WordGap))
	}

	return append(args, "-w", wavFile, text)
}

// GenerateAudio generates audio using espeak-ng. MP3 output is converted
// from a temporary WAV with ffmpeg.
func (p *ESpeakProvider) GenerateAudio(ctx context.Context, text, lang, outputFile string) error {
	if err := ValidateText(text); err != nil {
		return err
	}
	if err := validateLanguage(lang); err != nil {
		return err
	}

	dir := filepath.Dir(outputFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	switch strings.ToLower(filepath.Ext(outputFile)) {
	case ".wav":
		return p.speak(ctx, text, lang, outputFile)
	case ".mp3":
		tempWAV := strings.TrimSuffix(outputFile, filepath.Ext(outputFile)) + "_temp.wav"
		defer os.Remove(tempWAV)

		if err := p.speak(ctx, text, lang, tempWAV); err != nil {
			return err
		}
		return ConvertWAVToMP3(ctx, tempWAV, outputFile)
	default:
		return fmt.Errorf("unsupported audio file extension: %s", filepath.Ext(outputFile))
	}
}

func (p *ESpeakProvider) speak(ctx context.Context, text, lang, wavFile string) error {
	cmd := exec.CommandContext(ctx, "espeak-ng", p.args(strings.TrimSpace(text), lang, wavFile)...)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("espeak-ng failed: %w\nOutput: %s", err, string(output))
	}
	return nil
}

// Name returns the provider name
func (p *ESpeakProvider) Name() string {
	return "espeak-ng"
}

// IsAvailable checks if espeak-ng is installed
func (p *ESpeakProvider) IsAvailable() error {
	return checkESpeakInstalled()
}

// SetSpeed updates the speech speed
func (p *ESpeakProvider) SetSpeed(speed int) {
	if speed < 80 {
		speed = 80
	} else if speed > 450 {
		speed = 450
	}
	p.config.Speed = speed
}

// SetPitch updates the pitch (0-99, 50 is default)
func (p *ESpeakProvider) SetPitch(pitch int) {
	if pitch < 0 {
		pitch = 0
	} else if pitch > 99 {
		pitch = 99
	}
	p.config.Pitch = pitch
}

// SetAmplitude updates the volume/amplitude (0-200, 100 is default)
func (p *ESpeakProvider) SetAmplitude(amplitude int) {
	if amplitude < 0 {
		amplitude = 0
	} else if amplitude > 200 {
		amplitude = 200
	}
	p.config.Amplitude = amplitude
}

// checkESpeakInstalled verifies that espeak-ng is available on the system
func checkESpeakInstalled() error {
	if _, err := exec.LookPath("espeak-ng"); err != nil {
		return fmt.Errorf("espeak-ng is not installed or not in PATH: %w", err)
	}
	return nil
}

// ConvertWAVToMP3 converts a WAV file to MP3 using ffmpeg
func ConvertWAVToMP3(ctx context.Context, wavFile, mp3File string) error {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return fmt.Errorf("ffmpeg is not installed or not in PATH: %w", err)
	}

	cmd := exec.CommandContext(ctx, "ffmpeg", "-i", wavFile, "-acodec", "mp3", "-y", mp3File)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg conversion failed: %w\nOutput: %s", err, string(output))
	}

	return nil
}
