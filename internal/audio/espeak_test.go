package audio

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDefaultESpeakConfig(t *testing.T) {
	config := DefaultESpeakConfig()

	if config.Speed != 150 {
		t.Errorf("Expected default speed 150, got %d", config.Speed)
	}
	if config.Pitch != 50 {
		t.Errorf("Expected default pitch 50, got %d", config.Pitch)
	}
	if config.Amplitude != 100 {
		t.Errorf("Expected default amplitude 100, got %d", config.Amplitude)
	}
	if config.WordGap != 0 {
		t.Errorf("Expected default word gap 0, got %d", config.WordGap)
	}
}

func TestESpeakArgs(t *testing.T) {
	tests := []struct {
		name   string
		config *ESpeakConfig
		want   []string
	}{
		{
			name:   "defaults",
			config: DefaultESpeakConfig(),
			want:   []string{"-v", "de", "-s", "150", "-p", "50", "-a", "100", "-w", "out.wav", "Haus"},
		},
		{
			name:   "variant and word gap",
			config: &ESpeakConfig{Variant: "f1", Speed: 120, Pitch: 40, Amplitude: 90, WordGap: 2},
			want:   []string{"-v", "de+f1", "-s", "120", "-p", "40", "-a", "90", "-g", "2", "-w", "out.wav", "Haus"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &ESpeakProvider{config: tt.config}
			if got := p.args("Haus", "de", "out.wav"); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("args() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestESpeakSetters(t *testing.T) {
	p := &ESpeakProvider{config: DefaultESpeakConfig()}

	p.SetSpeed(10)
	if p.config.Speed != 80 {
		t.Errorf("Speed = %d, want 80", p.config.Speed)
	}
	p.SetSpeed(1000)
	if p.config.Speed != 450 {
		t.Errorf("Speed = %d, want 450", p.config.Speed)
	}

	p.SetPitch(-5)
	if p.config.Pitch != 0 {
		t.Errorf("Pitch = %d, want 0", p.config.Pitch)
	}
	p.SetPitch(200)
	if p.config.Pitch != 99 {
		t.Errorf("Pitch = %d, want 99", p.config.Pitch)
	}

	p.SetAmplitude(-1)
	if p.config.Amplitude != 0 {
		t.Errorf("Amplitude = %d, want 0", p.config.Amplitude)
	}
	p.SetAmplitude(500)
	if p.config.Amplitude != 200 {
		t.Errorf("Amplitude = %d, want 200", p.config.Amplitude)
	}
}

func TestESpeakGenerateAudio(t *testing.T) {
	if err := checkESpeakInstalled(); err != nil {
		t.Skip("espeak-ng not installed, skipping test")
	}

	provider, err := NewESpeakProvider(nil)
	if err != nil {
		t.Fatalf("NewESpeakProvider failed: %v", err)
	}

	outputFile := filepath.Join(t.TempDir(), "haus.wav")
	if err := provider.GenerateAudio(context.Background(), "Haus", "de", outputFile); err != nil {
		t.Fatalf("GenerateAudio failed: %v", err)
	}

	info, err := os.Stat(outputFile)
	if err != nil {
		t.Fatalf("Output file not created: %v", err)
	}
	if info.Size() == 0 {
		t.Error("Output file is empty")
	}
}

func TestESpeakGenerateAudio_Validation(t *testing.T) {
	p := &ESpeakProvider{config: DefaultESpeakConfig()}

	if err := p.GenerateAudio(context.Background(), "", "de", "out.wav"); err == nil {
		t.Error("Expected error for empty text")
	}
	if err := p.GenerateAudio(context.Background(), "Haus", "", "out.wav"); err == nil {
		t.Error("Expected error for empty language")
	}
	if err := p.GenerateAudio(context.Background(), "Haus", "de", filepath.Join(t.TempDir(), "out.ogg")); err == nil {
		t.Error("Expected error for unsupported extension")
	}
}
