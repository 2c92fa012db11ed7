package audio

import "testing"

func TestValidateText(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr bool
	}{
		{"German word", "Haus", false},
		{"German sentence", "Das Haus ist groß.", false},
		{"Cyrillic", "дом", false},
		{"empty string", "", true},
		{"whitespace only", "  \t\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateText(tt.text)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateText() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateLanguage(t *testing.T) {
	if err := validateLanguage("de"); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	if err := validateLanguage(" "); err == nil {
		t.Error("Expected error for empty language")
	}
}
