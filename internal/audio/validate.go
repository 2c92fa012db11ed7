package audio

import (
	"fmt"
	"strings"
)

// ValidateText rejects text that cannot be spoken
func ValidateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("text cannot be empty")
	}
	return nil
}

// validateLanguage rejects a missing language code
func validateLanguage(lang string) error {
	if strings.TrimSpace(lang) == "" {
		return fmt.Errorf("language code cannot be empty")
	}
	return nil
}
