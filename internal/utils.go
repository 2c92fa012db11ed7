package internal

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// AudioFilename creates a unique media file name for a generated recording
// Format: prefix-uuid.ext
func AudioFilename(prefix, ext string) string {
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		ext = "mp3"
	}

	prefix = SanitizeFilename(prefix)
	if prefix == "" {
		return fmt.Sprintf("%s.%s", uuid.NewString(), ext)
	}

	return fmt.Sprintf("%s-%s.%s", prefix, uuid.NewString(), ext)
}

// SanitizeFilename creates a safe filename from a string
func SanitizeFilename(s string) string {
	var b strings.Builder
	for _, r := range s {
		if isAlphaNumeric(r) || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

// isAlphaNumeric checks if a rune is an ASCII letter or digit.
// Anki media names travel through sound tags, so keep them plain.
func isAlphaNumeric(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}
