// Package language maps ISO-639-1 codes to the English language names
// used in provider prompts and voice instructions.
package language

import "strings"

var names = map[string]string{
	"bg": "Bulgarian",
	"de": "German",
	"en": "English",
	"es": "Spanish",
	"fr": "French",
	"it": "Italian",
	"nl": "Dutch",
	"pl": "Polish",
	"pt": "Portuguese",
	"ru": "Russian",
	"tr": "Turkish",
	"uk": "Ukrainian",
}

// Name returns the English name of a language code. Unknown codes are
// returned unchanged.
func Name(code string) string {
	if name, ok := names[strings.ToLower(code)]; ok {
		return name
	}
	return code
}

// Known reports whether the code is in the table
func Known(code string) bool {
	_, ok := names[strings.ToLower(code)]
	return ok
}
