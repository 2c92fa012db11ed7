package translation

import "codeberg.org/snonux/wortschatz/internal/language"

// Pair is a source/target language pair
type Pair struct {
	Source string
	Target string
}

func (p Pair) String() string {
	return p.Source + "->" + p.Target
}

func (p Pair) prompt(text string) string {
	target := language.Name(p.Target)
	return "Translate the following " + language.Name(p.Source) + " text to " +
		target + ". Respond with only the " + target +
		" translation, nothing else.\n\n" + text
}
