package anki

import "strings"

// Query builds an Anki search string from escaped terms. Raw values never
// reach the search syntax unescaped, so quotes, wildcards and colons in
// user data cannot change the meaning of the query.
type Query struct {
	terms []string
}

// NewQuery starts an empty query
func NewQuery() *Query {
	return &Query{}
}

// DeckQuery starts a query restricted to a deck (and its subdecks)
func DeckQuery(deck string) *Query {
	return NewQuery().Deck(deck)
}

// Deck adds a deck:"name" term
func (q *Query) Deck(name string) *Query {
	q.terms = append(q.terms, `deck:"`+escapeName(name)+`"`)
	return q
}

// Model adds a note:"name" term matching the note type
func (q *Query) Model(name string) *Query {
	q.terms = append(q.terms, `note:"`+escapeName(name)+`"`)
	return q
}

// Field adds an exact "field:value" term
func (q *Query) Field(name, value string) *Query {
	q.terms = append(q.terms, `"`+escapeText(name)+`:`+escapeText(value)+`"`)
	return q
}

// Tag adds a tag:name term
func (q *Query) Tag(name string) *Query {
	q.terms = append(q.terms, `"tag:`+escapeText(name)+`"`)
	return q
}

// String renders the query
func (q *Query) String() string {
	return strings.Join(q.terms, " ")
}

var nameReplacer = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	`*`, `\*`,
	`_`, `\_`,
)

var textReplacer = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	`*`, `\*`,
	`_`, `\_`,
	`:`, `\:`,
)

// escapeName escapes deck and note type names. Colons stay as they are
// because "::" separates subdecks and follows the deck: prefix.
func escapeName(s string) string {
	return nameReplacer.Replace(s)
}

func escapeText(s string) string {
	return textReplacer.Replace(s)
}
