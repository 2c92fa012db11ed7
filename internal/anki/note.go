package anki

import (
	"fmt"
	"sort"
)

// FieldValue is one field of a note as reported by notesInfo
type FieldValue struct {
	Value string `json:"value" yaml:"value"`
	Order int    `json:"order" yaml:"order"`
}

// Note is a note as reported by notesInfo
type Note struct {
	NoteID    int64                 `json:"noteId" yaml:"note_id"`
	ModelName string                `json:"modelName" yaml:"model"`
	Tags      []string              `json:"tags" yaml:"tags"`
	Fields    map[string]FieldValue `json:"fields" yaml:"fields"`
}

// Field returns the value of a field and whether the note has it
func (n Note) Field(name string) (string, bool) {
	f, ok := n.Fields[name]
	return f.Value, ok
}

// FieldNames returns the note's field names in model order
func (n Note) FieldNames() []string {
	names := make([]string, 0, len(n.Fields))
	for name := range n.Fields {
		names = append(names, name)
	}
	sort.SliceStable(names, func(i, j int) bool {
		oi, oj := n.Fields[names[i]].Order, n.Fields[names[j]].Order
		if oi != oj {
			return oi < oj
		}
		return names[i] < names[j]
	})
	return names
}

// NoteOptions controls duplicate handling of addNote
type NoteOptions struct {
	AllowDuplicate bool   `json:"allowDuplicate"`
	DuplicateScope string `json:"duplicateScope"`
}

// NewNote is the payload of addNote
type NewNote struct {
	DeckName  string            `json:"deckName"`
	ModelName string            `json:"modelName"`
	Fields    map[string]string `json:"fields"`
	Options   NoteOptions       `json:"options"`
	Tags      []string          `json:"tags"`
}

// NewDeckNote creates an addNote payload that lets Anki reject duplicates
// within the deck
func NewDeckNote(deck, model string, fields map[string]string, tags []string) NewNote {
	return NewNote{
		DeckName:  deck,
		ModelName: model,
		Fields:    fields,
		Options: NoteOptions{
			AllowDuplicate: false,
			DuplicateScope: "deck",
		},
		Tags: tags,
	}
}

// SoundTag formats a media file reference for a note field.
// Anki audio format: [sound:filename.mp3]
func SoundTag(filename string) string {
	return fmt.Sprintf("[sound:%s]", filename)
}
