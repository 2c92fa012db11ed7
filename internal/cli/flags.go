package cli

import "fmt"

// Flags holds all command-line flag values
type Flags struct {
	// Global flags
	CfgFile   string
	Deck      string
	Model     string
	AnkiURL   string
	From      string
	To        string
	LogLevel  string
	DryRun    bool
	KeepGoing bool

	// import
	Sheet       string
	UniqueField string

	// translate and audio
	Sources   []string
	Targets   []string
	Overwrite bool
	Yes       bool
	OnlyEmpty bool

	// show
	NoteID int64
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		Sheet:    "Sheet1",
		LogLevel: "info",
	}
}

// FieldPairs zips --source and --target into pairs. Both lists must have
// the same length.
func (f *Flags) FieldPairs() ([][2]string, error) {
	if len(f.Sources) != len(f.Targets) {
		return nil, fmt.Errorf("got %d --source but %d --target fields", len(f.Sources), len(f.Targets))
	}

	pairs := make([][2]string, 0, len(f.Sources))
	for i := range f.Sources {
		pairs = append(pairs, [2]string{f.Sources[i], f.Targets[i]})
	}
	return pairs, nil
}
