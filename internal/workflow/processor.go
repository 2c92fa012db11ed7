package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"codeberg.org/snonux/wortschatz/internal/anki"
	"codeberg.org/snonux/wortschatz/internal/apperr"
	"codeberg.org/snonux/wortschatz/internal/config"
)

// NoteStore is the part of the AnkiConnect client the passes need
type NoteStore interface {
	FindNotes(ctx context.Context, query string) ([]int64, error)
	NotesInfo(ctx context.Context, ids []int64) ([]anki.Note, error)
	UpdateNoteFields(ctx context.Context, id int64, fields map[string]string) error
	AddNote(ctx context.Context, note anki.NewNote) (int64, error)
	StoreMediaFromPath(ctx context.Context, path string) (string, error)
}

// Translator translates text within the configured language pair
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

// Synthesizer writes spoken text to an audio file
type Synthesizer interface {
	GenerateAudio(ctx context.Context, text, lang, outputFile string) error
}

// Processor runs the bulk passes against one deck
type Processor struct {
	cfg        *config.Config
	store      NoteStore
	translator Translator
	synth      Synthesizer
	logger     *log.Logger
}

// Option configures a Processor
type Option func(*Processor)

// WithTranslator sets the translator used by the translate pass
func WithTranslator(t Translator) Option {
	return func(p *Processor) {
		p.translator = t
	}
}

// WithSynthesizer sets the speech provider used by the audio pass
func WithSynthesizer(s Synthesizer) Option {
	return func(p *Processor) {
		p.synth = s
	}
}

// WithLogger sets the progress logger
func WithLogger(l *log.Logger) Option {
	return func(p *Processor) {
		p.logger = l
	}
}

// New creates a processor for the deck and note type in cfg
func New(cfg *config.Config, store NoteStore, opts ...Option) *Processor {
	p := &Processor{
		cfg:    cfg,
		store:  store,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NoteExists reports whether a note of the configured deck and note type
// has value in field
func (p *Processor) NoteExists(ctx context.Context, field, value string) (bool, error) {
	query := anki.DeckQuery(p.cfg.Anki.Deck).
		Model(p.cfg.Anki.Model).
		Field(field, value)

	ids, err := p.store.FindNotes(ctx, query.String())
	if err != nil {
		return false, fmt.Errorf("failed to look up %s=%q: %w", field, value, err)
	}
	return len(ids) > 0, nil
}

// Notes returns every note of the configured deck
func (p *Processor) Notes(ctx context.Context) ([]anki.Note, error) {
	ids, err := p.store.FindNotes(ctx, anki.DeckQuery(p.cfg.Anki.Deck).String())
	if err != nil {
		return nil, fmt.Errorf("failed to list notes of deck %q: %w", p.cfg.Anki.Deck, err)
	}
	p.logger.Debug("found notes", "deck", p.cfg.Anki.Deck, "count", len(ids))

	notes, err := p.store.NotesInfo(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load notes: %w", err)
	}
	return notes, nil
}

// Note returns a single note by id
func (p *Processor) Note(ctx context.Context, id int64) (anki.Note, error) {
	notes, err := p.store.NotesInfo(ctx, []int64{id})
	if err != nil {
		return anki.Note{}, fmt.Errorf("failed to load note %d: %w", id, err)
	}
	if len(notes) == 0 {
		return anki.Note{}, fmt.Errorf("note %d: %w", id, apperr.ErrNotFound)
	}
	return notes[0], nil
}

// UpdateField writes value into field of note. A field the note type does
// not have yields a Skipped result wrapping apperr.ErrNotFound.
func (p *Processor) UpdateField(ctx context.Context, note anki.Note, field, value string) Result {
	res := Result{Key: itemKey(note.NoteID, field), NoteID: note.NoteID}

	if _, ok := note.Field(field); !ok {
		res.Outcome = Skipped
		res.Detail = "field not found"
		res.Err = fmt.Errorf("field %q: %w", field, apperr.ErrNotFound)
		return res
	}

	if err := p.store.UpdateNoteFields(ctx, note.NoteID, map[string]string{field: value}); err != nil {
		res.Outcome = Failed
		res.Err = fmt.Errorf("failed to update field %q of note %d: %w", field, note.NoteID, err)
		return res
	}

	res.Outcome = Updated
	res.Detail = value
	return res
}

// record appends res to the report and returns the error that aborts the
// pass, if any
func (p *Processor) record(report *Report, res Result, opts Options) error {
	report.add(res)

	switch res.Outcome {
	case Failed:
		p.logger.Error("failed", "item", res.Key, "err", res.Err)
		if !opts.ContinueOnError {
			return res.Err
		}
	case Skipped:
		p.logger.Info("skipped", "item", res.Key, "reason", res.Detail)
	default:
		p.logger.Info(res.Outcome.String(), "item", res.Key, "value", res.Detail)
	}
	return nil
}

func (p *Processor) progress(i, total int, args ...interface{}) {
	p.logger.Info(fmt.Sprintf("%d of %d", i+1, total), args...)
}

func itemKey(id int64, field string) string {
	return fmt.Sprintf("%d/%s", id, field)
}

// sourceText returns the trimmed source value of pair, or a Skipped result
// when the note cannot take part in the pair
func sourceText(note anki.Note, pair config.FieldPair, opts Options) (string, *Result) {
	skip := func(detail string, err error) (string, *Result) {
		return "", &Result{
			Key:     itemKey(note.NoteID, pair.Target),
			NoteID:  note.NoteID,
			Outcome: Skipped,
			Detail:  detail,
			Err:     err,
		}
	}

	src, ok := note.Field(pair.Source)
	if !ok {
		return skip("source field not found", fmt.Errorf("field %q: %w", pair.Source, apperr.ErrNotFound))
	}
	dst, ok := note.Field(pair.Target)
	if !ok {
		return skip("target field not found", fmt.Errorf("field %q: %w", pair.Target, apperr.ErrNotFound))
	}

	src = strings.TrimSpace(src)
	if src == "" {
		return skip("source empty", nil)
	}
	if opts.OnlyEmpty && strings.TrimSpace(dst) != "" {
		return skip("already filled", nil)
	}
	return src, nil
}
