package workflow

import (
	"context"
	"fmt"

	"codeberg.org/snonux/wortschatz/internal/anki"
	"codeberg.org/snonux/wortschatz/internal/spreadsheet"
)

// Import creates one note per row unless a note with the same unique field
// value already exists in the deck. Missing columns become empty fields.
func (p *Processor) Import(ctx context.Context, rows []spreadsheet.Row, opts Options) (*Report, error) {
	report := &Report{Pass: "Import"}
	unique := p.cfg.Import.UniqueField

	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		key := row.Get(unique)
		p.progress(i, len(rows), unique, key)

		res := p.importRow(ctx, row, key, opts)
		if res.Key == "" {
			res.Key = fmt.Sprintf("row %d", i+2)
		}
		if err := p.record(report, res, opts); err != nil {
			return report, err
		}
	}

	return report, nil
}

func (p *Processor) importRow(ctx context.Context, row spreadsheet.Row, key string, opts Options) Result {
	res := Result{Key: key}
	if key == "" {
		res.Outcome = Skipped
		res.Detail = p.cfg.Import.UniqueField + " empty"
		return res
	}

	exists, err := p.NoteExists(ctx, p.cfg.Import.UniqueField, key)
	if err != nil {
		res.Outcome = Failed
		res.Err = err
		return res
	}
	if exists {
		res.Outcome = Skipped
		res.Detail = "already exists"
		return res
	}

	fields := make(map[string]string, len(p.cfg.Import.Fields))
	for _, name := range p.cfg.Import.Fields {
		fields[name] = row.Get(name)
	}

	if opts.DryRun {
		res.Outcome = Skipped
		res.Detail = "dry run"
		return res
	}

	note := anki.NewDeckNote(p.cfg.Anki.Deck, p.cfg.Anki.Model, fields, p.cfg.Import.Tags)
	id, err := p.store.AddNote(ctx, note)
	if err != nil {
		res.Outcome = Failed
		res.Err = fmt.Errorf("failed to add note %q: %w", key, err)
		return res
	}

	res.NoteID = id
	res.Outcome = Created
	res.Detail = fmt.Sprintf("note %d", id)
	return res
}
