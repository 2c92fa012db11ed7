package workflow

import (
	"context"
	"errors"
	"fmt"

	"codeberg.org/snonux/wortschatz/internal/config"
)

// Translate fills the target field of every pair with the translation of
// its source field, for every note of the deck
func (p *Processor) Translate(ctx context.Context, pairs []config.FieldPair, opts Options) (*Report, error) {
	report := &Report{Pass: "Translation"}
	if p.translator == nil && !opts.DryRun {
		return report, errors.New("no translator configured")
	}

	notes, err := p.Notes(ctx)
	if err != nil {
		return report, err
	}

	for i, note := range notes {
		p.progress(i, len(notes), "note", note.NoteID)

		for _, pair := range pairs {
			if err := ctx.Err(); err != nil {
				return report, err
			}

			src, skipped := sourceText(note, pair, opts)
			if skipped != nil {
				if err := p.record(report, *skipped, opts); err != nil {
					return report, err
				}
				continue
			}

			var res Result
			switch {
			case opts.DryRun:
				res = Result{
					Key:     itemKey(note.NoteID, pair.Target),
					NoteID:  note.NoteID,
					Outcome: Skipped,
					Detail:  "dry run",
				}
				p.logger.Info("would translate", "field", pair.Source, "value", src)
			default:
				res = p.translateField(ctx, note.NoteID, pair, src)
				if res.Outcome != Failed {
					res = p.UpdateField(ctx, note, pair.Target, res.Detail)
				}
			}

			if err := p.record(report, res, opts); err != nil {
				return report, err
			}
		}
	}

	return report, nil
}

func (p *Processor) translateField(ctx context.Context, id int64, pair config.FieldPair, src string) Result {
	res := Result{Key: itemKey(id, pair.Target), NoteID: id}

	translated, err := p.translator.Translate(ctx, src)
	if err != nil {
		res.Outcome = Failed
		res.Err = fmt.Errorf("failed to translate %q: %w", src, err)
		return res
	}

	res.Outcome = Updated
	res.Detail = translated
	return res
}
