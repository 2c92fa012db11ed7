package workflow

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"codeberg.org/snonux/wortschatz/internal"
	"codeberg.org/snonux/wortschatz/internal/anki"
	"codeberg.org/snonux/wortschatz/internal/config"
)

// AttachAudio speaks the source field of every pair and stores the
// recording as a [sound:] reference in the target field. The field is
// written only after the upload succeeded; the local file is always
// removed.
func (p *Processor) AttachAudio(ctx context.Context, pairs []config.FieldPair, opts Options) (*Report, error) {
	report := &Report{Pass: "Audio"}
	if p.synth == nil && !opts.DryRun {
		return report, errors.New("no speech provider configured")
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

			text, skipped := sourceText(note, pair, opts)
			if skipped != nil {
				if err := p.record(report, *skipped, opts); err != nil {
					return report, err
				}
				continue
			}

			var res Result
			if opts.DryRun {
				res = Result{
					Key:     itemKey(note.NoteID, pair.Target),
					NoteID:  note.NoteID,
					Outcome: Skipped,
					Detail:  "dry run",
				}
				p.logger.Info("would record", "field", pair.Source, "value", text)
			} else {
				res = p.attachAudio(ctx, note, pair.Target, text)
			}

			if err := p.record(report, res, opts); err != nil {
				return report, err
			}
		}
	}

	return report, nil
}

func (p *Processor) attachAudio(ctx context.Context, note anki.Note, field, text string) Result {
	res := Result{Key: itemKey(note.NoteID, field), NoteID: note.NoteID}
	fail := func(err error) Result {
		res.Outcome = Failed
		res.Err = err
		return res
	}

	dir := p.cfg.Audio.TempDir
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fail(fmt.Errorf("failed to create audio directory: %w", err))
	}
	path := filepath.Join(dir, internal.AudioFilename(p.cfg.Audio.Prefix, p.cfg.Audio.Format))
	defer p.removeLocal(path)

	if err := p.synth.GenerateAudio(ctx, text, p.cfg.AudioLanguage(), path); err != nil {
		return fail(fmt.Errorf("failed to generate audio for %q: %w", text, err))
	}

	stored, err := p.store.StoreMediaFromPath(ctx, path)
	if err != nil {
		return fail(fmt.Errorf("failed to upload %s: %w", filepath.Base(path), err))
	}

	return p.UpdateField(ctx, note, field, anki.SoundTag(stored))
}

func (p *Processor) removeLocal(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		p.logger.Warn("failed to remove local audio file", "path", path, "err", err)
	}
}
