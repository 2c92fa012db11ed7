package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/log"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"codeberg.org/snonux/wortschatz/internal/anki"
	"codeberg.org/snonux/wortschatz/internal/audio"
	"codeberg.org/snonux/wortschatz/internal/config"
	"codeberg.org/snonux/wortschatz/internal/models"
	"codeberg.org/snonux/wortschatz/internal/spreadsheet"
	"codeberg.org/snonux/wortschatz/internal/translation"
	"codeberg.org/snonux/wortschatz/internal/workflow"
)

// app carries the state shared by the subcommands of one invocation
type app struct {
	flags   *Flags
	v       *viper.Viper
	cfg     *config.Config
	logger  *log.Logger
	out     io.Writer
	confirm func(title string) (bool, error)

	// overridable in tests
	openAIBaseURL string
}

func (a *app) setup(stderr io.Writer) error {
	if err := InitConfig(a.v, a.flags.CfgFile); err != nil {
		return err
	}

	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := NewLogger(stderr, cfg.Log.Level)
	if err != nil {
		return err
	}
	log.SetDefault(logger)
	a.logger = logger

	if f := a.v.ConfigFileUsed(); f != "" {
		logger.Debug("using config file", "path", f)
	}
	return nil
}

func (a *app) client() *anki.Client {
	return anki.NewClient(a.cfg.Anki.URL,
		anki.WithTimeout(a.cfg.Anki.Timeout),
		anki.WithLogger(a.logger),
	)
}

func (a *app) options() workflow.Options {
	return workflow.Options{
		ContinueOnError: a.flags.KeepGoing,
		DryRun:          a.flags.DryRun,
	}
}

// pairs returns the field pairs given on the command line, or fallback
func (a *app) pairs(fallback []config.FieldPair) ([]config.FieldPair, error) {
	given, err := a.flags.FieldPairs()
	if err != nil {
		return nil, err
	}
	if len(given) == 0 {
		return fallback, nil
	}

	pairs := make([]config.FieldPair, 0, len(given))
	for _, p := range given {
		pairs = append(pairs, config.FieldPair{Source: p[0], Target: p[1]})
	}
	return pairs, nil
}

// finish prints the summary of a pass and turns failures into the
// command's error
func (a *app) finish(report *workflow.Report, err error) error {
	if report != nil {
		report.Print(a.out)
	}
	if err != nil {
		return err
	}
	if report != nil {
		if n := len(report.Failures()); n > 0 {
			return fmt.Errorf("%d item(s) failed", n)
		}
	}
	return nil
}

func (a *app) runImport(ctx context.Context, path string) error {
	rows, err := spreadsheet.ReadRows(path, a.cfg.Import.Sheet)
	if err != nil {
		return err
	}
	a.logger.Info("read spreadsheet", "file", path, "rows", len(rows))

	proc := workflow.New(a.cfg, a.client(), workflow.WithLogger(a.logger))
	return a.finish(proc.Import(ctx, rows, a.options()))
}

func (a *app) runTranslate(ctx context.Context) error {
	pairs, err := a.pairs(a.cfg.Translate.Pairs)
	if err != nil {
		return err
	}

	opts := a.options()
	opts.OnlyEmpty = !a.flags.Overwrite
	if a.flags.Overwrite && !a.flags.Yes && !opts.DryRun {
		ok, err := a.confirm(fmt.Sprintf("Overwrite existing translations in %s?", describePairs(pairs)))
		if err != nil {
			return err
		}
		if !ok {
			return errors.New("aborted")
		}
	}

	wopts := []workflow.Option{workflow.WithLogger(a.logger)}
	if !opts.DryRun {
		t, err := translation.New(ctx, translation.Config{
			Provider:  a.cfg.Translation.Provider,
			Model:     a.cfg.Translation.Model,
			OpenAIKey: a.cfg.OpenAI.Key,
			GeminiKey: a.cfg.Gemini.Key,
			BaseURL:   a.openAIBaseURL,
			Pair:      translation.Pair{Source: a.cfg.Languages.Source, Target: a.cfg.Languages.Target},
		})
		if err != nil {
			return err
		}
		wopts = append(wopts, workflow.WithTranslator(t))
	}

	proc := workflow.New(a.cfg, a.client(), wopts...)
	return a.finish(proc.Translate(ctx, pairs, opts))
}

func (a *app) runAudio(ctx context.Context) error {
	pairs, err := a.pairs(a.cfg.Audio.Pairs)
	if err != nil {
		return err
	}

	opts := a.options()
	opts.OnlyEmpty = a.flags.OnlyEmpty

	wopts := []workflow.Option{workflow.WithLogger(a.logger)}
	if !opts.DryRun {
		p, err := audio.NewProvider(ctx, a.audioConfig())
		if err != nil {
			return err
		}
		if err := p.IsAvailable(); err != nil {
			return fmt.Errorf("audio provider %s: %w", p.Name(), err)
		}
		wopts = append(wopts, workflow.WithSynthesizer(p))
	}

	proc := workflow.New(a.cfg, a.client(), wopts...)
	return a.finish(proc.AttachAudio(ctx, pairs, opts))
}

func (a *app) audioConfig() *audio.Config {
	ac := audio.DefaultProviderConfig()
	ac.Provider = a.cfg.Audio.Provider
	ac.Fallback = a.cfg.Audio.Fallback
	ac.OutputFormat = a.cfg.Audio.Format
	ac.OpenAIKey = a.cfg.OpenAI.Key
	ac.OpenAIBaseURL = a.openAIBaseURL
	ac.OpenAIVoice = a.cfg.Audio.Voice
	ac.OpenAISpeed = a.cfg.Audio.Speed
	ac.OpenAIInstruction = a.cfg.Audio.Instruction
	ac.GeminiKey = a.cfg.Gemini.Key

	// audio.model names either an OpenAI or a Gemini speech model
	if strings.HasPrefix(a.cfg.Audio.Model, "gemini") {
		ac.GeminiModel = a.cfg.Audio.Model
	} else if a.cfg.Audio.Model != "" {
		ac.OpenAIModel = a.cfg.Audio.Model
	}
	return ac
}

func (a *app) runShow(ctx context.Context) error {
	proc := workflow.New(a.cfg, a.client(), workflow.WithLogger(a.logger))

	var doc any
	if a.flags.NoteID != 0 {
		note, err := proc.Note(ctx, a.flags.NoteID)
		if err != nil {
			return err
		}
		doc = note
	} else {
		notes, err := proc.Notes(ctx)
		if err != nil {
			return err
		}
		doc = notes
	}

	enc := yaml.NewEncoder(a.out)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode notes: %w", err)
	}
	return enc.Close()
}

func (a *app) runExport(ctx context.Context, path string) error {
	proc := workflow.New(a.cfg, a.client(), workflow.WithLogger(a.logger))
	notes, err := proc.Notes(ctx)
	if err != nil {
		return err
	}

	options := anki.DefaultExportOptions()
	options.OutputPath = path
	exporter := anki.NewExporter(options)
	for _, note := range notes {
		exporter.AddNote(note)
	}
	if err := exporter.GenerateCSV(); err != nil {
		return err
	}

	total, withAudio := exporter.Stats()
	fmt.Fprintf(a.out, "Exported %d notes (%d with audio) to %s\n", total, withAudio, path)
	return nil
}

func (a *app) runPing(ctx context.Context) error {
	c := a.client()
	v, err := c.Version(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "AnkiConnect version %d at %s\n", v, c.URL())
	return nil
}

func (a *app) runListModels(ctx context.Context) error {
	lister := models.NewLister(a.cfg.OpenAI.Key, a.openAIBaseURL)
	return lister.ListAvailableModels(ctx, a.out)
}

func describePairs(pairs []config.FieldPair) string {
	targets := make([]string, 0, len(pairs))
	for _, p := range pairs {
		targets = append(targets, p.Target)
	}
	return strings.Join(targets, ", ")
}

func confirm(title string) (bool, error) {
	var ok bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Overwrite").
				Negative("Cancel").
				Value(&ok),
		),
	).Run()
	if err != nil {
		return false, fmt.Errorf("failed to get confirmation: %w", err)
	}
	return ok, nil
}
