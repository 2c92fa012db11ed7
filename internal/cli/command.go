package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"codeberg.org/snonux/wortschatz/internal"
)

// CreateRootCommand creates and configures the root cobra command with all
// subcommands. Configuration is read into v before any subcommand runs.
func CreateRootCommand(flags *Flags, v *viper.Viper) *cobra.Command {
	return newRootCommand(&app{
		flags:   flags,
		v:       v,
		confirm: confirm,
	})
}

func newRootCommand(a *app) *cobra.Command {
	flags, v := a.flags, a.v

	rootCmd := &cobra.Command{
		Use:   "wortschatz",
		Short: "German vocabulary flashcards in Anki",
		Long: `wortschatz maintains German vocabulary notes in a running Anki through
the AnkiConnect add-on.

It imports vocabulary rows from a spreadsheet, fills translation fields
through OpenAI or Gemini and attaches spoken example sentences.

Examples:
  wortschatz import vokabeln.xlsx --sheet Sheet1
  wortschatz translate
  wortschatz translate --source s7_de --target s7_ru --overwrite
  wortschatz audio --source s7_de --target s7_audio --only-empty
  wortschatz show --id 1496198395707`,
		Version:       internal.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.out = cmd.OutOrStdout()
			return a.setup(cmd.ErrOrStderr())
		},
	}

	setupFlags(rootCmd, flags)

	rootCmd.AddCommand(
		newImportCommand(a),
		newTranslateCommand(a),
		newAudioCommand(a),
		newShowCommand(a),
		newExportCommand(a),
		newPingCommand(a),
		newListModelsCommand(a),
	)

	bindFlagsToViper(v, rootCmd)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.wortschatz.yaml)")
	pf.StringVar(&flags.Deck, "deck", "", "Anki deck (default \"Deutsche Lernen::Wortschatz\")")
	pf.StringVar(&flags.Model, "model", "", "Anki note type (default \"Basic (and reversed card)_main\")")
	pf.StringVar(&flags.AnkiURL, "anki-url", "", "AnkiConnect URL (default http://localhost:8765)")
	pf.StringVar(&flags.From, "from", "", "Source language code (default de)")
	pf.StringVar(&flags.To, "to", "", "Target language code (default ru)")
	pf.StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "Log level: debug, info, warn, error")
	pf.BoolVar(&flags.DryRun, "dry-run", false, "Read and check only, write nothing and call no provider")
	pf.BoolVar(&flags.KeepGoing, "keep-going", false, "Record failed items and continue instead of aborting")
}

func newImportCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Create notes from spreadsheet rows (.xlsx or .csv)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runImport(cmd.Context(), args[0])
		},
	}
	cmd.Flags().StringVar(&a.flags.Sheet, "sheet", a.flags.Sheet, "Workbook sheet to read")
	cmd.Flags().StringVar(&a.flags.UniqueField, "unique-field", "", "Field identifying existing notes (default base_de)")
	return cmd
}

func newTranslateCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "translate",
		Short: "Fill translation fields of every note in the deck",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTranslate(cmd.Context())
		},
	}
	addPairFlags(cmd.Flags(), a.flags, "base_de", "base_ru")
	cmd.Flags().BoolVar(&a.flags.Overwrite, "overwrite", false, "Also replace translations that are already filled")
	cmd.Flags().BoolVarP(&a.flags.Yes, "yes", "y", false, "Do not ask before overwriting")
	return cmd
}

func newAudioCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audio",
		Short: "Speak source fields and attach the recordings to every note in the deck",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAudio(cmd.Context())
		},
	}
	addPairFlags(cmd.Flags(), a.flags, "s7_de", "s7_audio")
	cmd.Flags().BoolVar(&a.flags.OnlyEmpty, "only-empty", false, "Skip notes whose audio field already holds a value")
	return cmd
}

func addPairFlags(fs *pflag.FlagSet, flags *Flags, source, target string) {
	fs.StringSliceVar(&flags.Sources, "source", nil, fmt.Sprintf("Source field, repeatable (e.g. %s)", source))
	fs.StringSliceVar(&flags.Targets, "target", nil, fmt.Sprintf("Target field, one per --source (e.g. %s)", target))
}

func newShowCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the notes of the deck as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runShow(cmd.Context())
		},
	}
	cmd.Flags().Int64Var(&a.flags.NoteID, "id", 0, "Show only the note with this id")
	return cmd
}

func newExportCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export <out.csv>",
		Short: "Write the notes of the deck to a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runExport(cmd.Context(), args[0])
		},
	}
}

func newPingCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that AnkiConnect is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runPing(cmd.Context())
		},
	}
}

func newListModelsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list-models",
		Short: "List OpenAI models usable for translation and speech",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runListModels(cmd.Context())
		},
	}
}

func bindFlagsToViper(v *viper.Viper, cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	v.BindPFlag("anki.deck", pf.Lookup("deck"))
	v.BindPFlag("anki.model", pf.Lookup("model"))
	v.BindPFlag("anki.url", pf.Lookup("anki-url"))
	v.BindPFlag("languages.source", pf.Lookup("from"))
	v.BindPFlag("languages.target", pf.Lookup("to"))
	v.BindPFlag("log.level", pf.Lookup("log-level"))

	for _, sub := range cmd.Commands() {
		if sub.Name() == "import" {
			v.BindPFlag("import.sheet", sub.Flags().Lookup("sheet"))
			v.BindPFlag("import.unique_field", sub.Flags().Lookup("unique-field"))
		}
	}
}

// InitConfig initializes viper configuration
func InitConfig(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		// Use config file from the flag
		v.SetConfigFile(cfgFile)
	} else {
		// Search config in home directory with name ".wortschatz" (without extension)
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".wortschatz")
	}

	// Environment variables
	v.SetEnvPrefix("WORTSCHATZ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file, which is optional unless given explicitly
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok && cfgFile == "" {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// NewLogger creates the stderr logger at the given level
func NewLogger(w io.Writer, level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Level:           lvl,
	}), nil
}
