// Package root contains the root command for the application.
package root

import (
	"github.com/spf13/cobra"

	"tabstream/internal/adapter"
	"tabstream/internal/config"
	"tabstream/internal/factory"
	"tabstream/internal/logging"
	"tabstream/internal/models"
)

// CommonFlags are the flags shared by every subcommand that touches a
// source file.
type CommonFlags struct {
	Format    string
	Delimiter string
	Quote     string
	Encoding  string
	NoHeader  bool
	MaxRows   int
	Profiles  string
}

var (
	// Log is the shared logger for commands. Reconfigured from the
	// loaded config before any subcommand runs.
	Log logging.Logger = logging.GetLogger()

	// Registry is the format registry commands resolve adapters from.
	Registry *factory.Factory

	// SharedFlags holds the persistent flag values.
	SharedFlags = CommonFlags{}

	// Cmd is the root command.
	Cmd = &cobra.Command{
		Use:   "tabstream",
		Short: "Stream tabular files of any supported format through one uniform interface.",
		Long: `tabstream detects, validates, and streams delimiter-separated tabular
files. Every format goes through the same adapter contract, so output
is uniform regardless of the dialect that produced the input.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg, err := config.InitializeConfig()
			if err != nil {
				Log.Fatalf("Failed to initialize configuration: %v", err)
			}
			logger := config.ConfigureLoggingFromConfig(cfg)
			config.LoadEnv(logger)
			Log = logging.NewLogrusAdapterFromLogger(logger)

			Registry = factory.New(Log)
			profilePath := cfg.Formats.ProfilePath
			if SharedFlags.Profiles != "" {
				profilePath = SharedFlags.Profiles
			}
			if profilePath != "" {
				if err := Registry.LoadProfiles(profilePath); err != nil {
					Log.Fatalf("Failed to load format profiles: %v", err)
				}
			}
		},
	}
)

// Init registers the persistent flags on the root command.
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Format, "format", "f", "", "Format tag (empty = auto-detect)")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Delimiter, "delimiter", "d", "", "Field delimiter override")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Quote, "quote", "q", "", "Quote character override")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Encoding, "encoding", "e", "", "Source text encoding")
	Cmd.PersistentFlags().BoolVar(&SharedFlags.NoHeader, "no-header", false, "Treat the first row as data, not a header")
	Cmd.PersistentFlags().IntVar(&SharedFlags.MaxRows, "max-rows", 0, "Stop after this many rows (0 = unlimited)")
	Cmd.PersistentFlags().StringVar(&SharedFlags.Profiles, "profiles", "", "YAML file with extra format profiles")
}

// ResolveAdapter returns the adapter for the --format flag, or the
// best-scoring adapter across the registry when no format was named.
func ResolveAdapter(path string) (adapter.Adapter, error) {
	if SharedFlags.Format != "" {
		return Registry.Get(SharedFlags.Format)
	}
	a, res, err := Registry.DetectBest(path)
	if err != nil {
		return nil, err
	}
	Log.Info("Auto-detected format",
		logging.Field{Key: logging.FieldFormat, Value: a.FormatName()},
		logging.Field{Key: logging.FieldConfidence, Value: res.Confidence})
	return a, nil
}

// Options translates the shared flags into per-call parse options, or
// nil when no option flag was set, so the adapter's defaults apply.
func Options() *models.ParseOptions {
	if SharedFlags.Delimiter == "" && SharedFlags.Quote == "" &&
		SharedFlags.Encoding == "" && !SharedFlags.NoHeader && SharedFlags.MaxRows == 0 {
		return nil
	}

	opts := models.NewParseOptions()
	if SharedFlags.Delimiter != "" {
		opts.Delimiter = []rune(SharedFlags.Delimiter)[0]
	}
	if SharedFlags.Quote != "" {
		opts.Quote = []rune(SharedFlags.Quote)[0]
	}
	if SharedFlags.Encoding != "" {
		opts.Encoding = SharedFlags.Encoding
	}
	opts.HasHeader = !SharedFlags.NoHeader
	opts.MaxRows = SharedFlags.MaxRows
	return &opts
}
