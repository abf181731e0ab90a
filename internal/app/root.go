package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/api3dao/ois/internal/config"
	"github.com/api3dao/ois/internal/fs"
	"github.com/api3dao/ois/internal/ois"
)

// Version is the current version of ois, set at build time.
var Version = "dev"

const (
	InitCmdName   = "init"
	SchemaCmdName = "schema"
)

var LongDescription = `
ois validates Oracle Integration Specification (OIS) documents. An OIS document
describes how an oracle node calls a third-party HTTP API, maps the request
parameters and processes the response. Documents are checked against the OIS
structure first and then against the rules that tie its parts together.
`

// NewRootCmd creates the root command and wires up dependencies.
func NewRootCmd(lazy *LazyManager, ll *slog.LevelVar, stderr io.Writer, env fs.EnvProvider) *cobra.Command {
	var debug bool
	var noColour bool
	var configPath pathValue

	rootCmd := &cobra.Command{
		Use:           "ois",
		Short:         "Validate Oracle Integration Specification documents",
		Version:       fmt.Sprintf("%s (OIS %s)", Version, ois.Version),
		SilenceErrors: true,
		SilenceUsage:  true,
		Long:          LongDescription,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if debug {
				ll.Set(slog.LevelDebug)
			}
			// Skip initialization for commands that need no configuration
			if cmd.Name() == "help" || isCompletionCommand(cmd) ||
				cmd.Name() == InitCmdName || cmd.Name() == SchemaCmdName {
				return nil
			}
			// Skip if already initialised (e.g., in tests)
			if lazy.HasInner() {
				return nil
			}

			wd, err := os.Getwd()
			if err != nil {
				return err
			}

			var cfg *config.Config
			if configPath != "" {
				cfg, err = config.Load(string(configPath))
			} else {
				cfg, err = config.New(wd, env)
			}
			if err != nil {
				return fmt.Errorf("configuration failed: %w", err)
			}

			logger, _, err := setupLogger(stderr, ll, env, wd)
			if err != nil {
				logger.Warn("logging to file disabled", "error", err)
			}
			if cfg.Path != "" {
				logger.Debug("configuration loaded", "path", cfg.Path)
			}

			lazy.SetInner(NewCLIManager(logger, cfg, cmd.OutOrStdout()))
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable debug logging")
	rootCmd.PersistentFlags().VarP(&configPath, "config", "f",
		fmt.Sprintf("path to config file (overrides $%s and ./%s)", config.ConfigEnvVar, config.ConfigFile))

	rootCmd.PersistentFlags().BoolVarP(&noColour, "nocolour", "c", false, "Disable colour in output")
	// Support alternate spellings
	rootCmd.PersistentFlags().BoolVar(&noColour, "nocolor", false, "")
	rootCmd.PersistentFlags().BoolVar(&noColour, "noColor", false, "")
	rootCmd.PersistentFlags().BoolVar(&noColour, "noColour", false, "")
	_ = rootCmd.PersistentFlags().MarkHidden("nocolor")
	_ = rootCmd.PersistentFlags().MarkHidden("noColor")
	_ = rootCmd.PersistentFlags().MarkHidden("noColour")

	rootCmd.AddCommand(NewValidateCmd(lazy))
	rootCmd.AddCommand(NewSchemaCmd())
	rootCmd.AddCommand(NewInitCmd())

	return rootCmd
}

// isCompletionCommand returns true if the command or any of its parents is the "completion" command.
func isCompletionCommand(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Name() == "completion" {
			return true
		}
	}
	return false
}
