package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/solatis/rulebuilder/internal/core/config"
	"github.com/solatis/rulebuilder/internal/core/logging"
	"github.com/solatis/rulebuilder/internal/editor"
	"github.com/solatis/rulebuilder/internal/graph"
)

const Version = "0.1.0"

// options carries the persistent flags and what PersistentPreRunE builds
// from them.
type options struct {
	configFile string
	logLevel   string
	logFormat  string

	cfg    *config.EditorConfig
	logger *slog.Logger
}

func newRootCmd() (*cobra.Command, *options) {
	opts := &options{}
	rootCmd := &cobra.Command{
		Use:   "rulebuilder",
		Short: "Condition rule builder",
		Long: `rulebuilder converts "if field == value then set options on target field" conditions
between expression text, node graphs and sentence form.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}

	rootCmd.SetGlobalNormalizationFunc(normalizeFlag)
	rootCmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "text", "log format (json, text)")

	rootCmd.AddCommand(
		newParseCmd(opts),
		newGraphCmd(opts),
		newExprCmd(opts),
		newExtendCmd(opts),
		newSentenceCmd(opts),
		newListCmd(opts),
		newEditCmd(opts),
		newOptionsCmd(opts),
	)
	return rootCmd, opts
}

// normalizeFlag accepts underscores in flag names, matching the config keys.
func normalizeFlag(f *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

// load reads configuration and builds the logger. Flags given on the command
// line win over the config file and environment.
func (o *options) load(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig(o.configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if cmd.Flags().Changed("log-format") {
		cfg.LogFormat = o.logFormat
	}

	logger, err := logging.New(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	o.cfg = cfg
	o.logger = logger
	return nil
}

// editorConfig maps configuration onto editor settings.
func (o *options) editorConfig() editor.Config {
	return editor.Config{
		Placeholder: o.cfg.PlaceholderName,
		Wait:        o.cfg.Debounce,
		Proximity: graph.Proximity{
			Threshold: o.cfg.ProximityThreshold,
			Width:     o.cfg.NodeWidth,
			Height:    o.cfg.NodeHeight,
		},
	}
}

func Execute() error {
	rootCmd, opts := newRootCmd()
	err := rootCmd.Execute()
	if err != nil {
		logger := opts.logger
		if logger == nil {
			logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
		}
		logger.Error("command failed", "error", err)
	}
	return err
}
