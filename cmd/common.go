package cmd

import (
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/helmcode/homefix-ai/pkg/config"
	"github.com/helmcode/homefix-ai/pkg/formatter"
	"github.com/helmcode/homefix-ai/pkg/logging"
	"github.com/helmcode/homefix-ai/pkg/parser"
)

var (
	envFile string
	verbose bool
)

// AddGlobalFlags registers the flags every subcommand understands.
func AddGlobalFlags(root *cobra.Command) {
	root.PersistentFlags().StringVar(&envFile, "env-file", "", "Path to a .env file (defaults to ./.env when present)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
}

// setup loads the configuration and builds the logger. Interactive commands
// only log warnings unless --verbose is given.
func setup(interactive bool) (*config.Config, *zap.Logger, io.Closer, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, nil, nil, err
	}
	if verbose {
		cfg.Log.Level = "debug"
	} else if interactive && cfg.Log.File == "" {
		cfg.Log.Level = "warn"
	}

	logger, closer, err := logging.New(cfg.Log)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, logger, closer, nil
}

func newParser(cfg *config.Config) *parser.Parser {
	return parser.New(parser.WithOverviewDenylist(cfg.OverviewDenylist...))
}

func validateFormat(format string) error {
	if !slices.Contains(formatter.Formats, format) {
		return fmt.Errorf("unknown output format %q (want one of %v)", format, formatter.Formats)
	}
	return nil
}

func printSuccess(msg string) {
	green := color.New(color.FgGreen)
	green.Fprintf(os.Stderr, "✓ %s\n", msg)
}
