package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/vango-dev/pageglue/internal/config"
	"github.com/vango-dev/pageglue/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// app holds state shared by all commands.
type app struct {
	configDir string
	logLevel  string

	cfg    *config.Config
	logger *slog.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "pageglue",
		Short: "Alerts, confirmations and JSON requests for server-driven pages",
		Long: `pageglue wires alert banners, delete confirmations and a JSON
request client into server-rendered pages.

  • serve     live item page over a websocket
  • request   one-shot JSON request with alert reporting
  • render    apply page wiring to an HTML file`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configDir, "config-dir", "C", "", "Directory containing pageglue.json (default: nearest parent)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(
		serveCmd(a),
		requestCmd(a),
		renderCmd(a),
		versionCmd(),
	)
	return rootCmd
}

// setup loads configuration and installs the default logger.
func (a *app) setup(logOut io.Writer) error {
	var (
		cfg *config.Config
		err error
	)
	if a.configDir != "" {
		cfg, err = config.Load(a.configDir)
	} else {
		cfg, err = config.LoadFromWorkingDir()
	}
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if !cfg.ColorEnabled() {
		errors.DisableColors()
	}

	a.cfg = cfg
	a.logger = newLogger(logOut, cfg.LogLevel(), cfg.ColorEnabled())
	slog.SetDefault(a.logger)
	return nil
}

func newLogger(w io.Writer, level slog.Level, color bool) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
		NoColor:    !color,
	}))
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}
