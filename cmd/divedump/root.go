package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/arloliu/go-divelog/internal/config"
	"github.com/arloliu/go-divelog/irda"
	"github.com/arloliu/go-divelog/logger"
)

// app carries the state shared by the subcommands of one invocation.
type app struct {
	configFile string
	logLevel   string
	logFile    string
	format     string

	cfg    *config.Config
	log    logger.Logger
	closer io.Closer

	// newOpener builds the socket opener for download; replaced in tests.
	newOpener func(config.LinkConfig) (irda.Opener, error)
}

func newRootCmd() *cobra.Command {
	return newAppCmd(&app{newOpener: linkOpener})
}

func newAppCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "divedump",
		Short: "divedump - download and decode dive computer logs",
		Long: `divedump talks to dive computers over IrDA and decodes their logs.

Supported families:
  - uwatec-smart: download over IrDA, split memory images into dives
  - suunto-solution: decode dive profiles

Configuration is read from the file given with --config and can be
overridden with DIVELOG_ environment variables, e.g. DIVELOG_LINK_PORT.`,
		SilenceUsage:       true,
		PersistentPreRunE:  a.setup,
		PersistentPostRunE: a.teardown,
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&a.configFile, "config", "c", "", "config file path")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&a.logFile, "log-file", "", "write logs to a rotated file instead of stderr")
	flags.StringVarP(&a.format, "format", "f", "", "output format: yaml or json")

	cmd.AddCommand(newDownloadCmd(a))
	cmd.AddCommand(newExtractCmd(a))
	cmd.AddCommand(newParseCmd(a))
	cmd.AddCommand(newFamiliesCmd(a))

	return cmd
}

// setup loads the configuration, applies the persistent flags and builds the logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configFile)
	if err != nil {
		return err
	}

	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.logFile != "" {
		cfg.Log.File.Path = a.logFile
	}
	if a.format != "" {
		cfg.Output.Format = a.format
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}

	var w io.Writer = cmd.ErrOrStderr()
	if cfg.Log.File.Path != "" {
		lj := &lumberjack.Logger{
			Filename:   cfg.Log.File.Path,
			MaxSize:    cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAge:     cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		}
		w = lj
		a.closer = lj
	}

	a.cfg = cfg
	a.log = logger.NewSlogWriter(w, level, cfg.Log.AddSource)
	logger.SetLogger(a.log)

	return nil
}

func (a *app) teardown(_ *cobra.Command, _ []string) error {
	if a.closer == nil {
		return nil
	}
	if err := a.closer.Close(); err != nil {
		return fmt.Errorf("close log file: %w", err)
	}

	return nil
}
