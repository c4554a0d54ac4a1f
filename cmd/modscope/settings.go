package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/oisee/modscope/pkg/config"
	"github.com/oisee/modscope/pkg/format"
	"github.com/oisee/modscope/pkg/report"
)

const configFileName = config.FileName

// settings is the configuration file merged with the command line
type settings struct {
	cfg    config.Config
	color  bool
	width  int
	logger *zap.Logger
}

// loadSettings reads the config file, applies flags the user set and
// installs the logger.
func loadSettings(cmd *cobra.Command) (*settings, error) {
	flags := cmd.Flags()

	path, err := flags.GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	var cfg config.Config
	if path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.Discover(".")
	}
	if err != nil {
		return nil, err
	}

	if flags.Changed("color") {
		if cfg.Output.Color, err = flags.GetString("color"); err != nil {
			return nil, fmt.Errorf("failed to get color flag: %w", err)
		}
		cfg.Output.Color = strings.ToLower(cfg.Output.Color)
	}
	if flags.Changed("log-level") {
		if cfg.Log.Level, err = flags.GetString("log-level"); err != nil {
			return nil, fmt.Errorf("failed to get log-level flag: %w", err)
		}
	}
	if flags.Lookup("format") != nil && flags.Changed("format") {
		if cfg.Output.Format, err = flags.GetString("format"); err != nil {
			return nil, fmt.Errorf("failed to get format flag: %w", err)
		}
		cfg.Output.Format = strings.ToLower(cfg.Output.Format)
	}
	if flags.Lookup("jobs") != nil && flags.Changed("jobs") {
		if cfg.Parse.Jobs, err = flags.GetInt("jobs"); err != nil {
			return nil, fmt.Errorf("failed to get jobs flag: %w", err)
		}
	}
	if flags.Lookup("all") != nil && flags.Changed("all") {
		if cfg.View.ShowAll, err = flags.GetBool("all"); err != nil {
			return nil, fmt.Errorf("failed to get all flag: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	format.SetLogger(logger)
	if cfg.Path != "" {
		logger.Debug("loaded config", zap.String("path", cfg.Path))
	}

	s := &settings{cfg: cfg, logger: logger}
	switch cfg.Output.Color {
	case config.ColorOn:
		s.color = true
	case config.ColorAuto:
		s.color = isTerminal(os.Stdout) && os.Getenv("NO_COLOR") == ""
	}
	s.width = terminalWidth(os.Stdout)
	return s, nil
}

func (s *settings) reportOptions() report.Options {
	return report.Options{Color: s.color, Width: s.width}
}

// newLogger builds a console logger on stderr
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	zc.DisableStacktrace = true
	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}
