package cmd

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/harrison/jsontable/internal/config"
	"github.com/harrison/jsontable/internal/converter"
	"github.com/harrison/jsontable/internal/history"
	"github.com/harrison/jsontable/internal/logger"
	"github.com/harrison/jsontable/internal/service"
	"github.com/spf13/cobra"
)

// environment is what every subcommand builds from configuration and flags.
type environment struct {
	home    string
	cfg     *config.Config
	runID   string
	console *logger.ConsoleLogger
	fileLog *logger.FileLogger
	log     logger.Multi
	store   *history.Store
}

// envOptions select the optional parts of an environment.
type envOptions struct {
	console     io.Writer // nil disables console logging
	fileLog     bool
	openHistory bool
}

// loadEnvironment loads configuration, merges persistent and
// command-specific flags and opens the requested loggers and stores.
// History that cannot be opened is reported and skipped.
func loadEnvironment(cmd *cobra.Command, opts envOptions) (*environment, error) {
	home, _ := cmd.Flags().GetString("config-dir")
	if home == "" {
		var err error
		if home, err = config.GetHome(); err != nil {
			return nil, err
		}
	}
	home, err := filepath.Abs(home)
	if err != nil {
		return nil, fmt.Errorf("resolve config dir: %w", err)
	}

	cfg, err := config.LoadConfigFromDir(home)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := mergeFlags(cmd, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	cfg.ResolvePaths(home)

	env := &environment{home: home, cfg: cfg, runID: uuid.New().String()}

	if opts.console != nil {
		env.console = logger.NewConsoleLogger(opts.console, cfg.LogLevel)
		env.log = append(env.log, env.console)
	}

	if opts.fileLog {
		fl, err := logger.NewFileLoggerWithLevel(cfg.LogDir, cfg.LogLevel, env.runID)
		if err != nil {
			env.warn(fmt.Sprintf("File logging disabled: %v", err))
		} else {
			env.fileLog = fl
			env.log = append(env.log, fl)
		}
	}

	if opts.openHistory && cfg.History.Enabled {
		store, err := history.NewStore(cfg.History.DBPath)
		if err != nil {
			env.warn(fmt.Sprintf("History disabled: %v", err))
		} else {
			env.store = store
		}
	}

	return env, nil
}

// mergeFlags applies changed flags on top of the loaded configuration.
// Flags that a command does not define are ignored.
func mergeFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()

	var ceilingPtr *int
	if f := flags.Lookup("ceiling"); f != nil && f.Changed {
		ceiling, _ := flags.GetInt("ceiling")
		ceilingPtr = &ceiling
	}

	var encodingPtr *string
	if f := flags.Lookup("encoding"); f != nil && f.Changed {
		encoding, _ := flags.GetString("encoding")
		encodingPtr = &encoding
	}

	var baseDirPtr *string
	if f := flags.Lookup("base-dir"); f != nil && f.Changed {
		baseDir, _ := flags.GetString("base-dir")
		// Flag paths are relative to the working directory, not the config dir
		abs, err := filepath.Abs(baseDir)
		if err != nil {
			return fmt.Errorf("resolve base dir: %w", err)
		}
		baseDirPtr = &abs
	}

	var logLevelPtr *string
	if f := flags.Lookup("log-level"); f != nil && f.Changed {
		logLevel, _ := flags.GetString("log-level")
		logLevelPtr = &logLevel
	}

	var historyPtr *bool
	if f := flags.Lookup("no-history"); f != nil && f.Changed {
		noHistory, _ := flags.GetBool("no-history")
		enabled := !noHistory
		historyPtr = &enabled
	}

	cfg.MergeWithFlags(ceilingPtr, encodingPtr, baseDirPtr, logLevelPtr, historyPtr)
	return nil
}

func (e *environment) warn(message string) {
	if len(e.log) > 0 {
		e.log.LogWarn(message)
	}
}

// serviceConfig converts the loaded configuration for the table service.
func (e *environment) serviceConfig() service.Config {
	return service.Config{
		Encoding:     e.cfg.Encoding,
		BaseDir:      e.cfg.BaseDir,
		MaxFileBytes: e.cfg.MaxFileBytes,
		Limits: converter.Limits{
			MaxObjects:     e.cfg.Headers.MaxObjects,
			MaxKeys:        e.cfg.Headers.MaxKeys,
			MaxKeyLength:   e.cfg.Headers.MaxKeyLength,
			DefaultCeiling: e.cfg.DefaultCeiling,
		},
	}
}

// serviceOptions wires logging and history into a table service.
func (e *environment) serviceOptions() []service.Option {
	opts := []service.Option{service.WithLogger(e.log)}
	if e.store != nil {
		opts = append(opts, service.WithRecorder(e.store))
	}
	return opts
}

// Close releases the history store and the file logger.
func (e *environment) Close() {
	if e.store != nil {
		if err := e.store.Close(); err != nil {
			e.warn(fmt.Sprintf("Failed to close history: %v", err))
		}
	}
	if e.fileLog != nil {
		e.fileLog.Close()
	}
}
