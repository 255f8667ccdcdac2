package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/chip8-runner/internal/config"
	"github.com/vovakirdan/chip8-runner/internal/registry"
	"github.com/vovakirdan/chip8-runner/internal/storage"
)

// LogFileName is where terminal sessions log, under ~/.chip8.
const LogFileName = "chip8.log"

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// loadConfig loads the configuration and applies --processor.
func loadConfig() config.Config {
	cfg, _, err := config.Load(flagConfig)
	if err != nil {
		fatalf("%v", err)
	}
	if flagProcessor != "" {
		cfg.Processor = flagProcessor
	}
	if !registry.Exists(cfg.Processor) {
		fmt.Fprintf(os.Stderr, "Error: unknown processor %q\n", cfg.Processor)
		fmt.Fprintln(os.Stderr, "Run 'chip8 list' to see available processors.")
		os.Exit(1)
	}
	return cfg
}

// newLogger creates a logger writing to w at the --log-level level.
func newLogger(w io.Writer, prefix string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", flagLogLevel)
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// fileLogger logs to ~/.chip8/chip8.log, for frontends that own the terminal.
// The returned close function is never nil.
func fileLogger(prefix string) (*log.Logger, func()) {
	dir := config.Dir()
	if dir == "" {
		return log.New(io.Discard), func() {}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return log.New(io.Discard), func() {}
	}
	f, err := os.OpenFile(filepath.Join(dir, LogFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return log.New(io.Discard), func() {}
	}
	return newLogger(f, prefix), func() { f.Close() }
}

// openStore opens the history database. Sessions still run without it.
func openStore(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open history database", "path", flagDBPath, "error", err)
		return nil
	}
	return store
}
