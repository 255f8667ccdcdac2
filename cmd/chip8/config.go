package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/chip8-runner/internal/config"
)

var (
	flagConfigDefault bool
	flagConfigInit    bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Print the configuration programs run with, after merging the
config file over the defaults.

Search order: --config, ~/.chip8/config.yaml, ./configs/chip8.yaml,
then the built-in defaults.

Examples:
  chip8 config
  chip8 config --default
  chip8 config --init      # write the defaults to ~/.chip8/config.yaml`,
	Args: cobra.NoArgs,
	Run:  runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&flagConfigDefault, "default", false, "Print the built-in defaults")
	configCmd.Flags().BoolVar(&flagConfigInit, "init", false, "Write the defaults to the user config file")
}

func runConfig(_ *cobra.Command, _ []string) {
	switch {
	case flagConfigInit:
		path, err := writeUserConfig()
		if err != nil {
			fatalf("%v", err)
		}
		fmt.Printf("Wrote %s\n", path)

	case flagConfigDefault:
		os.Stdout.Write(config.DefaultYAML())

	default:
		cfg, source, err := config.Load(flagConfig)
		if err != nil {
			fatalf("%v", err)
		}
		if source == "" {
			source = "built-in defaults"
		}
		out, err := yaml.Marshal(cfg)
		if err != nil {
			fatalf("%v", err)
		}
		fmt.Printf("# source: %s\n", source)
		os.Stdout.Write(out)
	}
}

// writeUserConfig creates ~/.chip8/config.yaml from the defaults. An existing
// file is left alone.
func writeUserConfig() (string, error) {
	path := config.UserConfigPath()
	if path == "" {
		return "", errors.New("cannot get home directory")
	}
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%s already exists", path)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	return path, os.WriteFile(path, config.DefaultYAML(), 0o644)
}
