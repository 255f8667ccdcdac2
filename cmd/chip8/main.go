// chip8 hosts a CHIP-8 display frontend in a desktop window, in the terminal or
// over SSH. Program files are handed to a registered processor; the bundled
// "viewer" processor shows the program image as a bit plane and does not
// execute instructions.
//
// Usage:
//
//	chip8 run <rom>          - Load a program into the processor
//	chip8 menu [dir]         - Pick programs from a directory interactively
//	chip8 serve              - Start SSH server for remote sessions
//	chip8 history [rom]      - Show the session history
//	chip8 list               - List available processors
//	chip8 config             - Show the effective configuration
//
// Global flags:
//
//	--config <path>     - Config file (default: ~/.chip8/config.yaml)
//	--db <path>         - History database (default: ~/.chip8/history.db)
//	--log-level <lvl>   - debug, info, warn or error
//	--processor <id>    - Processor to run programs on
//	--statsview         - Serve runtime charts (statsview builds only)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/chip8-runner/internal/statsview"
	"github.com/vovakirdan/chip8-runner/internal/storage"

	// Import processors to register them
	_ "github.com/vovakirdan/chip8-runner/internal/processor"
)

var (
	// Global flags
	flagConfig    string
	flagDBPath    string
	flagLogLevel  string
	flagProcessor string
	flagStatsview bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "chip8",
	Short: "chip8 - CHIP-8 display frontend for a window, a terminal or SSH",
	Long: `chip8 is the frontend half of a CHIP-8 machine: it steps a registered
processor at a configurable clock speed, ticks its 60 Hz timers, feeds it a
16-key keypad and draws its 64x32 display as a pixel mesh.

The bundled "viewer" processor does not execute instructions. It reveals
the program image bit by bit, one page of the display at a time; keypad
keys select pages. Run 'chip8 list' for the processors in this build.

Available commands:
  run      - Load a program and show it
  menu     - Interactive program picker
  serve    - Start SSH server for remote sessions
  history  - View past sessions
  list     - Show available processors
  config   - Show the effective configuration

Examples:
  chip8 run roms/maze.ch8
  chip8 run roms/maze.ch8 --frontend terminal --clock-speed 700
  chip8 menu roms
  chip8 serve --ssh :2222 --roms roms
  chip8 history`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if !flagStatsview {
			return
		}
		if !statsview.Available() {
			fmt.Fprintln(os.Stderr, "Warning: this build has no statsview support (build with -tags statsview)")
			return
		}
		statsview.Launch(statsview.DefaultAddress, os.Stderr)
	},
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", storage.DefaultPath, "Path to history database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagProcessor, "processor", "", "Processor ID (overrides the config file)")
	rootCmd.PersistentFlags().BoolVar(&flagStatsview, "statsview", false, "Serve runtime statistics over HTTP")

	// Add subcommands
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(configCmd)
}
