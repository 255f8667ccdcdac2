package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/chip8-runner/internal/config"
	"github.com/vovakirdan/chip8-runner/internal/platform/tui"
	"github.com/vovakirdan/chip8-runner/internal/platform/window"
	"github.com/vovakirdan/chip8-runner/internal/rom"
)

const (
	frontendWindow   = "window"
	frontendTerminal = "terminal"
)

var (
	flagFrontend    string
	flagClockSpeed  float64
	flagForeground  string
	flagBackground  string
	flagMaxSteps    int
	flagScale       int
	flagScreenshots string
	flagMute        bool
)

var runCmd = &cobra.Command{
	Use:   "run <rom>",
	Short: "Load a program and show it",
	Long: `Load a program into the processor and drive it until the window or
terminal is closed. With the default "viewer" processor the program image is
revealed as a bit plane; keypad keys 0-F jump to that page.

Keypad (default layout):
  1 2 3 4        1 2 3 C
  Q W E R   ->   4 5 6 D
  A S D F        7 8 9 E
  Z X C V        A 0 B F

Controls:
  Space      - Pause/resume
  [ / ]      - Clock speed -/+ 50 Hz
  F12        - Screenshot (window)
  Ctrl+S     - Screenshot (terminal)
  Esc        - Quit

Frontends:
  window     - Desktop window with sound (default when available)
  terminal   - Half-block rendering in the current terminal

Examples:
  chip8 run roms/maze.ch8
  chip8 run roms/maze.ch8 --clock-speed 1000 --fg "#33FF66" --bg "#001100"
  chip8 run roms/maze.ch8 --frontend terminal
  chip8 run roms/maze.ch8 --max-steps 50`,
	Args: cobra.ExactArgs(1),
	Run:  runRun,
}

func init() {
	defaultFrontend := frontendTerminal
	if window.Available {
		defaultFrontend = frontendWindow
	}
	runCmd.Flags().StringVar(&flagFrontend, "frontend", defaultFrontend, "Frontend: window or terminal")
	runCmd.Flags().Float64Var(&flagClockSpeed, "clock-speed", 0, "Instructions per second (overrides config)")
	runCmd.Flags().StringVar(&flagForeground, "fg", "", "Foreground colour as #RRGGBB")
	runCmd.Flags().StringVar(&flagBackground, "bg", "", "Background colour as #RRGGBB")
	runCmd.Flags().IntVar(&flagMaxSteps, "max-steps", 0, "Cap on steps per frame, 0 = uncapped")
	runCmd.Flags().IntVar(&flagScale, "scale", 0, "Window and screenshot scale")
	runCmd.Flags().StringVar(&flagScreenshots, "screenshots", "", "Screenshot directory (default: ~/.chip8/screenshots)")
	runCmd.Flags().BoolVar(&flagMute, "mute", false, "Disable sound")
}

// applyRunFlags overrides the configuration with the flags the user set.
func applyRunFlags(cmd *cobra.Command, cfg config.Config) (config.Config, error) {
	flags := cmd.Flags()
	if flags.Changed("clock-speed") {
		cfg.ClockSpeed = flagClockSpeed
	}
	if flags.Changed("fg") {
		cfg.Palette.Foreground = flagForeground
	}
	if flags.Changed("bg") {
		cfg.Palette.Background = flagBackground
	}
	if flags.Changed("max-steps") {
		cfg.MaxSteps = flagMaxSteps
	}
	if flags.Changed("scale") {
		cfg.Display.Scale = flagScale
	}
	if flagMute {
		cfg.Audio.Enabled = false
	}
	return cfg, cfg.Validate()
}

func runRun(cmd *cobra.Command, args []string) {
	cfg, err := applyRunFlags(cmd, loadConfig())
	if err != nil {
		fatalf("%v", err)
	}

	program, err := rom.Load(args[0])
	if err != nil {
		fatalf("%v", err)
	}

	if err := runProgram(program, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}

func runProgram(program rom.ROM, cfg config.Config) error {
	shots := flagScreenshots
	if shots == "" {
		shots = tui.ScreenshotDir()
	}

	switch flagFrontend {
	case frontendWindow:
		logger := newLogger(os.Stderr, "chip8")
		store := openStore(logger)
		if store != nil {
			defer store.Close()
		}

		return window.Run(window.Options{
			ROM:           program,
			ProcessorID:   cfg.Processor,
			Config:        cfg,
			Store:         store,
			Logger:        logger,
			ScreenshotDir: shots,
		})

	case frontendTerminal:
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return errors.New("the terminal frontend needs a terminal on stdout")
		}
		if w, h, sizeErr := term.GetSize(int(os.Stdout.Fd())); sizeErr == nil {
			if w < tui.MinWidth || h < tui.MinHeight {
				fmt.Fprintf(os.Stderr, "Warning: terminal is %dx%d, the display needs at least %dx%d\n",
					w, h, tui.MinWidth, tui.MinHeight)
			}
		}

		logger, closeLog := fileLogger("chip8")
		defer closeLog()
		store := openStore(logger)
		if store != nil {
			defer store.Close()
		}

		return tui.Run(tui.Options{
			ROM:           program,
			ProcessorID:   cfg.Processor,
			Config:        cfg,
			Store:         store,
			Logger:        logger,
			ScreenshotDir: shots,
		})

	default:
		return fmt.Errorf("unknown frontend %q (want window or terminal)", flagFrontend)
	}
}
