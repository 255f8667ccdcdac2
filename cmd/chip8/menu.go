package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/chip8-runner/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu [dir]",
	Short: "Pick programs from a directory",
	Long: `Start an interactive picker over the programs in a directory
(default: ./roms). Programs open in the terminal on the configured
processor; quitting a program returns to the picker.

Controls:
  Up/Down/j/k  - Navigate
  Enter/Space  - Open program
  Tab          - Session history
  Q/Esc        - Quit

Examples:
  chip8 menu
  chip8 menu ~/roms --processor viewer`,
	Args: cobra.MaximumNArgs(1),
	Run:  runMenu,
}

func runMenu(_ *cobra.Command, args []string) {
	cfg := loadConfig()

	dir := "roms"
	if len(args) == 1 {
		dir = args[0]
	}
	if _, err := tui.ScanROMs(dir); err != nil {
		fatalf("%v", err)
	}

	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}

	logger, closeLog := fileLogger("chip8-menu")
	defer closeLog()
	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	server := tui.DefaultSSHServerConfig()
	server.ROMDir = dir
	server.ProcessorID = cfg.Processor
	server.Runner = cfg

	err := tui.RunMenu(tui.SessionOptions{
		Server: server,
		Store:  store,
		Logger: logger,
		Width:  width,
		Height: height,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
}
