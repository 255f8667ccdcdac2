package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/chip8-runner/internal/platform/tui"
	"github.com/vovakirdan/chip8-runner/internal/rom"
	"github.com/vovakirdan/chip8-runner/internal/storage"
)

var (
	flagHistoryPrint bool
	flagHistoryClear bool
	flagHistoryLimit int
)

var historyCmd = &cobra.Command{
	Use:   "history [rom]",
	Short: "Show past sessions",
	Long: `Browse recorded sessions. With a program file, only sessions of
that program (matched by content hash) are shown.

Examples:
  chip8 history
  chip8 history roms/maze.ch8 --print
  chip8 history roms/maze.ch8 --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().BoolVar(&flagHistoryPrint, "print", false, "Print instead of opening the browser")
	historyCmd.Flags().BoolVar(&flagHistoryClear, "clear", false, "Delete the sessions instead of showing them")
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 20, "Number of sessions to print")
}

func runHistory(_ *cobra.Command, args []string) {
	var program *rom.ROM
	if len(args) == 1 {
		p, err := rom.Load(args[0])
		if err != nil {
			fatalf("%v", err)
		}
		program = &p
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fatalf("opening history database: %v", err)
	}
	defer store.Close()

	if err := showHistory(store, program); err != nil {
		store.Close()
		fatalf("%v", err)
	}
}

func showHistory(store *storage.Store, program *rom.ROM) error {
	sha1 := ""
	if program != nil {
		sha1 = program.SHA1
	}

	switch {
	case flagHistoryClear:
		if err := store.ClearSessions(sha1); err != nil {
			return err
		}
		if program != nil {
			fmt.Printf("Cleared history for %s\n", program.Name)
		} else {
			fmt.Println("Cleared all history")
		}
		return nil

	case flagHistoryPrint || program != nil:
		var sessions []storage.Session
		var err error
		if program != nil {
			sessions, err = store.SessionsForROM(sha1, flagHistoryLimit)
		} else {
			sessions, err = store.RecentSessions(flagHistoryLimit)
		}
		if err != nil {
			return err
		}
		printSessions(sessions)
		return nil
	}

	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return tui.RunHistory(store, width, height)
}

func printSessions(sessions []storage.Session) {
	if len(sessions) == 0 {
		fmt.Println("No sessions recorded yet.")
		fmt.Println()
		fmt.Println("Run 'chip8 run <rom>' to record one.")
		return
	}

	fmt.Printf("  %-16s  %-16s  %-8s  %8s  %10s  %s\n", "Date", "Program", "Via", "Frames", "Steps", "Time")
	fmt.Printf("  %-16s  %-16s  %-8s  %8s  %10s  %s\n", "----", "-------", "---", "------", "-----", "----")
	for _, s := range sessions {
		fmt.Printf("  %-16s  %-16s  %-8s  %8d  %10d  %s\n",
			s.CreatedAt.Format("2006-01-02 15:04"),
			truncate(s.ROMName, 16),
			s.Frontend,
			s.Frames,
			s.Steps,
			s.Duration.Round(time.Second),
		)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
