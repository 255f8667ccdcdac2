package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/chip8-runner/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available processors",
	Long:  `Shows every processor a program can be loaded into.`,
	Run:   runList,
}

func runList(_ *cobra.Command, _ []string) {
	procs := registry.List()

	if len(procs) == 0 {
		fmt.Println("No processors available.")
		return
	}

	fmt.Println("Available processors:")
	fmt.Println()

	maxIDLen := 2 // "ID" header
	for _, p := range procs {
		maxIDLen = max(maxIDLen, len(p.ID))
	}

	fmt.Printf("  %-*s  %s\n", maxIDLen, "ID", "Title")
	fmt.Printf("  %-*s  %s\n", maxIDLen, "--", "-----")
	for _, p := range procs {
		fmt.Printf("  %-*s  %s\n", maxIDLen, p.ID, p.Title)
	}

	fmt.Println()
	fmt.Println("Run 'chip8 run <rom> --processor <id>' to pick one.")
}
