// Package tui provides the Bubble Tea frontend for the runner.
// It hosts the frame loop in the terminal, maps keys to the keypad and
// renders the display with half-block characters.
package tui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// FrameMsg is sent once per display refresh to drain the frame slot.
// ID names the model that scheduled it, so a model never runs frames queued
// by a predecessor in the same program.
type FrameMsg struct {
	ID   uint64
	Time time.Time
}

var lastModelID atomic.Uint64

func nextModelID() uint64 {
	return lastModelID.Add(1)
}

// frameCmd returns a Bubble Tea command that sends a frame message after one
// refresh interval.
func frameCmd(id uint64, refreshRate int) tea.Cmd {
	if refreshRate <= 0 {
		refreshRate = 60
	}
	interval := time.Second / time.Duration(refreshRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return FrameMsg{ID: id, Time: t}
	})
}
