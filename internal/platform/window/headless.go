//go:build headless

// Package window is the desktop frontend. Headless builds leave it out.
package window

import (
	"errors"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/chip8-runner/internal/config"
	"github.com/vovakirdan/chip8-runner/internal/rom"
	"github.com/vovakirdan/chip8-runner/internal/storage"
)

// Available reports whether this build has a window frontend.
const Available = false

// ErrUnavailable is returned by Run in headless builds.
var ErrUnavailable = errors.New("window: built without window support (headless)")

// Options configures a window session.
type Options struct {
	ROM           rom.ROM
	ProcessorID   string
	Config        config.Config
	Store         *storage.Store
	Logger        *log.Logger
	ScreenshotDir string
}

// Run always fails in headless builds.
func Run(Options) error {
	return ErrUnavailable
}
