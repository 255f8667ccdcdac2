package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/chip8-runner/internal/config"
	"github.com/vovakirdan/chip8-runner/internal/rom"
	"github.com/vovakirdan/chip8-runner/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.chip8/host_key.
	HostKeyPath string

	// DBPath is the path to the history database.
	DBPath string

	// ROMDir is the directory offered in the program picker.
	ROMDir string

	// ProcessorID names the registered processor every session runs.
	ProcessorID string

	// Runner is the configuration every session starts from.
	Runner config.Config

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// Logger receives server and session events. Defaults to stderr.
	Logger *log.Logger
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      storage.DefaultPath,
		ROMDir:      "roms",
		ProcessorID: "viewer",
		Runner:      config.Default(),
		IdleTimeout: 30 * time.Minute,
	}
}

// SSHServer wraps a Wish SSH server hosting one emulator per connection.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	store  *storage.Store
	logger *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "chip8-ssh",
		})
	}

	if _, err := ScanROMs(cfg.ROMDir); err != nil {
		return nil, err
	}

	// Open storage
	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open history database", "error", err)
		// Continue without storage
		store = nil
	}

	srv := &SSHServer{
		config: cfg,
		store:  store,
		logger: logger,
	}

	// Resolve host key path
	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		dir := config.Dir()
		if dir == "" {
			return nil, errors.New("cannot get home directory for host key")
		}
		hostKeyPath = filepath.Join(dir, "host_key")
	}

	// Ensure host key directory exists
	hostKeyDir := filepath.Dir(hostKeyPath)
	if mkdirErr := os.MkdirAll(hostKeyDir, 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	model := NewSessionModel(SessionOptions{
		Server:   s.config,
		Store:    s.store,
		Logger:   s.logger.With("user", sshSession.User()),
		Renderer: bubbletea.MakeRenderer(sshSession),
		Width:    pty.Window.Width,
		Height:   pty.Window.Height,
	})

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("connection opened",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("connection closed",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address, "roms", s.config.ROMDir)

	// Setup signal handling for graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := s.server.Shutdown(ctx)
	if s.store != nil {
		s.store.Close()
	}
	return err
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// SessionOptions configures a SessionModel.
type SessionOptions struct {
	Server   SSHServerConfig
	Store    *storage.Store
	Logger   *log.Logger
	Renderer *lipgloss.Renderer
	Frontend string // recorded in history, "ssh" if empty
	Width    int
	Height   int
}

// SessionModel manages one connection: menu -> emulator -> menu, with the
// history screen a tab away.
type SessionModel struct {
	opts      SessionOptions
	menu      MenuModel
	history   *HistoryModel
	emulator  *Model
	statusErr string
	quitting  bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(opts SessionOptions) SessionModel {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Frontend == "" {
		opts.Frontend = "ssh"
	}
	m := SessionModel{opts: opts}
	m.menu = m.newMenu()
	return m
}

// RunMenu runs the picker locally: menu -> emulator -> menu until quit.
func RunMenu(opts SessionOptions) error {
	if opts.Frontend == "" {
		opts.Frontend = "terminal"
	}
	_, err := tea.NewProgram(NewSessionModel(opts), tea.WithAltScreen()).Run()
	return err
}

func (m *SessionModel) newMenu() MenuModel {
	items, err := ScanROMs(m.opts.Server.ROMDir)
	if err != nil {
		m.opts.Logger.Warn("cannot list programs", "error", err)
	}
	return NewMenuModel(items, m.opts.Width, m.opts.Height)
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.opts.Width = wsm.Width
		m.opts.Height = wsm.Height
	}

	switch {
	case m.emulator != nil:
		return m.updateEmulator(msg)
	case m.history != nil:
		return m.updateHistory(msg)
	}
	return m.updateMenu(msg)
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.menu.WantsHistory() {
		h := NewHistoryModel(m.opts.Store, m.opts.Width, m.opts.Height, true)
		m.history = &h
		m.menu = m.newMenu()
		return m, nil
	}

	if selected := m.menu.Selected(); selected != nil {
		m.menu = m.newMenu()

		program, err := rom.Load(selected.Path)
		if err != nil {
			m.statusErr = err.Error()
			return m, nil
		}

		emu, err := NewModel(Options{
			ROM:         program,
			ProcessorID: m.opts.Server.ProcessorID,
			Config:      m.opts.Server.Runner,
			Store:       m.opts.Store,
			Logger:      m.opts.Logger,
			Frontend:    m.opts.Frontend,
			Renderer:    m.opts.Renderer,
			Embedded:    true,
		})
		if err != nil {
			m.statusErr = err.Error()
			return m, nil
		}
		emu.width, emu.height = m.opts.Width, m.opts.Height
		emu.help.Width = m.opts.Width
		m.emulator = &emu
		m.statusErr = ""
		return m, m.emulator.Init()
	}

	return m, cmd
}

// updateEmulator handles updates while a program runs.
func (m SessionModel) updateEmulator(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.emulator.Update(msg)
	if emu, ok := newModel.(Model); ok {
		m.emulator = &emu
	}

	if m.emulator.BackToMenu() {
		m.emulator = nil
		return m, nil
	}
	return m, cmd
}

// updateHistory handles updates on the history screen.
func (m SessionModel) updateHistory(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.history.Update(msg)
	if h, ok := newModel.(HistoryModel); ok {
		m.history = &h
	}

	if m.history.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.history.IsGoingBack() {
		m.history = nil
		return m, nil
	}
	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch {
	case m.emulator != nil:
		return m.emulator.View()
	case m.history != nil:
		return m.history.View()
	}

	view := m.menu.View()
	if m.statusErr != "" {
		view += "\n" + centerText(m.statusErr, m.opts.Width)
	}
	return view
}
