package tui

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/chip8-runner/internal/config"
	"github.com/vovakirdan/chip8-runner/internal/core"
	"github.com/vovakirdan/chip8-runner/internal/raster"
	"github.com/vovakirdan/chip8-runner/internal/rom"
	"github.com/vovakirdan/chip8-runner/internal/session"
	"github.com/vovakirdan/chip8-runner/internal/storage"
)

const (
	speedStep  = 50  // Hz per [ or ] press
	chromeRows = 5   // title, border, status and help lines around the display
	chromeCols = 2   // border
	maxStatus  = 120 // frames a status message stays up
)

// MinWidth and MinHeight fit the display at scale 1 with its chrome.
const (
	MinWidth  = raster.DisplayWidth + chromeCols
	MinHeight = (raster.DisplayHeight+1)/2 + chromeRows
)

// Options configures an emulator session.
type Options struct {
	ROM         rom.ROM
	ProcessorID string
	Config      config.Config
	Store       *storage.Store // optional session history
	Logger      *log.Logger
	Frontend    string // recorded in history, "terminal" if empty
	Renderer    *lipgloss.Renderer
	Clock       core.Clock

	// Embedded models hand control back to a parent on quit instead of
	// ending the program.
	Embedded bool

	// ScreenshotDir defaults to ~/.chip8/screenshots.
	ScreenshotDir string
}

// Model is the Bubble Tea model hosting one frame loop.
type Model struct {
	id       uint64
	opts     Options
	sess     *session.Session
	loop     *core.Loop
	slot     *core.FrameSlot
	surface  *raster.Software
	image    *ImageRenderer
	pad      core.Keymap
	keys     KeyMap
	help     help.Model
	held     map[int]int // keypad value -> frames until release
	styles   styles
	width    int
	height   int
	paused   bool
	resume   float64 // clock speed restored when unpausing
	status   string
	statusIn int
	quitting bool
	back     bool
}

type styles struct {
	title  lipgloss.Style
	frame  lipgloss.Style
	status lipgloss.Style
	paused lipgloss.Style
	help   lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("229")),
		frame:  r.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")),
		status: r.NewStyle().Foreground(lipgloss.Color("245")),
		paused: r.NewStyle().Bold(true).Foreground(lipgloss.Color("208")),
		help:   r.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

// NewModel creates the processor, loads the program and wires the frame loop
// to a software surface. The loop starts when the program starts.
func NewModel(opts Options) (Model, error) {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Frontend == "" {
		opts.Frontend = "terminal"
	}
	if opts.Renderer == nil {
		opts.Renderer = lipgloss.DefaultRenderer()
	}

	surface := raster.NewSoftware(raster.DisplayWidth, raster.DisplayHeight)
	slot := &core.FrameSlot{}
	sess, err := session.New(session.Options{
		ROM:         opts.ROM,
		ProcessorID: opts.ProcessorID,
		Config:      opts.Config,
		Surface:     surface,
		Host:        slot,
		Clock:       opts.Clock,
		Logger:      opts.Logger,
		Frontend:    opts.Frontend,
	})
	if err != nil {
		return Model{}, err
	}

	pad := opts.Config.ParsedKeymap()
	h := help.New()
	h.ShowAll = false

	return Model{
		id:       nextModelID(),
		opts:     opts,
		sess:     sess,
		loop:     sess.Loop(),
		slot:     slot,
		surface:  surface,
		image:    NewImageRenderer(opts.Renderer),
		pad:      pad,
		keys:     DefaultKeyMap(pad),
		help:     h,
		held:     make(map[int]int),
		styles:   newStyles(opts.Renderer),
		resume:   opts.Config.ClockSpeed,
	}, nil
}

// Init starts the frame loop.
func (m Model) Init() tea.Cmd {
	m.sess.Start()
	return frameCmd(m.id, m.refreshRate())
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case FrameMsg:
		if msg.ID != m.id {
			return m, nil
		}
		return m.handleFrame()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.finish()
		if m.opts.Embedded {
			m.back = true
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Pause):
		m.togglePause()
		return m, nil

	case key.Matches(msg, m.keys.Slower):
		m.changeSpeed(-speedStep)
		return m, nil

	case key.Matches(msg, m.keys.Faster):
		m.changeSpeed(speedStep)
		return m, nil

	case key.Matches(msg, m.keys.Palette):
		p, err := m.sess.CyclePalette()
		if err != nil {
			m.setStatus("bad palette, keeping current colours")
		} else {
			m.setStatus(fmt.Sprintf("palette %s on %s", p.Foreground, p.Background))
		}
		return m, nil

	case key.Matches(msg, m.keys.Screenshot):
		path, err := m.SaveScreenshot()
		if err != nil {
			m.opts.Logger.Warn("screenshot failed", "error", err)
			m.setStatus("screenshot failed")
		} else {
			m.setStatus("saved " + path)
		}
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	if k := PadKey(m.pad, msg); k != core.NoKey {
		m.PressKey(k)
	}
	return m, nil
}

// PressKey holds a keypad key down for the configured number of frames.
// Terminals report key repeats but not releases, so a repeat extends the hold.
func (m Model) PressKey(k int) {
	if err := m.loop.Input().Press(k); err != nil {
		return
	}
	m.held[k] = m.opts.Config.Terminal.HoldFrames
}

// handleFrame runs the queued frame and ages the held keys.
func (m Model) handleFrame() (tea.Model, tea.Cmd) {
	if m.quitting || m.back {
		return m, nil
	}

	m.slot.Run()
	m.releaseExpired()

	if m.statusIn > 0 {
		m.statusIn--
		if m.statusIn == 0 {
			m.status = ""
		}
	}

	return m, frameCmd(m.id, m.refreshRate())
}

func (m Model) releaseExpired() {
	keys := make([]int, 0, len(m.held))
	for k := range m.held {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	for _, k := range keys {
		m.held[k]--
		if m.held[k] <= 0 {
			delete(m.held, k)
			//nolint:errcheck // k came from a successful Press
			m.loop.Input().Release(k)
		}
	}
}

func (m *Model) togglePause() {
	if m.paused {
		m.loop.SetClockSpeed(m.resume)
		m.paused = false
		return
	}
	m.resume = m.loop.ClockSpeed()
	m.loop.SetClockSpeed(0)
	m.paused = true
}

func (m *Model) changeSpeed(delta float64) {
	speed := m.resume
	if !m.paused {
		speed = m.loop.ClockSpeed()
	}
	speed = max(speed+delta, 0)

	m.resume = speed
	if !m.paused {
		m.loop.SetClockSpeed(speed)
	}
	m.setStatus(fmt.Sprintf("clock %.0f Hz", speed))
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusIn = maxStatus
}

func (m Model) refreshRate() int {
	return m.opts.Config.Display.RefreshRate
}

// finish records the session once.
func (m Model) finish() {
	if err := m.sess.Record(m.opts.Store); err != nil {
		m.opts.Logger.Warn("could not save session", "error", err)
	}
}

// SaveScreenshot writes the current frame as a PNG scaled by display.scale.
func (m Model) SaveScreenshot() (string, error) {
	dir := m.opts.ScreenshotDir
	if dir == "" {
		dir = ScreenshotDir()
	}
	return raster.SaveScreenshot(dir, m.opts.ROM.Name, m.surface.Image(), m.opts.Config.Display.Scale)
}

// ScreenshotDir returns ~/.chip8/screenshots, or "" without a home directory.
func ScreenshotDir() string {
	base := config.Dir()
	if base == "" {
		return ""
	}
	return filepath.Join(base, "screenshots")
}

// View renders the display, the status bar and the key help.
func (m Model) View() string {
	if m.quitting || m.back {
		return ""
	}

	w, h := m.width, m.height
	if w == 0 || h == 0 {
		w, h = 80, 24
	}
	scale := FitScale(raster.DisplayWidth, raster.DisplayHeight, w-chromeCols, h-chromeRows)

	var b strings.Builder
	b.WriteString(m.styles.title.Render(fmt.Sprintf("%s  [%s]", m.opts.ROM.Name, m.opts.ProcessorID)))
	b.WriteString("\n")
	b.WriteString(m.styles.frame.Render(m.image.Render(m.surface.Image(), scale)))
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.styles.help.Render(m.help.View(m.keys)))
	return b.String()
}

func (m Model) statusLine() string {
	totals := m.loop.Totals()
	parts := []string{
		fmt.Sprintf("%4.0f Hz", m.loop.ClockSpeed()),
		fmt.Sprintf("%5.1f fps", m.loop.FPS()),
		fmt.Sprintf("frame %d", totals.Frames),
		fmt.Sprintf("steps %d", totals.Steps),
	}
	if n := m.sess.StepErrors(); n > 0 {
		parts = append(parts, fmt.Sprintf("errors %d", n))
	}
	if m.loop.LastFrame().Sound {
		parts = append(parts, "♪")
	}
	line := m.styles.status.Render(strings.Join(parts, "  "))
	if m.paused {
		line = m.styles.paused.Render("PAUSED") + "  " + line
	}
	if m.status != "" {
		line += "  " + m.styles.status.Render(m.status)
	}
	return line
}

// Loop returns the frame loop.
func (m Model) Loop() *core.Loop {
	return m.loop
}

// Surface returns the software surface the loop draws into.
func (m Model) Surface() *raster.Software {
	return m.surface
}

// Paused reports whether execution is paused.
func (m Model) Paused() bool {
	return m.paused
}

// StepErrors returns how many frames had a step failure.
func (m Model) StepErrors() uint64 {
	return m.sess.StepErrors()
}

// IsQuitting returns true if the user asked to quit.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if an embedded model was closed.
func (m Model) BackToMenu() bool {
	return m.back
}

// Run starts the Bubble Tea program for one emulator session.
func Run(opts Options) error {
	model, err := NewModel(opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	final, err := p.Run()
	if err != nil {
		return err
	}
	// Interrupted programs never see the quit key.
	if fm, ok := final.(Model); ok {
		fm.finish()
	}
	return nil
}
