package tui

import (
	"context"
	"image"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/coi-exe/qrforge/internal/coordinator"
	"github.com/coi-exe/qrforge/internal/keybinds"
	"github.com/coi-exe/qrforge/internal/modes"
	"github.com/coi-exe/qrforge/internal/session"
	"github.com/coi-exe/qrforge/internal/types"
)

// toastTickInterval is how often visible toasts are checked for expiry
const toastTickInterval = 250 * time.Millisecond

// ImageFetcher loads the bytes behind a displayed image reference.
// *executor.Client implements it.
type ImageFetcher interface {
	FetchImage(ctx context.Context, ref string) ([]byte, error)
}

// Options wires a Model
type Options struct {
	Coordinator *coordinator.Coordinator
	Keybinds    *keybinds.Registry
	Session     *session.Manager // optional, remembers the last mode
	Fetcher     ImageFetcher     // optional, enables the image preview
	Version     string
	Logger      *slog.Logger
}

type rowKind int

const (
	rowField rowKind = iota
	rowErrorCorrection
	rowSize
	rowMargin
	rowForeground
	rowBackground
)

// row is one selectable line of the form
type row struct {
	kind  rowKind
	field modes.Field
}

// Model represents the TUI state
type Model struct {
	coord      *coordinator.Coordinator
	keybinds   *keybinds.Registry
	sessionMgr *session.Manager
	fetcher    ImageFetcher
	version    string
	logger     *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	// Form navigation
	focus   int
	editing bool
	input   textinput.Model

	// Result panel
	preview    image.Image
	previewRef string

	spinner      spinner.Model
	toastTicking bool
	showHelp     bool

	width  int
	height int
}

// New creates a new TUI model
func New(opts Options) Model {
	ctx, cancel := context.WithCancel(context.Background())

	kb := opts.Keybinds
	if kb == nil {
		kb = keybinds.NewDefaultRegistry()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	input := textinput.New()
	input.Prompt = ""

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styleWarning

	return Model{
		coord:      opts.Coordinator,
		keybinds:   kb,
		sessionMgr: opts.Session,
		fetcher:    opts.Fetcher,
		version:    opts.Version,
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
		input:      input,
		spinner:    sp,
	}
}

// Run starts the TUI and blocks until the user quits
func Run(opts Options) error {
	m := New(opts)
	defer m.Cleanup()

	// Update uses a pointer receiver
	p := tea.NewProgram(&m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init initializes the TUI
func (m *Model) Init() tea.Cmd {
	return m.scheduleToastTick()
}

// Cleanup cancels in-flight requests
func (m *Model) Cleanup() {
	if m.cancel != nil {
		m.cancel()
	}
}

// Update handles messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(10, m.formWidth()-24)
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKeyPress(msg)

	case spinner.TickMsg:
		if m.coord.Snapshot().GenerateEnabled {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case generateDoneMsg:
		var cmds []tea.Cmd
		if msg.err == nil {
			m.preview = nil
			cmds = append(cmds, m.loadPreviewCmd(m.coord.Snapshot().Display.Image))
		}
		cmds = append(cmds, m.scheduleToastTick())
		return m, tea.Batch(cmds...)

	case previewLoadedMsg:
		if msg.err != nil {
			m.logger.Warn("preview unavailable", "error", msg.err)
			return m, nil
		}
		if msg.ref == m.coord.Snapshot().Display.Image {
			m.preview = msg.img
			m.previewRef = msg.ref
		}
		return m, nil

	case downloadDoneMsg:
		if msg.err == nil {
			m.logger.Info("saved", "path", msg.path)
		}
		return m, m.scheduleToastTick()

	case copyDoneMsg:
		return m, m.scheduleToastTick()

	case toastTickMsg:
		m.toastTicking = false
		return m, m.scheduleToastTick()
	}

	if m.editing {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// rows lists the form lines for the active mode: its fields, then the
// rendering options shared by every mode
func (m *Model) rows() []row {
	fields := m.coord.Registry().Fields(m.coord.ActiveMode())
	rows := make([]row, 0, len(fields)+5)
	for _, f := range fields {
		rows = append(rows, row{kind: rowField, field: f})
	}
	return append(rows,
		row{kind: rowErrorCorrection},
		row{kind: rowSize},
		row{kind: rowMargin},
		row{kind: rowForeground},
		row{kind: rowBackground},
	)
}

func (m *Model) currentRow() row {
	rows := m.rows()
	if m.focus >= len(rows) {
		m.focus = len(rows) - 1
	}
	return rows[m.focus]
}

// scheduleToastTick starts the expiry tick while toasts are visible
func (m *Model) scheduleToastTick() tea.Cmd {
	if m.toastTicking || m.coord.Toasts().Len() == 0 {
		return nil
	}
	m.toastTicking = true
	return tea.Tick(toastTickInterval, func(t time.Time) tea.Msg {
		return toastTickMsg(t)
	})
}

// switchMode selects a mode and resets the form focus
func (m *Model) switchMode(mode types.Mode) {
	if m.editing {
		m.commitInput()
	}
	if !m.coord.SwitchMode(mode) {
		return
	}

	m.focus = 0
	m.preview = nil
	m.previewRef = ""

	if m.sessionMgr != nil {
		if err := m.sessionMgr.SetLastMode(mode); err != nil {
			m.logger.Warn("failed to remember mode", "mode", mode, "error", err)
		}
	}
}
