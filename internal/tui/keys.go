package tui

import (
	"strconv"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/coi-exe/qrforge/internal/form"
	"github.com/coi-exe/qrforge/internal/keybinds"
	"github.com/coi-exe/qrforge/internal/modes"
	"github.com/coi-exe/qrforge/internal/types"
	"github.com/samber/lo"
)

// actionHandlers maps every bindable action to its handler
var actionHandlers = map[keybinds.Action]func(*Model) tea.Cmd{
	keybinds.ActionQuit:      (*Model).quit,
	keybinds.ActionQuitForce: (*Model).quit,
	keybinds.ActionToggleHelp: func(m *Model) tea.Cmd {
		m.showHelp = !m.showHelp
		return nil
	},

	keybinds.ActionGenerate:  (*Model).generate,
	keybinds.ActionDownload:  (*Model).downloadCmd,
	keybinds.ActionCopyImage: (*Model).copyCmd,
	keybinds.ActionCopyText:  (*Model).copyText,

	keybinds.ActionNextField:  func(m *Model) tea.Cmd { return m.moveFocus(1) },
	keybinds.ActionPrevField:  func(m *Model) tea.Cmd { return m.moveFocus(-1) },
	keybinds.ActionEditField:  (*Model).editField,
	keybinds.ActionEditDone:   (*Model).editDone,
	keybinds.ActionAdjustUp:   func(m *Model) tea.Cmd { return m.adjust(1) },
	keybinds.ActionAdjustDown: func(m *Model) tea.Cmd { return m.adjust(-1) },

	keybinds.ActionNextMode: func(m *Model) tea.Cmd {
		m.switchMode(m.coord.Registry().Next(m.coord.ActiveMode(), 1))
		return nil
	},
	keybinds.ActionPrevMode: func(m *Model) tea.Cmd {
		m.switchMode(m.coord.Registry().Next(m.coord.ActiveMode(), -1))
		return nil
	},
	keybinds.ActionModeURL:   modeHandler(types.ModeURL),
	keybinds.ActionModeText:  modeHandler(types.ModeText),
	keybinds.ActionModeWiFi:  modeHandler(types.ModeWiFi),
	keybinds.ActionModeVCard: modeHandler(types.ModeVCard),

	keybinds.ActionDismissToasts: (*Model).dismissToasts,
}

func modeHandler(mode types.Mode) func(*Model) tea.Cmd {
	return func(m *Model) tea.Cmd {
		m.switchMode(mode)
		return nil
	}
}

// handleKeyPress routes key presses through the keybinding registry
func (m *Model) handleKeyPress(msg tea.KeyMsg) tea.Cmd {
	ctx := keybinds.ContextNormal
	if m.editing {
		ctx = keybinds.ContextEdit
	}

	action, ok := m.keybinds.Match(ctx, msg.String())

	// Help overlay swallows everything except closing and quitting
	if m.showHelp {
		switch action {
		case keybinds.ActionToggleHelp, keybinds.ActionDismissToasts:
			m.showHelp = false
		case keybinds.ActionQuit, keybinds.ActionQuitForce:
			return m.quit()
		}
		return nil
	}

	if ok {
		if handler, found := actionHandlers[action]; found {
			return tea.Batch(handler(m), m.scheduleToastTick())
		}
		m.logger.Debug("no handler for action", "action", action)
	}

	if m.editing {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.applyLiveInput()
		return cmd
	}
	return nil
}

func (m *Model) quit() tea.Cmd {
	if m.editing {
		m.commitInput()
	}
	m.Cleanup()
	return tea.Quit
}

// moveFocus moves between form rows, wrapping at both ends
func (m *Model) moveFocus(delta int) tea.Cmd {
	if m.editing {
		m.commitInput()
	}
	n := len(m.rows())
	m.focus = ((m.focus+delta)%n + n) % n
	return nil
}

// editField focuses the text input for text rows and steps the others
func (m *Model) editField() tea.Cmd {
	r := m.currentRow()
	opts := m.coord.Options()

	switch r.kind {
	case rowField:
		if r.field.Kind == modes.KindChoice {
			return m.adjust(1)
		}
		m.input.SetValue(m.coord.Value(m.coord.ActiveMode(), r.field.Name))
		m.input.Placeholder = r.field.Placeholder
		m.input.CharLimit = 0
		m.input.EchoMode = textinput.EchoNormal
		if r.field.Kind == modes.KindSecret {
			m.input.EchoMode = textinput.EchoPassword
		}
	case rowForeground:
		m.startColorInput(opts.FgColor)
	case rowBackground:
		m.startColorInput(opts.BgColor)
	default:
		return m.adjust(1)
	}

	m.editing = true
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *Model) startColorInput(value string) {
	m.input.SetValue(value)
	m.input.Placeholder = "#rrggbb"
	m.input.CharLimit = 7
	m.input.EchoMode = textinput.EchoNormal
}

func (m *Model) editDone() tea.Cmd {
	m.commitInput()
	return nil
}

// applyLiveInput stores field edits as they are typed so the form is always
// current. Colors are committed on leaving the input since partial hex
// values are never valid.
func (m *Model) applyLiveInput() {
	r := m.currentRow()
	if r.kind == rowField {
		m.coord.SetField(m.coord.ActiveMode(), r.field.Name, m.input.Value())
	}
}

// commitInput leaves edit mode and stores the input value
func (m *Model) commitInput() {
	if !m.editing {
		return
	}
	m.editing = false
	m.input.Blur()

	r := m.currentRow()
	switch r.kind {
	case rowField:
		m.coord.SetField(m.coord.ActiveMode(), r.field.Name, m.input.Value())
	case rowForeground, rowBackground:
		target := form.Foreground
		if r.kind == rowBackground {
			target = form.Background
		}
		if !m.coord.SetColor(target, m.input.Value()) {
			m.coord.Toasts().Warn("Invalid color " + strconv.Quote(m.input.Value()) + ", expected #rrggbb.")
		}
	}
}

// adjust steps choices, the error-correction level, size and margin
func (m *Model) adjust(delta int) tea.Cmd {
	if m.editing {
		return nil
	}
	r := m.currentRow()
	opts := m.coord.Options()

	switch r.kind {
	case rowField:
		if r.field.Kind != modes.KindChoice || len(r.field.Choices) == 0 {
			return nil
		}
		mode := m.coord.ActiveMode()
		values := lo.Map(r.field.Choices, func(c modes.Choice, _ int) string { return c.Value })
		m.coord.SetField(mode, r.field.Name, cycle(values, m.coord.Value(mode, r.field.Name), delta))
	case rowErrorCorrection:
		m.coord.SetErrorCorrection(cycle(types.ErrorCorrectionLevels, opts.ErrorCorrection, delta))
	case rowSize:
		m.coord.SetSize(opts.Size + delta)
	case rowMargin:
		m.coord.SetMargin(opts.Margin + delta)
	}
	return nil
}

// cycle returns the element delta steps away from current, wrapping around.
// An unknown current value starts from the first element.
func cycle[T comparable](values []T, current T, delta int) T {
	idx := lo.IndexOf(values, current)
	if idx < 0 {
		return values[0]
	}
	n := len(values)
	return values[((idx+delta)%n+n)%n]
}
