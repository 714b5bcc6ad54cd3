package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/coi-exe/qrforge/internal/coordinator"
	"github.com/coi-exe/qrforge/internal/keybinds"
	"github.com/coi-exe/qrforge/internal/modes"
	"github.com/coi-exe/qrforge/internal/toast"
	"github.com/coi-exe/qrforge/internal/types"
)

// Adaptive color definitions for light/dark terminal support
var (
	colorGreen  = lipgloss.AdaptiveColor{Light: "#006400", Dark: "#00ff00"}
	colorRed    = lipgloss.AdaptiveColor{Light: "#8b0000", Dark: "#ff0000"}
	colorYellow = lipgloss.AdaptiveColor{Light: "#b8860b", Dark: "#ffff00"}
	colorBlue   = lipgloss.AdaptiveColor{Light: "#00008b", Dark: "#5f87ff"}
	colorGray   = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#888888"}
	colorCyan   = lipgloss.AdaptiveColor{Light: "#008b8b", Dark: "#00ffff"}
)

// Style definitions
var (
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan)

	styleSelected = lipgloss.NewStyle().
			Background(lipgloss.AdaptiveColor{Light: "#d3d3d3", Dark: "#3a3a3a"}).
			Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#ffffff"})

	styleActiveTab = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBlue).
			Underline(true)

	styleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleError   = lipgloss.NewStyle().Foreground(colorRed)
	styleWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleSubtle  = lipgloss.NewStyle().Foreground(colorGray)

	stylePanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorGray).
			Padding(0, 1)
)

// Layout
const (
	headerHeight    = 1
	statusBarHeight = 1
	panelChrome     = 4 // border + horizontal padding
	labelWidth      = 18
	minFormWidth    = 40
)

// View renders the TUI
func (m *Model) View() string {
	if m.width == 0 {
		return ""
	}
	if m.showHelp {
		return m.renderHelp()
	}

	snap := m.coord.Snapshot()
	toasts := m.renderToasts()

	bodyHeight := m.height - headerHeight - statusBarHeight - lipgloss.Height(toasts)
	if toasts == "" {
		bodyHeight = m.height - headerHeight - statusBarHeight
	}
	bodyHeight = max(bodyHeight-2, 3) // panel borders

	formWidth := m.formWidth()
	resultWidth := max(m.width-formWidth-panelChrome*2, 10)

	formBox := stylePanel.
		Width(formWidth).
		Height(bodyHeight).
		Render(m.renderForm(snap))
	resultBox := stylePanel.
		Width(resultWidth).
		Height(bodyHeight).
		Render(m.renderResult(snap, resultWidth, bodyHeight))

	parts := []string{
		m.renderHeader(snap),
		lipgloss.JoinHorizontal(lipgloss.Top, formBox, resultBox),
	}
	if toasts != "" {
		parts = append(parts, toasts)
	}
	parts = append(parts, m.renderStatusBar(snap))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) formWidth() int {
	return max(minFormWidth, m.width*45/100)
}

// renderHeader renders the title, the mode tabs and the active profile
func (m *Model) renderHeader(snap coordinator.Snapshot) string {
	reg := m.coord.Registry()

	tabs := make([]string, 0, len(reg.Modes()))
	for i, mode := range reg.Modes() {
		spec, _ := reg.Lookup(mode)
		label := fmt.Sprintf("%d %s", i+1, spec.Label)
		if mode == snap.Mode {
			tabs = append(tabs, styleActiveTab.Render(label))
		} else {
			tabs = append(tabs, styleSubtle.Render(label))
		}
	}

	left := styleTitle.Render("qrforge") + "  " + strings.Join(tabs, "  ")

	right := ""
	if m.sessionMgr != nil {
		right = styleSubtle.Render("profile: " + m.sessionMgr.GetActiveProfile().Name)
	}

	spacing := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", spacing) + right
}

// renderForm renders the fields of the active mode and the shared options
func (m *Model) renderForm(snap coordinator.Snapshot) string {
	var lines []string
	for i, r := range m.rows() {
		if r.kind == rowErrorCorrection {
			lines = append(lines, "", styleSubtle.Render("Appearance"))
		}
		line := m.renderRow(r, i == m.focus)
		lines = append(lines, line)
	}

	if snap.Hint != "" {
		lines = append(lines, "", styleError.Render("⚠ "+snap.Hint))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderRow(r row, selected bool) string {
	label, value := m.rowContent(r, selected && m.editing)

	line := fmt.Sprintf("%-*s %s", labelWidth, label, value)
	if selected {
		cursor := "> "
		if m.editing {
			return cursor + line
		}
		return styleSelected.Render(cursor + line)
	}
	return "  " + line
}

// rowContent returns the label and the rendered value of a form row
func (m *Model) rowContent(r row, editing bool) (string, string) {
	opts := m.coord.Options()

	switch r.kind {
	case rowErrorCorrection:
		return "Error correction", "‹ " + opts.ErrorCorrection.Label() + " ›"
	case rowSize:
		return "Module size", fmt.Sprintf("‹ %d px ›", opts.Size)
	case rowMargin:
		return "Margin", fmt.Sprintf("‹ %d ›", opts.Margin)
	case rowForeground:
		if editing {
			return "Foreground", m.input.View()
		}
		return "Foreground", swatch(opts.FgColor) + " " + opts.FgColor
	case rowBackground:
		if editing {
			return "Background", m.input.View()
		}
		return "Background", swatch(opts.BgColor) + " " + opts.BgColor
	}

	f := r.field
	label := f.Label
	if f.Required {
		label += " *"
	}

	raw := m.coord.Value(m.coord.ActiveMode(), f.Name)
	var value string
	switch {
	case editing:
		value = m.input.View()
		raw = m.input.Value()
	case f.Kind == modes.KindChoice:
		value = "‹ " + choiceLabel(f, raw) + " ›"
	case raw == "":
		value = styleSubtle.Render(f.Placeholder)
	case f.Kind == modes.KindSecret:
		value = strings.Repeat("•", types.CharCount(raw))
	default:
		value = raw
	}

	if f.SoftLimit > 0 {
		value += "  " + charCounter(types.CharCount(raw), f.SoftLimit)
	}
	return label, value
}

func choiceLabel(f modes.Field, value string) string {
	for _, c := range f.Choices {
		if c.Value == value {
			return c.Label
		}
	}
	return value
}

// charCounter renders "n / limit", highlighted past the warning threshold
func charCounter(n, limit int) string {
	s := fmt.Sprintf("%d / %d", n, limit)
	if n > types.TextWarnThreshold {
		return styleWarning.Render(s)
	}
	return styleSubtle.Render(s)
}

// renderResult renders the preview image, the encoded data and the stats
func (m *Model) renderResult(snap coordinator.Snapshot, width, height int) string {
	if !snap.Display.Visible {
		if snap.State == coordinator.StateGenerating {
			return m.spinner.View() + " Generating…"
		}
		return styleSubtle.Render("Fill in the form and press g to generate.")
	}

	d := snap.Display
	stats := styleSubtle.Render(fmt.Sprintf("Size %d · %d chars · EC %s", d.Size, d.CharCount, d.ErrorCorrection))
	footer := []string{"", d.Preview, stats}

	var img string
	if m.preview != nil && m.previewRef == d.Image {
		img = renderImage(m.preview, d.Size, width, height-len(footer))
	} else {
		img = styleSubtle.Render("(no preview)")
	}

	return lipgloss.JoinVertical(lipgloss.Left, append([]string{img}, footer...)...)
}

// renderToasts renders the active notices, oldest first
func (m *Model) renderToasts() string {
	active := m.coord.Toasts().Active()
	if len(active) == 0 {
		return ""
	}

	lines := make([]string, 0, len(active))
	for _, t := range active {
		lines = append(lines, toastStyle(t.Level).Render(t.Message))
	}
	return strings.Join(lines, "\n")
}

func toastStyle(level toast.Level) lipgloss.Style {
	switch level {
	case toast.LevelSuccess:
		return styleSuccess
	case toast.LevelWarning:
		return styleWarning
	case toast.LevelError:
		return styleError
	}
	return lipgloss.NewStyle()
}

// renderStatusBar renders the state and the key hints
func (m *Model) renderStatusBar(snap coordinator.Snapshot) string {
	var left string
	switch {
	case !snap.GenerateEnabled:
		left = m.spinner.View() + " Generating…"
	case m.editing:
		left = styleWarning.Render("EDIT")
	default:
		left = styleSubtle.Render(snap.State.String())
	}

	hint := func(action keybinds.Action) string {
		return m.keybinds.GetBindingString(keybinds.ContextNormal, action) + " " + action.Description()
	}
	right := styleSubtle.Render(strings.Join([]string{
		hint(keybinds.ActionGenerate),
		hint(keybinds.ActionDownload),
		hint(keybinds.ActionCopyImage),
		hint(keybinds.ActionToggleHelp),
		hint(keybinds.ActionQuit),
	}, " · "))
	if m.editing {
		right = styleSubtle.Render(m.keybinds.GetBindingString(keybinds.ContextEdit, keybinds.ActionEditDone) + " done")
	}

	spacing := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", spacing) + right
}

// renderHelp lists the bindings of both contexts
func (m *Model) renderHelp() string {
	var lines []string
	lines = append(lines, styleTitle.Render("Keys"), "")

	for _, ctx := range []keybinds.Context{keybinds.ContextNormal, keybinds.ContextEdit} {
		lines = append(lines, styleActiveTab.Render(string(ctx)))

		seen := make(map[keybinds.Action]bool)
		for _, b := range m.keybinds.ListBindings(ctx) {
			if seen[b.Action] {
				continue
			}
			seen[b.Action] = true
			keys := m.keybinds.GetBindingString(ctx, b.Action)
			lines = append(lines, fmt.Sprintf("  %-24s %s", keys, b.Action.Description()))
		}
		lines = append(lines, "")
	}

	if m.version != "" {
		lines = append(lines, styleSubtle.Render("qrforge "+m.version))
	}
	lines = append(lines, styleSubtle.Render("? or esc to close"))

	return stylePanel.Width(max(m.width-panelChrome, minFormWidth)).Render(strings.Join(lines, "\n"))
}
