/*
Package tui implements the interactive terminal interface for qrforge.

# Overview

The TUI is a Bubble Tea program layered over coordinator.Coordinator. The
coordinator owns every piece of domain state (the form, the displayed result,
the last successful payload and the toast stack); the model only keeps view
state such as the focused row, the text input and the decoded preview image.

# Layout

	┌ qrforge ─ [URL] Text WiFi Contact ─────────── profile: local ┐
	│ form rows                  │ result panel                     │
	│   URL *: https://…         │   ▀▀▀ half-block QR preview ▀▀▀  │
	│   Error correction ‹ M ›   │   https://example.com            │
	│   Size ‹ 10 ›              │   Size 10 · 19 chars · EC M      │
	└──────────────────────────────────────────────────────────────┘
	toasts
	status bar

# Keys

Keys are resolved through keybinds.Registry in two contexts: normal (moving
between rows, single letter shortcuts) and edit (a text input has focus and
receives printable keys). Matched actions are dispatched through the
actionHandlers table. Defaults:

  - g / ctrl+g: generate
  - d / ctrl+s: download qrforge.png
  - c: copy image, y: copy encoded text
  - tab, j, k: move between rows; enter edits a text row
  - h, l, +, -: change choices, levels, size and margin
  - 1-4, [ and ]: switch mode
  - ?: help, q: quit

# Async Work

Generate, download and copy run as tea.Cmd goroutines. Their outcome comes
back as generateDoneMsg, downloadDoneMsg and copyDoneMsg; user-facing
outcomes are already in the toast stack by then. Toast expiry is driven by
a short tick that only runs while toasts are visible.
*/
package tui
