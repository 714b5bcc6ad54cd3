package tui

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/coi-exe/qrforge/internal/types"
)

// Async results
type (
	generateDoneMsg struct{ err error }

	downloadDoneMsg struct {
		path string
		err  error
	}

	copyDoneMsg struct{ err error }

	previewLoadedMsg struct {
		ref string
		img image.Image
		err error
	}

	toastTickMsg time.Time
)

// generate builds the payload synchronously so the snapshot reflects the
// form at the moment of the key press, then renders it in the background
func (m *Model) generate() tea.Cmd {
	if m.editing {
		m.commitInput()
	}
	req, err := m.coord.BeginGenerate()
	if err != nil {
		// Generate is disabled while a request is in flight
		m.logger.Debug("generate ignored", "error", err)
		return nil
	}
	return tea.Batch(m.spinner.Tick, m.generateCmd(req))
}

func (m *Model) generateCmd(req types.GenerationRequest) tea.Cmd {
	coord, ctx := m.coord, m.ctx
	return func() tea.Msg {
		return generateDoneMsg{err: coord.Render(ctx, req)}
	}
}

func (m *Model) downloadCmd() tea.Cmd {
	coord, ctx := m.coord, m.ctx
	return func() tea.Msg {
		path, err := coord.Download(ctx)
		return downloadDoneMsg{path: path, err: err}
	}
}

func (m *Model) copyCmd() tea.Cmd {
	coord, ctx := m.coord, m.ctx
	return func() tea.Msg {
		return copyDoneMsg{err: coord.Copy(ctx)}
	}
}

// loadPreviewCmd decodes the displayed image for the half-block preview
func (m *Model) loadPreviewCmd(ref string) tea.Cmd {
	if m.fetcher == nil || ref == "" {
		return nil
	}
	fetcher, ctx := m.fetcher, m.ctx
	return func() tea.Msg {
		data, err := fetcher.FetchImage(ctx, ref)
		if err != nil {
			return previewLoadedMsg{ref: ref, err: err}
		}
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return previewLoadedMsg{ref: ref, err: fmt.Errorf("decode preview: %w", err)}
		}
		return previewLoadedMsg{ref: ref, img: img}
	}
}

func (m *Model) copyText() tea.Cmd {
	// Result already reported through the toast stack
	_ = m.coord.CopyText()
	return nil
}

func (m *Model) dismissToasts() tea.Cmd {
	stack := m.coord.Toasts()
	for _, t := range stack.Active() {
		stack.Dismiss(t.ID)
	}
	return nil
}
