package tui

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/coi-exe/qrforge/internal/coordinator"
	"github.com/coi-exe/qrforge/internal/keybinds"
	"github.com/coi-exe/qrforge/internal/types"
)

// fakeRenderer answers like the rendering service with a fixed 4x4 image
type fakeRenderer struct {
	mu       sync.Mutex
	png      []byte
	failWith error
	requests []types.GenerationRequest
}

func newFakeRenderer(t *testing.T) *fakeRenderer {
	t.Helper()

	img := image.NewGray(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if (x+y)%2 == 0 {
				img.SetGray(x, y, color.Gray{Y: 0xff})
			}
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode test image: %v", err)
	}
	return &fakeRenderer{png: buf.Bytes()}
}

func (f *fakeRenderer) Generate(_ context.Context, req types.GenerationRequest) (*types.GenerationResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req.Clone())
	if f.failWith != nil {
		return nil, f.failWith
	}
	data := req.Data["url"] + req.Data["text"]
	return &types.GenerationResult{
		Success:         true,
		Image:           "data:image/png;base64," + base64.StdEncoding.EncodeToString(f.png),
		DataString:      data,
		CharCount:       types.CharCount(data),
		ErrorCorrection: string(req.ErrorCorrection),
	}, nil
}

func (f *fakeRenderer) Download(context.Context, types.GenerationRequest) ([]byte, error) {
	return f.png, nil
}

func (f *fakeRenderer) FetchImage(_ context.Context, ref string) ([]byte, error) {
	if !strings.HasPrefix(ref, "data:image/png;base64,") {
		return nil, errors.New("unexpected image reference")
	}
	return base64.StdEncoding.DecodeString(strings.TrimPrefix(ref, "data:image/png;base64,"))
}

func (f *fakeRenderer) Requests() []types.GenerationRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]types.GenerationRequest(nil), f.requests...)
}

// CreateTestModel creates a Model over a fake rendering service
func CreateTestModel(t *testing.T) (*Model, *fakeRenderer) {
	t.Helper()

	renderer := newFakeRenderer(t)
	coord := coordinator.New(coordinator.Config{Renderer: renderer})

	m := New(Options{
		Coordinator: coord,
		Keybinds:    keybinds.NewDefaultRegistry(),
		Fetcher:     renderer,
		Version:     "test-version",
	})
	t.Cleanup(m.Cleanup)

	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return &m, renderer
}

// pressKey sends a key by its keybinding name ("g", "enter", "tab", ...)
func pressKey(m *Model, key string) tea.Cmd {
	return m.handleKeyPress(keyMsg(key))
}

func keyMsg(key string) tea.KeyMsg {
	switch key {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "ctrl+g":
		return tea.KeyMsg{Type: tea.KeyCtrlG}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

// typeText feeds printable text to the focused input
func typeText(m *Model, text string) {
	m.handleKeyPress(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

// AssertModelField is a generic helper for checking model field values
func AssertModelField[T comparable](t *testing.T, fieldName string, got, want T) {
	t.Helper()
	if got != want {
		t.Errorf("%s = %v, want %v", fieldName, got, want)
	}
}

// hasToast reports whether a notice with the message is active
func hasToast(m *Model, message string) bool {
	for _, toast := range m.coord.Toasts().Active() {
		if toast.Message == message {
			return true
		}
	}
	return false
}
