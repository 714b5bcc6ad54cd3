// Package coordinator drives the generate, download and copy workflow. It
// owns the form, the displayed result and the last successful payload, and
// reports outcomes through a toast stack.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/coi-exe/qrforge/internal/clipboard"
	"github.com/coi-exe/qrforge/internal/executor"
	"github.com/coi-exe/qrforge/internal/form"
	"github.com/coi-exe/qrforge/internal/modes"
	"github.com/coi-exe/qrforge/internal/toast"
	"github.com/coi-exe/qrforge/internal/types"
)

var (
	// ErrNoResult is returned by Download and Copy before any successful generation
	ErrNoResult = errors.New("no generated QR code yet")

	// ErrGenerateInFlight is returned when Generate is triggered while disabled
	ErrGenerateInFlight = errors.New("generation already in progress")
)

// Renderer is the rendering service. *executor.Client implements it.
type Renderer interface {
	Generate(ctx context.Context, req types.GenerationRequest) (*types.GenerationResult, error)
	Download(ctx context.Context, req types.GenerationRequest) ([]byte, error)
	FetchImage(ctx context.Context, ref string) ([]byte, error)
}

// ImageSaver stores downloaded bytes and returns where they went
type ImageSaver interface {
	Save(data []byte) (string, error)
}

// Display is what the result panel shows
type Display struct {
	Visible         bool
	Image           string
	DataString      string
	Preview         string
	Size            int
	CharCount       int
	ErrorCorrection string
}

// Snapshot is a consistent copy of the coordinator state for rendering
type Snapshot struct {
	State           State
	Mode            types.Mode
	GenerateEnabled bool
	Display         Display
	LastPayload     *types.GenerationRequest
	HasResult       bool
	Hint            string
}

// Config wires a Coordinator
type Config struct {
	Registry *modes.Registry
	Form     *form.Form
	Renderer Renderer
	Saver    ImageSaver
	Images   clipboard.ImageWriter
	Text     clipboard.TextWriter
	Toasts   *toast.Stack
	Logger   *slog.Logger
}

// Coordinator is the UI state machine. All methods are safe for concurrent
// use; network calls run without holding the lock.
type Coordinator struct {
	mu sync.Mutex

	reg      *modes.Registry
	form     *form.Form
	renderer Renderer
	saver    ImageSaver
	images   clipboard.ImageWriter
	text     clipboard.TextWriter
	toasts   *toast.Stack
	logger   *slog.Logger

	state       State
	generating  bool
	display     Display
	lastPayload *types.GenerationRequest
	hasResult   bool
	hint        string
}

// New creates a coordinator in the Idle state
func New(cfg Config) *Coordinator {
	c := &Coordinator{
		reg:      cfg.Registry,
		form:     cfg.Form,
		renderer: cfg.Renderer,
		saver:    cfg.Saver,
		images:   cfg.Images,
		text:     cfg.Text,
		toasts:   cfg.Toasts,
		logger:   cfg.Logger,
		state:    StateIdle,
	}
	if c.reg == nil {
		c.reg = modes.NewDefaultRegistry()
	}
	if c.form == nil {
		c.form = form.New(c.reg, types.ModeURL, types.DefaultRenderOptions())
	}
	if c.toasts == nil {
		c.toasts = toast.NewStack(toast.DefaultDuration)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Registry returns the mode registry
func (c *Coordinator) Registry() *modes.Registry {
	return c.reg
}

// Toasts returns the notification stack
func (c *Coordinator) Toasts() *toast.Stack {
	return c.toasts
}

// Snapshot returns a copy of the current state
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		State:           c.state,
		Mode:            c.form.ActiveMode(),
		GenerateEnabled: !c.generating,
		Display:         c.display,
		HasResult:       c.hasResult,
		Hint:            c.hint,
	}
	if c.lastPayload != nil {
		p := c.lastPayload.Clone()
		snap.LastPayload = &p
	}
	return snap
}

// ActiveMode returns the selected mode
func (c *Coordinator) ActiveMode() types.Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form.ActiveMode()
}

// Value returns a raw field value
func (c *Coordinator) Value(mode types.Mode, field string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form.Value(mode, field)
}

// Options returns the current render options
func (c *Coordinator) Options() types.RenderOptions {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form.Options()
}

// SwitchMode selects another mode. The result panel is hidden and hints are
// cleared; LastPayload is kept. Switching to the active mode does nothing.
// While a generation is in flight the state stays Generating.
func (c *Coordinator) SwitchMode(mode types.Mode) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.reg.Lookup(mode); !ok {
		c.logger.Warn("ignoring unknown mode", "mode", mode)
		return false
	}
	if !c.form.SetMode(mode) {
		return false
	}

	c.display.Visible = false
	c.hint = ""
	if c.state != StateGenerating {
		c.state = StateModeSelected
	}
	c.logger.Debug("mode switched", "mode", mode, "state", c.state)
	return true
}

// SetField stores a raw field value for a mode
func (c *Coordinator) SetField(mode types.Mode, field, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form.SetField(mode, field, value)
}

// SetColor updates a color; invalid hex input is ignored
func (c *Coordinator) SetColor(target form.ColorTarget, value string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form.SetColor(target, value)
}

// SetSize sets the module size
func (c *Coordinator) SetSize(size int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form.SetSize(size)
}

// SetMargin sets the quiet zone
func (c *Coordinator) SetMargin(margin int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form.SetMargin(margin)
}

// SetErrorCorrection sets the error-correction level
func (c *Coordinator) SetErrorCorrection(ec types.ErrorCorrection) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form.SetErrorCorrection(ec)
}

// BeginGenerate builds the payload from the active mode and disables
// Generate until CompleteGenerate runs
func (c *Coordinator) BeginGenerate() (types.GenerationRequest, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.generating {
		return types.GenerationRequest{}, ErrGenerateInFlight
	}

	req := form.BuildPayload(c.form, c.reg)
	c.generating = true
	c.state = StateGenerating
	c.logger.Debug("generation started", "mode", req.Mode)
	return req, nil
}

// CompleteGenerate records the outcome of the request started by
// BeginGenerate and re-enables Generate. On success req becomes LastPayload
// and the result is displayed; on failure the previous display and
// LastPayload stay as they were.
func (c *Coordinator) CompleteGenerate(req types.GenerationRequest, result *types.GenerationResult, err error) error {
	c.mu.Lock()
	c.generating = false

	if err == nil && (result == nil || !result.Success) {
		err = &executor.ServiceError{Message: "rendering service returned no result"}
	}

	if err != nil {
		c.state = StateError
		notice := c.generateNotice(err)
		var svcErr *executor.ServiceError
		if errors.As(err, &svcErr) {
			c.hint = svcErr.Message
		}
		c.mu.Unlock()

		c.logger.Warn("generation failed", "mode", req.Mode, "error", err)
		c.toasts.Error(notice)
		return err
	}

	payload := req.Clone()
	c.lastPayload = &payload
	c.hasResult = true
	c.hint = ""
	c.display = Display{
		Visible:         true,
		Image:           result.Image,
		DataString:      result.DataString,
		Preview:         types.Preview(result.DataString),
		Size:            req.Size,
		CharCount:       result.CharCount,
		ErrorCorrection: result.ErrorCorrection,
	}
	c.state = StateResultDisplayed
	c.mu.Unlock()

	c.logger.Info("generated", "mode", req.Mode, "chars", result.CharCount, "ec", result.ErrorCorrection)
	return nil
}

func (c *Coordinator) generateNotice(err error) string {
	var svcErr *executor.ServiceError
	switch {
	case errors.As(err, &svcErr):
		return "⚠ " + svcErr.Message
	case errors.Is(err, executor.ErrServiceUnreachable):
		return MsgUnreachable
	}
	return "⚠ " + err.Error()
}

// Render performs the network half of a generation started with
// BeginGenerate. CompleteGenerate runs on every exit path, including a panic
// in the renderer, which is re-raised afterwards.
func (c *Coordinator) Render(ctx context.Context, req types.GenerationRequest) error {
	completed := false
	defer func() {
		if completed {
			return
		}
		if r := recover(); r != nil {
			c.CompleteGenerate(req, nil, fmt.Errorf("generation aborted: %v", r))
			panic(r)
		}
	}()

	result, rerr := c.renderer.Generate(ctx, req)
	completed = true
	return c.CompleteGenerate(req, result, rerr)
}

// Generate runs a whole generation: build, call the service, display
func (c *Coordinator) Generate(ctx context.Context) error {
	req, err := c.BeginGenerate()
	if err != nil {
		return err
	}
	return c.Render(ctx, req)
}

// lastResult returns the payload and image of the last success, or
// ErrNoResult after pushing the precondition notice
func (c *Coordinator) lastResult() (types.GenerationRequest, Display, error) {
	c.mu.Lock()
	if !c.hasResult || c.lastPayload == nil {
		c.mu.Unlock()
		c.toasts.Error(MsgNoResult)
		return types.GenerationRequest{}, Display{}, ErrNoResult
	}
	payload, display := c.lastPayload.Clone(), c.display
	c.mu.Unlock()
	return payload, display, nil
}

// Download re-submits LastPayload and saves the returned PNG. It does not
// change the state; failures are reported as toasts.
func (c *Coordinator) Download(ctx context.Context) (string, error) {
	payload, _, err := c.lastResult()
	if err != nil {
		return "", err
	}

	data, err := c.renderer.Download(ctx, payload)
	if err != nil {
		var dlErr *executor.DownloadError
		if errors.As(err, &dlErr) {
			c.toasts.Error(MsgDownloadFailed)
		} else {
			c.toasts.Error(MsgDownloadError)
		}
		c.logger.Warn("download failed", "error", err)
		return "", err
	}

	if c.saver == nil {
		c.toasts.Error(MsgDownloadError)
		return "", errors.New("no output location configured")
	}
	path, err := c.saver.Save(data)
	if err != nil {
		c.toasts.Error(MsgDownloadError)
		c.logger.Warn("saving download failed", "error", err)
		return "", err
	}

	c.logger.Info("downloaded", "path", path, "size", executor.FormatSize(len(data)))
	c.toasts.Success(MsgDownloaded)
	return path, nil
}

// Copy fetches the displayed image and places it on the clipboard as PNG
func (c *Coordinator) Copy(ctx context.Context) error {
	_, display, err := c.lastResult()
	if err != nil {
		return err
	}
	if display.Image == "" {
		c.toasts.Error(MsgNoResult)
		return ErrNoResult
	}
	if c.images == nil {
		c.toasts.Warn(MsgCopyUnsupported)
		return clipboard.ErrUnsupported
	}

	raw, err := c.renderer.FetchImage(ctx, display.Image)
	if err != nil {
		c.toasts.Error(MsgCopyFailed)
		c.logger.Warn("copy fetch failed", "error", err)
		return err
	}
	pngData, err := clipboard.ToPNG(raw)
	if err != nil {
		c.toasts.Error(MsgCopyFailed)
		c.logger.Warn("copy conversion failed", "error", err)
		return err
	}

	if err := c.images.WriteImage(ctx, pngData); err != nil {
		if errors.Is(err, clipboard.ErrUnsupported) {
			c.toasts.Warn(MsgCopyUnsupported)
		} else {
			c.toasts.Error(MsgCopyRejected)
			c.logger.Warn("clipboard write failed", "error", err)
		}
		return err
	}

	c.toasts.Success(MsgCopied)
	return nil
}

// CopyText places the encoded data string of the displayed result on the
// clipboard
func (c *Coordinator) CopyText() error {
	_, display, err := c.lastResult()
	if err != nil {
		return err
	}
	if c.text == nil {
		c.toasts.Warn(MsgCopyUnsupported)
		return clipboard.ErrUnsupported
	}
	if err := c.text.WriteText(display.DataString); err != nil {
		c.toasts.Warn(MsgCopyUnsupported)
		c.logger.Warn("text copy failed", "error", err)
		return err
	}
	c.toasts.Success(MsgTextCopied)
	return nil
}
