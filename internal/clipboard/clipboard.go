// Package clipboard writes QR images and text to the system clipboard.
package clipboard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	sysclip "github.com/atotto/clipboard"
	"github.com/aymanbagabas/go-osc52/v2"
)

// ErrUnsupported means no way to place an image on the clipboard exists here
var ErrUnsupported = errors.New("clipboard image write not supported")

// ImageWriter places a PNG image on the clipboard
type ImageWriter interface {
	WriteImage(ctx context.Context, pngData []byte) error
}

// TextWriter places text on the clipboard
type TextWriter interface {
	WriteText(text string) error
}

type runFunc func(ctx context.Context, stdin io.Reader, name string, args ...string) error

// System uses the platform clipboard tools: wl-copy or xclip on Linux,
// osascript on macOS
type System struct {
	goos     string
	getenv   func(string) string
	lookPath func(string) (string, error)
	run      runFunc

	// Fallback receives an OSC52 sequence when no text clipboard is available
	Fallback io.Writer
}

// NewSystem creates a clipboard bound to the running platform
func NewSystem() *System {
	return &System{
		goos:     runtime.GOOS,
		getenv:   os.Getenv,
		lookPath: exec.LookPath,
		run:      runCommand,
		Fallback: os.Stderr,
	}
}

// WriteImage copies PNG bytes to the clipboard
func (s *System) WriteImage(ctx context.Context, pngData []byte) error {
	switch s.goos {
	case "linux", "freebsd", "openbsd", "netbsd":
		return s.writeImageUnix(ctx, pngData)
	case "darwin":
		return s.writeImageDarwin(ctx, pngData)
	}
	return ErrUnsupported
}

func (s *System) writeImageUnix(ctx context.Context, pngData []byte) error {
	if s.getenv("WAYLAND_DISPLAY") != "" {
		if path, err := s.lookPath("wl-copy"); err == nil {
			return s.run(ctx, bytes.NewReader(pngData), path, "--type", "image/png")
		}
	}
	if s.getenv("DISPLAY") != "" {
		if path, err := s.lookPath("xclip"); err == nil {
			return s.run(ctx, bytes.NewReader(pngData), path, "-selection", "clipboard", "-t", "image/png", "-i")
		}
	}
	return ErrUnsupported
}

// osascript cannot read stdin as image data, so the PNG goes through a
// temporary file that is removed afterwards
func (s *System) writeImageDarwin(ctx context.Context, pngData []byte) error {
	path, err := s.lookPath("osascript")
	if err != nil {
		return ErrUnsupported
	}

	tmp, err := os.CreateTemp("", "qrforge-*.png")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(pngData); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	abs, _ := filepath.Abs(tmp.Name())
	script := fmt.Sprintf(`set the clipboard to (read (POSIX file %q) as «class PNGf»)`, abs)
	return s.run(ctx, nil, path, "-e", script)
}

// WriteText copies text using the system clipboard, falling back to an OSC52
// escape sequence understood by most terminal emulators
func (s *System) WriteText(text string) error {
	if !sysclip.Unsupported {
		if err := sysclip.WriteAll(text); err == nil {
			return nil
		}
	}
	if s.Fallback == nil {
		return ErrUnsupported
	}
	if _, err := osc52.New(text).WriteTo(s.Fallback); err != nil {
		return fmt.Errorf("osc52 write failed: %w", err)
	}
	return nil
}

func runCommand(ctx context.Context, stdin io.Reader, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = stdin
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return fmt.Errorf("%s: %w: %s", filepath.Base(name), err, msg)
		}
		return fmt.Errorf("%s: %w", filepath.Base(name), err)
	}
	return nil
}

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

// ToPNG returns data as PNG, re-encoding GIF or JPEG input
func ToPNG(data []byte) ([]byte, error) {
	if bytes.HasPrefix(data, pngSignature) {
		return data, nil
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode %s as PNG: %w", format, err)
	}
	return buf.Bytes(), nil
}
