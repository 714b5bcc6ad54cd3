package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/coi-exe/qrforge/internal/clipboard"
	"github.com/coi-exe/qrforge/internal/executor"
	"github.com/coi-exe/qrforge/internal/mock"
	"github.com/coi-exe/qrforge/internal/modes"
	"github.com/coi-exe/qrforge/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClipboard struct {
	mu    sync.Mutex
	image []byte
	text  string
	err   error
}

func (c *fakeClipboard) WriteImage(_ context.Context, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.image = data
	return nil
}

func (c *fakeClipboard) WriteText(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.text = text
	return nil
}

type fakePrompter struct {
	answers map[string]string
	asked   []string
}

func (p *fakePrompter) Ask(field modes.Field) (string, error) {
	p.asked = append(p.asked, field.Name)
	answer, ok := p.answers[field.Name]
	if !ok {
		return "", ErrCancelled
	}
	return answer, nil
}

// newRunner wires a Runner to a reference backend
func newRunner(t *testing.T) (*Runner, *bytes.Buffer, *bytes.Buffer, *fakeClipboard) {
	t.Helper()

	backend := httptest.NewServer(mock.NewServer(nil).Handler())
	t.Cleanup(backend.Close)

	client, err := executor.NewClient(backend.URL)
	require.NoError(t, err)

	var stdout, stderr bytes.Buffer
	clip := &fakeClipboard{}
	return &Runner{
		Renderer: client,
		Images:   clip,
		Text:     clip,
		Prompter: &fakePrompter{},
		Stdout:   &stdout,
		Stderr:   &stderr,
	}, &stdout, &stderr, clip
}

func baseOptions() GenerateOptions {
	return GenerateOptions{
		Mode:   "url",
		Render: types.DefaultRenderOptions(),
		Output: FormatText,
	}
}

func TestGenerateText(t *testing.T) {
	r, stdout, _, _ := newRunner(t)

	opts := baseOptions()
	opts.Fields = []string{"url= https://example.com "}
	require.NoError(t, r.Generate(context.Background(), opts))

	out := stdout.String()
	assert.Contains(t, out, "✓ Generated url QR code")
	assert.Contains(t, out, "https://example.com\n")
	assert.Contains(t, out, "Size 10 · 19 chars · EC M")
	assert.NotContains(t, out, "\x1b[")
}

func TestGenerateJSONAndQuery(t *testing.T) {
	r, stdout, _, _ := newRunner(t)

	opts := baseOptions()
	opts.Mode = "wf"
	opts.Fields = []string{"ssid=Home", "password= secret "}
	opts.Output = FormatJSON
	require.NoError(t, r.Generate(context.Background(), opts))

	var result Result
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &result))
	assert.Equal(t, types.ModeWiFi, result.Mode)
	assert.Equal(t, "WIFI:T:WPA;S:Home;P: secret ;;", result.DataString)
	assert.True(t, strings.HasPrefix(result.Image, "data:image/png;base64,"))

	stdout.Reset()
	opts.Query = "dataString"
	require.NoError(t, r.Generate(context.Background(), opts))
	assert.Equal(t, "WIFI:T:WPA;S:Home;P: secret ;;\n", stdout.String())
}

func TestGenerateYAML(t *testing.T) {
	r, stdout, _, _ := newRunner(t)

	opts := baseOptions()
	opts.Mode = "text"
	opts.Fields = []string{"text=hello"}
	opts.Output = FormatYAML
	opts.Render.ErrorCorrection = types.ECHigh
	require.NoError(t, r.Generate(context.Background(), opts))

	assert.Contains(t, stdout.String(), "dataString: hello")
	assert.Contains(t, stdout.String(), "errorCorrection: H")
}

func TestGenerateMissingRequiredField(t *testing.T) {
	r, stdout, _, _ := newRunner(t)

	err := r.Generate(context.Background(), baseOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required field(s) for mode url: url")
	assert.Empty(t, stdout.String())
}

func TestGeneratePromptsForMissingFields(t *testing.T) {
	r, stdout, _, _ := newRunner(t)
	prompter := &fakePrompter{answers: map[string]string{"text": "prompted"}}
	r.Prompter = prompter

	opts := baseOptions()
	opts.Mode = "text"
	opts.Prompt = true
	require.NoError(t, r.Generate(context.Background(), opts))

	assert.Equal(t, []string{"text"}, prompter.asked)
	assert.Contains(t, stdout.String(), "prompted")
}

func TestGeneratePromptCancelled(t *testing.T) {
	r, _, _, _ := newRunner(t)

	opts := baseOptions()
	opts.Prompt = true
	err := r.Generate(context.Background(), opts)
	assert.ErrorIs(t, err, ErrCancelled)
}

func TestGenerateServiceError(t *testing.T) {
	r, stdout, _, _ := newRunner(t)

	opts := baseOptions()
	opts.Mode = "vcard"
	opts.Fields = []string{"email=ada@example.com"}
	err := r.Generate(context.Background(), opts)

	var svcErr *executor.ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "At least a first or last name is required.", svcErr.Message)
	assert.Empty(t, stdout.String())
}

func TestGenerateSaveAndCopy(t *testing.T) {
	r, stdout, stderr, clip := newRunner(t)
	dir := t.TempDir()

	opts := baseOptions()
	opts.Fields = []string{"url=https://example.com"}
	opts.Save = true
	opts.OutputDir = dir
	opts.Copy = true
	opts.CopyText = true
	opts.Output = FormatJSON
	require.NoError(t, r.Generate(context.Background(), opts))

	path := filepath.Join(dir, "qrforge.png")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))

	assert.True(t, bytes.HasPrefix(clip.image, []byte("\x89PNG")))
	assert.Equal(t, "https://example.com", clip.text)

	var result Result
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &result))
	assert.Equal(t, path, result.SavedTo)
	assert.True(t, result.CopiedImage)
	assert.True(t, result.CopiedText)

	assert.Contains(t, stderr.String(), "✓ Downloaded!")
	assert.Contains(t, stderr.String(), "✓ Copied to clipboard.")
}

// slowDownloader delays downloads so a concurrent copy finishes first
type slowDownloader struct {
	*executor.Client
	delay time.Duration
}

func (d slowDownloader) Download(ctx context.Context, req types.GenerationRequest) ([]byte, error) {
	select {
	case <-time.After(d.delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return d.Client.Download(ctx, req)
}

func TestGenerateCopyFailureDoesNotCancelSave(t *testing.T) {
	r, _, stderr, clip := newRunner(t)
	clip.err = clipboard.ErrUnsupported
	r.Renderer = slowDownloader{Client: r.Renderer.(*executor.Client), delay: 200 * time.Millisecond}
	dir := t.TempDir()

	opts := baseOptions()
	opts.Fields = []string{"url=https://example.com"}
	opts.Save = true
	opts.OutputDir = dir
	opts.Copy = true
	err := r.Generate(context.Background(), opts)

	assert.True(t, errors.Is(err, clipboard.ErrUnsupported))
	data, readErr := os.ReadFile(filepath.Join(dir, "qrforge.png"))
	require.NoError(t, readErr)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
	assert.Contains(t, stderr.String(), "✓ Downloaded!")
	assert.NotContains(t, stderr.String(), "Download error.")
}

func TestGenerateCopyUnsupported(t *testing.T) {
	r, stdout, stderr, clip := newRunner(t)
	clip.err = clipboard.ErrUnsupported

	opts := baseOptions()
	opts.Fields = []string{"url=https://example.com"}
	opts.Copy = true
	err := r.Generate(context.Background(), opts)

	assert.True(t, errors.Is(err, clipboard.ErrUnsupported))
	assert.Contains(t, stderr.String(), "Copy not supported in this environment.")
	assert.Contains(t, stdout.String(), "https://example.com")
}

func TestGenerateRejectsBadInput(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*GenerateOptions)
		wantErr string
	}{
		{
			name:    "unknown field",
			modify:  func(o *GenerateOptions) { o.Fields = []string{"url=x", "ssid=y"} },
			wantErr: `unknown field "ssid" for mode url`,
		},
		{
			name:    "malformed field",
			modify:  func(o *GenerateOptions) { o.Fields = []string{"url"} },
			wantErr: `invalid field "url"`,
		},
		{
			name:    "bad color",
			modify:  func(o *GenerateOptions) { o.Fields = []string{"url=x"}; o.Render.FgColor = "red" },
			wantErr: `invalid foreground color "red"`,
		},
		{
			name:    "unknown mode",
			modify:  func(o *GenerateOptions) { o.Mode = "zzz" },
			wantErr: "zzz",
		},
		{
			name:    "unknown format",
			modify:  func(o *GenerateOptions) { o.Fields = []string{"url=x"}; o.Output = "xml" },
			wantErr: `unknown output format "xml"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, _, _ := newRunner(t)
			opts := baseOptions()
			tt.modify(&opts)
			err := r.Generate(context.Background(), opts)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseFields(t *testing.T) {
	got, err := ParseFields([]string{"url=https://a.b/?x=1", "text="})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"url": "https://a.b/?x=1", "text": ""}, got)

	_, err = ParseFields([]string{"=value"})
	assert.Error(t, err)
}
