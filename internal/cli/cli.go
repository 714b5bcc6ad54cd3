// Package cli implements the headless "qrforge generate" command.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/coi-exe/qrforge/internal/clipboard"
	"github.com/coi-exe/qrforge/internal/coordinator"
	"github.com/coi-exe/qrforge/internal/filter"
	"github.com/coi-exe/qrforge/internal/form"
	"github.com/coi-exe/qrforge/internal/modes"
	"github.com/coi-exe/qrforge/internal/output"
	"github.com/coi-exe/qrforge/internal/toast"
	"github.com/coi-exe/qrforge/internal/types"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// GenerateOptions contains options for a headless generation
type GenerateOptions struct {
	Mode      string   // mode name or unambiguous abbreviation
	Fields    []string // key=value pairs from --field
	Render    types.RenderOptions
	Save      bool
	OutputDir string
	Copy      bool // copy the image to the clipboard
	CopyText  bool // copy the encoded data string
	Output    string
	Query     string // JMESPath query or $(command) over the JSON result
	Prompt    bool   // ask for missing required fields
	Color     bool   // ANSI colors in text output
}

// Result is what "generate" reports
type Result struct {
	Mode            types.Mode `json:"mode" yaml:"mode"`
	DataString      string     `json:"dataString" yaml:"dataString"`
	Preview         string     `json:"preview" yaml:"preview"`
	CharCount       int        `json:"charCount" yaml:"charCount"`
	ErrorCorrection string     `json:"errorCorrection" yaml:"errorCorrection"`
	Size            int        `json:"size" yaml:"size"`
	Image           string     `json:"image,omitempty" yaml:"image,omitempty"`
	SavedTo         string     `json:"savedTo,omitempty" yaml:"savedTo,omitempty"`
	CopiedImage     bool       `json:"copiedImage,omitempty" yaml:"copiedImage,omitempty"`
	CopiedText      bool       `json:"copiedText,omitempty" yaml:"copiedText,omitempty"`
}

// Runner holds the collaborators of the generate command
type Runner struct {
	Registry *modes.Registry
	Renderer coordinator.Renderer
	Images   clipboard.ImageWriter
	Text     clipboard.TextWriter
	Prompter Prompter
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   *slog.Logger
}

func (r *Runner) defaults() {
	if r.Registry == nil {
		r.Registry = modes.NewDefaultRegistry()
	}
	if r.Prompter == nil {
		r.Prompter = SurveyPrompter{}
	}
	if r.Stdout == nil {
		r.Stdout = os.Stdout
	}
	if r.Stderr == nil {
		r.Stderr = os.Stderr
	}
	if r.Logger == nil {
		r.Logger = slog.Default()
	}
}

// Generate builds the payload from the options, renders it and performs the
// requested side effects. Save and copy run concurrently.
func (r *Runner) Generate(ctx context.Context, opts GenerateOptions) error {
	r.defaults()

	mode, err := r.Registry.Resolve(opts.Mode)
	if err != nil {
		return err
	}

	f, err := r.buildForm(mode, opts)
	if err != nil {
		return err
	}

	toasts := toast.NewStack(toast.DefaultDuration)
	coord := coordinator.New(coordinator.Config{
		Registry: r.Registry,
		Form:     f,
		Renderer: r.Renderer,
		Saver:    output.NewSaver(opts.OutputDir),
		Images:   r.Images,
		Text:     r.Text,
		Toasts:   toasts,
		Logger:   r.Logger,
	})

	// Generation failures come back as the returned error
	if err := coord.Generate(ctx); err != nil {
		return err
	}

	// Notices from save and copy go to stderr
	var noticeMu sync.Mutex
	toasts.OnPush(func(t toast.Toast) {
		noticeMu.Lock()
		defer noticeMu.Unlock()
		fmt.Fprintln(r.Stderr, t.Message)
	})

	snap := coord.Snapshot()
	result := Result{
		Mode:            snap.Mode,
		DataString:      snap.Display.DataString,
		Preview:         snap.Display.Preview,
		CharCount:       snap.Display.CharCount,
		ErrorCorrection: snap.Display.ErrorCorrection,
		Size:            snap.Display.Size,
		Image:           snap.Display.Image,
	}

	// Save and copy are independent: one failing never cancels the others
	var g errgroup.Group
	errs := make([]error, 3)
	if opts.Save {
		g.Go(func() error {
			path, err := coord.Download(ctx)
			if err != nil {
				errs[0] = fmt.Errorf("download: %w", err)
				return nil
			}
			result.SavedTo = path
			return nil
		})
	}
	if opts.Copy {
		g.Go(func() error {
			if err := coord.Copy(ctx); err != nil {
				errs[1] = fmt.Errorf("copy image: %w", err)
				return nil
			}
			result.CopiedImage = true
			return nil
		})
	}
	if opts.CopyText {
		g.Go(func() error {
			if err := coord.CopyText(); err != nil {
				errs[2] = fmt.Errorf("copy text: %w", err)
				return nil
			}
			result.CopiedText = true
			return nil
		})
	}
	_ = g.Wait()
	sideErr := errors.Join(errs...)

	out, err := formatResult(result, opts)
	if err != nil {
		return err
	}
	fmt.Fprint(r.Stdout, out)

	return sideErr
}

// buildForm fills a form for mode from the options, prompting for missing
// required fields when allowed
func (r *Runner) buildForm(mode types.Mode, opts GenerateOptions) (*form.Form, error) {
	f := form.New(r.Registry, mode, opts.Render)

	if opts.Render.FgColor != "" && !f.SetColor(form.Foreground, opts.Render.FgColor) {
		return nil, fmt.Errorf("invalid foreground color %q (expected #rrggbb)", opts.Render.FgColor)
	}
	if opts.Render.BgColor != "" && !f.SetColor(form.Background, opts.Render.BgColor) {
		return nil, fmt.Errorf("invalid background color %q (expected #rrggbb)", opts.Render.BgColor)
	}
	f.SetSize(opts.Render.Size)
	f.SetMargin(opts.Render.Margin)

	values, err := ParseFields(opts.Fields)
	if err != nil {
		return nil, err
	}
	known := r.Registry.FieldNames(mode)
	for name, value := range values {
		if !slices.Contains(known, name) {
			return nil, fmt.Errorf("unknown field %q for mode %s (fields: %s)", name, mode, strings.Join(known, ", "))
		}
		f.SetField(mode, name, value)
	}

	var missing []modes.Field
	for _, field := range r.Registry.Required(mode) {
		if strings.TrimSpace(f.Value(mode, field.Name)) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) == 0 {
		return f, nil
	}

	if !opts.Prompt {
		names := make([]string, len(missing))
		for i, field := range missing {
			names[i] = field.Name
		}
		return nil, fmt.Errorf("missing required field(s) for mode %s: %s (use --field name=value)", mode, strings.Join(names, ", "))
	}

	for _, field := range missing {
		value, err := r.Prompter.Ask(field)
		if err != nil {
			return nil, err
		}
		f.SetField(mode, field.Name, value)
	}
	return f, nil
}

// ParseFields parses key=value pairs. The value may contain '='.
func ParseFields(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid field %q (expected name=value)", pair)
		}
		out[key] = value
	}
	return out, nil
}

// formatResult formats the result based on the output format
func formatResult(result Result, opts GenerateOptions) (string, error) {
	if opts.Query != "" {
		doc, err := json.Marshal(result)
		if err != nil {
			return "", err
		}
		out, err := filter.Apply(doc, opts.Query)
		if err != nil {
			return "", fmt.Errorf("query: %w", err)
		}
		return strings.TrimRight(out, "\n") + "\n", nil
	}

	switch opts.Output {
	case FormatJSON:
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data) + "\n", nil

	case FormatYAML:
		data, err := yaml.Marshal(result)
		if err != nil {
			return "", err
		}
		return string(data), nil

	case FormatText, "":
		return formatText(result, opts.Color), nil
	}

	return "", fmt.Errorf("unknown output format %q (use text, json or yaml)", opts.Output)
}

// ANSI color codes
const (
	colorReset = "\x1b[0m"
	colorGreen = "\x1b[32m"
	colorGray  = "\x1b[90m"
)

func formatText(result Result, color bool) string {
	paint := func(code, s string) string {
		if !color {
			return s
		}
		return code + s + colorReset
	}

	var sb strings.Builder
	sb.WriteString(paint(colorGreen, fmt.Sprintf("✓ Generated %s QR code", result.Mode)) + "\n")
	sb.WriteString(result.Preview + "\n")
	sb.WriteString(paint(colorGray, fmt.Sprintf("Size %d · %d chars · EC %s", result.Size, result.CharCount, result.ErrorCorrection)) + "\n")
	if result.SavedTo != "" {
		sb.WriteString("Saved to " + result.SavedTo + "\n")
	}
	return sb.String()
}
