// Package form holds the raw input values for every mode and turns the
// active mode's values into a generation request.
package form

import (
	"strings"

	"github.com/coi-exe/qrforge/internal/modes"
	"github.com/coi-exe/qrforge/internal/types"
)

// ColorTarget selects which color SetColor updates
type ColorTarget int

const (
	Foreground ColorTarget = iota
	Background
)

// Source is what BuildPayload reads from
type Source interface {
	ActiveMode() types.Mode
	Value(mode types.Mode, field string) string
	Options() types.RenderOptions
}

// Form is the in-memory form state. Values are stored per mode so fields
// with the same name in different modes never collide. Not safe for
// concurrent use; the coordinator serializes access.
type Form struct {
	mode    types.Mode
	values  map[types.Mode]types.FieldSet
	options types.RenderOptions
}

// New creates a form in the given mode with the given options. Choice fields
// start at their registered default. Options outside the accepted ranges
// fall back to DefaultRenderOptions.
func New(reg *modes.Registry, mode types.Mode, opts types.RenderOptions) *Form {
	f := &Form{
		mode:    mode,
		values:  make(map[types.Mode]types.FieldSet),
		options: types.DefaultRenderOptions(),
	}
	f.SetColor(Foreground, opts.FgColor)
	f.SetColor(Background, opts.BgColor)
	if ec, err := types.ParseErrorCorrection(string(opts.ErrorCorrection)); err == nil {
		f.options.ErrorCorrection = ec
	}
	if opts.Size != 0 {
		f.SetSize(opts.Size)
	}
	f.SetMargin(opts.Margin)
	for _, m := range reg.Modes() {
		for _, field := range reg.Fields(m) {
			if field.Default != "" {
				f.SetField(m, field.Name, field.Default)
			}
		}
	}
	return f
}

// ActiveMode returns the selected mode
func (f *Form) ActiveMode() types.Mode {
	return f.mode
}

// SetMode changes the active mode and reports whether it actually changed
func (f *Form) SetMode(mode types.Mode) bool {
	if f.mode == mode {
		return false
	}
	f.mode = mode
	return true
}

// Value returns the raw value of a field
func (f *Form) Value(mode types.Mode, field string) string {
	return f.values[mode][field]
}

// SetField stores a raw value, untouched
func (f *Form) SetField(mode types.Mode, field, value string) {
	set, ok := f.values[mode]
	if !ok {
		set = make(types.FieldSet)
		f.values[mode] = set
	}
	set[field] = value
}

// Options returns the current render options
func (f *Form) Options() types.RenderOptions {
	return f.options
}

// SetColor updates a color when value is a valid #RRGGBB string. Invalid
// input is ignored and the last valid color stays in place.
func (f *Form) SetColor(target ColorTarget, value string) bool {
	if !types.ValidHexColor(value) {
		return false
	}
	switch target {
	case Foreground:
		f.options.FgColor = value
	case Background:
		f.options.BgColor = value
	default:
		return false
	}
	return true
}

// SetErrorCorrection sets the error-correction level
func (f *Form) SetErrorCorrection(ec types.ErrorCorrection) {
	f.options.ErrorCorrection = ec
}

// SetSize sets the module size, clamped to the supported range
func (f *Form) SetSize(size int) {
	f.options.Size = clamp(size, types.MinSize, types.MaxSize)
}

// SetMargin sets the quiet zone, clamped to the supported range
func (f *Form) SetMargin(margin int) {
	f.options.Margin = clamp(margin, types.MinMargin, types.MaxMargin)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// BuildPayload assembles a request from the active mode only. Every field of
// the mode is present in the data map; values are trimmed unless the field is
// registered as verbatim. No validation happens here, the rendering service
// owns it.
func BuildPayload(src Source, reg *modes.Registry) types.GenerationRequest {
	mode := src.ActiveMode()
	opts := src.Options()

	data := make(types.FieldSet)
	for _, field := range reg.Fields(mode) {
		v := src.Value(mode, field.Name)
		if !field.Verbatim {
			v = strings.TrimSpace(v)
		}
		data[field.Name] = v
	}

	return types.GenerationRequest{
		Mode:            mode,
		Data:            data,
		ErrorCorrection: opts.ErrorCorrection,
		Size:            opts.Size,
		Margin:          opts.Margin,
		FgColor:         opts.FgColor,
		BgColor:         opts.BgColor,
	}
}
