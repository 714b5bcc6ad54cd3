package modes

import (
	"fmt"
	"strings"

	"github.com/coi-exe/qrforge/internal/types"
	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"
)

// Kind tells the UI which control to use for a field
type Kind int

const (
	KindText   Kind = iota // single line text
	KindSecret             // masked text, value kept verbatim
	KindChoice             // one of Choices
)

// Choice is a selectable value with its display label
type Choice struct {
	Value string
	Label string
}

// Field describes one input belonging to a mode
type Field struct {
	Name        string
	Label       string
	Placeholder string
	Required    bool
	Kind        Kind
	Choices     []Choice
	Default     string
	SoftLimit   int  // guidance only, 0 means none
	Verbatim    bool // whitespace is significant, never trimmed
}

// Spec is the field schema of a mode
type Spec struct {
	Mode   types.Mode
	Label  string
	Fields []Field
}

// Registry holds the mode schemas in display order
type Registry struct {
	specs map[types.Mode]Spec
	order []types.Mode
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		specs: make(map[types.Mode]Spec),
	}
}

// Register adds or replaces a mode schema. New modes are appended to the
// display order; replacing keeps the original position.
func (r *Registry) Register(spec Spec) {
	if _, exists := r.specs[spec.Mode]; !exists {
		r.order = append(r.order, spec.Mode)
	}
	r.specs[spec.Mode] = spec
}

// Lookup returns the schema for a mode
func (r *Registry) Lookup(mode types.Mode) (Spec, bool) {
	spec, ok := r.specs[mode]
	return spec, ok
}

// Modes returns the registered modes in display order
func (r *Registry) Modes() []types.Mode {
	out := make([]types.Mode, len(r.order))
	copy(out, r.order)
	return out
}

// Fields returns the ordered fields of a mode, nil for unknown modes
func (r *Registry) Fields(mode types.Mode) []Field {
	spec, ok := r.specs[mode]
	if !ok {
		return nil
	}
	return spec.Fields
}

// Field returns a single field of a mode by name
func (r *Registry) Field(mode types.Mode, name string) (Field, bool) {
	return lo.Find(r.Fields(mode), func(f Field) bool {
		return f.Name == name
	})
}

// Required returns the mandatory fields of a mode
func (r *Registry) Required(mode types.Mode) []Field {
	return lo.Filter(r.Fields(mode), func(f Field, _ int) bool {
		return f.Required
	})
}

// FieldNames returns the field names of a mode in order
func (r *Registry) FieldNames(mode types.Mode) []string {
	return lo.Map(r.Fields(mode), func(f Field, _ int) string {
		return f.Name
	})
}

// Next returns the mode after (delta > 0) or before (delta < 0) the given one,
// wrapping around at both ends
func (r *Registry) Next(mode types.Mode, delta int) types.Mode {
	if len(r.order) == 0 {
		return mode
	}
	idx := lo.IndexOf(r.order, mode)
	if idx < 0 {
		return r.order[0]
	}
	idx = (idx + delta) % len(r.order)
	if idx < 0 {
		idx += len(r.order)
	}
	return r.order[idx]
}

// Resolve maps user input to a registered mode. Exact names (case
// insensitive) win; otherwise a fuzzy match is accepted when it is unambiguous.
func (r *Registry) Resolve(name string) (types.Mode, error) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return "", fmt.Errorf("mode name is empty")
	}

	candidates := make([]string, 0, len(r.order))
	for _, m := range r.order {
		if string(m) == needle {
			return m, nil
		}
		candidates = append(candidates, string(m))
	}

	matches := fuzzy.Find(needle, candidates)
	switch {
	case len(matches) == 0:
		return "", fmt.Errorf("unknown mode %q (available: %s)", name, strings.Join(candidates, ", "))
	case len(matches) > 1 && matches[0].Score == matches[1].Score:
		return "", fmt.Errorf("ambiguous mode %q (matches %s and %s)", name, matches[0].Str, matches[1].Str)
	}
	return types.Mode(matches[0].Str), nil
}
