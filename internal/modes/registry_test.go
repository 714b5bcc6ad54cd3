package modes

import (
	"strings"
	"testing"

	"github.com/coi-exe/qrforge/internal/types"
)

func TestNewDefaultRegistry_Modes(t *testing.T) {
	r := NewDefaultRegistry()

	got := r.Modes()
	want := []types.Mode{types.ModeURL, types.ModeText, types.ModeWiFi, types.ModeVCard}
	if len(got) != len(want) {
		t.Fatalf("Modes() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Modes()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRegistry_Fields(t *testing.T) {
	r := NewDefaultRegistry()

	tests := []struct {
		mode     types.Mode
		expected []string
	}{
		{types.ModeURL, []string{"url"}},
		{types.ModeText, []string{"text"}},
		{types.ModeWiFi, []string{"ssid", "password", "encryption"}},
		{types.ModeVCard, []string{"first", "last", "phone", "email", "url"}},
		{types.Mode("sms"), nil},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			got := r.FieldNames(tt.mode)
			if strings.Join(got, ",") != strings.Join(tt.expected, ",") {
				t.Errorf("FieldNames(%q) = %v, want %v", tt.mode, got, tt.expected)
			}
		})
	}
}

func TestRegistry_Required(t *testing.T) {
	r := NewDefaultRegistry()

	tests := []struct {
		mode     types.Mode
		expected []string
	}{
		{types.ModeURL, []string{"url"}},
		{types.ModeText, []string{"text"}},
		{types.ModeWiFi, []string{"ssid"}},
		{types.ModeVCard, nil},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			var got []string
			for _, f := range r.Required(tt.mode) {
				got = append(got, f.Name)
			}
			if strings.Join(got, ",") != strings.Join(tt.expected, ",") {
				t.Errorf("Required(%q) = %v, want %v", tt.mode, got, tt.expected)
			}
		})
	}
}

func TestRegistry_WiFiPasswordIsVerbatim(t *testing.T) {
	r := NewDefaultRegistry()

	f, ok := r.Field(types.ModeWiFi, "password")
	if !ok {
		t.Fatal("wifi password field not registered")
	}
	if !f.Verbatim {
		t.Error("password must be kept verbatim")
	}
	if f.Kind != KindSecret {
		t.Errorf("password Kind = %v, want KindSecret", f.Kind)
	}

	enc, ok := r.Field(types.ModeWiFi, "encryption")
	if !ok {
		t.Fatal("wifi encryption field not registered")
	}
	if enc.Default != EncryptionWPA {
		t.Errorf("encryption default = %q, want %q", enc.Default, EncryptionWPA)
	}
	if len(enc.Choices) != 3 {
		t.Errorf("expected 3 encryption choices, got %d", len(enc.Choices))
	}
}

func TestRegistry_TextSoftLimit(t *testing.T) {
	r := NewDefaultRegistry()

	f, ok := r.Field(types.ModeText, "text")
	if !ok {
		t.Fatal("text field not registered")
	}
	if f.SoftLimit != types.TextSoftLimit {
		t.Errorf("SoftLimit = %d, want %d", f.SoftLimit, types.TextSoftLimit)
	}
}

func TestRegistry_RegisterReplaceKeepsOrder(t *testing.T) {
	r := NewDefaultRegistry()

	r.Register(Spec{Mode: types.ModeText, Label: "Note", Fields: []Field{{Name: "body"}}})

	if got := r.Modes(); got[1] != types.ModeText || len(got) != 4 {
		t.Errorf("replacing a mode changed the order: %v", got)
	}
	spec, _ := r.Lookup(types.ModeText)
	if spec.Label != "Note" {
		t.Errorf("Label = %q, want Note", spec.Label)
	}
}

func TestRegistry_Next(t *testing.T) {
	r := NewDefaultRegistry()

	tests := []struct {
		name  string
		from  types.Mode
		delta int
		want  types.Mode
	}{
		{"forward", types.ModeURL, 1, types.ModeText},
		{"wrap forward", types.ModeVCard, 1, types.ModeURL},
		{"backward", types.ModeWiFi, -1, types.ModeText},
		{"wrap backward", types.ModeURL, -1, types.ModeVCard},
		{"unknown starts at first", types.Mode("sms"), 1, types.ModeURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Next(tt.from, tt.delta); got != tt.want {
				t.Errorf("Next(%q, %d) = %q, want %q", tt.from, tt.delta, got, tt.want)
			}
		})
	}
}

func TestRegistry_Resolve(t *testing.T) {
	r := NewDefaultRegistry()

	tests := []struct {
		name    string
		input   string
		want    types.Mode
		wantErr bool
	}{
		{"exact", "wifi", types.ModeWiFi, false},
		{"case insensitive", "VCard", types.ModeVCard, false},
		{"padded", "  url ", types.ModeURL, false},
		{"fuzzy prefix", "vc", types.ModeVCard, false},
		{"fuzzy subsequence", "wf", types.ModeWiFi, false},
		{"empty", "", "", true},
		{"no match", "zzz", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Resolve(%q) expected error, got %q", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
