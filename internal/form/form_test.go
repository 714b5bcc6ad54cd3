package form

import (
	"testing"

	"github.com/coi-exe/qrforge/internal/modes"
	"github.com/coi-exe/qrforge/internal/types"
	"github.com/google/go-cmp/cmp"
)

func newTestForm(t *testing.T, mode types.Mode) (*Form, *modes.Registry) {
	t.Helper()
	reg := modes.NewDefaultRegistry()
	return New(reg, mode, types.DefaultRenderOptions()), reg
}

func TestBuildPayload_DefaultURL(t *testing.T) {
	f, reg := newTestForm(t, types.ModeURL)
	f.SetField(types.ModeURL, "url", "https://example.com")

	got := BuildPayload(f, reg)
	want := types.GenerationRequest{
		Mode:            types.ModeURL,
		Data:            types.FieldSet{"url": "https://example.com"},
		ErrorCorrection: types.ECMedium,
		Size:            10,
		Margin:          4,
		FgColor:         "#000000",
		BgColor:         "#ffffff",
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("BuildPayload() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildPayload_ModeIsolation(t *testing.T) {
	f, reg := newTestForm(t, types.ModeURL)
	f.SetField(types.ModeURL, "url", "https://a.example")
	f.SetField(types.ModeText, "text", "hello")
	f.SetField(types.ModeWiFi, "ssid", "Home")
	f.SetField(types.ModeVCard, "first", "Ada")
	f.SetField(types.ModeVCard, "url", "https://ada.example")

	tests := []struct {
		mode types.Mode
		want types.FieldSet
	}{
		{types.ModeURL, types.FieldSet{"url": "https://a.example"}},
		{types.ModeText, types.FieldSet{"text": "hello"}},
		{types.ModeWiFi, types.FieldSet{"ssid": "Home", "password": "", "encryption": "WPA"}},
		{types.ModeVCard, types.FieldSet{
			"first": "Ada", "last": "", "phone": "", "email": "", "url": "https://ada.example",
		}},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			f.SetMode(tt.mode)
			got := BuildPayload(f, reg)
			if got.Mode != tt.mode {
				t.Errorf("Mode = %q, want %q", got.Mode, tt.mode)
			}
			if diff := cmp.Diff(tt.want, got.Data); diff != "" {
				t.Errorf("Data mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuildPayload_TrimsExceptPassword(t *testing.T) {
	f, reg := newTestForm(t, types.ModeWiFi)
	f.SetField(types.ModeWiFi, "ssid", "  Cafe Guest \t")
	f.SetField(types.ModeWiFi, "password", "  pass word  ")

	got := BuildPayload(f, reg)

	if got.Data["ssid"] != "Cafe Guest" {
		t.Errorf("ssid = %q, want trimmed %q", got.Data["ssid"], "Cafe Guest")
	}
	if got.Data["password"] != "  pass word  " {
		t.Errorf("password = %q, want it untouched", got.Data["password"])
	}
}

func TestBuildPayload_WhitespaceOnlyBecomesEmpty(t *testing.T) {
	f, reg := newTestForm(t, types.ModeText)
	f.SetField(types.ModeText, "text", "   \n ")

	got := BuildPayload(f, reg)
	if got.Data["text"] != "" {
		t.Errorf("text = %q, want empty", got.Data["text"])
	}
}

func TestBuildPayload_IsIndependentOfLaterEdits(t *testing.T) {
	f, reg := newTestForm(t, types.ModeURL)
	f.SetField(types.ModeURL, "url", "https://first.example")

	got := BuildPayload(f, reg)
	f.SetField(types.ModeURL, "url", "https://second.example")
	f.SetColor(Foreground, "#ff0000")

	if got.Data["url"] != "https://first.example" {
		t.Errorf("payload changed after edit: %q", got.Data["url"])
	}
	if got.FgColor != "#000000" {
		t.Errorf("payload color changed after edit: %q", got.FgColor)
	}
}

func TestSetColor(t *testing.T) {
	tests := []struct {
		name   string
		value  string
		accept bool
	}{
		{"lowercase", "#a1b2c3", true},
		{"uppercase", "#A1B2C3", true},
		{"short form", "#abc", false},
		{"missing hash", "a1b2c3", false},
		{"bad digit", "#gg0000", false},
		{"too long", "#a1b2c3d", false},
		{"empty", "", false},
		{"named", "red", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, _ := newTestForm(t, types.ModeURL)
			f.SetColor(Background, "#123456")

			ok := f.SetColor(Background, tt.value)
			if ok != tt.accept {
				t.Errorf("SetColor(%q) = %v, want %v", tt.value, ok, tt.accept)
			}

			want := "#123456"
			if tt.accept {
				want = tt.value
			}
			if got := f.Options().BgColor; got != want {
				t.Errorf("BgColor = %q, want %q", got, want)
			}
		})
	}
}

func TestNew_InvalidOptionsFallBackToDefaults(t *testing.T) {
	reg := modes.NewDefaultRegistry()
	f := New(reg, types.ModeText, types.RenderOptions{
		ErrorCorrection: "high",
		Size:            0,
		Margin:          2,
		FgColor:         "red",
		BgColor:         "#fff",
	})
	f.SetField(types.ModeText, "text", "hi")

	got := BuildPayload(f, reg)
	if got.FgColor != "#000000" || got.BgColor != "#ffffff" {
		t.Errorf("colors = %q/%q, want defaults", got.FgColor, got.BgColor)
	}
	if got.ErrorCorrection != types.ECHigh {
		t.Errorf("ErrorCorrection = %q, want %q", got.ErrorCorrection, types.ECHigh)
	}
	if got.Size != 10 || got.Margin != 2 {
		t.Errorf("size/margin = %d/%d, want 10/2", got.Size, got.Margin)
	}
}

func TestSetSizeAndMarginClamp(t *testing.T) {
	f, _ := newTestForm(t, types.ModeURL)

	f.SetSize(0)
	if f.Options().Size != types.MinSize {
		t.Errorf("Size = %d, want %d", f.Options().Size, types.MinSize)
	}
	f.SetSize(99)
	if f.Options().Size != types.MaxSize {
		t.Errorf("Size = %d, want %d", f.Options().Size, types.MaxSize)
	}
	f.SetMargin(-3)
	if f.Options().Margin != types.MinMargin {
		t.Errorf("Margin = %d, want %d", f.Options().Margin, types.MinMargin)
	}
	f.SetMargin(7)
	if f.Options().Margin != 7 {
		t.Errorf("Margin = %d, want 7", f.Options().Margin)
	}
}

func TestSetMode(t *testing.T) {
	f, _ := newTestForm(t, types.ModeURL)

	if f.SetMode(types.ModeURL) {
		t.Error("switching to the active mode should report no change")
	}
	if !f.SetMode(types.ModeWiFi) {
		t.Error("switching to a new mode should report a change")
	}
	if f.ActiveMode() != types.ModeWiFi {
		t.Errorf("ActiveMode() = %q, want wifi", f.ActiveMode())
	}
}
