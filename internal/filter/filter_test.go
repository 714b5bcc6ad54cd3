package filter

import (
	"os/exec"
	"testing"
)

const sampleDoc = `{
  "success": true,
  "dataString": "WIFI:T:WPA;S:Home;P:secret;;",
  "charCount": 28,
  "errorCorrection": "M",
  "request": {"mode": "wifi", "data": {"ssid": "Home"}}
}`

func TestApply(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    string
		wantErr bool
	}{
		{"empty query returns document", "", sampleDoc, false},
		{"string is unquoted", "dataString", "WIFI:T:WPA;S:Home;P:secret;;", false},
		{"number", "charCount", "28", false},
		{"nested", "request.data.ssid", "Home", false},
		{"missing is null", "image", "null", false},
		{"projection", "[charCount, errorCorrection]", "[\n  28,\n  \"M\"\n]", false},
		{"invalid expression", "[[[", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply([]byte(sampleDoc), tt.query)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Apply() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("Apply() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestApply_InvalidJSON(t *testing.T) {
	if _, err := Apply([]byte("not json"), "a"); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestApply_ShellCommand(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	got, err := Apply([]byte(sampleDoc), "$(wc -l | tr -d ' ')")
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if got != "6" {
		t.Errorf("Apply() = %q, want 6", got)
	}
}

func TestIsShellCommand(t *testing.T) {
	if !IsShellCommand("$(cat)") {
		t.Error("$(cat) should be a shell command")
	}
	if IsShellCommand("dataString") {
		t.Error("plain expression is not a shell command")
	}
}

func TestIsValidJMESPath(t *testing.T) {
	if !IsValidJMESPath("request.mode") {
		t.Error("request.mode should be valid")
	}
	if IsValidJMESPath("[[[") {
		t.Error("[[[ should be invalid")
	}
}
