package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/coi-exe/qrforge/internal/config"
	"github.com/coi-exe/qrforge/internal/types"
)

// setupConfig points the config paths at a temp dir and chdirs into another
// empty temp dir so local override files are never picked up
func setupConfig(t *testing.T) {
	t.Helper()

	oldWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("Failed to change directory: %v", err)
	}
	t.Cleanup(func() { os.Chdir(oldWd) })

	oldSession, oldProfiles := config.SessionFile, config.ProfilesFile
	dir := t.TempDir()
	config.SessionFile = filepath.Join(dir, ".session.json")
	config.ProfilesFile = filepath.Join(dir, "profiles.json")
	t.Cleanup(func() {
		config.SessionFile = oldSession
		config.ProfilesFile = oldProfiles
	})
}

func TestLoad_MissingFilesGiveDefaults(t *testing.T) {
	setupConfig(t)

	mgr := NewManager()
	if err := mgr.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	p := mgr.GetActiveProfile()
	if p.Name != "local" || p.BaseURL != config.DefaultBaseURL {
		t.Errorf("GetActiveProfile() = %+v, want built-in local profile", p)
	}
	if got := mgr.LastMode(types.ModeURL); got != types.ModeURL {
		t.Errorf("LastMode() = %q, want url", got)
	}
}

func TestLoadProfiles(t *testing.T) {
	setupConfig(t)

	content := `[
		{"name": "prod", "baseUrl": "https://qr.example.com", "headers": {"X-Key": "k"}},
		{"name": "bare"}
	]`
	if err := os.WriteFile(config.ProfilesFile, []byte(content), config.FilePermissions); err != nil {
		t.Fatal(err)
	}

	mgr := NewManager()
	if err := mgr.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	profiles := mgr.GetProfiles()
	if len(profiles) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(profiles))
	}
	if profiles[1].BaseURL != config.DefaultBaseURL {
		t.Errorf("missing baseUrl should default, got %q", profiles[1].BaseURL)
	}
	if profiles[1].Headers == nil {
		t.Error("headers map should be initialized")
	}
	if mgr.GetActiveProfile().Name != "prod" {
		t.Errorf("first profile should be active by default")
	}
}

func TestSetActiveProfile(t *testing.T) {
	setupConfig(t)

	mgr := NewManager()
	if err := mgr.Load(); err != nil {
		t.Fatal(err)
	}
	if err := mgr.AddProfile(types.Profile{Name: "staging", BaseURL: "http://staging:5000"}); err != nil {
		t.Fatalf("AddProfile() error = %v", err)
	}
	if err := mgr.AddProfile(types.Profile{Name: "staging"}); err == nil {
		t.Error("duplicate profile should fail")
	}

	if err := mgr.SetActiveProfile("missing"); err == nil {
		t.Error("unknown profile should fail")
	}
	if err := mgr.SetActiveProfile("staging"); err != nil {
		t.Fatalf("SetActiveProfile() error = %v", err)
	}

	reloaded := NewManager()
	if err := reloaded.Load(); err != nil {
		t.Fatal(err)
	}
	if got := reloaded.GetActiveProfile().BaseURL; got != "http://staging:5000" {
		t.Errorf("active profile not persisted, got baseUrl %q", got)
	}
}

func TestLastMode(t *testing.T) {
	setupConfig(t)

	mgr := NewManager()
	if err := mgr.Load(); err != nil {
		t.Fatal(err)
	}
	if err := mgr.SetLastMode(types.ModeWiFi); err != nil {
		t.Fatalf("SetLastMode() error = %v", err)
	}

	reloaded := NewManager()
	if err := reloaded.Load(); err != nil {
		t.Fatal(err)
	}
	if got := reloaded.LastMode(types.ModeURL); got != types.ModeWiFi {
		t.Errorf("LastMode() = %q, want wifi", got)
	}
}

func TestLoadSession_DropsUnknownMode(t *testing.T) {
	setupConfig(t)

	if err := os.WriteFile(config.SessionFile, []byte(`{"lastMode":"sms"}`), config.FilePermissions); err != nil {
		t.Fatal(err)
	}

	mgr := NewManager()
	if err := mgr.Load(); err != nil {
		t.Fatal(err)
	}
	if got := mgr.LastMode(types.ModeText); got != types.ModeText {
		t.Errorf("LastMode() = %q, want fallback text", got)
	}
}
