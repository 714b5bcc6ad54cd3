package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// FilePermissions is the default permission mode for regular files (read/write for owner, read for others)
	FilePermissions = 0644
	// DirPermissions is the default permission mode for directories (rwxr-xr-x)
	DirPermissions = 0755

	// DefaultBaseURL is the rendering service address used by the default profile
	DefaultBaseURL = "http://localhost:5000"
)

// Local override file names, looked up in the working directory
const (
	localSettingsFile = ".qrforge.yaml"
	localProfilesFile = ".profiles.json"
	localSessionFile  = ".session.json"
	localKeybindsFile = ".keybinds.json"
)

var (
	// ConfigDir is the global configuration directory (~/.qrforge)
	ConfigDir string

	// SettingsFile holds user settings (YAML)
	SettingsFile string

	// ProfilesFile is the profiles configuration file
	ProfilesFile string

	// SessionFile is the session state file
	SessionFile string

	// KeybindsFile holds user key overrides (JSON with comments)
	KeybindsFile string

	// LogFile receives logs while the TUI owns the terminal
	LogFile string
)

// Initialize sets up the configuration directory and default files.
// It creates ~/.qrforge/ if it doesn't exist.
func Initialize() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	return InitializeAt(filepath.Join(homeDir, ".qrforge"))
}

// InitializeAt is Initialize rooted at an explicit directory
func InitializeAt(dir string) error {
	ConfigDir = dir
	SettingsFile = filepath.Join(ConfigDir, "config.yaml")
	ProfilesFile = filepath.Join(ConfigDir, "profiles.json")
	SessionFile = filepath.Join(ConfigDir, ".session.json")
	KeybindsFile = filepath.Join(ConfigDir, "keybinds.json")
	LogFile = filepath.Join(ConfigDir, "qrforge.log")

	if err := os.MkdirAll(ConfigDir, DirPermissions); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", ConfigDir, err)
	}

	defaults := map[string][]byte{
		SessionFile:  []byte(`{"activeProfile":"local","lastMode":"url"}`),
		ProfilesFile: []byte(fmt.Sprintf(`[{"name":"local","baseUrl":%q,"headers":{}}]`, DefaultBaseURL)),
	}
	for path, content := range defaults {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, content, FilePermissions); err != nil {
				return fmt.Errorf("failed to create %s: %w", filepath.Base(path), err)
			}
		}
	}

	return nil
}

// ExpandPath expands a leading ~/ to the home directory
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, path[2:]), nil
}

func localOr(local, global string) string {
	if _, err := os.Stat(local); err == nil {
		return local
	}
	return global
}

// GetSettingsFilePath returns the settings file path (local or global)
func GetSettingsFilePath() string {
	return localOr(localSettingsFile, SettingsFile)
}

// GetSessionFilePath returns the session file path (local or global)
func GetSessionFilePath() string {
	return localOr(localSessionFile, SessionFile)
}

// GetProfilesFilePath returns the profiles file path (local or global)
func GetProfilesFilePath() string {
	return localOr(localProfilesFile, ProfilesFile)
}

// GetKeybindsFilePath returns the keybinds file path (local or global)
func GetKeybindsFilePath() string {
	return localOr(localKeybindsFile, KeybindsFile)
}
