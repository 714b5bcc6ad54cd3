package session

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/coi-exe/qrforge/internal/config"
	"github.com/coi-exe/qrforge/internal/types"
)

// Manager handles session and profile management
type Manager struct {
	session  *types.Session
	profiles []types.Profile
}

// NewManager creates a new session manager
func NewManager() *Manager {
	return &Manager{
		session:  &types.Session{},
		profiles: []types.Profile{},
	}
}

func defaultProfile() types.Profile {
	return types.Profile{
		Name:    "local",
		BaseURL: config.DefaultBaseURL,
		Headers: make(map[string]string),
	}
}

// Load loads session and profiles from disk
func (m *Manager) Load() error {
	if err := m.LoadSession(); err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	if err := m.LoadProfiles(); err != nil {
		return fmt.Errorf("failed to load profiles: %w", err)
	}
	return nil
}

// LoadSession loads the session file
func (m *Manager) LoadSession() error {
	data, err := os.ReadFile(config.GetSessionFilePath())
	if err != nil {
		// Missing file means a fresh session
		m.session = &types.Session{}
		return nil
	}

	var session types.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return fmt.Errorf("failed to parse session file: %w", err)
	}
	if session.LastMode != "" && !session.LastMode.Valid() {
		slog.Warn("ignoring unknown mode in session", "mode", session.LastMode)
		session.LastMode = ""
	}

	m.session = &session
	return nil
}

// SaveSession saves the session to disk
func (m *Manager) SaveSession() error {
	data, err := json.MarshalIndent(m.session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := os.WriteFile(config.GetSessionFilePath(), data, config.FilePermissions); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// LoadProfiles loads the profiles file
func (m *Manager) LoadProfiles() error {
	data, err := os.ReadFile(config.GetProfilesFilePath())
	if err != nil {
		m.profiles = []types.Profile{defaultProfile()}
		return nil
	}

	var profiles []types.Profile
	if err := json.Unmarshal(data, &profiles); err != nil {
		return fmt.Errorf("failed to parse profiles file: %w", err)
	}

	for i := range profiles {
		if profiles[i].Headers == nil {
			profiles[i].Headers = make(map[string]string)
		}
		if profiles[i].BaseURL == "" {
			slog.Warn("profile has no baseUrl, using default", "profile", profiles[i].Name, "baseUrl", config.DefaultBaseURL)
			profiles[i].BaseURL = config.DefaultBaseURL
		}
	}

	m.profiles = profiles
	return nil
}

// SaveProfiles saves the profiles to disk
func (m *Manager) SaveProfiles() error {
	data, err := json.MarshalIndent(m.profiles, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal profiles: %w", err)
	}

	if err := os.WriteFile(config.GetProfilesFilePath(), data, config.FilePermissions); err != nil {
		return fmt.Errorf("failed to write profiles file: %w", err)
	}
	return nil
}

// GetSession returns the current session
func (m *Manager) GetSession() *types.Session {
	return m.session
}

// GetProfiles returns all profiles
func (m *Manager) GetProfiles() []types.Profile {
	return m.profiles
}

// GetActiveProfile returns the currently active profile, falling back to the
// first profile and then to the built-in local profile
func (m *Manager) GetActiveProfile() *types.Profile {
	for i := range m.profiles {
		if m.profiles[i].Name == m.session.ActiveProfile {
			return &m.profiles[i]
		}
	}
	if len(m.profiles) > 0 {
		return &m.profiles[0]
	}
	p := defaultProfile()
	return &p
}

// SetActiveProfile sets the active profile by name
func (m *Manager) SetActiveProfile(name string) error {
	found := false
	for _, profile := range m.profiles {
		if profile.Name == name {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("profile not found: %s", name)
	}

	m.session.ActiveProfile = name
	return m.SaveSession()
}

// AddProfile adds a new profile
func (m *Manager) AddProfile(profile types.Profile) error {
	for _, p := range m.profiles {
		if p.Name == profile.Name {
			return fmt.Errorf("profile already exists: %s", profile.Name)
		}
	}

	m.profiles = append(m.profiles, profile)
	return m.SaveProfiles()
}

// LastMode returns the mode used in the previous session, or def
func (m *Manager) LastMode(def types.Mode) types.Mode {
	if m.session.LastMode == "" {
		return def
	}
	return m.session.LastMode
}

// SetLastMode remembers the active mode for the next start
func (m *Manager) SetLastMode(mode types.Mode) error {
	if m.session.LastMode == mode {
		return nil
	}
	m.session.LastMode = mode
	return m.SaveSession()
}
