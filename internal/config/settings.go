package config

import (
	"fmt"
	"os"
	"time"

	"github.com/coi-exe/qrforge/internal/types"
	"gopkg.in/yaml.v3"
)

// Settings are user preferences read from config.yaml
type Settings struct {
	ToastDuration time.Duration       `yaml:"toastDuration"`
	OutputDir     string              `yaml:"outputDir"`
	LogLevel      string              `yaml:"logLevel"`
	Defaults      types.RenderOptions `yaml:"defaults"`
}

// DefaultSettings returns the settings used when no file exists
func DefaultSettings() Settings {
	return Settings{
		ToastDuration: 3500 * time.Millisecond,
		OutputDir:     ".",
		LogLevel:      "info",
		Defaults:      types.DefaultRenderOptions(),
	}
}

// LoadSettings reads the settings file. A missing file yields defaults;
// fields absent from the file keep their default value.
func LoadSettings(path string) (Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return settings, nil
	}
	if err != nil {
		return settings, fmt.Errorf("failed to read settings: %w", err)
	}

	if err := yaml.Unmarshal(data, &settings); err != nil {
		return DefaultSettings(), fmt.Errorf("failed to parse settings %s: %w", path, err)
	}

	if err := settings.Validate(); err != nil {
		return DefaultSettings(), fmt.Errorf("invalid settings %s: %w", path, err)
	}

	return settings, nil
}

// Validate checks that the defaults are usable and normalizes the
// error-correction level to its letter form
func (s *Settings) Validate() error {
	d := &s.Defaults
	ec, err := types.ParseErrorCorrection(string(d.ErrorCorrection))
	if err != nil {
		return err
	}
	d.ErrorCorrection = ec
	if !types.ValidHexColor(d.FgColor) {
		return fmt.Errorf("defaults.fgColor %q must be #RRGGBB", d.FgColor)
	}
	if !types.ValidHexColor(d.BgColor) {
		return fmt.Errorf("defaults.bgColor %q must be #RRGGBB", d.BgColor)
	}
	if d.Size < types.MinSize || d.Size > types.MaxSize {
		return fmt.Errorf("defaults.size must be between %d and %d", types.MinSize, types.MaxSize)
	}
	if d.Margin < types.MinMargin || d.Margin > types.MaxMargin {
		return fmt.Errorf("defaults.margin must be between %d and %d", types.MinMargin, types.MaxMargin)
	}
	if s.ToastDuration < 0 {
		return fmt.Errorf("toastDuration must not be negative")
	}
	return nil
}

// SaveSettings writes settings as YAML
func SaveSettings(path string, s Settings) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := os.WriteFile(path, data, FilePermissions); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}
