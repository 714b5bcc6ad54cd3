// Package output writes downloaded QR images to disk.
package output

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/coi-exe/qrforge/internal/config"
)

// DefaultFilename is the fixed name of a saved download
const DefaultFilename = "qrforge.png"

// Saver stores downloads in a directory
type Saver struct {
	Dir      string
	Filename string
}

// NewSaver creates a saver writing DefaultFilename into dir
func NewSaver(dir string) *Saver {
	return &Saver{Dir: dir, Filename: DefaultFilename}
}

// Save writes data through a temporary file in the target directory and
// renames it into place. The temporary file never outlives the call.
func (s *Saver) Save(data []byte) (string, error) {
	dir, err := config.ExpandPath(s.Dir)
	if err != nil {
		return "", err
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, config.DirPermissions); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	name := s.Filename
	if name == "" {
		name = DefaultFilename
	}
	target := filepath.Join(dir, name)

	tmp, err := os.CreateTemp(dir, ".qrforge-*.png.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	if err := tmp.Chmod(config.FilePermissions); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}

	if err := os.Rename(tmp.Name(), target); err != nil {
		return "", fmt.Errorf("failed to save %s: %w", name, err)
	}
	return target, nil
}
