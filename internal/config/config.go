// Package config loads and saves the TOML settings file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"pcb-roundtracks/internal/smooth"
)

const (
	appDir       = "pcb-roundtracks"
	settingsFile = "settings.toml"
)

// Settings is the content of a settings file. Smoothing distances are in mils.
type Settings struct {
	Smooth  smooth.Params `toml:"smooth"`
	Workers int           `toml:"workers"`
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{Smooth: smooth.DefaultParams()}
}

// DefaultPath returns <UserConfigDir>/pcb-roundtracks/settings.toml.
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(configDir, appDir, settingsFile)
}

// Load decodes path over the defaults, so keys missing from the file keep
// their built-in values. Unknown keys are an error.
func Load(path string) (Settings, error) {
	s := Default()
	md, err := toml.DecodeFile(path, &s)
	if err != nil {
		return Default(), fmt.Errorf("config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Default(), fmt.Errorf("config: %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return s, nil
}

// LoadOptional loads path if it exists and returns the defaults otherwise.
func LoadOptional(path string) (Settings, error) {
	s, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return s, err
}

// Save writes s to path, creating parent directories as needed.
func Save(path string, s Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(f).Encode(s); err != nil {
		f.Close()
		return fmt.Errorf("config: encode %s: %w", path, err)
	}
	return f.Close()
}
