package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Format selects the config file encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// Load reads configuration from the standard config paths. Search order:
//
//  1. $XDG_CONFIG_HOME/campus-pulse/config.{toml,yaml,yml}
//  2. ~/.config/campus-pulse/config.{toml,yaml,yml}
//
// If no file exists, the defaults are used. Environment overrides apply
// either way.
func Load() (*Config, error) {
	for _, p := range configSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return LoadFromFile(p)
		}
	}
	cfg := DefaultConfig()
	applyEnvOverrides(cfg)
	return cfg, nil
}

// LoadFromFile reads configuration from a specific path, picking the
// encoding by file extension. A missing file falls back to defaults so a
// freshly installed dashboard starts without any setup.
func LoadFromFile(path string) (*Config, error) {
	format, err := formatForPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			applyEnvOverrides(cfg)
			return cfg, nil
		}
		return nil, err
	}
	defer f.Close()
	return LoadFromReader(f, format)
}

// LoadFromReader decodes configuration over the defaults, then applies
// environment overrides.
func LoadFromReader(r io.Reader, format Format) (*Config, error) {
	cfg := DefaultConfig()
	switch format {
	case FormatTOML:
		if _, err := toml.NewDecoder(r).Decode(cfg); err != nil {
			return nil, fmt.Errorf("config: decode toml: %w", err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(cfg); err != nil && err != io.EOF {
			return nil, fmt.Errorf("config: decode yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("config: unknown format %q", format)
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

func formatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("config: unsupported config extension on %q", path)
	}
}

// applyEnvOverrides lets CAMPUS_PULSE_* variables override file values, so
// secrets like the token can stay out of the config file.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("CAMPUS_PULSE_BASE_URL"); v != "" {
		cfg.Backend.BaseURL = v
	}
	if v := os.Getenv("CAMPUS_PULSE_TOKEN"); v != "" {
		cfg.Backend.Token = v
	}
	if v := os.Getenv("CAMPUS_PULSE_USER_ID"); v != "" {
		cfg.Backend.UserID = v
	}
	if v := os.Getenv("CAMPUS_PULSE_THEME"); v != "" {
		cfg.UI.Theme = v
	}
	if v := os.Getenv("CAMPUS_PULSE_CACHE_DIR"); v != "" {
		cfg.Cache.Dir = v
	}
	if v := os.Getenv("CAMPUS_PULSE_LOG_LEVEL"); v != "" {
		cfg.General.LogLevel = v
	}
}

// configSearchPaths returns the ordered list of config file paths to try.
func configSearchPaths() []string {
	home, _ := os.UserHomeDir()
	exts := []string{"config.toml", "config.yaml", "config.yml"}

	var paths []string
	xdg := xdgConfigHome(home)
	for _, name := range exts {
		paths = append(paths, filepath.Join(xdg, "campus-pulse", name))
	}

	// If XDG_CONFIG_HOME was explicitly set, also try the default.
	defaultXDG := filepath.Join(home, ".config")
	if xdg != defaultXDG {
		for _, name := range exts {
			paths = append(paths, filepath.Join(defaultXDG, "campus-pulse", name))
		}
	}
	return paths
}

// ThemesDir returns the directory scanned for custom TOML themes:
// $XDG_CONFIG_HOME/campus-pulse/themes.
func ThemesDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(xdgConfigHome(home), "campus-pulse", "themes")
}

// xdgConfigHome returns XDG_CONFIG_HOME or ~/.config as fallback.
func xdgConfigHome(home string) string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	return filepath.Join(home, ".config")
}

// xdgCacheHome returns XDG_CACHE_HOME or ~/.cache as fallback.
func xdgCacheHome(home string) string {
	if v := os.Getenv("XDG_CACHE_HOME"); v != "" {
		return v
	}
	return filepath.Join(home, ".cache")
}
