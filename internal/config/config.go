// Package config loads the actlog CLI configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all actlog configuration.
type Config struct {
	General  GeneralConfig  `toml:"general"`
	Scan     ScanConfig     `toml:"scan"`
	Timeline TimelineConfig `toml:"timeline"`
	Cache    CacheConfig    `toml:"cache"`
}

// GeneralConfig holds log discovery preferences.
type GeneralConfig struct {
	LogDir    string `toml:"log_dir,omitempty"`
	LogGlob   string `toml:"log_glob"`
	Profile   string `toml:"profile,omitempty"`
	MaxFileMB int64  `toml:"max_file_mb"`
}

// ScanConfig holds decoder caps.
type ScanConfig struct {
	MaxEvents       int  `toml:"max_events"`
	MaxStatusEvents int  `toml:"max_status_events"`
	IncludeStatus   bool `toml:"include_status"`
	WindowKB        int  `toml:"window_kb"`
}

// TimelineConfig holds conversion defaults.
type TimelineConfig struct {
	FPS        int    `toml:"fps"`
	FieldSize  int    `toml:"field_size"`
	Background string `toml:"background,omitempty"`
}

// CacheConfig controls the structure index cache.
type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			LogGlob:   "Network_*.log",
			MaxFileMB: 2048,
		},
		Scan: ScanConfig{
			MaxEvents:       500_000,
			MaxStatusEvents: 100_000,
			IncludeStatus:   true,
			WindowKB:        1024,
		},
		Timeline: TimelineConfig{
			FPS:       30,
			FieldSize: 512,
		},
		Cache: CacheConfig{
			Enabled: true,
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "actlog")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "actlog")
}

// Path returns the default config file path.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// CacheDir returns the XDG-compliant cache directory.
func CacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "actlog")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "actlog")
}

// CachePath returns the index database path, honoring cache.path.
func (c Config) CachePath() string {
	if c.Cache.Path != "" {
		return c.Cache.Path
	}
	return filepath.Join(CacheDir(), "index.db")
}

// MaxFileBytes returns general.max_file_mb in bytes; 0 means unlimited.
func (c Config) MaxFileBytes() int64 {
	if c.General.MaxFileMB <= 0 {
		return 0
	}
	return c.General.MaxFileMB << 20
}

// Load reads the config at path, or at Path() when path is empty. A missing
// file yields the defaults. Keys absent from the file keep their defaults.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		path = Path()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, fmt.Errorf("parsing config: unknown key %q", undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects values the scanner would refuse.
func (c Config) Validate() error {
	switch {
	case c.Scan.MaxEvents <= 0:
		return fmt.Errorf("config: scan.max_events must be positive, got %d", c.Scan.MaxEvents)
	case c.Scan.MaxStatusEvents < 0:
		return fmt.Errorf("config: scan.max_status_events must not be negative, got %d", c.Scan.MaxStatusEvents)
	case c.Scan.WindowKB <= 0:
		return fmt.Errorf("config: scan.window_kb must be positive, got %d", c.Scan.WindowKB)
	case c.Timeline.FPS <= 0:
		return fmt.Errorf("config: timeline.fps must be positive, got %d", c.Timeline.FPS)
	case c.Timeline.FieldSize <= 0:
		return fmt.Errorf("config: timeline.field_size must be positive, got %d", c.Timeline.FieldSize)
	}
	return nil
}

// Save writes cfg to path, or to Path() when path is empty.
func Save(cfg Config, path string) error {
	if path == "" {
		path = Path()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// Exists reports whether a config file exists at path, or at Path() when
// path is empty.
func Exists(path string) bool {
	if path == "" {
		path = Path()
	}
	_, err := os.Stat(path)
	return err == nil
}
