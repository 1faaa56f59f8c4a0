package repo

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/odvcencio/grit/pkg/object"
)

// ConfigFile is the name of the repository config inside the git dir.
const ConfigFile = "grit.toml"

// Config stores repository-local settings.
type Config struct {
	Core CoreConfig `toml:"core"`
	Log  LogConfig  `toml:"log"`
}

// CoreConfig controls how objects are written.
type CoreConfig struct {
	// Compression is the zlib level for new objects, -1 (default) to 9.
	Compression int  `toml:"compression"`
	Fsync       bool `toml:"fsync"`
}

// LogConfig sets the default log level: debug, info, warn or error.
type LogConfig struct {
	Level string `toml:"level"`
}

// DefaultConfig returns the settings used when grit.toml is absent.
func DefaultConfig() *Config {
	return &Config{
		Core: CoreConfig{Compression: object.DefaultCompression},
		Log:  LogConfig{Level: "warn"},
	}
}

// Validate reports the first out-of-range setting.
func (c *Config) Validate() error {
	if c.Core.Compression < object.DefaultCompression || c.Core.Compression > object.BestCompression {
		return fmt.Errorf("core.compression = %d: must be between %d and %d",
			c.Core.Compression, object.DefaultCompression, object.BestCompression)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// LogLevel returns the configured slog level.
func (c *Config) LogLevel() slog.Level {
	lvl, err := parseLevel(c.Log.Level)
	if err != nil {
		return slog.LevelWarn
	}
	return lvl
}

func parseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log.level = %q: %w", s, err)
	}
	return lvl, nil
}

// StoreOptions translates the config into object store options.
func (c *Config) StoreOptions() []object.StoreOption {
	return []object.StoreOption{
		object.WithCompressionLevel(c.Core.Compression),
		object.WithFsync(c.Core.Fsync),
	}
}

// ReadConfig reads <gitDir>/grit.toml. A missing file yields DefaultConfig.
// Keys grit does not know are rejected.
func ReadConfig(gitDir string) (*Config, error) {
	path := filepath.Join(gitDir, ConfigFile)
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("read config: unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return cfg, nil
}

// WriteConfig atomically writes <gitDir>/grit.toml.
func WriteConfig(gitDir string, cfg *Config) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	tmp, err := os.CreateTemp(gitDir, ".config-tmp-*")
	if err != nil {
		return fmt.Errorf("write config: tmpfile: %w", err)
	}
	tmpName := tmp.Name()

	if err := toml.NewEncoder(tmp).Encode(cfg); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write config: encode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write config: close: %w", err)
	}
	if err := os.Rename(tmpName, filepath.Join(gitDir, ConfigFile)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write config: rename: %w", err)
	}
	return nil
}
