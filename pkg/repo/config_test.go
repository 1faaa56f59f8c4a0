package repo

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/odvcencio/grit/pkg/object"
)

func TestConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Core.Compression = 9
	cfg.Core.Fsync = true
	cfg.Log.Level = "debug"

	if err := WriteConfig(dir, cfg); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}
	got, err := ReadConfig(dir)
	if err != nil {
		t.Fatalf("ReadConfig: %v", err)
	}
	if *got != *cfg {
		t.Fatalf("round trip = %+v, want %+v", got, cfg)
	}
	if got.LogLevel() != slog.LevelDebug {
		t.Errorf("LogLevel = %v, want debug", got.LogLevel())
	}
}

func TestReadConfigMissingReturnsDefaults(t *testing.T) {
	cfg, err := ReadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("ReadConfig: %v", err)
	}
	if *cfg != *DefaultConfig() {
		t.Fatalf("cfg = %+v, want defaults", cfg)
	}
	if cfg.Core.Compression != object.DefaultCompression {
		t.Errorf("Compression = %d", cfg.Core.Compression)
	}
	if cfg.LogLevel() != slog.LevelWarn {
		t.Errorf("LogLevel = %v, want warn", cfg.LogLevel())
	}
}

func TestReadConfigPartialKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfigText(t, dir, "[core]\nfsync = true\n")
	cfg, err := ReadConfig(dir)
	if err != nil {
		t.Fatalf("ReadConfig: %v", err)
	}
	if !cfg.Core.Fsync || cfg.Core.Compression != object.DefaultCompression || cfg.Log.Level != "warn" {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestReadConfigRejects(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "unknown key", text: "[core]\nbogus = 1\n", want: "core.bogus"},
		{name: "compression too high", text: "[core]\ncompression = 12\n", want: "core.compression"},
		{name: "compression too low", text: "[core]\ncompression = -2\n", want: "core.compression"},
		{name: "bad log level", text: "[log]\nlevel = \"loud\"\n", want: "log.level"},
		{name: "not toml", text: "core = [", want: "read config"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfigText(t, dir, tc.text)
			_, err := ReadConfig(dir)
			if err == nil {
				t.Fatal("ReadConfig succeeded, want error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want mention of %q", err, tc.want)
			}
		})
	}
}

func TestOpenAppliesConfigToStore(t *testing.T) {
	dir := t.TempDir()
	r, err := Init(dir)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	cfg := DefaultConfig()
	cfg.Core.Compression = object.NoCompression
	if err := WriteConfig(r.GitDir, cfg); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}

	r, err = Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	data := []byte(strings.Repeat("aaaaaaaa", 512))
	h, err := r.Store.WriteBytes(object.TypeBlob, data)
	if err != nil {
		t.Fatalf("WriteBytes: %v", err)
	}
	info, err := os.Stat(r.Store.ObjectPath(h))
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Size() < int64(len(data)) {
		t.Fatalf("object is %d bytes; stored uncompressed it should exceed %d", info.Size(), len(data))
	}
}

func writeConfigText(t *testing.T, dir, text string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, ConfigFile), []byte(text), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}
