package config

import (
	stderrors "errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vango-dev/pageglue/internal/errors"
)

func codeOf(t *testing.T, err error) string {
	t.Helper()
	var e *errors.Error
	if !stderrors.As(err, &e) {
		t.Fatalf("error %v is not a coded error", err)
	}
	return e.Code
}

func noEnv(string) (string, bool) { return "", false }

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Server.Port != DefaultPort {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, DefaultPort)
	}
	if cfg.Server.Host != DefaultHost {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, DefaultHost)
	}
	if cfg.NotifyTimeout() != 5*time.Second {
		t.Errorf("NotifyTimeout() = %v, want 5s", cfg.NotifyTimeout())
	}
	if cfg.NotifyFade() != 150*time.Millisecond {
		t.Errorf("NotifyFade() = %v, want 150ms", cfg.NotifyFade())
	}
	if cfg.Notify.ContainerID != DefaultContainerID {
		t.Errorf("Notify.ContainerID = %q", cfg.Notify.ContainerID)
	}
	if cfg.LogLevel() != slog.LevelInfo {
		t.Errorf("LogLevel() = %v, want info", cfg.LogLevel())
	}
	if !cfg.ColorEnabled() {
		t.Error("ColorEnabled() should default to true")
	}
	if cfg.Address() != "localhost:8080" {
		t.Errorf("Address() = %q", cfg.Address())
	}
	if cfg.URL() != "http://localhost:8080" {
		t.Errorf("URL() = %q", cfg.URL())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	content := `{
		"notify": {"timeout": "0s", "fade": "1s"},
		"request": {"baseUrl": "https://api.example.com", "headers": {"X-Token": "abc"}},
		"server": {"port": 3000, "title": "Items", "items": ["alpha", "beta"]},
		"log": {"level": "debug", "color": false}
	}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	if cfg.NotifyTimeout() != 0 {
		t.Errorf("NotifyTimeout() = %v, want 0", cfg.NotifyTimeout())
	}
	if cfg.NotifyFade() != time.Second {
		t.Errorf("NotifyFade() = %v, want 1s", cfg.NotifyFade())
	}
	if cfg.Request.BaseURL != "https://api.example.com" {
		t.Errorf("Request.BaseURL = %q", cfg.Request.BaseURL)
	}
	if cfg.Request.Headers["X-Token"] != "abc" {
		t.Errorf("Request.Headers = %v", cfg.Request.Headers)
	}
	if cfg.Server.Port != 3000 || cfg.Server.Host != DefaultHost {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if len(cfg.Server.Items) != 2 {
		t.Errorf("Server.Items = %v", cfg.Server.Items)
	}
	if cfg.LogLevel() != slog.LevelDebug {
		t.Errorf("LogLevel() = %v, want debug", cfg.LogLevel())
	}
	if cfg.ColorEnabled() {
		t.Error("ColorEnabled() = true, want false")
	}
	if cfg.Path() != path || cfg.Dir() != dir {
		t.Errorf("Path() = %q, Dir() = %q", cfg.Path(), cfg.Dir())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestLoadFileInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadFile(path)
	if err == nil {
		t.Fatal("expected an error")
	}
	if code := codeOf(t, err); code != "P100" {
		t.Errorf("code = %q, want P100", code)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("PAGEGLUE_PORT", "")
	t.Setenv("PAGEGLUE_HOST", "")
	t.Setenv("PAGEGLUE_LOG_LEVEL", "")

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != DefaultPort {
		t.Errorf("Server.Port = %d", cfg.Server.Port)
	}
	if cfg.Path() != "" {
		t.Errorf("Path() = %q, want empty", cfg.Path())
	}
}

func TestLoadAppliesEnv(t *testing.T) {
	t.Setenv("PAGEGLUE_PORT", "9090")
	t.Setenv("PAGEGLUE_HOST", "0.0.0.0")
	t.Setenv("PAGEGLUE_LOG_LEVEL", "warn")

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Address() != "0.0.0.0:9090" {
		t.Errorf("Address() = %q", cfg.Address())
	}
	if cfg.LogLevel() != slog.LevelWarn {
		t.Errorf("LogLevel() = %v", cfg.LogLevel())
	}
}

func TestApplyEnvInvalidPort(t *testing.T) {
	cfg := New()
	err := cfg.ApplyEnv(func(key string) (string, bool) {
		if key == "PAGEGLUE_PORT" {
			return "eighty", true
		}
		return "", false
	})
	if err == nil {
		t.Fatal("expected an error")
	}
	if code := codeOf(t, err); code != "P101" {
		t.Errorf("code = %q, want P101", code)
	}
}

func TestApplyEnvUnset(t *testing.T) {
	cfg := New()
	if err := cfg.ApplyEnv(noEnv); err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != DefaultPort {
		t.Errorf("Server.Port = %d", cfg.Server.Port)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		code   string
	}{
		{"port too low", func(c *Config) { c.Server.Port = -1 }, "P101"},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, "P101"},
		{"bad timeout", func(c *Config) { c.Notify.Timeout = "soon" }, "P102"},
		{"negative fade", func(c *Config) { c.Notify.Fade = "-1s" }, "P102"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "P103"},
		{"relative base URL", func(c *Config) { c.Request.BaseURL = "/api" }, "P104"},
		{"ftp base URL", func(c *Config) { c.Request.BaseURL = "ftp://example.com" }, "P104"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.modify(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected an error")
			}
			if code := codeOf(t, err); code != tt.code {
				t.Errorf("code = %q, want %q", code, tt.code)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)

	cfg := New()
	cfg.Server.Title = "Saved"
	cfg.Server.Items = []string{"one"}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}
	if !Exists(dir) {
		t.Fatal("Exists() = false after SaveTo")
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Server.Title != "Saved" || len(loaded.Server.Items) != 1 {
		t.Errorf("loaded Server = %+v", loaded.Server)
	}

	loaded.Server.Port = 4000
	if err := loaded.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	again, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if again.Server.Port != 4000 {
		t.Errorf("Server.Port = %d, want 4000", again.Server.Port)
	}
}

func TestSaveWithoutPath(t *testing.T) {
	if err := New().Save(); err == nil {
		t.Error("Save() without a path should fail")
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	if err := New().SaveTo(filepath.Join(root, ConfigFileName)); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	got, err := FindProjectRoot(nested)
	if err != nil {
		t.Fatalf("FindProjectRoot() error = %v", err)
	}
	want, _ := filepath.Abs(root)
	if got != want {
		t.Errorf("FindProjectRoot() = %q, want %q", got, want)
	}
}
