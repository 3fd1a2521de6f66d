package config

import (
	"encoding/json"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/vango-dev/pageglue/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "pageglue.json"

	// DefaultPort is the default server port.
	DefaultPort = 8080

	// DefaultHost is the default server host.
	DefaultHost = "localhost"

	// DefaultTimeout is the default alert auto-dismiss delay.
	DefaultTimeout = "5s"

	// DefaultFade is the default alert fade delay.
	DefaultFade = "150ms"

	// DefaultContainerID is the id of the page-level alert holder.
	DefaultContainerID = "alert-container"

	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"
)

// Config represents pageglue.json.
type Config struct {
	Notify  NotifyConfig  `json:"notify"`
	Request RequestConfig `json:"request"`
	Server  ServerConfig  `json:"server"`
	Log     LogConfig     `json:"log"`

	// configPath is where the config was loaded from.
	configPath string
}

// NotifyConfig configures alerts.
type NotifyConfig struct {
	// Timeout is the auto-dismiss delay, e.g. "5s". "0s" disables it.
	Timeout string `json:"timeout,omitempty"`

	// Fade is the delay between hiding and removing an alert.
	Fade string `json:"fade,omitempty"`

	// ContainerID is the id of the page-level alert holder.
	ContainerID string `json:"containerId,omitempty"`
}

// RequestConfig configures the request client.
type RequestConfig struct {
	// BaseURL resolves relative request URLs.
	BaseURL string `json:"baseUrl,omitempty"`

	// Headers are sent with every request.
	Headers map[string]string `json:"headers,omitempty"`
}

// ServerConfig configures the live page server.
type ServerConfig struct {
	Host  string   `json:"host,omitempty"`
	Port  int      `json:"port,omitempty"`
	Title string   `json:"title,omitempty"`
	Items []string `json:"items,omitempty"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `json:"level,omitempty"`

	// Color enables colored terminal output.
	Color *bool `json:"color,omitempty"`
}

// New creates a Config with default values.
func New() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads pageglue.json from dir. A missing file yields the defaults.
// Environment overrides are applied in both cases.
func Load(dir string) (*Config, error) {
	cfg := New()
	if Exists(dir) {
		loaded, err := LoadFile(filepath.Join(dir, ConfigFileName))
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads configuration from path without environment overrides.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("P100").
			WithDetail("Cannot read " + path).
			Wrap(err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("P100").
			WithDetail("Failed to parse " + path + ": " + err.Error()).
			WithSuggestion("Check that " + ConfigFileName + " is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()
	return cfg, nil
}

// ApplyEnv applies PAGEGLUE_HOST, PAGEGLUE_PORT and PAGEGLUE_LOG_LEVEL.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("PAGEGLUE_HOST"); ok && v != "" {
		c.Server.Host = v
	}
	if v, ok := lookup("PAGEGLUE_PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return errors.New("P101").
				WithDetail("PAGEGLUE_PORT is " + strconv.Quote(v)).
				Wrap(err)
		}
		c.Server.Port = port
	}
	if v, ok := lookup("PAGEGLUE_LOG_LEVEL"); ok && v != "" {
		c.Log.Level = v
	}
	return nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("P105").Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("P105").Wrap(err)
	}
	c.configPath = path
	return nil
}

// Path returns the path the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Notify.Timeout == "" {
		c.Notify.Timeout = DefaultTimeout
	}
	if c.Notify.Fade == "" {
		c.Notify.Fade = DefaultFade
	}
	if c.Notify.ContainerID == "" {
		c.Notify.ContainerID = DefaultContainerID
	}

	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.Title == "" {
		c.Server.Title = "pageglue"
	}

	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Color == nil {
		color := true
		c.Log.Color = &color
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return errors.New("P101").
			WithDetail("server.port is " + strconv.Itoa(c.Server.Port)).
			WithSuggestion("Use a port between 1 and 65535")
	}
	for name, v := range map[string]string{
		"notify.timeout": c.Notify.Timeout,
		"notify.fade":    c.Notify.Fade,
	} {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.New("P102").
				WithDetail(name + " is " + strconv.Quote(v)).
				Wrap(err)
		}
		if d < 0 {
			return errors.New("P102").
				WithDetail(name + " must not be negative")
		}
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	if c.Request.BaseURL != "" {
		u, err := url.Parse(c.Request.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return errors.New("P104").
				WithDetail("request.baseUrl is " + strconv.Quote(c.Request.BaseURL))
		}
	}
	return nil
}

// NotifyTimeout returns the auto-dismiss delay. Zero disables auto-dismiss.
func (c *Config) NotifyTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Notify.Timeout)
	return d
}

// NotifyFade returns the fade delay.
func (c *Config) NotifyFade() time.Duration {
	d, _ := time.ParseDuration(c.Notify.Fade)
	return d
}

// Address returns the server listen address.
func (c *Config) Address() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}

// URL returns the server URL.
func (c *Config) URL() string {
	return "http://" + c.Address()
}

// LogLevel returns the configured slog level, defaulting to info.
func (c *Config) LogLevel() slog.Level {
	l, err := parseLevel(c.Log.Level)
	if err != nil {
		return slog.LevelInfo
	}
	return l
}

// ColorEnabled reports whether colored output is enabled.
func (c *Config) ColorEnabled() bool {
	return c.Log.Color == nil || *c.Log.Color
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, errors.New("P103").
			WithDetail("log.level is " + strconv.Quote(s))
	}
	return l, nil
}

// Exists reports whether dir contains a config file.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindProjectRoot walks up from startDir to the directory containing
// pageglue.json.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}
	for {
		if Exists(dir) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("P100").
				WithDetail("No " + ConfigFileName + " found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads the nearest pageglue.json above the working
// directory, or the defaults when there is none.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	root, err := FindProjectRoot(wd)
	if err != nil {
		root = wd
	}
	return Load(root)
}
