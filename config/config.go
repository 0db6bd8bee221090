package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Environment variables that override the file.
const (
	EnvURL   = "EMBEDVIEW_URL"
	EnvTitle = "EMBEDVIEW_TITLE"
)

// Renderers understood by Fetch.Renderer.
const (
	RendererHTTP   = "http"
	RendererChrome = "chrome"
)

const (
	defaultTitle        = "embedview"
	defaultTimeout      = 30
	defaultMaxBodyBytes = 8 << 20
	defaultLogLevel     = "info"
)

// ErrNoURL is returned when neither the file, the environment nor the
// command line provides a URL to embed.
var ErrNoURL = errors.New("no url configured")

// Config is the top-level configuration.
type Config struct {
	URL   string      `toml:"url"`
	Title string      `toml:"title"`
	Fetch FetchConfig `toml:"fetch"`
	Log   LogConfig   `toml:"log"`
}

// FetchConfig selects and tunes the content host backend.
type FetchConfig struct {
	Renderer        string `toml:"renderer"`
	UserAgent       string `toml:"user_agent"`
	TimeoutSeconds  int    `toml:"timeout_seconds"`
	ChromePath      string `toml:"chrome_path"`
	ChromeNoSandbox bool   `toml:"chrome_no_sandbox"`
	MaxBodyBytes    int64  `toml:"max_body_bytes"`
}

// LogConfig holds log file settings. An empty Path disables logging.
type LogConfig struct {
	Path  string `toml:"path"`
	Level string `toml:"level"`
}

// Overrides are command-line values that take precedence over the file and
// the environment.
type Overrides struct {
	URL string
}

// DefaultPath returns the default config file path using XDG conventions.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(dir, "embedview", "config.toml")
}

// LoadFrom reads the config file at path, applies environment and
// command-line overrides, fills defaults, and validates the result.
// A missing file is not an error as long as a URL comes from elsewhere.
func LoadFrom(path string, o Overrides) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}

	if v := os.Getenv(EnvURL); v != "" {
		cfg.URL = v
	}
	if v := os.Getenv(EnvTitle); v != "" {
		cfg.Title = v
	}
	if o.URL != "" {
		cfg.URL = o.URL
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	c.URL = strings.TrimSpace(c.URL)
	if c.Title == "" {
		c.Title = defaultTitle
	}
	if c.Fetch.Renderer == "" {
		c.Fetch.Renderer = RendererHTTP
	}
	c.Fetch.Renderer = strings.ToLower(c.Fetch.Renderer)
	if c.Fetch.TimeoutSeconds <= 0 {
		c.Fetch.TimeoutSeconds = defaultTimeout
	}
	if c.Fetch.MaxBodyBytes <= 0 {
		c.Fetch.MaxBodyBytes = defaultMaxBodyBytes
	}
	c.Fetch.ChromePath = expandPath(c.Fetch.ChromePath)
	if c.Log.Level == "" {
		c.Log.Level = defaultLogLevel
	}
	c.Log.Path = expandPath(c.Log.Path)
}

// Validate checks that the config describes something that can be loaded.
func (c *Config) Validate() error {
	if c.URL == "" {
		return ErrNoURL
	}
	u, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("invalid url %q: %w", c.URL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid url %q: scheme must be http or https", c.URL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid url %q: missing host", c.URL)
	}
	switch c.Fetch.Renderer {
	case RendererHTTP, RendererChrome:
	default:
		return fmt.Errorf("unknown renderer %q: want %q or %q", c.Fetch.Renderer, RendererHTTP, RendererChrome)
	}
	return nil
}

// Timeout returns the per-load timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Fetch.TimeoutSeconds) * time.Second
}

// expandPath expands ~ to $HOME and then expands all environment variables.
func expandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		path = "$HOME" + path[1:]
	}
	return os.ExpandEnv(path)
}
