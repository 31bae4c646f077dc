// Package config loads visgraph.yaml / .toml / .json.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Candidates are the file names Find looks for, in order.
var Candidates = []string{"visgraph.yaml", "visgraph.yml", "visgraph.toml", "visgraph.json"}

var validate = validator.New()

// Config represents the visgraph configuration file
type Config struct {
	// Graph is the path of the graph file (JSON or YAML).
	Graph string `json:"graph" yaml:"graph" toml:"graph" validate:"required"`
	// Options is an optional engine options file.
	Options string `json:"options,omitempty" yaml:"options,omitempty" toml:"options" validate:"omitempty"`
	// ZoomKey gates scroll-to-zoom behind a modifier.
	ZoomKey string `json:"zoomKey,omitempty" yaml:"zoomKey,omitempty" toml:"zoomKey" validate:"omitempty,oneof=ctrl ctrlKey shift shiftKey alt altKey"`
	// Title is the page title.
	Title string `json:"title,omitempty" yaml:"title,omitempty" toml:"title"`

	Server   *ServerConfig   `json:"server,omitempty" yaml:"server,omitempty" toml:"server" validate:"required"`
	Snapshot *SnapshotConfig `json:"snapshot,omitempty" yaml:"snapshot,omitempty" toml:"snapshot" validate:"required"`
	Resize   *ResizeConfig   `json:"resize,omitempty" yaml:"resize,omitempty" toml:"resize" validate:"required"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host string `json:"host,omitempty" yaml:"host,omitempty" toml:"host" validate:"required"`
	Port int    `json:"port,omitempty" yaml:"port,omitempty" toml:"port" validate:"min=1,max=65535"`
	// Watch reloads the graph and options files on change.
	Watch bool `json:"watch,omitempty" yaml:"watch,omitempty" toml:"watch"`
	// VisURL is where the page loads vis-network from.
	VisURL string `json:"visURL,omitempty" yaml:"visURL,omitempty" toml:"visURL" validate:"required,url"`
}

// SnapshotConfig contains static rendering configuration
type SnapshotConfig struct {
	RankDir   string `json:"rankDir,omitempty" yaml:"rankDir,omitempty" toml:"rankDir" validate:"oneof=TB LR BT RL"`
	Detailed  bool   `json:"detailed,omitempty" yaml:"detailed,omitempty" toml:"detailed"`
	CacheSize int64  `json:"cacheSize,omitempty" yaml:"cacheSize,omitempty" toml:"cacheSize" validate:"min=0"`
}

// ResizeConfig holds the resize debounce window.
type ResizeConfig struct {
	Wait    Duration `json:"wait,omitempty" yaml:"wait,omitempty" toml:"wait" validate:"gt=0"`
	MaxWait Duration `json:"maxWait,omitempty" yaml:"maxWait,omitempty" toml:"maxWait" validate:"gtefield=Wait"`
}

// Duration is a time.Duration written as "30ms" in config files.
type Duration time.Duration

func (d Duration) String() string { return time.Duration(d).String() }

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Graph: "graph.yaml",
		Server: &ServerConfig{
			Host:   "localhost",
			Port:   8080,
			VisURL: "https://unpkg.com/vis-network/standalone/umd/vis-network.min.js",
		},
		Snapshot: &SnapshotConfig{
			RankDir:   "TB",
			CacheSize: 32 << 20,
		},
		Resize: &ResizeConfig{
			Wait:    Duration(30 * time.Millisecond),
			MaxWait: Duration(60 * time.Millisecond),
		},
	}
}

// Find returns the first candidate config file in dir, or "".
func Find(dir string) string {
	for _, name := range Candidates {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Load reads the config at path. An empty path searches the working
// directory and falls back to defaults when nothing is found. Relative graph
// and options paths are resolved against the config file's directory.
func Load(path string) (*Config, error) {
	if path == "" {
		path = Find(".")
	}
	if path == "" {
		cfg := DefaultConfig()
		return cfg, cfg.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data, strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	dir := filepath.Dir(path)
	cfg.Graph = resolve(dir, cfg.Graph)
	cfg.Options = resolve(dir, cfg.Options)
	return cfg, nil
}

// Parse decodes, defaults and validates a config. format is "yaml", "yml",
// "toml" or "json".
func Parse(data []byte, format string) (*Config, error) {
	var cfg Config
	var err error
	switch strings.ToLower(format) {
	case "yaml", "yml":
		err = yaml.Unmarshal(data, &cfg)
	case "toml":
		_, err = toml.Decode(string(data), &cfg)
	case "json":
		err = json.Unmarshal(data, &cfg)
	default:
		return nil, fmt.Errorf("unsupported config format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s config: %w", format, err)
	}
	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults applies default values to missing configuration
func applyDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if cfg.Graph == "" {
		cfg.Graph = defaults.Graph
	}

	if cfg.Server == nil {
		cfg.Server = defaults.Server
	} else {
		if cfg.Server.Host == "" {
			cfg.Server.Host = defaults.Server.Host
		}
		if cfg.Server.Port == 0 {
			cfg.Server.Port = defaults.Server.Port
		}
		if cfg.Server.VisURL == "" {
			cfg.Server.VisURL = defaults.Server.VisURL
		}
	}

	if cfg.Snapshot == nil {
		cfg.Snapshot = defaults.Snapshot
	} else {
		if cfg.Snapshot.RankDir == "" {
			cfg.Snapshot.RankDir = defaults.Snapshot.RankDir
		}
		cfg.Snapshot.RankDir = strings.ToUpper(cfg.Snapshot.RankDir)
		if cfg.Snapshot.CacheSize == 0 {
			cfg.Snapshot.CacheSize = defaults.Snapshot.CacheSize
		}
	}

	if cfg.Resize == nil {
		cfg.Resize = defaults.Resize
	} else {
		if cfg.Resize.Wait == 0 {
			cfg.Resize.Wait = defaults.Resize.Wait
		}
		if cfg.Resize.MaxWait == 0 {
			cfg.Resize.MaxWait = defaults.Resize.MaxWait
		}
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// Addr returns host:port.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Namespace()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s]", fe.Namespace(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s=%s (got %v)", fe.Namespace(), fe.Tag(), fe.Param(), fe.Value()))
		}
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func resolve(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}
