package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/recera/circles/internal/cache"
	"github.com/recera/circles/pkg/components/circles"
)

// FileName is the config file looked up in a project directory
const FileName = "circles.yaml"

// Config represents the circles.yaml configuration
type Config struct {
	// Graphs served and rendered by the CLI
	Graphs []GraphConfig `yaml:"graphs"`

	// Development server configuration
	Dev *DevConfig `yaml:"dev,omitempty"`
}

// GraphConfig describes one graph
type GraphConfig struct {
	ID       string   `yaml:"id"`
	Radius   float64  `yaml:"radius"`
	Width    float64  `yaml:"width,omitempty"`
	Colors   []string `yaml:"colors,omitempty"`
	Value    float64  `yaml:"value"`
	MaxValue float64  `yaml:"max_value,omitempty"`

	// Entry animation length; 0 uses the component default
	DurationMS  int  `yaml:"duration_ms,omitempty"`
	NoAnimation bool `yaml:"no_animation,omitempty"`

	// Text is the label. "{value}" is replaced by the value; text without
	// the placeholder is shown as is.
	Text string `yaml:"text,omitempty"`
}

// DevConfig contains development server configuration
type DevConfig struct {
	// Server port
	Port int `yaml:"port,omitempty"`

	// Server host
	Host string `yaml:"host,omitempty"`

	// PNG snapshot cache: eviction strategy (lru, lfu, fifo) and size
	CacheStrategy string `yaml:"cache_strategy,omitempty"`
	CacheSizeMB   int    `yaml:"cache_size_mb,omitempty"`
}

// CacheConfig returns the snapshot cache settings. Call after Validate.
func (d *DevConfig) CacheConfig() cache.Config {
	config := cache.DefaultConfig()
	if d == nil {
		return config
	}
	if strategy, err := cache.ParseStrategy(d.CacheStrategy); err == nil {
		config.Strategy = strategy
	}
	if d.CacheSizeMB > 0 {
		config.MaxSize = int64(d.CacheSizeMB) << 20
	}
	return config
}

// Load loads configuration from circles.yaml in projectPath
func Load(projectPath string) (*Config, error) {
	return LoadFile(filepath.Join(projectPath, FileName))
}

// LoadFile loads configuration from a file. A missing file yields the
// default configuration.
func LoadFile(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse parses YAML configuration and applies defaults
func Parse(data []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse %s: %w", FileName, err)
	}

	// Apply defaults for missing values
	applyDefaults(&config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Save saves configuration to circles.yaml in projectPath
func Save(config *Config, projectPath string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(projectPath, FileName), data, 0644)
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Graphs: []GraphConfig{
			{ID: "progress", Radius: 60, Value: 42, Text: "{value}%"},
		},
		Dev: &DevConfig{
			Port: 8080,
			Host: "localhost",
		},
	}
}

// applyDefaults applies default values to missing configuration
func applyDefaults(config *Config) {
	defaults := DefaultConfig()

	if len(config.Graphs) == 0 {
		config.Graphs = defaults.Graphs
	}

	// Apply dev server defaults
	if config.Dev == nil {
		config.Dev = defaults.Dev
	} else {
		if config.Dev.Port == 0 {
			config.Dev.Port = defaults.Dev.Port
		}
		if config.Dev.Host == "" {
			config.Dev.Host = defaults.Dev.Host
		}
	}
}

// Validate reports the first invalid graph or dev setting
func (c *Config) Validate() error {
	if c.Dev != nil {
		if _, err := cache.ParseStrategy(c.Dev.CacheStrategy); err != nil {
			return fmt.Errorf("dev: %w", err)
		}
		if c.Dev.CacheSizeMB < 0 {
			return errors.New("dev: cache_size_mb must not be negative")
		}
	}
	seen := make(map[string]bool, len(c.Graphs))
	for i, g := range c.Graphs {
		if g.ID == "" {
			return fmt.Errorf("graph %d: id is required", i)
		}
		if seen[g.ID] {
			return fmt.Errorf("graph %q: duplicate id", g.ID)
		}
		seen[g.ID] = true

		if g.Radius <= 0 {
			return fmt.Errorf("graph %q: radius must be positive", g.ID)
		}
		if g.Width < 0 || g.Width > g.Radius {
			return fmt.Errorf("graph %q: width must be between 0 and the radius", g.ID)
		}
		if len(g.Colors) > 2 {
			return fmt.Errorf("graph %q: at most two colors (track, indicator)", g.ID)
		}
		if g.DurationMS < 0 {
			return fmt.Errorf("graph %q: duration_ms must not be negative", g.ID)
		}
	}
	return nil
}

// Graph returns the graph with the given id
func (c *Config) Graph(id string) (GraphConfig, bool) {
	for _, g := range c.Graphs {
		if g.ID == id {
			return g, true
		}
	}
	return GraphConfig{}, false
}

// Options converts every graph to component options
func (c *Config) Options() []circles.Options {
	out := make([]circles.Options, len(c.Graphs))
	for i, g := range c.Graphs {
		out[i] = g.Options()
	}
	return out
}

// Options converts the graph to component options
func (g GraphConfig) Options() circles.Options {
	opts := circles.Options{
		ID:       g.ID,
		Radius:   g.Radius,
		Width:    g.Width,
		Value:    g.Value,
		MaxValue: g.MaxValue,
		Text:     g.Label(),
		Duration: time.Duration(g.DurationMS) * time.Millisecond,
	}
	for i, c := range g.Colors {
		opts.Colors[i] = c
	}
	if g.NoAnimation {
		opts.Duration = circles.NoAnimation
	}
	return opts
}

// Label returns the label formatter for Text, or nil for the default
func (g GraphConfig) Label() circles.LabelFunc {
	switch {
	case g.Text == "":
		return nil
	case strings.Contains(g.Text, "{value}"):
		text := g.Text
		return func(v float64) string {
			return strings.ReplaceAll(text, "{value}", circles.FormatValue(v))
		}
	default:
		return circles.StaticText(g.Text)
	}
}
