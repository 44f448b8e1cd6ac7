package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all lineinspect configuration.
type Config struct {
	// What to inspect
	Target TargetConfig `yaml:"target"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`

	// Watch mode
	Watch WatchConfig `yaml:"watch"`
}

// TargetConfig names the file and line to inspect.
type TargetConfig struct {
	Path      string `yaml:"path"`
	Line      int    `yaml:"line"`
	Neighbors string `yaml:"neighbors"` // strict, lenient
}

// WatchConfig configures watch mode.
type WatchConfig struct {
	Debounce string `yaml:"debounce"`
}

// DefaultConfigPath is read when no --config flag is given.
const DefaultConfigPath = "lineinspect.yaml"

// ValidNeighborPolicies lists the accepted target.neighbors values.
var ValidNeighborPolicies = []string{"strict", "lenient"}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Target: TargetConfig{
			Path:      filepath.Join("app", "finder", "page.tsx"),
			Line:      1160,
			Neighbors: "strict",
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
		Watch: WatchConfig{
			Debounce: "200ms",
		},
	}
}

// Load loads configuration from a YAML file and applies environment overrides.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration as YAML. An existing file is left untouched
// and reported as an error.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("failed to write config: %w", err)
	}
	return f.Close()
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() error {
	if path := os.Getenv("LINEINSPECT_PATH"); path != "" {
		c.Target.Path = path
	}
	if line := os.Getenv("LINEINSPECT_LINE"); line != "" {
		n, err := strconv.Atoi(line)
		if err != nil {
			return fmt.Errorf("invalid LINEINSPECT_LINE %q: %w", line, err)
		}
		c.Target.Line = n
	}
	if policy := os.Getenv("LINEINSPECT_NEIGHBORS"); policy != "" {
		c.Target.Neighbors = policy
	}
	if level := os.Getenv("LINEINSPECT_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	return nil
}

// GetDebounce returns the watch debounce as a duration.
func (c *Config) GetDebounce() time.Duration {
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil || d < 0 {
		return 200 * time.Millisecond
	}
	return d
}

// Validate validates the configuration. The target line is not checked here;
// an unusable line is reported by the inspection itself.
func (c *Config) Validate() error {
	if c.Target.Path == "" {
		return fmt.Errorf("target path not configured")
	}

	validPolicy := false
	for _, p := range ValidNeighborPolicies {
		if c.Target.Neighbors == p {
			validPolicy = true
			break
		}
	}
	if !validPolicy {
		return fmt.Errorf("invalid neighbor policy: %s (valid: %v)", c.Target.Neighbors, ValidNeighborPolicies)
	}

	return c.Logging.Validate()
}
