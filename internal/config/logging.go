package config

import "fmt"

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`          // debug, info, warn, error
	Format string `yaml:"format"`         // console, json
	File   string `yaml:"file,omitempty"` // empty = stderr
}

var (
	validLevels  = []string{"debug", "info", "warn", "error"}
	validFormats = []string{"console", "json"}
)

// Validate checks level and format against the supported values.
func (c *LoggingConfig) Validate() error {
	if !contains(validLevels, c.Level) {
		return fmt.Errorf("invalid log level: %s (valid: %v)", c.Level, validLevels)
	}
	if !contains(validFormats, c.Format) {
		return fmt.Errorf("invalid log format: %s (valid: %v)", c.Format, validFormats)
	}
	return nil
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
