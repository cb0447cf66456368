// Package config provides configuration management for the rulebuilder CLI.
package config

import "time"

// EditorConfig holds editor tuning and logging settings.
type EditorConfig struct {
	Debounce           time.Duration
	ProximityThreshold float64
	NodeWidth          float64
	NodeHeight         float64
	PlaceholderName    string
	LogLevel           string
	LogFormat          string
}

// DefaultEditorConfig returns configuration with default values.
func DefaultEditorConfig() *EditorConfig {
	return &EditorConfig{
		Debounce:           500 * time.Millisecond,
		ProximityThreshold: 50,
		NodeWidth:          200,
		NodeHeight:         80,
		PlaceholderName:    "Untitled",
		LogLevel:           "info",
		LogFormat:          "text",
	}
}

// LogLevels lists the accepted log.level values.
var LogLevels = []string{"debug", "info", "warn", "error"}

// LogFormats lists the accepted log.format values.
var LogFormats = []string{"text", "json"}
