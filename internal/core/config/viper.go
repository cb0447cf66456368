package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/viper"
)

// LoadConfig loads configuration from file using viper.
// CLI flags > environment > config file > defaults precedence.
func LoadConfig(configPath string) (*EditorConfig, error) {
	v := viper.New()

	// Set defaults matching DefaultEditorConfig
	def := DefaultEditorConfig()
	v.SetDefault("editor.debounce", def.Debounce.String())
	v.SetDefault("editor.proximity_threshold", def.ProximityThreshold)
	v.SetDefault("editor.node_width", def.NodeWidth)
	v.SetDefault("editor.node_height", def.NodeHeight)
	v.SetDefault("editor.placeholder_name", def.PlaceholderName)
	v.SetDefault("log.level", def.LogLevel)
	v.SetDefault("log.format", def.LogFormat)

	// Bind environment variables with RB_ prefix
	v.SetEnvPrefix("RB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Load config file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &EditorConfig{
		Debounce:           v.GetDuration("editor.debounce"),
		ProximityThreshold: v.GetFloat64("editor.proximity_threshold"),
		NodeWidth:          v.GetFloat64("editor.node_width"),
		NodeHeight:         v.GetFloat64("editor.node_height"),
		PlaceholderName:    v.GetString("editor.placeholder_name"),
		LogLevel:           strings.ToLower(v.GetString("log.level")),
		LogFormat:          strings.ToLower(v.GetString("log.format")),
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validateConfig checks positive durations and sizes and the log enumerations.
func validateConfig(cfg *EditorConfig) error {
	if cfg.Debounce <= 0 {
		return fmt.Errorf("debounce must be positive, got %v", cfg.Debounce)
	}
	if cfg.ProximityThreshold <= 0 {
		return fmt.Errorf("proximity_threshold must be positive, got %v", cfg.ProximityThreshold)
	}
	if cfg.NodeWidth <= 0 || cfg.NodeHeight <= 0 {
		return fmt.Errorf("node size must be positive, got %vx%v", cfg.NodeWidth, cfg.NodeHeight)
	}
	if strings.TrimSpace(cfg.PlaceholderName) == "" {
		return fmt.Errorf("placeholder_name must not be empty")
	}
	if !slices.Contains(LogLevels, cfg.LogLevel) {
		return fmt.Errorf("log level must be one of %s, got %q", strings.Join(LogLevels, ", "), cfg.LogLevel)
	}
	if !slices.Contains(LogFormats, cfg.LogFormat) {
		return fmt.Errorf("log format must be one of %s, got %q", strings.Join(LogFormats, ", "), cfg.LogFormat)
	}
	return nil
}
