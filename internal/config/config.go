// Package config loads server settings from the environment and an optional
// config file.
//
// Every setting is read from a PRESET_MCP_* environment variable. When
// PRESET_MCP_CONFIG names a file (YAML, JSON or TOML), it is read first and the
// environment overrides it; keys in the file use the same names as the
// variables.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/ironsheep/preset-lut-mcp/internal/lut"
)

// FileEnv names the optional config file.
const FileEnv = "PRESET_MCP_CONFIG"

type Config struct {
	// Logging
	LogLevel string `mapstructure:"PRESET_MCP_LOG_LEVEL" validate:"oneof=debug info warn error"`

	// Export
	OutputDir string `mapstructure:"PRESET_MCP_OUTPUT_DIR"`
	LUTSize   int    `mapstructure:"PRESET_MCP_LUT_SIZE" validate:"min=2,max=65"`
	ToolName  string `mapstructure:"PRESET_MCP_TOOL_NAME" validate:"required,max=120"`

	// Preview
	PreviewMaxDim int `mapstructure:"PRESET_MCP_PREVIEW_MAX_DIM" validate:"min=16,max=4096"`

	// HTTP download server
	HTTPAddr string `mapstructure:"PRESET_MCP_HTTP_ADDR" validate:"required,hostname_port"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		LogLevel:      "info",
		OutputDir:     "",
		LUTSize:       lut.DefaultSize,
		ToolName:      lut.DefaultTool,
		PreviewMaxDim: 512,
		HTTPAddr:      "127.0.0.1:8787",
	}
}

// use reflect to bind environment variables based on mapstructure tags
func bindEnv(v *viper.Viper, c Config) {
	val := reflect.ValueOf(c)
	typ := val.Type()

	for i := 0; i < val.NumField(); i++ {
		if tag := typ.Field(i).Tag.Get("mapstructure"); tag != "" {
			_ = v.BindEnv(tag)
		}
	}
}

func setDefaults(v *viper.Viper, c Config) {
	val := reflect.ValueOf(c)
	typ := val.Type()

	for i := 0; i < val.NumField(); i++ {
		if tag := typ.Field(i).Tag.Get("mapstructure"); tag != "" {
			v.SetDefault(tag, val.Field(i).Interface())
		}
	}
}

// Load reads, defaults and validates the configuration.
func Load() (*Config, error) {
	v := viper.New()
	bindEnv(v, Config{})
	v.AutomaticEnv()
	setDefaults(v, Default())

	if path := os.Getenv(FileEnv); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	cfg := Config{}
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	return nil
}

// SlogLevel maps LogLevel onto a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
