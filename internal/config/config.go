// Package config provides Viper-based hierarchical configuration:
// defaults, then an optional YAML config file, then TABSTREAM_* environment
// variables. Unknown keys are ignored, never rejected.
package config

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config is the complete application configuration.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Parse struct {
		Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
		Quote     string `mapstructure:"quote" yaml:"quote"`
		HasHeader bool   `mapstructure:"has_header" yaml:"has_header"`
		Encoding  string `mapstructure:"encoding" yaml:"encoding"`
		ChunkSize int    `mapstructure:"chunk_size" yaml:"chunk_size"`
	} `mapstructure:"parse" yaml:"parse"`

	Detect struct {
		SampleSize int `mapstructure:"sample_size" yaml:"sample_size"`
	} `mapstructure:"detect" yaml:"detect"`

	Formats struct {
		ProfilePath string `mapstructure:"profile_path" yaml:"profile_path"`
	} `mapstructure:"formats" yaml:"formats"`
}

// InitializeConfig loads configuration with hierarchical precedence.
func InitializeConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.tabstream")
	v.AddConfigPath(".tabstream")
	v.AddConfigPath(".")

	v.SetEnvPrefix("TABSTREAM")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Continue with defaults and env vars; a broken config
			// file should not block read-only operations.
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("parse.delimiter", ",")
	v.SetDefault("parse.quote", `"`)
	v.SetDefault("parse.has_header", true)
	v.SetDefault("parse.encoding", "utf8")
	v.SetDefault("parse.chunk_size", 8192)

	v.SetDefault("detect.sample_size", 8192)

	v.SetDefault("formats.profile_path", "")
}

func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if len([]rune(config.Parse.Delimiter)) != 1 {
		return fmt.Errorf("parse delimiter must be a single character, got: %s", config.Parse.Delimiter)
	}
	if config.Parse.Quote != "" && len([]rune(config.Parse.Quote)) != 1 {
		return fmt.Errorf("parse quote must be a single character, got: %s", config.Parse.Quote)
	}
	if config.Parse.ChunkSize <= 0 {
		return fmt.Errorf("parse chunk_size must be positive, got: %d", config.Parse.ChunkSize)
	}
	if config.Detect.SampleSize <= 0 {
		return fmt.Errorf("detect sample_size must be positive, got: %d", config.Detect.SampleSize)
	}

	return nil
}

// ConfigureLoggingFromConfig builds a logrus logger matching the loaded
// configuration.
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}
