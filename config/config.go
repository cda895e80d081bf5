// Copyright 2025, the WhizLite contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
)

// Global exposes the application configuration.
var Global Config

// Config holds the application configuration.
type Config struct {
	Build buildInfo `yaml:"-"`

	Bot struct {
		// Token is the Telegram bot token issued by @BotFather.
		Token string `env:"WHIZLITE_BOT_TOKEN" yaml:"token"`
		// OwnerID is the Telegram user ID of the bot owner, exempt from the quota.
		OwnerID int64 `env:"WHIZLITE_OWNER_ID,overwrite" yaml:"ownerId"`
		Debug   bool  `env:"WHIZLITE_BOT_DEBUG,overwrite" yaml:"debug"`
	} `yaml:"bot"`

	Quota struct {
		Limit  int           `env:"WHIZLITE_QUOTA_LIMIT,overwrite" yaml:"limit"`
		Window time.Duration `env:"WHIZLITE_QUOTA_WINDOW,overwrite" yaml:"window"`
	} `yaml:"quota"`

	Telegraph struct {
		Endpoint string        `env:"WHIZLITE_UPLOAD_ENDPOINT,overwrite" yaml:"endpoint"`
		Timeout  time.Duration `env:"WHIZLITE_UPLOAD_TIMEOUT,overwrite" yaml:"timeout"`
	} `yaml:"telegraph"`

	Metrics struct {
		Enabled bool   `env:"WHIZLITE_METRICS,overwrite" yaml:"enabled"`
		Host    string `env:"WHIZLITE_METRICS_HOST,overwrite" yaml:"host"`
		Port    string `env:"WHIZLITE_METRICS_PORT,overwrite" yaml:"port"`
	} `yaml:"metrics"`

	Log struct {
		Level   string   `env:"WHIZLITE_LOG_LEVEL,overwrite" yaml:"logLevel"`
		Outputs []string `env:"WHIZLITE_LOG_OUTPUTS,overwrite" yaml:"logOutputs"`
		Format  string   `env:"WHIZLITE_LOG_FORMAT,overwrite" yaml:"logFormat"`
	} `yaml:"log"`
}

// LoadConfig loads the configuration from various sources.
func (cfg *Config) LoadConfig() error {
	parsedConfigFlagValue := parseCommandLineArgs()

	// Check if the -config flag was explicitly set by the user.
	configFlagUserSet := false

	flag.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			configFlagUserSet = true
		}
	})

	var configFilePath string

	// Determine the config file path with the correct precedence:
	// 1. Command-line flag (-config)
	// 2. Environment variable (WHIZLITE_CONFIGFILE)
	// 3. Default path with fallback check
	if configFlagUserSet {
		configFilePath = parsedConfigFlagValue
	} else if envVar := os.Getenv("WHIZLITE_CONFIGFILE"); envVar != "" {
		configFilePath = envVar
	} else {
		configFilePath = parsedConfigFlagValue
		// Perform a fallback check for "./config.yml".
		if _, err := os.Stat(configFilePath); os.IsNotExist(err) {
			ymlPath := "./config.yml"
			if _, statErr := os.Stat(ymlPath); statErr == nil {
				configFilePath = ymlPath
			}
		}
	}

	cfg.SetDefaults()

	cfg.Build.load()

	if err := cfg.readYAML(configFilePath); err != nil {
		return fmt.Errorf("error loading YAML config: %w", err)
	}

	if err := useDotEnv(); err != nil {
		return fmt.Errorf("error using .env file: %w", err)
	}

	if err := readEnv(cfg); err != nil {
		return fmt.Errorf("error loading environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}

	cfg.setupLogging()

	cfg.print()

	return nil
}

// GetDurationEncoderOption returns a YAML encoder option that marshals
// time.Duration into a human-readable string format (e.g., "30m", "1h").
func GetDurationEncoderOption() yaml.EncodeOption {
	return yaml.CustomMarshaler[time.Duration](
		func(d time.Duration) ([]byte, error) {
			return yaml.Marshal(d.String())
		},
	)
}
