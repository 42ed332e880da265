
// This file is part of OwnBin.

// OwnBin is free software released under the MIT License.
// See LICENSE.md file for details.

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// YAMLConfig represents the YAML configuration file structure.
// All configuration is organized into logical top-level sections.
type YAMLConfig struct {
	Server struct {
		// Public FQDN for building URLs (empty=auto-detect from headers/hostname)
		FQDN string `yaml:"fqdn"`
		// Listen address (all, ::, 0.0.0.0, specific IP)
		Listen string `yaml:"listen"`
		// Port number
		Port string `yaml:"port"`
		// Server title, reported by the info endpoint
		Title string `yaml:"title"`

		Timeouts struct {
			// Read timeout in seconds (default: 15)
			Read int `yaml:"read"`
			// Write timeout in seconds (default: 15)
			Write int `yaml:"write"`
			// Idle timeout in seconds (default: 60)
			Idle int `yaml:"idle"`
		} `yaml:"timeouts"`

		Metrics struct {
			// Enable Prometheus metrics endpoint (default: false)
			Enabled bool `yaml:"enabled"`
			// Endpoint path (default: /metrics)
			Endpoint string `yaml:"endpoint"`
		} `yaml:"metrics"`
	} `yaml:"server"`

	Database struct {
		// sqlite, postgres, mysql
		Driver string `yaml:"driver"`
		// Connection string
		Source string `yaml:"source"`
		// Max open connections
		MaxOpenConns int `yaml:"max_open_conns"`
		// Max idle connections
		MaxIdleConns int `yaml:"max_idle_conns"`
	} `yaml:"database"`

	Auth struct {
		// Account name clients authenticate as
		Username string `yaml:"username"`
		// MD5 of "username:realm:secret". Generate with the -a1 flag.
		// The plaintext secret never appears in configuration.
		SecretDigest string `yaml:"secret_digest"`
		// Digest realm presented in challenges
		Realm string `yaml:"realm"`
		// Failed attempts from one address before it is blocked
		BlockHits int `yaml:"block_hits"`
		// Block duration in minutes
		BlockTimeout int `yaml:"block_timeout"`
	} `yaml:"auth"`

	UI struct {
		// Pastes per page in listings
		PerPage int `yaml:"per_page"`
		// IANA timezone for rendered timestamps (default: UTC)
		Timezone string `yaml:"timezone"`
	} `yaml:"ui"`

	Limits struct {
		// Max paste body length in bytes
		BodyMaxLength int `yaml:"body_max_length"`

		RateLimit struct {
			GetPastes struct {
				// GET requests per 5 minutes
				Per5Min uint `yaml:"per_5min"`
				// GET requests per 15 minutes
				Per15Min uint `yaml:"per_15min"`
				// GET requests per 1 hour
				Per1Hour uint `yaml:"per_1hour"`
			} `yaml:"get_pastes"`

			NewPastes struct {
				// POST requests per 5 minutes
				Per5Min uint `yaml:"per_5min"`
				// POST requests per 15 minutes
				Per15Min uint `yaml:"per_15min"`
				// POST requests per 1 hour
				Per1Hour uint `yaml:"per_1hour"`
			} `yaml:"new_pastes"`
		} `yaml:"rate_limit"`
	} `yaml:"limits"`

	Logging struct {
		// Log level: info, warn, error (default: info)
		Level string `yaml:"level"`

		Access struct {
			// Enable access log to stdout (default: false)
			Stdout bool `yaml:"stdout"`
			// apache, text, json (default: apache)
			Format string `yaml:"format"`
		} `yaml:"access"`

		Error struct {
			// text, json (default: text)
			Format string `yaml:"format"`
		} `yaml:"error"`

		Server struct {
			// text, json (default: text)
			Format string `yaml:"format"`
		} `yaml:"server"`
	} `yaml:"logging"`
}

// LoadYAMLConfig loads configuration from YAML file
func LoadYAMLConfig(path string) (*YAMLConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg YAMLConfig
	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

// SaveYAMLConfig saves configuration to YAML file
func SaveYAMLConfig(path string, cfg *YAMLConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	err = os.WriteFile(path, data, 0644)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultYAMLConfig returns a configuration with sane defaults. An
// instance with defaults only is not usable until auth.username and
// auth.secret_digest are set.
func DefaultYAMLConfig() *YAMLConfig {
	cfg := &YAMLConfig{}

	cfg.Server.FQDN = "" // Empty = auto-detect from X-Forwarded-Host (trusted proxies) or hostname
	cfg.Server.Listen = "all"
	cfg.Server.Port = "8080"
	cfg.Server.Title = Software

	cfg.Server.Timeouts.Read = 15
	cfg.Server.Timeouts.Write = 15
	cfg.Server.Timeouts.Idle = 60

	cfg.Server.Metrics.Enabled = false
	cfg.Server.Metrics.Endpoint = "/metrics"

	// Using modernc.org/sqlite (pure Go, no CGo)
	cfg.Database.Driver = "sqlite"
	cfg.Database.Source = "ownbin.db"
	cfg.Database.MaxOpenConns = 25
	cfg.Database.MaxIdleConns = 5

	cfg.Auth.Realm = "ownbin"
	cfg.Auth.BlockHits = 10
	cfg.Auth.BlockTimeout = 60

	cfg.UI.PerPage = 20
	cfg.UI.Timezone = "UTC"

	cfg.Limits.BodyMaxLength = 1048576 // 1MB

	cfg.Limits.RateLimit.GetPastes.Per5Min = 50
	cfg.Limits.RateLimit.GetPastes.Per15Min = 100
	cfg.Limits.RateLimit.GetPastes.Per1Hour = 500

	cfg.Limits.RateLimit.NewPastes.Per5Min = 15
	cfg.Limits.RateLimit.NewPastes.Per15Min = 30
	cfg.Limits.RateLimit.NewPastes.Per1Hour = 40

	cfg.Logging.Level = "info"
	cfg.Logging.Access.Stdout = false
	cfg.Logging.Access.Format = "apache"
	cfg.Logging.Error.Format = "text"
	cfg.Logging.Server.Format = "text"

	return cfg
}

// GenerateDefaultYAMLConfig writes a default configuration file
func GenerateDefaultYAMLConfig(path string) error {
	return SaveYAMLConfig(path, DefaultYAMLConfig())
}
