
// This file is part of OwnBin.

// OwnBin is free software released under the MIT License.
// See LICENSE.md file for details.

package config

import (
	"errors"
	"os"
	"time"

	"github.com/casjay-forks/ownbin/src/logger"
	"github.com/casjay-forks/ownbin/src/netshare"
)

const Software = "OwnBin"

// Config carries the resolved runtime configuration
type Config struct {
	Log logger.Logger

	RateLimitNew *netshare.RateLimitSystem
	RateLimitGet *netshare.RateLimitSystem

	Version string

	BodyMaxLen int
	PerPage    int
	Location   *time.Location

	// Server info
	FQDN  string
	Title string

	// Authentication
	AuthUsername     string
	AuthSecretDigest string
	AuthRealm        string
	BlockHits        int
	BlockTimeout     time.Duration
}

// Load reads the YAML configuration at path, layered over defaults,
// then applies .env and OWNBIN_* environment overrides. A missing
// file is not an error: defaults plus environment apply.
func Load(path string) (*YAMLConfig, error) {
	if err := LoadDotEnv(); err != nil {
		return nil, err
	}

	cfg := DefaultYAMLConfig()

	if path != "" {
		fileCfg, err := LoadYAMLConfig(path)
		if err == nil {
			cfg = fileCfg
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}

	ApplyEnvironmentOverrides(cfg)
	return cfg, nil
}

// Runtime resolves a YAMLConfig into the runtime Config. It validates
// that credentials are configured: the server never runs open.
func Runtime(cfg *YAMLConfig, version string) (*Config, error) {
	if cfg.Auth.Username == "" || cfg.Auth.SecretDigest == "" {
		return nil, errors.New("config: auth.username and auth.secret_digest are required")
	}

	location, err := time.LoadLocation(cfg.UI.Timezone)
	if err != nil {
		return nil, err
	}

	log := logger.New("2006/01/02 15:04:05")
	log.SetLevel(cfg.Logging.Level)
	log.SetFormat(logger.LogFormat{
		Access: cfg.Logging.Access.Format,
		Error:  cfg.Logging.Error.Format,
		Server: cfg.Logging.Server.Format,
	})
	if cfg.Logging.Access.Stdout {
		log.SetAccessWriter(os.Stdout)
	}

	rl := cfg.Limits.RateLimit
	return &Config{
		Log: log,

		RateLimitNew: netshare.NewRateLimitSystem(
			rl.NewPastes.Per5Min, rl.NewPastes.Per15Min, rl.NewPastes.Per1Hour),
		RateLimitGet: netshare.NewRateLimitSystem(
			rl.GetPastes.Per5Min, rl.GetPastes.Per15Min, rl.GetPastes.Per1Hour),

		Version: version,

		BodyMaxLen: cfg.Limits.BodyMaxLength,
		PerPage:    cfg.UI.PerPage,
		Location:   location,

		FQDN:  cfg.Server.FQDN,
		Title: cfg.Server.Title,

		AuthUsername:     cfg.Auth.Username,
		AuthSecretDigest: cfg.Auth.SecretDigest,
		AuthRealm:        cfg.Auth.Realm,
		BlockHits:        cfg.Auth.BlockHits,
		BlockTimeout:     time.Duration(cfg.Auth.BlockTimeout) * time.Minute,
	}, nil
}
