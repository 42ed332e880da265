
// This file is part of OwnBin.

// OwnBin is free software released under the MIT License.
// See LICENSE.md file for details.

package config

import (
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/net/publicsuffix"
)

// LoadDotEnv loads a .env file from the working directory if one
// exists. Variables already present in the environment win.
func LoadDotEnv() error {
	err := godotenv.Load()
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

// isValidDomain checks if a string is a valid domain name using the
// Public Suffix List. This validates against all known TLDs.
func isValidDomain(s string) bool {
	if s == "" {
		return false
	}
	if net.ParseIP(s) != nil {
		return false
	}
	if !strings.Contains(s, ".") {
		return false
	}
	_, err := publicsuffix.EffectiveTLDPlusOne(s)
	return err == nil
}

// parseAddress parses OWNBIN_ADDRESS to extract FQDN, listen, and port
// Examples:
//   - ":8080"                → port=8080
//   - "bin.example.com:80"   → fqdn=bin.example.com, port=80
//   - "127.0.0.1"            → listen=127.0.0.1
//   - "172.17.0.1:8091"      → listen=172.17.0.1, port=8091
//   - "example.com"          → fqdn=example.com
func parseAddress(addr string) (fqdn, listen, port string) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return
	}

	// IPv6 format: [ip]:port or [ip]
	if strings.HasPrefix(addr, "[") {
		closeBracket := strings.Index(addr, "]")
		if closeBracket == -1 {
			return
		}
		listen = addr[1:closeBracket]
		rest := addr[closeBracket+1:]
		if strings.HasPrefix(rest, ":") {
			port = rest[1:]
		}
		return
	}

	// Just a port
	if strings.HasPrefix(addr, ":") {
		port = addr[1:]
		return
	}

	host, p, err := net.SplitHostPort(addr)
	if err != nil {
		// No port specified, the whole string is the host
		host = addr
		p = ""
	}
	port = p

	if host != "" {
		if net.ParseIP(host) != nil {
			listen = host
		} else if isValidDomain(host) {
			fqdn = host
		} else if host == "localhost" {
			listen = host
		}
		// Neither IP nor valid domain: ignored
	}

	return
}

// getEnv gets OWNBIN_* environment variables
func getEnv(name string) string {
	return os.Getenv("OWNBIN_" + name)
}

// ApplyEnvironmentOverrides applies environment variables to config.
// Environment variables override config file values.
func ApplyEnvironmentOverrides(cfg *YAMLConfig) {
	// Smart ADDRESS parsing - single env var to set fqdn, listen, and/or port
	if val := getEnv("ADDRESS"); val != "" {
		fqdn, listen, port := parseAddress(val)
		if fqdn != "" {
			cfg.Server.FQDN = fqdn
		}
		if listen != "" {
			cfg.Server.Listen = listen
		}
		if port != "" {
			cfg.Server.Port = port
		}
	}

	// Individual settings (override ADDRESS parsing if both set)
	if val := getEnv("FQDN"); val != "" {
		cfg.Server.FQDN = val
	}
	if val := getEnv("LISTEN"); val != "" {
		cfg.Server.Listen = val
	}
	if val := getEnv("PORT"); val != "" {
		cfg.Server.Port = val
	}
	if val := getEnv("TITLE"); val != "" {
		cfg.Server.Title = val
	}

	if val := getEnv("METRICS_ENABLED"); val != "" {
		cfg.Server.Metrics.Enabled = isTruthy(val)
	}
	if val := getEnv("METRICS_ENDPOINT"); val != "" {
		cfg.Server.Metrics.Endpoint = val
	}

	// Database settings
	if val := getEnv("DB_DRIVER"); val != "" {
		cfg.Database.Driver = val
	}
	if val := getEnv("DB_SOURCE"); val != "" {
		cfg.Database.Source = val
	}
	if val := getEnv("DB_MAX_OPEN_CONNS"); val != "" {
		if num, err := strconv.Atoi(val); err == nil {
			cfg.Database.MaxOpenConns = num
		}
	}
	if val := getEnv("DB_MAX_IDLE_CONNS"); val != "" {
		if num, err := strconv.Atoi(val); err == nil {
			cfg.Database.MaxIdleConns = num
		}
	}

	// Auth settings
	if val := getEnv("AUTH_USERNAME"); val != "" {
		cfg.Auth.Username = val
	}
	if val := getEnv("AUTH_SECRET_DIGEST"); val != "" {
		cfg.Auth.SecretDigest = val
	}
	if val := getEnv("AUTH_REALM"); val != "" {
		cfg.Auth.Realm = val
	}
	if val := getEnv("AUTH_BLOCK_HITS"); val != "" {
		if num, err := strconv.Atoi(val); err == nil {
			cfg.Auth.BlockHits = num
		}
	}
	if val := getEnv("AUTH_BLOCK_TIMEOUT"); val != "" {
		if num, err := strconv.Atoi(val); err == nil {
			cfg.Auth.BlockTimeout = num
		}
	}

	// UI settings
	if val := getEnv("UI_PER_PAGE"); val != "" {
		if num, err := strconv.Atoi(val); err == nil {
			cfg.UI.PerPage = num
		}
	}
	if val := getEnv("UI_TIMEZONE"); val != "" {
		cfg.UI.Timezone = val
	}

	// Limits settings
	if val := getEnv("BODY_MAX_LENGTH"); val != "" {
		if num, err := strconv.Atoi(val); err == nil {
			cfg.Limits.BodyMaxLength = num
		}
	}

	// Rate limits - GET pastes
	if val := getEnv("GET_PASTES_PER_5MIN"); val != "" {
		if num, err := strconv.ParseUint(val, 10, 32); err == nil {
			cfg.Limits.RateLimit.GetPastes.Per5Min = uint(num)
		}
	}
	if val := getEnv("GET_PASTES_PER_15MIN"); val != "" {
		if num, err := strconv.ParseUint(val, 10, 32); err == nil {
			cfg.Limits.RateLimit.GetPastes.Per15Min = uint(num)
		}
	}
	if val := getEnv("GET_PASTES_PER_1HOUR"); val != "" {
		if num, err := strconv.ParseUint(val, 10, 32); err == nil {
			cfg.Limits.RateLimit.GetPastes.Per1Hour = uint(num)
		}
	}

	// Rate limits - NEW pastes
	if val := getEnv("NEW_PASTES_PER_5MIN"); val != "" {
		if num, err := strconv.ParseUint(val, 10, 32); err == nil {
			cfg.Limits.RateLimit.NewPastes.Per5Min = uint(num)
		}
	}
	if val := getEnv("NEW_PASTES_PER_15MIN"); val != "" {
		if num, err := strconv.ParseUint(val, 10, 32); err == nil {
			cfg.Limits.RateLimit.NewPastes.Per15Min = uint(num)
		}
	}
	if val := getEnv("NEW_PASTES_PER_1HOUR"); val != "" {
		if num, err := strconv.ParseUint(val, 10, 32); err == nil {
			cfg.Limits.RateLimit.NewPastes.Per1Hour = uint(num)
		}
	}

	// Logging settings
	if val := getEnv("LOG_LEVEL"); val != "" {
		cfg.Logging.Level = val
	}
	if val := getEnv("LOG_ACCESS_STDOUT"); val != "" {
		cfg.Logging.Access.Stdout = isTruthy(val)
	}
	if val := getEnv("LOG_ACCESS_FORMAT"); val != "" {
		cfg.Logging.Access.Format = val
	}
	if val := getEnv("LOG_ERROR_FORMAT"); val != "" {
		cfg.Logging.Error.Format = val
	}
	if val := getEnv("LOG_SERVER_FORMAT"); val != "" {
		cfg.Logging.Server.Format = val
	}
}

// isTruthy checks if a string value represents true
func isTruthy(val string) bool {
	val = strings.ToLower(strings.TrimSpace(val))
	return val == "true" || val == "1" || val == "yes" || val == "on" || val == "enabled"
}
