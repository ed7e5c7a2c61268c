// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	DataDir      string
	IPHashSalt   string
	TokenTTL     int // hours
	RateLimit    int // requests per window, per client IP
	RateWindow   int // window length in seconds
}

// ParseFlags validates flags and sets defaults
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("questlog", flag.ContinueOnError)

	// Network and storage config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.DataDir, "data-dir", "", "Directory for the key-value store")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.IPHashSalt, "ip-salt", "", "IP hash salt (prefer env)")

	// Tuning
	fs.IntVar(&cfg.TokenTTL, "token-ttl", 0, "Bearer token lifetime in hours")
	fs.IntVar(&cfg.RateLimit, "rate-limit", 0, "Auth requests allowed per window per IP")
	fs.IntVar(&cfg.RateWindow, "rate-window", 0, "Rate limit window in seconds")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 4170 // default
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, errors.New("database type must be sqlite or postgres")
	}

	if cfg.DataDir == "" {
		cfg.DataDir = os.Getenv("DATA_DIR")
		if cfg.DataDir == "" {
			cfg.DataDir = "data"
		}
	}

	// Secrets - MUST be provided
	if cfg.IPHashSalt == "" {
		cfg.IPHashSalt = os.Getenv("IP_HASH_SALT")
	}
	if cfg.IPHashSalt == "" {
		return Config{}, errors.New("IP_HASH_SALT required")
	}

	if cfg.TokenTTL == 0 {
		if s := os.Getenv("TOKEN_TTL_HOURS"); s != "" {
			ttl, err := strconv.Atoi(s)
			if err != nil {
				return Config{}, errors.New("invalid TOKEN_TTL_HOURS env variable")
			}
			cfg.TokenTTL = ttl
		} else {
			cfg.TokenTTL = 24 * 30
		}
	}

	if cfg.RateLimit == 0 {
		cfg.RateLimit = 10
	}
	if cfg.RateWindow == 0 {
		cfg.RateWindow = 60
	}

	return cfg, nil
}
