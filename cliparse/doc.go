// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 4170)
  - DatabaseURL: Database connection string (required)
  - DatabaseType: "sqlite" (default) or "postgres"
  - DataDir: Badger key-value store directory (default: data)
  - IPHashSalt: Secret for client IP hashing (required)
  - TokenTTL: Bearer token lifetime in hours (default: 720)
  - RateLimit / RateWindow: Auth requests per window per IP (default: 10/60s)

# CLI Flags

	-p           Server port
	-d           Database URL
	-t           Database type
	-data-dir    Key-value store directory
	-ip-salt     IP hash salt
	-token-ttl   Token lifetime (hours)
	-rate-limit  Requests per window
	-rate-window Window (seconds)

# Environment Variables

Flags fall back to environment variables:

	PORT            → -p
	DATABASE_URL    → -d
	DATABASE_TYPE   → -t
	DATA_DIR        → -data-dir
	IP_HASH_SALT    → -ip-salt
	TOKEN_TTL_HOURS → -token-ttl

CLI flags take precedence over environment variables. main loads a .env
file via godotenv before parsing, so a local .env works for development.

# Validation

ParseFlags returns an error if required values are missing:

  - DATABASE_URL must be provided
  - IP_HASH_SALT must be provided
  - DATABASE_TYPE, when set, must be sqlite or postgres
*/
package cliparse
