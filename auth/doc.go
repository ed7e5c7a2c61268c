// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides credential hashing and token generation utilities.

# Passwords

Passwords are hashed with bcrypt (cost 12):

	hash, err := auth.HashPassword(password)
	err = auth.CheckPassword(hash, password)

CheckPassword is timing-safe and returns ErrInvalidCredentials on any
mismatch, so handlers never leak whether a username or password was wrong.

# Bearer Tokens

Login issues a random 24-byte (192-bit) secret:

	token, err := auth.GenerateToken()

Tokens are URL-safe base64 encoded and presented on every authenticated
request as Authorization: Bearer <token>. The token itself is stored
server-side with its expiry; there is no signed-claims scheme.

BearerToken extracts the token from a raw Authorization header value:

	token := auth.BearerToken(r.Header.Get("Authorization"))

# ID Generation

Random hex IDs for database records:

	id, err := auth.GenerateID(16)  // 32 hex characters

# IP Hashing

For privacy-preserving rate-limit and audit keys:

	hash := auth.HashIP(ipAddress, salt)

Returns first 8 bytes (16 hex chars) of HMAC-SHA256.
*/
package auth
