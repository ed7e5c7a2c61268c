// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package router wires the HTTP surface together: it builds the storage
// tiers, constructs every handler, and registers routes on a ServeMux
// using Go 1.22 method+path patterns.
//
// Credential endpoints (register, login) go through a per-IP rate
// limiter. Everything except register, login, health, and the root
// banner requires a bearer token.
package router
