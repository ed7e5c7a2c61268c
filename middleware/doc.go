// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (duration_ms).

# Authentication Guard

RequireAuth validates the Authorization bearer token against the database
and injects the user id into the request context:

	mux.HandleFunc("GET /subjects", middleware.WithLogging(middleware.RequireAuth(db, h.ListSubjects)))

Handlers read the authenticated user with middleware.UserID(r).

# Rate Limiting

Per-client-IP token buckets guard the auth endpoints:

	rl := middleware.NewRateLimiter(10, time.Minute)
	mux.HandleFunc("POST /auth/login", rl.Wrap(h.Login))

Idle entries are cleaned up every ten minutes; over-limit requests get 429.

# CORS Middleware

Enable cross-origin requests for frontend access:

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

Allows methods GET, POST, PUT, DELETE, OPTIONS with headers
Content-Type, Authorization.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

Parse JSON request bodies:

	var req models.RecordSessionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)

Used as the rate limiter key.
*/
package middleware
