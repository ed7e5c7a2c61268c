// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/questlog/cliparse"
	"github.com/danielhkuo/questlog/middleware"
	"github.com/danielhkuo/questlog/store"
)

// maxBlobSize caps ad-hoc blob uploads at 256 KiB.
const maxBlobSize = 256 << 10

type BlobHandler struct {
	cfg   cliparse.Config
	blobs *store.BlobStore
}

func NewBlobHandler(cfg cliparse.Config, blobs *store.BlobStore) *BlobHandler {
	return &BlobHandler{cfg: cfg, blobs: blobs}
}

// Put handles PUT /blobs/{key}
// Stores the raw request body under the user's namespace.
func (h *BlobHandler) Put(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)
	key := r.PathValue("key")
	if key == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "blob key is required")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBlobSize+1))
	r.Body.Close()
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "failed to read body")
		return
	}
	if len(body) > maxBlobSize {
		middleware.ErrorResponse(w, http.StatusRequestEntityTooLarge, "blob exceeds 256 KiB")
		return
	}

	if err := h.blobs.Put(r.Context(), userID, key, body); err != nil {
		slog.Error("failed to store blob", "key", key, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to store blob")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Get handles GET /blobs/{key}
func (h *BlobHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)
	key := r.PathValue("key")

	value, err := h.blobs.Get(r.Context(), userID, key)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Blob not found")
		return
	}
	if err != nil {
		slog.Error("failed to load blob", "key", key, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to load blob")
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	w.Write(value)
}

// Delete handles DELETE /blobs/{key}
func (h *BlobHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)
	key := r.PathValue("key")

	if err := h.blobs.Delete(r.Context(), userID, key); err != nil {
		slog.Error("failed to delete blob", "key", key, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete blob")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
