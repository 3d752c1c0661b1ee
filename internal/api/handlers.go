// Package api provides HTTP API handlers.
package api

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/verisight/verisight/internal/database"
	"github.com/verisight/verisight/internal/engine"
	"github.com/verisight/verisight/internal/models"
)

// Verifier runs the verification pipeline for a raw claim.
type Verifier interface {
	VerifyClaim(ctx context.Context, text string) (*models.VerificationBrief, error)
}

// Handler contains all HTTP handlers.
type Handler struct {
	verifier Verifier
	store    database.Store
}

// NewHandler creates a new handler.
func NewHandler(verifier Verifier, store database.Store) *Handler {
	return &Handler{
		verifier: verifier,
		store:    store,
	}
}

// HealthCheck returns the service health status.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"version":   "1.0.0",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	writeJSON(w, http.StatusOK, response)
}

// VerifyClaim handles claim verification requests.
func (h *Handler) VerifyClaim(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "Text is required")
		return
	}

	brief, err := h.verifier.VerifyClaim(r.Context(), req.Text)
	if err != nil {
		log.Error().Err(err).Msg("Verification failed")
		if errors.Is(err, engine.ErrNormalizationUnavailable) {
			writeError(w, http.StatusServiceUnavailable, "Normalization capability unavailable")
			return
		}
		writeError(w, http.StatusInternalServerError, "Verification failed: "+err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, brief)
}

// GetBrief returns a verification brief by ID.
func (h *Handler) GetBrief(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "ID is required")
		return
	}

	brief, err := h.store.GetBrief(r.Context(), id)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get brief")
		writeError(w, http.StatusInternalServerError, "Failed to get brief")
		return
	}
	if brief == nil {
		writeError(w, http.StatusNotFound, "Brief not found")
		return
	}

	writeJSON(w, http.StatusOK, brief)
}

// ListBriefs returns paginated verification brief summaries.
func (h *Handler) ListBriefs(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if offset < 0 {
		offset = 0
	}

	briefs, err := h.store.ListBriefs(r.Context(), limit, offset)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list briefs")
		writeError(w, http.StatusInternalServerError, "Failed to list briefs")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"briefs": briefs,
		"limit":  limit,
		"offset": offset,
	})
}

// GetAuditLogs returns paginated audit logs.
func (h *Handler) GetAuditLogs(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if offset < 0 {
		offset = 0
	}

	logs, err := h.store.GetAuditLogs(r.Context(), limit, offset)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get audit logs")
		writeError(w, http.StatusInternalServerError, "Failed to get audit logs")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"logs":   logs,
		"limit":  limit,
		"offset": offset,
	})
}

// CreateAPIKey creates a new API key.
func (h *Handler) CreateAPIKey(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name              string `json:"name"`
		RequestsPerMinute int    `json:"requests_per_minute"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}

	// Generate random API key
	keyBytes := make([]byte, 32)
	if _, err := rand.Read(keyBytes); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to generate key")
		return
	}
	rawKey := "vsk_" + base64.URLEncoding.EncodeToString(keyBytes)

	// Hash for storage
	hash := sha256.Sum256([]byte(rawKey))
	keyHash := hex.EncodeToString(hash[:])

	if req.RequestsPerMinute <= 0 {
		req.RequestsPerMinute = 60
	}

	apiKey := &models.APIKey{
		ID:                uuid.New().String(),
		KeyHash:           keyHash,
		Name:              req.Name,
		RequestsPerMinute: req.RequestsPerMinute,
		CreatedAt:         time.Now(),
	}

	if err := h.store.CreateAPIKey(r.Context(), apiKey); err != nil {
		log.Error().Err(err).Msg("Failed to create API key")
		writeError(w, http.StatusInternalServerError, "Failed to create API key")
		return
	}

	// Return the raw key only once
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"id":                  apiKey.ID,
		"key":                 rawKey, // Only returned on creation
		"name":                apiKey.Name,
		"requests_per_minute": apiKey.RequestsPerMinute,
		"created_at":          apiKey.CreatedAt,
	})
}

// ListAPIKeys lists all API keys (without the actual keys).
func (h *Handler) ListAPIKeys(w http.ResponseWriter, r *http.Request) {
	keys, err := h.store.ListAPIKeys(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list API keys")
		writeError(w, http.StatusInternalServerError, "Failed to list API keys")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"keys": keys,
	})
}

// DeleteAPIKey deletes an API key.
func (h *Handler) DeleteAPIKey(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "ID is required")
		return
	}

	if err := h.store.DeleteAPIKey(r.Context(), id); err != nil {
		log.Error().Err(err).Msg("Failed to delete API key")
		writeError(w, http.StatusInternalServerError, "Failed to delete API key")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Helper functions
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
