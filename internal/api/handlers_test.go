package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/verisight/verisight/internal/database"
	"github.com/verisight/verisight/internal/engine"
	"github.com/verisight/verisight/internal/models"
)

type stubVerifier struct {
	brief *models.VerificationBrief
	err   error
}

func (s *stubVerifier) VerifyClaim(ctx context.Context, text string) (*models.VerificationBrief, error) {
	return s.brief, s.err
}

// stubStore overrides only the methods a test exercises.
type stubStore struct {
	database.Store
	brief *models.VerificationBrief
}

func (s *stubStore) GetBrief(ctx context.Context, id string) (*models.VerificationBrief, error) {
	if s.brief != nil && s.brief.ID == id {
		return s.brief, nil
	}
	return nil, nil
}

func TestHealthCheck(t *testing.T) {
	h := NewHandler(&stubVerifier{}, &stubStore{})

	rec := httptest.NewRecorder()
	h.HealthCheck(rec, httptest.NewRequest("GET", "/api/v1/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)
}

func TestVerifyClaim(t *testing.T) {
	brief := &models.VerificationBrief{
		ID:            "brief-1",
		Tier:          models.TierMedium,
		TopConfidence: 0.56,
	}
	h := NewHandler(&stubVerifier{brief: brief}, &stubStore{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/verify/claim", strings.NewReader(`{"text": "some claim"}`))
	h.VerifyClaim(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"tier":"medium"`)
}

func TestVerifyClaimEmptyText(t *testing.T) {
	h := NewHandler(&stubVerifier{}, &stubStore{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/verify/claim", strings.NewReader(`{"text": ""}`))
	h.VerifyClaim(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVerifyClaimNormalizationUnavailable(t *testing.T) {
	h := NewHandler(&stubVerifier{err: engine.ErrNormalizationUnavailable}, &stubStore{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/verify/claim", strings.NewReader(`{"text": "claim"}`))
	h.VerifyClaim(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGetBrief(t *testing.T) {
	brief := &models.VerificationBrief{ID: "brief-1", Tier: models.TierLow}
	h := NewHandler(&stubVerifier{}, &stubStore{brief: brief})

	r := chi.NewRouter()
	r.Get("/api/v1/briefs/{id}", h.GetBrief)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/briefs/brief-1", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"brief-1"`)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/briefs/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRequestIDMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, getRequestID(r.Context()))
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	RequestIDMiddleware(next).ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRequestIDMiddlewarePreservesHeader(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Request-ID", "fixed-id")

	rec := httptest.NewRecorder()
	RequestIDMiddleware(next).ServeHTTP(rec, req)

	require.Equal(t, "fixed-id", rec.Header().Get("X-Request-ID"))
}
