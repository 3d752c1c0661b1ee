// Package api provides HTTP router setup.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/verisight/verisight/internal/config"
	"github.com/verisight/verisight/internal/database"
)

// NewRouter creates a new HTTP router with all routes configured.
func NewRouter(cfg *config.Config, verifier Verifier, store database.Store) http.Handler {
	r := chi.NewRouter()

	handler := NewHandler(verifier, store)

	// Global middleware
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// Health check (no auth required)
		r.Get("/health", handler.HealthCheck)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(store))
			r.Use(AuditMiddleware(store))
			r.Use(RateLimitMiddleware(cfg.RateLimits.RequestsPerMinute))

			// Verification
			r.Post("/verify/claim", handler.VerifyClaim)

			// Brief history
			r.Get("/briefs", handler.ListBriefs)
			r.Get("/briefs/{id}", handler.GetBrief)

			// Audit logs
			r.Get("/audit", handler.GetAuditLogs)
		})

		// Admin routes (API key management)
		r.Route("/admin", func(r chi.Router) {
			r.Post("/keys", handler.CreateAPIKey)
			r.Get("/keys", handler.ListAPIKeys)
			r.Delete("/keys/{id}", handler.DeleteAPIKey)
		})
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head>
    <title>VeriSight - Claim Verification</title>
    <style>
        body { font-family: system-ui, sans-serif; max-width: 800px; margin: 50px auto; padding: 20px; }
        h1 { color: #2563eb; }
        code { background: #f1f5f9; padding: 2px 6px; border-radius: 4px; }
        .endpoint { margin: 10px 0; }
    </style>
</head>
<body>
    <h1>VeriSight API</h1>
    <p>Claim verification API is running. Use the API endpoints below:</p>

    <h2>Endpoints</h2>
    <div class="endpoint"><code>GET /api/v1/health</code> - Health check</div>
    <div class="endpoint"><code>POST /api/v1/verify/claim</code> - Verify a claim</div>
    <div class="endpoint"><code>GET /api/v1/briefs</code> - List verification briefs</div>
    <div class="endpoint"><code>GET /api/v1/briefs/{id}</code> - Get a specific brief</div>

    <h2>Authentication</h2>
    <p>Use <code>Authorization: Bearer your-api-key</code> header for all requests except health check.</p>

    <h2>Create API Key</h2>
    <p><code>POST /api/v1/admin/keys</code> with body <code>{"name": "my-key"}</code></p>
</body>
</html>`))
	})

	return r
}
