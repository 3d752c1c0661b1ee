// Package database provides the data access layer.
package database

import (
	"context"
	"time"

	"github.com/verisight/verisight/internal/models"
)

// Store defines the interface for data persistence.
type Store interface {
	// Verification briefs
	SaveBrief(ctx context.Context, brief *models.VerificationBrief) error
	GetBrief(ctx context.Context, id string) (*models.VerificationBrief, error)
	GetBriefByHash(ctx context.Context, hash string) (*models.VerificationBrief, error)
	ListBriefs(ctx context.Context, limit, offset int) ([]*models.BriefSummary, error)

	// API Keys
	CreateAPIKey(ctx context.Context, key *models.APIKey) error
	GetAPIKeyByHash(ctx context.Context, hash string) (*models.APIKey, error)
	UpdateAPIKeyLastUsed(ctx context.Context, id string, t time.Time) error
	DeleteAPIKey(ctx context.Context, id string) error
	ListAPIKeys(ctx context.Context) ([]*models.APIKey, error)

	// Audit logs
	LogRequest(ctx context.Context, log *models.AuditLog) error
	GetAuditLogs(ctx context.Context, limit, offset int) ([]*models.AuditLog, error)

	// Lifecycle
	Close() error
	Migrate() error
}
