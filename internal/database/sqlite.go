// Package database provides SQLite implementation of the Store interface.
package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/verisight/verisight/internal/models"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.Migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// Migrate runs database migrations.
func (s *SQLiteStore) Migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS briefs (
			id TEXT PRIMARY KEY,
			claim_hash TEXT NOT NULL,
			claim_text TEXT NOT NULL,
			normalized_text TEXT NOT NULL,
			entities TEXT NOT NULL,
			top_confidence REAL NOT NULL,
			tier TEXT NOT NULL,
			warnings TEXT NOT NULL,
			processing_time_ms INTEGER NOT NULL,
			created_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_briefs_hash ON briefs(claim_hash)`,
		`CREATE TABLE IF NOT EXISTS evidence (
			brief_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			kind TEXT NOT NULL,
			similarity REAL NOT NULL,
			source_trust REAL NOT NULL,
			confidence REAL NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			link TEXT NOT NULL DEFAULT '',
			published_at TEXT NOT NULL DEFAULT '',
			author TEXT NOT NULL DEFAULT '',
			body TEXT NOT NULL DEFAULT '',
			posted_at DATETIME,
			follower_count INTEGER NOT NULL DEFAULT 0,
			account_age_seconds INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (brief_id, position),
			FOREIGN KEY (brief_id) REFERENCES briefs(id)
		)`,
		`CREATE TABLE IF NOT EXISTS api_keys (
			id TEXT PRIMARY KEY,
			key_hash TEXT UNIQUE NOT NULL,
			name TEXT NOT NULL,
			requests_per_minute INTEGER NOT NULL,
			created_at DATETIME NOT NULL,
			last_used_at DATETIME
		)`,
		`CREATE INDEX IF NOT EXISTS idx_api_keys_hash ON api_keys(key_hash)`,
		`CREATE TABLE IF NOT EXISTS audit_logs (
			id TEXT PRIMARY KEY,
			api_key_id TEXT NOT NULL,
			endpoint TEXT NOT NULL,
			method TEXT NOT NULL,
			request_size INTEGER NOT NULL,
			response_code INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			timestamp DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_timestamp ON audit_logs(timestamp)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveBrief stores a verification brief and its scored evidence.
func (s *SQLiteStore) SaveBrief(ctx context.Context, brief *models.VerificationBrief) error {
	entities, err := json.Marshal(brief.Claim.Entities)
	if err != nil {
		return fmt.Errorf("failed to marshal entities: %w", err)
	}
	warnings, err := json.Marshal(brief.Warnings)
	if err != nil {
		return fmt.Errorf("failed to marshal warnings: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO briefs (id, claim_hash, claim_text, normalized_text, entities,
			top_confidence, tier, warnings, processing_time_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		brief.ID, brief.ClaimHash, brief.Claim.Text, brief.Claim.NormalizedText, string(entities),
		brief.TopConfidence, string(brief.Tier), string(warnings), brief.ProcessingTimeMs, brief.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert brief: %w", err)
	}

	for i, ev := range brief.Evidence {
		var (
			title, link, publishedAt string
			author, body             string
			postedAt                 time.Time
			followers                int
			accountAgeSecs           int64
		)
		switch e := ev.Evidence.(type) {
		case models.ArticleEvidence:
			title, link, publishedAt = e.Title, e.Link, e.PublishedAt
		case models.SocialPostEvidence:
			author, body, postedAt = e.Author, e.Text, e.PostedAt
			followers = e.FollowerCount
			accountAgeSecs = int64(e.AccountAge.Seconds())
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO evidence (brief_id, position, kind, similarity, source_trust, confidence,
				title, link, published_at, author, body, posted_at, follower_count, account_age_seconds)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			brief.ID, i, string(ev.EvidenceKind), ev.SimilarityScore, ev.SourceTrustScore, ev.ConfidenceScore,
			title, link, publishedAt, author, body, postedAt, followers, accountAgeSecs)
		if err != nil {
			return fmt.Errorf("failed to insert evidence: %w", err)
		}
	}

	return tx.Commit()
}

// GetBrief retrieves a brief by ID with its evidence, or nil when absent.
func (s *SQLiteStore) GetBrief(ctx context.Context, id string) (*models.VerificationBrief, error) {
	return s.getBrief(ctx, "id = ?", id)
}

// GetBriefByHash retrieves the most recent brief for a claim hash, or nil
// when absent.
func (s *SQLiteStore) GetBriefByHash(ctx context.Context, hash string) (*models.VerificationBrief, error) {
	return s.getBrief(ctx, "claim_hash = ?", hash)
}

func (s *SQLiteStore) getBrief(ctx context.Context, where string, arg string) (*models.VerificationBrief, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, claim_hash, claim_text, normalized_text, entities,
			top_confidence, tier, warnings, processing_time_ms, created_at
		FROM briefs WHERE `+where+` ORDER BY created_at DESC LIMIT 1`, arg)

	var brief models.VerificationBrief
	var entities, warnings, tier string
	err := row.Scan(&brief.ID, &brief.ClaimHash, &brief.Claim.Text, &brief.Claim.NormalizedText, &entities,
		&brief.TopConfidence, &tier, &warnings, &brief.ProcessingTimeMs, &brief.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query brief: %w", err)
	}

	brief.Tier = models.Tier(tier)
	if err := json.Unmarshal([]byte(entities), &brief.Claim.Entities); err != nil {
		return nil, fmt.Errorf("failed to unmarshal entities: %w", err)
	}
	if err := json.Unmarshal([]byte(warnings), &brief.Warnings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal warnings: %w", err)
	}

	evidence, err := s.getEvidence(ctx, brief.ID)
	if err != nil {
		return nil, err
	}
	brief.Evidence = evidence

	return &brief, nil
}

func (s *SQLiteStore) getEvidence(ctx context.Context, briefID string) ([]models.ScoredEvidence, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT kind, similarity, source_trust, confidence,
			title, link, published_at, author, body, posted_at, follower_count, account_age_seconds
		FROM evidence WHERE brief_id = ? ORDER BY position`, briefID)
	if err != nil {
		return nil, fmt.Errorf("failed to query evidence: %w", err)
	}
	defer rows.Close()

	evidence := []models.ScoredEvidence{}
	for rows.Next() {
		var (
			kind                     string
			sim, trust, conf         float64
			title, link, publishedAt string
			author, body             string
			postedAt                 sql.NullTime
			followers                int
			accountAgeSecs           int64
		)
		if err := rows.Scan(&kind, &sim, &trust, &conf,
			&title, &link, &publishedAt, &author, &body, &postedAt, &followers, &accountAgeSecs); err != nil {
			return nil, fmt.Errorf("failed to scan evidence: %w", err)
		}

		var candidate models.CandidateEvidence
		switch models.EvidenceKind(kind) {
		case models.KindArticle:
			candidate = models.ArticleEvidence{Title: title, Link: link, PublishedAt: publishedAt}
		case models.KindSocialPost:
			candidate = models.SocialPostEvidence{
				Author:        author,
				Text:          body,
				PostedAt:      postedAt.Time,
				FollowerCount: followers,
				AccountAge:    time.Duration(accountAgeSecs) * time.Second,
			}
		default:
			return nil, fmt.Errorf("unknown evidence kind: %s", kind)
		}

		evidence = append(evidence, models.ScoredEvidence{
			EvidenceKind:     models.EvidenceKind(kind),
			Evidence:         candidate,
			SimilarityScore:  sim,
			SourceTrustScore: trust,
			ConfidenceScore:  conf,
		})
	}

	return evidence, rows.Err()
}

// ListBriefs returns brief summaries ordered by creation time descending.
func (s *SQLiteStore) ListBriefs(ctx context.Context, limit, offset int) ([]*models.BriefSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT b.id, b.claim_text, b.top_confidence, b.tier,
			(SELECT COUNT(*) FROM evidence e WHERE e.brief_id = b.id),
			b.created_at
		FROM briefs b ORDER BY b.created_at DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list briefs: %w", err)
	}
	defer rows.Close()

	summaries := []*models.BriefSummary{}
	for rows.Next() {
		var sum models.BriefSummary
		var tier string
		if err := rows.Scan(&sum.ID, &sum.ClaimText, &sum.TopConfidence, &tier, &sum.EvidenceCount, &sum.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan brief summary: %w", err)
		}
		sum.Tier = models.Tier(tier)
		summaries = append(summaries, &sum)
	}

	return summaries, rows.Err()
}

// CreateAPIKey stores a new API key.
func (s *SQLiteStore) CreateAPIKey(ctx context.Context, key *models.APIKey) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO api_keys (id, key_hash, name, requests_per_minute, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		key.ID, key.KeyHash, key.Name, key.RequestsPerMinute, key.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create API key: %w", err)
	}
	return nil
}

// GetAPIKeyByHash looks up an API key by its hash, or nil when absent.
func (s *SQLiteStore) GetAPIKeyByHash(ctx context.Context, hash string) (*models.APIKey, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, key_hash, name, requests_per_minute, created_at, last_used_at
		FROM api_keys WHERE key_hash = ?`, hash)

	var key models.APIKey
	var lastUsed sql.NullTime
	err := row.Scan(&key.ID, &key.KeyHash, &key.Name, &key.RequestsPerMinute, &key.CreatedAt, &lastUsed)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query API key: %w", err)
	}
	if lastUsed.Valid {
		key.LastUsedAt = &lastUsed.Time
	}

	return &key, nil
}

// UpdateAPIKeyLastUsed records when a key was last used.
func (s *SQLiteStore) UpdateAPIKeyLastUsed(ctx context.Context, id string, t time.Time) error {
	_, err := s.db.ExecContext(ctx, `UPDATE api_keys SET last_used_at = ? WHERE id = ?`, t, id)
	return err
}

// DeleteAPIKey removes an API key.
func (s *SQLiteStore) DeleteAPIKey(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM api_keys WHERE id = ?`, id)
	return err
}

// ListAPIKeys returns all API keys.
func (s *SQLiteStore) ListAPIKeys(ctx context.Context) ([]*models.APIKey, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, key_hash, name, requests_per_minute, created_at, last_used_at
		FROM api_keys ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list API keys: %w", err)
	}
	defer rows.Close()

	keys := []*models.APIKey{}
	for rows.Next() {
		var key models.APIKey
		var lastUsed sql.NullTime
		if err := rows.Scan(&key.ID, &key.KeyHash, &key.Name, &key.RequestsPerMinute, &key.CreatedAt, &lastUsed); err != nil {
			return nil, fmt.Errorf("failed to scan API key: %w", err)
		}
		if lastUsed.Valid {
			key.LastUsedAt = &lastUsed.Time
		}
		keys = append(keys, &key)
	}

	return keys, rows.Err()
}

// LogRequest stores an audit log entry.
func (s *SQLiteStore) LogRequest(ctx context.Context, entry *models.AuditLog) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_logs (id, api_key_id, endpoint, method, request_size, response_code, duration_ms, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.APIKeyID, entry.Endpoint, entry.Method, entry.RequestSize,
		entry.ResponseCode, entry.DurationMs, entry.Timestamp)
	return err
}

// GetAuditLogs returns paginated audit log entries, newest first.
func (s *SQLiteStore) GetAuditLogs(ctx context.Context, limit, offset int) ([]*models.AuditLog, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, api_key_id, endpoint, method, request_size, response_code, duration_ms, timestamp
		FROM audit_logs ORDER BY timestamp DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit logs: %w", err)
	}
	defer rows.Close()

	logs := []*models.AuditLog{}
	for rows.Next() {
		var entry models.AuditLog
		if err := rows.Scan(&entry.ID, &entry.APIKeyID, &entry.Endpoint, &entry.Method,
			&entry.RequestSize, &entry.ResponseCode, &entry.DurationMs, &entry.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan audit log: %w", err)
		}
		logs = append(logs, &entry)
	}

	return logs, rows.Err()
}
