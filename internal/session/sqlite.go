package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/spotrec/internal/models"
)

// SQLiteStore is a [Store] backed by the sessions table.
//
// The schema comes from [shared.RunMigrations].
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore creates a [SQLiteStore] over an already migrated database.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db, now: time.Now}
}

func (s *SQLiteStore) Load(ctx context.Context, id string) (*models.TokenBundle, error) {
	query := `SELECT bundle, expires_at FROM sessions WHERE id = ?`

	var (
		raw       string
		expiresAt int64
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(&raw, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}

	if expiresAt > 0 && s.now().UnixMilli() >= expiresAt {
		return nil, nil
	}

	var bundle models.TokenBundle
	if err := json.Unmarshal([]byte(raw), &bundle); err != nil {
		return nil, fmt.Errorf("failed to decode session bundle: %w", err)
	}
	return &bundle, nil
}

// Save upserts the bundle. A ttl of zero stores an entry that never expires.
func (s *SQLiteStore) Save(ctx context.Context, id string, bundle *models.TokenBundle, ttl time.Duration) error {
	raw, err := json.Marshal(bundle)
	if err != nil {
		return fmt.Errorf("failed to encode session bundle: %w", err)
	}

	now := s.now()
	var expiresAt int64
	if ttl > 0 {
		expiresAt = now.Add(ttl).UnixMilli()
	}

	query := `
		INSERT INTO sessions (id, bundle, expires_at, created_at, updated_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET bundle = excluded.bundle, expires_at = excluded.expires_at, updated_at = excluded.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query, id, string(raw), expiresAt, now.UnixMilli(), now.UnixMilli()); err != nil {
		return fmt.Errorf("failed to upsert session: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Prune deletes expired sessions and returns how many rows were removed.
func (s *SQLiteStore) Prune(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at > 0 AND expires_at <= ?`, s.now().UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to prune sessions: %w", err)
	}
	return res.RowsAffected()
}
