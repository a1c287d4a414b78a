package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/medspa/internal/models"
	"github.com/desertthunder/medspa/internal/shared"
)

// SessionRepository persists [models.Session] records.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new [SessionRepository] with the given database connection
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts session, generating an ID and creation time when unset.
func (r *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	if session.ID == "" {
		session.ID = shared.GenerateID()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}
	if session.UserID == "" {
		return fmt.Errorf("%w: session user ID is required", shared.ErrInvalidInput)
	}
	if session.AccessToken == "" {
		return fmt.Errorf("%w: session access token is required", shared.ErrInvalidInput)
	}

	query := `
		INSERT INTO sessions (id, user_id, access_token, refresh_token, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	var expiresAt sql.NullTime
	if !session.ExpiresAt.IsZero() {
		expiresAt = sql.NullTime{Time: session.ExpiresAt.UTC(), Valid: true}
	}

	_, err := r.db.ExecContext(ctx, query,
		session.ID, session.UserID, session.AccessToken, session.RefreshToken, expiresAt, session.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

// Get retrieves a session by ID.
//
// Returns [shared.ErrSessionNotFound] for unknown IDs and [shared.ErrSessionExpired] for expired ones.
func (r *SessionRepository) Get(ctx context.Context, id string) (*models.Session, error) {
	query := `
		SELECT id, user_id, access_token, refresh_token, expires_at, created_at
		FROM sessions
		WHERE id = ?
	`

	var (
		session   models.Session
		expiresAt sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&session.ID, &session.UserID, &session.AccessToken, &session.RefreshToken, &expiresAt, &session.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrSessionNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}

	if expiresAt.Valid {
		session.ExpiresAt = expiresAt.Time
	}
	if session.Expired(time.Now()) {
		return nil, fmt.Errorf("%w: %s", shared.ErrSessionExpired, id)
	}

	return &session, nil
}

// Delete removes a session by ID.
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	err := execOne(ctx, r.db, fmt.Errorf("%w: %s", shared.ErrSessionNotFound, id), "DELETE FROM sessions WHERE id = ?", id)
	if err != nil && !errors.Is(err, shared.ErrSessionNotFound) {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return err
}

// DeleteExpired removes sessions whose expiry has passed and returns how many were removed.
func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM sessions WHERE expires_at IS NOT NULL AND expires_at < ?", now.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return result.RowsAffected()
}
