package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"staysync/internal/domain"
)

const sessionColumns = `id, user_id, token, csrf_token, flash, return_to, expires_at, created_at`

// SessionRepository implements domain.SessionRepository for PostgreSQL
type SessionRepository struct {
	db                *sql.DB
	createStmt        *sql.Stmt
	getByTokenStmt    *sql.Stmt
	updateStmt        *sql.Stmt
	deleteStmt        *sql.Stmt
	deleteExpiredStmt *sql.Stmt
	now               func() time.Time
}

// NewSessionRepository creates a new SessionRepository with prepared statements.
// Returns an error if statement preparation fails.
func NewSessionRepository(db *sql.DB) (*SessionRepository, error) {
	repo := &SessionRepository{db: db, now: time.Now}

	var err error
	repo.createStmt, err = db.Prepare(`
		INSERT INTO sessions (user_id, token, csrf_token, flash, return_to, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare create statement: %w", err)
	}

	repo.getByTokenStmt, err = db.Prepare(`
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE token = $1 AND expires_at > $2
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare getByToken statement: %w", err)
	}

	repo.updateStmt, err = db.Prepare(`
		UPDATE sessions
		SET user_id = $1, csrf_token = $2, flash = $3, return_to = $4, expires_at = $5
		WHERE token = $6
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare update statement: %w", err)
	}

	repo.deleteStmt, err = db.Prepare(`DELETE FROM sessions WHERE token = $1`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare delete statement: %w", err)
	}

	repo.deleteExpiredStmt, err = db.Prepare(`DELETE FROM sessions WHERE expires_at <= $1`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare deleteExpired statement: %w", err)
	}

	return repo, nil
}

func (r *SessionRepository) Create(ctx context.Context, session *domain.Session) error {
	flash, err := encodeFlash(session.Flash)
	if err != nil {
		return err
	}

	err = r.createStmt.QueryRowContext(ctx,
		nullableID(session.UserID),
		session.Token,
		session.CSRFToken,
		flash,
		session.ReturnTo,
		session.ExpiresAt,
	).Scan(&session.ID, &session.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (r *SessionRepository) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	session := &domain.Session{}
	var (
		userID sql.NullString
		flash  []byte
	)

	err := r.getByTokenStmt.QueryRowContext(ctx, token, r.now()).Scan(
		&session.ID,
		&userID,
		&session.Token,
		&session.CSRFToken,
		&flash,
		&session.ReturnTo,
		&session.ExpiresAt,
		&session.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session by token: %w", err)
	}

	session.UserID = userID.String
	if len(flash) > 0 {
		if err := json.Unmarshal(flash, &session.Flash); err != nil {
			return nil, fmt.Errorf("failed to decode session flash: %w", err)
		}
	}
	return session, nil
}

// Update persists the mutable session fields. The token identifies the row.
func (r *SessionRepository) Update(ctx context.Context, session *domain.Session) error {
	flash, err := encodeFlash(session.Flash)
	if err != nil {
		return err
	}

	result, err := r.updateStmt.ExecContext(ctx,
		nullableID(session.UserID),
		session.CSRFToken,
		flash,
		session.ReturnTo,
		session.ExpiresAt,
		session.Token,
	)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, token string) error {
	_, err := r.deleteStmt.ExecContext(ctx, token)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (r *SessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := r.deleteExpiredStmt.ExecContext(ctx, r.now())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return count, nil
}

// Close releases the prepared statements.
func (r *SessionRepository) Close() error {
	return errors.Join(
		r.createStmt.Close(),
		r.getByTokenStmt.Close(),
		r.updateStmt.Close(),
		r.deleteStmt.Close(),
		r.deleteExpiredStmt.Close(),
	)
}

func encodeFlash(flash domain.Flash) (string, error) {
	if flash.Empty() {
		return "{}", nil
	}
	b, err := json.Marshal(flash)
	if err != nil {
		return "", fmt.Errorf("failed to encode session flash: %w", err)
	}
	return string(b), nil
}

func nullableID(id string) sql.NullString {
	return sql.NullString{String: id, Valid: id != ""}
}
