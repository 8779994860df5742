package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"staysync/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sessionRowColumns = []string{"id", "user_id", "token", "csrf_token", "flash", "return_to", "expires_at", "created_at"}

func newTestSessionRepository(t *testing.T, now time.Time) (*SessionRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	setupSessionRepositoryMocks(mock)

	repo, err := NewSessionRepository(db)
	require.NoError(t, err)
	repo.now = func() time.Time { return now }
	return repo, mock
}

func TestNewSessionRepository(t *testing.T) {
	t.Run("prepares_all_statements", func(t *testing.T) {
		_, mock := newTestSessionRepository(t, time.Now())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("fails_when_prepare_update_fails", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectPrepare(regexp.QuoteMeta(`INSERT INTO sessions`))
		mock.ExpectPrepare(regexp.QuoteMeta(`WHERE token = $1 AND expires_at > $2`))
		mock.ExpectPrepare(regexp.QuoteMeta(`UPDATE sessions`)).WillReturnError(errors.New("prepare failed"))

		repo, err := NewSessionRepository(db)
		require.Error(t, err)
		assert.Nil(t, repo)
		assert.Contains(t, err.Error(), "failed to prepare update statement")
	})
}

func TestSessionRepository_Create(t *testing.T) {
	t.Run("anonymous_session_stores_null_user", func(t *testing.T) {
		repo, mock := newTestSessionRepository(t, time.Now())
		expires := time.Now().Add(7 * 24 * time.Hour)
		createdAt := time.Now()

		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO sessions`)).
			WithArgs(sql.NullString{}, "token123", "csrf123", "{}", "", expires).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("sess-1", createdAt))

		session := &domain.Session{Token: "token123", CSRFToken: "csrf123", ExpiresAt: expires}

		require.NoError(t, repo.Create(context.Background(), session))
		assert.Equal(t, "sess-1", session.ID)
		assert.Equal(t, createdAt, session.CreatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("authenticated_session_with_flash", func(t *testing.T) {
		repo, mock := newTestSessionRepository(t, time.Now())
		expires := time.Now().Add(time.Hour)

		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO sessions`)).
			WithArgs(sql.NullString{String: testUserID, Valid: true}, "token123", "csrf123",
				`{"success":["Welcome back to StaySync!"]}`, "/listings/new", expires).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("sess-1", time.Now()))

		session := &domain.Session{
			UserID:    testUserID,
			Token:     "token123",
			CSRFToken: "csrf123",
			Flash:     domain.Flash{domain.FlashSuccess: {"Welcome back to StaySync!"}},
			ReturnTo:  "/listings/new",
			ExpiresAt: expires,
		}

		require.NoError(t, repo.Create(context.Background(), session))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database_error", func(t *testing.T) {
		repo, mock := newTestSessionRepository(t, time.Now())

		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO sessions`)).
			WillReturnError(errors.New("database error"))

		err := repo.Create(context.Background(), &domain.Session{Token: "token123"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create session")
	})
}

func TestSessionRepository_GetByToken(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("decodes_flash_and_user", func(t *testing.T) {
		repo, mock := newTestSessionRepository(t, now)
		expires := now.Add(time.Hour)

		mock.ExpectQuery(regexp.QuoteMeta(`WHERE token = $1 AND expires_at > $2`)).
			WithArgs("token123", now).
			WillReturnRows(sqlmock.NewRows(sessionRowColumns).AddRow(
				"sess-1", testUserID, "token123", "csrf123",
				[]byte(`{"error":["You must be logged in to do that!"]}`), "/listings/new", expires, now))

		session, err := repo.GetByToken(context.Background(), "token123")
		require.NoError(t, err)
		assert.Equal(t, testUserID, session.UserID)
		assert.Equal(t, []string{"You must be logged in to do that!"}, session.Flash[domain.FlashError])
		assert.Equal(t, "/listings/new", session.ReturnTo)
		assert.True(t, session.IsAuthenticated())
	})

	t.Run("anonymous_session_has_empty_user", func(t *testing.T) {
		repo, mock := newTestSessionRepository(t, now)

		mock.ExpectQuery(regexp.QuoteMeta(`WHERE token = $1 AND expires_at > $2`)).
			WillReturnRows(sqlmock.NewRows(sessionRowColumns).AddRow(
				"sess-1", nil, "token123", "csrf123", []byte(`{}`), "", now.Add(time.Hour), now))

		session, err := repo.GetByToken(context.Background(), "token123")
		require.NoError(t, err)
		assert.False(t, session.IsAuthenticated())
		assert.True(t, session.Flash.Empty())
	})

	t.Run("missing_or_expired", func(t *testing.T) {
		repo, mock := newTestSessionRepository(t, now)

		mock.ExpectQuery(regexp.QuoteMeta(`WHERE token = $1 AND expires_at > $2`)).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByToken(context.Background(), "stale")
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})
}

func TestSessionRepository_Update(t *testing.T) {
	t.Run("updates_by_token", func(t *testing.T) {
		repo, mock := newTestSessionRepository(t, time.Now())
		expires := time.Now().Add(time.Hour)

		mock.ExpectExec(regexp.QuoteMeta(`UPDATE sessions`)).
			WithArgs(sql.NullString{}, "csrf123", "{}", "", expires, "token123").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Update(context.Background(), &domain.Session{Token: "token123", CSRFToken: "csrf123", ExpiresAt: expires})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing_row", func(t *testing.T) {
		repo, mock := newTestSessionRepository(t, time.Now())

		mock.ExpectExec(regexp.QuoteMeta(`UPDATE sessions`)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Update(context.Background(), &domain.Session{Token: "gone"})
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})
}

func TestSessionRepository_Delete(t *testing.T) {
	repo, mock := newTestSessionRepository(t, time.Now())

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM sessions WHERE token = $1`)).
		WithArgs("token123").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "token123"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepository_DeleteExpired(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("returns_removed_count", func(t *testing.T) {
		repo, mock := newTestSessionRepository(t, now)

		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM sessions WHERE expires_at <= $1`)).
			WithArgs(now).
			WillReturnResult(sqlmock.NewResult(0, 5))

		count, err := repo.DeleteExpired(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(5), count)
	})

	t.Run("database_error", func(t *testing.T) {
		repo, mock := newTestSessionRepository(t, now)

		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM sessions WHERE expires_at <= $1`)).
			WillReturnError(errors.New("database error"))

		_, err := repo.DeleteExpired(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to delete expired sessions")
	})
}

func setupSessionRepositoryMocks(mock sqlmock.Sqlmock) {
	mock.ExpectPrepare(regexp.QuoteMeta(`INSERT INTO sessions`))
	mock.ExpectPrepare(regexp.QuoteMeta(`WHERE token = $1 AND expires_at > $2`))
	mock.ExpectPrepare(regexp.QuoteMeta(`UPDATE sessions`))
	mock.ExpectPrepare(regexp.QuoteMeta(`DELETE FROM sessions WHERE token = $1`))
	mock.ExpectPrepare(regexp.QuoteMeta(`DELETE FROM sessions WHERE expires_at <= $1`))
}
