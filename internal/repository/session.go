package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/reetreev/dashboard/internal/domain"
)

type SessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, session domain.Session) (domain.Session, error) {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	if session.StartedAt.IsZero() {
		session.StartedAt = time.Now().UTC()
	}
	if session.SyncState == "" {
		session.SyncState = domain.SyncClean
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (id, uid, title, session_type, started_at, ended_at, sync_state)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, session.ID, session.UID, session.Title, session.SessionType, session.StartedAt, session.EndedAt, session.SyncState)
	return session, err
}

func (r *SessionRepository) List(ctx context.Context, uid string) ([]domain.Session, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, uid, title, session_type, started_at, ended_at, sync_state
		FROM sessions
		WHERE uid = $1
		ORDER BY started_at DESC
	`, uid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []domain.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

func (r *SessionRepository) Get(ctx context.Context, uid, id string) (domain.Session, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, uid, title, session_type, started_at, ended_at, sync_state
		FROM sessions
		WHERE uid = $1 AND id = $2
	`, uid, id)
	return scanSession(row)
}

func (r *SessionRepository) End(ctx context.Context, uid, id string, endedAt time.Time) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE sessions
		SET ended_at = $1
		WHERE uid = $2 AND id = $3
	`, endedAt, uid, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes the session; transcripts, messages, and the summary cascade.
func (r *SessionRepository) Delete(ctx context.Context, uid, id string) error {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM sessions
		WHERE uid = $1 AND id = $2
	`, uid, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func scanSession(row rowScanner) (domain.Session, error) {
	var session domain.Session
	var endedAt sql.NullTime
	err := row.Scan(&session.ID, &session.UID, &session.Title, &session.SessionType,
		&session.StartedAt, &endedAt, &session.SyncState)
	if err != nil {
		return domain.Session{}, err
	}
	if endedAt.Valid {
		value := endedAt.Time
		session.EndedAt = &value
	}
	return session, nil
}
