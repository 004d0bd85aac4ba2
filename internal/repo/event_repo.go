package repo

import (
	"context"
	"errors"

	dom "hubplus/internal/domain"

	"github.com/jackc/pgx/v5"
)

// ErrDuplicateRegistration is returned when the email already holds an active registration.
var ErrDuplicateRegistration = errors.New("duplicate registration")

type EventRepo interface {
	CreateSession(ctx context.Context, s dom.EventSession) (dom.EventSession, error)
	GetSession(ctx context.Context, id int64) (dom.EventSession, error)
	ListSessions(ctx context.Context) ([]dom.EventSession, error)
	UpdateSession(ctx context.Context, id int64, patch dom.EventSession) (dom.EventSession, error)
	DeleteSession(ctx context.Context, id int64) (bool, error)

	Register(ctx context.Context, sessionID int64, email, name string) (dom.Registration, error)
	// CancelRegistration returns the cancelled registration and the promoted one, if any.
	CancelRegistration(ctx context.Context, sessionID, registrationID int64) (dom.Registration, *dom.Registration, error)
	ListRegistrations(ctx context.Context, sessionID int64) ([]dom.Registration, error)
}

type PGEventRepo struct {
	db *DB
}

func NewPGEventRepo(db *DB) *PGEventRepo {
	return &PGEventRepo{db: db}
}

const sessionColumns = `id, title, starts_at, ends_at, capacity, created_at, updated_at, deleted_at`

func scanSession(row scanner) (dom.EventSession, error) {
	var s dom.EventSession
	err := row.Scan(&s.ID, &s.Title, &s.StartsAt, &s.EndsAt, &s.Capacity, &s.CreatedAt, &s.UpdatedAt, &s.DeletedAt)
	return s, err
}

const registrationColumns = `id, session_id, email, name, status, created_at`

func scanRegistration(row scanner) (dom.Registration, error) {
	var r dom.Registration
	err := row.Scan(&r.ID, &r.SessionID, &r.Email, &r.Name, &r.Status, &r.CreatedAt)
	return r, err
}

func (r *PGEventRepo) CreateSession(ctx context.Context, s dom.EventSession) (dom.EventSession, error) {
	return scanSession(r.db.QueryRow(ctx, `
		INSERT INTO event_sessions (title, starts_at, ends_at, capacity)
		VALUES ($1, $2, $3, $4)
		RETURNING `+sessionColumns, s.Title, s.StartsAt, s.EndsAt, s.Capacity))
}

func (r *PGEventRepo) GetSession(ctx context.Context, id int64) (dom.EventSession, error) {
	return scanSession(r.db.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM event_sessions WHERE id = $1 AND deleted_at IS NULL`, id))
}

func (r *PGEventRepo) ListSessions(ctx context.Context) ([]dom.EventSession, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+sessionColumns+` FROM event_sessions WHERE deleted_at IS NULL ORDER BY starts_at`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanSession)
}

func (r *PGEventRepo) UpdateSession(ctx context.Context, id int64, patch dom.EventSession) (dom.EventSession, error) {
	return scanSession(r.db.QueryRow(ctx, `
		UPDATE event_sessions SET title = $2, starts_at = $3, ends_at = $4, capacity = $5, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING `+sessionColumns, id, patch.Title, patch.StartsAt, patch.EndsAt, patch.Capacity))
}

func (r *PGEventRepo) DeleteSession(ctx context.Context, id int64) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE event_sessions SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Register locks the session row so concurrent registrations see consistent counts.
func (r *PGEventRepo) Register(ctx context.Context, sessionID int64, email, name string) (dom.Registration, error) {
	var out dom.Registration
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var capacity int
		err := tx.QueryRow(ctx,
			`SELECT capacity FROM event_sessions WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`,
			sessionID).Scan(&capacity)
		if err != nil {
			return err
		}

		var dup bool
		if err := tx.QueryRow(ctx, `
			SELECT EXISTS (SELECT 1 FROM registrations
			WHERE session_id = $1 AND lower(email) = lower($2) AND status <> 'cancelled')`,
			sessionID, email).Scan(&dup); err != nil {
			return err
		}
		if dup {
			return ErrDuplicateRegistration
		}

		var confirmed, waitlisted int
		if err := tx.QueryRow(ctx, `
			SELECT COUNT(*) FILTER (WHERE status = 'confirmed'), COUNT(*) FILTER (WHERE status = 'waitlisted')
			FROM registrations WHERE session_id = $1`, sessionID).Scan(&confirmed, &waitlisted); err != nil {
			return err
		}

		status, position := dom.Admit(capacity, confirmed, waitlisted)
		out, err = scanRegistration(tx.QueryRow(ctx, `
			INSERT INTO registrations (session_id, email, name, status)
			VALUES ($1, $2, $3, $4)
			RETURNING `+registrationColumns, sessionID, email, name, status))
		out.Position = position
		return err
	})
	return out, err
}

func (r *PGEventRepo) CancelRegistration(ctx context.Context, sessionID, registrationID int64) (dom.Registration, *dom.Registration, error) {
	var cancelled dom.Registration
	var promoted *dom.Registration
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var capacity int
		if err := tx.QueryRow(ctx,
			`SELECT capacity FROM event_sessions WHERE id = $1 FOR UPDATE`, sessionID).Scan(&capacity); err != nil {
			return err
		}

		var prev string
		if err := tx.QueryRow(ctx, `
			SELECT status FROM registrations WHERE id = $1 AND session_id = $2 AND status <> 'cancelled'`,
			registrationID, sessionID).Scan(&prev); err != nil {
			return err
		}

		var err error
		cancelled, err = scanRegistration(tx.QueryRow(ctx, `
			UPDATE registrations SET status = 'cancelled' WHERE id = $1
			RETURNING `+registrationColumns, registrationID))
		if err != nil {
			return err
		}
		if prev != dom.RegistrationConfirmed {
			return nil
		}

		// a lowered capacity keeps the waitlist closed until confirmations drop under it
		next, err := scanRegistration(tx.QueryRow(ctx, `
			UPDATE registrations SET status = 'confirmed'
			WHERE id = (
				SELECT id FROM registrations
				WHERE session_id = $1 AND status = 'waitlisted'
				ORDER BY created_at, id LIMIT 1
			)
			AND (SELECT COUNT(*) FROM registrations WHERE session_id = $1 AND status = 'confirmed') < $2
			RETURNING `+registrationColumns, sessionID, capacity))
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		promoted = &next
		return nil
	})
	return cancelled, promoted, err
}

// ListRegistrations returns active registrations; waitlisted ones carry their position.
func (r *PGEventRepo) ListRegistrations(ctx context.Context, sessionID int64) ([]dom.Registration, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+registrationColumns+` FROM registrations
		WHERE session_id = $1 AND status <> 'cancelled'
		ORDER BY CASE status WHEN 'confirmed' THEN 0 ELSE 1 END, created_at, id`, sessionID)
	if err != nil {
		return nil, err
	}
	list, err := collect(rows, scanRegistration)
	if err != nil {
		return nil, err
	}
	dom.AssignWaitlistPositions(list)
	return list, nil
}
