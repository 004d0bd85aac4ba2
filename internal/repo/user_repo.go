package repo

import (
	"context"

	dom "hubplus/internal/domain"
)

// UserRepo provides user persistence.
type UserRepo interface {
	GetByUsername(ctx context.Context, username string) (dom.User, error)
	GetByID(ctx context.Context, id int64) (dom.User, error)
	Create(ctx context.Context, username, passwordHash, role string) (dom.User, error)
	SetRole(ctx context.Context, username, role string) (dom.User, error)
}

// PGUserRepo implements UserRepo with Postgres.
type PGUserRepo struct {
	db *DB
}

// NewPGUserRepo returns a new PGUserRepo.
func NewPGUserRepo(db *DB) *PGUserRepo {
	return &PGUserRepo{db: db}
}

const userColumns = `id, username, password_hash, role, created_at`

func scanUser(row scanner) (dom.User, error) {
	var u dom.User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.CreatedAt)
	return u, err
}

// GetByUsername returns the user by username.
func (r *PGUserRepo) GetByUsername(ctx context.Context, username string) (dom.User, error) {
	return scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username))
}

func (r *PGUserRepo) GetByID(ctx context.Context, id int64) (dom.User, error) {
	return scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

// Create inserts a new user and returns it.
func (r *PGUserRepo) Create(ctx context.Context, username, passwordHash, role string) (dom.User, error) {
	query := `
		INSERT INTO users (username, password_hash, role)
		VALUES ($1, $2, $3)
		RETURNING ` + userColumns
	return scanUser(r.db.QueryRow(ctx, query, username, passwordHash, role))
}

func (r *PGUserRepo) SetRole(ctx context.Context, username, role string) (dom.User, error) {
	return scanUser(r.db.QueryRow(ctx,
		`UPDATE users SET role = $2 WHERE username = $1 RETURNING `+userColumns, username, role))
}
