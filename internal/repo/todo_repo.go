package repo

import (
	"context"
	"time"

	dom "hubplus/internal/domain"
)

type TodoRepo interface {
	Create(ctx context.Context, t dom.Todo) (dom.Todo, error)
	GetByID(ctx context.Context, userID, id int64) (dom.Todo, error)
	List(ctx context.Context, userID int64) ([]dom.Todo, error)
	ListByGoal(ctx context.Context, userID, goalID int64) ([]dom.Todo, error)
	Update(ctx context.Context, userID, id int64, patch dom.Todo) (dom.Todo, error)
	SoftDelete(ctx context.Context, userID, id int64) (bool, error)
	MarkDone(ctx context.Context, userID, id int64, done bool) (dom.Todo, error)
	Search(ctx context.Context, userID int64, q string) ([]dom.Todo, error)
	Overdue(ctx context.Context, userID int64, now time.Time) ([]dom.Todo, error)
}

type PGTodoRepo struct {
	db *DB
}

func NewPGTodoRepo(db *DB) *PGTodoRepo {
	return &PGTodoRepo{db: db}
}

const todoColumns = `id, user_id, goal_id, title, description, is_done, due_at, created_at, updated_at, deleted_at`

func scanTodo(row scanner) (dom.Todo, error) {
	var t dom.Todo
	err := row.Scan(&t.ID, &t.UserID, &t.GoalID, &t.Title, &t.Description, &t.IsDone, &t.DueAt,
		&t.CreatedAt, &t.UpdatedAt, &t.DeletedAt)
	return t, err
}

func (r *PGTodoRepo) Create(ctx context.Context, t dom.Todo) (dom.Todo, error) {
	query := `
		INSERT INTO todos (user_id, goal_id, title, description, due_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + todoColumns
	return scanTodo(r.db.QueryRow(ctx, query, t.UserID, t.GoalID, t.Title, t.Description, t.DueAt))
}

func (r *PGTodoRepo) GetByID(ctx context.Context, userID, id int64) (dom.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`
	return scanTodo(r.db.QueryRow(ctx, query, id, userID))
}

func (r *PGTodoRepo) List(ctx context.Context, userID int64) ([]dom.Todo, error) {
	query := `
		SELECT ` + todoColumns + `
		FROM todos WHERE user_id = $1 AND deleted_at IS NULL ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanTodo)
}

func (r *PGTodoRepo) ListByGoal(ctx context.Context, userID, goalID int64) ([]dom.Todo, error) {
	query := `
		SELECT ` + todoColumns + `
		FROM todos WHERE user_id = $1 AND goal_id = $2 AND deleted_at IS NULL ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, userID, goalID)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanTodo)
}

func (r *PGTodoRepo) Update(ctx context.Context, userID, id int64, patch dom.Todo) (dom.Todo, error) {
	query := `
		UPDATE todos SET title = $3, description = $4, due_at = $5, is_done = $6, goal_id = $7, updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
		RETURNING ` + todoColumns
	return scanTodo(r.db.QueryRow(ctx, query, id, userID,
		patch.Title, patch.Description, patch.DueAt, patch.IsDone, patch.GoalID))
}

// SoftDelete reports whether a live row was deleted.
func (r *PGTodoRepo) SoftDelete(ctx context.Context, userID, id int64) (bool, error) {
	now := time.Now().UTC()
	tag, err := r.db.Exec(ctx,
		`UPDATE todos SET deleted_at = $3, updated_at = $3 WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`,
		id, userID, now)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PGTodoRepo) MarkDone(ctx context.Context, userID, id int64, done bool) (dom.Todo, error) {
	query := `
		UPDATE todos SET is_done = $3, updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
		RETURNING ` + todoColumns
	return scanTodo(r.db.QueryRow(ctx, query, id, userID, done))
}

func (r *PGTodoRepo) Search(ctx context.Context, userID int64, q string) ([]dom.Todo, error) {
	pattern := "%" + q + "%"
	query := `
		SELECT ` + todoColumns + `
		FROM todos WHERE user_id = $1 AND deleted_at IS NULL AND (title ILIKE $2 OR description ILIKE $2)
		ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, userID, pattern)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanTodo)
}

func (r *PGTodoRepo) Overdue(ctx context.Context, userID int64, now time.Time) ([]dom.Todo, error) {
	query := `
		SELECT ` + todoColumns + `
		FROM todos WHERE user_id = $1 AND deleted_at IS NULL AND is_done = FALSE AND due_at IS NOT NULL AND due_at < $2
		ORDER BY due_at ASC`
	rows, err := r.db.Query(ctx, query, userID, now)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanTodo)
}
