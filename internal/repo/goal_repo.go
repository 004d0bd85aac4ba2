package repo

import (
	"context"
	"time"

	dom "hubplus/internal/domain"
)

type GoalRepo interface {
	Create(ctx context.Context, g dom.Goal) (dom.Goal, error)
	GetByID(ctx context.Context, userID, id int64) (dom.Goal, error)
	List(ctx context.Context, userID int64) ([]dom.Goal, error)
	Update(ctx context.Context, userID, id int64, patch dom.Goal) (dom.Goal, error)
	SoftDelete(ctx context.Context, userID, id int64) (bool, error)
	Progress(ctx context.Context, userID, id int64) (dom.GoalProgress, error)
}

type PGGoalRepo struct {
	db *DB
}

func NewPGGoalRepo(db *DB) *PGGoalRepo {
	return &PGGoalRepo{db: db}
}

const goalColumns = `id, user_id, title, description, status, target_date, created_at, updated_at, deleted_at`

func scanGoal(row scanner) (dom.Goal, error) {
	var g dom.Goal
	err := row.Scan(&g.ID, &g.UserID, &g.Title, &g.Description, &g.Status, &g.TargetDate,
		&g.CreatedAt, &g.UpdatedAt, &g.DeletedAt)
	return g, err
}

func (r *PGGoalRepo) Create(ctx context.Context, g dom.Goal) (dom.Goal, error) {
	query := `
		INSERT INTO goals (user_id, title, description, status, target_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + goalColumns
	return scanGoal(r.db.QueryRow(ctx, query, g.UserID, g.Title, g.Description, g.Status, g.TargetDate))
}

func (r *PGGoalRepo) GetByID(ctx context.Context, userID, id int64) (dom.Goal, error) {
	return scanGoal(r.db.QueryRow(ctx,
		`SELECT `+goalColumns+` FROM goals WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`, id, userID))
}

func (r *PGGoalRepo) List(ctx context.Context, userID int64) ([]dom.Goal, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+goalColumns+` FROM goals WHERE user_id = $1 AND deleted_at IS NULL ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanGoal)
}

func (r *PGGoalRepo) Update(ctx context.Context, userID, id int64, patch dom.Goal) (dom.Goal, error) {
	query := `
		UPDATE goals SET title = $3, description = $4, status = $5, target_date = $6, updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
		RETURNING ` + goalColumns
	return scanGoal(r.db.QueryRow(ctx, query, id, userID, patch.Title, patch.Description, patch.Status, patch.TargetDate))
}

// SoftDelete also unlinks the goal's todos so they stay visible on their own.
func (r *PGGoalRepo) SoftDelete(ctx context.Context, userID, id int64) (bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	now := time.Now().UTC()
	tag, err := tx.Exec(ctx,
		`UPDATE goals SET deleted_at = $3, updated_at = $3 WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`,
		id, userID, now)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}
	if _, err := tx.Exec(ctx,
		`UPDATE todos SET goal_id = NULL, updated_at = $3 WHERE goal_id = $1 AND user_id = $2`,
		id, userID, now); err != nil {
		return false, err
	}
	return true, tx.Commit(ctx)
}

func (r *PGGoalRepo) Progress(ctx context.Context, userID, id int64) (dom.GoalProgress, error) {
	var p dom.GoalProgress
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE is_done)
		FROM todos WHERE user_id = $1 AND goal_id = $2 AND deleted_at IS NULL`,
		userID, id).Scan(&p.Total, &p.Done)
	return p, err
}
