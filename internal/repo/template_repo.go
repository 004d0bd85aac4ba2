package repo

import (
	"context"

	dom "hubplus/internal/domain"
)

type TemplateRepo interface {
	Create(ctx context.Context, t dom.EmailTemplate) (dom.EmailTemplate, error)
	GetByID(ctx context.Context, id int64) (dom.EmailTemplate, error)
	List(ctx context.Context) ([]dom.EmailTemplate, error)
	Update(ctx context.Context, id int64, patch dom.EmailTemplate) (dom.EmailTemplate, error)
	SoftDelete(ctx context.Context, id int64) (bool, error)
}

type PGTemplateRepo struct {
	db *DB
}

func NewPGTemplateRepo(db *DB) *PGTemplateRepo {
	return &PGTemplateRepo{db: db}
}

const templateColumns = `id, name, subject, body, created_at, updated_at, deleted_at`

func scanTemplate(row scanner) (dom.EmailTemplate, error) {
	var t dom.EmailTemplate
	err := row.Scan(&t.ID, &t.Name, &t.Subject, &t.Body, &t.CreatedAt, &t.UpdatedAt, &t.DeletedAt)
	return t, err
}

func (r *PGTemplateRepo) Create(ctx context.Context, t dom.EmailTemplate) (dom.EmailTemplate, error) {
	return scanTemplate(r.db.QueryRow(ctx, `
		INSERT INTO email_templates (name, subject, body) VALUES ($1, $2, $3)
		RETURNING `+templateColumns, t.Name, t.Subject, t.Body))
}

func (r *PGTemplateRepo) GetByID(ctx context.Context, id int64) (dom.EmailTemplate, error) {
	return scanTemplate(r.db.QueryRow(ctx,
		`SELECT `+templateColumns+` FROM email_templates WHERE id = $1 AND deleted_at IS NULL`, id))
}

func (r *PGTemplateRepo) List(ctx context.Context) ([]dom.EmailTemplate, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+templateColumns+` FROM email_templates WHERE deleted_at IS NULL ORDER BY name`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanTemplate)
}

func (r *PGTemplateRepo) Update(ctx context.Context, id int64, patch dom.EmailTemplate) (dom.EmailTemplate, error) {
	return scanTemplate(r.db.QueryRow(ctx, `
		UPDATE email_templates SET name = $2, subject = $3, body = $4, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING `+templateColumns, id, patch.Name, patch.Subject, patch.Body))
}

func (r *PGTemplateRepo) SoftDelete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE email_templates SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
