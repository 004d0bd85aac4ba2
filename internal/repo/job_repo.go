package repo

import (
	"context"
	"time"

	dom "hubplus/internal/domain"
)

type JobRepo interface {
	Create(ctx context.Context, j dom.ProcessingJob) (dom.ProcessingJob, error)
	GetByID(ctx context.Context, id string) (dom.ProcessingJob, error)
	SetStatus(ctx context.Context, id string, status dom.JobStatus, errMsg string) (dom.ProcessingJob, error)
	Claim(ctx context.Context, id string, staleAfter time.Duration) (dom.ProcessingJob, error)
	SetProgress(ctx context.Context, id string, total, processed int) error
	ActiveForCampaign(ctx context.Context, campaignID int64) (bool, error)
}

type PGJobRepo struct {
	db *DB
}

func NewPGJobRepo(db *DB) *PGJobRepo {
	return &PGJobRepo{db: db}
}

const jobColumns = `id::text, kind, campaign_id, status, total, processed, error, created_at, updated_at`

func scanJob(row scanner) (dom.ProcessingJob, error) {
	var j dom.ProcessingJob
	var status string
	err := row.Scan(&j.ID, &j.Kind, &j.CampaignID, &status, &j.Total, &j.Processed, &j.Error, &j.CreatedAt, &j.UpdatedAt)
	j.Status = dom.JobStatus(status)
	return j, err
}

func (r *PGJobRepo) Create(ctx context.Context, j dom.ProcessingJob) (dom.ProcessingJob, error) {
	return scanJob(r.db.QueryRow(ctx, `
		INSERT INTO processing_jobs (id, kind, campaign_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING `+jobColumns, j.ID, j.Kind, j.CampaignID, string(j.Status)))
}

func (r *PGJobRepo) GetByID(ctx context.Context, id string) (dom.ProcessingJob, error) {
	return scanJob(r.db.QueryRow(ctx, `SELECT `+jobColumns+` FROM processing_jobs WHERE id = $1`, id))
}

func (r *PGJobRepo) SetStatus(ctx context.Context, id string, status dom.JobStatus, errMsg string) (dom.ProcessingJob, error) {
	return scanJob(r.db.QueryRow(ctx, `
		UPDATE processing_jobs SET status = $2, error = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING `+jobColumns, id, string(status), errMsg))
}

// Claim moves a pending job to running. A running job is only reclaimed once it has gone
// staleAfter without a progress update; otherwise pgx.ErrNoRows is returned.
func (r *PGJobRepo) Claim(ctx context.Context, id string, staleAfter time.Duration) (dom.ProcessingJob, error) {
	return scanJob(r.db.QueryRow(ctx, `
		UPDATE processing_jobs SET status = 'running', error = '', updated_at = NOW()
		WHERE id = $1 AND (
			status = 'pending'
			OR (status = 'running' AND updated_at < NOW() - make_interval(secs => $2))
		)
		RETURNING `+jobColumns, id, staleAfter.Seconds()))
}

func (r *PGJobRepo) SetProgress(ctx context.Context, id string, total, processed int) error {
	_, err := r.db.Exec(ctx,
		`UPDATE processing_jobs SET total = $2, processed = $3, updated_at = NOW() WHERE id = $1`,
		id, total, processed)
	return err
}

func (r *PGJobRepo) ActiveForCampaign(ctx context.Context, campaignID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM processing_jobs WHERE campaign_id = $1 AND status IN ('pending', 'running'))`,
		campaignID).Scan(&exists)
	return exists, err
}
