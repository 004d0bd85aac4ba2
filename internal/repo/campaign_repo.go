package repo

import (
	"context"
	"time"

	dom "hubplus/internal/domain"

	"github.com/jackc/pgx/v5"
)

type CampaignRepo interface {
	Create(ctx context.Context, c dom.Campaign) (dom.Campaign, error)
	GetByID(ctx context.Context, id int64) (dom.Campaign, error)
	List(ctx context.Context) ([]dom.Campaign, error)
	Update(ctx context.Context, id int64, patch dom.Campaign) (dom.Campaign, error)
	SoftDelete(ctx context.Context, id int64) (bool, error)
	Cancel(ctx context.Context, id int64, at time.Time) (dom.Campaign, error)

	AddRecipients(ctx context.Context, campaignID int64, list []dom.Recipient) (int64, error)
	ListRecipients(ctx context.Context, campaignID, afterID int64, limit int) ([]dom.Recipient, error)
	CountRecipients(ctx context.Context, campaignID int64, status string) (int, error)
	SetRecipientStatus(ctx context.Context, ids []int64, status string) error

	// StartProcessing resets batch counters, records the batch total and persists the resolved status.
	StartProcessing(ctx context.Context, id int64, totalBatches int) (dom.Campaign, error)
	// RecordBatch bumps processed or failed batches and persists the resolved status.
	RecordBatch(ctx context.Context, id int64, failed bool) (dom.Campaign, error)
}

type PGCampaignRepo struct {
	db *DB
}

func NewPGCampaignRepo(db *DB) *PGCampaignRepo {
	return &PGCampaignRepo{db: db}
}

const campaignColumns = `id, name, channel, status, template_id, scheduled_at, total_batches, processed_batches,
	failed_batches, cancelled_at, created_at, updated_at, deleted_at`

func scanCampaign(row scanner) (dom.Campaign, error) {
	var c dom.Campaign
	var status string
	err := row.Scan(&c.ID, &c.Name, &c.Channel, &status, &c.TemplateID, &c.ScheduledAt,
		&c.TotalBatches, &c.ProcessedBatches, &c.FailedBatches, &c.CancelledAt,
		&c.CreatedAt, &c.UpdatedAt, &c.DeletedAt)
	c.Status = dom.CampaignStatus(status)
	return c, err
}

const recipientColumns = `id, campaign_id, email, name, address_line1, postal_code, status, created_at`

func scanRecipient(row scanner) (dom.Recipient, error) {
	var r dom.Recipient
	err := row.Scan(&r.ID, &r.CampaignID, &r.Email, &r.Name, &r.AddressLine1, &r.PostalCode, &r.Status, &r.CreatedAt)
	return r, err
}

func (r *PGCampaignRepo) Create(ctx context.Context, c dom.Campaign) (dom.Campaign, error) {
	query := `
		INSERT INTO campaigns (name, channel, status, template_id, scheduled_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + campaignColumns
	return scanCampaign(r.db.QueryRow(ctx, query, c.Name, c.Channel, string(c.ResolveStatus()), c.TemplateID, c.ScheduledAt))
}

func (r *PGCampaignRepo) GetByID(ctx context.Context, id int64) (dom.Campaign, error) {
	return scanCampaign(r.db.QueryRow(ctx,
		`SELECT `+campaignColumns+` FROM campaigns WHERE id = $1 AND deleted_at IS NULL`, id))
}

func (r *PGCampaignRepo) List(ctx context.Context) ([]dom.Campaign, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+campaignColumns+` FROM campaigns WHERE deleted_at IS NULL ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanCampaign)
}

func (r *PGCampaignRepo) Update(ctx context.Context, id int64, patch dom.Campaign) (dom.Campaign, error) {
	query := `
		UPDATE campaigns SET name = $2, channel = $3, template_id = $4, scheduled_at = $5, status = $6, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING ` + campaignColumns
	return scanCampaign(r.db.QueryRow(ctx, query, id, patch.Name, patch.Channel, patch.TemplateID,
		patch.ScheduledAt, string(patch.ResolveStatus())))
}

func (r *PGCampaignRepo) SoftDelete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE campaigns SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PGCampaignRepo) Cancel(ctx context.Context, id int64, at time.Time) (dom.Campaign, error) {
	query := `
		UPDATE campaigns SET cancelled_at = COALESCE(cancelled_at, $2), status = $3, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING ` + campaignColumns
	return scanCampaign(r.db.QueryRow(ctx, query, id, at, string(dom.CampaignCancelled)))
}

func (r *PGCampaignRepo) AddRecipients(ctx context.Context, campaignID int64, list []dom.Recipient) (int64, error) {
	rows := make([][]any, len(list))
	for i, rc := range list {
		rows[i] = []any{campaignID, rc.Email, rc.Name, rc.AddressLine1, rc.PostalCode, dom.RecipientPending}
	}
	return r.db.CopyFrom(ctx,
		pgx.Identifier{"campaign_recipients"},
		[]string{"campaign_id", "email", "name", "address_line1", "postal_code", "status"},
		pgx.CopyFromRows(rows),
	)
}

// ListRecipients pages by id (keyset) so batches stay stable while statuses change.
func (r *PGCampaignRepo) ListRecipients(ctx context.Context, campaignID, afterID int64, limit int) ([]dom.Recipient, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+recipientColumns+` FROM campaign_recipients
		WHERE campaign_id = $1 AND id > $2 ORDER BY id LIMIT $3`, campaignID, afterID, limit)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanRecipient)
}

// CountRecipients counts all recipients when status is empty.
func (r *PGCampaignRepo) CountRecipients(ctx context.Context, campaignID int64, status string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM campaign_recipients
		WHERE campaign_id = $1 AND ($2 = '' OR status = $2)`, campaignID, status).Scan(&n)
	return n, err
}

func (r *PGCampaignRepo) SetRecipientStatus(ctx context.Context, ids []int64, status string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.db.Exec(ctx, `UPDATE campaign_recipients SET status = $2 WHERE id = ANY($1)`, ids, status)
	return err
}

func (r *PGCampaignRepo) StartProcessing(ctx context.Context, id int64, totalBatches int) (dom.Campaign, error) {
	return r.updateCounters(ctx, id, `total_batches = $2, processed_batches = 0, failed_batches = 0`, totalBatches)
}

func (r *PGCampaignRepo) RecordBatch(ctx context.Context, id int64, failed bool) (dom.Campaign, error) {
	column := "processed_batches"
	if failed {
		column = "failed_batches"
	}
	return r.updateCounters(ctx, id, column+` = `+column+` + 1`)
}

// updateCounters applies set to the campaign row and stores the status its new counters resolve to.
func (r *PGCampaignRepo) updateCounters(ctx context.Context, id int64, set string, args ...any) (dom.Campaign, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return dom.Campaign{}, err
	}
	defer tx.Rollback(ctx)

	c, err := scanCampaign(tx.QueryRow(ctx, `
		UPDATE campaigns SET `+set+`, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING `+campaignColumns, append([]any{id}, args...)...))
	if err != nil {
		return dom.Campaign{}, err
	}
	c.Status = c.ResolveStatus()
	if _, err := tx.Exec(ctx, `UPDATE campaigns SET status = $2 WHERE id = $1`, id, string(c.Status)); err != nil {
		return dom.Campaign{}, err
	}
	return c, tx.Commit(ctx)
}
