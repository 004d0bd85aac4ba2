package repo

import (
	"context"
	"time"

	dom "hubplus/internal/domain"
)

type VoucherRepo interface {
	CreateBatch(ctx context.Context, campaignID int64, codes []string, valueCents int64, expiresAt *time.Time) ([]dom.Voucher, error)
	ListByCampaign(ctx context.Context, campaignID int64) ([]dom.Voucher, error)
	GetByCode(ctx context.Context, code string) (dom.Voucher, error)
	// Redeem flips an available, unexpired voucher to redeemed. pgx.ErrNoRows means the guard failed.
	Redeem(ctx context.Context, code string, userID int64, now time.Time) (dom.Voucher, error)
	Void(ctx context.Context, code string) (dom.Voucher, error)
}

type PGVoucherRepo struct {
	db *DB
}

func NewPGVoucherRepo(db *DB) *PGVoucherRepo {
	return &PGVoucherRepo{db: db}
}

const voucherColumns = `id, campaign_id, code, status, value_cents, expires_at, redeemed_by, redeemed_at, created_at`

func scanVoucher(row scanner) (dom.Voucher, error) {
	var v dom.Voucher
	err := row.Scan(&v.ID, &v.CampaignID, &v.Code, &v.Status, &v.ValueCents, &v.ExpiresAt,
		&v.RedeemedBy, &v.RedeemedAt, &v.CreatedAt)
	return v, err
}

func (r *PGVoucherRepo) CreateBatch(ctx context.Context, campaignID int64, codes []string, valueCents int64, expiresAt *time.Time) ([]dom.Voucher, error) {
	rows, err := r.db.Query(ctx, `
		INSERT INTO vouchers (campaign_id, code, value_cents, expires_at)
		SELECT $1, code, $3, $4 FROM unnest($2::text[]) AS code
		RETURNING `+voucherColumns, campaignID, codes, valueCents, expiresAt)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanVoucher)
}

func (r *PGVoucherRepo) ListByCampaign(ctx context.Context, campaignID int64) ([]dom.Voucher, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+voucherColumns+` FROM vouchers WHERE campaign_id = $1 ORDER BY id`, campaignID)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanVoucher)
}

func (r *PGVoucherRepo) GetByCode(ctx context.Context, code string) (dom.Voucher, error) {
	return scanVoucher(r.db.QueryRow(ctx, `SELECT `+voucherColumns+` FROM vouchers WHERE code = $1`, code))
}

func (r *PGVoucherRepo) Redeem(ctx context.Context, code string, userID int64, now time.Time) (dom.Voucher, error) {
	return scanVoucher(r.db.QueryRow(ctx, `
		UPDATE vouchers SET status = 'redeemed', redeemed_by = $2, redeemed_at = $3
		WHERE code = $1 AND status = 'available' AND (expires_at IS NULL OR expires_at > $3)
		RETURNING `+voucherColumns, code, userID, now))
}

func (r *PGVoucherRepo) Void(ctx context.Context, code string) (dom.Voucher, error) {
	return scanVoucher(r.db.QueryRow(ctx, `
		UPDATE vouchers SET status = 'void' WHERE code = $1 AND status = 'available'
		RETURNING `+voucherColumns, code))
}
