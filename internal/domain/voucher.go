package domain

import "time"

const (
	VoucherAvailable = "available"
	VoucherRedeemed  = "redeemed"
	VoucherVoid      = "void"
)

type Voucher struct {
	ID         int64
	CampaignID int64
	Code       string
	Status     string
	ValueCents int64
	ExpiresAt  *time.Time
	RedeemedBy *int64
	RedeemedAt *time.Time
	CreatedAt  time.Time
}

func (v Voucher) Expired(now time.Time) bool {
	return v.ExpiresAt != nil && !v.ExpiresAt.After(now)
}
