package dto

import "time"

type GenerateVouchersRequest struct {
	Count      int      `json:"count" binding:"required,min=1,max=1000"`
	ValueCents int64    `json:"value_cents" binding:"required,gt=0"`
	ExpiresAt  FlexTime `json:"expires_at"`
}

type VoucherResponse struct {
	ID         int64      `json:"id"`
	CampaignID int64      `json:"campaign_id"`
	Code       string     `json:"code"`
	Status     string     `json:"status"`
	ValueCents int64      `json:"value_cents"`
	ExpiresAt  *time.Time `json:"expires_at"`
	RedeemedBy *int64     `json:"redeemed_by,omitempty"`
	RedeemedAt *time.Time `json:"redeemed_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

type ListVouchersResponse struct {
	Items []VoucherResponse `json:"items"`
}
