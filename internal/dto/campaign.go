package dto

import "time"

type CreateCampaignRequest struct {
	Name        string   `json:"name" binding:"required,min=1,max=200"`
	Channel     string   `json:"channel" binding:"required,oneof=email mail"`
	TemplateID  *int64   `json:"template_id" binding:"omitempty,gt=0"`
	ScheduledAt FlexTime `json:"scheduled_at"`
}

type UpdateCampaignRequest struct {
	Name          *string   `json:"name" binding:"omitempty,min=1,max=200"`
	Channel       *string   `json:"channel" binding:"omitempty,oneof=email mail"`
	TemplateID    *int64    `json:"template_id" binding:"omitempty,gt=0"`
	ScheduledAt   *FlexTime `json:"scheduled_at"`
	ClearSchedule bool      `json:"clear_schedule"`
	ClearTemplate bool      `json:"clear_template"`
}

type CampaignResponse struct {
	ID               int64      `json:"id"`
	Name             string     `json:"name"`
	Channel          string     `json:"channel"`
	Status           string     `json:"status"`
	TemplateID       *int64     `json:"template_id"`
	ScheduledAt      *time.Time `json:"scheduled_at"`
	TotalBatches     int        `json:"total_batches"`
	ProcessedBatches int        `json:"processed_batches"`
	FailedBatches    int        `json:"failed_batches"`
	CancelledAt      *time.Time `json:"cancelled_at"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

type ListCampaignsResponse struct {
	Items []CampaignResponse `json:"items"`
}

type RecipientRequest struct {
	Email        string `json:"email" binding:"omitempty,email,max=254"`
	Name         string `json:"name" binding:"max=200"`
	AddressLine1 string `json:"address_line1" binding:"max=200"`
	PostalCode   string `json:"postal_code" binding:"max=16"`
}

type AddRecipientsRequest struct {
	Recipients []RecipientRequest `json:"recipients" binding:"required,min=1,max=10000,dive"`
}

type AddRecipientsResponse struct {
	Added int64 `json:"added"`
}

type RecipientResponse struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	AddressLine1 string `json:"address_line1"`
	PostalCode   string `json:"postal_code"`
	Status       string `json:"status"`
}

type ListRecipientsResponse struct {
	Items []RecipientResponse `json:"items"`
	// NextAfter is the cursor for the next page; 0 when this page is short.
	NextAfter int64 `json:"next_after"`
}
