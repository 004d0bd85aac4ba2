package domain

import "time"

const (
	ChannelEmail = "email"
	ChannelMail  = "mail"
)

type CampaignStatus string

const (
	CampaignDraft     CampaignStatus = "draft"
	CampaignScheduled CampaignStatus = "scheduled"
	CampaignSending   CampaignStatus = "sending"
	CampaignSent      CampaignStatus = "sent"
	CampaignFailed    CampaignStatus = "failed"
	CampaignCancelled CampaignStatus = "cancelled"
)

type Campaign struct {
	ID               int64
	Name             string
	Channel          string
	Status           CampaignStatus
	TemplateID       *int64
	ScheduledAt      *time.Time
	TotalBatches     int
	ProcessedBatches int
	FailedBatches    int
	CancelledAt      *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// ResolveStatus derives the campaign status from its batch counters and timestamps.
// Order matters: cancellation wins over everything, then batch completion.
func (c Campaign) ResolveStatus() CampaignStatus {
	done := c.ProcessedBatches + c.FailedBatches
	switch {
	case c.CancelledAt != nil:
		return CampaignCancelled
	case c.TotalBatches > 0 && done >= c.TotalBatches:
		if c.FailedBatches > 0 {
			return CampaignFailed
		}
		return CampaignSent
	case done > 0:
		return CampaignSending
	case c.ScheduledAt != nil:
		return CampaignScheduled
	default:
		return CampaignDraft
	}
}

// Dispatchable reports whether a processing job may be started for the campaign.
func (c Campaign) Dispatchable() bool {
	s := c.ResolveStatus()
	return s == CampaignDraft || s == CampaignScheduled
}

const (
	RecipientPending    = "pending"
	RecipientQueued     = "queued"
	RecipientSuppressed = "suppressed"
)

type Recipient struct {
	ID           int64
	CampaignID   int64
	Email        string
	Name         string
	AddressLine1 string
	PostalCode   string
	Status       string
	CreatedAt    time.Time
}

// BatchCount is the number of batches needed for n recipients.
func BatchCount(n, size int) int {
	if n <= 0 || size <= 0 {
		return 0
	}
	return (n + size - 1) / size
}
