package dto

import "time"

type JobResponse struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"`
	CampaignID int64     `json:"campaign_id"`
	Status     string    `json:"status"`
	Total      int       `json:"total"`
	Processed  int       `json:"processed"`
	Error      string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
