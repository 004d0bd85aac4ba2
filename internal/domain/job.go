package domain

import "time"

const JobCampaignProcessing = "campaign_processing"

type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
)

func (s JobStatus) Terminal() bool { return s == JobCompleted || s == JobFailed }

// ProcessingJob tracks a background campaign run; clients poll it.
type ProcessingJob struct {
	ID         string
	Kind       string
	CampaignID int64
	Status     JobStatus
	Total      int
	Processed  int
	Error      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CompanyProcessingMessage is the queue payload that starts a campaign run.
type CompanyProcessingMessage struct {
	JobID      string `json:"job_id"`
	CampaignID int64  `json:"campaign_id"`
}
