package worker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hubplus/internal/addressmatch"
	dom "hubplus/internal/domain"
	"hubplus/internal/messaging"
	"hubplus/internal/metrics"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const (
	errCancelled = "campaign cancelled"
	defaultLease = 2 * time.Minute
)

// ErrJobBusy is returned while another worker holds a fresh claim on the job.
var ErrJobBusy = errors.New("job held by another worker")

// Campaigns is the part of the campaign repository the worker drives.
type Campaigns interface {
	GetByID(ctx context.Context, id int64) (dom.Campaign, error)
	CountRecipients(ctx context.Context, campaignID int64, status string) (int, error)
	ListRecipients(ctx context.Context, campaignID, afterID int64, limit int) ([]dom.Recipient, error)
	SetRecipientStatus(ctx context.Context, ids []int64, status string) error
	StartProcessing(ctx context.Context, id int64, totalBatches int) (dom.Campaign, error)
	RecordBatch(ctx context.Context, id int64, failed bool) (dom.Campaign, error)
}

type Jobs interface {
	GetByID(ctx context.Context, id string) (dom.ProcessingJob, error)
	SetStatus(ctx context.Context, id string, status dom.JobStatus, errMsg string) (dom.ProcessingJob, error)
	Claim(ctx context.Context, id string, staleAfter time.Duration) (dom.ProcessingJob, error)
	SetProgress(ctx context.Context, id string, total, processed int) error
}

// Matcher reports which address match keys are on the do-not-mail list.
type Matcher interface {
	MatchingKeys(ctx context.Context, keys []string) (map[string]bool, error)
}

// Processor runs one campaign processing job per queue message.
type Processor struct {
	campaigns Campaigns
	jobs      Jobs
	matcher   Matcher
	batchSize int
	lease     time.Duration
	log       *zap.Logger
	metrics   *metrics.Metrics
}

// NewProcessor builds a Processor. lease is how long a running job may go without a
// progress update before another delivery may reclaim it; it should match the ack wait.
func NewProcessor(c Campaigns, j Jobs, m Matcher, batchSize int, lease time.Duration, log *zap.Logger, mt *metrics.Metrics) *Processor {
	if batchSize <= 0 {
		batchSize = 100
	}
	if lease <= 0 {
		lease = defaultLease
	}
	return &Processor{campaigns: c, jobs: j, matcher: m, batchSize: batchSize, lease: lease, log: log, metrics: mt}
}

// Process handles one message. A nil return acks it; an error naks it for redelivery.
// progress, when set, is called after every batch to extend the message's ack deadline.
func (p *Processor) Process(ctx context.Context, msg dom.CompanyProcessingMessage, progress func()) error {
	log := p.log.With(zap.String("job_id", msg.JobID), zap.Int64("campaign_id", msg.CampaignID))
	if progress == nil {
		progress = func() {}
	}

	job, err := p.jobs.Claim(ctx, msg.JobID, p.lease)
	if errors.Is(err, pgx.ErrNoRows) {
		return p.unclaimed(ctx, log, msg.JobID)
	}
	if err != nil {
		return fmt.Errorf("claim job: %w", err)
	}

	campaign, err := p.campaigns.GetByID(ctx, msg.CampaignID)
	if errors.Is(err, pgx.ErrNoRows) {
		return p.finish(ctx, log, job.ID, dom.JobFailed, "campaign not found")
	}
	if err != nil {
		return fmt.Errorf("load campaign: %w", err)
	}
	if campaign.CancelledAt != nil {
		return p.finish(ctx, log, job.ID, dom.JobCompleted, errCancelled)
	}

	n, err := p.campaigns.CountRecipients(ctx, campaign.ID, "")
	if err != nil {
		return fmt.Errorf("count recipients: %w", err)
	}
	total := dom.BatchCount(n, p.batchSize)
	if total == 0 {
		if err := p.jobs.SetProgress(ctx, job.ID, 0, 0); err != nil {
			return fmt.Errorf("set progress: %w", err)
		}
		return p.finish(ctx, log, job.ID, dom.JobCompleted, "")
	}
	if _, err := p.campaigns.StartProcessing(ctx, campaign.ID, total); err != nil {
		return fmt.Errorf("start processing: %w", err)
	}
	if err := p.jobs.SetProgress(ctx, job.ID, total, 0); err != nil {
		return fmt.Errorf("set progress: %w", err)
	}
	log.Info("campaign processing started", zap.Int("recipients", n), zap.Int("batches", total))

	var afterID int64
	done := 0
	for done < total {
		if err := ctx.Err(); err != nil {
			return err
		}
		current, err := p.campaigns.GetByID(ctx, campaign.ID)
		if err != nil {
			return fmt.Errorf("reload campaign: %w", err)
		}
		if current.CancelledAt != nil {
			log.Info("campaign cancelled mid-run", zap.Int("processed_batches", done))
			return p.finish(ctx, log, job.ID, dom.JobCompleted, errCancelled)
		}

		page, err := p.campaigns.ListRecipients(ctx, campaign.ID, afterID, p.batchSize)
		if err != nil {
			return fmt.Errorf("list recipients: %w", err)
		}
		if len(page) == 0 {
			// recipients removed since counting; the remaining batches are empty
			break
		}
		afterID = page[len(page)-1].ID

		batchErr := p.processBatch(ctx, page)
		if batchErr != nil {
			log.Warn("batch failed", zap.Int("batch", done+1), zap.Error(batchErr))
		}
		campaign, err = p.campaigns.RecordBatch(ctx, campaign.ID, batchErr != nil)
		if err != nil {
			return fmt.Errorf("record batch: %w", err)
		}
		p.metrics.Batch(batchErr != nil)
		done++
		if err := p.jobs.SetProgress(ctx, job.ID, total, done); err != nil {
			return fmt.Errorf("set progress: %w", err)
		}
		progress()
	}

	// close out counters when the list shrank under us
	for ; done < total; done++ {
		if campaign, err = p.campaigns.RecordBatch(ctx, campaign.ID, false); err != nil {
			return fmt.Errorf("record batch: %w", err)
		}
	}
	if err := p.jobs.SetProgress(ctx, job.ID, total, total); err != nil {
		return fmt.Errorf("set progress: %w", err)
	}

	if campaign.FailedBatches > 0 {
		return p.finish(ctx, log, job.ID, dom.JobFailed,
			fmt.Sprintf("%d of %d batches failed", campaign.FailedBatches, total))
	}
	return p.finish(ctx, log, job.ID, dom.JobCompleted, "")
}

// unclaimed decides what to do with a message whose job could not be claimed.
func (p *Processor) unclaimed(ctx context.Context, log *zap.Logger, jobID string) error {
	job, err := p.jobs.GetByID(ctx, jobID)
	if errors.Is(err, pgx.ErrNoRows) {
		log.Warn("job not found, dropping message")
		return nil
	}
	if err != nil {
		return fmt.Errorf("load job: %w", err)
	}
	if job.Status.Terminal() {
		log.Info("job already finished", zap.String("status", string(job.Status)))
		return nil
	}
	log.Info("job is running elsewhere, retrying after lease", zap.Duration("lease", p.lease))
	return messaging.RetryAfter(ErrJobBusy, p.lease)
}

// processBatch marks every pending recipient in page queued or suppressed.
func (p *Processor) processBatch(ctx context.Context, page []dom.Recipient) error {
	keys := make([]string, 0, len(page))
	keyOf := make(map[int64]string, len(page))
	for _, r := range page {
		if r.Status != dom.RecipientPending || strings.TrimSpace(r.AddressLine1) == "" {
			continue
		}
		k := addressmatch.Key(r.AddressLine1, r.PostalCode)
		keyOf[r.ID] = k
		keys = append(keys, k)
	}
	restricted, err := p.matcher.MatchingKeys(ctx, keys)
	if err != nil {
		return fmt.Errorf("match addresses: %w", err)
	}

	var queued, suppressed []int64
	for _, r := range page {
		if r.Status != dom.RecipientPending {
			continue
		}
		if k, ok := keyOf[r.ID]; ok && restricted[k] {
			suppressed = append(suppressed, r.ID)
		} else {
			queued = append(queued, r.ID)
		}
	}
	if len(suppressed) > 0 {
		if err := p.campaigns.SetRecipientStatus(ctx, suppressed, dom.RecipientSuppressed); err != nil {
			return fmt.Errorf("suppress: %w", err)
		}
	}
	if len(queued) > 0 {
		if err := p.campaigns.SetRecipientStatus(ctx, queued, dom.RecipientQueued); err != nil {
			return fmt.Errorf("queue: %w", err)
		}
	}
	return nil
}

func (p *Processor) finish(ctx context.Context, log *zap.Logger, jobID string, status dom.JobStatus, msg string) error {
	if _, err := p.jobs.SetStatus(ctx, jobID, status, msg); err != nil {
		return fmt.Errorf("mark %s: %w", status, err)
	}
	log.Info("job finished", zap.String("status", string(status)), zap.String("error", msg))
	return nil
}
