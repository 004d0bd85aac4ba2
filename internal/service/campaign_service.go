package service

import (
	"context"
	"errors"
	"strings"
	"time"

	dom "hubplus/internal/domain"
	"hubplus/internal/repo"
	"hubplus/internal/utils"

	"github.com/google/uuid"
)

// JobPublisher enqueues campaign processing jobs.
type JobPublisher interface {
	Publish(ctx context.Context, m dom.CompanyProcessingMessage) error
}

type CampaignService struct {
	repo      repo.CampaignRepo
	jobs      repo.JobRepo
	templates repo.TemplateRepo
	queue     JobPublisher
	audit     AuditSink
	now       func() time.Time
}

// NewCampaignService wires the campaign service. queue may be nil, in which case Dispatch
// returns ErrUnavailable.
func NewCampaignService(r repo.CampaignRepo, jobs repo.JobRepo, templates repo.TemplateRepo,
	queue JobPublisher, audit AuditSink,
) *CampaignService {
	return &CampaignService{
		repo:      r,
		jobs:      jobs,
		templates: templates,
		queue:     queue,
		audit:     orNop(audit),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

type CampaignInput struct {
	Name        string
	Channel     string
	TemplateID  *int64
	ScheduledAt *time.Time
}

type CampaignPatch struct {
	Name          *string
	Channel       *string
	TemplateID    *int64
	ScheduledAt   *time.Time
	ClearSchedule bool
	ClearTemplate bool
}

func validChannel(ch string) bool { return ch == dom.ChannelEmail || ch == dom.ChannelMail }

func (s *CampaignService) Create(ctx context.Context, actor int64, in CampaignInput) (dom.Campaign, error) {
	c := dom.Campaign{
		Name:        strings.TrimSpace(in.Name),
		Channel:     in.Channel,
		TemplateID:  in.TemplateID,
		ScheduledAt: in.ScheduledAt,
	}
	if err := s.validate(ctx, c); err != nil {
		return dom.Campaign{}, err
	}
	out, err := s.repo.Create(ctx, c)
	if err != nil {
		return dom.Campaign{}, err
	}
	s.audit.Record(ctx, event("campaign", out.ID, dom.ActionCreate, actor))
	return withResolved(out), nil
}

func (s *CampaignService) validate(ctx context.Context, c dom.Campaign) error {
	if c.Name == "" {
		return invalid("name", "must not be blank")
	}
	if !validChannel(c.Channel) {
		return invalid("channel", "must be email or mail")
	}
	if c.ScheduledAt != nil && c.ScheduledAt.Before(s.now()) {
		return invalid("scheduled_at", "must be in the future")
	}
	if c.TemplateID != nil {
		if _, err := s.templates.GetByID(ctx, *c.TemplateID); err != nil {
			if errors.Is(mapNoRows(err), ErrNotFound) {
				return invalid("template_id", "template %d not found", *c.TemplateID)
			}
			return err
		}
	}
	return nil
}

func (s *CampaignService) List(ctx context.Context) ([]dom.Campaign, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dom.Campaign, len(list))
	for i := range list {
		out[i] = withResolved(list[i])
	}
	return out, nil
}

func (s *CampaignService) GetByID(ctx context.Context, id int64) (dom.Campaign, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dom.Campaign{}, mapNoRows(err)
	}
	return withResolved(c), nil
}

// Update only applies to campaigns that have not started processing.
func (s *CampaignService) Update(ctx context.Context, actor, id int64, p CampaignPatch) (dom.Campaign, error) {
	existing, err := s.mutable(ctx, id)
	if err != nil {
		return dom.Campaign{}, err
	}
	patch := existing
	if p.Name != nil {
		patch.Name = strings.TrimSpace(*p.Name)
	}
	if p.Channel != nil {
		patch.Channel = *p.Channel
	}
	switch {
	case p.ClearTemplate:
		patch.TemplateID = nil
	case p.TemplateID != nil:
		patch.TemplateID = p.TemplateID
	}
	switch {
	case p.ClearSchedule:
		patch.ScheduledAt = nil
	case p.ScheduledAt != nil:
		patch.ScheduledAt = p.ScheduledAt
	}
	if err := s.validate(ctx, patch); err != nil {
		return dom.Campaign{}, err
	}
	out, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return dom.Campaign{}, mapNoRows(err)
	}
	s.audit.Record(ctx, event("campaign", id, dom.ActionUpdate, actor))
	return withResolved(out), nil
}

func (s *CampaignService) Delete(ctx context.Context, actor, id int64) error {
	ok, err := s.repo.SoftDelete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	s.audit.Record(ctx, event("campaign", id, dom.ActionDelete, actor))
	return nil
}

func (s *CampaignService) Cancel(ctx context.Context, actor, id int64) (dom.Campaign, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dom.Campaign{}, mapNoRows(err)
	}
	switch existing.ResolveStatus() {
	case dom.CampaignSent, dom.CampaignFailed:
		return dom.Campaign{}, ErrConflict
	}
	out, err := s.repo.Cancel(ctx, id, s.now())
	if err != nil {
		return dom.Campaign{}, mapNoRows(err)
	}
	s.audit.Record(ctx, event("campaign", id, dom.ActionUpdate, actor))
	return withResolved(out), nil
}

// AddRecipients bulk-loads recipients; each needs an email or a street line.
func (s *CampaignService) AddRecipients(ctx context.Context, actor, id int64, list []dom.Recipient) (int64, error) {
	c, err := s.mutable(ctx, id)
	if err != nil {
		return 0, err
	}
	if len(list) == 0 {
		return 0, invalid("recipients", "must not be empty")
	}
	for i := range list {
		list[i].Email = strings.TrimSpace(list[i].Email)
		list[i].AddressLine1 = strings.TrimSpace(list[i].AddressLine1)
		list[i].PostalCode = strings.TrimSpace(list[i].PostalCode)
		if list[i].Email == "" && list[i].AddressLine1 == "" {
			return 0, invalid("recipients", "entry %d needs an email or address_line1", i)
		}
		if c.Channel == dom.ChannelMail && list[i].AddressLine1 == "" {
			return 0, invalid("recipients", "entry %d needs address_line1 for a mail campaign", i)
		}
	}
	n, err := s.repo.AddRecipients(ctx, id, list)
	if err != nil {
		return 0, err
	}
	s.audit.Record(ctx, event("campaign", id, dom.ActionUpdate, actor))
	return n, nil
}

func (s *CampaignService) ListRecipients(ctx context.Context, id, afterID int64, limit int) ([]dom.Recipient, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, mapNoRows(err)
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.repo.ListRecipients(ctx, id, afterID, limit)
}

// Dispatch creates a pending job and enqueues it for the worker.
func (s *CampaignService) Dispatch(ctx context.Context, actor, id int64) (dom.ProcessingJob, error) {
	if s.queue == nil {
		return dom.ProcessingJob{}, ErrUnavailable
	}
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dom.ProcessingJob{}, mapNoRows(err)
	}
	if !c.Dispatchable() {
		return dom.ProcessingJob{}, ErrNotDispatchable
	}
	active, err := s.jobs.ActiveForCampaign(ctx, id)
	if err != nil {
		return dom.ProcessingJob{}, err
	}
	if active {
		return dom.ProcessingJob{}, ErrConflict
	}

	job, err := s.jobs.Create(ctx, dom.ProcessingJob{
		ID:         uuid.NewString(),
		Kind:       dom.JobCampaignProcessing,
		CampaignID: id,
		Status:     dom.JobPending,
	})
	if err != nil {
		if utils.IsPGUniqueViolation(err) {
			return dom.ProcessingJob{}, ErrConflict
		}
		return dom.ProcessingJob{}, err
	}
	if err := s.queue.Publish(ctx, dom.CompanyProcessingMessage{JobID: job.ID, CampaignID: id}); err != nil {
		_, _ = s.jobs.SetStatus(ctx, job.ID, dom.JobFailed, "enqueue failed")
		return dom.ProcessingJob{}, err
	}
	s.audit.Record(ctx, event("campaign", id, dom.ActionUpdate, actor))
	return job, nil
}

// mutable loads a campaign that is neither finished nor claimed by a pending or running job.
// The worker fixes the batch count when it starts, so edits after dispatch would be lost.
func (s *CampaignService) mutable(ctx context.Context, id int64) (dom.Campaign, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dom.Campaign{}, mapNoRows(err)
	}
	if !c.Dispatchable() {
		return dom.Campaign{}, ErrConflict
	}
	active, err := s.jobs.ActiveForCampaign(ctx, id)
	if err != nil {
		return dom.Campaign{}, err
	}
	if active {
		return dom.Campaign{}, ErrConflict
	}
	return c, nil
}

func withResolved(c dom.Campaign) dom.Campaign {
	c.Status = c.ResolveStatus()
	return c
}
