package service

import (
	"context"
	"errors"
	"testing"
	"time"

	dom "hubplus/internal/domain"
	"hubplus/internal/repo/repotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type campaignFixture struct {
	campaigns *repotest.Campaigns
	jobs      *repotest.Jobs
	templates *repotest.Templates
	queue     *fakeQueue
	audit     *recordingAudit
	svc       *CampaignService
}

func newCampaignFixture(t *testing.T, withQueue bool) *campaignFixture {
	t.Helper()
	f := &campaignFixture{
		campaigns: repotest.NewCampaigns(),
		jobs:      repotest.NewJobs(),
		templates: repotest.NewTemplates(),
		queue:     &fakeQueue{},
		audit:     &recordingAudit{},
	}
	var q JobPublisher
	if withQueue {
		q = f.queue
	}
	f.svc = NewCampaignService(f.campaigns, f.jobs, f.templates, q, f.audit)
	return f
}

func (f *campaignFixture) create(t *testing.T, channel string) dom.Campaign {
	t.Helper()
	c, err := f.svc.Create(context.Background(), 1, CampaignInput{Name: "spring sale", Channel: channel})
	require.NoError(t, err)
	return c
}

func TestCampaignCreateValidation(t *testing.T) {
	ctx := context.Background()
	f := newCampaignFixture(t, true)

	var verr *ValidationError
	_, err := f.svc.Create(ctx, 1, CampaignInput{Name: " ", Channel: dom.ChannelEmail})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Field)

	_, err = f.svc.Create(ctx, 1, CampaignInput{Name: "x", Channel: "sms"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "channel", verr.Field)

	past := time.Now().Add(-time.Minute)
	_, err = f.svc.Create(ctx, 1, CampaignInput{Name: "x", Channel: dom.ChannelEmail, ScheduledAt: &past})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "scheduled_at", verr.Field)

	missing := int64(9)
	_, err = f.svc.Create(ctx, 1, CampaignInput{Name: "x", Channel: dom.ChannelEmail, TemplateID: &missing})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "template_id", verr.Field)

	future := time.Now().Add(time.Hour)
	c, err := f.svc.Create(ctx, 1, CampaignInput{Name: "x", Channel: dom.ChannelEmail, ScheduledAt: &future})
	require.NoError(t, err)
	assert.Equal(t, dom.CampaignScheduled, c.Status)
}

func TestCampaignDispatch(t *testing.T) {
	ctx := context.Background()
	f := newCampaignFixture(t, true)
	c := f.create(t, dom.ChannelEmail)

	job, err := f.svc.Dispatch(ctx, 1, c.ID)
	require.NoError(t, err)
	assert.Equal(t, dom.JobPending, job.Status)
	assert.Equal(t, dom.JobCampaignProcessing, job.Kind)
	require.Len(t, f.queue.msgs, 1)
	assert.Equal(t, dom.CompanyProcessingMessage{JobID: job.ID, CampaignID: c.ID}, f.queue.msgs[0])

	_, err = f.svc.Dispatch(ctx, 1, c.ID)
	assert.ErrorIs(t, err, ErrConflict)

	_, err = f.svc.Dispatch(ctx, 1, 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCampaignDispatchWithoutQueue(t *testing.T) {
	f := newCampaignFixture(t, false)
	c := f.create(t, dom.ChannelEmail)

	_, err := f.svc.Dispatch(context.Background(), 1, c.ID)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Empty(t, f.jobs.All())
}

func TestCampaignDispatchPublishFailureFailsJob(t *testing.T) {
	f := newCampaignFixture(t, true)
	f.queue.err = errors.New("nats: no responders")
	c := f.create(t, dom.ChannelEmail)

	_, err := f.svc.Dispatch(context.Background(), 1, c.ID)
	require.Error(t, err)
	require.Len(t, f.jobs.All(), 1)
	for _, j := range f.jobs.All() {
		assert.Equal(t, dom.JobFailed, j.Status)
	}

	f.queue.err = nil
	_, err = f.svc.Dispatch(context.Background(), 1, c.ID)
	assert.NoError(t, err)
}

func TestCampaignCancel(t *testing.T) {
	ctx := context.Background()
	f := newCampaignFixture(t, true)
	c := f.create(t, dom.ChannelEmail)

	out, err := f.svc.Cancel(ctx, 1, c.ID)
	require.NoError(t, err)
	assert.Equal(t, dom.CampaignCancelled, out.Status)

	_, err = f.svc.Dispatch(ctx, 1, c.ID)
	assert.ErrorIs(t, err, ErrNotDispatchable)

	name := "renamed"
	_, err = f.svc.Update(ctx, 1, c.ID, CampaignPatch{Name: &name})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCampaignFinishedIsImmutable(t *testing.T) {
	ctx := context.Background()
	f := newCampaignFixture(t, true)
	c := f.create(t, dom.ChannelEmail)

	_, err := f.campaigns.StartProcessing(ctx, c.ID, 1)
	require.NoError(t, err)
	_, err = f.campaigns.RecordBatch(ctx, c.ID, false)
	require.NoError(t, err)

	got, err := f.svc.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, dom.CampaignSent, got.Status)

	_, err = f.svc.Cancel(ctx, 1, c.ID)
	assert.ErrorIs(t, err, ErrConflict)
	name := "again"
	_, err = f.svc.Update(ctx, 1, c.ID, CampaignPatch{Name: &name})
	assert.ErrorIs(t, err, ErrConflict)
	_, err = f.svc.AddRecipients(ctx, 1, c.ID, []dom.Recipient{{Email: "a@example.com"}})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCampaignUpdateClearsSchedule(t *testing.T) {
	ctx := context.Background()
	f := newCampaignFixture(t, true)
	tpl, err := f.templates.Create(ctx, dom.EmailTemplate{Name: "welcome", Subject: "hi", Body: "hello"})
	require.NoError(t, err)

	future := time.Now().Add(time.Hour)
	c, err := f.svc.Create(ctx, 1, CampaignInput{Name: "x", Channel: dom.ChannelEmail, ScheduledAt: &future, TemplateID: &tpl.ID})
	require.NoError(t, err)

	out, err := f.svc.Update(ctx, 1, c.ID, CampaignPatch{ClearSchedule: true, ClearTemplate: true})
	require.NoError(t, err)
	assert.Nil(t, out.ScheduledAt)
	assert.Nil(t, out.TemplateID)
	assert.Equal(t, dom.CampaignDraft, out.Status)
}

func TestCampaignRecipients(t *testing.T) {
	ctx := context.Background()
	f := newCampaignFixture(t, true)
	mail := f.create(t, dom.ChannelMail)

	var verr *ValidationError
	_, err := f.svc.AddRecipients(ctx, 1, mail.ID, nil)
	assert.ErrorAs(t, err, &verr)
	_, err = f.svc.AddRecipients(ctx, 1, mail.ID, []dom.Recipient{{Email: "only@example.com"}})
	assert.ErrorAs(t, err, &verr)
	_, err = f.svc.AddRecipients(ctx, 1, mail.ID, []dom.Recipient{{Name: "nobody"}})
	assert.ErrorAs(t, err, &verr)

	n, err := f.svc.AddRecipients(ctx, 1, mail.ID, []dom.Recipient{
		{AddressLine1: " 1 Main St ", PostalCode: "12345"},
		{AddressLine1: "2 Main St", PostalCode: "12345"},
		{AddressLine1: "3 Main St", PostalCode: "12345"},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	page, err := f.svc.ListRecipients(ctx, mail.ID, 0, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "1 Main St", page[0].AddressLine1)

	rest, err := f.svc.ListRecipients(ctx, mail.ID, page[1].ID, 0)
	require.NoError(t, err)
	assert.Len(t, rest, 1)

	_, err = f.svc.ListRecipients(ctx, 404, 0, 10)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCampaignListReflectsWorkerProgress(t *testing.T) {
	ctx := context.Background()
	f := newCampaignFixture(t, true)
	c := f.create(t, dom.ChannelEmail)

	list, err := f.svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, dom.CampaignDraft, list[0].Status)

	_, err = f.campaigns.StartProcessing(ctx, c.ID, 2)
	require.NoError(t, err)
	_, err = f.campaigns.RecordBatch(ctx, c.ID, false)
	require.NoError(t, err)

	list, err = f.svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	got, err := f.svc.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, got.Status, list[0].Status)
	assert.Equal(t, dom.CampaignSending, list[0].Status)
	assert.Equal(t, 1, list[0].ProcessedBatches)

	require.NoError(t, f.svc.Delete(ctx, 1, c.ID))
	list, err = f.svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	assert.ErrorIs(t, f.svc.Delete(ctx, 1, c.ID), ErrNotFound)
	assert.Equal(t, []string{"campaign:create", "campaign:delete"}, f.audit.actions())
}

func TestCampaignLockedWhileJobActive(t *testing.T) {
	ctx := context.Background()
	f := newCampaignFixture(t, true)
	c := f.create(t, dom.ChannelEmail)
	_, err := f.svc.AddRecipients(ctx, 1, c.ID, []dom.Recipient{{Email: "a@example.com"}})
	require.NoError(t, err)

	job, err := f.svc.Dispatch(ctx, 1, c.ID)
	require.NoError(t, err)

	_, err = f.svc.AddRecipients(ctx, 1, c.ID, []dom.Recipient{{Email: "late@example.com"}})
	assert.ErrorIs(t, err, ErrConflict)
	channel := dom.ChannelMail
	_, err = f.svc.Update(ctx, 1, c.ID, CampaignPatch{Channel: &channel})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = f.jobs.Claim(ctx, job.ID, time.Minute)
	require.NoError(t, err)
	_, err = f.svc.AddRecipients(ctx, 1, c.ID, []dom.Recipient{{Email: "late@example.com"}})
	assert.ErrorIs(t, err, ErrConflict, "running job")

	n, err := f.campaigns.CountRecipients(ctx, c.ID, "")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = f.jobs.SetStatus(ctx, job.ID, dom.JobFailed, "boom")
	require.NoError(t, err)
	name := "retry"
	out, err := f.svc.Update(ctx, 1, c.ID, CampaignPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "retry", out.Name)
}

func TestCampaignStoredStatusFollowsCounters(t *testing.T) {
	ctx := context.Background()
	f := newCampaignFixture(t, true)
	future := time.Now().Add(time.Hour)
	c, err := f.svc.Create(ctx, 1, CampaignInput{Name: "later", Channel: dom.ChannelEmail, ScheduledAt: &future})
	require.NoError(t, err)

	started, err := f.campaigns.StartProcessing(ctx, c.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, dom.CampaignScheduled, started.Status, "no batch recorded yet")

	stored, err := f.campaigns.GetByID(ctx, c.ID)
	require.NoError(t, err)
	got, err := f.svc.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, got.Status, stored.Status)

	recorded, err := f.campaigns.RecordBatch(ctx, c.ID, false)
	require.NoError(t, err)
	assert.Equal(t, dom.CampaignSending, recorded.Status)
}
