package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCampaignResolveStatus(t *testing.T) {
	now := time.Now()
	cases := []struct {
		name string
		c    Campaign
		want CampaignStatus
	}{
		{"empty is draft", Campaign{}, CampaignDraft},
		{"scheduled", Campaign{ScheduledAt: &now}, CampaignScheduled},
		{"sending after first batch", Campaign{ScheduledAt: &now, TotalBatches: 3, ProcessedBatches: 1}, CampaignSending},
		{"failed batch alone is still sending", Campaign{TotalBatches: 3, FailedBatches: 1}, CampaignSending},
		{"all batches processed", Campaign{TotalBatches: 3, ProcessedBatches: 3}, CampaignSent},
		{"all done with a failure", Campaign{TotalBatches: 3, ProcessedBatches: 2, FailedBatches: 1}, CampaignFailed},
		{"cancel wins", Campaign{TotalBatches: 3, ProcessedBatches: 3, CancelledAt: &now}, CampaignCancelled},
		{"zero batches never sent", Campaign{TotalBatches: 0, ProcessedBatches: 0}, CampaignDraft},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.c.ResolveStatus())
		})
	}
}

func TestCampaignDispatchable(t *testing.T) {
	now := time.Now()
	assert.True(t, Campaign{}.Dispatchable())
	assert.True(t, Campaign{ScheduledAt: &now}.Dispatchable())
	assert.False(t, Campaign{TotalBatches: 2, ProcessedBatches: 1}.Dispatchable())
	assert.False(t, Campaign{CancelledAt: &now}.Dispatchable())
}

func TestBatchCount(t *testing.T) {
	assert.Equal(t, 0, BatchCount(0, 100))
	assert.Equal(t, 1, BatchCount(1, 100))
	assert.Equal(t, 1, BatchCount(100, 100))
	assert.Equal(t, 2, BatchCount(101, 100))
	assert.Equal(t, 0, BatchCount(10, 0))
}

func TestAdmit(t *testing.T) {
	status, pos := Admit(2, 0, 0)
	assert.Equal(t, RegistrationConfirmed, status)
	assert.Zero(t, pos)

	status, pos = Admit(2, 1, 0)
	assert.Equal(t, RegistrationConfirmed, status)
	assert.Zero(t, pos)

	status, pos = Admit(2, 2, 0)
	assert.Equal(t, RegistrationWaitlisted, status)
	assert.Equal(t, 1, pos)

	// capacity lowered below confirmed count still waitlists
	status, pos = Admit(1, 3, 4)
	assert.Equal(t, RegistrationWaitlisted, status)
	assert.Equal(t, 5, pos)
}

func TestVoucherExpired(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)
	assert.False(t, Voucher{}.Expired(now))
	assert.True(t, Voucher{ExpiresAt: &past}.Expired(now))
	assert.True(t, Voucher{ExpiresAt: &now}.Expired(now))
	assert.False(t, Voucher{ExpiresAt: &future}.Expired(now))
}

func TestGoalProgress(t *testing.T) {
	assert.Equal(t, 0, GoalProgress{}.Percent())
	assert.Equal(t, 33, GoalProgress{Total: 3, Done: 1}.Percent())
	assert.Equal(t, 100, GoalProgress{Total: 2, Done: 2}.Percent())
	assert.True(t, ValidGoalStatus(GoalAbandoned))
	assert.False(t, ValidGoalStatus("paused"))
}

func TestTodoIsOverdue(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	assert.True(t, Todo{DueAt: &past}.IsOverdue(now))
	assert.False(t, Todo{DueAt: &past, IsDone: true}.IsOverdue(now))
	assert.False(t, Todo{}.IsOverdue(now))
}

func TestJobStatusTerminal(t *testing.T) {
	assert.True(t, JobCompleted.Terminal())
	assert.True(t, JobFailed.Terminal())
	assert.False(t, JobRunning.Terminal())
	assert.False(t, JobPending.Terminal())
}

func TestAssignWaitlistPositions(t *testing.T) {
	list := []Registration{
		{ID: 1, Status: RegistrationConfirmed},
		{ID: 2, Status: RegistrationWaitlisted},
		{ID: 3, Status: RegistrationWaitlisted, Position: 9},
	}
	AssignWaitlistPositions(list)
	assert.Equal(t, 0, list[0].Position)
	assert.Equal(t, 1, list[1].Position)
	assert.Equal(t, 2, list[2].Position)
}
