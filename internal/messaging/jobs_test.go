package messaging

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	dom "hubplus/internal/domain"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// fakeMsg records the acknowledgement calls made on it.
type fakeMsg struct {
	jetstream.Msg
	data       []byte
	calls      []string
	nakDelay   time.Duration
	inProgress int
}

func (m *fakeMsg) Data() []byte { return m.data }

func (m *fakeMsg) Ack() error {
	m.calls = append(m.calls, "ack")
	return nil
}

func (m *fakeMsg) Nak() error {
	m.calls = append(m.calls, "nak")
	return nil
}

func (m *fakeMsg) NakWithDelay(d time.Duration) error {
	m.calls = append(m.calls, "nak-delay")
	m.nakDelay = d
	return nil
}

func (m *fakeMsg) Term() error {
	m.calls = append(m.calls, "term")
	return nil
}

func (m *fakeMsg) InProgress() error {
	m.inProgress++
	return nil
}

func newMsg() *fakeMsg {
	return &fakeMsg{data: []byte(`{"job_id":"j-1","campaign_id":7}`)}
}

func TestHandleAcknowledgement(t *testing.T) {
	q := &JobQueue{log: zap.NewNop()}
	busy := errors.New("busy")

	cases := []struct {
		name  string
		data  string
		err   error
		calls []string
	}{
		{"success acks", "", nil, []string{"ack"}},
		{"handler error naks", "", errors.New("db down"), []string{"nak"}},
		{"retry naks with delay", "", fmt.Errorf("claim: %w", RetryAfter(busy, time.Minute)), []string{"nak-delay"}},
		{"undecodable payload is terminated", "{", nil, []string{"term"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg := newMsg()
			if tc.data != "" {
				msg.data = []byte(tc.data)
			}
			called := false
			q.handle(context.Background(), msg, func(_ context.Context, m dom.CompanyProcessingMessage, _ func()) error {
				called = true
				assert.Equal(t, dom.CompanyProcessingMessage{JobID: "j-1", CampaignID: 7}, m)
				return tc.err
			})
			assert.Equal(t, tc.calls, msg.calls)
			assert.Equal(t, tc.data == "", called)
			if tc.calls[0] == "nak-delay" {
				assert.Equal(t, time.Minute, msg.nakDelay)
			}
		})
	}
}

func TestHandleProgressExtendsDeadline(t *testing.T) {
	q := &JobQueue{log: zap.NewNop()}
	msg := newMsg()

	q.handle(context.Background(), msg, func(_ context.Context, _ dom.CompanyProcessingMessage, progress func()) error {
		progress()
		progress()
		return nil
	})
	assert.Equal(t, 2, msg.inProgress)
	assert.Equal(t, []string{"ack"}, msg.calls)
}

func TestRetryAfterUnwraps(t *testing.T) {
	busy := errors.New("busy")
	err := RetryAfter(busy, time.Second)
	assert.ErrorIs(t, err, busy)
	assert.Equal(t, "busy", err.Error())
}
