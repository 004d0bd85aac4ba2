package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	dom "hubplus/internal/domain"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"
)

// JobQueueConfig names the JetStream resources used by the campaign queue.
type JobQueueConfig struct {
	Stream     string
	Subject    string
	Consumer   string
	AckWait    time.Duration
	MaxDeliver int
}

// JobQueue publishes and consumes CompanyProcessingMessage on JetStream.
// Redelivery is governed by the consumer's AckWait and MaxDeliver.
type JobQueue struct {
	js  jetstream.JetStream
	cfg JobQueueConfig
	log *zap.Logger
}

// NewJobQueue ensures the work-queue stream exists.
func NewJobQueue(ctx context.Context, nc *nats.Conn, cfg JobQueueConfig, log *zap.Logger) (*JobQueue, error) {
	js, err := jetstream.New(nc)
	if err != nil {
		return nil, fmt.Errorf("get jetstream: %w", err)
	}
	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:      cfg.Stream,
		Subjects:  []string{cfg.Subject},
		Retention: jetstream.WorkQueuePolicy,
		Storage:   jetstream.FileStorage,
	})
	if err != nil {
		return nil, fmt.Errorf("create stream %s: %w", cfg.Stream, err)
	}
	return &JobQueue{js: js, cfg: cfg, log: log}, nil
}

func (q *JobQueue) Publish(ctx context.Context, m dom.CompanyProcessingMessage) error {
	b, err := json.Marshal(m)
	if err != nil {
		return err
	}
	if _, err := q.js.Publish(ctx, q.cfg.Subject, b, jetstream.WithMsgID(m.JobID)); err != nil {
		return fmt.Errorf("publish job %s: %w", m.JobID, err)
	}
	return nil
}

// Handler processes one job message. A returned error naks the message for redelivery.
// progress extends the ack deadline of the message being handled.
type Handler func(ctx context.Context, m dom.CompanyProcessingMessage, progress func()) error

// RetryAfter wraps err so the message is redelivered no sooner than delay.
func RetryAfter(err error, delay time.Duration) error {
	return &retryError{err: err, delay: delay}
}

type retryError struct {
	err   error
	delay time.Duration
}

func (e *retryError) Error() string { return e.err.Error() }
func (e *retryError) Unwrap() error { return e.err }

// Consume fetches from the durable consumer until ctx is cancelled.
func (q *JobQueue) Consume(ctx context.Context, h Handler) error {
	stream, err := q.js.Stream(ctx, q.cfg.Stream)
	if err != nil {
		return fmt.Errorf("get stream %s: %w", q.cfg.Stream, err)
	}
	consumer, err := stream.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		Durable:       q.cfg.Consumer,
		FilterSubject: q.cfg.Subject,
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       q.cfg.AckWait,
		MaxDeliver:    q.cfg.MaxDeliver,
	})
	if err != nil {
		return fmt.Errorf("create consumer: %w", err)
	}

	q.log.Info("campaign consumer started",
		zap.String("stream", q.cfg.Stream),
		zap.String("consumer", q.cfg.Consumer),
		zap.String("subject", q.cfg.Subject))

	for {
		if ctx.Err() != nil {
			return nil
		}
		msgs, err := consumer.Fetch(1, jetstream.FetchMaxWait(5*time.Second))
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			q.log.Debug("fetch", zap.Error(err))
			continue
		}
		for msg := range msgs.Messages() {
			q.handle(ctx, msg, h)
		}
		if err := msgs.Error(); err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, nats.ErrTimeout) {
			q.log.Warn("message fetch error", zap.Error(err))
		}
	}
}

func (q *JobQueue) handle(ctx context.Context, msg jetstream.Msg, h Handler) {
	var m dom.CompanyProcessingMessage
	if err := json.Unmarshal(msg.Data(), &m); err != nil {
		q.log.Error("decode job message", zap.Error(err))
		if err := msg.Term(); err != nil {
			q.log.Warn("term message", zap.Error(err))
		}
		return
	}
	progress := func() {
		if err := msg.InProgress(); err != nil {
			q.log.Warn("extend ack deadline", zap.String("job_id", m.JobID), zap.Error(err))
		}
	}
	if err := h(ctx, m, progress); err != nil {
		var retry *retryError
		if errors.As(err, &retry) {
			q.log.Info("job deferred", zap.String("job_id", m.JobID), zap.Duration("delay", retry.delay), zap.Error(err))
			if err := msg.NakWithDelay(retry.delay); err != nil {
				q.log.Warn("nak message", zap.Error(err))
			}
			return
		}
		q.log.Error("job failed", zap.String("job_id", m.JobID), zap.Error(err))
		if err := msg.Nak(); err != nil {
			q.log.Warn("nak message", zap.Error(err))
		}
		return
	}
	if err := msg.Ack(); err != nil {
		q.log.Warn("ack message", zap.String("job_id", m.JobID), zap.Error(err))
	}
}
