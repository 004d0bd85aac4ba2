package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hubplus/internal/audit"
	"hubplus/internal/config"
	"hubplus/internal/logger"
	"hubplus/internal/messaging"
	"hubplus/internal/metrics"
	"hubplus/internal/repo"
	"hubplus/internal/service"
	"hubplus/internal/worker"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type App struct {
	cfg     config.Config
	log     *zap.Logger
	db      *pgxpool.Pool
	redis   *redis.Client
	nc      *nats.Conn
	queue   *messaging.JobQueue
	audit   *audit.Store
	metrics *metrics.Metrics
	router  *gin.Engine

	stopWorker context.CancelFunc
	workerDone chan struct{}
}

// New connects every dependency, runs migrations and builds the router.
// NATS and ClickHouse are optional.
func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	a := &App{cfg: cfg, log: log, metrics: metrics.New()}
	if err := a.init(ctx); err != nil {
		_ = a.Close(context.Background())
		return nil, err
	}
	return a, nil
}

func (a *App) init(ctx context.Context) (err error) {
	cfg, log := a.cfg, a.log

	if a.db, err = NewPostgres(ctx, cfg.PG); err != nil {
		return err
	}
	if a.redis, err = NewRedis(ctx, cfg.Redis); err != nil {
		return err
	}
	if err = RunMigrations(cfg.PG.DSN); err != nil {
		return err
	}
	log.Info("migrations applied")

	if cfg.NATS.URL != "" {
		if a.nc, err = messaging.Connect(cfg.NATS.URL, "hubplus-api", log); err != nil {
			return err
		}
		if a.queue, err = messaging.NewJobQueue(ctx, a.nc, queueConfig(cfg), log); err != nil {
			return err
		}
	} else {
		log.Warn("NATS_URL not set: campaign dispatch and audit publishing disabled")
	}

	if cfg.ClickHouse.Addr != "" {
		if a.audit, err = audit.Open(ctx, audit.Options{
			Addr:     cfg.ClickHouse.Addr,
			Database: cfg.ClickHouse.Database,
			Username: cfg.ClickHouse.Username,
			Password: cfg.ClickHouse.Password,
		}); err != nil {
			return err
		}
	}

	var sink service.AuditSink
	var reader service.AuditReader
	if a.audit != nil {
		reader = a.audit
		if a.nc != nil {
			if _, err = messaging.SubscribeAudit(a.nc, cfg.NATS.AuditSubject, a.audit, log); err != nil {
				return err
			}
			sink = messaging.NewAuditPublisher(a.nc, cfg.NATS.AuditSubject, log)
		}
	}
	var queue service.JobPublisher
	if a.queue != nil {
		queue = a.queue
	}

	a.router = newRouter(a.metrics, log)
	Setup(a.router, Deps{
		Config:  cfg,
		Repos:   repo.NewPGRepos(a.db),
		Redis:   a.redis,
		Queue:   queue,
		Audit:   sink,
		Reader:  reader,
		Metrics: a.metrics,
	})

	if cfg.Worker.Embedded && a.queue != nil {
		a.startWorker()
	}
	return nil
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func (a *App) startWorker() {
	ctx, cancel := context.WithCancel(context.Background())
	a.stopWorker = cancel
	a.workerDone = make(chan struct{})
	p := NewProcessor(a.cfg, a.db, a.log, a.metrics)
	go func() {
		defer close(a.workerDone)
		if err := a.queue.Consume(ctx, p.Process); err != nil {
			a.log.Error("embedded worker stopped", zap.Error(err))
		}
	}()
	a.log.Info("embedded campaign worker started")
}

// Close stops the worker, drains NATS, then closes the stores.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.stopWorker != nil {
		a.stopWorker()
		select {
		case <-a.workerDone:
		case <-ctx.Done():
			errs = append(errs, fmt.Errorf("worker shutdown: %w", ctx.Err()))
		}
	}
	if a.nc != nil {
		if err := a.nc.Drain(); err != nil {
			errs = append(errs, fmt.Errorf("nats drain: %w", err))
		}
	}
	if a.audit != nil {
		if err := a.audit.Close(); err != nil {
			errs = append(errs, fmt.Errorf("clickhouse close: %w", err))
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis close: %w", err))
		}
	}
	if a.db != nil {
		a.db.Close()
	}
	return errors.Join(errs...)
}

// NewProcessor builds the campaign worker over Postgres.
func NewProcessor(cfg config.Config, db *pgxpool.Pool, log *zap.Logger, m *metrics.Metrics) *worker.Processor {
	r := repo.NewPGRepos(db)
	return worker.NewProcessor(
		r.Campaigns,
		r.Jobs,
		r.Restricted,
		cfg.Worker.BatchSize,
		cfg.Worker.AckWait.Duration(),
		log.Named("worker"),
		m,
	)
}

func queueConfig(cfg config.Config) messaging.JobQueueConfig {
	return messaging.JobQueueConfig{
		Stream:     cfg.NATS.Stream,
		Subject:    cfg.NATS.JobsSubject,
		Consumer:   cfg.NATS.Consumer,
		AckWait:    cfg.Worker.AckWait.Duration(),
		MaxDeliver: cfg.Worker.MaxDeliver,
	}
}

// QueueConfig is used by the standalone worker command.
func QueueConfig(cfg config.Config) messaging.JobQueueConfig { return queueConfig(cfg) }

func newRouter(m *metrics.Metrics, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(logger.Recovery(log), logger.Gin(log), m.Gin())
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "Cookie", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "Content-Type", "X-Request-ID", "Location"},
		MaxAge:        12 * time.Hour,
	}))
	return r
}
