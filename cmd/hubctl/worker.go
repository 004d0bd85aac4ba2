package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"hubplus/internal/app"
	"hubplus/internal/messaging"
	"hubplus/internal/metrics"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var metricsAddr string

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Consume campaign processing jobs from JetStream",
	Long: `Runs the campaign worker as its own process. Each message claims its pending job,
sorts pending recipients into queued or suppressed batch by batch, and completes the job.
Redelivery follows the consumer's ack wait and max deliver settings.`,
	RunE: runWorker,
}

func init() {
	workerCmd.Flags().StringVar(&metricsAddr, "metrics-addr", ":9090", "listen address for /metrics; empty disables")
}

func runWorker(cmd *cobra.Command, args []string) error {
	if cfg.NATS.URL == "" {
		return errors.New("NATS_URL is required for the worker")
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := app.NewPostgres(ctx, cfg.PG)
	if err != nil {
		return err
	}
	defer db.Close()

	nc, err := messaging.Connect(cfg.NATS.URL, "hubplus-worker", log)
	if err != nil {
		return err
	}
	defer func() {
		if err := nc.Drain(); err != nil {
			log.Warn("nats drain", zap.Error(err))
		}
	}()

	queue, err := messaging.NewJobQueue(ctx, nc, app.QueueConfig(cfg), log)
	if err != nil {
		return err
	}

	m := metrics.New()
	if metricsAddr != "" {
		srv := &http.Server{Addr: metricsAddr, Handler: m.Handler(), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("metrics server", zap.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	p := app.NewProcessor(cfg, db, log, m)
	log.Info("worker started", zap.Int("batch_size", cfg.Worker.BatchSize))
	if err := queue.Consume(ctx, p.Process); err != nil {
		return fmt.Errorf("consume: %w", err)
	}
	log.Info("worker stopped")
	return nil
}
