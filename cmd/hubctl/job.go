package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hubplus/internal/app"
	dom "hubplus/internal/domain"
	"hubplus/internal/repo"
	"hubplus/internal/service"

	"github.com/spf13/cobra"
)

var watchInterval time.Duration

var jobCmd = &cobra.Command{
	Use:   "job",
	Short: "Inspect processing jobs",
}

var jobWatchCmd = &cobra.Command{
	Use:   "watch <job-id>",
	Short: "Poll a job until it completes or fails",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := app.NewPostgres(cmd.Context(), cfg.PG)
		if err != nil {
			return err
		}
		defer db.Close()
		jobs := service.NewJobService(repo.NewPGJobRepo(db))
		return watchJob(cmd.Context(), jobs, args[0], watchInterval, func(j dom.ProcessingJob) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %d/%d %s\n", j.ID, j.Status, j.Processed, j.Total, j.Error)
		})
	},
}

func init() {
	jobWatchCmd.Flags().DurationVar(&watchInterval, "interval", 2*time.Second, "poll interval")
	jobCmd.AddCommand(jobWatchCmd)
}

type jobGetter interface {
	GetByID(ctx context.Context, id string) (dom.ProcessingJob, error)
}

var errJobFailed = errors.New("job failed")

// watchJob reports every change in status or progress and returns once the job is terminal.
func watchJob(ctx context.Context, jobs jobGetter, id string, every time.Duration, report func(dom.ProcessingJob)) error {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	var last dom.ProcessingJob
	for {
		j, err := jobs.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if j.Status != last.Status || j.Processed != last.Processed || j.Total != last.Total {
			report(j)
			last = j
		}
		if j.Status.Terminal() {
			if j.Status == dom.JobFailed {
				return fmt.Errorf("%w: %s", errJobFailed, j.Error)
			}
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
