package commands

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/archivist/cmd/archivist/opts"
	"github.com/walteh/archivist/pkg/config"
	"github.com/walteh/archivist/pkg/log"
	"github.com/walteh/archivist/pkg/operation"
	"github.com/walteh/archivist/pkg/schedule"
	"gitlab.com/tozd/go/errors"
)

// NewScheduleCmd creates the schedule command
func NewScheduleCmd(opts *opts.RootOpts) *cobra.Command {
	var (
		configFile string
		now        bool
	)

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run jobs from a config file on their cron schedules",
		Long: `Schedule keeps running until interrupted. Every job with a schedule
attribute fires on that cron expression; jobs without one are ignored.
Runs never overlap.`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := zerolog.Ctx(ctx)

			cfg, err := config.LoadFs(ctx, opts.Fs, configFile)
			if err != nil {
				return errors.Errorf("loading config: %w", err)
			}

			jobs := map[string]operation.Job{}
			runner := opts.Runner()
			sched := schedule.New(func(ctx context.Context, name string) error {
				stats, err := runner.Run(ctx, jobs[name])
				if err != nil {
					log.FromContext(ctx).Errorf("%s failed after %d/%d files: %v", name, stats.Succeeded, stats.Eligible, err)
					return err
				}
				log.FromContext(ctx).Successf("%s finished: %d/%d files", name, stats.Succeeded, stats.Eligible)
				return nil
			})

			for _, j := range cfg.Jobs {
				if j.Schedule == "" {
					logger.Debug().Str("job", j.Name).Msg("no schedule, skipping")
					continue
				}
				job, err := j.Build()
				if err != nil {
					return errors.Errorf("job %s: %w", j.Name, err)
				}
				if err := sched.Add(j.Name, j.Schedule); err != nil {
					return errors.Errorf("%w: job %s: %w", operation.ErrInvalidJob, j.Name, err)
				}
				jobs[j.Name] = job
			}
			if len(jobs) == 0 {
				return errors.Errorf("%w: no job in %s has a schedule", operation.ErrInvalidJob, configFile)
			}

			console := log.FromContext(ctx)
			console.Header("scheduling " + configFile)
			for _, e := range sched.Entries() {
				console.Infof("%s (%s) next at %s", e.Name, e.Spec, e.Next.Format("2006-01-02 15:04"))
			}

			if now {
				for _, e := range sched.Entries() {
					if err := sched.RunNow(ctx, e.Name); err != nil {
						console.Warningf("initial run of %s failed, waiting for its schedule", e.Name)
					}
				}
			}

			if err := sched.Start(ctx); err != nil {
				return errors.Errorf("starting scheduler: %w", err)
			}

			<-ctx.Done()
			sched.Stop()
			console.Success("scheduler stopped")
			return nil
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "archivist.hcl", "config file path")
	cmd.Flags().BoolVar(&now, "now", false, "run every scheduled job once before waiting")

	return cmd
}
