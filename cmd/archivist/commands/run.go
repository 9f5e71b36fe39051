package commands

import (
	"github.com/spf13/cobra"
	"github.com/walteh/archivist/cmd/archivist/opts"
	"github.com/walteh/archivist/pkg/config"
	"github.com/walteh/archivist/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// NewRunCmd creates the run command
func NewRunCmd(opts *opts.RootOpts) *cobra.Command {
	var (
		configFile string
		jobNames   []string
		demo       bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run jobs from a config file",
		Long: `Run loads jobs from an HCL, YAML or JSON file and runs them one after
another. The first failing job stops the run.`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			jobs, err := loadJobs(cmd, opts, configFile, jobNames...)
			if err != nil {
				return err
			}
			if demo {
				for i := range jobs {
					jobs[i].Demo = true
				}
			}

			_, err = opts.Runner().RunAll(ctx, jobs)
			return err
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "archivist.hcl", "config file path")
	cmd.Flags().StringArrayVar(&jobNames, "job", nil, "only run the named job, repeatable")
	cmd.Flags().BoolVar(&demo, "demo", false, "force demo mode for every job")

	return cmd
}

// loadJobs loads a config file and builds the selected jobs
func loadJobs(cmd *cobra.Command, opts *opts.RootOpts, path string, names ...string) ([]operation.Job, error) {
	cfg, err := config.LoadFs(cmd.Context(), opts.Fs, path)
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}

	selected, err := cfg.Select(names...)
	if err != nil {
		return nil, err
	}

	jobs := make([]operation.Job, 0, len(selected))
	for _, j := range selected {
		job, err := j.Build()
		if err != nil {
			return nil, errors.Errorf("job %s: %w", j.Name, err)
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}
