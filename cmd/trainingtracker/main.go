package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/2beens/trainingtracker/internal/display"
	"github.com/2beens/trainingtracker/internal/server"
	"github.com/2beens/trainingtracker/internal/telemetry/metrics"
	"github.com/2beens/trainingtracker/internal/telemetry/tracing"
	"github.com/2beens/trainingtracker/internal/training"
	"github.com/2beens/trainingtracker/internal/training/progression"
	"github.com/2beens/trainingtracker/internal/training/stats"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "trainingtracker",
		Short:         "Daily bodyweight training recommendations and workout history",
		SilenceUsage:  true,
		SilenceErrors: true,
		// without a subcommand: today's status, the history heatmap and the progression table
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				a.terminal.Recommendation(a.recommendToday())
				a.terminal.Heatmap(stats.BuildHeatmap(a.session.History(), a.today(), a.cfg.HeatmapDays))
				a.terminal.Progression(progression.Table())
				return nil
			})
		},
	}
	root.PersistentFlags().StringVar(&opts.env, "env", "development", "environment [prod | production | dev | development]")
	root.PersistentFlags().StringVar(&opts.configPath, "config", "./config.toml", "path for the TOML config file")
	root.PersistentFlags().Int64Var(&opts.seed, "seed", 0, "seed for the exercise pick (0 = random)")
	root.PersistentFlags().BoolVar(&opts.dryRun, "dry-run", false, "never write the training history back")

	root.AddCommand(newTodayCmd(opts))
	root.AddCommand(newLogCmd(opts))
	root.AddCommand(newHistoryCmd(opts))
	root.AddCommand(newHeatmapCmd(opts))
	root.AddCommand(newProgressionCmd(opts))
	root.AddCommand(newServeCmd(opts))
	return root
}

// withApp loads the history, runs fn and saves the history if fn changed it.
func withApp(cmd *cobra.Command, opts *rootOptions, fn func(ctx context.Context, a *app) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := newApp(ctx, opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.close()

	a.loadHistory(ctx)
	if err := fn(ctx, a); err != nil {
		return err
	}
	return a.saveIfChanged(ctx)
}

func newTodayCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Show whether today is a training day, and what to do",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(_ context.Context, a *app) error {
				a.terminal.Recommendation(a.recommendToday())
				return nil
			})
		},
	}
}

func newLogCmd(opts *rootOptions) *cobra.Command {
	var exercise, date, level string
	var sets, reps int

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Log a finished workout",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(_ context.Context, a *app) error {
				ex, err := training.ParseExercise(exercise)
				if err != nil {
					return err
				}

				workoutDate := a.today()
				if date != "" {
					if workoutDate, err = training.ParseDate(date); err != nil {
						return fmt.Errorf("invalid date %q, expected %s", date, training.DateLayout)
					}
				}

				if level == "" {
					level = a.cfg.DefaultLevel
				}

				record, err := training.NewWorkoutRecord(workoutDate, ex, sets, reps, level)
				if err != nil {
					return err
				}
				if err := a.session.Log(record); err != nil {
					return err
				}

				a.terminal.Success(fmt.Sprintf("logged %s: %d x %d (%s)", record.Exercise, record.Sets, record.Reps, record.Date.Format(training.DateLayout)))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&exercise, "exercise", "", "push-ups | squats | pull-ups | dips | lunges | plank")
	cmd.Flags().IntVar(&sets, "sets", 0, "number of sets")
	cmd.Flags().IntVar(&reps, "reps", 0, "reps per set")
	cmd.Flags().StringVar(&level, "level", "", "progression level (default from config)")
	cmd.Flags().StringVar(&date, "date", "", "workout date, YYYY-MM-DD (default today)")
	_ = cmd.MarkFlagRequired("exercise")
	_ = cmd.MarkFlagRequired("sets")
	_ = cmd.MarkFlagRequired("reps")

	return cmd
}

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List logged workouts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(_ context.Context, a *app) error {
				a.terminal.History(a.session.History().Records())
				return nil
			})
		},
	}
}

func newHeatmapCmd(opts *rootOptions) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "heatmap",
		Short: "Show how often you trained, per day",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(_ context.Context, a *app) error {
				if days <= 0 {
					days = a.cfg.HeatmapDays
				}
				a.terminal.Heatmap(stats.BuildHeatmap(a.session.History(), a.today(), days))
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&days, "days", 0, "number of days to show (default from config)")

	return cmd
}

func newProgressionCmd(_ *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "progression",
		Short: "Show the progression reference table",
		RunE: func(cmd *cobra.Command, _ []string) error {
			display.NewTerminal(cmd.OutOrStdout()).Progression(progression.Table())
			return nil
		},
	}
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the tracker over HTTP, with a daily history reload",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			a, err := newApp(ctx, opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close()
			log.Warnf("---->> running in [%s] environment", a.cfg.Environment)

			// use honeycomb distro to setup OpenTelemetry SDK
			otelShutdown, err := tracing.HoneycombSetup(a.cfg.HoneycombTracingEnabled, "training-tracker")
			if err != nil {
				return err
			}

			if err := metrics.RegisterRuntimeCollectors(a.promRegistry); err != nil {
				return err
			}

			loadCtx, cancel := context.WithTimeout(ctx, time.Minute)
			a.loadHistory(loadCtx)
			cancel()

			srv, err := server.NewServer(server.NewServerParams{
				Config:         a.cfg,
				Session:        a.session,
				Engine:         a.engine,
				MetricsManager: a.metricsManager,
				PromRegistry:   a.promRegistry,
				OtelShutdown:   otelShutdown,
			})
			if err != nil {
				return fmt.Errorf("new server: %w", err)
			}

			chOsInterrupt := make(chan os.Signal, 1)
			signal.Notify(chOsInterrupt, os.Interrupt, syscall.SIGTERM)

			if err := srv.Serve(); err != nil {
				srv.GracefulShutdown()
				return err
			}

			receivedSig := <-chOsInterrupt
			log.Warnf("signal [%s] received, shutting down ...", receivedSig)

			srv.GracefulShutdown()
			return nil
		},
	}
}
