package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/2beens/trainingtracker/internal/config"
	"github.com/2beens/trainingtracker/internal/display"
	"github.com/2beens/trainingtracker/internal/logging"
	"github.com/2beens/trainingtracker/internal/secrets"
	"github.com/2beens/trainingtracker/internal/storage"
	"github.com/2beens/trainingtracker/internal/telemetry/metrics"
	"github.com/2beens/trainingtracker/internal/tracker"
	"github.com/2beens/trainingtracker/internal/training"
	"github.com/2beens/trainingtracker/internal/training/recommend"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

type rootOptions struct {
	env        string
	configPath string
	seed       int64
	dryRun     bool
}

// app is everything one invocation needs, built once from the config.
type app struct {
	cfg      *config.Config
	location *time.Location
	terminal *display.Terminal
	engine   *recommend.Engine
	session  *tracker.Session

	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	dryRun         bool
	closeLogs      func() error
}

func newApp(ctx context.Context, opts *rootOptions, out, errOut io.Writer) (*app, error) {
	cfg, err := config.Load(opts.env, opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	closeLogs := logging.Setup(logging.LoggerSetupParams{
		LogFileName:      cfg.LogsPath,
		LogToStdout:      cfg.LogToStdout,
		Console:          errOut,
		LogLevel:         cfg.LogLevel,
		LogFormatJSON:    cfg.LogFormatJSON,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        os.Getenv("SENTRY_DSN"),
		SentryServerName: "training-tracker",
	})

	location, err := cfg.Location()
	if err != nil {
		_ = closeLogs()
		return nil, err
	}

	store, err := storage.New(ctx, storage.Params{
		Backend:   cfg.StorageBackend,
		Worksheet: cfg.Worksheet,
		XLSXPath:  cfg.XLSXPath,
		LoadSecrets: func() (*secrets.Bundle, error) {
			return secrets.Load(secrets.Params{
				EnvFile:         cfg.SecretsEnvFile,
				CredentialsFile: cfg.CredentialsPath,
			})
		},
	})
	if err != nil {
		_ = closeLogs()
		return nil, fmt.Errorf("setup storage: %w", err)
	}

	promRegistry := prometheus.NewRegistry()
	metricsManager := metrics.NewManager("training_tracker", "main", promRegistry)

	var randSource recommend.RandSource
	if opts.seed != 0 {
		randSource = rand.New(rand.NewSource(opts.seed))
	}

	log.Debugf("storage backend: [%s], timezone: [%s]", cfg.StorageBackend, location)

	return &app{
		cfg:            cfg,
		location:       location,
		terminal:       display.NewTerminal(out),
		engine:         recommend.NewEngine(randSource),
		session:        tracker.NewSession(store, metricsManager),
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		dryRun:         opts.dryRun,
		closeLogs:      closeLogs,
	}, nil
}

func (a *app) close() {
	if err := a.closeLogs(); err != nil {
		a.terminal.Error(fmt.Sprintf("close log file: %s", err))
	}
}

func (a *app) today() time.Time {
	return training.DateOf(time.Now().In(a.location))
}

// recommendToday counts every shown recommendation by outcome.
func (a *app) recommendToday() recommend.Recommendation {
	rec := a.engine.Recommend(a.session.History(), a.today())
	a.metricsManager.CounterRecommendations.WithLabelValues(outcome(rec.IsRestDay())).Inc()
	return rec
}

func outcome(restDay bool) string {
	if restDay {
		return "rest"
	}
	return "train"
}

// loadHistory reports a failed load and carries on with an empty history.
func (a *app) loadHistory(ctx context.Context) {
	if err := a.session.Load(ctx); err != nil {
		a.terminal.Error(fmt.Sprintf("Error loading training data: %s", err))
	}
}

// saveIfChanged is called once, at the end of every invocation.
func (a *app) saveIfChanged(ctx context.Context) error {
	if a.dryRun {
		if a.session.Changed() {
			a.terminal.Info("dry run, training data not saved")
		}
		return nil
	}

	saved, err := a.session.SaveIfChanged(ctx)
	if err != nil {
		if errors.Is(err, tracker.ErrHistoryNotLoaded) {
			a.terminal.Error("Failed to save training data: the stored history could not be loaded")
		} else {
			a.terminal.Error(fmt.Sprintf("Failed to save training data: %s", err))
		}
		return err
	}
	if saved {
		a.terminal.Success("Training data saved successfully!")
	}
	return nil
}
