package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/trainingtracker/internal/config"
	"github.com/2beens/trainingtracker/internal/middleware"
	"github.com/2beens/trainingtracker/internal/scheduler"
	"github.com/2beens/trainingtracker/internal/telemetry/metrics"
	"github.com/2beens/trainingtracker/internal/training/recommend"

	"github.com/getsentry/sentry-go"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	config            *config.Config

	handler   *Handler
	scheduler *scheduler.Scheduler

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config         *config.Config
	Session        trainingSession
	Engine         *recommend.Engine
	MetricsManager *metrics.Manager
	PromRegistry   *prometheus.Registry
	OtelShutdown   func()
}

func NewServer(params NewServerParams) (*Server, error) {
	location, err := params.Config.Location()
	if err != nil {
		return nil, err
	}

	otelShutdown := params.OtelShutdown
	if otelShutdown == nil {
		otelShutdown = func() {}
	}

	handler := NewHandler(NewHandlerParams{
		Session:      params.Session,
		Engine:       params.Engine,
		Metrics:      params.MetricsManager,
		Location:     location,
		HeatmapDays:  params.Config.HeatmapDays,
		DefaultLevel: params.Config.DefaultLevel,
	})

	s := &Server{
		config:         params.Config,
		handler:        handler,
		metricsManager: params.MetricsManager,
		promRegistry:   params.PromRegistry,
		otelShutdown:   otelShutdown,
	}
	s.scheduler = scheduler.New(location, s.dailyReload)

	s.metricsManager.GaugeLifeSignal.Set(0)

	return s, nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("training-tracker-router"))

	s.handler.SetupRoutes(r)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.BoundRequestBody(megabyte))

	return r
}

// dailyReload picks up workouts logged elsewhere (e.g. straight into the sheet) and logs the day's plan.
func (s *Server) dailyReload() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	rec, err := s.handler.Reload(ctx)
	if err != nil {
		log.Errorf("daily reload: %s", err)
		return
	}

	if rec.IsRestDay() {
		log.Infof("daily reload done, today is a rest day")
		return
	}
	log.Infof("daily reload done, today: %s x %d", rec.Exercise, rec.TargetReps)
}

func (s *Server) Serve() error {
	ipAndPort := net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))
	s.httpServer = &http.Server{
		Handler:      s.routerSetup(),
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	if err := s.scheduler.Start(s.config.DailyJobAt); err != nil {
		return err
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)

	return nil
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)
	s.scheduler.Stop()

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
