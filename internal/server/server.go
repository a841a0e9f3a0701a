package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/cicconee/marine-forecast/internal/forecast"
	"github.com/cicconee/marine-forecast/internal/observability"
	"github.com/cicconee/marine-forecast/internal/refresh"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

type Server struct {
	Router          *chi.Mux
	Addr            string
	ShutdownTimeout time.Duration
	Logger          *logrus.Logger
	Forecasts       *forecast.Service
	Scheduler       *refresh.Scheduler
	Metrics         *observability.Metrics

	// Serves /metrics. Nil means prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer

	HealthChecks []HealthCheck

	handler      *Handler
	shutdownCh   chan os.Signal
	worker       *worker
	workerKillCh chan<- struct{}
	wg           *sync.WaitGroup
}

func (s *Server) addr() string {
	if s.Addr == "" {
		s.Addr = ":8080"
	}

	return s.Addr
}

func (s *Server) shutdownTimeout() time.Duration {
	if s.ShutdownTimeout == 0 {
		s.ShutdownTimeout = 10 * time.Second
	}

	return s.ShutdownTimeout
}

func (s *Server) gatherer() prometheus.Gatherer {
	if s.Gatherer == nil {
		return prometheus.DefaultGatherer
	}

	return s.Gatherer
}

func (s *Server) init() {
	s.setRoutes()

	s.shutdownCh = make(chan os.Signal, 1)
	signal.Notify(s.shutdownCh, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	workerKillCh := make(chan struct{}, 1)
	s.workerKillCh = workerKillCh
	s.worker = &worker{
		scheduler: s.Scheduler,
		killCh:    workerKillCh,
	}

	s.wg = &sync.WaitGroup{}
}

func (s *Server) setRoutes() {
	s.handler = NewHandler(s.Logger)
	s.handler.forecasts = s.Forecasts
	s.handler.checks = s.HealthChecks

	logger := &RequestLogger{logger: s.Logger, metrics: s.Metrics}
	s.Router.Use(middleware.RequestID)
	s.Router.Use(middleware.Recoverer)
	s.Router.Use(logger.Handle)

	s.Router.Get("/healthz", s.handler.HandleHealth())
	s.Router.Handle("/metrics", promhttp.HandlerFor(s.gatherer(), promhttp.HandlerOpts{}))

	s.Router.Get("/forecasts", s.handler.HandleGetForecasts())
	s.Router.Get("/zones", s.handler.HandleGetZones())
	s.Router.Get("/zones/{layer}/{id}/forecast", s.handler.HandleGetZoneForecast())
}

func (s *Server) run(runFn func()) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		runFn()
	}()
}

func (s *Server) listenAndServe() error {
	httpServer := &http.Server{
		Addr:              s.addr(),
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	startCh := make(chan error, 1)
	go func() {
		s.Logger.Infof("listening on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			startCh <- fmt.Errorf("failed to start server: %w", err)
		}
	}()

	// Wait for either a shutdown signal or an error if the server
	// cannot start.
	select {
	case err := <-startCh:
		s.workerKillCh <- struct{}{}
		s.wg.Wait()
		return err
	case sig := <-s.shutdownCh:
		s.Logger.Infof("received %s, shutting down", sig)

		ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout())
		defer func() {
			defer cancel()

			// Kill background worker.
			s.workerKillCh <- struct{}{}

			// Wait for all resources to stop.
			s.wg.Wait()
		}()

		// Gracefully shutdown the http server.
		if err := httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}
	}

	return nil
}

func (s *Server) validate() error {
	if s.Router == nil {
		return errors.New("router is nil")
	}

	if s.Logger == nil {
		return errors.New("logger is nil")
	}

	if s.Forecasts == nil {
		return errors.New("forecasts is nil")
	}

	if s.Scheduler == nil {
		return errors.New("scheduler is nil")
	}

	return nil
}

func (s *Server) Start() error {
	if err := s.validate(); err != nil {
		return err
	}

	s.init()
	s.run(func() {
		s.worker.start()
	})

	return s.listenAndServe()
}
