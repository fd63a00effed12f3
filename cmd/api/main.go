package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/clinic-scheduler/internal/config"
	"github.com/jwalitptl/clinic-scheduler/internal/datasource"
	"github.com/jwalitptl/clinic-scheduler/internal/handler"
	calendarHandler "github.com/jwalitptl/clinic-scheduler/internal/handler/calendar"
	"github.com/jwalitptl/clinic-scheduler/internal/middleware"
	"github.com/jwalitptl/clinic-scheduler/internal/repository/memory"
	"github.com/jwalitptl/clinic-scheduler/internal/router"
	"github.com/jwalitptl/clinic-scheduler/internal/service/scheduler"
	"github.com/jwalitptl/clinic-scheduler/internal/view"
	"github.com/jwalitptl/clinic-scheduler/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	zerolog.SetGlobalLevel(logger.ParseLevel(cfg.Logging.Level))
	appLog := logger.NewLogger(&logger.Config{
		Level:      logger.ParseLevel(cfg.Logging.Level),
		TimeFormat: time.RFC3339,
		Output:     os.Stdout,
	})

	// Core wiring: repository, scheduler, navigator, schedule feed.
	repo := memory.NewAppointmentRepository()
	schedulerSvc := scheduler.NewService(repo)
	navigator := view.NewNavigator(nil)

	feed := datasource.NewClient(datasource.Config{
		BaseURL:  cfg.DataSource.BaseURL,
		Timeout:  cfg.DataSource.Timeout,
		CacheTTL: cfg.DataSource.CacheTTL,
	})

	// Cold-start seed for today's schedule. A failed fetch is not fatal: the
	// reload endpoint retries it on demand.
	if cfg.DataSource.BaseURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.DataSource.Timeout)
		if n, err := feed.Seed(ctx, repo, time.Now()); err != nil {
			appLog.Warn("initial schedule seed failed", "error", err.Error())
		} else {
			appLog.Info("seeded today's schedule", "appointments", n)
		}
		cancel()
	}

	h := handler.NewHandler()
	calendarH := calendarHandler.NewHandler(navigator, repo, schedulerSvc, feed, nil)

	r := router.NewRouter(router.Config{
		RateLimit:  rate.Limit(cfg.RateLimit.RequestsPerSecond),
		RateBurst:  cfg.RateLimit.Burst,
		CORSConfig: middleware.DefaultCORSConfig(),
	}, calendarH, h)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
