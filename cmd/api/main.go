package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/watshodapay/watshodapay-go/internal/app"
	"github.com/watshodapay/watshodapay-go/internal/config"
	"github.com/watshodapay/watshodapay-go/internal/handler"
	"github.com/watshodapay/watshodapay-go/internal/logger"
	"github.com/watshodapay/watshodapay-go/internal/metrics"
	"github.com/watshodapay/watshodapay-go/internal/scheduler"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.L().Fatal("invalid configuration", logger.Err(err))
	}

	logger.Init(logger.Config{Env: cfg.Env, Level: cfg.LogLevel, ServiceName: "watshodapay-api"})
	defer logger.Sync()
	log := logger.L()
	if envErr != nil {
		log.Warn("no .env file found, using environment variables")
	}

	if err := run(cfg); err != nil {
		log.Error("server stopped with error", logger.Err(err))
		logger.Sync()
		os.Exit(1)
	}
	log.Info("server stopped")
}

func run(cfg *config.Config) error {
	log := logger.L()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := metrics.Register(nil); err != nil {
		return err
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.DB != nil {
		if err := a.Migrate(ctx, "up"); err != nil {
			return err
		}
	}

	router := handler.NewRouter(handler.Services{
		Auth:        a.Auth,
		Debts:       a.Debts,
		Payments:    a.Payments,
		Maintenance: a.Maintenance,
	}, handler.RouterConfig{
		ServiceAuthKey: cfg.ServiceAuthKey,
		SecureCookie:   cfg.IsProduction(),
		Metrics:        metrics.Handler(nil),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("server starting", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if cfg.SchedulerEnabled {
		s := scheduler.New()
		s.Every(handler.JobCheckExpiring, cfg.ExpiringCheckEvery, func(ctx context.Context) error {
			_, err := a.Maintenance.CheckExpiringDebts(ctx)
			return err
		})
		s.Monthly(handler.JobResetPayed, func(ctx context.Context) error {
			_, err := a.Maintenance.ResetPayedStatus(ctx)
			return err
		})
		g.Go(func() error { return s.Run(gctx) })
	}

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
