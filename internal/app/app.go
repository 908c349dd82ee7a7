// Package app assembles storage, cache, notifier and services from a Config.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/watshodapay/watshodapay-go/internal/cache"
	"github.com/watshodapay/watshodapay-go/internal/config"
	"github.com/watshodapay/watshodapay-go/internal/crypto"
	"github.com/watshodapay/watshodapay-go/internal/logger"
	"github.com/watshodapay/watshodapay-go/internal/notify"
	"github.com/watshodapay/watshodapay-go/internal/repository"
	"github.com/watshodapay/watshodapay-go/internal/service"
	"go.uber.org/zap"
)

// MemoryDriver keeps every record in process memory.
const MemoryDriver = "memory"

var ErrNoDatabase = errors.New("memory driver has no database to migrate")

// App holds the wired services of one process.
type App struct {
	Config  *config.Config
	DB      *sql.DB
	Dialect repository.Dialect
	Cache   cache.Client

	Auth        *service.AuthService
	Debts       *service.DebtService
	Payments    *service.PaymentService
	Maintenance *service.MaintenanceService
}

type stores struct {
	users    repository.UserStore
	debts    repository.DebtStore
	payments repository.PaymentStore
}

// New builds an App. The caller closes it.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Config: cfg}
	log := logger.Named("app")

	var st stores
	if cfg.DatabaseDriver == MemoryDriver {
		log.Warn("using in-memory storage, data is lost on exit")
		st = stores{
			users:    repository.NewMemoryUserRepository(),
			debts:    repository.NewMemoryDebtRepository(),
			payments: repository.NewMemoryPaymentRepository(),
		}
	} else {
		d, err := repository.ParseDialect(cfg.DatabaseDriver)
		if err != nil {
			return nil, err
		}
		db, err := repository.NewDB(d, cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		a.DB, a.Dialect = db, d
		st = stores{
			users:    repository.NewUserRepository(db, d),
			debts:    repository.NewDebtRepository(db, d),
			payments: repository.NewPaymentRepository(db, d),
		}
	}

	client, err := cache.New(ctx, cache.Config{
		Driver:   cfg.CacheDriver,
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		Prefix:   "watshodapay",
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("open cache: %w", err)
	}
	a.Cache = client

	tokens, err := crypto.NewTokenService(cfg.JWTSecret, cfg.TokenTTL, cfg.TokenIssuer)
	if err != nil {
		a.Close()
		return nil, err
	}

	var notifier notify.Notifier = notify.LogNotifier{}
	if cfg.MailEnabled() {
		notifier = notify.NewMailNotifier(notify.MailConfig{
			Host: cfg.SMTPHost,
			Port: cfg.SMTPPort,
			User: cfg.SMTPUser,
			Pass: cfg.SMTPPass,
			From: cfg.SMTPFrom,
		})
	}

	a.Debts = service.NewDebtService(st.debts, service.NewSummaryCache(client, cfg.CacheTTL))
	a.Payments = service.NewPaymentService(st.payments, a.Debts)
	a.Auth = service.NewAuthService(st.users, a.Debts, crypto.NewPasswordHasher(crypto.DefaultHashParams()), tokens)
	a.Maintenance = service.NewMaintenanceService(st.users, a.Debts, notifier)

	log.Info("app ready",
		zap.String("database", cfg.DatabaseDriver),
		zap.String("cache", cfg.CacheDriver),
		zap.Bool("mail", cfg.MailEnabled()),
	)
	return a, nil
}

// Migrate runs the embedded migrations in direction.
func (a *App) Migrate(ctx context.Context, direction string) error {
	if a.DB == nil {
		return ErrNoDatabase
	}
	return repository.Migrate(ctx, a.DB, a.Dialect, direction)
}

// Close releases the cache and database.
func (a *App) Close() error {
	var errs []error
	if a.Cache != nil {
		errs = append(errs, a.Cache.Close())
	}
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	return errors.Join(errs...)
}
