package repository

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/watshodapay/watshodapay-go/internal/logger"
)

// NewDB opens a connection pool for the dialect and checks it with a ping.
// A failed ping is logged, not returned; the pool reconnects on demand.
func NewDB(d Dialect, dsn string) (*sql.DB, error) {
	db, err := sql.Open(d.DriverName(), dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		logger.L().Warn("database ping failed, continuing", logger.Component("repository"), logger.Err(err))
	}

	return db, nil
}
