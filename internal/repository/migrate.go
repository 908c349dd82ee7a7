package repository

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	"github.com/watshodapay/watshodapay-go/internal/logger"
	"go.uber.org/zap"
)

//go:embed migrations/mysql/*.sql migrations/postgres/*.sql
var migrations embed.FS

// gooseLogger routes goose output through zap.
type gooseLogger struct{ s *zap.SugaredLogger }

func (l gooseLogger) Printf(format string, v ...any) { l.s.Infof(format, v...) }
func (l gooseLogger) Fatalf(format string, v ...any) { l.s.Fatalf(format, v...) }

func prepareGoose(d Dialect) (string, error) {
	goose.SetBaseFS(migrations)
	goose.SetLogger(gooseLogger{logger.Named("migrate").Sugar()})
	if err := goose.SetDialect(string(d)); err != nil {
		return "", err
	}
	return "migrations/" + string(d), nil
}

// Migrate applies the embedded migrations. Direction is "up", "down" or
// "status".
func Migrate(ctx context.Context, db *sql.DB, d Dialect, direction string) error {
	dir, err := prepareGoose(d)
	if err != nil {
		return err
	}
	switch direction {
	case "up":
		return goose.UpContext(ctx, db, dir)
	case "down":
		return goose.DownContext(ctx, db, dir)
	case "status":
		return goose.StatusContext(ctx, db, dir)
	default:
		return fmt.Errorf("unknown migration direction %q", direction)
	}
}
