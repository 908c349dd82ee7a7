package logger

import (
	"time"

	"go.uber.org/zap"
)

func RequestID(v string) zap.Field { return zap.String("request_id", v) }

func Method(v string) zap.Field { return zap.String("method", v) }

func Path(v string) zap.Field { return zap.String("path", v) }

func Status(v int) zap.Field { return zap.Int("status", v) }

func Duration(v time.Duration) zap.Field { return zap.Duration("duration", v) }

func ClientIP(v string) zap.Field { return zap.String("client_ip", v) }

func UserID(v int64) zap.Field { return zap.Int64("user_id", v) }

func DebtID(v int64) zap.Field { return zap.Int64("debt_id", v) }

func PaymentID(v int64) zap.Field { return zap.Int64("payment_id", v) }

// Period renders a billing period as "2024-03".
func Period(year, month int) zap.Field {
	return zap.String("period", time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).Format("2006-01"))
}

func Component(v string) zap.Field { return zap.String("component", v) }

func Op(v string) zap.Field { return zap.String("op", v) }

func Job(v string) zap.Field { return zap.String("job", v) }

func Count(v int) zap.Field { return zap.Int("count", v) }

func Skipped(v int) zap.Field { return zap.Int("skipped", v) }

func Err(err error) zap.Field { return zap.Error(err) }
