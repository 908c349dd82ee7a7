package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrAlreadyExists = errors.New("record already exists")
	// ErrPersistence marks constraint violations other than uniqueness.
	ErrPersistence   = errors.New("persistence error")
	ErrInvalidFilter = errors.New("invalid filter")
)

// IsNotFound reports whether err is or wraps ErrNotFound.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsAlreadyExists reports whether err is or wraps ErrAlreadyExists.
func IsAlreadyExists(err error) bool { return errors.Is(err, ErrAlreadyExists) }

// MySQL server error numbers for constraint violations.
const (
	mysqlDuplicateEntry    = 1062
	mysqlBadNull           = 1048
	mysqlNoDefault         = 1364
	mysqlDataTooLong       = 1406
	mysqlOutOfRange        = 1264
	mysqlRowIsReferenced   = 1451
	mysqlNoReferencedRow   = 1452
	mysqlCheckViolated     = 3819
	pgUniqueViolation      = "23505"
	pgIntegrityClassPrefix = "23"
	pgStringTooLong        = "22001"
	pgNumericOutOfRange    = "22003"
)

// classify maps driver errors onto ErrAlreadyExists and ErrPersistence.
// Errors that are not constraint violations are returned unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case mysqlDuplicateEntry:
			return fmt.Errorf("%w: %w", ErrAlreadyExists, err)
		case mysqlBadNull, mysqlNoDefault, mysqlDataTooLong, mysqlOutOfRange,
			mysqlRowIsReferenced, mysqlNoReferencedRow, mysqlCheckViolated:
			return fmt.Errorf("%w: %w", ErrPersistence, err)
		}
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgUniqueViolation:
			return fmt.Errorf("%w: %w", ErrAlreadyExists, err)
		case strings.HasPrefix(pgErr.Code, pgIntegrityClassPrefix),
			pgErr.Code == pgStringTooLong, pgErr.Code == pgNumericOutOfRange:
			return fmt.Errorf("%w: %w", ErrPersistence, err)
		}
		return err
	}

	if isDuplicateEntryError(err) {
		return fmt.Errorf("%w: %w", ErrAlreadyExists, err)
	}
	return err
}

// isDuplicateEntryError catches duplicate-key errors that lost their driver type.
func isDuplicateEntryError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "Duplicate entry")
}
