package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
)

type rowScanner interface {
	Scan(dest ...any) error
}

// assignment is one "column = value" pair of an INSERT or UPDATE.
type assignment struct {
	column string
	value  any
}

// schema describes how a record type maps onto one table.
type schema[T any, In any, Patch any] struct {
	table   string
	columns []string // select list, scan order; first column is the id
	filters map[string]string
	orderBy string
	scan    func(rowScanner) (T, error)
	insert  func(In) []assignment
	update  func(Patch) []assignment
	idOf    func(*T) int64
}

// SQLGateway implements Gateway over database/sql.
type SQLGateway[T any, In any, Patch any] struct {
	db      *sql.DB
	dialect Dialect
	s       schema[T, In, Patch]
}

func newSQLGateway[T any, In any, Patch any](db *sql.DB, d Dialect, s schema[T, In, Patch]) *SQLGateway[T, In, Patch] {
	return &SQLGateway[T, In, Patch]{db: db, dialect: d, s: s}
}

func (g *SQLGateway[T, In, Patch]) selectQuery() string {
	return "SELECT " + strings.Join(g.s.columns, ", ") + " FROM " + g.s.table
}

// where renders f as a WHERE clause with its arguments. Keys are sorted so
// the same filter always produces the same statement.
func (g *SQLGateway[T, In, Patch]) where(f Filter) (string, []any, error) {
	if len(f) == 0 {
		return "", nil, nil
	}
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	conds := make([]string, 0, len(keys))
	args := make([]any, 0, len(keys))
	for _, k := range keys {
		col, ok := g.s.filters[k]
		if !ok {
			return "", nil, fmt.Errorf("%w: %s has no field %q", ErrInvalidFilter, g.s.table, k)
		}
		conds = append(conds, col+" = ?")
		args = append(args, f[k])
	}
	return " WHERE " + strings.Join(conds, " AND "), args, nil
}

func (g *SQLGateway[T, In, Patch]) query(ctx context.Context, q string, args ...any) ([]T, error) {
	rows, err := g.db.QueryContext(ctx, g.dialect.Rebind(q), args...)
	if err != nil {
		return nil, fmt.Errorf("%s: query: %w", g.s.table, err)
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		rec, err := g.s.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", g.s.table, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// ListAll returns every record in table order.
func (g *SQLGateway[T, In, Patch]) ListAll(ctx context.Context) ([]T, error) {
	return g.query(ctx, g.selectQuery()+" ORDER BY "+g.s.orderBy)
}

// ListWhere returns the records matching f.
func (g *SQLGateway[T, In, Patch]) ListWhere(ctx context.Context, f Filter) ([]T, error) {
	clause, args, err := g.where(f)
	if err != nil {
		return nil, err
	}
	return g.query(ctx, g.selectQuery()+clause+" ORDER BY "+g.s.orderBy, args...)
}

func (g *SQLGateway[T, In, Patch]) getQuery() string {
	return g.dialect.Rebind(g.selectQuery() + " WHERE " + g.s.columns[0] + " = ?")
}

// Get returns the record with the given id or ErrNotFound.
func (g *SQLGateway[T, In, Patch]) Get(ctx context.Context, id int64) (*T, error) {
	rec, err := g.s.scan(g.db.QueryRowContext(ctx, g.getQuery(), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s %d: %w", g.s.table, id, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: get: %w", g.s.table, err)
	}
	return &rec, nil
}

// GetWhere returns the first record matching f, or nil when none does.
func (g *SQLGateway[T, In, Patch]) GetWhere(ctx context.Context, f Filter) (*T, error) {
	clause, args, err := g.where(f)
	if err != nil {
		return nil, err
	}
	q := g.dialect.Rebind(g.selectQuery() + clause + " ORDER BY " + g.s.orderBy + " LIMIT 1")
	rec, err := g.s.scan(g.db.QueryRowContext(ctx, q, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: get: %w", g.s.table, err)
	}
	return &rec, nil
}

// insertQuery renders the INSERT of in. Postgres reads the new id back with
// RETURNING.
func (g *SQLGateway[T, In, Patch]) insertQuery(in In) (string, []any) {
	set := g.s.insert(in)
	cols := make([]string, len(set))
	marks := make([]string, len(set))
	args := make([]any, len(set))
	for i, a := range set {
		cols[i] = a.column
		marks[i] = "?"
		args[i] = a.value
	}
	q := "INSERT INTO " + g.s.table + " (" + strings.Join(cols, ", ") + ") VALUES (" + strings.Join(marks, ", ") + ")"
	if g.dialect == Postgres {
		q += " RETURNING " + g.s.columns[0]
	}
	return g.dialect.Rebind(q), args
}

// Create inserts a record built from in and returns it as stored.
func (g *SQLGateway[T, In, Patch]) Create(ctx context.Context, in In) (*T, error) {
	q, args := g.insertQuery(in)
	id, err := g.insert(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("%s: create: %w", g.s.table, classify(err))
	}
	return g.Get(ctx, id)
}

func (g *SQLGateway[T, In, Patch]) insert(ctx context.Context, q string, args []any) (int64, error) {
	if g.dialect == Postgres {
		var id int64
		err := g.db.QueryRowContext(ctx, q, args...).Scan(&id)
		return id, err
	}
	result, err := g.db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// updateQuery renders the UPDATE of record id. It reports false when patch
// changes nothing.
func (g *SQLGateway[T, In, Patch]) updateQuery(id int64, patch Patch) (string, []any, bool) {
	set := g.s.update(patch)
	if len(set) == 0 {
		return "", nil, false
	}

	parts := make([]string, 0, len(set)+1)
	args := make([]any, 0, len(set)+1)
	for _, a := range set {
		parts = append(parts, a.column+" = ?")
		args = append(args, a.value)
	}
	parts = append(parts, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, id)

	q := "UPDATE " + g.s.table + " SET " + strings.Join(parts, ", ") + " WHERE " + g.s.columns[0] + " = ?"
	return g.dialect.Rebind(q), args, true
}

// Update applies patch to rec in storage and returns the stored record.
func (g *SQLGateway[T, In, Patch]) Update(ctx context.Context, rec *T, patch Patch) (*T, error) {
	id := g.s.idOf(rec)
	q, args, ok := g.updateQuery(id, patch)
	if !ok {
		return g.Get(ctx, id)
	}
	if _, err := g.db.ExecContext(ctx, q, args...); err != nil {
		return nil, fmt.Errorf("%s: update: %w", g.s.table, classify(err))
	}
	return g.Get(ctx, id)
}
