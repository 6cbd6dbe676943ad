package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"order-dashboard/internal/models"
	"order-dashboard/internal/repositories"

	"github.com/sirupsen/logrus"
)

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// scanner is satisfied by both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

type txKey struct{}

func contextWithTx(ctx context.Context, tx *sql.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

func txFromContext(ctx context.Context) *sql.Tx {
	tx, _ := ctx.Value(txKey{}).(*sql.Tx)
	return tx
}

// BaseRepository provides query execution, logging and error mapping shared by all repositories
type BaseRepository[T any] struct {
	db      *sql.DB
	dialect dialect
	entity  string
	logger  *logrus.Logger
}

// NewBaseRepository creates a new base repository
func NewBaseRepository[T any](db *sql.DB, driver, entity string, logger *logrus.Logger) *BaseRepository[T] {
	if logger == nil {
		logger = logrus.New()
	}
	return &BaseRepository[T]{
		db:      db,
		dialect: dialect{driver: driver},
		entity:  entity,
		logger:  logger,
	}
}

// conn returns the transaction bound to ctx, or the pool
func (r *BaseRepository[T]) conn(ctx context.Context) querier {
	if tx := txFromContext(ctx); tx != nil {
		return tx
	}
	return r.db
}

// logQuery logs a query with its execution time
func (r *BaseRepository[T]) logQuery(operation string, query string, args []any, duration time.Duration, err error) {
	fields := logrus.Fields{
		"operation": operation,
		"entity":    r.entity,
		"query":     query,
		"args":      args,
		"duration":  duration,
	}

	if err != nil {
		fields["error"] = err.Error()
		r.logger.WithFields(fields).Error("Query failed")
	} else {
		r.logger.WithFields(fields).Debug("Query executed")
	}
}

// executeQuery executes a query and logs the result
func (r *BaseRepository[T]) executeQuery(ctx context.Context, operation, query string, args ...any) (*sql.Rows, error) {
	query = r.dialect.rebind(query)

	start := time.Now()
	rows, err := r.conn(ctx).QueryContext(ctx, query, args...)
	r.logQuery(operation, query, args, time.Since(start), err)

	if err != nil {
		return nil, translateError(operation, r.entity, err)
	}
	return rows, nil
}

// executeQueryRow executes a single-row query and logs the statement
func (r *BaseRepository[T]) executeQueryRow(ctx context.Context, operation, query string, args ...any) *sql.Row {
	query = r.dialect.rebind(query)

	start := time.Now()
	row := r.conn(ctx).QueryRowContext(ctx, query, args...)
	r.logQuery(operation, query, args, time.Since(start), row.Err())

	return row
}

// executeExec executes a non-query statement and logs the result
func (r *BaseRepository[T]) executeExec(ctx context.Context, operation, query string, args ...any) (sql.Result, error) {
	query = r.dialect.rebind(query)

	start := time.Now()
	result, err := r.conn(ctx).ExecContext(ctx, query, args...)
	r.logQuery(operation, query, args, time.Since(start), err)

	if err != nil {
		return nil, translateError(operation, r.entity, err)
	}
	return result, nil
}

// insertReturningID runs an INSERT ... RETURNING id statement
func (r *BaseRepository[T]) insertReturningID(ctx context.Context, query string, args ...any) (int64, error) {
	var id int64
	if err := r.executeQueryRow(ctx, "create", query, args...).Scan(&id); err != nil {
		return 0, translateError("create", r.entity, err)
	}
	return id, nil
}

// queryOne scans the single row selected for id
func (r *BaseRepository[T]) queryOne(ctx context.Context, operation string, id int64, scan func(scanner) (*T, error), query string, args ...any) (*T, error) {
	entity, err := scan(r.executeQueryRow(ctx, operation, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repositories.NotFoundError(r.entity, id)
		}
		return nil, repositories.NewRepositoryError(operation, r.entity, id, err)
	}
	return entity, nil
}

// queryList scans every row of a query
func (r *BaseRepository[T]) queryList(ctx context.Context, operation string, scan func(scanner) (*T, error), query string, args ...any) ([]*T, error) {
	rows, err := r.executeQuery(ctx, operation, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*T, 0)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, repositories.NewRepositoryError(operation, r.entity, 0, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, repositories.NewRepositoryError(operation, r.entity, 0, err)
	}
	return items, nil
}

// count runs a COUNT query
func (r *BaseRepository[T]) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	if err := r.executeQueryRow(ctx, "count", query, args...).Scan(&n); err != nil {
		return 0, repositories.NewRepositoryError("count", r.entity, 0, err)
	}
	return n, nil
}

// checkRowsAffected checks that the statement touched the row with id
func (r *BaseRepository[T]) checkRowsAffected(result sql.Result, operation string, id int64) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return repositories.NewRepositoryError(operation, r.entity, id, err)
	}

	if rowsAffected == 0 {
		return repositories.NotFoundError(r.entity, id)
	}

	return nil
}

// validateID rejects IDs no row can have
func (r *BaseRepository[T]) validateID(id int64) error {
	if id <= 0 {
		return repositories.NewRepositoryError("validate", r.entity, id, repositories.ErrInvalidID)
	}
	return nil
}

// page returns the LIMIT and OFFSET for filters
func page(filters models.SearchFilters) (int, int) {
	limit := filters.Limit
	if limit <= 0 || limit > models.DefaultListLimit {
		limit = models.DefaultListLimit
	}
	offset := filters.Offset
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
