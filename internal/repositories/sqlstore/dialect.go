package sqlstore

import (
	"errors"
	"strconv"
	"strings"

	"order-dashboard/internal/config"
	"order-dashboard/internal/repositories"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// dialect adapts the shared SQL to the connected driver
type dialect struct {
	driver string
}

// rebind rewrites ? placeholders to $n for PostgreSQL
func (d dialect) rebind(query string) string {
	if d.driver != config.DriverPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// translateError maps driver constraint errors onto repository errors
func translateError(op, entity string, err error) error {
	if err == nil {
		return nil
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		switch liteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return repositories.DuplicateError(op, entity, err)
		case sqlite3.ErrConstraintForeignKey, sqlite3.ErrConstraintCheck, sqlite3.ErrConstraintNotNull:
			return repositories.ConstraintError(op, entity, err)
		}
	}

	var pgErr *pq.Error
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return repositories.DuplicateError(op, entity, err)
		case "23503", "23514", "23502":
			return repositories.ConstraintError(op, entity, err)
		}
	}

	var repoErr *repositories.RepositoryError
	if errors.As(err, &repoErr) {
		return err
	}
	return repositories.NewRepositoryError(op, entity, 0, err)
}

// likePattern builds a case-insensitive substring pattern
func likePattern(q string) string {
	q = strings.ToLower(q)
	q = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(q)
	return "%" + q + "%"
}
