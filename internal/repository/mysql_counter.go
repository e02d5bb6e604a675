package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
)

// incrCounterSQL upserts the row and increments it in one statement.
// LAST_INSERT_ID(expr) makes the new value come back in the OK packet, so no
// second query (and no transaction) is needed.
const incrCounterSQL = "INSERT INTO counters (name, value) VALUES (?, LAST_INSERT_ID(1)) " +
	"ON DUPLICATE KEY UPDATE value = LAST_INSERT_ID(value + 1)"

// MySQLCounterRepo stores counters in the counters table (see
// database.EnsureSchema).
type MySQLCounterRepo struct{ DB *sql.DB }

func NewMySQLCounterRepo(db *sql.DB) *MySQLCounterRepo { return &MySQLCounterRepo{DB: db} }

// Incr increments name and returns the new value.  The statement runs on a
// pinned connection: database/sql would otherwise re-run it on ErrBadConn,
// and callers count every Incr as exactly one attempt.
func (r *MySQLCounterRepo) Incr(ctx context.Context, name string) (int64, error) {
	conn, err := r.DB.Conn(ctx)
	if err != nil {
		err = fmt.Errorf("mysql incr %s: acquire connection: %w", name, err)
		if isMySQLConnError(err) {
			return 0, unavailable(err)
		}
		return 0, err
	}
	defer func() { _ = conn.Close() }()

	res, err := conn.ExecContext(ctx, incrCounterSQL, name)
	if err != nil {
		err = fmt.Errorf("mysql incr %s: %w", name, err)
		if isMySQLConnError(err) {
			return 0, unavailable(err)
		}
		return 0, err
	}
	n, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("mysql incr %s: read value: %w", name, err)
	}
	return n, nil
}

func isMySQLConnError(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return false
	}
	return errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, mysql.ErrInvalidConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		isNetworkError(err)
}
