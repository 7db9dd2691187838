// Package mysql implements the record gateway over MySQL.
package mysql

import (
	"context"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"taskflow/repository/sqlstore"
)

type conn struct {
	db *sqlx.DB
}

// NewGateway returns a gateway over db
func NewGateway(db *sqlx.DB, log *zap.Logger, opts ...sqlstore.Option) *sqlstore.Gateway {
	return sqlstore.NewGateway(&conn{db: db}, log, opts...)
}

func (c *conn) Query(ctx context.Context, q string, args ...any) ([][]any, error) {
	rows, err := c.db.QueryxContext(ctx, c.db.Rebind(q), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out [][]any
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return nil, err
		}
		out = append(out, values)
	}
	return out, rows.Err()
}

func (c *conn) Insert(ctx context.Context, q string, args ...any) (int64, error) {
	res, err := c.db.ExecContext(ctx, c.db.Rebind(q), args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (c *conn) Exec(ctx context.Context, q string, args ...any) (int64, error) {
	res, err := c.db.ExecContext(ctx, c.db.Rebind(q), args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
