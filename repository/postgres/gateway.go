// Package postgres implements the record gateway over PostgreSQL.
package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"taskflow/repository/sqlstore"
)

// Querier is the part of pgxpool.Pool the gateway uses
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

var _ Querier = (*pgxpool.Pool)(nil)

type conn struct {
	db Querier
}

// NewGateway returns a gateway over db
func NewGateway(db Querier, log *zap.Logger, opts ...sqlstore.Option) *sqlstore.Gateway {
	return sqlstore.NewGateway(&conn{db: db}, log, opts...)
}

func rebind(q string) string {
	return sqlx.Rebind(sqlx.DOLLAR, q)
}

func (c *conn) Query(ctx context.Context, q string, args ...any) ([][]any, error) {
	rows, err := c.db.Query(ctx, rebind(q), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out [][]any
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		out = append(out, values)
	}
	return out, rows.Err()
}

func (c *conn) Insert(ctx context.Context, q string, args ...any) (int64, error) {
	var id int64
	if err := c.db.QueryRow(ctx, rebind(q)+" RETURNING id", args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (c *conn) Exec(ctx context.Context, q string, args ...any) (int64, error) {
	tag, err := c.db.Exec(ctx, rebind(q), args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
