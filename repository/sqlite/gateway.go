package sqlite

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"taskflow/repository/sqlstore"
)

type conn struct {
	db *gorm.DB
}

// NewGateway returns a gateway over db
func NewGateway(db *gorm.DB, log *zap.Logger, opts ...sqlstore.Option) *sqlstore.Gateway {
	return sqlstore.NewGateway(&conn{db: db}, log, opts...)
}

func (c *conn) Query(ctx context.Context, q string, args ...any) ([][]any, error) {
	rows, err := c.db.WithContext(ctx).Raw(q, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out [][]any
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		out = append(out, values)
	}
	return out, rows.Err()
}

func (c *conn) Insert(ctx context.Context, q string, args ...any) (int64, error) {
	var id int64
	if err := c.db.WithContext(ctx).Raw(q+" RETURNING id", args...).Scan(&id).Error; err != nil {
		return 0, err
	}
	return id, nil
}

func (c *conn) Exec(ctx context.Context, q string, args ...any) (int64, error) {
	res := c.db.WithContext(ctx).Exec(q, args...)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
