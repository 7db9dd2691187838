package sqlstore

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"taskflow/domain/gateway"
)

// Conn is the driver-specific part of a SQL gateway. Queries arrive with ?
// placeholders; implementations rebind them if their driver needs to.
type Conn interface {
	// Query returns every row as column values in select order
	Query(ctx context.Context, query string, args ...any) ([][]any, error)
	// Insert runs an INSERT and returns the new row's id
	Insert(ctx context.Context, query string, args ...any) (int64, error)
	// Exec runs a statement and returns the number of affected rows
	Exec(ctx context.Context, query string, args ...any) (int64, error)
}

// Gateway implements gateway.Gateway over a SQL connection
type Gateway struct {
	conn  Conn
	log   *zap.Logger
	owner string
	now   func() time.Time
}

// Option configures a Gateway
type Option func(*Gateway)

// WithClock overrides the clock used for CreatedOn/ModifiedOn
func WithClock(now func() time.Time) Option {
	return func(g *Gateway) { g.now = now }
}

// WithOwner sets the Owner stamped on new rows
func WithOwner(owner string) Option {
	return func(g *Gateway) { g.owner = owner }
}

// NewGateway wraps conn
func NewGateway(conn Conn, log *zap.Logger, opts ...Option) *Gateway {
	if log == nil {
		log = zap.NewNop()
	}
	g := &Gateway{conn: conn, log: log, owner: "taskflow", now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Gateway) FetchRecords(ctx context.Context, collection string, params gateway.QueryParams) (*gateway.FetchResponse, error) {
	if err := params.Validate(); err != nil {
		return &gateway.FetchResponse{Success: false, Message: err.Error()}, nil
	}
	t, err := TableFor(collection)
	if err != nil {
		return &gateway.FetchResponse{Success: false, Message: err.Error()}, nil
	}

	q, args, cols, err := BuildSelect(t, params)
	if err != nil {
		return &gateway.FetchResponse{Success: false, Message: err.Error()}, nil
	}

	rows, err := g.conn.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", t.Name, err)
	}

	out := make([]gateway.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, Decode(cols, row))
	}
	return &gateway.FetchResponse{Success: true, Data: out}, nil
}

func (g *Gateway) GetRecordByID(ctx context.Context, collection string, id int64, params gateway.QueryParams) (*gateway.GetResponse, error) {
	t, err := TableFor(collection)
	if err != nil {
		return &gateway.GetResponse{Success: false, Message: err.Error()}, nil
	}

	rec, err := g.get(ctx, t, id, params.Fields)
	if err != nil {
		return nil, err
	}
	return &gateway.GetResponse{Success: true, Data: rec}, nil
}

func (g *Gateway) CreateRecord(ctx context.Context, collection string, req gateway.WriteRequest) (*gateway.WriteResponse, error) {
	t, schema, err := lookup(collection)
	if err != nil {
		return &gateway.WriteResponse{Success: false, Message: err.Error()}, nil
	}

	now := g.now()
	results := make([]gateway.WriteResult, 0, len(req.Records))
	for i, in := range req.Records {
		q, args, err := BuildInsert(t, schema.Sanitize(in, false), g.owner, now)
		if err != nil {
			results = append(results, gateway.Failed(err.Error()))
			continue
		}

		id, err := g.conn.Insert(ctx, q, args...)
		if err != nil {
			g.log.Error("Insert failed", zap.String("table", t.Name), zap.Int("index", i), zap.Error(err))
			results = append(results, gateway.Failed(err.Error()))
			continue
		}

		stored, err := g.get(ctx, t, id, nil)
		if err != nil || stored == nil {
			results = append(results, gateway.Failed(fmt.Sprintf("record %d not readable after insert", id)))
			continue
		}
		results = append(results, gateway.WriteResult{Success: true, Data: stored})
	}

	return &gateway.WriteResponse{Success: allSucceeded(results), Results: results}, nil
}

func (g *Gateway) UpdateRecord(ctx context.Context, collection string, req gateway.WriteRequest) (*gateway.WriteResponse, error) {
	t, schema, err := lookup(collection)
	if err != nil {
		return &gateway.WriteResponse{Success: false, Message: err.Error()}, nil
	}

	now := g.now()
	results := make([]gateway.WriteResult, 0, len(req.Records))
	for _, in := range req.Records {
		id, ok := in.ID()
		if !ok {
			results = append(results, gateway.Failed("record has no Id"))
			continue
		}

		existing, err := g.get(ctx, t, id, []string{gateway.FieldID})
		if err != nil {
			results = append(results, gateway.Failed(err.Error()))
			continue
		}
		if existing == nil {
			results = append(results, gateway.Failed(fmt.Sprintf("record %d does not exist", id)))
			continue
		}

		q, args, err := BuildUpdate(t, id, schema.Sanitize(in, false), now)
		if err != nil {
			results = append(results, gateway.Failed(err.Error()))
			continue
		}
		if _, err := g.conn.Exec(ctx, q, args...); err != nil {
			g.log.Error("Update failed", zap.String("table", t.Name), zap.Int64("id", id), zap.Error(err))
			results = append(results, gateway.Failed(err.Error()))
			continue
		}

		stored, err := g.get(ctx, t, id, nil)
		if err != nil || stored == nil {
			results = append(results, gateway.Failed(fmt.Sprintf("record %d not readable after update", id)))
			continue
		}
		results = append(results, gateway.WriteResult{Success: true, Data: stored})
	}

	return &gateway.WriteResponse{Success: allSucceeded(results), Results: results}, nil
}

func (g *Gateway) DeleteRecord(ctx context.Context, collection string, req gateway.DeleteRequest) (*gateway.DeleteResponse, error) {
	t, err := TableFor(collection)
	if err != nil {
		return &gateway.DeleteResponse{Success: false, Message: err.Error()}, nil
	}

	success := true
	results := make([]gateway.DeleteResult, 0, len(req.RecordIDs))
	for _, id := range req.RecordIDs {
		q, args := BuildDelete(t, id)
		n, err := g.conn.Exec(ctx, q, args...)
		switch {
		case err != nil:
			g.log.Error("Delete failed", zap.String("table", t.Name), zap.Int64("id", id), zap.Error(err))
			results = append(results, gateway.DeleteResult{Success: false, Message: err.Error()})
			success = false
		case n == 0:
			results = append(results, gateway.DeleteResult{Success: false, Message: fmt.Sprintf("record %d does not exist", id)})
			success = false
		default:
			results = append(results, gateway.DeleteResult{Success: true})
		}
	}
	return &gateway.DeleteResponse{Success: success, Results: results}, nil
}

func (g *Gateway) get(ctx context.Context, t Table, id int64, fields []string) (gateway.Record, error) {
	q, args, cols, err := BuildSelectByID(t, id, fields)
	if err != nil {
		return nil, err
	}
	rows, err := g.conn.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", t.Name, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return Decode(cols, rows[0]), nil
}

func lookup(collection string) (Table, gateway.Schema, error) {
	t, err := TableFor(collection)
	if err != nil {
		return Table{}, gateway.Schema{}, err
	}
	s, _ := gateway.SchemaFor(collection)
	return t, s, nil
}

func allSucceeded(results []gateway.WriteResult) bool {
	for _, r := range results {
		if !r.Success {
			return false
		}
	}
	return true
}

var _ gateway.Gateway = (*Gateway)(nil)
