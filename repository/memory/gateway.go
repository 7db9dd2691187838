// Package memory implements the record gateway in process memory.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"taskflow/domain/gateway"
)

type collection struct {
	schema  gateway.Schema
	records map[int64]gateway.Record
	nextID  int64
}

// Gateway is an in-memory gateway.Gateway. It is safe for concurrent use.
type Gateway struct {
	mu          sync.RWMutex
	collections map[string]*collection
	owner       string
	now         func() time.Time
}

// Option configures a Gateway
type Option func(*Gateway)

// WithClock overrides the clock used for CreatedOn/ModifiedOn
func WithClock(now func() time.Time) Option {
	return func(g *Gateway) { g.now = now }
}

// WithOwner sets the Owner stamped on new records
func WithOwner(owner string) Option {
	return func(g *Gateway) { g.owner = owner }
}

// NewGateway creates an empty gateway holding the task and category collections
func NewGateway(opts ...Option) *Gateway {
	g := &Gateway{
		collections: map[string]*collection{
			gateway.CollectionTask:     newCollection(gateway.TaskSchema),
			gateway.CollectionCategory: newCollection(gateway.CategorySchema),
		},
		owner: "taskflow",
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func newCollection(s gateway.Schema) *collection {
	return &collection{
		schema:  s,
		records: make(map[int64]gateway.Record),
		nextID:  1,
	}
}

func (g *Gateway) lookup(name string) (*collection, error) {
	c, ok := g.collections[name]
	if !ok {
		return nil, fmt.Errorf("unknown collection %q", name)
	}
	return c, nil
}

// FetchRecords returns the records matching params
func (g *Gateway) FetchRecords(ctx context.Context, name string, params gateway.QueryParams) (*gateway.FetchResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := params.Validate(); err != nil {
		return &gateway.FetchResponse{Success: false, Message: err.Error()}, nil
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	c, err := g.lookup(name)
	if err != nil {
		return &gateway.FetchResponse{Success: false, Message: err.Error()}, nil
	}

	out := make([]gateway.Record, 0, len(c.records))
	for _, r := range c.records {
		if gateway.Matches(r, params) {
			out = append(out, r.Pick(params.Fields))
		}
	}
	gateway.SortRecords(out, params.OrderBy)

	return &gateway.FetchResponse{Success: true, Data: out}, nil
}

// GetRecordByID returns one record, or Data=nil when the id is unknown
func (g *Gateway) GetRecordByID(ctx context.Context, name string, id int64, params gateway.QueryParams) (*gateway.GetResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	c, err := g.lookup(name)
	if err != nil {
		return &gateway.GetResponse{Success: false, Message: err.Error()}, nil
	}

	r, ok := c.records[id]
	if !ok {
		return &gateway.GetResponse{Success: true}, nil
	}
	return &gateway.GetResponse{Success: true, Data: r.Pick(params.Fields)}, nil
}

// CreateRecord stores each record under a fresh id
func (g *Gateway) CreateRecord(ctx context.Context, name string, req gateway.WriteRequest) (*gateway.WriteResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	c, err := g.lookup(name)
	if err != nil {
		return &gateway.WriteResponse{Success: false, Message: err.Error()}, nil
	}

	now := g.now()
	results := make([]gateway.WriteResult, 0, len(req.Records))
	for _, in := range req.Records {
		r := c.schema.Sanitize(in, false)
		r[gateway.FieldID] = c.nextID
		r[gateway.FieldOwner] = g.owner
		r[gateway.FieldCreatedOn] = now
		r[gateway.FieldModifiedOn] = now
		c.records[c.nextID] = r
		c.nextID++
		results = append(results, gateway.WriteResult{Success: true, Data: r.Clone()})
	}

	return &gateway.WriteResponse{Success: true, Results: results}, nil
}

// UpdateRecord merges each record into the stored one with the same id
func (g *Gateway) UpdateRecord(ctx context.Context, name string, req gateway.WriteRequest) (*gateway.WriteResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	c, err := g.lookup(name)
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
		stored, ok := c.records[id]
		if !ok {
			results = append(results, gateway.Failed(fmt.Sprintf("record %d does not exist", id)))
			continue
		}

		merged := stored.Clone()
		for k, v := range c.schema.Sanitize(in, false) {
			merged[k] = v
		}
		merged[gateway.FieldModifiedOn] = now
		c.records[id] = merged
		results = append(results, gateway.WriteResult{Success: true, Data: merged.Clone()})
	}

	return &gateway.WriteResponse{Success: allSucceeded(results), Results: results}, nil
}

// DeleteRecord removes the listed ids
func (g *Gateway) DeleteRecord(ctx context.Context, name string, req gateway.DeleteRequest) (*gateway.DeleteResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	c, err := g.lookup(name)
	if err != nil {
		return &gateway.DeleteResponse{Success: false, Message: err.Error()}, nil
	}

	results := make([]gateway.DeleteResult, 0, len(req.RecordIDs))
	success := true
	for _, id := range req.RecordIDs {
		if _, ok := c.records[id]; !ok {
			results = append(results, gateway.DeleteResult{Success: false, Message: fmt.Sprintf("record %d does not exist", id)})
			success = false
			continue
		}
		delete(c.records, id)
		results = append(results, gateway.DeleteResult{Success: true})
	}

	return &gateway.DeleteResponse{Success: success, Results: results}, nil
}

// Len returns the number of records in a collection
func (g *Gateway) Len(name string) int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if c, ok := g.collections[name]; ok {
		return len(c.records)
	}
	return 0
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
