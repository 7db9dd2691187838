// Package testutil provides shared test doubles.
package testutil

import (
	"context"
	"errors"
	"sync"

	"taskflow/domain/gateway"
	"taskflow/repository/memory"
)

// ErrTransport is the error the FaultyGateway returns for injected transport failures
var ErrTransport = errors.New("connection refused")

// FaultyGateway wraps a memory gateway and lets tests inject failures per operation.
// Setting an Err field makes that operation return a transport error; setting a
// Reject field makes it return a Success=false envelope with that message.
type FaultyGateway struct {
	*memory.Gateway

	mu sync.Mutex

	FetchErr  error
	GetErr    error
	CreateErr error
	UpdateErr error
	DeleteErr error

	RejectFetch  string
	RejectCreate string
	RejectUpdate string
	RejectDelete string

	// PartialCreate appends one rejected entry with this message to every
	// successful create, producing a mixed-result batch
	PartialCreate string

	// FetchCollectionErr fails fetches of one collection only
	FetchCollectionErr map[string]error

	calls map[string]int
}

// NewFaultyGateway wraps a fresh memory gateway
func NewFaultyGateway(opts ...memory.Option) *FaultyGateway {
	return &FaultyGateway{
		Gateway:            memory.NewGateway(opts...),
		FetchCollectionErr: make(map[string]error),
		calls:              make(map[string]int),
	}
}

// Calls returns how often an operation ran (fetch, get, create, update, delete)
func (f *FaultyGateway) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

// Writes returns the number of create, update and delete calls
func (f *FaultyGateway) Writes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls["create"] + f.calls["update"] + f.calls["delete"]
}

func (f *FaultyGateway) record(op string) {
	f.mu.Lock()
	f.calls[op]++
	f.mu.Unlock()
}

func (f *FaultyGateway) FetchRecords(ctx context.Context, name string, params gateway.QueryParams) (*gateway.FetchResponse, error) {
	f.record("fetch")
	if f.FetchErr != nil {
		return nil, f.FetchErr
	}
	if err := f.FetchCollectionErr[name]; err != nil {
		return nil, err
	}
	if f.RejectFetch != "" {
		return &gateway.FetchResponse{Success: false, Message: f.RejectFetch}, nil
	}
	return f.Gateway.FetchRecords(ctx, name, params)
}

func (f *FaultyGateway) GetRecordByID(ctx context.Context, name string, id int64, params gateway.QueryParams) (*gateway.GetResponse, error) {
	f.record("get")
	if f.GetErr != nil {
		return nil, f.GetErr
	}
	return f.Gateway.GetRecordByID(ctx, name, id, params)
}

func (f *FaultyGateway) CreateRecord(ctx context.Context, name string, req gateway.WriteRequest) (*gateway.WriteResponse, error) {
	f.record("create")
	if f.CreateErr != nil {
		return nil, f.CreateErr
	}
	if f.RejectCreate != "" {
		return &gateway.WriteResponse{Success: false, Results: []gateway.WriteResult{gateway.Failed(f.RejectCreate)}}, nil
	}
	resp, err := f.Gateway.CreateRecord(ctx, name, req)
	if err == nil && f.PartialCreate != "" {
		resp.Success = false
		resp.Results = append(resp.Results, gateway.Failed(f.PartialCreate))
	}
	return resp, err
}

func (f *FaultyGateway) UpdateRecord(ctx context.Context, name string, req gateway.WriteRequest) (*gateway.WriteResponse, error) {
	f.record("update")
	if f.UpdateErr != nil {
		return nil, f.UpdateErr
	}
	if f.RejectUpdate != "" {
		return &gateway.WriteResponse{Success: false, Results: []gateway.WriteResult{gateway.Failed(f.RejectUpdate)}}, nil
	}
	return f.Gateway.UpdateRecord(ctx, name, req)
}

func (f *FaultyGateway) DeleteRecord(ctx context.Context, name string, req gateway.DeleteRequest) (*gateway.DeleteResponse, error) {
	f.record("delete")
	if f.DeleteErr != nil {
		return nil, f.DeleteErr
	}
	if f.RejectDelete != "" {
		return &gateway.DeleteResponse{Success: false, Message: f.RejectDelete}, nil
	}
	return f.Gateway.DeleteRecord(ctx, name, req)
}

var _ gateway.Gateway = (*FaultyGateway)(nil)
