// Package gateway defines the contract of the record store the task and
// category adapters talk to: collection CRUD plus filtered queries, with
// every call answered by a success/failure envelope.
package gateway

import "context"

// Collection names known to the application
const (
	CollectionTask     = "task"
	CollectionCategory = "category"
)

// Gateway is a collection-style record store.
//
// A non-nil error means the call did not complete (transport, driver, context).
// A response with Success=false means the store rejected it; Message says why.
type Gateway interface {
	FetchRecords(ctx context.Context, collection string, params QueryParams) (*FetchResponse, error)
	GetRecordByID(ctx context.Context, collection string, id int64, params QueryParams) (*GetResponse, error)
	CreateRecord(ctx context.Context, collection string, req WriteRequest) (*WriteResponse, error)
	UpdateRecord(ctx context.Context, collection string, req WriteRequest) (*WriteResponse, error)
	DeleteRecord(ctx context.Context, collection string, req DeleteRequest) (*DeleteResponse, error)
}

// FetchResponse answers FetchRecords
type FetchResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Data    []Record `json:"data,omitempty"`
}

// GetResponse answers GetRecordByID. Data is nil when no record has the id.
type GetResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    Record `json:"data,omitempty"`
}

// WriteRequest carries the records of a create or update call.
// Update records are keyed by their FieldID.
type WriteRequest struct {
	Records []Record `json:"records"`
}

// WriteResponse answers CreateRecord and UpdateRecord, one result per record
type WriteResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message,omitempty"`
	Results []WriteResult `json:"results,omitempty"`
}

// WriteResult is the outcome of one record of a batch write
type WriteResult struct {
	Success bool         `json:"success"`
	Data    Record       `json:"data,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
	Message string       `json:"message,omitempty"`
}

// FieldError is a per-field rejection inside a WriteResult
type FieldError struct {
	FieldLabel string `json:"fieldLabel"`
	Message    string `json:"message"`
}

// DeleteRequest lists the ids to remove
type DeleteRequest struct {
	RecordIDs []int64 `json:"RecordIds"`
}

// DeleteResponse answers DeleteRecord, one result per id
type DeleteResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message,omitempty"`
	Results []DeleteResult `json:"results,omitempty"`
}

// DeleteResult is the outcome of one id of a batch delete
type DeleteResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Failed builds a rejected WriteResult
func Failed(message string) WriteResult {
	return WriteResult{Success: false, Message: message}
}
