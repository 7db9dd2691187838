package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotFound is returned when an update, delete or lookup targets a nonexistent id
	ErrNotFound = errors.New("record not found")

	// ErrGateway is returned when the data gateway reports a failure or cannot be reached
	ErrGateway = errors.New("gateway failure")

	// ErrBadParamInput is returned when request parameters are invalid
	ErrBadParamInput = errors.New("invalid parameters")
)

// NotFound wraps ErrNotFound with the entity kind and id.
func NotFound(kind string, id int64) error {
	return fmt.Errorf("%s %d: %w", kind, id, ErrNotFound)
}

// GatewayFailure wraps ErrGateway with the action and the gateway's own message.
func GatewayFailure(action, message string) error {
	if message == "" {
		return fmt.Errorf("%s: %w", action, ErrGateway)
	}
	return fmt.Errorf("%s: %w: %s", action, ErrGateway, message)
}

// ValidationError carries per-field messages from form validation.
// It never leaves the presentation layer as a gateway call.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Has reports whether the given field failed validation.
func (e *ValidationError) Has(field string) bool {
	_, ok := e.Fields[field]
	return ok
}

// WriteFailure describes one failed entry of a batch write.
type WriteFailure struct {
	Index   int
	Message string
}

// PartialWriteError is returned alongside the first successful record when a
// batch write reports a mix of successes and failures.
type PartialWriteError struct {
	Action string
	Failed []WriteFailure
}

func (e *PartialWriteError) Error() string {
	msgs := make([]string, 0, len(e.Failed))
	for _, f := range e.Failed {
		msgs = append(msgs, fmt.Sprintf("#%d %s", f.Index, f.Message))
	}
	return fmt.Sprintf("%s: %d record(s) failed: %s", e.Action, len(e.Failed), strings.Join(msgs, ", "))
}
