package gateway

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FieldID is the identity field every collection carries
const FieldID = "Id"

// Record is one stored row, keyed by persisted field name.
//
// Values may arrive as native Go values (memory, SQL backends) or in their
// JSON-decoded form (remote backend), so reads go through the accessors.
type Record map[string]any

// Clone returns a shallow copy
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Pick returns a copy holding only the listed fields. No fields means all.
func (r Record) Pick(fields []string) Record {
	if len(fields) == 0 {
		return r.Clone()
	}
	out := make(Record, len(fields)+1)
	if id, ok := r[FieldID]; ok {
		out[FieldID] = id
	}
	for _, f := range fields {
		if v, ok := r[f]; ok {
			out[f] = v
		}
	}
	return out
}

// ID returns the record's identity
func (r Record) ID() (int64, bool) {
	return r.Int64(FieldID)
}

// Int64 reads an integer field
func (r Record) Int64(field string) (int64, bool) {
	return toInt64(r[field])
}

// String reads a text field; missing and nil read as ""
func (r Record) String(field string) string {
	switch v := r[field].(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case *string:
		if v == nil {
			return ""
		}
		return *v
	default:
		return fmt.Sprint(v)
	}
}

// Bool reads a boolean field; MySQL tinyint and string forms are accepted
func (r Record) Bool(field string) bool {
	b, _ := toBool(r[field])
	return b
}

// Time reads a timestamp field
func (r Record) Time(field string) (time.Time, bool) {
	return toTime(r[field])
}

// TimePtr reads a nullable timestamp field
func (r Record) TimePtr(field string) *time.Time {
	t, ok := r.Time(field)
	if !ok {
		return nil
	}
	return &t
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return int64(n), true
	case float64:
		return int64(n), true
	case float32:
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		return i, err == nil
	case []byte:
		i, err := strconv.ParseInt(string(n), 10, 64)
		return i, err == nil
	default:
		return 0, false
	}
}

func toBool(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case *bool:
		if b == nil {
			return false, false
		}
		return *b, true
	case string:
		p, err := strconv.ParseBool(b)
		return p, err == nil
	case []byte:
		p, err := strconv.ParseBool(string(b))
		return p, err == nil
	default:
		if n, ok := toInt64(v); ok {
			return n != 0, true
		}
		return false, false
	}
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

func toTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return time.Time{}, false
		}
		return t, true
	case *time.Time:
		if t == nil || t.IsZero() {
			return time.Time{}, false
		}
		return *t, true
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed, true
			}
		}
		return time.Time{}, false
	case []byte:
		return toTime(string(t))
	default:
		return time.Time{}, false
	}
}
