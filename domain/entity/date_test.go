package entity

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "Plain date", input: "2025-06-01", want: "2025-06-01"},
		{name: "RFC3339 is truncated", input: "2025-06-01T18:30:00Z", want: "2025-06-01"},
		{name: "Empty is zero", input: "", want: ""},
		{name: "Garbage", input: "June 1st", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDate(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err == nil && got.String() != tt.want {
				t.Errorf("ParseDate(%q) = %q, expected %q", tt.input, got.String(), tt.want)
			}
		})
	}
}

func TestDateJSON(t *testing.T) {
	d := NewDate(time.Date(2025, 6, 1, 23, 59, 0, 0, time.UTC))

	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(b) != `"2025-06-01"` {
		t.Errorf("Marshal = %s", b)
	}

	var back Date
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !back.Equal(d.Time) {
		t.Errorf("Unmarshal = %v, expected %v", back, d)
	}

	var zero Date
	if err := json.Unmarshal([]byte("null"), &zero); err != nil || !zero.IsZero() {
		t.Errorf("null should decode to the zero date, got %v (%v)", zero, err)
	}
}
