package gateway

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func sampleRecords() []Record {
	return []Record{
		{FieldID: int64(1), TaskTitle: "Write report", TaskDescription: "Q2 numbers", TaskArchived: false,
			TaskCreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
		{FieldID: int64(2), TaskTitle: "Buy milk", TaskDescription: "", TaskArchived: false,
			TaskCreatedAt: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
		{FieldID: int64(3), TaskTitle: "Old chore", TaskDescription: "REPORT archive", TaskArchived: true,
			TaskCreatedAt: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)},
	}
}

func ids(records []Record) []int64 {
	out := make([]int64, 0, len(records))
	for _, r := range records {
		id, _ := r.ID()
		out = append(out, id)
	}
	return out
}

func filter(records []Record, params QueryParams) []Record {
	var out []Record
	for _, r := range records {
		if Matches(r, params) {
			out = append(out, r)
		}
	}
	return out
}

func TestMatchesEqualTo(t *testing.T) {
	got := filter(sampleRecords(), QueryParams{Where: []Where{Eq(TaskArchived, false)}})
	assert.Equal(t, []int64{1, 2}, ids(got))

	// JSON-decoded forms compare equal to native ones
	got = filter(sampleRecords(), QueryParams{Where: []Where{Eq(FieldID, float64(3))}})
	assert.Equal(t, []int64{3}, ids(got))
}

func TestMatchesOrGroup(t *testing.T) {
	params := QueryParams{
		Where:       []Where{Eq(TaskArchived, false)},
		WhereGroups: []WhereGroup{AnyOf(Like(TaskTitle, "report"), Like(TaskDescription, "report"))},
	}

	got := filter(sampleRecords(), params)
	assert.Equal(t, []int64{1}, ids(got), "archived match must be excluded by the AND-ed where")
}

func TestMatchesMultipleValues(t *testing.T) {
	got := filter(sampleRecords(), QueryParams{Where: []Where{Eq(FieldID, int64(1), int64(3))}})
	assert.Equal(t, []int64{1, 3}, ids(got))
}

func TestSortRecords(t *testing.T) {
	records := sampleRecords()
	SortRecords(records, []OrderBy{Desc(TaskCreatedAt)})
	assert.Equal(t, []int64{2, 3, 1}, ids(records))

	SortRecords(records, []OrderBy{Asc(TaskTitle)})
	assert.Equal(t, []int64{2, 3, 1}, ids(records))

	SortRecords(records, nil)
	assert.Equal(t, []int64{1, 2, 3}, ids(records))
}

func TestRecordAccessors(t *testing.T) {
	r := Record{
		"n":  float64(42),
		"b":  int64(1),
		"s":  "text",
		"t":  "2025-06-01T10:00:00Z",
		"bs": "false",
	}

	n, ok := r.Int64("n")
	assert.True(t, ok)
	assert.Equal(t, int64(42), n)
	assert.True(t, r.Bool("b"))
	assert.False(t, r.Bool("bs"))
	assert.Equal(t, "text", r.String("s"))
	assert.Equal(t, "", r.String("missing"))

	ts := r.TimePtr("t")
	if assert.NotNil(t, ts) {
		assert.Equal(t, 2025, ts.Year())
	}
	assert.Nil(t, r.TimePtr("missing"))
}

func TestSchemaSanitize(t *testing.T) {
	in := Record{FieldID: int64(9), TaskTitle: "x", "bogus": 1, FieldOwner: "someone"}

	out := TaskSchema.Sanitize(in, false)
	assert.Equal(t, Record{TaskTitle: "x"}, out)

	out = TaskSchema.Sanitize(in, true)
	assert.Equal(t, Record{FieldID: int64(9), TaskTitle: "x"}, out)
}

func TestQueryParamsValidate(t *testing.T) {
	assert.NoError(t, QueryParams{Where: []Where{Eq(TaskArchived, true)}}.Validate())
	assert.Error(t, QueryParams{Where: []Where{{FieldName: "x", Operator: "Regex", Values: []any{"a"}}}}.Validate())
	assert.Error(t, QueryParams{Where: []Where{{FieldName: "x", Operator: EqualTo}}}.Validate())
	assert.Error(t, QueryParams{OrderBy: []OrderBy{{FieldName: "x", SortType: "sideways"}}}.Validate())
}
