package gateway

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// Matches evaluates params' clauses and groups against a record in memory
func Matches(r Record, params QueryParams) bool {
	for _, w := range params.Where {
		if !matchClause(r, w) {
			return false
		}
	}
	for _, g := range params.WhereGroups {
		if !matchGroup(r, g) {
			return false
		}
	}
	return true
}

func matchGroup(r Record, g WhereGroup) bool {
	if len(g.SubGroups) == 0 {
		return true
	}
	if g.Operator == AND {
		for _, w := range g.SubGroups {
			if !matchClause(r, w) {
				return false
			}
		}
		return true
	}
	for _, w := range g.SubGroups {
		if matchClause(r, w) {
			return true
		}
	}
	return false
}

func matchClause(r Record, w Where) bool {
	field := r[w.FieldName]
	for _, v := range w.Values {
		switch w.Operator {
		case Contains:
			needle := strings.ToLower(canonical(v))
			if strings.Contains(strings.ToLower(canonical(field)), needle) {
				return true
			}
		default:
			if canonical(field) == canonical(v) {
				return true
			}
		}
	}
	return false
}

// canonical renders a value so that equal values from different decoders compare equal
func canonical(v any) string {
	if v == nil {
		return ""
	}
	switch x := v.(type) {
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.UTC().Format(time.RFC3339Nano)
	case *time.Time:
		if x == nil {
			return ""
		}
		return x.UTC().Format(time.RFC3339Nano)
	}
	if n, ok := toInt64(v); ok {
		return strconv.FormatInt(n, 10)
	}
	return Record{"v": v}.String("v")
}

// SortRecords orders records in place by the OrderBy list; ties fall back to id
func SortRecords(records []Record, orderBy []OrderBy) {
	sort.SliceStable(records, func(i, j int) bool {
		for _, o := range orderBy {
			c := compareValues(records[i][o.FieldName], records[j][o.FieldName])
			if c == 0 {
				continue
			}
			if o.SortType == DESC {
				return c > 0
			}
			return c < 0
		}
		a, _ := records[i].ID()
		b, _ := records[j].ID()
		return a < b
	})
}

func compareValues(a, b any) int {
	if ta, ok := toTime(a); ok {
		if tb, ok := toTime(b); ok {
			return ta.Compare(tb)
		}
	}
	if _, isBool := a.(bool); isBool {
		ba, _ := toBool(a)
		bb, _ := toBool(b)
		switch {
		case ba == bb:
			return 0
		case !ba:
			return -1
		default:
			return 1
		}
	}
	if _, isString := a.(string); !isString {
		if na, ok := toInt64(a); ok {
			if nb, ok := toInt64(b); ok {
				switch {
				case na < nb:
					return -1
				case na > nb:
					return 1
				default:
					return 0
				}
			}
		}
	}
	return strings.Compare(canonical(a), canonical(b))
}
