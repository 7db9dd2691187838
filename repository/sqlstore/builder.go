package sqlstore

import (
	"fmt"
	"strings"
	"time"

	"taskflow/domain/gateway"
)

// Queries use ? placeholders; postgres rebinds them to $n.

const likeEscape = "!"

var likeReplacer = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// BuildWhere renders the filter of params without the WHERE keyword.
// An empty string means no filter.
func BuildWhere(t Table, params gateway.QueryParams) (string, []any, error) {
	var parts []string
	var args []any

	for _, w := range params.Where {
		sql, a, err := clause(t, w)
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, sql)
		args = append(args, a...)
	}

	for _, g := range params.WhereGroups {
		if len(g.SubGroups) == 0 {
			continue
		}
		joiner := " OR "
		if g.Operator == gateway.AND {
			joiner = " AND "
		}
		sub := make([]string, 0, len(g.SubGroups))
		for _, w := range g.SubGroups {
			sql, a, err := clause(t, w)
			if err != nil {
				return "", nil, err
			}
			sub = append(sub, sql)
			args = append(args, a...)
		}
		parts = append(parts, "("+strings.Join(sub, joiner)+")")
	}

	return strings.Join(parts, " AND "), args, nil
}

func clause(t Table, w gateway.Where) (string, []any, error) {
	c, ok := t.Column(w.FieldName)
	if !ok {
		return "", nil, fmt.Errorf("unknown field %q in %s", w.FieldName, t.Collection)
	}
	if len(w.Values) == 0 {
		return "1 = 0", nil, nil
	}

	switch w.Operator {
	case gateway.Contains:
		parts := make([]string, len(w.Values))
		args := make([]any, len(w.Values))
		for i, v := range w.Values {
			parts[i] = fmt.Sprintf("LOWER(%s) LIKE ? ESCAPE '%s'", c.Name, likeEscape)
			needle := strings.ToLower(gateway.Record{"v": v}.String("v"))
			args[i] = "%" + likeReplacer.Replace(needle) + "%"
		}
		if len(parts) == 1 {
			return parts[0], args, nil
		}
		return "(" + strings.Join(parts, " OR ") + ")", args, nil

	case gateway.EqualTo, "":
		args := make([]any, len(w.Values))
		for i, v := range w.Values {
			coerced, err := c.Coerce(v)
			if err != nil {
				return "", nil, err
			}
			args[i] = coerced
		}
		if len(args) == 1 {
			if args[0] == nil {
				return c.Name + " IS NULL", nil, nil
			}
			return c.Name + " = ?", args, nil
		}
		marks := strings.TrimSuffix(strings.Repeat("?, ", len(args)), ", ")
		return fmt.Sprintf("%s IN (%s)", c.Name, marks), args, nil

	default:
		return "", nil, fmt.Errorf("unsupported operator %q", w.Operator)
	}
}

// BuildOrder renders ORDER BY terms; only known columns are accepted.
// The id is appended as a tiebreaker.
func BuildOrder(t Table, orderBy []gateway.OrderBy) (string, error) {
	terms := make([]string, 0, len(orderBy)+1)
	for _, o := range orderBy {
		c, ok := t.Column(o.FieldName)
		if !ok {
			return "", fmt.Errorf("cannot order by unknown field %q", o.FieldName)
		}
		dir := "ASC"
		if o.SortType == gateway.DESC {
			dir = "DESC"
		}
		terms = append(terms, c.Name+" "+dir)
	}
	terms = append(terms, "id ASC")
	return strings.Join(terms, ", "), nil
}

// BuildSelect renders a filtered, ordered read
func BuildSelect(t Table, params gateway.QueryParams) (string, []any, []Column, error) {
	cols, err := t.Select(params.Fields)
	if err != nil {
		return "", nil, nil, err
	}
	where, args, err := BuildWhere(t, params)
	if err != nil {
		return "", nil, nil, err
	}
	order, err := BuildOrder(t, params.OrderBy)
	if err != nil {
		return "", nil, nil, err
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(columnList(cols))
	b.WriteString(" FROM ")
	b.WriteString(t.Name)
	if where != "" {
		b.WriteString(" WHERE ")
		b.WriteString(where)
	}
	b.WriteString(" ORDER BY ")
	b.WriteString(order)
	return b.String(), args, cols, nil
}

// BuildSelectByID renders a single-row read
func BuildSelectByID(t Table, id int64, fields []string) (string, []any, []Column, error) {
	cols, err := t.Select(fields)
	if err != nil {
		return "", nil, nil, err
	}
	q := fmt.Sprintf("SELECT %s FROM %s WHERE id = ?", columnList(cols), t.Name)
	return q, []any{id}, cols, nil
}

// BuildInsert renders an insert of the writable fields present in rec, stamped
// with the metadata columns. Nil values are left to the column default.
func BuildInsert(t Table, rec gateway.Record, owner string, now time.Time) (string, []any, error) {
	names, args, err := assignments(t, rec, false)
	if err != nil {
		return "", nil, err
	}
	names = append(names, "owner", "created_on", "modified_on")
	args = append(args, owner, now.UTC(), now.UTC())

	marks := strings.TrimSuffix(strings.Repeat("?, ", len(names)), ", ")
	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", t.Name, strings.Join(names, ", "), marks)
	return q, args, nil
}

// BuildUpdate renders an update of the writable fields present in rec
func BuildUpdate(t Table, id int64, rec gateway.Record, now time.Time) (string, []any, error) {
	names, args, err := assignments(t, rec, true)
	if err != nil {
		return "", nil, err
	}
	names = append(names, "modified_on")
	args = append(args, now.UTC())

	sets := make([]string, len(names))
	for i, n := range names {
		sets[i] = n + " = ?"
	}
	args = append(args, id)
	q := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", t.Name, strings.Join(sets, ", "))
	return q, args, nil
}

// BuildDelete renders a single-row delete
func BuildDelete(t Table, id int64) (string, []any) {
	return fmt.Sprintf("DELETE FROM %s WHERE id = ?", t.Name), []any{id}
}

// assignments lists writable columns present in rec in table order.
// Nil values are kept only on update, and only for nullable columns.
func assignments(t Table, rec gateway.Record, update bool) ([]string, []any, error) {
	var names []string
	var args []any
	for _, c := range t.Columns {
		if !c.Writable {
			continue
		}
		v, ok := rec[c.Field]
		if !ok {
			continue
		}
		coerced, err := c.Coerce(v)
		if err != nil {
			return nil, nil, err
		}
		if coerced == nil && !(update && c.Nullable) {
			continue
		}
		names = append(names, c.Name)
		args = append(args, coerced)
	}
	return names, args, nil
}

func columnList(cols []Column) string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return strings.Join(names, ", ")
}
