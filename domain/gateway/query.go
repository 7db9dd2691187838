package gateway

import "fmt"

// Operator is a comparison used by a Where clause
type Operator string

const (
	// EqualTo matches when the field equals any of the values
	EqualTo Operator = "EqualTo"
	// Contains matches a case-insensitive substring of a text field
	Contains Operator = "Contains"
)

// GroupOperator joins the clauses of a WhereGroup
type GroupOperator string

const (
	OR  GroupOperator = "OR"
	AND GroupOperator = "AND"
)

// SortType is the direction of an OrderBy
type SortType string

const (
	ASC  SortType = "ASC"
	DESC SortType = "DESC"
)

// QueryParams selects, filters and orders records.
// Where clauses and WhereGroups are all AND-ed together.
type QueryParams struct {
	Fields      []string     `json:"fields,omitempty"`
	Where       []Where      `json:"where,omitempty"`
	WhereGroups []WhereGroup `json:"whereGroups,omitempty"`
	OrderBy     []OrderBy    `json:"orderBy,omitempty"`
}

// Where is a single clause; several Values are alternatives
type Where struct {
	FieldName string   `json:"FieldName"`
	Operator  Operator `json:"Operator"`
	Values    []any    `json:"Values"`
}

// WhereGroup joins its sub-clauses with Operator (OR by default)
type WhereGroup struct {
	Operator  GroupOperator `json:"operator"`
	SubGroups []Where       `json:"subGroups"`
}

// OrderBy sorts by one field
type OrderBy struct {
	FieldName string   `json:"FieldName"`
	SortType  SortType `json:"SortType"`
}

// Eq is shorthand for an EqualTo clause
func Eq(field string, values ...any) Where {
	return Where{FieldName: field, Operator: EqualTo, Values: values}
}

// Like is shorthand for a Contains clause
func Like(field string, value string) Where {
	return Where{FieldName: field, Operator: Contains, Values: []any{value}}
}

// AnyOf builds an OR group
func AnyOf(clauses ...Where) WhereGroup {
	return WhereGroup{Operator: OR, SubGroups: clauses}
}

// Desc is shorthand for a descending OrderBy
func Desc(field string) OrderBy {
	return OrderBy{FieldName: field, SortType: DESC}
}

// Asc is shorthand for an ascending OrderBy
func Asc(field string) OrderBy {
	return OrderBy{FieldName: field, SortType: ASC}
}

// Validate rejects unknown operators and sort types
func (q QueryParams) Validate() error {
	check := func(w Where) error {
		switch w.Operator {
		case EqualTo, Contains:
		default:
			return fmt.Errorf("unsupported operator %q on %s", w.Operator, w.FieldName)
		}
		if len(w.Values) == 0 {
			return fmt.Errorf("clause on %s has no values", w.FieldName)
		}
		return nil
	}
	for _, w := range q.Where {
		if err := check(w); err != nil {
			return err
		}
	}
	for _, g := range q.WhereGroups {
		switch g.Operator {
		case "", OR, AND:
		default:
			return fmt.Errorf("unsupported group operator %q", g.Operator)
		}
		for _, w := range g.SubGroups {
			if err := check(w); err != nil {
				return err
			}
		}
	}
	for _, o := range q.OrderBy {
		switch o.SortType {
		case "", ASC, DESC:
		default:
			return fmt.Errorf("unsupported sort type %q", o.SortType)
		}
	}
	return nil
}
