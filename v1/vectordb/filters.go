package vectordb

import (
	"encoding/json"
	"fmt"
)

// FieldType tells a store where a filtered field lives.
type FieldType int

const (
	// ColumnField is a table column: a declared metadata column, the id or
	// the content column.
	ColumnField FieldType = iota
	// MetadataField is a key inside the JSON metadata column.
	MetadataField
)

func (f FieldType) String() string {
	if f == MetadataField {
		return "metadata"
	}
	return "column"
}

func (f FieldType) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

func (f *FieldType) UnmarshalText(text []byte) error {
	switch string(text) {
	case "", "column":
		*f = ColumnField
	case "metadata":
		*f = MetadataField
	default:
		return fmt.Errorf("vectordb: unknown field type %q", text)
	}
	return nil
}

// FilterCondition is the interface all filter conditions implement.
// Each store translates them to its native filter form.
type FilterCondition interface {
	// IsFilterCondition is a marker method.
	IsFilterCondition()
}

// FilterSet supports Must (AND), Should (OR) and MustNot (NOT) clauses.
// Clauses are combined with AND.
//
// Example:
//
//	filters := &FilterSet{
//	    Must: &ConditionSet{
//	        Conditions: []FilterCondition{
//	            &MatchCondition{Field: "source", Value: "yugabytedb"},
//	        },
//	    },
//	}
type FilterSet struct {
	// Must: all conditions must match (AND)
	Must *ConditionSet `json:"must,omitempty"`
	// Should: at least one condition must match (OR)
	Should *ConditionSet `json:"should,omitempty"`
	// MustNot: none of the conditions may match (NOT)
	MustNot *ConditionSet `json:"mustNot,omitempty"`
}

// ConditionSet holds the conditions of a single clause.
type ConditionSet struct {
	Conditions []FilterCondition `json:"conditions,omitempty"`
}

// ── Match Conditions ─────────────────────────────────────────────────────────

// MatchCondition is an exact match (WHERE field = value).
// Supports string, bool and numeric values.
type MatchCondition struct {
	Field     string    `json:"field"`
	Value     any       `json:"equalTo"`
	FieldType FieldType `json:"fieldType,omitempty"`
}

func (c *MatchCondition) IsFilterCondition() {}

// MatchAnyCondition matches one of the given values (WHERE field IN (...)).
type MatchAnyCondition struct {
	Field     string    `json:"field"`
	Values    []any     `json:"anyOf"`
	FieldType FieldType `json:"fieldType,omitempty"`
}

func (c *MatchAnyCondition) IsFilterCondition() {}

// MatchExceptCondition matches none of the given values (WHERE field NOT IN (...)).
type MatchExceptCondition struct {
	Field     string    `json:"field"`
	Values    []any     `json:"noneOf"`
	FieldType FieldType `json:"fieldType,omitempty"`
}

func (c *MatchExceptCondition) IsFilterCondition() {}

// ── Range Conditions ─────────────────────────────────────────────────────────

// NumericRange defines bounds for numeric filtering. Nil bounds are open.
type NumericRange struct {
	Gt  *float64 `json:"greaterThan,omitempty"`          // exclusive
	Gte *float64 `json:"greaterThanOrEqualTo,omitempty"` // inclusive
	Lt  *float64 `json:"lessThan,omitempty"`             // exclusive
	Lte *float64 `json:"lessThanOrEqualTo,omitempty"`    // inclusive
}

// NumericRangeCondition filters by numeric range.
// SQL equivalent: WHERE field >= min AND field <= max
type NumericRangeCondition struct {
	Field     string       `json:"field"`
	Range     NumericRange `json:"-"`
	FieldType FieldType    `json:"fieldType,omitempty"`
}

func (c *NumericRangeCondition) IsFilterCondition() {}

type numericRangeJSON struct {
	Field                string    `json:"field"`
	GreaterThan          *float64  `json:"greaterThan,omitempty"`
	GreaterThanOrEqualTo *float64  `json:"greaterThanOrEqualTo,omitempty"`
	LessThan             *float64  `json:"lessThan,omitempty"`
	LessThanOrEqualTo    *float64  `json:"lessThanOrEqualTo,omitempty"`
	FieldType            FieldType `json:"fieldType,omitempty"`
}

func (c *NumericRangeCondition) MarshalJSON() ([]byte, error) {
	return json.Marshal(numericRangeJSON{
		Field:                c.Field,
		GreaterThan:          c.Range.Gt,
		GreaterThanOrEqualTo: c.Range.Gte,
		LessThan:             c.Range.Lt,
		LessThanOrEqualTo:    c.Range.Lte,
		FieldType:            c.FieldType,
	})
}

func (c *NumericRangeCondition) UnmarshalJSON(data []byte) error {
	var alias numericRangeJSON
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	c.Field = alias.Field
	c.FieldType = alias.FieldType
	c.Range = NumericRange{
		Gt:  alias.GreaterThan,
		Gte: alias.GreaterThanOrEqualTo,
		Lt:  alias.LessThan,
		Lte: alias.LessThanOrEqualTo,
	}
	return nil
}

// ── Null Conditions ──────────────────────────────────────────────────────────

// IsNullCondition matches rows where the field is NULL or, for metadata
// fields, absent.
type IsNullCondition struct {
	Field     string    `json:"isNull"`
	FieldType FieldType `json:"fieldType,omitempty"`
}

func (c *IsNullCondition) IsFilterCondition() {}
