package vectordb

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ── FilterSet Constructors ───────────────────────────────────────────────────

// NewFilterSet creates a FilterSet with the given clauses.
// Use with Must(), Should(), and MustNot() helpers.
//
// Example:
//
//	vectordb.NewFilterSet(
//	    vectordb.Must(vectordb.NewMatch("source", "yugabytedb")),
//	    vectordb.Should(vectordb.NewMetadataMatch("tag", "ml"), vectordb.NewMetadataMatch("tag", "ai")),
//	)
func NewFilterSet(clauses ...func(*FilterSet)) *FilterSet {
	fs := &FilterSet{}
	for _, clause := range clauses {
		clause(fs)
	}
	return fs
}

// Must creates a Must clause (AND logic) with the given conditions.
func Must(conditions ...FilterCondition) func(*FilterSet) {
	return func(fs *FilterSet) {
		fs.Must = &ConditionSet{Conditions: conditions}
	}
}

// Should creates a Should clause (OR logic) with the given conditions.
func Should(conditions ...FilterCondition) func(*FilterSet) {
	return func(fs *FilterSet) {
		fs.Should = &ConditionSet{Conditions: conditions}
	}
}

// MustNot creates a MustNot clause (NOT logic) with the given conditions.
func MustNot(conditions ...FilterCondition) func(*FilterSet) {
	return func(fs *FilterSet) {
		fs.MustNot = &ConditionSet{Conditions: conditions}
	}
}

// ── Condition Constructors ───────────────────────────────────────────────────

// NewMatch creates a match condition on a table column.
func NewMatch(field string, value any) *MatchCondition {
	return &MatchCondition{Field: field, Value: value, FieldType: ColumnField}
}

// NewMetadataMatch creates a match condition on a JSON metadata key.
func NewMetadataMatch(field string, value any) *MatchCondition {
	return &MatchCondition{Field: field, Value: value, FieldType: MetadataField}
}

// NewMatchAny creates an IN condition on a table column.
func NewMatchAny(field string, values ...any) *MatchAnyCondition {
	return &MatchAnyCondition{Field: field, Values: values, FieldType: ColumnField}
}

// NewMetadataMatchAny creates an IN condition on a JSON metadata key.
func NewMetadataMatchAny(field string, values ...any) *MatchAnyCondition {
	return &MatchAnyCondition{Field: field, Values: values, FieldType: MetadataField}
}

// NewMatchExcept creates a NOT IN condition on a table column.
func NewMatchExcept(field string, values ...any) *MatchExceptCondition {
	return &MatchExceptCondition{Field: field, Values: values, FieldType: ColumnField}
}

// NewMetadataMatchExcept creates a NOT IN condition on a JSON metadata key.
func NewMetadataMatchExcept(field string, values ...any) *MatchExceptCondition {
	return &MatchExceptCondition{Field: field, Values: values, FieldType: MetadataField}
}

// NewNumericRange creates a numeric range condition on a table column.
func NewNumericRange(field string, r NumericRange) *NumericRangeCondition {
	return &NumericRangeCondition{Field: field, Range: r, FieldType: ColumnField}
}

// NewMetadataNumericRange creates a numeric range condition on a JSON metadata key.
func NewMetadataNumericRange(field string, r NumericRange) *NumericRangeCondition {
	return &NumericRangeCondition{Field: field, Range: r, FieldType: MetadataField}
}

// NewIsNull creates an IS NULL condition on a table column.
func NewIsNull(field string) *IsNullCondition {
	return &IsNullCondition{Field: field, FieldType: ColumnField}
}

// NewMetadataIsNull creates an IS NULL condition on a JSON metadata key.
func NewMetadataIsNull(field string) *IsNullCondition {
	return &IsNullCondition{Field: field, FieldType: MetadataField}
}

// ── Validation ───────────────────────────────────────────────────────────────

// ErrInvalidFilter is wrapped by every error Validate returns.
var ErrInvalidFilter = errors.New("vectordb: invalid filter")

// Validate checks that every condition names a field, carries at least one
// value where one is needed and does not mix value kinds.
func (fs *FilterSet) Validate() error {
	if fs == nil {
		return nil
	}
	for _, cs := range []*ConditionSet{fs.Must, fs.Should, fs.MustNot} {
		if cs == nil {
			continue
		}
		for _, c := range cs.Conditions {
			if err := validateCondition(c); err != nil {
				return err
			}
		}
	}
	return nil
}

// IsEmpty reports whether the set has no conditions at all.
func (fs *FilterSet) IsEmpty() bool {
	if fs == nil {
		return true
	}
	for _, cs := range []*ConditionSet{fs.Must, fs.Should, fs.MustNot} {
		if cs != nil && len(cs.Conditions) > 0 {
			return false
		}
	}
	return true
}

func validateCondition(c FilterCondition) error {
	switch cond := c.(type) {
	case *MatchCondition:
		if cond.Field == "" {
			return fmt.Errorf("%w: match condition without field", ErrInvalidFilter)
		}
		if ValueKind(cond.Value) == "" {
			return fmt.Errorf("%w: unsupported value type %T for %q", ErrInvalidFilter, cond.Value, cond.Field)
		}
	case *MatchAnyCondition:
		return validateValues(cond.Field, cond.Values)
	case *MatchExceptCondition:
		return validateValues(cond.Field, cond.Values)
	case *NumericRangeCondition:
		if cond.Field == "" {
			return fmt.Errorf("%w: range condition without field", ErrInvalidFilter)
		}
		r := cond.Range
		if r.Gt == nil && r.Gte == nil && r.Lt == nil && r.Lte == nil {
			return fmt.Errorf("%w: range on %q has no bounds", ErrInvalidFilter, cond.Field)
		}
	case *IsNullCondition:
		if cond.Field == "" {
			return fmt.Errorf("%w: null condition without field", ErrInvalidFilter)
		}
	case nil:
		return fmt.Errorf("%w: nil condition", ErrInvalidFilter)
	default:
		return fmt.Errorf("%w: unsupported condition %T", ErrInvalidFilter, c)
	}
	return nil
}

// validateValues ensures a MatchAny/MatchExcept list is non-empty and
// homogeneous.
func validateValues(field string, values []any) error {
	if field == "" {
		return fmt.Errorf("%w: condition without field", ErrInvalidFilter)
	}
	if len(values) == 0 {
		return fmt.Errorf("%w: %q has an empty value list", ErrInvalidFilter, field)
	}

	expected := ValueKind(values[0])
	if expected == "" {
		return fmt.Errorf("%w: unsupported value type %T for %q", ErrInvalidFilter, values[0], field)
	}
	for i, v := range values[1:] {
		actual := ValueKind(v)
		if actual == "" {
			return fmt.Errorf("%w: unsupported value type at index %d: %T", ErrInvalidFilter, i+1, v)
		}
		if actual != expected {
			return fmt.Errorf("%w: mixed types for %q: expected %s but got %s at index %d",
				ErrInvalidFilter, field, expected, actual, i+1)
		}
	}
	return nil
}

// ValueKind classifies a filter value as "string", "numeric" or "boolean".
// Unsupported types yield "".
func ValueKind(value any) string {
	switch value.(type) {
	case string:
		return "string"
	case int, int32, int64, float32, float64:
		return "numeric"
	case bool:
		return "boolean"
	}
	return ""
}

// ── JSON Serialization ───────────────────────────────────────────────────────

// MarshalJSON implements custom JSON marshaling for ConditionSet.
// This is needed because FilterCondition is an interface.
func (cs *ConditionSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(cs.Conditions)
}

// UnmarshalJSON detects each condition's type from its JSON keys and decodes
// it into the matching concrete type.
func (cs *ConditionSet) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	cs.Conditions = make([]FilterCondition, 0, len(raw))
	for _, r := range raw {
		cond, err := parseCondition(r)
		if err != nil {
			return err
		}
		cs.Conditions = append(cs.Conditions, cond)
	}
	return nil
}

// parseCondition picks the condition type by key:
//   - "equalTo" → MatchCondition
//   - "anyOf" → MatchAnyCondition
//   - "noneOf" → MatchExceptCondition
//   - "greaterThan", "lessThan", etc. → NumericRangeCondition
//   - "isNull" → IsNullCondition
func parseCondition(data []byte) (FilterCondition, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}

	var cond FilterCondition
	switch {
	case hasKey(fields, "equalTo"):
		cond = &MatchCondition{}
	case hasKey(fields, "anyOf"):
		cond = &MatchAnyCondition{}
	case hasKey(fields, "noneOf"):
		cond = &MatchExceptCondition{}
	case hasKey(fields, "greaterThan"), hasKey(fields, "greaterThanOrEqualTo"),
		hasKey(fields, "lessThan"), hasKey(fields, "lessThanOrEqualTo"):
		cond = &NumericRangeCondition{}
	case hasKey(fields, "isNull"):
		cond = &IsNullCondition{}
	default:
		return nil, fmt.Errorf("unknown filter condition type: %s", string(data))
	}

	if err := json.Unmarshal(data, cond); err != nil {
		return nil, err
	}
	return cond, nil
}

func hasKey(m map[string]json.RawMessage, key string) bool {
	_, ok := m[key]
	return ok
}
