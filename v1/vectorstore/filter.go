package vectorstore

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/yugabyte/yb-vectorstore/v1/vectordb"
)

// whereClause translates filters into a PostgreSQL boolean expression with
// "?" placeholders and its arguments. A nil or empty set yields "".
//
// Column fields must be the id, content or a declared metadata column.
// Metadata fields address keys of the JSON metadata column and compare as
// jsonb, so "1" and 1 are different values while 1 and 1.0 are equal.
func whereClause(s Schema, filters *vectordb.FilterSet) (string, []any, error) {
	if filters.IsEmpty() {
		return "", nil, nil
	}
	if err := filters.Validate(); err != nil {
		return "", nil, err
	}

	b := &filterBuilder{schema: s}
	var clauses []string

	if filters.Must != nil {
		parts, err := b.conditions(filters.Must.Conditions)
		if err != nil {
			return "", nil, err
		}
		clauses = append(clauses, parts...)
	}
	if filters.Should != nil && len(filters.Should.Conditions) > 0 {
		parts, err := b.conditions(filters.Should.Conditions)
		if err != nil {
			return "", nil, err
		}
		clauses = append(clauses, "("+strings.Join(parts, " OR ")+")")
	}
	if filters.MustNot != nil && len(filters.MustNot.Conditions) > 0 {
		parts, err := b.conditions(filters.MustNot.Conditions)
		if err != nil {
			return "", nil, err
		}
		clauses = append(clauses, "NOT ("+strings.Join(parts, " OR ")+")")
	}

	return strings.Join(clauses, " AND "), b.args, nil
}

type filterBuilder struct {
	schema Schema
	args   []any
}

func (b *filterBuilder) conditions(conds []vectordb.FilterCondition) ([]string, error) {
	parts := make([]string, 0, len(conds))
	for _, c := range conds {
		sql, err := b.condition(c)
		if err != nil {
			return nil, err
		}
		parts = append(parts, sql)
	}
	return parts, nil
}

func (b *filterBuilder) condition(c vectordb.FilterCondition) (string, error) {
	switch cond := c.(type) {
	case *vectordb.MatchCondition:
		return b.match(cond.Field, cond.FieldType, "=", cond.Value)
	case *vectordb.MatchAnyCondition:
		return b.matchList(cond.Field, cond.FieldType, "IN", cond.Values)
	case *vectordb.MatchExceptCondition:
		return b.matchList(cond.Field, cond.FieldType, "NOT IN", cond.Values)
	case *vectordb.NumericRangeCondition:
		return b.numericRange(cond)
	case *vectordb.IsNullCondition:
		if cond.FieldType == vectordb.MetadataField {
			expr, args, err := b.jsonValue(cond.Field)
			if err != nil {
				return "", err
			}
			b.args = append(b.args, args...)
			return fmt.Sprintf("COALESCE(jsonb_typeof(%s), 'null') = 'null'", expr), nil
		}
		col, err := b.column(cond.Field)
		if err != nil {
			return "", err
		}
		return col + " IS NULL", nil
	default:
		return "", fmt.Errorf("%w: unsupported condition %T", vectordb.ErrInvalidFilter, c)
	}
}

func (b *filterBuilder) match(field string, ft vectordb.FieldType, op string, value any) (string, error) {
	if ft == vectordb.MetadataField {
		expr, args, err := b.jsonValue(field)
		if err != nil {
			return "", err
		}
		arg, err := jsonArg(value)
		if err != nil {
			return "", err
		}
		b.args = append(b.args, args...)
		b.args = append(b.args, arg)
		return fmt.Sprintf("%s %s ?::jsonb", expr, op), nil
	}

	col, err := b.column(field)
	if err != nil {
		return "", err
	}
	b.args = append(b.args, value)
	return fmt.Sprintf("%s %s ?", col, op), nil
}

func (b *filterBuilder) matchList(field string, ft vectordb.FieldType, op string, values []any) (string, error) {
	if ft == vectordb.MetadataField {
		expr, args, err := b.jsonValue(field)
		if err != nil {
			return "", err
		}
		b.args = append(b.args, args...)
		placeholders := make([]string, len(values))
		for i, v := range values {
			arg, err := jsonArg(v)
			if err != nil {
				return "", err
			}
			b.args = append(b.args, arg)
			placeholders[i] = "?::jsonb"
		}
		return fmt.Sprintf("%s %s (%s)", expr, op, strings.Join(placeholders, ", ")), nil
	}

	col, err := b.column(field)
	if err != nil {
		return "", err
	}
	b.args = append(b.args, values)
	return fmt.Sprintf("%s %s ?", col, op), nil
}

func (b *filterBuilder) numericRange(c *vectordb.NumericRangeCondition) (string, error) {
	var (
		expr     string
		exprArgs []any
	)
	if c.FieldType == vectordb.MetadataField {
		value, args, err := b.jsonValue(c.Field)
		if err != nil {
			return "", err
		}
		// non-numeric values compare as NULL instead of failing the cast
		expr = fmt.Sprintf("(CASE WHEN jsonb_typeof(%s) = 'number' THEN (%s ->> ?::text)::float8 END)",
			value, pq.QuoteIdentifier(b.schema.MetadataJSONColumn))
		exprArgs = append(args, c.Field)
	} else {
		col, err := b.column(c.Field)
		if err != nil {
			return "", err
		}
		expr = col
	}

	var parts []string
	for _, bound := range []struct {
		op    string
		value *float64
	}{
		{">", c.Range.Gt},
		{">=", c.Range.Gte},
		{"<", c.Range.Lt},
		{"<=", c.Range.Lte},
	} {
		if bound.value == nil {
			continue
		}
		b.args = append(b.args, exprArgs...)
		b.args = append(b.args, *bound.value)
		parts = append(parts, fmt.Sprintf("%s %s ?", expr, bound.op))
	}
	return "(" + strings.Join(parts, " AND ") + ")", nil
}

// column quotes a filterable column name.
func (b *filterBuilder) column(field string) (string, error) {
	s := b.schema
	if field == s.IDColumn.Name || field == s.ContentColumn.Name || s.hasMetadataColumn(field) {
		return pq.QuoteIdentifier(field), nil
	}
	return "", configErr(field, "filter field is not a metadata column")
}

// jsonValue returns a jsonb expression for a key of the JSON column and the
// arguments its placeholders take.
func (b *filterBuilder) jsonValue(key string) (string, []any, error) {
	if b.schema.MetadataJSONColumn == "" {
		return "", nil, configErr(key, "filter on a metadata key needs a metadata JSON column")
	}
	return fmt.Sprintf("(%s -> ?::text)::jsonb", pq.QuoteIdentifier(b.schema.MetadataJSONColumn)), []any{key}, nil
}

func jsonArg(v any) (string, error) {
	blob, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("%w: encode %v: %w", vectordb.ErrInvalidFilter, v, err)
	}
	return string(blob), nil
}
