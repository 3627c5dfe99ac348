package vectorstore

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"

	"github.com/yugabyte/yb-vectorstore/v1/vectordb"
)

// encodeRow maps one input record onto the table's columns. Declared
// metadata columns take their value from the matching metadata key (NULL
// when absent); every other key goes to the JSON column, or is dropped when
// the store has none.
func encodeRow(s Schema, id, content string, embedding []float32, metadata map[string]any) (map[string]any, error) {
	row := make(map[string]any, 3+len(s.MetadataColumns)+1)
	row[s.IDColumn.Name] = id
	row[s.ContentColumn.Name] = content
	row[s.EmbeddingColumn.Name] = pgvector.NewVector(embedding)

	for _, c := range s.MetadataColumns {
		value, err := columnValue(metadata[c.Name])
		if err != nil {
			return nil, fmt.Errorf("vectorstore: encode metadata column %q: %w", c.Name, err)
		}
		row[c.Name] = value
	}

	if s.MetadataJSONColumn != "" {
		extra := make(map[string]any, len(metadata))
		for k, v := range metadata {
			if !s.hasMetadataColumn(k) {
				extra[k] = v
			}
		}
		blob, err := json.Marshal(extra)
		if err != nil {
			return nil, fmt.Errorf("vectorstore: encode metadata for %q: %w", id, err)
		}
		row[s.MetadataJSONColumn] = string(blob)
	}
	return row, nil
}

// columnValue passes scalars through and JSON-encodes nested values, which
// no driver binds natively.
func columnValue(v any) (any, error) {
	switch v.(type) {
	case map[string]any, []any, []string:
		blob, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		return string(blob), nil
	default:
		return v, nil
	}
}

// decodeRow turns a row read with Schema.ColumnNames back into a Document and
// its embedding. Metadata is the JSON column's object overlaid with the
// declared metadata columns.
func decodeRow(s Schema, row map[string]any) (vectordb.Document, []float32, error) {
	doc := vectordb.Document{
		ID:       idString(row[s.IDColumn.Name]),
		Content:  textValue(row[s.ContentColumn.Name]),
		Metadata: map[string]any{},
	}

	embedding, err := vectorValue(row[s.EmbeddingColumn.Name])
	if err != nil {
		return vectordb.Document{}, nil, fmt.Errorf("vectorstore: decode embedding of %q: %w", doc.ID, err)
	}

	if s.MetadataJSONColumn != "" {
		if err := decodeJSONMetadata(row[s.MetadataJSONColumn], doc.Metadata); err != nil {
			return vectordb.Document{}, nil, fmt.Errorf("vectorstore: decode metadata of %q: %w", doc.ID, err)
		}
	}
	for _, c := range s.MetadataColumns {
		v := row[c.Name]
		if b, ok := v.([]byte); ok {
			v = string(b)
		}
		doc.Metadata[c.Name] = v
	}
	return doc, embedding, nil
}

func decodeJSONMetadata(v any, into map[string]any) error {
	var blob []byte
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		blob = []byte(val)
	case []byte:
		blob = val
	case map[string]any:
		for k, x := range val {
			into[k] = x
		}
		return nil
	default:
		return fmt.Errorf("unexpected JSON value %T", v)
	}
	if len(blob) == 0 || string(blob) == "null" {
		return nil
	}
	return json.Unmarshal(blob, &into)
}

// idString renders an id as text whatever the driver returned: uuid bytes,
// text, or a number when SQLite applied numeric affinity.
func idString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case [16]byte:
		return uuid.UUID(val).String()
	case []byte:
		if len(val) == 16 {
			if id, err := uuid.FromBytes(val); err == nil {
				return id.String()
			}
		}
		return string(val)
	case int64:
		return strconv.FormatInt(val, 10)
	default:
		return fmt.Sprint(val)
	}
}

func textValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	default:
		return fmt.Sprint(val)
	}
}

// vectorValue accepts what the drivers return for a vector column: the
// pgvector text form as string or []byte, or an already decoded slice.
func vectorValue(v any) ([]float32, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case pgvector.Vector:
		return val.Slice(), nil
	case []float32:
		return val, nil
	case []float64:
		out := make([]float32, len(val))
		for i, f := range val {
			out[i] = float32(f)
		}
		return out, nil
	case string:
		return parseVector(val)
	case []byte:
		return parseVector(string(val))
	default:
		return nil, fmt.Errorf("unexpected vector value %T", v)
	}
}

func parseVector(text string) ([]float32, error) {
	if len(text) < 2 || text[0] != '[' || text[len(text)-1] != ']' {
		return nil, fmt.Errorf("malformed vector literal %q", text)
	}
	if text == "[]" {
		return []float32{}, nil
	}
	var out pgvector.Vector
	if err := out.Scan(text); err != nil {
		return nil, err
	}
	return out.Slice(), nil
}
