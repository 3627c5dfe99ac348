package vectorstore

import (
	"strconv"
	"strings"

	"github.com/yugabyte/yb-vectorstore/v1/ybengine"
)

// TypeClass groups declared column types by how the store uses them.
type TypeClass int

const (
	TypeOther TypeClass = iota
	TypeText
	TypeVector
	TypeJSON
)

func (c TypeClass) String() string {
	switch c {
	case TypeText:
		return "text"
	case TypeVector:
		return "vector"
	case TypeJSON:
		return "json"
	default:
		return "other"
	}
}

var textTypes = map[string]bool{
	"text":              true,
	"varchar":           true,
	"character varying": true,
	"char":              true,
	"character":         true,
	"bpchar":            true,
	"name":              true,
	"citext":            true,
}

// ClassifyType maps a declared type such as "character varying(64)" or
// "vector(768)" to its class. For vectors the declared dimension is returned
// as well; it is 0 when the type carries none.
//
// Array types such as "text[]" or "vector(3)[]" are always TypeOther.
func ClassifyType(declared string) (TypeClass, int) {
	declared = strings.ToLower(strings.TrimSpace(declared))
	if strings.HasSuffix(declared, "]") || strings.HasPrefix(declared, "_") {
		return TypeOther, 0
	}
	base, arg := splitTypeModifier(declared)
	switch {
	case textTypes[base]:
		return TypeText, 0
	case base == "vector":
		dim, _ := strconv.Atoi(arg)
		return TypeVector, dim
	case base == "json" || base == "jsonb":
		return TypeJSON, 0
	default:
		return TypeOther, 0
	}
}

// splitTypeModifier splits "vector(768)" into "vector" and "768".
func splitTypeModifier(t string) (string, string) {
	open := strings.IndexByte(t, '(')
	if open < 0 {
		return t, ""
	}
	arg := t[open+1:]
	if end := strings.IndexByte(arg, ')'); end >= 0 {
		arg = arg[:end]
	}
	return strings.TrimSpace(t[:open]), strings.TrimSpace(arg)
}

// Column is a validated column and its declared type.
type Column struct {
	Name     string
	DataType string
}

// Schema is the validated layout of a vector store table: which column plays
// which role. It is produced by validation and never changes afterwards.
type Schema struct {
	SchemaName string
	TableName  string

	IDColumn        Column
	ContentColumn   Column
	EmbeddingColumn Column

	// Dimension is the declared vector size, 0 when the catalog has none.
	Dimension int

	// MetadataColumns are the declared columns mapped to metadata keys, in
	// table order for deny-list stores and in request order otherwise.
	MetadataColumns []Column

	// MetadataJSONColumn is empty when the store keeps no JSON metadata.
	MetadataJSONColumn string
}

// QualifiedTable returns the quoted, schema-qualified table name.
func (s Schema) QualifiedTable() string {
	return ybengine.QualifiedName(s.SchemaName, s.TableName)
}

// ColumnNames lists every column the store reads and writes, id first.
func (s Schema) ColumnNames() []string {
	names := []string{s.IDColumn.Name, s.ContentColumn.Name, s.EmbeddingColumn.Name}
	for _, c := range s.MetadataColumns {
		names = append(names, c.Name)
	}
	if s.MetadataJSONColumn != "" {
		names = append(names, s.MetadataJSONColumn)
	}
	return names
}

// MetadataColumnNames lists the declared metadata columns.
func (s Schema) MetadataColumnNames() []string {
	names := make([]string, len(s.MetadataColumns))
	for i, c := range s.MetadataColumns {
		names[i] = c.Name
	}
	return names
}

func (s Schema) hasMetadataColumn(name string) bool {
	for _, c := range s.MetadataColumns {
		if c.Name == name {
			return true
		}
	}
	return false
}
