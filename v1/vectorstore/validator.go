package vectorstore

import (
	"github.com/yugabyte/yb-vectorstore/v1/ybengine"
)

// reservedIDColumn is never treated as metadata, even when the table uses a
// different id column.
const reservedIDColumn = DefaultIDColumn

// validate checks opts against the live catalog of table and returns the
// resulting Schema. It never touches rows.
func validate(table string, catalog []ybengine.ColumnInfo, opts Options) (Schema, error) {
	if err := opts.check(); err != nil {
		return Schema{}, err
	}
	if len(catalog) == 0 {
		return Schema{}, configErr("", "table "+ybengine.QualifiedName(opts.SchemaName, table)+" does not exist")
	}

	types := make(map[string]string, len(catalog))
	for _, c := range catalog {
		types[c.Name] = c.DataType
	}

	schema := Schema{SchemaName: opts.SchemaName, TableName: table}

	idType, ok := types[opts.IDColumn]
	if !ok {
		return Schema{}, configErr(opts.IDColumn, "id column does not exist")
	}
	schema.IDColumn = Column{Name: opts.IDColumn, DataType: idType}

	contentType, ok := types[opts.ContentColumn]
	if !ok {
		return Schema{}, configErr(opts.ContentColumn, "content column does not exist")
	}
	if class, _ := ClassifyType(contentType); class != TypeText {
		return Schema{}, typeErr(opts.ContentColumn, contentType, TypeText.String())
	}
	schema.ContentColumn = Column{Name: opts.ContentColumn, DataType: contentType}

	embeddingType, ok := types[opts.EmbeddingColumn]
	if !ok {
		return Schema{}, configErr(opts.EmbeddingColumn, "embedding column does not exist")
	}
	class, dim := ClassifyType(embeddingType)
	if class != TypeVector {
		return Schema{}, typeErr(opts.EmbeddingColumn, embeddingType, TypeVector.String())
	}
	schema.EmbeddingColumn = Column{Name: opts.EmbeddingColumn, DataType: embeddingType}
	schema.Dimension = dim

	if opts.MetadataJSONColumn != "" {
		jsonType, ok := types[opts.MetadataJSONColumn]
		switch {
		case !ok && opts.jsonColumnExplicit:
			return Schema{}, configErr(opts.MetadataJSONColumn, "metadata JSON column does not exist")
		case !ok:
			// default JSON column absent: the store keeps no JSON metadata
		default:
			if class, _ := ClassifyType(jsonType); class != TypeJSON {
				return Schema{}, typeErr(opts.MetadataJSONColumn, jsonType, TypeJSON.String())
			}
			schema.MetadataJSONColumn = opts.MetadataJSONColumn
		}
	}

	roles := map[string]bool{
		schema.IDColumn.Name:        true,
		schema.ContentColumn.Name:   true,
		schema.EmbeddingColumn.Name: true,
	}
	if schema.MetadataJSONColumn != "" {
		roles[schema.MetadataJSONColumn] = true
	}
	distinct := 3
	if schema.MetadataJSONColumn != "" {
		distinct++
	}
	if len(roles) != distinct {
		return Schema{}, configErr("", "id, content, embedding and metadata JSON columns must be distinct")
	}

	metadata, err := metadataColumns(catalog, types, roles, opts)
	if err != nil {
		return Schema{}, err
	}
	schema.MetadataColumns = metadata
	return schema, nil
}

// metadataColumns resolves the allow-list or the deny-list. Unknown
// allow-list entries are errors; unknown deny-list entries are ignored. With
// neither list the store has no metadata columns.
func metadataColumns(catalog []ybengine.ColumnInfo, types map[string]string, roles map[string]bool, opts Options) ([]Column, error) {
	if opts.MetadataColumns != nil {
		seen := make(map[string]bool, len(opts.MetadataColumns))
		columns := make([]Column, 0, len(opts.MetadataColumns))
		for _, name := range opts.MetadataColumns {
			dataType, ok := types[name]
			switch {
			case !ok:
				return nil, configErr(name, "metadata column does not exist")
			case roles[name]:
				return nil, configErr(name, "metadata column is already used for another role")
			case seen[name]:
				return nil, configErr(name, "metadata column listed twice")
			}
			seen[name] = true
			columns = append(columns, Column{Name: name, DataType: dataType})
		}
		return columns, nil
	}

	if opts.IgnoreMetadataColumns == nil {
		return nil, nil
	}

	ignored := make(map[string]bool, len(opts.IgnoreMetadataColumns)+1)
	for _, name := range opts.IgnoreMetadataColumns {
		ignored[name] = true
	}
	ignored[reservedIDColumn] = true

	var columns []Column
	for _, c := range catalog {
		if roles[c.Name] || ignored[c.Name] {
			continue
		}
		columns = append(columns, Column{Name: c.Name, DataType: c.DataType})
	}
	return columns, nil
}
