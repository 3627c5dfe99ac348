package vectorstore

import (
	"github.com/kelseyhightower/envconfig"
)

// Config describes the table a store is bound to, for applications wiring
// stores through FXModule.
type Config struct {
	TableName  string `yaml:"table_name" envconfig:"VECTORSTORE_TABLE_NAME" required:"true"`
	SchemaName string `yaml:"schema_name" envconfig:"VECTORSTORE_SCHEMA_NAME"`

	IDColumn        string `yaml:"id_column" envconfig:"VECTORSTORE_ID_COLUMN" default:"langchain_id"`
	ContentColumn   string `yaml:"content_column" envconfig:"VECTORSTORE_CONTENT_COLUMN" default:"content"`
	EmbeddingColumn string `yaml:"embedding_column" envconfig:"VECTORSTORE_EMBEDDING_COLUMN" default:"embedding"`

	// MetadataColumns and IgnoreMetadataColumns are comma separated.
	MetadataColumns       []string `yaml:"metadata_columns" envconfig:"VECTORSTORE_METADATA_COLUMNS"`
	IgnoreMetadataColumns []string `yaml:"ignore_metadata_columns" envconfig:"VECTORSTORE_IGNORE_METADATA_COLUMNS"`

	// MetadataJSONColumn, when set, must exist. When empty the default
	// column is used if the table has it.
	MetadataJSONColumn string `yaml:"metadata_json_column" envconfig:"VECTORSTORE_METADATA_JSON_COLUMN"`

	DistanceStrategy string `yaml:"distance_strategy" envconfig:"VECTORSTORE_DISTANCE_STRATEGY" default:"cosine"`

	// InitTable creates the table with the default layout at startup when it
	// does not exist yet. VectorSize is then required.
	InitTable  bool `yaml:"init_table" envconfig:"VECTORSTORE_INIT_TABLE"`
	VectorSize int  `yaml:"vector_size" envconfig:"VECTORSTORE_VECTOR_SIZE"`
}

// NewConfigFromEnv reads the VECTORSTORE_* environment variables.
func NewConfigFromEnv() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Options translates the config into Create options. Empty fields keep the
// defaults.
func (c Config) Options() []Option {
	var opts []Option
	if c.SchemaName != "" {
		opts = append(opts, WithSchemaName(c.SchemaName))
	}
	if c.IDColumn != "" {
		opts = append(opts, WithIDColumn(c.IDColumn))
	}
	if c.ContentColumn != "" {
		opts = append(opts, WithContentColumn(c.ContentColumn))
	}
	if c.EmbeddingColumn != "" {
		opts = append(opts, WithEmbeddingColumn(c.EmbeddingColumn))
	}
	if c.DistanceStrategy != "" {
		opts = append(opts, WithDistanceStrategy(DistanceStrategy(c.DistanceStrategy)))
	}
	if len(c.MetadataColumns) > 0 {
		opts = append(opts, WithMetadataColumns(c.MetadataColumns...))
	}
	if len(c.IgnoreMetadataColumns) > 0 {
		opts = append(opts, WithIgnoreMetadataColumns(c.IgnoreMetadataColumns...))
	}
	if c.MetadataJSONColumn != "" {
		opts = append(opts, WithMetadataJSONColumn(c.MetadataJSONColumn))
	}
	return opts
}
