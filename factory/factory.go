package factory

import (
	"context"

	"go.uber.org/zap"

	"github.com/spogiri123/iceberg"
	"github.com/spogiri123/iceberg/internal"
	"github.com/spogiri123/iceberg/internal/s3store"
)

// NewDictionaryRowGroupFilter creates a row-group filter with the provided
// configuration. This is the primary way for external projects to create a
// filter instance.
//
// Usage:
//
// import (
//
//	"github.com/spogiri123/iceberg"
//	"github.com/spogiri123/iceberg/factory"
//
// )
//
// config := iceberg.DefaultConfig()
// expr, err := iceberg.Gt("id", 100)
//
//	if err != nil {
//	   // handle error
//	}
//
// filter, err := factory.NewDictionaryRowGroupFilter(config, schema, expr)
func NewDictionaryRowGroupFilter(config *iceberg.Config, schema *iceberg.Schema, expr iceberg.Expression) (iceberg.RowGroupFilter, error) {
	if config == nil {
		config = iceberg.DefaultConfig()
	}
	filter, err := internal.NewDictionaryRowGroupFilter(config, schema, expr)
	if err != nil {
		return nil, err
	}
	zap.S().Debugw("created dictionary row-group filter",
		"fields", schema.Len(),
		"not_equal_reads_nulls", config.Filter.NotEqualReadsNulls,
		"max_dictionary_entries", config.Dictionary.MaxEntries)
	return filter, nil
}

// NewS3DictionaryStore creates a dictionary store over an S3-compatible
// bucket using the store section of the configuration.
func NewS3DictionaryStore(ctx context.Context, config *iceberg.Config) (iceberg.DictionaryStore, error) {
	if config == nil {
		return nil, iceberg.NewStoreUnavailableError("config is required for the S3 store", nil)
	}
	store, err := s3store.New(ctx, config.Store)
	if err != nil {
		return nil, err
	}
	zap.S().Infow("created S3 dictionary store",
		"bucket", config.Store.Bucket,
		"prefix", config.Store.Prefix,
		"endpoint", config.Store.Endpoint)
	return store, nil
}

// NewLogger builds a zap logger from the logging configuration.
func NewLogger(config iceberg.LoggingConfig) (*zap.Logger, error) {
	var zapCfg zap.Config
	if config.Development {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	if config.Level != "" {
		level, err := zap.ParseAtomicLevel(config.Level)
		if err != nil {
			return nil, err
		}
		zapCfg.Level = level
	}
	return zapCfg.Build()
}
