package iceberg

import (
	"time"
)

// Config consolidates filter, dictionary, store and logging settings.
type Config struct {
	Filter     FilterConfig     `json:"filter"`
	Dictionary DictionaryConfig `json:"dictionary"`
	Store      StoreConfig      `json:"store"`
	Logging    LoggingConfig    `json:"logging"`
}

// FilterConfig contains predicate evaluation settings.
type FilterConfig struct {
	// NotEqualReadsNulls keeps a row group for not_eq predicates over
	// optional columns whose dictionary holds only the compared value,
	// unless the chunk's null count is known to be zero. Default false: SQL three-valued semantics, a null row never
	// satisfies c != v, so such groups are skipped.
	NotEqualReadsNulls bool `json:"notEqualReadsNulls"`
	// MaxDepth bounds the predicate tree depth accepted at construction.
	MaxDepth int `json:"maxDepth"`
}

// DictionaryConfig contains dictionary materialization settings.
type DictionaryConfig struct {
	// MaxEntries is the largest dictionary the filter will materialize.
	// Larger dictionaries degrade to a conservative read, never an error.
	MaxEntries int `json:"maxEntries"`
}

// StoreConfig contains object-store settings for the S3 dictionary store.
type StoreConfig struct {
	Bucket         string        `json:"bucket"`
	Prefix         string        `json:"prefix"`
	Region         string        `json:"region"`
	Endpoint       string        `json:"endpoint"`
	UsePathStyle   bool          `json:"usePathStyle"`
	AccessKey      string        `json:"accessKey"`
	SecretKey      string        `json:"secretKey"`
	RequestTimeout time.Duration `json:"requestTimeout"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level       string `json:"level"`
	Development bool   `json:"development"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Filter: FilterConfig{
			NotEqualReadsNulls: false,
			MaxDepth:           64,
		},
		Dictionary: DictionaryConfig{
			MaxEntries: 32768,
		},
		Store: StoreConfig{
			Region:         "us-east-1",
			RequestTimeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:       "info",
			Development: false,
		},
	}
}
