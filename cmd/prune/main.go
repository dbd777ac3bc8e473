package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"go.uber.org/zap"

	"github.com/spogiri123/iceberg"
	"github.com/spogiri123/iceberg/factory"
	"github.com/spogiri123/iceberg/internal/memfile"
)

// manifest describes a pruning run: a logical schema document, a predicate
// and the row groups to test, each with its dictionary state inlined.
type manifest struct {
	Schema    json.RawMessage `json:"schema"`
	Predicate json.RawMessage `json:"predicate"`
	RowGroups []rowGroupSpec  `json:"row_groups"`
}

type rowGroupSpec struct {
	Name    string       `json:"name"`
	NumRows int64        `json:"num_rows"`
	Columns []columnSpec `json:"columns"`
}

type columnSpec struct {
	Path              []string             `json:"path"`
	PhysicalType      iceberg.PhysicalType `json:"physical_type"`
	TypeLength        int                  `json:"type_length,omitempty"`
	DictionaryEncoded bool                 `json:"dictionary_encoded"`
	HasDictionaryPage bool                 `json:"has_dictionary_page"`
	Dictionary        []any                `json:"dictionary,omitempty"`
	NullCount         *int64               `json:"null_count,omitempty"`
}

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)
	sugar := logger.Sugar()

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: prune <manifest.json> | prune --demo")
		os.Exit(2)
	}

	var data []byte
	if os.Args[1] == "--demo" {
		data = []byte(demoManifest)
	} else {
		data, err = os.ReadFile(os.Args[1])
		if err != nil {
			sugar.Fatalw("read manifest", "path", os.Args[1], "err", err)
		}
	}

	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		sugar.Fatalw("parse manifest", "err", err)
	}

	schema, err := iceberg.SchemaFromJSON(m.Schema)
	if err != nil {
		sugar.Fatalw("parse logical schema", "err", err)
	}
	expr, err := iceberg.UnmarshalExpression(m.Predicate)
	if err != nil {
		sugar.Fatalw("parse predicate", "err", err)
	}

	config := configFromEnv()
	filter, err := factory.NewDictionaryRowGroupFilter(config, schema, expr)
	if err != nil {
		sugar.Fatalw("create filter", "err", err)
	}

	ctx := context.Background()
	kept, skipped := 0, 0
	for _, spec := range m.RowGroups {
		file, err := fileFromSpec(spec)
		if err != nil {
			sugar.Fatalw("build row group", "row_group", spec.Name, "err", err)
		}
		decision, err := filter.Decide(ctx, file, file, file)
		if err != nil {
			sugar.Fatalw("evaluate row group", "row_group", spec.Name, "err", err)
		}
		verdict := "read"
		if decision.ShouldRead {
			kept++
		} else {
			verdict = "skip"
			skipped++
		}
		fmt.Printf("%s\t%s\trows=%d dictionaries=%d\n", spec.Name, verdict, spec.NumRows, decision.DictionariesRead)
	}
	sugar.Infow("pruning complete", "row_groups", len(m.RowGroups), "kept", kept, "skipped", skipped)
}

func fileFromSpec(spec rowGroupSpec) (*memfile.File, error) {
	columns := make([]memfile.Column, 0, len(spec.Columns))
	for _, cs := range spec.Columns {
		entries := make([]any, 0, len(cs.Dictionary))
		for i, v := range cs.Dictionary {
			raw, err := rawPhysicalValue(v, cs.PhysicalType)
			if err != nil {
				return nil, fmt.Errorf("column '%s' entry %d: %w", iceberg.ColumnPath(cs.Path), i, err)
			}
			entries = append(entries, raw)
		}
		col := memfile.Column{
			Descriptor: iceberg.ColumnDescriptor{
				Path:         iceberg.ColumnPath(cs.Path),
				PhysicalType: cs.PhysicalType,
				TypeLength:   cs.TypeLength,
			},
			DictionaryEncoded: cs.DictionaryEncoded,
			HasDictionaryPage: cs.HasDictionaryPage,
			Dictionary:        entries,
		}
		if cs.NullCount != nil {
			col.NullCount = *cs.NullCount
			col.NullCountKnown = true
		}
		columns = append(columns, col)
	}
	return memfile.NewFile(spec.NumRows, columns...), nil
}

// rawPhysicalValue converts a JSON-decoded manifest value to the raw
// physical representation the dictionary store would produce.
func rawPhysicalValue(v any, phys iceberg.PhysicalType) (any, error) {
	switch phys {
	case iceberg.PhysBoolean:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	case iceberg.PhysInt32:
		if f, ok := v.(float64); ok {
			return int32(f), nil
		}
	case iceberg.PhysInt64:
		if f, ok := v.(float64); ok {
			return int64(f), nil
		}
	case iceberg.PhysFloat:
		if f, ok := v.(float64); ok {
			return float32(f), nil
		}
	case iceberg.PhysDouble:
		if f, ok := v.(float64); ok {
			return f, nil
		}
	case iceberg.PhysByteArray, iceberg.PhysFixedLenByteArray:
		if s, ok := v.(string); ok {
			return []byte(s), nil
		}
	}
	return nil, fmt.Errorf("value %v (%T) does not fit physical type %s", v, v, phys)
}

func configFromEnv() *iceberg.Config {
	config := iceberg.DefaultConfig()
	config.Filter.NotEqualReadsNulls = getEnvBool("PRUNE_NOT_EQUAL_READS_NULLS", config.Filter.NotEqualReadsNulls)
	config.Dictionary.MaxEntries = getEnvInt("PRUNE_DICT_MAX_ENTRIES", config.Dictionary.MaxEntries)
	config.Logging.Level = getEnv("PRUNE_LOG_LEVEL", config.Logging.Level)
	return config
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}

// demoManifest prunes two small row groups of an orders table with
// gt(amount, 100) and keeps only the second.
const demoManifest = `{
  "schema": {
    "type": "object",
    "properties": {
      "order_id": {"type": "integer", "x-field-id": 1},
      "amount": {"type": "integer", "x-field-id": 2}
    },
    "required": ["order_id", "amount"]
  },
  "predicate": {"op": "gt", "t": "amount", "v": 100},
  "row_groups": [
    {
      "name": "rg-0",
      "num_rows": 4,
      "columns": [
        {"path": ["order_id"], "physical_type": "INT64", "dictionary_encoded": true, "has_dictionary_page": true, "dictionary": [1, 2, 3, 4]},
        {"path": ["amount"], "physical_type": "INT64", "dictionary_encoded": true, "has_dictionary_page": true, "dictionary": [10, 25, 40, 99]}
      ]
    },
    {
      "name": "rg-1",
      "num_rows": 4,
      "columns": [
        {"path": ["order_id"], "physical_type": "INT64", "dictionary_encoded": true, "has_dictionary_page": true, "dictionary": [5, 6, 7, 8]},
        {"path": ["amount"], "physical_type": "INT64", "dictionary_encoded": true, "has_dictionary_page": true, "dictionary": [90, 120, 300, 10000]}
      ]
    }
  ]
}`
