package internal

import (
	"context"

	"go.uber.org/zap"

	"github.com/spogiri123/iceberg"
)

type dictionaryRowGroupFilter struct {
	schema *iceberg.Schema
	expr   iceberg.Expression
	cfg    *iceberg.Config
}

// NewDictionaryRowGroupFilter validates the predicate eagerly and captures
// the logical schema. The returned filter retains no mutable state between
// calls and may be reused across row groups and files.
func NewDictionaryRowGroupFilter(cfg *iceberg.Config, schema *iceberg.Schema, expr iceberg.Expression) (iceberg.RowGroupFilter, error) {
	if schema == nil {
		return nil, iceberg.NewInvalidSchemaError("logical schema is required")
	}
	if cfg == nil {
		cfg = iceberg.DefaultConfig()
	}
	if err := iceberg.ValidateExpression(expr); err != nil {
		return nil, err
	}
	if err := checkDepth(expr, cfg.Filter.MaxDepth); err != nil {
		return nil, err
	}
	return &dictionaryRowGroupFilter{schema: schema, expr: expr, cfg: cfg}, nil
}

func (f *dictionaryRowGroupFilter) ShouldRead(ctx context.Context, phys iceberg.PhysicalSchema, rg iceberg.RowGroupMetadata, store iceberg.DictionaryStore) (bool, error) {
	decision, err := f.Decide(ctx, phys, rg, store)
	if err != nil {
		return false, err
	}
	return decision.ShouldRead, nil
}

func (f *dictionaryRowGroupFilter) Decide(ctx context.Context, phys iceberg.PhysicalSchema, rg iceberg.RowGroupMetadata, store iceberg.DictionaryStore) (iceberg.Decision, error) {
	if phys == nil {
		return iceberg.Decision{}, iceberg.NewInvalidSchemaError("physical schema is required")
	}
	if rg == nil {
		return iceberg.Decision{}, iceberg.NewFilterError(iceberg.ErrorTypeValidation, iceberg.ErrCodeInternalError, "row group metadata is required")
	}
	if store == nil {
		return iceberg.Decision{}, iceberg.NewStoreUnavailableError("dictionary store is required", nil)
	}

	// Rebinding per call is required: the physical schema differs per file.
	bound, err := Bind(f.expr, f.schema, phys)
	if err != nil {
		return iceberg.Decision{}, err
	}

	mat := NewMaterializer(rg, store, f.cfg.Dictionary.MaxEntries)
	eval := NewEvaluator(mat, EvalConfig{NotEqualReadsNulls: f.cfg.Filter.NotEqualReadsNulls})

	truth, err := eval.Eval(ctx, bound)
	if err != nil {
		return iceberg.Decision{}, err
	}

	decision := iceberg.Decision{
		ShouldRead:       truth != TruthFalse,
		ColumnsConsulted: mat.ColumnsConsulted(),
		DictionariesRead: mat.DictionariesRead(),
	}
	zap.S().Debugw("row group decision",
		"result", truth.String(),
		"should_read", decision.ShouldRead,
		"columns_consulted", decision.ColumnsConsulted,
		"dictionaries_read", decision.DictionariesRead,
		"rows", rg.NumRows())
	return decision, nil
}

func checkDepth(expr iceberg.Expression, max int) error {
	if max <= 0 {
		return nil
	}
	return checkDepthAt(expr, max, 1)
}

func checkDepthAt(expr iceberg.Expression, max, depth int) error {
	if depth > max {
		return iceberg.NewInvalidExpressionError("predicate tree exceeds maximum depth")
	}
	switch e := expr.(type) {
	case *iceberg.Composite:
		for _, child := range e.Children {
			if err := checkDepthAt(child, max, depth+1); err != nil {
				return err
			}
		}
	case *iceberg.Negation:
		return checkDepthAt(e.Child, max, depth+1)
	}
	return nil
}
