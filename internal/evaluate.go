package internal

import (
	"context"
	"fmt"

	"github.com/spogiri123/iceberg"
)

// Truth is a Kleene three-valued result. Unknown absorbs uncertainty
// conservatively: at the root it projects to a read.
type Truth int8

const (
	TruthFalse Truth = iota
	TruthUnknown
	TruthTrue
)

func (t Truth) String() string {
	switch t {
	case TruthFalse:
		return "false"
	case TruthUnknown:
		return "unknown"
	default:
		return "true"
	}
}

// EvalConfig carries the evaluation knobs resolved from the filter config.
type EvalConfig struct {
	// NotEqualReadsNulls preserves the conservative read for not_eq over
	// optional columns whose dictionary is exactly {v}, unless the chunk's
	// null count is known to be zero.
	NotEqualReadsNulls bool
}

// Evaluator walks a bound predicate tree against one row group's
// dictionaries.
type Evaluator struct {
	mat *Materializer
	cfg EvalConfig
}

// NewEvaluator builds an evaluator over a per-call materializer.
func NewEvaluator(mat *Materializer, cfg EvalConfig) *Evaluator {
	return &Evaluator{mat: mat, cfg: cfg}
}

// ShouldRead projects the root truth value to a boolean: only a definite
// false skips the group.
func (e *Evaluator) ShouldRead(ctx context.Context, expr BoundExpression) (bool, error) {
	t, err := e.Eval(ctx, expr)
	if err != nil {
		return false, err
	}
	return t != TruthFalse, nil
}

// Eval computes the three-valued result of a bound expression.
func (e *Evaluator) Eval(ctx context.Context, expr BoundExpression) (Truth, error) {
	switch node := expr.(type) {
	case *BoundPredicate:
		return e.evalLeaf(ctx, node)
	case *BoundComposite:
		return e.evalComposite(ctx, node)
	default:
		return TruthUnknown, iceberg.NewFilterError(iceberg.ErrorTypeInternal, iceberg.ErrCodeInternalError,
			fmt.Sprintf("unknown bound node %T", expr))
	}
}

func (e *Evaluator) evalComposite(ctx context.Context, c *BoundComposite) (Truth, error) {
	switch c.Logic {
	case iceberg.LogicAnd:
		result := TruthTrue
		for _, child := range c.Children {
			t, err := e.Eval(ctx, child)
			if err != nil {
				return TruthUnknown, err
			}
			if t == TruthFalse {
				return TruthFalse, nil
			}
			if t == TruthUnknown {
				result = TruthUnknown
			}
		}
		return result, nil
	case iceberg.LogicOr:
		result := TruthFalse
		for _, child := range c.Children {
			t, err := e.Eval(ctx, child)
			if err != nil {
				return TruthUnknown, err
			}
			if t == TruthTrue {
				return TruthTrue, nil
			}
			if t == TruthUnknown {
				result = TruthUnknown
			}
		}
		return result, nil
	default:
		return TruthUnknown, iceberg.NewInvalidExpressionError(fmt.Sprintf("unknown logic '%s'", c.Logic))
	}
}

func (e *Evaluator) evalLeaf(ctx context.Context, p *BoundPredicate) (Truth, error) {
	status, err := e.mat.Status(ctx, p.Ref)
	if err != nil {
		return TruthUnknown, err
	}

	// Without a complete dictionary the group could contain anything.
	if status.Kind == ColumnAbsent || status.Kind == ColumnNotDict {
		return TruthUnknown, nil
	}

	// A required field never holds nulls; a recorded null count of zero
	// rules them out just as firmly.
	noNulls := p.Ref.Field.Required || status.KnownNoNulls
	values := status.Values

	switch p.Op {
	case iceberg.OpIsNull:
		// The dictionary never records nulls.
		if noNulls {
			return TruthFalse, nil
		}
		return TruthUnknown, nil

	case iceberg.OpNotNull:
		if noNulls {
			return TruthTrue, nil
		}
		return TruthUnknown, nil

	case iceberg.OpEq:
		for _, s := range values {
			if equals(p.Compare, s, p.Literal) {
				return TruthTrue, nil
			}
		}
		return TruthFalse, nil

	case iceberg.OpNotEq:
		for _, s := range values {
			if !equals(p.Compare, s, p.Literal) {
				return TruthTrue, nil
			}
		}
		// Every non-null value equals the literal. Under SQL three-valued
		// semantics a null row never satisfies c != v, so the group is
		// skippable even when nulls may be present.
		if e.cfg.NotEqualReadsNulls && !noNulls {
			return TruthTrue, nil
		}
		return TruthFalse, nil

	case iceberg.OpLt:
		return existsOrdered(p, values, func(c int) bool { return c < 0 }), nil
	case iceberg.OpLtEq:
		return existsOrdered(p, values, func(c int) bool { return c <= 0 }), nil
	case iceberg.OpGt:
		return existsOrdered(p, values, func(c int) bool { return c > 0 }), nil
	case iceberg.OpGtEq:
		return existsOrdered(p, values, func(c int) bool { return c >= 0 }), nil

	default:
		return TruthUnknown, iceberg.NewInvalidExpressionError(fmt.Sprintf("unknown operation '%s'", p.Op))
	}
}

func equals(cmp Comparator, a, b any) bool {
	c, ok := cmp(a, b)
	return ok && c == 0
}

func existsOrdered(p *BoundPredicate, values []any, match func(int) bool) Truth {
	for _, s := range values {
		if c, ok := p.Compare(s, p.Literal); ok && match(c) {
			return TruthTrue
		}
	}
	return TruthFalse
}
