package internal

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spogiri123/iceberg"
	"github.com/spogiri123/iceberg/internal/memfile"
)

// evalFixture provides one leaf of each truth value over a small group:
//   present   dict {10, 20, 30}, required
//   opt       dict {"v"}, optional, null count unknown
//   raw       not dictionary-encoded
func evalFixture() *memfile.File {
	return memfile.NewFile(3,
		memfile.Column{
			Descriptor:        memfile.Col("present", iceberg.PhysInt64),
			DictionaryEncoded: true,
			HasDictionaryPage: true,
			Dictionary:        []any{int64(10), int64(20), int64(30)},
		},
		memfile.Column{
			Descriptor:        memfile.Col("opt", iceberg.PhysByteArray),
			DictionaryEncoded: true,
			HasDictionaryPage: true,
			Dictionary:        []any{[]byte("v")},
		},
		memfile.Column{
			Descriptor:        memfile.Col("raw", iceberg.PhysInt64),
			DictionaryEncoded: false,
		},
	)
}

func evalLeaf(t *testing.T, file *memfile.File, op iceberg.Operation, ref BoundReference, literal any, cfg EvalConfig) Truth {
	t.Helper()
	cmp, err := ComparatorFor(ref.Field.Type)
	require.NoError(t, err)
	ev := NewEvaluator(NewMaterializer(file, file, 0), cfg)
	truth, err := ev.Eval(context.Background(), &BoundPredicate{Op: op, Ref: ref, Literal: literal, Compare: cmp})
	require.NoError(t, err)
	return truth
}

func presentRef() BoundReference {
	return BoundReference{
		Field:  iceberg.LogicalField{ID: 1, Name: "present", Required: true, Type: iceberg.Primitive(iceberg.TypeInt64)},
		Column: memfile.Col("present", iceberg.PhysInt64),
	}
}

func optRef() BoundReference {
	return BoundReference{
		Field:  iceberg.LogicalField{ID: 2, Name: "opt", Type: iceberg.Primitive(iceberg.TypeString)},
		Column: memfile.Col("opt", iceberg.PhysByteArray),
	}
}

func rawRef() BoundReference {
	return BoundReference{
		Field:  iceberg.LogicalField{ID: 3, Name: "raw", Type: iceberg.Primitive(iceberg.TypeInt64)},
		Column: memfile.Col("raw", iceberg.PhysInt64),
	}
}

func TestEvaluator_OrderedLeaves(t *testing.T) {
	tests := []struct {
		name    string
		op      iceberg.Operation
		literal int64
		want    Truth
	}{
		{name: "lt below all", op: iceberg.OpLt, literal: 10, want: TruthFalse},
		{name: "lt above some", op: iceberg.OpLt, literal: 11, want: TruthTrue},
		{name: "ltEq at min", op: iceberg.OpLtEq, literal: 10, want: TruthTrue},
		{name: "ltEq below all", op: iceberg.OpLtEq, literal: 9, want: TruthFalse},
		{name: "gt at max", op: iceberg.OpGt, literal: 30, want: TruthFalse},
		{name: "gt below max", op: iceberg.OpGt, literal: 29, want: TruthTrue},
		{name: "gtEq at max", op: iceberg.OpGtEq, literal: 30, want: TruthTrue},
		{name: "gtEq above all", op: iceberg.OpGtEq, literal: 31, want: TruthFalse},
		{name: "eq present", op: iceberg.OpEq, literal: 20, want: TruthTrue},
		{name: "eq missing", op: iceberg.OpEq, literal: 21, want: TruthFalse},
		{name: "notEq with other values", op: iceberg.OpNotEq, literal: 20, want: TruthTrue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := evalLeaf(t, evalFixture(), tt.op, presentRef(), tt.literal, EvalConfig{})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluator_NoDictionaryIsUnknown(t *testing.T) {
	ops := []iceberg.Operation{
		iceberg.OpEq, iceberg.OpNotEq, iceberg.OpLt, iceberg.OpLtEq,
		iceberg.OpGt, iceberg.OpGtEq,
	}
	for _, op := range ops {
		got := evalLeaf(t, evalFixture(), op, rawRef(), int64(1), EvalConfig{})
		assert.Equal(t, TruthUnknown, got, "operation %s", op)
	}

	got := evalLeaf(t, evalFixture(), iceberg.OpIsNull, rawRef(), nil, EvalConfig{})
	assert.Equal(t, TruthUnknown, got)
	got = evalLeaf(t, evalFixture(), iceberg.OpNotNull, rawRef(), nil, EvalConfig{})
	assert.Equal(t, TruthUnknown, got)
}

func TestEvaluator_NullTests(t *testing.T) {
	got := evalLeaf(t, evalFixture(), iceberg.OpIsNull, presentRef(), nil, EvalConfig{})
	assert.Equal(t, TruthFalse, got, "required columns hold no nulls")

	got = evalLeaf(t, evalFixture(), iceberg.OpNotNull, presentRef(), nil, EvalConfig{})
	assert.Equal(t, TruthTrue, got)

	got = evalLeaf(t, evalFixture(), iceberg.OpIsNull, optRef(), nil, EvalConfig{})
	assert.Equal(t, TruthUnknown, got, "the dictionary does not reveal nulls")

	got = evalLeaf(t, evalFixture(), iceberg.OpNotNull, optRef(), nil, EvalConfig{})
	assert.Equal(t, TruthUnknown, got)
}

func TestEvaluator_NotEqSingletonDictionary(t *testing.T) {
	got := evalLeaf(t, evalFixture(), iceberg.OpNotEq, optRef(), "v", EvalConfig{})
	assert.Equal(t, TruthFalse, got, "null rows never satisfy c != v")

	got = evalLeaf(t, evalFixture(), iceberg.OpNotEq, optRef(), "v", EvalConfig{NotEqualReadsNulls: true})
	assert.Equal(t, TruthTrue, got)

	got = evalLeaf(t, evalFixture(), iceberg.OpNotEq, optRef(), "w", EvalConfig{})
	assert.Equal(t, TruthTrue, got, "a dictionary value other than the literal matches")
}

func TestEvaluator_NaNNeverMatches(t *testing.T) {
	file := memfile.NewFile(2,
		memfile.Column{
			Descriptor:        memfile.Col("f", iceberg.PhysDouble),
			DictionaryEncoded: true,
			HasDictionaryPage: true,
			Dictionary:        []any{math.NaN()},
		},
	)
	ref := BoundReference{
		Field:  iceberg.LogicalField{ID: 1, Name: "f", Type: iceberg.Primitive(iceberg.TypeFloat64)},
		Column: memfile.Col("f", iceberg.PhysDouble),
	}

	for _, op := range []iceberg.Operation{iceberg.OpEq, iceberg.OpLt, iceberg.OpLtEq, iceberg.OpGt, iceberg.OpGtEq} {
		got := evalLeaf(t, file, op, ref, float64(1), EvalConfig{})
		assert.Equal(t, TruthFalse, got, "operation %s against a NaN-only dictionary", op)
	}

	// NaN is not equal to anything, so it satisfies not_eq.
	got := evalLeaf(t, file, iceberg.OpNotEq, ref, float64(1), EvalConfig{})
	assert.Equal(t, TruthTrue, got)
}

// =============================================================================
// Kleene combinations
// =============================================================================

func kleeneLeaf(t *testing.T, truth Truth) BoundExpression {
	t.Helper()
	cmp, err := ComparatorFor(iceberg.Primitive(iceberg.TypeInt64))
	require.NoError(t, err)

	switch truth {
	case TruthTrue:
		return &BoundPredicate{Op: iceberg.OpEq, Ref: presentRef(), Literal: int64(10), Compare: cmp}
	case TruthFalse:
		return &BoundPredicate{Op: iceberg.OpEq, Ref: presentRef(), Literal: int64(11), Compare: cmp}
	default:
		return &BoundPredicate{Op: iceberg.OpEq, Ref: rawRef(), Literal: int64(10), Compare: cmp}
	}
}

func TestEvaluator_KleeneAnd(t *testing.T) {
	truths := []Truth{TruthFalse, TruthUnknown, TruthTrue}
	for _, a := range truths {
		for _, b := range truths {
			want := a
			if b < want {
				want = b
			}
			file := evalFixture()
			ev := NewEvaluator(NewMaterializer(file, file, 0), EvalConfig{})
			got, err := ev.Eval(context.Background(), &BoundComposite{
				Logic:    iceberg.LogicAnd,
				Children: []BoundExpression{kleeneLeaf(t, a), kleeneLeaf(t, b)},
			})
			require.NoError(t, err)
			assert.Equal(t, want, got, "and(%s, %s)", a, b)
		}
	}
}

func TestEvaluator_KleeneOr(t *testing.T) {
	truths := []Truth{TruthFalse, TruthUnknown, TruthTrue}
	for _, a := range truths {
		for _, b := range truths {
			want := a
			if b > want {
				want = b
			}
			file := evalFixture()
			ev := NewEvaluator(NewMaterializer(file, file, 0), EvalConfig{})
			got, err := ev.Eval(context.Background(), &BoundComposite{
				Logic:    iceberg.LogicOr,
				Children: []BoundExpression{kleeneLeaf(t, a), kleeneLeaf(t, b)},
			})
			require.NoError(t, err)
			assert.Equal(t, want, got, "or(%s, %s)", a, b)
		}
	}
}

func TestEvaluator_RootProjection(t *testing.T) {
	file := evalFixture()
	ev := NewEvaluator(NewMaterializer(file, file, 0), EvalConfig{})

	read, err := ev.ShouldRead(context.Background(), kleeneLeaf(t, TruthUnknown))
	require.NoError(t, err)
	assert.True(t, read, "unknown is conservative")

	read, err = ev.ShouldRead(context.Background(), kleeneLeaf(t, TruthFalse))
	require.NoError(t, err)
	assert.False(t, read)

	read, err = ev.ShouldRead(context.Background(), kleeneLeaf(t, TruthTrue))
	require.NoError(t, err)
	assert.True(t, read)
}
