package internal

import (
	"github.com/spogiri123/iceberg"
)

// BoundReference is a predicate reference resolved against both schemas.
// Absent marks references whose column does not exist in the physical file.
type BoundReference struct {
	Field  iceberg.LogicalField
	Column iceberg.ColumnDescriptor
	Absent bool
}

// BoundExpression is a node of the bound predicate tree. After binding, the
// tree contains only predicates and composites; negations have been
// rewritten away.
type BoundExpression interface {
	isBound()
}

// BoundPredicate is a bound leaf. Literal is nil for the null-test
// operators. Compare is the per-type comparator resolved at bind time.
type BoundPredicate struct {
	Op      iceberg.Operation
	Ref     BoundReference
	Literal any
	Compare Comparator
}

func (*BoundPredicate) isBound() {}

// BoundComposite is a bound and/or node.
type BoundComposite struct {
	Logic    iceberg.Logic
	Children []BoundExpression
}

func (*BoundComposite) isBound() {}

// Bind resolves an unbound expression against the logical schema and the
// physical schema of one file. Negations are pushed down first so the
// evaluator never sees not over a composite; references are resolved to
// fields by name, literals are coerced to the field's logical type, and a
// comparator is attached per leaf.
func Bind(expr iceberg.Expression, schema *iceberg.Schema, phys iceberg.PhysicalSchema) (BoundExpression, error) {
	if err := iceberg.ValidateExpression(expr); err != nil {
		return nil, err
	}
	return bind(RewriteNot(expr), schema, phys)
}

func bind(expr iceberg.Expression, schema *iceberg.Schema, phys iceberg.PhysicalSchema) (BoundExpression, error) {
	switch e := expr.(type) {
	case *iceberg.Predicate:
		return bindPredicate(e, schema, phys)
	case *iceberg.Composite:
		children := make([]BoundExpression, 0, len(e.Children))
		for _, child := range e.Children {
			bc, err := bind(child, schema, phys)
			if err != nil {
				return nil, err
			}
			children = append(children, bc)
		}
		return &BoundComposite{Logic: e.Logic, Children: children}, nil
	default:
		// RewriteNot leaves only predicates and composites behind.
		return nil, iceberg.NewInvalidExpressionError("unexpected negation after normalization")
	}
}

func bindPredicate(p *iceberg.Predicate, schema *iceberg.Schema, phys iceberg.PhysicalSchema) (BoundExpression, error) {
	field, ok := schema.FieldByName(p.Ref)
	if !ok {
		return nil, iceberg.NewMissingFieldError(p.Ref)
	}

	ref := BoundReference{Field: field}
	if desc, found := phys.Lookup(field.Name); found {
		ref.Column = desc
	} else {
		ref.Absent = true
	}

	cmp, err := ComparatorFor(field.Type)
	if err != nil {
		return nil, err
	}

	bound := &BoundPredicate{Op: p.Op, Ref: ref, Compare: cmp}
	if p.Op.RequiresLiteral() {
		lit, err := CoerceLiteral(field.Name, p.Literal.Value(), field.Type)
		if err != nil {
			return nil, err
		}
		bound.Literal = lit
	}
	return bound, nil
}

// RewriteNot normalizes the tree so that not never wraps a composite or a
// leaf: De Morgan pushes negation through and/or, double negation cancels,
// and a negated leaf becomes its complementary operator.
func RewriteNot(expr iceberg.Expression) iceberg.Expression {
	switch e := expr.(type) {
	case *iceberg.Predicate:
		return e
	case *iceberg.Composite:
		children := make([]iceberg.Expression, 0, len(e.Children))
		for _, child := range e.Children {
			children = append(children, RewriteNot(child))
		}
		return &iceberg.Composite{Logic: e.Logic, Children: children}
	case *iceberg.Negation:
		return pushNot(e.Child)
	default:
		return expr
	}
}

func pushNot(expr iceberg.Expression) iceberg.Expression {
	switch e := expr.(type) {
	case *iceberg.Predicate:
		return &iceberg.Predicate{Op: e.Op.Negate(), Ref: e.Ref, Literal: e.Literal}
	case *iceberg.Composite:
		flipped := iceberg.LogicAnd
		if e.Logic == iceberg.LogicAnd {
			flipped = iceberg.LogicOr
		}
		children := make([]iceberg.Expression, 0, len(e.Children))
		for _, child := range e.Children {
			children = append(children, pushNot(child))
		}
		return &iceberg.Composite{Logic: flipped, Children: children}
	case *iceberg.Negation:
		return RewriteNot(e.Child)
	default:
		return expr
	}
}
