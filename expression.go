package iceberg

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Logic joins the children of a composite expression.
type Logic string

const (
	LogicAnd Logic = "and"
	LogicOr  Logic = "or"
)

// Operation identifies a leaf predicate operator.
type Operation string

const (
	OpEq      Operation = "eq"
	OpNotEq   Operation = "not_eq"
	OpLt      Operation = "lt"
	OpLtEq    Operation = "lt_eq"
	OpGt      Operation = "gt"
	OpGtEq    Operation = "gt_eq"
	OpIsNull  Operation = "is_null"
	OpNotNull Operation = "not_null"
)

// RequiresLiteral reports whether the operation compares against a literal.
func (o Operation) RequiresLiteral() bool {
	switch o {
	case OpEq, OpNotEq, OpLt, OpLtEq, OpGt, OpGtEq:
		return true
	default:
		return false
	}
}

// Negate returns the complementary operation.
func (o Operation) Negate() Operation {
	switch o {
	case OpEq:
		return OpNotEq
	case OpNotEq:
		return OpEq
	case OpLt:
		return OpGtEq
	case OpLtEq:
		return OpGt
	case OpGt:
		return OpLtEq
	case OpGtEq:
		return OpLt
	case OpIsNull:
		return OpNotNull
	case OpNotNull:
		return OpIsNull
	default:
		return o
	}
}

// Expression is a node of the unbound predicate tree.
type Expression interface {
	IsLeaf() bool
	String() string
}

// Predicate is a leaf node referencing a logical field by name.
type Predicate struct {
	Op      Operation
	Ref     string
	Literal Literal
}

func (p *Predicate) IsLeaf() bool { return true }

func (p *Predicate) String() string {
	if p.Op.RequiresLiteral() {
		return fmt.Sprintf("%s(%s, %s)", p.Op, p.Ref, p.Literal)
	}
	return fmt.Sprintf("%s(%s)", p.Op, p.Ref)
}

// Composite is an and/or node over one or more children.
type Composite struct {
	Logic    Logic
	Children []Expression
}

func (c *Composite) IsLeaf() bool { return false }

func (c *Composite) String() string {
	parts := make([]string, 0, len(c.Children))
	for _, child := range c.Children {
		parts = append(parts, child.String())
	}
	return fmt.Sprintf("%s(%s)", c.Logic, strings.Join(parts, ", "))
}

// Negation wraps a child expression. The binder rewrites negations away
// before evaluation.
type Negation struct {
	Child Expression
}

func (n *Negation) IsLeaf() bool { return false }

func (n *Negation) String() string {
	return fmt.Sprintf("not(%s)", n.Child)
}

func newComparison(op Operation, ref string, value any) (*Predicate, error) {
	if ref == "" {
		return nil, NewInvalidExpressionError(fmt.Sprintf("%s predicate requires a field reference", op))
	}
	if value == nil {
		return nil, NewInvalidLiteralError(fmt.Sprintf("%s predicate on '%s' does not accept a null literal; use is_null or not_null", op, ref)).WithField(ref)
	}
	return &Predicate{Op: op, Ref: ref, Literal: NewLiteral(value)}, nil
}

// Eq builds an equality predicate. Null literals are rejected.
func Eq(ref string, value any) (*Predicate, error) {
	return newComparison(OpEq, ref, value)
}

// NotEq builds an inequality predicate. Null literals are rejected.
func NotEq(ref string, value any) (*Predicate, error) {
	return newComparison(OpNotEq, ref, value)
}

// Lt builds a less-than predicate. Null literals are rejected.
func Lt(ref string, value any) (*Predicate, error) {
	return newComparison(OpLt, ref, value)
}

// LtEq builds a less-than-or-equal predicate. Null literals are rejected.
func LtEq(ref string, value any) (*Predicate, error) {
	return newComparison(OpLtEq, ref, value)
}

// Gt builds a greater-than predicate. Null literals are rejected.
func Gt(ref string, value any) (*Predicate, error) {
	return newComparison(OpGt, ref, value)
}

// GtEq builds a greater-than-or-equal predicate. Null literals are rejected.
func GtEq(ref string, value any) (*Predicate, error) {
	return newComparison(OpGtEq, ref, value)
}

// IsNull builds a null-test predicate.
func IsNull(ref string) *Predicate {
	return &Predicate{Op: OpIsNull, Ref: ref}
}

// NotNull builds a non-null-test predicate.
func NotNull(ref string) *Predicate {
	return &Predicate{Op: OpNotNull, Ref: ref}
}

// And combines children under Kleene conjunction.
func And(children ...Expression) *Composite {
	return &Composite{Logic: LogicAnd, Children: children}
}

// Or combines children under Kleene disjunction.
func Or(children ...Expression) *Composite {
	return &Composite{Logic: LogicOr, Children: children}
}

// Not negates a child expression.
func Not(child Expression) *Negation {
	return &Negation{Child: child}
}

// ValidateExpression walks the tree and reports structural violations:
// empty composites, nil children, unknown operators, missing references and
// null literals on comparison operators.
func ValidateExpression(expr Expression) error {
	if expr == nil {
		return NewInvalidExpressionError("expression is nil")
	}
	switch e := expr.(type) {
	case *Predicate:
		switch e.Op {
		case OpEq, OpNotEq, OpLt, OpLtEq, OpGt, OpGtEq, OpIsNull, OpNotNull:
		default:
			return NewInvalidExpressionError(fmt.Sprintf("unknown operation '%s'", e.Op))
		}
		if e.Ref == "" {
			return NewInvalidExpressionError(fmt.Sprintf("%s predicate requires a field reference", e.Op))
		}
		if e.Op.RequiresLiteral() && e.Literal.IsNull() {
			return NewInvalidLiteralError(fmt.Sprintf("%s predicate on '%s' does not accept a null literal", e.Op, e.Ref)).WithField(e.Ref)
		}
		if !e.Op.RequiresLiteral() && !e.Literal.IsNull() {
			return NewInvalidExpressionError(fmt.Sprintf("%s predicate on '%s' does not accept a literal", e.Op, e.Ref))
		}
		return nil
	case *Composite:
		if e.Logic != LogicAnd && e.Logic != LogicOr {
			return NewInvalidExpressionError(fmt.Sprintf("unknown logic '%s'", e.Logic))
		}
		if len(e.Children) == 0 {
			return NewInvalidExpressionError(fmt.Sprintf("%s composite requires at least one child", e.Logic))
		}
		for _, child := range e.Children {
			if err := ValidateExpression(child); err != nil {
				return err
			}
		}
		return nil
	case *Negation:
		return ValidateExpression(e.Child)
	default:
		return NewInvalidExpressionError(fmt.Sprintf("unknown expression node %T", expr))
	}
}

// --- JSON codec ---
//
// Composite: {"l": "and", "c": [ ... ]}
// Negation:  {"n": { ... }}
// Predicate: {"op": "eq", "t": "id", "v": 42}

type compositeJSON struct {
	Logic    Logic             `json:"l"`
	Children []json.RawMessage `json:"c"`
}

type negationJSON struct {
	Child json.RawMessage `json:"n"`
}

type predicateJSON struct {
	Op    Operation       `json:"op"`
	Term  string          `json:"t"`
	Value json.RawMessage `json:"v,omitempty"`
}

// MarshalJSON encodes the composite in the compact wire form.
func (c *Composite) MarshalJSON() ([]byte, error) {
	children := make([]json.RawMessage, 0, len(c.Children))
	for _, child := range c.Children {
		raw, err := json.Marshal(child)
		if err != nil {
			return nil, err
		}
		children = append(children, raw)
	}
	return json.Marshal(compositeJSON{Logic: c.Logic, Children: children})
}

// MarshalJSON encodes the negation in the compact wire form.
func (n *Negation) MarshalJSON() ([]byte, error) {
	raw, err := json.Marshal(n.Child)
	if err != nil {
		return nil, err
	}
	return json.Marshal(negationJSON{Child: raw})
}

// MarshalJSON encodes the predicate in the compact wire form.
func (p *Predicate) MarshalJSON() ([]byte, error) {
	out := predicateJSON{Op: p.Op, Term: p.Ref}
	if !p.Literal.IsNull() {
		raw, err := json.Marshal(p.Literal.Value())
		if err != nil {
			return nil, err
		}
		out.Value = raw
	}
	return json.Marshal(out)
}

// UnmarshalExpression inspects the incoming JSON payload and instantiates the
// correct Expression implementation (composite, negation or predicate). This
// allows nested predicate trees to be decoded directly from JSON inputs.
func UnmarshalExpression(data []byte) (Expression, error) {
	var discriminator struct {
		Logic *Logic          `json:"l"`
		Not   json.RawMessage `json:"n"`
		Op    *Operation      `json:"op"`
	}
	if err := json.Unmarshal(data, &discriminator); err != nil {
		return nil, err
	}

	switch {
	case discriminator.Logic != nil:
		var payload compositeJSON
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, err
		}
		if payload.Logic != LogicAnd && payload.Logic != LogicOr {
			return nil, NewInvalidExpressionError(fmt.Sprintf("unknown logic '%s'", payload.Logic))
		}
		children := make([]Expression, 0, len(payload.Children))
		for _, raw := range payload.Children {
			child, err := UnmarshalExpression(raw)
			if err != nil {
				return nil, err
			}
			children = append(children, child)
		}
		return &Composite{Logic: payload.Logic, Children: children}, nil

	case len(discriminator.Not) > 0:
		child, err := UnmarshalExpression(discriminator.Not)
		if err != nil {
			return nil, err
		}
		return &Negation{Child: child}, nil

	case discriminator.Op != nil:
		var payload predicateJSON
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, err
		}
		if payload.Term == "" {
			return nil, NewInvalidExpressionError(fmt.Sprintf("%s predicate missing term 't'", payload.Op))
		}
		pred := &Predicate{Op: payload.Op, Ref: payload.Term}
		if payload.Op.RequiresLiteral() {
			var value any
			if len(payload.Value) > 0 {
				if err := json.Unmarshal(payload.Value, &value); err != nil {
					return nil, err
				}
			}
			if value == nil {
				return nil, NewInvalidLiteralError(fmt.Sprintf("%s predicate on '%s' does not accept a null literal", payload.Op, payload.Term)).WithField(payload.Term)
			}
			pred.Literal = NewLiteral(value)
		}
		if err := ValidateExpression(pred); err != nil {
			return nil, err
		}
		return pred, nil
	}

	return nil, NewInvalidExpressionError("invalid expression payload: expected 'l', 'n' or 'op'")
}
