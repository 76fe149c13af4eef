package model

type SpecOperator string

const (
	SpecOpEq          SpecOperator = "eq"
	SpecOpNotEq       SpecOperator = "neq"
	SpecOpIn          SpecOperator = "in"
	SpecOpNotIn       SpecOperator = "not_in"
	SpecOpContains    SpecOperator = "contains"
	SpecOpNotContains SpecOperator = "not_contains"
	SpecOpGt          SpecOperator = "gt"
	SpecOpGte         SpecOperator = "gte"
	SpecOpLt          SpecOperator = "lt"
	SpecOpLte         SpecOperator = "lte"
	SpecOpIsNull      SpecOperator = "is_null"
	SpecOpNotNull     SpecOperator = "not_null"
	SpecOpMust        SpecOperator = "must"
	SpecOpShould      SpecOperator = "should"
	SpecOpMustNot     SpecOperator = "must_not"
	SpecOpJoin        SpecOperator = "join"
)

// Specification is a node of a predicate tree. Leaves carry a field, an
// operator and an operand; composites carry children. A join node carries the
// relation name in Field and a single child evaluated against that relation.
type Specification interface {
	Must(other Specification) Specification
	Should(other Specification) Specification
	MustNot() Specification
	IsComposite() bool
	Children() []Specification
	Operator() SpecOperator
	Field() string
	Value() any
}

// IsComparison reports whether op compares a field against a single operand.
func (op SpecOperator) IsComparison() bool {
	switch op {
	case SpecOpEq, SpecOpNotEq, SpecOpGt, SpecOpGte, SpecOpLt, SpecOpLte:
		return true
	default:
		return false
	}
}
