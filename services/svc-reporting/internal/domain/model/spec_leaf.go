package model

type baseSpec struct {
	self Specification
}

func (b *baseSpec) setSelf(s Specification) { b.self = s }

func (b *baseSpec) Must(other Specification) Specification {
	return &mustSpec{specs: []Specification{b.self, other}}
}
func (b *baseSpec) Should(other Specification) Specification {
	return &shouldSpec{specs: []Specification{b.self, other}}
}
func (b *baseSpec) MustNot() Specification    { return &mustNotSpec{spec: b.self} }
func (b *baseSpec) IsComposite() bool         { return false }
func (b *baseSpec) Children() []Specification { return nil }

// comparisonSpec covers every operator that takes exactly one operand.
type comparisonSpec struct {
	baseSpec
	op    SpecOperator
	field string
	value any
}

func newComparison(op SpecOperator, field string, value any) Specification {
	s := &comparisonSpec{op: op, field: field, value: value}
	s.setSelf(s)

	return s
}

func Eq(field string, value any) Specification    { return newComparison(SpecOpEq, field, value) }
func NotEq(field string, value any) Specification { return newComparison(SpecOpNotEq, field, value) }
func Gt(field string, value any) Specification    { return newComparison(SpecOpGt, field, value) }
func Gte(field string, value any) Specification   { return newComparison(SpecOpGte, field, value) }
func Lt(field string, value any) Specification    { return newComparison(SpecOpLt, field, value) }
func Lte(field string, value any) Specification   { return newComparison(SpecOpLte, field, value) }

// Contains matches a case-insensitive substring. The operand is taken
// literally; wildcard characters are not interpreted.
func Contains(field, substring string) Specification {
	return newComparison(SpecOpContains, field, substring)
}

func NotContains(field, substring string) Specification {
	return newComparison(SpecOpNotContains, field, substring)
}

func (s *comparisonSpec) Operator() SpecOperator { return s.op }
func (s *comparisonSpec) Field() string          { return s.field }
func (s *comparisonSpec) Value() any             { return s.value }

type inSpec struct {
	baseSpec
	op     SpecOperator
	field  string
	values []any
}

func In(field string, values ...any) Specification {
	s := &inSpec{op: SpecOpIn, field: field, values: nonNilValues(values)}
	s.setSelf(s)

	return s
}

func NotIn(field string, values ...any) Specification {
	s := &inSpec{op: SpecOpNotIn, field: field, values: nonNilValues(values)}
	s.setSelf(s)

	return s
}

func (s *inSpec) Operator() SpecOperator { return s.op }
func (s *inSpec) Field() string          { return s.field }
func (s *inSpec) Value() any             { return s.values }

type nullSpec struct {
	baseSpec
	field string
	null  bool
}

func IsNull(field string) Specification {
	s := &nullSpec{field: field, null: true}
	s.setSelf(s)

	return s
}

func NotNull(field string) Specification {
	s := &nullSpec{field: field, null: false}
	s.setSelf(s)

	return s
}

func (s *nullSpec) Operator() SpecOperator {
	if s.null {
		return SpecOpIsNull
	}

	return SpecOpNotNull
}
func (s *nullSpec) Field() string { return s.field }
func (s *nullSpec) Value() any    { return nil }

func nonNilValues(values []any) []any {
	if values == nil {
		return []any{}
	}

	return values
}
