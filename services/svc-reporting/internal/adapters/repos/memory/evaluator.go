package memory

import (
	"cmp"
	"fmt"
	"strings"

	"github.com/architeacher/reporting/services/svc-reporting/internal/domain/model"
	"golang.org/x/text/cases"
)

// truth is a SQL three-valued logic result. Only truthTrue selects a row.
type truth int8

const (
	truthFalse truth = iota
	truthTrue
	truthUnknown
)

type (
	// record exposes the attributes of one stored row. A nil value is NULL.
	record interface {
		value(field string) (any, bool)
		related(relation string) (record, bool)
	}

	// nullRecord stands in for a reference that is not set: every attribute
	// of the joined row is NULL.
	nullRecord struct {
		fields map[string]struct{}
	}
)

func (n nullRecord) value(field string) (any, bool) {
	_, ok := n.fields[field]

	return nil, ok
}

func (n nullRecord) related(string) (record, bool) {
	return nil, false
}

func fromBool(v bool) truth {
	if v {
		return truthTrue
	}

	return truthFalse
}

func (t truth) not() truth {
	switch t {
	case truthTrue:
		return truthFalse
	case truthFalse:
		return truthTrue
	default:
		return truthUnknown
	}
}

// matches reports whether rec satisfies spec. A nil spec matches every record.
func matches(spec model.Specification, rec record) (bool, error) {
	if spec == nil {
		return true, nil
	}

	result, err := evaluate(spec, rec)
	if err != nil {
		return false, err
	}

	return result == truthTrue, nil
}

func evaluate(spec model.Specification, rec record) (truth, error) {
	switch spec.Operator() {
	case model.SpecOpMust:
		result := truthTrue

		for _, child := range spec.Children() {
			childResult, err := evaluate(child, rec)
			if err != nil {
				return truthFalse, err
			}

			switch childResult {
			case truthFalse:
				return truthFalse, nil
			case truthUnknown:
				result = truthUnknown
			}
		}

		return result, nil

	case model.SpecOpShould:
		result := truthFalse

		for _, child := range spec.Children() {
			childResult, err := evaluate(child, rec)
			if err != nil {
				return truthFalse, err
			}

			switch childResult {
			case truthTrue:
				return truthTrue, nil
			case truthUnknown:
				result = truthUnknown
			}
		}

		return result, nil

	case model.SpecOpMustNot:
		inner, err := evaluate(spec.Children()[0], rec)
		if err != nil {
			return truthFalse, err
		}

		return inner.not(), nil

	case model.SpecOpJoin:
		target, ok := rec.related(spec.Field())
		if !ok {
			return truthFalse, fmt.Errorf("%w: unknown relation %q", model.ErrInvalidFilter, spec.Field())
		}

		return evaluate(spec.Children()[0], target)
	}

	value, ok := rec.value(spec.Field())
	if !ok {
		return truthFalse, fmt.Errorf("%w: unknown field %q", model.ErrInvalidFilter, spec.Field())
	}

	return evaluateLeaf(spec, value)
}

func evaluateLeaf(spec model.Specification, value any) (truth, error) {
	switch spec.Operator() {
	case model.SpecOpIsNull:
		return fromBool(value == nil), nil
	case model.SpecOpNotNull:
		return fromBool(value != nil), nil
	}

	if value == nil {
		return truthUnknown, nil
	}

	switch spec.Operator() {
	case model.SpecOpEq, model.SpecOpNotEq, model.SpecOpGt, model.SpecOpGte, model.SpecOpLt, model.SpecOpLte:
		order, err := compareValues(value, spec.Value())
		if err != nil {
			return truthFalse, err
		}

		return fromBool(holds(spec.Operator(), order)), nil

	case model.SpecOpIn, model.SpecOpNotIn:
		operands, _ := spec.Value().([]any)

		found, err := containsValue(operands, value)
		if err != nil {
			return truthFalse, err
		}

		if spec.Operator() == model.SpecOpNotIn {
			return fromBool(!found), nil
		}

		return fromBool(found), nil

	case model.SpecOpContains, model.SpecOpNotContains:
		text, ok := value.(string)
		if !ok {
			return truthFalse, fmt.Errorf("%w: %q is not a text attribute", model.ErrInvalidFilter, spec.Field())
		}

		found := containsFolded(text, fmt.Sprint(spec.Value()))
		if spec.Operator() == model.SpecOpNotContains {
			return fromBool(!found), nil
		}

		return fromBool(found), nil

	default:
		return truthFalse, fmt.Errorf("%w: unsupported operator %q", model.ErrInvalidFilter, spec.Operator())
	}
}

// containsFolded matches substring case-insensitively using Unicode case
// folding, the in-memory counterpart of ILIKE.
func containsFolded(text, substring string) bool {
	fold := cases.Fold()

	return strings.Contains(fold.String(text), fold.String(substring))
}

func holds(op model.SpecOperator, order int) bool {
	switch op {
	case model.SpecOpEq:
		return order == 0
	case model.SpecOpNotEq:
		return order != 0
	case model.SpecOpGt:
		return order > 0
	case model.SpecOpGte:
		return order >= 0
	case model.SpecOpLt:
		return order < 0
	default:
		return order <= 0
	}
}

func containsValue(operands []any, value any) (bool, error) {
	for _, operand := range operands {
		order, err := compareValues(value, operand)
		if err != nil {
			return false, err
		}

		if order == 0 {
			return true, nil
		}
	}

	return false, nil
}

// compareValues orders two non-null attribute values. Integers and floats
// compare numerically with each other.
func compareValues(left, right any) (int, error) {
	switch l := left.(type) {
	case int64:
		switch r := right.(type) {
		case int64:
			return cmp.Compare(l, r), nil
		case float64:
			return cmp.Compare(float64(l), r), nil
		}
	case float64:
		switch r := right.(type) {
		case float64:
			return cmp.Compare(l, r), nil
		case int64:
			return cmp.Compare(l, float64(r)), nil
		}
	case string:
		if r, ok := right.(string); ok {
			return cmp.Compare(l, r), nil
		}
	case bool:
		if r, ok := right.(bool); ok {
			return compareBools(l, r), nil
		}
	}

	return 0, fmt.Errorf("%w: cannot compare %T with %T", model.ErrInvalidFilter, left, right)
}

func compareBools(left, right bool) int {
	switch {
	case left == right:
		return 0
	case !left:
		return -1
	default:
		return 1
	}
}
