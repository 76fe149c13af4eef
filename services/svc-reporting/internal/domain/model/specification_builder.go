package model

import "cmp"

// FilterSpecification translates a single filter into a predicate on field.
// Equals takes precedence over In, which takes precedence over the remaining
// slots; the remaining slots are ANDed together. A zero filter yields nil.
func FilterSpecification[T comparable](field string, filter Filter[T]) Specification {
	if spec, ok := exactSpecification(field, filter); ok {
		return spec
	}

	return conjunction(remainingSpecifications(field, filter))
}

// RangeSpecification behaves like FilterSpecification and adds the ordering bounds.
func RangeSpecification[T cmp.Ordered](field string, filter RangeFilter[T]) Specification {
	if spec, ok := exactSpecification(field, filter.Filter); ok {
		return spec
	}

	specs := remainingSpecifications(field, filter.Filter)

	if filter.GreaterThan != nil {
		specs = append(specs, Gt(field, *filter.GreaterThan))
	}

	if filter.GreaterThanOrEqual != nil {
		specs = append(specs, Gte(field, *filter.GreaterThanOrEqual))
	}

	if filter.LessThan != nil {
		specs = append(specs, Lt(field, *filter.LessThan))
	}

	if filter.LessThanOrEqual != nil {
		specs = append(specs, Lte(field, *filter.LessThanOrEqual))
	}

	return conjunction(specs)
}

// StringSpecification behaves like FilterSpecification and adds the substring tests.
func StringSpecification(field string, filter StringFilter) Specification {
	if spec, ok := exactSpecification(field, filter.Filter); ok {
		return spec
	}

	specs := remainingSpecifications(field, filter.Filter)

	if filter.Contains != nil {
		specs = append(specs, Contains(field, *filter.Contains))
	}

	if filter.DoesNotContain != nil {
		specs = append(specs, NotContains(field, *filter.DoesNotContain))
	}

	return conjunction(specs)
}

// JoinSpecification wraps the predicate produced for a referenced record.
// A nil inner predicate yields nil so that an unused reference adds no join.
func JoinSpecification(relation string, inner Specification) Specification {
	if inner == nil {
		return nil
	}

	return Join(relation, inner)
}

func exactSpecification[T comparable](field string, filter Filter[T]) (Specification, bool) {
	if filter.Equals != nil {
		return Eq(field, *filter.Equals), true
	}

	if filter.In != nil {
		return In(field, toAnySlice(filter.In)...), true
	}

	return nil, false
}

func remainingSpecifications[T comparable](field string, filter Filter[T]) []Specification {
	specs := make([]Specification, 0, 3)

	if filter.Specified != nil {
		if *filter.Specified {
			specs = append(specs, NotNull(field))
		} else {
			specs = append(specs, IsNull(field))
		}
	}

	if filter.NotEquals != nil {
		specs = append(specs, NotEq(field, *filter.NotEquals))
	}

	if filter.NotIn != nil {
		specs = append(specs, NotIn(field, toAnySlice(filter.NotIn)...))
	}

	return specs
}

// conjunction ANDs specs in order, skipping nil entries.
func conjunction(specs []Specification) Specification {
	active := make([]Specification, 0, len(specs))

	for _, spec := range specs {
		if spec != nil {
			active = append(active, spec)
		}
	}

	switch len(active) {
	case 0:
		return nil
	case 1:
		return active[0]
	default:
		return Must(active...)
	}
}

func toAnySlice[T any](values []T) []any {
	result := make([]any, len(values))
	for index, value := range values {
		result[index] = value
	}

	return result
}
