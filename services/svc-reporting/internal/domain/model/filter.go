package model

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

type (
	// Filter holds the operator slots shared by every attribute kind. A slot
	// is active when it is non-nil; an empty non-nil In matches nothing.
	Filter[T comparable] struct {
		Equals    *T
		NotEquals *T
		In        []T
		NotIn     []T
		Specified *bool
	}

	// RangeFilter adds ordering comparisons to Filter.
	RangeFilter[T cmp.Ordered] struct {
		Filter[T]
		GreaterThan        *T
		GreaterThanOrEqual *T
		LessThan           *T
		LessThanOrEqual    *T
	}

	// StringFilter adds case-insensitive substring tests to Filter.
	StringFilter struct {
		Filter[string]
		Contains       *string
		DoesNotContain *string
	}

	BooleanFilter = Filter[bool]
	LongFilter    = RangeFilter[int64]
	DoubleFilter  = RangeFilter[float64]
)

// Ptr returns a pointer to a copy of v.
func Ptr[T any](v T) *T {
	return &v
}

func (f Filter[T]) IsZero() bool {
	return f.Equals == nil && f.NotEquals == nil && f.In == nil && f.NotIn == nil && f.Specified == nil
}

func (f Filter[T]) Copy() Filter[T] {
	return Filter[T]{
		Equals:    clonePtr(f.Equals),
		NotEquals: clonePtr(f.NotEquals),
		In:        slices.Clone(f.In),
		NotIn:     slices.Clone(f.NotIn),
		Specified: clonePtr(f.Specified),
	}
}

func (f Filter[T]) Equal(other Filter[T]) bool {
	return equalPtr(f.Equals, other.Equals) &&
		equalPtr(f.NotEquals, other.NotEquals) &&
		equalSlice(f.In, other.In) &&
		equalSlice(f.NotIn, other.NotIn) &&
		equalPtr(f.Specified, other.Specified)
}

func (f Filter[T]) String() string {
	return renderFilter(filterName[T]("Filter"), f.slots())
}

func (f Filter[T]) slots() []string {
	var parts []string

	parts = appendPtr(parts, "equals", f.Equals)
	parts = appendPtr(parts, "notEquals", f.NotEquals)
	parts = appendSlice(parts, "in", f.In)
	parts = appendSlice(parts, "notIn", f.NotIn)
	parts = appendPtr(parts, "specified", f.Specified)

	return parts
}

func (f RangeFilter[T]) IsZero() bool {
	return f.Filter.IsZero() &&
		f.GreaterThan == nil && f.GreaterThanOrEqual == nil &&
		f.LessThan == nil && f.LessThanOrEqual == nil
}

func (f RangeFilter[T]) Copy() RangeFilter[T] {
	return RangeFilter[T]{
		Filter:             f.Filter.Copy(),
		GreaterThan:        clonePtr(f.GreaterThan),
		GreaterThanOrEqual: clonePtr(f.GreaterThanOrEqual),
		LessThan:           clonePtr(f.LessThan),
		LessThanOrEqual:    clonePtr(f.LessThanOrEqual),
	}
}

func (f RangeFilter[T]) Equal(other RangeFilter[T]) bool {
	return f.Filter.Equal(other.Filter) &&
		equalPtr(f.GreaterThan, other.GreaterThan) &&
		equalPtr(f.GreaterThanOrEqual, other.GreaterThanOrEqual) &&
		equalPtr(f.LessThan, other.LessThan) &&
		equalPtr(f.LessThanOrEqual, other.LessThanOrEqual)
}

func (f RangeFilter[T]) String() string {
	parts := f.Filter.slots()
	parts = appendPtr(parts, "greaterThan", f.GreaterThan)
	parts = appendPtr(parts, "greaterThanOrEqual", f.GreaterThanOrEqual)
	parts = appendPtr(parts, "lessThan", f.LessThan)
	parts = appendPtr(parts, "lessThanOrEqual", f.LessThanOrEqual)

	return renderFilter(filterName[T]("RangeFilter"), parts)
}

func (f StringFilter) IsZero() bool {
	return f.Filter.IsZero() && f.Contains == nil && f.DoesNotContain == nil
}

func (f StringFilter) Copy() StringFilter {
	return StringFilter{
		Filter:         f.Filter.Copy(),
		Contains:       clonePtr(f.Contains),
		DoesNotContain: clonePtr(f.DoesNotContain),
	}
}

func (f StringFilter) Equal(other StringFilter) bool {
	return f.Filter.Equal(other.Filter) &&
		equalPtr(f.Contains, other.Contains) &&
		equalPtr(f.DoesNotContain, other.DoesNotContain)
}

func (f StringFilter) String() string {
	parts := f.Filter.slots()
	parts = appendPtr(parts, "contains", f.Contains)
	parts = appendPtr(parts, "doesNotContain", f.DoesNotContain)

	return renderFilter("StringFilter", parts)
}

// filterName names a filter after its value kind, e.g. LongFilter for
// int64, falling back to generic for kinds without an alias.
func filterName[T any](generic string) string {
	var zero T

	switch any(zero).(type) {
	case bool:
		return "BooleanFilter"
	case int64:
		return "LongFilter"
	case float64:
		return "DoubleFilter"
	default:
		return generic
	}
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}

	v := *p

	return &v
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}

	return *a == *b
}

func equalSlice[T comparable](a, b []T) bool {
	if (a == nil) != (b == nil) {
		return false
	}

	return slices.Equal(a, b)
}

func appendPtr[T any](parts []string, name string, p *T) []string {
	if p == nil {
		return parts
	}

	return append(parts, fmt.Sprintf("%s=%v", name, *p))
}

func appendSlice[T any](parts []string, name string, values []T) []string {
	if values == nil {
		return parts
	}

	rendered := make([]string, len(values))
	for index, value := range values {
		rendered[index] = fmt.Sprintf("%v", value)
	}

	return append(parts, fmt.Sprintf("%s=[%s]", name, strings.Join(rendered, ", ")))
}

func renderFilter(name string, parts []string) string {
	return name + "{" + strings.Join(parts, ", ") + "}"
}
