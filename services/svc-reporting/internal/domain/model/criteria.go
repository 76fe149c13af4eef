package model

import "math"

type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"

	DefaultPageSize uint = 20
	MaxPageSize     uint = 2000

	// MaxOffset is the largest row offset a window may skip; it matches the
	// signed 64-bit OFFSET of SQL.
	MaxOffset uint64 = math.MaxInt64
)

type (
	SortField struct {
		Field     string
		Direction SortDirection
	}

	// Criteria is what a repository executes: an optional predicate plus
	// ordering and an optional window. A criteria without pagination selects
	// every matching row.
	Criteria struct {
		spec     Specification
		sorting  []SortField
		page     uint
		size     uint
		paged    bool
		distinct bool
	}
)

func (c Criteria) Spec() Specification  { return c.spec }
func (c Criteria) Sorting() []SortField { return c.sorting }
func (c Criteria) Page() uint           { return c.page }
func (c Criteria) Size() uint           { return c.size }
func (c Criteria) IsDistinct() bool     { return c.distinct }
func (c Criteria) HasSpec() bool        { return c.spec != nil }
func (c Criteria) HasSorting() bool     { return len(c.sorting) > 0 }
func (c Criteria) HasPagination() bool  { return c.paged && c.size > 0 }

// Offset is the number of rows skipped before the window, saturated at
// MaxOffset.
func (c Criteria) Offset() uint64 {
	if c.size == 0 {
		return 0
	}

	if uint64(c.page) > MaxOffset/uint64(c.size) {
		return MaxOffset
	}

	return uint64(c.page) * uint64(c.size)
}

// Unpaged returns a copy of c without its window, used to count matches.
func (c Criteria) Unpaged() Criteria {
	c.paged = false
	c.page = 0

	return c
}

func EmailQuery(filter *EmailCriteria, request PageRequest) Criteria {
	return NewCriteria().
		WhereSpec(filter.Specification()).
		Distinct(filter.IsDistinct()).
		WithPageRequest(request).
		Build()
}

func EmployeeQuery(filter *EmployeeCriteria, request PageRequest) Criteria {
	return NewCriteria().
		WhereSpec(filter.Specification()).
		Distinct(filter.IsDistinct()).
		WithPageRequest(request).
		Build()
}
