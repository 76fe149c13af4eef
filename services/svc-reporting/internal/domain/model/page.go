package model

import (
	"fmt"
	"strings"
)

type (
	// PageRequest selects a zero-based page. Unpaged requests return every match.
	PageRequest struct {
		Page    uint
		Size    uint
		Sort    []SortField
		Unpaged bool
	}

	Page[T any] struct {
		Items         []T
		Page          uint
		Size          uint
		TotalElements uint64
		TotalPages    uint
	}
)

// Validate rejects pages whose first row lies beyond MaxOffset for the
// effective page size.
func (r PageRequest) Validate() error {
	if r.Unpaged {
		return nil
	}

	size := r.Size
	if size == 0 {
		size = DefaultPageSize
	}

	size = min(size, MaxPageSize)

	if uint64(r.Page) > MaxOffset/uint64(size) {
		return fmt.Errorf("%w: page %d is out of range for size %d", ErrInvalidPageRequest, r.Page, size)
	}

	return nil
}

func DefaultPageRequest() PageRequest {
	return PageRequest{Size: DefaultPageSize}
}

func UnpagedRequest(sort ...SortField) PageRequest {
	return PageRequest{Unpaged: true, Sort: sort}
}

// ParseSort parses "field" or "field,asc|desc" into a SortField.
func ParseSort(value string) (SortField, error) {
	field, direction, found := strings.Cut(strings.TrimSpace(value), ",")
	field = strings.TrimSpace(field)

	if field == "" {
		return SortField{}, fmt.Errorf("%w: empty sort field", ErrInvalidPageRequest)
	}

	if !found {
		return SortField{Field: field, Direction: SortAsc}, nil
	}

	switch strings.ToUpper(strings.TrimSpace(direction)) {
	case string(SortAsc), "":
		return SortField{Field: field, Direction: SortAsc}, nil
	case string(SortDesc):
		return SortField{Field: field, Direction: SortDesc}, nil
	default:
		return SortField{}, fmt.Errorf("%w: unknown sort direction %q", ErrInvalidPageRequest, direction)
	}
}

func NewPage[T any](items []T, criteria Criteria, total uint64) *Page[T] {
	if items == nil {
		items = make([]T, 0)
	}

	page := &Page[T]{
		Items:         items,
		Page:          criteria.Page(),
		Size:          criteria.Size(),
		TotalElements: total,
	}

	if page.Size > 0 {
		page.TotalPages = uint((total + uint64(page.Size) - 1) / uint64(page.Size))
	}

	return page
}

func (p *Page[T]) HasNext() bool {
	return p.Page+1 < p.TotalPages
}

func (p *Page[T]) HasPrevious() bool {
	return p.Page > 0
}

func (p *Page[T]) IsLast() bool {
	return !p.HasNext()
}
