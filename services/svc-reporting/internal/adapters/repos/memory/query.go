package memory

import (
	"slices"

	"github.com/architeacher/reporting/pkg/logger"
	"github.com/architeacher/reporting/services/svc-reporting/internal/domain/model"
)

const idField = "id"

// selectRows filters rows by the criteria spec and orders them. The result
// always ends up ordered by id so that windows are stable.
func selectRows[T any](rows []T, toRecord func(T) record, criteria model.Criteria, log *logger.Logger) ([]T, error) {
	matched := make([]T, 0, len(rows))

	for _, row := range rows {
		ok, err := matches(criteria.Spec(), toRecord(row))
		if err != nil {
			return nil, err
		}

		if ok {
			matched = append(matched, row)
		}
	}

	sorting := resolveSorting(criteria.Sorting(), toRecord, rows, log)

	slices.SortStableFunc(matched, func(a, b T) int {
		return compareRecords(toRecord(a), toRecord(b), sorting)
	})

	return matched, nil
}

// window cuts the page selected by criteria out of rows.
func window[T any](rows []T, criteria model.Criteria) []T {
	if !criteria.HasPagination() {
		return rows
	}

	offset := criteria.Offset()
	if offset >= uint64(len(rows)) {
		return rows[len(rows):]
	}

	start := int(offset)
	end := start + min(int(criteria.Size()), len(rows)-start)

	return rows[start:end]
}

func resolveSorting[T any](requested []model.SortField, toRecord func(T) record, rows []T, log *logger.Logger) []model.SortField {
	sorting := make([]model.SortField, 0, len(requested)+1)
	sortedByID := false

	var sample record
	if len(rows) > 0 {
		sample = toRecord(rows[0])
	}

	for _, s := range requested {
		field := s.Field

		if sample != nil {
			if _, ok := sample.value(field); !ok {
				if log != nil {
					log.Warn().
						Str("field", field).
						Str("fallback", idField).
						Msg("unknown sort field requested, falling back to default")
				}

				field = idField
			}
		}

		if field == idField {
			sortedByID = true
		}

		sorting = append(sorting, model.SortField{Field: field, Direction: s.Direction})
	}

	if !sortedByID {
		sorting = append(sorting, model.SortField{Field: idField, Direction: model.SortAsc})
	}

	return sorting
}

// compareRecords orders NULL after every value ascending and before every
// value descending.
func compareRecords(a, b record, sorting []model.SortField) int {
	for _, s := range sorting {
		left, _ := a.value(s.Field)
		right, _ := b.value(s.Field)

		var order int

		switch {
		case left == nil && right == nil:
			order = 0
		case left == nil:
			order = 1
		case right == nil:
			order = -1
		default:
			order, _ = compareValues(left, right)
		}

		if s.Direction == model.SortDesc {
			order = -order
		}

		if order != 0 {
			return order
		}
	}

	return 0
}
