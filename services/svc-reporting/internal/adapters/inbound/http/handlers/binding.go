package handlers

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"net/url"
	"slices"
	"strings"

	"github.com/architeacher/reporting/services/svc-reporting/internal/domain/model"
	"github.com/oapi-codegen/runtime"
)

const (
	opEquals             = "equals"
	opNotEquals          = "notEquals"
	opIn                 = "in"
	opNotIn              = "notIn"
	opSpecified          = "specified"
	opGreaterThan        = "greaterThan"
	opGreaterThanOrEqual = "greaterThanOrEqual"
	opLessThan           = "lessThan"
	opLessThanOrEqual    = "lessThanOrEqual"
	opContains           = "contains"
	opDoesNotContain     = "doesNotContain"

	paramPage     = "page"
	paramSize     = "size"
	paramSort     = "sort"
	paramDistinct = "distinct"
)

var errNonFinite = errors.New("value must be a finite number")

// nonFinite reports NaN and infinities, which stores order differently.
func nonFinite(value any) bool {
	f, ok := value.(float64)

	return ok && (math.IsNaN(f) || math.IsInf(f, 0))
}

// queryBinder binds "<attribute>.<operator>" query parameters onto filter
// slots. Every key it binds is remembered so that unknown filter keys can
// be rejected afterwards.
type queryBinder struct {
	query url.Values
	bound map[string]struct{}
	errs  []error
}

func newQueryBinder(query url.Values) *queryBinder {
	return &queryBinder{query: query, bound: make(map[string]struct{})}
}

// err reports every binding failure plus any "<attribute>.<operator>" key
// that no filter slot claimed.
func (b *queryBinder) err() error {
	unknown := make([]string, 0)

	for key := range b.query {
		if _, ok := b.bound[key]; !ok && strings.Contains(key, ".") {
			unknown = append(unknown, key)
		}
	}

	slices.Sort(unknown)

	for _, key := range unknown {
		b.errs = append(b.errs, fmt.Errorf("%w: unsupported filter %q", model.ErrInvalidFilter, key))
	}

	return errors.Join(b.errs...)
}

func (b *queryBinder) present(key string) bool {
	_, ok := b.query[key]
	if ok {
		b.bound[key] = struct{}{}
	}

	return ok
}

func (b *queryBinder) fail(key string, err error) {
	b.errs = append(b.errs, fmt.Errorf("%w: %s: %v", model.ErrInvalidFilter, key, err))
}

func bindValue[T any](b *queryBinder, key string, dest **T) {
	if !b.present(key) {
		return
	}

	if err := runtime.BindQueryParameter("form", true, false, key, b.query, dest); err != nil {
		b.fail(key, err)

		return
	}

	if *dest != nil && nonFinite(**dest) {
		b.fail(key, errNonFinite)
	}
}

// bindList reads a comma separated list. An empty value yields an empty,
// non-nil list.
func bindList[T any](b *queryBinder, key string, dest *[]T) {
	if !b.present(key) {
		return
	}

	if values := b.query[key]; len(values) == 1 && values[0] == "" {
		*dest = []T{}

		return
	}

	var values *[]T

	if err := runtime.BindQueryParameter("form", false, false, key, b.query, &values); err != nil {
		b.fail(key, err)

		return
	}

	if values == nil {
		return
	}

	if slices.ContainsFunc(*values, func(value T) bool { return nonFinite(value) }) {
		b.fail(key, errNonFinite)

		return
	}

	*dest = *values
}

func bindFilter[T comparable](b *queryBinder, attribute string, filter *model.Filter[T]) {
	bindValue(b, attribute+"."+opEquals, &filter.Equals)
	bindValue(b, attribute+"."+opNotEquals, &filter.NotEquals)
	bindList(b, attribute+"."+opIn, &filter.In)
	bindList(b, attribute+"."+opNotIn, &filter.NotIn)
	bindValue(b, attribute+"."+opSpecified, &filter.Specified)
}

func bindRangeFilter[T cmp.Ordered](b *queryBinder, attribute string, filter *model.RangeFilter[T]) {
	bindFilter(b, attribute, &filter.Filter)
	bindValue(b, attribute+"."+opGreaterThan, &filter.GreaterThan)
	bindValue(b, attribute+"."+opGreaterThanOrEqual, &filter.GreaterThanOrEqual)
	bindValue(b, attribute+"."+opLessThan, &filter.LessThan)
	bindValue(b, attribute+"."+opLessThanOrEqual, &filter.LessThanOrEqual)
}

func bindStringFilter(b *queryBinder, attribute string, filter *model.StringFilter) {
	bindFilter(b, attribute, &filter.Filter)
	bindValue(b, attribute+"."+opContains, &filter.Contains)
	bindValue(b, attribute+"."+opDoesNotContain, &filter.DoesNotContain)
}

// bindEmailCriteria returns nil when the query carries no email filter.
func bindEmailCriteria(query url.Values) (*model.EmailCriteria, error) {
	b := newQueryBinder(query)
	criteria := &model.EmailCriteria{}

	bindRangeFilter(b, model.EmailFieldID, &criteria.ID)
	bindStringFilter(b, model.EmailFieldAddress, &criteria.Address)
	bindRangeFilter(b, model.EmailFieldEmployeeID, &criteria.EmployeeID)
	bindValue(b, paramDistinct, &criteria.Distinct)

	if err := b.err(); err != nil {
		return nil, err
	}

	if criteria.IsZero() {
		return nil, nil
	}

	return criteria, nil
}

// bindEmployeeCriteria returns nil when the query carries no employee filter.
func bindEmployeeCriteria(query url.Values) (*model.EmployeeCriteria, error) {
	b := newQueryBinder(query)
	criteria := &model.EmployeeCriteria{}

	bindRangeFilter(b, model.EmployeeFieldID, &criteria.ID)
	bindStringFilter(b, model.EmployeeFieldFirstName, &criteria.FirstName)
	bindStringFilter(b, model.EmployeeFieldLastName, &criteria.LastName)
	bindRangeFilter(b, model.EmployeeFieldSalary, &criteria.Salary)
	bindFilter(b, model.EmployeeFieldActive, &criteria.Active)
	bindValue(b, paramDistinct, &criteria.Distinct)

	if err := b.err(); err != nil {
		return nil, err
	}

	if criteria.IsZero() {
		return nil, nil
	}

	return criteria, nil
}

// bindPageRequest reads page (zero-based), size and repeated sort keys.
// Sizes above model.MaxPageSize are clamped by the criteria builder.
func bindPageRequest(query url.Values) (model.PageRequest, error) {
	request := model.DefaultPageRequest()

	var page, size *int64

	if err := runtime.BindQueryParameter("form", true, false, paramPage, query, &page); err != nil {
		return request, fmt.Errorf("%w: page: %v", model.ErrInvalidPageRequest, err)
	}

	if err := runtime.BindQueryParameter("form", true, false, paramSize, query, &size); err != nil {
		return request, fmt.Errorf("%w: size: %v", model.ErrInvalidPageRequest, err)
	}

	if page != nil {
		if *page < 0 {
			return request, fmt.Errorf("%w: page must not be negative", model.ErrInvalidPageRequest)
		}

		request.Page = uint(*page)
	}

	if size != nil {
		if *size < 1 {
			return request, fmt.Errorf("%w: size must be positive", model.ErrInvalidPageRequest)
		}

		request.Size = uint(*size)
	}

	if err := request.Validate(); err != nil {
		return request, err
	}

	sort, err := bindSort(query)
	if err != nil {
		return request, err
	}

	request.Sort = sort

	return request, nil
}

func bindSort(query url.Values) ([]model.SortField, error) {
	values := query[paramSort]
	sort := make([]model.SortField, 0, len(values))

	for _, value := range values {
		field, err := model.ParseSort(value)
		if err != nil {
			return nil, err
		}

		sort = append(sort, field)
	}

	return sort, nil
}
