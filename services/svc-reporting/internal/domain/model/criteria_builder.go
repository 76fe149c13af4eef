package model

type CriteriaBuilder struct {
	specs    []Specification
	sorting  []SortField
	page     uint
	size     uint
	paged    bool
	distinct bool
}

func NewCriteria() *CriteriaBuilder {
	return &CriteriaBuilder{
		specs: make([]Specification, 0),
		size:  DefaultPageSize,
	}
}

func (b *CriteriaBuilder) Where(field string, value any) *CriteriaBuilder {
	b.specs = append(b.specs, Eq(field, value))

	return b
}

func (b *CriteriaBuilder) WhereIn(field string, values ...any) *CriteriaBuilder {
	b.specs = append(b.specs, In(field, values...))

	return b
}

func (b *CriteriaBuilder) WhereContains(field, substring string) *CriteriaBuilder {
	b.specs = append(b.specs, Contains(field, substring))

	return b
}

// WhereSpec adds spec to the conjunction; a nil spec is ignored.
func (b *CriteriaBuilder) WhereSpec(spec Specification) *CriteriaBuilder {
	if spec != nil {
		b.specs = append(b.specs, spec)
	}

	return b
}

func (b *CriteriaBuilder) WhereJoin(relation string, spec Specification) *CriteriaBuilder {
	return b.WhereSpec(JoinSpecification(relation, spec))
}

func (b *CriteriaBuilder) WhereMustNot(spec Specification) *CriteriaBuilder {
	b.specs = append(b.specs, MustNot(spec))

	return b
}

func (b *CriteriaBuilder) WhereShould(specs ...Specification) *CriteriaBuilder {
	b.specs = append(b.specs, Should(specs...))

	return b
}

func (b *CriteriaBuilder) OrderBy(field string) *CriteriaBuilder {
	direction := SortAsc
	actualField := field

	if len(field) > 0 && field[0] == '-' {
		direction = SortDesc
		actualField = field[1:]
	}

	b.sorting = append(b.sorting, SortField{Field: actualField, Direction: direction})

	return b
}

func (b *CriteriaBuilder) OrderBySort(sort ...SortField) *CriteriaBuilder {
	b.sorting = append(b.sorting, sort...)

	return b
}

// Paginate selects the zero-based page of the given size. A zero size keeps
// the default.
func (b *CriteriaBuilder) Paginate(page, size uint) *CriteriaBuilder {
	b.page = page
	b.paged = true

	if size > 0 {
		b.size = min(size, MaxPageSize)
	}

	return b
}

func (b *CriteriaBuilder) WithPageRequest(request PageRequest) *CriteriaBuilder {
	b.OrderBySort(request.Sort...)

	if request.Unpaged {
		return b
	}

	return b.Paginate(request.Page, request.Size)
}

func (b *CriteriaBuilder) Distinct(distinct bool) *CriteriaBuilder {
	b.distinct = distinct

	return b
}

func (b *CriteriaBuilder) Build() Criteria {
	return Criteria{
		spec:     conjunction(b.specs),
		sorting:  b.sorting,
		page:     b.page,
		size:     b.size,
		paged:    b.paged,
		distinct: b.distinct,
	}
}
