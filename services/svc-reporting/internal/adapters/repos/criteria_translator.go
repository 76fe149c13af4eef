package repos

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/architeacher/reporting/pkg/logger"
	"github.com/architeacher/reporting/services/svc-reporting/internal/domain/model"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type (
	CriteriaTranslator struct {
		schema *TableSchema
		logger *logger.Logger
	}

	// translation collects the joins required while walking a spec tree so
	// each relation is joined once, in order of first use.
	translation struct {
		joins []string
		seen  map[string]struct{}
	}
)

func NewCriteriaTranslator(schema *TableSchema, log *logger.Logger) *CriteriaTranslator {
	return &CriteriaTranslator{schema: schema, logger: log}
}

// ApplyToSelect adds joins, conditions, ordering and the page window.
func (t *CriteriaTranslator) ApplyToSelect(builder sq.SelectBuilder, criteria model.Criteria) (sq.SelectBuilder, error) {
	builder, err := t.ApplyConditionsOnly(builder, criteria)
	if err != nil {
		return builder, err
	}

	builder = t.applySorting(builder, criteria)
	builder = t.applyPagination(builder, criteria)

	return builder, nil
}

// ApplyConditionsOnly adds the joins and the WHERE clause for criteria. A
// criteria without spec leaves builder untouched.
func (t *CriteriaTranslator) ApplyConditionsOnly(builder sq.SelectBuilder, criteria model.Criteria) (sq.SelectBuilder, error) {
	if !criteria.HasSpec() {
		return builder, nil
	}

	state := &translation{seen: make(map[string]struct{})}

	condition, err := t.translateSpec(t.schema, criteria.Spec(), state)
	if err != nil {
		return builder, err
	}

	for _, join := range state.joins {
		builder = builder.LeftJoin(join)
	}

	return builder.Where(condition), nil
}

func (t *CriteriaTranslator) translateSpec(schema *TableSchema, spec model.Specification, state *translation) (sq.Sqlizer, error) {
	switch spec.Operator() {
	case model.SpecOpMust, model.SpecOpShould:
		conditions := make([]sq.Sqlizer, 0, len(spec.Children()))

		for _, child := range spec.Children() {
			condition, err := t.translateSpec(schema, child, state)
			if err != nil {
				return nil, err
			}

			conditions = append(conditions, condition)
		}

		if spec.Operator() == model.SpecOpShould {
			return sq.Or(conditions), nil
		}

		return sq.And(conditions), nil

	case model.SpecOpMustNot:
		inner, err := t.translateSpec(schema, spec.Children()[0], state)
		if err != nil {
			return nil, err
		}

		return sq.Expr("NOT (?)", inner), nil

	case model.SpecOpJoin:
		relation, ok := schema.Relations[spec.Field()]
		if !ok {
			return nil, fmt.Errorf("%w: unknown relation %q on %s", model.ErrInvalidFilter, spec.Field(), schema.Table)
		}

		state.join(relation.joinClause(schema))

		return t.translateSpec(relation.Target, spec.Children()[0], state)
	}

	column, ok := schema.Column(spec.Field())
	if !ok {
		return nil, fmt.Errorf("%w: unknown field %q on %s", model.ErrInvalidFilter, spec.Field(), schema.Table)
	}

	return translateLeaf(column, spec)
}

func translateLeaf(column string, spec model.Specification) (sq.Sqlizer, error) {
	switch spec.Operator() {
	case model.SpecOpEq:
		return sq.Eq{column: spec.Value()}, nil
	case model.SpecOpNotEq:
		return sq.NotEq{column: spec.Value()}, nil
	case model.SpecOpGt:
		return sq.Gt{column: spec.Value()}, nil
	case model.SpecOpGte:
		return sq.GtOrEq{column: spec.Value()}, nil
	case model.SpecOpLt:
		return sq.Lt{column: spec.Value()}, nil
	case model.SpecOpLte:
		return sq.LtOrEq{column: spec.Value()}, nil
	case model.SpecOpIn:
		return sq.Eq{column: spec.Value()}, nil
	case model.SpecOpNotIn:
		values, _ := spec.Value().([]any)
		if len(values) == 0 {
			return sq.NotEq{column: nil}, nil
		}

		return sq.NotEq{column: values}, nil
	case model.SpecOpContains:
		return sq.ILike{column: containsPattern(spec.Value())}, nil
	case model.SpecOpNotContains:
		return sq.NotILike{column: containsPattern(spec.Value())}, nil
	case model.SpecOpIsNull:
		return sq.Eq{column: nil}, nil
	case model.SpecOpNotNull:
		return sq.NotEq{column: nil}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported operator %q", model.ErrInvalidFilter, spec.Operator())
	}
}

func containsPattern(value any) string {
	return "%" + likeEscaper.Replace(fmt.Sprint(value)) + "%"
}

func (s *translation) join(clause string) {
	if _, ok := s.seen[clause]; ok {
		return
	}

	s.seen[clause] = struct{}{}
	s.joins = append(s.joins, clause)
}

func (t *CriteriaTranslator) sortColumn(field string) string {
	if column, ok := t.schema.Column(field); ok {
		return column
	}

	fallback, _ := t.schema.Column(t.schema.DefaultSort)

	if t.logger != nil {
		t.logger.Warn().
			Str("field", field).
			Str("fallback", fallback).
			Msg("unknown sort field requested, falling back to default")
	}

	return fallback
}

// applySorting always ends with the default column so that pages are stable.
func (t *CriteriaTranslator) applySorting(builder sq.SelectBuilder, c model.Criteria) sq.SelectBuilder {
	defaultColumn, _ := t.schema.Column(t.schema.DefaultSort)
	sortedByDefault := false

	for _, s := range c.Sorting() {
		column := t.sortColumn(s.Field)
		if column == defaultColumn {
			sortedByDefault = true
		}

		builder = builder.OrderBy(fmt.Sprintf("%s %s", column, s.Direction))
	}

	if !sortedByDefault {
		builder = builder.OrderBy(fmt.Sprintf("%s %s", defaultColumn, model.SortAsc))
	}

	return builder
}

func (t *CriteriaTranslator) applyPagination(builder sq.SelectBuilder, c model.Criteria) sq.SelectBuilder {
	if !c.HasPagination() {
		return builder
	}

	return builder.Limit(uint64(c.Size())).Offset(c.Offset())
}
