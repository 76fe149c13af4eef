package model_test

import (
	"testing"

	"github.com/architeacher/reporting/services/svc-reporting/internal/domain/model"
	"github.com/stretchr/testify/require"
)

func TestComparisonSpecs(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name          string
		spec          model.Specification
		expectedOp    model.SpecOperator
		expectedField string
		expectedValue any
	}{
		{
			name:          "equals",
			spec:          model.Eq("address", "a@example.com"),
			expectedOp:    model.SpecOpEq,
			expectedField: "address",
			expectedValue: "a@example.com",
		},
		{
			name:          "not equals",
			spec:          model.NotEq("id", int64(3)),
			expectedOp:    model.SpecOpNotEq,
			expectedField: "id",
			expectedValue: int64(3),
		},
		{
			name:          "greater than",
			spec:          model.Gt("salary", 1000.5),
			expectedOp:    model.SpecOpGt,
			expectedField: "salary",
			expectedValue: 1000.5,
		},
		{
			name:          "greater than or equal",
			spec:          model.Gte("id", int64(1)),
			expectedOp:    model.SpecOpGte,
			expectedField: "id",
			expectedValue: int64(1),
		},
		{
			name:          "less than",
			spec:          model.Lt("id", int64(9)),
			expectedOp:    model.SpecOpLt,
			expectedField: "id",
			expectedValue: int64(9),
		},
		{
			name:          "less than or equal",
			spec:          model.Lte("id", int64(9)),
			expectedOp:    model.SpecOpLte,
			expectedField: "id",
			expectedValue: int64(9),
		},
		{
			name:          "contains",
			spec:          model.Contains("address", "example"),
			expectedOp:    model.SpecOpContains,
			expectedField: "address",
			expectedValue: "example",
		},
		{
			name:          "does not contain",
			spec:          model.NotContains("address", "spam"),
			expectedOp:    model.SpecOpNotContains,
			expectedField: "address",
			expectedValue: "spam",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tc.expectedOp, tc.spec.Operator())
			require.Equal(t, tc.expectedField, tc.spec.Field())
			require.Equal(t, tc.expectedValue, tc.spec.Value())
			require.False(t, tc.spec.IsComposite())
			require.Nil(t, tc.spec.Children())
		})
	}
}

func TestInSpecs(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name           string
		spec           model.Specification
		expectedOp     model.SpecOperator
		expectedValues []any
	}{
		{
			name:           "in with values",
			spec:           model.In("id", int64(1), int64(2)),
			expectedOp:     model.SpecOpIn,
			expectedValues: []any{int64(1), int64(2)},
		},
		{
			name:           "in without values",
			spec:           model.In("id"),
			expectedOp:     model.SpecOpIn,
			expectedValues: []any{},
		},
		{
			name:           "not in",
			spec:           model.NotIn("id", int64(7)),
			expectedOp:     model.SpecOpNotIn,
			expectedValues: []any{int64(7)},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tc.expectedOp, tc.spec.Operator())
			require.Equal(t, "id", tc.spec.Field())
			require.Equal(t, tc.expectedValues, tc.spec.Value())
		})
	}
}

func TestNullSpecs(t *testing.T) {
	t.Parallel()

	require.Equal(t, model.SpecOpIsNull, model.IsNull("employeeId").Operator())
	require.Equal(t, model.SpecOpNotNull, model.NotNull("employeeId").Operator())
	require.Nil(t, model.IsNull("employeeId").Value())
}

func TestMustSpec(t *testing.T) {
	t.Parallel()

	spec := model.Must(
		model.Eq("id", int64(1)),
		model.Contains("address", "x"),
	)

	require.Equal(t, model.SpecOpMust, spec.Operator())
	require.True(t, spec.IsComposite())
	require.Len(t, spec.Children(), 2)
	require.Empty(t, spec.Field())
	require.Nil(t, spec.Value())
}

func TestMustSpec_AppendDoesNotShareChildren(t *testing.T) {
	t.Parallel()

	base := model.Must(model.Eq("id", int64(1)), model.Eq("id", int64(2)))

	first := base.Must(model.Eq("id", int64(3)))
	second := base.Must(model.Eq("id", int64(4)))

	require.Len(t, base.Children(), 2)
	require.Equal(t, int64(3), first.Children()[2].Value())
	require.Equal(t, int64(4), second.Children()[2].Value())
}

func TestShouldSpec(t *testing.T) {
	t.Parallel()

	spec := model.Should(model.Eq("id", int64(1)), model.Eq("id", int64(2)))

	require.Equal(t, model.SpecOpShould, spec.Operator())
	require.Len(t, spec.Children(), 2)
}

func TestMustNotSpec(t *testing.T) {
	t.Parallel()

	inner := model.Contains("address", "spam")
	spec := model.MustNot(inner)

	require.Equal(t, model.SpecOpMustNot, spec.Operator())
	require.Len(t, spec.Children(), 1)
	require.Equal(t, inner, spec.Children()[0])
	require.Equal(t, inner, spec.MustNot())
}

func TestJoinSpec(t *testing.T) {
	t.Parallel()

	inner := model.Eq("id", int64(5))
	spec := model.Join(model.RelationEmployee, inner)

	require.Equal(t, model.SpecOpJoin, spec.Operator())
	require.Equal(t, model.RelationEmployee, spec.Field())
	require.True(t, spec.IsComposite())
	require.Equal(t, []model.Specification{inner}, spec.Children())
	require.Equal(t, model.SpecOpMustNot, spec.MustNot().Operator())
}

func TestChainedMethods(t *testing.T) {
	t.Parallel()

	spec := model.Eq("id", int64(1)).
		Must(model.Contains("address", "a")).
		Should(model.IsNull("employeeId"))

	require.Equal(t, model.SpecOpShould, spec.Operator())
	require.Equal(t, model.SpecOpMust, spec.Children()[0].Operator())
	require.Equal(t, model.SpecOpIsNull, spec.Children()[1].Operator())
}

func TestSpecOperator_IsComparison(t *testing.T) {
	t.Parallel()

	require.True(t, model.SpecOpEq.IsComparison())
	require.True(t, model.SpecOpLte.IsComparison())
	require.False(t, model.SpecOpContains.IsComparison())
	require.False(t, model.SpecOpIn.IsComparison())
	require.False(t, model.SpecOpJoin.IsComparison())
}
