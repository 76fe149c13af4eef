package model

import (
	"strconv"
	"strings"
)

// EmailCriteria is the filter specification for email queries. A nil
// *EmailCriteria and a zero one both match every email.
type EmailCriteria struct {
	ID         LongFilter
	Address    StringFilter
	EmployeeID LongFilter
	Distinct   *bool
}

func (c *EmailCriteria) IsZero() bool {
	return c == nil || (c.ID.IsZero() && c.Address.IsZero() && c.EmployeeID.IsZero() && c.Distinct == nil)
}

func (c *EmailCriteria) Copy() *EmailCriteria {
	if c == nil {
		return nil
	}

	return &EmailCriteria{
		ID:         c.ID.Copy(),
		Address:    c.Address.Copy(),
		EmployeeID: c.EmployeeID.Copy(),
		Distinct:   clonePtr(c.Distinct),
	}
}

func (c *EmailCriteria) Equal(other *EmailCriteria) bool {
	if c.IsZero() || other.IsZero() {
		return c.IsZero() && other.IsZero()
	}

	return c.ID.Equal(other.ID) &&
		c.Address.Equal(other.Address) &&
		c.EmployeeID.Equal(other.EmployeeID) &&
		equalPtr(c.Distinct, other.Distinct)
}

func (c *EmailCriteria) IsDistinct() bool {
	return c != nil && c.Distinct != nil && *c.Distinct
}

// Specification returns the AND of every active filter in declared order:
// id, address, employeeId. The employeeId filter is evaluated against the
// referenced employee through a left join.
func (c *EmailCriteria) Specification() Specification {
	if c == nil {
		return nil
	}

	return conjunction([]Specification{
		RangeSpecification(EmailFieldID, c.ID),
		StringSpecification(EmailFieldAddress, c.Address),
		JoinSpecification(RelationEmployee, RangeSpecification(EmployeeFieldID, c.EmployeeID)),
	})
}

func (c *EmailCriteria) String() string {
	var builder strings.Builder

	builder.WriteString("EmailCriteria{")

	if c != nil {
		writeCriterion(&builder, "id", c.ID.IsZero(), c.ID.String)
		writeCriterion(&builder, "address", c.Address.IsZero(), c.Address.String)
		writeCriterion(&builder, "employeeId", c.EmployeeID.IsZero(), c.EmployeeID.String)

		if c.Distinct != nil {
			writeCriterion(&builder, "distinct", false, func() string { return strconv.FormatBool(*c.Distinct) })
		}
	}

	builder.WriteString("}")

	return builder.String()
}

func writeCriterion(builder *strings.Builder, name string, zero bool, render func() string) {
	if zero {
		return
	}

	builder.WriteString(name)
	builder.WriteString("=")
	builder.WriteString(render())
	builder.WriteString(", ")
}
