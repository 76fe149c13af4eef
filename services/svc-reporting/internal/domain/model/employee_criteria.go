package model

import (
	"strconv"
	"strings"
)

type EmployeeCriteria struct {
	ID        LongFilter
	FirstName StringFilter
	LastName  StringFilter
	Salary    DoubleFilter
	Active    BooleanFilter
	Distinct  *bool
}

func (c *EmployeeCriteria) IsZero() bool {
	return c == nil || (c.ID.IsZero() &&
		c.FirstName.IsZero() &&
		c.LastName.IsZero() &&
		c.Salary.IsZero() &&
		c.Active.IsZero() &&
		c.Distinct == nil)
}

func (c *EmployeeCriteria) Copy() *EmployeeCriteria {
	if c == nil {
		return nil
	}

	return &EmployeeCriteria{
		ID:        c.ID.Copy(),
		FirstName: c.FirstName.Copy(),
		LastName:  c.LastName.Copy(),
		Salary:    c.Salary.Copy(),
		Active:    c.Active.Copy(),
		Distinct:  clonePtr(c.Distinct),
	}
}

func (c *EmployeeCriteria) Equal(other *EmployeeCriteria) bool {
	if c.IsZero() || other.IsZero() {
		return c.IsZero() && other.IsZero()
	}

	return c.ID.Equal(other.ID) &&
		c.FirstName.Equal(other.FirstName) &&
		c.LastName.Equal(other.LastName) &&
		c.Salary.Equal(other.Salary) &&
		c.Active.Equal(other.Active) &&
		equalPtr(c.Distinct, other.Distinct)
}

func (c *EmployeeCriteria) IsDistinct() bool {
	return c != nil && c.Distinct != nil && *c.Distinct
}

func (c *EmployeeCriteria) Specification() Specification {
	if c == nil {
		return nil
	}

	return conjunction([]Specification{
		RangeSpecification(EmployeeFieldID, c.ID),
		StringSpecification(EmployeeFieldFirstName, c.FirstName),
		StringSpecification(EmployeeFieldLastName, c.LastName),
		RangeSpecification(EmployeeFieldSalary, c.Salary),
		FilterSpecification(EmployeeFieldActive, c.Active),
	})
}

func (c *EmployeeCriteria) String() string {
	var builder strings.Builder

	builder.WriteString("EmployeeCriteria{")

	if c != nil {
		writeCriterion(&builder, "id", c.ID.IsZero(), c.ID.String)
		writeCriterion(&builder, "firstName", c.FirstName.IsZero(), c.FirstName.String)
		writeCriterion(&builder, "lastName", c.LastName.IsZero(), c.LastName.String)
		writeCriterion(&builder, "salary", c.Salary.IsZero(), c.Salary.String)
		writeCriterion(&builder, "active", c.Active.IsZero(), c.Active.String)

		if c.Distinct != nil {
			writeCriterion(&builder, "distinct", false, func() string { return strconv.FormatBool(*c.Distinct) })
		}
	}

	builder.WriteString("}")

	return builder.String()
}
