package memory

import (
	"github.com/architeacher/reporting/services/svc-reporting/internal/domain/model"
)

var employeeFields = map[string]struct{}{
	model.EmployeeFieldID:        {},
	model.EmployeeFieldFirstName: {},
	model.EmployeeFieldLastName:  {},
	model.EmployeeFieldSalary:    {},
	model.EmployeeFieldActive:    {},
}

type (
	emailRecord struct {
		email     *model.Email
		employees map[int64]*model.Employee
	}

	employeeRecord struct {
		employee *model.Employee
	}
)

func (r emailRecord) value(field string) (any, bool) {
	switch field {
	case model.EmailFieldID:
		return r.email.ID, true
	case model.EmailFieldAddress:
		return r.email.Address, true
	case model.EmailFieldEmployeeID:
		if r.email.EmployeeID == nil {
			return nil, true
		}

		return *r.email.EmployeeID, true
	default:
		return nil, false
	}
}

// related follows the employee reference the way a LEFT JOIN does: an email
// without a matching employee joins a row of NULLs.
func (r emailRecord) related(relation string) (record, bool) {
	if relation != model.RelationEmployee {
		return nil, false
	}

	if r.email.EmployeeID != nil {
		if employee, ok := r.employees[*r.email.EmployeeID]; ok {
			return employeeRecord{employee: employee}, true
		}
	}

	return nullRecord{fields: employeeFields}, true
}

func (r employeeRecord) value(field string) (any, bool) {
	switch field {
	case model.EmployeeFieldID:
		return r.employee.ID, true
	case model.EmployeeFieldFirstName:
		return r.employee.FirstName, true
	case model.EmployeeFieldLastName:
		return r.employee.LastName, true
	case model.EmployeeFieldSalary:
		if r.employee.Salary == nil {
			return nil, true
		}

		return *r.employee.Salary, true
	case model.EmployeeFieldActive:
		return r.employee.Active, true
	default:
		return nil, false
	}
}

func (r employeeRecord) related(string) (record, bool) {
	return nil, false
}
