package repos

import "github.com/architeacher/reporting/services/svc-reporting/internal/domain/model"

const (
	emailTable    = "email"
	employeeTable = "employee"
)

type (
	// TableSchema whitelists the attributes a criteria may reference and maps
	// them onto columns of Table.
	TableSchema struct {
		Table       string
		Columns     map[string]string
		DefaultSort string
		Relations   map[string]Relation
	}

	// Relation describes a to-one reference reachable through a LEFT JOIN.
	Relation struct {
		LocalColumn   string
		ForeignColumn string
		Target        *TableSchema
	}
)

var (
	employeeSchema = &TableSchema{
		Table: employeeTable,
		Columns: map[string]string{
			model.EmployeeFieldID:        "id",
			model.EmployeeFieldFirstName: "first_name",
			model.EmployeeFieldLastName:  "last_name",
			model.EmployeeFieldSalary:    "salary",
			model.EmployeeFieldActive:    "active",
		},
		DefaultSort: model.EmployeeFieldID,
	}

	emailSchema = &TableSchema{
		Table: emailTable,
		Columns: map[string]string{
			model.EmailFieldID:         "id",
			model.EmailFieldAddress:    "address",
			model.EmailFieldEmployeeID: "employee_id",
		},
		DefaultSort: model.EmailFieldID,
		Relations: map[string]Relation{
			model.RelationEmployee: {
				LocalColumn:   "employee_id",
				ForeignColumn: "id",
				Target:        employeeSchema,
			},
		},
	}
)

func EmailSchema() *TableSchema    { return emailSchema }
func EmployeeSchema() *TableSchema { return employeeSchema }

// Column returns the table-qualified column for field.
func (s *TableSchema) Column(field string) (string, bool) {
	column, ok := s.Columns[field]
	if !ok {
		return "", false
	}

	return s.Table + "." + column, true
}

func (r Relation) joinClause(owner *TableSchema) string {
	return r.Target.Table + " ON " +
		r.Target.Table + "." + r.ForeignColumn + " = " +
		owner.Table + "." + r.LocalColumn
}
