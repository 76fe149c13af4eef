package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/architeacher/reporting/pkg/logger"
	"github.com/architeacher/reporting/services/svc-reporting/internal/domain/model"
)

type (
	// Store keeps emails and employees in memory. Reads hold the read lock for
	// the whole operation, so a page and its total come from one snapshot.
	Store struct {
		mu sync.RWMutex

		emails    map[int64]*model.Email
		employees map[int64]*model.Employee

		// emailsByEmployee indexes email IDs by the employee they reference.
		emailsByEmployee map[int64]map[int64]struct{}

		lastEmailID    int64
		lastEmployeeID int64

		logger logger.Logger
	}

	EmailsRepository struct {
		store *Store
	}

	EmployeesRepository struct {
		store *Store
	}
)

func NewStore(log logger.Logger) *Store {
	return &Store{
		emails:           make(map[int64]*model.Email),
		employees:        make(map[int64]*model.Employee),
		emailsByEmployee: make(map[int64]map[int64]struct{}),
		logger:           log,
	}
}

func (s *Store) Emails() *EmailsRepository {
	return &EmailsRepository{store: s}
}

func (s *Store) Employees() *EmployeesRepository {
	return &EmployeesRepository{store: s}
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) index(email *model.Email) {
	if email.EmployeeID == nil {
		return
	}

	ids, ok := s.emailsByEmployee[*email.EmployeeID]
	if !ok {
		ids = make(map[int64]struct{})
		s.emailsByEmployee[*email.EmployeeID] = ids
	}

	ids[email.ID] = struct{}{}
}

func (s *Store) unindex(email *model.Email) {
	if email.EmployeeID == nil {
		return
	}

	ids := s.emailsByEmployee[*email.EmployeeID]
	delete(ids, email.ID)

	if len(ids) == 0 {
		delete(s.emailsByEmployee, *email.EmployeeID)
	}
}

// emailCandidates narrows the scan through the employee index when the spec
// pins the referenced employee ID with equals or in. Any other spec scans
// every email.
func (s *Store) emailCandidates(spec model.Specification) []*model.Email {
	if ids, ok := indexedEmployeeIDs(spec); ok {
		candidates := make([]*model.Email, 0)

		for _, employeeID := range ids {
			for emailID := range s.emailsByEmployee[employeeID] {
				candidates = append(candidates, s.emails[emailID])
			}
		}

		return candidates
	}

	return slices.Collect(maps.Values(s.emails))
}

func indexedEmployeeIDs(spec model.Specification) ([]int64, bool) {
	if spec == nil {
		return nil, false
	}

	switch spec.Operator() {
	case model.SpecOpMust:
		for _, child := range spec.Children() {
			if ids, ok := indexedEmployeeIDs(child); ok {
				return ids, true
			}
		}

		return nil, false

	case model.SpecOpJoin:
		if spec.Field() != model.RelationEmployee {
			return nil, false
		}

		inner := spec.Children()[0]
		if inner.Field() != model.EmployeeFieldID {
			return nil, false
		}

		switch inner.Operator() {
		case model.SpecOpEq:
			id, ok := inner.Value().(int64)

			return []int64{id}, ok
		case model.SpecOpIn:
			values, _ := inner.Value().([]any)
			ids := make([]int64, 0, len(values))

			for _, value := range values {
				id, ok := value.(int64)
				if !ok {
					return nil, false
				}

				ids = append(ids, id)
			}

			return slices.Compact(slices.Sorted(slices.Values(ids))), true
		}
	}

	return nil, false
}

func (s *Store) emailRecord(email *model.Email) record {
	return emailRecord{email: email, employees: s.employees}
}

func employeeToRecord(employee *model.Employee) record {
	return employeeRecord{employee: employee}
}

func cloneAll[T interface{ Clone() T }](rows []T) []T {
	clones := make([]T, len(rows))

	for i, row := range rows {
		clones[i] = row.Clone()
	}

	return clones
}

func (r *EmailsRepository) selectLocked(criteria model.Criteria) ([]*model.Email, error) {
	return selectRows(r.store.emailCandidates(criteria.Spec()), r.store.emailRecord, criteria, &r.store.logger)
}

func (r *EmailsRepository) FindAll(ctx context.Context, criteria model.Criteria) ([]*model.Email, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	matched, err := r.selectLocked(criteria)
	if err != nil {
		return nil, err
	}

	return cloneAll(matched), nil
}

func (r *EmailsRepository) FindPage(ctx context.Context, criteria model.Criteria) (*model.Page[*model.Email], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	matched, err := r.selectLocked(criteria)
	if err != nil {
		return nil, err
	}

	return model.NewPage(cloneAll(window(matched, criteria)), criteria, uint64(len(matched))), nil
}

func (r *EmailsRepository) Count(ctx context.Context, criteria model.Criteria) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	matched, err := r.selectLocked(criteria.Unpaged())
	if err != nil {
		return 0, err
	}

	return int64(len(matched)), nil
}

func (r *EmailsRepository) FindByID(ctx context.Context, id int64) (*model.Email, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	email, ok := r.store.emails[id]
	if !ok {
		return nil, model.ErrEmailNotFound
	}

	return email.Clone(), nil
}

func (r *EmailsRepository) Save(ctx context.Context, email *model.Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if err := r.store.checkEmployeeExists(email.EmployeeID); err != nil {
		return err
	}

	r.store.lastEmailID++
	email.ID = r.store.lastEmailID

	stored := email.Clone()
	r.store.emails[stored.ID] = stored
	r.store.index(stored)

	return nil
}

func (r *EmailsRepository) Update(ctx context.Context, email *model.Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	current, ok := r.store.emails[email.ID]
	if !ok {
		return model.ErrEmailNotFound
	}

	if err := r.store.checkEmployeeExists(email.EmployeeID); err != nil {
		return err
	}

	r.store.unindex(current)

	stored := email.Clone()
	r.store.emails[stored.ID] = stored
	r.store.index(stored)

	return nil
}

func (r *EmailsRepository) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	current, ok := r.store.emails[id]
	if !ok {
		return model.ErrEmailNotFound
	}

	r.store.unindex(current)
	delete(r.store.emails, id)

	return nil
}

func (r *EmailsRepository) Ping(ctx context.Context) error {
	return r.store.Ping(ctx)
}

func (s *Store) checkEmployeeExists(employeeID *int64) error {
	if employeeID == nil {
		return nil
	}

	if _, ok := s.employees[*employeeID]; !ok {
		return model.ErrEmployeeNotFound
	}

	return nil
}

func (r *EmployeesRepository) selectLocked(criteria model.Criteria) ([]*model.Employee, error) {
	rows := slices.Collect(maps.Values(r.store.employees))

	return selectRows(rows, employeeToRecord, criteria, &r.store.logger)
}

func (r *EmployeesRepository) FindAll(ctx context.Context, criteria model.Criteria) ([]*model.Employee, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	matched, err := r.selectLocked(criteria)
	if err != nil {
		return nil, err
	}

	return cloneAll(matched), nil
}

func (r *EmployeesRepository) FindPage(ctx context.Context, criteria model.Criteria) (*model.Page[*model.Employee], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	matched, err := r.selectLocked(criteria)
	if err != nil {
		return nil, err
	}

	return model.NewPage(cloneAll(window(matched, criteria)), criteria, uint64(len(matched))), nil
}

func (r *EmployeesRepository) Count(ctx context.Context, criteria model.Criteria) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	matched, err := r.selectLocked(criteria.Unpaged())
	if err != nil {
		return 0, err
	}

	return int64(len(matched)), nil
}

func (r *EmployeesRepository) FindByID(ctx context.Context, id int64) (*model.Employee, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	employee, ok := r.store.employees[id]
	if !ok {
		return nil, model.ErrEmployeeNotFound
	}

	return employee.Clone(), nil
}

func (r *EmployeesRepository) Save(ctx context.Context, employee *model.Employee) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.lastEmployeeID++
	employee.ID = r.store.lastEmployeeID
	r.store.employees[employee.ID] = employee.Clone()

	return nil
}

func (r *EmployeesRepository) Update(ctx context.Context, employee *model.Employee) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.employees[employee.ID]; !ok {
		return model.ErrEmployeeNotFound
	}

	r.store.employees[employee.ID] = employee.Clone()

	return nil
}

func (r *EmployeesRepository) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.employees[id]; !ok {
		return model.ErrEmployeeNotFound
	}

	if len(r.store.emailsByEmployee[id]) > 0 {
		return model.ErrEmployeeReferenced
	}

	delete(r.store.employees, id)

	return nil
}

func (r *EmployeesRepository) Ping(ctx context.Context) error {
	return r.store.Ping(ctx)
}
