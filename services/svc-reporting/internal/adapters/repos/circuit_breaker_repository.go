package repos

import (
	"context"
	"errors"

	"github.com/architeacher/reporting/pkg/circuitbreaker"
	"github.com/architeacher/reporting/services/svc-reporting/internal/domain/model"
	"github.com/architeacher/reporting/services/svc-reporting/internal/ports"
)

type (
	// CircuitBreakerEmailRepository guards every email repository call with a
	// circuit breaker.
	CircuitBreakerEmailRepository struct {
		base    ports.EmailRepository
		breaker *circuitbreaker.CircuitBreaker[any]
	}

	// CircuitBreakerEmployeeRepository guards every employee repository call
	// with a circuit breaker.
	CircuitBreakerEmployeeRepository struct {
		base    ports.EmployeeRepository
		breaker *circuitbreaker.CircuitBreaker[any]
	}
)

var (
	_ ports.EmailRepository    = (*CircuitBreakerEmailRepository)(nil)
	_ ports.EmployeeRepository = (*CircuitBreakerEmployeeRepository)(nil)
)

// IsBreakerSuccess reports whether err says nothing about the health of the
// database: domain outcomes and cancellations do not trip the breaker.
func IsBreakerSuccess(err error) bool {
	if err == nil {
		return true
	}

	var validationErrs *model.ValidationErrors

	switch {
	case errors.As(err, &validationErrs),
		errors.Is(err, model.ErrEmailNotFound),
		errors.Is(err, model.ErrEmployeeNotFound),
		errors.Is(err, model.ErrEmployeeReferenced),
		errors.Is(err, model.ErrInvalidFilter),
		errors.Is(err, context.Canceled):
		return true
	default:
		return false
	}
}

func guard[T any](breaker *circuitbreaker.CircuitBreaker[any], fn func() (T, error)) (T, error) {
	result, err := circuitbreaker.Execute(breaker, func() (any, error) {
		return fn()
	})

	typed, _ := result.(T)

	return typed, err
}

func guardErr(breaker *circuitbreaker.CircuitBreaker[any], fn func() error) error {
	_, err := circuitbreaker.Execute(breaker, func() (any, error) {
		return nil, fn()
	})

	return err
}

func NewCircuitBreakerEmailRepository(base ports.EmailRepository, breaker *circuitbreaker.CircuitBreaker[any]) *CircuitBreakerEmailRepository {
	return &CircuitBreakerEmailRepository{base: base, breaker: breaker}
}

func (r *CircuitBreakerEmailRepository) FindAll(ctx context.Context, criteria model.Criteria) ([]*model.Email, error) {
	return guard(r.breaker, func() ([]*model.Email, error) { return r.base.FindAll(ctx, criteria) })
}

func (r *CircuitBreakerEmailRepository) FindPage(ctx context.Context, criteria model.Criteria) (*model.Page[*model.Email], error) {
	return guard(r.breaker, func() (*model.Page[*model.Email], error) { return r.base.FindPage(ctx, criteria) })
}

func (r *CircuitBreakerEmailRepository) Count(ctx context.Context, criteria model.Criteria) (int64, error) {
	return guard(r.breaker, func() (int64, error) { return r.base.Count(ctx, criteria) })
}

func (r *CircuitBreakerEmailRepository) FindByID(ctx context.Context, id int64) (*model.Email, error) {
	return guard(r.breaker, func() (*model.Email, error) { return r.base.FindByID(ctx, id) })
}

func (r *CircuitBreakerEmailRepository) Save(ctx context.Context, email *model.Email) error {
	return guardErr(r.breaker, func() error { return r.base.Save(ctx, email) })
}

func (r *CircuitBreakerEmailRepository) Update(ctx context.Context, email *model.Email) error {
	return guardErr(r.breaker, func() error { return r.base.Update(ctx, email) })
}

func (r *CircuitBreakerEmailRepository) Delete(ctx context.Context, id int64) error {
	return guardErr(r.breaker, func() error { return r.base.Delete(ctx, id) })
}

func NewCircuitBreakerEmployeeRepository(base ports.EmployeeRepository, breaker *circuitbreaker.CircuitBreaker[any]) *CircuitBreakerEmployeeRepository {
	return &CircuitBreakerEmployeeRepository{base: base, breaker: breaker}
}

func (r *CircuitBreakerEmployeeRepository) FindAll(ctx context.Context, criteria model.Criteria) ([]*model.Employee, error) {
	return guard(r.breaker, func() ([]*model.Employee, error) { return r.base.FindAll(ctx, criteria) })
}

func (r *CircuitBreakerEmployeeRepository) FindPage(ctx context.Context, criteria model.Criteria) (*model.Page[*model.Employee], error) {
	return guard(r.breaker, func() (*model.Page[*model.Employee], error) { return r.base.FindPage(ctx, criteria) })
}

func (r *CircuitBreakerEmployeeRepository) Count(ctx context.Context, criteria model.Criteria) (int64, error) {
	return guard(r.breaker, func() (int64, error) { return r.base.Count(ctx, criteria) })
}

func (r *CircuitBreakerEmployeeRepository) FindByID(ctx context.Context, id int64) (*model.Employee, error) {
	return guard(r.breaker, func() (*model.Employee, error) { return r.base.FindByID(ctx, id) })
}

func (r *CircuitBreakerEmployeeRepository) Save(ctx context.Context, employee *model.Employee) error {
	return guardErr(r.breaker, func() error { return r.base.Save(ctx, employee) })
}

func (r *CircuitBreakerEmployeeRepository) Update(ctx context.Context, employee *model.Employee) error {
	return guardErr(r.breaker, func() error { return r.base.Update(ctx, employee) })
}

func (r *CircuitBreakerEmployeeRepository) Delete(ctx context.Context, id int64) error {
	return guardErr(r.breaker, func() error { return r.base.Delete(ctx, id) })
}
