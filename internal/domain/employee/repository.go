package employee

import "context"

type EmployeeRepository interface {
	Create(ctx context.Context, e Employee) (Employee, error)
	GetByID(ctx context.Context, id string) (Employee, error)
	GetByCode(ctx context.Context, code string) (Employee, error)
	Update(ctx context.Context, e Employee) error
	List(ctx context.Context, siteCode *string, role *string) ([]Employee, error)
}
