package employee

import (
	"context"
	"errors"
	"fmt"

	"github.com/buildform/siteops-backend-go/internal/domain/employee"
	"github.com/buildform/siteops-backend-go/internal/domain/site"
)

type EmployeeServiceImpl struct {
	employeeRepo employee.EmployeeRepository
	siteRepo     site.SiteRepository
}

func NewEmployeeService(employeeRepo employee.EmployeeRepository, siteRepo site.SiteRepository) employee.EmployeeService {
	return &EmployeeServiceImpl{
		employeeRepo: employeeRepo,
		siteRepo:     siteRepo,
	}
}

// Create implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Create(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	// Assignment must reference a registered site.
	if req.SiteCode != nil && *req.SiteCode != "" {
		if _, err := s.siteRepo.GetByCode(ctx, *req.SiteCode); err != nil {
			if errors.Is(err, site.ErrSiteNotFound) {
				return employee.EmployeeResponse{}, site.ErrSiteNotFound
			}
			return employee.EmployeeResponse{}, fmt.Errorf("failed to verify site: %w", err)
		}
	}

	created, err := s.employeeRepo.Create(ctx, employee.Employee{
		Code:     req.Code,
		FullName: req.FullName,
		Role:     req.Role,
		SiteCode: req.SiteCode,
		Phone:    req.Phone,
		Status:   employee.EmploymentActive,
	})
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeCodeExists) {
			return employee.EmployeeResponse{}, employee.ErrEmployeeCodeExists
		}
		return employee.EmployeeResponse{}, fmt.Errorf("failed to create employee: %w", err)
	}

	return mapEmployeeToResponse(created), nil
}

// Get implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Get(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	found, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.EmployeeResponse{}, employee.ErrEmployeeNotFound
		}
		return employee.EmployeeResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return mapEmployeeToResponse(found), nil
}

// Update implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Update(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	existing, err := s.employeeRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.EmployeeResponse{}, employee.ErrEmployeeNotFound
		}
		return employee.EmployeeResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	if req.FullName != nil {
		existing.FullName = *req.FullName
	}
	if req.Role != nil {
		existing.Role = *req.Role
	}
	if req.SiteCode != nil {
		if *req.SiteCode != "" {
			if _, err := s.siteRepo.GetByCode(ctx, *req.SiteCode); err != nil {
				if errors.Is(err, site.ErrSiteNotFound) {
					return employee.EmployeeResponse{}, site.ErrSiteNotFound
				}
				return employee.EmployeeResponse{}, fmt.Errorf("failed to verify site: %w", err)
			}
		}
		existing.SiteCode = req.SiteCode
	}
	if req.Phone != nil {
		existing.Phone = req.Phone
	}
	if req.Status != nil {
		existing.Status = employee.EmploymentStatus(*req.Status)
	}

	if err := s.employeeRepo.Update(ctx, existing); err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to update employee: %w", err)
	}

	updated, err := s.employeeRepo.GetByID(ctx, req.ID)
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to get updated employee: %w", err)
	}
	return mapEmployeeToResponse(updated), nil
}

// List implements employee.EmployeeService.
func (s *EmployeeServiceImpl) List(ctx context.Context, siteCode *string, role *string) ([]employee.EmployeeResponse, error) {
	employees, err := s.employeeRepo.List(ctx, siteCode, role)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, found := range employees {
		responses = append(responses, mapEmployeeToResponse(found))
	}
	return responses, nil
}

func mapEmployeeToResponse(e employee.Employee) employee.EmployeeResponse {
	return employee.EmployeeResponse{
		ID:       e.ID,
		Code:     e.Code,
		FullName: e.FullName,
		Role:     e.Role,
		SiteCode: e.SiteCode,
		Phone:    e.Phone,
		Status:   string(e.Status),
	}
}
