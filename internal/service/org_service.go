package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/orgchart-service/internal/domain"
	"github.com/spec-kit/orgchart-service/internal/events"
	"github.com/spec-kit/orgchart-service/internal/hierarchy"
	"github.com/spec-kit/orgchart-service/internal/repository"
	apperrors "github.com/spec-kit/orgchart-service/pkg/util/errorutil"
)

// OrgService manages departments and employees.
type OrgService struct {
	departments repository.DepartmentRepository
	employees   repository.EmployeeRepository
	dispatcher  events.Dispatcher
	logger      *zap.Logger
	maxDepth    int
}

// OrgDependencies encapsulates repositories required for org management.
type OrgDependencies struct {
	DepartmentRepo repository.DepartmentRepository
	EmployeeRepo   repository.EmployeeRepository
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
	// MaxDepth bounds the manager chain walk on reassignment; 0 means 64.
	MaxDepth int
}

// EmployeeListFilters define listing parameters.
type EmployeeListFilters struct {
	DepartmentID *string
	Designation  *string
	Active       *bool
	Limit        int
	Offset       int
}

// NewOrgService constructs the service.
func NewOrgService(deps OrgDependencies) *OrgService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	maxDepth := deps.MaxDepth
	if maxDepth <= 0 {
		maxDepth = 64
	}
	return &OrgService{
		departments: deps.DepartmentRepo,
		employees:   deps.EmployeeRepo,
		dispatcher:  deps.Dispatcher,
		logger:      logger,
		maxDepth:    maxDepth,
	}
}

// CreateDepartment creates a new department.
func (s *OrgService) CreateDepartment(ctx context.Context, orgID string, input domain.DepartmentInput) (*domain.Department, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	dept := &domain.Department{
		OrganizationID: orgID,
		Name:           name,
		Description:    strings.TrimSpace(input.Description),
		Whitelist:      NormalizeWhitelist(input.Whitelist),
		IsActive:       input.IsActive == nil || *input.IsActive,
	}
	if err := s.departments.Create(ctx, dept); err != nil {
		return nil, apperrors.MapError(err)
	}
	return dept, nil
}

// ListDepartments returns departments (optionally inactive).
func (s *OrgService) ListDepartments(ctx context.Context, orgID string, includeInactive bool) ([]domain.Department, error) {
	list, err := s.departments.List(ctx, orgID, includeInactive)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}

// GetDepartment fetches a department.
func (s *OrgService) GetDepartment(ctx context.Context, orgID, id string) (*domain.Department, error) {
	dept, err := s.departments.GetByID(ctx, orgID, id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewNotFound("department", map[string]any{"department_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return dept, nil
}

// UpdateDepartment replaces department metadata and its whitelist.
func (s *OrgService) UpdateDepartment(ctx context.Context, orgID, id string, input domain.DepartmentInput) (*domain.Department, error) {
	dept, err := s.GetDepartment(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	dept.Name = name
	dept.Description = strings.TrimSpace(input.Description)
	dept.Whitelist = NormalizeWhitelist(input.Whitelist)
	if input.IsActive != nil {
		dept.IsActive = *input.IsActive
	}
	if err := s.departments.Update(ctx, dept); err != nil {
		return nil, apperrors.MapError(err)
	}
	return dept, nil
}

// DeleteDepartment removes a department. Designations and employees scoped to it
// lose their department_id; they are kept.
func (s *OrgService) DeleteDepartment(ctx context.Context, orgID, id string) error {
	if err := s.departments.Delete(ctx, orgID, id); err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.NewNotFound("department", map[string]any{"department_id": id})
		}
		return apperrors.MapError(err)
	}
	return nil
}

// CreateEmployee adds a staff record. ReportsTo must name an existing employee.
func (s *OrgService) CreateEmployee(ctx context.Context, orgID string, input domain.EmployeeInput) (*domain.Employee, error) {
	emp := &domain.Employee{OrganizationID: orgID, Active: true}
	if err := s.applyEmployeeInput(ctx, emp, input); err != nil {
		return nil, err
	}
	if err := s.employees.Create(ctx, emp); err != nil {
		return nil, apperrors.MapError(err)
	}
	return emp, nil
}

// ListEmployees lists employees with filters.
func (s *OrgService) ListEmployees(ctx context.Context, orgID string, filters EmployeeListFilters) ([]domain.Employee, error) {
	list, err := s.employees.List(ctx, orgID, repository.EmployeeFilter{
		DepartmentID: filters.DepartmentID,
		Designation:  filters.Designation,
		Active:       filters.Active,
		Limit:        filters.Limit,
		Offset:       filters.Offset,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}

// GetEmployee fetches one employee.
func (s *OrgService) GetEmployee(ctx context.Context, orgID, id string) (*domain.Employee, error) {
	emp, err := s.employees.GetByID(ctx, orgID, id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewNotFound("employee", map[string]any{"employee_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return emp, nil
}

// UpdateEmployee updates employee details. A changed manager is rejected when it
// would place the employee under its own subordinates.
func (s *OrgService) UpdateEmployee(ctx context.Context, orgID, id string, input domain.EmployeeInput) (*domain.Employee, error) {
	emp, err := s.GetEmployee(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	oldReportsTo := emp.ReportsTo
	if err := s.applyEmployeeInput(ctx, emp, input); err != nil {
		return nil, err
	}
	if err := s.employees.Update(ctx, emp); err != nil {
		return nil, apperrors.MapError(err)
	}

	if !sameOptional(oldReportsTo, emp.ReportsTo) {
		publishEvent(ctx, s.dispatcher, s.logger, events.EventEmployeeReassigned, orgID, emp.DepartmentID, events.EmployeeReassignedPayload{
			EmployeeID:   emp.ID,
			OldReportsTo: oldReportsTo,
			NewReportsTo: emp.ReportsTo,
		})
	}
	return emp, nil
}

// DeleteEmployee removes an employee. Direct reports are not reparented.
func (s *OrgService) DeleteEmployee(ctx context.Context, orgID, id string) error {
	if err := s.employees.Delete(ctx, orgID, id); err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.NewNotFound("employee", map[string]any{"employee_id": id})
		}
		return apperrors.MapError(err)
	}
	return nil
}

func (s *OrgService) applyEmployeeInput(ctx context.Context, emp *domain.Employee, input domain.EmployeeInput) error {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return apperrors.NewValidationError("name required", nil)
	}
	designation := strings.TrimSpace(input.Designation)
	if designation == "" {
		return apperrors.NewValidationError("designation required", nil)
	}

	departmentID := trimmedRef(input.DepartmentID)
	if departmentID != nil && !sameOptional(departmentID, emp.DepartmentID) {
		dept, err := s.departments.GetByID(ctx, emp.OrganizationID, *departmentID)
		if err != nil {
			if apperrors.IsNotFound(err) {
				return apperrors.NewValidationError("department does not exist", map[string]any{"department_id": *departmentID})
			}
			return apperrors.MapError(err)
		}
		if !dept.IsActive {
			return apperrors.NewConflict("DEPARTMENT_INACTIVE", "department inactive", map[string]any{"department_id": *departmentID})
		}
	}

	reportsTo := trimmedRef(input.ReportsTo)
	if reportsTo != nil && !sameOptional(reportsTo, emp.ReportsTo) {
		if err := s.checkManager(ctx, emp, *reportsTo); err != nil {
			return err
		}
	}

	emp.Name = name
	emp.Email = strings.TrimSpace(input.Email)
	emp.Designation = designation
	emp.DepartmentID = departmentID
	emp.ReportsTo = reportsTo
	if input.Active != nil {
		emp.Active = *input.Active
	}
	return nil
}

// checkManager verifies managerID exists and that its manager chain does not
// lead back to emp.
func (s *OrgService) checkManager(ctx context.Context, emp *domain.Employee, managerID string) error {
	if emp.ID != "" && managerID == emp.ID {
		return apperrors.NewValidationError("employee cannot report to itself", map[string]any{"employee_id": emp.ID})
	}
	manager, err := s.employees.GetByID(ctx, emp.OrganizationID, managerID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.NewValidationError("reports_to must reference an existing employee", map[string]any{"reports_to": managerID})
		}
		return apperrors.MapError(err)
	}
	if emp.ID == "" {
		return nil
	}

	seen := map[string]struct{}{manager.ID: {}}
	current := manager
	for depth := 0; current.ReportsTo != nil && depth < s.maxDepth; depth++ {
		next := *current.ReportsTo
		if next == emp.ID {
			return apperrors.NewConflict("REPORTING_CYCLE", "reassignment would create a reporting cycle", map[string]any{
				"employee_id": emp.ID,
				"reports_to":  managerID,
			})
		}
		if _, ok := seen[next]; ok {
			return nil
		}
		seen[next] = struct{}{}
		current, err = s.employees.GetByID(ctx, emp.OrganizationID, next)
		if err != nil {
			if apperrors.IsNotFound(err) {
				return nil
			}
			return apperrors.MapError(err)
		}
	}
	return nil
}

// NormalizeWhitelist trims titles and drops blanks and case-insensitive
// duplicates, keeping the first spelling in order.
func NormalizeWhitelist(titles []string) []string {
	out := make([]string, 0, len(titles))
	seen := make(map[string]struct{}, len(titles))
	for _, t := range titles {
		title := strings.TrimSpace(t)
		key := hierarchy.NormalizeTitle(title)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, title)
	}
	return out
}

func sameOptional(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
