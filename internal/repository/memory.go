package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/orgchart-service/internal/domain"
	apperrors "github.com/spec-kit/orgchart-service/pkg/util/errorutil"
)

var (
	_ DesignationRepository = (*MemoryDesignationRepository)(nil)
	_ DepartmentRepository  = (*MemoryDepartmentRepository)(nil)
	_ EmployeeRepository    = (*MemoryEmployeeRepository)(nil)
)

// MemoryStore bundles in-memory repositories. It backs development runs without
// Postgres and the service tests.
type MemoryStore struct {
	Designations *MemoryDesignationRepository
	Departments  *MemoryDepartmentRepository
	Employees    *MemoryEmployeeRepository
}

// NewMemoryStore creates empty in-memory repositories. Deleting a department
// clears department_id on its designations and employees, like the
// ON DELETE SET NULL foreign keys of the Postgres schema.
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		Designations: &MemoryDesignationRepository{byID: map[string]*domain.Designation{}},
		Departments:  &MemoryDepartmentRepository{byID: map[string]*domain.Department{}},
		Employees:    &MemoryEmployeeRepository{byID: map[string]*domain.Employee{}},
	}
	s.Departments.onDelete = func(id string) {
		s.Designations.detachDepartment(id)
		s.Employees.detachDepartment(id)
	}
	return s
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func sameRef(a *string, b string) bool {
	return a != nil && *a == b
}

// MemoryDesignationRepository keeps designations in insertion order.
type MemoryDesignationRepository struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]*domain.Designation
}

func copyDesignation(d *domain.Designation) domain.Designation {
	out := *d
	out.ReportsTo = cloneString(d.ReportsTo)
	out.DepartmentID = cloneString(d.DepartmentID)
	return out
}

func (r *MemoryDesignationRepository) List(ctx context.Context, orgID string, departmentID *string) ([]domain.Designation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := []domain.Designation{}
	for _, id := range r.order {
		d := r.byID[id]
		if d.OrganizationID != orgID {
			continue
		}
		if departmentID != nil && !sameRef(d.DepartmentID, *departmentID) {
			continue
		}
		result = append(result, copyDesignation(d))
	}
	return result, nil
}

func (r *MemoryDesignationRepository) GetByID(ctx context.Context, orgID, id string) (*domain.Designation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.byID[id]
	if !ok || d.OrganizationID != orgID {
		return nil, apperrors.ErrNotFound
	}
	out := copyDesignation(d)
	return &out, nil
}

func (r *MemoryDesignationRepository) Create(ctx context.Context, d *domain.Designation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	d.CreatedAt = now
	d.UpdatedAt = now

	stored := copyDesignation(d)
	r.byID[d.ID] = &stored
	r.order = append(r.order, d.ID)
	return nil
}

func (r *MemoryDesignationRepository) Update(ctx context.Context, d *domain.Designation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[d.ID]
	if !ok || existing.OrganizationID != d.OrganizationID {
		return apperrors.ErrNotFound
	}
	d.CreatedAt = existing.CreatedAt
	d.UpdatedAt = time.Now().UTC()
	stored := copyDesignation(d)
	r.byID[d.ID] = &stored
	return nil
}

func (r *MemoryDesignationRepository) Delete(ctx context.Context, orgID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.byID[id]
	if !ok || d.OrganizationID != orgID {
		return apperrors.ErrNotFound
	}
	delete(r.byID, id)
	r.order = removeID(r.order, id)
	return nil
}

// MemoryDepartmentRepository keeps departments in insertion order.
type MemoryDepartmentRepository struct {
	mu       sync.RWMutex
	order    []string
	byID     map[string]*domain.Department
	onDelete func(id string)
}

func copyDepartment(d *domain.Department) domain.Department {
	out := *d
	if d.Whitelist != nil {
		out.Whitelist = append([]string(nil), d.Whitelist...)
	}
	return out
}

func (r *MemoryDepartmentRepository) List(ctx context.Context, orgID string, includeInactive bool) ([]domain.Department, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := []domain.Department{}
	for _, id := range r.order {
		d := r.byID[id]
		if d.OrganizationID != orgID || (!includeInactive && !d.IsActive) {
			continue
		}
		result = append(result, copyDepartment(d))
	}
	return result, nil
}

func (r *MemoryDepartmentRepository) GetByID(ctx context.Context, orgID, id string) (*domain.Department, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.byID[id]
	if !ok || d.OrganizationID != orgID {
		return nil, apperrors.ErrNotFound
	}
	out := copyDepartment(d)
	return &out, nil
}

func (r *MemoryDepartmentRepository) Create(ctx context.Context, dept *domain.Department) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if dept.ID == "" {
		dept.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	dept.CreatedAt = now
	dept.UpdatedAt = now

	stored := copyDepartment(dept)
	r.byID[dept.ID] = &stored
	r.order = append(r.order, dept.ID)
	return nil
}

func (r *MemoryDepartmentRepository) Update(ctx context.Context, dept *domain.Department) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[dept.ID]
	if !ok || existing.OrganizationID != dept.OrganizationID {
		return apperrors.ErrNotFound
	}
	dept.CreatedAt = existing.CreatedAt
	dept.UpdatedAt = time.Now().UTC()
	stored := copyDepartment(dept)
	r.byID[dept.ID] = &stored
	return nil
}

func (r *MemoryDepartmentRepository) Delete(ctx context.Context, orgID, id string) error {
	r.mu.Lock()
	d, ok := r.byID[id]
	if !ok || d.OrganizationID != orgID {
		r.mu.Unlock()
		return apperrors.ErrNotFound
	}
	delete(r.byID, id)
	r.order = removeID(r.order, id)
	r.mu.Unlock()

	if r.onDelete != nil {
		r.onDelete(id)
	}
	return nil
}

func (r *MemoryDesignationRepository) detachDepartment(departmentID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.byID {
		if sameRef(d.DepartmentID, departmentID) {
			d.DepartmentID = nil
		}
	}
}

// MemoryEmployeeRepository keeps employees in insertion order.
type MemoryEmployeeRepository struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]*domain.Employee
}

func copyEmployee(e *domain.Employee) domain.Employee {
	out := *e
	out.ReportsTo = cloneString(e.ReportsTo)
	out.DepartmentID = cloneString(e.DepartmentID)
	return out
}

func (r *MemoryEmployeeRepository) List(ctx context.Context, orgID string, filter EmployeeFilter) ([]domain.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := []domain.Employee{}
	for _, id := range r.order {
		e := r.byID[id]
		if e.OrganizationID != orgID {
			continue
		}
		if filter.DepartmentID != nil && !sameRef(e.DepartmentID, *filter.DepartmentID) {
			continue
		}
		if filter.Designation != nil && !strings.EqualFold(e.Designation, *filter.Designation) {
			continue
		}
		if filter.Active != nil && e.Active != *filter.Active {
			continue
		}
		result = append(result, copyEmployee(e))
	}

	if filter.Limit > 0 {
		offset := filter.Offset
		if offset < 0 {
			offset = 0
		}
		if offset >= len(result) {
			return []domain.Employee{}, nil
		}
		end := offset + filter.Limit
		if end > len(result) {
			end = len(result)
		}
		result = result[offset:end]
	}
	return result, nil
}

func (r *MemoryEmployeeRepository) GetByID(ctx context.Context, orgID, id string) (*domain.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byID[id]
	if !ok || e.OrganizationID != orgID {
		return nil, apperrors.ErrNotFound
	}
	out := copyEmployee(e)
	return &out, nil
}

func (r *MemoryEmployeeRepository) Create(ctx context.Context, emp *domain.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if emp.ID == "" {
		emp.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	emp.CreatedAt = now
	emp.UpdatedAt = now

	stored := copyEmployee(emp)
	r.byID[emp.ID] = &stored
	r.order = append(r.order, emp.ID)
	return nil
}

func (r *MemoryEmployeeRepository) Update(ctx context.Context, emp *domain.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[emp.ID]
	if !ok || existing.OrganizationID != emp.OrganizationID {
		return apperrors.ErrNotFound
	}
	emp.CreatedAt = existing.CreatedAt
	emp.UpdatedAt = time.Now().UTC()
	stored := copyEmployee(emp)
	r.byID[emp.ID] = &stored
	return nil
}

func (r *MemoryEmployeeRepository) Delete(ctx context.Context, orgID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.byID[id]
	if !ok || e.OrganizationID != orgID {
		return apperrors.ErrNotFound
	}
	delete(r.byID, id)
	r.order = removeID(r.order, id)
	return nil
}

func removeID(order []string, id string) []string {
	for i, v := range order {
		if v == id {
			return append(order[:i], order[i+1:]...)
		}
	}
	return order
}

func (r *MemoryEmployeeRepository) detachDepartment(departmentID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.byID {
		if sameRef(e.DepartmentID, departmentID) {
			e.DepartmentID = nil
		}
	}
}
