package dto

import (
	"time"

	"github.com/spec-kit/orgchart-service/internal/domain"
)

// EmployeeRequest payload for creating or replacing an employee.
type EmployeeRequest struct {
	Name         string  `json:"name" validate:"required,max=200"`
	Email        string  `json:"email" validate:"omitempty,email"`
	Designation  string  `json:"designation" validate:"required,max=200"`
	ReportsTo    *string `json:"reports_to"`
	DepartmentID *string `json:"department_id"`
	Active       *bool   `json:"active"`
}

// Input converts the request into a service input.
func (r EmployeeRequest) Input() domain.EmployeeInput {
	return domain.EmployeeInput{
		Name:         r.Name,
		Email:        r.Email,
		Designation:  r.Designation,
		ReportsTo:    r.ReportsTo,
		DepartmentID: r.DepartmentID,
		Active:       r.Active,
	}
}

// EmployeeResponse response payload.
type EmployeeResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email,omitempty"`
	Designation  string    `json:"designation"`
	ReportsTo    *string   `json:"reports_to,omitempty"`
	DepartmentID *string   `json:"department_id,omitempty"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewEmployeeResponse maps a domain employee.
func NewEmployeeResponse(e *domain.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:           e.ID,
		Name:         e.Name,
		Email:        e.Email,
		Designation:  e.Designation,
		ReportsTo:    e.ReportsTo,
		DepartmentID: e.DepartmentID,
		Active:       e.Active,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

// NewEmployeeList maps a slice of employees.
func NewEmployeeList(list []domain.Employee) []EmployeeResponse {
	out := make([]EmployeeResponse, 0, len(list))
	for i := range list {
		out = append(out, NewEmployeeResponse(&list[i]))
	}
	return out
}
