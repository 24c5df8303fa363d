package dto

import (
	"time"

	"github.com/spec-kit/orgchart-service/internal/domain"
)

// DepartmentRequest payload. Whitelist replaces the stored list.
type DepartmentRequest struct {
	Name        string   `json:"name" validate:"required,max=200"`
	Description string   `json:"description" validate:"max=2000"`
	Whitelist   []string `json:"whitelist" validate:"omitempty,dive,required,max=200"`
	IsActive    *bool    `json:"is_active"`
}

// Input converts the request into a service input.
func (r DepartmentRequest) Input() domain.DepartmentInput {
	return domain.DepartmentInput{
		Name:        r.Name,
		Description: r.Description,
		Whitelist:   r.Whitelist,
		IsActive:    r.IsActive,
	}
}

// DepartmentResponse response payload.
type DepartmentResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Whitelist   []string  `json:"whitelist"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewDepartmentResponse maps a domain department.
func NewDepartmentResponse(d *domain.Department) DepartmentResponse {
	whitelist := d.Whitelist
	if whitelist == nil {
		whitelist = []string{}
	}
	return DepartmentResponse{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Whitelist:   whitelist,
		IsActive:    d.IsActive,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}
