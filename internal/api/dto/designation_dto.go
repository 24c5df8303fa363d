package dto

import (
	"time"

	"github.com/spec-kit/orgchart-service/internal/domain"
)

// DesignationRequest payload for creating or replacing a designation.
type DesignationRequest struct {
	Title        string  `json:"title" validate:"required,max=200"`
	Level        int     `json:"level" validate:"omitempty,gte=1"`
	ReportsTo    *string `json:"reports_to" validate:"omitempty,max=200"`
	DepartmentID *string `json:"department_id"`
}

// Input converts the request into a service input.
func (r DesignationRequest) Input() domain.DesignationInput {
	return domain.DesignationInput{
		Title:        r.Title,
		Level:        r.Level,
		ReportsTo:    r.ReportsTo,
		DepartmentID: r.DepartmentID,
	}
}

// DesignationResponse response payload.
type DesignationResponse struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Level        int       `json:"level"`
	ReportsTo    *string   `json:"reports_to,omitempty"`
	DepartmentID *string   `json:"department_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewDesignationResponse maps a domain designation.
func NewDesignationResponse(d *domain.Designation) DesignationResponse {
	return DesignationResponse{
		ID:           d.ID,
		Title:        d.Title,
		Level:        d.Level,
		ReportsTo:    d.ReportsTo,
		DepartmentID: d.DepartmentID,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// NewDesignationList maps a slice of designations.
func NewDesignationList(list []domain.Designation) []DesignationResponse {
	out := make([]DesignationResponse, 0, len(list))
	for i := range list {
		out = append(out, NewDesignationResponse(&list[i]))
	}
	return out
}

// FailedTitleResponse names a whitelist title that could not be created.
type FailedTitleResponse struct {
	Title string `json:"title"`
	Error string `json:"error"`
}

// ReconciledDesignationsResponse is the department-scoped designation list.
type ReconciledDesignationsResponse struct {
	Designations []DesignationResponse `json:"designations"`
	Created      []DesignationResponse `json:"created"`
	Failed       []FailedTitleResponse `json:"failed"`
	Filtered     bool                  `json:"filtered"`
}
