package domain

import "time"

// Department represents an organizational unit. Whitelist holds the designation
// titles sanctioned for the department; it binds by title, not by id.
type Department struct {
	ID             string
	OrganizationID string
	Name           string
	Description    string
	Whitelist      []string
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// HasWhitelist reports whether the department restricts its designations.
func (d *Department) HasWhitelist() bool {
	if d == nil {
		return false
	}
	for _, title := range d.Whitelist {
		if title != "" {
			return true
		}
	}
	return false
}

// DepartmentInput carries the fields accepted when creating or replacing a department.
// A nil IsActive keeps the current state (active on create).
type DepartmentInput struct {
	Name        string
	Description string
	Whitelist   []string
	IsActive    *bool
}
