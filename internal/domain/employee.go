package domain

import "time"

// Employee models a staff record. Designation binds to a Designation by title and
// ReportsTo references another employee's ID.
type Employee struct {
	ID             string
	OrganizationID string
	Name           string
	Email          string
	Designation    string
	ReportsTo      *string
	DepartmentID   *string
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// EmployeeInput carries the fields accepted when creating or updating an employee.
type EmployeeInput struct {
	Name         string
	Email        string
	Designation  string
	ReportsTo    *string
	DepartmentID *string
	Active       *bool
}
