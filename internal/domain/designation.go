package domain

import "time"

// Designation is a ranked role definition. Lower levels are more senior.
type Designation struct {
	ID             string
	OrganizationID string
	Title          string
	Level          int
	ReportsTo      *string
	DepartmentID   *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// DesignationInput carries the fields accepted when creating or updating a designation.
type DesignationInput struct {
	Title        string
	Level        int
	ReportsTo    *string
	DepartmentID *string
}

// DefaultDesignationLevel is assigned to designations materialized from a whitelist.
const DefaultDesignationLevel = 1
