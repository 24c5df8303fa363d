package events

import (
	"time"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventDesignationCreated  EventType = "designation_created"
	EventDesignationDeleted  EventType = "designation_deleted"
	EventWhitelistReconciled EventType = "whitelist_reconciled"
	EventEmployeeReassigned  EventType = "employee_reassigned"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID             string    `json:"id"`
	Type           EventType `json:"type"`
	OrganizationID string    `json:"organization_id"`
	DepartmentID   *string   `json:"department_id,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
	Payload        any       `json:"payload"`
}

// DesignationCreatedPayload payload.
type DesignationCreatedPayload struct {
	DesignationID string `json:"designation_id"`
	Title         string `json:"title"`
	Level         int    `json:"level"`
}

// DesignationDeletedPayload payload.
type DesignationDeletedPayload struct {
	DesignationID string `json:"designation_id"`
	Title         string `json:"title"`
}

// WhitelistReconciledPayload payload.
type WhitelistReconciledPayload struct {
	Created      []string `json:"created"`
	FailedTitles []string `json:"failed_titles,omitempty"`
	Sanctioned   int      `json:"sanctioned"`
}

// EmployeeReassignedPayload payload.
type EmployeeReassignedPayload struct {
	EmployeeID   string  `json:"employee_id"`
	OldReportsTo *string `json:"old_reports_to,omitempty"`
	NewReportsTo *string `json:"new_reports_to,omitempty"`
}
