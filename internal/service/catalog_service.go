package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/orgchart-service/internal/domain"
	"github.com/spec-kit/orgchart-service/internal/events"
	"github.com/spec-kit/orgchart-service/internal/repository"
	apperrors "github.com/spec-kit/orgchart-service/pkg/util/errorutil"
)

// RoleCatalog is the organization-wide list of designations.
type RoleCatalog interface {
	AllForOrganization(ctx context.Context, orgID string) ([]domain.Designation, error)
	Create(ctx context.Context, orgID string, input domain.DesignationInput) (*domain.Designation, error)
}

// CatalogService manages designation records.
type CatalogService struct {
	designations repository.DesignationRepository
	dispatcher   events.Dispatcher
	logger       *zap.Logger
}

// CatalogDependencies bundles collaborators for the catalog.
type CatalogDependencies struct {
	DesignationRepo repository.DesignationRepository
	Dispatcher      events.Dispatcher
	Logger          *zap.Logger
}

// NewCatalogService constructs the service.
func NewCatalogService(deps CatalogDependencies) *CatalogService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{
		designations: deps.DesignationRepo,
		dispatcher:   deps.Dispatcher,
		logger:       logger,
	}
}

var _ RoleCatalog = (*CatalogService)(nil)

// AllForOrganization returns every designation of the organization in store order.
func (s *CatalogService) AllForOrganization(ctx context.Context, orgID string) ([]domain.Designation, error) {
	return s.designations.List(ctx, orgID, nil)
}

// ListByDepartment returns the designations scoped to one department.
func (s *CatalogService) ListByDepartment(ctx context.Context, orgID, departmentID string) ([]domain.Designation, error) {
	list, err := s.designations.List(ctx, orgID, &departmentID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}

// Create stores a new designation. Titles are not checked for uniqueness.
func (s *CatalogService) Create(ctx context.Context, orgID string, input domain.DesignationInput) (*domain.Designation, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("title required", nil)
	}
	level := input.Level
	if level <= 0 {
		level = domain.DefaultDesignationLevel
	}

	d := &domain.Designation{
		OrganizationID: orgID,
		Title:          title,
		Level:          level,
		ReportsTo:      trimmedRef(input.ReportsTo),
		DepartmentID:   trimmedRef(input.DepartmentID),
	}
	if err := s.designations.Create(ctx, d); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventDesignationCreated, orgID, d.DepartmentID, events.DesignationCreatedPayload{
		DesignationID: d.ID,
		Title:         d.Title,
		Level:         d.Level,
	})
	return d, nil
}

// Get fetches one designation.
func (s *CatalogService) Get(ctx context.Context, orgID, id string) (*domain.Designation, error) {
	d, err := s.designations.GetByID(ctx, orgID, id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewNotFound("designation", map[string]any{"designation_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return d, nil
}

// Update replaces the mutable fields of a designation.
func (s *CatalogService) Update(ctx context.Context, orgID, id string, input domain.DesignationInput) (*domain.Designation, error) {
	d, err := s.Get(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("title required", nil)
	}
	if input.Level <= 0 {
		return nil, apperrors.NewValidationError("level must be positive", map[string]any{"level": input.Level})
	}
	reportsTo := trimmedRef(input.ReportsTo)
	if reportsTo != nil && strings.EqualFold(*reportsTo, title) {
		return nil, apperrors.NewValidationError("designation cannot report to itself", map[string]any{"title": title})
	}

	d.Title = title
	d.Level = input.Level
	d.ReportsTo = reportsTo
	d.DepartmentID = trimmedRef(input.DepartmentID)
	if err := s.designations.Update(ctx, d); err != nil {
		return nil, apperrors.MapError(err)
	}
	return d, nil
}

// Delete removes a designation. Employees holding the title are left untouched.
func (s *CatalogService) Delete(ctx context.Context, orgID, id string) error {
	d, err := s.Get(ctx, orgID, id)
	if err != nil {
		return err
	}
	if err := s.designations.Delete(ctx, orgID, id); err != nil {
		return apperrors.MapError(err)
	}
	s.publish(ctx, events.EventDesignationDeleted, orgID, d.DepartmentID, events.DesignationDeletedPayload{
		DesignationID: d.ID,
		Title:         d.Title,
	})
	return nil
}

func (s *CatalogService) publish(ctx context.Context, eventType events.EventType, orgID string, departmentID *string, payload any) {
	publishEvent(ctx, s.dispatcher, s.logger, eventType, orgID, departmentID, payload)
}

func publishEvent(ctx context.Context, dispatcher events.Dispatcher, logger *zap.Logger, eventType events.EventType, orgID string, departmentID *string, payload any) {
	if dispatcher == nil {
		return
	}
	event := events.Event{
		ID:             uuid.NewString(),
		Type:           eventType,
		OrganizationID: orgID,
		DepartmentID:   departmentID,
		Timestamp:      time.Now().UTC(),
		Payload:        payload,
	}
	if err := dispatcher.Publish(ctx, event); err != nil {
		logger.Warn("event handler failed", zap.String("event_type", string(eventType)), zap.Error(err))
	}
}

func trimmedRef(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
