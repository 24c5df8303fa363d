package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spec-kit/orgchart-service/internal/domain"
	"github.com/spec-kit/orgchart-service/internal/hierarchy"
	"github.com/spec-kit/orgchart-service/internal/observability"
	"github.com/spec-kit/orgchart-service/internal/repository"
	apperrors "github.com/spec-kit/orgchart-service/pkg/util/errorutil"
)

// HierarchyService builds department forests and answers manager eligibility questions.
type HierarchyService struct {
	reconciler  Reconciler
	departments repository.DepartmentRepository
	employees   repository.EmployeeRepository
	opts        hierarchy.Options
	metrics     *observability.Metrics
	logger      *zap.Logger
}

// HierarchyDependencies bundles collaborators for hierarchy queries.
type HierarchyDependencies struct {
	Reconciler     Reconciler
	DepartmentRepo repository.DepartmentRepository
	EmployeeRepo   repository.EmployeeRepository
	MaxDepth       int
	Metrics        *observability.Metrics
	Logger         *zap.Logger
}

// NewHierarchyService constructs the service.
func NewHierarchyService(deps HierarchyDependencies) *HierarchyService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HierarchyService{
		reconciler:  deps.Reconciler,
		departments: deps.DepartmentRepo,
		employees:   deps.EmployeeRepo,
		opts:        hierarchy.Options{MaxDepth: deps.MaxDepth},
		metrics:     deps.Metrics,
		logger:      logger,
	}
}

// DesignationTree is the role forest of a department together with the
// reconciliation it was built from.
type DesignationTree struct {
	Forest    *hierarchy.Forest[domain.Designation]
	Reconcile *ReconcileResult
}

// ManagerQuery selects the subordinate side of an eligibility lookup. When
// SubordinateID is set and Designation is empty, the employee's own title is used.
type ManagerQuery struct {
	Designation   string
	SubordinateID string
}

// ReconciledDesignations returns the sanctioned designations of a department.
func (s *HierarchyService) ReconciledDesignations(ctx context.Context, orgID, departmentID string) (*ReconcileResult, error) {
	return s.reconciler.Reconcile(ctx, orgID, departmentID)
}

// DesignationForest reconciles the department and builds its role forest.
func (s *HierarchyService) DesignationForest(ctx context.Context, orgID, departmentID string) (*DesignationTree, error) {
	result, err := s.reconciler.Reconcile(ctx, orgID, departmentID)
	if err != nil {
		return nil, err
	}
	forest, err := hierarchy.BuildDesignationForest(result.Designations, s.opts)
	if err != nil {
		return nil, s.forestError("designations", orgID, departmentID, err)
	}
	s.metrics.ObserveForest("designations", forest.Len())
	return &DesignationTree{Forest: forest, Reconcile: result}, nil
}

// StaffForest builds the reporting forest over the department's active employees.
// Employees whose manager is outside the department become roots.
func (s *HierarchyService) StaffForest(ctx context.Context, orgID, departmentID string) (*hierarchy.Forest[domain.Employee], error) {
	var staff []domain.Employee
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.ensureDepartment(gctx, orgID, departmentID)
	})
	g.Go(func() error {
		var err error
		staff, err = s.activeStaff(gctx, orgID, departmentID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	forest, err := hierarchy.BuildEmployeeForest(staff, s.opts)
	if err != nil {
		return nil, s.forestError("employees", orgID, departmentID, err)
	}
	s.metrics.ObserveForest("employees", forest.Len())
	return forest, nil
}

// EligibleManagers lists the active department employees that a holder of the
// queried designation may report to.
func (s *HierarchyService) EligibleManagers(ctx context.Context, orgID, departmentID string, query ManagerQuery) ([]domain.Employee, error) {
	var (
		result      *ReconcileResult
		staff       []domain.Employee
		subordinate domain.Employee
	)
	subordinate.Designation = strings.TrimSpace(query.Designation)
	if subordinate.Designation == "" && strings.TrimSpace(query.SubordinateID) == "" {
		return nil, apperrors.NewValidationError("designation or subordinate_id required", nil)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		result, err = s.reconciler.Reconcile(gctx, orgID, departmentID)
		return err
	})
	g.Go(func() error {
		var err error
		staff, err = s.activeStaff(gctx, orgID, departmentID)
		return err
	})
	if query.SubordinateID != "" {
		g.Go(func() error {
			emp, err := s.employee(gctx, orgID, query.SubordinateID)
			if err != nil {
				return err
			}
			subordinate.ID = emp.ID
			if subordinate.Designation == "" {
				subordinate.Designation = emp.Designation
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if subordinate.Designation == "" {
		return nil, apperrors.NewValidationError("designation or subordinate_id required", nil)
	}

	return hierarchy.NewRankIndex(result.Designations).EligibleManagers(subordinate, staff), nil
}

// SelectableDesignations lists the sanctioned designations a new hire reporting
// to managerID may hold.
func (s *HierarchyService) SelectableDesignations(ctx context.Context, orgID, departmentID, managerID string) ([]domain.Designation, error) {
	var (
		result  *ReconcileResult
		manager *domain.Employee
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		result, err = s.reconciler.Reconcile(gctx, orgID, departmentID)
		return err
	})
	g.Go(func() error {
		var err error
		manager, err = s.employee(gctx, orgID, managerID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return hierarchy.NewRankIndex(result.Designations).SelectableDesignations(manager.Designation, result.Designations), nil
}

// CanReportTo reports whether subordinateID may report to managerID under the
// department's sanctioned ranks. An employee never reports to itself.
func (s *HierarchyService) CanReportTo(ctx context.Context, orgID, departmentID, subordinateID, managerID string) (bool, error) {
	var (
		result           *ReconcileResult
		subordinate, mgr *domain.Employee
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		result, err = s.reconciler.Reconcile(gctx, orgID, departmentID)
		return err
	})
	g.Go(func() error {
		var err error
		subordinate, err = s.employee(gctx, orgID, subordinateID)
		return err
	})
	g.Go(func() error {
		var err error
		mgr, err = s.employee(gctx, orgID, managerID)
		return err
	})
	if err := g.Wait(); err != nil {
		return false, err
	}
	if subordinate.ID == mgr.ID {
		return false, nil
	}
	return hierarchy.NewRankIndex(result.Designations).CanReportTo(subordinate.Designation, mgr.Designation), nil
}

func (s *HierarchyService) ensureDepartment(ctx context.Context, orgID, departmentID string) error {
	if _, err := s.departments.GetByID(ctx, orgID, departmentID); err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.NewNotFound("department", map[string]any{"department_id": departmentID})
		}
		return apperrors.MapError(err)
	}
	return nil
}

func (s *HierarchyService) activeStaff(ctx context.Context, orgID, departmentID string) ([]domain.Employee, error) {
	active := true
	staff, err := s.employees.List(ctx, orgID, repository.EmployeeFilter{
		DepartmentID: &departmentID,
		Active:       &active,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return staff, nil
}

func (s *HierarchyService) employee(ctx context.Context, orgID, id string) (*domain.Employee, error) {
	emp, err := s.employees.GetByID(ctx, orgID, id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewNotFound("employee", map[string]any{"employee_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return emp, nil
}

func (s *HierarchyService) forestError(kind, orgID, departmentID string, err error) error {
	s.logger.Warn("forest build rejected",
		zap.String("kind", kind),
		zap.String("organization_id", orgID),
		zap.String("department_id", departmentID),
		zap.Error(err))

	var cycle *hierarchy.CycleError
	if errors.As(err, &cycle) {
		return apperrors.NewUnprocessable("HIERARCHY_CYCLE", "reporting references form a cycle", map[string]any{
			"kind": kind,
			"keys": cycle.Keys,
		})
	}
	if errors.Is(err, hierarchy.ErrDepthExceeded) {
		return apperrors.NewUnprocessable("HIERARCHY_TOO_DEEP", "hierarchy exceeds maximum depth", map[string]any{
			"kind":      kind,
			"max_depth": s.opts.MaxDepth,
		})
	}
	return apperrors.NewInternalError(err)
}
