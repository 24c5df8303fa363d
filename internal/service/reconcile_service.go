package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/orgchart-service/internal/domain"
	"github.com/spec-kit/orgchart-service/internal/events"
	"github.com/spec-kit/orgchart-service/internal/hierarchy"
	"github.com/spec-kit/orgchart-service/internal/lock"
	"github.com/spec-kit/orgchart-service/internal/observability"
	"github.com/spec-kit/orgchart-service/internal/repository"
	apperrors "github.com/spec-kit/orgchart-service/pkg/util/errorutil"
)

// FailedTitle is a whitelist title that could not be materialized.
type FailedTitle struct {
	Title string
	Err   error
}

// ReconcileResult is the department-scoped designation set after reconciliation.
type ReconcileResult struct {
	// Designations is sorted by level ascending.
	Designations []domain.Designation
	Created      []domain.Designation
	Failed       []FailedTitle
	// Filtered is false when the department has no whitelist and the whole
	// catalog is returned.
	Filtered bool
}

// FailedTitles returns the titles in Failed.
func (r *ReconcileResult) FailedTitles() []string {
	out := make([]string, 0, len(r.Failed))
	for _, f := range r.Failed {
		out = append(out, f.Title)
	}
	return out
}

// Reconciler produces the sanctioned designations of a department.
type Reconciler interface {
	Reconcile(ctx context.Context, orgID, departmentID string) (*ReconcileResult, error)
}

// ReconcileService diffs a department whitelist against the role catalog and
// creates missing designations.
type ReconcileService struct {
	catalog     RoleCatalog
	departments repository.DepartmentRepository
	locker      lock.Locker
	lockWait    time.Duration
	dispatcher  events.Dispatcher
	metrics     *observability.Metrics
	logger      *zap.Logger
}

// ReconcileDependencies bundles collaborators for reconciliation.
type ReconcileDependencies struct {
	Catalog        RoleCatalog
	DepartmentRepo repository.DepartmentRepository
	Locker         lock.Locker
	LockWait       time.Duration
	Dispatcher     events.Dispatcher
	Metrics        *observability.Metrics
	Logger         *zap.Logger
}

// NewReconcileService constructs the service. Without a Locker reconciliations
// are serialized in-process.
func NewReconcileService(deps ReconcileDependencies) *ReconcileService {
	locker := deps.Locker
	if locker == nil {
		locker = lock.NewLocalLocker()
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReconcileService{
		catalog:     deps.Catalog,
		departments: deps.DepartmentRepo,
		locker:      locker,
		lockWait:    deps.LockWait,
		dispatcher:  deps.Dispatcher,
		metrics:     deps.Metrics,
		logger:      logger,
	}
}

var _ Reconciler = (*ReconcileService)(nil)

// reconcileLockKey scopes the lock to the organization: the catalog diff spans
// every department of it, so two departments whitelisting the same title must
// not reconcile at once.
func reconcileLockKey(orgID string) string {
	return "reconcile:" + orgID
}

// Reconcile runs one reconciliation for the department. Runs within the same
// organization are serialized. Individual create failures are reported in the
// result, not as an error.
func (s *ReconcileService) Reconcile(ctx context.Context, orgID, departmentID string) (*ReconcileResult, error) {
	log := s.logger.With(zap.String("organization_id", orgID), zap.String("department_id", departmentID))

	release, err := s.acquire(ctx, orgID)
	if err != nil {
		s.metrics.RecordReconciliation(observability.OutcomeFailed, 0, 0)
		if errors.Is(err, lock.ErrNotAcquired) {
			return nil, apperrors.NewConflict("RECONCILIATION_BUSY", "reconciliation already running for organization", map[string]any{
				"organization_id": orgID,
				"department_id":   departmentID,
			})
		}
		log.Error("acquire reconcile lock", zap.Error(err))
		return nil, apperrors.NewUnavailable("RECONCILIATION_FAILED", "reconciliation failed, state is stale", err)
	}
	defer release()

	catalog, err := s.catalog.AllForOrganization(ctx, orgID)
	if err != nil {
		s.metrics.RecordReconciliation(observability.OutcomeFailed, 0, 0)
		log.Error("fetch role catalog", zap.Error(err))
		return nil, apperrors.NewUnavailable("RECONCILIATION_FAILED", "reconciliation failed, state is stale", err)
	}

	dept, err := s.departments.GetByID(ctx, orgID, departmentID)
	if err != nil {
		s.metrics.RecordReconciliation(observability.OutcomeFailed, 0, 0)
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewNotFound("department", map[string]any{"department_id": departmentID})
		}
		log.Error("fetch department", zap.Error(err))
		return nil, apperrors.NewUnavailable("RECONCILIATION_FAILED", "reconciliation failed, state is stale", err)
	}

	if !dept.HasWhitelist() {
		s.metrics.RecordReconciliation(observability.OutcomeUnfiltered, 0, 0)
		return &ReconcileResult{Designations: sortByLevel(catalog)}, nil
	}

	whitelist := whitelistKeys(dept.Whitelist)
	present := make(map[string]struct{}, len(catalog))
	for _, d := range catalog {
		present[hierarchy.NormalizeTitle(d.Title)] = struct{}{}
	}

	result := &ReconcileResult{Filtered: true}
	for _, entry := range whitelist {
		if _, ok := present[entry.key]; ok {
			continue
		}
		created, err := s.catalog.Create(ctx, orgID, domain.DesignationInput{
			Title:        entry.title,
			Level:        domain.DefaultDesignationLevel,
			DepartmentID: &departmentID,
		})
		if err != nil {
			log.Warn("materialize whitelist title", zap.String("title", entry.title), zap.Error(err))
			result.Failed = append(result.Failed, FailedTitle{Title: entry.title, Err: err})
			continue
		}
		result.Created = append(result.Created, *created)
	}

	if len(result.Created) > 0 {
		refreshed, err := s.catalog.AllForOrganization(ctx, orgID)
		if err != nil {
			log.Warn("refresh role catalog; using created records", zap.Error(err))
			catalog = append(catalog, result.Created...)
		} else {
			catalog = refreshed
		}
	}

	sanctioned := make([]domain.Designation, 0, len(whitelist))
	for _, d := range catalog {
		if whitelist.contains(hierarchy.NormalizeTitle(d.Title)) {
			sanctioned = append(sanctioned, d)
		}
	}
	result.Designations = sortByLevel(sanctioned)

	outcome := observability.OutcomeComplete
	if len(result.Failed) > 0 {
		outcome = observability.OutcomePartial
	}
	s.metrics.RecordReconciliation(outcome, len(result.Created), len(result.Failed))

	createdTitles := make([]string, 0, len(result.Created))
	for _, d := range result.Created {
		createdTitles = append(createdTitles, d.Title)
	}
	log.Info("whitelist reconciled",
		zap.Int("sanctioned", len(result.Designations)),
		zap.Strings("created", createdTitles),
		zap.Strings("failed", result.FailedTitles()))
	publishEvent(ctx, s.dispatcher, s.logger, events.EventWhitelistReconciled, orgID, &departmentID, events.WhitelistReconciledPayload{
		Created:      createdTitles,
		FailedTitles: result.FailedTitles(),
		Sanctioned:   len(result.Designations),
	})
	return result, nil
}

func (s *ReconcileService) acquire(ctx context.Context, orgID string) (func(), error) {
	lockCtx := ctx
	if s.lockWait > 0 {
		var cancel context.CancelFunc
		lockCtx, cancel = context.WithTimeout(ctx, s.lockWait)
		defer cancel()
	}
	return s.locker.Acquire(lockCtx, reconcileLockKey(orgID))
}

type whitelistEntry struct {
	key   string
	title string
}

type whitelistSet []whitelistEntry

func (w whitelistSet) contains(key string) bool {
	for _, e := range w {
		if e.key == key {
			return true
		}
	}
	return false
}

func whitelistKeys(titles []string) whitelistSet {
	normalized := NormalizeWhitelist(titles)
	out := make(whitelistSet, 0, len(normalized))
	for _, title := range normalized {
		out = append(out, whitelistEntry{key: hierarchy.NormalizeTitle(title), title: title})
	}
	return out
}

func sortByLevel(list []domain.Designation) []domain.Designation {
	out := append([]domain.Designation(nil), list...)
	if out == nil {
		out = []domain.Designation{}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Level < out[j].Level
	})
	return out
}
