package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/orgchart-service/internal/domain"
	"github.com/spec-kit/orgchart-service/internal/events"
	"github.com/spec-kit/orgchart-service/internal/hierarchy"
	"github.com/spec-kit/orgchart-service/internal/lock"
	"github.com/spec-kit/orgchart-service/internal/observability"
	"github.com/spec-kit/orgchart-service/internal/repository"
)

const testOrg = "org-1"

var errStoreDown = errors.New("store unavailable")

func strPtr(s string) *string { return &s }

// flakyCatalog wraps a RoleCatalog and injects failures.
type flakyCatalog struct {
	RoleCatalog

	mu           sync.Mutex
	failTitles   map[string]bool
	failListFrom int // fail AllForOrganization from this call number on (1-based); 0 never
	listDelay    time.Duration
	listCalls    int
	createCalls  int
}

func (c *flakyCatalog) AllForOrganization(ctx context.Context, orgID string) ([]domain.Designation, error) {
	c.mu.Lock()
	c.listCalls++
	fail := c.failListFrom > 0 && c.listCalls >= c.failListFrom
	delay := c.listDelay
	c.mu.Unlock()
	if fail {
		return nil, errStoreDown
	}
	if delay > 0 {
		time.Sleep(delay)
	}
	return c.RoleCatalog.AllForOrganization(ctx, orgID)
}

func (c *flakyCatalog) Create(ctx context.Context, orgID string, input domain.DesignationInput) (*domain.Designation, error) {
	c.mu.Lock()
	c.createCalls++
	fail := c.failTitles[input.Title]
	c.mu.Unlock()
	if fail {
		return nil, errStoreDown
	}
	return c.RoleCatalog.Create(ctx, orgID, input)
}

type fixture struct {
	store      *repository.MemoryStore
	catalog    *flakyCatalog
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	reconciler *ReconcileService
	hierarchy  *HierarchyService
	org        *OrgService

	mu        sync.Mutex
	published []events.Event
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:      repository.NewMemoryStore(),
		dispatcher: events.NewInMemoryDispatcher(),
		metrics:    observability.NewMetrics(),
	}
	record := func(ctx context.Context, e events.Event) error {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.published = append(f.published, e)
		return nil
	}
	for _, et := range []events.EventType{
		events.EventDesignationCreated,
		events.EventDesignationDeleted,
		events.EventWhitelistReconciled,
		events.EventEmployeeReassigned,
	} {
		f.dispatcher.Subscribe(et, record)
	}

	f.catalog = &flakyCatalog{
		RoleCatalog: NewCatalogService(CatalogDependencies{
			DesignationRepo: f.store.Designations,
			Dispatcher:      f.dispatcher,
		}),
		failTitles: map[string]bool{},
	}
	f.reconciler = NewReconcileService(ReconcileDependencies{
		Catalog:        f.catalog,
		DepartmentRepo: f.store.Departments,
		Locker:         lock.NewLocalLocker(),
		Dispatcher:     f.dispatcher,
		Metrics:        f.metrics,
	})
	f.hierarchy = NewHierarchyService(HierarchyDependencies{
		Reconciler:     f.reconciler,
		DepartmentRepo: f.store.Departments,
		EmployeeRepo:   f.store.Employees,
		MaxDepth:       16,
		Metrics:        f.metrics,
	})
	f.org = NewOrgService(OrgDependencies{
		DepartmentRepo: f.store.Departments,
		EmployeeRepo:   f.store.Employees,
		Dispatcher:     f.dispatcher,
	})
	return f
}

func (f *fixture) department(t *testing.T, whitelist ...string) string {
	t.Helper()
	dept := &domain.Department{OrganizationID: testOrg, Name: "Engineering", Whitelist: whitelist, IsActive: true}
	require.NoError(t, f.store.Departments.Create(context.Background(), dept))
	return dept.ID
}

func (f *fixture) designation(t *testing.T, title string, level int, reportsTo string) domain.Designation {
	t.Helper()
	d := &domain.Designation{OrganizationID: testOrg, Title: title, Level: level}
	if reportsTo != "" {
		d.ReportsTo = strPtr(reportsTo)
	}
	require.NoError(t, f.store.Designations.Create(context.Background(), d))
	return *d
}

func (f *fixture) employee(t *testing.T, name, designation, departmentID string, reportsTo *string) domain.Employee {
	t.Helper()
	e := &domain.Employee{
		OrganizationID: testOrg,
		Name:           name,
		Designation:    designation,
		DepartmentID:   strPtr(departmentID),
		ReportsTo:      reportsTo,
		Active:         true,
	}
	require.NoError(t, f.store.Employees.Create(context.Background(), e))
	return *e
}

func (f *fixture) catalogTitles(t *testing.T) []string {
	t.Helper()
	all, err := f.store.Designations.List(context.Background(), testOrg, nil)
	require.NoError(t, err)
	titles := make([]string, 0, len(all))
	for _, d := range all {
		titles = append(titles, d.Title)
	}
	return titles
}

func (f *fixture) eventsOf(et events.EventType) []events.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []events.Event
	for _, e := range f.published {
		if e.Type == et {
			out = append(out, e)
		}
	}
	return out
}

func titlesOf(list []domain.Designation) []string {
	out := make([]string, 0, len(list))
	for _, d := range list {
		out = append(out, d.Title)
	}
	return out
}

func requireSortedByLevel(t *testing.T, list []domain.Designation) {
	t.Helper()
	for i := 1; i < len(list); i++ {
		require.LessOrEqual(t, list[i-1].Level, list[i].Level, "designations out of order at %d", i)
	}
}

func countTitle(titles []string, title string) int {
	n := 0
	for _, t := range titles {
		if hierarchy.SameTitle(t, title) {
			n++
		}
	}
	return n
}
