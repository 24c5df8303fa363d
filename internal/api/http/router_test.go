package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/orgchart-service/internal/api/http/handlers"
	"github.com/spec-kit/orgchart-service/internal/events"
	"github.com/spec-kit/orgchart-service/internal/lock"
	"github.com/spec-kit/orgchart-service/internal/observability"
	"github.com/spec-kit/orgchart-service/internal/repository"
	"github.com/spec-kit/orgchart-service/internal/service"
)

const orgPath = "/orgs/acme"

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	store := repository.NewMemoryStore()
	dispatcher := events.NewInMemoryDispatcher()

	catalog := service.NewCatalogService(service.CatalogDependencies{
		DesignationRepo: store.Designations,
		Dispatcher:      dispatcher,
		Logger:          logger,
	})
	reconciler := service.NewReconcileService(service.ReconcileDependencies{
		Catalog:        catalog,
		DepartmentRepo: store.Departments,
		Locker:         lock.NewLocalLocker(),
		LockWait:       time.Second,
		Dispatcher:     dispatcher,
		Metrics:        metrics,
		Logger:         logger,
	})
	hierarchySvc := service.NewHierarchyService(service.HierarchyDependencies{
		Reconciler:     reconciler,
		DepartmentRepo: store.Departments,
		EmployeeRepo:   store.Employees,
		MaxDepth:       16,
		Metrics:        metrics,
		Logger:         logger,
	})
	orgSvc := service.NewOrgService(service.OrgDependencies{
		DepartmentRepo: store.Departments,
		EmployeeRepo:   store.Employees,
		Dispatcher:     dispatcher,
		Logger:         logger,
	})

	app := fiber.New()
	RegisterMiddlewares(app, logger, metrics, 5*time.Second)
	RegisterRoutes(app, RouteConfig{
		Health:       handlers.NewHealthHandler("orgchart-service", "test", nil, nil),
		Designations: handlers.NewDesignationHandler(catalog),
		Departments:  handlers.NewDepartmentHandler(orgSvc),
		Employees:    handlers.NewEmployeeHandler(orgSvc),
		Hierarchy:    handlers.NewHierarchyHandler(hierarchySvc),
		Metrics:      metrics,
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func dataMap(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	data, ok := body["data"].(map[string]any)
	require.True(t, ok, "data is not an object: %v", body)
	return data
}

func dataList(t *testing.T, body map[string]any) []any {
	t.Helper()
	data, ok := body["data"].([]any)
	require.True(t, ok, "data is not a list: %v", body)
	return data
}

func errorCode(body map[string]any) string {
	errObj, _ := body["error"].(map[string]any)
	code, _ := errObj["code"].(string)
	return code
}

func createDepartment(t *testing.T, app *fiber.App, whitelist ...string) string {
	t.Helper()
	if whitelist == nil {
		whitelist = []string{}
	}
	status, body := doJSON(t, app, http.MethodPost, orgPath+"/departments", map[string]any{
		"name":      "Engineering",
		"whitelist": whitelist,
	})
	require.Equal(t, http.StatusCreated, status)
	return dataMap(t, body)["id"].(string)
}

func createEmployee(t *testing.T, app *fiber.App, deptID, name, designation string, reportsTo string) string {
	t.Helper()
	payload := map[string]any{"name": name, "designation": designation, "department_id": deptID}
	if reportsTo != "" {
		payload["reports_to"] = reportsTo
	}
	status, body := doJSON(t, app, http.MethodPost, orgPath+"/employees", payload)
	require.Equal(t, http.StatusCreated, status, "%v", body)
	return dataMap(t, body)["id"].(string)
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)

	status, body := doJSON(t, app, http.MethodGet, "/health/live", nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "alive", body["status"])

	status, body = doJSON(t, app, http.MethodGet, "/health/ready", nil)
	require.Equal(t, http.StatusOK, status)
	deps := body["dependencies"].(map[string]any)
	require.Equal(t, "disabled", deps["postgres"])
	require.Equal(t, "disabled", deps["redis"])
}

func TestReconciledDesignationsEndpoint(t *testing.T) {
	app := newTestApp(t)
	deptID := createDepartment(t, app, "Manager", "Associate")

	status, body := doJSON(t, app, http.MethodGet, orgPath+"/departments/"+deptID+"/designations", nil)
	require.Equal(t, http.StatusOK, status)
	data := dataMap(t, body)
	require.Equal(t, true, data["filtered"])
	require.Len(t, data["designations"], 2)
	require.Len(t, data["created"], 2)
	require.Empty(t, data["failed"])

	status, body = doJSON(t, app, http.MethodGet, orgPath+"/designations", nil)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, dataList(t, body), 2)

	// second run creates nothing
	_, body = doJSON(t, app, http.MethodGet, orgPath+"/departments/"+deptID+"/designations", nil)
	require.Empty(t, dataMap(t, body)["created"])
}

func TestDesignationValidation(t *testing.T) {
	app := newTestApp(t)

	status, body := doJSON(t, app, http.MethodPost, orgPath+"/designations", map[string]any{"level": 0})
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "VALIDATION_FAILED", errorCode(body))
	details := body["error"].(map[string]any)["details"].(map[string]any)
	require.Equal(t, "required", details["title"])

	status, body = doJSON(t, app, http.MethodGet, orgPath+"/designations/missing", nil)
	require.Equal(t, http.StatusNotFound, status)
	require.Equal(t, "NOT_FOUND", errorCode(body))
}

func TestDesignationTreeEndpoint(t *testing.T) {
	app := newTestApp(t)
	for _, d := range []map[string]any{
		{"title": "Director", "level": 1},
		{"title": "Manager", "level": 2, "reports_to": "director"},
		{"title": "Associate", "level": 3, "reports_to": "Manager"},
	} {
		status, _ := doJSON(t, app, http.MethodPost, orgPath+"/designations", d)
		require.Equal(t, http.StatusCreated, status)
	}
	deptID := createDepartment(t, app)

	status, body := doJSON(t, app, http.MethodGet, orgPath+"/departments/"+deptID+"/designations/tree?expanded=Director", nil)
	require.Equal(t, http.StatusOK, status)
	data := dataMap(t, body)
	require.Equal(t, false, data["filtered"])
	require.EqualValues(t, 3, data["node_count"])
	require.Len(t, data["roots"], 1)
	require.Len(t, data["visible"], 2)

	_, body = doJSON(t, app, http.MethodGet, orgPath+"/departments/"+deptID+"/designations/tree?expanded=*", nil)
	require.Len(t, dataMap(t, body)["visible"], 3)
}

func TestDesignationTreeCycle(t *testing.T) {
	app := newTestApp(t)
	doJSON(t, app, http.MethodPost, orgPath+"/designations", map[string]any{"title": "Lead", "level": 2, "reports_to": "Principal"})
	doJSON(t, app, http.MethodPost, orgPath+"/designations", map[string]any{"title": "Principal", "level": 2, "reports_to": "Lead"})
	deptID := createDepartment(t, app)

	status, body := doJSON(t, app, http.MethodGet, orgPath+"/departments/"+deptID+"/designations/tree", nil)
	require.Equal(t, http.StatusUnprocessableEntity, status)
	require.Equal(t, "HIERARCHY_CYCLE", errorCode(body))
}

func TestEmployeeTreeAndEligibility(t *testing.T) {
	app := newTestApp(t)
	for _, d := range []map[string]any{
		{"title": "Director", "level": 1},
		{"title": "Manager", "level": 2},
		{"title": "Associate", "level": 3},
	} {
		doJSON(t, app, http.MethodPost, orgPath+"/designations", d)
	}
	deptID := createDepartment(t, app)
	director := createEmployee(t, app, deptID, "Dana", "Director", "")
	manager := createEmployee(t, app, deptID, "Max", "Manager", director)
	createEmployee(t, app, deptID, "Orphan", "Associate", "")

	status, body := doJSON(t, app, http.MethodGet, orgPath+"/departments/"+deptID+"/employees/tree?expanded="+director, nil)
	require.Equal(t, http.StatusOK, status)
	data := dataMap(t, body)
	require.Len(t, data["roots"], 2)
	require.Len(t, data["visible"], 3)

	status, body = doJSON(t, app, http.MethodGet, orgPath+"/departments/"+deptID+"/eligibility/managers?designation=Associate", nil)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, dataList(t, body), 2)

	status, body = doJSON(t, app, http.MethodGet, orgPath+"/departments/"+deptID+"/eligibility/designations?manager_id="+manager, nil)
	require.Equal(t, http.StatusOK, status)
	list := dataList(t, body)
	require.Len(t, list, 1)
	require.Equal(t, "Associate", list[0].(map[string]any)["title"])

	status, body = doJSON(t, app, http.MethodGet, orgPath+"/departments/"+deptID+"/eligibility/check?subordinate_id="+director+"&manager_id="+manager, nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, false, dataMap(t, body)["allowed"])

	status, body = doJSON(t, app, http.MethodGet, orgPath+"/departments/"+deptID+"/eligibility/check?manager_id="+manager, nil)
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "VALIDATION_FAILED", errorCode(body))
}

func TestEmployeeCRUD(t *testing.T) {
	app := newTestApp(t)
	deptID := createDepartment(t, app)

	status, body := doJSON(t, app, http.MethodPost, orgPath+"/employees", map[string]any{"name": "A", "designation": "Director", "reports_to": "ghost"})
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "VALIDATION_FAILED", errorCode(body))

	id := createEmployee(t, app, deptID, "A", "Director", "")
	status, body = doJSON(t, app, http.MethodPut, orgPath+"/employees/"+id, map[string]any{"name": "A", "designation": "Manager", "department_id": deptID})
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "Manager", dataMap(t, body)["designation"])

	status, body = doJSON(t, app, http.MethodGet, orgPath+"/employees?department_id="+deptID, nil)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, dataList(t, body), 1)

	status, _ = doJSON(t, app, http.MethodDelete, orgPath+"/employees/"+id, nil)
	require.Equal(t, http.StatusNoContent, status)
	status, _ = doJSON(t, app, http.MethodGet, orgPath+"/employees/"+id, nil)
	require.Equal(t, http.StatusNotFound, status)
}

func TestUnknownRouteAndMetrics(t *testing.T) {
	app := newTestApp(t)

	status, body := doJSON(t, app, http.MethodGet, "/nope", nil)
	require.Equal(t, http.StatusNotFound, status)
	require.Equal(t, "NOT_FOUND", errorCode(body))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(raw), "orgchart_http_requests_total")
}
