package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/orgchart-service/internal/api/dto"
	"github.com/spec-kit/orgchart-service/internal/service"
)

// EmployeeHandler exposes staff record endpoints.
type EmployeeHandler struct {
	orgService *service.OrgService
}

// NewEmployeeHandler constructs handler.
func NewEmployeeHandler(orgService *service.OrgService) *EmployeeHandler {
	return &EmployeeHandler{orgService: orgService}
}

// List handles GET /orgs/:orgId/employees.
func (h *EmployeeHandler) List(c *fiber.Ctx) error {
	list, err := h.orgService.ListEmployees(c.UserContext(), c.Params("orgId"), parseEmployeeListFilters(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEmployeeList(list)})
}

// Create handles POST /orgs/:orgId/employees.
func (h *EmployeeHandler) Create(c *fiber.Ctx) error {
	var req dto.EmployeeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	emp, err := h.orgService.CreateEmployee(c.UserContext(), c.Params("orgId"), req.Input())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewEmployeeResponse(emp)})
}

// Get handles GET /orgs/:orgId/employees/:id.
func (h *EmployeeHandler) Get(c *fiber.Ctx) error {
	emp, err := h.orgService.GetEmployee(c.UserContext(), c.Params("orgId"), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEmployeeResponse(emp)})
}

// Update handles PUT /orgs/:orgId/employees/:id.
func (h *EmployeeHandler) Update(c *fiber.Ctx) error {
	var req dto.EmployeeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	emp, err := h.orgService.UpdateEmployee(c.UserContext(), c.Params("orgId"), c.Params("id"), req.Input())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEmployeeResponse(emp)})
}

// Delete handles DELETE /orgs/:orgId/employees/:id.
func (h *EmployeeHandler) Delete(c *fiber.Ctx) error {
	if err := h.orgService.DeleteEmployee(c.UserContext(), c.Params("orgId"), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func parseEmployeeListFilters(c *fiber.Ctx) service.EmployeeListFilters {
	var filters service.EmployeeListFilters
	filters.DepartmentID = optionalQuery(c, "department_id")
	filters.Designation = optionalQuery(c, "designation")
	if active := c.Query("active"); active != "" {
		if val, err := strconv.ParseBool(active); err == nil {
			filters.Active = &val
		}
	}
	if c.Query("page") != "" || c.Query("page_size") != "" {
		page := parseIntQuery(c, "page", 1)
		pageSize := parseIntQuery(c, "page_size", 50)
		filters.Offset = (page - 1) * pageSize
		filters.Limit = pageSize
	}
	return filters
}
