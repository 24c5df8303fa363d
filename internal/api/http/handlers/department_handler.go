package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/orgchart-service/internal/api/dto"
	"github.com/spec-kit/orgchart-service/internal/service"
)

// DepartmentHandler exposes department endpoints.
type DepartmentHandler struct {
	orgService *service.OrgService
}

// NewDepartmentHandler constructs handler.
func NewDepartmentHandler(orgService *service.OrgService) *DepartmentHandler {
	return &DepartmentHandler{orgService: orgService}
}

// List handles GET /orgs/:orgId/departments.
func (h *DepartmentHandler) List(c *fiber.Ctx) error {
	includeInactive := parseBoolQuery(c, "include_inactive", false)
	depts, err := h.orgService.ListDepartments(c.UserContext(), c.Params("orgId"), includeInactive)
	if err != nil {
		return err
	}
	resp := make([]dto.DepartmentResponse, 0, len(depts))
	for i := range depts {
		resp = append(resp, dto.NewDepartmentResponse(&depts[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Create handles POST /orgs/:orgId/departments.
func (h *DepartmentHandler) Create(c *fiber.Ctx) error {
	var req dto.DepartmentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	dept, err := h.orgService.CreateDepartment(c.UserContext(), c.Params("orgId"), req.Input())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewDepartmentResponse(dept)})
}

// Get handles GET /orgs/:orgId/departments/:id.
func (h *DepartmentHandler) Get(c *fiber.Ctx) error {
	dept, err := h.orgService.GetDepartment(c.UserContext(), c.Params("orgId"), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDepartmentResponse(dept)})
}

// Update handles PUT /orgs/:orgId/departments/:id.
func (h *DepartmentHandler) Update(c *fiber.Ctx) error {
	var req dto.DepartmentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	dept, err := h.orgService.UpdateDepartment(c.UserContext(), c.Params("orgId"), c.Params("id"), req.Input())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDepartmentResponse(dept)})
}

// Delete handles DELETE /orgs/:orgId/departments/:id.
func (h *DepartmentHandler) Delete(c *fiber.Ctx) error {
	if err := h.orgService.DeleteDepartment(c.UserContext(), c.Params("orgId"), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
