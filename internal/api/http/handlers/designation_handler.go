package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/orgchart-service/internal/api/dto"
	"github.com/spec-kit/orgchart-service/internal/service"
	apperrors "github.com/spec-kit/orgchart-service/pkg/util/errorutil"
)

// DesignationHandler exposes the role catalog.
type DesignationHandler struct {
	catalog *service.CatalogService
}

// NewDesignationHandler constructs handler.
func NewDesignationHandler(catalog *service.CatalogService) *DesignationHandler {
	return &DesignationHandler{catalog: catalog}
}

// List handles GET /orgs/:orgId/designations.
func (h *DesignationHandler) List(c *fiber.Ctx) error {
	orgID := c.Params("orgId")
	if deptID := optionalQuery(c, "department_id"); deptID != nil {
		list, err := h.catalog.ListByDepartment(c.UserContext(), orgID, *deptID)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"data": dto.NewDesignationList(list)})
	}
	list, err := h.catalog.AllForOrganization(c.UserContext(), orgID)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.NewDesignationList(list)})
}

// Create handles POST /orgs/:orgId/designations.
func (h *DesignationHandler) Create(c *fiber.Ctx) error {
	var req dto.DesignationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	d, err := h.catalog.Create(c.UserContext(), c.Params("orgId"), req.Input())
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewDesignationResponse(d)})
}

// Get handles GET /orgs/:orgId/designations/:id.
func (h *DesignationHandler) Get(c *fiber.Ctx) error {
	d, err := h.catalog.Get(c.UserContext(), c.Params("orgId"), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDesignationResponse(d)})
}

// Update handles PUT /orgs/:orgId/designations/:id.
func (h *DesignationHandler) Update(c *fiber.Ctx) error {
	var req dto.DesignationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	input := req.Input()
	if input.Level == 0 {
		input.Level = 1
	}
	d, err := h.catalog.Update(c.UserContext(), c.Params("orgId"), c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDesignationResponse(d)})
}

// Delete handles DELETE /orgs/:orgId/designations/:id.
func (h *DesignationHandler) Delete(c *fiber.Ctx) error {
	if err := h.catalog.Delete(c.UserContext(), c.Params("orgId"), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
