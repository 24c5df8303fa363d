package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/orgchart-service/internal/api/dto"
	"github.com/spec-kit/orgchart-service/internal/service"
	apperrors "github.com/spec-kit/orgchart-service/pkg/util/errorutil"
)

// HierarchyHandler exposes reconciled designations, forests and eligibility checks.
type HierarchyHandler struct {
	hierarchy *service.HierarchyService
}

// NewHierarchyHandler constructs handler.
func NewHierarchyHandler(hierarchy *service.HierarchyService) *HierarchyHandler {
	return &HierarchyHandler{hierarchy: hierarchy}
}

// Designations handles GET /orgs/:orgId/departments/:id/designations.
func (h *HierarchyHandler) Designations(c *fiber.Ctx) error {
	result, err := h.hierarchy.ReconciledDesignations(c.UserContext(), c.Params("orgId"), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ReconciledDesignationsResponse{
		Designations: dto.NewDesignationList(result.Designations),
		Created:      dto.NewDesignationList(result.Created),
		Failed:       failedTitles(result),
		Filtered:     result.Filtered,
	}})
}

// DesignationTree handles GET /orgs/:orgId/departments/:id/designations/tree.
func (h *HierarchyHandler) DesignationTree(c *fiber.Ctx) error {
	tree, err := h.hierarchy.DesignationForest(c.UserContext(), c.Params("orgId"), c.Params("id"))
	if err != nil {
		return err
	}
	expansion := parseExpansion(c, tree.Forest.NormalizeKey)
	return c.JSON(fiber.Map{"data": dto.DesignationTreeResponse{
		TreeResponse: dto.NewDesignationTreeResponse(tree.Forest, expansion),
		Filtered:     tree.Reconcile.Filtered,
		Failed:       failedTitles(tree.Reconcile),
	}})
}

// EmployeeTree handles GET /orgs/:orgId/departments/:id/employees/tree.
func (h *HierarchyHandler) EmployeeTree(c *fiber.Ctx) error {
	forest, err := h.hierarchy.StaffForest(c.UserContext(), c.Params("orgId"), c.Params("id"))
	if err != nil {
		return err
	}
	expansion := parseExpansion(c, forest.NormalizeKey)
	return c.JSON(fiber.Map{"data": dto.NewEmployeeTreeResponse(forest, expansion)})
}

// EligibleManagers handles GET /orgs/:orgId/departments/:id/eligibility/managers.
func (h *HierarchyHandler) EligibleManagers(c *fiber.Ctx) error {
	managers, err := h.hierarchy.EligibleManagers(c.UserContext(), c.Params("orgId"), c.Params("id"), service.ManagerQuery{
		Designation:   c.Query("designation"),
		SubordinateID: c.Query("subordinate_id"),
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEmployeeList(managers)})
}

// SelectableDesignations handles GET /orgs/:orgId/departments/:id/eligibility/designations.
func (h *HierarchyHandler) SelectableDesignations(c *fiber.Ctx) error {
	managerID := c.Query("manager_id")
	if managerID == "" {
		return apperrors.NewValidationError("manager_id required", nil)
	}
	list, err := h.hierarchy.SelectableDesignations(c.UserContext(), c.Params("orgId"), c.Params("id"), managerID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDesignationList(list)})
}

// Check handles GET /orgs/:orgId/departments/:id/eligibility/check.
func (h *HierarchyHandler) Check(c *fiber.Ctx) error {
	subordinateID := c.Query("subordinate_id")
	managerID := c.Query("manager_id")
	if subordinateID == "" || managerID == "" {
		return apperrors.NewValidationError("subordinate_id and manager_id required", nil)
	}
	allowed, err := h.hierarchy.CanReportTo(c.UserContext(), c.Params("orgId"), c.Params("id"), subordinateID, managerID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.EligibilityResponse{
		SubordinateID: subordinateID,
		ManagerID:     managerID,
		Allowed:       allowed,
	}})
}

func failedTitles(result *service.ReconcileResult) []dto.FailedTitleResponse {
	out := make([]dto.FailedTitleResponse, 0, len(result.Failed))
	for _, f := range result.Failed {
		out = append(out, dto.FailedTitleResponse{Title: f.Title, Error: f.Err.Error()})
	}
	return out
}
