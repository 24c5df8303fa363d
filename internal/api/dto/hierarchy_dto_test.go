package dto

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/orgchart-service/internal/domain"
	"github.com/spec-kit/orgchart-service/internal/hierarchy"
	apperrors "github.com/spec-kit/orgchart-service/pkg/util/errorutil"
)

func strPtr(s string) *string { return &s }

func TestNewDesignationTreeResponse(t *testing.T) {
	forest, err := hierarchy.BuildDesignationForest([]domain.Designation{
		{Title: "Director", Level: 1},
		{Title: "Manager", Level: 2, ReportsTo: strPtr("Director")},
		{Title: "Associate", Level: 3, ReportsTo: strPtr("Manager")},
		{Title: "Auditor", Level: 2},
	}, hierarchy.Options{})
	require.NoError(t, err)

	resp := NewDesignationTreeResponse(forest, hierarchy.NewExpansion("director"))
	require.Equal(t, 4, resp.NodeCount)
	require.Len(t, resp.Roots, 2)
	require.Equal(t, "Director", resp.Roots[0].Item.Title)
	require.Equal(t, "Associate", resp.Roots[0].Children[0].Children[0].Item.Title)
	require.Empty(t, resp.Roots[1].Children)

	labels := make([]string, 0, len(resp.Visible))
	for _, row := range resp.Visible {
		labels = append(labels, row.Label)
	}
	require.Equal(t, []string{"Director", "Manager", "Auditor"}, labels)
	require.True(t, resp.Visible[0].Expanded)
	require.True(t, resp.Visible[1].HasChildren)
	require.False(t, resp.Visible[1].Expanded)
	require.True(t, resp.Visible[2].IsLast)
}

func TestValidate_ReportsJSONFieldNames(t *testing.T) {
	err := Validate(DesignationRequest{Level: -1})
	de := apperrors.ToDomainError(err)
	require.Equal(t, "VALIDATION_FAILED", de.Code)
	require.Equal(t, "required", de.Details["title"])
	require.Equal(t, "gte", de.Details["level"])

	err = Validate(DepartmentRequest{Name: "Eng", Whitelist: []string{"Manager", ""}})
	de = apperrors.ToDomainError(err)
	require.Equal(t, "required", de.Details["whitelist[1]"])

	require.NoError(t, Validate(EmployeeRequest{Name: "A", Designation: "Director"}))
}
