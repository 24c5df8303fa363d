package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/orgchart-service/internal/domain"
	"github.com/spec-kit/orgchart-service/internal/hierarchy"
	apperrors "github.com/spec-kit/orgchart-service/pkg/util/errorutil"
)

func employeeNames(list []domain.Employee) []string {
	out := make([]string, 0, len(list))
	for _, e := range list {
		out = append(out, e.Name)
	}
	return out
}

func seedRanks(t *testing.T, f *fixture) {
	t.Helper()
	f.designation(t, "Associate", 3, "manager")
	f.designation(t, "Director", 1, "")
	f.designation(t, "Manager", 2, "Director")
}

func TestDesignationForest_LinksTitlesCaseInsensitively(t *testing.T) {
	f := newFixture(t)
	seedRanks(t, f)
	deptID := f.department(t)

	tree, err := f.hierarchy.DesignationForest(context.Background(), testOrg, deptID)
	require.NoError(t, err)
	require.False(t, tree.Reconcile.Filtered)

	forest := tree.Forest
	require.Len(t, forest.Roots, 1)
	root := forest.Nodes[forest.Roots[0]]
	require.Equal(t, "Director", root.Item.Title)
	require.Len(t, root.Children, 1)
	manager := forest.Nodes[root.Children[0]]
	require.Equal(t, "Manager", manager.Item.Title)
	require.Len(t, manager.Children, 1)
	require.Equal(t, "Associate", forest.Nodes[manager.Children[0]].Item.Title)
	require.Equal(t, 2, forest.Nodes[manager.Children[0]].Depth)
}

func TestDesignationForest_FilteredParentBecomesRoot(t *testing.T) {
	f := newFixture(t)
	seedRanks(t, f)
	deptID := f.department(t, "Manager", "Associate")

	tree, err := f.hierarchy.DesignationForest(context.Background(), testOrg, deptID)
	require.NoError(t, err)
	require.Equal(t, 2, tree.Forest.Len())
	require.Len(t, tree.Forest.Roots, 1)
	require.Equal(t, "Manager", tree.Forest.Nodes[tree.Forest.Roots[0]].Item.Title)
}

func TestDesignationForest_CycleIsUnprocessable(t *testing.T) {
	f := newFixture(t)
	f.designation(t, "Lead", 2, "Principal")
	f.designation(t, "Principal", 2, "Lead")
	deptID := f.department(t)

	_, err := f.hierarchy.DesignationForest(context.Background(), testOrg, deptID)
	de := apperrors.ToDomainError(err)
	require.Equal(t, "HIERARCHY_CYCLE", de.Code)
	require.Equal(t, http.StatusUnprocessableEntity, de.HTTPStatus)
	require.ElementsMatch(t, []string{"lead", "principal"}, de.Details["keys"])
}

func TestStaffForest_SingleRoot(t *testing.T) {
	f := newFixture(t)
	f.designation(t, "Director", 1, "")
	f.designation(t, "Manager", 2, "Director")
	deptID := f.department(t)
	a := f.employee(t, "A", "Director", deptID, nil)

	forest, err := f.hierarchy.StaffForest(context.Background(), testOrg, deptID)
	require.NoError(t, err)
	require.Equal(t, []int{0}, forest.Roots)
	require.Equal(t, a.ID, forest.Nodes[0].Key)
	require.Empty(t, forest.Children(0))
}

func TestStaffForest_DanglingAndOutOfScopeManagersAreRoots(t *testing.T) {
	f := newFixture(t)
	deptID := f.department(t)
	otherDept := f.department(t)

	outside := f.employee(t, "Outside", "Director", otherDept, nil)
	f.employee(t, "Orphan", "Associate", deptID, strPtr("99"))
	lead := f.employee(t, "Lead", "Manager", deptID, &outside.ID)
	f.employee(t, "Report", "Associate", deptID, &lead.ID)
	gone := f.employee(t, "Gone", "Associate", deptID, &lead.ID)
	gone.Active = false
	require.NoError(t, f.store.Employees.Update(context.Background(), &gone))

	forest, err := f.hierarchy.StaffForest(context.Background(), testOrg, deptID)
	require.NoError(t, err)
	require.Equal(t, 3, forest.Len())

	var roots []string
	for _, idx := range forest.Roots {
		roots = append(roots, forest.Nodes[idx].Item.Name)
	}
	require.Equal(t, []string{"Orphan", "Lead"}, roots)

	leadIdx, ok := forest.Find(lead.ID)
	require.True(t, ok)
	require.Len(t, forest.Children(leadIdx), 1)
	require.Equal(t, "Report", forest.Nodes[forest.Children(leadIdx)[0]].Item.Name)
}

func TestStaffForest_UnknownDepartment(t *testing.T) {
	f := newFixture(t)
	_, err := f.hierarchy.StaffForest(context.Background(), testOrg, "missing")
	require.True(t, apperrors.IsNotFound(err))
}

func TestStaffForest_Cycle(t *testing.T) {
	f := newFixture(t)
	deptID := f.department(t)
	a := f.employee(t, "A", "Manager", deptID, nil)
	b := f.employee(t, "B", "Manager", deptID, &a.ID)
	a.ReportsTo = &b.ID
	require.NoError(t, f.store.Employees.Update(context.Background(), &a))

	_, err := f.hierarchy.StaffForest(context.Background(), testOrg, deptID)
	require.ErrorContains(t, err, "cycle")
	require.Equal(t, "HIERARCHY_CYCLE", apperrors.ToDomainError(err).Code)
}

type eligibilityStaff struct {
	deptID                       string
	director, manager, associate domain.Employee
	contractor                   domain.Employee
}

func seedEligibility(t *testing.T, f *fixture) eligibilityStaff {
	t.Helper()
	seedRanks(t, f)
	deptID := f.department(t)
	s := eligibilityStaff{deptID: deptID}
	s.director = f.employee(t, "Dana", "Director", deptID, nil)
	s.manager = f.employee(t, "Max", "Manager", deptID, &s.director.ID)
	s.associate = f.employee(t, "Ari", "Associate", deptID, &s.manager.ID)
	s.contractor = f.employee(t, "Cy", "Contractor", deptID, nil)
	return s
}

func TestEligibleManagers_ByDesignation(t *testing.T) {
	f := newFixture(t)
	s := seedEligibility(t, f)

	got, err := f.hierarchy.EligibleManagers(context.Background(), testOrg, s.deptID, ManagerQuery{Designation: "associate"})
	require.NoError(t, err)
	require.Equal(t, []string{"Dana", "Max", "Cy"}, employeeNames(got))
}

func TestEligibleManagers_BySubordinateExcludesSelf(t *testing.T) {
	f := newFixture(t)
	s := seedEligibility(t, f)

	got, err := f.hierarchy.EligibleManagers(context.Background(), testOrg, s.deptID, ManagerQuery{SubordinateID: s.manager.ID})
	require.NoError(t, err)
	require.Equal(t, []string{"Dana", "Cy"}, employeeNames(got))
}

func TestEligibleManagers_UnresolvedTitleFailsOpen(t *testing.T) {
	f := newFixture(t)
	s := seedEligibility(t, f)

	got, err := f.hierarchy.EligibleManagers(context.Background(), testOrg, s.deptID, ManagerQuery{Designation: "Consultant"})
	require.NoError(t, err)
	require.Len(t, got, 4)
}

func TestEligibleManagers_RequiresSubject(t *testing.T) {
	f := newFixture(t)
	s := seedEligibility(t, f)

	_, err := f.hierarchy.EligibleManagers(context.Background(), testOrg, s.deptID, ManagerQuery{})
	require.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
}

func TestEligibleManagers_RejectsEmptyQueryBeforeReconciling(t *testing.T) {
	f := newFixture(t)
	deptID := f.department(t, "Analyst")

	_, err := f.hierarchy.EligibleManagers(context.Background(), testOrg, deptID, ManagerQuery{Designation: "  "})
	require.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
	require.Zero(t, f.catalog.listCalls)
	require.Empty(t, f.catalogTitles(t))
}

func TestSelectableDesignations(t *testing.T) {
	f := newFixture(t)
	s := seedEligibility(t, f)

	got, err := f.hierarchy.SelectableDesignations(context.Background(), testOrg, s.deptID, s.manager.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"Associate"}, titlesOf(got))

	got, err = f.hierarchy.SelectableDesignations(context.Background(), testOrg, s.deptID, s.contractor.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"Director", "Manager", "Associate"}, titlesOf(got))

	_, err = f.hierarchy.SelectableDesignations(context.Background(), testOrg, s.deptID, "missing")
	require.True(t, apperrors.IsNotFound(err))
}

func TestCanReportTo(t *testing.T) {
	f := newFixture(t)
	s := seedEligibility(t, f)
	ctx := context.Background()

	cases := []struct {
		name        string
		sub, mgr    domain.Employee
		expectAllow bool
	}{
		{"senior manager", s.associate, s.director, true},
		{"junior manager", s.director, s.associate, false},
		{"same person", s.manager, s.manager, false},
		{"unresolved manager", s.associate, s.contractor, true},
		{"unresolved subordinate", s.contractor, s.associate, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ok, err := f.hierarchy.CanReportTo(ctx, testOrg, s.deptID, tc.sub.ID, tc.mgr.ID)
			require.NoError(t, err)
			require.Equal(t, tc.expectAllow, ok)
		})
	}
}

func TestReconciledDesignations_FeedsRankIndex(t *testing.T) {
	f := newFixture(t)
	seedRanks(t, f)
	deptID := f.department(t, "Manager", "Associate")

	result, err := f.hierarchy.ReconciledDesignations(context.Background(), testOrg, deptID)
	require.NoError(t, err)
	idx := hierarchy.NewRankIndex(result.Designations)
	// Director is outside the department scope, so rank is unknown.
	require.True(t, idx.CanReportTo("Manager", "Director"))
	require.False(t, idx.CanReportTo("Manager", "Associate"))
}
