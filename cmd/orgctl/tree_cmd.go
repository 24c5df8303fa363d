package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spec-kit/orgchart-service/internal/api/dto"
	"github.com/spec-kit/orgchart-service/internal/bootstrap"
	"github.com/spec-kit/orgchart-service/internal/domain"
	"github.com/spec-kit/orgchart-service/internal/hierarchy"
)

func newTreeCmd() *cobra.Command {
	var (
		orgID        string
		departmentID string
		kind         string
		asJSON       bool
	)

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the designation or employee forest of a department",
		RunE: func(cmd *cobra.Command, args []string) error {
			if kind != "designations" && kind != "employees" {
				return fmt.Errorf("invalid --kind %q: want designations or employees", kind)
			}
			return withContainer(cmd.Context(), func(ctx context.Context, c *bootstrap.Container) error {
				w := cmd.OutOrStdout()
				expandAll := hierarchy.NewExpansion()
				expandAll.ExpandAll()

				if kind == "designations" {
					tree, err := c.Hierarchy.DesignationForest(ctx, orgID, departmentID)
					if err != nil {
						return err
					}
					if asJSON {
						return writeJSON(w, dto.NewDesignationTreeResponse(tree.Forest, expandAll))
					}
					return renderForest(w, tree.Forest, func(d *domain.Designation) string {
						return fmt.Sprintf("%s [level %d]", d.Title, d.Level)
					})
				}

				forest, err := c.Hierarchy.StaffForest(ctx, orgID, departmentID)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(w, dto.NewEmployeeTreeResponse(forest, expandAll))
				}
				return renderForest(w, forest, func(e *domain.Employee) string {
					return fmt.Sprintf("%s (%s) %s", e.Name, e.Designation, e.ID)
				})
			})
		},
	}

	cmd.Flags().StringVar(&orgID, "org", "", "Organization id (required)")
	cmd.Flags().StringVar(&departmentID, "department", "", "Department id (required)")
	cmd.Flags().StringVar(&kind, "kind", "designations", "Forest kind: designations|employees")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of an indented tree")
	_ = cmd.MarkFlagRequired("org")
	_ = cmd.MarkFlagRequired("department")
	return cmd
}
