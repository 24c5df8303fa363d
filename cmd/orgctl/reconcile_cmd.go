package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/spec-kit/orgchart-service/internal/api/dto"
	"github.com/spec-kit/orgchart-service/internal/bootstrap"
)

type reconcileOutput struct {
	OrganizationID string                    `json:"organization_id"`
	DepartmentID   string                    `json:"department_id"`
	Filtered       bool                      `json:"filtered"`
	Designations   []dto.DesignationResponse `json:"designations"`
	Created        []string                  `json:"created"`
	Failed         []dto.FailedTitleResponse `json:"failed"`
}

func newReconcileCmd() *cobra.Command {
	var orgID, departmentID string

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Materialize missing whitelist designations for a department",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd.Context(), func(ctx context.Context, c *bootstrap.Container) error {
				result, err := c.Reconciler.Reconcile(ctx, orgID, departmentID)
				if err != nil {
					return err
				}
				out := reconcileOutput{
					OrganizationID: orgID,
					DepartmentID:   departmentID,
					Filtered:       result.Filtered,
					Designations:   dto.NewDesignationList(result.Designations),
					Created:        make([]string, 0, len(result.Created)),
					Failed:         make([]dto.FailedTitleResponse, 0, len(result.Failed)),
				}
				for _, d := range result.Created {
					out.Created = append(out.Created, d.Title)
				}
				for _, f := range result.Failed {
					out.Failed = append(out.Failed, dto.FailedTitleResponse{Title: f.Title, Error: f.Err.Error()})
				}
				return writeJSON(cmd.OutOrStdout(), out)
			})
		},
	}

	cmd.Flags().StringVar(&orgID, "org", "", "Organization id (required)")
	cmd.Flags().StringVar(&departmentID, "department", "", "Department id (required)")
	_ = cmd.MarkFlagRequired("org")
	_ = cmd.MarkFlagRequired("department")
	return cmd
}
