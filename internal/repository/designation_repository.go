package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/orgchart-service/internal/domain"
	apperrors "github.com/spec-kit/orgchart-service/pkg/util/errorutil"
)

// DesignationRepository manages designation persistence.
type DesignationRepository interface {
	List(ctx context.Context, orgID string, departmentID *string) ([]domain.Designation, error)
	GetByID(ctx context.Context, orgID, id string) (*domain.Designation, error)
	Create(ctx context.Context, d *domain.Designation) error
	Update(ctx context.Context, d *domain.Designation) error
	Delete(ctx context.Context, orgID, id string) error
}

type designationRepository struct {
	pool *pgxpool.Pool
}

// NewDesignationRepository builds the repository.
func NewDesignationRepository(pool *pgxpool.Pool) DesignationRepository {
	return &designationRepository{pool: pool}
}

const designationColumns = `id, organization_id, title, level, reports_to, department_id, created_at, updated_at`

func (r *designationRepository) List(ctx context.Context, orgID string, departmentID *string) ([]domain.Designation, error) {
	query := `SELECT ` + designationColumns + ` FROM designations WHERE organization_id=$1`
	args := []any{orgID}
	if departmentID != nil {
		args = append(args, *departmentID)
		query += fmt.Sprintf(" AND department_id=$%d", len(args))
	}
	query += " ORDER BY created_at, id"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Designation{}
	for rows.Next() {
		var d domain.Designation
		if err := rows.Scan(&d.ID, &d.OrganizationID, &d.Title, &d.Level, &d.ReportsTo, &d.DepartmentID, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	return result, rows.Err()
}

func (r *designationRepository) GetByID(ctx context.Context, orgID, id string) (*domain.Designation, error) {
	query := `SELECT ` + designationColumns + ` FROM designations WHERE organization_id=$1 AND id=$2`
	var d domain.Designation
	if err := r.pool.QueryRow(ctx, query, orgID, id).Scan(
		&d.ID,
		&d.OrganizationID,
		&d.Title,
		&d.Level,
		&d.ReportsTo,
		&d.DepartmentID,
		&d.CreatedAt,
		&d.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *designationRepository) Create(ctx context.Context, d *domain.Designation) error {
	const query = `
        INSERT INTO designations (organization_id, title, level, reports_to, department_id)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		d.OrganizationID,
		d.Title,
		d.Level,
		d.ReportsTo,
		d.DepartmentID,
	).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
}

func (r *designationRepository) Update(ctx context.Context, d *domain.Designation) error {
	const query = `
        UPDATE designations SET title=$1, level=$2, reports_to=$3, department_id=$4, updated_at=NOW()
        WHERE organization_id=$5 AND id=$6
        RETURNING updated_at`
	if err := r.pool.QueryRow(ctx, query,
		d.Title,
		d.Level,
		d.ReportsTo,
		d.DepartmentID,
		d.OrganizationID,
		d.ID,
	).Scan(&d.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return err
	}
	return nil
}

func (r *designationRepository) Delete(ctx context.Context, orgID, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM designations WHERE organization_id=$1 AND id=$2`, orgID, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
