package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/orgchart-service/internal/domain"
	apperrors "github.com/spec-kit/orgchart-service/pkg/util/errorutil"
)

// DepartmentRepository manages department persistence.
type DepartmentRepository interface {
	List(ctx context.Context, orgID string, includeInactive bool) ([]domain.Department, error)
	GetByID(ctx context.Context, orgID, id string) (*domain.Department, error)
	Create(ctx context.Context, dept *domain.Department) error
	Update(ctx context.Context, dept *domain.Department) error
	Delete(ctx context.Context, orgID, id string) error
}

type departmentRepository struct {
	pool *pgxpool.Pool
}

// NewDepartmentRepository builds the repository.
func NewDepartmentRepository(pool *pgxpool.Pool) DepartmentRepository {
	return &departmentRepository{pool: pool}
}

func (r *departmentRepository) Create(ctx context.Context, dept *domain.Department) error {
	const query = `
        INSERT INTO departments (organization_id, name, description, whitelist, is_active)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		dept.OrganizationID,
		dept.Name,
		dept.Description,
		whitelistParam(dept.Whitelist),
		dept.IsActive,
	).Scan(&dept.ID, &dept.CreatedAt, &dept.UpdatedAt)
}

func (r *departmentRepository) Update(ctx context.Context, dept *domain.Department) error {
	const query = `
        UPDATE departments SET name=$1, description=$2, whitelist=$3, is_active=$4, updated_at=NOW()
        WHERE organization_id=$5 AND id=$6`
	cmd, err := r.pool.Exec(ctx, query,
		dept.Name,
		dept.Description,
		whitelistParam(dept.Whitelist),
		dept.IsActive,
		dept.OrganizationID,
		dept.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *departmentRepository) GetByID(ctx context.Context, orgID, id string) (*domain.Department, error) {
	const query = `
        SELECT id, organization_id, name, description, whitelist, is_active, created_at, updated_at
        FROM departments WHERE organization_id=$1 AND id=$2`
	var dept domain.Department
	if err := r.pool.QueryRow(ctx, query, orgID, id).Scan(
		&dept.ID,
		&dept.OrganizationID,
		&dept.Name,
		&dept.Description,
		&dept.Whitelist,
		&dept.IsActive,
		&dept.CreatedAt,
		&dept.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &dept, nil
}

func (r *departmentRepository) List(ctx context.Context, orgID string, includeInactive bool) ([]domain.Department, error) {
	query := `
        SELECT id, organization_id, name, description, whitelist, is_active, created_at, updated_at
        FROM departments WHERE organization_id=$1`
	if !includeInactive {
		query += " AND is_active = TRUE"
	}
	query += " ORDER BY name"
	rows, err := r.pool.Query(ctx, query, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Department{}
	for rows.Next() {
		var dept domain.Department
		if err := rows.Scan(&dept.ID, &dept.OrganizationID, &dept.Name, &dept.Description, &dept.Whitelist, &dept.IsActive, &dept.CreatedAt, &dept.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, dept)
	}
	return result, rows.Err()
}

func (r *departmentRepository) Delete(ctx context.Context, orgID, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM departments WHERE organization_id=$1 AND id=$2`, orgID, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func whitelistParam(titles []string) []string {
	if titles == nil {
		return []string{}
	}
	return titles
}
