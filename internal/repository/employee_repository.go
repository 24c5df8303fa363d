package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/orgchart-service/internal/domain"
	apperrors "github.com/spec-kit/orgchart-service/pkg/util/errorutil"
)

// EmployeeRepository handles persistence for staff records.
type EmployeeRepository interface {
	List(ctx context.Context, orgID string, filter EmployeeFilter) ([]domain.Employee, error)
	GetByID(ctx context.Context, orgID, id string) (*domain.Employee, error)
	Create(ctx context.Context, emp *domain.Employee) error
	Update(ctx context.Context, emp *domain.Employee) error
	Delete(ctx context.Context, orgID, id string) error
}

// EmployeeFilter narrows employee listings. A zero Limit returns every match.
type EmployeeFilter struct {
	DepartmentID *string
	Designation  *string
	Active       *bool
	Limit        int
	Offset       int
}

type employeeRepository struct {
	pool *pgxpool.Pool
}

// NewEmployeeRepository instantiates the repository.
func NewEmployeeRepository(pool *pgxpool.Pool) EmployeeRepository {
	return &employeeRepository{pool: pool}
}

const employeeColumns = `id, organization_id, name, email, designation, reports_to, department_id, active_flag, created_at, updated_at`

func (r *employeeRepository) Create(ctx context.Context, emp *domain.Employee) error {
	const query = `
        INSERT INTO employees (organization_id, name, email, designation, reports_to, department_id, active_flag)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		emp.OrganizationID,
		emp.Name,
		emp.Email,
		emp.Designation,
		emp.ReportsTo,
		emp.DepartmentID,
		emp.Active,
	).Scan(&emp.ID, &emp.CreatedAt, &emp.UpdatedAt)
}

func (r *employeeRepository) Update(ctx context.Context, emp *domain.Employee) error {
	const query = `
        UPDATE employees
        SET name=$1, email=$2, designation=$3, reports_to=$4, department_id=$5, active_flag=$6, updated_at=NOW()
        WHERE organization_id=$7 AND id=$8`

	cmd, err := r.pool.Exec(ctx, query,
		emp.Name,
		emp.Email,
		emp.Designation,
		emp.ReportsTo,
		emp.DepartmentID,
		emp.Active,
		emp.OrganizationID,
		emp.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *employeeRepository) GetByID(ctx context.Context, orgID, id string) (*domain.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE organization_id=$1 AND id=$2`

	var emp domain.Employee
	if err := r.pool.QueryRow(ctx, query, orgID, id).Scan(
		&emp.ID,
		&emp.OrganizationID,
		&emp.Name,
		&emp.Email,
		&emp.Designation,
		&emp.ReportsTo,
		&emp.DepartmentID,
		&emp.Active,
		&emp.CreatedAt,
		&emp.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &emp, nil
}

func (r *employeeRepository) List(ctx context.Context, orgID string, filter EmployeeFilter) ([]domain.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees`
	args := []any{orgID}
	clauses := []string{"organization_id=$1"}

	if filter.DepartmentID != nil {
		args = append(args, *filter.DepartmentID)
		clauses = append(clauses, fmt.Sprintf("department_id=$%d", len(args)))
	}
	if filter.Designation != nil {
		args = append(args, *filter.Designation)
		clauses = append(clauses, fmt.Sprintf("lower(designation)=lower($%d)", len(args)))
	}
	if filter.Active != nil {
		args = append(args, *filter.Active)
		clauses = append(clauses, fmt.Sprintf("active_flag=$%d", len(args)))
	}
	query += " WHERE " + strings.Join(clauses, " AND ")
	query += " ORDER BY created_at, id"

	if filter.Limit > 0 {
		offset := filter.Offset
		if offset < 0 {
			offset = 0
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.Limit, offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Employee{}
	for rows.Next() {
		var emp domain.Employee
		if err := rows.Scan(
			&emp.ID,
			&emp.OrganizationID,
			&emp.Name,
			&emp.Email,
			&emp.Designation,
			&emp.ReportsTo,
			&emp.DepartmentID,
			&emp.Active,
			&emp.CreatedAt,
			&emp.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, emp)
	}
	return result, rows.Err()
}

func (r *employeeRepository) Delete(ctx context.Context, orgID, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM employees WHERE organization_id=$1 AND id=$2`, orgID, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
