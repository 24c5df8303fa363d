package hierarchy

import "github.com/spec-kit/orgchart-service/internal/domain"

// DesignationAccessor links designations by title.
var DesignationAccessor = Accessor[domain.Designation]{
	Key: func(d domain.Designation) string { return d.Title },
	Parent: func(d domain.Designation) (string, bool) {
		if d.ReportsTo == nil {
			return "", false
		}
		return *d.ReportsTo, true
	},
	Fold: true,
}

// EmployeeAccessor links employees by id.
var EmployeeAccessor = Accessor[domain.Employee]{
	Key: func(e domain.Employee) string { return e.ID },
	Parent: func(e domain.Employee) (string, bool) {
		if e.ReportsTo == nil {
			return "", false
		}
		return *e.ReportsTo, true
	},
}

// BuildDesignationForest builds the role hierarchy.
func BuildDesignationForest(designations []domain.Designation, opts Options) (*Forest[domain.Designation], error) {
	return Build(designations, DesignationAccessor, opts)
}

// BuildEmployeeForest builds the reporting hierarchy.
func BuildEmployeeForest(employees []domain.Employee, opts Options) (*Forest[domain.Employee], error) {
	return Build(employees, EmployeeAccessor, opts)
}
