package dto

import (
	"github.com/spec-kit/orgchart-service/internal/domain"
	"github.com/spec-kit/orgchart-service/internal/hierarchy"
)

// TreeNode is one nested forest node.
type TreeNode[R any] struct {
	Key      string        `json:"key"`
	Depth    int           `json:"depth"`
	Item     R             `json:"item"`
	Children []TreeNode[R] `json:"children"`
}

// VisibleRowResponse is one line of the flattened, expansion-aware forest.
type VisibleRowResponse struct {
	Key         string `json:"key"`
	Label       string `json:"label"`
	Depth       int    `json:"depth"`
	HasChildren bool   `json:"has_children"`
	Expanded    bool   `json:"expanded"`
	IsLast      bool   `json:"is_last"`
}

// TreeResponse carries both the nested forest and its visible rows.
type TreeResponse[R any] struct {
	Roots     []TreeNode[R]        `json:"roots"`
	Visible   []VisibleRowResponse `json:"visible"`
	NodeCount int                  `json:"node_count"`
}

// DesignationTreeResponse adds the reconciliation outcome to the role forest.
type DesignationTreeResponse struct {
	TreeResponse[DesignationResponse]
	Filtered bool                  `json:"filtered"`
	Failed   []FailedTitleResponse `json:"failed"`
}

// NewTreeResponse maps a forest. Nesting depth is bounded by the builder.
func NewTreeResponse[T any, R any](f *hierarchy.Forest[T], e *hierarchy.Expansion, item func(*T) R, label func(*T) string) TreeResponse[R] {
	var build func(idx int) TreeNode[R]
	build = func(idx int) TreeNode[R] {
		node := &f.Nodes[idx]
		out := TreeNode[R]{
			Key:      node.Key,
			Depth:    node.Depth,
			Item:     item(&node.Item),
			Children: make([]TreeNode[R], 0, len(node.Children)),
		}
		for _, c := range node.Children {
			out.Children = append(out.Children, build(c))
		}
		return out
	}

	resp := TreeResponse[R]{
		Roots:     make([]TreeNode[R], 0, len(f.Roots)),
		Visible:   []VisibleRowResponse{},
		NodeCount: f.Len(),
	}
	for _, r := range f.Roots {
		resp.Roots = append(resp.Roots, build(r))
	}
	for _, row := range hierarchy.Visible(f, e) {
		resp.Visible = append(resp.Visible, VisibleRowResponse{
			Key:         row.Key,
			Label:       label(&f.Nodes[row.Index].Item),
			Depth:       row.Depth,
			HasChildren: row.HasChildren,
			Expanded:    row.Expanded,
			IsLast:      row.IsLast,
		})
	}
	return resp
}

// NewDesignationTreeResponse maps a designation forest.
func NewDesignationTreeResponse(f *hierarchy.Forest[domain.Designation], e *hierarchy.Expansion) TreeResponse[DesignationResponse] {
	return NewTreeResponse(f, e, NewDesignationResponse, func(d *domain.Designation) string { return d.Title })
}

// NewEmployeeTreeResponse maps a staff forest.
func NewEmployeeTreeResponse(f *hierarchy.Forest[domain.Employee], e *hierarchy.Expansion) TreeResponse[EmployeeResponse] {
	return NewTreeResponse(f, e, NewEmployeeResponse, func(emp *domain.Employee) string {
		if emp.Designation == "" {
			return emp.Name
		}
		return emp.Name + " (" + emp.Designation + ")"
	})
}

// EligibilityResponse answers a reporting pair check.
type EligibilityResponse struct {
	SubordinateID string `json:"subordinate_id"`
	ManagerID     string `json:"manager_id"`
	Allowed       bool   `json:"allowed"`
}
