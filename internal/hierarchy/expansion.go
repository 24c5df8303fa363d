package hierarchy

// Expansion tracks which forest nodes are expanded.
type Expansion struct {
	expanded map[string]bool
	all      bool
}

// NewExpansion starts with the given keys expanded.
func NewExpansion(keys ...string) *Expansion {
	e := &Expansion{expanded: make(map[string]bool, len(keys))}
	for _, k := range keys {
		e.expanded[k] = true
	}
	return e
}

// IsExpanded reports whether key's children are shown.
func (e *Expansion) IsExpanded(key string) bool {
	if e == nil {
		return false
	}
	if expanded, ok := e.expanded[key]; ok {
		return expanded
	}
	return e.all
}

// Expand shows key's children.
func (e *Expansion) Expand(key string) {
	e.expanded[key] = true
}

// Collapse hides key's children, even after ExpandAll.
func (e *Expansion) Collapse(key string) {
	e.expanded[key] = false
}

// Toggle flips key and returns its new state.
func (e *Expansion) Toggle(key string) bool {
	next := !e.IsExpanded(key)
	e.expanded[key] = next
	return next
}

// ExpandAll expands every node, including ones not seen yet.
func (e *Expansion) ExpandAll() {
	e.all = true
	clear(e.expanded)
}

// CollapseAll resets every node to collapsed.
func (e *Expansion) CollapseAll() {
	e.all = false
	clear(e.expanded)
}

// VisibleRow is one line of a flattened forest.
type VisibleRow struct {
	Index       int
	Key         string
	Depth       int
	HasChildren bool
	Expanded    bool
	IsLast      bool
}

// Visible flattens f depth-first, descending only into expanded nodes.
func Visible[T any](f *Forest[T], e *Expansion) []VisibleRow {
	rows := make([]VisibleRow, 0, f.Len())
	lastSibling := make(map[int]bool, f.Len())
	if f != nil && len(f.Roots) > 0 {
		lastSibling[f.Roots[len(f.Roots)-1]] = true
	}
	f.Walk(func(idx int, node *Node[T]) bool {
		expanded := e.IsExpanded(node.Key)
		if n := len(node.Children); n > 0 {
			lastSibling[node.Children[n-1]] = true
		}
		rows = append(rows, VisibleRow{
			Index:       idx,
			Key:         node.Key,
			Depth:       node.Depth,
			HasChildren: len(node.Children) > 0,
			Expanded:    expanded,
			IsLast:      lastSibling[idx],
		})
		return expanded
	})
	return rows
}
