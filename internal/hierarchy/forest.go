// Package hierarchy turns flat parent-pointer lists into forests and answers
// rank questions over designations.
package hierarchy

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrCycle is matched by *CycleError.
	ErrCycle = errors.New("hierarchy: parent references form a cycle")
	// ErrDepthExceeded is returned when a tree is deeper than Options.MaxDepth.
	ErrDepthExceeded = errors.New("hierarchy: maximum depth exceeded")
)

// CycleError lists the keys of nodes that could not be reached from any root.
type CycleError struct {
	Keys []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%s: %s", ErrCycle.Error(), strings.Join(e.Keys, ", "))
}

func (e *CycleError) Is(target error) bool {
	return target == ErrCycle
}

// Accessor extracts identity and parent pointer from an item.
type Accessor[T any] struct {
	Key    func(T) string
	Parent func(T) (string, bool)
	// Fold makes key matching case-insensitive and whitespace-trimmed.
	Fold bool
}

func (a Accessor[T]) normalize(key string) string {
	if a.Fold {
		return NormalizeTitle(key)
	}
	return key
}

// Options bound forest construction.
type Options struct {
	MaxDepth int
}

// Node is one entry of the forest arena. Parent is -1 for roots.
type Node[T any] struct {
	Item     T
	Key      string
	Parent   int
	Depth    int
	Children []int
}

// Forest is an arena of nodes in source order plus the indices of its roots.
type Forest[T any] struct {
	Nodes []Node[T]
	Roots []int
	fold  bool
}

// Build assembles the forest for items. A node is a root when its parent pointer
// is absent or does not resolve to a node in items. When several items share a
// key, parent pointers resolve to the first of them.
func Build[T any](items []T, acc Accessor[T], opts Options) (*Forest[T], error) {
	f := &Forest[T]{
		Nodes: make([]Node[T], len(items)),
		Roots: make([]int, 0),
		fold:  acc.Fold,
	}

	firstByKey := make(map[string]int, len(items))
	for i, item := range items {
		key := acc.normalize(acc.Key(item))
		f.Nodes[i] = Node[T]{Item: item, Key: key, Parent: -1}
		if _, seen := firstByKey[key]; !seen {
			firstByKey[key] = i
		}
	}

	for i, item := range items {
		ref, ok := acc.Parent(item)
		if !ok {
			continue
		}
		ref = acc.normalize(ref)
		if ref == "" {
			continue
		}
		if p, found := firstByKey[ref]; found {
			f.Nodes[i].Parent = p
		}
	}

	for i := range f.Nodes {
		p := f.Nodes[i].Parent
		if p < 0 {
			f.Roots = append(f.Roots, i)
			continue
		}
		f.Nodes[p].Children = append(f.Nodes[p].Children, i)
	}

	visited := make([]bool, len(f.Nodes))
	reached := 0
	stack := make([]int, 0, len(f.Roots))
	for r := len(f.Roots) - 1; r >= 0; r-- {
		stack = append(stack, f.Roots[r])
	}
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[idx] {
			continue
		}
		visited[idx] = true
		reached++

		node := &f.Nodes[idx]
		if node.Parent >= 0 {
			node.Depth = f.Nodes[node.Parent].Depth + 1
		}
		if opts.MaxDepth > 0 && node.Depth > opts.MaxDepth {
			return nil, fmt.Errorf("%w: %q at depth %d", ErrDepthExceeded, node.Key, node.Depth)
		}
		for c := len(node.Children) - 1; c >= 0; c-- {
			stack = append(stack, node.Children[c])
		}
	}

	if reached != len(f.Nodes) {
		cycle := &CycleError{}
		for i := range f.Nodes {
			if !visited[i] {
				cycle.Keys = append(cycle.Keys, f.Nodes[i].Key)
			}
		}
		return nil, cycle
	}

	return f, nil
}

// Len returns the number of nodes.
func (f *Forest[T]) Len() int {
	if f == nil {
		return 0
	}
	return len(f.Nodes)
}

// Children returns the indices of the children of node idx in source order.
func (f *Forest[T]) Children(idx int) []int {
	if f == nil || idx < 0 || idx >= len(f.Nodes) {
		return nil
	}
	return f.Nodes[idx].Children
}

// NormalizeKey applies the forest's key matching rules to an external key.
func (f *Forest[T]) NormalizeKey(key string) string {
	if f != nil && f.fold {
		return NormalizeTitle(key)
	}
	return key
}

// Find returns the index of the first node carrying key.
func (f *Forest[T]) Find(key string) (int, bool) {
	if f == nil {
		return -1, false
	}
	key = f.NormalizeKey(key)
	for i := range f.Nodes {
		if f.Nodes[i].Key == key {
			return i, true
		}
	}
	return -1, false
}

// Walk visits every node depth-first, roots in order, children in source order.
// Returning false from fn skips the node's subtree.
func (f *Forest[T]) Walk(fn func(idx int, node *Node[T]) bool) {
	if f == nil {
		return
	}
	stack := make([]int, 0, len(f.Roots))
	for r := len(f.Roots) - 1; r >= 0; r-- {
		stack = append(stack, f.Roots[r])
	}
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		node := &f.Nodes[idx]
		if !fn(idx, node) {
			continue
		}
		for c := len(node.Children) - 1; c >= 0; c-- {
			stack = append(stack, node.Children[c])
		}
	}
}

// NormalizeTitle is the matching key for designation titles.
func NormalizeTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

// SameTitle compares two titles under the matching rules.
func SameTitle(a, b string) bool {
	return NormalizeTitle(a) == NormalizeTitle(b)
}
