package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spec-kit/orgchart-service/internal/hierarchy"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// renderForest prints one line per node, children indented under their parent.
func renderForest[T any](w io.Writer, f *hierarchy.Forest[T], label func(*T) string) error {
	var err error
	f.Walk(func(idx int, node *hierarchy.Node[T]) bool {
		if err != nil {
			return false
		}
		_, err = fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", node.Depth), label(&node.Item))
		return true
	})
	return err
}
