// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package aam

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// Edge is one transition in the explored state graph, recorded for DOT
// export. The DOT *writer* is deliberately minimal: spec.md §1/§6 name
// the graph writer as an external collaborator, so this module covers
// only the textual emission the kernel itself is positioned to produce
// as a side effect of exploration (rendering to an image remains out
// of scope).
type Edge struct {
	From, To string
	Label    string
}

// WriteDOT emits a DOT digraph for the given edges (spec.md §6 "-d /
// --dotfile: emit state graph in DOT").
func WriteDOT(w io.Writer, edges []Edge) error {
	nodes := map[string]struct{}{}
	for _, e := range edges {
		nodes[e.From] = struct{}{}
		nodes[e.To] = struct{}{}
	}
	names := make([]string, 0, len(nodes))
	for n := range nodes {
		names = append(names, n)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("digraph states {\n")
	for _, n := range names {
		fmt.Fprintf(&b, "  %q;\n", n)
	}
	for _, e := range edges {
		if e.Label != "" {
			fmt.Fprintf(&b, "  %q -> %q [label=%q];\n", e.From, e.To, e.Label)
		} else {
			fmt.Fprintf(&b, "  %q -> %q;\n", e.From, e.To)
		}
	}
	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return err
}
