// Package dot renders compilations as Graphviz digraphs.
package dot

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/LegacyCodeHQ/ctxmap/bundler"
	"github.com/LegacyCodeHQ/ctxmap/cmd/graph/formatters"
	"github.com/LegacyCodeHQ/ctxmap/languages/javascript"
)

// Formatter formats compilations as Graphviz DOT.
type Formatter struct{}

// Format converts the compilation graph to DOT. Nodes and edges are written
// in sorted order.
func (f *Formatter) Format(comp *bundler.Compilation, opts formatters.FormatOptions) (string, error) {
	adjacency, err := comp.AdjacencyList()
	if err != nil {
		return "", err
	}

	contexts := make(map[string]*bundler.ContextModule, len(comp.Contexts))
	for _, m := range comp.Contexts {
		if _, ok := contexts[m.Identifier()]; !ok {
			contexts[m.Identifier()] = m
		}
	}

	var nodes, files []string
	for node := range adjacency {
		nodes = append(nodes, node)
		if _, ok := contexts[node]; !ok {
			files = append(files, node)
		}
	}
	sort.Strings(nodes)

	names := formatters.ShortNames(files)
	colors := formatters.ExtensionColors(files)

	var sb strings.Builder
	sb.WriteString("digraph dependencies {\n")
	sb.WriteString("  rankdir=LR;\n")
	sb.WriteString("  node [shape=box];\n")

	if opts.Label != "" {
		sb.WriteString(fmt.Sprintf("  label=%q;\n", opts.Label))
		sb.WriteString("  labelloc=t;\n")
		sb.WriteString("  labeljust=l;\n")
		sb.WriteString("  fontsize=10;\n")
		sb.WriteString("  fontname=Courier;\n")
	}

	if len(nodes) > 0 {
		sb.WriteString("\n")
	}
	for _, node := range nodes {
		if m, ok := contexts[node]; ok {
			label, color := m.Dir+"/*", "lightgray"
			if m.Overridden {
				label, color = label+" (static)", "gold"
			}
			sb.WriteString(fmt.Sprintf("  %q [label=%q, shape=folder, style=filled, fillcolor=%s];\n", node, label, color))
			continue
		}

		color, ok := colors[path.Ext(node)]
		if !ok {
			color = "white"
		}
		if javascript.IsTestFile(node) {
			color = "lightgreen"
		}
		sb.WriteString(fmt.Sprintf("  %q [label=%q, style=filled, fillcolor=%s];\n", node, names[node], color))
	}

	var edges []string
	for _, node := range nodes {
		_, fromContext := contexts[node]
		for _, dep := range adjacency[node] {
			if fromContext {
				edges = append(edges, fmt.Sprintf("  %q -> %q [style=dashed];\n", node, dep))
			} else {
				edges = append(edges, fmt.Sprintf("  %q -> %q;\n", node, dep))
			}
		}
	}
	if len(edges) > 0 {
		sb.WriteString("\n")
		sb.WriteString(strings.Join(edges, ""))
	}

	sb.WriteString("}")
	return sb.String(), nil
}
