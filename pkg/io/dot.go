package io

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-graphviz"
)

// ToDOT converts a document to Graphviz DOT. Each group becomes a
// "cluster_" subgraph holding its children, so nesting survives in the
// rendered graph. Node positions are not carried over; DOT consumers lay
// the graph out themselves. A node whose parent chain never reaches a root
// is written at the top level.
func ToDOT(doc Document) string {
	children := make(map[string][]Node)
	known := make(map[string]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		known[n.ID] = true
	}
	var roots []Node
	for _, n := range doc.Nodes {
		if n.ParentID != "" && known[n.ParentID] {
			children[n.ParentID] = append(children[n.ParentID], n)
			continue
		}
		roots = append(roots, n)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "digraph %q {\n", doc.Name)
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  compound=true;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white];\n")
	buf.WriteString("\n")

	visited := make(map[string]bool, len(doc.Nodes))
	for _, n := range roots {
		writeDOTNode(&buf, n, children, visited, 1)
	}
	// Nodes on a parent cycle are reachable from no root.
	for _, n := range doc.Nodes {
		writeDOTNode(&buf, n, children, visited, 1)
	}

	buf.WriteString("\n")
	for _, e := range doc.Edges {
		attrs := ""
		if e.Data != nil && e.Data.Label != "" {
			attrs = fmt.Sprintf(" [label=%q]", e.Data.Label)
		}
		fmt.Fprintf(&buf, "  %q -> %q%s;\n", e.Source, e.Target, attrs)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeDOTNode(buf *bytes.Buffer, n Node, children map[string][]Node, visited map[string]bool, depth int) {
	if visited[n.ID] {
		return
	}
	visited[n.ID] = true
	indent := strings.Repeat("  ", depth)

	if !n.Data.IsGroup {
		attrs := []string{fmt.Sprintf("label=%q", n.Data.Label)}
		if n.Data.NodeType != "" {
			attrs = append(attrs, fmt.Sprintf("tooltip=%q", n.Data.NodeType))
		}
		fmt.Fprintf(buf, "%s%q [%s];\n", indent, n.ID, strings.Join(attrs, ", "))
		return
	}

	fmt.Fprintf(buf, "%ssubgraph %q {\n", indent, "cluster_"+n.ID)
	fmt.Fprintf(buf, "%s  label=%q;\n", indent, n.Data.Label)
	fmt.Fprintf(buf, "%s  style=\"rounded,dashed\";\n", indent)
	// An anchor node keeps empty clusters visible and gives edges to the
	// group itself something to attach to.
	fmt.Fprintf(buf, "%s  %q [shape=point, style=invis];\n", indent, n.ID)
	for _, c := range children[n.ID] {
		writeDOTNode(buf, c, children, visited, depth+1)
	}
	fmt.Fprintf(buf, "%s}\n", indent)
}

// WriteDOT writes doc as DOT after checking that Graphviz accepts it.
func WriteDOT(ctx context.Context, doc Document, w io.Writer) error {
	dot := ToDOT(doc)
	if err := checkDOT(ctx, dot); err != nil {
		return err
	}
	_, err := io.WriteString(w, dot)
	return err
}

func checkDOT(ctx context.Context, dot string) error {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return fmt.Errorf("parse DOT: %w", err)
	}
	return g.Close()
}
