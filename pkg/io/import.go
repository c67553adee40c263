package io

import (
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/canvaskit/pkg/diagram"
	"github.com/matzehuels/canvaskit/pkg/errors"
)

// Result is a parsed document.
type Result struct {
	Name    string
	Version string
	Kind    diagram.Kind
	Graph   diagram.Graph
	// Dropped lists edges that referenced missing nodes.
	Dropped []diagram.Edge
}

// VersionMismatch reports whether the document was written by a different
// format version. Mismatches are informational; the document is still used.
func (r Result) VersionMismatch() bool { return r.Version != Version }

// Parse maps a validated document onto the graph model.
//
// Missing tags and volumes become empty slices and a missing name becomes
// [DefaultName]. A parent reference that does not resolve to a group in
// the document is cleared, leaving the node at the root with its position
// unchanged. So is the parent of a node whose parent chain leads back to
// itself, which breaks every containment cycle at its first member. Edges whose source or target does not exist are dropped and
// reported in [Result.Dropped].
func Parse(doc Document) Result {
	res := Result{
		Name:    doc.Name,
		Version: doc.Version,
		Kind:    diagram.Kind(doc.Kind),
	}
	if res.Name == "" {
		res.Name = DefaultName
	}

	groups := make(map[string]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		groups[n.ID] = n.Data.IsGroup
	}

	res.Graph.Nodes = make([]diagram.Node, 0, len(doc.Nodes))
	for _, n := range doc.Nodes {
		res.Graph.Nodes = append(res.Graph.Nodes, parseNode(n, res.Kind, groups))
	}
	detachCycles(res.Graph.Nodes)

	res.Graph.Edges = make([]diagram.Edge, 0, len(doc.Edges))
	for _, e := range doc.Edges {
		edge := parseEdge(e)
		_, srcOK := groups[e.Source]
		_, dstOK := groups[e.Target]
		if !srcOK || !dstOK {
			res.Dropped = append(res.Dropped, edge)
			continue
		}
		res.Graph.Edges = append(res.Graph.Edges, edge)
	}
	return res
}

// detachCycles moves every node that is its own ancestor to the root.
func detachCycles(nodes []diagram.Node) {
	index := make(map[string]int, len(nodes))
	for i, n := range nodes {
		if _, dup := index[n.ID]; !dup {
			index[n.ID] = i
		}
	}
	for i := range nodes {
		start := nodes[i].ID
		seen := make(map[string]bool)
		for id := start; ; {
			j, ok := index[id]
			if !ok || nodes[j].Placement.IsAbsolute() {
				break
			}
			parent := nodes[j].Parent()
			if parent == start {
				nodes[i].Placement = diagram.Absolute(nodes[i].Position())
				break
			}
			if seen[parent] {
				break
			}
			seen[parent] = true
			id = parent
		}
	}
}

func parseNode(n Node, kind diagram.Kind, groups map[string]bool) diagram.Node {
	out := diagram.Node{
		ID:   n.ID,
		Type: diagram.TypeStandard,
		Data: diagram.NodeData{
			Label:    n.Data.Label,
			NodeType: diagram.TypeID(n.Data.NodeType),
			Tags:     append([]string{}, n.Data.Tags...),
			IsGroup:  n.Data.IsGroup,
		},
	}
	if n.Data.IsGroup {
		out.Type = diagram.TypeGroup
	}

	pos := diagram.Point{X: n.Position.X, Y: n.Position.Y}
	if n.ParentID != "" && n.ParentID != n.ID && groups[n.ParentID] {
		out.Placement = diagram.Relative(n.ParentID, pos)
	} else {
		out.Placement = diagram.Absolute(pos)
	}

	if n.Style != nil && (n.Style.Width > 0 || n.Style.Height > 0) {
		size := diagram.Size{Width: n.Style.Width, Height: n.Style.Height}
		if size.Width <= 0 {
			size.Width = diagram.DefaultWidth
		}
		if size.Height <= 0 {
			size.Height = diagram.DefaultHeight
		}
		out.Size = &size
	}

	if kind == "" || kind == diagram.KindArchitecture {
		vols := make([]diagram.Volume, 0, len(n.Data.Volumes))
		for _, v := range n.Data.Volumes {
			vols = append(vols, diagram.Volume{Name: v.Name, MountPath: v.MountPath})
		}
		out.Data.Details = diagram.ArchitectureDetails{Volumes: vols}
	}
	return out
}

func parseEdge(e Edge) diagram.Edge {
	out := diagram.Edge{
		ID:           e.ID,
		Source:       e.Source,
		Target:       e.Target,
		SourceHandle: e.SourceHandle,
		TargetHandle: e.TargetHandle,
	}
	if e.Data != nil {
		out.Data = &diagram.EdgeData{ColorFromTarget: e.Data.ColorFromTarget, Label: e.Data.Label}
	}
	return out
}

// Read decodes, validates and parses a document from r. Validation failures
// are returned as [errors.ValidationErrors]; nothing is returned unless the
// whole document is usable. Read does not close r.
func Read(r io.Reader, format Format) (Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Result{}, fmt.Errorf("read: %w", err)
	}
	doc, err := DecodeDocument(data, format)
	if err != nil {
		return Result{}, err
	}
	return Parse(doc), nil
}

// ReadFile reads a document from path. The format follows the file
// extension.
func ReadFile(path string) (Result, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return Result{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "file %s not found", path)
	}
	if err != nil {
		return Result{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f, FormatFromPath(path))
}
