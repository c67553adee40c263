// Package clipboard produces placeable copies of diagram selections.
//
// A [Clipboard] holds one copied selection. [Clipboard.Paste] returns a fresh
// batch of copies each time it is called without consuming what was
// copied, so the same selection can be pasted repeatedly. [Duplicate] does
// the same for a selection that never went through the clipboard.
//
// Every copy gets a new identifier from the configured [IDFunc], is moved
// by the paste offset and is marked selected. Edges are copied only when
// both of their endpoints are part of the selection; they are re-pointed at
// the copied nodes.
//
// Both operations are total: they never fail, and an empty input yields an
// empty selection.
package clipboard

import (
	"github.com/google/uuid"

	"github.com/matzehuels/canvaskit/pkg/diagram"
)

// IDFunc generates identifiers for pasted items. Collision freedom is the
// generator's responsibility.
type IDFunc func() string

// UUID generates random version 4 UUIDs.
func UUID() string { return uuid.NewString() }

// Unique returns a generator that draws "prefix_N" identifiers not yet in
// ids, recording each one it hands out.
func Unique(ids diagram.IDSet, prefix string) IDFunc {
	counter := 0
	return func() string { return ids.Fresh(prefix, &counter) }
}

// Options controls how copies are placed.
type Options struct {
	// Offset is added to the position of every copied root item.
	Offset diagram.Point
	// ClearParent strips containment so every copy lands at the root.
	// When false, a copy whose parent was copied along with it is placed
	// inside the parent's copy at its original relative position, and any
	// other copy keeps its original parent.
	ClearParent bool
	// NewID generates identifiers; nil means [UUID].
	NewID IDFunc
}

// DefaultOptions returns the standard paste placement: 50px down and to the
// right, at the root.
func DefaultOptions() Options {
	return Options{
		Offset:      diagram.Point{X: 50, Y: 50},
		ClearParent: true,
		NewID:       UUID,
	}
}

// Selection is a set of nodes with the edges that run between them.
type Selection struct {
	Nodes []diagram.Node `json:"nodes"`
	Edges []diagram.Edge `json:"edges,omitempty"`
}

// Len returns the number of nodes in s.
func (s Selection) Len() int { return len(s.Nodes) }

// Clone returns a deep copy of s.
func (s Selection) Clone() Selection {
	return Selection{Nodes: diagram.CloneNodes(s.Nodes), Edges: diagram.CloneEdges(s.Edges)}
}

// Select builds a selection from nodes, keeping only the edges whose
// endpoints are both among nodes.
func Select(nodes []diagram.Node, edges []diagram.Edge) Selection {
	g := diagram.Graph{Nodes: nodes, Edges: edges}
	return Selection{Nodes: diagram.CloneNodes(nodes), Edges: diagram.CloneEdges(g.InternalEdges(nodes))}
}

// Clipboard stores a copied selection. The zero value is an empty clipboard.
type Clipboard struct {
	content Selection
}

// New returns a clipboard holding sel.
func New(sel Selection) *Clipboard {
	return &Clipboard{content: sel.Clone()}
}

// Copy replaces the clipboard content with a deep copy of nodes and the
// edges between them. Copying no nodes leaves the previous content intact.
func (c *Clipboard) Copy(nodes []diagram.Node, edges []diagram.Edge) {
	if len(nodes) == 0 {
		return
	}
	c.content = Select(nodes, edges)
}

// Content returns a deep copy of what is stored.
func (c *Clipboard) Content() Selection { return c.content.Clone() }

// Empty reports whether nothing has been copied.
func (c *Clipboard) Empty() bool { return len(c.content.Nodes) == 0 }

// Paste returns placeable copies of the clipboard content. The stored
// content is not modified, so every call yields an equivalent batch.
func (c *Clipboard) Paste(opts Options) Selection {
	return Duplicate(c.content, opts)
}

// Duplicate returns placeable copies of sel.
func Duplicate(sel Selection, opts Options) Selection {
	newID := opts.NewID
	if newID == nil {
		newID = UUID
	}

	ids := make(map[string]string, len(sel.Nodes))
	for _, n := range sel.Nodes {
		ids[n.ID] = newID()
	}

	out := Selection{Nodes: make([]diagram.Node, 0, len(sel.Nodes))}
	for _, n := range sel.Nodes {
		c := n.Clone()
		c.ID = ids[n.ID]
		c.Selected = true
		moved := n.Position().Add(opts.Offset)
		switch parent, copied := ids[n.Parent()]; {
		case opts.ClearParent:
			c.Placement = diagram.Absolute(moved)
		case n.Placement.IsRelative() && copied:
			c.Placement = diagram.Relative(parent, n.Position())
		default:
			c.Placement = diagram.Relative(n.Parent(), moved)
		}
		out.Nodes = append(out.Nodes, c)
	}

	for _, e := range sel.Edges {
		src, okS := ids[e.Source]
		dst, okT := ids[e.Target]
		if !okS || !okT {
			continue
		}
		c := e.Clone()
		c.ID = newID()
		c.Source, c.Target = src, dst
		out.Edges = append(out.Edges, c)
	}
	return out
}
