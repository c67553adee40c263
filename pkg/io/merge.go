package io

import "github.com/matzehuels/canvaskit/pkg/diagram"

// DefaultMergeOffset is how far imported root nodes are shifted so they do
// not land on top of the existing diagram.
var DefaultMergeOffset = diagram.Point{X: 300, Y: 100}

// Merged is the outcome of [Merge].
type Merged struct {
	Graph diagram.Graph
	// Renamed maps imported identifiers to the identifiers they were given
	// because they collided. Identifiers kept as-is are not listed.
	Renamed map[string]string
}

// Merge appends imported to existing without identifier collisions.
//
// Every identifier already used by an existing node or edge is reserved.
// An imported node whose identifier is taken is renamed "group_N" or
// "node_N", an imported edge "edge_N", with N counting up separately for
// each prefix and skipping identifiers in use. Parent references and edge
// endpoints are rewritten through the same renaming.
//
// Imported root nodes are shifted by offset. Nested nodes keep their
// position, which is relative to their (possibly renamed) parent. A nested
// node whose parent is not part of the import is moved to the root and
// shifted like any other root.
//
// The existing nodes and edges come first in the result and are never
// modified.
func Merge(existing, imported diagram.Graph, offset diagram.Point) Merged {
	inUse := existing.IDs()
	renamed := make(map[string]string)
	ids := make(map[string]string, len(imported.Nodes))
	var groupN, nodeN, edgeN int

	// References resolve to the first imported node of an identifier; a
	// later duplicate is renamed like any other collision.
	newIDs := make([]string, len(imported.Nodes))
	for i, n := range imported.Nodes {
		id := n.ID
		if inUse.Has(id) {
			if n.IsGroup() {
				id = inUse.Fresh("group", &groupN)
			} else {
				id = inUse.Fresh("node", &nodeN)
			}
		} else {
			inUse.Add(id)
		}
		newIDs[i] = id
		if _, seen := ids[n.ID]; !seen {
			ids[n.ID] = id
			if id != n.ID {
				renamed[n.ID] = id
			}
		}
	}

	out := existing.Clone()
	for i, n := range imported.Nodes {
		c := n.Clone()
		c.ID = newIDs[i]
		parent, ok := ids[n.Parent()]
		switch {
		case n.Placement.IsRelative() && ok:
			c.Placement = diagram.Relative(parent, n.Position())
		default:
			c.Placement = diagram.Absolute(n.Position().Add(offset))
		}
		out.Nodes = append(out.Nodes, c)
	}

	for _, e := range imported.Edges {
		c := e.Clone()
		if inUse.Has(e.ID) {
			c.ID = inUse.Fresh("edge", &edgeN)
			renamed[e.ID] = c.ID
		} else {
			inUse.Add(e.ID)
		}
		if id, ok := ids[e.Source]; ok {
			c.Source = id
		}
		if id, ok := ids[e.Target]; ok {
			c.Target = id
		}
		out.Edges = append(out.Edges, c)
	}
	return Merged{Graph: out, Renamed: renamed}
}
