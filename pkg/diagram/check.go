package diagram

import (
	"fmt"

	"github.com/matzehuels/canvaskit/pkg/errors"
)

// Check verifies the structural invariants of g and reports every violation:
//
//   - node and edge IDs are non-empty and unique
//   - a relative placement references an existing group
//   - containment forms a forest (no node is its own ancestor)
//   - edge endpoints reference existing nodes
//
// The returned error is an [errors.ValidationErrors] or nil.
// Engines do not call Check; they accept inconsistent input and degrade.
func Check(g Graph) error {
	var errs errors.ValidationErrors

	nodes := make(map[string]Node, len(g.Nodes))
	seen := make(IDSet, len(g.Nodes)+len(g.Edges))
	for i, n := range g.Nodes {
		field := fmt.Sprintf("nodes[%d]", i)
		switch {
		case n.ID == "":
			errs.Add(field+".id", "is empty")
		case seen.Has(n.ID):
			errs.Add(field+".id", "duplicate id %q", n.ID)
		default:
			seen.Add(n.ID)
			nodes[n.ID] = n
		}
	}

	for i, n := range g.Nodes {
		if n.Placement.IsAbsolute() {
			continue
		}
		field := fmt.Sprintf("nodes[%d].parent", i)
		parent, ok := nodes[n.Parent()]
		if !ok {
			errs.Add(field, "references missing node %q", n.Parent())
			continue
		}
		if !parent.IsGroup() {
			errs.Add(field, "references %q which is not a group", n.Parent())
		}
	}

	for i, n := range g.Nodes {
		if hasCycle(n, nodes) {
			errs.Add(fmt.Sprintf("nodes[%d].parent", i), "node %q is its own ancestor", n.ID)
		}
	}

	for i, e := range g.Edges {
		field := fmt.Sprintf("edges[%d]", i)
		switch {
		case e.ID == "":
			errs.Add(field+".id", "is empty")
		case seen.Has(e.ID):
			errs.Add(field+".id", "duplicate id %q", e.ID)
		default:
			seen.Add(e.ID)
		}
		if _, ok := nodes[e.Source]; !ok {
			errs.Add(field+".source", "references missing node %q", e.Source)
		}
		if _, ok := nodes[e.Target]; !ok {
			errs.Add(field+".target", "references missing node %q", e.Target)
		}
	}

	return errs.Err()
}

// hasCycle walks the parent chain of n looking for n itself.
func hasCycle(n Node, nodes map[string]Node) bool {
	visited := map[string]bool{n.ID: true}
	cur := n
	for cur.Placement.IsRelative() {
		parent, ok := nodes[cur.Parent()]
		if !ok {
			return false
		}
		if parent.ID == n.ID {
			return true
		}
		if visited[parent.ID] {
			// A cycle above n that does not include n is reported on its members.
			return false
		}
		visited[parent.ID] = true
		cur = parent
	}
	return false
}
