package diagram

import (
	"fmt"
	"slices"
)

// Graph is a diagram snapshot: the full node and edge slices at one point
// in time.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Clone returns a deep copy of g.
func (g Graph) Clone() Graph {
	return Graph{Nodes: CloneNodes(g.Nodes), Edges: CloneEdges(g.Edges)}
}

// IsEmpty reports whether g has neither nodes nor edges.
func (g Graph) IsEmpty() bool { return len(g.Nodes) == 0 && len(g.Edges) == 0 }

// Node returns the node with the given ID.
func (g Graph) Node(id string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Select returns the nodes whose IDs are listed, in graph order,
// along with any requested IDs that were not found.
func (g Graph) Select(ids []string) (found []Node, missing []string) {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	for _, n := range g.Nodes {
		if want[n.ID] {
			found = append(found, n)
			delete(want, n.ID)
		}
	}
	for _, id := range ids {
		if want[id] {
			missing = append(missing, id)
			delete(want, id)
		}
	}
	return found, missing
}

// InternalEdges returns the edges whose endpoints are both in nodes.
func (g Graph) InternalEdges(nodes []Node) []Edge {
	in := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		in[n.ID] = true
	}
	var out []Edge
	for _, e := range g.Edges {
		if in[e.Source] && in[e.Target] {
			out = append(out, e)
		}
	}
	return out
}

// WithNodes returns a copy of g where every node whose ID matches one in
// updates is replaced. Nodes not present in g are ignored.
func (g Graph) WithNodes(updates []Node) Graph {
	byID := make(map[string]Node, len(updates))
	for _, n := range updates {
		byID[n.ID] = n
	}
	out := g.Clone()
	for i, n := range out.Nodes {
		if u, ok := byID[n.ID]; ok {
			out.Nodes[i] = u.Clone()
		}
	}
	return out
}

// Remove returns a copy of g without the listed nodes and without any edge
// touching them. Edges whose own ID is listed are removed as well.
// Children of a removed group are kept; they degrade to orphans.
func (g Graph) Remove(ids ...string) Graph {
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	out := Graph{}
	for _, n := range g.Nodes {
		if !drop[n.ID] {
			out.Nodes = append(out.Nodes, n.Clone())
		}
	}
	for _, e := range g.Edges {
		if !drop[e.ID] && !drop[e.Source] && !drop[e.Target] {
			out.Edges = append(out.Edges, e.Clone())
		}
	}
	return out
}

// IDs returns the set of identifiers in use by nodes and edges.
func (g Graph) IDs() IDSet {
	s := make(IDSet, len(g.Nodes)+len(g.Edges))
	for _, n := range g.Nodes {
		s.Add(n.ID)
	}
	for _, e := range g.Edges {
		s.Add(e.ID)
	}
	return s
}

// IDSet is a mutable set of identifiers.
type IDSet map[string]struct{}

// Add inserts id into the set.
func (s IDSet) Add(id string) { s[id] = struct{}{} }

// Has reports whether id is in the set.
func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Fresh returns the first "prefix_N" not in the set, starting from
// *counter+1, records it, and advances *counter past it.
func (s IDSet) Fresh(prefix string, counter *int) string {
	for {
		*counter++
		id := fmt.Sprintf("%s_%d", prefix, *counter)
		if !s.Has(id) {
			s.Add(id)
			return id
		}
	}
}

// Sorted returns the identifiers in lexical order.
func (s IDSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}
