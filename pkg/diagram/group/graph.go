package group

import (
	"slices"

	"github.com/matzehuels/canvaskit/pkg/diagram"
	"github.com/matzehuels/canvaskit/pkg/errors"
)

// GroupNodes wraps the nodes named by ids in a new root group and returns
// the updated graph.
//
// Selected nodes nested inside other groups are first resolved to absolute
// coordinates, so they keep their place on the canvas when they move under
// the new group. A selected node whose ancestor is also selected keeps its
// current parent. The group is inserted before the first selected node so
// parents precede their children in node order.
func GroupNodes(g diagram.Graph, ids []string, groupID, label string) (diagram.Graph, error) {
	if len(ids) == 0 {
		return g, errors.New(errors.ErrCodeInvalidInput, "no nodes selected")
	}
	if err := errors.ValidateID(groupID); err != nil {
		return g, err
	}
	if g.IDs().Has(groupID) {
		return g, errors.New(errors.ErrCodeInvalidInput, "id %q is already in use", groupID)
	}
	selected, missing := g.Select(ids)
	if len(missing) > 0 {
		return g, errors.New(errors.ErrCodeNodeNotFound, "node %q not found", missing[0])
	}

	picked := make(map[string]bool, len(selected))
	for _, n := range selected {
		picked[n.ID] = true
	}
	var tops []diagram.Node
	for _, n := range selected {
		if hasAncestorIn(n, g.Nodes, picked) {
			continue
		}
		abs := n.Clone()
		abs.Placement = diagram.Absolute(AbsolutePosition(n, g.Nodes))
		tops = append(tops, abs)
	}

	r := Create(tops, groupID, label)
	out := g.WithNodes(r.Children)
	at := slices.IndexFunc(out.Nodes, func(n diagram.Node) bool { return picked[n.ID] })
	out.Nodes = slices.Insert(out.Nodes, at, r.Group)
	return out, nil
}

// UngroupNode dissolves the group groupID. Its direct children move into the
// group's own coordinate space and the group node is removed together with
// any edges attached to it.
func UngroupNode(g diagram.Graph, groupID string) (diagram.Graph, error) {
	grp, ok := g.Node(groupID)
	if !ok || !grp.IsGroup() {
		return g, errors.New(errors.ErrCodeGroupNotFound, "group %q not found", groupID)
	}
	released := Ungroup(grp, Children(groupID, g.Nodes))
	return g.WithNodes(released).Remove(groupID), nil
}

// DeleteNodes removes the nodes named by ids and every edge touching them.
// Deleted groups are dissolved first, so their children survive in the
// group's coordinate space rather than being left with a dangling parent.
func DeleteNodes(g diagram.Graph, ids []string) (diagram.Graph, error) {
	selected, missing := g.Select(ids)
	if len(missing) > 0 {
		return g, errors.New(errors.ErrCodeNodeNotFound, "node %q not found", missing[0])
	}
	out := g
	for _, n := range selected {
		if !n.IsGroup() {
			continue
		}
		// Re-read the group: an earlier dissolve may have moved it.
		cur, _ := out.Node(n.ID)
		out = out.WithNodes(Ungroup(cur, Children(cur.ID, out.Nodes)))
	}
	return out.Remove(ids...), nil
}

func hasAncestorIn(n diagram.Node, nodes []diagram.Node, set map[string]bool) bool {
	byID := index(nodes)
	cur := n
	for hops := 0; cur.Placement.IsRelative() && hops < len(nodes); hops++ {
		if set[cur.Parent()] {
			return true
		}
		parent, ok := byID[cur.Parent()]
		if !ok {
			return false
		}
		cur = parent
	}
	return false
}
