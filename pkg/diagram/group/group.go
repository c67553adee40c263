// Package group maintains the containment forest of a diagram.
//
// A group is a node that owns children through their relative placement.
// The functions here convert between absolute and group-relative
// coordinates when containment changes. They are pure: each takes nodes by
// value and returns new nodes, and none of them fails on inconsistent input.
// A parent that no longer exists is treated as the end of the chain.
//
// # Coordinate Spaces
//
// A root node's position is absolute. A child's position is relative to the
// top-left corner of its parent group. [Create], [Ungroup], [Assign] and
// [Remove] keep the absolute position of every node they touch unchanged:
//
//	r := group.Create(selected, "g1", "Backend")
//	restored := group.Ungroup(r.Group, r.Children) // same absolute positions
//
// The graph-level helpers [GroupNodes] and [UngroupNode] wrap these for
// callers that hold a whole [diagram.Graph].
package group

import "github.com/matzehuels/canvaskit/pkg/diagram"

// Padding applied around the selection bounds when a group is created.
const (
	PaddingSide   = 40.0
	PaddingHeader = 50.0
	PaddingBottom = 40.0
)

// Result is the outcome of [Create].
type Result struct {
	Group    diagram.Node
	Children []diagram.Node
}

// Depth counts the parent hops from n to a root. A root has depth 0.
// A missing parent ends the walk early, so a node whose parent vanished
// reports the depth it could reach.
func Depth(n diagram.Node, nodes []diagram.Node) int {
	byID := index(nodes)
	depth := 0
	cur := n
	// A well-formed forest never needs more than len(nodes) hops.
	for cur.Placement.IsRelative() && depth < len(nodes) {
		parent, ok := byID[cur.Parent()]
		if !ok {
			break
		}
		depth++
		cur = parent
	}
	return depth
}

// AbsolutePosition resolves n's position to canvas space by adding the
// positions of its ancestors. Like [Depth], it stops at a missing parent.
func AbsolutePosition(n diagram.Node, nodes []diagram.Node) diagram.Point {
	byID := index(nodes)
	p := n.Position()
	cur := n
	for hops := 0; cur.Placement.IsRelative() && hops < len(nodes); hops++ {
		parent, ok := byID[cur.Parent()]
		if !ok {
			break
		}
		p = p.Add(parent.Position())
		cur = parent
	}
	return p
}

// Create wraps selected in a new group. The group is sized to the selection
// bounds plus padding, and every selected node is re-expressed relative to
// the group's top-left corner.
//
// The group is always created at the root, whatever the ancestry of the
// selection. Selected positions are read as given; callers holding nested
// nodes should resolve them first (see [GroupNodes]).
func Create(selected []diagram.Node, groupID, label string) Result {
	frame := diagram.BoundsOf(selected).Inflate(PaddingSide, PaddingHeader, PaddingSide, PaddingBottom)
	origin := diagram.Point{X: frame.X, Y: frame.Y}

	g := diagram.Node{
		ID:        groupID,
		Type:      diagram.TypeGroup,
		Placement: diagram.Absolute(origin),
		Size:      &diagram.Size{Width: frame.Width, Height: frame.Height},
		Data:      diagram.NodeData{Label: label, IsGroup: true},
	}

	children := make([]diagram.Node, 0, len(selected))
	for _, n := range selected {
		c := n.Clone()
		c.Placement = diagram.Relative(groupID, n.Position().Sub(origin))
		children = append(children, c)
	}
	return Result{Group: g, Children: children}
}

// Ungroup releases children from g. Each child moves into the space g
// itself occupied: it becomes a sibling of g, or a root if g was a root.
func Ungroup(g diagram.Node, children []diagram.Node) []diagram.Node {
	out := make([]diagram.Node, 0, len(children))
	for _, c := range children {
		out = append(out, Remove(c, g))
	}
	return out
}

// Assign places n inside g, converting its position into g's relative
// space. n and g must be expressed in the same coordinate space, which is
// the case for a node dropped onto a group on the canvas.
func Assign(n, g diagram.Node) diagram.Node {
	out := n.Clone()
	out.Placement = diagram.Relative(g.ID, n.Position().Sub(g.Position()))
	return out
}

// Remove takes n out of g, the inverse of [Assign]. n ends up in g's own
// coordinate space with g's parent.
func Remove(n, g diagram.Node) diagram.Node {
	out := n.Clone()
	out.Placement = diagram.Relative(g.Parent(), g.Position().Add(n.Position()))
	return out
}

// FindAt returns the first group in groups whose frame contains p.
// Groups are tested in the order given; overlapping groups resolve to the
// earliest. excludeID skips one group, so a group being dragged does not
// match itself. Non-group nodes are ignored.
func FindAt(p diagram.Point, groups []diagram.Node, excludeID string) (diagram.Node, bool) {
	for _, g := range groups {
		if !g.IsGroup() || (excludeID != "" && g.ID == excludeID) {
			continue
		}
		if g.Frame().Contains(p) {
			return g, true
		}
	}
	return diagram.Node{}, false
}

// Descendants collects every node below groupID, depth-first: each child is
// followed by its own descendants. The forest invariant is assumed.
func Descendants(groupID string, nodes []diagram.Node) []diagram.Node {
	var out []diagram.Node
	for _, n := range nodes {
		if n.Parent() == groupID && n.Placement.IsRelative() {
			out = append(out, n)
			out = append(out, Descendants(n.ID, nodes)...)
		}
	}
	return out
}

// Children returns the direct children of groupID in node order.
func Children(groupID string, nodes []diagram.Node) []diagram.Node {
	var out []diagram.Node
	for _, n := range nodes {
		if n.Placement.IsRelative() && n.Parent() == groupID {
			out = append(out, n)
		}
	}
	return out
}

func index(nodes []diagram.Node) map[string]diagram.Node {
	m := make(map[string]diagram.Node, len(nodes))
	for _, n := range nodes {
		m[n.ID] = n
	}
	return m
}
