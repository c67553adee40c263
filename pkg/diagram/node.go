package diagram

import "slices"

// NodeType distinguishes regular nodes from groups.
type NodeType string

const (
	TypeStandard NodeType = "standard"
	TypeGroup    NodeType = "group"
)

// Containment describes how a node is bounded by its parent.
type Containment string

const (
	// ContainmentNone: the node moves freely in absolute space.
	ContainmentNone Containment = "none"
	// ContainmentParent: the node is clamped to its parent group.
	ContainmentParent Containment = "parent"
)

// TypeID identifies a palette entry (e.g. "service", "database", "queue").
type TypeID string

// Placement locates a node. With an empty Parent the point is absolute;
// otherwise it is relative to the parent's top-left corner.
type Placement struct {
	Parent string `json:"parent,omitempty"`
	Point
}

// Absolute returns a root-level placement at p.
func Absolute(p Point) Placement { return Placement{Point: p} }

// Relative returns a placement at p inside parent.
// An empty parent yields an absolute placement.
func Relative(parent string, p Point) Placement { return Placement{Parent: parent, Point: p} }

// IsAbsolute reports whether the placement has no parent.
func (p Placement) IsAbsolute() bool { return p.Parent == "" }

// IsRelative reports whether the placement is expressed in a parent's space.
func (p Placement) IsRelative() bool { return p.Parent != "" }

// Volume is a storage mount attached to an architecture node.
type Volume struct {
	Name      string `json:"name"`
	MountPath string `json:"mountPath"`
}

// NodeData is the labelled payload common to every diagram kind.
type NodeData struct {
	Label    string   `json:"label"`
	NodeType TypeID   `json:"nodeType,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	IsGroup  bool     `json:"isGroup,omitempty"`
	Details  Details  `json:"-"`
}

// Node is a placeable diagram element: a regular node or a group.
type Node struct {
	ID        string    `json:"id"`
	Type      NodeType  `json:"type"`
	Placement Placement `json:"placement"`
	Size      *Size     `json:"size,omitempty"`
	Data      NodeData  `json:"data"`
	Selected  bool      `json:"selected,omitempty"`
}

// Dimensions returns the node's size, or the default when it has none.
func (n Node) Dimensions() Size {
	if n.Size == nil {
		return Size{Width: DefaultWidth, Height: DefaultHeight}
	}
	return *n.Size
}

// Position returns the node's coordinates in its parent's space.
func (n Node) Position() Point { return n.Placement.Point }

// Parent returns the parent group ID, or "" for root nodes.
func (n Node) Parent() string { return n.Placement.Parent }

// Containment derives the containment mode from the placement.
func (n Node) Containment() Containment {
	if n.Placement.IsRelative() {
		return ContainmentParent
	}
	return ContainmentNone
}

// IsGroup reports whether the node can own children.
func (n Node) IsGroup() bool { return n.Type == TypeGroup || n.Data.IsGroup }

// Clone returns a deep copy of n.
func (n Node) Clone() Node {
	out := n
	if n.Size != nil {
		s := *n.Size
		out.Size = &s
	}
	out.Data.Tags = slices.Clone(n.Data.Tags)
	if n.Data.Details != nil {
		out.Data.Details = n.Data.Details.clone()
	}
	return out
}

// EdgeData is the optional payload of an edge.
type EdgeData struct {
	ColorFromTarget bool   `json:"colorFromTarget,omitempty"`
	Label           string `json:"label,omitempty"`
}

// Edge connects two nodes. Self-loops are permitted.
type Edge struct {
	ID           string    `json:"id"`
	Source       string    `json:"source"`
	Target       string    `json:"target"`
	SourceHandle string    `json:"sourceHandle,omitempty"`
	TargetHandle string    `json:"targetHandle,omitempty"`
	Data         *EdgeData `json:"data,omitempty"`
}

// Clone returns a deep copy of e.
func (e Edge) Clone() Edge {
	out := e
	if e.Data != nil {
		d := *e.Data
		out.Data = &d
	}
	return out
}

// CloneNodes deep-copies a node slice. A nil input yields a nil output.
func CloneNodes(nodes []Node) []Node {
	if nodes == nil {
		return nil
	}
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[i] = n.Clone()
	}
	return out
}

// CloneEdges deep-copies an edge slice. A nil input yields a nil output.
func CloneEdges(edges []Edge) []Edge {
	if edges == nil {
		return nil
	}
	out := make([]Edge, len(edges))
	for i, e := range edges {
		out[i] = e.Clone()
	}
	return out
}
