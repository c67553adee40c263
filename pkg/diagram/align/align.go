// Package align computes new node positions for alignment and even
// distribution of a selection.
//
// Only positions and sizes are considered. Parentage is ignored: nodes are
// aligned in whatever coordinate space their positions are expressed in,
// so mixing children of different groups in one selection gives results
// relative to each node's own parent.
//
// All functions return new slices in the order of their input; the input
// is never modified.
package align

import (
	"slices"
	"sort"

	"github.com/matzehuels/canvaskit/pkg/diagram"
	"github.com/matzehuels/canvaskit/pkg/errors"
)

// ToolbarOffset is how far above a selection's centre the floating
// toolbar is anchored.
const ToolbarOffset = 60.0

// Mode is an alignment rule.
type Mode string

const (
	Left   Mode = "left"
	Center Mode = "center"
	Right  Mode = "right"
	Top    Mode = "top"
	Middle Mode = "middle"
	Bottom Mode = "bottom"
)

// Modes lists every alignment mode.
var Modes = []Mode{Left, Center, Right, Top, Middle, Bottom}

// ParseMode converts a user-supplied name into a Mode.
func ParseMode(s string) (Mode, error) {
	for _, m := range Modes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "unknown alignment %q (want one of %v)", s, Modes)
}

// Axis is a distribution direction.
type Axis string

const (
	Horizontal Axis = "horizontal"
	Vertical   Axis = "vertical"
)

// ParseAxis converts a user-supplied name into an Axis. The short forms
// "h" and "v" are accepted.
func ParseAxis(s string) (Axis, error) {
	switch s {
	case "horizontal", "h":
		return Horizontal, nil
	case "vertical", "v":
		return Vertical, nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "unknown axis %q (want horizontal or vertical)", s)
}

// Align snaps every node to one edge or centre line of the selection's
// bounding box. Fewer than two nodes, or an unknown mode, leave the
// positions unchanged.
func Align(nodes []diagram.Node, mode Mode) []diagram.Node {
	out := diagram.CloneNodes(nodes)
	if len(nodes) < 2 || !slices.Contains(Modes, mode) {
		return out
	}
	b := diagram.BoundsOf(nodes)
	for i := range out {
		s := out[i].Dimensions()
		p := &out[i].Placement.Point
		switch mode {
		case Left:
			p.X = b.MinX()
		case Center:
			p.X = b.CenterX() - s.Width/2
		case Right:
			p.X = b.MaxX() - s.Width
		case Top:
			p.Y = b.MinY()
		case Middle:
			p.Y = b.CenterY() - s.Height/2
		case Bottom:
			p.Y = b.MaxY() - s.Height
		}
	}
	return out
}

// Distribute spaces nodes so the gaps between neighbours along axis are
// equal. The first and last nodes along the axis stay fixed; the nodes in
// between are laid out from the first anchor's trailing edge. Gaps, not
// centre distances, are equalised. Fewer than three nodes are returned
// unchanged.
func Distribute(nodes []diagram.Node, axis Axis) []diagram.Node {
	out := diagram.CloneNodes(nodes)
	lead, size, ok := accessors(axis)
	if len(nodes) < 3 || !ok {
		return out
	}

	order := make([]int, len(out))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return *lead(&out[order[a]]) < *lead(&out[order[b]])
	})

	first, last := &out[order[0]], &out[order[len(order)-1]]
	span := *lead(last) + size(*last) - *lead(first)
	var total float64
	for _, n := range out {
		total += size(n)
	}
	gap := (span - total) / float64(len(out)-1)

	cursor := *lead(first) + size(*first) + gap
	for _, idx := range order[1 : len(order)-1] {
		n := &out[idx]
		*lead(n) = cursor
		cursor += size(*n) + gap
	}
	return out
}

// accessors returns the leading coordinate and extent of a node along axis.
func accessors(axis Axis) (lead func(*diagram.Node) *float64, size func(diagram.Node) float64, ok bool) {
	switch axis {
	case Horizontal:
		return func(n *diagram.Node) *float64 { return &n.Placement.X },
			func(n diagram.Node) float64 { return n.Dimensions().Width }, true
	case Vertical:
		return func(n *diagram.Node) *float64 { return &n.Placement.Y },
			func(n diagram.Node) float64 { return n.Dimensions().Height }, true
	}
	return nil, nil, false
}

// SelectionCenter returns the point a floating toolbar is anchored to: the
// centre of the selection's bounding box, raised by [ToolbarOffset].
func SelectionCenter(nodes []diagram.Node) diagram.Point {
	b := diagram.BoundsOf(nodes)
	return diagram.Point{X: b.CenterX(), Y: b.CenterY() - ToolbarOffset}
}
