package diagram

import "math"

// Default node dimensions, used when a node carries no explicit size.
const (
	DefaultWidth  = 180.0
	DefaultHeight = 80.0
)

// Point is a 2D coordinate in canvas units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Sub returns p translated by -q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Size is a width/height pair.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (r Rect) MinX() float64    { return r.X }
func (r Rect) MinY() float64    { return r.Y }
func (r Rect) MaxX() float64    { return r.X + r.Width }
func (r Rect) MaxY() float64    { return r.Y + r.Height }
func (r Rect) CenterX() float64 { return r.X + r.Width/2 }
func (r Rect) CenterY() float64 { return r.Y + r.Height/2 }

// IsZero reports whether r is the zero rectangle.
func (r Rect) IsZero() bool { return r == Rect{} }

// Contains reports whether p lies inside r. Edges are inclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.MinX() && p.X <= r.MaxX() && p.Y >= r.MinY() && p.Y <= r.MaxY()
}

// Inflate grows r by the given margins on each side.
func (r Rect) Inflate(left, top, right, bottom float64) Rect {
	return Rect{
		X:      r.X - left,
		Y:      r.Y - top,
		Width:  r.Width + left + right,
		Height: r.Height + top + bottom,
	}
}

// Frame returns the rectangle a node occupies in its own coordinate space.
func (n Node) Frame() Rect {
	s := n.Dimensions()
	return Rect{X: n.Placement.X, Y: n.Placement.Y, Width: s.Width, Height: s.Height}
}

// BoundsOf returns the axis-aligned bounding box of nodes, using each node's
// own coordinates and its dimensions (or the 180×80 default).
// An empty set yields the zero rectangle.
func BoundsOf(nodes []Node) Rect {
	if len(nodes) == 0 {
		return Rect{}
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, n := range nodes {
		f := n.Frame()
		minX = math.Min(minX, f.MinX())
		minY = math.Min(minY, f.MinY())
		maxX = math.Max(maxX, f.MaxX())
		maxY = math.Max(maxY, f.MaxY())
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
