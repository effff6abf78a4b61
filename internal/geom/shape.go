package geom

import (
	"math"
	"sort"
)

// Reserved shape ids for the static scene furniture.
const (
	// GroundID is the shape id of the ground body.
	GroundID = "_"
	// FrameID is the shape id of the enclosing frame body.
	FrameID = "|"
)

// Kind discriminates the concrete shape types.
type Kind int

const (
	// KindPolygon is a (possibly open) polygon.
	KindPolygon Kind = iota
	// KindCircle is a circle.
	KindCircle
)

// Shape is the geometry contract every scene body satisfies.
// Positions are in scene units; vertices and bounding boxes are local
// to the shape position.
type Shape interface {
	ID() string
	Center() Vec
	Movable() bool
	Kind() Kind
	Area() float64
	// BoundingBox returns the local-frame bounding box (relative to
	// the shape position).
	BoundingBox() Rect
}

// Circle is a movable or static disc.
type Circle struct {
	Id  string
	Pos Vec
	R   float64
	Mov bool
}

// ID returns the shape id.
func (c *Circle) ID() string { return c.Id }

// Center returns the circle center in scene units.
func (c *Circle) Center() Vec { return c.Pos }

// Movable reports whether the body participates in dynamics.
func (c *Circle) Movable() bool { return c.Mov }

// Kind returns KindCircle.
func (c *Circle) Kind() Kind { return KindCircle }

// Area returns the disc area in scene units squared.
func (c *Circle) Area() float64 { return math.Pi * c.R * c.R }

// BoundingBox returns the local bounding box of the disc.
func (c *Circle) BoundingBox() Rect {
	return Rect{X: -c.R, Y: -c.R, W: 2 * c.R, H: 2 * c.R}
}

// Polygon is a polygonal body. Pts are local vertex coordinates in
// drawing order; Closed indicates whether the last vertex connects
// back to the first.
type Polygon struct {
	Id     string
	Pos    Vec
	Pts    []Vec
	Closed bool
	Mov    bool
}

// ID returns the shape id.
func (p *Polygon) ID() string { return p.Id }

// Center returns the polygon position in scene units.
func (p *Polygon) Center() Vec { return p.Pos }

// Movable reports whether the body participates in dynamics.
func (p *Polygon) Movable() bool { return p.Mov }

// Kind returns KindPolygon.
func (p *Polygon) Kind() Kind { return KindPolygon }

// signedArea computes the shoelace sum over the vertex loop. The sign
// depends on winding order; callers use Area or OrderVertices.
func (p *Polygon) signedArea() float64 {
	n := len(p.Pts)
	if n < 3 {
		return 0
	}
	var s float64
	for i := 0; i < n; i++ {
		a, b := p.Pts[i], p.Pts[(i+1)%n]
		s += a.X*b.Y - b.X*a.Y
	}
	return s / 2
}

// Area returns the absolute enclosed area. Open polygons are treated
// as if closed for the purpose of the area measure.
func (p *Polygon) Area() float64 { return math.Abs(p.signedArea()) }

// BoundingBox returns the local bounding box over all vertices.
func (p *Polygon) BoundingBox() Rect {
	if len(p.Pts) == 0 {
		return Rect{}
	}
	minX, minY := p.Pts[0].X, p.Pts[0].Y
	maxX, maxY := minX, minY
	for _, v := range p.Pts[1:] {
		minX = math.Min(minX, v.X)
		minY = math.Min(minY, v.Y)
		maxX = math.Max(maxX, v.X)
		maxY = math.Max(maxY, v.Y)
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// OrderVertices normalizes the winding order so the shoelace sum is
// positive. Angle and edge computations do not depend on winding, but
// a fixed order keeps vertex indices stable across loads.
func (p *Polygon) OrderVertices() {
	if p.signedArea() >= 0 {
		return
	}
	for i, j := 0, len(p.Pts)-1; i < j; i, j = i+1, j-1 {
		p.Pts[i], p.Pts[j] = p.Pts[j], p.Pts[i]
	}
}

// EdgeLengths returns the lengths of all edges. For open polygons the
// closing edge is omitted. If sorted is true the result is ascending.
func (p *Polygon) EdgeLengths(sorted bool) []float64 {
	n := len(p.Pts)
	if n < 2 {
		return nil
	}
	last := n
	if !p.Closed {
		last = n - 1
	}
	out := make([]float64, 0, last)
	for i := 0; i < last; i++ {
		out = append(out, p.Pts[i].Dist(p.Pts[(i+1)%n]))
	}
	if sorted {
		sort.Float64s(out)
	}
	return out
}

// Angle returns the corner angle at vertex i in radians, in [0, pi].
// The angle is measured between the two edges meeting at the vertex
// and is independent of winding order.
func (p *Polygon) Angle(i int) float64 {
	n := len(p.Pts)
	if n < 3 {
		return 0
	}
	prev := p.Pts[((i-1)+n)%n]
	curr := p.Pts[i%n]
	next := p.Pts[(i+1)%n]
	u := prev.Sub(curr)
	w := next.Sub(curr)
	lu, lw := u.Len(), w.Len()
	if lu == 0 || lw == 0 {
		return 0
	}
	cos := (u.X*w.X + u.Y*w.Y) / (lu * lw)
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos)
}
