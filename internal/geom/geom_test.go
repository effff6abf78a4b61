package geom

import (
	"math"
	"testing"
)

func almostEqual(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func TestCircleAreaAndBBox(t *testing.T) {
	c := &Circle{Id: "c1", Pos: Vec{10, 10}, R: 5, Mov: true}

	if !almostEqual(c.Area(), math.Pi*25, 1e-9) {
		t.Errorf("area = %v, want %v", c.Area(), math.Pi*25)
	}
	bb := c.BoundingBox()
	if bb.X != -5 || bb.Y != -5 || bb.W != 10 || bb.H != 10 {
		t.Errorf("bbox = %+v, want {-5 -5 10 10}", bb)
	}
}

func TestPolygonArea(t *testing.T) {
	// 2x5 axis-aligned rectangle.
	p := &Polygon{
		Id:     "r1",
		Pts:    []Vec{{0, 0}, {5, 0}, {5, 2}, {0, 2}},
		Closed: true,
	}
	if !almostEqual(p.Area(), 10, 1e-9) {
		t.Errorf("area = %v, want 10", p.Area())
	}

	// Winding order must not change the area.
	p.OrderVertices()
	if !almostEqual(p.Area(), 10, 1e-9) {
		t.Errorf("area after ordering = %v, want 10", p.Area())
	}
}

func TestPolygonBBox(t *testing.T) {
	p := &Polygon{
		Pts:    []Vec{{-1, -2}, {3, 0}, {1, 4}},
		Closed: true,
	}
	bb := p.BoundingBox()
	if bb.X != -1 || bb.Y != -2 || bb.W != 4 || bb.H != 6 {
		t.Errorf("bbox = %+v, want {-1 -2 4 6}", bb)
	}
}

func TestPolygonEdgeLengths(t *testing.T) {
	p := &Polygon{
		Pts:    []Vec{{0, 0}, {5, 0}, {5, 2}, {0, 2}},
		Closed: true,
	}
	got := p.EdgeLengths(true)
	want := []float64{2, 2, 5, 5}
	if len(got) != len(want) {
		t.Fatalf("edge count = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if !almostEqual(got[i], want[i], 1e-9) {
			t.Errorf("edge[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	// Open polygon drops the closing edge.
	p.Closed = false
	if n := len(p.EdgeLengths(false)); n != 3 {
		t.Errorf("open edge count = %d, want 3", n)
	}
}

func TestPolygonAngle(t *testing.T) {
	square := &Polygon{
		Pts:    []Vec{{0, 0}, {4, 0}, {4, 4}, {0, 4}},
		Closed: true,
	}
	for i := 0; i < 4; i++ {
		a := square.Angle(i) * 180 / math.Pi
		if !almostEqual(a, 90, 1e-6) {
			t.Errorf("angle(%d) = %v deg, want 90", i, a)
		}
	}

	// Right triangle: angles 90, 45, 45.
	tri := &Polygon{
		Pts:    []Vec{{0, 0}, {4, 0}, {0, 4}},
		Closed: true,
	}
	wantDeg := []float64{90, 45, 45}
	for i, w := range wantDeg {
		a := tri.Angle(i) * 180 / math.Pi
		if !almostEqual(a, w, 1e-6) {
			t.Errorf("tri angle(%d) = %v deg, want %v", i, a, w)
		}
	}
}

func TestRectEdges(t *testing.T) {
	r := Rect{X: 1, Y: 2, W: 3, H: 4}
	if r.MinX() != 1 || r.MaxX() != 4 || r.MinY() != 2 || r.MaxY() != 6 {
		t.Errorf("edges = %v %v %v %v", r.MinX(), r.MaxX(), r.MinY(), r.MaxY())
	}
	if c := r.Center(); c.X != 2.5 || c.Y != 4 {
		t.Errorf("center = %+v", c)
	}
}
