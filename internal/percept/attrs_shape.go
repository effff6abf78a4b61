package percept

import (
	"math"

	"github.com/banshee-data/scene.solver/internal/geom"
)

// Shape classification labels.
const (
	LabelCircle    = "circle"
	LabelTriangle  = "triangle"
	LabelRectangle = "rectangle"
	LabelSquare    = "square"
	LabelUnknown   = "unknown"
)

// Shape classification thresholds.
const (
	// Corner angles of a rectangle must fall in [rectAngleMin,
	// rectAngleMax] degrees.
	rectAngleMin = 70.0
	rectAngleMax = 110.0
	// A rectangle whose shortest/longest edge ratio reaches
	// squareEdgeRatio counts as a square.
	squareEdgeRatio = 0.7
	// rectOnSquareActivity is the soft membership a square-shaped
	// object still has in "rect".
	rectOnSquareActivity = 0.4
)

// classifyShape assigns one of the shape labels. ok is false for
// unclassifiable shapes.
func classifyShape(s geom.Shape) (label string, ok bool) {
	switch sh := s.(type) {
	case *geom.Circle:
		return LabelCircle, true
	case *geom.Polygon:
		if !sh.Closed {
			return LabelUnknown, false
		}
		switch len(sh.Pts) {
		case 3:
			return LabelTriangle, true
		case 4:
			for i := 0; i < 4; i++ {
				deg := sh.Angle(i) * 180 / math.Pi
				if deg < rectAngleMin || deg > rectAngleMax {
					return LabelUnknown, false
				}
			}
			edges := sh.EdgeLengths(true)
			if edges[0]/edges[len(edges)-1] >= squareEdgeRatio {
				return LabelSquare, true
			}
			return LabelRectangle, true
		}
	}
	return LabelUnknown, false
}

func newShapeAttr(n *ObjectNode, _ string) (Percept, error) {
	label, ok := classifyShape(n.Shape)
	act := 0.0
	if ok {
		act = 1.0
	}
	return &attribute{key: KeyShape, label: label, activity: act, constant: true}, nil
}

func newCircleAttr(n *ObjectNode, _ string) (Percept, error) {
	label, _ := classifyShape(n.Shape)
	act := 0.0
	if label == LabelCircle {
		act = 1.0
	}
	return &attribute{key: KeyCircle, label: LabelCircle, activity: act, constant: true}, nil
}

func newTriangleAttr(n *ObjectNode, _ string) (Percept, error) {
	label, _ := classifyShape(n.Shape)
	act := 0.0
	if label == LabelTriangle {
		act = 1.0
	}
	return &attribute{key: KeyTriangle, label: LabelTriangle, activity: act, constant: true}, nil
}

func newSquareAttr(n *ObjectNode, _ string) (Percept, error) {
	label, _ := classifyShape(n.Shape)
	act := 0.0
	if label == LabelSquare {
		act = 1.0
	}
	return &attribute{key: KeySquare, label: LabelSquare, activity: act, constant: true}, nil
}

// newRectAttr grades membership in "rectangle". A square still counts
// a little: the soft fallback keeps near-square rectangles matchable
// either way.
func newRectAttr(n *ObjectNode, _ string) (Percept, error) {
	label, _ := classifyShape(n.Shape)
	act := 0.0
	switch label {
	case LabelRectangle:
		act = 1.0
	case LabelSquare:
		act = rectOnSquareActivity
	}
	return &attribute{key: KeyRect, label: LabelRectangle, activity: act, constant: true}, nil
}

// areaPct returns the object area as percent of the scene area.
func areaPct(n *ObjectNode) float64 {
	return n.Shape.Area() / (geom.SceneSize * geom.SceneSize) * 100
}

func newSmallAttr(n *ObjectNode, _ string) (Percept, error) {
	return &attribute{
		key: KeySmall, label: "small",
		activity: smallMembership(areaPct(n)),
		constant: true,
	}, nil
}

func newLargeAttr(n *ObjectNode, _ string) (Percept, error) {
	return &attribute{
		key: KeyLarge, label: "large",
		activity: largeMembership(areaPct(n)),
		constant: true,
	}, nil
}
