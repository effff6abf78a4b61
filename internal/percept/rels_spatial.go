package percept

import (
	"math"
)

// Spatial relation analysis between two extended objects. The
// analyzer compares the world bounding boxes along one axis and
// produces three graded memberships: min (all of A is in the
// direction), best (the centers are), and max (some of A is).
const spatialTol = 0.5

// spatialMembership grades a signed offset in scene units; positive
// offsets point in the queried direction.
func spatialMembership(d float64) float64 {
	return 1 / (1 + math.Exp(-d/spatialTol))
}

// spatialResult is the [min, best, max] membership triple.
type spatialResult struct {
	min, best, max float64
}

// analyzeAxis grades how much a lies before b along one axis. Offsets
// are taken from a's and b's bounding box extents; lo/hi/c are the
// axis extractors.
func analyzeAxis(aLo, aHi, aC, bLo, bHi, bC float64) spatialResult {
	return spatialResult{
		min:  spatialMembership(bLo - aHi),
		best: spatialMembership(bC - aC),
		max:  spatialMembership(bHi - aLo),
	}
}

// directionalValue is the graded value of a directional relation: the
// best membership of this direction minus that of the opposite one,
// floored at zero.
func directionalValue(this, opposite spatialResult) float64 {
	return math.Max(0, this.best-opposite.best)
}

// horizontal returns the (left-of, right-of) analysis for a against b.
func horizontal(a, b *ObjectNode) (left, right spatialResult) {
	ab, bb := a.sceneBBox(), b.sceneBBox()
	left = analyzeAxis(ab.MinX(), ab.MaxX(), ab.Center().X, bb.MinX(), bb.MaxX(), bb.Center().X)
	right = analyzeAxis(-ab.MaxX(), -ab.MinX(), -ab.Center().X, -bb.MaxX(), -bb.MinX(), -bb.Center().X)
	return left, right
}

// vertical returns the (above, below) analysis for a against b in the
// y-down frame.
func vertical(a, b *ObjectNode) (above, below spatialResult) {
	ab, bb := a.sceneBBox(), b.sceneBBox()
	above = analyzeAxis(ab.MinY(), ab.MaxY(), ab.Center().Y, bb.MinY(), bb.MaxY(), bb.Center().Y)
	below = analyzeAxis(-ab.MaxY(), -ab.MinY(), -ab.Center().Y, -bb.MaxY(), -bb.MinY(), -bb.Center().Y)
	return above, below
}

func newLeftOfRel(n, other *ObjectNode, _ string) (Relation, error) {
	left, right := horizontal(n, other)
	return &relation{
		attribute: attribute{key: KeyLeftOf, label: "left-of", activity: directionalValue(left, right)},
		other:     other,
	}, nil
}

func newRightOfRel(n, other *ObjectNode, _ string) (Relation, error) {
	left, right := horizontal(n, other)
	return &relation{
		attribute: attribute{key: KeyRightOf, label: "right-of", activity: directionalValue(right, left)},
		other:     other,
	}, nil
}

func newAboveRel(n, other *ObjectNode, _ string) (Relation, error) {
	above, below := vertical(n, other)
	return &relation{
		attribute: attribute{key: KeyAbove, label: "above", activity: directionalValue(above, below)},
		other:     other,
	}, nil
}

func newBelowRel(n, other *ObjectNode, _ string) (Relation, error) {
	above, below := vertical(n, other)
	return &relation{
		attribute: attribute{key: KeyBelow, label: "below", activity: directionalValue(below, above)},
		other:     other,
	}, nil
}

// newBesideRel is the max of left-of and right-of. Symmetric.
func newBesideRel(n, other *ObjectNode, _ string) (Relation, error) {
	left, right := horizontal(n, other)
	act := math.Max(directionalValue(left, right), directionalValue(right, left))
	return &relation{
		attribute: attribute{key: KeyBeside, label: "beside", activity: act},
		other:     other,
	}, nil
}

// newOnTopOfRel combines touching with being above: touch times the
// stronger of above(a,b) and below(b,a).
func newOnTopOfRel(n, other *ObjectNode, time string) (Relation, error) {
	touch, err := newTouchRel(n, other, time)
	if err != nil {
		return nil, err
	}
	above1, below1 := vertical(n, other)
	above2, below2 := vertical(other, n)
	vert := math.Max(directionalValue(above1, below1), directionalValue(below2, above2))
	return &relation{
		attribute: attribute{key: KeyOnTopOf, label: "on-top-of", activity: touch.Activity() * vert},
		other:     other,
	}, nil
}
