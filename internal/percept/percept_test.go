package percept

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/scene.solver/internal/geom"
	"github.com/banshee-data/scene.solver/internal/sim"
)

// testGround returns a 100x10 ground slab whose top edge sits at y=90.
func testGround() geom.Shape {
	return &geom.Polygon{
		Id:     geom.GroundID,
		Pos:    geom.Vec{X: 50, Y: 95},
		Pts:    []geom.Vec{{X: -50, Y: -5}, {X: 50, Y: -5}, {X: 50, Y: 5}, {X: -50, Y: 5}},
		Closed: true,
	}
}

// testFrame returns the enclosing frame covering the scene box.
func testFrame() geom.Shape {
	return &geom.Polygon{
		Id:     geom.FrameID,
		Pos:    geom.Vec{X: 50, Y: 50},
		Pts:    []geom.Vec{{X: -50, Y: -50}, {X: 50, Y: -50}, {X: 50, Y: 50}, {X: -50, Y: 50}},
		Closed: true,
	}
}

// buildScene wires shapes into mock bodies, saves the "start" state
// and returns the scene node plus the bodies by shape id.
func buildScene(t *testing.T, id string, shapes ...geom.Shape) (*SceneNode, *sim.MockOracle, map[string]*sim.MockBody) {
	t.Helper()
	oracle := sim.NewMockOracle()
	scene := &Scene{ID: id}
	bodies := make(map[string]*sim.MockBody)
	for _, s := range shapes {
		var b *sim.MockBody
		switch s.ID() {
		case geom.GroundID:
			b = sim.NewStaticMockBody(s)
			oracle.SetGround(b)
		case geom.FrameID:
			b = sim.NewStaticMockBody(s)
			oracle.SetFrame(b)
		default:
			b = sim.NewMockBody(s, 1)
			oracle.AddBody(b)
		}
		bodies[s.ID()] = b
		scene.Elements = append(scene.Elements, Element{Shape: s, Body: b})
	}
	oracle.SaveState(TimeStart)
	return NewSceneNode(scene, oracle), oracle, bodies
}

func circleAt(id string, x, y, r float64) geom.Shape {
	return &geom.Circle{Id: id, Pos: geom.Vec{X: x, Y: y}, R: r, Mov: true}
}

func mustAttr(t *testing.T, n *ObjectNode, key, time string) Percept {
	t.Helper()
	p, err := n.Attr(key, Opts{Time: time})
	require.NoError(t, err, "attr %s", key)
	require.NotNil(t, p)
	return p
}

func mustRel(t *testing.T, n, other *ObjectNode, key, time string) Relation {
	t.Helper()
	r, err := n.Relation(key, other, Opts{Time: time})
	require.NoError(t, err, "relation %s", key)
	require.NotNil(t, r)
	return r
}

func TestSigmoid(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 0.5, Sigmoid(4, 1.8, 1.8), 1e-12)
	assert.Greater(t, Sigmoid(4, 1.8, 5.0), 0.99)
	assert.Less(t, Sigmoid(4, 1.8, -5.0), 0.01)
}

func TestSmallLargeCircle(t *testing.T) {
	t.Parallel()

	// A circle of area 120 covers 1.2% of the scene.
	r := math.Sqrt(120 / math.Pi)
	sn, _, _ := buildScene(t, "s1", circleAt("c", 10, 10, r))
	n := sn.Objs[0]

	small := mustAttr(t, n, KeySmall, TimeStart)
	assert.InDelta(t, 1-Sigmoid(4, 1.8, 1.2), small.Activity(), 1e-9)
	assert.True(t, small.Activity() > 0.5)

	large := mustAttr(t, n, KeyLarge, TimeStart)
	assert.InDelta(t, Sigmoid(4, 2.0, 1.2), large.Activity(), 1e-9)
	assert.InDelta(t, 0.04, large.Activity(), 0.01)

	shape := mustAttr(t, n, KeyShape, TimeStart)
	assert.Equal(t, LabelCircle, shape.Label())
	assert.Equal(t, 1.0, shape.Activity())
}

func TestShapeClassification(t *testing.T) {
	t.Parallel()

	// Parallelogram with corner angles 85/95 and edges [2,2,5,5].
	a := 85 * math.Pi / 180
	d := geom.Vec{X: 2 * math.Cos(a), Y: 2 * math.Sin(a)}
	rect := &geom.Polygon{
		Id:     "r",
		Pos:    geom.Vec{X: 40, Y: 40},
		Pts:    []geom.Vec{{X: 0, Y: 0}, {X: 5, Y: 0}, {X: 5 + d.X, Y: d.Y}, {X: d.X, Y: d.Y}},
		Closed: true,
		Mov:    true,
	}
	square := &geom.Polygon{
		Id:     "q",
		Pos:    geom.Vec{X: 70, Y: 40},
		Pts:    []geom.Vec{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}, {X: 0, Y: 4}},
		Closed: true,
		Mov:    true,
	}
	tri := &geom.Polygon{
		Id:     "t",
		Pos:    geom.Vec{X: 20, Y: 70},
		Pts:    []geom.Vec{{X: 0, Y: 0}, {X: 6, Y: 0}, {X: 3, Y: 5}},
		Closed: true,
		Mov:    true,
	}
	sn, _, _ := buildScene(t, "s2", rect, square, tri)

	byID := make(map[string]*ObjectNode)
	for _, o := range sn.Objs {
		byID[o.ID()] = o
	}

	shape := mustAttr(t, byID["r"], KeyShape, TimeStart)
	assert.Equal(t, LabelRectangle, shape.Label())
	assert.Equal(t, 1.0, mustAttr(t, byID["r"], KeyRect, TimeStart).Activity())
	assert.Equal(t, 0.0, mustAttr(t, byID["r"], KeySquare, TimeStart).Activity())

	assert.Equal(t, LabelSquare, mustAttr(t, byID["q"], KeyShape, TimeStart).Label())
	assert.Equal(t, 1.0, mustAttr(t, byID["q"], KeySquare, TimeStart).Activity())
	// The soft fallback keeps squares weakly rectangular.
	assert.Equal(t, rectOnSquareActivity, mustAttr(t, byID["q"], KeyRect, TimeStart).Activity())

	assert.Equal(t, LabelTriangle, mustAttr(t, byID["t"], KeyShape, TimeStart).Label())
	assert.Equal(t, 1.0, mustAttr(t, byID["t"], KeyTriangle, TimeStart).Activity())
}

func TestProximityRelations(t *testing.T) {
	t.Parallel()

	// Two circles with surface distance 0.3.
	sn, _, _ := buildScene(t, "s3",
		circleAt("a", 10, 10, 2),
		circleAt("b", 14.3, 10, 2),
	)
	a, b := sn.Objs[0], sn.Objs[1]

	touch := mustRel(t, a, b, KeyTouch, TimeStart)
	assert.Equal(t, 1.0, touch.Activity())

	closeRel := mustRel(t, a, b, KeyClose, TimeStart)
	assert.Greater(t, closeRel.Activity(), 0.99)

	far := mustRel(t, a, b, KeyFar, TimeStart)
	assert.Less(t, far.Activity(), 0.01)

	// Symmetry: both directions measure the same value.
	assert.InDelta(t, touch.Activity(), mustRel(t, b, a, KeyTouch, TimeStart).Activity(), 1e-12)
	assert.InDelta(t, closeRel.Activity(), mustRel(t, b, a, KeyClose, TimeStart).Activity(), 1e-12)
}

func TestPositionAttrs(t *testing.T) {
	t.Parallel()

	sn, _, _ := buildScene(t, "s4",
		testGround(),
		circleAt("a", 10, 10, 2),
		circleAt("b", 80, 85, 2),
	)
	a, b := sn.Objs[0], sn.Objs[1]

	assert.InDelta(t, 1-Sigmoid(20, 0.4, 0.1), mustAttr(t, a, KeyLeftPos, TimeStart).Activity(), 1e-9)
	assert.Less(t, mustAttr(t, a, KeyRightPos, TimeStart).Activity(), 0.05)
	assert.Greater(t, mustAttr(t, b, KeyRightPos, TimeStart).Activity(), 0.9)

	// Ground bottom is at y=100, so the vertical scale is the frame.
	assert.Greater(t, mustAttr(t, a, KeyTopPos, TimeStart).Activity(), 0.9)
	assert.Less(t, mustAttr(t, a, KeyBottomPos, TimeStart).Activity(), 0.1)
	assert.Greater(t, mustAttr(t, b, KeyBottomPos, TimeStart).Activity(), 0.9)

	assert.Greater(t, mustAttr(t, a, KeyLeftMost, TimeStart).Activity(), 0.9)
	assert.Less(t, mustAttr(t, b, KeyLeftMost, TimeStart).Activity(), 0.1)
	assert.Greater(t, mustAttr(t, b, KeyRightMost, TimeStart).Activity(), 0.9)
	assert.Greater(t, mustAttr(t, a, KeyTopMost, TimeStart).Activity(), 0.9)
}

func TestSingleAttr(t *testing.T) {
	t.Parallel()

	sn, _, _ := buildScene(t, "s5",
		circleAt("a", 10, 10, 2),
		circleAt("b", 14.2, 10, 2), // touching a
		circleAt("c", 70, 70, 2),   // alone
	)
	byID := make(map[string]*ObjectNode)
	for _, o := range sn.Objs {
		byID[o.ID()] = o
	}

	assert.Equal(t, 0.0, mustAttr(t, byID["a"], KeySingle, TimeStart).Activity())
	assert.Greater(t, mustAttr(t, byID["c"], KeySingle, TimeStart).Activity(), 0.9)
}

func TestOnGround(t *testing.T) {
	t.Parallel()

	sn, _, _ := buildScene(t, "s6",
		testGround(),
		circleAt("a", 20, 87.2, 3), // resting on the ground top
		circleAt("b", 60, 30, 3),   // in the air
	)
	a, b := sn.Objs[0], sn.Objs[1]

	assert.Equal(t, 1.0, mustAttr(t, a, KeyOnGround, TimeStart).Activity())
	assert.Equal(t, 0.0, mustAttr(t, b, KeyOnGround, TimeStart).Activity())
}

func TestDirectionalRelations(t *testing.T) {
	t.Parallel()

	sn, _, _ := buildScene(t, "s7",
		circleAt("a", 20, 50, 3),
		circleAt("b", 60, 50, 3),
		circleAt("c", 60, 20, 3),
	)
	byID := make(map[string]*ObjectNode)
	for _, o := range sn.Objs {
		byID[o.ID()] = o
	}
	a, b, c := byID["a"], byID["b"], byID["c"]

	assert.Greater(t, mustRel(t, a, b, KeyLeftOf, TimeStart).Activity(), 0.9)
	assert.Equal(t, 0.0, mustRel(t, a, b, KeyRightOf, TimeStart).Activity())
	assert.Greater(t, mustRel(t, b, a, KeyRightOf, TimeStart).Activity(), 0.9)

	assert.Greater(t, mustRel(t, c, b, KeyAbove, TimeStart).Activity(), 0.9)
	assert.Greater(t, mustRel(t, b, c, KeyBelow, TimeStart).Activity(), 0.9)
	assert.Equal(t, 0.0, mustRel(t, c, b, KeyBelow, TimeStart).Activity())

	// beside is symmetric.
	assert.InDelta(t,
		mustRel(t, a, b, KeyBeside, TimeStart).Activity(),
		mustRel(t, b, a, KeyBeside, TimeStart).Activity(), 1e-12)
	assert.Greater(t, mustRel(t, a, b, KeyBeside, TimeStart).Activity(), 0.9)
}

func TestOnTopOf(t *testing.T) {
	t.Parallel()

	sn, _, _ := buildScene(t, "s8",
		circleAt("base", 30, 80, 5),
		circleAt("top", 30, 70.2, 5), // resting on base
		circleAt("side", 60, 80, 5),
	)
	byID := make(map[string]*ObjectNode)
	for _, o := range sn.Objs {
		byID[o.ID()] = o
	}

	onTop := mustRel(t, byID["top"], byID["base"], KeyOnTopOf, TimeStart)
	assert.Greater(t, onTop.Activity(), 0.9)

	// A body level with the base, 20 units away, is not on-top-of.
	assert.Less(t, mustRel(t, byID["side"], byID["base"], KeyOnTopOf, TimeStart).Activity(), 0.1)
	// Nor is it on top of the upper body, which it does not touch.
	assert.Equal(t, 0.0, mustRel(t, byID["side"], byID["top"], KeyOnTopOf, TimeStart).Activity())
}

func TestCollisionRelations(t *testing.T) {
	t.Parallel()

	sn, oracle, bodies := buildScene(t, "s9",
		circleAt("a", 10, 10, 2),
		circleAt("b", 30, 10, 2),
		circleAt("c", 60, 60, 2),
	)
	oracle.ScriptCollision(bodies["a"], bodies["b"], 1.7)
	require.NoError(t, sn.PerceiveCollisions())

	byID := make(map[string]*ObjectNode)
	for _, o := range sn.Objs {
		byID[o.ID()] = o
	}
	a, b, c := byID["a"], byID["b"], byID["c"]

	assert.Equal(t, 1.0, mustRel(t, a, b, KeyHits, TimeStart).Activity())
	assert.Equal(t, 0.0, mustRel(t, b, a, KeyHits, TimeStart).Activity())
	assert.Equal(t, 1.0, mustRel(t, b, a, KeyGetsHit, TimeStart).Activity())
	assert.Equal(t, 1.0, mustRel(t, a, b, KeyCollides, TimeStart).Activity())
	assert.Equal(t, 1.0, mustRel(t, b, a, KeyCollides, TimeStart).Activity())
	assert.Equal(t, 0.0, mustRel(t, a, c, KeyCollides, TimeStart).Activity())
}

func TestUnknownFeatureAndMissingPartner(t *testing.T) {
	t.Parallel()

	sn, _, _ := buildScene(t, "s10", circleAt("a", 10, 10, 2), circleAt("b", 30, 10, 2))
	n := sn.Objs[0]

	_, err := n.Attr("no_such_feature", Opts{Time: TimeStart})
	assert.ErrorIs(t, err, ErrUnknownFeature)

	_, err = n.Relation(KeyTouch, nil, Opts{Time: TimeStart})
	assert.ErrorIs(t, err, ErrMissingPartner)
}

func TestCloseAcrossScenesFallsBack(t *testing.T) {
	t.Parallel()

	sn1, _, _ := buildScene(t, "x1", circleAt("a", 10, 10, 2))
	sn2, _, _ := buildScene(t, "x2", circleAt("b", 13, 14, 2))
	a, b := sn1.Objs[0], sn2.Objs[0]

	// Center distance 5, scaled by 2/3: the degraded measure ignores
	// surfaces entirely.
	r, err := newCloseRel(a, b, TimeStart)
	require.NoError(t, err)
	want := closeMembership(2.0 / 3.0 * 5 / 100)
	assert.InDelta(t, want, r.Activity(), 1e-9)
}

func TestExtremumOfEmptySceneFails(t *testing.T) {
	t.Parallel()

	sn := NewSceneNode(&Scene{ID: "empty"}, sim.NewMockOracle())
	_, err := axisExtremum(sn, true, func(o *ObjectNode) float64 { return o.scenePos().X })
	assert.ErrorIs(t, err, ErrNoObjects)
}
