package selector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/scene.solver/internal/geom"
	"github.com/banshee-data/scene.solver/internal/percept"
	"github.com/banshee-data/scene.solver/internal/sim"
)

// buildScene wires shapes into mock bodies and returns the perceived
// scene node.
func buildScene(t *testing.T, id string, shapes ...geom.Shape) *percept.SceneNode {
	t.Helper()
	oracle := sim.NewMockOracle()
	scene := &percept.Scene{ID: id}
	for _, s := range shapes {
		b := sim.NewMockBody(s, 1)
		if !s.Movable() {
			b = sim.NewStaticMockBody(s)
		}
		oracle.AddBody(b)
		scene.Elements = append(scene.Elements, percept.Element{Shape: s, Body: b})
	}
	oracle.SaveState(percept.TimeStart)
	return percept.NewSceneNode(scene, oracle)
}

func circleAt(id string, x, y, r float64) geom.Shape {
	return &geom.Circle{Id: id, Pos: geom.Vec{X: x, Y: y}, R: r, Mov: true}
}

// rectAt returns a movable 20x10 rectangle centered at (x, y).
func rectAt(id string, x, y float64) geom.Shape {
	return &geom.Polygon{
		Id:     id,
		Pos:    geom.Vec{X: x, Y: y},
		Pts:    []geom.Vec{{X: -10, Y: -5}, {X: 10, Y: -5}, {X: 10, Y: 5}, {X: -10, Y: 5}},
		Closed: true,
		Mov:    true,
	}
}

func mustAddAttr(t *testing.T, s *Selector, key, label string, active bool) {
	t.Helper()
	require.NoError(t, s.AddAttr(key, label, active, ""))
}

func mustAddRel(t *testing.T, s *Selector, key, label string, active bool, other *Selector) {
	t.Helper()
	require.NoError(t, s.AddRel(key, label, active, "", other))
}

// smallLeftOfRect is the canonical example selector: a small object
// left of a rectangle.
func smallLeftOfRect(t *testing.T) *Selector {
	t.Helper()
	s := New()
	mustAddAttr(t, s, percept.KeySmall, "small", true)
	other := New()
	mustAddAttr(t, other, percept.KeyShape, "rectangle", true)
	mustAddRel(t, s, percept.KeyLeftOf, "left-of", true, other)
	return s
}

func TestTypeClassification(t *testing.T) {
	t.Parallel()

	s := New()
	assert.Equal(t, TypeBlank, s.Type())
	assert.True(t, s.IsBlank())

	mustAddAttr(t, s, percept.KeySmall, "small", true)
	assert.Equal(t, TypeObject, s.Type())

	g := New()
	mustAddAttr(t, g, percept.KeyCount, "2", true)
	assert.Equal(t, TypeGroup, g.Type())

	mixed := New()
	mustAddAttr(t, mixed, percept.KeySmall, "small", true)
	mustAddAttr(t, mixed, percept.KeyCount, "2", true)
	assert.Equal(t, TypeMixed, mixed.Type())
}

func TestAttrMatcherThresholdSemantics(t *testing.T) {
	t.Parallel()

	sn := buildScene(t, "t1",
		circleAt("tiny", 20, 50, 3),
		rectAt("slab", 60, 50),
	)
	g := percept.SceneGroup(sn, nil)

	s := New()
	mustAddAttr(t, s, percept.KeySmall, "small", true)
	res := s.Select(g, sn, nil)
	require.Equal(t, 1, res.Size())
	assert.Equal(t, "tiny", res.Members[0].ID())

	// Matching the same attribute inactive inverts the filter.
	inv := New()
	mustAddAttr(t, inv, percept.KeySmall, "small", false)
	res = inv.Select(g, sn, nil)
	require.Equal(t, 1, res.Size())
	assert.Equal(t, "slab", res.Members[0].ID())

	// A wrong label matches nothing, whatever the activity.
	wrong := New()
	mustAddAttr(t, wrong, percept.KeySmall, "smallish", true)
	assert.Equal(t, 0, wrong.Select(g, sn, nil).Size())
}

func TestBlankSelectReturnsGroupUnchanged(t *testing.T) {
	t.Parallel()

	sn := buildScene(t, "t2", circleAt("a", 20, 50, 3))
	g := percept.SceneGroup(sn, nil)
	assert.Same(t, g, New().Select(g, sn, nil))
}

func TestRelMatcherQuantification(t *testing.T) {
	t.Parallel()

	sn := buildScene(t, "t3",
		circleAt("a", 10, 50, 3),
		rectAt("r1", 50, 50),
		rectAt("r2", 80, 50),
	)
	g := percept.SceneGroup(sn, nil)

	// At-least-one: a is left of two rectangles.
	s := smallLeftOfRect(t)
	res := s.Select(g, sn, nil)
	require.Equal(t, 1, res.Size())
	assert.Equal(t, "a", res.Members[0].ID())

	// Unique partner: exactly one rectangle must be to the right, so
	// a no longer matches.
	u := New()
	mustAddAttr(t, u, percept.KeySmall, "small", true)
	other := NewUnique()
	mustAddAttr(t, other, percept.KeyShape, "rectangle", true)
	mustAddRel(t, u, percept.KeyLeftOf, "left-of", true, other)
	assert.Equal(t, 0, u.Select(g, sn, nil).Size())
}

func TestRelMatcherNegationIsUniversal(t *testing.T) {
	t.Parallel()

	sn := buildScene(t, "t4",
		circleAt("a", 10, 50, 2),
		circleAt("b", 14.2, 50, 2), // touches a
		circleAt("c", 70, 50, 2),   // touches nothing
	)
	g := percept.SceneGroup(sn, nil)

	s := New()
	mustAddRel(t, s, percept.KeyTouch, "touches", false, nil)
	res := s.Select(g, sn, nil)
	require.Equal(t, 1, res.Size())
	assert.Equal(t, "c", res.Members[0].ID())
}

func TestNestedRelationRejected(t *testing.T) {
	t.Parallel()

	inner := New()
	mustAddRel(t, inner, percept.KeyTouch, "touches", true, nil)

	s := New()
	err := s.AddRel(percept.KeyLeftOf, "left-of", true, "", inner)
	assert.ErrorIs(t, err, ErrNestedRelation)
}

func TestGroupSelector(t *testing.T) {
	t.Parallel()

	sn := buildScene(t, "t5",
		circleAt("a", 10, 50, 2),
		circleAt("b", 30, 50, 2),
	)
	g := percept.SceneGroup(sn, nil)

	match := New()
	mustAddAttr(t, match, percept.KeyCount, "2", true)
	assert.Equal(t, 2, match.Select(g, sn, nil).Size())

	miss := New()
	mustAddAttr(t, miss, percept.KeyCount, "3", true)
	res := miss.Select(g, sn, nil)
	assert.Equal(t, 0, res.Size(), "failed group attrs empty the group")
	assert.NotEmpty(t, res.Selectors, "the empty group still carries the selector")
}

func TestMergeIdempotent(t *testing.T) {
	t.Parallel()

	s := smallLeftOfRect(t)
	assert.True(t, s.MergedWith(s).Equals(s))
}

func TestMergeLaterWins(t *testing.T) {
	t.Parallel()

	a := New()
	mustAddAttr(t, a, percept.KeySmall, "small", true)
	b := New()
	mustAddAttr(t, b, percept.KeySmall, "small", false)

	m := a.MergedWith(b)
	require.Len(t, m.ObjAttrs, 1)
	assert.False(t, m.ObjAttrs[0].Active)
}

func TestCloneIndependence(t *testing.T) {
	t.Parallel()

	s := smallLeftOfRect(t)
	c := s.Clone()
	assert.True(t, c.Equals(s))

	mustAddAttr(t, c, percept.KeyLarge, "large", true)
	assert.False(t, c.Equals(s))
	assert.Len(t, s.ObjAttrs, 1, "mutating the clone leaves the original unchanged")

	// Nested partner selectors are deep-copied too.
	c2 := s.Clone()
	mustAddAttr(t, c2.Rels[0].Other, percept.KeyLarge, "large", true)
	assert.Len(t, s.Rels[0].Other.ObjAttrs, 1)
}

func TestComplexity(t *testing.T) {
	t.Parallel()

	s := New()
	mustAddAttr(t, s, percept.KeySmall, "small", true)
	assert.Equal(t, 1, s.Complexity())

	require.NoError(t, s.AddAttr(percept.KeyLarge, "large", false, percept.TimeEnd))
	// small(1) + large at end, negated (1+1+2).
	assert.Equal(t, 5, s.Complexity())

	r := smallLeftOfRect(t)
	// small(1) + left-of(1) + nested shape matcher(1).
	assert.Equal(t, 3, r.Complexity())
}

func TestSelectTracksSelectors(t *testing.T) {
	t.Parallel()

	sn := buildScene(t, "t6",
		circleAt("tiny", 20, 50, 3),
		rectAt("slab", 60, 50),
	)
	g := percept.SceneGroup(sn, nil)

	s := New()
	mustAddAttr(t, s, percept.KeySmall, "small", true)
	res := s.Select(g, sn, nil)
	require.Len(t, res.Selectors, 1)

	// A second refinement merges with the group's selector history.
	s2 := New()
	mustAddAttr(t, s2, percept.KeyShape, "circle", true)
	res2 := s2.Select(res, sn, nil)
	require.Len(t, res2.Selectors, 1)
	merged, ok := res2.Selectors[0].(*Selector)
	require.True(t, ok)
	assert.Len(t, merged.ObjAttrs, 2)
}
