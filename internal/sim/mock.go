package sim

import (
	"fmt"
	"math"

	"github.com/banshee-data/scene.solver/internal/geom"
)

// Mock tuning constants.
const (
	// TouchEps is the surface distance at or below which two bodies
	// are considered touching, in physics units.
	TouchEps = 0.5
	// mockSubstep is the integration step of the scripted simulator.
	mockSubstep = 0.01
	// mockObserveSpan is how far ObserveCollisions steps past "start".
	mockObserveSpan = 2.0
	// restDamping is the per-second velocity retention of a body that
	// has not tipped over. Probe impulses on such bodies die out almost
	// immediately, like a block rocking back onto its base.
	restDamping = 1e-12
	// defaultFallSpeed is the downward speed of an unsupported body.
	defaultFallSpeed = 5.0
	// defaultTipRotation is the angular speed of a tipped body, rad/s.
	defaultTipRotation = 1.0
)

// MockBody is a scripted rigid body. Dynamics are not simulated from
// forces and contacts; instead each body carries a small set of
// response knobs that tests and tools configure:
//
//   - TipThreshold: probe impulses with a velocity change at or above
//     this tip the body over (it keeps moving and rotating). Zero means
//     the body never tips.
//   - SupportedBy: while the named body is deactivated, this body
//     falls at FallSpeed.
//   - StabilizedBy: while the named body is deactivated, any probe
//     impulse tips this body over.
//   - RisesToTop: under a sustained upward force the body rises until
//     it touches the frame top.
type MockBody struct {
	Shape geom.Shape

	TipThreshold float64
	TipRotation  float64
	SupportedBy  *MockBody
	StabilizedBy *MockBody
	FallSpeed    float64
	RisesToTop   bool

	oracle *MockOracle

	pos        geom.Vec
	vel        geom.Vec
	angle      float64
	mass       float64
	typ        BodyType
	active     bool
	sleepOK    bool
	force      geom.Vec
	checkpoint geom.Vec
	tipped     bool
	risen      bool
}

// NewMockBody creates a dynamic scripted body positioned at the
// shape's center.
func NewMockBody(shape geom.Shape, mass float64) *MockBody {
	return &MockBody{
		Shape:      shape,
		pos:        shape.Center(),
		checkpoint: shape.Center(),
		mass:       mass,
		typ:        TypeDynamic,
		active:     true,
		sleepOK:    true,
	}
}

// NewStaticMockBody creates a static scripted body (ground, frame).
func NewStaticMockBody(shape geom.Shape) *MockBody {
	b := NewMockBody(shape, 0)
	b.typ = TypeStatic
	return b
}

// Speed returns |v|.
func (b *MockBody) Speed() float64 { return b.vel.Len() }

// Angle returns the body rotation in radians.
func (b *MockBody) Angle() float64 { return b.angle }

// Position returns the current world position.
func (b *MockBody) Position() geom.Vec { return b.pos }

// Mass returns the body mass.
func (b *MockBody) Mass() float64 { return b.mass }

// WorldCenter returns the center of mass; for mock bodies this is the
// body position.
func (b *MockBody) WorldCenter() geom.Vec { return b.pos }

// ApplyForce adds a persistent force. The application point is ignored
// by the scripted dynamics.
func (b *MockBody) ApplyForce(force, at geom.Vec) { b.force = b.force.Add(force) }

// SetSleepingAllowed records the sleep flag.
func (b *MockBody) SetSleepingAllowed(allowed bool) { b.sleepOK = allowed }

// SetActive removes the body from or returns it to simulation.
func (b *MockBody) SetActive(active bool) { b.active = active }

// SetType switches the body between static and dynamic.
func (b *MockBody) SetType(t BodyType) { b.typ = t }

// IsCircle reports whether the underlying shape is a circle.
func (b *MockBody) IsCircle() bool { return b.Shape.Kind() == geom.KindCircle }

// SetVelocity scripts the current linear velocity.
func (b *MockBody) SetVelocity(v geom.Vec) { b.vel = v }

// worldBBox returns the body's bounding box at its current position.
func (b *MockBody) worldBBox() geom.Rect {
	return b.Shape.BoundingBox().Translate(b.pos)
}

// Distance returns the surface distance to another body. Circle pairs
// are exact; everything else uses the gap between world bounding
// boxes.
func (b *MockBody) Distance(other Body) float64 {
	o, ok := other.(*MockBody)
	if !ok {
		return math.Inf(1)
	}
	bc, bok := b.Shape.(*geom.Circle)
	oc, ook := o.Shape.(*geom.Circle)
	if bok && ook {
		d := b.pos.Dist(o.pos) - bc.R - oc.R
		return math.Max(0, d)
	}
	return bboxGap(b.worldBBox(), o.worldBBox())
}

// bboxGap returns the distance between two axis-aligned boxes, zero if
// they overlap.
func bboxGap(a, b geom.Rect) float64 {
	dx := math.Max(0, math.Max(b.MinX()-a.MaxX(), a.MinX()-b.MaxX()))
	dy := math.Max(0, math.Max(b.MinY()-a.MaxY(), a.MinY()-b.MaxY()))
	return math.Hypot(dx, dy)
}

type bodyState struct {
	pos, vel   geom.Vec
	angle      float64
	typ        BodyType
	active     bool
	sleepOK    bool
	force      geom.Vec
	checkpoint geom.Vec
	tipped     bool
	risen      bool
}

type mockState struct {
	bodies  []bodyState
	curr    string
	hasCurr bool
}

// MockOracle is a deterministic scripted Oracle. States are saved and
// restored by value; AnalyzeFuture frames nest LIFO and roll back
// every body mutation.
type MockOracle struct {
	Ground *MockBody
	Frame  *MockBody

	bodies     []*MockBody
	states     map[string]mockState
	stack      []mockState
	curr       string
	hasCurr    bool
	collisions []Collision
}

// NewMockOracle creates an empty scripted oracle.
func NewMockOracle() *MockOracle {
	return &MockOracle{states: make(map[string]mockState)}
}

// AddBody registers a body with the oracle.
func (o *MockOracle) AddBody(b *MockBody) {
	b.oracle = o
	o.bodies = append(o.bodies, b)
}

// SetGround registers the static ground body.
func (o *MockOracle) SetGround(b *MockBody) {
	o.Ground = b
	o.AddBody(b)
}

// SetFrame registers the static frame body.
func (o *MockOracle) SetFrame(b *MockBody) {
	o.Frame = b
	o.AddBody(b)
}

// ScriptCollision records a collision event that ObserveCollisions
// will report. A hit B with relative speed dv.
func (o *MockOracle) ScriptCollision(a, b Body, dv float64) {
	o.collisions = append(o.collisions, Collision{A: a, B: b, DV: dv})
}

func (o *MockOracle) snapshot() mockState {
	st := mockState{curr: o.curr, hasCurr: o.hasCurr}
	st.bodies = make([]bodyState, len(o.bodies))
	for i, b := range o.bodies {
		st.bodies[i] = bodyState{
			pos: b.pos, vel: b.vel, angle: b.angle,
			typ: b.typ, active: b.active, sleepOK: b.sleepOK,
			force: b.force, checkpoint: b.checkpoint,
			tipped: b.tipped, risen: b.risen,
		}
	}
	return st
}

func (o *MockOracle) restore(st mockState) {
	for i, b := range o.bodies {
		s := st.bodies[i]
		b.pos, b.vel, b.angle = s.pos, s.vel, s.angle
		b.typ, b.active, b.sleepOK = s.typ, s.active, s.sleepOK
		b.force, b.checkpoint = s.force, s.checkpoint
		b.tipped, b.risen = s.tipped, s.risen
	}
	o.curr, o.hasCurr = st.curr, st.hasCurr
}

// SaveState names the current simulator state so GotoState can return
// to it later.
func (o *MockOracle) SaveState(name string) {
	o.curr, o.hasCurr = name, true
	o.states[name] = o.snapshot()
}

// GotoState restores a named snapshot. Idempotent when already there.
func (o *MockOracle) GotoState(name string) error {
	if o.hasCurr && o.curr == name {
		return nil
	}
	st, ok := o.states[name]
	if !ok {
		return fmt.Errorf("sim: unknown state %q", name)
	}
	o.restore(st)
	for _, b := range o.bodies {
		b.checkpoint = b.pos
	}
	o.curr, o.hasCurr = name, true
	return nil
}

// CurrState returns the currently named state, if any.
func (o *MockOracle) CurrState() (string, bool) { return o.curr, o.hasCurr }

// AnalyzeFuture runs a sandboxed what-if: apply before, step dt
// seconds, measure with after, then roll everything back.
func (o *MockOracle) AnalyzeFuture(dt float64, before func(), after func() any) any {
	o.stack = append(o.stack, o.snapshot())
	for _, b := range o.bodies {
		b.checkpoint = b.pos
	}
	if before != nil {
		before()
	}
	o.step(dt)
	var out any
	if after != nil {
		out = after()
	}
	st := o.stack[len(o.stack)-1]
	o.stack = o.stack[:len(o.stack)-1]
	o.restore(st)
	return out
}

// step advances the scripted dynamics by dt seconds. The simulator no
// longer sits in a named state afterwards, so a later GotoState
// restores the snapshot instead of treating it as current.
func (o *MockOracle) step(dt float64) {
	o.curr, o.hasCurr = "", false
	for t := 0.0; t+1e-9 < dt; t += mockSubstep {
		h := math.Min(mockSubstep, dt-t)
		for _, b := range o.bodies {
			if !b.active || b.typ != TypeDynamic {
				continue
			}
			falling := false
			if b.SupportedBy != nil && !b.SupportedBy.active {
				fs := b.FallSpeed
				if fs == 0 {
					fs = defaultFallSpeed
				}
				b.vel = geom.Vec{Y: fs}
				falling = true
			}
			if b.RisesToTop && b.force.Y < 0 && !b.risen && o.Frame != nil {
				bb := b.worldBBox()
				top := o.Frame.worldBBox().MinY()
				b.pos.Y += top - bb.MinY()
				b.vel = geom.Vec{}
				b.risen = true
				continue
			}
			b.pos = b.pos.Add(b.vel.Scale(h))
			if b.tipped {
				rot := b.TipRotation
				if rot == 0 {
					rot = defaultTipRotation
				}
				b.angle += rot * h
			} else if !falling && b.force == (geom.Vec{}) {
				b.vel = b.vel.Scale(math.Pow(restDamping, h))
			}
		}
	}
}

// ApplyCentralImpulse applies the stock impulse for the magnitude at
// the center of mass. Bodies whose TipThreshold is met tip over.
func (o *MockOracle) ApplyCentralImpulse(b Body, dir Direction, mag Magnitude) {
	mb, ok := b.(*MockBody)
	if !ok || !mb.active || mb.typ != TypeDynamic {
		return
	}
	dv := mag.DV()
	mb.vel = mb.vel.Add(dir.Vec().Scale(dv))
	if mb.TipThreshold > 0 && dv >= mb.TipThreshold {
		mb.tipped = true
	}
	if mb.StabilizedBy != nil && !mb.StabilizedBy.active {
		mb.tipped = true
	}
}

// IsStatic reports whether the body is static.
func (o *MockOracle) IsStatic(b Body) bool {
	mb, ok := b.(*MockBody)
	return ok && mb.typ == TypeStatic
}

// WakeUp is a no-op; scripted bodies never sleep.
func (o *MockOracle) WakeUp() {}

// ForEachDynamicBody calls f for every active dynamic body.
func (o *MockOracle) ForEachDynamicBody(f func(Body)) {
	for _, b := range o.bodies {
		if b.active && b.typ == TypeDynamic {
			f(b)
		}
	}
}

// BodyDistance returns the distance the body moved since the last
// checkpoint.
func (o *MockOracle) BodyDistance(b Body) float64 {
	mb, ok := b.(*MockBody)
	if !ok {
		return 0
	}
	return mb.pos.Dist(mb.checkpoint)
}

// isFurniture reports whether the body is the ground or the frame.
func (o *MockOracle) isFurniture(b *MockBody) bool {
	return b == o.Ground || b == o.Frame
}

// ClosestBodyWithDist returns the nearest other object body and its
// surface distance.
func (o *MockOracle) ClosestBodyWithDist(b Body) (Body, float64, bool) {
	var best *MockBody
	bestDist := math.Inf(1)
	for _, c := range o.bodies {
		if Body(c) == b || o.isFurniture(c) || !c.active {
			continue
		}
		if d := c.Distance(b); d < bestDist {
			best, bestDist = c, d
		}
	}
	if best == nil {
		return nil, 0, false
	}
	return best, bestDist, true
}

// TouchedBodiesWithPos returns every body touching b with the contact
// points. Frame contact is computed against the inner frame edges.
func (o *MockOracle) TouchedBodiesWithPos(b Body) []Contact {
	mb, ok := b.(*MockBody)
	if !ok {
		return nil
	}
	var out []Contact
	bb := mb.worldBBox()
	for _, c := range o.bodies {
		if c == mb || !c.active {
			continue
		}
		if c == o.Frame {
			if pts := frameContacts(bb, c.worldBBox()); len(pts) > 0 {
				out = append(out, Contact{Body: c, Pts: pts})
			}
			continue
		}
		if mb.Distance(c) <= TouchEps {
			out = append(out, Contact{Body: c, Pts: []geom.Vec{contactPoint(bb, c.worldBBox())}})
		}
	}
	return out
}

// contactPoint approximates the touch point between two boxes as the
// midpoint of the overlap (or the gap) on each axis.
func contactPoint(a, b geom.Rect) geom.Vec {
	return geom.Vec{
		X: (math.Max(a.MinX(), b.MinX()) + math.Min(a.MaxX(), b.MaxX())) / 2,
		Y: (math.Max(a.MinY(), b.MinY()) + math.Min(a.MaxY(), b.MaxY())) / 2,
	}
}

// frameContacts returns contact points against the inner edges of the
// frame box for every edge within TouchEps of the body box.
func frameContacts(body, frame geom.Rect) []geom.Vec {
	cx, cy := body.Center().X, body.Center().Y
	var pts []geom.Vec
	if body.MinY()-frame.MinY() <= TouchEps {
		pts = append(pts, geom.Vec{X: cx, Y: frame.MinY()})
	}
	if frame.MaxY()-body.MaxY() <= TouchEps {
		pts = append(pts, geom.Vec{X: cx, Y: frame.MaxY()})
	}
	if body.MinX()-frame.MinX() <= TouchEps {
		pts = append(pts, geom.Vec{X: frame.MinX(), Y: cy})
	}
	if frame.MaxX()-body.MaxX() <= TouchEps {
		pts = append(pts, geom.Vec{X: frame.MaxX(), Y: cy})
	}
	return pts
}

// SpatialGroups clusters object bodies by proximity using
// single-linkage over surface distances.
func (o *MockOracle) SpatialGroups(maxDist float64, bodies []Body) [][]Body {
	if bodies == nil {
		for _, b := range o.bodies {
			if !o.isFurniture(b) && b.active && b.typ == TypeDynamic {
				bodies = append(bodies, b)
			}
		}
	}
	n := len(bodies)
	if n == 0 {
		return nil
	}
	threshold := maxDist * geom.SceneSize
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		if parent[i] != i {
			parent[i] = find(parent[i])
		}
		return parent[i]
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if bodies[i].Distance(bodies[j]) <= threshold {
				parent[find(i)] = find(j)
			}
		}
	}
	groups := make(map[int][]Body)
	order := make([]int, 0, n)
	for i, b := range bodies {
		r := find(i)
		if _, seen := groups[r]; !seen {
			order = append(order, r)
		}
		groups[r] = append(groups[r], b)
	}
	out := make([][]Body, 0, len(order))
	for _, r := range order {
		out = append(out, groups[r])
	}
	return out
}

// ObserveCollisions steps from "start" to "end" and reports the
// scripted contact events. The end state is saved under "end".
func (o *MockOracle) ObserveCollisions() []Collision {
	o.step(mockObserveSpan)
	o.SaveState("end")
	out := make([]Collision, len(o.collisions))
	copy(out, o.collisions)
	return out
}

// Verify at compile time that the mock satisfies the contracts.
var (
	_ Oracle = (*MockOracle)(nil)
	_ Body   = (*MockBody)(nil)
)
