// Package sim defines the contract between scene perception and the
// external 2D rigid-body simulator. Perception never talks to a physics
// engine directly; everything goes through the Oracle interface, which
// supports named-state navigation and sandboxed counterfactual
// simulation. A deterministic scripted implementation (MockOracle) is
// provided for tests and tooling.
package sim

import "github.com/banshee-data/scene.solver/internal/geom"

// Direction selects the axis of a stock impulse.
type Direction int

const (
	// DirLeft pushes toward negative X.
	DirLeft Direction = iota
	// DirRight pushes toward positive X.
	DirRight
	// DirUp pushes toward negative Y (screen up).
	DirUp
	// DirDown pushes toward positive Y.
	DirDown
)

// Vec returns the unit vector for the direction in the y-down frame.
func (d Direction) Vec() geom.Vec {
	switch d {
	case DirLeft:
		return geom.Vec{X: -1}
	case DirRight:
		return geom.Vec{X: 1}
	case DirUp:
		return geom.Vec{Y: -1}
	default:
		return geom.Vec{Y: 1}
	}
}

// Magnitude selects the strength of a stock impulse.
type Magnitude int

const (
	// MagSmall is the weaker probe impulse.
	MagSmall Magnitude = iota
	// MagMedium is the standard probe impulse.
	MagMedium
)

// Stock impulse velocity change per unit mass.
const (
	SmallImpulseDV  = 1.5
	MediumImpulseDV = 3.5
)

// DV returns the velocity change the magnitude imparts per unit mass.
func (m Magnitude) DV() float64 {
	if m == MagSmall {
		return SmallImpulseDV
	}
	return MediumImpulseDV
}

// BodyType distinguishes static scene furniture from dynamic bodies.
type BodyType int

const (
	// TypeStatic bodies never move.
	TypeStatic BodyType = iota
	// TypeDynamic bodies participate in simulation.
	TypeDynamic
)

// Body is the handle perception holds on one simulated rigid body.
// All lengths are in physics units.
type Body interface {
	// Speed returns the magnitude of the linear velocity.
	Speed() float64
	// Angle returns the body rotation in radians.
	Angle() float64
	// Position returns the world position of the body origin.
	Position() geom.Vec
	// Mass returns the body mass.
	Mass() float64
	// WorldCenter returns the world position of the center of mass.
	WorldCenter() geom.Vec
	// ApplyForce applies a persistent force at a world point. The force
	// stays in effect until the enclosing sandbox frame is rolled back.
	ApplyForce(force, at geom.Vec)
	// SetSleepingAllowed controls whether the engine may put the body
	// to sleep.
	SetSleepingAllowed(allowed bool)
	// SetActive removes the body from (or returns it to) simulation.
	SetActive(active bool)
	// SetType switches the body between static and dynamic.
	SetType(t BodyType)
	// IsCircle reports whether the body's fixture is a circle.
	IsCircle() bool
	// Distance returns the surface distance to another body.
	Distance(other Body) float64
}

// Contact is one touching body together with the contact points.
type Contact struct {
	Body Body
	Pts  []geom.Vec
}

// Collision is one recorded contact event between two bodies. DV is
// the relative speed at the moment of contact; A hit B.
type Collision struct {
	A, B Body
	DV   float64
}

// Oracle is the sole dependency perception has on the simulator.
//
// The oracle is single-threaded and non-reentrant. AnalyzeFuture may
// nest, but restores are strictly LIFO, and callbacks must not leave
// the sandbox state mutated beyond what the rollback undoes.
type Oracle interface {
	// GotoState deterministically restores a previously named
	// snapshot. Idempotent when already in that state.
	GotoState(name string) error

	// CurrState returns the currently named state, if any.
	CurrState() (string, bool)

	// AnalyzeFuture pushes a sandbox frame, invokes before (if
	// non-nil), steps the simulator by dt seconds, invokes after, and
	// restores the prior state exactly. Every side effect applied in
	// before — forces, type changes, impulses, sleep flags — is rolled
	// back. Returns after's value.
	AnalyzeFuture(dt float64, before func(), after func() any) any

	// ApplyCentralImpulse applies the stock impulse for the magnitude,
	// scaled by the body mass, at the center of mass.
	ApplyCentralImpulse(b Body, dir Direction, mag Magnitude)

	// IsStatic reports whether the body is a static body.
	IsStatic(b Body) bool

	// WakeUp wakes every sleeping body.
	WakeUp()

	// ForEachDynamicBody calls f for every active dynamic body.
	ForEachDynamicBody(f func(Body))

	// BodyDistance returns the distance the body has moved since the
	// last checkpoint (state restore or sandbox push).
	BodyDistance(b Body) float64

	// ClosestBodyWithDist returns the nearest other object body and
	// its surface distance. ok is false when the scene has no other
	// object bodies.
	ClosestBodyWithDist(b Body) (other Body, dist float64, ok bool)

	// TouchedBodiesWithPos returns every body touching b together with
	// the contact points.
	TouchedBodiesWithPos(b Body) []Contact

	// SpatialGroups clusters bodies by proximity: two bodies belong to
	// the same group when their surface distance is at most maxDist
	// (a fraction of the scene frame). A nil bodies slice means all
	// dynamic object bodies.
	SpatialGroups(maxDist float64, bodies []Body) [][]Body

	// ObserveCollisions steps from "start" to "end" recording each
	// contact with its relative speed.
	ObserveCollisions() []Collision
}
