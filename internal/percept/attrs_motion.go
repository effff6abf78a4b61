package percept

import (
	"math"

	"github.com/banshee-data/scene.solver/internal/geom"
	"github.com/banshee-data/scene.solver/internal/sim"
)

// Stability measurement constants.
const (
	// stabilityMovingSpeed is the current speed above which an object
	// counts as already moving.
	stabilityMovingSpeed = 0.25
	// Post-push pass thresholds at medium magnitude; the small-push
	// retry scales them by stabilityRetryScale.
	stabilitySpeedLimit = 0.4
	stabilityDistLimit  = 0.2
	stabilityRotLimit   = 9.0  // degrees
	stabilityRotCircle  = 60.0 // circles may roll further
	stabilityRetryScale = 2.0 / 3.0
	// stabilityPushTime is how long each probe push is simulated.
	stabilityPushTime = 0.3
	// futureProbeTime is the micro-simulation span of the motion
	// probes.
	futureProbeTime = 0.1
	// Upward-force probe: force per unit mass and simulated span.
	liftForceFactor = 12.0
	liftProbeTime   = 2.5
	// liftTopEps is how close to the frame top a contact point must be
	// to count as having reached the top, in scene units.
	liftTopEps = 0.1
)

// Stability values.
const (
	stabilityStable   = "stable"
	stabilitySlightly = "slightly unstable"
	stabilityUnstable = "unstable"
	stabilityMoving   = "moving"
)

// movesMeasure returns the motion membership as the max over the
// present speed and the speed after a 0.1s sandboxed future.
func movesMeasure(n *ObjectNode) float64 {
	now := speedMembership(n.Body.Speed())
	fut := n.Scene.Oracle.AnalyzeFuture(futureProbeTime, nil, func() any {
		return speedMembership(n.Body.Speed())
	}).(float64)
	return math.Max(now, fut)
}

func newMovesAttr(n *ObjectNode, _ string) (Percept, error) {
	return &attribute{key: KeyMoves, label: "moves", activity: movesMeasure(n)}, nil
}

// newIsSupportedAttr probes whether the object holds still on its own:
// every other dynamic body is frozen inside the sandbox, and the
// object is supported to the degree it does not move.
func newIsSupportedAttr(n *ObjectNode, _ string) (Percept, error) {
	o := n.Scene.Oracle
	now := speedMembership(n.Body.Speed())
	fut := o.AnalyzeFuture(futureProbeTime, func() {
		o.ForEachDynamicBody(func(b sim.Body) {
			if b != n.Body {
				b.SetType(sim.TypeStatic)
			}
		})
	}, func() any {
		return speedMembership(n.Body.Speed())
	}).(float64)
	return &attribute{
		key: KeyIsSupported, label: "supported",
		activity: 1 - math.Max(now, fut),
	}, nil
}

// pushProbe simulates one probe push and reports whether the object
// passed the stability thresholds, scaled by scale.
func pushProbe(n *ObjectNode, dir sim.Direction, mag sim.Magnitude, scale float64) bool {
	o := n.Scene.Oracle
	angle0 := n.Body.Angle()
	return o.AnalyzeFuture(stabilityPushTime, func() {
		o.ApplyCentralImpulse(n.Body, dir, mag)
	}, func() any {
		rotLimit := stabilityRotLimit
		if n.Body.IsCircle() {
			rotLimit = stabilityRotCircle
		}
		rotDeg := math.Abs(n.Body.Angle()-angle0) * 180 / math.Pi
		return n.Body.Speed() < stabilitySpeedLimit*scale &&
			o.BodyDistance(n.Body) < stabilityDistLimit*scale &&
			rotDeg < rotLimit*scale
	}).(bool)
}

// stableUnderPushes pushes the object left and right at the given
// magnitude; both probes must pass.
func stableUnderPushes(n *ObjectNode, mag sim.Magnitude, scale float64) bool {
	return pushProbe(n, sim.DirLeft, mag, scale) && pushProbe(n, sim.DirRight, mag, scale)
}

// measureStability runs the full probe ladder and returns one of the
// stability values.
func measureStability(n *ObjectNode) string {
	o := n.Scene.Oracle
	if o.IsStatic(n.Body) {
		return stabilityStable
	}
	if n.Body.Speed() > stabilityMovingSpeed {
		return stabilityMoving
	}
	if stableUnderPushes(n, sim.MagMedium, 1.0) {
		return stabilityStable
	}
	if stableUnderPushes(n, sim.MagSmall, stabilityRetryScale) {
		return stabilitySlightly
	}
	return stabilityUnstable
}

// stabilityLabel collapses the four-way value to the reported label.
func stabilityLabel(val string) string {
	if val == stabilityStable || val == stabilitySlightly {
		return stabilityStable
	}
	return stabilityUnstable
}

// stabilityActivity grades confidence in the collapsed label. A
// slightly unstable object is still reported stable, just less so.
func stabilityActivity(val string) float64 {
	if val == stabilitySlightly {
		return 0.7
	}
	return 1.0
}

func newStabilityAttr(n *ObjectNode, _ string) (Percept, error) {
	val := measureStability(n)
	return &attribute{
		key:      KeyStability,
		label:    stabilityLabel(val),
		activity: stabilityActivity(val),
	}, nil
}

// newCanMoveUpAttr lifts the object with a sustained upward force and
// checks whether it reaches the frame top.
func newCanMoveUpAttr(n *ObjectNode, _ string) (Percept, error) {
	o := n.Scene.Oracle
	act := 0.0
	if !o.IsStatic(n.Body) && n.Scene.Frame != nil {
		reached := o.AnalyzeFuture(liftProbeTime, func() {
			n.Body.SetSleepingAllowed(false)
			n.Body.ApplyForce(geom.Vec{Y: -liftForceFactor * n.Body.Mass()}, n.Body.WorldCenter())
		}, func() any {
			frameTop := n.Scene.Frame.sceneBBox().MinY()
			for _, c := range o.TouchedBodiesWithPos(n.Body) {
				if n.Scene.NodeOf(c.Body) != n.Scene.Frame {
					continue
				}
				for _, pt := range c.Pts {
					if pt.Y*n.physScale() < frameTop+liftTopEps {
						return true
					}
				}
			}
			return false
		}).(bool)
		if reached {
			act = 1.0
		}
	}
	return &attribute{key: KeyCanMoveUp, label: "can-move-up", activity: act}, nil
}
