package percept

import (
	"math"

	"github.com/banshee-data/scene.solver/internal/geom"
	"github.com/banshee-data/scene.solver/internal/sim"
)

// Sigmoid is the standard activity curve: 1/(1+exp(k*(m-x))). It is
// increasing in x with midpoint m and steepness k.
func Sigmoid(k, m, x float64) float64 {
	return 1 / (1 + math.Exp(k*(m-x)))
}

// Membership curve parameters. Distances are fractions of the scene
// frame unless noted; areas are percent of the scene area.
const (
	closeK, closeM   = 30.0, 0.2
	farK, farM       = 20.0, 0.25
	smallK, smallM   = 4.0, 1.8
	largeK, largeM   = 4.0, 2.0
	speedK, speedM   = 40.0, 0.1
	hPosK, hPosM     = 20.0, 0.4
	topPosM          = 0.45
	bottomPosM       = 0.3
	vPosK            = 20.0
	singleK, singleM = 40.0, 0.03
	mostK            = 2.5
)

// closeMembership grades a distance (scene fraction) as "close".
func closeMembership(frac float64) float64 { return 1 - Sigmoid(closeK, closeM, frac) }

// farMembership grades a distance (scene fraction) as "far".
func farMembership(frac float64) float64 { return Sigmoid(farK, farM, frac) }

// touchMembership grades a surface distance in physics units as
// touching. The cut is crisp.
func touchMembership(distPhys float64) float64 {
	if distPhys <= sim.TouchEps {
		return 1
	}
	return 0
}

// smallMembership grades an area (percent of scene area) as "small".
func smallMembership(areaPct float64) float64 { return 1 - Sigmoid(smallK, smallM, areaPct) }

// largeMembership grades an area (percent of scene area) as "large".
func largeMembership(areaPct float64) float64 { return Sigmoid(largeK, largeM, areaPct) }

// speedMembership grades a linear speed (physics units/s) as "moving".
func speedMembership(v float64) float64 { return Sigmoid(speedK, speedM, v) }

// clamp01 clips x into [0,1].
func clamp01(x float64) float64 { return math.Max(0, math.Min(1, x)) }

// physScale returns the physics-to-scene unit factor for a node.
func (n *ObjectNode) physScale() float64 {
	if n.PhysScale == 0 {
		return 1
	}
	return n.PhysScale
}

// scenePos returns the node's current body position in scene units.
func (n *ObjectNode) scenePos() geom.Vec {
	return n.Body.Position().Scale(n.physScale())
}

// sceneBBox returns the node's current world bounding box in scene
// units.
func (n *ObjectNode) sceneBBox() geom.Rect {
	s := n.physScale()
	bb := n.Shape.BoundingBox().Translate(n.Body.Position())
	return geom.Rect{X: bb.X * s, Y: bb.Y * s, W: bb.W * s, H: bb.H * s}
}

// surfaceDistPhys returns the surface distance between two nodes in
// physics units.
func surfaceDistPhys(a, b *ObjectNode) float64 {
	return a.Body.Distance(b.Body)
}

// surfaceDistFrac returns the surface distance between two nodes as a
// fraction of the scene frame.
func surfaceDistFrac(a, b *ObjectNode) float64 {
	return surfaceDistPhys(a, b) * a.physScale() / geom.SceneSize
}
