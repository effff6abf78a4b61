package percept

import (
	"github.com/banshee-data/scene.solver/internal/geom"
)

// crossSceneFactor scales the center distance of objects living in
// different scenes; surface distances are unavailable there, so the
// comparison runs in a degraded mode.
const crossSceneFactor = 2.0 / 3.0

// proximityFrac returns the distance between two nodes as a fraction
// of the scene frame. Same-scene pairs use the physics engine's
// surface distance; cross-scene pairs fall back to a scaled Euclidean
// center distance.
func proximityFrac(a, b *ObjectNode) float64 {
	if a.Scene == b.Scene {
		return surfaceDistFrac(a, b)
	}
	return crossSceneFactor * a.scenePos().Dist(b.scenePos()) / geom.SceneSize
}

func newTouchRel(n, other *ObjectNode, _ string) (Relation, error) {
	d := surfaceDistPhys(n, other)
	return &relation{
		attribute: attribute{key: KeyTouch, label: "touches", activity: touchMembership(d)},
		other:     other,
	}, nil
}

func newCloseRel(n, other *ObjectNode, _ string) (Relation, error) {
	return &relation{
		attribute: attribute{key: KeyClose, label: "close", activity: closeMembership(proximityFrac(n, other))},
		other:     other,
	}, nil
}

func newFarRel(n, other *ObjectNode, _ string) (Relation, error) {
	return &relation{
		attribute: attribute{key: KeyFar, label: "far", activity: farMembership(proximityFrac(n, other))},
		other:     other,
	}, nil
}

// collisionScan looks up the scene's recorded collision list with the
// requested orientation and returns the hit flag and the largest
// relative contact speed.
func collisionScan(n, other *ObjectNode, forward, backward bool) (found bool, maxDV float64) {
	for _, c := range n.Scene.Collisions {
		hit := (forward && c.A == n && c.B == other) ||
			(backward && c.A == other && c.B == n)
		if hit {
			found = true
			if c.DV > maxDV {
				maxDV = c.DV
			}
		}
	}
	return found, maxDV
}

func collisionActivity(found bool) float64 {
	if found {
		return 1.0
	}
	return 0.0
}

func newHitsRel(n, other *ObjectNode, _ string) (Relation, error) {
	found, _ := collisionScan(n, other, true, false)
	return &relation{
		attribute: attribute{key: KeyHits, label: "hits", activity: collisionActivity(found), constant: true},
		other:     other,
	}, nil
}

func newGetsHitRel(n, other *ObjectNode, _ string) (Relation, error) {
	found, _ := collisionScan(n, other, false, true)
	return &relation{
		attribute: attribute{key: KeyGetsHit, label: "gets-hit", activity: collisionActivity(found), constant: true},
		other:     other,
	}, nil
}

func newCollidesRel(n, other *ObjectNode, _ string) (Relation, error) {
	found, _ := collisionScan(n, other, true, true)
	return &relation{
		attribute: attribute{key: KeyCollides, label: "collides", activity: collisionActivity(found), constant: true},
		other:     other,
	}, nil
}
