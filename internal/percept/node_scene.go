package percept

import (
	"fmt"
	"strings"

	"github.com/banshee-data/scene.solver/internal/geom"
	"github.com/banshee-data/scene.solver/internal/sim"
)

// Collision is one recorded contact event, rewritten from physics
// bodies to the owning object nodes. A hit B with relative speed DV.
type Collision struct {
	A, B *ObjectNode
	DV   float64
}

// SceneNode bundles one scene with its oracle and the object nodes
// wrapping each movable shape. Ground and frame get their own nodes
// but are not listed in Objs.
type SceneNode struct {
	Scene  *Scene
	Oracle sim.Oracle

	Objs   []*ObjectNode
	Ground *ObjectNode
	Frame  *ObjectNode

	Collisions []Collision

	// Times is the ordered list of named states to perceive at.
	Times []string

	byBody map[sim.Body]*ObjectNode
}

// NewSceneNode wraps a scene and registers its objects.
func NewSceneNode(scene *Scene, oracle sim.Oracle) *SceneNode {
	sn := &SceneNode{
		Scene:  scene,
		Oracle: oracle,
		Times:  []string{TimeStart, TimeEnd},
		byBody: make(map[sim.Body]*ObjectNode),
	}
	sn.registerObjects()
	return sn
}

// registerObjects creates one ObjectNode per scene element. Movable
// shapes go into Objs; the ground and frame are referenced separately.
func (sn *SceneNode) registerObjects() {
	for _, el := range sn.Scene.Elements {
		node := newObjectNode(sn, el)
		sn.byBody[el.Body] = node
		switch el.Shape.ID() {
		case geom.GroundID:
			sn.Ground = node
		case geom.FrameID:
			sn.Frame = node
		default:
			if el.Shape.Movable() {
				sn.Objs = append(sn.Objs, node)
			}
		}
	}
}

// NodeOf returns the object node owning a physics body, or nil.
func (sn *SceneNode) NodeOf(b sim.Body) *ObjectNode {
	return sn.byBody[b]
}

// PerceiveCollisions restores "start", lets the oracle observe the
// scene unfold, and records each contact with the owning nodes.
func (sn *SceneNode) PerceiveCollisions() error {
	if err := sn.Oracle.GotoState(TimeStart); err != nil {
		return fmt.Errorf("perceive collisions: %w", err)
	}
	sn.Collisions = sn.Collisions[:0]
	for _, c := range sn.Oracle.ObserveCollisions() {
		a, b := sn.NodeOf(c.A), sn.NodeOf(c.B)
		if a == nil || b == nil {
			continue
		}
		sn.Collisions = append(sn.Collisions, Collision{A: a, B: b, DV: c.DV})
	}
	return nil
}

// Perceive runs every object node's perception at one named time.
func (sn *SceneNode) Perceive(time string) error {
	if err := sn.Oracle.GotoState(time); err != nil {
		return fmt.Errorf("perceive @%s: %w", time, err)
	}
	for _, o := range sn.Objs {
		if err := o.Perceive(time); err != nil {
			return err
		}
	}
	return nil
}

// PerceiveAll observes collisions first, then perceives every object
// at every named time.
func (sn *SceneNode) PerceiveAll() error {
	if err := sn.PerceiveCollisions(); err != nil {
		return err
	}
	for _, t := range sn.Times {
		if err := sn.Perceive(t); err != nil {
			return err
		}
	}
	return nil
}

// groundMaxY returns the bottom edge of the ground in scene units,
// used to normalize vertical positions. Falls back to the scene size
// when no ground is present.
func (sn *SceneNode) groundMaxY() float64 {
	if sn.Ground == nil {
		return geom.SceneSize
	}
	return sn.Ground.sceneBBox().MaxY()
}

// Describe returns a multi-line summary of the scene's objects at the
// start time.
func (sn *SceneNode) Describe() string {
	lines := make([]string, 0, len(sn.Objs)+1)
	lines = append(lines, fmt.Sprintf("scene %s (%d objects)", sn.Scene.ID, len(sn.Objs)))
	for _, o := range sn.Objs {
		lines = append(lines, "  "+o.Describe(TimeStart))
	}
	return strings.Join(lines, "\n")
}
