package percept

import (
	"math"

	"github.com/banshee-data/scene.solver/internal/geom"
)

func newLeftPosAttr(n *ObjectNode, _ string) (Percept, error) {
	frac := n.scenePos().X / geom.SceneSize
	return &attribute{
		key: KeyLeftPos, label: "left",
		activity: 1 - Sigmoid(hPosK, hPosM, frac),
	}, nil
}

func newRightPosAttr(n *ObjectNode, _ string) (Percept, error) {
	frac := (geom.SceneSize - n.scenePos().X) / geom.SceneSize
	return &attribute{
		key: KeyRightPos, label: "right",
		activity: 1 - Sigmoid(hPosK, hPosM, frac),
	}, nil
}

func newTopPosAttr(n *ObjectNode, _ string) (Percept, error) {
	maxY := n.Scene.groundMaxY()
	frac := n.scenePos().Y / maxY
	return &attribute{
		key: KeyTopPos, label: "top",
		activity: 1 - Sigmoid(vPosK, topPosM, frac),
	}, nil
}

func newBottomPosAttr(n *ObjectNode, _ string) (Percept, error) {
	maxY := n.Scene.groundMaxY()
	frac := (maxY - n.scenePos().Y) / maxY
	return &attribute{
		key: KeyBottomPos, label: "bottom",
		activity: 1 - Sigmoid(vPosK, bottomPosM, frac),
	}, nil
}

// mostActivity grades how close a value is to the extremum over all
// movable objects on one axis.
func mostActivity(val, extremum float64) float64 {
	return closeMembership(mostK * math.Abs(val-extremum) / geom.SceneSize)
}

// axisExtremum returns the extremum of f over the scene's movable
// objects. min selects the minimum, otherwise the maximum.
func axisExtremum(sn *SceneNode, min bool, f func(*ObjectNode) float64) (float64, error) {
	if len(sn.Objs) == 0 {
		return 0, ErrNoObjects
	}
	ext := f(sn.Objs[0])
	for _, o := range sn.Objs[1:] {
		v := f(o)
		if (min && v < ext) || (!min && v > ext) {
			ext = v
		}
	}
	return ext, nil
}

func newLeftMostAttr(n *ObjectNode, _ string) (Percept, error) {
	ext, err := axisExtremum(n.Scene, true, func(o *ObjectNode) float64 { return o.scenePos().X })
	if err != nil {
		return nil, err
	}
	return &attribute{
		key: KeyLeftMost, label: "left-most",
		activity: mostActivity(n.scenePos().X, ext),
	}, nil
}

func newRightMostAttr(n *ObjectNode, _ string) (Percept, error) {
	ext, err := axisExtremum(n.Scene, false, func(o *ObjectNode) float64 { return o.scenePos().X })
	if err != nil {
		return nil, err
	}
	return &attribute{
		key: KeyRightMost, label: "right-most",
		activity: mostActivity(n.scenePos().X, ext),
	}, nil
}

func newTopMostAttr(n *ObjectNode, _ string) (Percept, error) {
	ext, err := axisExtremum(n.Scene, true, func(o *ObjectNode) float64 { return o.scenePos().Y })
	if err != nil {
		return nil, err
	}
	return &attribute{
		key: KeyTopMost, label: "top-most",
		activity: mostActivity(n.scenePos().Y, ext),
	}, nil
}

// newSingleAttr grades whether no other object is nearby: high
// distance membership minus the touch membership of the same distance.
func newSingleAttr(n *ObjectNode, _ string) (Percept, error) {
	act := 1.0
	if _, dist, ok := n.Scene.Oracle.ClosestBodyWithDist(n.Body); ok {
		frac := dist * n.physScale() / geom.SceneSize
		act = clamp01(Sigmoid(singleK, singleM, frac) - touchMembership(dist))
	}
	return &attribute{key: KeySingle, label: "single", activity: act}, nil
}

// newOnGroundAttr equals the activity of touch with the ground.
func newOnGroundAttr(n *ObjectNode, time string) (Percept, error) {
	act := 0.0
	if n.Scene.Ground != nil {
		r, err := n.Relation(KeyTouch, n.Scene.Ground, Opts{Time: time})
		if err != nil {
			return nil, err
		}
		act = r.Activity()
	}
	return &attribute{key: KeyOnGround, label: "on-ground", activity: act}, nil
}
