package percept

import (
	"math"
	"strconv"

	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/banshee-data/scene.solver/internal/geom"
)

// countLabelCap is the cardinality from which group counts stop being
// distinguished.
const countLabelCap = 4

func newCountAttr(g *GroupNode, _ string) (Percept, error) {
	n := g.Size()
	label := ">=" + strconv.Itoa(countLabelCap)
	if n < countLabelCap {
		label = strconv.Itoa(n)
	}
	return &attribute{key: KeyCount, label: label, activity: 1.0, constant: true}, nil
}

// groupScale returns the physics-to-scene factor of the group's
// members.
func (g *GroupNode) groupScale() float64 {
	if len(g.Members) == 0 {
		return 1
	}
	return g.Members[0].physScale()
}

// criticalEdge returns the length of the longest edge in the minimum
// spanning tree over the members' pairwise surface distances, in
// physics units. The MST's critical edge is the group's diameter
// measure: the one gap that keeps the group connected.
func (g *GroupNode) criticalEdge() (float64, bool) {
	n := len(g.Members)
	if n < 2 {
		return 0, false
	}
	wg := simple.NewWeightedUndirectedGraph(0, math.Inf(1))
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			wg.SetWeightedEdge(simple.WeightedEdge{
				F: simple.Node(i),
				T: simple.Node(j),
				W: surfaceDistPhys(g.Members[i], g.Members[j]),
			})
		}
	}
	mst := simple.NewWeightedUndirectedGraph(0, math.Inf(1))
	path.Kruskal(mst, wg)

	longest := 0.0
	it := mst.WeightedEdges()
	for it.Next() {
		if w := it.WeightedEdge().Weight(); w > longest {
			longest = w
		}
	}
	return longest, true
}

// minPairDist returns the smallest pairwise surface distance in the
// group, in physics units.
func (g *GroupNode) minPairDist() (float64, bool) {
	n := len(g.Members)
	if n < 2 {
		return 0, false
	}
	best := math.Inf(1)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if d := surfaceDistPhys(g.Members[i], g.Members[j]); d < best {
				best = d
			}
		}
	}
	return best, true
}

func newGroupCloseAttr(g *GroupNode, _ string) (Percept, error) {
	act := 0.0
	if edge, ok := g.criticalEdge(); ok {
		act = closeMembership(edge * g.groupScale() / geom.SceneSize)
	}
	return &attribute{key: KeyClose, label: "close", activity: act}, nil
}

func newGroupTouchingAttr(g *GroupNode, _ string) (Percept, error) {
	act := 0.0
	if edge, ok := g.criticalEdge(); ok {
		act = touchMembership(edge)
	}
	return &attribute{key: KeyTouching, label: "touching", activity: act}, nil
}

func newGroupFarAttr(g *GroupNode, _ string) (Percept, error) {
	act := 0.0
	if d, ok := g.minPairDist(); ok {
		act = farMembership(d * g.groupScale() / geom.SceneSize)
	}
	return &attribute{key: KeyFar, label: "far", activity: act}, nil
}
