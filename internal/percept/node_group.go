package percept

import (
	"fmt"
	"strings"

	"github.com/banshee-data/scene.solver/internal/config"
)

// groupCache maps time → feature key → percept.
type groupCache map[string]map[string]Percept

// GroupNode is an ordered subset of the scene's objects with its own
// time-indexed cache of group-attribute percepts.
type GroupNode struct {
	Scene   *SceneNode
	Members []*ObjectNode

	// Selectors lists the selectors that produced this group.
	Selectors []fmt.Stringer

	cache groupCache
}

// NewGroupNode creates a group over the given members with a fresh
// cache.
func NewGroupNode(sn *SceneNode, members []*ObjectNode) *GroupNode {
	return &GroupNode{Scene: sn, Members: members, cache: make(groupCache)}
}

// SceneGroup returns the group of all movable objects in the scene,
// minus keyObj if given.
func SceneGroup(sn *SceneNode, keyObj *ObjectNode) *GroupNode {
	members := make([]*ObjectNode, 0, len(sn.Objs))
	for _, o := range sn.Objs {
		if o == keyObj {
			continue
		}
		members = append(members, o)
	}
	return NewGroupNode(sn, members)
}

// SpatialGroupNodes clusters the scene's objects by proximity via the
// oracle and wraps each cluster in a GroupNode. A zero maxDist uses
// the configured default.
func SpatialGroupNodes(sn *SceneNode, maxDist float64) []*GroupNode {
	if maxDist == 0 {
		maxDist = config.Current.MaxDist
	}
	var out []*GroupNode
	for _, cluster := range sn.Oracle.SpatialGroups(maxDist, nil) {
		var members []*ObjectNode
		for _, b := range cluster {
			if n := sn.NodeOf(b); n != nil {
				members = append(members, n)
			}
		}
		if len(members) > 0 {
			out = append(out, NewGroupNode(sn, members))
		}
	}
	return out
}

// Clone duplicates the member list but shares the percept cache by
// reference: refinements of the same group reuse previously computed
// group-attribute percepts.
func (g *GroupNode) Clone() *GroupNode {
	members := make([]*ObjectNode, len(g.Members))
	copy(members, g.Members)
	sels := append([]fmt.Stringer(nil), g.Selectors...)
	return &GroupNode{Scene: g.Scene, Members: members, Selectors: sels, cache: g.cache}
}

// Size returns the number of member objects.
func (g *GroupNode) Size() int { return len(g.Members) }

// Contains reports whether the node is a member of the group.
func (g *GroupNode) Contains(n *ObjectNode) bool {
	for _, m := range g.Members {
		if m == n {
			return true
		}
	}
	return false
}

// resolveTime mirrors ObjectNode.resolveTime for group features.
func (g *GroupNode) resolveTime(constant bool, time string) (string, bool) {
	if constant {
		return TimeStart, true
	}
	if time != "" {
		return time, true
	}
	if g.Scene != nil {
		if s, ok := g.Scene.Oracle.CurrState(); ok {
			return s, true
		}
	}
	return "", false
}

// Attr resolves a group attribute percept, perceiving it on demand
// unless o.CacheOnly is set (then a miss returns nil, nil).
func (g *GroupNode) Attr(key string, o Opts) (Percept, error) {
	d, ok := GroupAttrs[key]
	if !ok {
		return nil, unknownFeature(key)
	}
	time, named := g.resolveTime(d.Constant, o.Time)
	if named {
		if byKey := g.cache[time]; byKey != nil {
			if p := byKey[key]; p != nil {
				return p, nil
			}
		}
	}
	if o.CacheOnly {
		return nil, nil
	}
	if named {
		if err := g.Scene.Oracle.GotoState(time); err != nil {
			return nil, fmt.Errorf("group attr %q: %w", key, err)
		}
	}
	p, err := d.newGroup(g, time)
	if err != nil {
		return nil, err
	}
	if named {
		byKey := g.cache[time]
		if byKey == nil {
			byKey = make(map[string]Percept)
			g.cache[time] = byKey
		}
		byKey[key] = p
	}
	return p, nil
}

// Perceive eagerly instantiates every registered group feature at the
// given time.
func (g *GroupNode) Perceive(time string) error {
	for _, key := range groupAttrOrder {
		if _, err := g.Attr(key, Opts{Time: time}); err != nil {
			return fmt.Errorf("perceive group %s@%s: %w", key, time, err)
		}
	}
	return nil
}

// Describe returns a one-line summary of the group members and active
// group labels at the given time, from cache only.
func (g *GroupNode) Describe(time string) string {
	ids := make([]string, len(g.Members))
	for i, m := range g.Members {
		ids[i] = m.ID()
	}
	parts := []string{"{" + strings.Join(ids, ",") + "}"}
	for _, key := range groupAttrOrder {
		p, err := g.Attr(key, Opts{Time: time, CacheOnly: true})
		if err != nil || p == nil {
			continue
		}
		if p.Activity() >= config.Current.ActivationThreshold {
			parts = append(parts, p.Label())
		}
	}
	return strings.Join(parts, " ")
}
