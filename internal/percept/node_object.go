package percept

import (
	"fmt"
	"strings"

	"github.com/banshee-data/scene.solver/internal/config"
	"github.com/banshee-data/scene.solver/internal/geom"
	"github.com/banshee-data/scene.solver/internal/sim"
)

// Opts controls percept resolution.
type Opts struct {
	// Time is the named state to perceive at. Empty means the oracle's
	// current state; if the oracle has no named state, perception runs
	// but the result is not cached.
	Time string
	// CacheOnly suppresses perception: a miss returns nil, nil.
	CacheOnly bool
}

// cacheEntry holds the percepts of one (time, feature) cell: a single
// attribute, or one relation per partner.
type cacheEntry struct {
	attr Percept
	rels []Relation
}

// ObjectNode wraps one movable shape together with its per-time
// percept cache.
type ObjectNode struct {
	Scene     *SceneNode
	Shape     geom.Shape
	Body      sim.Body
	PhysScale float64

	// Selectors lists the selectors currently describing this object.
	Selectors []fmt.Stringer

	times map[string]map[string]*cacheEntry
}

func newObjectNode(sn *SceneNode, el Element) *ObjectNode {
	return &ObjectNode{
		Scene:     sn,
		Shape:     el.Shape,
		Body:      el.Body,
		PhysScale: el.PhysScale,
		times:     make(map[string]map[string]*cacheEntry),
	}
}

// ID returns the shape id of the node.
func (n *ObjectNode) ID() string { return n.Shape.ID() }

// resolveTime applies the resolution rule: constant features always
// resolve against "start"; otherwise an unspecified time falls back to
// the oracle's current state. The second result reports whether the
// resolved time is a named (cacheable) state.
func (n *ObjectNode) resolveTime(constant bool, time string) (string, bool) {
	if constant {
		return TimeStart, true
	}
	if time != "" {
		return time, true
	}
	if n.Scene != nil {
		if s, ok := n.Scene.Oracle.CurrState(); ok {
			return s, true
		}
	}
	return "", false
}

func (n *ObjectNode) cacheAt(time, key string) *cacheEntry {
	byKey := n.times[time]
	if byKey == nil {
		return nil
	}
	return byKey[key]
}

func (n *ObjectNode) ensureCache(time, key string) *cacheEntry {
	byKey := n.times[time]
	if byKey == nil {
		byKey = make(map[string]*cacheEntry)
		n.times[time] = byKey
	}
	e := byKey[key]
	if e == nil {
		e = &cacheEntry{}
		byKey[key] = e
	}
	return e
}

// Attr resolves an object attribute percept, perceiving it on demand
// unless o.CacheOnly is set (then a miss returns nil, nil).
func (n *ObjectNode) Attr(key string, o Opts) (Percept, error) {
	d, ok := ObjAttrs[key]
	if !ok {
		return nil, unknownFeature(key)
	}
	time, named := n.resolveTime(d.Constant, o.Time)
	if named {
		if e := n.cacheAt(time, key); e != nil && e.attr != nil {
			return e.attr, nil
		}
	}
	if o.CacheOnly {
		return nil, nil
	}
	if named {
		if err := n.Scene.Oracle.GotoState(time); err != nil {
			return nil, fmt.Errorf("attr %q: %w", key, err)
		}
	}
	p, err := d.newAttr(n, time)
	if err != nil {
		return nil, err
	}
	if named {
		n.ensureCache(time, key).attr = p
	}
	return p, nil
}

// Relation resolves a relation percept toward one partner node,
// perceiving it on demand unless o.CacheOnly is set.
func (n *ObjectNode) Relation(key string, other *ObjectNode, o Opts) (Relation, error) {
	d, ok := ObjRels[key]
	if !ok {
		return nil, unknownFeature(key)
	}
	if other == nil {
		return nil, fmt.Errorf("%w: %q", ErrMissingPartner, key)
	}
	time, named := n.resolveTime(d.Constant, o.Time)
	if named {
		if e := n.cacheAt(time, key); e != nil {
			for _, r := range e.rels {
				if r.Other() == other {
					return r, nil
				}
			}
		}
	}
	if o.CacheOnly {
		return nil, nil
	}
	if named {
		if err := n.Scene.Oracle.GotoState(time); err != nil {
			return nil, fmt.Errorf("relation %q: %w", key, err)
		}
	}
	r, err := d.newRel(n, other, time)
	if err != nil {
		return nil, err
	}
	if named {
		e := n.ensureCache(time, key)
		e.rels = append(e.rels, r)
	}
	return r, nil
}

// Relations resolves the relation percepts of one key toward every
// other movable object in the scene. With o.CacheOnly it returns only
// what is cached (possibly empty).
func (n *ObjectNode) Relations(key string, o Opts) ([]Relation, error) {
	d, ok := ObjRels[key]
	if !ok {
		return nil, unknownFeature(key)
	}
	if o.CacheOnly {
		time, named := n.resolveTime(d.Constant, o.Time)
		if !named {
			return nil, nil
		}
		e := n.cacheAt(time, key)
		if e == nil {
			return nil, nil
		}
		out := make([]Relation, len(e.rels))
		copy(out, e.rels)
		return out, nil
	}
	var out []Relation
	for _, other := range n.Scene.Objs {
		if other == n {
			continue
		}
		r, err := n.Relation(key, other, Opts{Time: o.Time})
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// Perceive eagerly instantiates every registered object feature for
// this node at the given time. Relations cover every other movable
// object; group partners would go through an ObjectToGroup relation
// variant, which no registered relation currently implements.
func (n *ObjectNode) Perceive(time string) error {
	for _, key := range objAttrOrder {
		if _, err := n.Attr(key, Opts{Time: time}); err != nil {
			return fmt.Errorf("perceive %s@%s: %w", key, time, err)
		}
	}
	for _, key := range objRelOrder {
		for _, other := range n.Scene.Objs {
			if other == n {
				continue
			}
			if _, err := n.Relation(key, other, Opts{Time: time}); err != nil {
				return fmt.Errorf("perceive %s@%s: %w", key, time, err)
			}
		}
	}
	return nil
}

// HasRelation reports whether the cache holds a relation of the key to
// other whose activation matches the requested polarity.
func (n *ObjectNode) HasRelation(key, time string, active bool, other *ObjectNode) bool {
	r, err := n.Relation(key, other, Opts{Time: time, CacheOnly: true})
	if err != nil || r == nil {
		return false
	}
	return (r.Activity() >= config.Current.ActivationThreshold) == active
}

// Describe returns a one-line summary of the node's active attribute
// labels at the given time, from cache only.
func (n *ObjectNode) Describe(time string) string {
	parts := []string{n.ID() + ":"}
	for _, key := range objAttrOrder {
		p, err := n.Attr(key, Opts{Time: time, CacheOnly: true})
		if err != nil || p == nil {
			continue
		}
		if p.Activity() >= config.Current.ActivationThreshold {
			parts = append(parts, p.Label())
		}
	}
	return strings.Join(parts, " ")
}
