// Package selector implements compositional predicates over perceived
// scenes: selectors filter object groups by attribute and relation
// matchers with fuzzy-match semantics, and solutions pair a selector
// with a side assignment to distinguish left from right example
// scenes.
package selector

import (
	"errors"
	"fmt"
	"strings"

	"github.com/banshee-data/scene.solver/internal/config"
	"github.com/banshee-data/scene.solver/internal/percept"
)

// ErrNestedRelation reports a relational matcher whose partner
// selector itself contains relational matchers. Forbidding this keeps
// matching finite.
var ErrNestedRelation = errors.New("selector: partner selector must be relation-free")

// Type classifies a selector by the node kinds it can filter.
type Type int

const (
	// TypeBlank selectors match everything.
	TypeBlank Type = iota
	// TypeObject selectors carry only object matchers.
	TypeObject
	// TypeGroup selectors carry only group matchers.
	TypeGroup
	// TypeMixed selectors carry both.
	TypeMixed
)

// Selector is a conjunction of attribute and relation matchers. The
// Unique flag changes the partner quantification of relational
// matchers that nest this selector: exactly one partner must match
// instead of at least one.
type Selector struct {
	ObjAttrs []*AttrMatcher
	GrpAttrs []*AttrMatcher
	Rels     []*RelMatcher
	Unique   bool

	cachedComplexity int
	hasCached        bool
}

// New creates an empty (blank) selector.
func New() *Selector { return &Selector{} }

// NewUnique creates an empty selector with unique partner
// quantification.
func NewUnique() *Selector { return &Selector{Unique: true} }

// AddAttr appends an attribute matcher, resolving the feature's target
// type and constancy from the registries. A matcher with the same
// (key, time, target) already present is replaced: later wins.
func (s *Selector) AddAttr(key, label string, active bool, time string) error {
	var target percept.TargetType
	var constant bool
	if d, ok := percept.ObjAttrs[key]; ok {
		target, constant = percept.TargetObject, d.Constant
	} else if d, ok := percept.GroupAttrs[key]; ok {
		target, constant = percept.TargetGroup, d.Constant
	} else {
		return fmt.Errorf("%w: %q", percept.ErrUnknownFeature, key)
	}
	m := &AttrMatcher{
		Key: key, Label: label, Active: active, Time: time,
		Target: target, Constant: constant,
	}
	s.hasCached = false
	list := &s.ObjAttrs
	if target == percept.TargetGroup {
		list = &s.GrpAttrs
	}
	for i, old := range *list {
		if old.Key == m.Key && old.Time == m.Time {
			(*list)[i] = m
			return nil
		}
	}
	*list = append(*list, m)
	return nil
}

// AddRel appends a relation matcher. The partner selector must be
// relation-free; a nil partner means blank (any object). A matcher
// with the same (key, time, equal partner) is replaced: later wins.
func (s *Selector) AddRel(key, label string, active bool, time string, other *Selector) error {
	d, ok := percept.ObjRels[key]
	if !ok {
		return fmt.Errorf("%w: %q", percept.ErrUnknownFeature, key)
	}
	if other == nil {
		other = New()
	}
	if len(other.Rels) > 0 {
		return ErrNestedRelation
	}
	m := &RelMatcher{
		Key: key, Label: label, Active: active, Time: time,
		Constant: d.Constant, Symmetric: d.Symmetric,
		Other: other,
	}
	s.hasCached = false
	for i, old := range s.Rels {
		if old.Key == m.Key && old.Time == m.Time && old.Other.Equals(m.Other) {
			s.Rels[i] = m
			return nil
		}
	}
	s.Rels = append(s.Rels, m)
	return nil
}

// IsBlank reports whether the selector has no matchers at all.
func (s *Selector) IsBlank() bool {
	return len(s.ObjAttrs) == 0 && len(s.GrpAttrs) == 0 && len(s.Rels) == 0
}

// Type classifies the selector.
func (s *Selector) Type() Type {
	switch {
	case s.IsBlank():
		return TypeBlank
	case len(s.GrpAttrs) == 0:
		return TypeObject
	case len(s.ObjAttrs) == 0 && len(s.Rels) == 0:
		return TypeGroup
	default:
		return TypeMixed
	}
}

// MatchesObject reports whether a node satisfies every object
// attribute matcher and, unless testFn overrides the relation check,
// every relation matcher. others restricts the candidate partners of
// relation matchers; nil means all other objects in the node's scene.
func (s *Selector) MatchesObject(n *percept.ObjectNode, others []*percept.ObjectNode, testFn func(*percept.ObjectNode) bool) bool {
	for _, m := range s.ObjAttrs {
		if !m.matchesObject(n) {
			return false
		}
	}
	if testFn != nil {
		return testFn(n)
	}
	for _, m := range s.Rels {
		if !m.match(n, others) {
			return false
		}
	}
	return true
}

// Select applies the selector to a group, returning a refined group
// that carries the merged selector history. Blank selectors return the
// group unchanged. testFn, if given, replaces the relation check of
// the object filter.
func (s *Selector) Select(g *percept.GroupNode, sn *percept.SceneNode, testFn func(*percept.ObjectNode) bool) *percept.GroupNode {
	if s.IsBlank() {
		return g
	}

	stored := s
	if len(g.Selectors) > 0 {
		if first, ok := g.Selectors[0].(*Selector); ok {
			stored = first.MergedWith(s)
		}
	}

	res := g.Clone()
	res.Selectors = []fmt.Stringer{stored}

	typ := s.Type()
	if typ == TypeObject || typ == TypeMixed {
		kept := res.Members[:0:0]
		for _, m := range res.Members {
			if s.MatchesObject(m, nil, testFn) {
				kept = append(kept, m)
				m.Selectors = append(m.Selectors, stored)
			}
		}
		res.Members = kept
	}
	if typ == TypeGroup || typ == TypeMixed {
		for _, am := range s.GrpAttrs {
			if !am.matchesGroup(res) {
				empty := percept.NewGroupNode(sn, nil)
				empty.Selectors = []fmt.Stringer{stored}
				return empty
			}
		}
	}
	return res
}

// Clone returns a structurally independent copy; mutating the clone
// leaves the original unchanged.
func (s *Selector) Clone() *Selector {
	c := &Selector{Unique: s.Unique}
	for _, m := range s.ObjAttrs {
		cp := *m
		c.ObjAttrs = append(c.ObjAttrs, &cp)
	}
	for _, m := range s.GrpAttrs {
		cp := *m
		c.GrpAttrs = append(c.GrpAttrs, &cp)
	}
	for _, m := range s.Rels {
		cp := *m
		cp.Other = m.Other.Clone()
		c.Rels = append(c.Rels, &cp)
	}
	return c
}

// MergedWith returns a new selector holding this selector's matchers
// merged with the other's. Duplicates are resolved later-wins.
func (s *Selector) MergedWith(o *Selector) *Selector {
	c := s.Clone()
	merge := func(dst *[]*AttrMatcher, src []*AttrMatcher) {
	next:
		for _, m := range src {
			cp := *m
			for i, old := range *dst {
				if old.Key == m.Key && old.Time == m.Time {
					(*dst)[i] = &cp
					continue next
				}
			}
			*dst = append(*dst, &cp)
		}
	}
	merge(&c.ObjAttrs, o.ObjAttrs)
	merge(&c.GrpAttrs, o.GrpAttrs)
nextRel:
	for _, m := range o.Rels {
		cp := *m
		cp.Other = m.Other.Clone()
		for i, old := range c.Rels {
			if old.Key == m.Key && old.Time == m.Time && old.Other.Equals(m.Other) {
				c.Rels[i] = &cp
				continue nextRel
			}
		}
		c.Rels = append(c.Rels, &cp)
	}
	c.hasCached = false
	return c
}

// Equals reports structural equality.
func (s *Selector) Equals(o *Selector) bool {
	if o == nil || s.Unique != o.Unique ||
		len(s.ObjAttrs) != len(o.ObjAttrs) ||
		len(s.GrpAttrs) != len(o.GrpAttrs) ||
		len(s.Rels) != len(o.Rels) {
		return false
	}
	for i, m := range s.ObjAttrs {
		if *m != *o.ObjAttrs[i] {
			return false
		}
	}
	for i, m := range s.GrpAttrs {
		if *m != *o.GrpAttrs[i] {
			return false
		}
	}
	for i, m := range s.Rels {
		if !m.equals(o.Rels[i]) {
			return false
		}
	}
	return true
}

// Complexity scores the selector for simple-to-complex search
// ordering. The score is cached; a cached value that disagrees with
// recomputation means a matcher was mutated behind the selector's
// back, which is an internal invariant violation.
func (s *Selector) Complexity() int {
	c := 0
	for _, m := range s.ObjAttrs {
		c += m.complexity()
	}
	for _, m := range s.GrpAttrs {
		c += m.complexity()
	}
	for _, m := range s.Rels {
		c += m.complexity()
	}
	if s.hasCached && s.cachedComplexity != c {
		panic("selector: complexity cache out of sync")
	}
	s.cachedComplexity, s.hasCached = c, true
	return c
}

// String renders the selector compactly, e.g.
// "[small] [left-of -> [rectangle]]".
func (s *Selector) String() string {
	var parts []string
	for _, m := range s.ObjAttrs {
		parts = append(parts, m.String())
	}
	for _, m := range s.GrpAttrs {
		parts = append(parts, m.String())
	}
	for _, m := range s.Rels {
		parts = append(parts, m.String())
	}
	if len(parts) == 0 {
		return "[any]"
	}
	return strings.Join(parts, " ")
}

// sceneOthers returns every object node in n's scene except n.
func sceneOthers(n *percept.ObjectNode) []*percept.ObjectNode {
	objs := n.Scene.Objs
	out := make([]*percept.ObjectNode, 0, len(objs)-1)
	for _, o := range objs {
		if o != n {
			out = append(out, o)
		}
	}
	return out
}

// threshold returns the configured activation threshold.
func threshold() float64 { return config.Current.ActivationThreshold }
