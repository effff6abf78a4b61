package selector

import (
	"fmt"

	"github.com/banshee-data/scene.solver/internal/percept"
)

// AttrMatcher matches one attribute percept: the node's percept at the
// matcher's time must exist, carry the expected label, and its
// activation must agree with the requested polarity.
type AttrMatcher struct {
	Key      string
	Label    string
	Active   bool
	Time     string
	Target   percept.TargetType
	Constant bool
}

func (m *AttrMatcher) matchesPercept(p percept.Percept, err error) bool {
	if err != nil || p == nil {
		return false
	}
	return p.Label() == m.Label && (p.Activity() >= threshold()) == m.Active
}

func (m *AttrMatcher) matchesObject(n *percept.ObjectNode) bool {
	if m.Target != percept.TargetObject {
		return false
	}
	p, err := n.Attr(m.Key, percept.Opts{Time: m.Time})
	return m.matchesPercept(p, err)
}

func (m *AttrMatcher) matchesGroup(g *percept.GroupNode) bool {
	if m.Target != percept.TargetGroup {
		return false
	}
	p, err := g.Attr(m.Key, percept.Opts{Time: m.Time})
	return m.matchesPercept(p, err)
}

// complexity scores the matcher: 1, +1 off the start time, +2 for a
// negation.
func (m *AttrMatcher) complexity() int {
	c := 1
	if m.Time != "" && m.Time != percept.TimeStart {
		c++
	}
	if !m.Active {
		c += 2
	}
	return c
}

func (m *AttrMatcher) String() string {
	neg := ""
	if !m.Active {
		neg = "!"
	}
	return fmt.Sprintf("[%s%s]", neg, m.Label)
}

// RelMatcher matches a relation percept against partner objects
// identified by a nested, relation-free selector.
type RelMatcher struct {
	Key       string
	Label     string
	Active    bool
	Time      string
	Constant  bool
	Symmetric bool
	Other     *Selector
}

// pairHolds reports whether a direct percept from node to o for the
// key at the matcher's time exists with the requested label and
// polarity.
func (m *RelMatcher) pairHolds(node, o *percept.ObjectNode) bool {
	r, err := node.Relation(m.Key, o, percept.Opts{Time: m.Time})
	if err != nil || r == nil {
		return false
	}
	return r.Label() == m.Label && (r.Activity() >= threshold()) == m.Active
}

// match resolves the partner quantification:
//
//   - negation (Active=false): every candidate must match, i.e. no
//     object stands in this relation;
//   - unique partner selector: exactly one candidate matches;
//   - otherwise: at least one candidate matches.
func (m *RelMatcher) match(node *percept.ObjectNode, others []*percept.ObjectNode) bool {
	if others == nil {
		others = sceneOthers(node)
	}
	matching := 0
	for _, o := range others {
		if m.Other.MatchesObject(o, nil, func(cand *percept.ObjectNode) bool {
			return m.pairHolds(node, cand)
		}) {
			matching++
		}
	}
	if !m.Active {
		return matching == len(others)
	}
	if m.Other.Unique {
		return matching == 1
	}
	return matching >= 1
}

// complexity scores the matcher like an attribute matcher plus the
// nested selector's complexity.
func (m *RelMatcher) complexity() int {
	c := 1
	if m.Time != "" && m.Time != percept.TimeStart {
		c++
	}
	if !m.Active {
		c += 2
	}
	return c + m.Other.Complexity()
}

func (m *RelMatcher) equals(o *RelMatcher) bool {
	return m.Key == o.Key && m.Label == o.Label && m.Active == o.Active &&
		m.Time == o.Time && m.Other.Equals(o.Other)
}

func (m *RelMatcher) String() string {
	neg := ""
	if !m.Active {
		neg = "!"
	}
	return fmt.Sprintf("[%s%s -> %s]", neg, m.Label, m.Other)
}
