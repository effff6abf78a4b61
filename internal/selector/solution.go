package selector

import (
	"fmt"

	"github.com/banshee-data/scene.solver/internal/config"
	"github.com/banshee-data/scene.solver/internal/percept"
)

// Mode is the post-selection cardinality test a solution applies per
// scene.
type Mode int

const (
	// ModeExists requires at least one surviving object.
	ModeExists Mode = iota
	// ModeUnique requires exactly one surviving object.
	ModeUnique
	// ModeAll requires every original object to survive.
	ModeAll
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeUnique:
		return "unique"
	case ModeAll:
		return "all"
	default:
		return "exists"
	}
}

// Side says on which side of the example pairs a selector fires.
type Side int

const (
	// SideBoth means the selector has matched every scene so far.
	SideBoth Side = iota
	// SideLeft means it fires on left scenes only.
	SideLeft
	// SideRight means it fires on right scenes only.
	SideRight
	// SideFail means the match pattern fits neither side.
	SideFail
)

// String returns the side name.
func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	case SideFail:
		return "fail"
	default:
		return "both"
	}
}

// Solution pairs a selector with a side assignment and a cardinality
// mode, tracking match statistics across example scene pairs.
type Solution struct {
	Sel      *Selector
	Mode     Mode
	MainSide Side

	// ScenePairCount is how many pairs a full problem presents.
	ScenePairCount int

	LChecks, RChecks   int
	LMatches, RMatches int
	MatchedAgainst     []string
}

// NewSolution wraps a selector. The side starts out undecided (both).
func NewSolution(sel *Selector, mode Mode) *Solution {
	return &Solution{
		Sel:            sel,
		Mode:           mode,
		MainSide:       SideBoth,
		ScenePairCount: config.Current.ScenePairCount,
	}
}

// CheckScene applies the selector to the full-scene group and
// validates the cardinality mode. It returns the surviving object
// count and whether the scene matched, and records the outcome on the
// scene.
func (s *Solution) CheckScene(sn *percept.SceneNode) (int, bool) {
	group := percept.SceneGroup(sn, nil)
	res := s.Sel.Select(group, sn, nil)

	n := res.Size()
	var ok bool
	switch s.Mode {
	case ModeUnique:
		ok = n == 1
	case ModeAll:
		ok = n == group.Size()
	default:
		ok = n >= 1
	}
	sn.Scene.FitsSolution = ok
	if !ok {
		return 0, false
	}
	return n, true
}

// CheckScenePair applies the selector to both sides of one example
// pair, accumulates the counters and reclassifies the main side.
func (s *Solution) CheckScenePair(left, right *percept.SceneNode, pairID string) {
	s.LChecks++
	if _, ok := s.CheckScene(left); ok {
		s.LMatches++
	}
	s.RChecks++
	if _, ok := s.CheckScene(right); ok {
		s.RMatches++
	}
	s.MatchedAgainst = append(s.MatchedAgainst, pairID)

	switch {
	case s.LMatches == 0 && s.RMatches == s.RChecks:
		s.MainSide = SideRight
	case s.RMatches == 0 && s.LMatches == s.LChecks:
		s.MainSide = SideLeft
	case s.LMatches == s.LChecks && s.RMatches == s.RChecks:
		s.MainSide = SideBoth
	default:
		s.MainSide = SideFail
	}
}

// IsSolution reports whether one side has matched every scene of the
// problem and the other side none.
func (s *Solution) IsSolution() bool {
	return (s.LMatches == s.ScenePairCount && s.RMatches == 0) ||
		(s.RMatches == s.ScenePairCount && s.LMatches == 0)
}

// CompatibleWith screens a candidate merge partner: merging two
// solutions that fire on opposite sides, or with one that already
// failed, cannot produce a solution.
func (s *Solution) CompatibleWith(o *Solution) bool {
	if s.MainSide == SideFail || o.MainSide == SideFail {
		return false
	}
	if (s.MainSide == SideLeft && o.MainSide == SideRight) ||
		(s.MainSide == SideRight && o.MainSide == SideLeft) {
		return false
	}
	return true
}

// String renders the solution, e.g. "exists [small] on left".
func (s *Solution) String() string {
	return fmt.Sprintf("%s %s on %s", s.Mode, s.Sel, s.MainSide)
}
