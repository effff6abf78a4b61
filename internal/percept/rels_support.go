package percept

import (
	"fmt"

	"github.com/banshee-data/scene.solver/internal/config"
)

// Support levels, strongest first.
const (
	supportDirectly   = "directly"
	supportIndirectly = "indirectly"
	supportStabilizes = "stabilizes"
	supportNot        = "not"
)

// supportActivity maps a support level to its activity.
func supportActivity(val string) (float64, error) {
	switch val {
	case supportDirectly:
		return 1.0, nil
	case supportIndirectly:
		return 0.7, nil
	case supportStabilizes:
		return 0.4, nil
	case supportNot:
		return 0.0, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSupportValue, val)
}

// withoutBody runs the measure inside a zero-time sandbox in which the
// node's body has been deactivated.
func withoutBody(n *ObjectNode, measure func() any) any {
	o := n.Scene.Oracle
	return o.AnalyzeFuture(0, func() {
		n.Body.SetActive(false)
		o.WakeUp()
	}, measure)
}

// measureSupport determines how a supports b. The probe deactivates a
// inside a sandbox and watches whether b starts to move; if not, it
// checks whether a at least stabilizes b.
func measureSupport(a, b *ObjectNode, time string) (string, error) {
	if a == b {
		return supportNot, nil
	}
	threshold := config.Current.ActivationThreshold

	// B already moves on its own: nothing to attribute to A.
	if movesMeasure(b) > threshold {
		return supportNot, nil
	}

	// Does B depend on A being there?
	depends := withoutBody(a, func() any {
		return movesMeasure(b) >= threshold
	}).(bool)
	if depends {
		touch, err := newTouchRel(a, b, time)
		if err != nil {
			return "", err
		}
		if touch.Activity() >= threshold {
			return supportDirectly, nil
		}
		return supportIndirectly, nil
	}

	// B stands on its own; A may still stabilize it.
	onTop, err := newOnTopOfRel(b, a, time)
	if err != nil {
		return "", err
	}
	if onTop.Activity() >= threshold {
		return supportStabilizes, nil
	}

	prox, err := newCloseRel(a, b, time)
	if err != nil {
		return "", err
	}
	if prox.Activity() >= threshold {
		was := stabilityLabel(measureStability(b))
		if was == stabilityStable {
			now := withoutBody(a, func() any {
				return stabilityLabel(measureStability(b))
			}).(string)
			if now != was {
				return supportStabilizes, nil
			}
		}
	}
	return supportNot, nil
}

func newSupportsRel(n, other *ObjectNode, time string) (Relation, error) {
	val, err := measureSupport(n, other, time)
	if err != nil {
		return nil, err
	}
	act, err := supportActivity(val)
	if err != nil {
		return nil, err
	}
	return &relation{
		attribute: attribute{key: KeySupports, label: "supports", activity: act},
		other:     other,
	}, nil
}
