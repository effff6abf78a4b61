package percept

import (
	"github.com/banshee-data/scene.solver/internal/geom"
	"github.com/banshee-data/scene.solver/internal/sim"
)

// Named simulator states every scene carries.
const (
	// TimeStart is the initial state of a scene.
	TimeStart = "start"
	// TimeEnd is the settled state after observing the scene unfold.
	TimeEnd = "end"
)

// Element binds one shape to its physics body. PhysScale maps physics
// units to scene units; zero means 1:1.
type Element struct {
	Shape     geom.Shape
	Body      sim.Body
	PhysScale float64
}

// Scene is the raw input to perception: the shapes of one example
// scene together with their simulator bodies. Ground and frame are
// identified by their reserved shape ids.
type Scene struct {
	ID       string
	Elements []Element

	// FitsSolution is set by solution checking and records whether the
	// most recently applied solution selector matched this scene.
	FitsSolution bool
}
