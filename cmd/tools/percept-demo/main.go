// Command percept-demo builds a synthetic physics problem on the
// scripted oracle, perceives it, evaluates a few candidate selectors
// and prints the resulting solution statistics. Optionally records the
// run in a results database and writes debug charts.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/banshee-data/scene.solver/internal/config"
	"github.com/banshee-data/scene.solver/internal/geom"
	"github.com/banshee-data/scene.solver/internal/percept"
	"github.com/banshee-data/scene.solver/internal/results"
	"github.com/banshee-data/scene.solver/internal/selector"
	"github.com/banshee-data/scene.solver/internal/sim"
	"github.com/banshee-data/scene.solver/internal/viz"
)

func main() {
	settingsPath := flag.String("settings", "", "JSON settings file (optional)")
	dbPath := flag.String("db", "", "record the run in this results database (optional)")
	chartPath := flag.String("chart", "", "write a candidate match chart to this HTML file (optional)")
	flag.Parse()

	if *settingsPath != "" {
		s, err := config.Load(*settingsPath)
		if err != nil {
			log.Fatalf("load settings: %v", err)
		}
		config.Current = s
	}

	pairs := buildProblem(config.Current.ScenePairCount)
	for _, p := range pairs[:1] {
		if err := p.left.PerceiveAll(); err != nil {
			log.Fatalf("perceive: %v", err)
		}
		fmt.Println(p.left.Describe())
	}

	candidates := buildCandidates()
	sols := make([]*selector.Solution, 0, len(candidates))
	var winner *selector.Solution
	for _, sel := range candidates {
		sol := selector.NewSolution(sel, selector.ModeExists)
		for i, p := range pairs {
			sol.CheckScenePair(p.left, p.right, fmt.Sprintf("pair%d", i))
		}
		sols = append(sols, sol)
		log.Printf("candidate %v: L %d/%d R %d/%d side=%v solution=%v",
			sel, sol.LMatches, sol.LChecks, sol.RMatches, sol.RChecks,
			sol.MainSide, sol.IsSolution())
		if sol.IsSolution() && winner == nil {
			winner = sol
		}
	}

	if winner == nil {
		log.Printf("no candidate solves the problem")
	} else {
		log.Printf("✓ Solution: %v", winner)
	}

	if *dbPath != "" && winner != nil {
		recordRun(*dbPath, winner)
	}
	if *chartPath != "" {
		writeChart(*chartPath, sols)
	}
}

// pair is one left/right example scene pair.
type pair struct {
	left, right *percept.SceneNode
}

// buildProblem creates n example pairs of the demo problem: every left
// scene has a small circle left of a rectangle, every right scene has
// it on the other side. Positions vary a little per pair.
func buildProblem(n int) []pair {
	pairs := make([]pair, 0, n)
	for i := 0; i < n; i++ {
		dy := float64(i * 3)
		pairs = append(pairs, pair{
			left:  buildScene(fmt.Sprintf("L%d", i), 15, 60, 40+dy),
			right: buildScene(fmt.Sprintf("R%d", i), 85, 35, 40+dy),
		})
	}
	return pairs
}

// buildScene wires one demo scene: a small circle at circleX, a
// rectangle at rectX, both at height y, on a scripted oracle.
func buildScene(id string, circleX, rectX, y float64) *percept.SceneNode {
	oracle := sim.NewMockOracle()
	scene := &percept.Scene{ID: id}

	add := func(s geom.Shape) {
		var b *sim.MockBody
		switch s.ID() {
		case geom.GroundID:
			b = sim.NewStaticMockBody(s)
			oracle.SetGround(b)
		case geom.FrameID:
			b = sim.NewStaticMockBody(s)
			oracle.SetFrame(b)
		default:
			b = sim.NewMockBody(s, 1)
			oracle.AddBody(b)
		}
		scene.Elements = append(scene.Elements, percept.Element{Shape: s, Body: b})
	}

	add(&geom.Polygon{
		Id:     geom.GroundID,
		Pos:    geom.Vec{X: 50, Y: 95},
		Pts:    []geom.Vec{{X: -50, Y: -5}, {X: 50, Y: -5}, {X: 50, Y: 5}, {X: -50, Y: 5}},
		Closed: true,
	})
	add(&geom.Polygon{
		Id:     geom.FrameID,
		Pos:    geom.Vec{X: 50, Y: 50},
		Pts:    []geom.Vec{{X: -50, Y: -50}, {X: 50, Y: -50}, {X: 50, Y: 50}, {X: -50, Y: 50}},
		Closed: true,
	})
	add(&geom.Circle{Id: "c", Pos: geom.Vec{X: circleX, Y: y}, R: 3, Mov: true})
	add(&geom.Polygon{
		Id:     "r",
		Pos:    geom.Vec{X: rectX, Y: y},
		Pts:    []geom.Vec{{X: -10, Y: -5}, {X: 10, Y: -5}, {X: 10, Y: 5}, {X: -10, Y: 5}},
		Closed: true,
		Mov:    true,
	})

	oracle.SaveState(percept.TimeStart)
	return percept.NewSceneNode(scene, oracle)
}

// buildCandidates returns the selectors the demo tries, simple first.
func buildCandidates() []*selector.Selector {
	small := selector.New()
	must(small.AddAttr(percept.KeySmall, "small", true, ""))

	rectPartner := selector.New()
	must(rectPartner.AddAttr(percept.KeyShape, "rectangle", true, ""))

	smallLeft := selector.New()
	must(smallLeft.AddAttr(percept.KeySmall, "small", true, ""))
	must(smallLeft.AddRel(percept.KeyLeftOf, "left-of", true, "", rectPartner))

	untouched := selector.New()
	must(untouched.AddRel(percept.KeyTouch, "touches", false, "", nil))

	return []*selector.Selector{small, smallLeft, untouched}
}

func recordRun(path string, sol *selector.Solution) {
	db, err := results.Open(path)
	if err != nil {
		log.Fatalf("open results db: %v", err)
	}
	defer db.Close()

	store := results.NewRunStore(db)
	run := &results.Run{
		ProblemID:      "percept-demo",
		ScenePairCount: sol.ScenePairCount,
	}
	if err := store.InsertRun(run); err != nil {
		log.Fatalf("insert run: %v", err)
	}
	if err := store.FinishRun(run.RunID, sol); err != nil {
		log.Fatalf("finish run: %v", err)
	}
	log.Printf("✓ Recorded run %s in %s", run.RunID, path)
}

func writeChart(path string, sols []*selector.Solution) {
	f, err := os.Create(path)
	if err != nil {
		log.Fatalf("create chart: %v", err)
	}
	defer f.Close()

	if err := viz.WriteMatchChart(f, "percept-demo candidates", sols); err != nil {
		log.Fatalf("render chart: %v", err)
	}
	log.Printf("✓ Wrote chart: %s", path)
}

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
