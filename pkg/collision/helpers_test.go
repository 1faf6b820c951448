package collision

import (
	"math"

	"github.com/opd-ai/go-breakout/pkg/entity"
	"github.com/opd-ai/go-breakout/pkg/event"
	"github.com/opd-ai/go-breakout/pkg/physics"
	"github.com/opd-ai/go-breakout/pkg/spatial"
	"github.com/opd-ai/go-breakout/pkg/world"
)

func vec(x, y float64) physics.Vector2D {
	return physics.Vector2D{X: x, Y: y}
}

func near(a, b physics.Vector2D, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol
}

func emptyState() *world.GameState {
	return world.NewGameState(physics.Rect{Center: vec(200, 150), Width: 400, Height: 300})
}

func thrownBall(pos, dir physics.Vector2D, radius, speed float64) *entity.Ball {
	b := entity.NewBall(pos, radius, speed)
	b.Throw(dir)
	return b
}

func testEngines() map[string]Engine {
	return map[string]Engine{
		"naive": NewNaiveEngine(nil),
		"tree":  NewTreeEngine(spatial.DefaultTreeConfig(), nil),
	}
}

func newTestDetector(engine Engine) *BisectionDetector {
	return NewDetector(engine, DefaultDetectorConfig(), nil)
}

// eventLog records every event type published on a bus
type eventLog struct {
	types []event.Type
}

func newEventLog(bus *event.Bus) *eventLog {
	log := &eventLog{}
	all := append([]event.Type{event.BlockDestroyed}, event.CollisionTypes...)
	bus.SubscribeMany(all, func(e event.Event) {
		log.types = append(log.types, e.GetType())
	})
	return log
}

func (l *eventLog) count(t event.Type) int {
	n := 0
	for _, got := range l.types {
		if got == t {
			n++
		}
	}
	return n
}
