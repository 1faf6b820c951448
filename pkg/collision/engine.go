package collision

import (
	"github.com/opd-ai/go-breakout/pkg/entity"
	"github.com/opd-ai/go-breakout/pkg/ghost"
	"github.com/opd-ai/go-breakout/pkg/physics"
	"github.com/opd-ai/go-breakout/pkg/spatial"
	"github.com/opd-ai/go-breakout/pkg/world"
)

// Engine enumerates every collision present when each item's ghost trace
// covers dt.
type Engine interface {
	GenerateStepCollisions(state *world.GameState, dt float64) []Collision
}

// DefaultClassPairs is the set of class pairs that have a collision kind
func DefaultClassPairs() spatial.ClassPairs {
	return spatial.NewClassPairs(
		spatial.ClassPair{A: entity.ClassBall, B: entity.ClassWall},
		spatial.ClassPair{A: entity.ClassBall, B: entity.ClassPlatform},
		spatial.ClassPair{A: entity.ClassBall, B: entity.ClassBlock},
		spatial.ClassPair{A: entity.ClassPlatform, B: entity.ClassWall},
		spatial.ClassPair{A: entity.ClassBall, B: entity.ClassBall},
	)
}

// IndexEngine feeds ghost-trace records to a spatial index and converts the
// reported pairs into typed collisions.
type IndexEngine struct {
	index   spatial.Index
	classes spatial.ClassPairs
}

// NewEngine creates an engine over any spatial index
func NewEngine(index spatial.Index, classes spatial.ClassPairs) *IndexEngine {
	if classes == nil {
		classes = DefaultClassPairs()
	}
	return &IndexEngine{index: index, classes: classes}
}

// NewNaiveEngine creates the brute-force reference engine
func NewNaiveEngine(classes spatial.ClassPairs) *IndexEngine {
	return NewEngine(spatial.Naive{}, classes)
}

// NewTreeEngine creates the space-partition tree engine
func NewTreeEngine(cfg spatial.TreeConfig, classes spatial.ClassPairs) *IndexEngine {
	return NewEngine(spatial.NewTree(cfg), classes)
}

// GenerateStepCollisions implements Engine. Ball/platform contacts against a
// platform still in its post-hit freeze are suppressed, and pairs where both
// items move are kept only if they actually meet within dt.
func (e *IndexEngine) GenerateStepCollisions(state *world.GameState, dt float64) []Collision {
	items := make(map[entity.ID]entity.Item, state.Len())
	records := make([]spatial.Record, 0, 4*state.Len())
	state.Each(func(item entity.Item) {
		items[item.GetID()] = item
		records = append(records, spatial.NewRecords(item, ghost.Trace(item, dt))...)
	})

	pairs := e.index.Pairs(records, e.classes)
	collisions := make([]Collision, 0, len(pairs))
	for _, p := range pairs {
		c := newCollision(items[p.A], items[p.B], p.Contact)
		if bp, ok := c.(*BallPlatform); ok && bp.Platform.Frozen() {
			continue
		}
		if !meets(items[p.A], items[p.B], dt) {
			continue
		}
		collisions = append(collisions, c)
	}
	return collisions
}

// meets confirms a trace overlap between two items. Traces are swept
// independently, so two moving items overlap wherever their paths cross even
// if they pass the crossing at different times. Seen from one item the other
// sweeps along the relative displacement, which is exact for linear motion.
// Pairs with a still item are already exact.
func meets(a, b entity.Item, dt float64) bool {
	da, db := ghost.Displacement(a, dt), ghost.Displacement(b, dt)
	if da.IsZero() || db.IsZero() {
		return true
	}

	ball, ok := a.(*entity.Ball)
	other, rel := b, da.Sub(db)
	if !ok {
		if ball, ok = b.(*entity.Ball); !ok {
			return true
		}
		other, rel = a, db.Sub(da)
	}

	var still []physics.Shape
	if o, isBall := other.(*entity.Ball); isBall {
		still = []physics.Shape{o.Collider()}
	} else {
		still = ghost.Static(other.Footprint())
	}

	for _, m := range ghost.Disc(ball.Collider(), rel) {
		for _, s := range still {
			if _, hit := physics.Intersect(m, s); hit {
				return true
			}
		}
	}
	return false
}
