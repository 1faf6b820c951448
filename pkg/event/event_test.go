package event

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/opd-ai/go-breakout/pkg/entity"
	"github.com/opd-ai/go-breakout/pkg/physics"
)

func TestBus_PublishReachesOnlyMatchingType(t *testing.T) {
	bus := NewEventBus()

	var blocks, walls int
	bus.Subscribe(BallBlock, func(Event) { blocks++ })
	bus.Subscribe(BallBlock, func(Event) { blocks++ })
	bus.Subscribe(BallWall, func(Event) { walls++ })

	bus.Publish(NewCollisionEvent(BallBlock, nil, 1, 2, physics.Vector2D{}))

	if blocks != 2 {
		t.Errorf("ball_block handlers called %d times, want 2", blocks)
	}
	if walls != 0 {
		t.Errorf("ball_wall handler called %d times, want 0", walls)
	}
}

func TestBus_PublishWithoutSubscribers(t *testing.T) {
	NewEventBus().Publish(NewItemEvent(BallLost, nil, 7))
}

func TestSubscription_Cancel(t *testing.T) {
	bus := NewEventBus()

	var first, second int
	sub := bus.Subscribe(BlockDestroyed, func(Event) { first++ })
	bus.Subscribe(BlockDestroyed, func(Event) { second++ })

	if sub.Type != BlockDestroyed || sub.ID == 0 {
		t.Errorf("unexpected subscription %+v", sub)
	}

	sub.Cancel()
	sub.Cancel()
	bus.Publish(NewItemEvent(BlockDestroyed, nil, 3))

	if first != 0 || second != 1 {
		t.Errorf("calls = (%d, %d), want (0, 1)", first, second)
	}
}

func TestSubscribe_UniqueIDs(t *testing.T) {
	bus := NewEventBus()
	seen := make(map[uint64]bool)
	types := append([]Type{BallLost, BallThrown}, CollisionTypes...)
	for _, typ := range types {
		sub := bus.Subscribe(typ, func(Event) {})
		if seen[sub.ID] {
			t.Fatalf("duplicate subscription id %d", sub.ID)
		}
		seen[sub.ID] = true
	}
}

func TestSubscribeMany_CollisionTypes(t *testing.T) {
	bus := NewEventBus()

	got := make(map[Type]int)
	subs := bus.SubscribeMany(CollisionTypes, func(e Event) { got[e.GetType()]++ })
	if len(subs) != len(CollisionTypes) {
		t.Fatalf("got %d subscriptions, want %d", len(subs), len(CollisionTypes))
	}

	for _, typ := range CollisionTypes {
		bus.Publish(NewCollisionEvent(typ, nil, 1, 2, physics.Vector2D{}))
	}
	for _, typ := range CollisionTypes {
		if got[typ] != 1 {
			t.Errorf("%s delivered %d times, want 1", typ, got[typ])
		}
	}

	for _, s := range subs {
		s.Cancel()
	}
	bus.Publish(NewCollisionEvent(BallBall, nil, 1, 2, physics.Vector2D{}))
	if got[BallBall] != 1 {
		t.Error("handler still called after cancel")
	}
}

func TestEventConstructors(t *testing.T) {
	tests := []struct {
		name   string
		event  Event
		typ    Type
		source interface{}
	}{
		{
			name:   "collision",
			event:  NewCollisionEvent(BallPlatform, "resolver", 4, 9, physics.Vector2D{X: 1, Y: 2}),
			typ:    BallPlatform,
			source: "resolver",
		},
		{
			name:   "item",
			event:  NewItemEvent(BallThrown, "game", 11),
			typ:    BallThrown,
			source: "game",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.event.GetType() != tt.typ {
				t.Errorf("type = %s, want %s", tt.event.GetType(), tt.typ)
			}
			if tt.event.GetSource() != tt.source {
				t.Errorf("source = %v, want %v", tt.event.GetSource(), tt.source)
			}
		})
	}

	ce := NewCollisionEvent(BallPlatform, nil, 4, 9, physics.Vector2D{X: 1, Y: 2})
	if ce.EntityA != entity.ID(4) || ce.EntityB != entity.ID(9) || ce.Contact != (physics.Vector2D{X: 1, Y: 2}) {
		t.Errorf("unexpected collision event %+v", ce)
	}
	if ie := NewItemEvent(BallThrown, nil, 11); ie.ItemID != 11 {
		t.Errorf("item id = %d, want 11", ie.ItemID)
	}
}

func TestBus_ConcurrentSubscribePublish(t *testing.T) {
	bus := NewEventBus()
	var delivered atomic.Int64

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				sub := bus.Subscribe(BallBall, func(Event) { delivered.Add(1) })
				if j%2 == 0 {
					sub.Cancel()
				}
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				bus.Publish(NewCollisionEvent(BallBall, nil, 1, 2, physics.Vector2D{}))
			}
		}()
	}
	wg.Wait()

	before := delivered.Load()
	bus.Publish(NewCollisionEvent(BallBall, nil, 1, 2, physics.Vector2D{}))
	if got := delivered.Load() - before; got != 8*25 {
		t.Errorf("final publish reached %d handlers, want %d", got, 8*25)
	}
}
