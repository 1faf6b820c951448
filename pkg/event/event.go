// pkg/event/event.go
package event

import (
	"sync"

	"github.com/opd-ai/go-breakout/pkg/entity"
	"github.com/opd-ai/go-breakout/pkg/physics"
)

// Type represents the type of event
type Type string

// Collision event types, one per collision kind
const (
	BallWall     Type = "ball_wall"
	BallPlatform Type = "ball_platform"
	BallBlock    Type = "ball_block"
	PlatformWall Type = "platform_wall"
	BallBall     Type = "ball_ball"
)

// Arena lifecycle event types
const (
	BlockDestroyed Type = "block_destroyed"
	BallLost       Type = "ball_lost"
	BallThrown     Type = "ball_thrown"
	ArenaReset     Type = "arena_reset"
	LevelCleared   Type = "level_cleared"
	GameOver       Type = "game_over"
)

// CollisionTypes lists every collision event type
var CollisionTypes = []Type{BallWall, BallPlatform, BallBlock, PlatformWall, BallBall}

// Event is the base interface for all events
type Event interface {
	GetType() Type
	GetSource() interface{}
}

// BaseEvent provides common functionality for all events
type BaseEvent struct {
	EventType Type
	Source    interface{}
}

// GetType returns the event type
func (e *BaseEvent) GetType() Type {
	return e.EventType
}

// GetSource returns the event source
func (e *BaseEvent) GetSource() interface{} {
	return e.Source
}

// Handler is a function that handles events
type Handler func(Event)

// Subscription identifies a registered handler. Cancel removes it.
type Subscription struct {
	ID     uint64
	Type   Type
	Cancel func()
}

type registration struct {
	id      uint64
	handler Handler
}

// Bus manages event subscriptions and dispatching. Handlers run
// synchronously on the publishing goroutine.
type Bus struct {
	handlers map[Type][]registration
	nextID   uint64
	mu       sync.RWMutex
}

// NewEventBus creates a new event bus
func NewEventBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]registration),
		nextID:   1,
	}
}

// Subscribe registers a handler for a specific event type
func (b *Bus) Subscribe(eventType Type, handler Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.handlers[eventType] = append(b.handlers[eventType], registration{id: id, handler: handler})

	return &Subscription{
		ID:     id,
		Type:   eventType,
		Cancel: func() { b.unsubscribe(eventType, id) },
	}
}

// SubscribeMany registers one handler for several event types
func (b *Bus) SubscribeMany(types []Type, handler Handler) []*Subscription {
	subs := make([]*Subscription, 0, len(types))
	for _, t := range types {
		subs = append(subs, b.Subscribe(t, handler))
	}
	return subs
}

func (b *Bus) unsubscribe(eventType Type, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	regs := b.handlers[eventType]
	for i, r := range regs {
		if r.id == id {
			b.handlers[eventType] = append(regs[:i:i], regs[i+1:]...)
			return
		}
	}
}

// Publish sends an event to all subscribed handlers
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	regs := b.handlers[event.GetType()]
	b.mu.RUnlock()

	for _, r := range regs {
		r.handler(event)
	}
}

// CollisionEvent contains information about a resolved collision
type CollisionEvent struct {
	BaseEvent
	EntityA entity.ID
	EntityB entity.ID
	Contact physics.Vector2D
}

// NewCollisionEvent creates a new collision event
func NewCollisionEvent(eventType Type, source interface{}, entityA, entityB entity.ID, contact physics.Vector2D) *CollisionEvent {
	return &CollisionEvent{
		BaseEvent: BaseEvent{
			EventType: eventType,
			Source:    source,
		},
		EntityA: entityA,
		EntityB: entityB,
		Contact: contact,
	}
}

// ItemEvent reports something that happened to a single item
type ItemEvent struct {
	BaseEvent
	ItemID entity.ID
}

// NewItemEvent creates a new item event
func NewItemEvent(eventType Type, source interface{}, itemID entity.ID) *ItemEvent {
	return &ItemEvent{
		BaseEvent: BaseEvent{
			EventType: eventType,
			Source:    source,
		},
		ItemID: itemID,
	}
}
