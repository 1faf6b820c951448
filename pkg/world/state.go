// Package world holds GameState, the sole simulation state the collision
// core reads and mutates.
package world

import (
	"github.com/opd-ai/go-breakout/pkg/entity"
	"github.com/opd-ai/go-breakout/pkg/physics"
)

// GameState owns the flat item lists of one arena. It is built by a level
// builder and replaced wholesale on reset.
type GameState struct {
	Bounds    physics.Rect
	Balls     []*entity.Ball
	Blocks    []*entity.Block
	Platforms []*entity.Platform
	Walls     []*entity.Wall
}

// NewGameState creates an empty state covering bounds
func NewGameState(bounds physics.Rect) *GameState {
	return &GameState{Bounds: bounds}
}

// Clone returns a deep copy for speculative stepping. Item ids are kept.
func (s *GameState) Clone() *GameState {
	c := &GameState{
		Bounds:    s.Bounds,
		Balls:     make([]*entity.Ball, len(s.Balls)),
		Blocks:    make([]*entity.Block, len(s.Blocks)),
		Platforms: make([]*entity.Platform, len(s.Platforms)),
		Walls:     make([]*entity.Wall, len(s.Walls)),
	}
	for i, b := range s.Balls {
		c.Balls[i] = b.Clone()
	}
	for i, b := range s.Blocks {
		c.Blocks[i] = b.Clone()
	}
	for i, p := range s.Platforms {
		c.Platforms[i] = p.Clone()
	}
	for i, w := range s.Walls {
		c.Walls[i] = w.Clone()
	}
	return c
}

// Items returns every item, balls first, then blocks, platforms and walls
func (s *GameState) Items() []entity.Item {
	items := make([]entity.Item, 0, s.Len())
	s.Each(func(item entity.Item) {
		items = append(items, item)
	})
	return items
}

// Each calls fn for every item in the same order as Items
func (s *GameState) Each(fn func(entity.Item)) {
	for _, b := range s.Balls {
		fn(b)
	}
	for _, b := range s.Blocks {
		fn(b)
	}
	for _, p := range s.Platforms {
		fn(p)
	}
	for _, w := range s.Walls {
		fn(w)
	}
}

// Len returns the total item count
func (s *GameState) Len() int {
	return len(s.Balls) + len(s.Blocks) + len(s.Platforms) + len(s.Walls)
}

// Lookup finds an item by id
func (s *GameState) Lookup(id entity.ID) (entity.Item, bool) {
	var found entity.Item
	s.Each(func(item entity.Item) {
		if found == nil && item.GetID() == id {
			found = item
		}
	})
	return found, found != nil
}

// Platform finds a platform by id
func (s *GameState) Platform(id entity.ID) *entity.Platform {
	for _, p := range s.Platforms {
		if p.GetID() == id {
			return p
		}
	}
	return nil
}

// RemoveBlock deletes the block with id and reports whether it was present
func (s *GameState) RemoveBlock(id entity.ID) bool {
	for i, b := range s.Blocks {
		if b.GetID() == id {
			s.Blocks = append(s.Blocks[:i], s.Blocks[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveBall deletes the ball with id and reports whether it was present
func (s *GameState) RemoveBall(id entity.ID) bool {
	for i, b := range s.Balls {
		if b.GetID() == id {
			s.Balls = append(s.Balls[:i], s.Balls[i+1:]...)
			return true
		}
	}
	return false
}

// Advance moves every item linearly by dt. Held balls follow the horizontal
// travel of their carrier platform.
func (s *GameState) Advance(dt float64) {
	if dt <= 0 {
		return
	}
	shift := make(map[entity.ID]physics.Vector2D, len(s.Platforms))
	for _, p := range s.Platforms {
		before := p.Position
		p.Advance(dt)
		shift[p.GetID()] = p.Position.Sub(before)
	}
	for _, b := range s.Balls {
		if b.Thrown {
			b.Advance(dt)
			continue
		}
		if d, ok := shift[b.Carrier]; ok {
			b.Position = b.Position.Add(d)
		}
	}
}
