// pkg/entity/entity.go
package entity

import (
	"github.com/EngoEngine/ecs"

	"github.com/opd-ai/go-breakout/pkg/physics"
)

// ID is a unique identifier for an entity
type ID uint64

// Class groups items for collidability decisions
type Class int

const (
	ClassBall Class = iota
	ClassBlock
	ClassPlatform
	ClassWall
)

func (c Class) String() string {
	switch c {
	case ClassBall:
		return "ball"
	case ClassBlock:
		return "block"
	case ClassPlatform:
		return "platform"
	case ClassWall:
		return "wall"
	default:
		return "unknown"
	}
}

// Item is the base interface for all arena objects
type Item interface {
	GetID() ID
	Class() Class
	GetPosition() physics.Vector2D
	Footprint() physics.Rect
}

// BaseEntity contains common functionality for all entities. Identity comes
// from the embedded ecs.BasicEntity and survives copies of the struct.
type BaseEntity struct {
	ecs.BasicEntity
	Position physics.Vector2D
}

func newBase(position physics.Vector2D) BaseEntity {
	return BaseEntity{BasicEntity: ecs.NewBasic(), Position: position}
}

// GetID returns the entity's unique identifier
func (e *BaseEntity) GetID() ID {
	return ID(e.BasicEntity.ID())
}

// GetPosition returns the entity's center
func (e *BaseEntity) GetPosition() physics.Vector2D {
	return e.Position
}

// Box is the axis-aligned extent shared by rectangular items
type Box struct {
	Width  float64
	Height float64
}

func (b Box) rectAt(center physics.Vector2D) physics.Rect {
	return physics.Rect{Center: center, Width: b.Width, Height: b.Height}
}
