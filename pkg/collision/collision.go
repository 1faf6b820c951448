// Package collision finds and resolves collisions in a GameState: engines
// enumerate collisions over a time delta, the detector searches for the time
// of impact, and the resolver applies the response for each kind.
package collision

import (
	"fmt"

	"github.com/opd-ai/go-breakout/pkg/entity"
	"github.com/opd-ai/go-breakout/pkg/event"
	"github.com/opd-ai/go-breakout/pkg/physics"
)

// Kind enumerates collision kinds
type Kind int

const (
	KindBallWall Kind = iota
	KindBallPlatform
	KindBallBlock
	KindPlatformWall
	KindBallBall
)

func (k Kind) String() string {
	return string(k.EventType())
}

// EventType maps the kind to the event published when it resolves
func (k Kind) EventType() event.Type {
	switch k {
	case KindBallWall:
		return event.BallWall
	case KindBallPlatform:
		return event.BallPlatform
	case KindBallBlock:
		return event.BallBlock
	case KindPlatformWall:
		return event.PlatformWall
	case KindBallBall:
		return event.BallBall
	default:
		return event.Type(fmt.Sprintf("kind(%d)", int(k)))
	}
}

// Collision is a closed variant: only the types in this file implement it,
// and every consumer handles them through Visitor.
type Collision interface {
	Kind() Kind
	Contact() physics.Vector2D
	Items() (entity.ID, entity.ID)
	Accept(v Visitor)
	sealed()
}

// Visitor has one method per collision kind. Adding a kind adds a method
// here, so every implementation must handle it before the code compiles.
type Visitor interface {
	VisitBallWall(c *BallWall)
	VisitBallPlatform(c *BallPlatform)
	VisitBallBlock(c *BallBlock)
	VisitPlatformWall(c *PlatformWall)
	VisitBallBall(c *BallBall)
}

// BallWall is a ball striking static geometry
type BallWall struct {
	Ball  *entity.Ball
	Wall  *entity.Wall
	Point physics.Vector2D
}

func (c *BallWall) Kind() Kind                    { return KindBallWall }
func (c *BallWall) Contact() physics.Vector2D     { return c.Point }
func (c *BallWall) Items() (entity.ID, entity.ID) { return c.Ball.GetID(), c.Wall.GetID() }
func (c *BallWall) Accept(v Visitor)              { v.VisitBallWall(c) }
func (c *BallWall) sealed()                       {}

// BallPlatform is a ball striking the paddle
type BallPlatform struct {
	Ball     *entity.Ball
	Platform *entity.Platform
	Point    physics.Vector2D
}

func (c *BallPlatform) Kind() Kind                    { return KindBallPlatform }
func (c *BallPlatform) Contact() physics.Vector2D     { return c.Point }
func (c *BallPlatform) Items() (entity.ID, entity.ID) { return c.Ball.GetID(), c.Platform.GetID() }
func (c *BallPlatform) Accept(v Visitor)              { v.VisitBallPlatform(c) }
func (c *BallPlatform) sealed()                       {}

// BallBlock is a ball striking a breakable block
type BallBlock struct {
	Ball  *entity.Ball
	Block *entity.Block
	Point physics.Vector2D
}

func (c *BallBlock) Kind() Kind                    { return KindBallBlock }
func (c *BallBlock) Contact() physics.Vector2D     { return c.Point }
func (c *BallBlock) Items() (entity.ID, entity.ID) { return c.Ball.GetID(), c.Block.GetID() }
func (c *BallBlock) Accept(v Visitor)              { v.VisitBallBlock(c) }
func (c *BallBlock) sealed()                       {}

// PlatformWall is the paddle running into static geometry
type PlatformWall struct {
	Platform *entity.Platform
	Wall     *entity.Wall
	Point    physics.Vector2D
}

func (c *PlatformWall) Kind() Kind                    { return KindPlatformWall }
func (c *PlatformWall) Contact() physics.Vector2D     { return c.Point }
func (c *PlatformWall) Items() (entity.ID, entity.ID) { return c.Platform.GetID(), c.Wall.GetID() }
func (c *PlatformWall) Accept(v Visitor)              { v.VisitPlatformWall(c) }
func (c *PlatformWall) sealed()                       {}

// BallBall is two balls meeting. A has the lower id.
type BallBall struct {
	A, B  *entity.Ball
	Point physics.Vector2D
}

func (c *BallBall) Kind() Kind                    { return KindBallBall }
func (c *BallBall) Contact() physics.Vector2D     { return c.Point }
func (c *BallBall) Items() (entity.ID, entity.ID) { return c.A.GetID(), c.B.GetID() }
func (c *BallBall) Accept(v Visitor)              { v.VisitBallBall(c) }
func (c *BallBall) sealed()                       {}

// UnknownPairError reports two collidable items whose classes have no
// collision kind. It signals a misconfigured class-pair set.
type UnknownPairError struct {
	A, B entity.Class
}

func (e *UnknownPairError) Error() string {
	return fmt.Sprintf("collision: no collision kind for %s/%s", e.A, e.B)
}

// newCollision builds the typed collision for two items. Argument order
// does not matter.
func newCollision(a, b entity.Item, contact physics.Vector2D) Collision {
	if a.Class() > b.Class() || (a.Class() == b.Class() && a.GetID() > b.GetID()) {
		a, b = b, a
	}
	switch x := a.(type) {
	case *entity.Ball:
		switch y := b.(type) {
		case *entity.Ball:
			return &BallBall{A: x, B: y, Point: contact}
		case *entity.Block:
			return &BallBlock{Ball: x, Block: y, Point: contact}
		case *entity.Platform:
			return &BallPlatform{Ball: x, Platform: y, Point: contact}
		case *entity.Wall:
			return &BallWall{Ball: x, Wall: y, Point: contact}
		}
	case *entity.Platform:
		if y, ok := b.(*entity.Wall); ok {
			return &PlatformWall{Platform: x, Wall: y, Point: contact}
		}
	}
	panic(&UnknownPairError{A: a.Class(), B: b.Class()})
}
