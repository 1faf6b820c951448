package entity

import "github.com/opd-ai/go-breakout/pkg/physics"

// Wall is static arena geometry
type Wall struct {
	BaseEntity
	Box
}

// NewWall creates a wall centered at position
func NewWall(position physics.Vector2D, width, height float64) *Wall {
	return &Wall{
		BaseEntity: newBase(position),
		Box:        Box{Width: width, Height: height},
	}
}

// Class returns ClassWall
func (w *Wall) Class() Class { return ClassWall }

// Footprint returns the wall rectangle
func (w *Wall) Footprint() physics.Rect { return w.rectAt(w.Position) }

// Clone returns an independent copy with the same identity
func (w *Wall) Clone() *Wall {
	c := *w
	return &c
}
