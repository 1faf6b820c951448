package entity

import "github.com/opd-ai/go-breakout/pkg/physics"

// Block is a static breakable brick
type Block struct {
	BaseEntity
	Box
	Health int
}

// NewBlock creates a block centered at position
func NewBlock(position physics.Vector2D, width, height float64, health int) *Block {
	return &Block{
		BaseEntity: newBase(position),
		Box:        Box{Width: width, Height: height},
		Health:     health,
	}
}

// Class returns ClassBlock
func (b *Block) Class() Class { return ClassBlock }

// Footprint returns the block rectangle
func (b *Block) Footprint() physics.Rect { return b.rectAt(b.Position) }

// Hit removes one point of health and reports whether the block is destroyed
func (b *Block) Hit() bool {
	b.Health--
	return b.Destroyed()
}

// Destroyed reports whether health is exhausted
func (b *Block) Destroyed() bool {
	return b.Health <= 0
}

// Clone returns an independent copy with the same identity
func (b *Block) Clone() *Block {
	c := *b
	return &c
}
