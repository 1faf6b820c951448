// Package spatial is the broad phase: it turns per-item shape records into
// the list of item pairs whose shapes actually intersect.
package spatial

import (
	"fmt"
	"slices"

	"github.com/opd-ai/go-breakout/pkg/entity"
	"github.com/opd-ai/go-breakout/pkg/physics"
)

// Record tags one shape of one item. Records are rebuilt on every detection
// call and never stored.
type Record struct {
	ItemID entity.ID
	Class  entity.Class
	Shape  physics.Shape
	Bounds physics.Rect
}

// NewRecords builds one record per shape of an item
func NewRecords(item entity.Item, shapes []physics.Shape) []Record {
	records := make([]Record, len(shapes))
	for i, s := range shapes {
		records[i] = Record{
			ItemID: item.GetID(),
			Class:  item.Class(),
			Shape:  s,
			Bounds: s.Bounds(),
		}
	}
	return records
}

// ClassPair is an unordered pair of item classes
type ClassPair struct {
	A, B entity.Class
}

func (p ClassPair) normalized() ClassPair {
	if p.A > p.B {
		return ClassPair{A: p.B, B: p.A}
	}
	return p
}

// ClassPairs is the set of class pairs that may collide
type ClassPairs map[ClassPair]struct{}

// NewClassPairs builds a set from pairs given in any order
func NewClassPairs(pairs ...ClassPair) ClassPairs {
	set := make(ClassPairs, len(pairs))
	for _, p := range pairs {
		set[p.normalized()] = struct{}{}
	}
	return set
}

// Allows reports whether items of classes a and b may collide
func (cp ClassPairs) Allows(a, b entity.Class) bool {
	_, ok := cp[ClassPair{A: a, B: b}.normalized()]
	return ok
}

// Pair is a reported collision between two items, A < B
type Pair struct {
	A, B    entity.ID
	Contact physics.Vector2D
}

func (p Pair) String() string {
	return fmt.Sprintf("%d/%d@(%.3f,%.3f)", p.A, p.B, p.Contact.X, p.Contact.Y)
}

type pairKey struct {
	lo, hi entity.ID
}

func keyOf(a, b entity.ID) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{lo: a, hi: b}
}

// collector holds the per-call state shared by every index: the item-level
// narrow phase, class filtering and once-per-pair deduplication.
type collector struct {
	byItem  map[entity.ID][]*Record
	classes ClassPairs
	tested  map[pairKey]struct{}
	pairs   []Pair
}

func newCollector(records []Record, classes ClassPairs) *collector {
	c := &collector{
		byItem:  make(map[entity.ID][]*Record),
		classes: classes,
		tested:  make(map[pairKey]struct{}),
	}
	for i := range records {
		r := &records[i]
		c.byItem[r.ItemID] = append(c.byItem[r.ItemID], r)
	}
	return c
}

// consider is the broad-phase filter for one record pair
func (c *collector) consider(a, b *Record) {
	if a.ItemID == b.ItemID {
		return
	}
	key := keyOf(a.ItemID, b.ItemID)
	if _, done := c.tested[key]; done {
		return
	}
	if !c.classes.Allows(a.Class, b.Class) {
		return
	}
	if !a.Bounds.Overlaps(b.Bounds) {
		return
	}
	c.tested[key] = struct{}{}

	if contact, ok := narrow(c.byItem[key.lo], c.byItem[key.hi]); ok {
		c.pairs = append(c.pairs, Pair{A: key.lo, B: key.hi, Contact: contact})
	}
}

func (c *collector) result() []Pair {
	slices.SortFunc(c.pairs, func(x, y Pair) int {
		if x.A != y.A {
			return compareIDs(x.A, y.A)
		}
		return compareIDs(x.B, y.B)
	})
	return c.pairs
}

func compareIDs(a, b entity.ID) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// narrow tests every shape of lo against every shape of hi in record order
// and returns the first contact, so the result never depends on the order in
// which an index discovered the pair.
func narrow(lo, hi []*Record) (physics.Vector2D, bool) {
	for _, a := range lo {
		for _, b := range hi {
			if !a.Bounds.Overlaps(b.Bounds) {
				continue
			}
			if p, ok := physics.Intersect(a.Shape, b.Shape); ok {
				return p, true
			}
		}
	}
	return physics.Vector2D{}, false
}
