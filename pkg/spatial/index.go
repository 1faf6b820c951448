package spatial

import "fmt"

// Index enumerates intersecting, collidable item pairs among records.
// Every pair is reported at most once, sorted by (A, B).
type Index interface {
	Pairs(records []Record, classes ClassPairs) []Pair
}

// Index kinds accepted by New
const (
	KindNaive = "naive"
	KindTree  = "tree"
)

// New returns the index named by kind
func New(kind string, cfg TreeConfig) (Index, error) {
	switch kind {
	case KindNaive:
		return Naive{}, nil
	case KindTree, "":
		return NewTree(cfg), nil
	default:
		return nil, fmt.Errorf("unknown spatial index %q", kind)
	}
}

// Naive tests every record against every other record
type Naive struct{}

// Pairs implements Index
func (Naive) Pairs(records []Record, classes ClassPairs) []Pair {
	c := newCollector(records, classes)
	for i := range records {
		for j := i + 1; j < len(records); j++ {
			c.consider(&records[i], &records[j])
		}
	}
	return c.result()
}
