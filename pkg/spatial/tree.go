package spatial

import "math"

// Axis selects the coordinate a node splits on
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

// TreeConfig tunes tree construction
type TreeConfig struct {
	// MaxDepth bounds recursion; the root is depth 0.
	MaxDepth int
	// MinItems is the record count below which a node becomes a leaf.
	MinItems int
	// SplitWeight in [0, 1] trades load (records stuck in the middle
	// bucket) against balance (left/right evenness). 1 only minimises load.
	SplitWeight float64
}

// DefaultTreeConfig returns settings suited to a few dozen items
func DefaultTreeConfig() TreeConfig {
	return TreeConfig{MaxDepth: 8, MinItems: 4, SplitWeight: 0.5}
}

// Tree is a binary space partition over record bounding boxes, rebuilt from
// scratch on every call.
type Tree struct {
	cfg TreeConfig
}

// NewTree creates a tree index
func NewTree(cfg TreeConfig) *Tree {
	return &Tree{cfg: cfg}
}

// Node is one partition cell. Internal nodes keep the records straddling
// their threshold in Middle; leaves keep everything in Items.
type Node struct {
	Depth     int
	Axis      Axis
	Threshold float64
	Left      *Node
	Right     *Node
	Middle    []*Record
	Items     []*Record

	all []*Record
}

// IsLeaf reports whether the node has no children
func (n *Node) IsLeaf() bool {
	return n.Left == nil && n.Right == nil
}

// Records returns every record at or below n
func (n *Node) Records() []*Record {
	return n.all
}

// Pairs implements Index
func (t *Tree) Pairs(records []Record, classes ClassPairs) []Pair {
	c := newCollector(records, classes)
	t.Build(records).walk(c)
	return c.result()
}

// Build partitions records. The returned nodes point into records.
func (t *Tree) Build(records []Record) *Node {
	ptrs := make([]*Record, len(records))
	for i := range records {
		ptrs[i] = &records[i]
	}
	return t.build(ptrs, 0)
}

func (t *Tree) build(records []*Record, depth int) *Node {
	node := &Node{Depth: depth, all: records}
	if depth >= t.cfg.MaxDepth || len(records) < t.cfg.MinItems {
		node.Items = records
		return node
	}

	axis, threshold, ok := t.chooseSplit(records)
	if !ok {
		node.Items = records
		return node
	}

	var left, right []*Record
	for _, r := range records {
		switch side(r, axis, threshold) {
		case -1:
			left = append(left, r)
		case 1:
			right = append(right, r)
		default:
			node.Middle = append(node.Middle, r)
		}
	}

	node.Axis = axis
	node.Threshold = threshold
	node.Left = t.build(left, depth+1)
	node.Right = t.build(right, depth+1)
	return node
}

// chooseSplit tries every record center on both axes and keeps the lowest
// weighted score. Splits that separate nothing are rejected.
func (t *Tree) chooseSplit(records []*Record) (Axis, float64, bool) {
	n := float64(len(records))
	w := t.cfg.SplitWeight
	best := math.Inf(1)
	var bestAxis Axis
	var bestThreshold float64
	found := false

	for _, axis := range []Axis{AxisX, AxisY} {
		for _, candidate := range records {
			threshold := coord(candidate.Bounds.Center.X, candidate.Bounds.Center.Y, axis)
			var left, right, middle int
			for _, r := range records {
				switch side(r, axis, threshold) {
				case -1:
					left++
				case 1:
					right++
				default:
					middle++
				}
			}
			if left == 0 && right == 0 {
				continue
			}
			load := float64(middle) / n
			imbalance := math.Abs(float64(left-right)) / n
			score := w*load + (1-w)*imbalance
			if score < best {
				best, bestAxis, bestThreshold, found = score, axis, threshold, true
			}
		}
	}
	return bestAxis, bestThreshold, found
}

// side returns -1 when r lies strictly before threshold, 1 when strictly
// after, 0 when it straddles.
func side(r *Record, axis Axis, threshold float64) int {
	min, max := r.Bounds.Min(), r.Bounds.Max()
	switch {
	case coord(max.X, max.Y, axis) < threshold:
		return -1
	case coord(min.X, min.Y, axis) > threshold:
		return 1
	default:
		return 0
	}
}

func coord(x, y float64, axis Axis) float64 {
	if axis == AxisX {
		return x
	}
	return y
}

// walk reports pairs inside leaves, among middle records, and between each
// middle record and everything beneath it. Left and right subtrees are
// separated by the threshold so they never need testing against each other.
func (n *Node) walk(c *collector) {
	if n.IsLeaf() {
		for i, a := range n.Items {
			for _, b := range n.Items[i+1:] {
				c.consider(a, b)
			}
		}
		return
	}

	for i, m := range n.Middle {
		for _, other := range n.Middle[i+1:] {
			c.consider(m, other)
		}
		for _, r := range n.Left.all {
			c.consider(m, r)
		}
		for _, r := range n.Right.all {
			c.consider(m, r)
		}
	}
	n.Left.walk(c)
	n.Right.walk(c)
}
