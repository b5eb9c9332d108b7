package geometry

import (
	"fmt"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
)

// BVHNode is an interior node of a bounding volume hierarchy. Both
// children are always set; a single primitive is stored as Left == Right.
type BVHNode struct {
	Left  Ref
	Right Ref
	bbox  core.AABB
}

// BuildOptions controls BVH construction
type BuildOptions struct {
	Parallel bool   // Build subtrees on separate goroutines
	MaxTasks int    // Upper bound on goroutines spawned by one build (0 = 2 x CPU count)
	Seed     uint64 // Seeds the per-node split axis
}

// DefaultBuildOptions returns a parallel build bounded by the CPU count
func DefaultBuildOptions() BuildOptions {
	return BuildOptions{Parallel: true, Seed: 1}
}

// minParallelSpan is the smallest subrange worth handing to a new goroutine
const minParallelSpan = 64

type bvhItem struct {
	ref Ref
	box core.AABB
}

type bvhBuilder struct {
	nodes   []BVHNode // Preallocated window of the arena's node slice
	base    int32     // Arena index of nodes[0]
	opts    BuildOptions
	spawned atomic.Int64
}

// BuildBVH builds a tree over members and returns a handle to its root.
// Each node splits its range at the median after sorting by the box
// minimum along a randomly chosen axis.
func (a *Arena) BuildBVH(members []Ref, opts BuildOptions) (Ref, error) {
	if len(members) == 0 {
		return Ref{}, ErrEmptyPrimitiveList
	}

	items := make([]bvhItem, len(members))
	for i, m := range members {
		if !a.Valid(m) {
			return Ref{}, fmt.Errorf("bvh member %d (%v): %w", i, m, ErrInvalidRef)
		}
		items[i] = bvhItem{ref: m, box: a.BoundingBox(m)}
	}

	if opts.MaxTasks <= 0 {
		opts.MaxTasks = 2 * runtime.NumCPU()
	}

	// Node slots are reserved up front so concurrent branches only ever
	// write to their own indices
	total := bvhNodeCount(len(items))
	base := int32(len(a.nodes))
	a.nodes = append(a.nodes, make([]BVHNode, total)...)

	b := &bvhBuilder{
		nodes: a.nodes[base : int(base)+total],
		base:  base,
		opts:  opts,
	}
	b.build(items, 0)

	return Ref{Kind: KindBVH, Index: base}, nil
}

// bvhNodeCount returns how many nodes a build over n items creates
func bvhNodeCount(n int) int {
	if n <= 2 {
		return 1
	}
	mid := n / 2
	return 1 + bvhNodeCount(mid) + bvhNodeCount(n-mid)
}

func (b *bvhBuilder) trySpawn(span int) bool {
	if !b.opts.Parallel || span < minParallelSpan {
		return false
	}
	return b.spawned.Add(1) <= int64(b.opts.MaxTasks)
}

// build fills the node at offset from items and returns its bounds
func (b *bvhBuilder) build(items []bvhItem, offset int) core.AABB {
	axis := int(core.Mix64(b.opts.Seed^uint64(b.base+int32(offset))) % 3)
	node := &b.nodes[offset]

	switch len(items) {
	case 1:
		node.Left, node.Right = items[0].ref, items[0].ref
		node.bbox = items[0].box
		return node.bbox
	case 2:
		first, second := items[0], items[1]
		if !boxCompare(first.box, second.box, axis) {
			first, second = second, first
		}
		node.Left, node.Right = first.ref, second.ref
		node.bbox = first.box.Merge(second.box)
		return node.bbox
	}

	sort.Slice(items, func(i, j int) bool {
		return boxCompare(items[i].box, items[j].box, axis)
	})

	mid := len(items) / 2
	leftOffset := offset + 1
	rightOffset := leftOffset + bvhNodeCount(mid)

	var leftBox, rightBox core.AABB
	if b.trySpawn(len(items)) {
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			leftBox = b.build(items[:mid], leftOffset)
		}()
		rightBox = b.build(items[mid:], rightOffset)
		wg.Wait()
	} else {
		leftBox = b.build(items[:mid], leftOffset)
		rightBox = b.build(items[mid:], rightOffset)
	}

	node.Left = Ref{Kind: KindBVH, Index: b.base + int32(leftOffset)}
	node.Right = Ref{Kind: KindBVH, Index: b.base + int32(rightOffset)}
	node.bbox = leftBox.Merge(rightBox)
	return node.bbox
}

func boxCompare(a, b core.AABB, axis int) bool {
	return a.Axis(axis).Min < b.Axis(axis).Min
}

// hitNode prunes on the node bounds, then searches the right child only
// up to the left child's hit distance
func (a *Arena) hitNode(node *BVHNode, ray core.Ray, rayT core.Interval, rec *material.HitRecord) bool {
	if !node.bbox.Hit(ray, rayT) {
		return false
	}

	hitLeft := a.Hit(node.Left, ray, rayT, rec)
	if hitLeft {
		rayT.Max = rec.T
	}
	hitRight := a.Hit(node.Right, ray, rayT, rec)

	return hitLeft || hitRight
}

// BVHStats describes the shape of a tree
type BVHStats struct {
	Nodes      int // Interior nodes
	Primitives int // Leaf references, a shared single child counted once
	MaxDepth   int
}

// Stats walks the tree under root. Non-BVH refs count as one primitive.
func (a *Arena) Stats(root Ref) BVHStats {
	var stats BVHStats
	a.collectStats(root, 0, &stats)
	return stats
}

func (a *Arena) collectStats(ref Ref, depth int, stats *BVHStats) {
	if depth > stats.MaxDepth {
		stats.MaxDepth = depth
	}
	if ref.Kind != KindBVH || !a.Valid(ref) {
		stats.Primitives++
		return
	}

	stats.Nodes++
	node := &a.nodes[ref.Index]
	a.collectStats(node.Left, depth+1, stats)
	if node.Right != node.Left {
		a.collectStats(node.Right, depth+1, stats)
	}
}
