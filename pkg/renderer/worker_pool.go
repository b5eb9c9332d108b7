package renderer

import (
	"sync"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// TileQueue hands out tiles to workers. The lock is held only for the pop.
type TileQueue struct {
	mu    sync.Mutex
	tiles []Tile
}

// NewTileQueue creates a queue holding tiles in order
func NewTileQueue(tiles []Tile) *TileQueue {
	return &TileQueue{tiles: append([]Tile(nil), tiles...)}
}

// Pop removes the next tile. It returns false once the queue is empty.
func (q *TileQueue) Pop() (Tile, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.tiles) == 0 {
		return Tile{}, false
	}
	tile := q.tiles[0]
	q.tiles = q.tiles[1:]
	return tile, true
}

// Len returns the number of tiles still queued
func (q *TileQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tiles)
}

// WorkerPool runs a fixed number of workers over a TileQueue. Every
// worker owns its sampler; tiles never overlap, so workers write
// disjoint parts of the image.
type WorkerPool struct {
	numWorkers int
}

// NewWorkerPool creates a pool of n workers (at least one)
func NewWorkerPool(n int) *WorkerPool {
	return &WorkerPool{numWorkers: max(1, n)}
}

// NumWorkers returns the number of workers in the pool
func (wp *WorkerPool) NumWorkers() int {
	return wp.numWorkers
}

// Run drains queue, calling render for every tile, and returns once all
// workers have exited. It returns the number of tiles each worker took.
func (wp *WorkerPool) Run(queue *TileQueue, render func(tile Tile, sampler *core.PixelSampler)) []int {
	var wg sync.WaitGroup
	taken := make([]int, wp.numWorkers)

	for w := 0; w < wp.numWorkers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			sampler := core.NewPixelSampler()
			for {
				tile, ok := queue.Pop()
				if !ok {
					return
				}
				render(tile, sampler)
				taken[id]++
			}
		}(w)
	}

	wg.Wait()
	return taken
}

// runBlocks renders each block on its own goroutine
func runBlocks(blocks []Tile, render func(tile Tile, sampler *core.PixelSampler)) {
	var wg sync.WaitGroup
	for _, block := range blocks {
		wg.Add(1)
		go func(b Tile) {
			defer wg.Done()
			render(b, core.NewPixelSampler())
		}(block)
	}
	wg.Wait()
}

// runPass renders samples [first, first+count) of every pixel using the
// configured partitioning and returns the number of work units
func (rt *Raytracer) runPass(first, count int) int {
	cam := rt.camera
	render := func(tile Tile, sampler *core.PixelSampler) {
		rt.renderBounds(tile.Bounds, first, count, sampler)
	}

	if rt.config.Partition == PartitionRowBlocks {
		blocks := NewRowBlocks(cam.width, cam.height, rt.config.Threads)
		runBlocks(blocks, render)
		return len(blocks)
	}

	tiles := NewTileGrid(cam.width, cam.height, rt.config.TileSize)
	taken := NewWorkerPool(rt.config.Threads).Run(NewTileQueue(tiles), render)
	rt.logger.Debugf("tiles per worker: %v", taken)
	return len(tiles)
}
