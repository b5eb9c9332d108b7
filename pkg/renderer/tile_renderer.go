package renderer

import (
	"image"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// Tile is a rectangular region of the image rendered by a single worker
type Tile struct {
	ID     int             // Position in row-major tile order
	Bounds image.Rectangle // Pixel bounds (x0,y0,x1,y1)
}

// NewTileGrid creates a grid of tiles covering the entire image. Edge
// tiles are cut to the image bounds.
func NewTileGrid(width, height, tileSize int) []Tile {
	tilesX := (width + tileSize - 1) / tileSize // Ceiling division
	tilesY := (height + tileSize - 1) / tileSize

	tiles := make([]Tile, 0, tilesX*tilesY)
	for tileY := 0; tileY < tilesY; tileY++ {
		for tileX := 0; tileX < tilesX; tileX++ {
			x0 := tileX * tileSize
			y0 := tileY * tileSize
			x1 := min(x0+tileSize, width)
			y1 := min(y0+tileSize, height)

			tiles = append(tiles, Tile{ID: len(tiles), Bounds: image.Rect(x0, y0, x1, y1)})
		}
	}

	return tiles
}

// NewRowBlocks splits the image into at most n contiguous bands of
// ceil(height/n) rows. Workers beyond the last row get no band.
func NewRowBlocks(width, height, n int) []Tile {
	n = max(1, n)
	blockSize := (height + n - 1) / n

	blocks := make([]Tile, 0, n)
	for z := 0; z < n; z++ {
		start := z * blockSize
		if start >= height {
			break
		}
		end := min(start+blockSize, height)
		blocks = append(blocks, Tile{ID: z, Bounds: image.Rect(0, start, width, end)})
	}
	return blocks
}

// renderBounds renders every pixel inside bounds
func (rt *Raytracer) renderBounds(bounds image.Rectangle, first, count int, sampler *core.PixelSampler) {
	for j := bounds.Min.Y; j < bounds.Max.Y; j++ {
		for i := bounds.Min.X; i < bounds.Max.X; i++ {
			rt.renderPixel(i, j, first, count, sampler)
		}
	}
}
