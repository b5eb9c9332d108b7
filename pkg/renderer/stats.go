package renderer

import (
	"time"

	"github.com/df07/go-progressive-pathtracer/pkg/geometry"
)

// RenderStats contains statistics about one render pass
type RenderStats struct {
	Width           int
	Height          int
	TotalPixels     int           // Total number of pixels rendered
	SamplesPerPixel int           // Samples traced per pixel in this pass
	TotalSamples    int           // Total number of samples traced in this pass
	Frames          int           // Samples per pixel accumulated so far
	WorkUnits       int           // Tiles or row blocks handed to workers
	Threads         int           // Workers used
	Partition       Partition     // How the image was split
	Mode            Mode          // Batch or progressive
	Duration        time.Duration // Wall time of the pass
	BVH             geometry.BVHStats
}

// SamplesPerSecond returns the pass throughput
func (s RenderStats) SamplesPerSecond() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.TotalSamples) / s.Duration.Seconds()
}

// Merge folds a later pass into a running total
func (s RenderStats) Merge(next RenderStats) RenderStats {
	merged := next
	merged.TotalSamples = s.TotalSamples + next.TotalSamples
	merged.Duration = s.Duration + next.Duration
	merged.SamplesPerPixel = s.SamplesPerPixel + next.SamplesPerPixel
	return merged
}
