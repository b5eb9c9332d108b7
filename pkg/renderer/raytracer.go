package renderer

import (
	"fmt"
	"math"
	"runtime"
	"time"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/geometry"
	"github.com/df07/go-progressive-pathtracer/pkg/log"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
)

// hitInterval skips self-intersections right at the ray origin
var hitInterval = core.NewInterval(0.001, math.Inf(1))

// RayColor returns the radiance arriving along ray, following at most
// depth bounces. Each hit contributes its emission plus the attenuated
// radiance of the scattered ray.
func RayColor(ray core.Ray, depth int, world *World, sampler core.Sampler) core.Vec3 {
	if depth <= 0 {
		return core.Vec3{}
	}

	var rec material.HitRecord
	if !world.Geometry.Hit(world.Root, ray, hitInterval, &rec) {
		return world.BackgroundColor(ray)
	}

	emitted := world.Materials.Emitted(rec.Material, rec.UV, rec.Point)
	scatter, ok := world.Materials.Scatter(ray, rec, sampler)
	if !ok {
		return emitted
	}

	return emitted.Add(scatter.Attenuation.MultiplyVec(RayColor(scatter.Scattered, depth-1, world, sampler)))
}

// Raytracer renders a world through a camera. Render is synchronous and
// not safe to call concurrently on the same Raytracer.
type Raytracer struct {
	world  *World
	camera *Camera
	config Config
	logger log.Logger
	bvh    geometry.BVHStats
}

// NewRaytracer validates the world and config and returns a raytracer.
// A nil logger falls back to the package logger.
func NewRaytracer(world *World, camera *Camera, config Config, logger log.Logger) (*Raytracer, error) {
	if err := world.Validate(); err != nil {
		return nil, err
	}
	if camera == nil {
		return nil, fmt.Errorf("camera is nil: %w", ErrInvalidConfig)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if err := camera.Config().Validate(); err != nil {
		return nil, err
	}
	if config.Threads == 0 {
		config.Threads = runtime.NumCPU()
	}
	if logger == nil {
		logger = log.New("renderer")
	}

	return &Raytracer{
		world:  world,
		camera: camera,
		config: config,
		logger: logger,
		bvh:    world.Geometry.Stats(world.Root),
	}, nil
}

// Camera returns the camera the raytracer renders into
func (rt *Raytracer) Camera() *Camera { return rt.camera }

// Config returns the render configuration
func (rt *Raytracer) Config() Config { return rt.config }

// Render runs one pass over the whole image and blocks until every worker
// is done. Batch mode replaces the image with a SamplesPerPixel average;
// progressive mode blends one more sample into every pixel.
func (rt *Raytracer) Render() RenderStats {
	rt.camera.Initialize()
	cam := rt.camera

	first, count := 0, cam.config.SamplesPerPixel
	if rt.config.Mode == ModeProgressive {
		first, count = cam.frames, 1
	}

	rt.logger.Debugf("pass: %dx%d, samples %d..%d, %d workers over %s",
		cam.width, cam.height, first, first+count-1, rt.config.Threads, rt.config.Partition)

	start := time.Now()
	units := rt.runPass(first, count)
	elapsed := time.Since(start)

	if rt.config.Mode == ModeProgressive {
		cam.frames++
	} else {
		cam.frames = count
	}

	stats := RenderStats{
		Width:           cam.width,
		Height:          cam.height,
		TotalPixels:     cam.width * cam.height,
		SamplesPerPixel: count,
		TotalSamples:    cam.width * cam.height * count,
		Frames:          cam.frames,
		WorkUnits:       units,
		Threads:         rt.config.Threads,
		Partition:       rt.config.Partition,
		Mode:            rt.config.Mode,
		Duration:        elapsed,
		BVH:             rt.bvh,
	}
	rt.logger.Infof("rendered %d samples in %v (%d frames accumulated)", stats.TotalSamples, elapsed, stats.Frames)
	return stats
}

// renderPixel traces count samples of pixel (i, j), keyed from sample
// index first, and writes the result into the camera buffers. Only the
// worker owning the pixel calls this, so no locking is needed.
func (rt *Raytracer) renderPixel(i, j, first, count int, sampler *core.PixelSampler) {
	cam := rt.camera
	idx := j*cam.width + i
	maxDepth := cam.config.MaxDepth

	var linear core.Vec3
	if rt.config.Mode == ModeProgressive {
		sampler.Reset(rt.config.Seed, uint64(idx), uint64(first))
		sample := sanitize(RayColor(cam.GetRay(i, j, sampler), maxDepth, rt.world, sampler))
		linear = Accumulate(cam.accumulated[idx], sample, first)
	} else {
		var sum core.Vec3
		for s := first; s < first+count; s++ {
			sampler.Reset(rt.config.Seed, uint64(idx), uint64(s))
			sum = sum.Add(sanitize(RayColor(cam.GetRay(i, j, sampler), maxDepth, rt.world, sampler)))
		}
		linear = sum.Divide(float64(count))
	}

	cam.accumulated[idx] = linear
	display := WriteColor(linear)
	copy(cam.pixels[idx*3:idx*3+3], display[:])
}

// Render runs a single pass of world into the camera's buffers
func (c *Camera) Render(world *World, config Config) (RenderStats, error) {
	rt, err := NewRaytracer(world, c, config, nil)
	if err != nil {
		return RenderStats{}, err
	}
	return rt.Render(), nil
}
