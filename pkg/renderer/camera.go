package renderer

import (
	"image"
	"image/color"
	"math"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// Camera generates primary rays and owns the image buffers they fill
type Camera struct {
	config CameraConfig
	width  int
	height int

	center       core.Vec3
	pixel00      core.Vec3 // Center of the top-left pixel
	pixelDeltaU  core.Vec3
	pixelDeltaV  core.Vec3
	u, v, w      core.Vec3 // Orthonormal camera basis
	defocusDiskU core.Vec3
	defocusDiskV core.Vec3
	pixels       []float32   // Display values, 3 per pixel, row-major, gamma applied
	accumulated  []core.Vec3 // Linear running average per pixel
	frames       int         // Samples blended into accumulated
}

// NewCamera creates an initialized camera
func NewCamera(config CameraConfig) *Camera {
	c := &Camera{config: config}
	c.Initialize()
	return c
}

// Config returns the current camera configuration
func (c *Camera) Config() CameraConfig {
	return c.config
}

// SetConfig replaces the configuration. Call Initialize before the next
// render for the change to take effect.
func (c *Camera) SetConfig(config CameraConfig) {
	c.config = config
}

// Initialize derives the image size and camera basis from the config.
// The buffers are reallocated, and accumulation restarted, only when the
// pixel count changes.
func (c *Camera) Initialize() {
	cfg := c.config

	c.width = max(1, cfg.Width)
	aspect := cfg.AspectRatio
	if aspect <= 0 {
		aspect = 1
	}
	c.height = max(1, int(float64(c.width)/aspect))

	if size := c.width * c.height; size != len(c.accumulated) {
		c.pixels = make([]float32, size*3)
		c.accumulated = make([]core.Vec3, size)
		c.frames = 0
	}

	c.center = cfg.LookFrom

	theta := cfg.VerticalFOV * math.Pi / 180
	h := math.Tan(theta / 2)
	viewportHeight := 2 * h * cfg.FocusDistance
	viewportWidth := viewportHeight * float64(c.width) / float64(c.height)

	c.w = cfg.LookFrom.Subtract(cfg.LookAt).Normalize()
	c.u = cfg.Up.Cross(c.w).Normalize()
	c.v = c.w.Cross(c.u)

	viewportU := c.u.Multiply(viewportWidth)
	viewportV := c.v.Multiply(-viewportHeight)

	c.pixelDeltaU = viewportU.Divide(float64(c.width))
	c.pixelDeltaV = viewportV.Divide(float64(c.height))

	upperLeft := c.center.
		Subtract(c.w.Multiply(cfg.FocusDistance)).
		Subtract(viewportU.Multiply(0.5)).
		Subtract(viewportV.Multiply(0.5))
	c.pixel00 = upperLeft.Add(c.pixelDeltaU.Add(c.pixelDeltaV).Multiply(0.5))

	defocusRadius := cfg.FocusDistance * math.Tan(cfg.DefocusAngle*math.Pi/360)
	c.defocusDiskU = c.u.Multiply(defocusRadius)
	c.defocusDiskV = c.v.Multiply(defocusRadius)
}

// GetRay returns a unit-direction ray through a random point of pixel
// (i, j), starting on the defocus disk when depth of field is enabled
func (c *Camera) GetRay(i, j int, sampler core.Sampler) core.Ray {
	jitter := sampler.Get2D()
	pixelSample := c.pixel00.
		Add(c.pixelDeltaU.Multiply(float64(i) + jitter.X - 0.5)).
		Add(c.pixelDeltaV.Multiply(float64(j) + jitter.Y - 0.5))

	origin := c.center
	if c.config.DefocusAngle > 0 {
		p := core.RandomInUnitDisk(sampler)
		origin = c.center.Add(c.defocusDiskU.Multiply(p.X)).Add(c.defocusDiskV.Multiply(p.Y))
	}

	return core.NewRay(origin, pixelSample.Subtract(origin).Normalize())
}

// Width returns the image width in pixels
func (c *Camera) Width() int { return c.width }

// Height returns the image height in pixels
func (c *Camera) Height() int { return c.height }

// Frames returns how many samples per pixel have been accumulated
func (c *Camera) Frames() int { return c.frames }

// Pixels returns the display buffer: row-major, three gamma-corrected
// floats in [0, 0.9999] per pixel. The slice is reused across renders.
func (c *Camera) Pixels() []float32 { return c.pixels }

// Reset discards accumulated samples
func (c *Camera) Reset() {
	clear(c.pixels)
	clear(c.accumulated)
	c.frames = 0
}

// Image copies the display buffer into an RGBA image
func (c *Camera) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, c.width, c.height))
	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			idx := (y*c.width + x) * 3
			img.SetRGBA(x, y, color.RGBA{
				R: toByte(c.pixels[idx]),
				G: toByte(c.pixels[idx+1]),
				B: toByte(c.pixels[idx+2]),
				A: 255,
			})
		}
	}
	return img
}

func toByte(v float32) uint8 {
	return uint8(255.99 * displayRange.Clamp(float64(v)))
}
