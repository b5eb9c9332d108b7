package scene

import (
	"math"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/geometry"
	"github.com/df07/go-progressive-pathtracer/pkg/renderer"
)

// oklchToRGB converts OKLCH color values to RGB
// L: lightness (0-1), C: chroma (0-0.4+), H: hue (0-360 degrees)
func oklchToRGB(l, c, h float64) core.Vec3 {
	hRad := h * math.Pi / 180.0

	a := c * math.Cos(hRad)
	b := c * math.Sin(hRad)

	// OKLAB to LMS
	l_ := l + 0.3963377774*a + 0.2158037573*b
	m_ := l - 0.1055613458*a - 0.0638541728*b
	s_ := l - 0.0894841775*a - 1.2914855480*b

	l_ = l_ * l_ * l_
	m_ = m_ * m_ * m_
	s_ = s_ * s_ * s_

	r := +4.0767416621*l_ - 3.3077115913*m_ + 0.2309699292*s_
	g := -1.2684380046*l_ + 2.6097574011*m_ - 0.3413193965*s_
	blue := -0.0041960863*l_ - 0.7034186147*m_ + 1.7076147010*s_

	r = math.Max(0, math.Min(1, r))
	g = math.Max(0, math.Min(1, g))
	blue = math.Max(0, math.Min(1, blue))

	return core.NewVec3(r, g, blue)
}

// sphereGridSize is the number of spheres along each side of the grid
const sphereGridSize = 20

func sphereGridCamera() renderer.CameraConfig {
	cfg := renderer.DefaultCameraConfig()
	cfg.AspectRatio = 16.0 / 9.0
	cfg.Width = 800
	cfg.SamplesPerPixel = 100
	cfg.MaxDepth = 40
	cfg.VerticalFOV = 40
	cfg.LookFrom = core.NewVec3(4.5, 6, 18)
	cfg.LookAt = core.NewVec3(4.5, 0.8, 4.5)
	cfg.DefocusAngle = 0.6
	cfg.FocusDistance = cfg.LookFrom.Subtract(cfg.LookAt).Length()
	return cfg
}

// NewSphereGridScene creates a grid of metallic spheres on a ground quad.
// Hue varies along X and chroma along Z; fuzz grows along the diagonal.
func NewSphereGridScene(opts Options) (*Scene, error) {
	s := newScene("spheregrid", sphereGridCamera())
	lib := s.Materials
	arena := s.Geometry

	ground := lib.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))
	members := []geometry.Ref{
		NewGroundQuad(arena, core.NewVec3(4.5, 0, 4.5), 60, ground),
	}

	// Fit the grid into roughly 9x9 units around the look-at point
	targetArea := 9.0
	spacing := targetArea / float64(sphereGridSize-1)
	radius := math.Max(0.02, math.Min(0.35, spacing*0.35))

	const (
		lightness = 0.65
		minChroma = 0.05
		maxChroma = 0.25
	)

	for i := 0; i < sphereGridSize; i++ {
		for j := 0; j < sphereGridSize; j++ {
			fi := float64(i) / float64(sphereGridSize-1)
			fj := float64(j) / float64(sphereGridSize-1)

			center := core.NewVec3(
				float64(i)*spacing-targetArea/2+4.5,
				radius,
				float64(j)*spacing-targetArea/2+4.5,
			)
			albedo := oklchToRGB(lightness, minChroma+fj*(maxChroma-minChroma), fi*360)
			mat := lib.NewMetal(albedo, 0.3*(fi+fj)/2)
			members = append(members, arena.AddSphere(center, radius, mat))
		}
	}

	if err := s.finish(members, opts); err != nil {
		return nil, err
	}
	return s, nil
}
