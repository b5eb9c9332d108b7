package scene

import (
	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/geometry"
	"github.com/df07/go-progressive-pathtracer/pkg/renderer"
)

// defaultCamera frames the three spheres from above and to the left with
// a shallow depth of field focused on the middle sphere
func defaultCamera() renderer.CameraConfig {
	cfg := renderer.DefaultCameraConfig()
	cfg.AspectRatio = 16.0 / 9.0
	cfg.Width = 800
	cfg.SamplesPerPixel = 50
	cfg.MaxDepth = 10
	cfg.VerticalFOV = 20
	cfg.LookFrom = core.NewVec3(-2, 2, 1)
	cfg.LookAt = core.NewVec3(0, 0, -1)
	cfg.DefocusAngle = 10
	cfg.FocusDistance = 3.4
	return cfg
}

// NewDefaultScene creates three spheres (gold, diffuse blue and a hollow
// glass bubble) resting on a large ground sphere
func NewDefaultScene(opts Options) (*Scene, error) {
	s := newScene("default", defaultCamera())
	lib := s.Materials
	arena := s.Geometry

	ground := lib.NewLambertian(core.NewVec3(0.8, 0.8, 0.0))
	blue := lib.NewLambertian(core.NewVec3(0.2, 0.2, 0.8))
	glass := lib.NewDielectric(1.5)
	gold := lib.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.2)

	members := []geometry.Ref{
		arena.AddSphere(core.NewVec3(1, 0, -1), 0.5, gold),
		arena.AddSphere(core.NewVec3(0, 0, -1), 0.5, blue),
		arena.AddSphere(core.NewVec3(-1, 0, -1), 0.5, glass),
		// Negative radius flips the normal inward, hollowing the glass sphere
		arena.AddSphere(core.NewVec3(-1, 0, -1), -0.4, glass),
		arena.AddSphere(core.NewVec3(0, -100.5, -1), 100, ground),
	}

	if err := s.finish(members, opts); err != nil {
		return nil, err
	}
	return s, nil
}
