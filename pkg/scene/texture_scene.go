package scene

import (
	"math"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/geometry"
	"github.com/df07/go-progressive-pathtracer/pkg/loaders"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
	"github.com/df07/go-progressive-pathtracer/pkg/renderer"
)

func textureCamera() renderer.CameraConfig {
	cfg := renderer.DefaultCameraConfig()
	cfg.AspectRatio = 16.0 / 9.0
	cfg.Width = 800
	cfg.SamplesPerPixel = 100
	cfg.MaxDepth = 10
	cfg.VerticalFOV = 50
	cfg.LookFrom = core.NewVec3(0, 2, 10)
	cfg.LookAt = core.NewVec3(0, 1, 0)
	cfg.DefocusAngle = 0
	return cfg
}

// NewTextureScene creates a scene demonstrating texture mapping: a checker
// ground, an image-mapped sphere, a checker sphere, a textured light and an
// equirectangular sky image
func NewTextureScene(opts Options) (*Scene, error) {
	s := newScene("texture", textureCamera())
	lib := s.Materials
	arena := s.Geometry

	var img material.ImageSource
	if opts.TexturePath != "" {
		// A missing file shows up as magenta rather than failing the scene
		img = loaders.LoadTextureImage(opts.TexturePath)
	} else {
		img = stripeImage(64, 32)
	}
	s.Background = lib.NewImageTexture(skyImage(64, 32))

	groundTex := lib.NewCheckerColors(0.5, core.NewVec3(0.2, 0.3, 0.1), core.NewVec3(0.9, 0.9, 0.9))
	sphereTex := lib.NewChecker(0.2,
		lib.NewSolidColor(core.NewVec3(0.9, 0.9, 0.9)),
		lib.NewSolidColor(core.NewVec3(0.2, 0.2, 0.8)),
	)
	lightTex := lib.NewCheckerColors(0.25, core.NewVec3(4, 4, 4), core.NewVec3(1, 0.5, 0.2))

	members := []geometry.Ref{
		NewGroundQuad(arena, core.Vec3{}, 40, lib.NewTexturedLambertian(groundTex)),
		arena.AddSphere(core.NewVec3(-2.2, 1, 0), 1, lib.NewTexturedLambertian(lib.NewImageTexture(img))),
		arena.AddSphere(core.NewVec3(0, 1, 0), 1, lib.NewTexturedLambertian(sphereTex)),
		arena.AddSphere(core.NewVec3(2.2, 1, 0), 1, lib.NewMetal(core.NewVec3(0.9, 0.9, 0.9), 0.05)),
		arena.AddQuad(core.NewVec3(-1.5, 2.5, -3), core.NewVec3(3, 0, 0), core.NewVec3(0, 1.5, 0),
			lib.NewTexturedDiffuseLight(lightTex)),
	}

	if err := s.finish(members, opts); err != nil {
		return nil, err
	}
	return s, nil
}

// stripeImage generates banded colors running around a sphere's equator
func stripeImage(width, height int) *loaders.RGBImage {
	pixels := make([]byte, 0, width*height*3)
	for y := 0; y < height; y++ {
		band := (y * 6 / height) % 3
		for x := 0; x < width; x++ {
			shade := byte(128 + 127*math.Sin(2*math.Pi*float64(x)/float64(width)))
			switch band {
			case 0:
				pixels = append(pixels, 220, shade/2, 40)
			case 1:
				pixels = append(pixels, 40, 180, shade)
			default:
				pixels = append(pixels, shade, shade, 230)
			}
		}
	}
	img, _ := loaders.NewRGBImage(width, height, pixels)
	return img
}

// skyImage generates an equirectangular gradient from a bright horizon
// to a deep blue zenith with a dark ground below
func skyImage(width, height int) *loaders.RGBImage {
	pixels := make([]byte, 0, width*height*3)
	for y := 0; y < height; y++ {
		// Row 0 is the zenith
		elevation := 1 - 2*(float64(y)+0.5)/float64(height)
		for x := 0; x < width; x++ {
			if elevation < 0 {
				pixels = append(pixels, 60, 55, 50)
				continue
			}
			t := elevation
			r := byte(255 * (1 - 0.6*t))
			g := byte(255 * (1 - 0.35*t))
			pixels = append(pixels, r, g, 255)
		}
	}
	img, _ := loaders.NewRGBImage(width, height, pixels)
	return img
}
