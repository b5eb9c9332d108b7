package server

import (
	"fmt"
	"math"
	"net/http"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
	"github.com/df07/go-progressive-pathtracer/pkg/renderer"
	"github.com/df07/go-progressive-pathtracer/pkg/scene"
	"github.com/labstack/echo/v4"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	MaterialType string                 `json:"materialType"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	UV           [2]float64             `json:"uv"`
	Distance     float64                `json:"distance"`
	FrontFace    bool                   `json:"frontFace"`
	Properties   map[string]interface{} `json:"properties"`
}

// centerSampler aims inspection rays through pixel centers and the
// middle of the lens
type centerSampler struct{}

func (centerSampler) Get1D() float64   { return 0.5 }
func (centerSampler) Get2D() core.Vec2 { return core.NewVec2(0.5, 0.5) }
func (centerSampler) Get3D() core.Vec3 { return core.NewVec3(0.5, 0.5, 0.5) }

// handleInspect casts a ray through pixel (x, y) of a scene and reports
// what it hits first
func (s *Server) handleInspect(c echo.Context) error {
	query := c.QueryParams()
	name := query.Get("scene")
	if name == "" {
		name = "default"
	}

	width, err := parseIntParam(query, "width", 400, minWidth, maxWidth)
	if err != nil {
		return jsonError(c, err)
	}
	height, err := parseIntParam(query, "height", 0, 0, maxWidth)
	if err != nil {
		return jsonError(c, err)
	}
	sc, cameraConfig, err := s.createScene(name, width, height)
	if err != nil {
		return jsonError(c, err)
	}
	camera := renderer.NewCamera(cameraConfig)

	x, err := parseIntParam(query, "x", 0, 0, camera.Width()-1)
	if err != nil {
		return jsonError(c, err)
	}
	y, err := parseIntParam(query, "y", 0, 0, camera.Height()-1)
	if err != nil {
		return jsonError(c, err)
	}

	return c.JSON(http.StatusOK, inspectPixel(sc, camera, x, y))
}

// inspectPixel casts a ray through the center of pixel (x, y)
func inspectPixel(sc *scene.Scene, camera *renderer.Camera, x, y int) InspectResponse {
	ray := camera.GetRay(x, y, centerSampler{})

	var rec material.HitRecord
	if !sc.Geometry.Hit(sc.Root, ray, core.NewInterval(0.001, math.Inf(1)), &rec) {
		return InspectResponse{Hit: false}
	}

	materialType, properties := extractMaterialInfo(sc.Materials, rec.Material)
	return InspectResponse{
		Hit:          true,
		MaterialType: materialType,
		Point:        [3]float64{rec.Point.X, rec.Point.Y, rec.Point.Z},
		Normal:       [3]float64{rec.Normal.X, rec.Normal.Y, rec.Normal.Z},
		UV:           [2]float64{rec.UV.X, rec.UV.Y},
		Distance:     rec.T,
		FrontFace:    rec.FrontFace,
		Properties:   properties,
	}
}

// extractMaterialInfo describes the material behind id
func extractMaterialInfo(lib *material.Library, id material.ID) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	m, ok := lib.Material(id)
	if !ok {
		return "unknown", properties
	}

	switch m.Kind {
	case material.KindLambertian:
		properties["texture"] = describeTexture(lib, m.Texture)
	case material.KindMetal:
		properties["albedo"] = [3]float64{m.Albedo.X, m.Albedo.Y, m.Albedo.Z}
		properties["color"] = hexColor(m.Albedo)
		properties["fuzz"] = m.Fuzz
	case material.KindDielectric:
		properties["refractionIndex"] = m.RefractionIndex
		properties["color"] = "#ffffff"
	case material.KindDiffuseLight:
		properties["emission"] = describeTexture(lib, m.Texture)
	}
	return m.Kind.String(), properties
}

func describeTexture(lib *material.Library, id material.TextureID) map[string]interface{} {
	t, ok := lib.Texture(id)
	if !ok {
		return map[string]interface{}{"type": "missing"}
	}

	switch t.Kind {
	case material.TextureSolid:
		return map[string]interface{}{
			"type":  "solid",
			"value": [3]float64{t.Color.X, t.Color.Y, t.Color.Z},
			"color": hexColor(t.Color),
		}
	case material.TextureChecker:
		return map[string]interface{}{
			"type":  "checker",
			"scale": 1 / t.InvScale,
			"even":  describeTexture(lib, t.Even),
			"odd":   describeTexture(lib, t.Odd),
		}
	case material.TextureImage:
		info := map[string]interface{}{"type": "image"}
		if t.Image != nil {
			info["width"] = t.Image.Width()
			info["height"] = t.Image.Height()
		}
		return info
	default:
		return map[string]interface{}{"type": "unknown"}
	}
}

// hexColor formats a color for display, clamping HDR values
func hexColor(c core.Vec3) string {
	c = c.Clamp(0, 1)
	return fmt.Sprintf("#%02x%02x%02x", int(c.X*255), int(c.Y*255), int(c.Z*255))
}
