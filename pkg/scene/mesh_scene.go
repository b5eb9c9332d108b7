package scene

import (
	"bytes"
	_ "embed"
	"fmt"
	"math"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/geometry"
	"github.com/df07/go-progressive-pathtracer/pkg/loaders"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
	"github.com/df07/go-progressive-pathtracer/pkg/renderer"
)

//go:embed meshes/pyramid.obj
var pyramidOBJ []byte

// meshHeight is the height an OBJ file is scaled to
const meshHeight = 2.0

func meshCamera() renderer.CameraConfig {
	cfg := renderer.DefaultCameraConfig()
	cfg.AspectRatio = 16.0 / 9.0
	cfg.Width = 600
	cfg.SamplesPerPixel = 150
	cfg.MaxDepth = 40
	cfg.VerticalFOV = 45
	cfg.LookFrom = core.NewVec3(0, 2, 6)
	cfg.LookAt = core.NewVec3(0, 1, 0)
	cfg.DefocusAngle = 0.5
	cfg.FocusDistance = cfg.LookFrom.Subtract(cfg.LookAt).Length()
	return cfg
}

// NewMeshScene creates a scene of triangle meshes. With opts.MeshPath set
// the OBJ file is scaled to a fixed height and stood on the ground;
// otherwise a box, a pyramid and a smooth icosahedron are shown.
func NewMeshScene(opts Options) (*Scene, error) {
	s := newScene("mesh", meshCamera())
	lib := s.Materials
	arena := s.Geometry

	ground := lib.NewLambertian(core.NewVec3(0.7, 0.7, 0.7))
	members := []geometry.Ref{
		NewGroundQuad(arena, core.Vec3{}, 40, ground),
		arena.AddSphere(core.NewVec3(2, 6, 3), 1.5, lib.NewDiffuseLight(core.NewVec3(6, 5.5, 5))),
	}

	var meshes []geometry.Ref
	var err error
	if opts.MeshPath != "" {
		meshes, err = addOBJFile(arena, lib, opts)
	} else {
		meshes, err = addBuiltinMeshes(arena, lib, opts)
	}
	if err != nil {
		return nil, err
	}
	members = append(members, meshes...)

	if err := s.finish(members, opts); err != nil {
		return nil, err
	}
	return s, nil
}

func addOBJFile(arena *geometry.Arena, lib *material.Library, opts Options) ([]geometry.Ref, error) {
	mesh, err := loaders.LoadOBJ(opts.MeshPath)
	if err != nil {
		return nil, fmt.Errorf("mesh scene: %w", err)
	}

	points := make([]core.Vec3, 0, 3*len(mesh.Triangles))
	for _, tri := range mesh.Triangles {
		points = append(points, tri[0].Position, tri[1].Position, tri[2].Position)
	}
	box := core.NewAABBFromPoints(points...)

	// Move the base center to the origin, then scale to meshHeight
	base := box.Centroid()
	base.Y = box.Min().Y
	scale := 1.0
	if h := box.Axis(1).Size(); h > 0 {
		scale = meshHeight / h
	}
	place := geometry.Transform{
		Translation: base.Negate(),
		Scale:       core.NewVec3(scale, scale, scale),
	}

	ref, err := arena.AddMesh(mesh.Triangles, geometry.MeshOptions{
		Smooth:    mesh.Normals > 0,
		Material:  lib.NewLambertian(core.NewVec3(0.8, 0.6, 0.4)),
		Transform: &place,
		Build:     opts.Build,
	})
	if err != nil {
		return nil, fmt.Errorf("mesh scene: %w", err)
	}
	return []geometry.Ref{ref}, nil
}

func addBuiltinMeshes(arena *geometry.Arena, lib *material.Library, opts Options) ([]geometry.Ref, error) {
	pyramid, err := loaders.ParseOBJ(bytes.NewReader(pyramidOBJ))
	if err != nil {
		return nil, fmt.Errorf("pyramid mesh: %w", err)
	}

	// Built meshes spin about their own origin and are then moved into place
	shapes := []struct {
		name      string
		triangles [][3]geometry.Vertex
		smooth    bool
		mat       material.ID
		yaw       float64
		offset    core.Vec3
	}{
		{"box", boxTriangles(core.NewVec3(1, 1, 1)), false, lib.NewMetal(core.NewVec3(0.8, 0.2, 0.2), 0.1), 30, core.NewVec3(-2, 0.5, 0)},
		{"pyramid", pyramid.Triangles, false, lib.NewLambertian(core.NewVec3(0.2, 0.3, 0.8)), 45, core.NewVec3(0, 0, 0)},
		{"icosahedron", icosahedronTriangles(0.8), true, lib.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.05), 60, core.NewVec3(2, 0.8, 0)},
	}

	refs := make([]geometry.Ref, 0, len(shapes))
	for _, shape := range shapes {
		spin := geometry.Rotate(core.NewVec3(0, shape.yaw, 0))
		mesh, err := arena.AddMesh(shape.triangles, geometry.MeshOptions{
			Smooth:    shape.smooth,
			Material:  shape.mat,
			Transform: &spin,
			Build:     opts.Build,
		})
		if err != nil {
			return nil, fmt.Errorf("%s mesh: %w", shape.name, err)
		}
		placed, err := arena.AddInstance(mesh, geometry.Translate(shape.offset))
		if err != nil {
			return nil, fmt.Errorf("%s mesh: %w", shape.name, err)
		}
		refs = append(refs, placed)
	}
	return refs, nil
}

// boxTriangles returns a box of the given size centered at the origin,
// two outward-facing triangles per face
func boxTriangles(size core.Vec3) [][3]geometry.Vertex {
	h := size.Multiply(0.5)
	corners := []core.Vec3{
		core.NewVec3(-h.X, -h.Y, -h.Z),
		core.NewVec3(+h.X, -h.Y, -h.Z),
		core.NewVec3(+h.X, +h.Y, -h.Z),
		core.NewVec3(-h.X, +h.Y, -h.Z),
		core.NewVec3(-h.X, -h.Y, +h.Z),
		core.NewVec3(+h.X, -h.Y, +h.Z),
		core.NewVec3(+h.X, +h.Y, +h.Z),
		core.NewVec3(-h.X, +h.Y, +h.Z),
	}
	faces := [][3]int{
		{0, 2, 1}, {0, 3, 2}, // back
		{4, 5, 6}, {4, 6, 7}, // front
		{0, 4, 7}, {0, 7, 3}, // left
		{1, 2, 6}, {1, 6, 5}, // right
		{0, 1, 5}, {0, 5, 4}, // bottom
		{3, 7, 6}, {3, 6, 2}, // top
	}
	return indexedTriangles(corners, faces, false)
}

// icosahedronTriangles returns an icosahedron of the given circumradius
// whose vertex normals point away from the center
func icosahedronTriangles(radius float64) [][3]geometry.Vertex {
	phi := (1 + math.Sqrt(5)) / 2
	corners := []core.Vec3{
		core.NewVec3(-1, phi, 0), core.NewVec3(1, phi, 0), core.NewVec3(-1, -phi, 0), core.NewVec3(1, -phi, 0),
		core.NewVec3(0, -1, phi), core.NewVec3(0, 1, phi), core.NewVec3(0, -1, -phi), core.NewVec3(0, 1, -phi),
		core.NewVec3(phi, 0, -1), core.NewVec3(phi, 0, 1), core.NewVec3(-phi, 0, -1), core.NewVec3(-phi, 0, 1),
	}
	for i, c := range corners {
		corners[i] = c.Normalize().Multiply(radius)
	}
	faces := [][3]int{
		{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
		{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
		{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
		{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
	}
	return indexedTriangles(corners, faces, true)
}

// indexedTriangles expands an indexed face list. Radial normals are used
// when radial is set, flat face normals otherwise.
func indexedTriangles(corners []core.Vec3, faces [][3]int, radial bool) [][3]geometry.Vertex {
	triangles := make([][3]geometry.Vertex, len(faces))
	for i, f := range faces {
		p0, p1, p2 := corners[f[0]], corners[f[1]], corners[f[2]]
		flat := p1.Subtract(p0).Cross(p2.Subtract(p0)).Normalize()
		for k, p := range [3]core.Vec3{p0, p1, p2} {
			normal := flat
			if radial {
				normal = p.Normalize()
			}
			triangles[i][k] = geometry.Vertex{Position: p, Normal: normal}
		}
	}
	return triangles
}
