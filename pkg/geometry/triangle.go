package geometry

import (
	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
)

// Vertex is a triangle corner with its shading attributes
type Vertex struct {
	Position core.Vec3
	UV       core.Vec2
	Normal   core.Vec3
}

// Triangle is defined by three vertices. When Smooth is set the shading
// normal is interpolated from the vertex normals.
type Triangle struct {
	Vertices [3]Vertex
	Smooth   bool
	Material material.ID
	edge1    core.Vec3
	edge2    core.Vec3
	plane    plane
	bbox     core.AABB
}

// AddTriangle stores a triangle and returns its handle
func (a *Arena) AddTriangle(v0, v1, v2 Vertex, mat material.ID, smooth bool) Ref {
	edge1 := v1.Position.Subtract(v0.Position)
	edge2 := v2.Position.Subtract(v0.Position)
	a.triangles = append(a.triangles, Triangle{
		Vertices: [3]Vertex{v0, v1, v2},
		Smooth:   smooth,
		Material: mat,
		edge1:    edge1,
		edge2:    edge2,
		plane:    newPlane(v0.Position, edge1, edge2),
		bbox:     core.NewAABBFromPoints(v0.Position, v1.Position, v2.Position).Pad(),
	})
	return Ref{Kind: KindTriangle, Index: int32(len(a.triangles) - 1)}
}

func (tri *Triangle) hit(ray core.Ray, rayT core.Interval, rec *material.HitRecord) bool {
	t, alpha, beta, ok := tri.plane.intersect(ray, rayT, tri.Vertices[0].Position, tri.edge1, tri.edge2)
	if !ok {
		return false
	}

	if alpha < 0 || beta < 0 || alpha+beta > 1 {
		return false
	}

	// Barycentric weights of vertices 0, 1, 2
	w0, w1, w2 := 1-alpha-beta, alpha, beta
	v := &tri.Vertices

	rec.T = t
	rec.Point = ray.At(t)
	rec.UV = core.NewVec2(
		w0*v[0].UV.X+w1*v[1].UV.X+w2*v[2].UV.X,
		w0*v[0].UV.Y+w1*v[1].UV.Y+w2*v[2].UV.Y,
	)
	rec.Material = tri.Material

	geometric := tri.plane.Normal
	if !tri.Smooth {
		rec.SetFaceNormal(ray, geometric)
		return true
	}

	shading := v[0].Normal.Multiply(w0).Add(v[1].Normal.Multiply(w1)).Add(v[2].Normal.Multiply(w2)).Normalize()
	if shading.NearZero() {
		shading = geometric
	}
	// Keep the shading normal on the geometric side so front/back is decided by the surface
	if shading.Dot(geometric) < 0 {
		shading = shading.Negate()
	}

	rec.FrontFace = ray.Direction.Dot(geometric) < 0
	if rec.FrontFace {
		rec.Normal = shading
	} else {
		rec.Normal = shading.Negate()
	}
	return true
}
