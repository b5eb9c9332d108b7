package geometry

import (
	"math"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	Material material.ID
	bbox     core.AABB
}

// AddSphere stores a sphere and returns its handle
func (a *Arena) AddSphere(center core.Vec3, radius float64, mat material.ID) Ref {
	r := math.Abs(radius)
	extent := core.NewVec3(r, r, r)
	a.spheres = append(a.spheres, Sphere{
		Center:   center,
		Radius:   radius,
		Material: mat,
		bbox:     core.NewAABBFromPoints(center.Subtract(extent), center.Add(extent)),
	})
	return Ref{Kind: KindSphere, Index: int32(len(a.spheres) - 1)}
}

// hit solves the ray-sphere quadratic, preferring the nearer root
func (s *Sphere) hit(ray core.Ray, rayT core.Interval, rec *material.HitRecord) bool {
	oc := s.Center.Subtract(ray.Origin)
	a := ray.Direction.LengthSquared()
	h := ray.Direction.Dot(oc)
	c := oc.LengthSquared() - s.Radius*s.Radius

	discriminant := h*h - a*c
	if discriminant < 0 {
		return false
	}

	sqrtD := math.Sqrt(discriminant)

	// Find the nearest root that lies in the acceptable range
	root := (h - sqrtD) / a
	if !rayT.Surrounds(root) {
		root = (h + sqrtD) / a
		if !rayT.Surrounds(root) {
			return false
		}
	}

	rec.T = root
	rec.Point = ray.At(root)
	outwardNormal := rec.Point.Subtract(s.Center).Divide(s.Radius)
	rec.SetFaceNormal(ray, outwardNormal)
	rec.UV = sphereUV(outwardNormal)
	rec.Material = s.Material
	return true
}

// sphereUV maps a point on the unit sphere to texture coordinates:
// u runs around the Y axis starting at -X, v runs from -Y to +Y
func sphereUV(p core.Vec3) core.Vec2 {
	theta := math.Acos(max(-1, min(1, -p.Y)))
	phi := math.Atan2(-p.Z, p.X) + math.Pi
	return core.NewVec2(phi/(2*math.Pi), theta/math.Pi)
}
