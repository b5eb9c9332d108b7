package geometry

import (
	"math"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
)

// parallelEpsilon is the |n·d| below which a ray is treated as parallel to a plane
const parallelEpsilon = 1e-8

// Quad represents a parallelogram defined by a corner and two edge vectors
type Quad struct {
	Corner   core.Vec3   // One corner of the quad
	U        core.Vec3   // First edge vector
	V        core.Vec3   // Second edge vector
	Material material.ID // Material of the quad
	plane    plane
	bbox     core.AABB
}

// plane caches what Quad and Triangle need for the planar coordinate test
type plane struct {
	Normal core.Vec3 // Unit normal (U × V normalized)
	D      float64   // Plane equation constant: normal · point = D
	W      core.Vec3 // n / (n·n), turns cross products into planar coordinates
}

func newPlane(corner, u, v core.Vec3) plane {
	n := u.Cross(v)
	normal := n.Normalize()
	return plane{
		Normal: normal,
		D:      normal.Dot(corner),
		W:      n.Divide(n.Dot(n)),
	}
}

// intersect returns the plane hit t and the planar coordinates (alpha along
// u, beta along v) of the hit point relative to corner
func (p plane) intersect(ray core.Ray, rayT core.Interval, corner, u, v core.Vec3) (t, alpha, beta float64, ok bool) {
	denominator := p.Normal.Dot(ray.Direction)
	if math.Abs(denominator) < parallelEpsilon {
		return 0, 0, 0, false
	}

	t = (p.D - p.Normal.Dot(ray.Origin)) / denominator
	if !rayT.Contains(t) {
		return 0, 0, 0, false
	}

	planarHit := ray.At(t).Subtract(corner)
	alpha = p.W.Dot(planarHit.Cross(v))
	beta = p.W.Dot(u.Cross(planarHit))
	return t, alpha, beta, true
}

// AddQuad stores a quad and returns its handle
func (a *Arena) AddQuad(corner, u, v core.Vec3, mat material.ID) Ref {
	a.quads = append(a.quads, Quad{
		Corner:   corner,
		U:        u,
		V:        v,
		Material: mat,
		plane:    newPlane(corner, u, v),
		bbox:     core.NewAABBFromPoints(corner, corner.Add(u), corner.Add(v), corner.Add(u).Add(v)).Pad(),
	})
	return Ref{Kind: KindQuad, Index: int32(len(a.quads) - 1)}
}

var unitInterval = core.NewInterval(0, 1)

func (q *Quad) hit(ray core.Ray, rayT core.Interval, rec *material.HitRecord) bool {
	t, alpha, beta, ok := q.plane.intersect(ray, rayT, q.Corner, q.U, q.V)
	if !ok {
		return false
	}

	if !unitInterval.Contains(alpha) || !unitInterval.Contains(beta) {
		return false
	}

	rec.T = t
	rec.Point = ray.At(t)
	rec.UV = core.NewVec2(alpha, beta)
	rec.Material = q.Material
	rec.SetFaceNormal(ray, q.plane.Normal)
	return true
}
