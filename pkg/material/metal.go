package material

import (
	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// scatterMetal mirrors the incoming ray and perturbs it by fuzz. Rays pushed
// below the surface are absorbed.
func scatterMetal(albedo core.Vec3, fuzz float64, rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	reflected := reflectVector(rayIn.Direction.Normalize(), hit.Normal)
	if fuzz > 0 {
		reflected = reflected.Add(core.RandomInUnitSphere(sampler).Multiply(fuzz))
	}

	scattered := core.NewRay(hit.Point, reflected)
	return ScatterResult{
		Scattered:   scattered,
		Attenuation: albedo.Clamp(0, 1),
	}, scattered.Direction.Dot(hit.Normal) > 0
}

// reflectVector calculates the reflection of a vector v off a surface with normal n
func reflectVector(v, n core.Vec3) core.Vec3 {
	return v.Subtract(n.Multiply(2 * v.Dot(n)))
}
