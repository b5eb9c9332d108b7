package material

import (
	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// scatterLambertian bounces toward normal + random unit vector, which is
// cosine distributed about the normal
func scatterLambertian(albedo core.Vec3, hit HitRecord, sampler core.Sampler) ScatterResult {
	direction := hit.Normal.Add(core.RandomUnitVector(sampler))

	// Catch the degenerate case where the random vector cancels the normal
	if direction.NearZero() {
		direction = hit.Normal
	}

	return ScatterResult{
		Scattered:   core.NewRay(hit.Point, direction),
		Attenuation: albedo.Clamp(0, 1),
	}
}
