package material

import (
	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// ID is a handle to a material owned by a Library
type ID int32

// TextureID is a handle to a texture owned by a Library
type TextureID int32

// NoTexture marks an unset texture handle
const NoTexture TextureID = -1

// HitRecord contains information about a ray-object intersection.
// It is overwritten by every candidate test and only trusted once the
// caller has decided it is the closest hit.
type HitRecord struct {
	Point     core.Vec3 // Point of intersection
	Normal    core.Vec3 // Surface normal, always facing against the ray
	T         float64   // Parameter t along the ray
	UV        core.Vec2 // Texture coordinates
	FrontFace bool      // Whether ray hit the front face
	Material  ID        // Material of the hit object
}

// SetFaceNormal sets the normal vector and determines front/back face.
// outwardNormal is assumed to be unit length.
func (h *HitRecord) SetFaceNormal(ray core.Ray, outwardNormal core.Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}

// ScatterResult contains the result of material scattering
type ScatterResult struct {
	Scattered   core.Ray  // The scattered ray
	Attenuation core.Vec3 // Color attenuation
}
