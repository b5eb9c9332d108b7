package geometry

import (
	"fmt"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
)

// Transform places an instance in the world. The composed matrix is
// scale ∘ rotation ∘ translation: points are translated first, then
// rotated about the origin, then scaled.
type Transform struct {
	Translation core.Vec3
	Rotation    core.Vec3 // Degrees about X, Y and Z, applied X first
	Scale       core.Vec3
}

// NewTransform returns a transform with unit scale
func NewTransform(translation, rotation core.Vec3) Transform {
	return Transform{Translation: translation, Rotation: rotation, Scale: core.NewVec3(1, 1, 1)}
}

// Translate returns a translation-only transform
func Translate(offset core.Vec3) Transform {
	return NewTransform(offset, core.Vec3{})
}

// Rotate returns a rotation-only transform
func Rotate(degrees core.Vec3) Transform {
	return NewTransform(core.Vec3{}, degrees)
}

// Matrix returns the composed forward matrix
func (t Transform) Matrix() core.Mat4 {
	return core.Scaling(t.Scale).Mul4(core.Rotation(t.Rotation)).Mul4(core.Translation(t.Translation))
}

// Instance wraps a child primitive in an affine transform without copying it
type Instance struct {
	Child     Ref
	Transform Transform
	forward   core.Mat4
	inverse   core.Mat4
	// Directions skip translation, so they use the linear part only
	inverseLinear core.Mat3
	normalMatrix  core.Mat3
	bbox          core.AABB
}

// AddInstance stores an instance of child. A transform that cannot be
// inverted is rejected with ErrSingularTransform.
func (a *Arena) AddInstance(child Ref, transform Transform) (Ref, error) {
	if !a.Valid(child) {
		return Ref{}, fmt.Errorf("instance child %v: %w", child, ErrInvalidRef)
	}

	forward := transform.Matrix()
	inverse, ok := core.Inverse(forward)
	if !ok {
		return Ref{}, fmt.Errorf("scale %v rotation %v translation %v: %w",
			transform.Scale, transform.Rotation, transform.Translation, ErrSingularTransform)
	}

	bbox := core.EmptyAABB
	if childBox := a.BoundingBox(child); !childBox.X.IsEmpty() {
		bbox = childBox.Transform(forward)
	}

	inverseLinear := inverse.Mat3()
	a.instances = append(a.instances, Instance{
		Child:         child,
		Transform:     transform,
		forward:       forward,
		inverse:       inverse,
		inverseLinear: inverseLinear,
		normalMatrix:  inverseLinear.Transpose(),
		bbox:          bbox,
	})
	return Ref{Kind: KindInstance, Index: int32(len(a.instances) - 1)}, nil
}

// hitInstance moves the ray into child space, intersects the child and
// moves the hit back. t is unchanged because the direction is mapped by
// the same linear part as the offset from the origin.
func (a *Arena) hitInstance(inst *Instance, ray core.Ray, rayT core.Interval, rec *material.HitRecord) bool {
	local := core.NewRay(
		core.TransformPoint(inst.inverse, ray.Origin),
		core.TransformVector(inst.inverseLinear, ray.Direction),
	)

	var localRec material.HitRecord
	if !a.Hit(inst.Child, local, rayT, &localRec) {
		return false
	}

	outward := localRec.Normal
	if !localRec.FrontFace {
		outward = outward.Negate()
	}

	*rec = localRec
	rec.Point = core.TransformPoint(inst.forward, localRec.Point)
	rec.SetFaceNormal(ray, core.TransformVector(inst.normalMatrix, outward).Normalize())
	return true
}
