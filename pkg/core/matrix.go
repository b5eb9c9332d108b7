package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Matrix and homogeneous vector types are mgl64's column-major values.
type (
	Mat3 = mgl64.Mat3
	Mat4 = mgl64.Mat4
	Vec4 = mgl64.Vec4
)

// singularEpsilon is the determinant magnitude below which a matrix is treated as non-invertible
const singularEpsilon = 1e-12

// Identity returns the 4x4 identity matrix
func Identity() Mat4 {
	return mgl64.Ident4()
}

// Translation returns a matrix translating points by offset
func Translation(offset Vec3) Mat4 {
	return mgl64.Translate3D(offset.X, offset.Y, offset.Z)
}

// Rotation returns Rz*Ry*Rx for per-axis angles given in degrees
func Rotation(degrees Vec3) Mat4 {
	rx := mgl64.HomogRotate3DX(mgl64.DegToRad(degrees.X))
	ry := mgl64.HomogRotate3DY(mgl64.DegToRad(degrees.Y))
	rz := mgl64.HomogRotate3DZ(mgl64.DegToRad(degrees.Z))
	return rz.Mul4(ry).Mul4(rx)
}

// Scaling returns a matrix scaling each axis independently
func Scaling(factors Vec3) Mat4 {
	return mgl64.Scale3D(factors.X, factors.Y, factors.Z)
}

// Inverse returns the inverse of m, or false when m is singular
func Inverse(m Mat4) (Mat4, bool) {
	det := m.Det()
	if math.Abs(det) < singularEpsilon || math.IsNaN(det) {
		return Mat4{}, false
	}
	return m.Inv(), true
}

// ToVec4 lifts v into homogeneous coordinates with the given w
func ToVec4(v Vec3, w float64) Vec4 {
	return Vec4{v.X, v.Y, v.Z, w}
}

// FromVec4 drops the w component, dividing by it when it is not 0 or 1
func FromVec4(v Vec4) Vec3 {
	if v[3] != 0 && v[3] != 1 {
		return Vec3{v[0] / v[3], v[1] / v[3], v[2] / v[3]}
	}
	return Vec3{v[0], v[1], v[2]}
}

// TransformPoint applies m to a position (w = 1)
func TransformPoint(m Mat4, p Vec3) Vec3 {
	return FromVec4(m.Mul4x1(ToVec4(p, 1)))
}

// TransformVector applies a linear 3x3 map to a direction
func TransformVector(m Mat3, v Vec3) Vec3 {
	r := m.Mul3x1(mgl64.Vec3{v.X, v.Y, v.Z})
	return Vec3{r[0], r[1], r[2]}
}
