package core

// aabbPadding is the minimum thickness Pad enforces on every axis
const aabbPadding = 1e-4

// AABB represents an axis-aligned bounding box as one interval per axis
type AABB struct {
	X, Y, Z Interval
}

// EmptyAABB bounds nothing and is the identity for Merge
var EmptyAABB = AABB{X: EmptyInterval, Y: EmptyInterval, Z: EmptyInterval}

// NewAABB creates a new AABB from per-axis intervals
func NewAABB(x, y, z Interval) AABB {
	return AABB{X: x, Y: y, Z: z}
}

// NewAABBFromPoints creates an AABB that bounds all given points
func NewAABBFromPoints(points ...Vec3) AABB {
	box := EmptyAABB
	for _, p := range points {
		box.X = NewIntervalUnion(box.X, Interval{p.X, p.X})
		box.Y = NewIntervalUnion(box.Y, Interval{p.Y, p.Y})
		box.Z = NewIntervalUnion(box.Z, Interval{p.Z, p.Z})
	}
	return box
}

// Merge returns an AABB spanning both boxes
func (box AABB) Merge(other AABB) AABB {
	return AABB{
		X: NewIntervalUnion(box.X, other.X),
		Y: NewIntervalUnion(box.Y, other.Y),
		Z: NewIntervalUnion(box.Z, other.Z),
	}
}

// Axis returns the interval for axis 0=X, 1=Y, 2=Z
func (box AABB) Axis(n int) Interval {
	switch n {
	case 0:
		return box.X
	case 1:
		return box.Y
	default:
		return box.Z
	}
}

// Min returns the minimum corner
func (box AABB) Min() Vec3 {
	return Vec3{box.X.Min, box.Y.Min, box.Z.Min}
}

// Max returns the maximum corner
func (box AABB) Max() Vec3 {
	return Vec3{box.X.Max, box.Y.Max, box.Z.Max}
}

// Centroid returns the center point of the box
func (box AABB) Centroid() Vec3 {
	return box.Min().Add(box.Max()).Multiply(0.5)
}

// LongestAxis returns the axis (0=X, 1=Y, 2=Z) with the longest extent
func (box AABB) LongestAxis() int {
	x, y, z := box.X.Size(), box.Y.Size(), box.Z.Size()
	if x > y && x > z {
		return 0
	}
	if y > z {
		return 1
	}
	return 2
}

// Hit tests if a ray intersects the box within rayT using the slab method.
// A zero direction component divides to ±Inf, which the comparisons handle.
func (box AABB) Hit(ray Ray, rayT Interval) bool {
	for axis := 0; axis < 3; axis++ {
		slab := box.Axis(axis)
		origin := ray.Origin.Axis(axis)
		invD := 1.0 / ray.Direction.Axis(axis)

		t0 := (slab.Min - origin) * invD
		t1 := (slab.Max - origin) * invD
		if invD < 0 {
			t0, t1 = t1, t0
		}

		if t0 > rayT.Min {
			rayT.Min = t0
		}
		if t1 < rayT.Max {
			rayT.Max = t1
		}

		if rayT.Min > rayT.Max {
			return false
		}
	}
	return true
}

// Pad returns a copy where no axis is thinner than 1e-4
func (box AABB) Pad() AABB {
	padded := box
	if padded.X.Size() < aabbPadding {
		padded.X = padded.X.Expand(aabbPadding)
	}
	if padded.Y.Size() < aabbPadding {
		padded.Y = padded.Y.Expand(aabbPadding)
	}
	if padded.Z.Size() < aabbPadding {
		padded.Z = padded.Z.Expand(aabbPadding)
	}
	return padded
}

// Transform returns the box bounding all 8 transformed corners
func (box AABB) Transform(m Mat4) AABB {
	result := EmptyAABB
	for i := 0; i < 8; i++ {
		corner := Vec3{
			X: pick(i&1 == 0, box.X.Min, box.X.Max),
			Y: pick(i&2 == 0, box.Y.Min, box.Y.Max),
			Z: pick(i&4 == 0, box.Z.Min, box.Z.Max),
		}
		result = result.Merge(NewAABBFromPoints(TransformPoint(m, corner)))
	}
	return result
}

func pick(first bool, a, b float64) float64 {
	if first {
		return a
	}
	return b
}
