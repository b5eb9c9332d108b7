package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
)

func TestQuad_Hit(t *testing.T) {
	arena := NewArena()
	// Unit square in the XY plane at z = 0, normal +Z
	quad := arena.AddQuad(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0), 1)

	tests := []struct {
		name        string
		origin      core.Vec3
		direction   core.Vec3
		shouldHit   bool
		expectedT   float64
		expectedUV  core.Vec2
		expectFront bool
	}{
		{"center from front", core.NewVec3(0.5, 0.5, 1), core.NewVec3(0, 0, -1), true, 1, core.NewVec2(0.5, 0.5), true},
		{"corner region from back", core.NewVec3(0.25, 0.75, -2), core.NewVec3(0, 0, 1), true, 2, core.NewVec2(0.25, 0.75), false},
		{"edge is inclusive", core.NewVec3(1, 1, 1), core.NewVec3(0, 0, -1), true, 1, core.NewVec2(1, 1), true},
		{"outside bounds", core.NewVec3(1.5, 0.5, 1), core.NewVec3(0, 0, -1), false, 0, core.Vec2{}, false},
		{"parallel ray", core.NewVec3(0.5, 0.5, 1), core.NewVec3(1, 0, 0), false, 0, core.Vec2{}, false},
		{"behind origin", core.NewVec3(0.5, 0.5, 1), core.NewVec3(0, 0, 1), false, 0, core.Vec2{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec material.HitRecord
			hit := arena.Hit(quad, core.NewRay(tt.origin, tt.direction), defaultInterval, &rec)
			if hit != tt.shouldHit {
				t.Fatalf("Expected hit=%t, got %t", tt.shouldHit, hit)
			}
			if !hit {
				return
			}
			if math.Abs(rec.T-tt.expectedT) > tolerance {
				t.Errorf("Expected t=%f, got %f", tt.expectedT, rec.T)
			}
			if math.Abs(rec.UV.X-tt.expectedUV.X) > tolerance || math.Abs(rec.UV.Y-tt.expectedUV.Y) > tolerance {
				t.Errorf("Expected uv %v, got %v", tt.expectedUV, rec.UV)
			}
			if rec.FrontFace != tt.expectFront {
				t.Errorf("Expected front face %t, got %t", tt.expectFront, rec.FrontFace)
			}
			if rec.Normal.Dot(tt.direction) >= 0 {
				t.Errorf("Normal %v should oppose ray direction %v", rec.Normal, tt.direction)
			}
		})
	}
}

func TestQuad_BoundingBoxIsPadded(t *testing.T) {
	arena := NewArena()
	quad := arena.AddQuad(core.NewVec3(0, 0, 5), core.NewVec3(2, 0, 0), core.NewVec3(0, 3, 0), 0)
	box := arena.BoundingBox(quad)

	if box.Z.Size() < 1e-4-1e-12 {
		t.Errorf("Flat axis should be padded, got size %g", box.Z.Size())
	}
	if !box.Z.Contains(5) {
		t.Errorf("Padded axis should still contain the plane, got %v", box.Z)
	}
	if math.Abs(box.X.Size()-2) > tolerance || math.Abs(box.Y.Size()-3) > tolerance {
		t.Errorf("Unexpected extent %v", box)
	}
}

func TestQuad_DegenerateOverlap(t *testing.T) {
	arena := NewArena()
	// Two near-zero-area quads stacked on top of each other
	a := arena.AddQuad(core.NewVec3(0, 0, 0), core.NewVec3(1e-12, 0, 0), core.NewVec3(0, 1e-12, 0), 0)
	b := arena.AddQuad(core.NewVec3(0, 0, 0), core.NewVec3(1e-12, 0, 0), core.NewVec3(0, 1e-12, 0), 1)
	list := arena.AddList(a, b)

	box := arena.BoundingBox(list)
	for axis := 0; axis < 3; axis++ {
		if box.Axis(axis).Size() < 1e-4-1e-12 {
			t.Errorf("Axis %d not padded: %v", axis, box.Axis(axis))
		}
	}

	ray := core.NewRay(core.NewVec3(0, 0, 1), core.NewVec3(0, 0, -1))
	if !box.Hit(ray, defaultInterval) {
		t.Error("Ray through padded box should pass the slab test")
	}

	var rec material.HitRecord
	arena.Hit(list, ray, defaultInterval, &rec) // must not panic
}

func TestBox_SixFacesEnclose(t *testing.T) {
	arena := NewArena()
	box := arena.AddBox(core.NewVec3(1, 1, 1), core.NewVec3(-1, -1, -1), 0)

	bounds := arena.BoundingBox(box)
	if !vecNear(bounds.Min(), core.NewVec3(-1, -1, -1), 1e-3) || !vecNear(bounds.Max(), core.NewVec3(1, 1, 1), 1e-3) {
		t.Errorf("Unexpected bounds %v", bounds)
	}

	directions := []core.Vec3{
		core.NewVec3(1, 0, 0), core.NewVec3(-1, 0, 0),
		core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0),
		core.NewVec3(0, 0, 1), core.NewVec3(0, 0, -1),
	}
	for _, dir := range directions {
		var rec material.HitRecord
		ray := core.NewRay(dir.Multiply(5), dir.Negate())
		if !arena.Hit(box, ray, defaultInterval, &rec) {
			t.Errorf("Ray from %v missed the box", ray.Origin)
			continue
		}
		if math.Abs(rec.T-4) > tolerance {
			t.Errorf("Ray from %v: expected t=4, got %f", ray.Origin, rec.T)
		}
		if !rec.FrontFace {
			t.Errorf("Ray from %v should hit an outward face", ray.Origin)
		}
	}
}
