package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
)

const tolerance = 1e-9

var defaultInterval = core.NewInterval(0.001, math.Inf(1))

func vecNear(a, b core.Vec3, tol float64) bool {
	return a.Subtract(b).Length() <= tol
}

func TestSphere_Hit_Miss(t *testing.T) {
	arena := NewArena()
	sphere := arena.AddSphere(core.NewVec3(0, 0, 0), 1.0, 0)
	ray := core.NewRay(core.NewVec3(2, 0, 0), core.NewVec3(0, 1, 0))

	var rec material.HitRecord
	if arena.Hit(sphere, ray, defaultInterval, &rec) {
		t.Errorf("Expected miss, but got hit at t=%f", rec.T)
	}
}

func TestSphere_Hit_FrontAndBackFace(t *testing.T) {
	arena := NewArena()
	sphere := arena.AddSphere(core.NewVec3(0, 0, 0), 1.0, 3)

	tests := []struct {
		name           string
		rayOrigin      core.Vec3
		rayDirection   core.Vec3
		expectedT      float64
		expectedFront  bool
		expectedNormal core.Vec3
	}{
		{
			name:           "front face hit",
			rayOrigin:      core.NewVec3(0, 0, 2),
			rayDirection:   core.NewVec3(0, 0, -1),
			expectedT:      1.0,
			expectedFront:  true,
			expectedNormal: core.NewVec3(0, 0, 1),
		},
		{
			name:           "back face hit",
			rayOrigin:      core.NewVec3(0, 0, 0),
			rayDirection:   core.NewVec3(0, 0, 1),
			expectedT:      1.0,
			expectedFront:  false,
			expectedNormal: core.NewVec3(0, 0, -1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec material.HitRecord
			if !arena.Hit(sphere, core.NewRay(tt.rayOrigin, tt.rayDirection), defaultInterval, &rec) {
				t.Fatal("Expected hit, but got miss")
			}
			if math.Abs(rec.T-tt.expectedT) > tolerance {
				t.Errorf("Expected t=%f, got t=%f", tt.expectedT, rec.T)
			}
			if rec.FrontFace != tt.expectedFront {
				t.Errorf("Expected front face %t, got %t", tt.expectedFront, rec.FrontFace)
			}
			if !vecNear(rec.Normal, tt.expectedNormal, tolerance) {
				t.Errorf("Expected normal %v, got %v", tt.expectedNormal, rec.Normal)
			}
			if rec.Material != 3 {
				t.Errorf("Expected material 3, got %d", rec.Material)
			}
		})
	}
}

func TestSphere_Hit_RespectsInterval(t *testing.T) {
	arena := NewArena()
	sphere := arena.AddSphere(core.NewVec3(0, 0, -1), 0.5, 0)
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	var rec material.HitRecord
	if !arena.Hit(sphere, ray, defaultInterval, &rec) {
		t.Fatal("Expected hit")
	}
	if math.Abs(rec.T-0.5) > tolerance {
		t.Errorf("Expected t=0.5, got %f", rec.T)
	}

	// Only the far root lies inside (0.6, inf)
	if !arena.Hit(sphere, ray, core.NewInterval(0.6, math.Inf(1)), &rec) {
		t.Fatal("Expected far hit")
	}
	if math.Abs(rec.T-1.5) > tolerance {
		t.Errorf("Expected t=1.5, got %f", rec.T)
	}

	if arena.Hit(sphere, ray, core.NewInterval(0.001, 0.4), &rec) {
		t.Error("Expected miss when both roots lie outside the interval")
	}
}

func TestSphere_UV(t *testing.T) {
	tests := []struct {
		point core.Vec3
		u, v  float64
	}{
		{core.NewVec3(1, 0, 0), 0.5, 0.5},
		{core.NewVec3(0, 1, 0), 0.5, 1.0},
		{core.NewVec3(0, -1, 0), 0.5, 0.0},
		{core.NewVec3(-1, 0, 0), 0.0, 0.5},
		{core.NewVec3(0, 0, 1), 0.25, 0.5},
	}

	for _, tt := range tests {
		uv := sphereUV(tt.point)
		if math.Abs(uv.X-tt.u) > 1e-9 || math.Abs(uv.Y-tt.v) > 1e-9 {
			t.Errorf("sphereUV(%v) = (%f, %f), expected (%f, %f)", tt.point, uv.X, uv.Y, tt.u, tt.v)
		}
	}
}

func TestSphere_BoundingBox(t *testing.T) {
	arena := NewArena()
	sphere := arena.AddSphere(core.NewVec3(1, 2, 3), -2, 0)
	box := arena.BoundingBox(sphere)

	if !vecNear(box.Min(), core.NewVec3(-1, 0, 1), tolerance) || !vecNear(box.Max(), core.NewVec3(3, 4, 5), tolerance) {
		t.Errorf("Unexpected bounds %v", box)
	}
}
