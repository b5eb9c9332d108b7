package geometry

import (
	"errors"
	"math"
	"testing"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
)

func TestInstance_Translation(t *testing.T) {
	arena := NewArena()
	sphere := arena.AddSphere(core.NewVec3(0, 0, 0), 1, 0)
	moved, err := arena.AddInstance(sphere, Translate(core.NewVec3(5, 0, 0)))
	if err != nil {
		t.Fatalf("AddInstance failed: %v", err)
	}

	var rec material.HitRecord
	ray := core.NewRay(core.NewVec3(5, 0, 5), core.NewVec3(0, 0, -1))
	if !arena.Hit(moved, ray, defaultInterval, &rec) {
		t.Fatal("Expected hit on translated sphere")
	}
	if math.Abs(rec.T-4) > tolerance {
		t.Errorf("Expected t=4, got %f", rec.T)
	}
	if !vecNear(rec.Point, core.NewVec3(5, 0, 1), 1e-9) {
		t.Errorf("Expected world point (5,0,1), got %v", rec.Point)
	}
	if !vecNear(rec.Normal, core.NewVec3(0, 0, 1), 1e-9) || !rec.FrontFace {
		t.Errorf("Expected front-facing +Z normal, got %v front=%t", rec.Normal, rec.FrontFace)
	}

	// The original position is empty
	if arena.Hit(moved, core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1)), defaultInterval, &rec) {
		t.Error("Expected miss at the untransformed position")
	}

	box := arena.BoundingBox(moved)
	if !vecNear(box.Min(), core.NewVec3(4, -1, -1), 1e-9) || !vecNear(box.Max(), core.NewVec3(6, 1, 1), 1e-9) {
		t.Errorf("Unexpected instance bounds %v", box)
	}
}

func TestInstance_Rotation(t *testing.T) {
	arena := NewArena()
	// Quad facing +Z; rotated 90 degrees about Y it faces +X
	quad := arena.AddQuad(core.NewVec3(-1, -1, 0), core.NewVec3(2, 0, 0), core.NewVec3(0, 2, 0), 0)
	rotated, err := arena.AddInstance(quad, Rotate(core.NewVec3(0, 90, 0)))
	if err != nil {
		t.Fatalf("AddInstance failed: %v", err)
	}

	var rec material.HitRecord
	ray := core.NewRay(core.NewVec3(3, 0.5, 0.5), core.NewVec3(-1, 0, 0))
	if !arena.Hit(rotated, ray, defaultInterval, &rec) {
		t.Fatal("Expected hit on rotated quad")
	}
	if math.Abs(rec.T-3) > 1e-9 {
		t.Errorf("Expected t=3, got %f", rec.T)
	}
	if !vecNear(rec.Normal, core.NewVec3(1, 0, 0), 1e-9) {
		t.Errorf("Expected +X normal, got %v", rec.Normal)
	}
	if !rec.FrontFace {
		t.Error("Expected front face after rotation")
	}

	// Hitting from behind keeps FrontFace consistent with the world ray
	back := core.NewRay(core.NewVec3(-3, 0.5, 0.5), core.NewVec3(1, 0, 0))
	if !arena.Hit(rotated, back, defaultInterval, &rec) {
		t.Fatal("Expected back hit")
	}
	if rec.FrontFace {
		t.Error("Expected back face")
	}
	if !vecNear(rec.Normal, core.NewVec3(-1, 0, 0), 1e-9) {
		t.Errorf("Expected -X normal, got %v", rec.Normal)
	}
}

func TestInstance_ScalePreservesT(t *testing.T) {
	arena := NewArena()
	sphere := arena.AddSphere(core.NewVec3(0, 0, 0), 1, 0)
	scaled, err := arena.AddInstance(sphere, Transform{Scale: core.NewVec3(2, 2, 2)})
	if err != nil {
		t.Fatalf("AddInstance failed: %v", err)
	}

	var rec material.HitRecord
	ray := core.NewRay(core.NewVec3(0, 0, 10), core.NewVec3(0, 0, -1))
	if !arena.Hit(scaled, ray, defaultInterval, &rec) {
		t.Fatal("Expected hit")
	}
	if math.Abs(rec.T-8) > 1e-9 {
		t.Errorf("Expected t=8 for radius-2 sphere, got %f", rec.T)
	}
	if !vecNear(ray.At(rec.T), rec.Point, 1e-9) {
		t.Errorf("World point %v does not lie on the ray at t=%f", rec.Point, rec.T)
	}
}

func TestInstance_NestedRotateThenPlace(t *testing.T) {
	arena := NewArena()
	quad := arena.AddQuad(core.NewVec3(-1, -1, 0), core.NewVec3(2, 0, 0), core.NewVec3(0, 2, 0), 0)
	rotated, err := arena.AddInstance(quad, Rotate(core.NewVec3(0, 90, 0)))
	if err != nil {
		t.Fatal(err)
	}
	placed, err := arena.AddInstance(rotated, Translate(core.NewVec3(0, 0, -5)))
	if err != nil {
		t.Fatal(err)
	}

	var rec material.HitRecord
	ray := core.NewRay(core.NewVec3(4, 0, -5), core.NewVec3(-1, 0, 0))
	if !arena.Hit(placed, ray, defaultInterval, &rec) {
		t.Fatal("Expected hit on nested instance")
	}
	if !vecNear(rec.Point, core.NewVec3(0, 0, -5), 1e-9) {
		t.Errorf("Expected point (0,0,-5), got %v", rec.Point)
	}
}

func TestInstance_Errors(t *testing.T) {
	arena := NewArena()
	sphere := arena.AddSphere(core.NewVec3(0, 0, 0), 1, 0)

	_, err := arena.AddInstance(sphere, Transform{Scale: core.NewVec3(1, 0, 1)})
	if !errors.Is(err, ErrSingularTransform) {
		t.Errorf("Expected ErrSingularTransform, got %v", err)
	}

	_, err = arena.AddInstance(Ref{Kind: KindQuad, Index: 7}, Translate(core.Vec3{}))
	if !errors.Is(err, ErrInvalidRef) {
		t.Errorf("Expected ErrInvalidRef, got %v", err)
	}
}

func TestInstance_OfEmptyList(t *testing.T) {
	arena := NewArena()
	empty := arena.AddList()
	inst, err := arena.AddInstance(empty, Translate(core.NewVec3(1, 2, 3)))
	if err != nil {
		t.Fatal(err)
	}
	if !arena.BoundingBox(inst).X.IsEmpty() {
		t.Errorf("Instance of empty list should have empty bounds, got %v", arena.BoundingBox(inst))
	}

	var rec material.HitRecord
	if arena.Hit(inst, core.NewRay(core.Vec3{}, core.NewVec3(1, 2, 3)), defaultInterval, &rec) {
		t.Error("Empty instance should never hit")
	}
}
