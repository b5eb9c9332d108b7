package material

import (
	"testing"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

func frontHit(mat ID) HitRecord {
	return HitRecord{
		Point:     core.NewVec3(0, 0, 0),
		Normal:    core.NewVec3(0, 1, 0),
		T:         1.0,
		FrontFace: true,
		Material:  mat,
	}
}

// fixedSampler replays a fixed cycle of values
type fixedSampler struct {
	values []float64
	next   int
}

func (f *fixedSampler) Get1D() float64 {
	v := f.values[f.next%len(f.values)]
	f.next++
	return v
}

func (f *fixedSampler) Get2D() core.Vec2 { return core.NewVec2(f.Get1D(), f.Get1D()) }
func (f *fixedSampler) Get3D() core.Vec3 { return core.NewVec3(f.Get1D(), f.Get1D(), f.Get1D()) }

func TestLambertian_ScatterAboveSurface(t *testing.T) {
	lib := NewLibrary()
	red := lib.NewLambertian(core.NewVec3(0.8, 0.1, 0.1))
	hit := frontHit(red)
	ray := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0))
	sampler := core.NewSeededSampler(42)

	for i := 0; i < 500; i++ {
		result, ok := lib.Scatter(ray, hit, sampler)
		if !ok {
			t.Fatal("Lambertian should always scatter")
		}
		if result.Scattered.Direction.Dot(hit.Normal) < 0 {
			t.Fatalf("Scattered direction %v points below the surface", result.Scattered.Direction)
		}
		if result.Scattered.Origin != hit.Point {
			t.Fatalf("Expected scattered origin %v, got %v", hit.Point, result.Scattered.Origin)
		}
		if result.Attenuation != core.NewVec3(0.8, 0.1, 0.1) {
			t.Fatalf("Expected albedo attenuation, got %v", result.Attenuation)
		}
	}
}

func TestLambertian_DegenerateDirectionFallsBackToNormal(t *testing.T) {
	lib := NewLibrary()
	mat := lib.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))
	hit := frontHit(mat)

	// The draws map to the unit vector (0,-1,0), which cancels the normal
	sampler := &fixedSampler{values: []float64{0.5, 0, 0.5}}
	result, ok := lib.Scatter(core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0)), hit, sampler)
	if !ok {
		t.Fatal("Expected scatter")
	}
	if result.Scattered.Direction != hit.Normal {
		t.Errorf("Expected fallback to normal %v, got %v", hit.Normal, result.Scattered.Direction)
	}
}

func TestAttenuationBounds(t *testing.T) {
	lib := NewLibrary()
	materials := []ID{
		lib.NewLambertian(core.NewVec3(0.2, 0.9, 1.0)),
		lib.NewLambertian(core.NewVec3(1.5, -0.2, 0.5)),
		lib.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.3),
		lib.NewMetal(core.NewVec3(2, 2, 2), 0),
	}
	ray := core.NewRay(core.NewVec3(-1, 1, 0), core.NewVec3(1, -1, 0).Normalize())
	sampler := core.NewSeededSampler(7)

	for _, id := range materials {
		for i := 0; i < 200; i++ {
			result, ok := lib.Scatter(ray, frontHit(id), sampler)
			if !ok {
				continue
			}
			a := result.Attenuation
			for _, c := range []float64{a.X, a.Y, a.Z} {
				if c < 0 || c > 1 {
					t.Fatalf("Material %d: attenuation %v outside [0,1]", id, a)
				}
			}
		}
	}
}
