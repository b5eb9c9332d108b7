package scene

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/geometry"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
)

var hitInterval = core.NewInterval(0.001, math.Inf(1))

func TestCreate_AllScenes(t *testing.T) {
	for _, info := range List() {
		t.Run(info.ID, func(t *testing.T) {
			s, err := Create(info.ID, DefaultOptions())
			if err != nil {
				t.Fatalf("Expected scene to build, got %v", err)
			}
			if s.Name != info.ID {
				t.Errorf("Expected name %q, got %q", info.ID, s.Name)
			}
			if err := s.World().Validate(); err != nil {
				t.Errorf("Expected valid world, got %v", err)
			}
			if err := s.Camera.Validate(); err != nil {
				t.Errorf("Expected valid camera, got %v", err)
			}
			if err := s.Materials.Validate(); err != nil {
				t.Errorf("Expected valid materials, got %v", err)
			}
			if s.Root.Kind != geometry.KindBVH {
				t.Errorf("Expected BVH root, got %v", s.Root.Kind)
			}
		})
	}
}

func TestCreate_UnknownScene(t *testing.T) {
	_, err := Create("no-such-scene", DefaultOptions())
	if !errors.Is(err, ErrUnknownScene) {
		t.Errorf("Expected ErrUnknownScene, got %v", err)
	}
}

func TestList_SortedAndComplete(t *testing.T) {
	infos := List()
	if len(infos) != 5 {
		t.Fatalf("Expected 5 scenes, got %d", len(infos))
	}
	for i := 1; i < len(infos); i++ {
		if infos[i-1].ID >= infos[i].ID {
			t.Errorf("Expected sorted IDs, got %q before %q", infos[i-1].ID, infos[i].ID)
		}
	}
}

func TestDefaultScene_CenterSphere(t *testing.T) {
	s, err := NewDefaultScene(DefaultOptions())
	if err != nil {
		t.Fatalf("Expected scene to build, got %v", err)
	}

	// Straight at the middle sphere, radius 0.5 centered at (0,0,-1)
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
	var rec material.HitRecord
	if !s.Geometry.Hit(s.Root, ray, hitInterval, &rec) {
		t.Fatal("Expected hit on the middle sphere")
	}
	if math.Abs(rec.T-0.5) > 1e-9 {
		t.Errorf("Expected t=0.5, got %f", rec.T)
	}
	if !rec.FrontFace {
		t.Error("Expected front face hit")
	}

	// Straight down onto the ground sphere, whose top is at y=-0.5
	ray = core.NewRay(core.NewVec3(5, 1, -1), core.NewVec3(0, -1, 0))
	if !s.Geometry.Hit(s.Root, ray, hitInterval, &rec) {
		t.Fatal("Expected hit on the ground sphere")
	}
	if rec.Point.Y > -0.5 {
		t.Errorf("Expected ground hit below y=-0.5, got %f", rec.Point.Y)
	}
}

func TestDefaultScene_FlatMatchesBVH(t *testing.T) {
	bvhScene, err := NewDefaultScene(DefaultOptions())
	if err != nil {
		t.Fatalf("Expected scene to build, got %v", err)
	}
	opts := DefaultOptions()
	opts.Flat = true
	flatScene, err := NewDefaultScene(opts)
	if err != nil {
		t.Fatalf("Expected scene to build, got %v", err)
	}
	if flatScene.Root.Kind != geometry.KindList {
		t.Fatalf("Expected list root, got %v", flatScene.Root.Kind)
	}

	sampler := core.NewSeededSampler(7)
	origin := core.NewVec3(-2, 2, 1)
	for i := 0; i < 500; i++ {
		target := core.NewVec3(-1.5+3*sampler.Get1D(), -0.6+1.2*sampler.Get1D(), -1)
		ray := core.NewRay(origin, target.Subtract(origin))

		var a, b material.HitRecord
		hitA := bvhScene.Geometry.Hit(bvhScene.Root, ray, hitInterval, &a)
		hitB := flatScene.Geometry.Hit(flatScene.Root, ray, hitInterval, &b)
		if hitA != hitB {
			t.Fatalf("ray %d: expected hit=%v from list, got %v from BVH", i, hitB, hitA)
		}
		if hitA && math.Abs(a.T-b.T) > 1e-9 {
			t.Errorf("ray %d: expected t=%f, got %f", i, b.T, a.T)
		}
	}
}

func TestCornellScene_BoxesInsideRoom(t *testing.T) {
	s, err := NewCornellScene(DefaultOptions())
	if err != nil {
		t.Fatalf("Expected scene to build, got %v", err)
	}

	box := s.Geometry.BoundingBox(s.Root)
	for axis := 0; axis < 3; axis++ {
		span := box.Axis(axis)
		if span.Min < -0.01 || span.Max > cornellSize+0.01 {
			t.Errorf("axis %d: expected bounds within the room, got [%f, %f]", axis, span.Min, span.Max)
		}
	}

	// Straight down onto the middle of the tall box, whose top is at y=330
	ray := core.NewRay(core.NewVec3(345, 500, 375), core.NewVec3(0, -1, 0))
	var rec material.HitRecord
	if !s.Geometry.Hit(s.Root, ray, hitInterval, &rec) {
		t.Fatal("Expected hit")
	}
	if math.Abs(rec.Point.Y-330) > 1e-6 {
		t.Errorf("Expected to land on the tall box at y=330, got y=%f", rec.Point.Y)
	}
}

func TestCornellScene_BlackBackground(t *testing.T) {
	s, err := NewCornellScene(DefaultOptions())
	if err != nil {
		t.Fatalf("Expected scene to build, got %v", err)
	}
	ray := core.NewRay(core.NewVec3(278, 278, -800), core.NewVec3(0, 0, -1))
	if c := s.World().BackgroundColor(ray); c != (core.Vec3{}) {
		t.Errorf("Expected black background, got %v", c)
	}
}

func TestGroundQuad_FacesUp(t *testing.T) {
	arena := geometry.NewArena()
	ground := NewGroundQuad(arena, core.NewVec3(0, -1, 0), 10, 0)

	ray := core.NewRay(core.NewVec3(1, 5, 1), core.NewVec3(0, -1, 0))
	var rec material.HitRecord
	if !arena.Hit(ground, ray, hitInterval, &rec) {
		t.Fatal("Expected hit")
	}
	if !rec.FrontFace {
		t.Error("Expected front face from above")
	}
	if rec.Normal.Subtract(core.NewVec3(0, 1, 0)).Length() > 1e-9 {
		t.Errorf("Expected normal (0,1,0), got %v", rec.Normal)
	}
	if math.Abs(rec.T-6) > 1e-9 {
		t.Errorf("Expected t=6, got %f", rec.T)
	}
}

func TestMeshScene_LoadsOBJFile(t *testing.T) {
	// Slanted quad spanning y 5..9; it is scaled by 0.5 and moved to the origin
	obj := "v -1 5 -1\nv 1 5 -1\nv 1 9 1\nv -1 9 1\nf 1 2 3 4\n"
	path := filepath.Join(t.TempDir(), "slant.obj")
	if err := os.WriteFile(path, []byte(obj), 0o644); err != nil {
		t.Fatalf("failed to write OBJ: %v", err)
	}

	opts := DefaultOptions()
	opts.MeshPath = path
	s, err := NewMeshScene(opts)
	if err != nil {
		t.Fatalf("Expected scene to build, got %v", err)
	}
	if got := s.Geometry.Counts()[geometry.KindTriangle]; got != 2 {
		t.Errorf("Expected 2 triangles, got %d", got)
	}

	// Off the diagonal shared by the two fan triangles
	ray := core.NewRay(core.NewVec3(0.3, 10, 0), core.NewVec3(0, -1, 0))
	var rec material.HitRecord
	if !s.Geometry.Hit(s.Root, ray, hitInterval, &rec) {
		t.Fatal("Expected hit on the mesh")
	}
	if math.Abs(rec.Point.Y-1) > 1e-6 {
		t.Errorf("Expected hit at y=1, got %f", rec.Point.Y)
	}
}

func TestMeshScene_MissingOBJFile(t *testing.T) {
	opts := DefaultOptions()
	opts.MeshPath = filepath.Join(t.TempDir(), "missing.obj")
	if _, err := NewMeshScene(opts); err == nil {
		t.Error("Expected error for a missing OBJ file")
	}
}

func TestMeshScene_BuiltinMeshes(t *testing.T) {
	s, err := NewMeshScene(DefaultOptions())
	if err != nil {
		t.Fatalf("Expected scene to build, got %v", err)
	}
	// 12 box + 6 pyramid + 20 icosahedron
	if got := s.Geometry.Counts()[geometry.KindTriangle]; got != 38 {
		t.Errorf("Expected 38 triangles, got %d", got)
	}

	// Just off the pyramid apex at (0,1.5,0). The 45 degree spin puts the
	// ray over the middle of a side that drops 2 units per unit outward.
	ray := core.NewRay(core.NewVec3(0.05, 5, 0.05), core.NewVec3(0, -1, 0))
	var rec material.HitRecord
	if !s.Geometry.Hit(s.Root, ray, hitInterval, &rec) {
		t.Fatal("Expected hit on the pyramid")
	}
	expected := 1.5 - 2*0.05*math.Sqrt2
	if math.Abs(rec.Point.Y-expected) > 1e-6 {
		t.Errorf("Expected hit at y=%f, got %f", expected, rec.Point.Y)
	}
}

func TestTextureScene_MissingImageFallsBack(t *testing.T) {
	opts := DefaultOptions()
	opts.TexturePath = filepath.Join(t.TempDir(), "missing.png")
	s, err := NewTextureScene(opts)
	if err != nil {
		t.Fatalf("Expected scene to build despite a missing image, got %v", err)
	}
	if err := s.World().Validate(); err != nil {
		t.Errorf("Expected valid world, got %v", err)
	}
}

func TestTextureScene_SkyImage(t *testing.T) {
	s, err := NewTextureScene(DefaultOptions())
	if err != nil {
		t.Fatalf("Expected scene to build, got %v", err)
	}
	world := s.World()

	up := world.BackgroundColor(core.NewRay(core.Vec3{}, core.NewVec3(0, 1, 0)))
	down := world.BackgroundColor(core.NewRay(core.Vec3{}, core.NewVec3(0, -1, 0)))
	if up.Z <= down.Z {
		t.Errorf("Expected a bluer zenith than nadir, got up=%v down=%v", up, down)
	}
}

func TestSphereGridScene_Counts(t *testing.T) {
	s, err := NewSphereGridScene(DefaultOptions())
	if err != nil {
		t.Fatalf("Expected scene to build, got %v", err)
	}
	counts := s.Geometry.Counts()
	if counts[geometry.KindSphere] != sphereGridSize*sphereGridSize {
		t.Errorf("Expected %d spheres, got %d", sphereGridSize*sphereGridSize, counts[geometry.KindSphere])
	}
	if counts[geometry.KindQuad] != 1 {
		t.Errorf("Expected 1 ground quad, got %d", counts[geometry.KindQuad])
	}
}

func TestScene_SequentialBuildMatchesParallel(t *testing.T) {
	parallel, err := NewSphereGridScene(DefaultOptions())
	if err != nil {
		t.Fatalf("Expected scene to build, got %v", err)
	}
	opts := DefaultOptions()
	opts.Build.Parallel = false
	sequential, err := NewSphereGridScene(opts)
	if err != nil {
		t.Fatalf("Expected scene to build, got %v", err)
	}

	a := parallel.Geometry.Stats(parallel.Root)
	b := sequential.Geometry.Stats(sequential.Root)
	if a != b {
		t.Errorf("Expected identical BVH stats, got %+v and %+v", a, b)
	}
}

func TestOklchToRGB(t *testing.T) {
	tests := []struct {
		name     string
		l, c, h  float64
		expected core.Vec3
	}{
		{"white", 1, 0, 0, core.NewVec3(1, 1, 1)},
		{"black", 0, 0, 120, core.NewVec3(0, 0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := oklchToRGB(tt.l, tt.c, tt.h)
			if got.Subtract(tt.expected).Length() > 1e-6 {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}
