package geometry

import (
	"fmt"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
)

// Kind tags the variant a Ref points at
type Kind uint8

const (
	KindSphere Kind = iota
	KindQuad
	KindTriangle
	KindInstance
	KindList
	KindBVH
)

func (k Kind) String() string {
	switch k {
	case KindSphere:
		return "sphere"
	case KindQuad:
		return "quad"
	case KindTriangle:
		return "triangle"
	case KindInstance:
		return "instance"
	case KindList:
		return "list"
	case KindBVH:
		return "bvh"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Ref is a stable handle to a primitive stored in an Arena
type Ref struct {
	Kind  Kind
	Index int32
}

func (r Ref) String() string {
	return fmt.Sprintf("%s#%d", r.Kind, r.Index)
}

// Arena owns every primitive of a scene. Composite primitives (instances,
// lists, BVH nodes) refer to their children by Ref, so a child may be
// shared by many parents. Adding is not safe for concurrent use; Hit and
// BoundingBox are, once the scene is built.
type Arena struct {
	spheres   []Sphere
	quads     []Quad
	triangles []Triangle
	instances []Instance
	lists     []List
	nodes     []BVHNode
}

// NewArena creates an empty arena
func NewArena() *Arena {
	return &Arena{}
}

// Valid reports whether ref resolves to a stored primitive
func (a *Arena) Valid(ref Ref) bool {
	if ref.Index < 0 {
		return false
	}
	i := int(ref.Index)
	switch ref.Kind {
	case KindSphere:
		return i < len(a.spheres)
	case KindQuad:
		return i < len(a.quads)
	case KindTriangle:
		return i < len(a.triangles)
	case KindInstance:
		return i < len(a.instances)
	case KindList:
		return i < len(a.lists)
	case KindBVH:
		return i < len(a.nodes)
	default:
		return false
	}
}

// Hit finds the closest intersection of ray with the primitive behind ref
// whose t lies in rayT. rec is only written when it returns true.
func (a *Arena) Hit(ref Ref, ray core.Ray, rayT core.Interval, rec *material.HitRecord) bool {
	if !a.Valid(ref) {
		return false
	}
	switch ref.Kind {
	case KindSphere:
		return a.spheres[ref.Index].hit(ray, rayT, rec)
	case KindQuad:
		return a.quads[ref.Index].hit(ray, rayT, rec)
	case KindTriangle:
		return a.triangles[ref.Index].hit(ray, rayT, rec)
	case KindInstance:
		return a.hitInstance(&a.instances[ref.Index], ray, rayT, rec)
	case KindList:
		return a.hitList(&a.lists[ref.Index], ray, rayT, rec)
	case KindBVH:
		return a.hitNode(&a.nodes[ref.Index], ray, rayT, rec)
	}
	return false
}

// BoundingBox returns the cached bounds of the primitive behind ref
func (a *Arena) BoundingBox(ref Ref) core.AABB {
	if !a.Valid(ref) {
		return core.EmptyAABB
	}
	switch ref.Kind {
	case KindSphere:
		return a.spheres[ref.Index].bbox
	case KindQuad:
		return a.quads[ref.Index].bbox
	case KindTriangle:
		return a.triangles[ref.Index].bbox
	case KindInstance:
		return a.instances[ref.Index].bbox
	case KindList:
		return a.lists[ref.Index].bbox
	case KindBVH:
		return a.nodes[ref.Index].bbox
	}
	return core.EmptyAABB
}

// Counts returns how many primitives of each kind the arena holds
func (a *Arena) Counts() map[Kind]int {
	return map[Kind]int{
		KindSphere:   len(a.spheres),
		KindQuad:     len(a.quads),
		KindTriangle: len(a.triangles),
		KindInstance: len(a.instances),
		KindList:     len(a.lists),
		KindBVH:      len(a.nodes),
	}
}
