package geometry

import (
	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
)

// List is a flat aggregate that tests every member
type List struct {
	Members []Ref
	bbox    core.AABB
}

// AddList stores an ordered list of primitives and returns its handle.
// An empty list is valid and never reports a hit.
func (a *Arena) AddList(members ...Ref) Ref {
	bbox := core.EmptyAABB
	for _, m := range members {
		bbox = bbox.Merge(a.BoundingBox(m))
	}
	a.lists = append(a.lists, List{
		Members: append([]Ref(nil), members...),
		bbox:    bbox,
	})
	return Ref{Kind: KindList, Index: int32(len(a.lists) - 1)}
}

// hitList scans all members, shrinking the interval to the closest hit so far
func (a *Arena) hitList(list *List, ray core.Ray, rayT core.Interval, rec *material.HitRecord) bool {
	var candidate material.HitRecord
	hitAnything := false
	closestSoFar := rayT.Max

	for _, member := range list.Members {
		if a.Hit(member, ray, core.NewInterval(rayT.Min, closestSoFar), &candidate) {
			hitAnything = true
			closestSoFar = candidate.T
			*rec = candidate
		}
	}

	return hitAnything
}
