package geometry

import (
	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
)

// AddBox stores the six quad faces of the axis-aligned box spanned by two
// opposite corners and returns a list holding them
func (a *Arena) AddBox(cornerA, cornerB core.Vec3, mat material.ID) Ref {
	lo := cornerA.Min(cornerB)
	hi := cornerA.Max(cornerB)

	dx := core.NewVec3(hi.X-lo.X, 0, 0)
	dy := core.NewVec3(0, hi.Y-lo.Y, 0)
	dz := core.NewVec3(0, 0, hi.Z-lo.Z)

	return a.AddList(
		a.AddQuad(core.NewVec3(lo.X, lo.Y, hi.Z), dx, dy, mat),          // front
		a.AddQuad(core.NewVec3(hi.X, lo.Y, hi.Z), dz.Negate(), dy, mat), // right
		a.AddQuad(core.NewVec3(hi.X, lo.Y, lo.Z), dx.Negate(), dy, mat), // back
		a.AddQuad(core.NewVec3(lo.X, lo.Y, lo.Z), dz, dy, mat),          // left
		a.AddQuad(core.NewVec3(lo.X, hi.Y, hi.Z), dx, dz.Negate(), mat), // top
		a.AddQuad(core.NewVec3(lo.X, lo.Y, lo.Z), dx, dz, mat),          // bottom
	)
}
