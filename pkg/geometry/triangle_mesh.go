package geometry

import (
	"fmt"

	"github.com/df07/go-progressive-pathtracer/pkg/material"
)

// MeshOptions controls how a triangle list is turned into primitives
type MeshOptions struct {
	Smooth    bool        // Interpolate vertex normals
	Material  material.ID // Material for every triangle
	Transform *Transform  // Optional placement; the mesh is wrapped in an Instance
	Build     BuildOptions
}

// AddMesh stores every triangle, builds a BVH over them and returns its
// root, wrapped in an instance when opts.Transform is set
func (a *Arena) AddMesh(triangles [][3]Vertex, opts MeshOptions) (Ref, error) {
	if len(triangles) == 0 {
		return Ref{}, fmt.Errorf("mesh: %w", ErrEmptyPrimitiveList)
	}

	refs := make([]Ref, len(triangles))
	for i, tri := range triangles {
		refs[i] = a.AddTriangle(tri[0], tri[1], tri[2], opts.Material, opts.Smooth)
	}

	root, err := a.BuildBVH(refs, opts.Build)
	if err != nil {
		return Ref{}, fmt.Errorf("mesh: %w", err)
	}

	if opts.Transform == nil {
		return root, nil
	}
	return a.AddInstance(root, *opts.Transform)
}
