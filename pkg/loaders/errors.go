package loaders

import "errors"

var (
	// ErrNoVertices is returned for a mesh file without any position lines.
	ErrNoVertices = errors.New("loaders: mesh has no vertices")

	// ErrNoTriangles is returned when a mesh file produces no triangles.
	ErrNoTriangles = errors.New("loaders: mesh has no triangles")

	// ErrMalformed is returned for a statement that cannot be parsed.
	ErrMalformed = errors.New("loaders: malformed statement")
)
