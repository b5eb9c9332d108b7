package geometry

import "errors"

var (
	ErrEmptyPrimitiveList = errors.New("geometry: cannot build a BVH from an empty primitive list")
	ErrSingularTransform  = errors.New("geometry: instance transform is not invertible")
	ErrInvalidRef         = errors.New("geometry: primitive reference does not resolve")
)
