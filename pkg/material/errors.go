package material

import "errors"

var (
	ErrInvalidTexture  = errors.New("material: texture handle out of range")
	ErrInvalidMaterial = errors.New("material: material handle out of range")
	ErrTextureCycle    = errors.New("material: checker texture references itself")
)
