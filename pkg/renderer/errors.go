package renderer

import "errors"

var (
	// ErrNoWorld is returned when a render is requested without geometry,
	// materials or a valid root primitive.
	ErrNoWorld = errors.New("renderer: world is not set up")

	// ErrInvalidConfig is returned when a configuration value is out of range.
	ErrInvalidConfig = errors.New("renderer: invalid configuration")
)
