package scene

import "errors"

// ErrUnknownScene is returned by Create for a name that is not registered
var ErrUnknownScene = errors.New("unknown scene")
