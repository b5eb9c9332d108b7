package material

import (
	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// TextureKind selects how a Texture produces colors
type TextureKind uint8

const (
	TextureSolid TextureKind = iota
	TextureChecker
	TextureImage
)

// Texture is a tagged union over the supported color sources
type Texture struct {
	Kind     TextureKind
	Color    core.Vec3   // solid color
	InvScale float64     // checker: 1 / cell size
	Even     TextureID   // checker: cells with an even coordinate sum
	Odd      TextureID   // checker: remaining cells
	Image    ImageSource // image: decoded pixels, may be empty
}

// SolidColor returns a texture with the same color everywhere
func SolidColor(color core.Vec3) Texture {
	return Texture{Kind: TextureSolid, Color: color, Even: NoTexture, Odd: NoTexture}
}

// magenta is returned for missing images and dangling handles
var magenta = core.NewVec3(1, 0, 1)

// Value samples a texture at texture coordinates uv and world point p
func (l *Library) Value(id TextureID, uv core.Vec2, p core.Vec3) core.Vec3 {
	// Bounded so that a malformed checker chain cannot loop forever
	for depth := 0; depth <= len(l.textures); depth++ {
		t, ok := l.Texture(id)
		if !ok {
			return magenta
		}

		switch t.Kind {
		case TextureSolid:
			return t.Color
		case TextureChecker:
			id = t.checkerCell(p)
		case TextureImage:
			return sampleImage(t.Image, uv)
		default:
			return magenta
		}
	}
	return magenta
}
