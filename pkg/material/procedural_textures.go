package material

import (
	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// Checker returns a 3D checkerboard alternating between two textures.
// scale is the edge length of one cell in world units.
func Checker(scale float64, even, odd TextureID) Texture {
	return Texture{Kind: TextureChecker, InvScale: 1.0 / scale, Even: even, Odd: odd}
}

// NewChecker adds a checkerboard over two existing textures
func (l *Library) NewChecker(scale float64, even, odd TextureID) TextureID {
	return l.AddTexture(Checker(scale, even, odd))
}

// NewCheckerColors adds a checkerboard of two solid colors
func (l *Library) NewCheckerColors(scale float64, even, odd core.Vec3) TextureID {
	return l.NewChecker(scale, l.NewSolidColor(even), l.NewSolidColor(odd))
}

// checkerCell picks the texture for the cell containing p. Coordinates
// are truncated toward zero, so the cells straddling an axis are twice as wide.
func (t Texture) checkerCell(p core.Vec3) TextureID {
	x := int(p.X * t.InvScale)
	y := int(p.Y * t.InvScale)
	z := int(p.Z * t.InvScale)

	if (x+y+z)%2 == 0 {
		return t.Even
	}
	return t.Odd
}
