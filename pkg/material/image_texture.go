package material

import (
	"reflect"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// ImageSource is a decoded 8-bit RGB image. A failed decode is reported
// as a zero width or height.
type ImageSource interface {
	Width() int
	Height() int
	PixelData(x, y int) [3]byte
}

// ImageTexture returns a texture that samples img by uv. A nil image,
// including a typed nil pointer, samples as magenta.
func ImageTexture(img ImageSource) Texture {
	if isNilImage(img) {
		img = nil
	}
	return Texture{Kind: TextureImage, Image: img, Even: NoTexture, Odd: NoTexture}
}

// NewImageTexture adds an image texture to the library
func (l *Library) NewImageTexture(img ImageSource) TextureID {
	return l.AddTexture(ImageTexture(img))
}

var unitInterval = core.NewInterval(0, 1)

func isNilImage(img ImageSource) bool {
	if img == nil {
		return true
	}
	v := reflect.ValueOf(img)
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}

// sampleImage does a nearest-neighbor lookup with v=0 at the bottom row
func sampleImage(img ImageSource, uv core.Vec2) core.Vec3 {
	if isNilImage(img) || img.Width() <= 0 || img.Height() <= 0 {
		return magenta
	}

	u := unitInterval.Clamp(uv.X)
	v := 1.0 - unitInterval.Clamp(uv.Y)

	i := min(int(u*float64(img.Width())), img.Width()-1)
	j := min(int(v*float64(img.Height())), img.Height()-1)
	pixel := img.PixelData(i, j)

	const colorScale = 1.0 / 255.0
	return core.NewVec3(
		colorScale*float64(pixel[0]),
		colorScale*float64(pixel[1]),
		colorScale*float64(pixel[2]),
	)
}
