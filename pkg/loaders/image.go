package loaders

import (
	"fmt"
	"image"
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"io"
	"os"

	_ "golang.org/x/image/bmp"  // BMP decoder
	_ "golang.org/x/image/tiff" // TIFF decoder
	_ "golang.org/x/image/webp" // WebP decoder

	"github.com/df07/go-progressive-pathtracer/pkg/log"
)

var logger = log.New("loaders")

// RGBImage is a decoded image stored as 8-bit RGB triples. The zero value
// has no pixels and reports a width and height of 0.
type RGBImage struct {
	width  int
	height int
	pixels []byte // 3 bytes per pixel, row-major, top row first
}

// NewRGBImage wraps raw RGB bytes. pixels must hold width*height*3 bytes.
func NewRGBImage(width, height int, pixels []byte) (*RGBImage, error) {
	if width < 0 || height < 0 || len(pixels) != width*height*3 {
		return nil, fmt.Errorf("%dx%d image with %d bytes: %w", width, height, len(pixels), ErrMalformed)
	}
	return &RGBImage{width: width, height: height, pixels: pixels}, nil
}

// Width returns the image width in pixels. A nil image has width 0.
func (img *RGBImage) Width() int {
	if img == nil {
		return 0
	}
	return img.width
}

// Height returns the image height in pixels
func (img *RGBImage) Height() int {
	if img == nil {
		return 0
	}
	return img.height
}

// PixelData returns the RGB bytes at (x, y). Coordinates are clamped to the image.
func (img *RGBImage) PixelData(x, y int) [3]byte {
	if img == nil || img.width <= 0 || img.height <= 0 {
		return [3]byte{}
	}
	x = min(max(x, 0), img.width-1)
	y = min(max(y, 0), img.height-1)
	idx := (y*img.width + x) * 3
	return [3]byte{img.pixels[idx], img.pixels[idx+1], img.pixels[idx+2]}
}

// DecodeImage decodes a PNG, JPEG, BMP, TIFF or WebP stream
func DecodeImage(r io.Reader) (*RGBImage, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	pixels := make([]byte, width*height*3)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			// RGBA returns uint32 in [0, 65535]
			idx := (y*width + x) * 3
			pixels[idx] = uint8(r >> 8)
			pixels[idx+1] = uint8(g >> 8)
			pixels[idx+2] = uint8(b >> 8)
		}
	}

	logger.Debugf("decoded %s image %dx%d", format, width, height)
	return &RGBImage{width: width, height: height, pixels: pixels}, nil
}

// LoadImage decodes an image file
func LoadImage(filename string) (*RGBImage, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	img, err := DecodeImage(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return img, nil
}

// LoadTextureImage is LoadImage for textures: a missing or broken file is
// logged and yields an empty image, which samples as the fallback color
func LoadTextureImage(filename string) *RGBImage {
	img, err := LoadImage(filename)
	if err != nil {
		logger.Warningf("texture %s unavailable, using fallback: %v", filename, err)
		return &RGBImage{}
	}
	return img
}
