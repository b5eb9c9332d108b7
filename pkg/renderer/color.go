package renderer

import (
	"math"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// displayRange is the intensity range written to the display buffer
var displayRange = core.NewInterval(0, 0.9999)

// Accumulate blends the (n+1)th sample into a running average of n samples
func Accumulate(average, sample core.Vec3, n int) core.Vec3 {
	return average.Multiply(float64(n)).Add(sample).Divide(float64(n + 1))
}

// WriteColor converts a linear color to display values: gamma 2, then
// clamped to [0, 0.9999]
func WriteColor(linear core.Vec3) [3]float32 {
	return [3]float32{
		float32(displayRange.Clamp(linearToGamma(linear.X))),
		float32(displayRange.Clamp(linearToGamma(linear.Y))),
		float32(displayRange.Clamp(linearToGamma(linear.Z))),
	}
}

func linearToGamma(component float64) float64 {
	if component > 0 {
		return math.Sqrt(component)
	}
	return 0
}

// sanitize zeroes NaN and infinite components so a degenerate path
// contributes black instead of poisoning the average
func sanitize(c core.Vec3) core.Vec3 {
	if c.IsFinite() {
		return c
	}
	clean := func(x float64) float64 {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0
		}
		return x
	}
	return core.NewVec3(clean(c.X), clean(c.Y), clean(c.Z))
}
