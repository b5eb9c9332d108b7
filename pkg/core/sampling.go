package core

import (
	"math"
	"math/rand/v2"
)

// Sampler provides uniform random numbers in [0, 1)
type Sampler interface {
	Get1D() float64
	Get2D() Vec2
	Get3D() Vec3
}

// RandomSampler wraps a Go random generator
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// NewSeededSampler creates a sampler with its own PCG stream
func NewSeededSampler(seed uint64) *RandomSampler {
	return NewRandomSampler(rand.New(rand.NewPCG(Mix64(seed), Mix64(^seed))))
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// Get2D returns two random float64 values in [0, 1)
func (r *RandomSampler) Get2D() Vec2 {
	return NewVec2(r.random.Float64(), r.random.Float64())
}

// Get3D returns three random float64 values in [0, 1)
func (r *RandomSampler) Get3D() Vec3 {
	return NewVec3(r.random.Float64(), r.random.Float64(), r.random.Float64())
}

// PixelSampler is a counter-keyed generator. Each worker owns one and
// calls Reset before every pixel sample, so the stream for a given
// (seed, pixel, sample) triple never depends on scheduling.
type PixelSampler struct {
	pcg *rand.PCG
	RandomSampler
}

// NewPixelSampler creates a sampler to be keyed with Reset
func NewPixelSampler() *PixelSampler {
	pcg := rand.NewPCG(0, 0)
	return &PixelSampler{pcg: pcg, RandomSampler: RandomSampler{random: rand.New(pcg)}}
}

// Reset rekeys the stream for one sample of one pixel
func (s *PixelSampler) Reset(seed, pixel, sample uint64) {
	s.pcg.Seed(Mix64(seed^Mix64(pixel)), Mix64(sample^0x9e3779b97f4a7c15))
}

// Mix64 is the splitmix64 finalizer; it decorrelates neighbouring keys
func Mix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// RandomInUnitSphere returns a uniformly distributed point inside the unit sphere
func RandomInUnitSphere(sampler Sampler) Vec3 {
	for {
		p := sampler.Get3D().Multiply(2).Subtract(NewVec3(1, 1, 1))
		if p.LengthSquared() < 1 {
			return p
		}
	}
}

// RandomUnitVector returns a uniformly distributed direction
func RandomUnitVector(sampler Sampler) Vec3 {
	for {
		p := sampler.Get3D().Multiply(2).Subtract(NewVec3(1, 1, 1))
		lensq := p.LengthSquared()
		if lensq > 1e-160 && lensq <= 1 {
			return p.Divide(math.Sqrt(lensq))
		}
	}
}

// RandomInUnitDisk returns a uniformly distributed point in the unit disk on z=0
func RandomInUnitDisk(sampler Sampler) Vec3 {
	for {
		s := sampler.Get2D()
		p := NewVec3(2*s.X-1, 2*s.Y-1, 0)
		if p.LengthSquared() < 1 {
			return p
		}
	}
}
