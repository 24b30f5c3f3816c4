package shader

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Hash constants shared with gradient_noise in prismatic.wgsl.
var (
	hashX = mgl32.Vec2{127.1, 311.7}
	hashY = mgl32.Vec2{269.5, 183.3}
)

const hashScale = 43758.5453

// GradientNoise samples the gradient noise of the prismatic program at
// (x, y). A sin-hash picks the lattice gradients and a cubic blends their
// dot products. The field is continuous, lies in [-1, 1] and is zero on
// lattice points. Seeds shift the sample position, not the field.
func GradientNoise(x, y float32) float32 {
	i := mgl32.Vec2{floor(x), floor(y)}
	f := mgl32.Vec2{x - i[0], y - i[1]}
	wx := f[0] * f[0] * (3 - 2*f[0])
	wy := f[1] * f[1] * (3 - 2*f[1])

	a := hash2(i).Dot(f)
	b := hash2(i.Add(mgl32.Vec2{1, 0})).Dot(f.Sub(mgl32.Vec2{1, 0}))
	c := hash2(i.Add(mgl32.Vec2{0, 1})).Dot(f.Sub(mgl32.Vec2{0, 1}))
	d := hash2(i.Add(mgl32.Vec2{1, 1})).Dot(f.Sub(mgl32.Vec2{1, 1}))
	return mix(mix(a, b, wx), mix(c, d, wx), wy)
}

// hash2 maps a lattice point to a gradient in [-1, 1]². The explicit
// conversions keep every product rounded to float32 as on the GPU.
func hash2(p mgl32.Vec2) mgl32.Vec2 {
	kx := float32(p[0]*hashX[0]) + float32(p[1]*hashX[1])
	ky := float32(p[0]*hashY[0]) + float32(p[1]*hashY[1])
	return mgl32.Vec2{
		fract(float32(sin(kx)*hashScale))*2 - 1,
		fract(float32(sin(ky)*hashScale))*2 - 1,
	}
}

func floor(x float32) float32 { return float32(math.Floor(float64(x))) }

func fract(x float32) float32 { return x - floor(x) }
