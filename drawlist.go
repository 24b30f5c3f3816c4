package cardfx

import (
	"math"

	"github.com/gogpu/cardfx/internal/shader"
)

// UniformSize is the byte size of one effect's packed uniform block.
const UniformSize = shader.UniformSize

// Uniforms are the per-frame parameters of one shader-routed effect.
type Uniforms struct {
	Time      float64 // shared surface clock, seconds
	Intensity float64
	Speed     float64
	Tint      RGBA
	Roughness float64
	Metalness float64
	Angle     float64 // degrees
	Hue       float64 // degrees
	Seed      float64
	Pointer   [2]float64 // normalized
	Viewport  [2]float64 // pixels
}

// Params converts to the packed single-precision form.
func (u *Uniforms) params() shader.Params {
	return shader.Params{
		Tint:      [3]float32{float32(u.Tint.R), float32(u.Tint.G), float32(u.Tint.B)},
		Time:      float32(u.Time),
		Intensity: float32(u.Intensity),
		Speed:     float32(u.Speed),
		Roughness: float32(u.Roughness),
		Metalness: float32(u.Metalness),
		Angle:     float32(u.Angle * math.Pi / 180),
		Seed:      float32(u.Seed),
		Hue:       float32(u.Hue),
		Pointer:   [2]float32{float32(u.Pointer[0]), float32(u.Pointer[1])},
		Viewport:  [2]float32{float32(u.Viewport[0]), float32(u.Viewport[1])},
	}
}

// AppendBytes appends the little-endian uniform block expected by the
// WGSL programs. The angle is converted to radians.
func (u *Uniforms) AppendBytes(dst []byte) []byte {
	p := u.params()
	return p.AppendBytes(dst)
}

// DrawCommand is one entry of the shader draw list.
type DrawCommand struct {
	EffectID string
	Type     EffectType
	Program  ShaderProgram
	Preset   Preset
	Phase    float64 // accumulated dt*speed, seconds
	Uniforms Uniforms
}
