package shader

import (
	"encoding/binary"
	"math"
)

// UniformSize is the byte size of the EffectUniforms block in common.wgsl.
const UniformSize = 64

// Params are the per-frame uniforms of one effect draw.
type Params struct {
	Tint      [3]float32
	Time      float32 // shared surface clock, seconds
	Intensity float32
	Speed     float32
	Roughness float32
	Metalness float32
	Angle     float32 // radians
	Seed      float32
	Hue       float32 // degrees
	Pointer   [2]float32
	Viewport  [2]float32
}

// AppendBytes appends the little-endian uniform block to dst.
func (p *Params) AppendBytes(dst []byte) []byte {
	put := func(v float32) {
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v))
	}
	put(p.Tint[0])
	put(p.Tint[1])
	put(p.Tint[2])
	put(1)
	put(p.Time)
	put(p.Intensity)
	put(p.Speed)
	put(p.Roughness)
	put(p.Metalness)
	put(p.Angle)
	put(p.Seed)
	put(p.Hue)
	put(p.Pointer[0])
	put(p.Pointer[1])
	put(p.Viewport[0])
	put(p.Viewport[1])
	return dst
}
