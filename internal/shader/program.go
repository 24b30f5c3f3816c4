// Package shader holds the card effect programs: the WGSL sources used by the
// GPU backend and CPU evaluators that compute the same colour per pixel.
//
// Two programs exist. Metallic renders a Fresnel-weighted environment over a
// flat tint and is composited with alpha blending. Prismatic splits colour
// channels with coherent noise and is composited additively.
package shader

import (
	_ "embed"
)

//go:embed shaders/common.wgsl
var commonSource string

//go:embed shaders/metallic.wgsl
var metallicSource string

//go:embed shaders/prismatic.wgsl
var prismaticSource string

// Kind identifies an effect program.
type Kind uint8

const (
	// KindNone means the effect has no shader recipe.
	KindNone Kind = iota

	// KindMetallic is the Fresnel/environment/specular program.
	KindMetallic

	// KindPrismatic is the noise-split chromatic program.
	KindPrismatic
)

// String returns the program name.
func (k Kind) String() string {
	switch k {
	case KindMetallic:
		return "metallic"
	case KindPrismatic:
		return "prismatic"
	default:
		return "none"
	}
}

// Blend is the compositing mode a program's output expects.
type Blend uint8

const (
	// BlendAlpha composites premultiplied output with source-over.
	BlendAlpha Blend = iota

	// BlendAdditive adds premultiplied output onto the destination.
	BlendAdditive
)

// String returns the blend mode name.
func (b Blend) String() string {
	if b == BlendAdditive {
		return "additive"
	}
	return "alpha"
}

// Program describes one compiled-or-compilable effect program.
type Program struct {
	Kind   Kind
	Blend  Blend
	Source string // complete WGSL module: vs_main + fs_main
}

// Lookup returns the program for kind. ok is false for KindNone or unknown kinds.
func Lookup(kind Kind) (p Program, ok bool) {
	switch kind {
	case KindMetallic:
		return Program{Kind: kind, Blend: BlendAlpha, Source: commonSource + "\n" + metallicSource}, true
	case KindPrismatic:
		return Program{Kind: kind, Blend: BlendAdditive, Source: commonSource + "\n" + prismaticSource}, true
	default:
		return Program{}, false
	}
}

// Kinds returns every program kind that has a source.
func Kinds() []Kind {
	return []Kind{KindMetallic, KindPrismatic}
}
