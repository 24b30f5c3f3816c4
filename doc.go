// Package cardfx composites animated foil and holographic effects onto a
// card surface.
//
// # Overview
//
// An Engine owns an ordered stack of effects, the pointer interaction
// state of one card and a frame scheduler. Each tick it advances a shared
// clock, derives per-effect parameters from the pointer (hue, light angle)
// and routes every enabled effect either through a shader program or
// through a CSS filter chain, depending on the device capability tier.
//
// # Quick Start
//
//	import "github.com/gogpu/cardfx"
//
//	card := cardfx.ScaleImage(img, 400, 560)
//	e := cardfx.New(card, []cardfx.EffectSpec{
//	    {Type: cardfx.Holographic, Intensity: cardfx.Float(0.7)},
//	    {Type: cardfx.Vintage},
//	}, cardfx.TierHigh, cardfx.WithBackend(cardfx.NewSoftwareBackend(card)))
//
//	e.PointerMove(120, 80)
//	frame := e.Tick(time.Now())
//	fmt.Println(frame.Style)
//
// # Render Paths
//
// On the high and medium tiers, effect types with a shader recipe
// (Holographic, Refractor, Prismatic, Chrome, Gold, Metallic) are drawn by
// a ShaderBackend; the medium tier simplifies expensive lighting presets.
// On the low tier, and for the remaining types, effects contribute CSS
// filter primitives in stack order. A shader failure moves the affected
// effects to the CSS path until RestoreContext.
//
// # Backends
//
// SoftwareBackend evaluates the programs on the CPU. The gpu sub-package
// renders the same WGSL programs with gogpu/wgpu. Without a backend, the
// draw list is left for the host to render.
//
// # Concurrency
//
// An Engine is owned by one goroutine. Input from other goroutines goes
// through Post; Run drives the engine from a frame channel.
package cardfx

// Version is the current version of the library.
const Version = "0.1.0"
