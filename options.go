package cardfx

import (
	"math/rand/v2"
	"time"
)

// Option configures an Engine during creation.
//
// Example:
//
//	// CSS-only engine with reproducible seeds
//	e := cardfx.New(surface, nil, cardfx.TierLow, cardfx.WithSeed(42))
//
//	// CPU shader rendering
//	e := cardfx.New(pm, specs, cardfx.TierHigh, cardfx.WithBackend(cardfx.NewSoftwareBackend(pm)))
type Option func(*engineOptions)

// engineOptions holds optional configuration for Engine creation.
type engineOptions struct {
	backend       ShaderBackend
	rng           *rand.Rand
	quality       float64
	maxFrameDelta time.Duration
	baseHue       float64
	onFrame       func(*Frame)
}

// DefaultMaxFrameDelta caps the clock advance of a single tick, so a
// resumed or stalled host does not make animations jump.
const DefaultMaxFrameDelta = 100 * time.Millisecond

// defaultOptions returns the default engine options.
func defaultOptions() engineOptions {
	return engineOptions{
		quality:       1,
		maxFrameDelta: DefaultMaxFrameDelta,
	}
}

// WithBackend sets the backend that renders shader-routed effects.
// Without one, shader-routed effects are only reported in the draw list
// for the host to render.
func WithBackend(b ShaderBackend) Option {
	return func(o *engineOptions) {
		o.backend = b
	}
}

// WithSeed seeds the generator that assigns per-effect noise seeds.
func WithSeed(seed uint64) Option {
	return func(o *engineOptions) {
		o.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithRand sets the generator that assigns per-effect noise seeds.
func WithRand(r *rand.Rand) Option {
	return func(o *engineOptions) {
		if r != nil {
			o.rng = r
		}
	}
}

// WithCSSQuality scales every CSS recipe; values are clamped to [0, 1].
func WithCSSQuality(q float64) Option {
	return func(o *engineOptions) {
		o.quality = clampUnit(q)
	}
}

// WithMaxFrameDelta caps the clock advance of a single tick.
func WithMaxFrameDelta(d time.Duration) Option {
	return func(o *engineOptions) {
		if d > 0 {
			o.maxFrameDelta = d
		}
	}
}

// WithBaseHue offsets the hue of every effect, in degrees.
func WithBaseHue(deg float64) Option {
	return func(o *engineOptions) {
		o.baseHue = deg
	}
}

// WithFrameHandler registers fn to receive every frame produced by Run.
// The frame is reused; fn must not retain it.
func WithFrameHandler(fn func(*Frame)) Option {
	return func(o *engineOptions) {
		o.onFrame = fn
	}
}
