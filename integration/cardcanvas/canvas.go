// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package cardcanvas

import (
	"errors"
	"fmt"
	"time"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/cardfx"
)

// Canvas errors.
var (
	// ErrCanvasClosed is returned when operating on a closed canvas.
	ErrCanvasClosed = errors.New("cardcanvas: canvas is closed")

	// ErrInvalidDimensions is returned for a nil or empty base image.
	ErrInvalidDimensions = errors.New("cardcanvas: invalid dimensions")

	// ErrNilProvider is returned when provider is nil.
	ErrNilProvider = errors.New("cardcanvas: nil DeviceProvider")
)

// textureDestroyer is implemented by textures that can release GPU resources.
type textureDestroyer interface {
	Destroy()
}

// presenter is a shader backend whose result can be read back.
type presenter interface {
	cardfx.ShaderBackend
	Output() *cardfx.Pixmap
}

// Canvas composites an engine's frames into a texture-ready pixmap.
type Canvas struct {
	engine   *cardfx.Engine
	provider gpucontext.DeviceProvider
	backend  presenter

	base *cardfx.Pixmap
	out  *cardfx.Pixmap

	filter string
	chain  cardfx.FilterChain

	texture any // lazy-created texture
	seq     uint64
	dirty   bool
	closed  bool
}

// New creates a canvas decorating base with the initial effects. The
// options are passed to cardfx.New; the backend is chosen by the canvas.
func New(provider gpucontext.DeviceProvider, base *cardfx.Pixmap, initial []cardfx.EffectSpec,
	tier cardfx.RenderTier, opts ...cardfx.Option) (*Canvas, error) {
	if provider == nil {
		return nil, ErrNilProvider
	}
	if base == nil || base.Width() == 0 || base.Height() == 0 {
		return nil, ErrInvalidDimensions
	}

	backend := newBackend(provider, base)
	all := make([]cardfx.Option, 0, len(opts)+1)
	all = append(all, opts...)
	all = append(all, cardfx.WithBackend(backend))

	c := &Canvas{
		engine:   cardfx.New(base, initial, tier, all...),
		provider: provider,
		backend:  backend,
		base:     base,
		out:      base.Clone(),
	}
	c.compose(c.engine.Frame())
	return c, nil
}

// MustNew is like New but panics on error.
func MustNew(provider gpucontext.DeviceProvider, base *cardfx.Pixmap, initial []cardfx.EffectSpec,
	tier cardfx.RenderTier, opts ...cardfx.Option) *Canvas {
	c, err := New(provider, base, initial, tier, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// Engine returns the engine driving the canvas, or nil after Close.
func (c *Canvas) Engine() *cardfx.Engine {
	if c.closed {
		return nil
	}
	return c.engine
}

// Backend returns the name of the shader backend in use.
func (c *Canvas) Backend() string { return c.backend.Name() }

// Size returns the card size in pixels.
func (c *Canvas) Size() (width, height int) { return c.base.Size() }

// Pixmap returns the composited card, or nil after Close.
func (c *Canvas) Pixmap() *cardfx.Pixmap {
	if c.closed {
		return nil
	}
	return c.out
}

// MarkDirty forces the next Flush to upload the pixmap.
func (c *Canvas) MarkDirty() { c.dirty = true }

// IsDirty reports whether the pixmap changed since the last Flush.
func (c *Canvas) IsDirty() bool { return c.dirty }

// Update ticks the engine at now and composites the frame when it did
// work. It returns the frame, or nil after Close.
func (c *Canvas) Update(now time.Time) *cardfx.Frame {
	if c.closed {
		return nil
	}
	f := c.engine.Tick(now)
	if !f.Suspended && f.Seq != c.seq {
		c.seq = f.Seq
		c.compose(f)
	}
	return f
}

// compose writes the shader output (or the base card) into the pixmap and
// applies the CSS filter chain on the CPU.
func (c *Canvas) compose(f *cardfx.Frame) {
	src := c.base
	if len(f.DrawList) > 0 && !c.engine.ContextLost() {
		src = c.backend.Output()
	}
	if err := c.out.CopyFrom(src); err != nil {
		cardfx.Logger().Warn("cardcanvas: compose failed", "err", err)
		return
	}
	if f.Filter != c.filter {
		chain, err := cardfx.ParseFilterChain(f.Filter)
		if err != nil {
			cardfx.Logger().Warn("cardcanvas: bad filter chain", "filter", f.Filter, "err", err)
		}
		c.filter, c.chain = f.Filter, chain
	}
	cardfx.ApplyFilterChain(c.out, c.chain)
	c.dirty = true
}

// Flush uploads the pixmap to the texture when dirty and returns the
// texture. The first call returns a pending texture that RenderTo turns
// into a GPU texture.
func (c *Canvas) Flush() (any, error) {
	if c.closed {
		return nil, ErrCanvasClosed
	}
	if !c.dirty && c.texture != nil {
		return c.texture, nil
	}
	data := c.out.Data()
	if c.texture == nil {
		w, h := c.out.Size()
		c.texture = &pendingTexture{width: w, height: h, data: data}
		c.dirty = false
		return c.texture, nil
	}
	if updater, ok := c.texture.(gpucontext.TextureUpdater); ok {
		if err := updater.UpdateData(data); err != nil {
			return nil, fmt.Errorf("cardcanvas: texture update failed: %w", err)
		}
	}
	c.dirty = false
	return c.texture, nil
}

// Texture returns the current texture, which may be nil or pending.
func (c *Canvas) Texture() any {
	return c.texture
}

// Provider returns the device provider, or nil after Close.
func (c *Canvas) Provider() gpucontext.DeviceProvider {
	if c.closed {
		return nil
	}
	return c.provider
}

// Close releases the textures, the engine and its backend. It is safe to
// call more than once.
func (c *Canvas) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	if d, ok := c.texture.(textureDestroyer); ok {
		d.Destroy()
	}
	c.texture = nil
	c.engine.Close()
	c.provider = nil
	return nil
}

// pendingTexture holds pixel data until a TextureCreator is available.
type pendingTexture struct {
	width  int
	height int
	data   []byte
}
