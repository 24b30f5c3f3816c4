// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package cardfx

import (
	"fmt"

	"github.com/gogpu/cardfx/internal/blend"
	"github.com/gogpu/cardfx/internal/parallel"
	"github.com/gogpu/cardfx/internal/shader"
)

// minParallelRows is the smallest band handed to a worker. Smaller images
// are shaded on the calling goroutine.
const minParallelRows = 32

// SoftwareBackend renders shader-routed effects on the CPU with the same
// formulas as the WGSL programs. Each Draw starts from the base card
// image and composites the draw list over it in order.
type SoftwareBackend struct {
	base *Pixmap
	out  *Pixmap

	validate bool
	compiled map[shader.Kind]error
	evals    map[string]shader.Evaluator

	pool *parallel.Pool
}

// NewSoftwareBackend creates a backend that decorates base. The base
// pixmap is read but never modified. Programs are validated by compiling
// them to SPIR-V during Prepare.
func NewSoftwareBackend(base *Pixmap) *SoftwareBackend {
	return &SoftwareBackend{
		base:     base,
		out:      base.Clone(),
		validate: true,
		compiled: make(map[shader.Kind]error),
		evals:    make(map[string]shader.Evaluator),
	}
}

// Name implements ShaderBackend.
func (b *SoftwareBackend) Name() string { return "software" }

// Output returns the pixmap written by the last Draw.
func (b *SoftwareBackend) Output() *Pixmap { return b.out }

// Size implements Surface.
func (b *SoftwareBackend) Size() (width, height int) { return b.base.Size() }

// Prepare implements ShaderBackend.
func (b *SoftwareBackend) Prepare(list []DrawCommand) error {
	for i := range list {
		cmd := &list[i]
		kind := cmd.Program.kind
		if err := b.compile(kind); err != nil {
			return &ProgramError{Type: cmd.Type, Program: cmd.Program.Name, Err: err}
		}
		if b.evals[cmd.EffectID] == nil {
			ev := shader.NewEvaluator(kind)
			if ev == nil {
				return &ProgramError{Type: cmd.Type, Program: cmd.Program.Name, Err: ErrFallbackToCSS}
			}
			b.evals[cmd.EffectID] = ev
		}
	}
	for id := range b.evals {
		if !containsEffect(list, id) {
			delete(b.evals, id)
		}
	}
	return nil
}

func (b *SoftwareBackend) compile(kind shader.Kind) error {
	if !b.validate {
		return nil
	}
	if err, done := b.compiled[kind]; done {
		return err
	}
	_, err := shader.Compile(kind)
	b.compiled[kind] = err
	if err == nil {
		Logger().Debug("cardfx: program validated", "program", kind.String())
	}
	return err
}

// Draw implements ShaderBackend.
func (b *SoftwareBackend) Draw(list []DrawCommand) error {
	if err := b.out.CopyFrom(b.base); err != nil {
		return err
	}
	w, h := b.out.width, b.out.height
	if w == 0 || h == 0 {
		return nil
	}
	for i := range list {
		cmd := &list[i]
		ev := b.evals[cmd.EffectID]
		if ev == nil {
			return fmt.Errorf("cardfx: effect %s drawn before prepare: %w", cmd.EffectID, ErrFallbackToCSS)
		}
		mode := blend.SourceOver
		if cmd.Program.Blend == BlendAdditive {
			mode = blend.Plus
		}
		params := cmd.Uniforms.params()
		b.shade(ev, &params, mode)
	}
	return nil
}

func (b *SoftwareBackend) shade(ev shader.Evaluator, p *shader.Params, mode blend.Mode) {
	h := b.out.height
	if h < 2*minParallelRows {
		b.shadeRows(ev, p, mode, 0, h)
		return
	}
	if b.pool == nil {
		b.pool = parallel.NewPool(0)
	}
	b.pool.Rows(h, minParallelRows, func(y0, y1 int) {
		b.shadeRows(ev, p, mode, y0, y1)
	})
}

// shadeRows shades rows [y0, y1). Rows are independent, so bands may run
// concurrently.
func (b *SoftwareBackend) shadeRows(ev shader.Evaluator, p *shader.Params, mode blend.Mode, y0, y1 int) {
	w, h := b.out.width, b.out.height
	data := b.out.data
	for y := y0; y < y1; y++ {
		v := (float32(y) + 0.5) / float32(h)
		row := data[y*w*4 : (y+1)*w*4]
		for x := 0; x < w; x++ {
			u := (float32(x) + 0.5) / float32(w)
			c, a := ev.Eval(p, u, v)
			a = unit32(a)
			sr := toByte(unit32(c[0]) * a)
			sg := toByte(unit32(c[1]) * a)
			sb := toByte(unit32(c[2]) * a)
			sa := toByte(a)
			px := row[x*4 : x*4+4]
			px[0], px[1], px[2], px[3] = blend.Pixel(mode, sr, sg, sb, sa, px[0], px[1], px[2], px[3])
		}
	}
}

// Close implements ShaderBackend.
func (b *SoftwareBackend) Close() {
	if b.pool != nil {
		b.pool.Close()
		b.pool = nil
	}
	clear(b.evals)
	clear(b.compiled)
}

func containsEffect(list []DrawCommand, id string) bool {
	for i := range list {
		if list[i].EffectID == id {
			return true
		}
	}
	return false
}

func unit32(v float32) float32 {
	switch {
	case !(v >= 0): // negative or NaN
		return 0
	case v > 1:
		return 1
	}
	return v
}

func toByte(v float32) uint8 {
	return uint8(v*255 + 0.5)
}
