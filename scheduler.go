package cardfx

import (
	"context"
	"errors"
	"time"

	"github.com/gogpu/cardfx/internal/shader"
)

// Frame is the composite descriptor produced by one tick.
type Frame struct {
	Seq   uint64
	Clock float64 // shared animation clock, seconds

	// Filter is the CSS filter chain of the CSS-routed effects, or "" when
	// none contributes.
	Filter string

	// Style is the full inline style for the card element: filter,
	// 3-D transform and the pointer-derived custom properties.
	Style string

	// DrawList holds the shader-routed effects in stack order.
	DrawList []DrawCommand

	Interaction InteractionState

	// Suspended is set when the tick did no work because the stack is
	// empty, the surface is hidden or the engine is closed.
	Suspended bool
}

// Tick runs one scheduler step at time now and returns the frame. The
// returned frame is owned by the engine and reused by the next tick.
//
// A tick drains posted commands, advances the shared clock by the
// elapsed time (capped by WithMaxFrameDelta), recomputes derived
// parameters, routes every enabled effect and renders shader effects
// through the backend. When the stack becomes empty or the surface is
// hidden the engine suspends until the next mutation or SetVisible(true).
func (e *Engine) Tick(now time.Time) *Frame {
	e.drain()
	if e.closed || !e.armed {
		e.frame.Suspended = true
		return &e.frame
	}
	if !e.Visible() {
		e.armed = false
		e.frame.Suspended = true
		return &e.frame
	}

	var dt float64
	if !e.last.IsZero() {
		d := now.Sub(e.last)
		d = min(max(d, 0), e.opts.maxFrameDelta)
		dt = d.Seconds()
	}
	e.last = now
	e.clock += dt

	e.input.Step()
	e.compose(dt)
	e.render()
	e.publish()
	e.frame.Seq++
	e.frame.Suspended = false

	if e.stack.Len() == 0 {
		e.armed = false
	}
	return &e.frame
}

// compose routes every enabled effect into the draw list or the CSS
// buffer. Both are reused across frames.
func (e *Engine) compose(dt float64) {
	st := e.input.State()
	w, h := e.size()
	e.drawList = e.drawList[:0]
	e.cssBuf = e.cssBuf[:0]
	for _, fx := range e.stack.items {
		if !fx.Enabled {
			continue
		}
		e.phases[fx.ID] += dt * fx.Speed
		def, _ := lookupDefinition(fx.Type)
		route := Select(fx.Type, presetOf(fx, def), e.tier)
		if route.Path == PathShader && e.shaderAvailable(def.program) {
			prog, _ := programFor(def.program)
			e.drawList = append(e.drawList, DrawCommand{
				EffectID: fx.ID,
				Type:     fx.Type,
				Program:  prog,
				Preset:   route.Preset,
				Phase:    e.phases[fx.ID],
				Uniforms: e.uniforms(fx, def, route.Preset, &st, w, h),
			})
			continue
		}
		e.cssBuf = appendEffectCSS(e.cssBuf, 0, fx, e.opts.quality)
	}
}

func presetOf(fx *Effect, def *Definition) Preset {
	if !def.Declares("preset") {
		return PresetStudio
	}
	p, _ := ParsePreset(fx.StringParam("preset", "studio"))
	return p
}

func (e *Engine) shaderAvailable(kind shader.Kind) bool {
	return kind != shader.KindNone && !e.contextLost && !e.unavailable[kind]
}

// pointerHue is the hue shift shared by every effect.
func (e *Engine) pointerHue(st *InteractionState) float64 {
	return e.opts.baseHue + st.Pointer.X*60
}

func (e *Engine) uniforms(fx *Effect, def *Definition, preset Preset, st *InteractionState, w, h int) Uniforms {
	u := Uniforms{
		Time:      e.clock,
		Intensity: clampUnit(fx.Intensity),
		Speed:     fx.Speed,
		Angle:     fx.FloatParam("angle", def.Angle) + (st.Pointer.Y-0.5)*90,
		Hue:       wrapDegrees(fx.FloatParam("hue", def.BaseHue) + e.pointerHue(st)),
		Seed:      float64(fx.Seed & 0xffff),
		Pointer:   [2]float64{st.Pointer.X, st.Pointer.Y},
		Viewport:  [2]float64{float64(w), float64(h)},
	}
	if def.program == shader.KindMetallic {
		light := presetTable[preset]
		tint, ok := ParseHex(fx.StringParam("tint", def.Tint))
		if !ok {
			tint, _ = ParseHex(def.Tint)
		}
		if light.warmth != 0 {
			tint = tint.ShiftHue(light.warmth)
		}
		u.Tint = tint
		u.Roughness = clampUnit(fx.FloatParam("roughness", def.Roughness) + light.roughness)
		u.Metalness = clampUnit(fx.FloatParam("metalness", def.Metalness) * light.metalness)
		return u
	}
	switch c, ok := averageHex(fx.StringsParam("colors")); {
	case ok:
		u.Tint = c.ShiftHue(e.pointerHue(st))
	default:
		if t, ok := ParseHex(fx.StringParam("tint", "")); ok {
			u.Tint = t
		} else {
			u.Tint = HSV(u.Hue, 0.6, 1)
		}
	}
	if fx.Type == Holographic {
		u.Intensity = clampUnit(fx.Intensity * fx.FloatParam("hologramIntensity", 1))
	}
	return u
}

// render hands the draw list to the backend. Failures move the affected
// effects to the CSS path and the frame is composed again.
func (e *Engine) render() {
	if e.backend == nil {
		return
	}
	for range len(programTable) + 1 {
		err := e.submit()
		if err == nil {
			return
		}
		e.shaderFailed(err)
		e.compose(0)
	}
}

func (e *Engine) submit() error {
	// A lost context routes everything to CSS; RestoreContext prepares again.
	if e.contextLost {
		return nil
	}
	if e.needsPrepare() {
		if err := e.backend.Prepare(e.drawList); err != nil {
			e.prepared = e.prepared[:0]
			return err
		}
		e.prepared = e.prepared[:0]
		for i := range e.drawList {
			cmd := &e.drawList[i]
			e.prepared = append(e.prepared, preparedSlot{id: cmd.EffectID, kind: cmd.Program.kind, seed: cmd.Uniforms.Seed})
		}
		e.preparedTier = e.tier
		e.forcePrepare = false
		Logger().Debug("cardfx: shader programs prepared", "backend", e.backend.Name(), "effects", len(e.drawList))
	}
	if len(e.drawList) == 0 {
		return nil
	}
	return e.backend.Draw(e.drawList)
}

func (e *Engine) needsPrepare() bool {
	if e.forcePrepare || e.preparedTier != e.tier || len(e.prepared) != len(e.drawList) {
		return true
	}
	for i := range e.drawList {
		cmd := &e.drawList[i]
		p := e.prepared[i]
		if p.id != cmd.EffectID || p.kind != cmd.Program.kind || p.seed != cmd.Uniforms.Seed {
			return true
		}
	}
	return false
}

func (e *Engine) shaderFailed(err error) {
	e.forcePrepare = true
	var pe *ProgramError
	if errors.As(err, &pe) {
		if kind := programKind(pe.Program); kind != shader.KindNone {
			e.unavailable[kind] = true
			Logger().Warn("cardfx: shader program unavailable, using CSS",
				"program", pe.Program, "effect", pe.Type.String(), "err", pe.Err)
			return
		}
	}
	e.contextLost = true
	Logger().Warn("cardfx: shader rendering failed, using CSS", "backend", e.backend.Name(), "err", err)
}

// publish stores the composed output in the frame, reusing the previous
// strings when nothing changed.
func (e *Engine) publish() {
	st := e.input.State()
	e.frame.Clock = e.clock
	e.frame.Interaction = st
	e.frame.DrawList = e.drawList
	if string(e.cssBuf) != e.frame.Filter {
		e.frame.Filter = string(e.cssBuf)
	}
	e.styleBuf = e.appendStyle(e.styleBuf[:0], &st)
	if string(e.styleBuf) != e.frame.Style {
		e.frame.Style = string(e.styleBuf)
	}
}

func (e *Engine) appendStyle(dst []byte, st *InteractionState) []byte {
	dst = append(dst, "filter: "...)
	if len(e.cssBuf) == 0 {
		dst = append(dst, "none"...)
	} else {
		dst = append(dst, e.cssBuf...)
	}
	dst = append(dst, "; transform: perspective(1000px) rotateX("...)
	dst = appendNumber(dst, st.Rotation.X+st.Tilt.X)
	dst = append(dst, "deg) rotateY("...)
	dst = appendNumber(dst, st.Rotation.Y+st.Tilt.Y)
	dst = append(dst, "deg) scale("...)
	dst = appendNumber(dst, st.Zoom)
	dst = append(dst, "); --fx-hue: "...)
	dst = appendNumber(dst, wrapDegrees(e.pointerHue(st)))
	dst = append(dst, "deg; --fx-pointer-x: "...)
	dst = appendNumber(dst, st.Pointer.X*100)
	dst = append(dst, "%; --fx-pointer-y: "...)
	dst = appendNumber(dst, st.Pointer.Y*100)
	dst = append(dst, '%')
	for _, fx := range e.stack.items {
		if !fx.Enabled {
			continue
		}
		if c, ok := ParseHex(fx.StringParam("glowColor", "")); ok {
			dst = append(dst, "; --fx-glow: "...)
			dst = append(dst, c.Hex()...)
			break
		}
	}
	return dst
}

// Run drives the engine from frames, typically a display-refresh ticker,
// until ctx is done, frames is closed or the engine is closed. While the
// engine is suspended Run does not consume frames and waits for a posted
// command instead.
//
// Run must be the only goroutine touching the engine directly; other
// goroutines use Post.
func (e *Engine) Run(ctx context.Context, frames <-chan time.Time) error {
	for {
		e.drain()
		if e.closed {
			return nil
		}
		var tick <-chan time.Time
		if e.armed {
			tick = frames
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-e.wake:
		case now, ok := <-tick:
			if !ok {
				return nil
			}
			f := e.Tick(now)
			if !f.Suspended && e.opts.onFrame != nil {
				e.opts.onFrame(f)
			}
		}
	}
}
