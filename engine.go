// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package cardfx

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/gogpu/cardfx/internal/shader"
)

// Surface is the card the engine decorates.
type Surface interface {
	// Size returns the surface size in pixels.
	Size() (width, height int)
}

// VisibilityReporter is an optional Surface extension. A surface that
// reports itself hidden suspends the frame loop like SetVisible(false).
type VisibilityReporter interface {
	Visible() bool
}

// Engine owns the effect stack, the interaction state and the frame
// scheduler of one card surface.
//
// An Engine is not safe for concurrent use. Input arriving on other
// goroutines must be handed over with Post.
type Engine struct {
	surface Surface
	opts    engineOptions
	stack   *EffectStack
	input   *Controller
	tier    RenderTier
	backend ShaderBackend

	visible bool
	armed   bool
	closed  bool

	clock  float64 // seconds
	last   time.Time
	phases map[string]float64

	contextLost  bool
	unavailable  map[shader.Kind]bool
	prepared     []preparedSlot
	preparedTier RenderTier
	forcePrepare bool

	drawList []DrawCommand
	cssBuf   []byte
	styleBuf []byte
	frame    Frame

	mu     sync.Mutex
	posted []func(*Engine)
	spare  []func(*Engine)
	wake   chan struct{}
}

type preparedSlot struct {
	id   string
	kind shader.Kind
	seed float64
}

// New creates an engine for surface with the initial effects installed in
// order. Duplicate and unknown types in initial are ignored.
func New(surface Surface, initial []EffectSpec, tier RenderTier, opts ...Option) *Engine {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil {
		now := uint64(time.Now().UnixNano())
		o.rng = rand.New(rand.NewPCG(now, now>>17))
	}
	e := &Engine{
		surface:      surface,
		opts:         o,
		stack:        NewEffectStack(o.rng),
		input:        NewController(),
		tier:         tier,
		backend:      o.backend,
		visible:      true,
		phases:       make(map[string]float64),
		unavailable:  make(map[shader.Kind]bool),
		preparedTier: tier,
		wake:         make(chan struct{}, 1),
	}
	if w, h := e.size(); w > 0 && h > 0 {
		e.input.SetBounds(Rect{W: float64(w), H: float64(h)})
	}
	for _, spec := range initial {
		id := e.stack.Add(spec.Type)
		if id != "" && spec.Intensity != nil {
			e.stack.Update(id, EffectPatch{Intensity: spec.Intensity})
		}
	}
	if e.backend != nil {
		Logger().Info("cardfx: shader backend attached", "backend", e.backend.Name(), "tier", tier.String())
	}
	e.compose(0)
	e.publish()
	e.arm()
	return e
}

func (e *Engine) size() (int, int) {
	if e.surface == nil {
		return 0, 0
	}
	return e.surface.Size()
}

// AddEffect adds an effect of type t with default settings and returns its
// id, or the id of the existing effect of that type. Unknown types return "".
func (e *Engine) AddEffect(t EffectType) string {
	n := e.stack.Len()
	id := e.stack.Add(t)
	if e.stack.Len() != n {
		e.arm()
	}
	return id
}

// RemoveEffect removes the effect with id. Unknown ids are ignored.
func (e *Engine) RemoveEffect(id string) {
	if e.stack.Remove(id) {
		delete(e.phases, id)
		e.arm()
	}
}

// UpdateEffectSettings applies patch to the effect with id. Unknown ids
// are ignored.
func (e *Engine) UpdateEffectSettings(id string, patch EffectPatch) {
	if e.stack.Update(id, patch) {
		e.arm()
	}
}

// SetEffectParam sets one custom parameter of the effect with id.
func (e *Engine) SetEffectParam(id, key string, value any) {
	if e.stack.SetParam(id, key, value) {
		e.arm()
	}
}

// MoveEffect reorders the effect with id to index.
func (e *Engine) MoveEffect(id string, index int) {
	if e.stack.Move(id, index) {
		e.arm()
	}
}

// Effects returns copies of the stack in order.
func (e *Engine) Effects() []Effect { return e.stack.Effects() }

// Effect returns a copy of the effect with id.
func (e *Engine) Effect(id string) (Effect, bool) { return e.stack.Get(id) }

// SetTier changes the capability tier. Shader programs and uniform
// buffers are prepared again on the next tick.
func (e *Engine) SetTier(t RenderTier) {
	if t == e.tier {
		return
	}
	Logger().Debug("cardfx: tier changed", "from", e.tier.String(), "to", t.String())
	e.tier = t
	e.arm()
}

// Tier returns the current capability tier.
func (e *Engine) Tier() RenderTier { return e.tier }

// PointerDown starts a drag at screen position (x, y).
func (e *Engine) PointerDown(x, y float64) {
	e.input.PointerDown(x, y)
	e.arm()
}

// PointerMove moves the pointer to screen position (x, y).
func (e *Engine) PointerMove(x, y float64) {
	e.input.PointerMove(x, y)
	e.arm()
}

// PointerUp ends a drag.
func (e *Engine) PointerUp() {
	e.input.PointerUp()
	e.arm()
}

// PointerLeave ends hovering.
func (e *Engine) PointerLeave() {
	e.input.PointerLeave()
	e.arm()
}

// Wheel zooms with shift held and rotates otherwise.
func (e *Engine) Wheel(deltaY float64, shift bool) {
	e.input.Wheel(deltaY, shift)
	e.arm()
}

// ToggleAutoRotate starts or stops auto-rotation and reports whether it
// is now running.
func (e *Engine) ToggleAutoRotate() bool {
	on := e.input.ToggleAutoRotate()
	e.arm()
	return on
}

// Reset restores the default view.
func (e *Engine) Reset() {
	e.input.Reset()
	e.arm()
}

// Key applies a keyboard binding.
func (e *Engine) Key(k Key) {
	e.input.Key(k)
	e.arm()
}

// SetBounds sets the screen rectangle used to normalize pointer input.
func (e *Engine) SetBounds(r Rect) {
	e.input.SetBounds(r)
}

// Interaction returns the current interaction state.
func (e *Engine) Interaction() InteractionState { return e.input.State() }

// SetVisible reports whether the surface is on screen. Hidden surfaces
// suspend the frame loop; SetVisible(true) re-arms a suspended loop, also
// when the surface's own VisibilityReporter suspended it.
func (e *Engine) SetVisible(v bool) {
	e.visible = v
	if v && !e.armed {
		e.arm()
	}
}

// Visible reports whether the surface is considered on screen.
func (e *Engine) Visible() bool {
	if !e.visible {
		return false
	}
	if vr, ok := e.surface.(VisibilityReporter); ok {
		return vr.Visible()
	}
	return true
}

// Suspended reports whether the frame loop is paused until the next
// mutation or visibility change.
func (e *Engine) Suspended() bool { return !e.armed }

// CompositeStyle returns the style string of the last frame.
func (e *Engine) CompositeStyle() string { return e.frame.Style }

// DrawList returns the shader draw list of the last frame. The slice is
// reused by the next tick.
func (e *Engine) DrawList() []DrawCommand { return e.frame.DrawList }

// Frame returns the last frame. It is reused by the next tick.
func (e *Engine) Frame() *Frame { return &e.frame }

// Clock returns the shared animation clock in seconds.
func (e *Engine) Clock() float64 { return e.clock }

// LoseContext records that the host lost its GPU context. Every shader
// effect renders through CSS until RestoreContext.
func (e *Engine) LoseContext() {
	if e.contextLost {
		return
	}
	e.contextLost = true
	e.forcePrepare = true
	Logger().Warn("cardfx: shader context lost, using CSS")
	e.arm()
}

// ContextLost reports whether shader rendering is disabled.
func (e *Engine) ContextLost() bool { return e.contextLost }

// RestoreContext re-enables every shader program after a context loss or
// program failure.
func (e *Engine) RestoreContext() {
	if !e.contextLost && len(e.unavailable) == 0 {
		return
	}
	e.contextLost = false
	clear(e.unavailable)
	e.forcePrepare = true
	Logger().Info("cardfx: shader context restored")
	e.arm()
}

// Post queues fn to run on the engine's owner at the start of the next
// tick or Run iteration. Post is safe for concurrent use.
func (e *Engine) Post(fn func(*Engine)) {
	if fn == nil {
		return
	}
	e.mu.Lock()
	e.posted = append(e.posted, fn)
	e.mu.Unlock()
	e.notify()
}

// Close releases the backend and stops Run. Later calls are no-ops.
func (e *Engine) Close() {
	if e.closed {
		return
	}
	e.closed = true
	e.armed = false
	if e.backend != nil {
		e.backend.Close()
		e.backend = nil
	}
	e.prepared = e.prepared[:0]
	e.drawList = e.drawList[:0]
	e.frame.DrawList = nil
	e.notify()
}

// arm resumes the frame loop. The first tick after resuming does not
// advance the clock.
func (e *Engine) arm() {
	if e.closed {
		return
	}
	if !e.armed {
		e.armed = true
		e.last = time.Time{}
	}
	e.notify()
}

func (e *Engine) notify() {
	select {
	case e.wake <- struct{}{}:
	default:
	}
}

func (e *Engine) drain() {
	e.mu.Lock()
	queue := e.posted
	e.posted = e.spare[:0]
	e.mu.Unlock()
	for i, fn := range queue {
		fn(e)
		queue[i] = nil
	}
	e.spare = queue[:0]
}
