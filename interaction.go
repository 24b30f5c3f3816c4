package cardfx

import (
	"math"

	"github.com/charmbracelet/harmonica"
)

// Interaction tuning.
const (
	// RotationSpeed converts drag distance to degrees.
	RotationSpeed = 0.5

	// MinZoom and MaxZoom bound the zoom factor.
	MinZoom = 0.5
	MaxZoom = 2.0

	// MaxTilt bounds the hover tilt on each axis, in degrees.
	MaxTilt = 15.0

	zoomPerWheel     = -0.001
	rotationPerWheel = 0.5 * 0.1
	autoAmplitude    = 5.0
	autoPeriod       = 20.0
	keyRotation      = 5.0
	keyZoom          = 0.1
)

// Vec2 is a pair of floats.
type Vec2 struct {
	X, Y float64
}

// Rect is the screen-space area of the card surface.
type Rect struct {
	X, Y, W, H float64
}

// InteractionState is a snapshot of the interaction controller.
type InteractionState struct {
	Pointer      Vec2 // normalized to [0,1]², (0.5, 0.5) by default
	Rotation     Vec2 // X is rx, Y is ry, degrees, unbounded
	Zoom         float64
	Dragging     bool
	AutoRotating bool
	Hovering     bool
	Tilt         Vec2 // spring-smoothed hover tilt, degrees
}

func defaultInteraction() InteractionState {
	return InteractionState{Pointer: Vec2{0.5, 0.5}, Zoom: 1}
}

// Key is a keyboard binding understood by the controller.
type Key uint8

const (
	KeyLeft Key = iota + 1
	KeyRight
	KeyUp
	KeyDown
	KeyZoomIn
	KeyZoomOut
	KeyToggleAutoRotate
	KeyReset
)

// Controller turns raw pointer, wheel and key input into an
// InteractionState. Screen coordinates are mapped through the bounds set
// with SetBounds; the default bounds are the unit square, so callers may
// also pass already normalized coordinates.
type Controller struct {
	state      InteractionState
	bounds     Rect
	dragOrigin Vec2
	autoAngle  float64

	spring     harmonica.Spring
	tiltVel    Vec2
	tiltTarget Vec2
}

// NewController creates a controller in the default state.
func NewController() *Controller {
	return &Controller{
		state:  defaultInteraction(),
		bounds: Rect{W: 1, H: 1},
		spring: harmonica.NewSpring(harmonica.FPS(60), 6.0, 0.5),
	}
}

// SetBounds sets the screen rectangle of the card. Empty rectangles are ignored.
func (c *Controller) SetBounds(r Rect) {
	if r.W <= 0 || r.H <= 0 {
		return
	}
	c.bounds = r
}

// Bounds returns the screen rectangle of the card.
func (c *Controller) Bounds() Rect { return c.bounds }

// State returns the current interaction state.
func (c *Controller) State() InteractionState { return c.state }

// PointerDown starts a drag at the given screen position and stops
// auto-rotation.
func (c *Controller) PointerDown(x, y float64) {
	if !finite(x) || !finite(y) {
		return
	}
	c.dragOrigin = Vec2{x, y}
	c.state.Dragging = true
	c.state.AutoRotating = false
	c.setPointer(x, y)
}

// PointerMove updates the pointer position and, while dragging, rotates
// by the distance moved since the last event.
func (c *Controller) PointerMove(x, y float64) {
	if !finite(x) || !finite(y) {
		return
	}
	c.setPointer(x, y)
	if !c.state.Dragging {
		return
	}
	c.state.Rotation.Y += (x - c.dragOrigin.X) * RotationSpeed
	c.state.Rotation.X += (y - c.dragOrigin.Y) * RotationSpeed
	c.dragOrigin = Vec2{x, y}
}

// PointerUp ends a drag.
func (c *Controller) PointerUp() {
	c.state.Dragging = false
}

// PointerLeave ends hovering; the tilt springs back to zero.
func (c *Controller) PointerLeave() {
	c.state.Hovering = false
	c.tiltTarget = Vec2{}
}

func (c *Controller) setPointer(x, y float64) {
	px := clampUnit((x - c.bounds.X) / c.bounds.W)
	py := clampUnit((y - c.bounds.Y) / c.bounds.H)
	c.state.Pointer = Vec2{px, py}
	c.state.Hovering = true
	c.tiltTarget = Vec2{
		X: (0.5 - py) * 2 * MaxTilt,
		Y: (px - 0.5) * 2 * MaxTilt,
	}
}

// Wheel zooms when shift is held and rotates around the vertical axis
// otherwise. Non-finite deltas are ignored.
func (c *Controller) Wheel(deltaY float64, shift bool) {
	if !finite(deltaY) {
		return
	}
	if shift {
		c.setZoom(c.state.Zoom + deltaY*zoomPerWheel)
		return
	}
	c.state.Rotation.Y += deltaY * rotationPerWheel
}

func (c *Controller) setZoom(z float64) {
	if math.IsNaN(z) {
		return
	}
	c.state.Zoom = min(max(z, MinZoom), MaxZoom)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ToggleAutoRotate starts or stops auto-rotation and reports whether it
// is now running. Starting is refused while dragging.
func (c *Controller) ToggleAutoRotate() bool {
	if c.state.AutoRotating {
		c.state.AutoRotating = false
		return false
	}
	if c.state.Dragging {
		return false
	}
	c.state.AutoRotating = true
	return true
}

// Reset restores the default state and stops auto-rotation.
func (c *Controller) Reset() {
	c.state = defaultInteraction()
	c.autoAngle = 0
	c.tiltVel = Vec2{}
	c.tiltTarget = Vec2{}
}

// Key applies a keyboard binding.
func (c *Controller) Key(k Key) {
	switch k {
	case KeyLeft:
		c.state.Rotation.Y -= keyRotation
	case KeyRight:
		c.state.Rotation.Y += keyRotation
	case KeyUp:
		c.state.Rotation.X -= keyRotation
	case KeyDown:
		c.state.Rotation.X += keyRotation
	case KeyZoomIn:
		c.setZoom(c.state.Zoom + keyZoom)
	case KeyZoomOut:
		c.setZoom(c.state.Zoom - keyZoom)
	case KeyToggleAutoRotate:
		c.ToggleAutoRotate()
	case KeyReset:
		c.Reset()
	}
}

// Step advances auto-rotation by one tick and moves the hover tilt
// towards its target.
func (c *Controller) Step() {
	if c.state.AutoRotating {
		c.autoAngle++
		c.state.Rotation.Y = autoAmplitude * math.Sin(c.autoAngle/autoPeriod)
	}
	c.state.Tilt.X, c.tiltVel.X = c.spring.Update(c.state.Tilt.X, c.tiltVel.X, c.tiltTarget.X)
	c.state.Tilt.Y, c.tiltVel.Y = c.spring.Update(c.state.Tilt.Y, c.tiltVel.Y, c.tiltTarget.Y)
	c.state.Tilt.X = min(max(c.state.Tilt.X, -MaxTilt), MaxTilt)
	c.state.Tilt.Y = min(max(c.state.Tilt.Y, -MaxTilt), MaxTilt)
}
