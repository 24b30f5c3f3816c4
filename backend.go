package cardfx

import (
	"errors"
	"fmt"
	"slices"

	"github.com/gogpu/cardfx/internal/shader"
)

// ErrFallbackToCSS indicates a shader backend cannot render an effect.
// The engine transparently routes the effect through the CSS path instead.
var ErrFallbackToCSS = errors.New("cardfx: falling back to CSS rendering")

// ErrContextLost indicates the GPU context behind a backend is gone.
// Every shader-routed effect falls back to CSS until RestoreContext.
var ErrContextLost = errors.New("cardfx: shader context lost")

// ProgramError reports that one shader program failed to compile or link.
// Effects using the program fall back to CSS until RestoreContext.
type ProgramError struct {
	Type    EffectType // first effect that requested the program
	Program string
	Err     error
}

func (e *ProgramError) Error() string {
	return fmt.Sprintf("cardfx: program %s (%s): %v", e.Program, e.Type, e.Err)
}

// Unwrap returns the underlying compile error.
func (e *ProgramError) Unwrap() error { return e.Err }

// Is reports ErrFallbackToCSS so callers can treat any program failure
// as a fallback.
func (e *ProgramError) Is(target error) bool { return target == ErrFallbackToCSS }

// BlendMode is how a program's premultiplied output composites onto the card.
type BlendMode uint8

const (
	// BlendAlpha is source-over compositing.
	BlendAlpha BlendMode = iota

	// BlendAdditive adds the output onto the destination.
	BlendAdditive
)

// String returns the blend mode name.
func (b BlendMode) String() string {
	if b == BlendAdditive {
		return "additive"
	}
	return "alpha"
}

// ShaderProgram describes one effect program handed to a backend.
type ShaderProgram struct {
	Name   string
	Blend  BlendMode
	Source string // WGSL module with vs_main and fs_main entry points

	kind shader.Kind
}

// programTable holds the programs of every shader kind, indexed by kind.
var programTable = func() []ShaderProgram {
	kinds := shader.Kinds()
	table := make([]ShaderProgram, int(slices.Max(kinds))+1)
	for _, k := range kinds {
		p, _ := shader.Lookup(k)
		blend := BlendAlpha
		if p.Blend == shader.BlendAdditive {
			blend = BlendAdditive
		}
		table[k] = ShaderProgram{Name: k.String(), Blend: blend, Source: p.Source, kind: k}
	}
	return table
}()

// programFor returns the program of a shader kind.
func programFor(kind shader.Kind) (ShaderProgram, bool) {
	if kind == shader.KindNone || int(kind) >= len(programTable) {
		return ShaderProgram{}, false
	}
	return programTable[kind], true
}

// ShaderPrograms returns every program a backend may be asked to render.
func ShaderPrograms() []ShaderProgram {
	var out []ShaderProgram
	for _, p := range programTable {
		if p.kind != shader.KindNone {
			out = append(out, p)
		}
	}
	return out
}

// ShaderBackend renders shader-routed effects.
//
// The engine calls Prepare whenever the tier or the set of shader-routed
// effects changes, then Draw once per frame with the same commands in
// stack order and fresh uniforms. Errors from either call are handled at
// this boundary: a *ProgramError disables one program, ErrContextLost or
// any other error disables every program until RestoreContext.
//
// Implementations are owned by one engine and need not be safe for
// concurrent use.
type ShaderBackend interface {
	// Name returns the backend name (e.g., "software", "wgpu").
	Name() string

	// Prepare creates programs and per-effect uniform buffers for list,
	// releasing buffers of effects no longer present.
	Prepare(list []DrawCommand) error

	// Draw writes uniforms and renders list in order.
	Draw(list []DrawCommand) error

	// Close releases all programs and buffers.
	Close()
}

func programKind(name string) shader.Kind {
	for _, p := range programTable {
		if p.kind != shader.KindNone && p.Name == name {
			return p.kind
		}
	}
	return shader.KindNone
}
