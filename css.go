// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package cardfx

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gogpu/cardfx/internal/filter"
)

// FilterFunc is a CSS filter primitive.
type FilterFunc uint8

const (
	FilterBrightness FilterFunc = iota
	FilterContrast
	FilterSaturate
	FilterSepia
	FilterGrayscale
	FilterHueRotate
)

var filterNames = [...]string{
	FilterBrightness: "brightness",
	FilterContrast:   "contrast",
	FilterSaturate:   "saturate",
	FilterSepia:      "sepia",
	FilterGrayscale:  "grayscale",
	FilterHueRotate:  "hue-rotate",
}

// String returns the CSS function name.
func (f FilterFunc) String() string {
	if int(f) < len(filterNames) {
		return filterNames[f]
	}
	return "unknown"
}

// FilterPrimitive is one function of a filter chain.
type FilterPrimitive struct {
	Func   FilterFunc
	Amount float64 // plain number; degrees for hue-rotate
}

// FilterChain is an ordered CSS filter list, applied left to right.
type FilterChain []FilterPrimitive

// String renders the chain in CSS syntax, or "none" when empty.
func (c FilterChain) String() string {
	if len(c) == 0 {
		return "none"
	}
	return string(c.AppendTo(nil))
}

// AppendTo appends the CSS form of the chain to dst.
func (c FilterChain) AppendTo(dst []byte) []byte {
	for i, p := range c {
		if i > 0 {
			dst = append(dst, ' ')
		}
		dst = appendPrimitive(dst, p.Func, p.Amount)
	}
	return dst
}

// ColorMatrix composes the chain into a single 4x5 row-major matrix over
// straight-alpha components in [0, 255]. The final column is the offset.
func (c FilterChain) ColorMatrix() [20]float32 {
	return [20]float32(c.matrix())
}

func (c FilterChain) matrix() filter.ColorMatrix {
	m := filter.Identity()
	for _, p := range c {
		m = m.Then(primitiveMatrix(p))
	}
	return m
}

func primitiveMatrix(p FilterPrimitive) filter.ColorMatrix {
	a := float32(p.Amount)
	switch p.Func {
	case FilterBrightness:
		return filter.Brightness(a)
	case FilterContrast:
		return filter.Contrast(a)
	case FilterSaturate:
		return filter.Saturate(a)
	case FilterSepia:
		return filter.Sepia(a)
	case FilterGrayscale:
		return filter.Grayscale(a)
	case FilterHueRotate:
		return filter.HueRotate(a)
	default:
		return filter.Identity()
	}
}

// ApplyFilterChain applies chain to pm in place, previewing the CSS path
// on the CPU.
func ApplyFilterChain(pm *Pixmap, chain FilterChain) {
	if pm == nil || len(chain) == 0 {
		return
	}
	m := chain.matrix()
	m.Apply(pm.data)
}

// ParseFilterChain parses a CSS filter value such as
// "saturate(1.2) brightness(1.1)". Percentages are accepted for the
// plain-number functions, and deg units for hue-rotate.
func ParseFilterChain(s string) (FilterChain, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "none" {
		return nil, nil
	}
	var chain FilterChain
	for s != "" {
		open := strings.IndexByte(s, '(')
		closing := strings.IndexByte(s, ')')
		if open <= 0 || closing < open {
			return nil, fmt.Errorf("cardfx: malformed filter %q", s)
		}
		name := strings.TrimSpace(s[:open])
		fn, ok := parseFilterFunc(name)
		if !ok {
			return nil, fmt.Errorf("cardfx: unknown filter function %q", name)
		}
		amount, err := parseFilterAmount(fn, strings.TrimSpace(s[open+1:closing]))
		if err != nil {
			return nil, fmt.Errorf("cardfx: filter %s: %w", name, err)
		}
		chain = append(chain, FilterPrimitive{Func: fn, Amount: amount})
		s = strings.TrimSpace(s[closing+1:])
	}
	return chain, nil
}

func parseFilterFunc(name string) (FilterFunc, bool) {
	for i, n := range filterNames {
		if n == name {
			return FilterFunc(i), true
		}
	}
	return 0, false
}

func parseFilterAmount(fn FilterFunc, arg string) (float64, error) {
	scale := 1.0
	switch {
	case fn == FilterHueRotate:
		arg = strings.TrimSuffix(arg, "deg")
	case strings.HasSuffix(arg, "%"):
		arg = strings.TrimSuffix(arg, "%")
		scale = 0.01
	}
	v, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return 0, err
	}
	return v * scale, nil
}

// CSSFilters returns the filter chain of every enabled effect, in order,
// with each recipe scaled by intensity*quality. An empty result means no
// effect contributes.
func CSSFilters(effects []Effect, quality float64) string {
	return string(AppendCSSFilters(nil, effects, quality))
}

// AppendCSSFilters is like CSSFilters but appends to dst.
func AppendCSSFilters(dst []byte, effects []Effect, quality float64) []byte {
	start := len(dst)
	for i := range effects {
		dst = appendEffectCSS(dst, start, &effects[i], quality)
	}
	return dst
}

// EffectFilterChain returns the primitives one effect contributes.
func EffectFilterChain(e *Effect, quality float64) FilterChain {
	def, ok := lookupDefinition(e.Type)
	if !ok || !e.Enabled {
		return nil
	}
	i := clampUnit(e.Intensity) * clampUnit(quality)
	chain := make(FilterChain, 0, len(def.css))
	for _, term := range def.css {
		chain = append(chain, FilterPrimitive{Func: term.fn, Amount: roundAmount(term.base + term.slope*i)})
	}
	return chain
}

// appendEffectCSS appends e's primitives, separated by a space from any
// output already written after dst[:start].
func appendEffectCSS(dst []byte, start int, e *Effect, quality float64) []byte {
	def, ok := lookupDefinition(e.Type)
	if !ok || !e.Enabled {
		return dst
	}
	i := clampUnit(e.Intensity) * clampUnit(quality)
	for _, term := range def.css {
		if len(dst) > start {
			dst = append(dst, ' ')
		}
		dst = appendPrimitive(dst, term.fn, term.base+term.slope*i)
	}
	return dst
}

func appendPrimitive(dst []byte, fn FilterFunc, amount float64) []byte {
	dst = append(dst, fn.String()...)
	dst = append(dst, '(')
	dst = appendNumber(dst, amount)
	if fn == FilterHueRotate {
		dst = append(dst, "deg"...)
	}
	return append(dst, ')')
}

// roundAmount rounds to three decimals.
func roundAmount(v float64) float64 {
	r := math.Round(v*1000) / 1000
	if r == 0 {
		return 0 // no "-0"
	}
	return r
}

// appendNumber formats v rounded to three decimals in shortest form.
func appendNumber(dst []byte, v float64) []byte {
	return strconv.AppendFloat(dst, roundAmount(v), 'f', -1, 64)
}

func clampUnit(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
