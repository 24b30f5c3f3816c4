package cardfx

import (
	"maps"
	"slices"

	"github.com/gogpu/cardfx/internal/shader"
)

// cssTerm is one recipe primitive: amount = base + slope*intensity.
type cssTerm struct {
	fn    FilterFunc
	base  float64
	slope float64
}

// Definition is the immutable description of an effect type.
type Definition struct {
	Type      EffectType
	Intensity float64 // default intensity
	Speed     float64 // default speed
	Keys      []string
	Defaults  map[string]any

	BaseHue   float64 // degrees
	Angle     float64 // degrees
	Tint      string  // hex, metallic family only
	Roughness float64
	Metalness float64

	program shader.Kind
	css     []cssTerm
}

// HasShader reports whether the type has a shader recipe.
func (d *Definition) HasShader() bool { return d.program != shader.KindNone }

// Program returns the name of the shader program, or "none".
func (d *Definition) Program() string { return d.program.String() }

// Declares reports whether key is a custom parameter of the type.
func (d *Definition) Declares(key string) bool { return slices.Contains(d.Keys, key) }

var (
	prismaticKeys = []string{"angle", "colors", "hue", "tint"}
	metallicKeys  = []string{"angle", "tint", "roughness", "metalness", "preset"}
	refractorCSS  = []cssTerm{{FilterSaturate, 1.3, 0.3}, {FilterContrast, 1.1, 0.1}, {FilterBrightness, 1.1, 0.1}}
)

var definitions = [...]Definition{
	Holographic: {
		Intensity: 0.7, Speed: 1,
		Keys:     []string{"angle", "colors", "hue", "tint", "hologramIntensity"},
		Defaults: map[string]any{"hologramIntensity": 1.0},
		BaseHue:  200, Angle: 45,
		program: shader.KindPrismatic,
		css:     []cssTerm{{FilterSaturate, 1.2, 0.4}, {FilterBrightness, 1, 0.2}, {FilterContrast, 1, 0.15}},
	},
	Refractor: {
		Intensity: 0.6, Speed: 1,
		Keys:    prismaticKeys,
		BaseHue: 180, Angle: 30,
		program: shader.KindPrismatic,
		css:     refractorCSS,
	},
	Prismatic: {
		Intensity: 0.6, Speed: 1.2,
		Keys:    prismaticKeys,
		BaseHue: 0, Angle: 60,
		program: shader.KindPrismatic,
		css:     refractorCSS,
	},
	Chrome: {
		Intensity: 0.8, Speed: 0.8,
		Keys:     metallicKeys,
		Defaults: map[string]any{"preset": "studio"},
		Angle:    90, Tint: "#e6e8f0", Roughness: 0.15, Metalness: 0.95,
		program: shader.KindMetallic,
		css:     []cssTerm{{FilterContrast, 0, 1.15}, {FilterBrightness, 0, 1.05}, {FilterGrayscale, 0, 0.2}},
	},
	Gold: {
		Intensity: 0.75, Speed: 0.8,
		Keys:     metallicKeys,
		Defaults: map[string]any{"preset": "studio"},
		Angle:    90, Tint: "#ffd700", Roughness: 0.25, Metalness: 0.9,
		program: shader.KindMetallic,
		css:     []cssTerm{{FilterSepia, 0, 0.6}, {FilterSaturate, 0, 1.5}, {FilterBrightness, 0, 1.1}},
	},
	Metallic: {
		Intensity: 0.7, Speed: 1,
		Keys:     metallicKeys,
		Defaults: map[string]any{"preset": "studio"},
		Angle:    90, Tint: "#c0c0c8", Roughness: 0.3, Metalness: 0.85,
		program: shader.KindMetallic,
		css:     []cssTerm{{FilterContrast, 1.1, 0.1}, {FilterBrightness, 1, 0.05}, {FilterGrayscale, 0, 0.3}},
	},
	Spectral: {
		Intensity: 0.6, Speed: 1.5,
		Keys: []string{"hue", "colors"},
		css:  []cssTerm{{FilterSaturate, 1.4, 0.3}, {FilterBrightness, 1, 0.1}},
	},
	Electric: {
		Intensity: 0.7, Speed: 2,
		Keys:    []string{"glowColor", "hue"},
		BaseHue: 190,
		css:     []cssTerm{{FilterContrast, 1.2, 0.2}, {FilterBrightness, 1, 0.25}, {FilterSaturate, 1.1, 0.2}},
	},
	Vintage: {
		Intensity: 0.5, Speed: 0.5,
		css: []cssTerm{{FilterSepia, 0, 0.4}, {FilterContrast, 1, 0.1}, {FilterSaturate, 0, 0.9}},
	},
	Shimmer: {
		Intensity: 0.5, Speed: 1,
		Keys:  []string{"angle", "glowColor"},
		Angle: 120,
		css:   []cssTerm{{FilterBrightness, 1, 0.15}, {FilterContrast, 1, 0.1}},
	},
}

func init() {
	for t := Holographic; t <= Metallic; t++ {
		definitions[t].Type = t
	}
}

func lookupDefinition(t EffectType) (*Definition, bool) {
	if !t.Valid() {
		return nil, false
	}
	return &definitions[t], true
}

// DefinitionOf returns a copy of the definition for t.
func DefinitionOf(t EffectType) (Definition, bool) {
	def, ok := lookupDefinition(t)
	if !ok {
		return Definition{}, false
	}
	d := *def
	d.Keys = slices.Clone(def.Keys)
	d.Defaults = maps.Clone(def.Defaults)
	return d, true
}

// filterParams returns the entries of params whose keys def declares,
// layered over the definition defaults.
func (d *Definition) filterParams(params map[string]any) map[string]any {
	out := maps.Clone(d.Defaults)
	if out == nil {
		out = make(map[string]any, len(params))
	}
	for k, v := range params {
		if d.Declares(k) {
			out[k] = v
		}
	}
	return out
}
