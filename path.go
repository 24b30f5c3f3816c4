package cardfx

import (
	"strings"

	"github.com/gogpu/cardfx/internal/shader"
)

// RenderPath is the composition route chosen for one effect.
type RenderPath uint8

const (
	// PathCSS renders the effect as a CSS filter chain.
	PathCSS RenderPath = iota

	// PathShader renders the effect with a shader program.
	PathShader
)

// String returns the path name.
func (p RenderPath) String() string {
	switch p {
	case PathCSS:
		return "css"
	case PathShader:
		return "shader"
	default:
		return "unknown"
	}
}

// Preset is a named lighting configuration for the metallic programs.
type Preset uint8

const (
	PresetStudio Preset = iota
	PresetDramatic
	PresetSoft
	PresetNeon
	PresetSunset
)

var presetNames = [...]string{
	PresetStudio:   "studio",
	PresetDramatic: "dramatic",
	PresetSoft:     "soft",
	PresetNeon:     "neon",
	PresetSunset:   "sunset",
}

// String returns the preset name.
func (p Preset) String() string {
	if int(p) < len(presetNames) {
		return presetNames[p]
	}
	return "unknown"
}

// ParsePreset maps a preset name to its value.
func ParsePreset(s string) (Preset, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range presetNames {
		if name == s {
			return Preset(i), true
		}
	}
	return PresetStudio, false
}

// mediumPresets simplifies expensive presets on medium hardware.
var mediumPresets = [...]Preset{
	PresetStudio:   PresetStudio,
	PresetDramatic: PresetStudio,
	PresetSoft:     PresetSoft,
	PresetNeon:     PresetSoft,
	PresetSunset:   PresetSoft,
}

// presetLighting adjusts a definition's surface parameters.
type presetLighting struct {
	roughness float64 // added to the base roughness
	metalness float64 // multiplies the base metalness
	warmth    float64 // hue shift towards orange, degrees
}

var presetTable = [...]presetLighting{
	PresetStudio:   {0, 1, 0},
	PresetDramatic: {-0.1, 1.1, 0},
	PresetSoft:     {0.25, 0.8, 0},
	PresetNeon:     {-0.05, 1, 40},
	PresetSunset:   {0.1, 0.9, -25},
}

// SimplifyPreset returns the preset actually used at tier.
// High keeps p, medium maps dramatic to studio and neon or sunset to soft,
// and low always uses soft.
func SimplifyPreset(p Preset, tier RenderTier) Preset {
	if int(p) >= len(mediumPresets) {
		p = PresetStudio
	}
	switch tier {
	case TierHigh:
		return p
	case TierMedium:
		return mediumPresets[p]
	default:
		return PresetSoft
	}
}

// SelectPath chooses the composition route for an effect type at tier.
// Shader-capable types use shaders on high and medium tiers; everything
// else, and every type on the low tier, uses CSS filters.
func SelectPath(t EffectType, tier RenderTier) RenderPath {
	def, ok := lookupDefinition(t)
	if !ok || def.program == shader.KindNone {
		return PathCSS
	}
	if tier == TierHigh || tier == TierMedium {
		return PathShader
	}
	return PathCSS
}

// Route is the outcome of path selection for one effect.
type Route struct {
	Path   RenderPath
	Preset Preset
}

// Select combines SelectPath and SimplifyPreset.
// It is a pure function of its inputs.
func Select(t EffectType, preset Preset, tier RenderTier) Route {
	return Route{Path: SelectPath(t, tier), Preset: SimplifyPreset(preset, tier)}
}
