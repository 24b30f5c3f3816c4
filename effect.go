package cardfx

import (
	"maps"
	"strconv"
	"strings"
)

// EffectType names a kind of card decoration.
type EffectType uint8

const (
	// Holographic is a rainbow sheen that follows the pointer.
	Holographic EffectType = iota + 1

	// Refractor is a chromatic refraction pattern.
	Refractor

	// Chrome is a cool, highly reflective metal finish.
	Chrome

	// Gold is a warm metal finish.
	Gold

	// Spectral is a saturated spectrum wash.
	Spectral

	// Electric is a high-contrast glow.
	Electric

	// Vintage is a faded sepia look.
	Vintage

	// Prismatic is a noise-split rainbow pattern.
	Prismatic

	// Shimmer is a subtle brightness sweep, also known as foil.
	Shimmer

	// Metallic is a neutral brushed metal finish.
	Metallic
)

var effectTypeNames = [...]string{
	Holographic: "holographic",
	Refractor:   "refractor",
	Chrome:      "chrome",
	Gold:        "gold",
	Spectral:    "spectral",
	Electric:    "electric",
	Vintage:     "vintage",
	Prismatic:   "prismatic",
	Shimmer:     "shimmer",
	Metallic:    "metallic",
}

// String returns the lowercase effect name.
func (t EffectType) String() string {
	if int(t) < len(effectTypeNames) && effectTypeNames[t] != "" {
		return effectTypeNames[t]
	}
	return "unknown"
}

// Valid reports whether t is one of the defined effect types.
func (t EffectType) Valid() bool {
	return t >= Holographic && t <= Metallic
}

// EffectTypes returns every defined effect type in declaration order.
func EffectTypes() []EffectType {
	out := make([]EffectType, 0, len(effectTypeNames)-1)
	for t := Holographic; t <= Metallic; t++ {
		out = append(out, t)
	}
	return out
}

var effectTypeAliases = map[string]EffectType{
	"foil":      Shimmer,
	"prizm":     Refractor,
	"gold-foil": Gold,
}

// ParseEffectType maps a name such as "holographic" or "foil" to its type.
// Matching ignores case and surrounding space.
func ParseEffectType(s string) (EffectType, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for t := Holographic; t <= Metallic; t++ {
		if effectTypeNames[t] == s {
			return t, true
		}
	}
	t, ok := effectTypeAliases[s]
	return t, ok
}

// Effect is one entry of an effect stack.
type Effect struct {
	ID           string
	Type         EffectType
	Enabled      bool
	Intensity    float64 // [0, 1]
	Speed        float64 // animation rate multiplier
	CustomParams map[string]any
	Seed         uint32 // fixed at insertion, feeds noise programs
}

// Clone returns a copy of e whose CustomParams map is not shared.
func (e *Effect) Clone() Effect {
	c := *e
	c.CustomParams = maps.Clone(e.CustomParams)
	return c
}

// FloatParam returns the named custom parameter as a float64, or def when it
// is missing or not numeric. Numeric strings are accepted.
func (e *Effect) FloatParam(key string, def float64) float64 {
	switch v := e.CustomParams[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case uint32:
		return float64(v)
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
	}
	return def
}

// StringParam returns the named custom parameter as a string, or def.
func (e *Effect) StringParam(key, def string) string {
	if v, ok := e.CustomParams[key].(string); ok && v != "" {
		return v
	}
	return def
}

// StringsParam returns the named custom parameter as a string list.
// Both []string and []any holding strings are accepted.
func (e *Effect) StringsParam(key string) []string {
	switch v := e.CustomParams[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// EffectPatch is a partial update applied by UpdateEffectSettings.
// Nil fields are left unchanged. A non-nil CustomParams replaces the
// effect's map after filtering to the type's declared keys.
type EffectPatch struct {
	Enabled      *bool
	Intensity    *float64
	Speed        *float64
	CustomParams map[string]any
}

// EffectSpec describes an effect to install when an engine is created.
// A nil Intensity keeps the definition default.
type EffectSpec struct {
	Type      EffectType
	Intensity *float64
}

// Float returns a pointer to v, for EffectPatch and EffectSpec literals.
func Float(v float64) *float64 { return &v }

// Bool returns a pointer to v, for EffectPatch literals.
func Bool(v bool) *bool { return &v }
