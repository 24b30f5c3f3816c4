package cardfx

import "strings"

// RenderTier is the device capability level the host reports.
type RenderTier uint8

const (
	// TierLow disables shader programs entirely.
	TierLow RenderTier = iota

	// TierMedium allows shaders with simplified lighting presets.
	TierMedium

	// TierHigh allows every shader program and preset.
	TierHigh
)

// String returns the tier name.
func (t RenderTier) String() string {
	switch t {
	case TierLow:
		return "low"
	case TierMedium:
		return "medium"
	case TierHigh:
		return "high"
	default:
		return "unknown"
	}
}

// ParseTier maps "low", "medium" or "high" to a tier.
func ParseTier(s string) (RenderTier, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return TierLow, true
	case "medium", "mid":
		return TierMedium, true
	case "high":
		return TierHigh, true
	}
	return TierLow, false
}
