package cardfx

import "testing"

func TestSelectPath(t *testing.T) {
	shaderTypes := map[EffectType]bool{
		Holographic: true, Refractor: true, Prismatic: true,
		Chrome: true, Gold: true, Metallic: true,
	}
	for _, et := range EffectTypes() {
		for _, tier := range []RenderTier{TierHigh, TierMedium, TierLow} {
			want := PathCSS
			if shaderTypes[et] && tier != TierLow {
				want = PathShader
			}
			if got := SelectPath(et, tier); got != want {
				t.Errorf("SelectPath(%v, %v) = %v, want %v", et, tier, got, want)
			}
		}
	}
	if got := SelectPath(EffectType(0), TierHigh); got != PathCSS {
		t.Errorf("SelectPath(unknown) = %v, want css", got)
	}
}

func TestSelectDeterministic(t *testing.T) {
	for _, et := range EffectTypes() {
		for _, tier := range []RenderTier{TierHigh, TierMedium, TierLow} {
			for p := PresetStudio; p <= PresetSunset; p++ {
				if a, b := Select(et, p, tier), Select(et, p, tier); a != b {
					t.Errorf("Select(%v, %v, %v) not deterministic: %v vs %v", et, p, tier, a, b)
				}
			}
		}
	}
}

func TestSimplifyPreset(t *testing.T) {
	tests := []struct {
		in     Preset
		high   Preset
		medium Preset
		low    Preset
	}{
		{PresetStudio, PresetStudio, PresetStudio, PresetSoft},
		{PresetDramatic, PresetDramatic, PresetStudio, PresetSoft},
		{PresetSoft, PresetSoft, PresetSoft, PresetSoft},
		{PresetNeon, PresetNeon, PresetSoft, PresetSoft},
		{PresetSunset, PresetSunset, PresetSoft, PresetSoft},
	}
	for _, tt := range tests {
		t.Run(tt.in.String(), func(t *testing.T) {
			if got := SimplifyPreset(tt.in, TierHigh); got != tt.high {
				t.Errorf("high = %v, want %v", got, tt.high)
			}
			if got := SimplifyPreset(tt.in, TierMedium); got != tt.medium {
				t.Errorf("medium = %v, want %v", got, tt.medium)
			}
			if got := SimplifyPreset(tt.in, TierLow); got != tt.low {
				t.Errorf("low = %v, want %v", got, tt.low)
			}
		})
	}
	if got := SimplifyPreset(Preset(42), TierHigh); got != PresetStudio {
		t.Errorf("unknown preset = %v, want studio", got)
	}
}

func TestEnumStrings(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"TierLow", TierLow.String(), "low"},
		{"TierMedium", TierMedium.String(), "medium"},
		{"TierHigh", TierHigh.String(), "high"},
		{"TierUnknown", RenderTier(9).String(), "unknown"},
		{"PathCSS", PathCSS.String(), "css"},
		{"PathShader", PathShader.String(), "shader"},
		{"PresetNeon", PresetNeon.String(), "neon"},
		{"PresetUnknown", Preset(9).String(), "unknown"},
		{"BlendAdditive", BlendAdditive.String(), "additive"},
		{"BlendAlpha", BlendAlpha.String(), "alpha"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("String() = %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestParseTier(t *testing.T) {
	for _, tier := range []RenderTier{TierLow, TierMedium, TierHigh} {
		if got, ok := ParseTier(tier.String()); !ok || got != tier {
			t.Errorf("ParseTier(%q) = %v, %v", tier.String(), got, ok)
		}
	}
	if _, ok := ParseTier("ultra"); ok {
		t.Error("ParseTier(ultra) succeeded")
	}
	if p, ok := ParsePreset("Dramatic"); !ok || p != PresetDramatic {
		t.Errorf("ParsePreset(Dramatic) = %v, %v", p, ok)
	}
}
