package cardfx

import (
	"strings"
	"testing"
)

func testEffect(t EffectType, intensity float64) Effect {
	return Effect{ID: t.String(), Type: t, Enabled: true, Intensity: intensity, Speed: 1}
}

func TestCSSFiltersScenario(t *testing.T) {
	got := CSSFilters([]Effect{testEffect(Holographic, 0.7), testEffect(Vintage, 0.4)}, 1)
	want := "saturate(1.48) brightness(1.14) contrast(1.105) sepia(0.16) contrast(1.04) saturate(0.36)"
	if got != want {
		t.Errorf("CSSFilters() =\n  %q\nwant\n  %q", got, want)
	}
}

func TestCSSFiltersRecipes(t *testing.T) {
	tests := []struct {
		typ       EffectType
		intensity float64
		want      string
	}{
		{Shimmer, 1, "brightness(1.15) contrast(1.1)"},
		{Holographic, 0, "saturate(1.2) brightness(1) contrast(1)"},
		{Refractor, 1, "saturate(1.6) contrast(1.2) brightness(1.2)"},
		{Prismatic, 1, "saturate(1.6) contrast(1.2) brightness(1.2)"},
		{Gold, 1, "sepia(0.6) saturate(1.5) brightness(1.1)"},
		{Gold, 0, "sepia(0) saturate(0) brightness(0)"},
		{Chrome, 0.5, "contrast(0.575) brightness(0.525) grayscale(0.1)"},
		{Vintage, 1, "sepia(0.4) contrast(1.1) saturate(0.9)"},
		{Spectral, 1, "saturate(1.7) brightness(1.1)"},
		{Electric, 1, "contrast(1.4) brightness(1.25) saturate(1.3)"},
		{Metallic, 1, "contrast(1.2) brightness(1.05) grayscale(0.3)"},
	}
	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			if got := CSSFilters([]Effect{testEffect(tt.typ, tt.intensity)}, 1); got != tt.want {
				t.Errorf("CSSFilters(%v@%v) = %q, want %q", tt.typ, tt.intensity, got, tt.want)
			}
		})
	}
}

func TestCSSFiltersOrderSensitive(t *testing.T) {
	a, b := testEffect(Shimmer, 1), testEffect(Vintage, 1)
	ab := CSSFilters([]Effect{a, b}, 1)
	ba := CSSFilters([]Effect{b, a}, 1)
	if ab == ba {
		t.Fatalf("order ignored: %q", ab)
	}
	if want := "brightness(1.15) contrast(1.1) sepia(0.4) contrast(1.1) saturate(0.9)"; ab != want {
		t.Errorf("[A, B] = %q, want %q", ab, want)
	}
	if want := "sepia(0.4) contrast(1.1) saturate(0.9) brightness(1.15) contrast(1.1)"; ba != want {
		t.Errorf("[B, A] = %q, want %q", ba, want)
	}

	// Reordering back restores the original chain.
	if again := CSSFilters([]Effect{a, b}, 1); again != ab {
		t.Errorf("round trip = %q, want %q", again, ab)
	}
}

func TestCSSFiltersSkipsDisabled(t *testing.T) {
	off := testEffect(Gold, 1)
	off.Enabled = false
	got := CSSFilters([]Effect{off, testEffect(Shimmer, 1), {Type: EffectType(0), Enabled: true}}, 1)
	if got != "brightness(1.15) contrast(1.1)" {
		t.Errorf("CSSFilters() = %q", got)
	}
	if got := CSSFilters(nil, 1); got != "" {
		t.Errorf("CSSFilters(nil) = %q, want empty", got)
	}
}

func TestCSSFiltersQuality(t *testing.T) {
	got := CSSFilters([]Effect{testEffect(Holographic, 1)}, 0.5)
	if want := "saturate(1.4) brightness(1.1) contrast(1.075)"; got != want {
		t.Errorf("quality 0.5 = %q, want %q", got, want)
	}
	// Quality and intensity are clamped to [0, 1].
	if a, b := CSSFilters([]Effect{testEffect(Gold, 3)}, 7), CSSFilters([]Effect{testEffect(Gold, 1)}, 1); a != b {
		t.Errorf("clamped = %q, want %q", a, b)
	}
}

func TestAppendCSSFiltersPrefix(t *testing.T) {
	dst := []byte("filter: ")
	dst = AppendCSSFilters(dst, []Effect{testEffect(Shimmer, 1), testEffect(Vintage, 1)}, 1)
	want := "filter: brightness(1.15) contrast(1.1) sepia(0.4) contrast(1.1) saturate(0.9)"
	if string(dst) != want {
		t.Errorf("AppendCSSFilters = %q, want %q", dst, want)
	}
}

func TestEffectFilterChain(t *testing.T) {
	e := testEffect(Holographic, 0.7)
	chain := EffectFilterChain(&e, 1)
	if got := chain.String(); got != "saturate(1.48) brightness(1.14) contrast(1.105)" {
		t.Errorf("chain = %q", got)
	}
	e.Enabled = false
	if chain := EffectFilterChain(&e, 1); chain.String() != "none" {
		t.Errorf("disabled chain = %q, want none", chain.String())
	}
}

func TestParseFilterChain(t *testing.T) {
	chain, err := ParseFilterChain("saturate(140%)  hue-rotate(90deg) brightness(1.1)")
	if err != nil {
		t.Fatalf("ParseFilterChain: %v", err)
	}
	want := FilterChain{
		{FilterSaturate, 1.4},
		{FilterHueRotate, 90},
		{FilterBrightness, 1.1},
	}
	if len(chain) != len(want) {
		t.Fatalf("chain = %v, want %v", chain, want)
	}
	for i := range want {
		if chain[i].Func != want[i].Func || roundAmount(chain[i].Amount) != want[i].Amount {
			t.Errorf("chain[%d] = %v, want %v", i, chain[i], want[i])
		}
	}
	if got := chain.String(); got != "saturate(1.4) hue-rotate(90deg) brightness(1.1)" {
		t.Errorf("String() = %q", got)
	}

	for _, bad := range []string{"blur(2px)", "saturate(", "brightness(x)", "(1)"} {
		if _, err := ParseFilterChain(bad); err == nil {
			t.Errorf("ParseFilterChain(%q) succeeded", bad)
		}
	}
	if chain, err := ParseFilterChain("none"); err != nil || chain != nil {
		t.Errorf("ParseFilterChain(none) = %v, %v", chain, err)
	}
}

func TestFilterChainRoundTrip(t *testing.T) {
	css := CSSFilters([]Effect{testEffect(Holographic, 0.7), testEffect(Vintage, 0.4)}, 1)
	chain, err := ParseFilterChain(css)
	if err != nil {
		t.Fatal(err)
	}
	if chain.String() != css {
		t.Errorf("round trip = %q, want %q", chain.String(), css)
	}
}

func TestApplyFilterChain(t *testing.T) {
	pm := NewPixmap(2, 2)
	pm.Clear(RGB(1, 1, 1))

	ApplyFilterChain(pm, FilterChain{{FilterBrightness, 0.5}})
	c := pm.GetPixel(1, 1)
	if c.R < 0.49 || c.R > 0.51 || c.A != 1 {
		t.Errorf("brightness(0.5) on white = %+v", c)
	}

	pm.Clear(RGB(1, 0, 0))
	ApplyFilterChain(pm, FilterChain{{FilterGrayscale, 1}})
	c = pm.GetPixel(0, 0)
	if diff := c.R - c.G; diff > 0.01 || diff < -0.01 {
		t.Errorf("grayscale(1) left colour: %+v", c)
	}

	// Identity chains and nil pixmaps are no-ops.
	before := append([]uint8(nil), pm.Data()...)
	ApplyFilterChain(pm, nil)
	ApplyFilterChain(nil, FilterChain{{FilterSepia, 1}})
	if string(before) != string(pm.Data()) {
		t.Error("empty chain modified pixels")
	}
}

func TestColorMatrixComposes(t *testing.T) {
	chain := FilterChain{{FilterBrightness, 2}, {FilterBrightness, 0.5}}
	m := chain.ColorMatrix()
	if m[0] != 1 || m[6] != 1 || m[12] != 1 || m[18] != 1 {
		t.Errorf("brightness(2) brightness(0.5) diagonal = %v %v %v %v", m[0], m[6], m[12], m[18])
	}
	if !strings.Contains(FilterHueRotate.String(), "hue") {
		t.Error("FilterHueRotate name")
	}
}
