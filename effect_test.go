package cardfx

import "testing"

func TestParseEffectType(t *testing.T) {
	tests := []struct {
		in   string
		want EffectType
		ok   bool
	}{
		{"holographic", Holographic, true},
		{"  Chrome ", Chrome, true},
		{"METALLIC", Metallic, true},
		{"foil", Shimmer, true},
		{"prizm", Refractor, true},
		{"gold-foil", Gold, true},
		{"plasma", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseEffectType(tt.in)
			if got != tt.want || ok != tt.ok {
				t.Errorf("ParseEffectType(%q) = %v, %v, want %v, %v", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestEffectTypeString(t *testing.T) {
	for _, et := range EffectTypes() {
		got, ok := ParseEffectType(et.String())
		if !ok || got != et {
			t.Errorf("ParseEffectType(%q) = %v, %v, want %v", et.String(), got, ok, et)
		}
	}
	if got := EffectType(0).String(); got != "unknown" {
		t.Errorf("EffectType(0).String() = %q, want unknown", got)
	}
	if got := EffectType(99).String(); got != "unknown" {
		t.Errorf("EffectType(99).String() = %q, want unknown", got)
	}
	if n := len(EffectTypes()); n != 10 {
		t.Errorf("len(EffectTypes()) = %d, want 10", n)
	}
}

func TestEffectFloatParam(t *testing.T) {
	fx := Effect{CustomParams: map[string]any{
		"a": 1.5,
		"b": float32(2),
		"c": 3,
		"d": " 4.25 ",
		"e": "wide",
		"f": true,
	}}
	tests := []struct {
		key  string
		want float64
	}{
		{"a", 1.5},
		{"b", 2},
		{"c", 3},
		{"d", 4.25},
		{"e", -1},
		{"f", -1},
		{"missing", -1},
	}
	for _, tt := range tests {
		if got := fx.FloatParam(tt.key, -1); got != tt.want {
			t.Errorf("FloatParam(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestEffectStringsParam(t *testing.T) {
	fx := Effect{CustomParams: map[string]any{
		"typed": []string{"#ff0000", "#00ff00"},
		"loose": []any{"#0000ff", 7, "#ffffff"},
		"scalar": "#123456",
	}}
	if got := fx.StringsParam("typed"); len(got) != 2 {
		t.Errorf("StringsParam(typed) = %v, want 2 entries", got)
	}
	if got := fx.StringsParam("loose"); len(got) != 2 || got[1] != "#ffffff" {
		t.Errorf("StringsParam(loose) = %v, want [#0000ff #ffffff]", got)
	}
	if got := fx.StringsParam("scalar"); got != nil {
		t.Errorf("StringsParam(scalar) = %v, want nil", got)
	}
	if got := fx.StringParam("scalar", "x"); got != "#123456" {
		t.Errorf("StringParam(scalar) = %q", got)
	}
	if got := fx.StringParam("typed", "x"); got != "x" {
		t.Errorf("StringParam(typed) = %q, want default", got)
	}
}

func TestEffectCloneIsolated(t *testing.T) {
	fx := Effect{ID: "gold-1", Type: Gold, CustomParams: map[string]any{"tint": "#ffcc00"}}
	c := fx.Clone()
	c.CustomParams["tint"] = "#000000"
	if fx.CustomParams["tint"] != "#ffcc00" {
		t.Error("Clone shares the CustomParams map")
	}
}
