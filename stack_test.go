package cardfx

import (
	"math"
	"math/rand/v2"
	"testing"
)

func newTestStack() *EffectStack {
	return NewEffectStack(rand.New(rand.NewPCG(1, 2)))
}

func TestStackUniqueness(t *testing.T) {
	s := newTestStack()
	first := s.Add(Holographic)
	for range 5 {
		if id := s.Add(Holographic); id != first {
			t.Fatalf("Add(Holographic) = %q, want existing %q", id, first)
		}
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
	if first != "holographic-1" {
		t.Errorf("id = %q, want holographic-1", first)
	}
	if id := s.Add(Gold); id != "gold-2" {
		t.Errorf("second id = %q, want gold-2", id)
	}
}

func TestStackAddUnknown(t *testing.T) {
	s := newTestStack()
	if id := s.Add(EffectType(0)); id != "" {
		t.Errorf("Add(0) = %q, want empty", id)
	}
	if id := s.Add(EffectType(200)); id != "" {
		t.Errorf("Add(200) = %q, want empty", id)
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
}

func TestStackDefaults(t *testing.T) {
	s := newTestStack()
	id := s.Add(Holographic)
	fx, ok := s.Get(id)
	if !ok {
		t.Fatal("Get failed")
	}
	def, _ := DefinitionOf(Holographic)
	if !fx.Enabled || fx.Intensity != def.Intensity || fx.Speed != def.Speed {
		t.Errorf("defaults = %+v", fx)
	}
	if fx.CustomParams["hologramIntensity"] != 1.0 {
		t.Errorf("default params = %v", fx.CustomParams)
	}
}

func TestStackIdempotentRemove(t *testing.T) {
	s := newTestStack()
	a := s.Add(Chrome)
	b := s.Add(Vintage)

	if !s.Remove(a) {
		t.Error("first Remove returned false")
	}
	after := s.Effects()
	if s.Remove(a) {
		t.Error("second Remove returned true")
	}
	again := s.Effects()
	if len(after) != 1 || len(again) != 1 || again[0].ID != b {
		t.Errorf("stack after removals = %v / %v", after, again)
	}
	s.Remove("")
	s.Remove("nope-9")
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestStackUpdateClamps(t *testing.T) {
	s := newTestStack()
	id := s.Add(Gold)

	tests := []struct {
		name          string
		patch         EffectPatch
		wantIntensity float64
		wantSpeed     float64
	}{
		{"in range", EffectPatch{Intensity: Float(0.3), Speed: Float(2)}, 0.3, 2},
		{"too high", EffectPatch{Intensity: Float(4), Speed: Float(100)}, 1, MaxSpeed},
		{"too low", EffectPatch{Intensity: Float(-1), Speed: Float(0)}, 0, MinSpeed},
		{"nan ignored", EffectPatch{Intensity: Float(math.NaN()), Speed: Float(math.NaN())}, 0, MinSpeed},
		{"nil keeps", EffectPatch{}, 0, MinSpeed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !s.Update(id, tt.patch) {
				t.Fatal("Update returned false")
			}
			fx, _ := s.Get(id)
			if fx.Intensity != tt.wantIntensity || fx.Speed != tt.wantSpeed {
				t.Errorf("intensity, speed = %v, %v, want %v, %v", fx.Intensity, fx.Speed, tt.wantIntensity, tt.wantSpeed)
			}
		})
	}

	if s.Update("missing", EffectPatch{Enabled: Bool(false)}) {
		t.Error("Update of unknown id returned true")
	}
	s.Update(id, EffectPatch{Enabled: Bool(false)})
	if fx, _ := s.Get(id); fx.Enabled {
		t.Error("Enabled patch not applied")
	}
}

func TestStackUpdateCustomParams(t *testing.T) {
	s := newTestStack()
	id := s.Add(Electric)
	s.Update(id, EffectPatch{CustomParams: map[string]any{"glowColor": "#00ffff", "angle": 10}})

	fx, _ := s.Get(id)
	if fx.CustomParams["glowColor"] != "#00ffff" {
		t.Errorf("glowColor = %v", fx.CustomParams["glowColor"])
	}
	if _, ok := fx.CustomParams["angle"]; ok {
		t.Error("undeclared key angle stored on Electric")
	}

	// A new map replaces the old one.
	s.Update(id, EffectPatch{CustomParams: map[string]any{"hue": 20}})
	fx, _ = s.Get(id)
	if _, ok := fx.CustomParams["glowColor"]; ok {
		t.Error("replaced map still holds glowColor")
	}
}

func TestStackSetParam(t *testing.T) {
	s := newTestStack()
	id := s.Add(Chrome)
	if !s.SetParam(id, "preset", "neon") {
		t.Error("SetParam(preset) = false")
	}
	if s.SetParam(id, "glowColor", "#fff") {
		t.Error("SetParam of undeclared key = true")
	}
	if s.SetParam("x", "preset", "soft") {
		t.Error("SetParam of unknown id = true")
	}
	fx, _ := s.Get(id)
	if fx.CustomParams["preset"] != "neon" {
		t.Errorf("preset = %v, want neon", fx.CustomParams["preset"])
	}
}

func TestStackMove(t *testing.T) {
	s := newTestStack()
	a := s.Add(Holographic)
	b := s.Add(Gold)
	c := s.Add(Vintage)

	order := func() []string {
		var ids []string
		for _, fx := range s.Effects() {
			ids = append(ids, fx.ID)
		}
		return ids
	}
	equal := func(got, want []string) bool {
		if len(got) != len(want) {
			return false
		}
		for i := range got {
			if got[i] != want[i] {
				return false
			}
		}
		return true
	}

	s.Move(c, 0)
	if got := order(); !equal(got, []string{c, a, b}) {
		t.Errorf("after Move(c, 0) = %v", got)
	}
	s.Move(c, 99)
	if got := order(); !equal(got, []string{a, b, c}) {
		t.Errorf("after Move(c, 99) = %v", got)
	}
	s.Move(a, -3)
	if got := order(); !equal(got, []string{a, b, c}) {
		t.Errorf("after Move(a, -3) = %v", got)
	}
	if s.Move("nope", 0) {
		t.Error("Move of unknown id = true")
	}
}

func TestStackSeedsReproducible(t *testing.T) {
	a := NewEffectStack(rand.New(rand.NewPCG(7, 7)))
	b := NewEffectStack(rand.New(rand.NewPCG(7, 7)))
	for _, et := range []EffectType{Prismatic, Refractor, Holographic} {
		fa, _ := a.Get(a.Add(et))
		fb, _ := b.Get(b.Add(et))
		if fa.Seed != fb.Seed {
			t.Errorf("%v seeds differ: %d vs %d", et, fa.Seed, fb.Seed)
		}
	}
}

func TestStackEffectsAreCopies(t *testing.T) {
	s := newTestStack()
	id := s.Add(Gold)
	list := s.Effects()
	list[0].Intensity = 0
	list[0].CustomParams["tint"] = "#000000"
	fx, _ := s.Get(id)
	if fx.Intensity == 0 || fx.CustomParams["tint"] == "#000000" {
		t.Error("Effects() exposes internal state")
	}
}
