package cardfx

import (
	"math"
	"math/rand/v2"
	"slices"
	"strconv"
)

// Speed bounds applied to every effect.
const (
	MinSpeed = 0.05
	MaxSpeed = 10.0
)

// EffectStack is the ordered set of active effects, at most one per type.
// Later entries draw on top and their CSS filters apply later.
//
// Every operation is total: unknown ids and types are ignored.
type EffectStack struct {
	items []*Effect
	seq   uint64
	rng   *rand.Rand
}

// NewEffectStack creates an empty stack. rng supplies effect seeds; a nil
// rng uses a fixed seed.
func NewEffectStack(rng *rand.Rand) *EffectStack {
	if rng == nil {
		rng = rand.New(rand.NewPCG(0, 0))
	}
	return &EffectStack{rng: rng}
}

// Add appends an effect of type t with the definition defaults and
// returns its id. If an effect of type t exists its id is returned
// unchanged. Unknown types return "".
func (s *EffectStack) Add(t EffectType) string {
	def, ok := lookupDefinition(t)
	if !ok {
		return ""
	}
	if i := s.indexOfType(t); i >= 0 {
		return s.items[i].ID
	}
	s.seq++
	fx := &Effect{
		ID:           t.String() + "-" + strconv.FormatUint(s.seq, 10),
		Type:         t,
		Enabled:      true,
		Intensity:    def.Intensity,
		Speed:        def.Speed,
		CustomParams: def.filterParams(nil),
		Seed:         s.rng.Uint32(),
	}
	s.items = append(s.items, fx)
	return fx.ID
}

// Remove deletes the effect with id and reports whether it existed.
func (s *EffectStack) Remove(id string) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.items = slices.Delete(s.items, i, i+1)
	return true
}

// Update applies patch to the effect with id and reports whether the
// effect exists. Intensity is clamped to [0, 1] and speed to
// [MinSpeed, MaxSpeed]; NaN values are ignored.
func (s *EffectStack) Update(id string, patch EffectPatch) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	fx := s.items[i]
	if patch.Enabled != nil {
		fx.Enabled = *patch.Enabled
	}
	if patch.Intensity != nil && !math.IsNaN(*patch.Intensity) {
		fx.Intensity = clampUnit(*patch.Intensity)
	}
	if patch.Speed != nil && !math.IsNaN(*patch.Speed) {
		fx.Speed = clampSpeed(*patch.Speed)
	}
	if patch.CustomParams != nil {
		def, _ := lookupDefinition(fx.Type)
		fx.CustomParams = def.filterParams(patch.CustomParams)
	}
	return true
}

// SetParam sets one custom parameter. Keys the type does not declare are
// ignored. It reports whether the value was stored.
func (s *EffectStack) SetParam(id, key string, value any) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	fx := s.items[i]
	def, _ := lookupDefinition(fx.Type)
	if !def.Declares(key) {
		return false
	}
	if fx.CustomParams == nil {
		fx.CustomParams = make(map[string]any, 1)
	}
	fx.CustomParams[key] = value
	return true
}

// Move places the effect with id at index, clamped to the stack bounds,
// and reports whether the effect exists.
func (s *EffectStack) Move(id string, index int) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	index = min(max(index, 0), len(s.items)-1)
	fx := s.items[i]
	s.items = slices.Delete(s.items, i, i+1)
	s.items = slices.Insert(s.items, index, fx)
	return true
}

// Get returns a copy of the effect with id.
func (s *EffectStack) Get(id string) (Effect, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return Effect{}, false
	}
	return s.items[i].Clone(), true
}

// Effects returns copies of all effects in stack order.
func (s *EffectStack) Effects() []Effect {
	out := make([]Effect, len(s.items))
	for i, fx := range s.items {
		out[i] = fx.Clone()
	}
	return out
}

// Len returns the number of effects.
func (s *EffectStack) Len() int { return len(s.items) }

func (s *EffectStack) indexOf(id string) int {
	if id == "" {
		return -1
	}
	return slices.IndexFunc(s.items, func(fx *Effect) bool { return fx.ID == id })
}

func (s *EffectStack) indexOfType(t EffectType) int {
	return slices.IndexFunc(s.items, func(fx *Effect) bool { return fx.Type == t })
}

func clampSpeed(v float64) float64 {
	return min(max(v, MinSpeed), MaxSpeed)
}
