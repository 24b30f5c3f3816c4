package shader

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Evaluator computes the straight-alpha colour of a program at texture
// coordinate (u, v) in [0,1]². It mirrors the WGSL fs_main of the same kind.
type Evaluator interface {
	Eval(p *Params, u, v float32) (mgl32.Vec3, float32)
}

// NewEvaluator returns the CPU evaluator for kind, or nil for KindNone.
func NewEvaluator(kind Kind) Evaluator {
	switch kind {
	case KindMetallic:
		return Metallic{}
	case KindPrismatic:
		return Prismatic{}
	default:
		return nil
	}
}

// Metallic evaluates the metallic program.
type Metallic struct{}

var (
	envLow  = mgl32.Vec3{0.12, 0.14, 0.2}
	envHigh = mgl32.Vec3{0.95, 0.95, 1.0}
	viewDir = mgl32.Vec3{0, 0, 1}
)

// Eval implements Evaluator.
func (Metallic) Eval(p *Params, u, v float32) (mgl32.Vec3, float32) {
	t := p.Time * p.Speed

	n := mgl32.Vec3{sin(u*10+t) * 0.05, cos(v*10+t) * 0.05, 1}.Normalize()
	ndv := max(viewDir.Dot(n), 0)
	fresnel := pow(max(1-ndv, 0.0001), 5*p.Metalness)

	dx, dy := cos(p.Angle), sin(p.Angle)
	g := clamp((u-0.5)*dx+(v-0.5)*dy+0.5, 0, 1)
	env := mixVec(envLow, envHigh, g).Add(splat(0.08 * sin(g*12+t)))

	base := mgl32.Vec3{p.Tint[0], p.Tint[1], p.Tint[2]}
	k := clamp(fresnel+0.35*p.Metalness, 0, 1)
	lit := mixVec(base, env, k)

	light := mgl32.Vec3{sin(t * 0.5), 0.5, cos(t * 0.5)}.Normalize()
	h := light.Add(viewDir).Normalize()
	shininess := mix(96, 8, p.Roughness)
	highlight := pow(max(n.Dot(h), 0), shininess) * (1 - 0.7*p.Roughness)
	lit = lit.Add(splat(highlight))

	color := mixVec(base.Mul(0.5), lit, p.Intensity)
	alpha := mix(0.2, 0.8, p.Intensity)
	return color, alpha
}

// Prismatic evaluates the prismatic program. Params.Seed offsets both
// noise samples.
type Prismatic struct{}

// Eval implements Evaluator.
func (Prismatic) Eval(p *Params, u, v float32) (mgl32.Vec3, float32) {
	t := p.Time * p.Speed
	s := p.Seed * 0.0137

	px, py := u-0.5, v-0.5
	radius := float32(math.Hypot(float64(px), float64(py)))
	theta := float32(math.Atan2(float64(py), float64(px)))

	n1 := GradientNoise(u*4+t*0.1+s, v*4+s)
	n2 := GradientNoise(u*8-s, v*8-t*0.15-s)

	r := 0.5 + 0.5*sin(n1*2*math.Pi+t)
	g := 0.5 + 0.5*sin(n2*2*math.Pi+t+2.0943951)
	b := 0.5 + 0.5*sin((n1+n2)*math.Pi+t+4.1887902)

	refraction := sin(radius*20+t) + cos(theta*8+t*0.5)
	color := mgl32.Vec3{r, g, b}.Mul(0.8 + 0.1*refraction)
	tinted := mgl32.Vec3{color[0] * p.Tint[0], color[1] * p.Tint[1], color[2] * p.Tint[2]}
	color = mixVec(color, tinted, 0.5)

	edge := smoothstep(0.35, 0.5, radius) * (1 - smoothstep(0.5, 0.65, radius))
	color = color.Add(splat(edge * 0.6 * p.Intensity))

	alpha := clamp((1-radius*1.4)*p.Intensity+edge*0.3*p.Intensity, 0, 1)
	return color, alpha
}

func sin(x float32) float32 { return float32(math.Sin(float64(x))) }
func cos(x float32) float32 { return float32(math.Cos(float64(x))) }

func pow(x, y float32) float32 { return float32(math.Pow(float64(x), float64(y))) }

func mix(a, b, t float32) float32 { return a + (b-a)*t }

func mixVec(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

func splat(x float32) mgl32.Vec3 { return mgl32.Vec3{x, x, x} }

func clamp(x, lo, hi float32) float32 { return mgl32.Clamp(x, lo, hi) }

func smoothstep(e0, e1, x float32) float32 {
	t := clamp((x-e0)/(e1-e0), 0, 1)
	return t * t * (3 - 2*t)
}
