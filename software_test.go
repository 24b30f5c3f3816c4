package cardfx

import (
	"errors"
	"testing"

	"github.com/gogpu/cardfx/internal/blend"
	"github.com/gogpu/cardfx/internal/shader"
)

func newTestSoftware(w, h int) (*Pixmap, *SoftwareBackend) {
	base := NewPixmap(w, h)
	base.Clear(RGB(0.25, 0.25, 0.25))
	sw := NewSoftwareBackend(base)
	sw.validate = false
	return base, sw
}

func command(id string, typ EffectType, kind shader.Kind, intensity float64) DrawCommand {
	prog, _ := programFor(kind)
	return DrawCommand{
		EffectID: id,
		Type:     typ,
		Program:  prog,
		Uniforms: Uniforms{
			Time:      1.25,
			Intensity: intensity,
			Speed:     1,
			Tint:      RGB(1, 0.8, 0.2),
			Roughness: 0.3,
			Metalness: 0.9,
			Angle:     45,
			Hue:       200,
			Seed:      17,
			Pointer:   [2]float64{0.5, 0.5},
			Viewport:  [2]float64{16, 16},
		},
	}
}

func TestSoftwareBackendMetallic(t *testing.T) {
	base, sw := newTestSoftware(16, 16)
	list := []DrawCommand{command("gold-1", Gold, shader.KindMetallic, 1)}
	if err := sw.Prepare(list); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if err := sw.Draw(list); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if string(sw.Output().Data()) == string(base.Data()) {
		t.Error("metallic draw left the card unchanged")
	}
	if c := base.GetPixel(3, 3); !near(c.R, 0.25, 0.01) {
		t.Errorf("base modified: %+v", c)
	}
	for i := 3; i < len(sw.Output().Data()); i += 4 {
		if sw.Output().Data()[i] != 255 {
			t.Fatalf("alpha at byte %d = %d, want opaque", i, sw.Output().Data()[i])
		}
	}
}

func TestSoftwareBackendAdditiveOnlyBrightens(t *testing.T) {
	base, sw := newTestSoftware(16, 16)
	list := []DrawCommand{command("prismatic-1", Prismatic, shader.KindPrismatic, 0.8)}
	if err := sw.Prepare(list); err != nil {
		t.Fatal(err)
	}
	if err := sw.Draw(list); err != nil {
		t.Fatal(err)
	}
	out, in := sw.Output().Data(), base.Data()
	for i := range out {
		if out[i] < in[i] {
			t.Fatalf("byte %d darkened: %d < %d", i, out[i], in[i])
		}
	}
}

func TestSoftwareBackendRedrawsFromBase(t *testing.T) {
	_, sw := newTestSoftware(8, 8)
	list := []DrawCommand{command("prismatic-1", Prismatic, shader.KindPrismatic, 1)}
	if err := sw.Prepare(list); err != nil {
		t.Fatal(err)
	}
	_ = sw.Draw(list)
	first := append([]uint8(nil), sw.Output().Data()...)
	_ = sw.Draw(list)
	if string(first) != string(sw.Output().Data()) {
		t.Error("identical draws accumulated instead of starting from the base")
	}
}

func TestSoftwareBackendPrepareLifecycle(t *testing.T) {
	_, sw := newTestSoftware(4, 4)
	a := command("chrome-1", Chrome, shader.KindMetallic, 1)
	b := command("refractor-2", Refractor, shader.KindPrismatic, 1)

	if err := sw.Prepare([]DrawCommand{a, b}); err != nil {
		t.Fatal(err)
	}
	if len(sw.evals) != 2 {
		t.Fatalf("evaluators = %d, want 2", len(sw.evals))
	}
	if err := sw.Prepare([]DrawCommand{b}); err != nil {
		t.Fatal(err)
	}
	if _, ok := sw.evals["chrome-1"]; ok {
		t.Error("evaluator of removed effect kept")
	}

	err := sw.Draw([]DrawCommand{a})
	if !errors.Is(err, ErrFallbackToCSS) {
		t.Errorf("Draw of unprepared effect = %v, want ErrFallbackToCSS", err)
	}
	sw.Close()
	if len(sw.evals) != 0 {
		t.Error("Close kept evaluators")
	}
}

func TestSoftwareBackendValidation(t *testing.T) {
	base := NewPixmap(4, 4)
	sw := NewSoftwareBackend(base)
	sw.compiled[shader.KindPrismatic] = errors.New("broken")

	err := sw.Prepare([]DrawCommand{command("holographic-1", Holographic, shader.KindPrismatic, 1)})
	var pe *ProgramError
	if !errors.As(err, &pe) {
		t.Fatalf("Prepare = %v, want *ProgramError", err)
	}
	if pe.Program != "prismatic" || pe.Type != Holographic {
		t.Errorf("ProgramError = %+v", pe)
	}
	if !errors.Is(err, ErrFallbackToCSS) {
		t.Error("ProgramError does not match ErrFallbackToCSS")
	}
}

func TestUniformsAppendBytes(t *testing.T) {
	u := command("x", Gold, shader.KindMetallic, 1).Uniforms
	buf := u.AppendBytes(make([]byte, 0, UniformSize))
	if len(buf) != UniformSize {
		t.Fatalf("len = %d, want %d", len(buf), UniformSize)
	}
	p := u.params()
	if !near(float64(p.Angle), 45*3.141592653589793/180, 1e-6) {
		t.Errorf("angle = %v rad", p.Angle)
	}
}

func TestShaderPrograms(t *testing.T) {
	progs := ShaderPrograms()
	if len(progs) != 2 {
		t.Fatalf("ShaderPrograms() = %d programs, want 2", len(progs))
	}
	for _, p := range progs {
		if p.Source == "" {
			t.Errorf("%s has no source", p.Name)
		}
		if programKind(p.Name) != p.kind {
			t.Errorf("programKind(%q) = %v", p.Name, programKind(p.Name))
		}
	}
	if programKind("plasma") != shader.KindNone {
		t.Error("programKind of unknown name")
	}
}

func TestSoftwareBackendParallelMatchesSerial(t *testing.T) {
	base, sw := newTestSoftware(12, 4*minParallelRows)
	defer sw.Close()
	list := []DrawCommand{
		command("chrome-1", Chrome, shader.KindMetallic, 0.8),
		command("refractor-2", Refractor, shader.KindPrismatic, 0.6),
	}
	if err := sw.Prepare(list); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if err := sw.Draw(list); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if sw.pool == nil {
		t.Fatal("tall image was not shaded in parallel")
	}
	got := sw.Output().Clone()

	// Shade the same list on one goroutine.
	if err := sw.out.CopyFrom(base); err != nil {
		t.Fatal(err)
	}
	for i := range list {
		mode := blend.SourceOver
		if list[i].Program.Blend == BlendAdditive {
			mode = blend.Plus
		}
		p := list[i].Uniforms.params()
		sw.shadeRows(sw.evals[list[i].EffectID], &p, mode, 0, sw.out.height)
	}
	if string(got.Data()) != string(sw.Output().Data()) {
		t.Error("parallel and serial shading differ")
	}
}
