// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Command cardfx renders a card image with a stack of visual effects.
//
// Each frame is written as a PNG with the shader effects composited and
// the CSS filter chain applied on the CPU, and the inline style of every
// frame is printed to stdout.
//
//	cardfx -in card.png -effects chrome,refractor -tier high -frames 30 -out frames
package main

import (
	"flag"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/gogpu/cardfx"
)

type renderer interface {
	cardfx.ShaderBackend
	Output() *cardfx.Pixmap
}

func main() {
	var (
		input    = flag.String("in", "", "card image (png, jpeg or webp)")
		outDir   = flag.String("out", "frames", "output directory")
		effects  = flag.String("effects", "holographic", "comma-separated effect types")
		tierName = flag.String("tier", "high", "render tier: low, medium or high")
		preset   = flag.String("preset", "", "lighting preset for metallic effects")
		size     = flag.String("size", "", "resize card to WxH before rendering")
		frames   = flag.Int("frames", 1, "number of frames to render")
		fps      = flag.Float64("fps", 30, "frames per second")
		seed     = flag.Uint64("seed", 1, "random seed")
		pointer  = flag.String("pointer", "0.5,0.5", "pointer position as fractions x,y of the card")
		auto     = flag.Bool("auto", false, "enable auto-rotation")
		useGPU   = flag.Bool("gpu", false, "render shader effects on the GPU")
		verbose  = flag.Bool("v", false, "verbose logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	cardfx.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := run(config{
		input:   *input,
		outDir:  *outDir,
		effects: *effects,
		tier:    *tierName,
		preset:  *preset,
		size:    *size,
		frames:  *frames,
		fps:     *fps,
		seed:    *seed,
		pointer: *pointer,
		auto:    *auto,
		gpu:     *useGPU,
	}); err != nil {
		fmt.Fprintln(os.Stderr, "cardfx:", err)
		os.Exit(1)
	}
}

type config struct {
	input   string
	outDir  string
	effects string
	tier    string
	preset  string
	size    string
	frames  int
	fps     float64
	seed    uint64
	pointer string
	auto    bool
	gpu     bool
}

func run(cfg config) error {
	if cfg.input == "" {
		return fmt.Errorf("missing -in")
	}
	tier, ok := cardfx.ParseTier(cfg.tier)
	if !ok {
		return fmt.Errorf("unknown tier %q", cfg.tier)
	}
	specs, err := parseEffects(cfg.effects)
	if err != nil {
		return err
	}
	base, err := loadCard(cfg.input, cfg.size)
	if err != nil {
		return err
	}
	px, py, err := parsePair(cfg.pointer, ",")
	if err != nil {
		return fmt.Errorf("bad -pointer: %w", err)
	}
	if cfg.fps <= 0 {
		return fmt.Errorf("-fps must be positive")
	}
	if err := os.MkdirAll(cfg.outDir, 0o755); err != nil {
		return err
	}

	backend := openBackend(base, cfg.gpu)
	engine := cardfx.New(base, specs, tier, cardfx.WithBackend(backend), cardfx.WithSeed(cfg.seed))
	defer engine.Close()

	if cfg.preset != "" {
		if _, ok := cardfx.ParsePreset(cfg.preset); !ok {
			return fmt.Errorf("unknown preset %q", cfg.preset)
		}
		for _, fx := range engine.Effects() {
			if def, ok := cardfx.DefinitionOf(fx.Type); ok && def.Declares("preset") {
				engine.SetEffectParam(fx.ID, "preset", cfg.preset)
			}
		}
	}
	w, h := base.Size()
	engine.PointerMove(px*float64(w), py*float64(h))
	if cfg.auto {
		engine.ToggleAutoRotate()
	}

	interval := time.Duration(float64(time.Second) / cfg.fps)
	start := time.Now()
	for i := 0; i < cfg.frames; i++ {
		f := engine.Tick(start.Add(time.Duration(i) * interval))
		out := base.Clone()
		if len(f.DrawList) > 0 && !engine.ContextLost() {
			if err := out.CopyFrom(backend.Output()); err != nil {
				return err
			}
		}
		if f.Filter != "" {
			chain, err := cardfx.ParseFilterChain(f.Filter)
			if err != nil {
				return err
			}
			cardfx.ApplyFilterChain(out, chain)
		}
		name := filepath.Join(cfg.outDir, fmt.Sprintf("frame-%03d.png", i))
		if err := out.SavePNG(name); err != nil {
			return err
		}
		fmt.Printf("%s\t%s\n", name, f.Style)
	}
	return nil
}

func openBackend(base *cardfx.Pixmap, useGPU bool) renderer {
	if useGPU {
		b, err := openGPU(base)
		if err == nil {
			return b
		}
		cardfx.Logger().Warn("gpu unavailable, using software backend", "err", err)
	}
	return cardfx.NewSoftwareBackend(base)
}

func parseEffects(s string) ([]cardfx.EffectSpec, error) {
	var specs []cardfx.EffectSpec
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		name, value, hasIntensity := strings.Cut(field, "=")
		t, ok := cardfx.ParseEffectType(name)
		if !ok {
			return nil, fmt.Errorf("unknown effect %q", name)
		}
		spec := cardfx.EffectSpec{Type: t}
		if hasIntensity {
			v, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return nil, fmt.Errorf("bad intensity for %s: %w", name, err)
			}
			spec.Intensity = cardfx.Float(v)
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func loadCard(path, size string) (*cardfx.Pixmap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if size == "" {
		return cardfx.FromImage(img), nil
	}
	w, h, err := parsePair(size, "x")
	if err != nil || w < 1 || h < 1 {
		return nil, fmt.Errorf("bad -size %q", size)
	}
	return cardfx.ScaleImage(img, int(w), int(h)), nil
}

func parsePair(s, sep string) (a, b float64, err error) {
	first, second, ok := strings.Cut(s, sep)
	if !ok {
		return 0, 0, fmt.Errorf("want two values separated by %q", sep)
	}
	if a, err = strconv.ParseFloat(strings.TrimSpace(first), 64); err != nil {
		return 0, 0, err
	}
	if b, err = strconv.ParseFloat(strings.TrimSpace(second), 64); err != nil {
		return 0, 0, err
	}
	return a, b, nil
}
