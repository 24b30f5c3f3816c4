// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !nogpu

package gpu

import (
	"fmt"
	"sync"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/cardfx"
	"github.com/gogpu/cardfx/internal/blend"
)

// copyPitchAlignment is the row pitch required by CopyTextureToBuffer.
const copyPitchAlignment = 256

const targetFormat = gputypes.TextureFormatRGBA8Unorm

// Backend renders a cardfx draw list with wgpu/hal render pipelines.
type Backend struct {
	mu sync.Mutex

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue
	owned    bool

	base *cardfx.Pixmap
	out  *cardfx.Pixmap

	uniformLayout hal.BindGroupLayout
	pipeLayout    hal.PipelineLayout
	pipelines     map[string]*pipeline
	slots         map[string]*effectSlot

	targetTex  hal.Texture
	targetView hal.TextureView
	staging    hal.Buffer
	pitch      uint32

	uniform  []byte
	readback []byte
	layer    []byte
}

type pipeline struct {
	shader   hal.ShaderModule
	pipeline hal.RenderPipeline
}

type effectSlot struct {
	buf       hal.Buffer
	bindGroup hal.BindGroup
}

var _ cardfx.ShaderBackend = (*Backend)(nil)

// NewBackend creates a backend on an existing device and queue. The
// device stays owned by the caller.
func NewBackend(device hal.Device, queue hal.Queue, base *cardfx.Pixmap) (*Backend, error) {
	if device == nil || queue == nil {
		return nil, ErrNoDevice
	}
	if base == nil {
		return nil, fmt.Errorf("gpu: nil base pixmap")
	}
	return &Backend{
		device:    device,
		queue:     queue,
		base:      base,
		out:       base.Clone(),
		pipelines: make(map[string]*pipeline),
		slots:     make(map[string]*effectSlot),
	}, nil
}

// Name implements cardfx.ShaderBackend.
func (b *Backend) Name() string { return "wgpu" }

// Output returns the pixmap written by the last Draw.
func (b *Backend) Output() *cardfx.Pixmap { return b.out }

// Size implements cardfx.Surface.
func (b *Backend) Size() (width, height int) { return b.base.Size() }

// Prepare implements cardfx.ShaderBackend. Pipelines are created once per
// program and kept until Close. Uniform slots follow the effect IDs in list.
func (b *Backend) Prepare(list []cardfx.DrawCommand) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.device == nil {
		return fmt.Errorf("gpu: backend closed: %w", cardfx.ErrContextLost)
	}
	if err := b.ensureLayout(); err != nil {
		return lost("create layout", err)
	}
	if err := b.ensureTarget(); err != nil {
		return lost("create target", err)
	}
	for i := range list {
		cmd := &list[i]
		if _, err := b.ensurePipeline(cmd.Program); err != nil {
			return &cardfx.ProgramError{Type: cmd.Type, Program: cmd.Program.Name, Err: err}
		}
		if _, err := b.ensureSlot(cmd.EffectID); err != nil {
			return lost("create uniforms", err)
		}
	}
	for id, slot := range b.slots {
		if !contains(list, id) {
			b.destroySlot(slot)
			delete(b.slots, id)
		}
	}
	return nil
}

// Draw implements cardfx.ShaderBackend.
func (b *Backend) Draw(list []cardfx.DrawCommand) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.device == nil {
		return fmt.Errorf("gpu: backend closed: %w", cardfx.ErrContextLost)
	}
	if err := b.out.CopyFrom(b.base); err != nil {
		return err
	}
	w, h := b.base.Size()
	if len(list) == 0 || w == 0 || h == 0 {
		return nil
	}
	for i := range list {
		cmd := &list[i]
		slot := b.slots[cmd.EffectID]
		if slot == nil || b.pipelines[cmd.Program.Name] == nil {
			return fmt.Errorf("gpu: effect %s drawn before prepare: %w", cmd.EffectID, cardfx.ErrFallbackToCSS)
		}
		b.uniform = cmd.Uniforms.AppendBytes(b.uniform[:0])
		b.queue.WriteBuffer(slot.buf, 0, b.uniform)
	}
	if err := b.encodeSubmitReadback(list, uint32(w), uint32(h)); err != nil {
		return err
	}
	blend.Span(blend.SourceOver, b.out.Data(), b.layer)
	return nil
}

// Close implements cardfx.ShaderBackend. A device opened by Open is
// destroyed; a shared device is only released.
func (b *Backend) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.device == nil {
		return
	}
	for id, slot := range b.slots {
		b.destroySlot(slot)
		delete(b.slots, id)
	}
	for name, p := range b.pipelines {
		b.destroyPipeline(p)
		delete(b.pipelines, name)
	}
	b.destroyTarget()
	if b.pipeLayout != nil {
		b.device.DestroyPipelineLayout(b.pipeLayout)
		b.pipeLayout = nil
	}
	if b.uniformLayout != nil {
		b.device.DestroyBindGroupLayout(b.uniformLayout)
		b.uniformLayout = nil
	}
	if b.owned {
		b.device.Destroy()
		if b.instance != nil {
			b.instance.Destroy()
		}
	}
	b.device = nil
	b.queue = nil
	b.instance = nil
}

func (b *Backend) ensureLayout() error {
	if b.pipeLayout != nil {
		return nil
	}
	layout, err := b.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "cardfx_uniform_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group layout: %w", err)
	}
	pipeLayout, err := b.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "cardfx_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{layout},
	})
	if err != nil {
		b.device.DestroyBindGroupLayout(layout)
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	b.uniformLayout = layout
	b.pipeLayout = pipeLayout
	return nil
}

func (b *Backend) ensurePipeline(prog cardfx.ShaderProgram) (*pipeline, error) {
	if p := b.pipelines[prog.Name]; p != nil {
		return p, nil
	}
	module, err := b.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  prog.Name,
		Source: hal.ShaderSource{WGSL: prog.Source},
	})
	if err != nil {
		return nil, fmt.Errorf("compile %s shader: %w", prog.Name, err)
	}
	state := blendState(prog.Blend)
	rp, err := b.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  prog.Name + "_pipeline",
		Layout: b.pipeLayout,
		Vertex: hal.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
		},
		Fragment: &hal.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    targetFormat,
					Blend:     &state,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		b.device.DestroyShaderModule(module)
		return nil, fmt.Errorf("create %s pipeline: %w", prog.Name, err)
	}
	p := &pipeline{shader: module, pipeline: rp}
	b.pipelines[prog.Name] = p
	cardfx.Logger().Debug("gpu: pipeline created", "program", prog.Name, "blend", prog.Blend.String())
	return p, nil
}

// blendState maps a program blend mode onto the fixed-function blend of
// its color target. Program output is premultiplied.
func blendState(mode cardfx.BlendMode) gputypes.BlendState {
	if mode == cardfx.BlendAdditive {
		add := gputypes.BlendComponent{
			SrcFactor: gputypes.BlendFactorOne,
			DstFactor: gputypes.BlendFactorOne,
			Operation: gputypes.BlendOperationAdd,
		}
		return gputypes.BlendState{Color: add, Alpha: add}
	}
	return gputypes.BlendStatePremultiplied()
}

func (b *Backend) ensureSlot(id string) (*effectSlot, error) {
	if s := b.slots[id]; s != nil {
		return s, nil
	}
	buf, err := b.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "cardfx_uniforms_" + id,
		Size:  cardfx.UniformSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create uniform buffer: %w", err)
	}
	bg, err := b.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "cardfx_bind_" + id,
		Layout: b.uniformLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: buf.NativeHandle(), Offset: 0, Size: cardfx.UniformSize}},
		},
	})
	if err != nil {
		b.device.DestroyBuffer(buf)
		return nil, fmt.Errorf("create bind group: %w", err)
	}
	s := &effectSlot{buf: buf, bindGroup: bg}
	b.slots[id] = s
	return s, nil
}

func (b *Backend) ensureTarget() error {
	if b.targetTex != nil {
		return nil
	}
	w, h := b.base.Size()
	if w == 0 || h == 0 {
		return nil
	}
	tex, err := b.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "cardfx_target",
		Size:          hal.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        targetFormat,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("create target texture: %w", err)
	}
	view, err := b.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         "cardfx_target_view",
		Format:        targetFormat,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		b.device.DestroyTexture(tex)
		return fmt.Errorf("create target view: %w", err)
	}
	pitch := alignPitch(uint32(w) * 4)
	staging, err := b.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "cardfx_staging",
		Size:  uint64(pitch) * uint64(h),
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		b.device.DestroyTextureView(view)
		b.device.DestroyTexture(tex)
		return fmt.Errorf("create staging buffer: %w", err)
	}
	b.targetTex, b.targetView, b.staging, b.pitch = tex, view, staging, pitch
	b.readback = make([]byte, uint64(pitch)*uint64(h))
	b.layer = make([]byte, w*h*4)
	return nil
}

// encodeSubmitReadback renders list into the cleared target, copies it
// to the staging buffer and reads the premultiplied layer back.
func (b *Backend) encodeSubmitReadback(list []cardfx.DrawCommand, w, h uint32) error {
	encoder, err := b.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "cardfx_encoder"})
	if err != nil {
		return lost("create command encoder", err)
	}
	if err := encoder.BeginEncoding("cardfx_frame"); err != nil {
		return lost("begin encoding", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "cardfx_effects",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       b.targetView,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: gputypes.Color{R: 0, G: 0, B: 0, A: 0},
		}},
	})
	for i := range list {
		cmd := &list[i]
		rp.SetPipeline(b.pipelines[cmd.Program.Name].pipeline)
		rp.SetBindGroup(0, b.slots[cmd.EffectID].bindGroup, nil)
		rp.Draw(6, 1, 0, 0)
	}
	rp.End()

	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: b.targetTex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})
	encoder.CopyTextureToBuffer(b.targetTex, b.staging, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: b.pitch, RowsPerImage: h},
		TextureBase:  hal.ImageCopyTexture{Texture: b.targetTex, MipLevel: 0},
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: b.targetTex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		},
	}})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return lost("end encoding", err)
	}
	defer b.device.FreeCommandBuffer(cmdBuf)

	fence, err := b.device.CreateFence()
	if err != nil {
		return lost("create fence", err)
	}
	defer b.device.DestroyFence(fence)

	if err := b.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return lost("submit", err)
	}
	ok, err := b.device.Wait(fence, 1, 5*time.Second)
	if err != nil {
		return lost("wait", err)
	}
	if !ok {
		return fmt.Errorf("gpu: wait timed out: %w", cardfx.ErrContextLost)
	}
	if err := b.queue.ReadBuffer(b.staging, 0, b.readback); err != nil {
		return lost("readback", err)
	}
	unpad(b.layer, b.readback, int(w)*4, int(b.pitch), int(h))
	return nil
}

func (b *Backend) destroySlot(s *effectSlot) {
	b.device.DestroyBindGroup(s.bindGroup)
	b.device.DestroyBuffer(s.buf)
}

func (b *Backend) destroyPipeline(p *pipeline) {
	b.device.DestroyRenderPipeline(p.pipeline)
	b.device.DestroyShaderModule(p.shader)
}

func (b *Backend) destroyTarget() {
	if b.staging != nil {
		b.device.DestroyBuffer(b.staging)
		b.staging = nil
	}
	if b.targetView != nil {
		b.device.DestroyTextureView(b.targetView)
		b.targetView = nil
	}
	if b.targetTex != nil {
		b.device.DestroyTexture(b.targetTex)
		b.targetTex = nil
	}
}

func lost(op string, err error) error {
	return fmt.Errorf("gpu: %s: %w: %w", op, cardfx.ErrContextLost, err)
}

func alignPitch(bytesPerRow uint32) uint32 {
	return (bytesPerRow + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
}

// unpad copies rows of width bytes from a buffer with the given pitch.
func unpad(dst, src []byte, width, pitch, rows int) {
	if width == pitch {
		copy(dst, src[:width*rows])
		return
	}
	for y := 0; y < rows; y++ {
		copy(dst[y*width:(y+1)*width], src[y*pitch:y*pitch+width])
	}
}

func contains(list []cardfx.DrawCommand, id string) bool {
	for i := range list {
		if list[i].EffectID == id {
			return true
		}
	}
	return false
}
