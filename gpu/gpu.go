// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !nogpu

// Package gpu runs cardfx shader programs on the GPU through wgpu/hal.
//
// The Backend implements cardfx.ShaderBackend. Each program becomes one
// render pipeline drawing a fullscreen quad. Every effect in the draw
// list owns a 64-byte uniform buffer and bind group. Draw renders the
// list into an offscreen RGBA8 texture, reads it back and composites the
// result over the base card image into Output.
//
// A backend can share the device of a host application:
//
//	backend, err := gpu.FromProvider(provider, base)
//	if err != nil {
//		// use cardfx.NewSoftwareBackend(base) or no backend (CSS only)
//	}
//	engine := cardfx.New(base, specs, cardfx.TierHigh, cardfx.WithBackend(backend))
//
// or open its own Vulkan device with Open. Any device error surfaces from
// Draw wrapped in cardfx.ErrContextLost, and the engine falls back to
// CSS until RestoreContext is called.
//
// Build with -tags nogpu to exclude this package.
package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/cardfx"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// ErrNoDevice is returned when a backend is created without a usable
// device and queue.
var ErrNoDevice = errors.New("gpu: no device")

// Open creates a backend on a Vulkan adapter owned by the backend.
// Discrete and integrated GPUs are preferred over software adapters.
func Open(base *cardfx.Pixmap) (*Backend, error) {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, fmt.Errorf("gpu: vulkan backend not available: %w", ErrNoDevice)
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("gpu: create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, fmt.Errorf("gpu: no adapters found: %w", ErrNoDevice)
	}
	selected := &adapters[0]
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	open, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("gpu: open device: %w", err)
	}
	b, err := NewBackend(open.Device, open.Queue, base)
	if err != nil {
		open.Device.Destroy()
		instance.Destroy()
		return nil, err
	}
	b.instance = instance
	b.owned = true
	cardfx.Logger().Info("gpu: device opened", "adapter", selected.Info.Name)
	return b, nil
}

// FromProvider creates a backend on the device of a host application.
// The provider must also expose HalDevice() and HalQueue() returning
// hal.Device and hal.Queue. The device is not destroyed by Close.
func FromProvider(provider gpucontext.DeviceProvider, base *cardfx.Pixmap) (*Backend, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, fmt.Errorf("gpu: provider does not expose HAL types: %w", ErrNoDevice)
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("gpu: provider HalDevice is not hal.Device: %w", ErrNoDevice)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("gpu: provider HalQueue is not hal.Queue: %w", ErrNoDevice)
	}
	return NewBackend(device, queue, base)
}
