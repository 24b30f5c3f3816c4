// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package cardcanvas presents a cardfx engine in a gogpu window.
//
// A Canvas owns an engine, its shader backend and the composited card
// image. The data flow is:
//
//	Engine.Tick -> backend draw list + CSS filter -> Pixmap -> GPU texture -> window
//
// When the provider exposes HAL types the shader effects run on the
// shared GPU device; otherwise the software backend is used.
//
// # Usage
//
//	canvas, err := cardcanvas.New(app.GPUContextProvider(), base, specs, cardfx.TierHigh)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer canvas.Close()
//
//	app.OnDraw(func(dc *gogpu.Context) {
//		canvas.Update(time.Now())
//		canvas.RenderTo(dc.AsTextureDrawer())
//	})
//
// Input is forwarded through Engine():
//
//	canvas.Engine().PointerMove(x, y)
//
// # Thread Safety
//
// Canvas is NOT safe for concurrent use. Use Engine().Post from other
// goroutines.
package cardcanvas
