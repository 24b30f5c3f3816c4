//go:build !nogpu

package main

import (
	"github.com/gogpu/cardfx"
	"github.com/gogpu/cardfx/gpu"
)

func openGPU(base *cardfx.Pixmap) (renderer, error) {
	return gpu.Open(base)
}
