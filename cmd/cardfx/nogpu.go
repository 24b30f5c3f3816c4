//go:build nogpu

package main

import (
	"errors"

	"github.com/gogpu/cardfx"
)

func openGPU(*cardfx.Pixmap) (renderer, error) {
	return nil, errors.New("built with nogpu")
}
