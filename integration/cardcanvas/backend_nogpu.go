//go:build nogpu

package cardcanvas

import (
	"github.com/gogpu/gpucontext"

	"github.com/gogpu/cardfx"
)

func newBackend(_ gpucontext.DeviceProvider, base *cardfx.Pixmap) presenter {
	return cardfx.NewSoftwareBackend(base)
}
