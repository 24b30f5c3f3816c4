//go:build !nogpu

package cardcanvas

import (
	"github.com/gogpu/gpucontext"

	"github.com/gogpu/cardfx"
	"github.com/gogpu/cardfx/gpu"
)

func newBackend(provider gpucontext.DeviceProvider, base *cardfx.Pixmap) presenter {
	b, err := gpu.FromProvider(provider, base)
	if err != nil {
		cardfx.Logger().Info("cardcanvas: using software backend", "reason", err)
		return cardfx.NewSoftwareBackend(base)
	}
	return b
}
