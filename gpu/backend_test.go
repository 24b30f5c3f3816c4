//go:build !nogpu

package gpu

import (
	"errors"
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/cardfx"
)

type mockDevice struct{}

func (m *mockDevice) Poll(wait bool) {}
func (m *mockDevice) Destroy()       {}

type mockQueue struct{}

type mockAdapter struct{}

// mockProvider implements gpucontext.DeviceProvider without HAL access.
type mockProvider struct{}

func (m *mockProvider) Device() gpucontext.Device   { return &mockDevice{} }
func (m *mockProvider) Queue() gpucontext.Queue     { return &mockQueue{} }
func (m *mockProvider) Adapter() gpucontext.Adapter { return &mockAdapter{} }
func (m *mockProvider) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}
func (m *mockProvider) AdapterInfo() gpucontext.AdapterInfo { return gpucontext.AdapterInfo{} }

// mockHalProvider exposes HAL accessors returning the wrong types.
type mockHalProvider struct {
	mockProvider
	device any
	queue  any
}

func (m *mockHalProvider) HalDevice() any { return m.device }
func (m *mockHalProvider) HalQueue() any  { return m.queue }

func TestNewBackendNoDevice(t *testing.T) {
	_, err := NewBackend(nil, nil, cardfx.NewPixmap(4, 4))
	if !errors.Is(err, ErrNoDevice) {
		t.Fatalf("NewBackend(nil) error = %v, want ErrNoDevice", err)
	}
}

func TestFromProvider(t *testing.T) {
	base := cardfx.NewPixmap(4, 4)
	tests := []struct {
		name     string
		provider gpucontext.DeviceProvider
	}{
		{"no hal", &mockProvider{}},
		{"nil hal", &mockHalProvider{}},
		{"wrong device", &mockHalProvider{device: "device", queue: "queue"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := FromProvider(tt.provider, base)
			if b != nil {
				t.Error("FromProvider returned a backend")
			}
			if !errors.Is(err, ErrNoDevice) {
				t.Errorf("error = %v, want ErrNoDevice", err)
			}
		})
	}
}

func TestBlendState(t *testing.T) {
	if got, want := blendState(cardfx.BlendAlpha), gputypes.BlendStatePremultiplied(); got != want {
		t.Errorf("alpha blend = %+v, want %+v", got, want)
	}
	add := blendState(cardfx.BlendAdditive)
	for _, c := range []gputypes.BlendComponent{add.Color, add.Alpha} {
		if c.SrcFactor != gputypes.BlendFactorOne || c.DstFactor != gputypes.BlendFactorOne {
			t.Errorf("additive component = %+v, want one/one", c)
		}
		if c.Operation != gputypes.BlendOperationAdd {
			t.Errorf("additive operation = %v, want add", c.Operation)
		}
	}
}

func TestAlignPitch(t *testing.T) {
	tests := []struct {
		in, want uint32
	}{
		{4, 256},
		{256, 256},
		{257, 512},
		{1024, 1024},
	}
	for _, tt := range tests {
		if got := alignPitch(tt.in); got != tt.want {
			t.Errorf("alignPitch(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestUnpad(t *testing.T) {
	src := []byte{
		1, 2, 0, 0,
		3, 4, 0, 0,
	}
	dst := make([]byte, 4)
	unpad(dst, src, 2, 4, 2)
	want := []byte{1, 2, 3, 4}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("unpad = %v, want %v", dst, want)
		}
	}

	tight := []byte{9, 8, 7, 6}
	unpad(dst, tight, 2, 2, 2)
	for i := range tight {
		if dst[i] != tight[i] {
			t.Fatalf("unpad tight = %v, want %v", dst, tight)
		}
	}
}

func TestLostWrapsContextLost(t *testing.T) {
	cause := errors.New("device removed")
	err := lost("submit", cause)
	if !errors.Is(err, cardfx.ErrContextLost) {
		t.Error("lost() does not wrap ErrContextLost")
	}
	if !errors.Is(err, cause) {
		t.Error("lost() does not wrap the cause")
	}
}

func TestContains(t *testing.T) {
	list := []cardfx.DrawCommand{{EffectID: "chrome-1"}, {EffectID: "refractor-2"}}
	if !contains(list, "refractor-2") {
		t.Error("contains(refractor-2) = false")
	}
	if contains(list, "gold-3") {
		t.Error("contains(gold-3) = true")
	}
}
