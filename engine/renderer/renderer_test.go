package renderer

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-l2d/engine/surface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackendFor(t *testing.T) {
	assert.Equal(t, BackendTypeHeadless, BackendFor(nil))
	assert.Equal(t, BackendTypeHeadless, BackendFor(surface.NewOffscreen(1, 1, nil)))
}

func TestNewRendererRequiresTarget(t *testing.T) {
	_, err := NewRenderer(BackendTypeHeadless, nil)
	assert.Error(t, err)
}

func TestWGPURequiresDescriptor(t *testing.T) {
	_, err := NewRenderer(BackendTypeWGPU, surface.NewOffscreen(1, 1, nil))
	assert.Error(t, err)
}

func TestHeadlessFrameSequence(t *testing.T) {
	r, err := NewRenderer(BackendTypeHeadless, surface.NewOffscreen(64, 64, nil),
		WithClearColor(Color{R: 1, A: 1}),
		WithPresentMode(PresentModeUncapped),
	)
	require.NoError(t, err)
	assert.Equal(t, BackendTypeHeadless, r.BackendType())

	for range 3 {
		require.NoError(t, r.BeginFrame())
		r.EndFrame()
		r.Present()
	}
	assert.Equal(t, uint64(3), r.Frames())

	require.NoError(t, r.BeginFrame())
	assert.Error(t, r.BeginFrame(), "a frame cannot begin before the previous one is presented")
	r.EndFrame()
	r.Present()

	r.Resize(128, 128)
	r.Release()
	r.Release()
	assert.Error(t, r.BeginFrame())
}
