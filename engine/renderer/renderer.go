package renderer

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-l2d/engine/surface"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backendType RendererBackendType
	backend     rendererBackend
	frames      atomic.Uint64
	released    bool

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pendingClearColor    *Color
}

// Renderer owns the drawing side of a transferred offscreen surface.
//
// A Renderer is created by the rendering worker after INIT and is driven only from the
// worker's draw loop goroutine: BeginFrame, EndFrame and Present once per frame.
type Renderer interface {
	// BackendType returns the backend the renderer was created with.
	//
	// Returns:
	//   - RendererBackendType: the backend type
	BackendType() RendererBackendType

	// BeginFrame acquires the next frame and clears it.
	//
	// Returns:
	//   - error: error if a frame could not be started
	BeginFrame() error

	// EndFrame ends the current frame and submits it.
	// Must be called after a successful BeginFrame.
	EndFrame()

	// Present presents the submitted frame and counts it.
	// Must be called once per frame after EndFrame.
	Present()

	// Resize reconfigures the surface to the given pixel size.
	//
	// Parameters:
	//   - width: new width in pixels
	//   - height: new height in pixels
	Resize(width, height int)

	// Frames returns the number of frames presented so far.
	//
	// Returns:
	//   - uint64: presented frame count
	Frames() uint64

	// Release frees backend resources. The renderer must not be used afterwards.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer drawing to target with the requested backend.
// BackendTypeWGPU requires target.Descriptor() to be non-nil.
//
// Parameters:
//   - backendType: the backend to use
//   - target: the transferred offscreen surface
//   - options: functional options for renderer configuration
//
// Returns:
//   - Renderer: the configured renderer
//   - error: error if the backend could not be created
func NewRenderer(backendType RendererBackendType, target surface.Offscreen, options ...RendererBuilderOption) (Renderer, error) {
	if target == nil {
		return nil, fmt.Errorf("renderer: nil offscreen surface")
	}

	r := &renderer{
		mu:          &sync.Mutex{},
		backendType: backendType,
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}

	switch backendType {
	case BackendTypeHeadless:
		r.backend = newHeadlessRendererBackend()
	case BackendTypeWGPU:
		fallthrough
	default:
		b, err := newWGPURendererBackend(target.Descriptor(), r.forceFallbackAdapter)
		if err != nil {
			return nil, fmt.Errorf("renderer: %w", err)
		}
		r.backend = b
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}
	if r.pendingClearColor != nil {
		r.backend.SetClearColor(*r.pendingClearColor)
	}

	r.backend.ConfigureSurface(target.Width(), target.Height())
	return r, nil
}

// BackendFor picks the backend able to draw to target: WGPU when it carries a platform
// descriptor, headless otherwise.
//
// Parameters:
//   - target: the offscreen surface
//
// Returns:
//   - RendererBackendType: the matching backend type
func BackendFor(target surface.Offscreen) RendererBackendType {
	if target != nil && target.Descriptor() != nil {
		return BackendTypeWGPU
	}
	return BackendTypeHeadless
}

func (r *renderer) BackendType() RendererBackendType {
	return r.backendType
}

func (r *renderer) BeginFrame() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return fmt.Errorf("renderer: released")
	}
	return r.backend.BeginFrame()
}

func (r *renderer) EndFrame() {
	r.backend.EndFrame()
}

func (r *renderer) Present() {
	r.backend.Present()
	r.frames.Add(1)
}

func (r *renderer) Resize(width, height int) {
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) Frames() uint64 {
	return r.frames.Load()
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return
	}
	r.released = true
	r.backend.Release()
}
