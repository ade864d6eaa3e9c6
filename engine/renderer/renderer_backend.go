package renderer

// RendererBackendType identifies the backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based backend. It requires an offscreen surface
	// with a platform descriptor.
	BackendTypeWGPU RendererBackendType = iota

	// BackendTypeHeadless selects a backend that draws nothing and only counts frames.
	BackendTypeHeadless
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	PresentModeUncapped
)

// Color is a linear RGBA clear colour.
type Color struct {
	R, G, B, A float64
}

// DefaultClearColor is the background the worker clears every frame to.
var DefaultClearColor = Color{R: 0.1, G: 0.1, B: 0.1, A: 1.0}

// rendererBackend is the per-API frame backend behind a Renderer.
type rendererBackend interface {
	// ConfigureSurface (re)configures the drawing surface for the given pixel size.
	//
	// Parameters:
	//   - width: surface width in pixels
	//   - height: surface height in pixels
	ConfigureSurface(width, height int)

	// SetPresentMode selects the presentation mode used by the next ConfigureSurface.
	//
	// Parameters:
	//   - mode: the PresentMode
	SetPresentMode(mode PresentMode)

	// SetClearColor sets the colour each frame is cleared to.
	//
	// Parameters:
	//   - c: the clear colour
	SetClearColor(c Color)

	// BeginFrame acquires the next surface texture and opens a render pass on it.
	//
	// Returns:
	//   - error: error if the surface texture could not be acquired
	BeginFrame() error

	// EndFrame ends the render pass and submits it.
	EndFrame()

	// Present shows the frame and releases the surface texture.
	Present()

	// Release frees every resource held by the backend.
	Release()
}
