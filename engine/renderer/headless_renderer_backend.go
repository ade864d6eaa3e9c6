package renderer

import (
	"fmt"
	"sync"
)

// headlessRendererBackendImpl is a rendererBackend with nothing to draw to. It enforces
// the same frame sequencing as the GPU backend so the draw loop behaves identically.
type headlessRendererBackendImpl struct {
	mu sync.Mutex

	width, height int
	clearColor    Color
	inFrame       bool
	pending       bool
	released      bool
}

var _ rendererBackend = &headlessRendererBackendImpl{}

func newHeadlessRendererBackend() rendererBackend {
	return &headlessRendererBackendImpl{clearColor: DefaultClearColor}
}

func (b *headlessRendererBackendImpl) ConfigureSurface(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.width, b.height = width, height
}

func (b *headlessRendererBackendImpl) SetPresentMode(PresentMode) {}

func (b *headlessRendererBackendImpl) SetClearColor(c Color) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clearColor = c
}

func (b *headlessRendererBackendImpl) BeginFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.released {
		return fmt.Errorf("renderer released")
	}
	if b.inFrame || b.pending {
		return fmt.Errorf("previous frame surface not yet presented")
	}
	b.inFrame = true
	return nil
}

func (b *headlessRendererBackendImpl) EndFrame() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.inFrame {
		b.inFrame = false
		b.pending = true
	}
}

func (b *headlessRendererBackendImpl) Present() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending = false
}

func (b *headlessRendererBackendImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.released = true
}
