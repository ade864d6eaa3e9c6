package l2d

import (
	"time"

	"github.com/Carmen-Shannon/oxy-l2d/engine/loader"
	"github.com/Carmen-Shannon/oxy-l2d/engine/renderer"
)

// ProgramBuilderOption is a functional option for configuring a Program via NewProgram.
type ProgramBuilderOption func(*program)

// WithLoader sets the loader used to resolve LOAD_MODEL commands.
//
// Parameters:
//   - l: the model loader
//
// Returns:
//   - ProgramBuilderOption: option function to apply
func WithLoader(l loader.Loader) ProgramBuilderOption {
	return func(p *program) {
		p.loader = l
	}
}

// WithFrameLimit sets the draw loop frame rate cap in frames per second.
// Pass 0 to uncap the draw loop.
//
// Parameters:
//   - fps: maximum frames per second (0 = uncapped)
//
// Returns:
//   - ProgramBuilderOption: option function to apply
func WithFrameLimit(fps float64) ProgramBuilderOption {
	return func(p *program) {
		if fps <= 0 {
			p.renderFrameLimit = 0
			return
		}
		p.renderFrameLimit = time.Duration(float64(time.Second) / fps)
	}
}

// WithProfiling enables or disables frame statistics logging from the draw loop.
//
// Parameters:
//   - enabled: if true, the draw loop ticks the profiler every frame
//
// Returns:
//   - ProgramBuilderOption: option function to apply
func WithProfiling(enabled bool) ProgramBuilderOption {
	return func(p *program) {
		p.profilingEnabled = enabled
	}
}

// WithRendererOptions appends options passed to renderer.NewRenderer on INIT.
//
// Parameters:
//   - options: renderer options
//
// Returns:
//   - ProgramBuilderOption: option function to apply
func WithRendererOptions(options ...renderer.RendererBuilderOption) ProgramBuilderOption {
	return func(p *program) {
		p.rendererOptions = append(p.rendererOptions, options...)
	}
}

// WithBackend forces the renderer backend instead of picking it from the surface.
//
// Parameters:
//   - backend: the renderer backend type
//
// Returns:
//   - ProgramBuilderOption: option function to apply
func WithBackend(backend renderer.RendererBackendType) ProgramBuilderOption {
	return func(p *program) {
		p.backendOverride = &backend
	}
}
