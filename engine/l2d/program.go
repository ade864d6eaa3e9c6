// Package l2d is the rendering worker program spawned for a model session. It owns the
// transferred offscreen surface, keeps exactly one current model and drives the draw loop.
package l2d

import (
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-l2d/engine/loader"
	"github.com/Carmen-Shannon/oxy-l2d/engine/model"
	"github.com/Carmen-Shannon/oxy-l2d/engine/profiler"
	"github.com/Carmen-Shannon/oxy-l2d/engine/protocol"
	"github.com/Carmen-Shannon/oxy-l2d/engine/renderer"
	"github.com/Carmen-Shannon/oxy-l2d/engine/surface"
	"github.com/Carmen-Shannon/oxy-l2d/engine/worker"
	"go.uber.org/zap"
)

// WorkerPath is the worker path the program is registered under by default.
const WorkerPath = "/l2d.worker.js"

// DefaultFrameLimit is the draw loop frame cap in frames per second.
const DefaultFrameLimit = 60

// State is a snapshot of what the program is doing.
type State struct {
	// Initialized reports whether INIT has been handled.
	Initialized bool

	// Model is the name of the current model, or "" if none is loaded.
	Model string

	// ManifestPath is the manifest the current model was loaded from.
	ManifestPath string

	// Motion is the motion group currently playing, or "".
	Motion string

	// Frames is the number of frames presented by the draw loop.
	Frames uint64

	// Loads counts successful LOAD_MODEL commands.
	Loads int
}

// program implements the Program interface.
type program struct {
	mu     sync.Mutex
	logger *zap.Logger

	loader loader.Loader

	initialized  bool
	current      model.Model
	manifestPath string
	motion       string
	loads        int

	backendOverride  *renderer.RendererBackendType
	rendererOptions  []renderer.RendererBuilderOption
	renderer         renderer.Renderer
	renderFrameLimit time.Duration

	profiler         *profiler.Profiler
	profilingEnabled bool

	quitChannel chan struct{}
	quitOnce    sync.Once
	wg          sync.WaitGroup
}

// Program is the worker-side rendering program. It handles INIT, LOAD_MODEL and DO_MOTION
// on the worker goroutine and draws on its own draw loop goroutine.
type Program interface {
	worker.Program

	// State returns a snapshot of the program's current model, motion and frame count.
	//
	// Returns:
	//   - State: the snapshot
	State() State

	// Close stops the draw loop, which releases the renderer on its way out.
	// Safe to call multiple times; subsequent calls are no-ops.
	//
	// Returns:
	//   - error: always nil
	Close() error
}

var _ Program = &program{}

// NewProgram creates a rendering worker program with the provided options applied.
// Without WithLoader the program reads manifests from the host filesystem.
//
// Parameters:
//   - logger: the worker's logger (nil for none)
//   - options: functional options for program configuration
//
// Returns:
//   - Program: the program
func NewProgram(logger *zap.Logger, options ...ProgramBuilderOption) Program {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &program{
		logger:           logger,
		renderFrameLimit: time.Second / DefaultFrameLimit,
		quitChannel:      make(chan struct{}),
	}

	for _, opt := range options {
		opt(p)
	}

	if p.loader == nil {
		p.loader = loader.NewLoader(loader.BackendTypeModel3)
	}
	if p.profiler == nil {
		p.profiler = profiler.NewProfiler(p.logger.Named("profiler"), time.Second)
	}
	return p
}

// NewProgramFactory returns a worker.ProgramFactory creating a fresh program per spawn.
//
// Parameters:
//   - options: functional options applied to every program
//
// Returns:
//   - worker.ProgramFactory: the factory
func NewProgramFactory(options ...ProgramBuilderOption) worker.ProgramFactory {
	return func(logger *zap.Logger) worker.Program {
		return NewProgram(logger, options...)
	}
}

// Register registers the rendering program on reg under path, or WorkerPath if path is "".
//
// Parameters:
//   - reg: the worker registry
//   - path: the worker path
//   - options: functional options applied to every spawned program
func Register(reg worker.Registry, path string, options ...ProgramBuilderOption) {
	if path == "" {
		path = WorkerPath
	}
	reg.Register(path, NewProgramFactory(options...))
}

func (p *program) HandleMessage(cmd protocol.Command) {
	switch c := cmd.(type) {
	case protocol.Init:
		p.handleInit(c)
	case protocol.LoadModel:
		p.handleLoadModel(c)
	case protocol.DoMotion:
		p.handleDoMotion(c)
	default:
		p.logger.Warn("ignoring unknown command", zap.Any("command", cmd))
	}
}

func (p *program) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := State{
		Initialized:  p.initialized,
		ManifestPath: p.manifestPath,
		Motion:       p.motion,
		Loads:        p.loads,
	}
	if p.current != nil {
		s.Model = p.current.Name()
	}
	if p.renderer != nil {
		s.Frames = p.renderer.Frames()
	}
	return s
}

func (p *program) Close() error {
	p.signalQuit()
	p.wg.Wait()

	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = nil
	p.motion = ""
	return nil
}

// handleInit takes ownership of the offscreen surface and starts the draw loop.
func (p *program) handleInit(c protocol.Init) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		p.logger.Warn("ignoring repeated INIT")
		return
	}
	if c.Canvas == nil {
		p.logger.Error("INIT without a canvas")
		return
	}
	p.initialized = true

	backend := renderer.BackendFor(c.Canvas)
	if p.backendOverride != nil {
		backend = *p.backendOverride
	}

	p.logger.Info("worker initialized",
		zap.String("canvas", c.Canvas.ID()),
		zap.Int("width", c.Canvas.Width()),
		zap.Int("height", c.Canvas.Height()),
		zap.Bool("gpu", backend == renderer.BackendTypeWGPU))

	p.wg.Add(1)
	go p.handleRender(backend, c.Canvas)
}

// handleLoadModel unloads the current model before loading the requested one.
func (p *program) handleLoadModel(c protocol.LoadModel) {
	p.unload()

	manifest := loader.ManifestPath(c.ResourcePath, c.Name)
	m, err := p.loader.Load(manifest)
	if err != nil {
		p.logger.Error("failed to load model",
			zap.String("name", c.Name),
			zap.String("manifest", manifest),
			zap.Error(err))
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = m
	p.manifestPath = manifest
	p.loads++
	if len(m.Motions(model.MotionGroupIdle)) > 0 {
		p.motion = model.MotionGroupIdle
	}
	p.logger.Info("model loaded",
		zap.String("name", m.Name()),
		zap.String("manifest", manifest),
		zap.Int("textures", len(m.Textures())),
		zap.Strings("motionGroups", m.MotionGroups()))
}

// unload drops the current model and evicts it from the loader cache so the next load of
// the same name reads the manifest again.
func (p *program) unload() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current == nil {
		return
	}
	p.loader.Evict(p.manifestPath)
	p.logger.Debug("model unloaded", zap.String("name", p.current.Name()))
	p.current = nil
	p.manifestPath = ""
	p.motion = ""
}

func (p *program) handleDoMotion(c protocol.DoMotion) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current == nil {
		p.logger.Debug("no model for motion", zap.String("motion", c.Name))
		return
	}
	if len(p.current.Motions(c.Name)) == 0 {
		p.logger.Warn("model has no such motion",
			zap.String("model", p.current.Name()),
			zap.String("motion", c.Name))
		return
	}
	p.motion = c.Name
	p.logger.Info("motion started", zap.String("model", p.current.Name()), zap.String("motion", c.Name))
}

// signalQuit closes the quit channel to signal the draw loop to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (p *program) signalQuit() {
	p.quitOnce.Do(func() {
		close(p.quitChannel)
	})
}

// handleRender creates the renderer and runs the frame-limited draw loop in its own
// goroutine. The renderer is created here so every GPU call happens on this goroutine's
// locked OS thread. Recovers from panics and stops drawing on recovery.
func (p *program) handleRender(backend renderer.RendererBackendType, target surface.Offscreen) {
	defer p.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("draw loop recovered from panic", zap.Any("panic", r))
			p.signalQuit()
		}
	}()

	r, err := renderer.NewRenderer(backend, target, p.rendererOptions...)
	if err != nil {
		p.logger.Error("failed to create renderer", zap.Error(err))
		return
	}

	p.mu.Lock()
	select {
	case <-p.quitChannel:
		p.mu.Unlock()
		r.Release()
		return
	default:
		p.renderer = r
	}
	p.mu.Unlock()
	defer r.Release()

	for {
		select {
		case <-p.quitChannel:
			return
		default:
			frameStart := time.Now()

			if err := r.BeginFrame(); err == nil {
				r.EndFrame()
				r.Present()
			}

			if p.profilingEnabled {
				p.profiler.Tick()
			}

			if p.renderFrameLimit > 0 {
				if remaining := p.renderFrameLimit - time.Since(frameStart); remaining > 0 {
					select {
					case <-p.quitChannel:
						return
					case <-time.After(remaining):
					}
				}
			}
		}
	}
}
