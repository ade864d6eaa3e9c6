package worker

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// ErrUnknownWorker is returned by Spawn when no program is registered at the path.
var ErrUnknownWorker = errors.New("worker: no program registered at path")

// DefaultBatchSize is the number of commands a worker's event loop task handles before
// it yields.
const DefaultBatchSize = 256

// Spawner creates workers from a worker path. It is the host environment's
// worker-spawning facility; the session never interprets the path itself.
type Spawner interface {
	// Spawn starts a new worker running the program found at path.
	//
	// Parameters:
	//   - path: the worker path
	//
	// Returns:
	//   - Worker: the running worker
	//   - error: ErrUnknownWorker if nothing is registered at path
	Spawn(path string) (Worker, error)
}

// Registry is a Spawner that resolves worker paths against registered program factories.
type Registry interface {
	Spawner

	// Register binds a program factory to a worker path, replacing any previous binding.
	//
	// Parameters:
	//   - path: the worker path
	//   - factory: creates the program for each spawned worker
	Register(path string, factory ProgramFactory)

	// Paths returns the registered worker paths in sorted order.
	//
	// Returns:
	//   - []string: the registered paths
	Paths() []string
}

// registry is the implementation of the Registry interface.
type registry struct {
	mu        sync.RWMutex
	programs  map[string]ProgramFactory
	batchSize int
	logger    *zap.Logger
}

var _ Registry = &registry{}

// NewRegistry creates an empty Registry with the provided options applied.
//
// Parameters:
//   - options: functional options for registry configuration
//
// Returns:
//   - Registry: the registry
func NewRegistry(options ...RegistryBuilderOption) Registry {
	r := &registry{
		programs:  make(map[string]ProgramFactory),
		batchSize: DefaultBatchSize,
		logger:    zap.NewNop(),
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

func (r *registry) Register(path string, factory ProgramFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.programs[path] = factory
}

func (r *registry) Paths() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	paths := make([]string, 0, len(r.programs))
	for p := range r.programs {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

func (r *registry) Spawn(path string) (Worker, error) {
	r.mu.RLock()
	factory, ok := r.programs[path]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownWorker, path)
	}

	logger := r.logger.With(zap.String("worker", path))
	program := factory(logger)
	if program == nil {
		return nil, fmt.Errorf("worker: factory at %q returned no program", path)
	}

	w := newWorker(path, program, r.batchSize, logger)
	logger.Debug("worker spawned")
	return w, nil
}
