package loader

import (
	"fmt"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-l2d/engine/model"
)

// LoaderBackendType identifies the model manifest format backend to use.
type LoaderBackendType int

const (
	// BackendTypeModel3 selects the model3.json manifest backend.
	BackendTypeModel3 LoaderBackendType = iota
)

// ManifestSuffix is the file suffix of model manifests.
const ManifestSuffix = ".model3.json"

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	modelCache map[string]model.Model

	backend loaderBackend
}

// Loader loads model manifests and caches the resulting models by manifest path.
type Loader interface {
	// Load reads a model manifest and caches the result.
	// If the model is already cached (by path), the cached version is returned.
	//
	// Parameters:
	//   - path: the manifest path
	//
	// Returns:
	//   - model.Model: the loaded and cached model
	//   - error: error if the format is unsupported or loading fails
	Load(path string) (model.Model, error)

	// Get retrieves a cached model by path. Returns nil if not found.
	//
	// Parameters:
	//   - path: the manifest path
	//
	// Returns:
	//   - model.Model: the cached model or nil
	Get(path string) model.Model

	// Evict drops a model from the cache so the next Load reads it again.
	//
	// Parameters:
	//   - path: the manifest path
	//
	// Returns:
	//   - bool: true if a model was evicted
	Evict(path string) bool

	// Models returns a copy of the model cache.
	//
	// Returns:
	//   - map[string]model.Model: all cached models keyed by path
	Models() map[string]model.Model
}

var _ Loader = &loader{}

// NewLoader creates a new Loader with the specified backend type and options applied.
//
// Parameters:
//   - backendType: the type of loader backend to use (e.g., BackendTypeModel3)
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new Loader configured with the provided backend and options
func NewLoader(backendType LoaderBackendType, options ...LoaderBuilderOption) Loader {
	l := &loader{
		modelCache: make(map[string]model.Model),
	}

	switch backendType {
	case BackendTypeModel3:
		fallthrough
	default:
		l.backend = newModel3LoaderBackend(osReadFile)
	}

	for _, option := range options {
		option(l)
	}
	return l
}

// ManifestPath resolves a model name against a resource path the way the rendering worker
// does: <resourcePath><name>/<name>.model3.json. The resource path is used verbatim, so it
// normally ends with a separator.
//
// Parameters:
//   - resourcePath: the base location of model assets
//   - name: the model name
//
// Returns:
//   - string: the manifest path
func ManifestPath(resourcePath, name string) string {
	return resourcePath + name + "/" + name + ManifestSuffix
}

func (l *loader) Load(path string) (model.Model, error) {
	l.mu.RLock()
	if cached, ok := l.modelCache[path]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	backend, err := l.resolveBackend(path)
	if err != nil {
		return nil, err
	}

	m, err := backend.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	l.mu.Lock()
	l.modelCache[path] = m
	l.mu.Unlock()

	return m, nil
}

func (l *loader) Get(path string) model.Model {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.modelCache[path]
}

func (l *loader) Evict(path string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.modelCache[path]; !ok {
		return false
	}
	delete(l.modelCache, path)
	return true
}

func (l *loader) Models() map[string]model.Model {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make(map[string]model.Model, len(l.modelCache))
	for k, v := range l.modelCache {
		result[k] = v
	}
	return result
}

// resolveBackend selects an appropriate loader backend based on the file suffix.
func (l *loader) resolveBackend(path string) (loaderBackend, error) {
	if strings.HasSuffix(strings.ToLower(path), ManifestSuffix) {
		return l.backend, nil
	}
	return nil, fmt.Errorf("unsupported model manifest: %s", path)
}
