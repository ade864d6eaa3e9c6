package loader

import (
	"io/fs"
	"path"
	"strings"

	"github.com/Carmen-Shannon/oxy-l2d/engine/model"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithModel is an option builder that pre-populates the model cache with a model.
//
// Parameters:
//   - key: the cache key (manifest path) for the model
//   - model: the model to cache
//
// Returns:
//   - LoaderBuilderOption: a function that applies the model option to a loader
func WithModel(key string, model model.Model) LoaderBuilderOption {
	return func(l *loader) {
		l.modelCache[key] = model
	}
}

// WithFS is an option builder that makes the Loader read manifests from fsys instead of
// the host filesystem. Manifest paths are cleaned and stripped of a leading "/" before
// being opened, so a resource path like "/models/" maps onto the root of fsys.
//
// Parameters:
//   - fsys: the filesystem holding model assets
//
// Returns:
//   - LoaderBuilderOption: a function that applies the filesystem option to a loader
func WithFS(fsys fs.FS) LoaderBuilderOption {
	return func(l *loader) {
		l.backend = newModel3LoaderBackend(func(name string) ([]byte, error) {
			return fs.ReadFile(fsys, strings.TrimPrefix(path.Clean(name), "/"))
		})
	}
}
