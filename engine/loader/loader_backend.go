package loader

import (
	"os"

	"github.com/Carmen-Shannon/oxy-l2d/engine/model"
)

// loaderBackend defines the generic interface for loading models from manifests.
// Concrete implementations (e.g., model3LoaderBackendImpl) handle format-specific details.
type loaderBackend interface {
	// Load reads the manifest at path and builds the model it describes.
	//
	// Parameters:
	//   - path: the manifest path
	//
	// Returns:
	//   - model.Model: the loaded model
	//   - error: error if reading or parsing fails
	Load(path string) (model.Model, error)
}

// readFileFunc reads a whole file by name.
type readFileFunc func(name string) ([]byte, error)

func osReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}
