package session

import (
	"slices"

	"github.com/Carmen-Shannon/oxy-l2d/engine/worker"
	"go.uber.org/zap"
)

// SessionBuilderOption is a functional option for configuring a Session.
// Use the With* functions to create options that are applied directly to the session instance.
type SessionBuilderOption func(*session)

// WithResourcePath sets the base location passed to the worker with every LOAD_MODEL.
// The path is passed through unmodified; it is neither validated nor joined.
//
// Parameters:
//   - path: the resource path
//
// Returns:
//   - SessionBuilderOption: option function to apply
func WithResourcePath(path string) SessionBuilderOption {
	return func(s *session) {
		s.resourcePath = path
	}
}

// WithWorkerPath sets the location the worker is spawned from.
//
// Parameters:
//   - path: the worker path
//
// Returns:
//   - SessionBuilderOption: option function to apply
func WithWorkerPath(path string) SessionBuilderOption {
	return func(s *session) {
		s.workerPath = path
	}
}

// WithSpawner sets the facility the session spawns its worker through.
//
// Parameters:
//   - spawner: the worker spawner
//
// Returns:
//   - SessionBuilderOption: option function to apply
func WithSpawner(spawner worker.Spawner) SessionBuilderOption {
	return func(s *session) {
		s.spawner = spawner
	}
}

// WithLogger sets the session logger. A nil logger keeps the no-op default.
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - SessionBuilderOption: option function to apply
func WithLogger(logger *zap.Logger) SessionBuilderOption {
	return func(s *session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMotions replaces the static motion list reported by Motions.
//
// Parameters:
//   - motions: the motion names, copied
//
// Returns:
//   - SessionBuilderOption: option function to apply
func WithMotions(motions ...string) SessionBuilderOption {
	return func(s *session) {
		s.motions = slices.Clone(motions)
	}
}
