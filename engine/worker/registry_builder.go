package worker

import "go.uber.org/zap"

// RegistryBuilderOption is a functional option for configuring a Registry via NewRegistry.
type RegistryBuilderOption func(*registry)

// WithProgram registers a program factory at path during construction.
//
// Parameters:
//   - path: the worker path
//   - factory: creates the program for each spawned worker
//
// Returns:
//   - RegistryBuilderOption: option function to apply
func WithProgram(path string, factory ProgramFactory) RegistryBuilderOption {
	return func(r *registry) {
		r.programs[path] = factory
	}
}

// WithBatchSize sets how many commands a spawned worker handles per event loop task.
// The mailbox itself is unbounded. Values <= 0 keep DefaultBatchSize.
//
// Parameters:
//   - size: commands per task
//
// Returns:
//   - RegistryBuilderOption: option function to apply
func WithBatchSize(size int) RegistryBuilderOption {
	return func(r *registry) {
		if size > 0 {
			r.batchSize = size
		}
	}
}

// WithLogger sets the logger handed to spawned workers and their programs.
//
// Parameters:
//   - logger: the logger (nil keeps the no-op logger)
//
// Returns:
//   - RegistryBuilderOption: option function to apply
func WithLogger(logger *zap.Logger) RegistryBuilderOption {
	return func(r *registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}
