package model

import "slices"

// ModelBuilderOption is a functional option for configuring a Model via NewModel.
type ModelBuilderOption func(*model)

// WithName is an option builder that sets the name of the Model.
//
// Parameters:
//   - name: the model identifier
//
// Returns:
//   - ModelBuilderOption: a function that applies the name option to a model
func WithName(name string) ModelBuilderOption {
	return func(m *model) {
		m.name = name
	}
}

// WithPath is an option builder that sets the manifest path of the Model.
//
// Parameters:
//   - path: the manifest path
//
// Returns:
//   - ModelBuilderOption: a function that applies the path option to a model
func WithPath(path string) ModelBuilderOption {
	return func(m *model) {
		m.path = path
	}
}

// WithMoc is an option builder that sets the moc data reference of the Model.
//
// Parameters:
//   - moc: the moc path relative to the manifest
//
// Returns:
//   - ModelBuilderOption: a function that applies the moc option to a model
func WithMoc(moc string) ModelBuilderOption {
	return func(m *model) {
		m.moc = moc
	}
}

// WithTextures is an option builder that sets the texture references of the Model.
//
// Parameters:
//   - textures: texture paths relative to the manifest
//
// Returns:
//   - ModelBuilderOption: a function that applies the textures option to a model
func WithTextures(textures ...string) ModelBuilderOption {
	return func(m *model) {
		m.textures = slices.Clone(textures)
	}
}

// WithPhysics is an option builder that sets the physics settings reference of the Model.
//
// Parameters:
//   - physics: the physics path relative to the manifest
//
// Returns:
//   - ModelBuilderOption: a function that applies the physics option to a model
func WithPhysics(physics string) ModelBuilderOption {
	return func(m *model) {
		m.physics = physics
	}
}

// WithMotionGroup is an option builder that adds a motion group to the Model.
// Adding a group twice replaces the earlier one.
//
// Parameters:
//   - group: the motion group name
//   - motions: the group's motions
//
// Returns:
//   - ModelBuilderOption: a function that applies the motion group option to a model
func WithMotionGroup(group string, motions ...Motion) ModelBuilderOption {
	return func(m *model) {
		m.motions[group] = slices.Clone(motions)
	}
}
