package model

import (
	"slices"
	"sort"
)

// model is the implementation of the Model interface.
type model struct {
	name     string
	path     string
	moc      string
	textures []string
	physics  string
	motions  map[string][]Motion
}

// Model is a loaded character model as the rendering worker sees it: the resolved asset
// references from its manifest and its motion groups. Models are immutable once built.
type Model interface {
	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Path retrieves the manifest path the model was loaded from.
	//
	// Returns:
	//   - string: the manifest path
	Path() string

	// Moc retrieves the path of the model's moc data, relative to the manifest.
	Moc() string

	// Textures retrieves the texture paths, relative to the manifest.
	Textures() []string

	// Physics retrieves the physics settings path, or "" if the model has none.
	Physics() string

	// MotionGroups returns the motion group names in sorted order.
	//
	// Returns:
	//   - []string: the group names
	MotionGroups() []string

	// Motions returns the motions in a group, or nil if the group does not exist.
	//
	// Parameters:
	//   - group: the motion group name
	//
	// Returns:
	//   - []Motion: the group's motions
	Motions(group string) []Motion
}

var _ Model = &model{}

// NewModel creates a new Model with the provided options applied.
//
// Parameters:
//   - options: functional options to configure the model
//
// Returns:
//   - Model: the model
func NewModel(options ...ModelBuilderOption) Model {
	m := &model{
		motions: make(map[string][]Motion),
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Path() string {
	return m.path
}

func (m *model) Moc() string {
	return m.moc
}

func (m *model) Textures() []string {
	return slices.Clone(m.textures)
}

func (m *model) Physics() string {
	return m.physics
}

func (m *model) MotionGroups() []string {
	groups := make([]string, 0, len(m.motions))
	for g := range m.motions {
		groups = append(groups, g)
	}
	sort.Strings(groups)
	return groups
}

func (m *model) Motions(group string) []Motion {
	motions, ok := m.motions[group]
	if !ok {
		return nil
	}
	return slices.Clone(motions)
}
