package loader

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/Carmen-Shannon/oxy-l2d/engine/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const haruManifest = `{
  "Version": 3,
  "FileReferences": {
    "Moc": "haru.moc3",
    "Textures": ["haru.2048/texture_00.png", "haru.2048/texture_01.png"],
    "Physics": "haru.physics3.json",
    "Motions": {
      "Idle": [{"File": "motions/idle.motion3.json", "FadeInTime": 1.0}],
      "TapBody": [
        {"File": "motions/tap_00.motion3.json"},
        {"File": "motions/tap_01.motion3.json", "FadeOutTime": 0.2}
      ]
    }
  }
}`

func TestManifestPath(t *testing.T) {
	assert.Equal(t, "/models/草神/草神.model3.json", ManifestPath("/models/", "草神"))
	assert.Equal(t, "models草神/草神.model3.json", ManifestPath("models", "草神"))
}

func TestLoadFromDisk(t *testing.T) {
	root := t.TempDir() + string(filepath.Separator)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "haru"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "haru", "haru.model3.json"), []byte(haruManifest), 0o644))

	l := NewLoader(BackendTypeModel3)
	path := ManifestPath(root, "haru")

	m, err := l.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "haru", m.Name())
	assert.Equal(t, path, m.Path())
	assert.Equal(t, "haru.moc3", m.Moc())
	assert.Equal(t, "haru.physics3.json", m.Physics())
	assert.Len(t, m.Textures(), 2)
	assert.Equal(t, []string{"Idle", "TapBody"}, m.MotionGroups())

	assert.Equal(t, []model.Motion{{File: "motions/idle.motion3.json", FadeIn: 1.0, FadeOut: 0.5}}, m.Motions("Idle"))
	tap := m.Motions("TapBody")
	require.Len(t, tap, 2)
	assert.Equal(t, 0.5, tap[0].FadeIn)
	assert.Equal(t, 0.2, tap[1].FadeOut)
	assert.Nil(t, m.Motions("Shake"))

	cached, err := l.Load(path)
	require.NoError(t, err)
	assert.Same(t, m, cached)
	assert.Same(t, m, l.Get(path))
}

func TestLoadFromFS(t *testing.T) {
	fsys := fstest.MapFS{
		"models/草神/草神.model3.json": {Data: []byte(`{"Version":3,"FileReferences":{"Moc":"a.moc3"}}`)},
	}
	l := NewLoader(BackendTypeModel3, WithFS(fsys))

	m, err := l.Load(ManifestPath("/models/", "草神"))
	require.NoError(t, err)
	assert.Equal(t, "草神", m.Name())
	assert.Empty(t, m.MotionGroups())
}

func TestLoadErrors(t *testing.T) {
	fsys := fstest.MapFS{
		"v2/v2.model3.json":       {Data: []byte(`{"Version":2,"FileReferences":{"Moc":"a.moc3"}}`)},
		"nomoc/nomoc.model3.json": {Data: []byte(`{"Version":3,"FileReferences":{}}`)},
		"bad/bad.model3.json":     {Data: []byte(`{`)},
	}
	l := NewLoader(BackendTypeModel3, WithFS(fsys))

	tests := []struct {
		name string
		path string
	}{
		{name: "unsupported suffix", path: "/thing.gltf"},
		{name: "missing file", path: ManifestPath("/", "ghost")},
		{name: "wrong version", path: ManifestPath("/", "v2")},
		{name: "no moc", path: ManifestPath("/", "nomoc")},
		{name: "bad json", path: ManifestPath("/", "bad")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := l.Load(tt.path)
			assert.Error(t, err)
			assert.Nil(t, m)
		})
	}
	assert.Empty(t, l.Models())
}

func TestEvict(t *testing.T) {
	m := model.NewModel(model.WithName("pre"))
	l := NewLoader(BackendTypeModel3, WithModel("/pre/pre.model3.json", m))

	assert.Len(t, l.Models(), 1)
	assert.True(t, l.Evict("/pre/pre.model3.json"))
	assert.False(t, l.Evict("/pre/pre.model3.json"))
	assert.Nil(t, l.Get("/pre/pre.model3.json"))
}
