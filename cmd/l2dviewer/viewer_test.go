package main

import (
	"bytes"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-l2d/common"
	"github.com/Carmen-Shannon/oxy-l2d/config"
	"github.com/Carmen-Shannon/oxy-l2d/engine/loader"
	"github.com/Carmen-Shannon/oxy-l2d/engine/protocol"
	"github.com/Carmen-Shannon/oxy-l2d/engine/session"
	"github.com/Carmen-Shannon/oxy-l2d/engine/surface"
	"github.com/Carmen-Shannon/oxy-l2d/engine/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const manifestBody = `{"Version":3,"FileReferences":{"Moc":"m.moc3","Textures":[],"Motions":{"Idle":[{"File":"idle.motion3.json"}]}}}`

func writeModel(t *testing.T, root, name string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(root, name), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, name, name+loader.ManifestSuffix), []byte(manifestBody), 0o644))
}

func newTracedViewer(t *testing.T, models []string) (*viewer, *worker.Recorder) {
	t.Helper()
	rec := worker.NewRecorder(16, nil)
	reg := worker.NewRegistry(worker.WithProgram(session.DefaultWorkerPath, worker.RecorderFactory(rec)))

	s := session.NewSession(session.WithSpawner(reg))
	require.NoError(t, s.Initialize(surface.NewVirtual(10, 10)))
	t.Cleanup(func() { _ = s.Close() })
	return newViewer(s, models, zap.NewNop()), rec
}

func waitCommands(t *testing.T, rec *worker.Recorder, n int) []protocol.Command {
	t.Helper()
	require.Eventually(t, func() bool { return len(rec.Commands()) == n }, time.Second, 5*time.Millisecond)
	return rec.Commands()
}

func TestViewerKeys(t *testing.T) {
	v, rec := newTracedViewer(t, []string{"草神", "草神1"})

	v.HandleKey(common.KeyM)
	assert.Empty(t, v.Current(), "no motion before a model is selected")

	v.HandleKey(common.Key2)
	v.HandleKey(common.Key9)
	v.HandleKey(common.KeyM)
	v.HandleKey(common.KeyM)
	v.HandleKey(common.KeyM)
	v.HandleKey(common.KeyR)
	assert.Equal(t, "草神1", v.Current())

	cmds := waitCommands(t, rec, 6)
	assert.Equal(t, []protocol.Command{
		protocol.Init{Canvas: cmds[0].(protocol.Init).Canvas},
		protocol.LoadModel{ResourcePath: "/models/", Name: "草神1"},
		protocol.DoMotion{Name: "Idle"},
		protocol.DoMotion{Name: "TapBody"},
		protocol.DoMotion{Name: "Idle"},
		protocol.LoadModel{ResourcePath: "/models/", Name: "草神1"},
	}, cmds)
}

func TestSelectModelByName(t *testing.T) {
	v, _ := newTracedViewer(t, []string{"a", "b"})
	var selected atomic.Value
	v.onSelect = func(name string) { selected.Store(name) }

	assert.True(t, v.SelectModelByName("b"))
	assert.Equal(t, "b", selected.Load())
	assert.False(t, v.SelectModelByName("c"))
	assert.Equal(t, "b", v.Current())
}

func TestSelectResetsMotionCycle(t *testing.T) {
	v, _ := newTracedViewer(t, []string{"a", "b"})
	require.True(t, v.SelectModel(0))
	assert.Equal(t, "Idle", v.NextMotion())
	assert.Equal(t, "TapBody", v.NextMotion())

	require.True(t, v.SelectModel(1))
	assert.Equal(t, "Idle", v.NextMotion())
}

func TestDiscoverAndPrintModels(t *testing.T) {
	root := t.TempDir() + string(filepath.Separator)
	writeModel(t, root, "haru")
	writeModel(t, root, "草神")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "empty"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "README"), nil, 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "broken"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "broken", "broken.model3.json"), []byte("{"), 0o644))

	names, err := discoverModels(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"broken", "haru", "草神"}, names)

	var out bytes.Buffer
	require.NoError(t, printModels(&out, loader.NewLoader(loader.BackendTypeModel3), root, names))
	assert.Contains(t, out.String(), "2  haru  [Idle]")
	assert.Contains(t, out.String(), "3  草神  [Idle]")
	assert.Contains(t, out.String(), "1  broken  (error:")

	_, err = discoverModels(filepath.Join(root, "absent"))
	assert.Error(t, err)

	out.Reset()
	require.NoError(t, printModels(&out, loader.NewLoader(loader.BackendTypeModel3), root, nil))
	assert.Contains(t, out.String(), "no models")
}

func TestNewViewerSessionDiscoversModels(t *testing.T) {
	root := t.TempDir() + string(filepath.Separator)
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"} {
		writeModel(t, root, name)
	}
	c := config.DefaultConfig()
	c.ResourcePath = root

	s, v := newViewerSession(c, zap.NewNop(), worker.NewRegistry())
	defer s.Close()
	assert.Len(t, v.models, 9)
	assert.Equal(t, root, s.ResourcePath())
}

func TestHeadlessRenderingSession(t *testing.T) {
	root := t.TempDir() + string(filepath.Separator)
	writeModel(t, root, "haru")
	c := config.DefaultConfig()
	c.ResourcePath = root
	c.Render.FrameLimit = 200

	s, v := newViewerSession(c, zap.NewNop(), newSpawner(c, zap.NewNop(), false))
	defer s.Close()
	require.NoError(t, s.Initialize(surface.NewVirtual(64, 64)))
	assert.True(t, v.SelectModel(0))
	assert.Equal(t, "Idle", v.NextMotion())
}

func TestTraceSpawner(t *testing.T) {
	c := config.DefaultConfig()
	reg := newSpawner(c, zap.NewNop(), true)
	assert.Equal(t, []string{c.WorkerPath}, reg.Paths())
}
