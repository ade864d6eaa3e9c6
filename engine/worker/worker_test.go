package worker

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-l2d/engine/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func receive(t *testing.T, ch <-chan protocol.Command) protocol.Command {
	t.Helper()
	select {
	case cmd := <-ch:
		return cmd
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for worker to handle a command")
		return nil
	}
}

func TestSpawnUnknownPath(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Spawn("/missing.worker.js")
	assert.ErrorIs(t, err, ErrUnknownWorker)
}

func TestSpawnNilProgram(t *testing.T) {
	reg := NewRegistry(WithProgram("/nil.worker.js", func(*zap.Logger) Program { return nil }))
	_, err := reg.Spawn("/nil.worker.js")
	assert.Error(t, err)
}

func TestRegistryPaths(t *testing.T) {
	rec := NewRecorder(1, nil)
	reg := NewRegistry(WithProgram("/b.js", RecorderFactory(rec)))
	reg.Register("/a.js", RecorderFactory(rec))
	assert.Equal(t, []string{"/a.js", "/b.js"}, reg.Paths())
}

func TestWorkerDeliversInPostOrder(t *testing.T) {
	const n = 50
	rec := NewRecorder(n, nil)
	reg := NewRegistry(WithProgram("/l2d.worker.js", RecorderFactory(rec)), WithBatchSize(8))

	w, err := reg.Spawn("/l2d.worker.js")
	require.NoError(t, err)
	defer w.Terminate()
	assert.Equal(t, "/l2d.worker.js", w.Path())

	for i := range n {
		w.PostMessage(protocol.LoadModel{ResourcePath: "/models/", Name: fmt.Sprintf("m%d", i)})
	}
	for i := range n {
		got := receive(t, rec.Received())
		assert.Equal(t, protocol.LoadModel{ResourcePath: "/models/", Name: fmt.Sprintf("m%d", i)}, got)
	}
	assert.Len(t, rec.Commands(), n)
}

type panickyProgram struct {
	rec *Recorder
}

func (p *panickyProgram) HandleMessage(cmd protocol.Command) {
	if m, ok := cmd.(protocol.DoMotion); ok && m.Name == "explode" {
		panic("bad motion")
	}
	p.rec.HandleMessage(cmd)
}

func TestWorkerRecoversFromPanic(t *testing.T) {
	rec := NewRecorder(4, nil)
	reg := NewRegistry(WithProgram("/p.js", func(*zap.Logger) Program { return &panickyProgram{rec: rec} }))

	w, err := reg.Spawn("/p.js")
	require.NoError(t, err)
	defer w.Terminate()

	w.PostMessage(protocol.DoMotion{Name: "explode"})
	w.PostMessage(protocol.DoMotion{Name: "Idle"})

	assert.Equal(t, protocol.DoMotion{Name: "Idle"}, receive(t, rec.Received()))
}

type closingProgram struct {
	closed chan struct{}
}

func (p *closingProgram) HandleMessage(protocol.Command) {}

func (p *closingProgram) Close() error {
	close(p.closed)
	return nil
}

func TestTerminateClosesProgramOnce(t *testing.T) {
	prog := &closingProgram{closed: make(chan struct{})}
	reg := NewRegistry(WithProgram("/c.js", func(*zap.Logger) Program { return prog }))

	w, err := reg.Spawn("/c.js")
	require.NoError(t, err)

	w.Terminate()
	w.Terminate()

	select {
	case <-prog.closed:
	default:
		t.Fatal("program was not closed")
	}
}

func TestPostAfterTerminateIsDropped(t *testing.T) {
	rec := NewRecorder(4, nil)
	reg := NewRegistry(WithProgram("/r.js", RecorderFactory(rec)))

	w, err := reg.Spawn("/r.js")
	require.NoError(t, err)

	w.PostMessage(protocol.LoadModel{Name: "first"})
	receive(t, rec.Received())

	w.Terminate()
	w.PostMessage(protocol.LoadModel{Name: "second"})
	w.PostMessage(nil)

	assert.Equal(t, []protocol.Command{protocol.LoadModel{Name: "first"}}, rec.Commands())
}

// stalledProgram blocks inside every LOAD_MODEL until release is closed.
type stalledProgram struct {
	entered chan struct{}
	release chan struct{}

	mu      sync.Mutex
	handled []protocol.Command
	closed  bool
}

func newStalledProgram() *stalledProgram {
	return &stalledProgram{
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
}

func (p *stalledProgram) HandleMessage(cmd protocol.Command) {
	if _, ok := cmd.(protocol.LoadModel); ok {
		select {
		case p.entered <- struct{}{}:
		default:
		}
		<-p.release
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handled = append(p.handled, cmd)
}

func (p *stalledProgram) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func (p *stalledProgram) snapshot() ([]protocol.Command, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]protocol.Command(nil), p.handled...), p.closed
}

func waitEntered(t *testing.T, p *stalledProgram) {
	t.Helper()
	select {
	case <-p.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("handler never started")
	}
}

func TestPostDoesNotBlockOnStalledProgram(t *testing.T) {
	const n = 1000
	prog := newStalledProgram()
	reg := NewRegistry(WithProgram("/s.js", func(*zap.Logger) Program { return prog }), WithBatchSize(1))

	w, err := reg.Spawn("/s.js")
	require.NoError(t, err)
	defer w.Terminate()

	w.PostMessage(protocol.DoMotion{Name: "first"})
	w.PostMessage(protocol.LoadModel{Name: "stuck"})
	waitEntered(t, prog)

	posted := make(chan struct{})
	go func() {
		defer close(posted)
		for i := range n {
			w.PostMessage(protocol.DoMotion{Name: fmt.Sprintf("d%d", i)})
		}
	}()
	select {
	case <-posted:
	case <-time.After(time.Second):
		t.Fatal("PostMessage blocked behind a stalled handler")
	}

	close(prog.release)
	require.Eventually(t, func() bool {
		handled, _ := prog.snapshot()
		return len(handled) == n+2
	}, 2*time.Second, 5*time.Millisecond)

	handled, _ := prog.snapshot()
	assert.Equal(t, protocol.DoMotion{Name: "first"}, handled[0])
	assert.Equal(t, protocol.LoadModel{Name: "stuck"}, handled[1])
	for i := range n {
		assert.Equal(t, protocol.DoMotion{Name: fmt.Sprintf("d%d", i)}, handled[i+2])
	}
}

func TestTerminateClosesAfterRunningHandler(t *testing.T) {
	prog := newStalledProgram()
	reg := NewRegistry(WithProgram("/s.js", func(*zap.Logger) Program { return prog }))

	w, err := reg.Spawn("/s.js")
	require.NoError(t, err)

	w.PostMessage(protocol.LoadModel{Name: "stuck"})
	waitEntered(t, prog)
	w.PostMessage(protocol.DoMotion{Name: "queued"})

	terminated := make(chan struct{})
	go func() {
		defer close(terminated)
		w.Terminate()
	}()
	select {
	case <-terminated:
	case <-time.After(time.Second):
		t.Fatal("Terminate waited for a stalled handler")
	}

	_, closed := prog.snapshot()
	assert.False(t, closed, "the program is not closed while a handler is running")

	close(prog.release)
	require.Eventually(t, func() bool {
		_, closed := prog.snapshot()
		return closed
	}, 2*time.Second, 5*time.Millisecond)

	handled, _ := prog.snapshot()
	assert.Equal(t, []protocol.Command{protocol.LoadModel{Name: "stuck"}}, handled, "pending commands are dropped")
}
