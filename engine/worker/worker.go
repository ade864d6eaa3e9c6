// Package worker hosts rendering worker programs in isolated goroutines that receive
// protocol commands through an ordered, unacknowledged, unbounded mailbox.
package worker

import (
	"io"
	"sync"
	"time"

	pool "github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-l2d/engine/protocol"
	"go.uber.org/zap"
)

// Program is the code run inside a worker. HandleMessage is called for one command at a
// time, in the order the commands were posted. A Program that also implements io.Closer
// is closed when its worker is terminated.
type Program interface {
	// HandleMessage processes one command. It runs on the worker's goroutine.
	//
	// Parameters:
	//   - cmd: the command posted by the controller
	HandleMessage(cmd protocol.Command)
}

// ProgramFactory creates a fresh Program for every spawned worker.
type ProgramFactory func(logger *zap.Logger) Program

// Worker is the controller-side handle of a spawned worker.
type Worker interface {
	// Path returns the worker path the worker was spawned from.
	//
	// Returns:
	//   - string: the worker path
	Path() string

	// PostMessage appends a command to the worker's mailbox and returns without waiting for
	// it to be processed. It never blocks on the worker. Commands posted after Terminate
	// are dropped.
	//
	// Parameters:
	//   - cmd: the command to deliver
	PostMessage(cmd protocol.Command)

	// Terminate stops the worker's event loop, drops pending commands and closes its
	// program once no command is being handled. It does not wait for a running handler.
	// Safe to call multiple times; subsequent calls are no-ops.
	Terminate()
}

// worker is the implementation of the Worker interface.
// Posted commands wait in an unbounded mailbox; a single drain task on a one-goroutine
// pool hands them to the program in post order.
type worker struct {
	path    string
	program Program
	logger  *zap.Logger

	mu          sync.Mutex
	pending     []envelope
	nextID      int
	scheduled   bool // a drain task is queued or running
	dispatching bool // HandleMessage is running
	terminated  bool

	batchSize int
	loop      pool.DynamicWorkerPool

	terminateOnce sync.Once
	closeOnce     sync.Once
}

// envelope is a posted command and its sequence number.
type envelope struct {
	id  int
	cmd protocol.Command
}

var _ Worker = &worker{}

// newWorker starts the event loop for program.
//
// Parameters:
//   - path: the worker path
//   - program: the program to run
//   - batchSize: commands handled per event loop task before the task yields
//   - logger: the worker's logger
//
// Returns:
//   - *worker: the running worker
func newWorker(path string, program Program, batchSize int, logger *zap.Logger) *worker {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	// At most one drain task is ever queued, so one slot keeps SubmitTask from blocking.
	return &worker{
		path:      path,
		program:   program,
		logger:    logger,
		batchSize: batchSize,
		loop:      pool.NewDynamicWorkerPool(1, 1, 1*time.Second),
	}
}

func (w *worker) Path() string {
	return w.path
}

func (w *worker) PostMessage(cmd protocol.Command) {
	if cmd == nil {
		return
	}

	w.mu.Lock()
	if w.terminated {
		w.mu.Unlock()
		w.logger.Debug("dropping command posted to terminated worker", zap.String("type", string(cmd.Type())))
		return
	}
	id := w.nextID
	w.nextID++
	w.pending = append(w.pending, envelope{id: id, cmd: cmd})
	schedule := !w.scheduled
	w.scheduled = true
	w.mu.Unlock()

	if schedule {
		w.submitDrain(id)
	}
}

func (w *worker) Terminate() {
	w.terminateOnce.Do(func() {
		w.mu.Lock()
		w.terminated = true
		dropped := len(w.pending)
		w.pending = nil
		busy := w.dispatching
		w.mu.Unlock()

		w.loop.Stop()
		w.loop.ClearTaskQueue()
		// A running handler closes the program itself when it returns.
		if !busy {
			w.closeProgram()
		}
		w.logger.Debug("worker terminated", zap.Int("dropped", dropped), zap.Bool("busy", busy))
	})
}

// submitDrain queues a drain task on the event loop.
func (w *worker) submitDrain(id int) {
	w.loop.SubmitTask(pool.Task{
		ID: id,
		Do: func() (any, error) {
			w.drain()
			return nil, nil
		},
	})
}

// drain hands pending commands to the program in post order. After batchSize commands it
// requeues itself so the loop is not held by a single task.
func (w *worker) drain() {
	for handled := 0; ; handled++ {
		w.mu.Lock()
		w.dispatching = false
		if w.terminated {
			w.scheduled = false
			w.mu.Unlock()
			w.closeProgram()
			return
		}
		if len(w.pending) == 0 {
			w.scheduled = false
			w.mu.Unlock()
			return
		}
		next := w.pending[0]
		if handled == w.batchSize {
			w.mu.Unlock()
			w.submitDrain(next.id)
			return
		}
		w.pending[0] = envelope{}
		w.pending = w.pending[1:]
		w.dispatching = true
		w.mu.Unlock()

		w.dispatch(next.id, next.cmd)
	}
}

// closeProgram closes the program if it is an io.Closer. Runs at most once.
func (w *worker) closeProgram() {
	w.closeOnce.Do(func() {
		if c, ok := w.program.(io.Closer); ok {
			if err := c.Close(); err != nil {
				w.logger.Warn("worker program close failed", zap.Error(err))
			}
		}
	})
}

// dispatch hands one command to the program. Recovers from panics so a faulty handler
// cannot take down the host process.
func (w *worker) dispatch(id int, cmd protocol.Command) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("worker recovered from panic",
				zap.Int("message", id),
				zap.String("type", string(cmd.Type())),
				zap.Any("panic", r))
		}
	}()
	w.program.HandleMessage(cmd)
}
