package worker

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-l2d/engine/protocol"
	"go.uber.org/zap"
)

// Recorder is a Program that keeps every command it receives and logs its wire form.
// It stands in for a rendering worker when tracing a session without drawing.
type Recorder struct {
	mu       sync.Mutex
	commands []protocol.Command
	received chan protocol.Command
	logger   *zap.Logger
}

var _ Program = &Recorder{}

// NewRecorder creates a Recorder. Received commands are also published on Received,
// which buffers up to backlog commands; later commands are kept but not published.
//
// Parameters:
//   - backlog: capacity of the Received channel
//   - logger: logger for the wire form of each command (nil for none)
//
// Returns:
//   - *Recorder: the recorder
func NewRecorder(backlog int, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{
		received: make(chan protocol.Command, backlog),
		logger:   logger,
	}
}

// RecorderFactory returns a ProgramFactory that always hands out r.
//
// Parameters:
//   - r: the recorder to spawn
//
// Returns:
//   - ProgramFactory: the factory
func RecorderFactory(r *Recorder) ProgramFactory {
	return func(*zap.Logger) Program {
		return r
	}
}

func (r *Recorder) HandleMessage(cmd protocol.Command) {
	r.mu.Lock()
	r.commands = append(r.commands, cmd)
	r.mu.Unlock()

	if data, err := protocol.Encode(cmd); err == nil {
		r.logger.Info("worker message", zap.ByteString("wire", data))
	}

	select {
	case r.received <- cmd:
	default:
	}
}

// Commands returns a copy of every command received so far, in arrival order.
func (r *Recorder) Commands() []protocol.Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]protocol.Command, len(r.commands))
	copy(out, r.commands)
	return out
}

// Received publishes commands as they are handled.
func (r *Recorder) Received() <-chan protocol.Command {
	return r.received
}
