// Package session implements the model-session controller: it owns the rendering surface
// handed to a background worker and relays model and motion commands to that worker.
package session

import (
	"errors"
	"fmt"
	"iter"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-l2d/engine/protocol"
	"github.com/Carmen-Shannon/oxy-l2d/engine/surface"
	"github.com/Carmen-Shannon/oxy-l2d/engine/worker"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// DefaultResourcePath is the base location model names are resolved against.
	DefaultResourcePath = "/models/"

	// DefaultWorkerPath is the location of the rendering worker program.
	DefaultWorkerPath = "/l2d.worker.js"
)

// DefaultMotions is the static motion list reported by Motions when none is configured.
var DefaultMotions = []string{"Idle", "TapBody"}

// ErrAlreadyInitialized is returned by Initialize on a session that already owns a worker.
var ErrAlreadyInitialized = errors.New("session: already initialized")

// session is the implementation of the Session interface.
type session struct {
	mu sync.Mutex

	id           string
	resourcePath string
	workerPath   string
	motions      []string

	spawner worker.Spawner
	logger  *zap.Logger

	// worker is nil until Initialize succeeds; non-nil means the surface was transferred.
	worker worker.Worker
}

// Session is the controller for one logical model viewer. It owns at most one worker and
// sends it commands without waiting for them to be processed.
type Session interface {
	// ID returns the identifier used to correlate this session's log lines.
	//
	// Returns:
	//   - string: the session ID
	ID() string

	// ResourcePath returns the base location passed to the worker with every LOAD_MODEL.
	//
	// Returns:
	//   - string: the resource path, unmodified
	ResourcePath() string

	// WorkerPath returns the location the worker is spawned from.
	//
	// Returns:
	//   - string: the worker path
	WorkerPath() string

	// Initialized reports whether the surface has been transferred to a spawned worker.
	//
	// Returns:
	//   - bool: true after a successful Initialize
	Initialized() bool

	// Initialize transfers exclusive drawing control of s to a newly spawned worker and
	// sends it an INIT command carrying the transferred surface. The capability check runs
	// before anything else: a surface that cannot transfer control yields an
	// *surface.UnsupportedSurfaceError and no worker is spawned.
	//
	// If spawning fails after the transfer, the surface stays consumed and the session
	// stays uninitialized.
	//
	// Parameters:
	//   - s: the caller-side surface
	//
	// Returns:
	//   - error: *surface.UnsupportedSurfaceError, ErrAlreadyInitialized, or a wrapped
	//     transfer or spawn error
	Initialize(s surface.Surface) error

	// LoadModel asks the worker to replace its current model with the named one.
	// A no-op before Initialize.
	//
	// Parameters:
	//   - name: the model name, resolved by the worker against ResourcePath
	LoadModel(name string)

	// DoMotion asks the worker to start the named motion on its current model.
	// A no-op before Initialize.
	//
	// Parameters:
	//   - name: the motion group name
	DoMotion(name string)

	// Motions enumerates the motion names known to the session. The sequence is static:
	// it is not sourced from the worker and loading a model does not change it.
	//
	// Returns:
	//   - iter.Seq[string]: a restartable sequence of motion names
	Motions() iter.Seq[string]

	// Close terminates the owned worker, if any. The session cannot be initialized again
	// afterwards because its surface was consumed.
	//
	// Returns:
	//   - error: always nil; present for io.Closer
	Close() error
}

var _ Session = &session{}

// NewSession creates a new Session with the provided options applied.
// Without WithSpawner the session spawns from an empty worker.Registry, so Initialize
// fails until a spawner that knows the worker path is configured.
//
// Parameters:
//   - options: functional options for session configuration
//
// Returns:
//   - Session: the new, uninitialized session
func NewSession(options ...SessionBuilderOption) Session {
	s := &session{
		id:           uuid.NewString(),
		resourcePath: DefaultResourcePath,
		workerPath:   DefaultWorkerPath,
		motions:      slices.Clone(DefaultMotions),
		logger:       zap.NewNop(),
	}

	for _, opt := range options {
		opt(s)
	}

	if s.spawner == nil {
		s.spawner = worker.NewRegistry(worker.WithLogger(s.logger))
	}
	s.logger = s.logger.With(zap.String("session", s.id))
	return s
}

func (s *session) ID() string {
	return s.id
}

func (s *session) ResourcePath() string {
	return s.resourcePath
}

func (s *session) WorkerPath() string {
	return s.workerPath
}

func (s *session) Initialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.worker != nil
}

func (s *session) Initialize(target surface.Surface) error {
	transferable, err := surface.Check(target)
	if err != nil {
		s.logger.Warn("initialize rejected surface", zap.Error(err))
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.worker != nil {
		return ErrAlreadyInitialized
	}

	canvas, err := transferable.TransferControlToOffscreen()
	if err != nil {
		return fmt.Errorf("session: transfer surface: %w", err)
	}

	w, err := s.spawner.Spawn(s.workerPath)
	if err != nil {
		// The surface cannot be taken back from the offscreen handle.
		s.logger.Error("worker spawn failed after surface transfer",
			zap.String("workerPath", s.workerPath),
			zap.String("canvas", canvas.ID()),
			zap.Error(err))
		return fmt.Errorf("session: spawn worker %q: %w", s.workerPath, err)
	}

	w.PostMessage(protocol.Init{Canvas: canvas})
	s.worker = w

	s.logger.Info("session initialized",
		zap.String("workerPath", s.workerPath),
		zap.String("canvas", canvas.ID()),
		zap.Int("width", canvas.Width()),
		zap.Int("height", canvas.Height()))
	return nil
}

func (s *session) LoadModel(name string) {
	s.post(protocol.LoadModel{ResourcePath: s.resourcePath, Name: name})
}

func (s *session) DoMotion(name string) {
	s.post(protocol.DoMotion{Name: name})
}

func (s *session) Motions() iter.Seq[string] {
	return slices.Values(s.motions)
}

func (s *session) Close() error {
	s.mu.Lock()
	w := s.worker
	s.mu.Unlock()

	if w != nil {
		w.Terminate()
	}
	return nil
}

// post sends cmd to the worker, or drops it silently when the session has no worker.
// The lock guards only the handle read, never the post.
func (s *session) post(cmd protocol.Command) {
	s.mu.Lock()
	w := s.worker
	s.mu.Unlock()

	if w == nil {
		s.logger.Debug("command before initialize ignored", zap.String("type", string(cmd.Type())))
		return
	}
	w.PostMessage(cmd)
}
