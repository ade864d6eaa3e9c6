package window

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/Carmen-Shannon/oxy-l2d/engine/surface"
	"github.com/cogentcore/webgpu/wgpu"
)

// ErrNotInitialized is returned when the platform window has not been created or was closed.
var ErrNotInitialized = errors.New("window is not initialized")

// Window is the viewer's on-screen canvas. It is a surface.Transferable: its drawing
// rights are handed to a rendering worker once, after which the window only pumps input.
type Window interface {
	surface.Transferable

	// SetUpdateCallback sets the function called each message loop iteration.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the framebuffer size changes.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetKeyDownCallback sets the callback for key press events.
	//
	// Parameters:
	//   - callback: function receiving the virtual key code
	SetKeyDownCallback(callback func(keyCode uint32))

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor for the window's drawable area.
	// Returns nil once the drawing rights have been transferred, or if the window is not
	// initialized.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// Transferred reports whether the drawing rights have been handed out.
	//
	// Returns:
	//   - bool: true after a successful TransferControlToOffscreen
	Transferred() bool

	// IsRunning returns true if the window is still active.
	//
	// Returns:
	//   - bool: true if window is running, false if closed
	IsRunning() bool

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if close operation fails
	Close() error

	// ProcessMessages runs the window message loop.
	// Blocks until the window is closed. Calls the update callback each iteration.
	ProcessMessages()
}

// engineWindow is the implementation of the Window interface.
type engineWindow struct {
	transfer surface.Transfer

	title string

	// width and height are the framebuffer size in pixels.
	width  int
	height int

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	onUpdate  func()
	onResize  func(width, height int)
	onKeyDown func(keyCode uint32)
}

var _ Window = &engineWindow{}

// NewWindow creates and shows a fixed-size window with the specified options.
// Must be called from the main goroutine; the calling goroutine is locked to its OS thread.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the window
//   - error: error if the platform window could not be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := &engineWindow{
		title:  "oxy-l2d",
		width:  800,
		height: 800,
	}
	for _, opt := range options {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		return nil, fmt.Errorf("failed to create platform window: %w", err)
	}
	return w, nil
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetKeyDownCallback(callback func(keyCode uint32)) {
	w.onKeyDown = callback
}

func (w *engineWindow) TransferControlToOffscreen() (surface.Offscreen, error) {
	return w.transfer.Do(func() (surface.Offscreen, error) {
		desc := platformGetSurfaceDescriptor(w)
		if desc == nil {
			return nil, ErrNotInitialized
		}
		return surface.NewOffscreen(w.width, w.height, desc), nil
	})
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	if w.transfer.Transferred() {
		return nil
	}
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) Transferred() bool {
	return w.transfer.Transferred()
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		if succ := platformProcessMessages(w); !succ {
			break
		}

		if w.onUpdate != nil {
			w.onUpdate()
		}

		runtime.Gosched()
	}
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}
