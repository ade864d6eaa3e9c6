// Package surface defines the drawing surfaces a session hands to a rendering worker and
// the once-only transfer of their drawing rights.
package surface

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// ErrAlreadyTransferred is returned by TransferControlToOffscreen when the surface has
// already handed its drawing rights to another execution context.
var ErrAlreadyTransferred = errors.New("surface: control already transferred to offscreen")

// UnsupportedSurfaceError reports a surface that cannot transfer exclusive drawing control.
type UnsupportedSurfaceError struct {
	// Kind is the Go type of the rejected surface.
	Kind string
}

func (e *UnsupportedSurfaceError) Error() string {
	return fmt.Sprintf("surface: %s does not support transferring control to an offscreen surface", e.Kind)
}

// Surface is a caller-side drawing target.
type Surface interface {
	// Width returns the surface width in pixels.
	//
	// Returns:
	//   - int: width in pixels
	Width() int

	// Height returns the surface height in pixels.
	//
	// Returns:
	//   - int: height in pixels
	Height() int
}

// Transferable is a Surface that can move its exclusive drawing rights to another
// execution context exactly once.
type Transferable interface {
	Surface

	// TransferControlToOffscreen hands exclusive drawing control to the returned Offscreen.
	// After a successful call the caller-side surface must not be drawn to, and every
	// later call fails with ErrAlreadyTransferred.
	//
	// Returns:
	//   - Offscreen: the handle the worker draws through
	//   - error: ErrAlreadyTransferred if control was already handed out
	TransferControlToOffscreen() (Offscreen, error)
}

// Offscreen is the worker-side handle produced by a transfer.
type Offscreen interface {
	// ID returns the unique identifier of this handle.
	ID() string

	// Width returns the drawing width in pixels at transfer time.
	Width() int

	// Height returns the drawing height in pixels at transfer time.
	Height() int

	// Descriptor returns the platform surface descriptor a GPU backend can create a
	// surface from, or nil for headless surfaces.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the descriptor or nil
	Descriptor() *wgpu.SurfaceDescriptor
}

// Check reports whether s can transfer its drawing control. It returns the Transferable
// view of s, or an *UnsupportedSurfaceError.
//
// Parameters:
//   - s: the surface to check
//
// Returns:
//   - Transferable: s viewed as a Transferable
//   - error: *UnsupportedSurfaceError if s lacks the capability
func Check(s Surface) (Transferable, error) {
	if s == nil {
		return nil, &UnsupportedSurfaceError{Kind: "<nil>"}
	}
	t, ok := s.(Transferable)
	if !ok {
		return nil, &UnsupportedSurfaceError{Kind: fmt.Sprintf("%T", s)}
	}
	return t, nil
}

// Handle is the serializable reference to an Offscreen. It is what a decoded INIT message
// carries in place of a live surface.
type Handle struct {
	HandleID     string `json:"id"`
	HandleWidth  int    `json:"width"`
	HandleHeight int    `json:"height"`
}

var _ Offscreen = Handle{}

// HandleOf captures the serializable reference of o.
//
// Parameters:
//   - o: the offscreen surface
//
// Returns:
//   - Handle: the reference
func HandleOf(o Offscreen) Handle {
	return Handle{HandleID: o.ID(), HandleWidth: o.Width(), HandleHeight: o.Height()}
}

func (h Handle) ID() string                          { return h.HandleID }
func (h Handle) Width() int                          { return h.HandleWidth }
func (h Handle) Height() int                         { return h.HandleHeight }
func (h Handle) Descriptor() *wgpu.SurfaceDescriptor { return nil }

// offscreen is the Offscreen produced by the surfaces in this package and by the window
// package through NewOffscreen.
type offscreen struct {
	id         string
	width      int
	height     int
	descriptor *wgpu.SurfaceDescriptor
}

var _ Offscreen = &offscreen{}

// NewOffscreen builds an Offscreen for a completed transfer.
//
// Parameters:
//   - width: drawing width in pixels
//   - height: drawing height in pixels
//   - descriptor: the platform surface descriptor, or nil for headless surfaces
//
// Returns:
//   - Offscreen: the worker-side handle
func NewOffscreen(width, height int, descriptor *wgpu.SurfaceDescriptor) Offscreen {
	return &offscreen{
		id:         newID(),
		width:      width,
		height:     height,
		descriptor: descriptor,
	}
}

func (o *offscreen) ID() string {
	return o.id
}

func (o *offscreen) Width() int {
	return o.width
}

func (o *offscreen) Height() int {
	return o.height
}

func (o *offscreen) Descriptor() *wgpu.SurfaceDescriptor {
	return o.descriptor
}

// MarshalJSON encodes the offscreen as its Handle. The platform descriptor never leaves
// the process.
func (o *offscreen) MarshalJSON() ([]byte, error) {
	return json.Marshal(HandleOf(o))
}
