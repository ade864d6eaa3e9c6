package surface

// Virtual is a headless Transferable surface with no platform window behind it.
// Workers receiving its Offscreen draw through a headless renderer backend.
type Virtual struct {
	Transfer

	width  int
	height int
}

var _ Transferable = &Virtual{}

// NewVirtual creates a headless surface of the given size.
//
// Parameters:
//   - width: surface width in pixels
//   - height: surface height in pixels
//
// Returns:
//   - *Virtual: the surface, not yet transferred
func NewVirtual(width, height int) *Virtual {
	return &Virtual{width: width, height: height}
}

func (v *Virtual) Width() int {
	return v.width
}

func (v *Virtual) Height() int {
	return v.height
}

func (v *Virtual) TransferControlToOffscreen() (Offscreen, error) {
	return v.Do(func() (Offscreen, error) {
		return NewOffscreen(v.width, v.height, nil), nil
	})
}
