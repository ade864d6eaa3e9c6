package surface

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type plainSurface struct{}

func (plainSurface) Width() int  { return 1 }
func (plainSurface) Height() int { return 1 }

func TestCheck(t *testing.T) {
	t.Run("transferable", func(t *testing.T) {
		v := NewVirtual(4, 4)
		got, err := Check(v)
		require.NoError(t, err)
		assert.Same(t, v, got)
	})

	t.Run("missing capability", func(t *testing.T) {
		_, err := Check(plainSurface{})
		var unsupported *UnsupportedSurfaceError
		require.ErrorAs(t, err, &unsupported)
		assert.Equal(t, "surface.plainSurface", unsupported.Kind)
	})

	t.Run("nil", func(t *testing.T) {
		_, err := Check(nil)
		var unsupported *UnsupportedSurfaceError
		assert.ErrorAs(t, err, &unsupported)
	})
}

func TestVirtualTransfersOnce(t *testing.T) {
	v := NewVirtual(640, 480)
	assert.False(t, v.Transferred())

	o, err := v.TransferControlToOffscreen()
	require.NoError(t, err)
	assert.NotEmpty(t, o.ID())
	assert.Equal(t, 640, o.Width())
	assert.Equal(t, 480, o.Height())
	assert.Nil(t, o.Descriptor())
	assert.True(t, v.Transferred())

	_, err = v.TransferControlToOffscreen()
	assert.ErrorIs(t, err, ErrAlreadyTransferred)
	assert.Equal(t, 2, v.Count())
}

func TestTransferFailureDoesNotConsume(t *testing.T) {
	var tr Transfer
	boom := errors.New("boom")

	_, err := tr.Do(func() (Offscreen, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, tr.Transferred())

	_, err = tr.Do(func() (Offscreen, error) { return NewOffscreen(1, 1, nil), nil })
	require.NoError(t, err)
	assert.True(t, tr.Transferred())
}

func TestHandleOf(t *testing.T) {
	o := NewOffscreen(8, 9, nil)
	h := HandleOf(o)
	assert.Equal(t, o.ID(), h.ID())
	assert.Equal(t, 8, h.Width())
	assert.Equal(t, 9, h.Height())
	assert.Nil(t, h.Descriptor())
}
