package protocol

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-l2d/engine/surface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeWireShape(t *testing.T) {
	t.Run("load model", func(t *testing.T) {
		data, err := Encode(LoadModel{ResourcePath: "/models/", Name: "草神"})
		require.NoError(t, err)
		assert.Equal(t, `{"type":"LOAD_MODEL","resourcePath":"/models/","name":"草神"}`, string(data))
	})

	t.Run("load model keeps empty fields", func(t *testing.T) {
		data, err := Encode(LoadModel{})
		require.NoError(t, err)
		assert.Equal(t, `{"type":"LOAD_MODEL","resourcePath":"","name":""}`, string(data))
	})

	t.Run("do motion", func(t *testing.T) {
		data, err := Encode(DoMotion{Name: "TapBody"})
		require.NoError(t, err)
		assert.Equal(t, `{"type":"DO_MOTION","name":"TapBody"}`, string(data))
	})

	t.Run("init carries canvas handle", func(t *testing.T) {
		h := surface.Handle{HandleID: "abc", HandleWidth: 800, HandleHeight: 600}
		data, err := Encode(Init{Canvas: h})
		require.NoError(t, err)
		assert.Equal(t, `{"type":"INIT","canvas":{"id":"abc","width":800,"height":600}}`, string(data))
	})

	t.Run("init from transferred surface", func(t *testing.T) {
		o, err := surface.NewVirtual(320, 240).TransferControlToOffscreen()
		require.NoError(t, err)

		data, err := Encode(Init{Canvas: o})
		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"INIT","canvas":{"id":"`+o.ID()+`","width":320,"height":240}}`, string(data))
	})

	t.Run("nil command", func(t *testing.T) {
		_, err := Encode(nil)
		assert.Error(t, err)
	})
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		data string
		want Command
	}{
		{
			name: "load model",
			data: `{"type":"LOAD_MODEL","resourcePath":"/models/","name":"草神1"}`,
			want: LoadModel{ResourcePath: "/models/", Name: "草神1"},
		},
		{
			name: "do motion",
			data: `{"type":"DO_MOTION","name":"Idle"}`,
			want: DoMotion{Name: "Idle"},
		},
		{
			name: "init",
			data: `{"type":"INIT","canvas":{"id":"c1","width":10,"height":20}}`,
			want: Init{Canvas: surface.Handle{HandleID: "c1", HandleWidth: 10, HandleHeight: 20}},
		},
		{
			name: "init without canvas",
			data: `{"type":"INIT"}`,
			want: Init{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.data))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.Type(), got.Type())
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode([]byte(`{"type":"UNLOAD"}`))
	assert.ErrorIs(t, err, ErrUnknownMessageType)

	_, err = Decode([]byte(`not json`))
	assert.Error(t, err)
}
