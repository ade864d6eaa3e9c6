// Package protocol defines the closed set of one-way commands a session sends to its
// rendering worker. Commands are fire-and-forget: there is no reply or acknowledgement.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-l2d/engine/surface"
)

// MessageType is the value of the "type" field on the wire.
type MessageType string

const (
	// MessageInit hands the transferred surface to the worker.
	MessageInit MessageType = "INIT"

	// MessageLoadModel asks the worker to tear down its current model and load a new one.
	MessageLoadModel MessageType = "LOAD_MODEL"

	// MessageDoMotion asks the worker to start a motion on its current model.
	MessageDoMotion MessageType = "DO_MOTION"
)

// ErrUnknownMessageType is returned by Decode for a "type" outside the protocol.
var ErrUnknownMessageType = errors.New("protocol: unknown message type")

// Command is one controller-to-worker message. The set of implementations is closed:
// Init, LoadModel and DoMotion.
type Command interface {
	// Type returns the wire tag of the command.
	//
	// Returns:
	//   - MessageType: the command's tag
	Type() MessageType

	command()
}

// Init carries the surface whose drawing rights were transferred to the worker.
type Init struct {
	Canvas surface.Offscreen
}

// LoadModel names the model to load, resolved by the worker against ResourcePath.
type LoadModel struct {
	ResourcePath string
	Name         string
}

// DoMotion names the motion group to start on the worker's current model.
type DoMotion struct {
	Name string
}

var (
	_ Command = Init{}
	_ Command = LoadModel{}
	_ Command = DoMotion{}
)

func (Init) Type() MessageType      { return MessageInit }
func (LoadModel) Type() MessageType { return MessageLoadModel }
func (DoMotion) Type() MessageType  { return MessageDoMotion }

func (Init) command()      {}
func (LoadModel) command() {}
func (DoMotion) command()  {}

// Wire layouts. Field order here is the field order on the wire.
type (
	initWire struct {
		Type   MessageType       `json:"type"`
		Canvas surface.Offscreen `json:"canvas"`
	}

	loadModelWire struct {
		Type         MessageType `json:"type"`
		ResourcePath string      `json:"resourcePath"`
		Name         string      `json:"name"`
	}

	doMotionWire struct {
		Type MessageType `json:"type"`
		Name string      `json:"name"`
	}

	envelope struct {
		Type MessageType `json:"type"`
	}
)

func (c Init) MarshalJSON() ([]byte, error) {
	return json.Marshal(initWire{Type: MessageInit, Canvas: c.Canvas})
}

func (c LoadModel) MarshalJSON() ([]byte, error) {
	return json.Marshal(loadModelWire{Type: MessageLoadModel, ResourcePath: c.ResourcePath, Name: c.Name})
}

func (c DoMotion) MarshalJSON() ([]byte, error) {
	return json.Marshal(doMotionWire{Type: MessageDoMotion, Name: c.Name})
}

// Encode renders a command in its wire shape.
//
// Parameters:
//   - c: the command to encode
//
// Returns:
//   - []byte: the JSON message
//   - error: error if encoding fails
func Encode(c Command) ([]byte, error) {
	if c == nil {
		return nil, fmt.Errorf("protocol: cannot encode nil command")
	}
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("protocol: encode %s: %w", c.Type(), err)
	}
	return data, nil
}

// Decode parses a wire message into its Command. A decoded Init carries a surface.Handle,
// since a live surface cannot cross a serialization boundary.
//
// Parameters:
//   - data: the JSON message
//
// Returns:
//   - Command: the decoded command
//   - error: ErrUnknownMessageType for an unknown tag, or a JSON error
func Decode(data []byte) (Command, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("protocol: decode envelope: %w", err)
	}

	switch env.Type {
	case MessageInit:
		var w struct {
			Canvas *surface.Handle `json:"canvas"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("protocol: decode %s: %w", env.Type, err)
		}
		if w.Canvas == nil {
			return Init{}, nil
		}
		return Init{Canvas: *w.Canvas}, nil
	case MessageLoadModel:
		var w loadModelWire
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("protocol: decode %s: %w", env.Type, err)
		}
		return LoadModel{ResourcePath: w.ResourcePath, Name: w.Name}, nil
	case MessageDoMotion:
		var w doMotionWire
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("protocol: decode %s: %w", env.Type, err)
		}
		return DoMotion{Name: w.Name}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMessageType, env.Type)
	}
}
