package uisurface

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/foxseedlab/rokuon/internal/lifecycle"
)

// Message types allowed on the UI channel. MessageTypeState only flows to the
// UI and MessageTypeCommand only flows from it.
const (
	MessageTypeState   = "state"
	MessageTypeCommand = "command"
)

var (
	ErrDisallowedMessage = errors.New("message type not allowed on ui channel")
	ErrUnknownCommand    = errors.New("unknown ui command")
	ErrMalformedMessage  = errors.New("malformed ui message")
)

// Message is the frame exchanged with the UI client.
type Message struct {
	Type    string           `json:"type"`
	State   *lifecycle.State `json:"state,omitempty"`
	Command CommandName      `json:"command,omitempty"`
	ID      string           `json:"id,omitempty"`
}

func EncodeState(state lifecycle.State) ([]byte, error) {
	if state.Meetings == nil {
		state.Meetings = []lifecycle.Recording{}
	}
	return EncodeOutbound(Message{Type: MessageTypeState, State: &state})
}

// EncodeOutbound refuses anything but a state message.
func EncodeOutbound(msg Message) ([]byte, error) {
	if msg.Type != MessageTypeState {
		return nil, fmt.Errorf("%w: outbound %q", ErrDisallowedMessage, msg.Type)
	}
	if msg.State == nil {
		return nil, fmt.Errorf("%w: state message without state", ErrMalformedMessage)
	}
	return json.Marshal(Message{Type: MessageTypeState, State: msg.State})
}

// DecodeInbound turns a raw frame from the UI into a Command.
func DecodeInbound(data []byte) (Command, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	if msg.Type != MessageTypeCommand {
		return nil, fmt.Errorf("%w: inbound %q", ErrDisallowedMessage, msg.Type)
	}
	switch msg.Command {
	case CommandOpenRecordingFolder:
		return OpenRecordingFolder{}, nil
	case CommandReupload:
		if msg.ID == "" {
			return nil, fmt.Errorf("%w: reupload requires id", ErrMalformedMessage)
		}
		return Reupload{ID: msg.ID}, nil
	case CommandStartRecording:
		return StartRecording{}, nil
	case CommandStopRecording:
		return StopRecording{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, msg.Command)
	}
}
