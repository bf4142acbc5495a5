package engine

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrUnknownEvent   = errors.New("unknown engine event")
	ErrMalformedFrame = errors.New("malformed engine frame")
)

// eventFrame mirrors the payloads the engine sidecar forwards from the SDK
// callbacks, discriminated by Event.
type eventFrame struct {
	Event     Name            `json:"event"`
	Window    *Window         `json:"window,omitempty"`
	Progress  *int            `json:"progress,omitempty"`
	Type      string          `json:"type,omitempty"`
	Message   string          `json:"message,omitempty"`
	SDK       *sdkFrame       `json:"sdk,omitempty"`
	Name      string          `json:"name,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Capturing bool            `json:"capturing,omitempty"`
}

type sdkFrame struct {
	State struct {
		Code StateCode `json:"code"`
	} `json:"state"`
}

func DecodeEvent(data []byte) (Event, error) {
	var f eventFrame
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}
	switch f.Event {
	case NameMeetingDetected:
		w, err := requireWindow(f)
		if err != nil {
			return nil, err
		}
		return MeetingDetected{Window: w}, nil
	case NameMeetingClosed:
		w, err := requireWindow(f)
		if err != nil {
			return nil, err
		}
		return MeetingClosed{Window: w}, nil
	case NameMeetingUpdated:
		return MeetingUpdated{Window: optionalWindow(f)}, nil
	case NameRecordingEnded:
		w, err := requireWindow(f)
		if err != nil {
			return nil, err
		}
		return RecordingEnded{Window: w}, nil
	case NameUploadProgress:
		w, err := requireWindow(f)
		if err != nil {
			return nil, err
		}
		if f.Progress == nil {
			return nil, fmt.Errorf("%w: %s without progress", ErrMalformedFrame, f.Event)
		}
		return UploadProgress{Window: w, Progress: *f.Progress}, nil
	case NameError:
		return Error{Type: f.Type, Message: f.Message, Window: f.Window}, nil
	case NamePermissionsGranted:
		return PermissionsGranted{}, nil
	case NameSDKStateChange:
		if f.SDK == nil || f.SDK.State.Code == "" {
			return nil, fmt.Errorf("%w: %s without state code", ErrMalformedFrame, f.Event)
		}
		return SDKStateChange{Code: f.SDK.State.Code}, nil
	case NameRealtimeEvent:
		return RealtimeEvent{Window: optionalWindow(f), Event: f.Name, Data: f.Data}, nil
	case NameMediaCaptureStatus:
		return MediaCaptureStatus{Window: optionalWindow(f), Type: f.Type, Capturing: f.Capturing}, nil
	case "":
		return nil, fmt.Errorf("%w: missing event name", ErrMalformedFrame)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, f.Event)
	}
}

func requireWindow(f eventFrame) (Window, error) {
	if f.Window == nil || f.Window.ID == "" {
		return Window{}, fmt.Errorf("%w: %s without window id", ErrMalformedFrame, f.Event)
	}
	return *f.Window, nil
}

func optionalWindow(f eventFrame) Window {
	if f.Window == nil {
		return Window{}
	}
	return *f.Window
}

type CommandName string

const (
	CommandInit            CommandName = "init"
	CommandStartRecording  CommandName = "startRecording"
	CommandStopRecording   CommandName = "stopRecording"
	CommandUploadRecording CommandName = "uploadRecording"
)

// Command is the frame sent to the engine sidecar.
type Command struct {
	Command     CommandName     `json:"command"`
	WindowID    string          `json:"windowId,omitempty"`
	UploadToken string          `json:"uploadToken,omitempty"`
	Dev         bool            `json:"dev,omitempty"`
	APIURL      string          `json:"api_url,omitempty"`
	Config      json.RawMessage `json:"config,omitempty"`
}

func EncodeCommand(c Command) ([]byte, error) {
	switch c.Command {
	case CommandInit:
		if c.Config == nil {
			c.Config = json.RawMessage(`{}`)
		}
	case CommandStartRecording:
		if c.WindowID == "" || c.UploadToken == "" {
			return nil, fmt.Errorf("%s requires window id and upload token", c.Command)
		}
	case CommandStopRecording, CommandUploadRecording:
		if c.WindowID == "" {
			return nil, fmt.Errorf("%s requires window id", c.Command)
		}
	default:
		return nil, fmt.Errorf("unknown engine command %q", c.Command)
	}
	return json.Marshal(c)
}
