package engine

import "encoding/json"

type Name string

const (
	NameMeetingDetected    Name = "meeting-detected"
	NameMeetingClosed      Name = "meeting-closed"
	NameMeetingUpdated     Name = "meeting-updated"
	NameRecordingEnded     Name = "recording-ended"
	NameUploadProgress     Name = "upload-progress"
	NameError              Name = "error"
	NamePermissionsGranted Name = "permissions-granted"
	NameSDKStateChange     Name = "sdk-state-change"
	NameRealtimeEvent      Name = "realtime-event"
	NameMediaCaptureStatus Name = "media-capture-status"
)

const ErrorTypeUpload = "upload"

type StateCode string

const (
	StateRecording StateCode = "recording"
	StateIdle      StateCode = "idle"
	StatePaused    StateCode = "paused"
)

type Window struct {
	ID       string `json:"id"`
	Title    string `json:"title,omitempty"`
	Platform string `json:"platform,omitempty"`
	URL      string `json:"url,omitempty"`
}

// Event is one of the concrete event types below.
type Event interface {
	EventName() Name
	isEvent()
}

type MeetingDetected struct{ Window Window }

type MeetingClosed struct{ Window Window }

type MeetingUpdated struct{ Window Window }

type RecordingEnded struct{ Window Window }

type UploadProgress struct {
	Window   Window
	Progress int
}

type Error struct {
	Type    string
	Message string
	// Window is nil when the engine did not attribute the error to a window.
	Window *Window
}

type PermissionsGranted struct{}

type SDKStateChange struct{ Code StateCode }

type RealtimeEvent struct {
	Window Window
	Event  string
	Data   json.RawMessage
}

type MediaCaptureStatus struct {
	Window    Window
	Type      string
	Capturing bool
}

func (MeetingDetected) EventName() Name    { return NameMeetingDetected }
func (MeetingClosed) EventName() Name      { return NameMeetingClosed }
func (MeetingUpdated) EventName() Name     { return NameMeetingUpdated }
func (RecordingEnded) EventName() Name     { return NameRecordingEnded }
func (UploadProgress) EventName() Name     { return NameUploadProgress }
func (Error) EventName() Name              { return NameError }
func (PermissionsGranted) EventName() Name { return NamePermissionsGranted }
func (SDKStateChange) EventName() Name     { return NameSDKStateChange }
func (RealtimeEvent) EventName() Name      { return NameRealtimeEvent }
func (MediaCaptureStatus) EventName() Name { return NameMediaCaptureStatus }

func (MeetingDetected) isEvent()    {}
func (MeetingClosed) isEvent()      {}
func (MeetingUpdated) isEvent()     {}
func (RecordingEnded) isEvent()     {}
func (UploadProgress) isEvent()     {}
func (Error) isEvent()              {}
func (PermissionsGranted) isEvent() {}
func (SDKStateChange) isEvent()     {}
func (RealtimeEvent) isEvent()      {}
func (MediaCaptureStatus) isEvent() {}

// IsUpload reports whether the error concerns a recording upload.
func (e Error) IsUpload() bool {
	return e.Type == ErrorTypeUpload
}

// WindowID returns the attributed window id, or "".
func (e Error) WindowID() string {
	if e.Window == nil {
		return ""
	}
	return e.Window.ID
}
