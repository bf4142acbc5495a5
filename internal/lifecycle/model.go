package lifecycle

import "time"

type Status string

const (
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	// StatusPaused is rendered by the UI from State.Recording; records never store it.
	StatusPaused Status = "paused"
)

// Recording is one recorded meeting and its upload progress. ID is the
// window handle the engine reported when the recording ended.
type Recording struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	UploadPercentage int    `json:"uploadPercentage"`
	Status           Status `json:"status"`
}

func (r Recording) terminal() bool {
	return r.Status == StatusCompleted || r.Status == StatusFailed
}

type DetectedMeeting struct {
	WindowHandle string
	DetectedAt   time.Time
}

// State is the snapshot pushed to the UI surface.
type State struct {
	Recording          bool        `json:"recording"`
	PermissionsGranted bool        `json:"permissions_granted"`
	Meetings           []Recording `json:"meetings"`
}
