package engine

import "context"

type InitOptions struct {
	Dev    bool
	APIURL string
}

// Adapter is the boundary to the external detection, recording and upload
// engine. Commands are fire-and-forget: an error means the engine refused or
// never received the command, not that the recording itself failed.
type Adapter interface {
	Init(ctx context.Context, opts InitOptions) error
	StartRecording(ctx context.Context, windowHandle, uploadToken string) error
	StopRecording(ctx context.Context, windowHandle string) error
	UploadRecording(ctx context.Context, windowHandle string) error
	// Events is closed when the engine connection ends.
	Events() <-chan Event
}
