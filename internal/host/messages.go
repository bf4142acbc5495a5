package host

import (
	"fmt"
	"time"
)

const (
	messageNoMeetingInProgress = "There is no meeting in progress."
	messageErrorOccurred       = "An error occurred."

	titleMeetingDetected = "Meeting detected"
	bodyMeetingDetected  = "Click here to record the meeting."

	titleRecordingError  = "Recording Error"
	titleUploadError     = "Upload error"
	titleError           = "Error"
	titleUnexpectedError = "Unexpected error"

	recordingTitleLayout = "01-02-06 03:04 PM"
)

func startRecordingErrorBody(err error) string {
	return fmt.Sprintf("Failed to start recording:\n%v", err)
}

func stopRecordingErrorBody(err error) string {
	return fmt.Sprintf("Failed to stop recording:\n%v", err)
}

func uploadErrorBody(reason string) string {
	return "There was an error uploading the recording. Reason: " + reason
}

func engineErrorBody(errorType, message string) string {
	return fmt.Sprintf("An error occurred. Reason: %s -- %s", errorType, message)
}

func unexpectedErrorBody(r any) string {
	return fmt.Sprintf("rokuon hit an internal error and will exit. Reason: %v", r)
}

// formatRecordingTitle renders the user-facing title, e.g. "03-07-25 02:05 PM".
func formatRecordingTitle(t time.Time) string {
	return t.Format(recordingTitleLayout)
}
