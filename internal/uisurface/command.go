package uisurface

type CommandName string

const (
	CommandOpenRecordingFolder CommandName = "open-recording-folder"
	CommandReupload            CommandName = "reupload"
	CommandStartRecording      CommandName = "start-recording"
	CommandStopRecording       CommandName = "stop-recording"
)

// Command is one of OpenRecordingFolder, Reupload, StartRecording or
// StopRecording.
type Command interface {
	CommandName() CommandName
	isCommand()
}

type OpenRecordingFolder struct{}

type Reupload struct{ ID string }

type StartRecording struct{}

type StopRecording struct{}

func (OpenRecordingFolder) CommandName() CommandName { return CommandOpenRecordingFolder }
func (Reupload) CommandName() CommandName            { return CommandReupload }
func (StartRecording) CommandName() CommandName      { return CommandStartRecording }
func (StopRecording) CommandName() CommandName       { return CommandStopRecording }

func (OpenRecordingFolder) isCommand() {}
func (Reupload) isCommand()            {}
func (StartRecording) isCommand()      {}
func (StopRecording) isCommand()       {}
