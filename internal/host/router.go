package host

import (
	"context"
	"errors"
	"log/slog"

	"github.com/foxseedlab/rokuon/internal/engine"
	"github.com/foxseedlab/rokuon/internal/lifecycle"
	"github.com/foxseedlab/rokuon/internal/notify"
	"github.com/foxseedlab/rokuon/internal/repository"
)

// HandleEvent applies one engine event to the lifecycle state.
func (m *Manager) HandleEvent(ctx context.Context, ev engine.Event) {
	switch e := ev.(type) {
	case engine.MeetingDetected:
		m.onMeetingDetected(ctx, e)
	case engine.MeetingClosed:
		slog.Info("meeting closed", "window_handle", e.Window.ID)
		m.store.ClearDetectedMeeting()
	case engine.RecordingEnded:
		m.onRecordingEnded(ctx, e)
	case engine.UploadProgress:
		m.onUploadProgress(e)
	case engine.Error:
		m.onEngineError(ctx, e)
	case engine.PermissionsGranted:
		if m.store.SetPermissionsGranted() {
			slog.Info("recording permissions granted")
			m.broadcast()
		}
	case engine.SDKStateChange:
		m.onSDKStateChange(ctx, e)
	case engine.MeetingUpdated:
		slog.Debug("meeting updated", "window_handle", e.Window.ID, "title", e.Window.Title, "platform", e.Window.Platform)
	case engine.RealtimeEvent:
		slog.Debug("realtime event", "window_handle", e.Window.ID, "event", e.Event, "data_bytes", len(e.Data))
	case engine.MediaCaptureStatus:
		slog.Info("media capture status", "window_handle", e.Window.ID, "type", e.Type, "capturing", e.Capturing)
	default:
		slog.Warn("unhandled engine event", "event", ev.EventName())
	}
}

func (m *Manager) onMeetingDetected(ctx context.Context, e engine.MeetingDetected) {
	handle := e.Window.ID
	if prev, ok := m.store.DetectedMeeting(); ok && prev.WindowHandle != handle {
		slog.Info("replacing detected meeting", "previous_window_handle", prev.WindowHandle, "window_handle", handle)
	}
	m.store.DetectMeeting(handle, m.now())
	slog.Info("meeting detected", "window_handle", handle, "platform", e.Window.Platform)

	if m.cfg.AutoRecord {
		slog.Info("auto record enabled; starting recording", "window_handle", handle)
		m.startRecording(ctx, handle)
		return
	}
	m.notifier.PresentMeetingAlert(ctx, notify.MeetingAlert{
		WindowHandle: handle,
		Title:        titleMeetingDetected,
		Body:         bodyMeetingDetected,
		Actions:      []string{notify.AlertActionRecord, notify.AlertActionIgnore},
	}, func() {
		m.AcceptAlert(handle)
	})
}

func (m *Manager) onRecordingEnded(ctx context.Context, e engine.RecordingEnded) {
	id := e.Window.ID
	title := formatRecordingTitle(m.now().In(m.loc))
	if err := m.store.AppendMeeting(lifecycle.Recording{ID: id, Title: title}); err != nil {
		if errors.Is(err, lifecycle.ErrDuplicateMeeting) {
			slog.Warn("recording ended for an already tracked recording; skipping upload", "recording_id", id)
			return
		}
		slog.Warn("failed to track ended recording", "recording_id", id, "error", err)
		return
	}
	slog.Info("recording ended; uploading", "recording_id", id, "title", title)
	m.broadcast()
	m.journal.record(id, repository.RecordingEventAppended, title, "", m.now())

	if err := m.engine.UploadRecording(ctx, id); err != nil {
		m.failRecording(ctx, id, err.Error())
	}
}

func (m *Manager) onUploadProgress(e engine.UploadProgress) {
	id := e.Window.ID
	update, err := m.store.UpdateMeetingProgress(id, e.Progress)
	if err != nil {
		slog.Warn("upload progress for untracked recording", "recording_id", id, "progress", e.Progress, "error", err)
		return
	}
	if !update.Changed {
		return
	}
	slog.Debug("upload progress", "recording_id", id, "progress", e.Progress)
	m.broadcast()
	if update.Completed {
		slog.Info("upload completed", "recording_id", id)
		rec, _ := m.store.Meeting(id)
		m.journal.record(id, repository.RecordingEventCompleted, rec.Title, "", m.now())
	}
}

func (m *Manager) onEngineError(ctx context.Context, e engine.Error) {
	slog.Error("engine reported error", "type", e.Type, "message", e.Message, "window_handle", e.WindowID())
	if e.IsUpload() && e.WindowID() != "" {
		m.failRecording(ctx, e.WindowID(), e.Message)
	} else {
		m.notifyError(ctx, titleError, engineErrorBody(e.Type, e.Message))
	}
	// Every engine error also raises the short toast next to the detailed notice.
	m.notifier.Notify(ctx, notify.Notice{Level: notify.LevelError, Title: titleError, Body: messageErrorOccurred})
}

// failRecording marks the record failed and tells the user. It is shared by
// engine upload errors and rejected upload commands.
func (m *Manager) failRecording(ctx context.Context, id, reason string) {
	changed, err := m.store.MarkMeetingFailed(id)
	switch {
	case err != nil:
		slog.Warn("upload failure for untracked recording", "recording_id", id, "error", err)
	case changed:
		m.broadcast()
		rec, _ := m.store.Meeting(id)
		m.journal.record(id, repository.RecordingEventFailed, rec.Title, reason, m.now())
	}
	m.notifyError(ctx, titleUploadError, uploadErrorBody(reason))
}

func (m *Manager) onSDKStateChange(ctx context.Context, e engine.SDKStateChange) {
	var indicator notify.Indicator
	switch e.Code {
	case engine.StateRecording:
		m.store.SetRecording(true)
		indicator = notify.IndicatorRecording
	case engine.StateIdle:
		m.store.SetRecording(false)
		indicator = notify.IndicatorNone
	case engine.StatePaused:
		m.store.SetRecording(false)
		indicator = notify.IndicatorPaused
	default:
		slog.Warn("unknown sdk state", "code", e.Code)
		return
	}
	slog.Info("sdk state changed", "code", e.Code)
	m.broadcast()
	m.notifier.SetIndicator(ctx, indicator)
}
